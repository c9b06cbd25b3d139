package main

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/taurusgroup/schmidt-samoa/internal/cli"
	"github.com/taurusgroup/schmidt-samoa/pkg/ss"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil && !errors.Is(err, cli.ErrHelp) {
		logger := cli.Logger(os.Stderr, false)
		logger.Fatal().Err(err).Msg("decrypt")
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) (err error) {
	fs := cli.NewFlagSet("decrypt", "Decrypts data using SS decryption. Encrypted data is encrypted by the encrypt program.", stdout)
	fs.StringP("infile", "i", "", "Input file of data to decrypt (default: stdin).")
	fs.StringP("outfile", "o", "", "Output file for decrypted data (default: stdout).")
	fs.StringP("privkey", "n", "ss.priv", "Private key file.")
	fs.StringP("format", "f", string(ss.FormatText), "Key file format, text or cbor.")

	v, err := cli.Load(fs, args)
	if err != nil {
		return err
	}
	log := cli.Logger(stderr, v.GetBool(cli.KeyVerbose))

	format, err := ss.ParseFormat(v.GetString("format"))
	if err != nil {
		return err
	}
	keyFile, err := cli.OpenInput(v.GetString("privkey"), nil)
	if err != nil {
		return err
	}
	sk, err := ss.ReadPrivateKey(keyFile, format)
	_ = keyFile.Close()
	if err != nil {
		return err
	}
	log.Debug().Int("bits", sk.PQ().BitLen()).Str("value", sk.PQ().String()).Msg("pq")
	log.Debug().Int("bits", sk.D().BitLen()).Str("value", sk.D().String()).Msg("d")

	in, err := cli.OpenInput(v.GetString("infile"), stdin)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := cli.CreateOutput(v.GetString("outfile"), 0o644, stdout)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	return sk.DecryptStream(out, in)
}
