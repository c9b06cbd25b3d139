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
		logger.Fatal().Err(err).Msg("encrypt")
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) (err error) {
	fs := cli.NewFlagSet("encrypt", "Encrypts data using SS encryption. Encrypted data is decrypted by the decrypt program.", stdout)
	fs.StringP("infile", "i", "", "Input file of data to encrypt (default: stdin).")
	fs.StringP("outfile", "o", "", "Output file for encrypted data (default: stdout).")
	fs.StringP("pubkey", "n", "ss.pub", "Public key file.")
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
	keyFile, err := cli.OpenInput(v.GetString("pubkey"), nil)
	if err != nil {
		return err
	}
	pk, err := ss.ReadPublicKey(keyFile, format)
	_ = keyFile.Close()
	if err != nil {
		return err
	}
	log.Debug().Str("user", pk.User()).Msg("user")
	log.Debug().Int("bits", pk.N().BitLen()).Str("value", pk.N().String()).Msg("n")

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
	return pk.EncryptStream(out, in)
}
