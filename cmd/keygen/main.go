package main

import (
	"io"
	"os"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/taurusgroup/schmidt-samoa/internal/cli"
	"github.com/taurusgroup/schmidt-samoa/internal/params"
	"github.com/taurusgroup/schmidt-samoa/pkg/pool"
	"github.com/taurusgroup/schmidt-samoa/pkg/randstate"
	"github.com/taurusgroup/schmidt-samoa/pkg/ss"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil && !errors.Is(err, cli.ErrHelp) {
		logger := cli.Logger(os.Stderr, false)
		logger.Fatal().Err(err).Msg("keygen")
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := cli.NewFlagSet("keygen", "Generates an SS public/private key pair.", stdout)
	fs.IntP("bits", "b", params.DefaultBits, "Maximum bits of public key n, which has at least bits - 2.")
	fs.IntP("iters", "i", params.DefaultIterations, "Miller-Rabin iterations for testing primes.")
	fs.StringP("pubkey", "n", "ss.pub", "Public key file.")
	fs.StringP("privkey", "d", "ss.priv", "Private key file.")
	fs.StringP("seed", "s", "", "Random seed for testing (default: current time).")
	fs.StringP("format", "f", string(ss.FormatText), "Key file format, text or cbor.")
	fs.StringP("user", "u", os.Getenv("USER"), "Name of the key owner.")
	fs.IntP("workers", "w", 1, "Workers per prime search, 0 for one per CPU; with more than one, the seed no longer fixes the key.")

	v, err := cli.Load(fs, args)
	if err != nil {
		return err
	}
	log := cli.Logger(stderr, v.GetBool(cli.KeyVerbose))

	format, err := ss.ParseFormat(v.GetString("format"))
	if err != nil {
		return err
	}
	seed := uint64(time.Now().Unix())
	if s := v.GetString("seed"); s != "" {
		if seed, err = strconv.ParseUint(s, 10, 64); err != nil {
			return errors.Wrapf(err, "invalid seed %q", s)
		}
	}

	var pl *pool.Pool
	if workers := v.GetInt("workers"); workers != 1 {
		pl = pool.NewPool(workers)
		defer pl.TearDown()
	}
	log.Debug().Int("workers", pl.Workers()).Msg("prime search")

	pk, sk, err := ss.GenerateKey(randstate.New(seed), pl, v.GetInt("bits"), v.GetInt("iters"), v.GetString("user"))
	if err != nil {
		return err
	}

	if err = writeKey(v.GetString("pubkey"), 0o644, func(w io.Writer) error {
		return ss.WritePublicKey(w, pk, format)
	}); err != nil {
		return err
	}
	if err = writeKey(v.GetString("privkey"), 0o600, func(w io.Writer) error {
		return ss.WritePrivateKey(w, sk, format)
	}); err != nil {
		return err
	}

	log.Debug().Str("user", pk.User()).Uint64("seed", seed).Msg("generated key pair")
	if p, q, ok := sk.Factors(); ok {
		log.Debug().Int("bits", p.BitLen()).Str("value", p.String()).Msg("p")
		log.Debug().Int("bits", q.BitLen()).Str("value", q.String()).Msg("q")
	}
	log.Debug().Int("bits", pk.N().BitLen()).Str("value", pk.N().String()).Msg("n")
	log.Debug().Int("bits", sk.PQ().BitLen()).Str("value", sk.PQ().String()).Msg("pq")
	log.Debug().Int("bits", sk.D().BitLen()).Str("value", sk.D().String()).Msg("d")
	return nil
}

func writeKey(path string, perm os.FileMode, write func(io.Writer) error) error {
	f, err := cli.CreateOutput(path, perm, nil)
	if err != nil {
		return err
	}
	if err = write(f); err != nil {
		_ = f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "close %s", path)
}
