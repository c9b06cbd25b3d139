// Package cli holds the configuration and logging plumbing shared by the
// keygen, encrypt and decrypt programs.
package cli

import (
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding flag defaults,
// e.g. SS_BITS for --bits.
const EnvPrefix = "SS"

const (
	KeyVerbose = "verbose"
	KeyConfig  = "config"
)

// NewFlagSet returns a flag set with the options common to every program.
//
// synopsis is printed above the flag list when --help is given.
func NewFlagSet(name, synopsis string, out io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(out)
	fs.SortFlags = false
	fs.BoolP(KeyVerbose, "v", false, "Display verbose program output.")
	fs.String(KeyConfig, "", "Optional YAML configuration file.")
	fs.Usage = func() {
		_, _ = io.WriteString(out, "SYNOPSIS\n   "+synopsis+"\n\nUSAGE\n   "+name+" [OPTIONS]\n\nOPTIONS\n")
		_, _ = io.WriteString(out, fs.FlagUsages())
	}
	return fs
}

// ErrHelp is returned by Load when help was requested; the usage has already been printed.
var ErrHelp = pflag.ErrHelp

// Load parses args and returns the resulting configuration.
//
// Values are resolved in order: command-line flags, SS_* environment variables,
// the --config file, and finally flag defaults.
func Load(fs *pflag.FlagSet, args []string) (*viper.Viper, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, ErrHelp
		}
		return nil, errors.Wrap(err, "parse flags")
	}
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, errors.Wrap(err, "bind flags")
	}
	if path := v.GetString(KeyConfig); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	}
	return v, nil
}
