package cfg

import (
	"cmp"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

// Build turns parsed global options into a Cfg. Values from the optional YAML
// file fill every option that was given neither on the command line nor
// through its environment variable.
func Build(parser *flags.Parser, opts *Options) (*Cfg, error) {
	if opts.ConfigFile != "" {
		fc, err := loadFile(opts.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", opts.ConfigFile, err)
		}
		fc.apply(opts, func(long string) bool {
			return overridable(parser, long)
		})
	}

	if opts.HTTPTimeout < 0 {
		return nil, fmt.Errorf("http timeout must be non-negative")
	}

	c := &Cfg{
		APIHost:        strings.TrimRight(opts.APIHost, "/"),
		Token:          opts.Token,
		APIVersion:     opts.APIVersion,
		VerifySSL:      opts.VerifySSL,
		AccountBaseURL: strings.TrimRight(opts.AccountBaseURL, "/"),
		HTTPTimeout:    time.Duration(opts.HTTPTimeout) * time.Second,
		DBPath:         opts.DBPath,
		ResourcesFile:  opts.ResourcesFile,
		UserAgent:      opts.UserAgent,
		Timezone:       opts.Timezone,
		Debug:          opts.Debug,
		Version:        GetVersion(),
	}

	if err := applyTimezone(c.Timezone); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Invalid timezone '%s', using system default: %v\n", c.Timezone, err)
	}

	return c, nil
}

func overridable(parser *flags.Parser, long string) bool {
	if parser == nil {
		return true
	}

	opt := parser.FindOptionByLongName(long)
	if opt == nil {
		return false
	}

	if opt.IsSet() && !opt.IsSetDefault() {
		return false
	}

	if opt.EnvDefaultKey != "" {
		if _, ok := os.LookupEnv(opt.EnvDefaultKey); ok {
			return false
		}
	}

	return true
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		loc, err := time.LoadLocation(timezone)
		if err != nil {
			return err
		}
		time.Local = loc
	}
	return nil
}
