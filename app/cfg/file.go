package cfg

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileCfg mirrors Options for the optional YAML file. Pointers tell an
// absent key apart from a zero value.
type fileCfg struct {
	APIHost        *string `yaml:"api_host"`
	Token          *string `yaml:"token"`
	APIVersion     *string `yaml:"api_version"`
	VerifySSL      *bool   `yaml:"verify_ssl"`
	AccountBaseURL *string `yaml:"account_base_url"`
	HTTPTimeout    *int    `yaml:"http_timeout"`
	DBPath         *string `yaml:"db_path"`
	ResourcesFile  *string `yaml:"resources_file"`
	UserAgent      *string `yaml:"user_agent"`
	Timezone       *string `yaml:"timezone"`
	Debug          *bool   `yaml:"debug"`
}

func loadFile(path string) (*fileCfg, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var fc fileCfg
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if fc.HTTPTimeout != nil && *fc.HTTPTimeout < 0 {
		return nil, fmt.Errorf("http_timeout must be non-negative")
	}

	return &fc, nil
}

// apply copies file values into opts for every option the caller lets it
// override.
func (fc *fileCfg) apply(opts *Options, overridable func(long string) bool) {
	setString := func(long string, dst *string, src *string) {
		if src != nil && overridable(long) {
			*dst = *src
		}
	}
	setBool := func(long string, dst *bool, src *bool) {
		if src != nil && overridable(long) {
			*dst = *src
		}
	}

	setString("api-host", &opts.APIHost, fc.APIHost)
	setString("token", &opts.Token, fc.Token)
	setString("api-version", &opts.APIVersion, fc.APIVersion)
	setBool("verify-ssl", &opts.VerifySSL, fc.VerifySSL)
	setString("account-base-url", &opts.AccountBaseURL, fc.AccountBaseURL)
	if fc.HTTPTimeout != nil && overridable("http-timeout") {
		opts.HTTPTimeout = *fc.HTTPTimeout
	}
	setString("db-path", &opts.DBPath, fc.DBPath)
	setString("resources", &opts.ResourcesFile, fc.ResourcesFile)
	setString("user-agent", &opts.UserAgent, fc.UserAgent)
	setString("timezone", &opts.Timezone, fc.Timezone)
	setBool("debug", &opts.Debug, fc.Debug)
}
