package cfg

import "time"

type Cfg struct {
	// VK API
	APIHost        string
	Token          string
	APIVersion     string
	VerifySSL      bool
	AccountBaseURL string
	HTTPTimeout    time.Duration

	// Storage
	DBPath        string
	ResourcesFile string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}

// Options is the set of global flags shared by every command.
type Options struct {
	ConfigFile string `long:"config" env:"VK_COMB_CONFIG" description:"Optional YAML file with defaults for the options below"`

	// VK API
	APIHost        string `long:"api-host" env:"VK_API_HOST" default:"https://api.vk.com" description:"VK API host"`
	Token          string `long:"token" env:"VK_TOKEN" description:"VK API access token"`
	APIVersion     string `long:"api-version" env:"VK_API_VERSION" default:"5.122" description:"VK API version"`
	VerifySSL      bool   `long:"verify-ssl" env:"VK_VERIFY_SSL" description:"Verify TLS certificates of the VK API"`
	AccountBaseURL string `long:"account-base-url" env:"VK_ACCOUNT_BASE_URL" default:"https://vk.com" description:"Base URL used to build links to posts and comments"`
	HTTPTimeout    int    `long:"http-timeout" env:"HTTP_TIMEOUT" default:"0" description:"HTTP timeout in seconds (0 disables the timeout)"`

	// Storage
	DBPath        string `long:"db-path" env:"DB_PATH" default:"./storage/vk-comb.sqlite" description:"SQLite database file"`
	ResourcesFile string `long:"resources" env:"RESOURCES_FILE" default:"./storage/resources.csv" description:"CSV list of group URLs"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"VK Comb/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" description:"Timezone for dates (e.g., UTC, Europe/Moscow)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}
