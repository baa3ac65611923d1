package cfg

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jessevdk/go-flags"
)

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func parseOptions(t *testing.T, args ...string) (*flags.Parser, *Options) {
	t.Helper()
	var opts Options
	parser := flags.NewParser(&opts, flags.None)
	if _, err := parser.ParseArgs(args); err != nil {
		t.Fatalf("Failed to parse args: %v", err)
	}
	return parser, &opts
}

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestBuildDefaults(t *testing.T) {
	clearEnv(t, "VK_COMB_CONFIG", "VK_API_HOST", "VK_TOKEN", "VK_API_VERSION", "VK_VERIFY_SSL",
		"VK_ACCOUNT_BASE_URL", "HTTP_TIMEOUT", "DB_PATH", "RESOURCES_FILE")

	parser, opts := parseOptions(t)
	c, err := Build(parser, opts)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if c.APIHost != "https://api.vk.com" {
		t.Errorf("Expected default API host, got '%s'", c.APIHost)
	}
	if c.APIVersion != "5.122" {
		t.Errorf("Expected API version '5.122', got '%s'", c.APIVersion)
	}
	if c.VerifySSL {
		t.Error("TLS verification should be relaxed by default")
	}
	if c.AccountBaseURL != "https://vk.com" {
		t.Errorf("Expected account base URL 'https://vk.com', got '%s'", c.AccountBaseURL)
	}
	if c.HTTPTimeout != 0 {
		t.Errorf("Expected no HTTP timeout, got %v", c.HTTPTimeout)
	}
}

func TestBuildAppliesConfigFile(t *testing.T) {
	clearEnv(t, "VK_TOKEN", "VK_API_VERSION", "DB_PATH", "VK_VERIFY_SSL", "HTTP_TIMEOUT", "VK_ACCOUNT_BASE_URL")

	content := `
token: "file-token"
api_version: "5.199"
db_path: "/tmp/from-file.sqlite"
verify_ssl: true
http_timeout: 15
account_base_url: "https://vk.com/someone/"
`
	path := filepath.Join(t.TempDir(), "vk-comb.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	parser, opts := parseOptions(t, "--config", path, "--token", "cli-token")
	c, err := Build(parser, opts)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if c.Token != "cli-token" {
		t.Errorf("Command line token should win over file, got '%s'", c.Token)
	}
	if c.APIVersion != "5.199" {
		t.Errorf("Expected API version from file, got '%s'", c.APIVersion)
	}
	if c.DBPath != "/tmp/from-file.sqlite" {
		t.Errorf("Expected DB path from file, got '%s'", c.DBPath)
	}
	if !c.VerifySSL {
		t.Error("Expected TLS verification enabled from file")
	}
	if c.HTTPTimeout != 15*time.Second {
		t.Errorf("Expected 15s timeout, got %v", c.HTTPTimeout)
	}
	if c.AccountBaseURL != "https://vk.com/someone" {
		t.Errorf("Expected trailing slash trimmed, got '%s'", c.AccountBaseURL)
	}
}

func TestBuildEnvironmentWinsOverFile(t *testing.T) {
	clearEnv(t, "VK_API_VERSION")
	t.Setenv("VK_TOKEN", "env-token")

	path := filepath.Join(t.TempDir(), "vk-comb.yml")
	if err := os.WriteFile(path, []byte("token: file-token\n"), 0644); err != nil {
		t.Fatal(err)
	}

	parser, opts := parseOptions(t, "--config", path)
	c, err := Build(parser, opts)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if c.Token != "env-token" {
		t.Errorf("Environment token should win over file, got '%s'", c.Token)
	}
}

func TestBuildRejectsBrokenConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yml")
	if err := os.WriteFile(path, []byte("token: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}

	parser, opts := parseOptions(t, "--config", path)
	if _, err := Build(parser, opts); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestBuildRejectsMissingConfigFile(t *testing.T) {
	parser, opts := parseOptions(t, "--config", filepath.Join(t.TempDir(), "missing.yml"))
	if _, err := Build(parser, opts); err == nil {
		t.Error("Expected error for missing config file")
	}
}
