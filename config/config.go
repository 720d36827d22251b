package config

import (
	"github.com/jinzhu/configor"
)

// Config - Application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Fetch    FetchConfig    `yaml:"fetch"`
	Probe    ProbeConfig    `yaml:"probe"`
	Classify ClassifyConfig `yaml:"classify"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Port         int    `yaml:"port" default:"3050" env:"PORT"`
	StaticDir    string `yaml:"static_dir" default:"public" env:"STATIC_DIR"`
	DisableCORS  bool   `yaml:"disable_cors" env:"SERVER_DISABLE_CORS"`
	ReadTimeout  int    `yaml:"read_timeout" default:"15" env:"SERVER_READ_TIMEOUT"`    // seconds
	WriteTimeout int    `yaml:"write_timeout" default:"120" env:"SERVER_WRITE_TIMEOUT"` // seconds, must cover three fetch attempts plus probes
}

type FetchConfig struct {
	Timeout      int    `yaml:"timeout" default:"10" env:"FETCH_TIMEOUT"` // per strategy, seconds
	UserAgent    string `yaml:"user_agent" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36" env:"FETCH_USER_AGENT"`
	MaxBodyBytes int64  `yaml:"max_body_bytes" default:"5242880" env:"FETCH_MAX_BODY_BYTES"`
}

type ProbeConfig struct {
	Timeout      int `yaml:"timeout" default:"5" env:"PROBE_TIMEOUT"`              // seconds
	MaxResources int `yaml:"max_resources" default:"30" env:"PROBE_MAX_RESOURCES"` // resources past this index are never probed
	MaxWorkers   int `yaml:"max_workers" default:"30" env:"PROBE_MAX_WORKERS"`
}

type ClassifyConfig struct {
	// PublicSuffix switches first/third-party classification from the
	// last-two-labels heuristic to the public suffix list.
	PublicSuffix bool `yaml:"public_suffix" env:"CLASSIFY_PUBLIC_SUFFIX"`
}

type LogConfig struct {
	Debug bool   `yaml:"debug" env:"LOG_DEBUG"`
	Path  string `yaml:"path" env:"LOG_PATH"`
}

// LoadConfig - Load configuration file. An empty path loads defaults and
// environment overrides only.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	files := []string{}
	if path != "" {
		files = append(files, path)
	}
	err := configor.New(&configor.Config{
		Debug:      false,
		Verbose:    false,
		Silent:     true,
		AutoReload: false,
	}).Load(cfg, files...)
	return cfg, err
}
