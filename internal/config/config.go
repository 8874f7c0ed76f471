package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the runtime settings. Paths are handed to the store and the
// upload coordinator explicitly; nothing reads them globally.
type Config struct {
	Addr      string `yaml:"addr"`
	DataFile  string `yaml:"data_file"`
	UploadDir string `yaml:"upload_dir"`
	Debug     bool   `yaml:"debug"`
}

// Default returns the built-in settings: serve on :8080, keep the collection
// next to the binary and uploads in ./uploads.
func Default() Config {
	return Config{
		Addr:      ":8080",
		DataFile:  "responses.json",
		UploadDir: "uploads",
	}
}

// Load reads an optional YAML config file on top of the defaults. An empty
// path or a missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
