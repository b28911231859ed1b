package main

import (
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aurelia-labs/moodvault"
	"github.com/aurelia-labs/moodvault/pkg/notify"
)

const configFileName = "moodvault.yaml"

// appConfig is the optional CLI configuration file, looked up in the
// working directory.
type appConfig struct {
	Root   string `yaml:"root"`
	Author struct {
		Name  string `yaml:"name"`
		Email string `yaml:"email"`
	} `yaml:"author"`
}

// loadAppConfig reads moodvault.yaml if present. A missing file is not an
// error; flags still override everything.
func loadAppConfig() (appConfig, error) {
	var cfg appConfig
	raw, err := os.ReadFile(configFileName)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// resolveRoot picks the store root: --root flag, then config file, then
// ./data.
func resolveRoot(cfg appConfig) string {
	if rootFlag != "" {
		return rootFlag
	}
	if cfg.Root != "" {
		return cfg.Root
	}
	return "data"
}

// openApp wires the application for a CLI command.
func openApp(extra ...moodvault.Option) (*moodvault.App, error) {
	cfg, err := loadAppConfig()
	if err != nil {
		return nil, err
	}

	opts := []moodvault.Option{
		moodvault.WithLogger(slog.Default()),
		moodvault.WithVersioning(!gitless),
		moodvault.WithIdentity(cfg.Author.Name, cfg.Author.Email),
		moodvault.WithDispatcher(notify.NewMatrix(slog.Default())),
	}
	opts = append(opts, extra...)

	return moodvault.New(resolveRoot(cfg), opts...)
}
