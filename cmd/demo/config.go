package main

import (
	_ "embed"

	"github.com/vcrobe/nojs-history/config"
	"github.com/vcrobe/nojs-history/console"
)

//go:embed demo.toml
var rawConfig []byte

// loadConfig parses the embedded settings and applies the log level.
func loadConfig() (config.Config, error) {
	cfg, err := config.Parse("demo.toml", rawConfig)
	if err != nil {
		return config.Config{}, err
	}
	console.SetRawLevel(cfg.LogLevel)
	return cfg, nil
}
