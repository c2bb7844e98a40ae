package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config drives one invocation: which module to load, which function to
// call, and where the Arrow IPC bytes come from and go to.
type Config struct {
	Module   string // path to the compiled function module (.wasm)
	Function string // registered function name; empty uses the bound entry point
	Input    string // path to the input Arrow IPC file
	Output   string // path to write the result file
}

type fileConfig struct {
	Module   string `toml:"module"`
	Function string `toml:"function"`
	Input    string `toml:"input"`
	Output   string `toml:"output"`
}

func defaultConfig() Config {
	return Config{
		Output: "result.arrow",
	}
}

func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("module") {
		cfg.Module = strings.TrimSpace(raw.Module)
	}
	if meta.IsDefined("function") {
		cfg.Function = strings.TrimSpace(raw.Function)
	}
	if meta.IsDefined("input") {
		cfg.Input = strings.TrimSpace(raw.Input)
	}
	if meta.IsDefined("output") {
		out := strings.TrimSpace(raw.Output)
		if out != "" {
			cfg.Output = out
		}
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.Module == "" {
		return fmt.Errorf("module path is required")
	}
	return nil
}
