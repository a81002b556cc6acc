package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

const defaultConfigName = "quark.toml"

// fileConfig mirrors quark.toml. Keys missing from the file keep the values
// from defaultConfig.
type fileConfig struct {
	Output outputConfig `toml:"output"`
	Log    logConfig    `toml:"log"`
	Run    runConfig    `toml:"run"`

	source string
}

type outputConfig struct {
	Color     bool   `toml:"color"`
	ASTFormat string `toml:"ast_format"`
}

type logConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type runConfig struct {
	StepQuota int `toml:"step_quota"`
}

func defaultConfig() fileConfig {
	return fileConfig{
		Output: outputConfig{Color: true, ASTFormat: "sexp"},
		Log:    logConfig{Level: "warn"},
		Run:    runConfig{StepQuota: 100000},
	}
}

var astFormats = []string{"sexp", "yaml", "json", "dot"}

// loadConfig reads path, or ./quark.toml when path is empty. A missing
// default file is not an error; a missing explicit one is.
func loadConfig(path string) (fileConfig, error) {
	cfg := defaultConfig()

	if path == "" {
		if _, err := os.Stat(defaultConfigName); errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		path = defaultConfigName
	}
	path = os.ExpandEnv(path)

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return cfg, fmt.Errorf("load config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	cfg.source = path

	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

func (c fileConfig) validate() error {
	if !isASTFormat(c.Output.ASTFormat) {
		return fmt.Errorf("output.ast_format must be one of %s, got %q", strings.Join(astFormats, ", "), c.Output.ASTFormat)
	}
	if c.Run.StepQuota < 0 {
		return fmt.Errorf("run.step_quota must not be negative, got %d", c.Run.StepQuota)
	}
	return nil
}

func isASTFormat(format string) bool {
	for _, f := range astFormats {
		if f == format {
			return true
		}
	}
	return false
}
