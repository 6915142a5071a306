package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors run's flags so a YAML file can seed defaults that the
// command line then overrides. Zero values are left alone by mergeConfig.
type fileConfig struct {
	Domain    string `yaml:"domain"`
	Wordlist  string `yaml:"wordlist"`
	Resolvers string `yaml:"resolvers"`
	Threads   int    `yaml:"threads"`
	CSV       string `yaml:"csv"`
	Text      string `yaml:"text"`
	NoColor   bool   `yaml:"no_color"`
}

func loadFileConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// mergeConfig fills in any flag left at its zero value from cfg, giving
// explicit command-line flags priority.
func mergeConfig(r *runOptions, cfg fileConfig) {
	if r.domain == "" {
		r.domain = cfg.Domain
	}
	if r.wordlist == "" {
		r.wordlist = cfg.Wordlist
	}
	if r.resolvers == "" {
		r.resolvers = cfg.Resolvers
	}
	if r.threads == 0 {
		r.threads = cfg.Threads
	}
	if r.csvPath == "" {
		r.csvPath = cfg.CSV
	}
	if r.textPath == "" {
		r.textPath = cfg.Text
	}
	if cfg.NoColor {
		r.noColor = true
	}
}
