// Package config loads server configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Render   RenderConfig   `yaml:"render"`
}

type ServerConfig struct {
	Port     string `yaml:"port" env:"PORT"`
	Host     string `yaml:"host" env:"HOST"`
	Debug    bool   `yaml:"debug" env:"DEBUG"`
	BasePath string `yaml:"base_path" env:"BASE_PATH"`
}

type DatabaseConfig struct {
	// Type is "sqlite" or "memory".
	Type string `yaml:"type" env:"DB_TYPE"`
	Path string `yaml:"path" env:"DB_PATH"`
}

type RenderConfig struct {
	// TemplatesDir overrides the embedded HTML template bundle.
	TemplatesDir string `yaml:"templates_dir" env:"TEMPLATES_DIR"`
	Theme        string `yaml:"theme" env:"THEME"`
	ThemeVariant string `yaml:"theme_variant" env:"THEME_VARIANT"`
}

// Load reads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	config := &Config{}

	config.setDefaults()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			if err := yaml.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	config.loadFromEnv()

	return config, nil
}

func (c *Config) setDefaults() {
	c.Server.Port = "8080"
	c.Server.Host = "0.0.0.0"
	c.Server.BasePath = "/f"

	c.Database.Type = "sqlite"
	c.Database.Path = "formbuilder.db"
}

func (c *Config) loadFromEnv() {
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Port = port
	}
	if host := os.Getenv("HOST"); host != "" {
		c.Server.Host = host
	}
	if debug := os.Getenv("DEBUG"); debug == "true" {
		c.Server.Debug = true
	}
	if basePath := os.Getenv("BASE_PATH"); basePath != "" {
		c.Server.BasePath = basePath
	}

	if dbType := os.Getenv("DB_TYPE"); dbType != "" {
		c.Database.Type = dbType
	}
	if dbPath := os.Getenv("DB_PATH"); dbPath != "" {
		c.Database.Path = dbPath
	}

	if templatesDir := os.Getenv("TEMPLATES_DIR"); templatesDir != "" {
		c.Render.TemplatesDir = templatesDir
	}
	if theme := os.Getenv("THEME"); theme != "" {
		c.Render.Theme = theme
	}
	if variant := os.Getenv("THEME_VARIANT"); variant != "" {
		c.Render.ThemeVariant = variant
	}
}
