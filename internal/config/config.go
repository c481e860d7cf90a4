package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Timetable TimetableConfig `mapstructure:"timetable"`
	Courses   CoursesConfig   `mapstructure:"courses"`
}

type DatabaseConfig struct {
	Path        string        `mapstructure:"path"`
	Timeout     time.Duration `mapstructure:"timeout"`
	SearchIndex string        `mapstructure:"search_index"`
}

type TimetableConfig struct {
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	UserAgent   string        `mapstructure:"user_agent"`
}

type CoursesConfig struct {
	// DefaultCourse is the course id used when no --course flag is given.
	DefaultCourse string `mapstructure:"default_course"`
	DefaultYear   int    `mapstructure:"default_year"`
	// CatalogFile is an optional TOML file with extra course definitions.
	CatalogFile string `mapstructure:"catalog_file"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	dbPath := filepath.Join(homeDir, ".orario.db")
	searchIndexPath := filepath.Join(homeDir, ".orario", "index.bleve")
	catalogPath := filepath.Join(homeDir, ".config", "orario", "courses.toml")

	return &Config{
		Database: DatabaseConfig{
			Path:        dbPath,
			Timeout:     1 * time.Second,
			SearchIndex: searchIndexPath,
		},
		Timetable: TimetableConfig{
			HTTPTimeout: 30 * time.Second,
			UserAgent:   "orario/1.0 (https://github.com/BrrBrr1/UniboOrario)",
		},
		Courses: CoursesConfig{
			DefaultCourse: "lingue-comunicazione-interculturale",
			DefaultYear:   1,
			CatalogFile:   catalogPath,
		},
	}
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	cfg := defaultConfig()
	v.SetDefault("database", cfg.Database)
	v.SetDefault("timetable", cfg.Timetable)
	v.SetDefault("courses", cfg.Courses)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		homeDir, _ := os.UserHomeDir()
		configDir := filepath.Join(homeDir, ".config", "orario")

		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("ORARIO")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	expandPaths(&config)

	return &config, nil
}

// expandPath expands ~ to the home directory and converts to an absolute path.
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func expandPaths(cfg *Config) {
	cfg.Database.Path = expandPath(cfg.Database.Path)
	cfg.Database.SearchIndex = expandPath(cfg.Database.SearchIndex)
	cfg.Courses.CatalogFile = expandPath(cfg.Courses.CatalogFile)
}

func Save(config *Config, path string) error {
	v := viper.New()

	// Durations as strings for TOML readability
	dbCfg := map[string]interface{}{
		"path":         config.Database.Path,
		"timeout":      config.Database.Timeout.String(),
		"search_index": config.Database.SearchIndex,
	}

	ttCfg := map[string]interface{}{
		"http_timeout": config.Timetable.HTTPTimeout.String(),
		"user_agent":   config.Timetable.UserAgent,
	}

	v.Set("database", dbCfg)
	v.Set("timetable", ttCfg)
	v.Set("courses", config.Courses)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
