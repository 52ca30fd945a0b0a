package config

import (
	"os"
	"path/filepath"
	"strconv"
)

// Env holds the process-level settings read from ROADMAP_* variables.
type Env struct {
	DocumentPath string
	SettingsPath string
	DBPath       string
	Addr         string
	Log          bool
}

// DefaultEnv returns the environment defaults. The preferences database
// lives under home.
func DefaultEnv(home string) Env {
	return Env{
		DocumentPath: "ROADMAP.md",
		SettingsPath: ".roadmap.yaml",
		DBPath:       filepath.Join(home, ".roadmap", "roadmap.db"),
		Addr:         "127.0.0.1:8080",
	}
}

// LoadEnv reads the environment, falling back to defaults for unset values.
func LoadEnv() (Env, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Env{}, err
	}
	return loadEnv(os.Getenv, home), nil
}

func loadEnv(getenv func(string) string, home string) Env {
	env := DefaultEnv(home)
	if v := getenv("ROADMAP_FILE"); v != "" {
		env.DocumentPath = v
	}
	if v := getenv("ROADMAP_SETTINGS"); v != "" {
		env.SettingsPath = v
	}
	if v := getenv("ROADMAP_DB"); v != "" {
		env.DBPath = v
	}
	if v := getenv("ROADMAP_ADDR"); v != "" {
		env.Addr = v
	}
	if v := getenv("ROADMAP_LOG"); v != "" {
		env.Log, _ = strconv.ParseBool(v)
	}
	return env
}
