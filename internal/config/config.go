// Package config provides functionality for managing configuration options
// for the application using command-line flags, environment variables and
// an optional JSON config file.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string

	// StorageDir is the directory for the JSON-file key-value store.
	StorageDir string

	// DatabaseDSN selects the PostgreSQL key-value store when non-empty.
	DatabaseDSN string

	// DebounceMS is the autosave quiet period in milliseconds.
	DebounceMS int

	// MaxHistory caps per-draft undo depth; 0 means unbounded.
	MaxHistory int

	// TrashRetentionDays enables the trash retention cleaner when > 0.
	TrashRetentionDays int

	// Config is the path to the Config file.
	Config string
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Port, "a", "localhost:8080", "run on ip:port server")
	flag.StringVar(&options.StorageDir, "s", "data", "directory for the file-backed store")
	flag.StringVar(&options.DatabaseDSN, "d", "", "db address")
	flag.IntVar(&options.DebounceMS, "debounce", 800, "autosave quiet period in milliseconds")
	flag.IntVar(&options.MaxHistory, "max-history", 50, "undo history cap per draft (0 = unbounded)")
	flag.IntVar(&options.TrashRetentionDays, "trash-retention", 0, "purge trash entries after N days (0 = keep forever)")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse parses the command-line flags and environment variables to set
// configuration values. It returns a pointer to the Options struct containing
// the parsed configuration values.
func Parse() *Options {
	// Load a local .env file if present; real env vars win.
	_ = godotenv.Load()

	flag.Parse()

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		options.Port = serverAddress
	}
	if storageDir := os.Getenv("STORAGE_DIR"); storageDir != "" {
		options.StorageDir = storageDir
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		options.DatabaseDSN = dsn
	}
	if ms := os.Getenv("DEBOUNCE_MS"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil {
			options.DebounceMS = v
		}
	}
	if days := os.Getenv("TRASH_RETENTION_DAYS"); days != "" {
		if v, err := strconv.Atoi(days); err == nil {
			options.TrashRetentionDays = v
		}
	}

	return options
}
