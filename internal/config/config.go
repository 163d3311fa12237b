// Package config provides functionality for managing configuration options
// for the application using command-line flags, a JSON file and environment
// variables.
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
)

// Options holds the configuration values for the application.
type Options struct {
	// Addr defines the server's listening address (ip:port).
	Addr string `json:"address"`

	// DataFile is the semicolon separated plant table.
	DataFile string `json:"data_file"`

	// LogoPaths lists candidate logo files; the first existing one is used.
	LogoPaths []string `json:"logo_paths"`

	// DatabaseDSN holds the optional PostgreSQL credential database. When
	// empty the built-in accounts are used.
	DatabaseDSN string `json:"database_dsn"`

	// TLSCert and TLSKey enable HTTPS when both are set.
	TLSCert string `json:"tls_cert"`
	TLSKey  string `json:"tls_key"`

	// TLSSelfSigned creates TLSCert/TLSKey with a self-signed certificate
	// if they do not exist yet.
	TLSSelfSigned bool `json:"tls_self_signed"`

	// LogLevel is the zap level name.
	LogLevel string `json:"log_level"`

	// Config is the path to the Config file.
	Config string `json:"-"`
}

// DefaultLogos are the logo files looked up when none are configured.
var DefaultLogos = []string{"logo.png", "1200x1200_1.png"}

// Load builds Options from args, the JSON config file and the environment
// looked up through getenv. Later sources override earlier ones.
func Load(args []string, getenv func(string) string) (*Options, error) {
	options := &Options{}
	var logos string

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&options.Addr, "a", "localhost:8080", "run on ip:port server")
	fs.StringVar(&options.DataFile, "f", "pflanzen.csv", "plant table (semicolon separated)")
	fs.StringVar(&logos, "logo", strings.Join(DefaultLogos, ","), "comma separated logo candidates")
	fs.StringVar(&options.DatabaseDSN, "d", "", "db address")
	fs.StringVar(&options.TLSCert, "tls-cert", "", "TLS certificate file")
	fs.StringVar(&options.TLSKey, "tls-key", "", "TLS key file")
	fs.BoolVar(&options.TLSSelfSigned, "tls-self-signed", false, "generate a self-signed certificate if missing")
	fs.StringVar(&options.LogLevel, "l", "info", "log level")
	fs.StringVar(&options.Config, "config", "config.json", "path to config file")
	fs.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	options.LogoPaths = splitList(logos)

	// Override flags with environment variables if set
	if configPath := getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				return nil, fmt.Errorf("error while reading config file: %w", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				return nil, fmt.Errorf("error while parsing config file: %w", err)
			}
		}
	}

	if v := getenv("SERVER_ADDRESS"); v != "" {
		options.Addr = v
	}
	if v := getenv("DATA_FILE"); v != "" {
		options.DataFile = v
	}
	if v := getenv("DATABASE_DSN"); v != "" {
		options.DatabaseDSN = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		options.LogLevel = v
	}

	return options, nil
}

// Parse parses the process arguments and environment. It exits on invalid
// configuration.
func Parse() *Options {
	options, err := Load(os.Args[1:], os.Getenv)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return options
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
