package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio   = "stdio"
	ModeServer  = "server"
	ModeConvert = "convert"

	// Export format constants
	FormatCSV  = "csv"
	FormatAPKG = "apkg"

	// Default values
	DefaultPort        = 8080
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB
	DefaultDeckName    = "PDF题目"

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for the PDF-to-Anki converter and server
type Config struct {
	// Server configuration
	Mode string // "stdio", "server", or "convert"
	Host string
	Port int

	// PDF configuration
	PDFDirectory string

	// Conversion configuration (convert mode)
	InputPath       string // source PDF file or directory
	OutputPath      string // output file (merged) or directory (separate)
	Format          string // "csv" or "apkg"
	DeckName        string // Anki deck name for APKG exports
	Filter          string // question filter: all, needsReview, single, multiple
	Range           string // question range expression, e.g. "1-10,15"
	SeparateOutputs bool   // one output file per source PDF

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	MaxFileSize int64 // Maximum PDF file size in bytes
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		// Fallback to current directory if working directory cannot be determined
		currentDir = "."
	}

	return &Config{
		Mode:         ModeStdio, // Default to stdio mode for MCP compatibility
		Host:         DefaultHost,
		Port:         DefaultPort,
		PDFDirectory: currentDir,
		Format:       FormatCSV,
		DeckName:     DefaultDeckName,
		Version:      "1.0.0",
		ServerName:   "pdf-to-anki",
		LogLevel:     DefaultLogLevel,
		MaxFileSize:  DefaultMaxFileSize,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	// Expand paths if needed
	if cfg.PDFDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.PDFDirectory); err == nil {
			cfg.PDFDirectory = expandedPath
		}
	}
	if cfg.InputPath != "" {
		if expandedPath, err := filepath.Abs(cfg.InputPath); err == nil {
			cfg.InputPath = expandedPath
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	// Set environment variable prefix
	viper.SetEnvPrefix("PDF_TO_ANKI")
	viper.AutomaticEnv()

	// Define flags with Viper
	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("dir", cfg.PDFDirectory)
	viper.SetDefault("input", cfg.InputPath)
	viper.SetDefault("output", cfg.OutputPath)
	viper.SetDefault("format", cfg.Format)
	viper.SetDefault("deck", cfg.DeckName)
	viper.SetDefault("filter", cfg.Filter)
	viper.SetDefault("range", cfg.Range)
	viper.SetDefault("separate", cfg.SeparateOutputs)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode,
		"Run mode: 'stdio' for MCP standard I/O, 'server' for HTTP server, 'convert' for one-shot conversion")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.String("dir", cfg.PDFDirectory, "Directory containing question-bank PDF files")
	pflag.String("input", cfg.InputPath, "PDF file or directory to convert (convert mode)")
	pflag.String("output", cfg.OutputPath, "Output file, or directory with --separate (convert mode)")
	pflag.String("format", cfg.Format, "Export format: 'csv' or 'apkg'")
	pflag.String("deck", cfg.DeckName, "Anki deck name for APKG exports")
	pflag.String("filter", cfg.Filter, "Question filter: all, needsReview, single, multiple")
	pflag.String("range", cfg.Range, "Question range expression, e.g. '1-10,15,20-25'")
	pflag.Bool("separate", cfg.SeparateOutputs, "Write one output file per source PDF (convert mode)")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	_ = viper.BindPFlag("mode", pflag.Lookup("mode"))
	_ = viper.BindPFlag("host", pflag.Lookup("host"))
	_ = viper.BindPFlag("port", pflag.Lookup("port"))
	_ = viper.BindPFlag("dir", pflag.Lookup("dir"))
	_ = viper.BindPFlag("input", pflag.Lookup("input"))
	_ = viper.BindPFlag("output", pflag.Lookup("output"))
	_ = viper.BindPFlag("format", pflag.Lookup("format"))
	_ = viper.BindPFlag("deck", pflag.Lookup("deck"))
	_ = viper.BindPFlag("filter", pflag.Lookup("filter"))
	_ = viper.BindPFlag("range", pflag.Lookup("range"))
	_ = viper.BindPFlag("separate", pflag.Lookup("separate"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
	_ = viper.BindPFlag("maxfilesize", pflag.Lookup("maxfilesize"))
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nPDF to Anki - convert question-bank PDFs into Anki flashcards, "+
			"as a CLI or an MCP server\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                         "+
			"# MCP stdio mode, current directory (default)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --dir=/path/to/banks                    "+
			"# MCP stdio mode with custom directory\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=convert --input=bank.pdf --output=cards.csv\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=convert --input=bank.pdf --output=deck.apkg "+
			"--format=apkg --deck=期末复习\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=convert --input=/banks --output=/decks "+
			"--separate --format=apkg   # one deck per PDF\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  PDF_TO_ANKI_MODE        Run mode\n")
		fmt.Fprintf(os.Stderr, "  PDF_TO_ANKI_DIR         PDF directory\n")
		fmt.Fprintf(os.Stderr, "  PDF_TO_ANKI_FORMAT      Export format\n")
		fmt.Fprintf(os.Stderr, "  PDF_TO_ANKI_DECK        Anki deck name\n")
		fmt.Fprintf(os.Stderr, "  PDF_TO_ANKI_LOGLEVEL    Log level\n")
		fmt.Fprintf(os.Stderr, "  PDF_TO_ANKI_MAXFILESIZE Maximum file size\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.PDFDirectory = viper.GetString("dir")
	cfg.InputPath = viper.GetString("input")
	cfg.OutputPath = viper.GetString("output")
	cfg.Format = viper.GetString("format")
	cfg.DeckName = viper.GetString("deck")
	cfg.Filter = viper.GetString("filter")
	cfg.Range = viper.GetString("range")
	cfg.SeparateOutputs = viper.GetBool("separate")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate mode
	if c.Mode != ModeStdio && c.Mode != ModeServer && c.Mode != ModeConvert {
		return errors.New("mode must be one of 'stdio', 'server', or 'convert'")
	}

	// Validate port range (only for server mode)
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	// Validate PDF directory
	if c.PDFDirectory == "" {
		return errors.New("PDF directory cannot be empty")
	}

	// Check if PDF directory exists, create if it doesn't
	if _, err := os.Stat(c.PDFDirectory); os.IsNotExist(err) {
		if err := os.MkdirAll(c.PDFDirectory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create PDF directory %s: %w", c.PDFDirectory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access PDF directory %s: %w", c.PDFDirectory, err)
	}

	// Validate conversion settings
	if c.Format != FormatCSV && c.Format != FormatAPKG {
		return fmt.Errorf("invalid export format: %s (must be 'csv' or 'apkg')", c.Format)
	}
	if c.Mode == ModeConvert {
		if c.InputPath == "" {
			return errors.New("convert mode requires --input")
		}
		if c.OutputPath == "" {
			return errors.New("convert mode requires --output")
		}
	}

	// Validate max file size
	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, PDFDirectory: %s, Format: %s, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.Host, c.Port, c.PDFDirectory, c.Format, c.LogLevel, c.MaxFileSize)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}

// IsConvertMode returns true if running as a one-shot converter
func (c *Config) IsConvertMode() bool {
	return c.Mode == ModeConvert
}
