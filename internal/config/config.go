package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/a3tai/parsingtool/internal/pdf"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Default values
	DefaultPort        = 8080
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB
	DefaultOCRDPI      = 300

	// Directory permissions
	DefaultDirPerm = 0o750

	// EnvPrefix prefixes every environment override (PARSINGTOOL_OUT, ...).
	EnvPrefix = "PARSINGTOOL"
)

// Keys shared by flags, environment variables and config files.
const (
	KeyMode        = "mode"
	KeyHost        = "host"
	KeyPort        = "port"
	KeyOut         = "out"
	KeyRules       = "rules"
	KeyOCR         = "ocr"
	KeyQC          = "qc"
	KeyCombine     = "combine"
	KeyXLSX        = "xlsx"
	KeyDebug       = "debug"
	KeyLogLevel    = "log-level"
	KeyMaxFileSize = "max-file-size"
	KeyTesseract   = "tesseract"
	KeyPdftoppm    = "pdftoppm"
	KeyOCRLang     = "ocr-lang"
	KeyOCRDPI      = "ocr-dpi"
)

// Config holds all configuration for the CLI and the MCP server
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Run configuration
	OutDir    string
	RulesFile string
	UseOCR    bool
	QC        bool
	Combine   bool
	XLSX      bool
	Debug     bool

	// OCR toolchain
	Tesseract string
	Pdftoppm  string
	OCRLang   string
	OCRDPI    int

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	MaxFileSize int64 // Maximum PDF file size in bytes
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Mode:        ModeStdio,
		Host:        DefaultHost,
		Port:        DefaultPort,
		OutDir:      ".",
		QC:          true,
		Tesseract:   "tesseract",
		Pdftoppm:    "pdftoppm",
		OCRLang:     "eng",
		OCRDPI:      DefaultOCRDPI,
		Version:     "1.0.0",
		ServerName:  "parsingtool",
		LogLevel:    DefaultLogLevel,
		MaxFileSize: DefaultMaxFileSize,
	}
}

// RegisterFlags defines the run flags on fs with their defaults.
func RegisterFlags(fs *pflag.FlagSet) {
	cfg := DefaultConfig()
	fs.String(KeyOut, cfg.OutDir, "Output directory for CSV files and reports")
	fs.String(KeyRules, "", "YAML file with header pattern overrides")
	fs.Bool(KeyOCR, cfg.UseOCR, "Fall back to OCR for PDFs without a text layer")
	fs.Bool(KeyQC, cfg.QC, "Write a QC report (export mode)")
	fs.Bool(KeyCombine, cfg.Combine, "Write one combined CSV per table instead of per-file CSVs")
	fs.Bool(KeyXLSX, cfg.XLSX, "Also write an XLSX workbook with one sheet per table")
	fs.Bool(KeyDebug, cfg.Debug, "Log every extraction attempt")
	fs.String(KeyLogLevel, cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.Int64(KeyMaxFileSize, cfg.MaxFileSize, "Maximum PDF file size in bytes")
}

// RegisterServerFlags defines the MCP server flags on fs.
func RegisterServerFlags(fs *pflag.FlagSet) {
	cfg := DefaultConfig()
	fs.String(KeyMode, cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP/SSE")
	fs.String(KeyHost, cfg.Host, "Server host address (server mode only)")
	fs.Int(KeyPort, cfg.Port, "Server port (server mode only)")
}

// Load resolves the configuration from, in increasing precedence: defaults,
// the optional config file, PARSINGTOOL_* environment variables and flags
// set on fs.
func Load(fs *pflag.FlagSet, configFile string) (*Config, error) {
	v := viper.New()
	setupViperEnvironment(v, DefaultConfig())

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	}

	cfg := DefaultConfig()
	populateConfigFromViper(v, cfg)

	if cfg.OutDir != "" {
		if abs, err := filepath.Abs(cfg.OutDir); err == nil {
			cfg.OutDir = abs
		}
	}
	if cfg.Debug {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(v *viper.Viper, cfg *Config) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyMode, cfg.Mode)
	v.SetDefault(KeyHost, cfg.Host)
	v.SetDefault(KeyPort, cfg.Port)
	v.SetDefault(KeyOut, cfg.OutDir)
	v.SetDefault(KeyRules, cfg.RulesFile)
	v.SetDefault(KeyOCR, cfg.UseOCR)
	v.SetDefault(KeyQC, cfg.QC)
	v.SetDefault(KeyCombine, cfg.Combine)
	v.SetDefault(KeyXLSX, cfg.XLSX)
	v.SetDefault(KeyDebug, cfg.Debug)
	v.SetDefault(KeyTesseract, cfg.Tesseract)
	v.SetDefault(KeyPdftoppm, cfg.Pdftoppm)
	v.SetDefault(KeyOCRLang, cfg.OCRLang)
	v.SetDefault(KeyOCRDPI, cfg.OCRDPI)
	v.SetDefault(KeyLogLevel, cfg.LogLevel)
	v.SetDefault(KeyMaxFileSize, cfg.MaxFileSize)
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(v *viper.Viper, cfg *Config) {
	cfg.Mode = v.GetString(KeyMode)
	cfg.Host = v.GetString(KeyHost)
	cfg.Port = v.GetInt(KeyPort)
	cfg.OutDir = v.GetString(KeyOut)
	cfg.RulesFile = v.GetString(KeyRules)
	cfg.UseOCR = v.GetBool(KeyOCR)
	cfg.QC = v.GetBool(KeyQC)
	cfg.Combine = v.GetBool(KeyCombine)
	cfg.XLSX = v.GetBool(KeyXLSX)
	cfg.Debug = v.GetBool(KeyDebug)
	cfg.Tesseract = v.GetString(KeyTesseract)
	cfg.Pdftoppm = v.GetString(KeyPdftoppm)
	cfg.OCRLang = v.GetString(KeyOCRLang)
	cfg.OCRDPI = v.GetInt(KeyOCRDPI)
	cfg.LogLevel = v.GetString(KeyLogLevel)
	cfg.MaxFileSize = v.GetInt64(KeyMaxFileSize)
}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	// Validate port range (only for server mode)
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	if c.OutDir == "" {
		return errors.New("output directory cannot be empty")
	}
	if _, err := os.Stat(c.OutDir); os.IsNotExist(err) {
		if err := os.MkdirAll(c.OutDir, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create output directory %s: %w", c.OutDir, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access output directory %s: %w", c.OutDir, err)
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}
	if c.OCRDPI <= 0 {
		return errors.New("OCR DPI must be positive")
	}

	if _, ok := logLevels[c.LogLevel]; !ok {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// SlogLevel maps LogLevel to a slog level. Unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	if l, ok := logLevels[c.LogLevel]; ok {
		return l
	}
	return slog.LevelInfo
}

// OCR returns the OCR toolchain settings.
func (c *Config) OCR() pdf.OCRConfig {
	return pdf.OCRConfig{
		Pdftoppm:  c.Pdftoppm,
		Tesseract: c.Tesseract,
		Lang:      c.OCRLang,
		DPI:       c.OCRDPI,
	}
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
	return fmt.Sprintf("Config{Mode: %s, Address: %s, OutDir: %s, OCR: %t, QC: %t, Combine: %t, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.Address(), c.OutDir, c.UseOCR, c.QC, c.Combine, c.LogLevel, c.MaxFileSize)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
