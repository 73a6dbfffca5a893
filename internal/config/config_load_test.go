package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

// newFlagSet returns a flag set carrying every flag, parsed from args.
func newFlagSet(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("parsingtool", pflag.ContinueOnError)
	RegisterFlags(fs)
	RegisterServerFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, err := Load(newFlagSet(t), "")
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Mode != "stdio" {
		t.Errorf("Load() Mode = %v, want %v", cfg.Mode, "stdio")
	}
	if !filepath.IsAbs(cfg.OutDir) {
		t.Errorf("Load() OutDir = %v, want an absolute path", cfg.OutDir)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Load() LogLevel = %v, want %v", cfg.LogLevel, "info")
	}
	if !cfg.QC {
		t.Error("Load() QC should default to true")
	}
}

func TestLoad_Flags(t *testing.T) {
	out := t.TempDir()

	cfg, err := Load(newFlagSet(t,
		"--out="+out,
		"--ocr",
		"--combine",
		"--qc=false",
		"--xlsx",
		"--max-file-size=5000",
		"--mode=server",
		"--port=9090",
	), "")
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.OutDir != out {
		t.Errorf("Load() OutDir = %v, want %v", cfg.OutDir, out)
	}
	if !cfg.UseOCR || !cfg.Combine || cfg.QC || !cfg.XLSX {
		t.Errorf("Load() switches not applied: %s", cfg)
	}
	if cfg.MaxFileSize != 5000 {
		t.Errorf("Load() MaxFileSize = %v, want 5000", cfg.MaxFileSize)
	}
	if cfg.Address() != "127.0.0.1:9090" {
		t.Errorf("Load() Address = %v", cfg.Address())
	}
}

func TestLoad_DebugForcesDebugLevel(t *testing.T) {
	cfg, err := Load(newFlagSet(t, "--out="+t.TempDir(), "--debug", "--log-level=warn"), "")
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if !cfg.IsDebug() {
		t.Errorf("Load() LogLevel = %v, want debug", cfg.LogLevel)
	}
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	out := t.TempDir()
	t.Setenv("PARSINGTOOL_OUT", out)
	t.Setenv("PARSINGTOOL_OCR", "true")
	t.Setenv("PARSINGTOOL_OCR_DPI", "150")
	t.Setenv("PARSINGTOOL_LOG_LEVEL", "warn")

	cfg, err := Load(newFlagSet(t), "")
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.OutDir != out {
		t.Errorf("Load() OutDir = %v, want %v", cfg.OutDir, out)
	}
	if !cfg.UseOCR {
		t.Error("Load() UseOCR should come from PARSINGTOOL_OCR")
	}
	if cfg.OCRDPI != 150 {
		t.Errorf("Load() OCRDPI = %v, want 150", cfg.OCRDPI)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("Load() LogLevel = %v, want warn", cfg.LogLevel)
	}
}

func TestLoad_FlagOverridesEnvironment(t *testing.T) {
	t.Setenv("PARSINGTOOL_LOG_LEVEL", "warn")

	cfg, err := Load(newFlagSet(t, "--out="+t.TempDir(), "--log-level=error"), "")
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("Load() LogLevel = %v, want error", cfg.LogLevel)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "csv")
	path := filepath.Join(dir, "parsingtool.yaml")
	content := "out: " + out + "\nrules: " + filepath.Join(dir, "rules.yaml") + "\ncombine: true\nocr-lang: deu\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(newFlagSet(t), path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.OutDir != out {
		t.Errorf("Load() OutDir = %v, want %v", cfg.OutDir, out)
	}
	if !cfg.Combine {
		t.Error("Load() Combine should come from the config file")
	}
	if cfg.OCRLang != "deu" {
		t.Errorf("Load() OCRLang = %v, want deu", cfg.OCRLang)
	}
	if filepath.Base(cfg.RulesFile) != "rules.yaml" {
		t.Errorf("Load() RulesFile = %v", cfg.RulesFile)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		file string
	}{
		{name: "invalid mode", args: []string{"--mode=invalid"}},
		{name: "invalid port", args: []string{"--mode=server", "--port=99999"}},
		{name: "invalid log level", args: []string{"--log-level=trace"}},
		{name: "missing config file", file: "/nonexistent/parsingtool.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--out=" + t.TempDir()}, tt.args...)
			if _, err := Load(newFlagSet(t, args...), tt.file); err == nil {
				t.Error("Load() expected error, got nil")
			}
		})
	}
}
