package pdf

import "os/exec"

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// Tools reports which OCR binaries are on PATH.
type Tools struct {
	Tesseract bool `json:"tesseract"`
	Pdftoppm  bool `json:"pdftoppm"`
}

// Ready reports whether the OCR fallback can run.
func (t Tools) Ready() bool {
	return t.Tesseract && t.Pdftoppm
}

// Mode is the status line shown to users.
func (t Tools) Mode() string {
	if t.Ready() {
		return "OCR READY"
	}
	return "REGEX ONLY"
}

// ToolStatus looks up the OCR toolchain on PATH.
func ToolStatus(cfg OCRConfig) Tools {
	def := DefaultOCRConfig()
	if cfg.Tesseract == "" {
		cfg.Tesseract = def.Tesseract
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = def.Pdftoppm
	}
	_, terr := lookPath(cfg.Tesseract)
	_, perr := lookPath(cfg.Pdftoppm)
	return Tools{Tesseract: terr == nil, Pdftoppm: perr == nil}
}
