// Package pdf turns PDF files into plain text for the field extractors. Text
// comes from ledongthuc/pdf first, then from pdfcpu content streams, then,
// when enabled, from OCR.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/a3tai/parsingtool/internal/extract"
)

// ErrNoText means no method produced any non-blank text.
var ErrNoText = errors.New("no extractable text")

// ExtractError records which method failed for which file.
type ExtractError struct {
	Method string
	Path   string
	Err    error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Method, e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }

// Extraction method names.
const (
	MethodValidate = "validate"
	MethodRows     = "ledongthuc"
	MethodContent  = "pdfcpu"
	MethodOCR      = "ocr"
)

// Options controls a single extraction.
type Options struct {
	// Debug logs every method attempt at info level.
	Debug bool
	// UseOCR enables the OCR fallback for documents without a text layer.
	UseOCR bool
}

type textFunc func(ctx context.Context, path string) (string, error)

// Extractor runs the extraction chain for one file at a time. It holds no
// per-file state and may be shared.
type Extractor struct {
	validator *Validator
	primary   textFunc
	secondary textFunc
	ocr       *OCR
	maxText   int
	logger    *slog.Logger
}

// NewExtractor wires the default chain.
func NewExtractor(maxFileSize int64, ocrCfg OCRConfig, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		validator: NewValidator(maxFileSize),
		primary:   readRows,
		secondary: readContent,
		ocr:       NewOCR(ocrCfg, nil, logger),
		maxText:   maxTextSize,
		logger:    logger,
	}
}

// Extract returns the normalized text of path. A file whose text layer is
// blank or unreadable yields an error wrapping ErrNoText unless OCR recovers
// it.
func (e *Extractor) Extract(ctx context.Context, path string, opts Options) (string, error) {
	if err := e.validator.Validate(path); err != nil {
		return "", &ExtractError{Method: MethodValidate, Path: path, Err: err}
	}

	method := MethodRows
	text, err := e.primary(ctx, path)
	if err != nil || strings.TrimSpace(text) == "" {
		e.trace(ctx, opts, "primary extractor gave no text", path, MethodRows, err)

		method = MethodContent
		text, err = e.secondary(ctx, path)
		if err != nil {
			e.trace(ctx, opts, "secondary extractor failed", path, MethodContent, err)
			text = ""
		}
	}

	if strings.TrimSpace(text) == "" && opts.UseOCR {
		method = MethodOCR
		text, err = e.ocr.Text(ctx, path)
		if err != nil {
			e.logger.Warn("ocr failed", "file", path, "error", err)
			text = ""
		}
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", &ExtractError{Method: method, Path: path, Err: ErrNoText}
	}

	if cut, ok := truncateText(text, e.maxText); ok {
		e.logger.Warn("text truncated", "file", path, "method", method, "limit", e.maxText)
		text = cut
	}

	e.trace(ctx, opts, "text extracted", path, method, nil)
	return extract.NormalizeText(text), nil
}

func (e *Extractor) trace(ctx context.Context, opts Options, msg, path, method string, err error) {
	level := slog.LevelDebug
	if opts.Debug {
		level = slog.LevelInfo
	}
	args := []any{"file", path, "method", method}
	if err != nil {
		args = append(args, "error", err)
	}
	e.logger.Log(ctx, level, msg, args...)
}
