// Package batch runs a document type's pipeline over a set of PDF files and
// writes the per-file or combined outputs.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/a3tai/parsingtool/internal/output"
	"github.com/a3tai/parsingtool/internal/pdf"
	"github.com/a3tai/parsingtool/internal/pipeline"
	"github.com/a3tai/parsingtool/internal/qc"
	"github.com/a3tai/parsingtool/internal/schema"
)

var (
	// ErrNoInputs means no PDF files were selected.
	ErrNoInputs = errors.New("no input files")
	// ErrRunInProgress rejects a run started while another is active.
	ErrRunInProgress = errors.New("a batch run is already in progress")
)

// QCReportName is the report written in export mode when QC is enabled.
const QCReportName = "qc_report.md"

// combinedNames maps schema names to the combined CSV of combine mode.
var combinedNames = map[string]string{
	schema.Batches.Name:     "domestic_batches_combined.csv",
	schema.SSCC.Name:        "domestic_sscc_combined.csv",
	schema.Export.Name:      "export_combined.csv",
	schema.PackingList.Name: "pi_combined.csv",
}

// TextExtractor yields the normalized text of one PDF.
type TextExtractor interface {
	Extract(ctx context.Context, path string, opts pdf.Options) (string, error)
}

// Options describes one run.
type Options struct {
	Mode    pipeline.DocType
	Inputs  []string
	OutDir  string
	UseOCR  bool
	Debug   bool
	Combine bool
	QC      bool
	XLSX    bool
}

// Summary is what a run did.
type Summary struct {
	RunID     string      `json:"run_id"`
	Mode      string      `json:"mode"`
	Files     int         `json:"files"`
	Processed int         `json:"processed"`
	Skipped   int         `json:"skipped"`
	Failed    int         `json:"failed"`
	Rows      int         `json:"rows"`
	Outputs   []string    `json:"outputs"`
	QC        []qc.Report `json:"qc,omitempty"`
}

// Runner processes files one at a time. Only one run may be active.
type Runner struct {
	engine    *pipeline.Engine
	extractor TextExtractor
	logger    *slog.Logger
	running   *atomic.Bool

	now   func() time.Time
	newID func() string
}

// NewRunner creates a runner.
func NewRunner(engine *pipeline.Engine, extractor TextExtractor, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		engine:    engine,
		extractor: extractor,
		logger:    logger,
		running:   new(atomic.Bool),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// WithLogger returns a runner sharing r's collaborators but logging to
// logger. Both share one in-progress guard.
func (r *Runner) WithLogger(logger *slog.Logger) *Runner {
	return &Runner{
		engine:    r.engine,
		extractor: r.extractor,
		logger:    logger,
		running:   r.running,
		now:       r.now,
		newID:     r.newID,
	}
}

// Run expands opts.Inputs and processes every PDF in sorted order. Per-file
// failures are logged and counted; only setup problems return an error.
func (r *Runner) Run(ctx context.Context, opts Options) (Summary, error) {
	if !r.running.CompareAndSwap(false, true) {
		return Summary{}, ErrRunInProgress
	}
	defer r.running.Store(false)

	if _, err := r.engine.Profile(opts.Mode); err != nil {
		return Summary{}, err
	}
	files, err := pdf.FindPDFs(opts.Inputs)
	if err != nil {
		return Summary{}, err
	}
	if len(files) == 0 {
		return Summary{}, ErrNoInputs
	}
	if opts.OutDir == "" {
		opts.OutDir = "."
	}
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("create output directory: %w", err)
	}

	sum := Summary{RunID: r.newID(), Mode: string(opts.Mode), Files: len(files)}
	log := r.logger.With("run_id", sum.RunID)
	log.Info("starting batch", "mode", opts.Mode, "files", len(files), "combine", opts.Combine)

	acc := newAccumulator()
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			log.Warn("batch canceled", "error", err)
			return sum, err
		}

		name := filepath.Base(path)
		res, err := r.processFile(ctx, path, opts)
		switch {
		case errors.Is(err, pdf.ErrNoText):
			sum.Skipped++
			log.Warn("no extractable text", "file", name, "error", err)
			continue
		case err != nil:
			sum.Failed++
			log.Error("file failed", "file", name, "error", err)
			continue
		}

		if !opts.Combine {
			written, err := writeFileOutputs(opts.OutDir, name, res)
			sum.Outputs = append(sum.Outputs, written...)
			if err != nil {
				sum.Failed++
				log.Error("file failed", "file", name, "error", err)
				continue
			}
		}

		sum.Processed++
		sum.Rows += res.Rows()
		acc.add(res, name)
		if opts.QC && res.DocType == pipeline.Export {
			if t, ok := res.Table(schema.Export.Name); ok {
				sum.QC = append(sum.QC, qc.Validate(t, name))
			}
		}
		log.Info("file processed", "file", name, "doc_type", res.DocType, "rows", res.Rows())
	}

	if opts.Combine {
		written, err := acc.writeCombined(opts.OutDir)
		sum.Outputs = append(sum.Outputs, written...)
		for _, w := range written {
			log.Info("combined output written", "path", w)
		}
		if err != nil {
			return sum, err
		}
	}

	if opts.XLSX && !acc.empty() {
		path := filepath.Join(opts.OutDir, string(opts.Mode)+".xlsx")
		if err := output.WriteXLSX(path, acc.sheets()); err != nil {
			return sum, err
		}
		sum.Outputs = append(sum.Outputs, path)
		log.Info("workbook written", "path", path)
	}

	if opts.QC && opts.Mode == pipeline.Export && len(sum.QC) > 0 {
		path := filepath.Join(opts.OutDir, QCReportName)
		meta := qc.Meta{RunID: sum.RunID, GeneratedAt: r.now().UTC()}
		if err := qc.WriteReportFile(path, sum.QC, meta); err != nil {
			return sum, err
		}
		sum.Outputs = append(sum.Outputs, path)
		log.Info("qc report written", "path", path)
	}

	log.Info("batch completed",
		"processed", sum.Processed,
		"skipped", sum.Skipped,
		"failed", sum.Failed,
		"rows", sum.Rows)
	return sum, nil
}

// processFile is the per-file error boundary.
func (r *Runner) processFile(ctx context.Context, path string, opts Options) (res pipeline.Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()

	text, err := r.extractor.Extract(ctx, path, pdf.Options{Debug: opts.Debug, UseOCR: opts.UseOCR})
	if err != nil {
		return pipeline.Result{}, err
	}
	return r.engine.Parse(pipeline.Route(opts.Mode, filepath.Base(path)), text)
}

func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// writeFileOutputs writes the per-file CSVs of one result and returns their
// paths.
func writeFileOutputs(dir, name string, res pipeline.Result) ([]string, error) {
	base := filepath.Join(dir, stem(name))

	type target struct {
		table string
		path  string
		opts  output.CSVOptions
	}
	var targets []target
	switch res.DocType {
	case pipeline.Domestic:
		targets = []target{
			{table: schema.Batches.Name, path: base + "_batches.csv"},
			{table: schema.SSCC.Name, path: base + "_sscc.csv"},
		}
	case pipeline.Export:
		targets = []target{{table: schema.Export.Name, path: base + ".csv", opts: output.CSVOptions{BOM: true}}}
	case pipeline.PackingList:
		targets = []target{{table: schema.PackingList.Name, path: base + "_packing.csv"}}
	default:
		return nil, fmt.Errorf("%w: %q", pipeline.ErrUnknownDocType, res.DocType)
	}

	var written []string
	for _, tg := range targets {
		t, ok := res.Table(tg.table)
		if !ok {
			return written, fmt.Errorf("result has no %s table", tg.table)
		}
		if err := output.WriteCSVFile(tg.path, t, tg.opts); err != nil {
			return written, err
		}
		written = append(written, tg.path)
	}
	return written, nil
}
