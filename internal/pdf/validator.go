package pdf

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultMaxFileSize bounds the size of a single input document.
const DefaultMaxFileSize int64 = 100 * 1024 * 1024

var pdfMagic = []byte("%PDF-")

// Validator checks that a path names a readable PDF before any extractor
// touches it.
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a validator. A non-positive limit uses
// DefaultMaxFileSize.
func NewValidator(maxFileSize int64) *Validator {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	return &Validator{maxFileSize: maxFileSize}
}

// Validate returns the first problem found with filePath, or nil.
func (v *Validator) Validate(filePath string) error {
	if filePath == "" {
		return fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", filePath)
	}
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}

	if err := v.ValidateFileInfo(filePath, fileInfo); err != nil {
		return err
	}

	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("cannot open file: %w", err)
	}
	defer f.Close()

	// Some producers emit junk before the header; readers accept it within
	// the first kilobyte.
	head := make([]byte, 1024)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return fmt.Errorf("cannot read file: %w", err)
	}
	if !bytes.Contains(head[:n], pdfMagic) {
		return fmt.Errorf("missing PDF header: %s", filePath)
	}
	return nil
}

// IsValidPDF reports whether Validate accepts filePath.
func (v *Validator) IsValidPDF(filePath string) bool {
	return v.Validate(filePath) == nil
}

// ValidateFileInfo performs the checks that need no file access.
func (v *Validator) ValidateFileInfo(filePath string, fileInfo os.FileInfo) error {
	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", filePath)
	}
	if !fileInfo.Mode().IsRegular() {
		return fmt.Errorf("not a regular file: %s", filePath)
	}

	if !strings.HasSuffix(strings.ToLower(filePath), ".pdf") {
		return fmt.Errorf("file is not a PDF: %s", filePath)
	}

	if fileInfo.Size() == 0 {
		return fmt.Errorf("file is empty: %s", filePath)
	}

	if fileInfo.Size() > v.maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), v.maxFileSize)
	}

	return nil
}
