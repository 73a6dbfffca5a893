// Package pipeline turns normalized document text into schema tables. Each
// document type is described by a Profile: its header patterns, an optional
// value filter, its block segmenter bounds and the business rules that
// assemble rows.
package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// DocType discriminates the supported document layouts.
type DocType string

const (
	Domestic    DocType = "domestic"
	Export      DocType = "export"
	PackingList DocType = "packing-list"
)

// ErrUnknownDocType is returned for a document type name that is not
// registered.
var ErrUnknownDocType = errors.New("unknown document type")

// DocTypes lists the supported document types in CLI order.
func DocTypes() []DocType {
	return []DocType{Domestic, Export, PackingList}
}

// ParseDocType maps a user-supplied name to a DocType. A few spellings used
// by older tooling are accepted for packing lists.
func ParseDocType(name string) (DocType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "domestic", "zapi":
		return Domestic, nil
	case "export":
		return Export, nil
	case "packing-list", "packinglist", "packing_list", "pi":
		return PackingList, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDocType, name)
}

// Route picks the profile for one file. In export mode, files named
// *_PI.pdf or *_ZAPI.pdf are packing lists; every other mode is returned
// unchanged.
func Route(mode DocType, filename string) DocType {
	if mode != Export {
		return mode
	}
	name := strings.ToUpper(filepath.Base(filename))
	if strings.HasSuffix(name, "_PI.PDF") || strings.HasSuffix(name, "_ZAPI.PDF") {
		return PackingList
	}
	return mode
}
