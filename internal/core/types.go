package core

import (
	"fmt"
	"time"
)

// FieldCount is the number of semicolon-separated fields in a SIRUTA row:
// SIRUTA;DENLOC;CODP;JUD;SIRSUP;TIP;NIV;MED;REGIUNE;FSJ;FS2;FS3;FSL;rang;fictiv
const FieldCount = 15

// Column positions of the fields the registry consumes.
// FSJ, FS2, FS3, FSL, rang and fictiv are carried by the file but not modeled.
const (
	colCode       = 0 // SIRUTA
	colName       = 1 // DENLOC
	colPostalCode = 2 // CODP
	colCounty     = 3 // JUD
	colParent     = 4 // SIRSUP
	colType       = 5 // TIP
	colLevel      = 6 // NIV
	colUrban      = 7 // MED
	colRegion     = 8 // REGIUNE
)

// NoParent is the parent code of entities without a superior entity.
const NoParent = 0

// TypeCounty is the type code of county markers.
const TypeCounty = 40

// Record is one administrative entity from the SIRUTA file.
type Record struct {
	Code       int    // SIRUTA code, primary key
	Name       string // Canonical name (comma-below diacritics), prefix included
	PostalCode int    // 0 when the entity has no single postal code
	County     int    // County number, resolves through the county index
	Parent     int    // Code of the superior entity, NoParent if none
	Type       int    // Key into the entity type table
	Level      string // NIV column, passed through
	Urban      bool   // MED == "1"
	Region     int    // Development region 1-8
}

// IsCounty reports whether the record is a county marker.
func (r Record) IsCounty() bool {
	return r.Type == TypeCounty
}

// County is an entry of the county index.
type County struct {
	Number int    // County number as used by Record.County
	Code   int    // SIRUTA code of the county marker
	Name   string // Canonical name including its prefix, e.g. "JUDEȚUL ALBA"
}

// DiagnosticKind classifies a condition found while loading or querying.
type DiagnosticKind string

const (
	DiagSourceUnavailable DiagnosticKind = "source_unavailable"
	DiagMalformedRow      DiagnosticKind = "malformed_row"
	DiagFieldCount        DiagnosticKind = "field_count"
	DiagInvalidCode       DiagnosticKind = "invalid_code"
	DiagInvalidField      DiagnosticKind = "invalid_field"
	DiagChecksum          DiagnosticKind = "checksum"
	DiagDuplicateCode     DiagnosticKind = "duplicate_code"
	DiagUnknownCounty     DiagnosticKind = "unknown_county"
	DiagDanglingParent    DiagnosticKind = "dangling_parent"
	DiagNotFound          DiagnosticKind = "not_found"
	DiagInvalidFilter     DiagnosticKind = "invalid_filter"
)

// Fatal reports whether the diagnostic prevents a load from completing.
func (k DiagnosticKind) Fatal() bool {
	return k == DiagSourceUnavailable
}

// Diagnostic records a single data or lookup problem.
// Line is the 1-based row of the source file (0 when not tied to a row) and
// Code is the SIRUTA code involved (0 when unknown).
type Diagnostic struct {
	Kind    DiagnosticKind
	Line    int
	Code    int
	Message string
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("line %d: %s", d.Line, d.Message)
	}
	return d.Message
}

// ListFilter selects codes for Handle.ListCodes.
// A nil slice or empty Name matches every record.
type ListFilter struct {
	Counties  []int
	Types     []int
	Name      string

	// ExactName requires Name to equal the rendered name, either in full or
	// with its prefix (MUNICIPIUL, ORAȘ...) stripped, so both "ALBA IULIA"
	// and "MUNICIPIUL ALBA IULIA" select the same record.
	ExactName bool
}

// LoadStats summarizes a single load.
type LoadStats struct {
	Rows      int           // Data rows read, header excluded
	Records   int           // Records kept in the registry
	Skipped   int           // Rows rejected by a diagnostic
	Counties  int           // Entries in the county index
	BytesRead int64         // Bytes consumed from the source
	Duration  time.Duration // Wall time of the load
}

// LoadOptions control Load.
type LoadOptions struct {
	// Source names the input in diagnostics and registry metadata.
	Source string

	// Strict aborts the load on the first row diagnostic.
	Strict bool
}
