package core

// validation.go turns one CSV row into a Record.
//
// A row is rejected when it has the wrong number of fields, when its SIRUTA
// code is not an integer, or when one of the numeric columns does not parse.
// A failing checksum does not reject the row; the loader reports it and keeps
// the record.

import (
	"fmt"
	"strconv"
	"strings"
)

// intColumn describes a numeric column copied into a Record.
type intColumn struct {
	pos  int
	name string
	set  func(*Record, int)
}

var intColumns = []intColumn{
	{colPostalCode, "CODP", func(r *Record, v int) { r.PostalCode = v }},
	{colCounty, "JUD", func(r *Record, v int) { r.County = v }},
	{colParent, "SIRSUP", func(r *Record, v int) { r.Parent = v }},
	{colType, "TIP", func(r *Record, v int) { r.Type = v }},
	{colRegion, "REGIUNE", func(r *Record, v int) { r.Region = v }},
}

// ValidationError describes why a row was rejected.
type ValidationError struct {
	Kind    DiagnosticKind
	Field   string // Column name, empty for row-level problems
	Value   string // The offending value
	Message string
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// parseRow converts a row to a Record with its name in canonical form.
func parseRow(row []string) (Record, error) {
	if len(row) != FieldCount {
		return Record{}, ValidationError{
			Kind:    DiagFieldCount,
			Message: fmt.Sprintf("row has %d fields, want %d", len(row), FieldCount),
		}
	}

	raw := cleanCell(row[colCode])
	code, err := strconv.Atoi(raw)
	if err != nil {
		return Record{}, ValidationError{
			Kind:    DiagInvalidCode,
			Field:   "SIRUTA",
			Value:   raw,
			Message: fmt.Sprintf("invalid SIRUTA code %q", raw),
		}
	}

	rec := Record{
		Code:  code,
		Name:  CanonicalName(cleanCell(row[colName])),
		Level: cleanCell(row[colLevel]),
		Urban: cleanCell(row[colUrban]) == "1",
	}

	for _, col := range intColumns {
		raw := cleanCell(row[col.pos])
		v, err := strconv.Atoi(raw)
		if err != nil {
			return Record{}, ValidationError{
				Kind:    DiagInvalidField,
				Field:   col.name,
				Value:   raw,
				Message: fmt.Sprintf("invalid integer %q", raw),
			}
		}
		col.set(&rec, v)
	}

	return rec, nil
}

// isHeader reports whether row is the SIRUTA column header.
func isHeader(row []string) bool {
	return len(row) > 0 && strings.EqualFold(cleanCell(row[colCode]), "SIRUTA")
}

// cleanCell trims whitespace and the quotes some exports leave around values.
func cleanCell(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}
