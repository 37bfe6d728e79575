package core

// convert.go maps registry values to PostgreSQL types for the exporter.
//
// The registry uses 0 for "not applicable" in the postal code and parent
// columns; these become NULL so the mirror table can carry a foreign key on
// the parent column.

import (
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// ToPgText converts a string to pgtype.Text.
// Returns invalid if the string is empty or only whitespace.
func ToPgText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

// ToPgInt4 converts an int to pgtype.Int4.
// Returns invalid if the value is zero.
func ToPgInt4(i int) pgtype.Int4 {
	if i == 0 {
		return pgtype.Int4{Valid: false}
	}
	return pgtype.Int4{Int32: int32(i), Valid: true}
}

// ToPgUUID converts a uuid.UUID to pgtype.UUID.
// Returns invalid for the nil UUID.
func ToPgUUID(id uuid.UUID) pgtype.UUID {
	if id == uuid.Nil {
		return pgtype.UUID{Valid: false}
	}
	return pgtype.UUID{Bytes: id, Valid: true}
}

// exportRow converts rec to the column order of exportColumns.
func exportRow(rec Record, loadID pgtype.UUID) []any {
	parent := rec.Parent
	if rec.IsCounty() {
		// County markers point at the country, which has no row.
		parent = NoParent
	}
	return []any{
		int32(rec.Code),
		rec.Name,
		ToPgInt4(rec.PostalCode),
		int32(rec.County),
		ToPgInt4(parent),
		int32(rec.Type),
		ToPgText(rec.Level),
		rec.Urban,
		ToPgInt4(rec.Region),
		loadID,
	}
}
