// Package core provides the SIRUTA registry: loading, validation and queries.
//
// This package holds all domain logic independent of any transport layer. It
// can be used by the web handlers, the exporter or tests without modification.
//
// # Architecture
//
// The package is organized around several key concepts:
//
//   - Registry: the immutable index built from one SIRUTA file by [Load].
//   - Handle: a query view over a Registry with a fixed [DiacriticConfig].
//   - Store: holds the active Registry and swaps it atomically on reload.
//   - Exporter: mirrors a Registry into PostgreSQL.
//
// # Loading
//
// [Load] reads the semicolon-delimited file in a single streaming pass:
//
//  1. The source is wrapped with BOM skipping and UTF-8 sanitization
//  2. Each row is parsed; rejected rows become [Diagnostic] values
//  3. County and parent references are checked once all rows are read
//
// Diagnostics never abort a load unless [LoadOptions.Strict] is set.
//
//	reg, diags, err := core.LoadFile("siruta.csv", core.LoadOptions{})
//	if err != nil {
//	    return err
//	}
//	for _, d := range diags {
//	    slog.Warn("siruta row", "line", d.Line, "error", d.Message)
//	}
//
// # Queries
//
// Every code-based query returns ok=false for an absent code and records a
// diagnostic readable with [Handle.LastDiagnostic]:
//
//	h := core.NewHandle(reg, core.WithDiacritics(core.DiacriticConfig{StripAll: true}))
//	name, ok := h.Name(10, false) // "ALBA", true
//
// Lookups from a name to a code are not supported and return [ErrNotSupported].
//
// # Error Handling
//
// Errors are mapped to user-facing messages with a support code by
// [MapError]; see error_messages.go for the code table.
package core
