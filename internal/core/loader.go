package core

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// LoadFile opens path and loads it with Load.
// A missing or unreadable file returns an error wrapping ErrSourceUnavailable.
func LoadFile(path string, opts LoadOptions) (*Registry, []Diagnostic, error) {
	if opts.Source == "" {
		opts.Source = path
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, []Diagnostic{sourceDiagnostic(opts.Source, err)},
			fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	defer f.Close()

	return Load(f, opts)
}

// Load reads a semicolon-delimited SIRUTA file and builds a Registry.
//
// Row-level problems never abort the load: they are returned as diagnostics
// and the row is skipped, or kept in the case of a failing checksum. Only a
// read failure of the source itself, or any diagnostic when opts.Strict is
// set, returns an error, in which case the registry is nil.
func Load(r io.Reader, opts LoadOptions) (*Registry, []Diagnostic, error) {
	if r == nil {
		err := errors.New("nil reader")
		return nil, []Diagnostic{sourceDiagnostic(opts.Source, err)},
			fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	start := time.Now()
	counter, src := newSourceReader(r)

	cr := csv.NewReader(src)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	l := &loader{opts: opts, records: make(map[int]Record)}

	for first := true; ; first = false {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if !errors.As(err, &pe) {
				l.diags = append(l.diags, sourceDiagnostic(opts.Source, err))
				return nil, l.diags, fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, opts.Source, err)
			}
			l.stats.Rows++
			l.stats.Skipped++
			if err := l.report(Diagnostic{Kind: DiagMalformedRow, Line: pe.Line, Message: pe.Err.Error()}); err != nil {
				return nil, l.diags, err
			}
			continue
		}

		if first && isHeader(row) {
			continue
		}

		line, _ := cr.FieldPos(0)
		if err := l.addRow(row, line); err != nil {
			return nil, l.diags, err
		}
	}

	reg := newRegistry(l.records, opts.Source)
	if err := l.checkReferences(reg); err != nil {
		return nil, l.diags, err
	}

	l.stats.Records = reg.Len()
	l.stats.Counties = len(reg.counties)
	l.stats.BytesRead = counter.n
	l.stats.Duration = time.Since(start)
	reg.stats = l.stats

	return reg, l.diags, nil
}

type loader struct {
	opts    LoadOptions
	records map[int]Record
	lines   map[int]int // code -> line, for reference diagnostics
	diags   []Diagnostic
	stats   LoadStats
}

// report records d and, in strict mode, turns it into the load error.
func (l *loader) report(d Diagnostic) error {
	l.diags = append(l.diags, d)
	if l.opts.Strict {
		return fmt.Errorf("%w: %s", ErrStrictDiagnostic, d)
	}
	return nil
}

func (l *loader) addRow(row []string, line int) error {
	l.stats.Rows++

	rec, err := parseRow(row)
	if err != nil {
		l.stats.Skipped++
		d := Diagnostic{Kind: DiagMalformedRow, Line: line, Message: err.Error()}
		var ve ValidationError
		if errors.As(err, &ve) {
			d.Kind = ve.Kind
		}
		if d.Kind == DiagFieldCount {
			d.Message = fmt.Sprintf("%s: %q", d.Message, strings.Join(row, ";"))
		}
		return l.report(d)
	}

	if !IsValidCode(rec.Code) {
		err := l.report(Diagnostic{
			Kind:    DiagChecksum,
			Line:    line,
			Code:    rec.Code,
			Message: fmt.Sprintf("SIRUTA code %d is not valid", rec.Code),
		})
		if err != nil {
			return err
		}
	}

	if prev, ok := l.lines[rec.Code]; ok {
		err := l.report(Diagnostic{
			Kind:    DiagDuplicateCode,
			Line:    line,
			Code:    rec.Code,
			Message: fmt.Sprintf("SIRUTA code %d already defined on line %d", rec.Code, prev),
		})
		if err != nil {
			return err
		}
	}

	if l.lines == nil {
		l.lines = make(map[int]int)
	}
	l.lines[rec.Code] = line
	l.records[rec.Code] = rec
	return nil
}

// checkReferences reports records whose county has no marker and records
// whose parent is missing. County markers reference the country as parent,
// which is not a row of the file.
func (l *loader) checkReferences(reg *Registry) error {
	for _, code := range reg.codes {
		rec := reg.records[code]
		if rec.IsCounty() {
			continue
		}

		if _, ok := reg.counties[rec.County]; !ok {
			err := l.report(Diagnostic{
				Kind:    DiagUnknownCounty,
				Line:    l.lines[code],
				Code:    code,
				Message: fmt.Sprintf("SIRUTA code %d references county %d which has no county entry", code, rec.County),
			})
			if err != nil {
				return err
			}
		}

		if rec.Parent != NoParent && !reg.Contains(rec.Parent) {
			err := l.report(Diagnostic{
				Kind:    DiagDanglingParent,
				Line:    l.lines[code],
				Code:    code,
				Message: fmt.Sprintf("SIRUTA code %d references parent %d which is not in the database", code, rec.Parent),
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func sourceDiagnostic(source string, err error) Diagnostic {
	msg := "registry source unavailable: " + err.Error()
	if source != "" {
		msg = fmt.Sprintf("registry source %s unavailable: %v", source, err)
	}
	return Diagnostic{Kind: DiagSourceUnavailable, Message: msg}
}
