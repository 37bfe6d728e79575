package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// DefaultExportTable is the mirror table used when none is configured.
const DefaultExportTable = "siruta_entities"

var exportColumns = []string{
	"siruta", "name", "postal_code", "county", "parent",
	"entity_type", "level", "urban", "region", "load_id",
}

// TxBeginner is the part of a pgx pool the exporter needs.
// *pgxpool.Pool and *pgx.Conn satisfy it.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Exporter mirrors registries into a PostgreSQL table.
type Exporter struct {
	db    TxBeginner
	table string
	ident pgx.Identifier
}

// NewExporter returns an exporter writing to table, or DefaultExportTable if empty.
func NewExporter(db TxBeginner, table string) *Exporter {
	if table == "" {
		table = DefaultExportTable
	}
	// "schema.table" addresses a table outside the search path.
	return &Exporter{db: db, table: table, ident: pgx.Identifier(strings.Split(table, "."))}
}

// Table returns the target table name.
func (e *Exporter) Table() string { return e.table }

// EnsureTable creates the mirror table if it does not exist.
func (e *Exporter) EnsureTable(ctx context.Context) error {
	_, err := e.db.Exec(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	siruta      integer PRIMARY KEY,
	name        text    NOT NULL,
	postal_code integer,
	county      integer NOT NULL,
	parent      integer,
	entity_type integer NOT NULL,
	level       text,
	urban       boolean NOT NULL,
	region      integer,
	load_id     uuid    NOT NULL
)`, e.ident.Sanitize()))
	if err != nil {
		return fmt.Errorf("create %s: %w", e.table, err)
	}
	return nil
}

// Export replaces the table contents with reg in a single transaction.
// Readers of the table see either the previous load or the new one.
func (e *Exporter) Export(ctx context.Context, reg *Registry) (int64, error) {
	start := time.Now()

	tx, err := e.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin export: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM "+e.ident.Sanitize()); err != nil {
		return 0, fmt.Errorf("clear %s: %w", e.table, err)
	}

	n, err := tx.CopyFrom(ctx, e.ident, exportColumns, newRegistrySource(reg))
	if err != nil {
		return 0, fmt.Errorf("copy into %s: %w", e.table, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit export: %w", err)
	}

	slog.Info("registry exported",
		"table", e.table,
		"load_id", reg.ID().String(),
		"rows", n,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return n, nil
}

// Observer returns a ReloadObserver that exports every new registry, each
// export bounded by timeout when positive. report, if non-nil, receives the
// start time and outcome. Failures are logged; the registry stays active
// regardless.
func (e *Exporter) Observer(timeout time.Duration, report func(start time.Time, err error)) ReloadObserver {
	return func(ctx context.Context, reg *Registry, _ []Diagnostic) {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		start := time.Now()
		_, err := e.Export(ctx, reg)
		if report != nil {
			report(start, err)
		}
		if err != nil {
			slog.Error("registry export failed",
				"table", e.table,
				"load_id", reg.ID().String(),
				"error", err,
				"hint", FormatUserError(err),
			)
		}
	}
}

// registrySource feeds registry records to CopyFrom in code order.
type registrySource struct {
	reg    *Registry
	loadID pgtype.UUID
	idx    int
}

func newRegistrySource(reg *Registry) *registrySource {
	return &registrySource{reg: reg, loadID: ToPgUUID(reg.ID()), idx: -1}
}

func (s *registrySource) Next() bool {
	s.idx++
	return s.idx < len(s.reg.codes)
}

func (s *registrySource) Values() ([]any, error) {
	rec := s.reg.records[s.reg.codes[s.idx]]
	return exportRow(rec, s.loadID), nil
}

func (s *registrySource) Err() error { return nil }
