package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/carbocation/gtexmedian/table"
	"github.com/carbocation/pfx"
	"github.com/jmoiron/sqlx"

	_ "modernc.org/sqlite"
)

const (
	// SQLiteDriver is the database/sql name registered by modernc.org/sqlite.
	SQLiteDriver = "sqlite"

	ExpressionTable = "tissue_expression"
	TissueTable     = "tissues"
)

// SQLiteFile builds a SQLite database in a temporary file and renames it over
// Path. The expression table is a WITHOUT ROWID table keyed by transcript_id,
// so no positional row identifier is stored.
type SQLiteFile struct {
	Path string
}

type tissueRecord struct {
	Name    string `db:"name"`
	Labels  string `db:"labels"`
	Samples int    `db:"samples"`
}

func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// CreateStatements returns the DDL for t.
func CreateStatements(t *table.Table) []string {
	cols := []string{
		"transcript_id TEXT NOT NULL PRIMARY KEY",
		"transcript_version INTEGER NOT NULL",
		"gene_id TEXT NOT NULL",
		"gene_version INTEGER NOT NULL",
	}
	for _, col := range t.Columns {
		cols = append(cols, quoteIdentifier(col.Name)+" REAL")
	}

	return []string{
		fmt.Sprintf("CREATE TABLE %s (\n\t%s\n) WITHOUT ROWID", ExpressionTable, strings.Join(cols, ",\n\t")),
		fmt.Sprintf("CREATE INDEX %s_gene_id ON %s (gene_id)", ExpressionTable, ExpressionTable),
		fmt.Sprintf("CREATE TABLE %s (name TEXT NOT NULL PRIMARY KEY, labels TEXT NOT NULL, samples INTEGER NOT NULL)", TissueTable),
	}
}

func (s SQLiteFile) Write(ctx context.Context, t *table.Table) error {
	if err := requireKeyed(t); err != nil {
		return err
	}

	return atomicReplace(s.Path, func(f *os.File) error {
		return fillSQLite(ctx, f.Name(), t)
	})
}

func fillSQLite(ctx context.Context, path string, t *table.Table) error {
	db, err := sqlx.ConnectContext(ctx, SQLiteDriver, path)
	if err != nil {
		return pfx.Err(err)
	}
	defer db.Close()

	// The file is discarded on any failure, so durability is handled by the
	// final rename rather than by SQLite.
	if _, err := db.ExecContext(ctx, "PRAGMA synchronous = OFF"); err != nil {
		return pfx.Err(err)
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return pfx.Err(err)
	}
	defer tx.Rollback()

	for _, stmt := range CreateStatements(t) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return pfx.Err(fmt.Errorf("%s: %w", stmt, err))
		}
	}

	for _, col := range t.Columns {
		labels, err := json.Marshal(col.Labels)
		if err != nil {
			return err
		}
		rec := tissueRecord{Name: col.Name, Labels: string(labels), Samples: col.Samples}
		if _, err := tx.NamedExecContext(ctx, "INSERT INTO "+TissueTable+" (name, labels, samples) VALUES (:name, :labels, :samples)", rec); err != nil {
			return pfx.Err(err)
		}
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(table.FixedColumns)+len(t.Columns)), ", ")
	quoted := make([]string, 0, len(table.FixedColumns)+len(t.Columns))
	for _, name := range t.Header() {
		quoted = append(quoted, quoteIdentifier(name))
	}
	insert, err := tx.PreparexContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", ExpressionTable, strings.Join(quoted, ", "), placeholders))
	if err != nil {
		return pfx.Err(err)
	}
	defer insert.Close()

	args := make([]interface{}, 0, len(table.FixedColumns)+len(t.Columns))
	for _, row := range t.Rows {
		args = append(args[:0], row.TranscriptID, row.TranscriptVersion, row.GeneID, row.GeneVersion)
		for _, v := range row.Tissues {
			args = append(args, v)
		}

		if _, err := insert.ExecContext(ctx, args...); err != nil {
			return pfx.Err(fmt.Errorf("transcript %s: %w", row.TranscriptID, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return pfx.Err(err)
	}

	return nil
}
