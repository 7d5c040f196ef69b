// Package store persists a keyed tissue expression table. Every writer
// replaces its destination wholesale and leaves nothing behind on failure.
package store

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/carbocation/gtexmedian"
	"github.com/carbocation/gtexmedian/table"
)

// Writer persists a keyed table.
type Writer interface {
	Write(ctx context.Context, t *table.Table) error
}

type Kind int

const (
	TSV Kind = iota
	SQLite
	BigQuery
)

func (k Kind) String() string {
	switch k {
	case SQLite:
		return "sqlite"
	case BigQuery:
		return "bigquery"
	}

	return "tsv"
}

// BigQueryPrefix marks an output as a BigQuery table: bq://project/dataset/table
const BigQueryPrefix = "bq://"

// Location is a parsed --output value.
type Location struct {
	Kind Kind

	// Path is a local path or a gs:// URL for TSV and SQLite outputs.
	Path string
	Gzip bool

	Project string
	Dataset string
	Table   string
}

// GoogleStorage reports whether the location is a gs:// object.
func (l Location) GoogleStorage() bool {
	return gtexmedian.IsGoogleStoragePath(l.Path)
}

func (l Location) String() string {
	if l.Kind == BigQuery {
		return fmt.Sprintf("%s%s/%s/%s", BigQueryPrefix, l.Project, l.Dataset, l.Table)
	}

	return l.Path
}

// ParseLocation decides how an output path is written:
//
//	bq://project/dataset/table    BigQuery table
//	*.db, *.sqlite, *.sqlite3     SQLite database (local only)
//	anything else                 TSV, gzipped if it ends in .gz; local or gs://
func ParseLocation(output string) (Location, error) {
	if output == "" {
		return Location{}, fmt.Errorf("no output location given")
	}

	if strings.HasPrefix(output, BigQueryPrefix) {
		parts := strings.Split(strings.TrimPrefix(output, BigQueryPrefix), "/")
		if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
			return Location{}, fmt.Errorf("BigQuery output %q must look like %sproject/dataset/table", output, BigQueryPrefix)
		}

		return Location{Kind: BigQuery, Project: parts[0], Dataset: parts[1], Table: parts[2]}, nil
	}

	loc := Location{Kind: TSV, Path: output}
	if !loc.GoogleStorage() {
		loc.Path = gtexmedian.ExpandHome(output)
	} else if _, _, err := gtexmedian.SplitGoogleStoragePath(output); err != nil {
		return Location{}, err
	}

	switch strings.ToLower(filepath.Ext(output)) {
	case ".db", ".sqlite", ".sqlite3":
		if loc.GoogleStorage() {
			return Location{}, fmt.Errorf("SQLite output %q must be a local path", output)
		}
		loc.Kind = SQLite
	case ".gz":
		loc.Gzip = true
	}

	return loc, nil
}

func requireKeyed(t *table.Table) error {
	if !t.Keyed() {
		return fmt.Errorf("refusing to write a table that has not been keyed by %s", table.KeyColumn)
	}

	return nil
}
