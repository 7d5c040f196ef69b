package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"cloud.google.com/go/bigquery"
	"github.com/carbocation/gtexmedian/table"
	"github.com/carbocation/pfx"
	"google.golang.org/api/googleapi"
)

// BigQueryTable loads the table with WRITE_TRUNCATE, so the destination is
// replaced in a single job. The dataset is created if it does not exist.
// BigQuery has no primary keys; transcript_id is REQUIRED and the rows are
// loaded in key order.
type BigQueryTable struct {
	Client  *bigquery.Client
	Dataset string
	Table   string

	// DatasetLocation is used only when the dataset needs to be created.
	DatasetLocation string
}

// Schema returns the BigQuery schema for t.
func Schema(t *table.Table) bigquery.Schema {
	schema := bigquery.Schema{
		{Name: "transcript_id", Type: bigquery.StringFieldType, Required: true},
		{Name: "transcript_version", Type: bigquery.IntegerFieldType, Required: true},
		{Name: "gene_id", Type: bigquery.StringFieldType, Required: true},
		{Name: "gene_version", Type: bigquery.IntegerFieldType, Required: true},
	}

	for _, col := range t.Columns {
		schema = append(schema, &bigquery.FieldSchema{
			Name:        col.Name,
			Type:        bigquery.FloatFieldType,
			Description: fmt.Sprintf("Median TPM across %d samples", col.Samples),
		})
	}

	return schema
}

func (s BigQueryTable) ensureDataset(ctx context.Context) error {
	ds := s.Client.Dataset(s.Dataset)

	_, err := ds.Metadata(ctx)
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) || gerr.Code != http.StatusNotFound {
		return err
	}

	log.Printf("Creating BigQuery dataset %s\n", s.Dataset)

	return ds.Create(ctx, &bigquery.DatasetMetadata{Location: s.DatasetLocation})
}

func (s BigQueryTable) Write(ctx context.Context, t *table.Table) error {
	if err := requireKeyed(t); err != nil {
		return err
	}

	if s.Client == nil {
		return fmt.Errorf("a BigQuery client is required to write %s.%s", s.Dataset, s.Table)
	}

	if err := s.ensureDataset(ctx); err != nil {
		return pfx.Err(err)
	}

	// Stream the TSV straight into the load job.
	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(WriteTSV(pw, t))
	}()
	defer pr.Close()

	src := bigquery.NewReaderSource(pr)
	src.SourceFormat = bigquery.CSV
	src.FieldDelimiter = string(Delim)
	src.SkipLeadingRows = 1
	src.Schema = Schema(t)

	loader := s.Client.Dataset(s.Dataset).Table(s.Table).LoaderFrom(src)
	loader.CreateDisposition = bigquery.CreateIfNeeded
	loader.WriteDisposition = bigquery.WriteTruncate

	job, err := loader.Run(ctx)
	if err != nil {
		return pfx.Err(err)
	}

	log.Printf("Waiting for BigQuery load job %s\n", job.ID())

	status, err := job.Wait(ctx)
	if err != nil {
		return pfx.Err(err)
	}
	if err := status.Err(); err != nil {
		return pfx.Err(fmt.Errorf("load into %s.%s: %w", s.Dataset, s.Table, err))
	}

	return nil
}
