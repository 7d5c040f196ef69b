// Package aggregate reduces an expression matrix to one median per transcript
// and tissue column.
package aggregate

import (
	"context"
	"fmt"
	"io"
	"log"
	"runtime"
	"sync"

	"github.com/carbocation/gtexmedian/expression"
	"github.com/carbocation/gtexmedian/table"
	"golang.org/x/sync/errgroup"
	"gopkg.in/guregu/null.v3"
)

// BatchSize is the number of rows handed to a worker at a time.
var BatchSize = 512

// Options controls a Run.
type Options struct {
	Estimator Estimator

	// Workers bounds the number of batches summarized concurrently. Zero
	// means GOMAXPROCS.
	Workers int

	// LogEvery, if positive, logs progress after that many rows.
	LogEvery int
}

// Summarize computes the per-column median of one row. Columns with no
// non-missing values are null.
func Summarize(row *expression.Row, g Grouping, est Estimator, scratch []float64) (table.Row, []float64) {
	out := table.Row{
		TranscriptID:      row.Transcript.ID,
		TranscriptVersion: row.Transcript.Version,
		GeneID:            row.Gene.ID,
		GeneVersion:       row.Gene.Version,
		Tissues:           make([]null.Float, len(g.Columns)),
		Line:              row.Line,
	}

	for col, members := range g.Members {
		scratch = scratch[:0]
		for _, sampleIdx := range members {
			if v := row.Values[sampleIdx]; v.Valid {
				scratch = append(scratch, v.Float64)
			}
		}

		if len(scratch) == 0 {
			continue
		}

		out.Tissues[col] = null.FloatFrom(est.Median(scratch))
	}

	return out, scratch
}

// Run reads every row from src and summarizes it by tissue. Rows are
// summarized in parallel batches; the result is in input order and is not yet
// keyed.
func Run(ctx context.Context, src expression.Source, g Grouping, opts Options) (*table.Table, error) {
	if opts.Estimator == nil {
		opts.Estimator = Exact{}
	}
	workers := opts.Workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	nSamples := len(src.Samples())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	var mu sync.Mutex
	batches := make([][]table.Row, 0)

	seen := 0
	readErr := func() error {
		for done := false; !done; {
			if err := gctx.Err(); err != nil {
				return err
			}

			batch := make([]*expression.Row, 0, BatchSize)
			for len(batch) < BatchSize {
				row, err := src.Read()
				if err == io.EOF {
					done = true
					break
				} else if err != nil {
					return err
				}
				if len(row.Values) != nSamples {
					return fmt.Errorf("line %d has %d values for %d samples", row.Line, len(row.Values), nSamples)
				}
				batch = append(batch, row)
			}

			if len(batch) == 0 {
				break
			}

			mu.Lock()
			idx := len(batches)
			batches = append(batches, nil)
			mu.Unlock()

			// Blocks while every worker is busy.
			eg.Go(func() error {
				out := make([]table.Row, len(batch))
				scratch := make([]float64, 0, nSamples)
				for i, row := range batch {
					if err := gctx.Err(); err != nil {
						return err
					}
					out[i], scratch = Summarize(row, g, opts.Estimator, scratch)
				}

				mu.Lock()
				batches[idx] = out
				mu.Unlock()

				return nil
			})

			prior := seen
			seen += len(batch)
			if opts.LogEvery > 0 && seen/opts.LogEvery > prior/opts.LogEvery {
				log.Printf("Read %d transcripts\n", seen)
			}
		}

		return nil
	}()

	if readErr != nil {
		cancel()
		eg.Wait()
		return nil, readErr
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	out := &table.Table{Columns: g.Columns, Rows: make([]table.Row, 0, seen)}
	for _, batch := range batches {
		out.Rows = append(out.Rows, batch...)
	}

	return out, nil
}
