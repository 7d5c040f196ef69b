package pipeline

import (
	"bufio"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/storage"
	"github.com/carbocation/gtexmedian"
	"github.com/carbocation/gtexmedian/aggregate"
	"github.com/carbocation/gtexmedian/annotation"
	"github.com/carbocation/gtexmedian/expression"
	"github.com/carbocation/gtexmedian/store"
	"github.com/carbocation/gtexmedian/table"
	"github.com/carbocation/gtexmedian/tissue"
)

// LogEvery is how often, in transcripts, progress is logged.
var LogEvery = 50000

func (s *Session) open(path string) (*gtexmedian.ReadCloser, *bufio.Reader, rune, error) {
	var client *storage.Client
	if gtexmedian.IsGoogleStoragePath(path) {
		var err error
		if client, err = s.StorageClient(); err != nil {
			return nil, nil, 0, err
		}
	}

	rc, err := gtexmedian.MaybeOpenFromGoogleStorage(s.Context, path, client)
	if err != nil {
		return nil, nil, 0, err
	}

	br := bufio.NewReaderSize(rc, gtexmedian.SniffSize)
	delim := s.Config.Delimiter
	if delim == 0 {
		delim = gtexmedian.PeekDelimiter(br)
	}

	log.Printf("Reading %s (%s, delimiter %q)\n", path, rc.DataType, string(delim))

	return rc, br, delim, nil
}

// LoadAnnotations reads the sample annotation table at path.
func (s *Session) LoadAnnotations(path string) (*annotation.Annotations, error) {
	rc, br, delim, err := s.open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	ann, err := annotation.Load(br, delim)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	log.Printf("Loaded tissue annotations for %d samples\n", ann.Len())

	return ann, nil
}

// Group resolves the tissue of each matrix sample and lays out the output
// columns.
func (s *Session) Group(samples []string, ann *annotation.Annotations) (aggregate.Grouping, error) {
	res, err := ann.Resolve(samples, s.Config.RequireAnnotations)
	if err != nil {
		return aggregate.Grouping{}, err
	}
	if len(res.Missing) > 0 {
		log.Printf("Excluding %d of %d samples that have no tissue annotation\n", len(res.Missing), len(samples))
	}

	plan, err := tissue.PlanColumns(res.Labels(), s.Config.Collisions)
	if err != nil {
		return aggregate.Grouping{}, err
	}
	for _, col := range plan.Collisions() {
		log.Printf("Merging tissues %q into the single column %s\n", col.Labels, col.Name)
	}

	g := aggregate.NewGrouping(plan, res)
	log.Printf("Summarizing %d samples into %d tissues\n", len(samples)-g.Excluded, len(g.Columns))

	return g, nil
}

// Summarize streams the matrix at path and reduces it to a keyed table.
func (s *Session) Summarize(matrixPath string, ann *annotation.Annotations) (*table.Table, error) {
	rc, br, delim, err := s.open(matrixPath)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	rdr, err := expression.NewReader(br, delim)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", matrixPath, err)
	}

	tab, err := s.SummarizeSource(rdr, ann)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", matrixPath, err)
	}

	return tab, nil
}

// SummarizeSource reduces an already-opened matrix to a keyed table.
func (s *Session) SummarizeSource(src expression.Source, ann *annotation.Annotations) (*table.Table, error) {
	g, err := s.Group(src.Samples(), ann)
	if err != nil {
		return nil, err
	}

	tab, err := aggregate.Run(s.Context, src, g, aggregate.Options{
		Estimator: s.Config.Estimator,
		Workers:   s.Config.Workers,
		LogEvery:  LogEvery,
	})
	if err != nil {
		return nil, err
	}

	if err := tab.KeyBy(); err != nil {
		return nil, err
	}

	log.Printf("Summarized %d transcripts with the %s median\n", len(tab.Rows), s.Config.Estimator.Name())

	return tab, nil
}

// Prepare runs every stage up to, but not including, persistence.
func (s *Session) Prepare(matrixPath, annotationPath string) (*table.Table, error) {
	ann, err := s.LoadAnnotations(annotationPath)
	if err != nil {
		return nil, err
	}

	return s.Summarize(matrixPath, ann)
}

// Run prepares the table and writes it to output. Nothing is written unless
// every stage succeeds.
func (s *Session) Run(matrixPath, annotationPath, output string) error {
	start := time.Now()

	loc, err := store.ParseLocation(output)
	if err != nil {
		return err
	}

	// Resolve the writer first so that credential problems surface before the
	// matrix is read.
	w, err := s.Writer(loc)
	if err != nil {
		return err
	}

	tab, err := s.Prepare(matrixPath, annotationPath)
	if err != nil {
		return err
	}

	log.Printf("Writing %d transcripts to %s (%s)\n", len(tab.Rows), loc, loc.Kind)
	if err := w.Write(s.Context, tab); err != nil {
		return err
	}

	log.Printf("Finished in %.2f seconds\n", time.Since(start).Seconds())

	return nil
}
