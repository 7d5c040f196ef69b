package store

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"cloud.google.com/go/storage"
	"github.com/carbocation/gtexmedian"
	"github.com/carbocation/gtexmedian/table"
	"github.com/carbocation/pfx"
)

const (
	// Delim is the character used to delimit the output
	Delim = '\t'

	BufferSize = 4096 * 32
)

// WriteTSV renders t, header first, to w.
func WriteTSV(w io.Writer, t *table.Table) error {
	cw := csv.NewWriter(w)
	cw.Comma = Delim

	if err := cw.Write(t.Header()); err != nil {
		return err
	}

	for _, row := range t.Rows {
		if err := cw.Write(row.Record()); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}

func writeMaybeGzipped(w io.Writer, t *table.Table, gz bool) error {
	bw := bufio.NewWriterSize(w, BufferSize)

	if gz {
		zw := gzip.NewWriter(bw)
		if err := WriteTSV(zw, t); err != nil {
			return err
		}
		if err := zw.Close(); err != nil {
			return err
		}
	} else if err := WriteTSV(bw, t); err != nil {
		return err
	}

	return bw.Flush()
}

// TSVFile writes to a local path via a temporary file in the same directory,
// renamed into place only once everything has been written.
type TSVFile struct {
	Path string
	Gzip bool
}

func (s TSVFile) Write(ctx context.Context, t *table.Table) error {
	if err := requireKeyed(t); err != nil {
		return err
	}

	return atomicReplace(s.Path, func(f *os.File) error {
		if err := writeMaybeGzipped(f, t, s.Gzip); err != nil {
			return err
		}
		return ctx.Err()
	})
}

// atomicReplace calls fill with a temporary file next to path and renames it
// over path if fill succeeds. The temporary file is removed otherwise.
func atomicReplace(path string, fill func(f *os.File) error) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return pfx.Err(err)
	}
	tmp := f.Name()

	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmp)
		}
	}()

	if err = fill(f); err != nil {
		return err
	}
	if err = f.Sync(); err != nil {
		return pfx.Err(err)
	}
	if err = f.Close(); err != nil {
		return pfx.Err(err)
	}

	if err = os.Rename(tmp, path); err != nil {
		return pfx.Err(err)
	}

	return nil
}

// TSVObject writes to a Google Storage object. The object only comes into
// existence when the upload completes; any failure cancels the upload.
type TSVObject struct {
	Client *storage.Client
	URL    string
	Gzip   bool
}

func (s TSVObject) Write(ctx context.Context, t *table.Table) error {
	if err := requireKeyed(t); err != nil {
		return err
	}

	if s.Client == nil {
		return fmt.Errorf("%s: a Google Storage client is required", s.URL)
	}

	bucketName, objectName, err := gtexmedian.SplitGoogleStoragePath(s.URL)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := s.Client.Bucket(bucketName).Object(objectName).NewWriter(ctx)
	w.ContentType = "text/tab-separated-values"

	if err := writeMaybeGzipped(w, t, s.Gzip); err != nil {
		// Cancelling before Close abandons the upload.
		cancel()
		w.Close()
		return pfx.Err(fmt.Errorf("%s: %w", s.URL, err))
	}

	if err := w.Close(); err != nil {
		return pfx.Err(fmt.Errorf("%s: %w", s.URL, err))
	}

	return nil
}
