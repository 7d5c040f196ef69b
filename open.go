package gtexmedian

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
)

// GSPrefix marks a path as a Google Storage object.
const GSPrefix = "gs://"

// IsGoogleStoragePath reports whether path names a Google Storage object.
func IsGoogleStoragePath(path string) bool {
	return strings.HasPrefix(path, GSPrefix)
}

// SplitGoogleStoragePath splits gs://bucket/path/to/object into its bucket and
// object names.
func SplitGoogleStoragePath(path string) (bucket, object string, err error) {
	pathParts := strings.SplitN(strings.TrimPrefix(path, GSPrefix), "/", 2)
	if len(pathParts) != 2 || pathParts[0] == "" || pathParts[1] == "" {
		return "", "", fmt.Errorf("Tried to split your google storage path into a bucket and an object, but got %d part(s): %v", len(pathParts), pathParts)
	}

	return pathParts[0], pathParts[1], nil
}

// ReadCloser is a decompressed input stream along with the handle that must
// be closed once reading is done.
type ReadCloser struct {
	io.Reader
	DataType DataType
	closer   io.Closer
}

func (r *ReadCloser) Close() error {
	if c, ok := r.Reader.(io.Closer); ok {
		c.Close()
	}

	return r.closer.Close()
}

// MaybeOpenFromGoogleStorage opens a local file, or a gs:// object when client
// is non-nil, and transparently decompresses it.
func MaybeOpenFromGoogleStorage(ctx context.Context, path string, client *storage.Client) (*ReadCloser, error) {
	var raw io.ReadCloser

	if IsGoogleStoragePath(path) {
		if client == nil {
			return nil, fmt.Errorf("%s: a Google Storage client is required to read gs:// paths", path)
		}

		bucketName, pathName, err := SplitGoogleStoragePath(path)
		if err != nil {
			return nil, err
		}

		// Open the bucket with default credentials
		rdr, err := client.Bucket(bucketName).Object(pathName).NewReader(ctx)
		if err != nil {
			return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
		}
		raw = rdr
	} else {
		f, err := os.Open(ExpandHome(path))
		if err != nil {
			return nil, pfx.Err(err)
		}
		raw = f
	}

	rdr, dt, err := MaybeDecompressReader(raw)
	if err != nil {
		raw.Close()
		return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}

	return &ReadCloser{Reader: rdr, DataType: dt, closer: raw}, nil
}
