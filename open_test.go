package gtexmedian

import (
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestSplitGoogleStoragePath(t *testing.T) {
	bucket, object, err := SplitGoogleStoragePath("gs://gtex-resources/v8/transcript_tpm.gct.gz")
	if err != nil {
		t.Fatal(err)
	}
	if bucket != "gtex-resources" || object != "v8/transcript_tpm.gct.gz" {
		t.Errorf("Got bucket %q and object %q", bucket, object)
	}

	for _, bad := range []string{"gs://bucket", "gs:///object", "gs://bucket/"} {
		if _, _, err := SplitGoogleStoragePath(bad); err == nil {
			t.Errorf("%q: expected an error", bad)
		}
	}
}

func TestOpenGzippedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matrix.gct.gz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := gzip.NewWriter(f)
	zw.Write([]byte(payload))
	zw.Close()
	f.Close()

	rc, err := MaybeOpenFromGoogleStorage(context.Background(), path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()

	if rc.DataType != DataTypeGzip {
		t.Errorf("Expected gzip, got %s", rc.DataType)
	}

	out, err := io.ReadAll(rc)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != payload {
		t.Errorf("Got %q", out)
	}
}

func TestOpenGoogleStorageWithoutClient(t *testing.T) {
	if _, err := MaybeOpenFromGoogleStorage(context.Background(), "gs://bucket/object", nil); err == nil {
		t.Error("Expected an error without a storage client")
	}
}
