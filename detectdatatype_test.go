package gtexmedian

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"io"
	"strings"
	"testing"
)

const payload = "transcript_id\tgene_id\tS1\nENST00000373020.8\tENSG00000000003.14\t1\n"

func TestDetectDataType(t *testing.T) {
	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	zw.Write([]byte(payload))
	zw.Close()

	cases := map[DataType][]byte{
		DataTypeGzip:          gz.Bytes(),
		DataTypeNoCompression: []byte(payload),
		DataTypeXZ:            {0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00, 0x00},
		DataTypeZip:           {0x50, 0x4b, 0x03, 0x04, 0x00},
		DataTypeBZip2:         {0x42, 0x5a, 0x68, 0x39},
	}

	for expected, input := range cases {
		br := bufio.NewReader(bytes.NewReader(input))
		dt, err := DetectDataType(br)
		if err != nil {
			t.Errorf("%s: %v", expected, err)
			continue
		}
		if dt != expected {
			t.Errorf("Expected %s, got %s", expected, dt)
		}

		// Detection must not consume input
		if first, _ := br.ReadByte(); first != input[0] {
			t.Errorf("%s: detection consumed input", expected)
		}
	}
}

func TestDetectDataTypeShortInput(t *testing.T) {
	dt, err := DetectDataType(bufio.NewReader(strings.NewReader("a\n")))
	if err != nil {
		t.Fatal(err)
	}
	if dt != DataTypeNoCompression {
		t.Errorf("Expected uncompressed, got %s", dt)
	}
}

func TestMaybeDecompressReader(t *testing.T) {
	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	zw.Write([]byte(payload))
	zw.Close()

	var zl bytes.Buffer
	lw := zlib.NewWriter(&zl)
	lw.Write([]byte(payload))
	lw.Close()

	for name, input := range map[string][]byte{
		"gzip":  gz.Bytes(),
		"zlib":  zl.Bytes(),
		"plain": []byte(payload),
	} {
		r, _, err := MaybeDecompressReader(bytes.NewReader(input))
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}

		out, err := io.ReadAll(r)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}

		if string(out) != payload {
			t.Errorf("%s: got %q", name, out)
		}
	}
}
