package gtexmedian

import (
	"bufio"
	"compress/bzip2"
	"compress/gzip"
	"compress/zlib"
	"io"

	"github.com/krolaw/zipstream"
	"github.com/xi2/xz"
)

type DataType byte

const (
	DataTypeInvalid DataType = iota
	DataTypeNoCompression
	DataTypeGzip
	DataTypeZip
	DataTypeXZ
	DataTypeZlib
	DataTypeBZip2
)

func (dt DataType) String() string {
	switch dt {
	case DataTypeNoCompression:
		return "uncompressed"
	case DataTypeGzip:
		return "gzip"
	case DataTypeZip:
		return "zip"
	case DataTypeXZ:
		return "xz"
	case DataTypeZlib:
		return "zlib"
	case DataTypeBZip2:
		return "bzip2"
	}

	return "invalid"
}

// Ordered longest-first so that the two-byte zlib headers never shadow a
// longer signature.
var byteCodeSigs = []struct {
	dt  DataType
	sig []byte
}{
	{DataTypeXZ, []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}},
	{DataTypeZip, []byte{0x50, 0x4b, 0x03, 0x04}},
	{DataTypeGzip, []byte{0x1f, 0x8b, 0x08}},
	{DataTypeBZip2, []byte{0x42, 0x5a, 0x68}},
	{DataTypeZlib, []byte{0x78, 0x01}},
	{DataTypeZlib, []byte{0x78, 0x9c}},
	{DataTypeZlib, []byte{0x78, 0xda}},
}

// DetectDataType attempts to detect the data type of a stream by checking
// against a set of known data types, without consuming from br. Byte code
// signatures from https://stackoverflow.com/a/19127748/199475 and, for zlib,
// RFC 1950 headers at the default, fastest and best compression levels.
func DetectDataType(br *bufio.Reader) (DataType, error) {
	buff, err := br.Peek(6)
	if err != nil && err != io.EOF {
		return DataTypeInvalid, err
	}

	// Match known signatures
Outer:
	for _, candidate := range byteCodeSigs {
		if len(buff) < len(candidate.sig) {
			continue
		}
		for position := range candidate.sig {
			if buff[position] != candidate.sig[position] {
				continue Outer
			}
		}
		return candidate.dt, nil
	}

	return DataTypeNoCompression, nil
}

// MaybeDecompressReader wraps r in the decompressor matching its leading
// bytes. Uncompressed streams are returned buffered but otherwise untouched.
func MaybeDecompressReader(r io.Reader) (io.Reader, DataType, error) {
	br := bufio.NewReaderSize(r, SniffSize)

	dt, err := DetectDataType(br)
	if err != nil {
		return nil, dt, err
	}

	switch dt {
	case DataTypeGzip:
		zr, err := gzip.NewReader(br)
		return zr, dt, err
	case DataTypeZip:
		// Only the first member of an archive is read.
		zr := zipstream.NewReader(br)
		if _, err := zr.Next(); err != nil {
			return nil, dt, err
		}
		return zr, dt, nil
	case DataTypeBZip2:
		return bzip2.NewReader(br), dt, nil
	case DataTypeXZ:
		reader, err := xz.NewReader(br, 0)
		return reader, dt, err
	case DataTypeZlib:
		zr, err := zlib.NewReader(br)
		return zr, dt, err
	}

	// No data type detected. For now, we assume this is uncompressed.
	return br, dt, nil
}
