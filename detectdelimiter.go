package gtexmedian

import (
	"bufio"
	"bytes"
	"io"

	"github.com/csimplestring/go-csv/detector"
)

// SniffSize is the number of leading bytes used to guess a delimiter or a
// compression format.
const SniffSize = 64 * 1024

// DetermineDelimiter returns the single most likely rune that would delimit the
// values in the reader, assuming a CSV-like file. A tab in the header line wins
// outright: GTEx releases are tab delimited, and the periods in versioned IDs
// can otherwise look like a delimiter.
func DetermineDelimiter(r io.Reader) rune {
	sample, _ := io.ReadAll(io.LimitReader(r, SniffSize))

	header := sample
	if i := bytes.IndexByte(sample, '\n'); i >= 0 {
		header = sample[:i]
	}
	if bytes.IndexByte(header, '\t') >= 0 {
		return '\t'
	}

	d := detector.New()
	delimiters := d.DetectDelimiter(bytes.NewReader(sample), '"')

	if len(delimiters) > 0 {
		return rune(delimiters[0][0])
	}

	return ','
}

// PeekDelimiter guesses the delimiter of br without consuming any of it.
func PeekDelimiter(br *bufio.Reader) rune {
	sample, _ := br.Peek(SniffSize)

	return DetermineDelimiter(bytes.NewReader(sample))
}
