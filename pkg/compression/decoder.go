package compression

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zlib"
)

// Decoder turns the raw bytes of a file into its decoded contents.
// Decoding is whole-buffer and in memory.
type Decoder interface {
	Decode(data []byte) ([]byte, error)
}

// DecodeError reports a corrupt or unreadable compressed stream.
type DecodeError struct {
	Format Format
	// Entry is the archive member being read, if any.
	Entry string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Entry != "" {
		return fmt.Sprintf("decoding %s entry %q: %v", e.Format, e.Entry, e.Err)
	}
	return fmt.Sprintf("decoding %s: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// DecoderFor returns the decoder for a format. Unknown formats get the
// identity decoder.
func DecoderFor(f Format) Decoder {
	switch f {
	case FormatGzip:
		return gzipDecoder{}
	case FormatZlib:
		return zlibDecoder{}
	case FormatZip:
		return zipDecoder{}
	case FormatLZ4:
		return lz4Decoder{}
	case FormatTar:
		return tarDecoder{}
	default:
		return noneDecoder{}
	}
}

// Decode decodes data with the decoder for f.
func Decode(f Format, data []byte) ([]byte, error) {
	return DecoderFor(f).Decode(data)
}

type noneDecoder struct{}

func (noneDecoder) Decode(data []byte) ([]byte, error) {
	return data, nil
}

// lz4Decoder is a pass-through; no LZ4 codec is implemented.
type lz4Decoder struct{}

func (lz4Decoder) Decode(data []byte) ([]byte, error) {
	return data, nil
}

// tarDecoder is a pass-through; tar members are not extracted.
type tarDecoder struct{}

func (tarDecoder) Decode(data []byte) ([]byte, error) {
	return data, nil
}

type gzipDecoder struct{}

func (gzipDecoder) Decode(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Format: FormatGzip, Err: err}
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, &DecodeError{Format: FormatGzip, Err: err}
	}
	return out, nil
}

type zlibDecoder struct{}

func (zlibDecoder) Decode(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Format: FormatZlib, Err: err}
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, &DecodeError{Format: FormatZlib, Err: err}
	}
	return out, nil
}

// zipDecoder concatenates every archive entry, in enumeration order, into a
// single buffer. Entry names are not exposed and entries cannot be selected.
type zipDecoder struct{}

func (zipDecoder) Decode(data []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &DecodeError{Format: FormatZip, Err: err}
	}

	var out bytes.Buffer
	for _, f := range zr.File {
		if err := copyEntry(&out, f); err != nil {
			return nil, &DecodeError{Format: FormatZip, Entry: f.Name, Err: err}
		}
	}
	return out.Bytes(), nil
}

func copyEntry(w io.Writer, f *zip.File) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	_, err = io.Copy(w, rc)
	return err
}
