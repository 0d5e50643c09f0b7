package body

import (
	"compress/gzip"
	"io"

	"github.com/jberryman/http-client/header"
	"github.com/jberryman/http-client/httperr"
)

// MaybeDecompress splices a gzip decoder in front of the framed body when
// the response declares "Content-Encoding: gzip" (case-insensitive name,
// exact value); otherwise it returns the framed reader unchanged. Errors
// opening the gzip stream (a truncated or non-gzip body, say) surface
// lazily on the first Read, wrapped as a parser error.
func MaybeDecompress(framed *Reader, h header.List) io.Reader {
	if !h.HasValue("Content-Encoding", "gzip") {
		return framed
	}
	return &lazyGzipReader{src: framed}
}

// lazyGzipReader defers constructing the gzip.Reader until the first Read,
// since gzip.NewReader itself reads the header off the stream and we don't
// want that happening before the caller asks for any bytes.
type lazyGzipReader struct {
	src io.Reader
	gz  *gzip.Reader
	err error
}

func (g *lazyGzipReader) Read(p []byte) (int, error) {
	if g.err != nil {
		return 0, g.err
	}
	if g.gz == nil {
		gz, err := gzip.NewReader(g.src)
		if err != nil {
			g.err = httperr.NewParseError("Gzip header", err)
			return 0, g.err
		}
		g.gz = gz
	}
	n, err := g.gz.Read(p)
	if err != nil && err != io.EOF {
		err = httperr.NewParseError("Gzip inflate", err)
		g.err = err
	}
	return n, err
}
