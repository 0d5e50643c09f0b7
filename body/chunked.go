package body

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/jberryman/http-client/httperr"
)

// chunkedReader decodes HTTP/1.1 chunked transfer encoding: repeatedly a
// hex length line, that many body bytes, a trailing CRLF, until a
// zero-length chunk ends the body. Chunk extensions (after ';') and
// trailers are consumed but never surfaced to the caller.
type chunkedReader struct {
	r         *bufio.Reader
	remaining int64 // bytes left in the current chunk
	done      bool
	err       error
}

func newChunkedReader(r *bufio.Reader) *chunkedReader {
	return &chunkedReader{r: r}
}

func (c *chunkedReader) Read(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	if c.done {
		return 0, io.EOF
	}
	if c.remaining == 0 {
		if err := c.nextChunkHeader(); err != nil {
			c.err = err
			return 0, err
		}
		if c.done {
			return 0, io.EOF
		}
	}
	if int64(len(p)) > c.remaining {
		p = p[:c.remaining]
	}
	n, err := c.r.Read(p)
	c.remaining -= int64(n)
	if err != nil && err != io.EOF {
		c.err = httperr.NewParseError("Chunk body", err)
		return n, c.err
	}
	if c.remaining == 0 {
		if err := c.consumeChunkCRLF(); err != nil {
			c.err = err
			return n, err
		}
	}
	return n, nil
}

// nextChunkHeader reads the hex-length line (discarding any chunk
// extension after ';') and stores it in c.remaining, or marks c.done on a
// zero-length (terminating) chunk.
func (c *chunkedReader) nextChunkHeader() error {
	line, err := c.r.ReadString('\n')
	if err != nil {
		return httperr.NewParseError("Chunk header", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	size, err := strconv.ParseInt(line, 16, 64)
	if err != nil || size < 0 {
		return httperr.NewParseError("Chunk header", err)
	}
	if size == 0 {
		c.done = true
		return c.consumeTrailers()
	}
	c.remaining = size
	return nil
}

// consumeChunkCRLF reads the CRLF that follows a chunk's data.
func (c *chunkedReader) consumeChunkCRLF() error {
	line, err := c.r.ReadString('\n')
	if err != nil {
		return httperr.NewParseError("End of chunk newline", err)
	}
	if strings.TrimRight(line, "\r\n") != "" {
		return httperr.NewParseError("End of chunk newline", nil)
	}
	return nil
}

// consumeTrailers reads and discards trailer header lines up to the final
// blank line that ends the message.
func (c *chunkedReader) consumeTrailers() error {
	for {
		line, err := c.r.ReadString('\n')
		if err != nil {
			return httperr.NewParseError("Chunk trailer", err)
		}
		if strings.TrimRight(line, "\r\n") == "" {
			return nil
		}
	}
}
