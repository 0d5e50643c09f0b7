// Package respmsg reads the response status line and headers off the wire.
package respmsg

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/jberryman/http-client/header"
	"github.com/jberryman/http-client/httperr"
)

// Status is the parsed status line, preserved verbatim from the wire.
type Status struct {
	Proto  string
	Code   int
	Reason string
}

// Parse reads the status line then the header block (up to the blank
// line that ends it) from r.
func Parse(r *bufio.Reader) (Status, header.List, error) {
	status, err := parseStatusLine(r)
	if err != nil {
		return Status{}, nil, err
	}
	headers, err := parseHeaders(r)
	if err != nil {
		return Status{}, nil, err
	}
	return status, headers, nil
}

func parseStatusLine(r *bufio.Reader) (Status, error) {
	line, err := readLine(r)
	if err != nil {
		return Status{}, httperr.NewParseError("Status line", err)
	}
	// "HTTP/<v> SP <code> SP <reason>" — reason may itself contain spaces.
	firstSP := strings.IndexByte(line, ' ')
	if firstSP < 0 {
		return Status{}, httperr.NewParseError("Status line", nil)
	}
	proto := line[:firstSP]
	rest := line[firstSP+1:]
	secondSP := strings.IndexByte(rest, ' ')
	var codeStr, reason string
	if secondSP < 0 {
		codeStr = rest
	} else {
		codeStr = rest[:secondSP]
		reason = rest[secondSP+1:]
	}
	code, err := strconv.Atoi(codeStr)
	if err != nil {
		return Status{}, httperr.NewParseError("Status line", err)
	}
	return Status{Proto: proto, Code: code, Reason: reason}, nil
}

func parseHeaders(r *bufio.Reader) (header.List, error) {
	var h header.List
	for {
		line, err := readLine(r)
		if err != nil {
			return nil, httperr.NewParseError("Header line", err)
		}
		if line == "" {
			return h, nil
		}
		colon := strings.IndexByte(line, ':')
		if colon < 0 {
			return nil, httperr.NewParseError("Header line", nil)
		}
		name := line[:colon]
		value := strings.TrimLeft(line[colon+1:], " \t")
		h.Add(name, value)
	}
}

// readLine reads one CRLF- or LF-terminated line and strips the
// terminator, tolerating a bare '\n' the way real servers sometimes send.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}
