package reqmsg

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jberryman/http-client/httperr"
	"github.com/jberryman/http-client/urlpkg"
)

const protocol = "HTTP/1.1"

// HostHeader renders the Host header value: bare host when the port
// matches the scheme default, "host:port" otherwise.
func HostHeader(r *Request) string {
	def := 80
	if r.Secure {
		def = 443
	}
	if r.Port == def {
		return r.Host
	}
	return r.Host + ":" + strconv.Itoa(r.Port)
}

// RequestTarget renders the path+query as sent on the wire: the path
// always starts with '/', followed by "?..." when the query is non-empty.
func RequestTarget(r *Request) string {
	path := r.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if q := urlpkg.RenderQuery(r.Query); q != "" {
		return path + "?" + q
	}
	return path
}

// containsCRLF reports whether s contains a bare CR or LF — used to reject
// request smuggling via a method, path, or header value that embeds its own
// line terminator before the request is serialised onto the wire.
func containsCRLF(s string) bool {
	return strings.ContainsAny(s, "\r\n")
}

// Validate rejects a request whose method, path, or header fields would let
// the caller inject an extra line into the serialised request (a bare CR or
// LF smuggled into any of those fields). This is checked unconditionally by
// WriteTo; callers constructing a Request by hand may also call it early.
func Validate(r *Request) error {
	if containsCRLF(r.Method) {
		return httperr.NewParseError("Request line", fmt.Errorf("method contains CR or LF"))
	}
	if containsCRLF(r.Path) {
		return httperr.NewParseError("Request line", fmt.Errorf("path contains CR or LF"))
	}
	for _, f := range r.Header {
		if containsCRLF(f.Name) || containsCRLF(f.Value) {
			return httperr.NewParseError("Request line", fmt.Errorf("header %q contains CR or LF", f.Name))
		}
	}
	return nil
}

// WriteTo serialises r as an HTTP/1.1 request — request line, Host,
// Content-Length, Accept-Encoding, the caller's own headers (reserved
// names filtered out, engine values win), a blank line, then the body —
// and writes it to w. It returns the number of bytes written.
func WriteTo(w io.Writer, r *Request) (int64, error) {
	var n int64

	if err := Validate(r); err != nil {
		return 0, err
	}

	method := r.Method
	if method == "" {
		method = "GET"
	}

	head := fmt.Sprintf("%s %s %s\r\n", method, RequestTarget(r), protocol)
	head += fmt.Sprintf("Host: %s\r\n", HostHeader(r))
	head += fmt.Sprintf("Content-Length: %d\r\n", r.Body.Len())
	head += "Accept-Encoding: gzip\r\n"
	for _, f := range r.Header {
		if isReserved(f.Name) {
			continue
		}
		head += fmt.Sprintf("%s: %s\r\n", f.Name, f.Value)
	}
	head += "\r\n"

	wn, err := io.WriteString(w, head)
	n += int64(wn)
	if err != nil {
		return n, err
	}

	if r.Body.Len() == 0 {
		return n, nil
	}
	body, err := r.Body.Open()
	if err != nil {
		return n, err
	}
	bn, err := io.Copy(w, body)
	n += bn
	return n, err
}
