package reqmsg

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jberryman/http-client/header"
	"github.com/jberryman/http-client/urlpkg"
)

func TestWriteToBasic(t *testing.T) {
	r := &Request{
		Method: "GET",
		Secure: false,
		Host:   "example.com",
		Port:   80,
		Path:   "/a/b",
		Query:  []urlpkg.Pair{{Key: "x", Value: "1"}, {Key: "y", Value: "two words"}},
		Body:   EmptyBody,
	}
	var buf bytes.Buffer
	if _, err := WriteTo(&buf, r); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "GET /a/b?x=1&y=two+words HTTP/1.1\r\n") {
		t.Fatalf("unexpected request line: %q", out)
	}
	if strings.Count(out, "?") != 1 {
		t.Fatalf("expected exactly one '?': %q", out)
	}
	if !strings.Contains(out, "Host: example.com\r\n") {
		t.Fatalf("missing Host header: %q", out)
	}
	if !strings.Contains(out, "Content-Length: 0\r\n") {
		t.Fatalf("missing Content-Length: %q", out)
	}
	if !strings.Contains(out, "Accept-Encoding: gzip\r\n") {
		t.Fatalf("missing Accept-Encoding: %q", out)
	}
}

func TestHostHeaderNonDefaultPort(t *testing.T) {
	r := &Request{Secure: true, Host: "example.com", Port: 8443}
	if got := HostHeader(r); got != "example.com:8443" {
		t.Fatalf("HostHeader = %q", got)
	}
	r2 := &Request{Secure: true, Host: "example.com", Port: 443}
	if got := HostHeader(r2); got != "example.com" {
		t.Fatalf("HostHeader = %q", got)
	}
}

func TestCallerHeaderReservedNameDropped(t *testing.T) {
	var h header.List
	h.Add("Host", "evil.example")
	h.Add("X-Custom", "v")
	r := &Request{Method: "GET", Host: "example.com", Port: 80, Path: "/", Header: h, Body: EmptyBody}
	var buf bytes.Buffer
	if _, err := WriteTo(&buf, r); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	out := buf.String()
	if strings.Count(out, "Host:") != 1 {
		t.Fatalf("expected exactly one Host header: %q", out)
	}
	if !strings.Contains(out, "Host: example.com\r\n") {
		t.Fatalf("engine Host value should win: %q", out)
	}
	if !strings.Contains(out, "X-Custom: v\r\n") {
		t.Fatalf("missing caller header: %q", out)
	}
}

func TestWriteToRejectsEmbeddedCRLFInHeader(t *testing.T) {
	var h header.List
	h.Add("X-Evil", "v\r\nX-Injected: yes")
	r := &Request{Method: "GET", Host: "example.com", Port: 80, Path: "/", Header: h, Body: EmptyBody}
	var buf bytes.Buffer
	if _, err := WriteTo(&buf, r); err == nil {
		t.Fatal("expected error for embedded CRLF in header value")
	}
}

func TestWriteToRejectsEmbeddedCRLFInPath(t *testing.T) {
	r := &Request{Method: "GET", Host: "example.com", Port: 80, Path: "/a\r\nHost: evil", Body: EmptyBody}
	var buf bytes.Buffer
	if _, err := WriteTo(&buf, r); err == nil {
		t.Fatal("expected error for embedded CRLF in path")
	}
}

func TestBodyContentLengthAndBytes(t *testing.T) {
	r := &Request{Method: "POST", Host: "example.com", Port: 80, Path: "/p", Body: BytesBody("hello")}
	var buf bytes.Buffer
	if _, err := WriteTo(&buf, r); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Content-Length: 5\r\n") {
		t.Fatalf("missing content length: %q", out)
	}
	if !strings.HasSuffix(out, "hello") {
		t.Fatalf("missing body: %q", out)
	}
}
