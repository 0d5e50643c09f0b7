package client

import (
	"errors"
	"io"
	"net"
	"strings"
	"testing"

	"github.com/jberryman/http-client/httperr"
	"github.com/jberryman/http-client/reqmsg"
	"github.com/jberryman/http-client/urlpkg"
)

func TestPostFormSetsMethodBodyAndContentType(t *testing.T) {
	req := &reqmsg.Request{Method: "GET", Host: "example.com", Port: 80, Path: "/submit", Body: reqmsg.EmptyBody}
	pairs := []urlpkg.Pair{{Key: "a", Value: "1"}, {Key: "b", Value: "two words"}}

	out := PostForm(pairs, req)
	if out.Method != "POST" {
		t.Fatalf("expected POST, got %q", out.Method)
	}
	body, err := out.Body.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	got, _ := io.ReadAll(body)
	if string(got) != "a=1&b=two+words" {
		t.Fatalf("unexpected encoded body: %q", got)
	}
	ct, ok := out.Header.Get("Content-Type")
	if !ok || ct != "application/x-www-form-urlencoded" {
		t.Fatalf("unexpected Content-Type: %q ok=%v", ct, ok)
	}
}

func TestPostFormReplacesExistingContentType(t *testing.T) {
	req := &reqmsg.Request{Method: "GET", Host: "example.com", Port: 80, Path: "/submit", Body: reqmsg.EmptyBody}
	req.Header.Add("Content-Type", "application/json")

	out := PostForm(nil, req)
	if strings.Count(joinHeaderValues(out), "Content-Type") != 1 {
		t.Fatalf("expected exactly one Content-Type header, got: %v", out.Header)
	}
}

func joinHeaderValues(r *reqmsg.Request) string {
	var b strings.Builder
	for _, f := range r.Header {
		b.WriteString(f.Name)
		b.WriteString(" ")
	}
	return b.String()
}

func TestGetSuccessStatus(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()
	host, portStr, _ := net.SplitHostPort(ln.Addr().String())

	serveSequence(t, ln, []string{"HTTP/1.1 200 OK\r\nContent-Length: 2\r\n\r\nok"})

	body, err := Get("http://" + host + ":" + portStr + "/")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(body) != "ok" {
		t.Fatalf("unexpected body: %q", body)
	}
}

func TestGetFailureStatusReturnsStatusCodeError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()
	host, portStr, _ := net.SplitHostPort(ln.Addr().String())

	serveSequence(t, ln, []string{"HTTP/1.1 500 Internal Server Error\r\nContent-Length: 4\r\n\r\nbork"})

	_, err = Get("http://" + host + ":" + portStr + "/")
	if err == nil {
		t.Fatal("expected error for 500 status")
	}
	var sc *httperr.StatusCode
	if !errors.As(err, &sc) {
		t.Fatalf("expected *httperr.StatusCode, got %T: %v", err, err)
	}
	if sc.Code != 500 || string(sc.Body) != "bork" {
		t.Fatalf("unexpected status code error: %+v", sc)
	}
}
