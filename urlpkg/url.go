// Package urlpkg parses request URLs into a canonical descriptor and
// provides the percent/query/form codecs the rest of the client needs.
//
// It deliberately does not wrap net/url: the wire-format rules here (how
// paths are re-escaped, how query values are decoded, what counts as an
// invalid port) are part of the spec this client implements, not general
// RFC 3986 parsing, so hand-rolling them keeps the behaviour exact and
// testable in isolation the way the teacher's own request/response parsers
// are hand-rolled rather than delegated to a library.
package urlpkg

import (
	"strconv"
	"strings"

	"golang.org/x/net/idna"

	"github.com/jberryman/http-client/httperr"
)

// Pair is an ordered (key, value) byte-string pair, used for query
// parameters and url-encoded form fields where order and duplicates matter.
type Pair struct {
	Key   string
	Value string
}

// URL is the canonical, immutable request descriptor produced by Parse.
// Method defaults to GET and the body/headers are left for the caller (or
// a higher-level Request type) to populate.
type URL struct {
	Method string
	Secure bool
	Host   string
	Port   int
	Path   string
	Query  []Pair
}

const unreserved = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_.~"

func isUnreserved(b byte) bool {
	return strings.IndexByte(unreserved, b) >= 0
}

// Parse turns a URL string into a canonical descriptor. Only the http and
// https schemes (lowercase, exactly as shown) are accepted.
func Parse(raw string) (*URL, error) {
	var secure bool
	var rest string
	switch {
	case strings.HasPrefix(raw, "http://"):
		secure = false
		rest = raw[len("http://"):]
	case strings.HasPrefix(raw, "https://"):
		secure = true
		rest = raw[len("https://"):]
	default:
		return nil, httperr.NewInvalidURL(raw, "Invalid scheme")
	}

	rest = escapeNonASCII(rest)

	authority := rest
	remainder := ""
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		authority = rest[:i]
		remainder = rest[i:]
	}

	host := authority
	port := defaultPort(secure)
	if i := strings.IndexByte(authority, ':'); i >= 0 {
		host = authority[:i]
		portStr := authority[i+1:]
		p, err := strconv.Atoi(portStr)
		if err != nil || p < 1 || p > 65535 {
			return nil, httperr.NewInvalidURL(raw, "Invalid port")
		}
		port = p
	}

	encodedHost, err := idna.Lookup.ToASCII(host)
	if err == nil && encodedHost != "" {
		host = encodedHost
	}

	path := remainder
	rawQuery := ""
	if i := strings.IndexByte(remainder, '?'); i >= 0 {
		path = remainder[:i]
		rawQuery = remainder[i+1:]
	}
	if frag := strings.IndexByte(rawQuery, '#'); frag >= 0 {
		rawQuery = rawQuery[:frag]
	}
	if path == "" {
		path = "/"
	}
	path = EncodePath(path)

	query := parseQuery(rawQuery)

	return &URL{
		Method: "GET",
		Secure: secure,
		Host:   host,
		Port:   port,
		Path:   path,
		Query:  query,
	}, nil
}

func defaultPort(secure bool) int {
	if secure {
		return 443
	}
	return 80
}

// escapeNonASCII percent-encodes any byte with its high bit set, leaving
// ASCII structural characters (':', '/', '?', '&', '=', '#', ...) alone so
// the caller can still split the string on them afterwards. This is what
// makes a URL containing a literal (un-escaped) non-ASCII host or path
// tolerable to the rest of the parser.
func escapeNonASCII(s string) string {
	needsEscape := false
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			needsEscape = true
			break
		}
	}
	if !needsEscape {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x80 {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hexDigitUpper(c >> 4))
		b.WriteByte(hexDigitUpper(c & 0x0f))
	}
	return b.String()
}

func hexDigitUpper(n byte) byte {
	const digits = "0123456789ABCDEF"
	return digits[n&0x0f]
}

// EncodePath re-encodes a path character-by-character, leaving '/' alone;
// every other non-unreserved byte becomes an upper-case %HH escape. Note
// this operates on raw bytes, not a decode-then-encode round trip: a
// literal '%' in the input is itself escaped.
func EncodePath(path string) string {
	var b strings.Builder
	b.Grow(len(path))
	for i := 0; i < len(path); i++ {
		c := path[i]
		if c == '/' || isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hexDigitUpper(c >> 4))
		b.WriteByte(hexDigitUpper(c & 0x0f))
	}
	return b.String()
}

// EncodeQueryComponent percent-encodes a query/form component: unreserved
// bytes pass through, space becomes '+', everything else becomes %HH.
func EncodeQueryComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case isUnreserved(c):
			b.WriteByte(c)
		case c == ' ':
			b.WriteByte('+')
		default:
			b.WriteByte('%')
			b.WriteByte(hexDigitUpper(c >> 4))
			b.WriteByte(hexDigitUpper(c & 0x0f))
		}
	}
	return b.String()
}

// DecodeComponent is the inverse of EncodeQueryComponent: '+' becomes a
// space, '%HH' becomes one byte, and a malformed '%' sequence (not
// followed by two hex digits) is left in the output literally.
func DecodeComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '+':
			b.WriteByte(' ')
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}

// parseQuery splits a raw query string on '&' then each segment on the
// first '=', decoding both sides with the form-urlencoded rules. An absent
// '=' yields an empty value. Order and duplicates are preserved.
func parseQuery(raw string) []Pair {
	if raw == "" {
		return nil
	}
	segments := strings.Split(raw, "&")
	pairs := make([]Pair, 0, len(segments))
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		key := seg
		value := ""
		if i := strings.IndexByte(seg, '='); i >= 0 {
			key = seg[:i]
			value = seg[i+1:]
		}
		pairs = append(pairs, Pair{
			Key:   DecodeComponent(key),
			Value: DecodeComponent(value),
		})
	}
	return pairs
}

// RenderQuery renders an ordered pair sequence as "k=v&k=v" segments, URL
// encoded with the space->'+' rule, omitting the '=' when a value is
// empty. Used both for the request-line query string and for the
// url-encoded POST body.
func RenderQuery(pairs []Pair) string {
	if len(pairs) == 0 {
		return ""
	}
	segments := make([]string, 0, len(pairs))
	for _, p := range pairs {
		k := EncodeQueryComponent(p.Key)
		if p.Value == "" {
			segments = append(segments, k)
			continue
		}
		segments = append(segments, k+"="+EncodeQueryComponent(p.Value))
	}
	return strings.Join(segments, "&")
}
