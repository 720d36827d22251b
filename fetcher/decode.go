package fetcher

import (
	"bufio"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
)

// newDecoder wraps body in a reader that undoes encoding. The transport only
// decompresses gzip on its own when the caller did not set Accept-Encoding,
// and the browser-like strategies do set it. Unknown encodings pass through.
func newDecoder(encoding string, body io.Reader) (io.ReadCloser, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "gzip", "x-gzip":
		return gzip.NewReader(body)
	case "deflate":
		// Most servers send zlib-wrapped deflate, a few send raw deflate.
		br := bufio.NewReader(body)
		if head, err := br.Peek(2); err == nil && isZlibHeader(head) {
			return zlib.NewReader(br)
		}
		return flate.NewReader(br), nil
	case "br":
		return io.NopCloser(brotli.NewReader(body)), nil
	}
	return io.NopCloser(body), nil
}

func isZlibHeader(b []byte) bool {
	return b[0]&0x0f == 8 && (uint16(b[0])<<8|uint16(b[1]))%31 == 0
}

// bodyReader remembers the last transport error so that read failures can be
// told apart from decoding failures.
type bodyReader struct {
	r   io.Reader
	err error
}

func (b *bodyReader) Read(p []byte) (int, error) {
	n, err := b.r.Read(p)
	if err != nil && err != io.EOF {
		b.err = err
	}
	return n, err
}

// DecodeError is returned when a response body cannot be decoded.
type DecodeError struct {
	Encoding string
	Err      error
}

func (e *DecodeError) Error() string {
	return "failed to decode " + e.Encoding + " body: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
