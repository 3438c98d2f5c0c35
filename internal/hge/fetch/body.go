package fetch

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/greeddj/go-hge/internal/hge/helpers"
	"github.com/klauspost/pgzip"
)

// ReadBody reads a response body, decoding it by Content-Encoding.
//
// Requests that set Accept-Encoding themselves bypass the transport's
// transparent decompression, so gzip payloads arrive compressed here.
func ReadBody(resp *http.Response) ([]byte, error) {
	if resp == nil || resp.Body == nil {
		return nil, nil
	}
	encoding := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding")))
	switch encoding {
	case "", "identity":
		return io.ReadAll(resp.Body)
	case "gzip", "x-gzip":
		reader, err := pgzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer func() {
			_ = reader.Close()
		}()
		return io.ReadAll(reader)
	default:
		return nil, fmt.Errorf("%w: %s", helpers.ErrUnsupportedEncoding, encoding)
	}
}
