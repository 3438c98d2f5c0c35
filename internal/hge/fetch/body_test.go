package fetch

import (
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/greeddj/go-hge/internal/hge/helpers"
)

func newResponse(encoding string, body []byte) *http.Response {
	header := make(http.Header)
	if encoding != "" {
		header.Set("Content-Encoding", encoding)
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     header,
		Body:       io.NopCloser(bytes.NewReader(body)),
	}
}

func TestReadBody(t *testing.T) {
	t.Parallel()
	payload := []byte(`[{"id":1}]`)

	var compressed bytes.Buffer
	zw := gzip.NewWriter(&compressed)
	if _, err := zw.Write(payload); err != nil {
		t.Fatalf("gzip write error: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close error: %v", err)
	}

	tests := []struct {
		name     string
		encoding string
		body     []byte
		wantErr  error
	}{
		{name: "identity", encoding: "", body: payload},
		{name: "gzip", encoding: "gzip", body: compressed.Bytes()},
		{name: "gzip upper", encoding: "GZIP", body: compressed.Bytes()},
		{name: "brotli", encoding: "br", body: payload, wantErr: helpers.ErrUnsupportedEncoding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ReadBody(newResponse(tt.encoding, tt.body))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !bytes.Equal(got, payload) {
				t.Fatalf("expected %s, got %s", payload, got)
			}
		})
	}
}

func TestReadBodyCorruptGzip(t *testing.T) {
	t.Parallel()
	if _, err := ReadBody(newResponse("gzip", []byte("not gzip"))); err == nil {
		t.Fatalf("expected error for corrupt gzip body")
	}
}
