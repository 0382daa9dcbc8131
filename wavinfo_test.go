package wavinfo

import (
	"errors"
	"io"
	"testing"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

func TestVersion(t *testing.T) {
	if Version != "0.1" {
		t.Fatalf("unexpected version: got %q want %q", Version, "0.1")
	}
}

func TestChunkEOFErrorUnwrapsUnexpectedEOF(t *testing.T) {
	var err error = &ChunkEOFError{ID: [4]byte{'b', 'e', 'x', 't'}, Offset: 42}

	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected %v to wrap io.ErrUnexpectedEOF", err)
	}

	want := `unexpected end of file in chunk header "bext" at offset 42`
	if err.Error() != want {
		t.Fatalf("unexpected message: got %q want %q", err.Error(), want)
	}
}

func TestDecodeText(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		enc  encoding.Encoding
		want string
	}{
		{"latin1", []byte("caf\xe9\x00junk"), charmap.ISO8859_1, "café"},
		{"utf8", []byte("caf\xc3\xa9\x00\x00"), unicode.UTF8, "café"},
		{"no terminator", []byte("plain"), nil, "plain"},
		{"empty", nil, charmap.ISO8859_1, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decodeText(tt.in, tt.enc); got != tt.want {
				t.Fatalf("got %q want %q", got, tt.want)
			}
		})
	}
}
