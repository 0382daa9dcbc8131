package wavinfo

import (
	"bytes"
	"errors"
	"testing"

	"github.com/go-audio/riff"
)

func extensibleFmtChunk(tag uint16, validBits uint16, mask uint32) testChunk {
	guid := makeSubFormatGUID(tag)

	return testChunk{id: "fmt ", data: concat(
		le16(FormatExtensible), le16(2), le32(48000), le32(48000*8), le16(8), le16(32),
		le16(fmtExtensibleLen), le16(validBits), le32(mask), guid[:],
	)}
}

func TestFmtChunkExtensible(t *testing.T) {
	data := buildWave(extensibleFmtChunk(FormatIEEEFloat, 32, 0x3), dataChunk(16))

	r, err := NewReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("new reader: %v", err)
	}

	if r.Fmt.FormatTag != FormatExtensible {
		t.Fatalf("expected extensible format tag, got %d", r.Fmt.FormatTag)
	}

	if r.Fmt.Extensible == nil {
		t.Fatal("expected extensible metadata")
	}

	if got := r.Fmt.EffectiveFormatTag(); got != FormatIEEEFloat {
		t.Fatalf("effective format mismatch: got %d want %d", got, FormatIEEEFloat)
	}

	if r.Fmt.Extensible.ValidBitsPerSample != 32 || r.Fmt.Extensible.ChannelMask != 0x3 {
		t.Fatalf("unexpected extensible fields: %+v", r.Fmt.Extensible)
	}

	fields := map[string]any{}
	for _, f := range r.Fmt.walkFields() {
		fields[f.Name] = f.Value
	}

	if got := fields["sub_format"]; got != "00000003-0000-0010-8000-00aa00389b71" {
		t.Fatalf("unexpected sub format: %v", got)
	}
}

func TestNilFmtChunkFormatTag(t *testing.T) {
	var nilFmt *FmtChunk
	if nilFmt.EffectiveFormatTag() != 0 {
		t.Fatal("nil fmt chunk should report format tag 0")
	}
}

func TestFmtChunkNonStandardSubFormat(t *testing.T) {
	chunk := extensibleFmtChunk(FormatPCM, 24, 0x4)
	// break the KSDATAFORMAT tail
	chunk.data[len(chunk.data)-1] = 0

	ch := &riff.Chunk{ID: riff.FmtID, Size: len(chunk.data), R: bytes.NewReader(chunk.data)}

	f, err := decodeFmtChunk(ch)
	if err != nil {
		t.Fatalf("decode fmt: %v", err)
	}

	if f.EffectiveFormatTag() != FormatExtensible {
		t.Fatalf("a vendor sub format must not resolve to a plain tag, got %d", f.EffectiveFormatTag())
	}
}

func TestFmtChunkTooShort(t *testing.T) {
	ch := &riff.Chunk{ID: riff.FmtID, Size: 4, R: bytes.NewReader([]byte{1, 0, 2, 0})}

	if _, err := decodeFmtChunk(ch); !errors.Is(err, errFmtTooShort) {
		t.Fatalf("expected errFmtTooShort, got %v", err)
	}
}

func TestFormatTagName(t *testing.T) {
	tests := map[uint16]string{
		FormatPCM:        "PCM",
		FormatIEEEFloat:  "IEEE float",
		FormatExtensible: "extensible",
		0x1234:           "format tag 0x1234",
	}

	for tag, want := range tests {
		if got := FormatTagName(tag); got != want {
			t.Fatalf("FormatTagName(0x%04x): got %q want %q", tag, got, want)
		}
	}
}
