package wavinfo

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"golang.org/x/text/encoding/unicode"
)

type testBext struct {
	description, originator, originatorRef string
	date, time                             string
	timeReference                          uint64
	version                                uint16
	umid                                   []byte
	loudness                               [5]int16
	codingHistory                          string
}

func (b testBext) chunk() testChunk {
	var loudness []byte
	for _, v := range b.loudness {
		loudness = append(loudness, le16(uint16(v))...)
	}

	umid := make([]byte, bextUMIDLen)
	copy(umid, b.umid)

	return testChunk{id: "bext", data: concat(
		fixed(b.description, bextDescriptionLen),
		fixed(b.originator, bextOriginatorLen),
		fixed(b.originatorRef, bextOriginatorReferenceLen),
		fixed(b.date, bextOriginationDateLen),
		fixed(b.time, bextOriginationTimeLen),
		le32(uint32(b.timeReference)), le32(uint32(b.timeReference>>32)),
		le16(b.version),
		umid,
		loudness,
		make([]byte, bextReservedLen),
		[]byte(b.codingHistory),
	)}
}

func testUMID() []byte {
	umid := make([]byte, 64)
	copy(umid, umidLabelPreamble)
	umid[10] = 0x02 // audio
	umid[11] = 0x21 // uuid material number, local registration
	umid[12] = umidLengthExtended
	copy(umid[16:32], []byte{
		0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0x4d, 0xef,
		0x81, 0x23, 0x45, 0x67, 0x89, 0xab, 0xcd, 0xef,
	})
	copy(umid[32:], "source pack")

	return umid
}

func TestDecodeBroadcastChunkVersions(t *testing.T) {
	base := testBext{
		description:   "BWF description",
		originator:    "originator",
		originatorRef: "ref-001",
		date:          "2026-02-06",
		time:          "10:11:12",
		timeReference: 1<<32 + 1234567,
		umid:          testUMID(),
		loudness:      [5]int16{-2300, 720, -100, -1500, -1800},
		codingHistory: "A=PCM,F=48000,W=24,M=stereo,T=wav\r\n",
	}

	tests := []struct {
		name         string
		version      uint16
		wantUMID     bool
		wantLoudness *Loudness
	}{
		{"v0", 0, false, nil},
		{"v1", 1, true, nil},
		{"v2", 2, true, &Loudness{
			Value:                -23,
			Range:                7.2,
			MaxTruePeak:          -1,
			MaxMomentaryLoudness: -15,
			MaxShortTermLoudness: -18,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := base
			b.version = tt.version

			r, err := NewReader(bytes.NewReader(buildWave(fmtChunkPCM(2, 48000, 24), b.chunk(), dataChunk(6))))
			if err != nil {
				t.Fatalf("new reader: %v", err)
			}

			want := &BroadcastExtension{
				Description:         "BWF description",
				Originator:          "originator",
				OriginatorReference: "ref-001",
				OriginationDate:     "2026-02-06",
				OriginationTime:     "10:11:12",
				TimeReference:       1<<32 + 1234567,
				Version:             tt.version,
				Loudness:            tt.wantLoudness,
				CodingHistory:       "A=PCM,F=48000,W=24,M=stereo,T=wav\r\n",
			}

			if diff := cmp.Diff(want, r.Bext, cmpopts.IgnoreFields(BroadcastExtension{}, "UMID"),
				cmpopts.EquateApprox(0, 1e-9)); diff != "" {
				t.Fatalf("bext mismatch (-want +got):\n%s", diff)
			}

			if (r.Bext.UMID != nil) != tt.wantUMID {
				t.Fatalf("unexpected UMID presence: %v", r.Bext.UMID)
			}
		})
	}
}

func TestDecodeBroadcastChunkShortAndEncoded(t *testing.T) {
	// a chunk cut right after the description is zero extended
	short := testChunk{id: "bext", data: fixed("Gr\xfc\xdfe", 40)}

	r, err := NewReader(bytes.NewReader(buildWave(fmtChunkPCM(1, 8000, 8), short, dataChunk(2))))
	if err != nil {
		t.Fatalf("new reader: %v", err)
	}

	if r.Bext.Description != "Grüße" || r.Bext.Version != 0 || r.Bext.CodingHistory != "" {
		t.Fatalf("unexpected short bext: %+v", r.Bext)
	}

	utf8Bext := testBext{description: "Grüße", version: 0}.chunk()

	r, err = NewReader(bytes.NewReader(buildWave(fmtChunkPCM(1, 8000, 8), utf8Bext, dataChunk(2))),
		WithBextEncoding(unicode.UTF8))
	if err != nil {
		t.Fatalf("new reader: %v", err)
	}

	if r.Bext.Description != "Grüße" {
		t.Fatalf("unexpected UTF-8 description: %q", r.Bext.Description)
	}
}

func TestBroadcastExtensionWalk(t *testing.T) {
	b := &BroadcastExtension{Description: "d", Version: 2, Loudness: &Loudness{Value: -23}}

	names := map[string]any{}
	for _, f := range b.walkFields() {
		names[f.Name] = f.Value
	}

	if names["loudness_value"] != -23.0 {
		t.Fatalf("unexpected loudness value: %v", names["loudness_value"])
	}

	if _, ok := names["umid"]; ok {
		t.Fatal("a missing UMID must not be walked")
	}
}
