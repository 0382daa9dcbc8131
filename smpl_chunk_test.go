package wavinfo

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func smplChunk(s Sampler, loopCount uint32) testChunk {
	data := concat(
		le32(s.Manufacturer), le32(s.Product), le32(s.SamplePeriod),
		le32(s.MIDIUnityNote), le32(s.MIDIPitchFraction), le32(s.SMPTEFormat),
		[]byte{byte(s.SMPTEOffset[0]), byte(s.SMPTEOffset[1]), byte(s.SMPTEOffset[2]), byte(s.SMPTEOffset[3])},
		le32(loopCount), le32(uint32(len(s.SamplerData))),
	)

	for _, l := range s.Loops {
		data = concat(data, le32(l.ID), le32(l.Type), le32(l.Start), le32(l.End), le32(l.Fraction), le32(l.PlayCount))
	}

	return testChunk{id: "smpl", data: concat(data, s.SamplerData)}
}

func TestDecodeSamplerChunk(t *testing.T) {
	want := &Sampler{
		Manufacturer:  0x01000041,
		Product:       0x3c,
		SamplePeriod:  22675,
		MIDIUnityNote: 60,
		SMPTEFormat:   25,
		SMPTEOffset:   [4]int8{1, 2, 3, 4},
		Loops: []SampleLoop{
			{ID: 0x20000, Type: 0, Start: 100, End: 4000},
			{ID: 0x20001, Type: 1, Start: 5000, End: 9000, PlayCount: 3},
		},
		SamplerData: []byte{0xde, 0xad},
	}

	data := buildWave(fmtChunkPCM(1, 44100, 16), smplChunk(*want, 2), dataChunk(4))

	r, err := NewReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("new reader: %v", err)
	}

	if diff := cmp.Diff(want, r.Smpl); diff != "" {
		t.Fatalf("smpl mismatch (-want +got):\n%s", diff)
	}

	var offset any
	for _, f := range r.Smpl.walkFields() {
		if f.Name == "smpte_offset" {
			offset = f.Value
		}
	}

	if offset != "01:02:03:04" {
		t.Fatalf("unexpected smpte_offset %v", offset)
	}
}

func TestParseSamplerErrors(t *testing.T) {
	if _, err := parseSampler(make([]byte, 20)); err == nil {
		t.Fatal("expected an error for a truncated header")
	}

	// claims three loops but carries one
	buf := smplChunk(Sampler{Loops: []SampleLoop{{ID: 1}}}, 3).data
	if _, err := parseSampler(buf); !errors.Is(err, errSmplLoopReadFail) {
		t.Fatalf("expected errSmplLoopReadFail, got %v", err)
	}
}

func TestParseSamplerTruncatedSamplerData(t *testing.T) {
	buf := smplChunk(Sampler{SamplerData: []byte{1, 2, 3, 4}}, 0).data

	smpl, err := parseSampler(buf[:len(buf)-2])
	if err != nil {
		t.Fatalf("parse smpl: %v", err)
	}

	if !bytes.Equal(smpl.SamplerData, []byte{1, 2}) {
		t.Fatalf("unexpected sampler data %v", smpl.SamplerData)
	}

	if len(smpl.Loops) != 0 {
		t.Fatalf("unexpected loops %v", smpl.Loops)
	}
}
