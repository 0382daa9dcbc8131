package wavinfo

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/riff"
)

// smpl chunk is documented here:
// https://sites.google.com/site/musicgapi/technical-documents/wav-file-format#smpl

var errSmplLoopReadFail = errors.New("failed to read the sample loop")

// Sampler holds the smpl chunk of a file.
type Sampler struct {
	// Manufacturer is the MMA manufacturer code, or 0.
	Manufacturer uint32 `json:"manufacturer"`
	Product      uint32 `json:"product"`
	// SamplePeriod is the duration of one frame in nanoseconds.
	SamplePeriod      uint32 `json:"sample_period"`
	MIDIUnityNote     uint32 `json:"midi_note"`
	MIDIPitchFraction uint32 `json:"midi_pitch_fraction"`
	// SMPTEFormat is one of 0, 24, 25, 29 or 30.
	SMPTEFormat uint32 `json:"smpte_format"`
	// SMPTEOffset is hours, minutes, seconds and frames.
	SMPTEOffset [4]int8      `json:"smpte_offset"`
	Loops       []SampleLoop `json:"loops"`
	SamplerData []byte       `json:"sampler_data,omitempty"`
}

// SampleLoop is one loop of a smpl chunk.
type SampleLoop struct {
	ID        uint32 `json:"ident"`
	Type      uint32 `json:"loop_type"`
	Start     uint32 `json:"start"`
	End       uint32 `json:"end"`
	Fraction  uint32 `json:"fraction"`
	PlayCount uint32 `json:"repetition_count"`
}

type smplHeader struct {
	Manufacturer      uint32
	Product           uint32
	SamplePeriod      uint32
	MIDIUnityNote     uint32
	MIDIPitchFraction uint32
	SMPTEFormat       uint32
	SMPTEOffset       [4]int8
	NumSampleLoops    uint32
	SamplerDataLen    uint32
}

// DecodeSamplerChunk decodes a smpl chunk into r.Smpl.
func DecodeSamplerChunk(r *Reader, ch *riff.Chunk) error {
	if ch == nil {
		return errNilChunk
	}

	if r == nil {
		return errNilReader
	}

	if ch.ID != CIDSmpl {
		ch.Drain()
		return nil
	}

	buf, err := chunkBytes(ch)
	if err != nil {
		return err
	}

	smpl, err := parseSampler(buf)
	if err != nil {
		return err
	}

	r.Smpl = smpl

	return nil
}

func parseSampler(buf []byte) (*Sampler, error) {
	reader := bytes.NewReader(buf)

	var header smplHeader
	if err := binary.Read(reader, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read the smpl header: %w", err)
	}

	smpl := &Sampler{
		Manufacturer:      header.Manufacturer,
		Product:           header.Product,
		SamplePeriod:      header.SamplePeriod,
		MIDIUnityNote:     header.MIDIUnityNote,
		MIDIPitchFraction: header.MIDIPitchFraction,
		SMPTEFormat:       header.SMPTEFormat,
		SMPTEOffset:       header.SMPTEOffset,
	}

	// each loop takes 24 bytes, so a count beyond the payload is bogus
	if int64(header.NumSampleLoops) > int64(reader.Len()/binary.Size(SampleLoop{})) {
		return nil, fmt.Errorf("%d loops in %d bytes: %w", header.NumSampleLoops, reader.Len(), errSmplLoopReadFail)
	}

	smpl.Loops = make([]SampleLoop, 0, header.NumSampleLoops)

	for i := uint32(0); i < header.NumSampleLoops; i++ {
		var loop SampleLoop
		if err := binary.Read(reader, binary.LittleEndian, &loop); err != nil {
			return nil, fmt.Errorf("%w: %w", errSmplLoopReadFail, err)
		}

		smpl.Loops = append(smpl.Loops, loop)
	}

	if header.SamplerDataLen > 0 {
		data := make([]byte, min(int(header.SamplerDataLen), reader.Len()))
		if _, err := io.ReadFull(reader, data); err != nil {
			return nil, fmt.Errorf("failed to read the sampler data: %w", err)
		}

		smpl.SamplerData = data
	}

	return smpl, nil
}

func (s *Sampler) walkFields() []Field {
	return []Field{
		{Name: "manufacturer", Value: s.Manufacturer},
		{Name: "product", Value: s.Product},
		{Name: "sample_period", Value: s.SamplePeriod},
		{Name: "midi_note", Value: s.MIDIUnityNote},
		{Name: "midi_pitch_fraction", Value: s.MIDIPitchFraction},
		{Name: "smpte_format", Value: s.SMPTEFormat},
		{Name: "smpte_offset", Value: fmt.Sprintf("%02d:%02d:%02d:%02d",
			s.SMPTEOffset[0], s.SMPTEOffset[1], s.SMPTEOffset[2], s.SMPTEOffset[3])},
		{Name: "loops", Value: s.Loops},
		{Name: "sampler_data_length", Value: len(s.SamplerData)},
	}
}
