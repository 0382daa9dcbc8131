package wavinfo

import (
	"encoding/binary"
	"fmt"

	"github.com/go-audio/riff"
	"golang.org/x/text/encoding"
)

const (
	bextDescriptionLen         = 256
	bextOriginatorLen          = 32
	bextOriginatorReferenceLen = 32
	bextOriginationDateLen     = 10
	bextOriginationTimeLen     = 8
	bextUMIDLen                = 64
	bextLoudnessFieldCount     = 5
	bextReservedLen            = 180
)

// BroadcastExtension holds a Broadcast-WAV bext chunk (EBU Tech 3285).
type BroadcastExtension struct {
	Description         string `json:"description"`
	Originator          string `json:"originator"`
	OriginatorReference string `json:"originator_ref"`
	OriginationDate     string `json:"originator_date"`
	OriginationTime     string `json:"originator_time"`
	// TimeReference is the sample count since midnight of the first sample.
	TimeReference uint64 `json:"time_reference"`
	Version       uint16 `json:"version"`
	// UMID is set for version 1 and later.
	UMID *UMID `json:"umid,omitempty"`
	// Loudness is set for version 2 and later.
	Loudness      *Loudness `json:"loudness,omitempty"`
	CodingHistory string    `json:"coding_history"`
}

// Loudness holds the EBU R128 values introduced by bext version 2.
type Loudness struct {
	Value                float64 `json:"loudness_value"`
	Range                float64 `json:"loudness_range"`
	MaxTruePeak          float64 `json:"max_true_peak"`
	MaxMomentaryLoudness float64 `json:"max_momentary_loudness"`
	MaxShortTermLoudness float64 `json:"max_shortterm_loudness"`
}

// DecodeBroadcastChunk decodes a bext chunk into r.Bext.
func DecodeBroadcastChunk(r *Reader, ch *riff.Chunk) error {
	if ch == nil {
		return errNilChunk
	}

	if r == nil {
		return errNilReader
	}

	if ch.ID != CIDBext {
		ch.Drain()
		return nil
	}

	buf, err := chunkBytes(ch)
	if err != nil {
		return err
	}

	bext, err := parseBroadcastExtension(buf, r.bextEncoding)
	if err != nil {
		return err
	}

	r.Bext = bext

	return nil
}

func parseBroadcastExtension(buf []byte, enc encoding.Encoding) (*BroadcastExtension, error) {
	bext := &BroadcastExtension{}
	offset := 0

	take := func(n int) []byte {
		out := make([]byte, n)
		if offset < len(buf) {
			end := min(offset+n, len(buf))
			copy(out, buf[offset:end])
		}

		offset += n

		return out
	}

	readFixedString := func(n int) string {
		return decodeText(take(n), enc)
	}

	bext.Description = readFixedString(bextDescriptionLen)
	bext.Originator = readFixedString(bextOriginatorLen)
	bext.OriginatorReference = readFixedString(bextOriginatorReferenceLen)
	bext.OriginationDate = readFixedString(bextOriginationDateLen)
	bext.OriginationTime = readFixedString(bextOriginationTimeLen)

	timeRefLow := binary.LittleEndian.Uint32(take(4))
	timeRefHigh := binary.LittleEndian.Uint32(take(4))
	bext.TimeReference = uint64(timeRefHigh)<<32 | uint64(timeRefLow)
	bext.Version = binary.LittleEndian.Uint16(take(2))

	rawUMID := take(bextUMIDLen)

	var loudness [bextLoudnessFieldCount]float64
	for i := range loudness {
		loudness[i] = float64(int16(binary.LittleEndian.Uint16(take(2)))) / 100
	}

	take(bextReservedLen)

	if offset < len(buf) {
		bext.CodingHistory = decodeText(buf[offset:], enc)
	}

	if bext.Version > 0 {
		umid, err := ParseUMID(rawUMID)
		if err != nil {
			return nil, fmt.Errorf("failed to parse the bext UMID: %w", err)
		}

		bext.UMID = umid
	}

	if bext.Version > 1 {
		bext.Loudness = &Loudness{
			Value:                loudness[0],
			Range:                loudness[1],
			MaxTruePeak:          loudness[2],
			MaxMomentaryLoudness: loudness[3],
			MaxShortTermLoudness: loudness[4],
		}
	}

	return bext, nil
}

func (b *BroadcastExtension) walkFields() []Field {
	fields := []Field{
		{Name: "description", Value: b.Description},
		{Name: "originator", Value: b.Originator},
		{Name: "originator_ref", Value: b.OriginatorReference},
		{Name: "originator_date", Value: b.OriginationDate},
		{Name: "originator_time", Value: b.OriginationTime},
		{Name: "time_reference", Value: b.TimeReference},
		{Name: "version", Value: b.Version},
		{Name: "coding_history", Value: b.CodingHistory},
	}

	if b.UMID != nil {
		fields = append(fields, Field{Name: "umid", Value: b.UMID.String()})
	}

	if l := b.Loudness; l != nil {
		fields = append(fields,
			Field{Name: "loudness_value", Value: l.Value},
			Field{Name: "loudness_range", Value: l.Range},
			Field{Name: "max_true_peak", Value: l.MaxTruePeak},
			Field{Name: "max_momentary_loudness", Value: l.MaxMomentaryLoudness},
			Field{Name: "max_shortterm_loudness", Value: l.MaxShortTermLoudness},
		)
	}

	return fields
}
