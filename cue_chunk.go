package wavinfo

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-audio/riff"
	"go.uber.org/zap"
)

// Cue points and their adtl labels are documented in the IBM/Microsoft
// "Multimedia Programming Interface and Data Specifications 1.0" (1991).

const (
	cueEntryLen     = 24
	ltxtHeaderLen   = 20
	adtlNameLen     = 4
	cueCountFieldSz = 4
)

var (
	errCueTooShort  = errors.New("cue chunk too short")
	errAdtlTooShort = errors.New("adtl sub chunk too short")
)

// CueEntry is one cue point of a cue chunk.
type CueEntry struct {
	Name         uint32  `json:"name"`
	Position     uint32  `json:"position"`
	ChunkID      [4]byte `json:"-"`
	ChunkStart   uint32  `json:"chunk_start"`
	BlockStart   uint32  `json:"block_start"`
	SampleOffset uint32  `json:"sample_offset"`
}

// LabelEntry is a labl or note text attached to a cue point.
type LabelEntry struct {
	Name uint32 `json:"name"`
	Text string `json:"text"`
}

// NoteEntry is an adtl note, laid out like a label.
type NoteEntry = LabelEntry

// RangeLabel is an adtl ltxt entry giving a cue point a length.
type RangeLabel struct {
	Name     uint32  `json:"name"`
	Length   uint32  `json:"length"`
	Purpose  [4]byte `json:"-"`
	Country  uint16  `json:"country"`
	Language uint16  `json:"language"`
	Dialect  uint16  `json:"dialect"`
	Codepage uint16  `json:"codepage"`
	Text     string  `json:"text"`
}

// Cues collects the cue points of a file with their adtl labels, notes and
// ranges.
type Cues struct {
	Cues   []CueEntry   `json:"cues"`
	Labels []LabelEntry `json:"labels"`
	Ranges []RangeLabel `json:"ranges"`
	Notes  []NoteEntry  `json:"notes"`
}

// CueSummary is the marker view of one cue point.
type CueSummary struct {
	Frame  uint32  `json:"frame"`
	Label  string  `json:"label,omitempty"`
	Note   string  `json:"note,omitempty"`
	Length *uint32 `json:"length,omitempty"`
}

// DecodeCueChunk decodes a cue chunk into r.Cues.
func DecodeCueChunk(r *Reader, ch *riff.Chunk) error {
	if ch == nil {
		return errNilChunk
	}

	if r == nil {
		return errNilReader
	}

	if ch.ID != CIDCue {
		ch.Drain()
		return nil
	}

	buf, err := chunkBytes(ch)
	if err != nil {
		return err
	}

	entries, err := parseCueEntries(buf)
	if err != nil {
		return err
	}

	r.cues().Cues = append(r.cues().Cues, entries...)

	return nil
}

func parseCueEntries(buf []byte) ([]CueEntry, error) {
	if len(buf) < cueCountFieldSz {
		return nil, fmt.Errorf("%d bytes: %w", len(buf), errCueTooShort)
	}

	count := int(binary.LittleEndian.Uint32(buf[:cueCountFieldSz]))
	body := buf[cueCountFieldSz:]

	if count > len(body)/cueEntryLen {
		return nil, fmt.Errorf("%d cue points in %d bytes: %w", count, len(body), errCueTooShort)
	}

	entries := make([]CueEntry, 0, count)

	for i := 0; i < count; i++ {
		raw := body[i*cueEntryLen : (i+1)*cueEntryLen]

		entry := CueEntry{
			Name:         binary.LittleEndian.Uint32(raw[0:4]),
			Position:     binary.LittleEndian.Uint32(raw[4:8]),
			ChunkStart:   binary.LittleEndian.Uint32(raw[12:16]),
			BlockStart:   binary.LittleEndian.Uint32(raw[16:20]),
			SampleOffset: binary.LittleEndian.Uint32(raw[20:24]),
		}
		copy(entry.ChunkID[:], raw[8:12])

		entries = append(entries, entry)
	}

	return entries, nil
}

func (r *Reader) decodeAdtl(subs []subChunk) error {
	cues := r.cues()

	for _, sub := range subs {
		switch sub.id {
		case CIDLabl, CIDNote:
			if len(sub.data) < adtlNameLen {
				return fmt.Errorf("%s: %w", sub.id[:], errAdtlTooShort)
			}

			entry := LabelEntry{
				Name: binary.LittleEndian.Uint32(sub.data[:adtlNameLen]),
				Text: decodeText(sub.data[adtlNameLen:], r.infoEncoding),
			}

			if sub.id == CIDLabl {
				cues.Labels = append(cues.Labels, entry)
			} else {
				cues.Notes = append(cues.Notes, entry)
			}
		case CIDLtxt:
			rng, err := r.parseRangeLabel(sub.data)
			if err != nil {
				return err
			}

			cues.Ranges = append(cues.Ranges, rng)
		default:
			r.logger.Debug("skipping adtl sub chunk", zapChunkID("id", sub.id))
		}
	}

	return nil
}

func (r *Reader) parseRangeLabel(data []byte) (RangeLabel, error) {
	if len(data) < ltxtHeaderLen {
		return RangeLabel{}, fmt.Errorf("ltxt: %w", errAdtlTooShort)
	}

	rng := RangeLabel{
		Name:     binary.LittleEndian.Uint32(data[0:4]),
		Length:   binary.LittleEndian.Uint32(data[4:8]),
		Country:  binary.LittleEndian.Uint16(data[12:14]),
		Language: binary.LittleEndian.Uint16(data[14:16]),
		Dialect:  binary.LittleEndian.Uint16(data[16:18]),
		Codepage: binary.LittleEndian.Uint16(data[18:20]),
	}
	copy(rng.Purpose[:], data[8:12])

	enc := r.infoEncoding

	if rng.Codepage != 0 {
		if cpEnc, ok := CodepageEncoding(rng.Codepage); ok {
			enc = cpEnc
		} else {
			r.logger.Warn("unknown ltxt codepage, using the INFO encoding",
				zap.Uint16("codepage", rng.Codepage), zap.Uint32("cue", rng.Name))
		}
	}

	rng.Text = decodeText(data[ltxtHeaderLen:], enc)

	return rng, nil
}

func (r *Reader) cues() *Cues {
	if r.Cues == nil {
		r.Cues = &Cues{}
	}

	return r.Cues
}

// EachCue returns the cue points in file order.
func (c *Cues) EachCue() []CueEntry {
	if c == nil {
		return nil
	}

	return c.Cues
}

// LabelAndNote returns the label and note of the cue point name. Missing
// texts are empty.
func (c *Cues) LabelAndNote(name uint32) (label, note string) {
	if c == nil {
		return "", ""
	}

	for _, l := range c.Labels {
		if l.Name == name {
			label = l.Text
			break
		}
	}

	for _, n := range c.Notes {
		if n.Name == name {
			note = n.Text
			break
		}
	}

	return label, note
}

// Range returns the length of the time range of cue point name, if it has one.
func (c *Cues) Range(name uint32) (uint32, bool) {
	if c == nil {
		return 0, false
	}

	for _, rng := range c.Ranges {
		if rng.Name == name {
			return rng.Length, true
		}
	}

	return 0, false
}

// Summary returns every cue point keyed by name with its sample offset,
// label, note and range length.
func (c *Cues) Summary() map[uint32]CueSummary {
	out := make(map[uint32]CueSummary, len(c.EachCue()))

	for _, cue := range c.EachCue() {
		s := CueSummary{Frame: cue.SampleOffset}
		s.Label, s.Note = c.LabelAndNote(cue.Name)

		if length, ok := c.Range(cue.Name); ok {
			s.Length = &length
		}

		out[cue.Name] = s
	}

	return out
}

func (c *Cues) walkFields() []Field {
	fields := make([]Field, 0, len(c.Cues))
	summary := c.Summary()

	for _, cue := range c.Cues {
		fields = append(fields, Field{
			Name:  strconv.FormatUint(uint64(cue.Name), 10),
			Value: summary[cue.Name],
		})
	}

	return fields
}
