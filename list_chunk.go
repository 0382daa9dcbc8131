package wavinfo

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/go-audio/riff"
)

var (
	// See http://bwfmetaedit.sourceforge.net/listinfo.html
	markerIART    = [4]byte{'I', 'A', 'R', 'T'}
	markerISFT    = [4]byte{'I', 'S', 'F', 'T'}
	markerICRD    = [4]byte{'I', 'C', 'R', 'D'}
	markerICOP    = [4]byte{'I', 'C', 'O', 'P'}
	markerIARL    = [4]byte{'I', 'A', 'R', 'L'}
	markerINAM    = [4]byte{'I', 'N', 'A', 'M'}
	markerIENG    = [4]byte{'I', 'E', 'N', 'G'}
	markerIGNR    = [4]byte{'I', 'G', 'N', 'R'}
	markerIPRD    = [4]byte{'I', 'P', 'R', 'D'}
	markerISRC    = [4]byte{'I', 'S', 'R', 'C'}
	markerISBJ    = [4]byte{'I', 'S', 'B', 'J'}
	markerICMT    = [4]byte{'I', 'C', 'M', 'T'}
	markerITRK    = [4]byte{'I', 'T', 'R', 'K'}
	markerITRKBug = [4]byte{'i', 't', 'r', 'k'}
	markerITCH    = [4]byte{'I', 'T', 'C', 'H'}
	markerIKEY    = [4]byte{'I', 'K', 'E', 'Y'}
	markerIMED    = [4]byte{'I', 'M', 'E', 'D'}
	markerTAPE    = [4]byte{'T', 'A', 'P', 'E'}

	errListTooShort = errors.New("LIST chunk too short")
)

// InfoList holds the text fields of a RIFF LIST/INFO chunk.
type InfoList struct {
	Copyright   string `json:"copyright,omitempty"`
	Product     string `json:"product,omitempty"`
	Genre       string `json:"genre,omitempty"`
	Artist      string `json:"artist,omitempty"`
	Comment     string `json:"comment,omitempty"`
	Software    string `json:"software,omitempty"`
	CreatedDate string `json:"created_date,omitempty"`
	Engineer    string `json:"engineer,omitempty"`
	Keywords    string `json:"keywords,omitempty"`
	Title       string `json:"title,omitempty"`
	Source      string `json:"source,omitempty"`
	Tape        string `json:"tape,omitempty"`
	Location    string `json:"location,omitempty"`
	Subject     string `json:"subject,omitempty"`
	Technician  string `json:"technician,omitempty"`
	Medium      string `json:"medium,omitempty"`
	TrackNumber string `json:"track_number,omitempty"`
}

type subChunk struct {
	id   [4]byte
	data []byte
}

// splitListChunk returns the list type and the sub chunks of a LIST body.
// A sub chunk overrunning the body is truncated to what is available.
func splitListChunk(buf []byte) ([4]byte, []subChunk, error) {
	var listType [4]byte

	if len(buf) < 4 {
		return listType, nil, fmt.Errorf("%d bytes: %w", len(buf), errListTooShort)
	}

	copy(listType[:], buf[:4])

	var subs []subChunk

	// stop early if only a word alignment byte remains
	for offset := 4; offset+8 <= len(buf); {
		var id [4]byte
		copy(id[:], buf[offset:offset+4])
		size := int(binary.LittleEndian.Uint32(buf[offset+4 : offset+8]))
		offset += 8

		end := min(offset+size, len(buf))
		subs = append(subs, subChunk{id: id, data: buf[offset:end]})

		offset = end + size%2
	}

	return listType, subs, nil
}

// DecodeListChunk decodes a LIST chunk. INFO lists fill r.Info and adtl
// lists add labels, notes and ranges to r.Cues; other list types are skipped.
func DecodeListChunk(r *Reader, ch *riff.Chunk) error {
	if ch == nil {
		return errNilChunk
	}

	if r == nil {
		return errNilReader
	}

	if ch.ID != CIDList {
		ch.Drain()
		return nil
	}

	buf, err := chunkBytes(ch)
	if err != nil {
		return err
	}

	listType, subs, err := splitListChunk(buf)
	if err != nil {
		return err
	}

	switch listType {
	case CIDInfo:
		r.Info = r.decodeInfo(subs)
	case CIDAdtl:
		return r.decodeAdtl(subs)
	default:
		r.logger.Debug("skipping LIST chunk", zapChunkID("list_type", listType))
	}

	return nil
}

func (r *Reader) decodeInfo(subs []subChunk) *InfoList {
	info := r.Info
	if info == nil {
		info = &InfoList{}
	}

	for _, sub := range subs {
		val := decodeText(sub.data, r.infoEncoding)

		switch sub.id {
		case markerIARL:
			info.Location = val
		case markerIART:
			info.Artist = val
		case markerISFT:
			info.Software = val
		case markerICRD:
			info.CreatedDate = val
		case markerICOP:
			info.Copyright = val
		case markerINAM:
			info.Title = val
		case markerIENG:
			info.Engineer = val
		case markerIGNR:
			info.Genre = val
		case markerIPRD:
			info.Product = val
		case markerISRC:
			info.Source = val
		case markerISBJ:
			info.Subject = val
		case markerICMT:
			info.Comment = val
		case markerITRK, markerITRKBug:
			info.TrackNumber = val
		case markerITCH:
			info.Technician = val
		case markerIKEY:
			info.Keywords = val
		case markerIMED:
			info.Medium = val
		case markerTAPE:
			info.Tape = val
		default:
			r.logger.Debug("skipping INFO field", zapChunkID("id", sub.id))
		}
	}

	return info
}

func (i *InfoList) walkFields() []Field {
	// Table-driven approach to reduce cyclomatic complexity
	fields := []struct {
		name  string
		value string
	}{
		{"copyright", i.Copyright},
		{"product", i.Product},
		{"genre", i.Genre},
		{"artist", i.Artist},
		{"comment", i.Comment},
		{"software", i.Software},
		{"created_date", i.CreatedDate},
		{"engineer", i.Engineer},
		{"keywords", i.Keywords},
		{"title", i.Title},
		{"source", i.Source},
		{"tape", i.Tape},
		{"location", i.Location},
		{"subject", i.Subject},
		{"technician", i.Technician},
		{"medium", i.Medium},
		{"track_number", i.TrackNumber},
	}

	out := make([]Field, 0, len(fields))

	for _, f := range fields {
		if f.value == "" {
			continue
		}

		out = append(out, Field{Name: f.name, Value: f.value})
	}

	return out
}
