package wavinfo

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/go-audio/riff"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"
)

var errIXMLNoRoot = errors.New("iXML document has no root element")

// IXML is the production recorder metadata of an iXML chunk.
// See http://www.gallery.co.uk/ixml/
type IXML struct {
	// Source is the chunk payload as found in the file.
	Source []byte

	doc *etree.Document
}

// IXMLTrack describes one recorder track of the iXML TRACK_LIST.
type IXMLTrack struct {
	ChannelIndex    string `json:"channel_index"`
	InterleaveIndex string `json:"interleave_index"`
	Name            string `json:"name"`
	Function        string `json:"function"`
}

// ParseIXML parses an iXML payload. A leading byte order mark and trailing
// NUL padding are ignored, and common XML mistakes are tolerated.
func ParseIXML(source []byte) (*IXML, error) {
	payload, err := unicode.UTF8BOM.NewDecoder().Bytes(bytes.TrimRight(source, "\x00"))
	if err != nil {
		return nil, fmt.Errorf("failed to decode iXML: %w", err)
	}

	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true

	if err := doc.ReadFromBytes(payload); err != nil {
		return nil, fmt.Errorf("failed to parse iXML: %w", err)
	}

	if doc.Root() == nil {
		return nil, errIXMLNoRoot
	}

	return &IXML{Source: source, doc: doc}, nil
}

// DecodeIXMLChunk decodes an iXML chunk into r.IXML. A payload that can't be
// parsed is logged and leaves r.IXML nil.
func DecodeIXMLChunk(r *Reader, ch *riff.Chunk) error {
	if ch == nil {
		return errNilChunk
	}

	if r == nil {
		return errNilReader
	}

	if ch.ID != CIDIXML {
		ch.Drain()
		return nil
	}

	buf, err := chunkBytes(ch)
	if err != nil {
		return err
	}

	ixml, err := ParseIXML(buf)
	if err != nil {
		r.logger.Warn("ignoring unreadable iXML chunk", zap.Error(err))
		return nil
	}

	r.IXML = ixml

	return nil
}

func (x *IXML) text(path string) string {
	if x == nil || x.doc == nil {
		return ""
	}

	e := x.doc.Root().FindElement(path)
	if e == nil {
		return ""
	}

	return strings.TrimSpace(e.Text())
}

// Project is the project or film name entered for the recording.
func (x *IXML) Project() string { return x.text("PROJECT") }

// Scene is the scene or slate.
func (x *IXML) Scene() string { return x.text("SCENE") }

// Take is the take number.
func (x *IXML) Take() string { return x.text("TAKE") }

// Tape is the tape or sound roll name.
func (x *IXML) Tape() string { return x.text("TAPE") }

// Note is the free-form recorder note.
func (x *IXML) Note() string { return x.text("NOTE") }

// Circled reports whether the take was circled.
func (x *IXML) Circled() bool {
	circled, err := strconv.ParseBool(x.text("CIRCLED"))
	return err == nil && circled
}

// FileUID is the unique identifier of this file.
func (x *IXML) FileUID() string { return x.text("FILE_UID") }

// FamilyUID is the identifier shared by every file of a poly recording.
func (x *IXML) FamilyUID() string { return x.text("FILE_SET/FAMILY_UID") }

// FamilyName is the name of this file's family.
func (x *IXML) FamilyName() string { return x.text("FILE_SET/FAMILY_NAME") }

// TimecodeRate is the SPEED/TIMECODE_RATE value, such as "24000/1001".
func (x *IXML) TimecodeRate() string { return x.text("SPEED/TIMECODE_RATE") }

// Tracks returns the TRACK_LIST entries in document order.
func (x *IXML) Tracks() []IXMLTrack {
	if x == nil || x.doc == nil {
		return nil
	}

	var tracks []IXMLTrack

	for _, e := range x.doc.Root().FindElements("TRACK_LIST/TRACK") {
		tracks = append(tracks, IXMLTrack{
			ChannelIndex:    childText(e, "CHANNEL_INDEX"),
			InterleaveIndex: childText(e, "INTERLEAVE_INDEX"),
			Name:            childText(e, "NAME"),
			Function:        childText(e, "FUNCTION"),
		})
	}

	return tracks
}

// XMLString renders the parsed document.
func (x *IXML) XMLString() (string, error) {
	if x == nil || x.doc == nil {
		return "", errIXMLNoRoot
	}

	return x.doc.WriteToString()
}

func childText(e *etree.Element, tag string) string {
	if c := e.SelectElement(tag); c != nil {
		return strings.TrimSpace(c.Text())
	}

	return ""
}

func (x *IXML) walkFields() []Field {
	fields := []Field{
		{Name: "project", Value: x.Project()},
		{Name: "scene", Value: x.Scene()},
		{Name: "take", Value: x.Take()},
		{Name: "tape", Value: x.Tape()},
		{Name: "note", Value: x.Note()},
		{Name: "circled", Value: x.Circled()},
		{Name: "file_uid", Value: x.FileUID()},
		{Name: "family_uid", Value: x.FamilyUID()},
		{Name: "family_name", Value: x.FamilyName()},
	}

	if rate := x.TimecodeRate(); rate != "" {
		fields = append(fields, Field{Name: "timecode_rate", Value: rate})
	}

	if tracks := x.Tracks(); len(tracks) > 0 {
		fields = append(fields, Field{Name: "track_list", Value: tracks})
	}

	return fields
}
