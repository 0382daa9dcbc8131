package wavinfo

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/go-audio/riff"
	"go.uber.org/zap"
)

// The Audio Definition Model is carried by an axml chunk holding the
// ITU-R BS.2076 document and a chna chunk mapping tracks to it (EBU Tech 3285
// Supplement 7).

const (
	chnaHeaderLen = 4
	chnaEntryLen  = 40
	chnaUIDLen    = 12
	chnaTrackLen  = 14
	chnaPackLen   = 11
)

var (
	errChnaTooShort      = errors.New("chna chunk too short")
	errADMFormatNotFound = errors.New("audioFormatExtended not found in ADM document")
	errADMNotFound       = errors.New("ADM element not found")
)

// ChannelEntry maps a track of the file to its ADM track UID and formats.
type ChannelEntry struct {
	// TrackIndex is zero based.
	TrackIndex int    `json:"track_index"`
	UID        string `json:"uid"`
	TrackRef   string `json:"track_ref"`
	PackRef    string `json:"pack_ref"`
}

// ADM is the Audio Definition Model metadata of a file.
type ADM struct {
	// Source is the axml payload as found in the file.
	Source   []byte
	Channels []ChannelEntry

	doc *etree.Document
}

// Programme is the audioProgramme of an ADM document with its contents.
type Programme struct {
	ID       string             `json:"programme_id"`
	Name     string             `json:"programme_name"`
	Start    string             `json:"programme_start"`
	End      string             `json:"programme_end"`
	Contents []ProgrammeContent `json:"contents"`
}

// ProgrammeContent is an audioContent referenced by a programme.
type ProgrammeContent struct {
	ID      string            `json:"content_id"`
	Name    string            `json:"content_name"`
	Objects []ProgrammeObject `json:"objects"`
}

// ProgrammeObject is an audioObject referenced by a content.
type ProgrammeObject struct {
	ID        string   `json:"object_id"`
	Name      string   `json:"object_name"`
	Start     string   `json:"object_start"`
	Duration  string   `json:"object_duration"`
	PackID    string   `json:"pack_id"`
	TrackUIDs []string `json:"track_uids"`
}

// TrackInfo describes the formats, object and content a track belongs to.
type TrackInfo struct {
	ChannelFormatName string `json:"channel_format_name"`
	PackType          string `json:"pack_type"`
	PackFormatName    string `json:"pack_format_name"`
	ObjectName        string `json:"audio_object_name"`
	ObjectID          string `json:"object_id"`
	ContentName       string `json:"content_name"`
	ContentID         string `json:"content_id"`
}

// DecodeAXMLChunk keeps the axml payload until the file is fully read.
func DecodeAXMLChunk(r *Reader, ch *riff.Chunk) error {
	if ch == nil {
		return errNilChunk
	}

	if r == nil {
		return errNilReader
	}

	buf, err := chunkBytes(ch)
	if err != nil {
		return err
	}

	r.axml = buf

	return nil
}

// DecodeChnaChunk decodes the chna track table.
func DecodeChnaChunk(r *Reader, ch *riff.Chunk) error {
	if ch == nil {
		return errNilChunk
	}

	if r == nil {
		return errNilReader
	}

	buf, err := chunkBytes(ch)
	if err != nil {
		return err
	}

	entries, err := parseChna(buf)
	if err != nil {
		return err
	}

	r.chna = entries

	return nil
}

func parseChna(buf []byte) ([]ChannelEntry, error) {
	if len(buf) < chnaHeaderLen {
		return nil, fmt.Errorf("%d bytes: %w", len(buf), errChnaTooShort)
	}

	uidCount := int(binary.LittleEndian.Uint16(buf[2:4]))
	body := buf[chnaHeaderLen:]

	if uidCount > len(body)/chnaEntryLen {
		return nil, fmt.Errorf("%d track UIDs in %d bytes: %w", uidCount, len(body), errChnaTooShort)
	}

	entries := make([]ChannelEntry, 0, uidCount)

	for i := 0; i < uidCount; i++ {
		raw := body[i*chnaEntryLen : (i+1)*chnaEntryLen]
		offset := 2

		field := func(n int) string {
			s := nullTermStr(raw[offset : offset+n])
			offset += n

			return s
		}

		entries = append(entries, ChannelEntry{
			TrackIndex: int(binary.LittleEndian.Uint16(raw[0:2])) - 1,
			UID:        field(chnaUIDLen),
			TrackRef:   field(chnaTrackLen),
			PackRef:    field(chnaPackLen),
		})
	}

	return entries, nil
}

// ParseADM parses an axml document with the track table of a chna chunk,
// which may be nil.
func ParseADM(axml []byte, channels []ChannelEntry) (*ADM, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true

	if err := doc.ReadFromBytes(nullTermBytes(axml)); err != nil {
		return nil, fmt.Errorf("failed to parse axml: %w", err)
	}

	return &ADM{Source: axml, Channels: channels, doc: doc}, nil
}

func (r *Reader) finishADM() {
	if r.axml == nil {
		return
	}

	adm, err := ParseADM(r.axml, r.chna)
	if err != nil {
		r.logger.Warn("ignoring unreadable ADM document", zap.Error(err))
		return
	}

	r.ADM = adm
}

// XMLString renders the ADM document.
func (a *ADM) XMLString() (string, error) {
	return a.doc.WriteToString()
}

func (a *ADM) formatExtended() (*etree.Element, error) {
	afext := a.doc.FindElement("//audioFormatExtended")
	if afext == nil {
		return nil, errADMFormatNotFound
	}

	return afext, nil
}

// findByID returns the first tag child of parent whose attr equals id.
// IDs come from the file, so they are compared directly and never
// spliced into an etree path.
func findByID(parent *etree.Element, tag, attr, id string) (*etree.Element, error) {
	for _, e := range parent.SelectElements(tag) {
		if e.SelectAttrValue(attr, "") == id {
			return e, nil
		}
	}

	return nil, fmt.Errorf("%s %q: %w", tag, id, errADMNotFound)
}

// findByRef returns the first tag child of parent holding a ref element
// whose text equals id.
func findByRef(parent *etree.Element, tag, ref, id string) *etree.Element {
	for _, e := range parent.SelectElements(tag) {
		for _, r := range e.SelectElements(ref) {
			if strings.TrimSpace(r.Text()) == id {
				return e
			}
		}
	}

	return nil
}

// Programme returns the first audioProgramme with its contents and objects.
func (a *ADM) Programme() (*Programme, error) {
	afext, err := a.formatExtended()
	if err != nil {
		return nil, err
	}

	prog := afext.SelectElement("audioProgramme")
	if prog == nil {
		return nil, fmt.Errorf("audioProgramme: %w", errADMNotFound)
	}

	out := &Programme{
		ID:    prog.SelectAttrValue("audioProgrammeID", ""),
		Name:  prog.SelectAttrValue("audioProgrammeName", ""),
		Start: prog.SelectAttrValue("start", ""),
		End:   prog.SelectAttrValue("end", ""),
	}

	for _, contentRef := range prog.SelectElements("audioContentIDRef") {
		cid := strings.TrimSpace(contentRef.Text())

		content, err := findByID(afext, "audioContent", "audioContentID", cid)
		if err != nil {
			return nil, err
		}

		c := ProgrammeContent{ID: cid, Name: content.SelectAttrValue("audioContentName", "")}

		for _, objectRef := range content.SelectElements("audioObjectIDRef") {
			oid := strings.TrimSpace(objectRef.Text())

			object, err := findByID(afext, "audioObject", "audioObjectID", oid)
			if err != nil {
				return nil, err
			}

			o := ProgrammeObject{
				ID:       oid,
				Name:     object.SelectAttrValue("audioObjectName", ""),
				Start:    object.SelectAttrValue("start", ""),
				Duration: object.SelectAttrValue("duration", ""),
				PackID:   childText(object, "audioPackFormatIDRef"),
			}

			for _, t := range object.SelectElements("audioTrackUIDRef") {
				o.TrackUIDs = append(o.TrackUIDs, strings.TrimSpace(t.Text()))
			}

			c.Objects = append(c.Objects, o)
		}

		out.Contents = append(out.Contents, c)
	}

	return out, nil
}

// TrackInfo resolves the zero based track index through the chna table to
// its channel format, pack format, object and content.
func (a *ADM) TrackInfo(index int) (*TrackInfo, bool) {
	var entry *ChannelEntry

	for i := range a.Channels {
		if a.Channels[i].TrackIndex == index {
			entry = &a.Channels[i]
			break
		}
	}

	if entry == nil {
		return nil, false
	}

	info, err := a.resolveTrack(entry.TrackRef)
	if err != nil {
		return nil, false
	}

	return info, true
}

func (a *ADM) resolveTrack(trackRef string) (*TrackInfo, error) {
	afext, err := a.formatExtended()
	if err != nil {
		return nil, err
	}

	trackFormat, err := findByID(afext, "audioTrackFormat", "audioTrackFormatID", trackRef)
	if err != nil {
		return nil, err
	}

	streamID := childText(trackFormat, "audioStreamFormatIDRef")

	stream, err := findByID(afext, "audioStreamFormat", "audioStreamFormatID", streamID)
	if err != nil {
		return nil, err
	}

	channelFormat, err := findByID(afext, "audioChannelFormat", "audioChannelFormatID",
		childText(stream, "audioChannelFormatIDRef"))
	if err != nil {
		return nil, err
	}

	packID := childText(stream, "audioPackFormatIDRef")

	packFormat, err := findByID(afext, "audioPackFormat", "audioPackFormatID", packID)
	if err != nil {
		return nil, err
	}

	info := &TrackInfo{
		ChannelFormatName: channelFormat.SelectAttrValue("audioChannelFormatName", ""),
		PackType:          packFormat.SelectAttrValue("typeDefinition", ""),
		PackFormatName:    packFormat.SelectAttrValue("audioPackFormatName", ""),
	}

	object := findByRef(afext, "audioObject", "audioPackFormatIDRef", packID)
	if object == nil {
		return info, nil
	}

	info.ObjectName = object.SelectAttrValue("audioObjectName", "")
	info.ObjectID = object.SelectAttrValue("audioObjectID", "")

	content := findByRef(afext, "audioContent", "audioObjectIDRef", info.ObjectID)
	if content != nil {
		info.ContentName = content.SelectAttrValue("audioContentName", "")
		info.ContentID = content.SelectAttrValue("audioContentID", "")
	}

	return info, nil
}

// ADMChannel is a chna entry with its resolved track information.
type ADMChannel struct {
	ChannelEntry
	*TrackInfo
}

func (a *ADM) walkFields() []Field {
	channels := make([]ADMChannel, 0, len(a.Channels))

	for _, c := range a.Channels {
		info, _ := a.TrackInfo(c.TrackIndex)
		channels = append(channels, ADMChannel{ChannelEntry: c, TrackInfo: info})
	}

	fields := []Field{{Name: "channel_entries", Value: channels}}

	if prog, err := a.Programme(); err == nil {
		fields = append(fields, Field{Name: "programme", Value: prog})
	}

	return fields
}
