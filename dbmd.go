package wavinfo

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/go-audio/riff"
	"go.uber.org/zap"
)

// Dolby bitstream metadata is documented in EBU Tech 3285 Supplement 6.
// Section references below are to that document.

const (
	dbmdVersionLen        = 4
	dolbyDigitalPlusLen   = 96
	dbmdSegmentHeaderLen  = 3
	dbmdSegmentTrailerLen = 1
)

var errDbmdTooShort = errors.New("dbmd chunk too short")

// SegmentType identifies a Dolby metadata segment.
type SegmentType uint8

// Dolby metadata segment types.
const (
	SegmentEndMarker              SegmentType = 0x0
	SegmentDolbyE                 SegmentType = 0x1
	SegmentDolbyDigital           SegmentType = 0x3
	SegmentDolbyDigitalPlus       SegmentType = 0x7
	SegmentAudioInfo              SegmentType = 0x8
	SegmentDolbyAtmos             SegmentType = 0x9
	SegmentDolbyAtmosSupplemental SegmentType = 0xa
)

var segmentTypeNames = enumNames{
	"EndMarker", "DolbyE", "Reserved2", "DolbyDigital", "Reserved4", "Reserved5",
	"Reserved6", "DolbyDigitalPlus", "AudioInfo", "DolbyAtmos", "DolbyAtmosSupplemental",
}

func (t SegmentType) String() string               { return segmentTypeNames.name(uint8(t)) }
func (t SegmentType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// DolbyMetadata is the content of a dbmd chunk.
type DolbyMetadata struct {
	// Version is rendered major.minor.revision.build.
	Version  string         `json:"version"`
	Segments []DolbySegment `json:"segments"`
}

// DolbySegment is one metadata segment. DigitalPlus is set for Dolby Digital
// Plus segments; other segment types keep their raw payload.
type DolbySegment struct {
	Type          SegmentType       `json:"type"`
	ChecksumValid bool              `json:"checksum_valid"`
	Payload       []byte            `json:"-"`
	DigitalPlus   *DolbyDigitalPlus `json:"dolby_digital_plus,omitempty"`
}

// DolbyDigitalPlus is the Dolby Digital Plus metadata segment, § 4.3.
type DolbyDigitalPlus struct {
	ProgramID                uint8                `json:"program_id"`
	LFEOn                    bool                 `json:"lfe_on"`
	BitstreamMode            BitStreamMode        `json:"bitstream_mode"`
	AudioCodingMode          AudioCodingMode      `json:"audio_coding_mode"`
	CenterDownmixLevel       CenterDownMixLevel   `json:"center_downmix_level"`
	SurroundDownmixLevel     SurroundDownMixLevel `json:"surround_downmix_level"`
	DolbySurroundEncoded     SurroundEncodingMode `json:"dolby_surround_encoded"`
	LangcodePresent          bool                 `json:"langcode_present"`
	CopyrightBitstream       bool                 `json:"copyright_bitstream"`
	OriginalBitstream        bool                 `json:"original_bitstream"`
	Dialnorm                 uint8                `json:"dialnorm"`
	Langcode                 uint8                `json:"langcode"`
	ProdInfoExists           bool                 `json:"prod_info_exists"`
	MixLevel                 uint8                `json:"mixlevel"`
	RoomType                 RoomType             `json:"roomtype"`
	LoRoCenterDownmixLevel   DownMixLevel         `json:"loro_center_downmix_level"`
	LoRoSurroundDownmixLevel DownMixLevel         `json:"loro_surround_downmix_level"`
	DownmixMode              PreferredDownMixMode `json:"downmix_mode"`
	LtRtCenterDownmixLevel   DownMixLevel         `json:"ltrt_center_downmix_level"`
	LtRtSurroundDownmixLevel DownMixLevel         `json:"ltrt_surround_downmix_level"`
	SurroundEXMode           SurroundEXMode       `json:"surround_ex_mode"`
	DolbyHeadphoneEncoded    HeadphoneMode        `json:"dolby_headphone_encoded"`
	ADConverterType          ADConverterType      `json:"ad_converter_type"`
	CompressionProfile       RFCompressionProfile `json:"compression_profile"`
	DynamicRange             RFCompressionProfile `json:"dynamic_range"`
	StreamType               StreamDependency     `json:"stream_type"`
	DataRateKbps             uint16               `json:"datarate_kbps"`
}

// DecodeDolbyChunk decodes a dbmd chunk into r.Dolby.
func DecodeDolbyChunk(r *Reader, ch *riff.Chunk) error {
	if ch == nil {
		return errNilChunk
	}

	if r == nil {
		return errNilReader
	}

	if ch.ID != CIDDbmd {
		ch.Drain()
		return nil
	}

	buf, err := chunkBytes(ch)
	if err != nil {
		return err
	}

	dolby, err := ParseDolbyMetadata(buf)
	if err != nil {
		return err
	}

	for _, seg := range dolby.Segments {
		if !seg.ChecksumValid {
			r.logger.Warn("dbmd segment checksum mismatch", zap.Stringer("segment", seg.Type))
		}
	}

	r.Dolby = dolby

	return nil
}

// ParseDolbyMetadata parses a dbmd payload. Segments are read until an end
// marker or the end of the payload.
func ParseDolbyMetadata(buf []byte) (*DolbyMetadata, error) {
	if len(buf) < dbmdVersionLen {
		return nil, fmt.Errorf("%d bytes: %w", len(buf), errDbmdTooShort)
	}

	v := binary.LittleEndian.Uint32(buf[:dbmdVersionLen])
	out := &DolbyMetadata{
		Version: fmt.Sprintf("%d.%d.%d.%d", v>>24, v>>16&0xff, v>>8&0xff, v&0xff),
	}

	offset := dbmdVersionLen

	for offset < len(buf) {
		typ := SegmentType(buf[offset])
		if typ == SegmentEndMarker {
			break
		}

		if offset+dbmdSegmentHeaderLen > len(buf) {
			return nil, fmt.Errorf("segment %s header: %w", typ, errDbmdTooShort)
		}

		size := int(binary.LittleEndian.Uint16(buf[offset+1 : offset+3]))
		payloadStart := offset + dbmdSegmentHeaderLen
		end := payloadStart + size + dbmdSegmentTrailerLen

		if end > len(buf) {
			return nil, fmt.Errorf("segment %s of %d bytes: %w", typ, size, errDbmdTooShort)
		}

		seg := DolbySegment{
			Type:          typ,
			ChecksumValid: dolbyChecksumValid(buf[offset+1 : end]),
			Payload:       buf[payloadStart : payloadStart+size],
		}

		if typ == SegmentDolbyDigitalPlus && size == dolbyDigitalPlusLen {
			seg.DigitalPlus = parseDolbyDigitalPlus(seg.Payload)
		}

		out.Segments = append(out.Segments, seg)
		offset = end
	}

	return out, nil
}

// dolbyChecksumValid checks the size field, payload and checksum byte of a
// segment add up to zero.
func dolbyChecksumValid(b []byte) bool {
	var sum byte
	for _, c := range b {
		sum += c
	}

	return sum == 0
}

func parseDolbyDigitalPlus(b []byte) *DolbyDigitalPlus {
	return &DolbyDigitalPlus{
		ProgramID: b[0],
		// program_info § 4.3.2
		LFEOn:           b[1]&0x40 != 0,
		BitstreamMode:   BitStreamMode(b[1] & 0x38 >> 3),
		AudioCodingMode: AudioCodingMode(b[1] & 0x07),
		// surround_config § 4.3.3
		CenterDownmixLevel:   CenterDownMixLevel(b[4] & 0x30 >> 4),
		SurroundDownmixLevel: SurroundDownMixLevel(b[4] & 0x0c >> 2),
		DolbySurroundEncoded: SurroundEncodingMode(b[4] & 0x03),
		// dialnorm_info § 4.3.4
		LangcodePresent:    b[5]&0x80 != 0,
		CopyrightBitstream: b[5]&0x40 != 0,
		OriginalBitstream:  b[5]&0x20 != 0,
		Dialnorm:           b[5] & 0x1f,
		Langcode:           b[6],
		// audio_prod_info § 4.3.6
		ProdInfoExists: b[7]&0x80 != 0,
		MixLevel:       b[7] & 0x7c >> 2,
		RoomType:       RoomType(b[7] & 0x03),
		// ext_bsi1_word1 and word2 § 4.3.7, § 4.3.8
		LoRoCenterDownmixLevel:   DownMixLevel(b[8] & 0x38 >> 3),
		LoRoSurroundDownmixLevel: DownMixLevel(b[8] & 0x07),
		DownmixMode:              PreferredDownMixMode(b[9] & 0xc0 >> 6),
		LtRtCenterDownmixLevel:   DownMixLevel(b[9] & 0x38 >> 3),
		LtRtSurroundDownmixLevel: DownMixLevel(b[9] & 0x07),
		// ext_bsi2_word1 § 4.3.9
		SurroundEXMode:        SurroundEXMode(b[10] & 0x60 >> 5),
		DolbyHeadphoneEncoded: HeadphoneMode(b[10] & 0x18 >> 3),
		ADConverterType:       ADConverterType(b[10] & 0x04 >> 2),
		// § 4.3.10
		CompressionProfile: RFCompressionProfile(b[14]),
		DynamicRange:       RFCompressionProfile(b[15]),
		// ddplus_info1 § 4.3.12
		StreamType:   StreamDependency(b[19] & 0x0c >> 2),
		DataRateKbps: binary.LittleEndian.Uint16(b[25:27]),
	}
}

func (d *DolbyMetadata) walkFields() []Field {
	fields := []Field{
		{Name: "version", Value: d.Version},
		{Name: "segments", Value: d.Segments},
	}

	for _, seg := range d.Segments {
		if seg.DigitalPlus != nil {
			fields = append(fields, Field{Name: "dolby_digital_plus", Value: seg.DigitalPlus})
			break
		}
	}

	return fields
}
