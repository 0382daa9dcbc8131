package wavinfo

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/go-audio/riff"
)

// WAVE format tags.
const (
	FormatPCM        uint16 = 0x0001
	FormatADPCM      uint16 = 0x0002
	FormatIEEEFloat  uint16 = 0x0003
	FormatALaw       uint16 = 0x0006
	FormatMuLaw      uint16 = 0x0007
	FormatGSM610     uint16 = 0x0031
	FormatMPEG       uint16 = 0x0050
	FormatMPEGLayer3 uint16 = 0x0055
	FormatExtensible uint16 = 0xFFFE
)

const (
	ksSubFormatGUIDTail0  = 0x00
	ksSubFormatGUIDTail1  = 0x00
	ksSubFormatGUIDTail2  = 0x10
	ksSubFormatGUIDTail3  = 0x00
	ksSubFormatGUIDTail4  = 0x80
	ksSubFormatGUIDTail5  = 0x00
	ksSubFormatGUIDTail6  = 0x00
	ksSubFormatGUIDTail7  = 0xAA
	ksSubFormatGUIDTail8  = 0x00
	ksSubFormatGUIDTail9  = 0x38
	ksSubFormatGUIDTail10 = 0x9B
	ksSubFormatGUIDTail11 = 0x71

	fmtBaseLen       = 16
	fmtExtensibleLen = 22
)

var errFmtTooShort = errors.New("fmt chunk too short")

// FmtChunk stores the parsed WAV fmt chunk, including extensible metadata.
type FmtChunk struct {
	FormatTag      uint16
	NumChannels    uint16
	SampleRate     uint32
	AvgBytesPerSec uint32
	BlockAlign     uint16
	BitsPerSample  uint16
	ExtraData      []byte
	Extensible     *FmtExtensible
}

// FmtExtensible stores WAVE_FORMAT_EXTENSIBLE extra fields.
type FmtExtensible struct {
	ValidBitsPerSample uint16
	ChannelMask        uint32
	SubFormat          [16]byte
	ExtraData          []byte
}

// EffectiveFormatTag resolves WAVE_FORMAT_EXTENSIBLE to the tag embedded in
// its sub format GUID.
func (f *FmtChunk) EffectiveFormatTag() uint16 {
	if f == nil {
		return 0
	}

	if f.FormatTag == FormatExtensible && f.Extensible != nil && f.Extensible.IsStandardSubFormat() {
		return binary.LittleEndian.Uint16(f.Extensible.SubFormat[:2])
	}

	return f.FormatTag
}

// IsStandardSubFormat reports whether the sub format GUID is a
// KSDATAFORMAT_SUBTYPE built from a plain format tag.
func (x *FmtExtensible) IsStandardSubFormat() bool {
	if x == nil {
		return false
	}

	want := makeSubFormatGUID(binary.LittleEndian.Uint16(x.SubFormat[:2]))

	return want == x.SubFormat
}

func (f *FmtChunk) walkFields() []Field {
	fields := []Field{
		{Name: "audio_format", Value: f.FormatTag},
		{Name: "channel_count", Value: f.NumChannels},
		{Name: "sample_rate", Value: f.SampleRate},
		{Name: "byte_rate", Value: f.AvgBytesPerSec},
		{Name: "block_align", Value: f.BlockAlign},
		{Name: "bits_per_sample", Value: f.BitsPerSample},
	}

	if f.Extensible != nil {
		fields = append(fields,
			Field{Name: "valid_bits_per_sample", Value: f.Extensible.ValidBitsPerSample},
			Field{Name: "channel_mask", Value: f.Extensible.ChannelMask},
			Field{Name: "sub_format", Value: guidString(f.Extensible.SubFormat)},
		)
	}

	return fields
}

// FormatTagName returns a readable name for a WAVE format tag.
func FormatTagName(tag uint16) string {
	switch tag {
	case FormatPCM:
		return "PCM"
	case FormatADPCM:
		return "Microsoft ADPCM"
	case FormatIEEEFloat:
		return "IEEE float"
	case FormatALaw:
		return "A-law"
	case FormatMuLaw:
		return "mu-law"
	case FormatGSM610:
		return "GSM 6.10"
	case FormatMPEG:
		return "MPEG"
	case FormatMPEGLayer3:
		return "MPEG Layer 3"
	case FormatExtensible:
		return "extensible"
	default:
		return fmt.Sprintf("format tag 0x%04x", tag)
	}
}

func decodeFmtChunk(ch *riff.Chunk) (*FmtChunk, error) {
	buf, err := chunkBytes(ch)
	if err != nil {
		return nil, err
	}

	if len(buf) < fmtBaseLen {
		return nil, fmt.Errorf("%d bytes: %w", len(buf), errFmtTooShort)
	}

	fmtChunk := &FmtChunk{
		FormatTag:      binary.LittleEndian.Uint16(buf[0:2]),
		NumChannels:    binary.LittleEndian.Uint16(buf[2:4]),
		SampleRate:     binary.LittleEndian.Uint32(buf[4:8]),
		AvgBytesPerSec: binary.LittleEndian.Uint32(buf[8:12]),
		BlockAlign:     binary.LittleEndian.Uint16(buf[12:14]),
		BitsPerSample:  binary.LittleEndian.Uint16(buf[14:16]),
	}

	if len(buf) < fmtBaseLen+2 {
		return fmtChunk, nil
	}

	extraSize := int(binary.LittleEndian.Uint16(buf[16:18]))
	extra := buf[18:]

	if extraSize < len(extra) {
		extra = extra[:extraSize]
	}

	fmtChunk.ExtraData = append([]byte(nil), extra...)

	if fmtChunk.FormatTag != FormatExtensible || len(extra) < fmtExtensibleLen {
		return fmtChunk, nil
	}

	ext := &FmtExtensible{}
	ext.ValidBitsPerSample = binary.LittleEndian.Uint16(extra[0:2])
	ext.ChannelMask = binary.LittleEndian.Uint32(extra[2:6])
	copy(ext.SubFormat[:], extra[6:22])

	if len(extra) > fmtExtensibleLen {
		ext.ExtraData = append(ext.ExtraData, extra[fmtExtensibleLen:]...)
	}

	fmtChunk.Extensible = ext

	return fmtChunk, nil
}

func makeSubFormatGUID(formatTag uint16) [16]byte {
	var guid [16]byte
	binary.LittleEndian.PutUint32(guid[:4], uint32(formatTag))
	guid[4] = ksSubFormatGUIDTail0
	guid[5] = ksSubFormatGUIDTail1
	guid[6] = ksSubFormatGUIDTail2
	guid[7] = ksSubFormatGUIDTail3
	guid[8] = ksSubFormatGUIDTail4
	guid[9] = ksSubFormatGUIDTail5
	guid[10] = ksSubFormatGUIDTail6
	guid[11] = ksSubFormatGUIDTail7
	guid[12] = ksSubFormatGUIDTail8
	guid[13] = ksSubFormatGUIDTail9
	guid[14] = ksSubFormatGUIDTail10
	guid[15] = ksSubFormatGUIDTail11

	return guid
}

// guidString renders a Microsoft GUID, whose first three groups are stored
// little endian.
func guidString(g [16]byte) string {
	return fmt.Sprintf("%08x-%04x-%04x-%x-%x",
		binary.LittleEndian.Uint32(g[0:4]),
		binary.LittleEndian.Uint16(g[4:6]),
		binary.LittleEndian.Uint16(g[6:8]),
		g[8:10], g[10:16])
}
