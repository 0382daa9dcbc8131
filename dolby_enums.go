package wavinfo

import "fmt"

// enumNames maps small enumeration values to display names.
type enumNames []string

func (n enumNames) name(v uint8) string {
	if int(v) < len(n) {
		return n[v]
	}

	return fmt.Sprintf("Unknown(%d)", v)
}

// DownMixLevel is a downmix gain coefficient, § 4.3.7.
type DownMixLevel uint8

var downMixLevelNames = enumNames{
	"+3 dB", "+1.5 dB", "0 dB", "-1.5 dB", "-3 dB", "-4.5 dB", "-6 dB", "-inf dB",
}

func (d DownMixLevel) String() string               { return downMixLevelNames.name(uint8(d)) }
func (d DownMixLevel) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// SurroundEncodingMode tells whether a 2/0 program is Dolby Surround encoded.
type SurroundEncodingMode uint8

var surroundEncodingModeNames = enumNames{"NotIndicated", "NotInUse", "InUse", "Reserved"}

func (s SurroundEncodingMode) String() string               { return surroundEncodingModeNames.name(uint8(s)) }
func (s SurroundEncodingMode) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// BitStreamMode is the bsmod service type, § 4.3.2.2. Mode 7 is a voice over
// when the coding mode is 1/0 and karaoke otherwise.
type BitStreamMode uint8

var bitStreamModeNames = enumNames{
	"CompleteMain", "MusicAndEffects", "VisuallyImpaired", "HearingImpaired", "DialogueOnly", "Commentary", "Emergency", "VoiceoverKaraoke",
}

func (b BitStreamMode) String() string               { return bitStreamModeNames.name(uint8(b)) }
func (b BitStreamMode) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

// AudioCodingMode is the acmod channel configuration, § 4.3.2.3.
type AudioCodingMode uint8

var audioCodingModeNames = enumNames{"Reserved", "1/0", "2/0", "3/0", "2/1", "3/1", "2/2", "3/2"}

func (a AudioCodingMode) String() string               { return audioCodingModeNames.name(uint8(a)) }
func (a AudioCodingMode) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// CenterDownMixLevel is the cmixlev field, § 4.3.3.1.
type CenterDownMixLevel uint8

var centerDownMixLevelNames = enumNames{"-3 dB", "-4.5 dB", "-6 dB", "Reserved"}

func (c CenterDownMixLevel) String() string               { return centerDownMixLevelNames.name(uint8(c)) }
func (c CenterDownMixLevel) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// SurroundDownMixLevel is the surmixlev field, § 4.3.3.2.
type SurroundDownMixLevel uint8

var surroundDownMixLevelNames = enumNames{"-3 dB", "-6 dB", "Mute", "Reserved"}

func (s SurroundDownMixLevel) String() string               { return surroundDownMixLevelNames.name(uint8(s)) }
func (s SurroundDownMixLevel) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// RoomType is the roomtyp field, § 4.3.6.3.
type RoomType uint8

var roomTypeNames = enumNames{"NotIndicated", "LargeRoomXCurve", "SmallRoomFlatCurve", "Reserved"}

func (r RoomType) String() string               { return roomTypeNames.name(uint8(r)) }
func (r RoomType) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// PreferredDownMixMode is the dmixmod field, § 4.3.8.1.
type PreferredDownMixMode uint8

var preferredDownMixModeNames = enumNames{"NotIndicated", "ProLogic", "Stereo", "ProLogicII"}

func (p PreferredDownMixMode) String() string               { return preferredDownMixModeNames.name(uint8(p)) }
func (p PreferredDownMixMode) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// SurroundEXMode is the dsurexmod field, § 4.3.9.1.
type SurroundEXMode uint8

var surroundEXModeNames = enumNames{"NotIndicated", "NotSurroundEX", "SurroundEX", "ProLogicIIz"}

func (s SurroundEXMode) String() string               { return surroundEXModeNames.name(uint8(s)) }
func (s SurroundEXMode) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// HeadphoneMode is the dheadphonmod field, § 4.3.9.2.
type HeadphoneMode uint8

var headphoneModeNames = enumNames{
	"NotIndicated", "NotDolbyHeadphone", "DolbyHeadphone", "Reserved",
}

func (h HeadphoneMode) String() string               { return headphoneModeNames.name(uint8(h)) }
func (h HeadphoneMode) MarshalText() ([]byte, error) { return []byte(h.String()), nil }

// ADConverterType is the adconvtyp field.
type ADConverterType uint8

var aDConverterTypeNames = enumNames{"Standard", "HDCD"}

func (a ADConverterType) String() string               { return aDConverterTypeNames.name(uint8(a)) }
func (a ADConverterType) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// StreamDependency is the ddplus_info1 stream type, § 4.3.12.1.
type StreamDependency uint8

var streamDependencyNames = enumNames{
	"Independent", "Dependent", "IndependentFromDolbyDigital", "Reserved",
}

func (s StreamDependency) String() string               { return streamDependencyNames.name(uint8(s)) }
func (s StreamDependency) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// RFCompressionProfile is an RF or line mode compression profile, § 4.3.10.
type RFCompressionProfile uint8

var rfCompressionProfileNames = enumNames{
	"None", "FilmStandard", "FilmLight", "MusicStandard", "MusicLight", "Speech",
}

func (r RFCompressionProfile) String() string               { return rfCompressionProfileNames.name(uint8(r)) }
func (r RFCompressionProfile) MarshalText() ([]byte, error) { return []byte(r.String()), nil }
