package wavinfo

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// SMPTE ST 330 UMID layout.
const (
	umidBasicLen    = 32
	umidExtendedLen = 64

	umidLengthBasic    = 0x13
	umidLengthExtended = 0x33
)

var (
	errUMIDLength = errors.New("UMID must be 32 or 64 bytes")

	umidLabelPreamble = []byte{0x06, 0x0a, 0x2b, 0x34, 0x01, 0x01, 0x01, 0x05, 0x01, 0x01}
)

// UMID is a SMPTE 330M Unique Material Identifier.
type UMID struct {
	raw []byte
}

// ParseUMID parses a basic (32 byte) or extended (64 byte) UMID. An all-zero
// identifier means none was recorded and yields nil.
func ParseUMID(raw []byte) (*UMID, error) {
	if len(raw) != umidBasicLen && len(raw) != umidExtendedLen {
		return nil, fmt.Errorf("%d bytes: %w", len(raw), errUMIDLength)
	}

	if bytes.Count(raw, []byte{0}) == len(raw) {
		return nil, nil
	}

	out := &UMID{raw: append([]byte(nil), raw...)}
	if len(out.raw) == umidExtendedLen && out.raw[12] == umidLengthBasic {
		out.raw = out.raw[:umidBasicLen]
	}

	return out, nil
}

// Bytes returns a copy of the identifier.
func (u *UMID) Bytes() []byte {
	if u == nil {
		return nil
	}

	return append([]byte(nil), u.raw...)
}

// String renders the whole identifier as hex.
func (u *UMID) String() string {
	if u == nil {
		return ""
	}

	return hex.EncodeToString(u.raw)
}

// MarshalText implements encoding.TextMarshaler.
func (u *UMID) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// BasicString renders the basic UMID, the first 32 bytes, as hex.
func (u *UMID) BasicString() string {
	if u == nil {
		return ""
	}

	return hex.EncodeToString(u.raw[:umidBasicLen])
}

// UniversalLabel returns the 12-byte SMPTE universal label.
func (u *UMID) UniversalLabel() []byte {
	return u.raw[0:12]
}

// UniversalLabelValid reports whether the label carries the UMID preamble.
func (u *UMID) UniversalLabelValid() bool {
	return bytes.HasPrefix(u.raw, umidLabelPreamble)
}

// IndicatedLength is "basic" or "extended" as declared by the length byte.
func (u *UMID) IndicatedLength() string {
	switch u.raw[12] {
	case umidLengthBasic:
		return "basic"
	case umidLengthExtended:
		return "extended"
	default:
		return "unknown"
	}
}

func (u *UMID) InstanceNumber() []byte {
	return u.raw[13:16]
}

func (u *UMID) MaterialNumber() []byte {
	return u.raw[16:32]
}

// SourcePack returns the extended UMID's source pack, or nil for a basic one.
func (u *UMID) SourcePack() []byte {
	if len(u.raw) < umidExtendedLen {
		return nil
	}

	return u.raw[32:64]
}

// MaterialType decodes byte 10 of the universal label.
func (u *UMID) MaterialType() string {
	switch u.raw[10] {
	case 0x1:
		return "picture"
	case 0x2:
		return "audio"
	case 0x3:
		return "data"
	case 0x4:
		return "other"
	case 0x5:
		return "picture_single_component"
	case 0x6:
		return "picture_multiple_component"
	case 0x7:
		return "audio_single_component"
	case 0x9:
		return "audio_multiple_component"
	case 0xb:
		return "auxiliary_single_component"
	case 0xc:
		return "auxiliary_multiple_component"
	case 0xd:
		return "mixed_components"
	case 0xf:
		return "not_identified"
	default:
		return "not_recognized"
	}
}

// MaterialNumberCreationMethod decodes the high nibble of label byte 11.
func (u *UMID) MaterialNumberCreationMethod() string {
	switch method := u.raw[11] >> 4; {
	case method == 0x0:
		return "undefined"
	case method == 0x1:
		return "smpte"
	case method == 0x2:
		return "uuid"
	case method == 0x3:
		return "masked"
	case method == 0x4:
		return "ieee1394"
	case method >= 0x5 && method <= 0x7:
		return "reserved_undefined"
	default:
		return "unrecognized"
	}
}

// InstanceNumberCreationMethod decodes the low nibble of label byte 11.
func (u *UMID) InstanceNumberCreationMethod() string {
	switch method := u.raw[11] & 0xf; {
	case method == 0x0:
		return "undefined"
	case method == 0x1:
		return "local_registration"
	case method == 0x2:
		return "24_bit_prs"
	case method == 0x3:
		return "copy_number_and_16_bit_prs"
	case method >= 0x4 && method <= 0xe:
		return "reserved_undefined"
	default:
		return "live_stream"
	}
}

// MaterialUUID returns the material number as a UUID when it was generated
// with the UUID method.
func (u *UMID) MaterialUUID() (uuid.UUID, bool) {
	if u == nil || u.MaterialNumberCreationMethod() != "uuid" {
		return uuid.Nil, false
	}

	id, err := uuid.FromBytes(u.MaterialNumber())
	if err != nil {
		return uuid.Nil, false
	}

	return id, true
}
