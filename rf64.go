package wavinfo

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/riff"
)

const (
	ds64FixedLen      = 28
	ds64TableEntryLen = 12
)

var (
	errDS64NotFound = errors.New("ds64 chunk must follow the RF64 header")
	errDS64TooShort = errors.New("ds64 chunk too short")
)

// parseRF64 reads the ds64 chunk that follows an RF64/BW64 header. rs must be
// positioned right after the container size field and is restored on return.
func parseRF64(rs io.ReadSeeker, signature [4]byte) (*rf64Context, error) {
	start, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("failed to get the ds64 position: %w", err)
	}

	var head struct {
		Form [4]byte
		ID   [4]byte
		Size uint32
	}

	if err := binary.Read(rs, binary.LittleEndian, &head); err != nil {
		return nil, fmt.Errorf("failed to read the %s header: %w", signature[:], err)
	}

	if head.Form != riff.WavFormatID {
		return nil, fmt.Errorf("%s form %q: %w", signature[:], head.Form[:], ErrNotWave)
	}

	if head.ID != CIDDS64 {
		return nil, fmt.Errorf("found %q: %w", head.ID[:], errDS64NotFound)
	}

	if head.Size < ds64FixedLen {
		return nil, fmt.Errorf("%d bytes: %w", head.Size, errDS64TooShort)
	}

	body, err := io.ReadAll(io.LimitReader(rs, int64(head.Size)))
	if err != nil {
		return nil, fmt.Errorf("failed to read the ds64 chunk: %w", err)
	}

	if len(body) < ds64FixedLen {
		return nil, fmt.Errorf("%d bytes: %w", len(body), errDS64TooShort)
	}

	ctx := &rf64Context{
		sampleCount: binary.LittleEndian.Uint64(body[16:24]),
		sizes:       make(map[[4]byte]uint64),
	}

	tableLen := binary.LittleEndian.Uint32(body[24:28])
	offset := ds64FixedLen

	for i := uint32(0); i < tableLen; i++ {
		if offset+ds64TableEntryLen > len(body) {
			break
		}

		var id [4]byte
		copy(id[:], body[offset:offset+4])
		ctx.sizes[id] = binary.LittleEndian.Uint64(body[offset+4 : offset+12])
		offset += ds64TableEntryLen
	}

	ctx.sizes[riff.DataFormatID] = binary.LittleEndian.Uint64(body[8:16])
	ctx.sizes[signature] = binary.LittleEndian.Uint64(body[0:8])

	if _, err := rs.Seek(start, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek back after ds64: %w", err)
	}

	return ctx, nil
}
