package wavinfo

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/go-audio/riff"
)

var (
	// CIDRF64 is the container ID of an EBU Tech 3306 RF64 file.
	CIDRF64 = [4]byte{'R', 'F', '6', '4'}
	// CIDBW64 is the container ID of an ITU-R BS.2088 BW64 file.
	CIDBW64 = [4]byte{'B', 'W', '6', '4'}
	// CIDDS64 is the chunk ID of the RF64 64-bit size table.
	CIDDS64 = [4]byte{'d', 's', '6', '4'}

	cidListLower = [4]byte{'l', 'i', 's', 't'}
)

const rf64SizeSentinel = 0xFFFFFFFF

// Chunk is a node of a parsed RIFF chunk tree, either a *ChunkDescriptor or
// a *ListChunk.
type Chunk interface {
	ChunkID() [4]byte
	ReadData(rs io.ReadSeeker) ([]byte, error)
}

// ChunkDescriptor locates the payload of a leaf chunk in the file.
type ChunkDescriptor struct {
	ID     [4]byte
	Start  int64
	Length int64
}

func (c *ChunkDescriptor) ChunkID() [4]byte { return c.ID }

// ReadData reads the chunk payload from rs.
func (c *ChunkDescriptor) ReadData(rs io.ReadSeeker) ([]byte, error) {
	return readSpan(rs, c.ID, c.Start, c.Length)
}

// ListChunk is a RIFF, RF64, BW64 or LIST chunk and its children.
// Start is the offset of the signature, Length includes it.
type ListChunk struct {
	ID        [4]byte
	Signature [4]byte
	Start     int64
	Length    int64
	Children  []Chunk
}

func (l *ListChunk) ChunkID() [4]byte { return l.ID }

// ReadData reads the list body, signature included, from rs.
func (l *ListChunk) ReadData(rs io.ReadSeeker) ([]byte, error) {
	return readSpan(rs, l.ID, l.Start, l.Length)
}

// Find returns the first leaf child with the given ID.
func (l *ListChunk) Find(id [4]byte) *ChunkDescriptor {
	if l == nil {
		return nil
	}

	for _, c := range l.Children {
		if d, ok := c.(*ChunkDescriptor); ok && d.ID == id {
			return d
		}
	}

	return nil
}

// FindAll returns every leaf child with the given ID, in file order.
func (l *ListChunk) FindAll(id [4]byte) []*ChunkDescriptor {
	if l == nil {
		return nil
	}

	var out []*ChunkDescriptor

	for _, c := range l.Children {
		if d, ok := c.(*ChunkDescriptor); ok && d.ID == id {
			out = append(out, d)
		}
	}

	return out
}

// FindList returns the first child list with the given signature.
func (l *ListChunk) FindList(signature [4]byte) *ListChunk {
	if l == nil {
		return nil
	}

	for _, c := range l.Children {
		if sub, ok := c.(*ListChunk); ok && sub.Signature == signature {
			return sub
		}
	}

	return nil
}

func readSpan(rs io.ReadSeeker, id [4]byte, start, length int64) ([]byte, error) {
	if _, err := rs.Seek(start, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek to the %s chunk: %w", id[:], err)
	}

	// Chunk sizes come from the file, so the payload isn't preallocated.
	data, err := io.ReadAll(io.LimitReader(rs, length))
	if err != nil {
		return nil, fmt.Errorf("failed to read the %s chunk: %w", id[:], err)
	}

	if int64(len(data)) < length {
		return nil, fmt.Errorf("failed to read the %s chunk: %w", id[:], io.ErrUnexpectedEOF)
	}

	return data, nil
}

func isListID(id [4]byte) bool {
	switch id {
	case riff.RiffID, CIDRF64, CIDBW64, CIDList, cidListLower:
		return true
	default:
		return false
	}
}

// rf64Context holds the 64-bit sizes declared by a ds64 chunk.
type rf64Context struct {
	sampleCount uint64
	sizes       map[[4]byte]uint64
}

type chunkWalker struct {
	rs   io.ReadSeeker
	rf64 *rf64Context
}

// parseChunkTree parses the chunk at the current position of rs. When an error
// interrupts a list, the partially parsed list is returned along with it.
func parseChunkTree(rs io.ReadSeeker) (Chunk, *rf64Context, error) {
	w := &chunkWalker{rs: rs}
	root, err := w.parseChunk()

	return root, w.rf64, err
}

func (w *chunkWalker) parseChunk() (Chunk, error) {
	headerStart, err := w.rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("failed to get the chunk position: %w", err)
	}

	var (
		header [8]byte
		id     [4]byte
	)

	n, err := io.ReadFull(w.rs, header[:])
	copy(id[:], header[:min(n, 4)])

	if err != nil {
		return nil, &ChunkEOFError{ID: id, Offset: headerStart}
	}

	if (id == CIDRF64 || id == CIDBW64) && w.rf64 == nil {
		ctx, err := parseRF64(w.rs, id)
		if err != nil {
			return nil, err
		}

		w.rf64 = ctx
	}

	size := uint64(binary.LittleEndian.Uint32(header[4:]))
	if size == rf64SizeSentinel {
		size, err = w.resolveSize(id)
		if err != nil {
			return nil, err
		}
	}

	if isListID(id) {
		list, err := w.parseList(id, int64(size))
		if list == nil {
			return nil, err
		}

		return list, err
	}

	dataStart := headerStart + 8

	_, err = w.rs.Seek(dataStart+int64(size)+int64(size%2), io.SeekStart)
	if err != nil {
		return nil, fmt.Errorf("failed to skip the %s chunk: %w", id[:], err)
	}

	return &ChunkDescriptor{ID: id, Start: dataStart, Length: int64(size)}, nil
}

func (w *chunkWalker) resolveSize(id [4]byte) (uint64, error) {
	if w.rf64 == nil {
		return 0, fmt.Errorf("%s: %w", id[:], ErrRF64SizeOutsideContext)
	}

	size, ok := w.rf64.sizes[id]
	if !ok {
		return 0, fmt.Errorf("%s has no ds64 entry: %w", id[:], ErrRF64SizeOutsideContext)
	}

	return size, nil
}

func (w *chunkWalker) parseList(id [4]byte, length int64) (*ListChunk, error) {
	start, err := w.rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("failed to get the %s list position: %w", id[:], err)
	}

	list := &ListChunk{ID: id, Start: start, Length: length}

	if _, err := io.ReadFull(w.rs, list.Signature[:]); err != nil {
		return nil, &ChunkEOFError{ID: id, Offset: start - 8}
	}

	for {
		pos, err := w.rs.Seek(0, io.SeekCurrent)
		if err != nil {
			return list, fmt.Errorf("failed to get the %s list position: %w", id[:], err)
		}

		// a trailing pad byte or runt can't hold another chunk header
		if pos-start+8 >= length {
			break
		}

		child, err := w.parseChunk()
		if child != nil {
			list.Children = append(list.Children, child)
		}

		if err != nil {
			return list, err
		}
	}

	_, err = w.rs.Seek(start+length+length%2, io.SeekStart)
	if err != nil {
		return list, fmt.Errorf("failed to skip the %s list: %w", id[:], err)
	}

	return list, nil
}
