package wavinfo

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/go-audio/riff"
)

// ChunkHandler is a typed handler for RIFF/WAV chunks.
type ChunkHandler interface {
	CanHandle(chunkID [4]byte, listType [4]byte) bool
	Decode(r *Reader, ch *riff.Chunk) error
}

// ChunkRegistry resolves chunks to handlers.
type ChunkRegistry struct {
	handlers []ChunkHandler
}

func newDefaultChunkRegistry() *ChunkRegistry {
	return &ChunkRegistry{
		handlers: []ChunkHandler{
			&factChunkHandler{},
			chunkIDHandler{id: CIDList, decode: DecodeListChunk},
			chunkIDHandler{id: CIDCue, decode: DecodeCueChunk},
			chunkIDHandler{id: CIDSmpl, decode: DecodeSamplerChunk},
			chunkIDHandler{id: CIDBext, decode: DecodeBroadcastChunk},
			chunkIDHandler{id: CIDCart, decode: DecodeCartChunk},
			chunkIDHandler{id: CIDIXML, decode: DecodeIXMLChunk},
			chunkIDHandler{id: CIDAXML, decode: DecodeAXMLChunk},
			chunkIDHandler{id: CIDChna, decode: DecodeChnaChunk},
			chunkIDHandler{id: CIDDbmd, decode: DecodeDolbyChunk},
		},
	}
}

// Register appends a handler to the registry.
func (r *ChunkRegistry) Register(handler ChunkHandler) {
	if r == nil || handler == nil {
		return
	}

	r.handlers = append(r.handlers, handler)
}

// Prepend adds a handler ahead of the registered ones.
func (r *ChunkRegistry) Prepend(handler ChunkHandler) {
	if r == nil || handler == nil {
		return
	}

	r.handlers = append([]ChunkHandler{handler}, r.handlers...)
}

// Decode dispatches a chunk to the first matching handler.
func (r *ChunkRegistry) Decode(rd *Reader, chnk *riff.Chunk) (bool, error) {
	if r == nil || chnk == nil {
		return false, nil
	}

	listType, err := sniffListType(chnk)
	if err != nil {
		return false, err
	}

	for _, handler := range r.handlers {
		if handler.CanHandle(chnk.ID, listType) {
			err := handler.Decode(rd, chnk)
			if err != nil {
				return true, fmt.Errorf("%s chunk handler decode failed: %w", chnk.ID[:], err)
			}

			return true, nil
		}
	}

	return false, nil
}

func sniffListType(chnk *riff.Chunk) ([4]byte, error) {
	var listType [4]byte

	if chnk == nil || chnk.ID != CIDList || chnk.Size < 4 {
		return listType, nil
	}

	var head [4]byte

	n, err := io.ReadFull(chnk.R, head[:])
	if err != nil {
		return listType, fmt.Errorf("failed to read LIST type: %w", err)
	}

	copy(listType[:], head[:])

	remaining := io.LimitReader(chnk.R, int64(chnk.Size-n))
	chnk.R = io.MultiReader(bytes.NewReader(head[:]), remaining)

	return listType, nil
}

// chunkIDHandler dispatches every chunk with a given ID to decode.
type chunkIDHandler struct {
	id     [4]byte
	decode func(*Reader, *riff.Chunk) error
}

func (h chunkIDHandler) CanHandle(chunkID [4]byte, _ [4]byte) bool {
	return chunkID == h.id
}

func (h chunkIDHandler) Decode(r *Reader, ch *riff.Chunk) error {
	return h.decode(r, ch)
}

type factChunkHandler struct{}

func (h *factChunkHandler) CanHandle(chunkID [4]byte, _ [4]byte) bool {
	return chunkID == CIDFact
}

func (h *factChunkHandler) Decode(r *Reader, chunk *riff.Chunk) error {
	if r == nil || chunk == nil {
		return nil
	}

	var sampleCount uint32

	err := binary.Read(chunk, binary.LittleEndian, &sampleCount)
	if err == nil {
		r.factSamples = &sampleCount
	}

	chunk.Drain()

	return nil
}
