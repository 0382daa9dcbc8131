package wavinfo

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

type testChunk struct {
	id   string
	data []byte
}

type chunkInventoryEntry struct {
	id   string
	size uint32
}

var (
	errFileTooSmall         = errors.New("file too small")
	errInvalidRiffWaveHdr   = errors.New("invalid riff/wave header")
	errChunkExceedsFileSize = errors.New("chunk exceeds file size")
)

func le16(v uint16) []byte { return binary.LittleEndian.AppendUint16(nil, v) }
func le32(v uint32) []byte { return binary.LittleEndian.AppendUint32(nil, v) }
func le64(v uint64) []byte { return binary.LittleEndian.AppendUint64(nil, v) }

func concat(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

// fixed returns s NUL padded to n bytes.
func fixed(s string, n int) []byte {
	out := make([]byte, n)
	copy(out, s)

	return out
}

func encodeChunk(c testChunk) []byte {
	out := concat([]byte(c.id), le32(uint32(len(c.data))), c.data)
	if len(c.data)%2 == 1 {
		out = append(out, 0)
	}

	return out
}

func listChunk(listType string, children ...testChunk) testChunk {
	body := []byte(listType)
	for _, c := range children {
		body = append(body, encodeChunk(c)...)
	}

	return testChunk{id: "LIST", data: body}
}

func fmtChunkPCM(channels uint16, sampleRate uint32, bits uint16) testChunk {
	blockAlign := channels * bits / 8

	return testChunk{id: "fmt ", data: concat(
		le16(FormatPCM), le16(channels), le32(sampleRate),
		le32(sampleRate*uint32(blockAlign)), le16(blockAlign), le16(bits),
	)}
}

func dataChunk(n int) testChunk {
	return testChunk{id: "data", data: make([]byte, n)}
}

// buildWave assembles a RIFF/WAVE file from chunks.
func buildWave(chunks ...testChunk) []byte {
	body := []byte("WAVE")
	for _, c := range chunks {
		body = append(body, encodeChunk(c)...)
	}

	return concat([]byte("RIFF"), le32(uint32(len(body))), body)
}

// buildRF64 assembles an RF64 or BW64 file whose container and data sizes
// are only given by the ds64 chunk.
func buildRF64(container string, sampleCount uint64, chunks ...testChunk) []byte {
	var rest []byte

	var dataSize uint64

	for _, c := range chunks {
		enc := encodeChunk(c)
		if c.id == "data" {
			dataSize = uint64(len(c.data))
			binary.LittleEndian.PutUint32(enc[4:8], rf64SizeSentinel)
		}

		rest = append(rest, enc...)
	}

	ds64 := testChunk{id: "ds64", data: concat(le64(0), le64(dataSize), le64(sampleCount), le32(0))}
	body := concat([]byte("WAVE"), encodeChunk(ds64), rest)
	binary.LittleEndian.PutUint64(body[12:20], uint64(len(body)))

	return concat([]byte(container), le32(rf64SizeSentinel), body)
}

func writeTestWave(t *testing.T, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.wav")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write test wave: %v", err)
	}

	return path
}

func parseWavChunks(data []byte) ([]testChunk, error) {
	if len(data) < 12 {
		return nil, errFileTooSmall
	}

	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, errInvalidRiffWaveHdr
	}

	chunks := make([]testChunk, 0)

	offset := 12
	for offset+8 <= len(data) {
		id := string(data[offset : offset+4])
		size := binary.LittleEndian.Uint32(data[offset+4 : offset+8])
		offset += 8

		end := offset + int(size)
		if end > len(data) {
			return nil, fmt.Errorf("%w: %q", errChunkExceedsFileSize, id)
		}

		payload := append([]byte(nil), data[offset:end]...)
		chunks = append(chunks, testChunk{id: id, data: payload})

		offset = end
		if size%2 == 1 {
			offset++
		}
	}

	return chunks, nil
}

func buildChunkInventory(chunks []testChunk) []chunkInventoryEntry {
	out := make([]chunkInventoryEntry, 0, len(chunks))
	for _, ch := range chunks {
		out = append(out, chunkInventoryEntry{id: ch.id, size: uint32(len(ch.data))})
	}

	return out
}
