package wavinfo

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/riff"
	"golang.org/x/text/encoding"
)

// Version is the release version of the wavinfo package.
const Version = "0.1"

var (
	// ErrNotWave is returned when the container isn't a RIFF, RF64 or BW64
	// file of form type WAVE.
	ErrNotWave = fmt.Errorf("not a WAVE file: %w", riff.ErrFmtNotSupported)
	// ErrFmtChunkNotFound indicates a file without a fmt chunk.
	ErrFmtChunkNotFound = errors.New("fmt chunk not found")
	// ErrDataChunkNotFound indicates a file without a data chunk.
	ErrDataChunkNotFound = errors.New("data chunk not found")
	// ErrRF64SizeOutsideContext is returned when a chunk carries the 64-bit
	// size sentinel but no ds64 entry can resolve it.
	ErrRF64SizeOutsideContext = errors.New("sentinel chunk size found outside of RF64 context")

	errNilChunk  = errors.New("can't decode a nil chunk")
	errNilReader = errors.New("nil reader")
)

// ChunkEOFError reports a chunk header cut short by the end of the file.
type ChunkEOFError struct {
	ID     [4]byte
	Offset int64
}

func (e *ChunkEOFError) Error() string {
	return fmt.Sprintf("unexpected end of file in chunk header %q at offset %d", e.ID[:], e.Offset)
}

func (e *ChunkEOFError) Unwrap() error {
	return io.ErrUnexpectedEOF
}

func nullTermBytes(b []byte) []byte {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return b[:i]
	}

	return b
}

func nullTermStr(b []byte) string {
	return string(nullTermBytes(b))
}

// decodeText cuts b at the first NUL and decodes it with enc. Bytes the
// encoding can't map are replaced rather than failing the whole chunk.
func decodeText(b []byte, enc encoding.Encoding) string {
	b = nullTermBytes(b)
	if enc == nil {
		return string(b)
	}

	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return string(bytes.ToValidUTF8(b, []byte("�")))
	}

	return string(out)
}

// chunkBytes reads the remaining payload of ch into memory.
func chunkBytes(ch *riff.Chunk) ([]byte, error) {
	if ch == nil {
		return nil, errNilChunk
	}

	buf := make([]byte, max(ch.Size-ch.Pos, 0))

	n, err := io.ReadFull(ch, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("failed to read the %s chunk - %w", ch.ID[:], err)
	}

	return buf[:n], nil
}
