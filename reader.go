package wavinfo

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/riff"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

var (
	// CIDList is the chunk ID for a LIST chunk.
	CIDList = [4]byte{'L', 'I', 'S', 'T'}
	// CIDInfo is the list type of an INFO list.
	CIDInfo = [4]byte{'I', 'N', 'F', 'O'}
	// CIDAdtl is the list type of an associated data list.
	CIDAdtl = [4]byte{'a', 'd', 't', 'l'}
	// CIDSmpl is the chunk ID for a smpl chunk.
	CIDSmpl = [4]byte{'s', 'm', 'p', 'l'}
	// CIDCue is the chunk ID for the cue chunk.
	CIDCue = [4]byte{'c', 'u', 'e', 0x20}
	// CIDFact is the chunk ID for the fact chunk.
	CIDFact = [4]byte{'f', 'a', 'c', 't'}
	// CIDBext is the chunk ID for the broadcast extension chunk.
	CIDBext = [4]byte{'b', 'e', 'x', 't'}
	// CIDCart is the chunk ID for the cart chunk.
	CIDCart = [4]byte{'c', 'a', 'r', 't'}
	// CIDIXML is the chunk ID for the iXML chunk.
	CIDIXML = [4]byte{'i', 'X', 'M', 'L'}
	// CIDAXML is the chunk ID for the ADM axml chunk.
	CIDAXML = [4]byte{'a', 'x', 'm', 'l'}
	// CIDChna is the chunk ID for the ADM chna chunk.
	CIDChna = [4]byte{'c', 'h', 'n', 'a'}
	// CIDDbmd is the chunk ID for the Dolby metadata chunk.
	CIDDbmd = [4]byte{'d', 'b', 'm', 'd'}
	// CIDLabl, CIDNote and CIDLtxt are the adtl sub chunk IDs.
	CIDLabl = [4]byte{'l', 'a', 'b', 'l'}
	CIDNote = [4]byte{'n', 'o', 't', 'e'}
	CIDLtxt = [4]byte{'l', 't', 'x', 't'}
)

// Reader holds the format and metadata of a probed WAVE file. Metadata absent
// from the file leaves the matching field nil.
type Reader struct {
	// Path is the file name given to Open.
	Path string
	// Main is the top level chunk tree.
	Main *ListChunk

	Fmt   *FmtChunk
	Data  *DataDescriptor
	Bext  *BroadcastExtension
	IXML  *IXML
	Info  *InfoList
	ADM   *ADM
	Cues  *Cues
	Smpl  *Sampler
	Dolby *DolbyMetadata
	Cart  *Cart

	rs           io.ReadSeeker
	chunks       *ChunkRegistry
	infoEncoding encoding.Encoding
	bextEncoding encoding.Encoding
	logger       *zap.Logger
	rf64         *rf64Context
	factSamples  *uint32
	axml         []byte
	chna         []ChannelEntry
}

// DataDescriptor describes the audio payload of the data chunk.
type DataDescriptor struct {
	ByteCount  uint64 `json:"byte_count"`
	FrameCount uint64 `json:"frame_count"`
	// SampleCount is taken from ds64 or fact, 0 when neither is present.
	SampleCount uint64 `json:"sample_count,omitempty"`
}

// Option configures a Reader.
type Option func(*Reader)

// WithInfoEncoding sets the encoding of INFO and adtl texts. The default is
// ISO-8859-1.
func WithInfoEncoding(enc encoding.Encoding) Option {
	return func(r *Reader) {
		if enc != nil {
			r.infoEncoding = enc
		}
	}
}

// WithBextEncoding sets the encoding of bext texts. The default is
// ISO-8859-1.
func WithBextEncoding(enc encoding.Encoding) Option {
	return func(r *Reader) {
		if enc != nil {
			r.bextEncoding = enc
		}
	}
}

// WithLogger sets the logger used for recoverable problems.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Reader) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithChunkHandler registers a handler that takes precedence over the
// default ones.
func WithChunkHandler(handler ChunkHandler) Option {
	return func(r *Reader) {
		r.chunks.Prepend(handler)
	}
}

// Open probes the WAVE file at path.
func Open(path string, opts ...Option) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r, err := NewReader(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	r.Path = path

	return r, nil
}

// NewReader probes the WAVE stream rs. Everything is read before returning,
// rs isn't retained past the call.
func NewReader(rs io.ReadSeeker, opts ...Option) (*Reader, error) {
	r := &Reader{
		rs:           rs,
		chunks:       newDefaultChunkRegistry(),
		infoEncoding: charmap.ISO8859_1,
		bextEncoding: charmap.ISO8859_1,
		logger:       zap.NewNop(),
	}

	for _, opt := range opts {
		opt(r)
	}

	if err := r.readHeaders(); err != nil {
		return nil, err
	}

	if err := r.readChunks(); err != nil {
		return nil, err
	}

	r.finish()
	r.rs = nil

	return r, nil
}

func (r *Reader) readHeaders() error {
	if _, err := r.rs.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek to the start: %w", err)
	}

	var header [12]byte
	if _, err := io.ReadFull(r.rs, header[:]); err != nil {
		return fmt.Errorf("failed to read the file header: %w", ErrNotWave)
	}

	var id, form [4]byte
	copy(id[:], header[0:4])
	copy(form[:], header[8:12])

	switch id {
	case riff.RiffID, CIDRF64, CIDBW64:
	default:
		return fmt.Errorf("%q - %w", id[:], ErrNotWave)
	}

	if form != riff.WavFormatID {
		return fmt.Errorf("%s form %q - %w", id[:], form[:], ErrNotWave)
	}

	if _, err := r.rs.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek to the start: %w", err)
	}

	root, rf64, err := parseChunkTree(r.rs)
	if main, ok := root.(*ListChunk); ok {
		r.Main = main
	}

	r.rf64 = rf64

	if err != nil {
		var eofErr *ChunkEOFError
		if r.Main == nil || !errors.As(err, &eofErr) || !r.hasMandatoryChunks() {
			return fmt.Errorf("failed to read the chunk tree: %w", err)
		}

		r.logger.Warn("ignoring truncated trailing chunk",
			zapChunkID("id", eofErr.ID), zap.Int64("offset", eofErr.Offset))
	}

	if r.Main == nil {
		return ErrNotWave
	}

	if r.Main.Find(riff.FmtID) == nil {
		return ErrFmtChunkNotFound
	}

	if r.Main.Find(riff.DataFormatID) == nil {
		return ErrDataChunkNotFound
	}

	return nil
}

func (r *Reader) hasMandatoryChunks() bool {
	return r.Main.Find(riff.FmtID) != nil && r.Main.Find(riff.DataFormatID) != nil
}

// readChunks decodes fmt and data, then hands every other top level chunk to
// the registry in file order.
func (r *Reader) readChunks() error {
	fmtChunk, err := r.riffChunk(r.Main.Find(riff.FmtID))
	if err != nil {
		return err
	}

	r.Fmt, err = decodeFmtChunk(fmtChunk)
	if err != nil {
		return fmt.Errorf("failed to decode fmt chunk: %w", err)
	}

	data := r.Main.Find(riff.DataFormatID)
	r.Data = &DataDescriptor{ByteCount: uint64(data.Length)}

	for _, child := range r.Main.Children {
		switch child.ChunkID() {
		case riff.FmtID, riff.DataFormatID, CIDDS64:
			continue
		}

		chunk, err := r.riffChunk(child)
		if err != nil {
			return err
		}

		handled, err := r.chunks.Decode(r, chunk)
		if err != nil {
			return err
		}

		if !handled {
			r.logger.Debug("skipping chunk", zapChunkID("id", chunk.ID), zap.Int("size", chunk.Size))
		}
	}

	return nil
}

// riffChunk loads c into memory as a riff.Chunk.
func (r *Reader) riffChunk(c Chunk) (*riff.Chunk, error) {
	data, err := c.ReadData(r.rs)
	if err != nil {
		return nil, err
	}

	return &riff.Chunk{
		ID:   c.ChunkID(),
		Size: len(data),
		R:    bytes.NewReader(data),
	}, nil
}

func (r *Reader) finish() {
	if r.Fmt.BlockAlign > 0 {
		r.Data.FrameCount = r.Data.ByteCount / uint64(r.Fmt.BlockAlign)
	}

	switch {
	case r.rf64 != nil && r.rf64.sampleCount > 0:
		r.Data.SampleCount = r.rf64.sampleCount
	case r.factSamples != nil:
		r.Data.SampleCount = uint64(*r.factSamples)
	}

	r.finishADM()
}

// Format returns the channel count and sample rate of the file.
func (r *Reader) Format() *audio.Format {
	if r == nil || r.Fmt == nil {
		return nil
	}

	return &audio.Format{
		NumChannels: int(r.Fmt.NumChannels),
		SampleRate:  int(r.Fmt.SampleRate),
	}
}

// Duration returns the length of the audio, or 0 when the sample rate is
// unknown.
func (r *Reader) Duration() time.Duration {
	if r == nil || r.Fmt == nil || r.Data == nil || r.Fmt.SampleRate == 0 {
		return 0
	}

	// split to avoid overflowing time.Duration on long RF64 files
	rate := uint64(r.Fmt.SampleRate)
	secs := r.Data.FrameCount / rate
	rem := r.Data.FrameCount % rate

	return time.Duration(secs)*time.Second + time.Duration(rem)*time.Second/time.Duration(rate)
}

func zapChunkID(key string, id [4]byte) zap.Field {
	return zap.ByteString(key, id[:])
}
