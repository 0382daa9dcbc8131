package wavinfo

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseChunkTreeLayout(t *testing.T) {
	data := buildWave(
		fmtChunkPCM(1, 48000, 16),
		testChunk{id: "odd ", data: []byte{1, 2, 3}},
		listChunk("INFO", testChunk{id: "INAM", data: []byte("title\x00")}),
		dataChunk(10),
	)

	root, rf64, err := parseChunkTree(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("parse chunk tree: %v", err)
	}

	if rf64 != nil {
		t.Fatal("a plain RIFF file shouldn't carry an RF64 context")
	}

	main, ok := root.(*ListChunk)
	if !ok {
		t.Fatalf("root is %T, want *ListChunk", root)
	}

	var ids []string
	for _, c := range main.Children {
		id := c.ChunkID()
		ids = append(ids, string(id[:]))
	}

	if diff := cmp.Diff([]string{"fmt ", "odd ", "LIST", "data"}, ids); diff != "" {
		t.Fatalf("children mismatch (-want +got):\n%s", diff)
	}

	// the pad byte after the odd chunk must be skipped
	odd := main.Find([4]byte{'o', 'd', 'd', ' '})
	if odd == nil || odd.Length != 3 {
		t.Fatalf("unexpected odd chunk: %+v", odd)
	}

	payload, err := odd.ReadData(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("read odd chunk: %v", err)
	}

	if !bytes.Equal(payload, []byte{1, 2, 3}) {
		t.Fatalf("unexpected odd payload: %v", payload)
	}

	info := main.FindList(CIDInfo)
	if info == nil || len(info.Children) != 1 {
		t.Fatalf("unexpected INFO list: %+v", info)
	}

	if d := main.Find(CIDList); d != nil {
		t.Fatal("Find should only return leaf chunks")
	}
}

func TestParseChunkTreeMatchesFlatInventory(t *testing.T) {
	data := buildWave(fmtChunkPCM(2, 44100, 24), testChunk{id: "junk", data: []byte{9}}, dataChunk(6))

	chunks, err := parseWavChunks(data)
	if err != nil {
		t.Fatalf("flat parse: %v", err)
	}

	root, _, err := parseChunkTree(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("parse chunk tree: %v", err)
	}

	var got []chunkInventoryEntry
	for _, c := range root.(*ListChunk).Children {
		d := c.(*ChunkDescriptor)
		got = append(got, chunkInventoryEntry{id: string(d.ID[:]), size: uint32(d.Length)})
	}

	if diff := cmp.Diff(buildChunkInventory(chunks), got, cmp.AllowUnexported(chunkInventoryEntry{})); diff != "" {
		t.Fatalf("inventory mismatch (-want +got):\n%s", diff)
	}
}

func TestParseChunkTreeFindAll(t *testing.T) {
	data := buildWave(
		fmtChunkPCM(1, 8000, 8),
		testChunk{id: "junk", data: []byte{1, 2}},
		dataChunk(2),
		testChunk{id: "junk", data: []byte{3, 4, 5, 6}},
	)

	root, _, err := parseChunkTree(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("parse chunk tree: %v", err)
	}

	junk := root.(*ListChunk).FindAll([4]byte{'j', 'u', 'n', 'k'})
	if len(junk) != 2 || junk[0].Length != 2 || junk[1].Length != 4 {
		t.Fatalf("unexpected junk chunks: %+v", junk)
	}
}

func TestParseChunkTreeSentinelOutsideRF64(t *testing.T) {
	data := buildWave(fmtChunkPCM(1, 8000, 8), dataChunk(2))
	// turn the data size into the RF64 sentinel
	copy(data[len(data)-6:len(data)-2], le32(rf64SizeSentinel))

	_, _, err := parseChunkTree(bytes.NewReader(data))
	if !errors.Is(err, ErrRF64SizeOutsideContext) {
		t.Fatalf("expected ErrRF64SizeOutsideContext, got %v", err)
	}
}

func TestParseChunkTreeTruncatedHeader(t *testing.T) {
	data := buildWave(fmtChunkPCM(1, 8000, 8), dataChunk(2))
	// append half a chunk header and claim room for a full one
	data = append(data, 'b', 'e', 'x', 't')
	copy(data[4:8], le32(uint32(len(data))))

	root, _, err := parseChunkTree(bytes.NewReader(data))

	var eofErr *ChunkEOFError
	if !errors.As(err, &eofErr) {
		t.Fatalf("expected a ChunkEOFError, got %v", err)
	}

	if eofErr.ID != CIDBext {
		t.Fatalf("unexpected chunk ID: %q", eofErr.ID[:])
	}

	main, ok := root.(*ListChunk)
	if !ok || len(main.Children) != 2 {
		t.Fatalf("expected the chunks before the truncation, got %+v", root)
	}
}
