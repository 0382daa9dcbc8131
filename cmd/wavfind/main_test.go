package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

type chunk struct {
	id   string
	data []byte
}

func writeWave(t *testing.T, path string, extra ...chunk) {
	t.Helper()

	fmtData := make([]byte, 16)
	binary.LittleEndian.PutUint16(fmtData[0:], 1)
	binary.LittleEndian.PutUint16(fmtData[2:], 1)
	binary.LittleEndian.PutUint32(fmtData[4:], 8000)
	binary.LittleEndian.PutUint32(fmtData[8:], 8000)
	binary.LittleEndian.PutUint16(fmtData[12:], 1)
	binary.LittleEndian.PutUint16(fmtData[14:], 8)

	chunks := append([]chunk{{id: "fmt ", data: fmtData}}, extra...)
	chunks = append(chunks, chunk{id: "data", data: make([]byte, 8)})

	body := []byte("WAVE")
	for _, c := range chunks {
		body = append(body, c.id...)
		body = binary.LittleEndian.AppendUint32(body, uint32(len(c.data)))
		body = append(body, c.data...)

		if len(c.data)%2 == 1 {
			body = append(body, 0)
		}
	}

	file := append([]byte("RIFF"), binary.LittleEndian.AppendUint32(nil, uint32(len(body)))...)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if err := os.WriteFile(path, append(file, body...), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func ixmlChunk(scene, take string) chunk {
	return chunk{id: "iXML", data: []byte("<BWFXML><SCENE>" + scene + "</SCENE><TAKE>" + take + "</TAKE></BWFXML>")}
}

func bextChunk(desc string) chunk {
	data := make([]byte, 602)
	copy(data, desc)

	return chunk{id: "bext", data: data}
}

// testTree lays out a small recording folder and returns its root.
func testTree(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	writeWave(t, filepath.Join(root, "day1", "12A_T01.wav"), ixmlChunk("12A", "1"), bextChunk("sSCENE=12A"))
	writeWave(t, filepath.Join(root, "day1", "12A_T02.WAV"), ixmlChunk("12A", "2"))
	writeWave(t, filepath.Join(root, "day2", "14B_T01.wav"), ixmlChunk("14B", "1"), bextChunk("wild track"))
	writeWave(t, filepath.Join(root, "day2", "room.wav"))

	if err := os.WriteFile(filepath.Join(root, "day2", "broken.wav"), []byte("junk"), 0o644); err != nil {
		t.Fatalf("write broken file: %v", err)
	}

	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("not audio"), 0o644); err != nil {
		t.Fatalf("write notes: %v", err)
	}

	return root
}

func runFind(t *testing.T, args ...string) ([]string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), append([]string{"wavfind"}, args...), &stdout, &stderr)

	var names []string
	for _, line := range strings.Split(strings.TrimSpace(stdout.String()), "\n") {
		if line != "" {
			names = append(names, filepath.Base(line))
		}
	}

	return names, stderr.String(), err
}

func TestFindPredicates(t *testing.T) {
	root := testTree(t)

	cases := []struct {
		name string
		args []string
		want []string
	}{
		{"everything", []string{root}, []string{"12A_T01.wav", "12A_T02.WAV", "14B_T01.wav", "room.wav"}},
		{"scene", []string{"--scene", "12*", root}, []string{"12A_T01.wav", "12A_T02.WAV"}},
		{"scene and take", []string{"--scene", "12?", "--take", "2", root}, []string{"12A_T02.WAV"}},
		{"description", []string{"--desc", "*wild*", root}, []string{"14B_T01.wav"}},
		{"no match", []string{"--scene", "99*", root}, nil},
		{"alternatives", []string{"--scene", "{12A,14B}", "--take", "1", root}, []string{"12A_T01.wav", "14B_T01.wav"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, _, err := runFind(t, tc.args...)
			if err != nil {
				t.Fatalf("run failed: %v", err)
			}

			if strings.Join(got, ",") != strings.Join(tc.want, ",") {
				t.Fatalf("got %v want %v", got, tc.want)
			}
		})
	}
}

func TestFindGlobAndFileArguments(t *testing.T) {
	root := testTree(t)

	got, _, err := runFind(t, filepath.Join(root, "**", "14*.wav"), filepath.Join(root, "day1", "12A_T01.wav"))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if strings.Join(got, ",") != "14B_T01.wav,12A_T01.wav" {
		t.Fatalf("unexpected matches %v", got)
	}
}

func TestFindGlobSkipsUnreadableMatches(t *testing.T) {
	root := testTree(t)

	got, _, err := runFind(t, filepath.Join(root, "day2", "*.wav"))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	sort.Strings(got)

	if strings.Join(got, ",") != "14B_T01.wav,room.wav" {
		t.Fatalf("unexpected matches %v", got)
	}
}

func TestFindReportsExplicitFailures(t *testing.T) {
	root := testTree(t)

	got, errOut, err := runFind(t, filepath.Join(root, "day2", "broken.wav"), filepath.Join(root, "missing.wav"), filepath.Join(root, "day2", "room.wav"))
	if err == nil {
		t.Fatal("expected an error")
	}

	if !strings.Contains(err.Error(), "2 errors occurred") {
		t.Fatalf("expected aggregated errors, got %v", err)
	}

	if !strings.Contains(errOut, "broken.wav") {
		t.Fatalf("expected the broken file on stderr, got:\n%s", errOut)
	}

	if strings.Join(got, ",") != "room.wav" {
		t.Fatalf("unexpected matches %v", got)
	}
}

func TestFindWithoutArgumentsPrintsUsage(t *testing.T) {
	var stdout, stderr bytes.Buffer

	if err := run(context.Background(), []string{"wavfind"}, &stdout, &stderr); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if !strings.Contains(stdout.String(), "PATH...") {
		t.Fatalf("expected usage, got:\n%s", stdout.String())
	}
}
