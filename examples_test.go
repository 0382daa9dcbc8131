package wavinfo

import (
	"bytes"
	"fmt"
	"log"
)

func exampleFile() []byte {
	return buildWave(
		fmtChunkPCM(2, 48000, 24),
		infoList(map[string]string{"INAM": "Interview", "IART": "Field Unit"}),
		dataChunk(288000),
	)
}

func ExampleNewReader() {
	r, err := NewReader(bytes.NewReader(exampleFile()))
	if err != nil {
		log.Fatal(err)
	}

	format := r.Format()
	fmt.Printf("%d channels at %d Hz, %s\n", format.NumChannels, format.SampleRate, r.Duration())
	// Output: 2 channels at 48000 Hz, 1s
}

func ExampleReader_Walk() {
	r, err := NewReader(bytes.NewReader(exampleFile()))
	if err != nil {
		log.Fatal(err)
	}

	for _, f := range r.Walk() {
		if f.Scope == ScopeInfo {
			fmt.Printf("%s.%s = %v\n", f.Scope, f.Name, f.Value)
		}
	}
	// Output:
	// info.artist = Field Unit
	// info.title = Interview
}
