// Package wavinfo probes WAVE sound files for their format and embedded
// metadata without decoding audio.
//
// RIFF, RF64 and BW64 containers are supported. Besides the fmt and data
// chunks, the package reads Broadcast-WAV bext (with UMID and loudness),
// LIST/INFO, iXML, ADM (axml and chna), cue points with their adtl labels,
// smpl loops, Dolby dbmd segments and AES46 cart chunks:
//
//	r, err := wavinfo.Open("take.wav", wavinfo.WithInfoEncoding(unicode.UTF8))
//	if err != nil {
//		return err
//	}
//
//	for _, f := range r.Walk() {
//		fmt.Println(f.Scope, f.Name, f.Value)
//	}
//
// Chunks the package doesn't know can be decoded by registering a
// ChunkHandler with WithChunkHandler.
package wavinfo
