package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/cwbudde/wavinfo"
	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

// now is replaced in tests.
var now = time.Now

type report struct {
	Filename    string    `json:"filename"`
	RunDate     string    `json:"run_date"`
	Application string    `json:"application"`
	Scopes      scopeList `json:"scopes"`
}

func newReport(r *wavinfo.Reader) report {
	return report{
		Filename:    r.Path,
		RunDate:     now().Format(time.RFC3339),
		Application: "wavinfo " + wavinfo.Version,
		Scopes:      r.Walk(),
	}
}

// scopeList renders Walk fields as an object of scopes, keeping the order
// in which Walk visits scopes and fields.
type scopeList []wavinfo.Field

func (s scopeList) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, f := range s {
		opens := i == 0 || f.Scope != s[i-1].Scope

		switch {
		case i > 0 && opens:
			buf.WriteString("},")
		case i > 0:
			buf.WriteByte(',')
		}

		if opens {
			if err := writeJSONKey(&buf, f.Scope); err != nil {
				return nil, err
			}

			buf.WriteByte('{')
		}

		if err := writeJSONKey(&buf, f.Name); err != nil {
			return nil, err
		}

		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", f.Scope, f.Name, err)
		}

		buf.Write(value)
	}

	if len(s) > 0 {
		buf.WriteByte('}')
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

func writeJSONKey(buf *bytes.Buffer, key string) error {
	raw, err := json.Marshal(key)
	if err != nil {
		return err
	}

	buf.Write(raw)
	buf.WriteByte(':')

	return nil
}

func writeJSON(out io.Writer, rep report) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	return enc.Encode(rep)
}

// writeYAML renders the JSON document as YAML so both formats share the
// json field names, enum renderings and key order.
func writeYAML(out io.Writer, rep report) error {
	raw, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	doc, err := yamlNode(dec)
	if err != nil {
		return fmt.Errorf("failed to decode report: %w", err)
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)

	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to write YAML: %w", err)
	}

	return enc.Close()
}

// yamlNode converts the next JSON value of dec into a YAML node. Object keys
// keep their document order and numbers stay unquoted.
func yamlNode(dec *json.Decoder) (*yaml.Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch tok := tok.(type) {
	case json.Delim:
		node := &yaml.Node{Kind: yaml.SequenceNode}
		if tok == '{' {
			node.Kind = yaml.MappingNode
		}

		for dec.More() {
			if node.Kind == yaml.MappingNode {
				key, err := dec.Token()
				if err != nil {
					return nil, err
				}

				node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: fmt.Sprint(key)})
			}

			child, err := yamlNode(dec)
			if err != nil {
				return nil, err
			}

			node.Content = append(node.Content, child)
		}

		// closing delimiter
		if _, err := dec.Token(); err != nil {
			return nil, err
		}

		return node, nil
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: tok}, nil
	case json.Number:
		return &yaml.Node{Kind: yaml.ScalarNode, Value: tok.String()}, nil
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(tok)}, nil
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	}
}

func writeText(out io.Writer, r *wavinfo.Reader) error {
	w := &textWriter{out: out}

	w.printf("%s\n", r.Path)
	w.printf("  format:      %s, %d ch, %s Hz, %d bit\n",
		wavinfo.FormatTagName(r.Fmt.EffectiveFormatTag()), r.Fmt.NumChannels,
		humanize.Comma(int64(r.Fmt.SampleRate)), r.Fmt.BitsPerSample)
	w.printf("  data:        %s, %s frames\n",
		humanize.Bytes(r.Data.ByteCount), humanize.Comma(int64(r.Data.FrameCount)))
	w.printf("  duration:    %s\n", r.Duration())

	if r.Bext != nil {
		w.printf("  description: %s\n", r.Bext.Description)
		w.printf("  originator:  %s\n", r.Bext.Originator)
	}

	if r.IXML != nil {
		w.printf("  scene/take:  %s/%s\n", r.IXML.Scene(), r.IXML.Take())
	}

	if r.Info != nil && r.Info.Title != "" {
		w.printf("  title:       %s\n", r.Info.Title)
	}

	if r.Cues != nil {
		w.printf("  cues:        %d\n", len(r.Cues.EachCue()))
	}

	if r.ADM != nil {
		w.printf("  adm tracks:  %d\n", len(r.ADM.Channels))
	}

	return w.err
}

// textWriter keeps the first write error.
type textWriter struct {
	out io.Writer
	err error
}

func (w *textWriter) printf(format string, args ...any) {
	if w.err != nil {
		return
	}

	_, w.err = fmt.Fprintf(w.out, format, args...)
}
