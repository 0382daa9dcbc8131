package wavinfo

// Field is one metadatum found by Walk.
type Field struct {
	Scope string
	Name  string
	Value any
}

// Metadata scopes, in the order Walk visits them.
const (
	ScopeFmt   = "fmt"
	ScopeData  = "data"
	ScopeBext  = "bext"
	ScopeIXML  = "ixml"
	ScopeInfo  = "info"
	ScopeADM   = "adm"
	ScopeCues  = "cues"
	ScopeSmpl  = "smpl"
	ScopeDolby = "dolby"
	ScopeCart  = "cart"
)

type fieldWalker interface {
	walkFields() []Field
}

// Walk returns every metadatum of the file. Scopes absent from the file are
// skipped.
func (r *Reader) Walk() []Field {
	if r == nil {
		return nil
	}

	scopes := []struct {
		name   string
		walker fieldWalker
		ok     bool
	}{
		{ScopeFmt, r.Fmt, r.Fmt != nil},
		{ScopeData, r.Data, r.Data != nil},
		{ScopeBext, r.Bext, r.Bext != nil},
		{ScopeIXML, r.IXML, r.IXML != nil},
		{ScopeInfo, r.Info, r.Info != nil},
		{ScopeADM, r.ADM, r.ADM != nil},
		{ScopeCues, r.Cues, r.Cues != nil},
		{ScopeSmpl, r.Smpl, r.Smpl != nil},
		{ScopeDolby, r.Dolby, r.Dolby != nil},
		{ScopeCart, r.Cart, r.Cart != nil},
	}

	var out []Field

	for _, s := range scopes {
		if !s.ok {
			continue
		}

		for _, f := range s.walker.walkFields() {
			f.Scope = s.name
			out = append(out, f)
		}
	}

	return out
}

// Scopes groups the fields of Walk by scope.
func (r *Reader) Scopes() map[string]map[string]any {
	out := make(map[string]map[string]any)

	for _, f := range r.Walk() {
		scope, ok := out[f.Scope]
		if !ok {
			scope = make(map[string]any)
			out[f.Scope] = scope
		}

		scope[f.Name] = f.Value
	}

	return out
}

func (d *DataDescriptor) walkFields() []Field {
	fields := []Field{
		{Name: "byte_count", Value: d.ByteCount},
		{Name: "frame_count", Value: d.FrameCount},
	}

	if d.SampleCount > 0 {
		fields = append(fields, Field{Name: "sample_count", Value: d.SampleCount})
	}

	return fields
}
