package types

// Type is the representation behind a type name: what the code generator
// needs to map a language type onto its target.
type Type interface {
	Type() string
	SameAs(t Type) bool
}

// Name returns t.Type(), or "<nil>" for a nil type.
func Name(t Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.Type()
}
