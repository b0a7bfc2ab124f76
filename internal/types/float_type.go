package types

import "fmt"

type FloatType struct {
	Bits int
}

func (f *FloatType) Type() string {
	return fmt.Sprintf("f%d", f.Bits)
}

func (f *FloatType) SameAs(t Type) bool {
	if floatType, ok := t.(*FloatType); ok {
		return f.Bits == floatType.Bits
	}

	return false
}
