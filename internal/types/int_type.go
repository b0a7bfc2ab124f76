package types

import "fmt"

type IntType struct {
	Signed bool
	Bits   int
}

func (i *IntType) Type() string {
	if i.Signed {
		return fmt.Sprintf("i%d", i.Bits)
	}
	return fmt.Sprintf("u%d", i.Bits)
}

func (i *IntType) SameAs(t Type) bool {
	if intType, ok := t.(*IntType); ok {
		return i.Signed == intType.Signed && i.Bits == intType.Bits
	}

	return false
}
