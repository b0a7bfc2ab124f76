package types

type StringType struct{}

func (*StringType) Type() string {
	return "str"
}

func (*StringType) SameAs(t Type) bool {
	_, ok := t.(*StringType)
	return ok
}
