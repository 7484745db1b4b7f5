package ast

// SimpleType names a class or interface; Name may be dotted ("java.util.List").
type SimpleType struct {
	Location
	Name string
}

// PrimitiveType holds the keyword, including "void".
type PrimitiveType struct {
	Location
	Code string
}

type ParameterizedType struct {
	Location
	Base      Type
	Arguments []Type
}

type ArrayType struct {
	Location
	Element    Type
	Dimensions int
}

type UnionType struct {
	Location
	Alternatives []Type
}

// WildcardType is `?`, `? extends Bound` or `? super Bound`.
type WildcardType struct {
	Location
	Bound Type
	Upper bool
}

func (*SimpleType) Kind() Kind        { return KindSimpleType }
func (*PrimitiveType) Kind() Kind     { return KindPrimitiveType }
func (*ParameterizedType) Kind() Kind { return KindParameterizedType }
func (*ArrayType) Kind() Kind         { return KindArrayType }
func (*UnionType) Kind() Kind         { return KindUnionType }
func (*WildcardType) Kind() Kind      { return KindWildcardType }

func (*SimpleType) typeNode()        {}
func (*PrimitiveType) typeNode()     {}
func (*ParameterizedType) typeNode() {}
func (*ArrayType) typeNode()         {}
func (*UnionType) typeNode()         {}
func (*WildcardType) typeNode()      {}
