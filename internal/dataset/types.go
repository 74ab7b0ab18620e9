package dataset

// Kind distinguishes a single value per row from an ordered list per row.
type Kind int

const (
	KindScalar Kind = iota
	KindSequence
)

// Common scalar dtype tags. Loaders map their native types onto these.
const (
	DtypeString  = "string"
	DtypeBinary  = "binary"
	DtypeBool    = "bool"
	DtypeInt16   = "int16"
	DtypeInt32   = "int32"
	DtypeInt64   = "int64"
	DtypeFloat32 = "float32"
	DtypeFloat64 = "float64"
	DtypeNull    = "null"
)

// TypeDescriptor describes the value shape of a column: either a scalar dtype
// tag or a sequence wrapping an inner descriptor.
type TypeDescriptor struct {
	Kind  Kind
	Dtype string          // set when Kind == KindScalar
	Elem  *TypeDescriptor // set when Kind == KindSequence
}

// Scalar returns a scalar descriptor for dtype.
func Scalar(dtype string) TypeDescriptor {
	return TypeDescriptor{Kind: KindScalar, Dtype: dtype}
}

// Sequence returns a descriptor for an ordered list of elem values.
func Sequence(elem TypeDescriptor) TypeDescriptor {
	return TypeDescriptor{Kind: KindSequence, Elem: &elem}
}

// IsSequence reports whether t is a sequence type.
func (t TypeDescriptor) IsSequence() bool {
	return t.Kind == KindSequence
}

// Equal reports whether t and o describe the same shape, comparing sequence
// element types recursively.
func (t TypeDescriptor) Equal(o TypeDescriptor) bool {
	if t.Kind != o.Kind {
		return false
	}
	if t.Kind == KindScalar {
		return t.Dtype == o.Dtype
	}
	if t.Elem == nil || o.Elem == nil {
		return t.Elem == o.Elem
	}
	return t.Elem.Equal(*o.Elem)
}

func (t TypeDescriptor) String() string {
	if t.Kind == KindSequence {
		if t.Elem == nil {
			return "sequence<?>"
		}
		return "sequence<" + t.Elem.String() + ">"
	}
	if t.Dtype == "" {
		return "?"
	}
	return t.Dtype
}
