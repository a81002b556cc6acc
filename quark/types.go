package quark

// Type is a primitive type of the language.
type Type int

const (
	TypeUnknown Type = iota
	TypeNumber
	TypeText
	TypeBool
)

func (t Type) String() string {
	switch t {
	case TypeNumber:
		return "number"
	case TypeText:
		return "text"
	case TypeBool:
		return "bool"
	default:
		return "unknown"
	}
}

// canonicalTypes reduces declaration keywords to the primitive they store.
var canonicalTypes = map[string]Type{
	"number": TypeNumber,
	"text":   TypeText,
	"bool":   TypeBool,
	"char":   TypeText,
}

// TypeFromKeyword maps a type keyword to its primitive type.
func TypeFromKeyword(keyword string) (Type, bool) {
	t, ok := canonicalTypes[keyword]
	return t, ok
}

// MarshalText lets dumps render types by name.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}
