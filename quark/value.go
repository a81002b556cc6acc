package quark

import (
	"strconv"
)

// Value is a runtime value produced by the interpreter.
type Value struct {
	typ  Type
	num  float64
	text string
	flag bool
}

func NewNumberValue(v float64) Value { return Value{typ: TypeNumber, num: v} }
func NewTextValue(v string) Value   { return Value{typ: TypeText, text: v} }
func NewBoolValue(v bool) Value     { return Value{typ: TypeBool, flag: v} }

func (v Value) Type() Type      { return v.typ }
func (v Value) Number() float64 { return v.num }
func (v Value) Text() string    { return v.text }
func (v Value) Bool() bool      { return v.flag }

// IsZero reports whether v holds no value at all.
func (v Value) IsZero() bool { return v.typ == TypeUnknown }

func (v Value) String() string {
	switch v.typ {
	case TypeNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case TypeText:
		return v.text
	case TypeBool:
		return strconv.FormatBool(v.flag)
	default:
		return "<none>"
	}
}

func (v Value) Equal(other Value) bool {
	if v.typ != other.typ {
		return false
	}
	switch v.typ {
	case TypeNumber:
		return v.num == other.num
	case TypeText:
		return v.text == other.text
	case TypeBool:
		return v.flag == other.flag
	default:
		return true
	}
}
