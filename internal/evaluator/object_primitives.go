package evaluator

import (
	"strconv"
	"strings"
)

// None is the absence of a value. NONE is its only instance.
type None struct{}

func (n *None) Type() ObjectType { return NONE_OBJ }
func (n *None) TypeName() string { return RUNTIME_TYPE_NONE }
func (n *None) Inspect() string  { return "None" }
func (n *None) Hash() uint32     { return 0x9e3779b9 }

// Boolean
type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) TypeName() string { return RUNTIME_TYPE_BOOL }
func (b *Boolean) Inspect() string {
	if b.Value {
		return "True"
	}
	return "False"
}

// Hash matches Integer so that True and 1 select the same mapping entry.
func (b *Boolean) Hash() uint32 {
	if b.Value {
		return 1
	}
	return 0
}

// Integer
type Integer struct {
	Value int64
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) TypeName() string { return RUNTIME_TYPE_INT }
func (i *Integer) Inspect() string  { return strconv.FormatInt(i.Value, 10) }
func (i *Integer) Hash() uint32 {
	return uint32(i.Value ^ (i.Value >> 32))
}

// String is an immutable text value.
type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) TypeName() string { return RUNTIME_TYPE_STRING }
func (s *String) Inspect() string  { return quoteString(s.Value) }
func (s *String) Hash() uint32     { return hashString(s.Value) }

// quoteString renders s the way the guest language prints string literals:
// single quotes unless the text contains a single quote and no double quote.
func quoteString(s string) string {
	quote := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}

	var out strings.Builder
	out.WriteByte(quote)
	for _, r := range s {
		switch {
		case r == rune(quote) || r == '\\':
			out.WriteByte('\\')
			out.WriteRune(r)
		case r == '\n':
			out.WriteString(`\n`)
		case r == '\t':
			out.WriteString(`\t`)
		case r == '\r':
			out.WriteString(`\r`)
		case r < 0x20 || r == 0x7f:
			out.WriteString(`\x`)
			out.WriteString(strconv.FormatInt(int64(r)|0x100, 16)[1:])
		default:
			out.WriteRune(r)
		}
	}
	out.WriteByte(quote)
	return out.String()
}

var (
	NONE  = &None{}
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

func nativeBoolToBoolean(v bool) *Boolean {
	if v {
		return TRUE
	}
	return FALSE
}

// NewInt returns an Integer holding v.
func NewInt(v int64) *Integer { return &Integer{Value: v} }

// NewString returns a String holding v.
func NewString(v string) *String { return &String{Value: v} }

// NewBool returns the shared Boolean for v.
func NewBool(v bool) *Boolean { return nativeBoolToBoolean(v) }
