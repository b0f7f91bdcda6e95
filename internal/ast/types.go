package ast

import "fmt"

type Endian int

const (
	LITTLE_ENDIAN Endian = iota
	BIG_ENDIAN
)

func (e Endian) String() string {
	switch e {
	case LITTLE_ENDIAN:
		return "le"
	case BIG_ENDIAN:
		return "be"
	}
	return "unknown"
}

// EndianPtr is a convenience for filling TypeDecl.Endian.
func EndianPtr(e Endian) *Endian { return &e }

type BuiltinKind int

const (
	INVALID_TYPE BuiltinKind = iota

	U8_TYPE   // u8
	U16_TYPE  // u16
	U32_TYPE  // u32
	U64_TYPE  // u64
	U128_TYPE // u128

	S8_TYPE   // s8
	S16_TYPE  // s16
	S32_TYPE  // s32
	S64_TYPE  // s64
	S128_TYPE // s128

	FLOAT_TYPE  // float
	DOUBLE_TYPE // double

	CHAR_TYPE   // char
	CHAR16_TYPE // char16
	BOOL_TYPE   // bool

	PADDING_TYPE // padding
)

var BUILTIN_TYPES map[string]BuiltinKind = map[string]BuiltinKind{
	"u8":      U8_TYPE,
	"u16":     U16_TYPE,
	"u32":     U32_TYPE,
	"u64":     U64_TYPE,
	"u128":    U128_TYPE,
	"s8":      S8_TYPE,
	"s16":     S16_TYPE,
	"s32":     S32_TYPE,
	"s64":     S64_TYPE,
	"s128":    S128_TYPE,
	"float":   FLOAT_TYPE,
	"double":  DOUBLE_TYPE,
	"char":    CHAR_TYPE,
	"char16":  CHAR16_TYPE,
	"bool":    BOOL_TYPE,
	"padding": PADDING_TYPE,
}

// ParseBuiltinKind maps a type keyword such as "u32" to its kind.
func ParseBuiltinKind(name string) (BuiltinKind, bool) {
	kind, ok := BUILTIN_TYPES[name]
	return kind, ok
}

func (k BuiltinKind) String() string {
	for name, kind := range BUILTIN_TYPES {
		if kind == k {
			return name
		}
	}
	return "???"
}

// Size returns the width of the type in bytes, 0 for padding and invalid.
func (k BuiltinKind) Size() int {
	switch k {
	case U8_TYPE, S8_TYPE, CHAR_TYPE, BOOL_TYPE:
		return 1
	case U16_TYPE, S16_TYPE, CHAR16_TYPE:
		return 2
	case U32_TYPE, S32_TYPE, FLOAT_TYPE:
		return 4
	case U64_TYPE, S64_TYPE, DOUBLE_TYPE:
		return 8
	case U128_TYPE, S128_TYPE:
		return 16
	}
	return 0
}

func (k BuiltinKind) IsSigned() bool {
	return k >= S8_TYPE && k <= S128_TYPE
}

type BuiltinType struct {
	Pos  Pos
	Type BuiltinKind
}

func NewBuiltinType(kind BuiltinKind, line int) *BuiltinType {
	return &BuiltinType{Pos: Pos{Line: line}, Type: kind}
}

func (b *BuiltinType) Kind() NodeKind { return KIND_BUILTIN_TYPE }
func (b *BuiltinType) Line() int      { return b.Pos.Line }
func (b *BuiltinType) astNode()       {}
func (b *BuiltinType) String() string { return b.Type.String() }

type Struct struct {
	Pos     Pos
	Members []Node
}

func NewStruct(line int, members ...Node) *Struct {
	return &Struct{Pos: Pos{Line: line}, Members: members}
}

func (s *Struct) Kind() NodeKind { return KIND_STRUCT }
func (s *Struct) Line() int      { return s.Pos.Line }
func (s *Struct) astNode()       {}
func (s *Struct) String() string { return fmt.Sprintf("STRUCT: %d members", len(s.Members)) }

// Union has the same shape as Struct; all members start at the same offset.
type Union struct {
	Pos     Pos
	Members []Node
}

func NewUnion(line int, members ...Node) *Union {
	return &Union{Pos: Pos{Line: line}, Members: members}
}

func (u *Union) Kind() NodeKind { return KIND_UNION }
func (u *Union) Line() int      { return u.Pos.Line }
func (u *Union) astNode()       {}
func (u *Union) String() string { return fmt.Sprintf("UNION: %d members", len(u.Members)) }

type EnumEntry struct {
	Name  string
	Value Node
}

type Enum struct {
	Pos            Pos
	UnderlyingType Node
	Entries        []EnumEntry
}

func NewEnum(underlying Node, line int, entries ...EnumEntry) *Enum {
	return &Enum{Pos: Pos{Line: line}, UnderlyingType: underlying, Entries: entries}
}

func (e *Enum) Kind() NodeKind { return KIND_ENUM }
func (e *Enum) Line() int      { return e.Pos.Line }
func (e *Enum) astNode()       {}
func (e *Enum) String() string { return fmt.Sprintf("ENUM: %d entries", len(e.Entries)) }

// BitfieldEntry is a named run of bits; Size evaluates to its width.
type BitfieldEntry struct {
	Name string
	Size Node
}

type Bitfield struct {
	Pos     Pos
	Entries []BitfieldEntry
}

func NewBitfield(line int, entries ...BitfieldEntry) *Bitfield {
	return &Bitfield{Pos: Pos{Line: line}, Entries: entries}
}

func (b *Bitfield) Kind() NodeKind { return KIND_BITFIELD }
func (b *Bitfield) Line() int      { return b.Pos.Line }
func (b *Bitfield) astNode()       {}
func (b *Bitfield) String() string { return fmt.Sprintf("BITFIELD: %d entries", len(b.Entries)) }
