// Copyright 2026 George Fraser
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sql

import (
	"fmt"
	"strings"

	"google.golang.org/protobuf/reflect/protoreflect"
	"gopkg.in/src-d/go-errors.v1"
)

// TypeKind enumerates the built-in kinds of types. Every Type belongs to
// exactly one kind; composite kinds (enum, struct, array, proto) and
// extended kinds carry extra structure on the concrete Type.
type TypeKind int

const (
	TypeKindUnknown TypeKind = iota
	TypeKindBool
	TypeKindInt32
	TypeKindInt64
	TypeKindUint32
	TypeKindUint64
	TypeKindFloat32
	TypeKindFloat64
	TypeKindNumeric
	TypeKindString
	TypeKindBytes
	TypeKindDate
	TypeKindTime
	TypeKindDatetime
	TypeKindTimestamp
	TypeKindEnum
	TypeKindStruct
	TypeKindArray
	TypeKindProto
	TypeKindExtended
)

var typeKindNames = map[TypeKind]string{
	TypeKindUnknown:   "UNKNOWN",
	TypeKindBool:      "BOOL",
	TypeKindInt32:     "INT32",
	TypeKindInt64:     "INT64",
	TypeKindUint32:    "UINT32",
	TypeKindUint64:    "UINT64",
	TypeKindFloat32:   "FLOAT",
	TypeKindFloat64:   "DOUBLE",
	TypeKindNumeric:   "NUMERIC",
	TypeKindString:    "STRING",
	TypeKindBytes:     "BYTES",
	TypeKindDate:      "DATE",
	TypeKindTime:      "TIME",
	TypeKindDatetime:  "DATETIME",
	TypeKindTimestamp: "TIMESTAMP",
	TypeKindEnum:      "ENUM",
	TypeKindStruct:    "STRUCT",
	TypeKindArray:     "ARRAY",
	TypeKindProto:     "PROTO",
	TypeKindExtended:  "EXTENDED",
}

func (k TypeKind) String() string {
	if s, ok := typeKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("TypeKind(%d)", int(k))
}

// IsSimple returns whether values of this kind carry no nested structure.
func (k TypeKind) IsSimple() bool {
	switch k {
	case TypeKindEnum, TypeKindStruct, TypeKindArray, TypeKindProto, TypeKindExtended:
		return false
	}
	return k != TypeKindUnknown
}

// IsNumeric returns whether the kind participates in arithmetic.
func (k TypeKind) IsNumeric() bool {
	switch k {
	case TypeKindInt32, TypeKindInt64, TypeKindUint32, TypeKindUint64,
		TypeKindFloat32, TypeKindFloat64, TypeKindNumeric:
		return true
	}
	return false
}

// Type is the static type of a column, expression or value. Types are
// immutable and safe for concurrent reads.
type Type interface {
	fmt.Stringer
	Kind() TypeKind
	// Equals reports exact type equality, including names of struct
	// fields and enum definitions.
	Equals(other Type) bool
	// Equivalent reports structural compatibility: the same kind, and
	// recursively equivalent components ignoring struct field names.
	Equivalent(other Type) bool
}

// ExtendedType is implemented by engine-defined types outside the
// built-in kind system. Casting to or from such a type requires a
// Conversion supplied by the catalog (see Catalog.FindConversion).
type ExtendedType interface {
	Type
	// ExtensionName uniquely identifies the extended type.
	ExtensionName() string
}

var ErrInvalidTypeArgument = errors.NewKind("invalid type argument: %s")

type simpleType struct {
	kind TypeKind
}

// Simple types, one per simple kind. These are the canonical instances;
// simple kinds have no parameters so there is never a reason to create
// another.
var (
	Bool      Type = simpleType{TypeKindBool}
	Int32     Type = simpleType{TypeKindInt32}
	Int64     Type = simpleType{TypeKindInt64}
	Uint32    Type = simpleType{TypeKindUint32}
	Uint64    Type = simpleType{TypeKindUint64}
	Float32   Type = simpleType{TypeKindFloat32}
	Float64   Type = simpleType{TypeKindFloat64}
	Numeric   Type = simpleType{TypeKindNumeric}
	String    Type = simpleType{TypeKindString}
	Bytes     Type = simpleType{TypeKindBytes}
	Date      Type = simpleType{TypeKindDate}
	Time      Type = simpleType{TypeKindTime}
	Datetime  Type = simpleType{TypeKindDatetime}
	Timestamp Type = simpleType{TypeKindTimestamp}
)

func (t simpleType) Kind() TypeKind { return t.kind }

func (t simpleType) String() string { return t.kind.String() }

func (t simpleType) Equals(other Type) bool {
	o, ok := other.(simpleType)
	return ok && o.kind == t.kind
}

func (t simpleType) Equivalent(other Type) bool {
	return other != nil && other.Kind() == t.kind
}

// SimpleTypeForKind returns the canonical Type for a simple kind, or nil
// if the kind is not simple.
func SimpleTypeForKind(k TypeKind) Type {
	switch k {
	case TypeKindBool:
		return Bool
	case TypeKindInt32:
		return Int32
	case TypeKindInt64:
		return Int64
	case TypeKindUint32:
		return Uint32
	case TypeKindUint64:
		return Uint64
	case TypeKindFloat32:
		return Float32
	case TypeKindFloat64:
		return Float64
	case TypeKindNumeric:
		return Numeric
	case TypeKindString:
		return String
	case TypeKindBytes:
		return Bytes
	case TypeKindDate:
		return Date
	case TypeKindTime:
		return Time
	case TypeKindDatetime:
		return Datetime
	case TypeKindTimestamp:
		return Timestamp
	}
	return nil
}

// EnumValue is one member of an enum definition.
type EnumValue struct {
	Name   string
	Number int32
}

// EnumType is a named, finite set of (name, number) members.
type EnumType struct {
	name     string
	values   []EnumValue
	byName   map[string]int
	byNumber map[int32]int
}

// CreateEnumType creates an EnumType. Member names and numbers must be
// unique within the definition.
func CreateEnumType(name string, values []EnumValue) (*EnumType, error) {
	if len(values) == 0 {
		return nil, ErrInvalidTypeArgument.New("enum must have at least one value")
	}
	byName := make(map[string]int, len(values))
	byNumber := make(map[int32]int, len(values))
	for i, v := range values {
		if _, ok := byName[v.Name]; ok {
			return nil, ErrInvalidTypeArgument.New("duplicate enum value name " + v.Name)
		}
		if _, ok := byNumber[v.Number]; ok {
			return nil, ErrInvalidTypeArgument.New(fmt.Sprintf("duplicate enum value number %d", v.Number))
		}
		byName[v.Name] = i
		byNumber[v.Number] = i
	}
	return &EnumType{name: name, values: values, byName: byName, byNumber: byNumber}, nil
}

// MustCreateEnumType is the same as CreateEnumType except it panics on
// errors.
func MustCreateEnumType(name string, values []EnumValue) *EnumType {
	t, err := CreateEnumType(name, values)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *EnumType) Kind() TypeKind { return TypeKindEnum }

func (t *EnumType) Name() string { return t.name }

func (t *EnumType) Values() []EnumValue { return t.values }

// FindByName returns the member with the given name.
func (t *EnumType) FindByName(name string) (EnumValue, bool) {
	if i, ok := t.byName[name]; ok {
		return t.values[i], true
	}
	return EnumValue{}, false
}

// FindByNumber returns the member with the given number.
func (t *EnumType) FindByNumber(number int32) (EnumValue, bool) {
	if i, ok := t.byNumber[number]; ok {
		return t.values[i], true
	}
	return EnumValue{}, false
}

func (t *EnumType) String() string {
	return fmt.Sprintf("ENUM<%s>", t.name)
}

func (t *EnumType) Equals(other Type) bool {
	o, ok := other.(*EnumType)
	if !ok || o.name != t.name || len(o.values) != len(t.values) {
		return false
	}
	for i := range t.values {
		if t.values[i] != o.values[i] {
			return false
		}
	}
	return true
}

// Equivalent for enums requires the same named definition; two enums
// with different names never coerce into each other.
func (t *EnumType) Equivalent(other Type) bool {
	o, ok := other.(*EnumType)
	return ok && o.name == t.name
}

// StructField is one field of a StructType.
type StructField struct {
	Name string
	Type Type
}

// StructType is an ordered list of named fields. Field names play no
// role in casting, which is purely positional.
type StructType struct {
	fields []StructField
}

// CreateStructType creates a StructType with the given fields.
func CreateStructType(fields ...StructField) *StructType {
	return &StructType{fields: fields}
}

func (t *StructType) Kind() TypeKind { return TypeKindStruct }

func (t *StructType) Fields() []StructField { return t.fields }

func (t *StructType) Field(i int) StructField { return t.fields[i] }

func (t *StructType) NumFields() int { return len(t.fields) }

// FieldIndex returns the index of the field with the given name,
// case-insensitively, or -1.
func (t *StructType) FieldIndex(name string) int {
	for i, f := range t.fields {
		if strings.EqualFold(f.Name, name) {
			return i
		}
	}
	return -1
}

func (t *StructType) String() string {
	var sb strings.Builder
	sb.WriteString("STRUCT<")
	for i, f := range t.fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		if f.Name != "" {
			sb.WriteString(f.Name)
			sb.WriteString(" ")
		}
		sb.WriteString(f.Type.String())
	}
	sb.WriteString(">")
	return sb.String()
}

func (t *StructType) Equals(other Type) bool {
	o, ok := other.(*StructType)
	if !ok || len(o.fields) != len(t.fields) {
		return false
	}
	for i := range t.fields {
		if t.fields[i].Name != o.fields[i].Name || !t.fields[i].Type.Equals(o.fields[i].Type) {
			return false
		}
	}
	return true
}

func (t *StructType) Equivalent(other Type) bool {
	o, ok := other.(*StructType)
	if !ok || len(o.fields) != len(t.fields) {
		return false
	}
	for i := range t.fields {
		if !t.fields[i].Type.Equivalent(o.fields[i].Type) {
			return false
		}
	}
	return true
}

// ArrayType is an ordered collection of elements of one type.
type ArrayType struct {
	elem Type
}

// CreateArrayType creates an ArrayType with the given element type.
func CreateArrayType(elem Type) *ArrayType {
	return &ArrayType{elem: elem}
}

func (t *ArrayType) Kind() TypeKind { return TypeKindArray }

func (t *ArrayType) Elem() Type { return t.elem }

func (t *ArrayType) String() string {
	return fmt.Sprintf("ARRAY<%s>", t.elem)
}

func (t *ArrayType) Equals(other Type) bool {
	o, ok := other.(*ArrayType)
	return ok && t.elem.Equals(o.elem)
}

func (t *ArrayType) Equivalent(other Type) bool {
	o, ok := other.(*ArrayType)
	return ok && t.elem.Equivalent(o.elem)
}

// ProtoType is a protocol buffer message type identified by its
// descriptor. Values of this type hold the serialized message bytes;
// casts to and from string/bytes go through the descriptor's schema.
type ProtoType struct {
	desc protoreflect.MessageDescriptor
}

// CreateProtoType creates a ProtoType from a message descriptor.
func CreateProtoType(desc protoreflect.MessageDescriptor) (*ProtoType, error) {
	if desc == nil {
		return nil, ErrInvalidTypeArgument.New("proto type requires a message descriptor")
	}
	return &ProtoType{desc: desc}, nil
}

// MustCreateProtoType is the same as CreateProtoType except it panics on
// errors.
func MustCreateProtoType(desc protoreflect.MessageDescriptor) *ProtoType {
	t, err := CreateProtoType(desc)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *ProtoType) Kind() TypeKind { return TypeKindProto }

func (t *ProtoType) Descriptor() protoreflect.MessageDescriptor { return t.desc }

func (t *ProtoType) String() string {
	return fmt.Sprintf("PROTO<%s>", t.desc.FullName())
}

func (t *ProtoType) Equals(other Type) bool {
	o, ok := other.(*ProtoType)
	return ok && o.desc == t.desc
}

// Equivalent for protos compares the full message name, so the same
// message loaded from two descriptor pools still matches.
func (t *ProtoType) Equivalent(other Type) bool {
	o, ok := other.(*ProtoType)
	return ok && o.desc.FullName() == t.desc.FullName()
}

// TypesEqual is a nil-safe Type equality check.
func TypesEqual(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equals(b)
}
