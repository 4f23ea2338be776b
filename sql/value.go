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
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/src-d/go-errors.v1"
)

var (
	// ErrValueType is returned when a Value is constructed or read with
	// a representation that does not match its type.
	ErrValueType = errors.NewKind("value of type %s cannot hold %v")

	// ErrStructValueArity is returned when a struct value is built with
	// the wrong number of fields.
	ErrStructValueArity = errors.NewKind("struct type %s has %d fields, got %d values")

	// ErrEnumValueOutOfRange is returned when an enum value is built by
	// an ordinal with no matching member.
	ErrEnumValueOutOfRange = errors.NewKind("out of range cast of integer %d to enum type %s")

	// ErrEnumValueUnknownName is returned when an enum value is built by
	// a name with no matching member.
	ErrEnumValueUnknownName = errors.NewKind("out of range cast of string %q to enum type %s")
)

// Value is an immutable, typed SQL value. The zero Value is invalid;
// every valid Value, including NULLs, carries a Type.
type Value struct {
	typ  Type
	null bool
	v    interface{}
}

type arrayRep struct {
	elems   []Value
	ordered bool
}

// Null returns the NULL value of the given type.
func Null(t Type) Value {
	return Value{typ: t, null: true}
}

// NewBool returns a BOOL value.
func NewBool(v bool) Value { return Value{typ: Bool, v: v} }

// NewInt32 returns an INT32 value.
func NewInt32(v int32) Value { return Value{typ: Int32, v: v} }

// NewInt64 returns an INT64 value.
func NewInt64(v int64) Value { return Value{typ: Int64, v: v} }

// NewUint32 returns a UINT32 value.
func NewUint32(v uint32) Value { return Value{typ: Uint32, v: v} }

// NewUint64 returns a UINT64 value.
func NewUint64(v uint64) Value { return Value{typ: Uint64, v: v} }

// NewFloat32 returns a FLOAT value.
func NewFloat32(v float32) Value { return Value{typ: Float32, v: v} }

// NewFloat64 returns a DOUBLE value.
func NewFloat64(v float64) Value { return Value{typ: Float64, v: v} }

// NewNumeric returns a NUMERIC value.
func NewNumeric(v decimal.Decimal) Value { return Value{typ: Numeric, v: v} }

// NewString returns a STRING value.
func NewString(v string) Value { return Value{typ: String, v: v} }

// NewBytes returns a BYTES value.
func NewBytes(v []byte) Value { return Value{typ: Bytes, v: v} }

// NewDate returns a DATE value. The civil date is taken from t's year,
// month and day; any finer-grained components are discarded.
func NewDate(t time.Time) Value {
	y, m, d := t.Date()
	return Value{typ: Date, v: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// NewTime returns a TIME value from a duration since midnight.
func NewTime(sinceMidnight time.Duration) Value {
	return Value{typ: Time, v: sinceMidnight}
}

// NewDatetime returns a DATETIME value. Datetimes are civil, timezone
// free values; the location of t is discarded.
func NewDatetime(t time.Time) Value {
	y, m, d := t.Date()
	return Value{typ: Datetime, v: time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)}
}

// NewTimestamp returns a TIMESTAMP value, an absolute point in time.
func NewTimestamp(t time.Time) Value {
	return Value{typ: Timestamp, v: t}
}

// NewEnum returns a value of the given enum type constructed by member
// number.
func NewEnum(t *EnumType, number int32) (Value, error) {
	if _, ok := t.FindByNumber(number); !ok {
		return Value{}, ErrEnumValueOutOfRange.New(number, t)
	}
	return Value{typ: t, v: number}, nil
}

// NewEnumByName returns a value of the given enum type constructed by
// member name.
func NewEnumByName(t *EnumType, name string) (Value, error) {
	v, ok := t.FindByName(name)
	if !ok {
		return Value{}, ErrEnumValueUnknownName.New(name, t)
	}
	return Value{typ: t, v: v.Number}, nil
}

// NewStruct returns a struct value. The field values must match the
// struct type's arity; field types are trusted, the caller casts first.
func NewStruct(t *StructType, fields []Value) (Value, error) {
	if len(fields) != t.NumFields() {
		return Value{}, ErrStructValueArity.New(t, t.NumFields(), len(fields))
	}
	return Value{typ: t, v: fields}, nil
}

// NewArray returns an order-significant array value.
func NewArray(t *ArrayType, elems []Value) Value {
	return Value{typ: t, v: arrayRep{elems: elems, ordered: true}}
}

// NewUnorderedArray returns an array value whose element order carries
// no meaning.
func NewUnorderedArray(t *ArrayType, elems []Value) Value {
	return Value{typ: t, v: arrayRep{elems: elems, ordered: false}}
}

// NewProto returns a proto value holding serialized message bytes. The
// bytes are not validated here; parsing happens on demand during casts.
func NewProto(t *ProtoType, data []byte) Value {
	return Value{typ: t, v: data}
}

// Type returns the value's type. Nil for the invalid zero Value.
func (v Value) Type() Type { return v.typ }

// Kind returns the value's type kind.
func (v Value) Kind() TypeKind {
	if v.typ == nil {
		return TypeKindUnknown
	}
	return v.typ.Kind()
}

// IsValid reports whether the value was properly constructed.
func (v Value) IsValid() bool { return v.typ != nil }

// IsNull reports whether the value is a typed NULL.
func (v Value) IsNull() bool { return v.null }

// BoolValue returns the underlying bool. Only legal on valid non-null
// BOOL values.
func (v Value) BoolValue() bool { return v.v.(bool) }

func (v Value) Int32Value() int32 { return v.v.(int32) }

func (v Value) Int64Value() int64 { return v.v.(int64) }

func (v Value) Uint32Value() uint32 { return v.v.(uint32) }

func (v Value) Uint64Value() uint64 { return v.v.(uint64) }

func (v Value) Float32Value() float32 { return v.v.(float32) }

func (v Value) Float64Value() float64 { return v.v.(float64) }

func (v Value) NumericValue() decimal.Decimal { return v.v.(decimal.Decimal) }

func (v Value) StringValue() string { return v.v.(string) }

func (v Value) BytesValue() []byte { return v.v.([]byte) }

// DateValue returns the civil date at midnight UTC.
func (v Value) DateValue() time.Time { return v.v.(time.Time) }

// TimeValue returns the duration since midnight.
func (v Value) TimeValue() time.Duration { return v.v.(time.Duration) }

// DatetimeValue returns the civil datetime, rendered in UTC.
func (v Value) DatetimeValue() time.Time { return v.v.(time.Time) }

// TimestampValue returns the absolute instant.
func (v Value) TimestampValue() time.Time { return v.v.(time.Time) }

// EnumNumber returns the member number of an enum value.
func (v Value) EnumNumber() int32 { return v.v.(int32) }

// EnumName returns the member name of an enum value.
func (v Value) EnumName() string {
	t := v.typ.(*EnumType)
	m, _ := t.FindByNumber(v.v.(int32))
	return m.Name
}

// Fields returns the field values of a struct value.
func (v Value) Fields() []Value { return v.v.([]Value) }

// Elements returns the elements of an array value.
func (v Value) Elements() []Value { return v.v.(arrayRep).elems }

// OrderedArray reports whether the array value's element order is
// significant.
func (v Value) OrderedArray() bool { return v.v.(arrayRep).ordered }

// ProtoBytes returns the serialized message of a proto value.
func (v Value) ProtoBytes() []byte { return v.v.([]byte) }

// ExtendedValue returns the opaque payload of an extended-type value.
func (v Value) ExtendedValue() interface{} { return v.v }

// NewExtendedValue returns a value of an engine-defined type with an
// opaque payload. The conversion functions registered with the catalog
// are the only code that interprets the payload.
func NewExtendedValue(t ExtendedType, payload interface{}) Value {
	return Value{typ: t, v: payload}
}

// Equal reports bit-for-bit equality: same type, same nullness, same
// representation. It is not SQL equality; NULL.Equal(NULL) is true here.
func (v Value) Equal(other Value) bool {
	if !v.IsValid() || !other.IsValid() {
		return v.IsValid() == other.IsValid()
	}
	if !v.typ.Equals(other.typ) || v.null != other.null {
		return false
	}
	if v.null {
		return true
	}
	switch v.Kind() {
	case TypeKindNumeric:
		return v.NumericValue().Equal(other.NumericValue())
	case TypeKindBytes, TypeKindProto:
		return bytes.Equal(v.v.([]byte), other.v.([]byte))
	case TypeKindDate, TypeKindDatetime, TypeKindTimestamp:
		return v.v.(time.Time).Equal(other.v.(time.Time))
	case TypeKindStruct:
		a, b := v.Fields(), other.Fields()
		for i := range a {
			if !a[i].Equal(b[i]) {
				return false
			}
		}
		return true
	case TypeKindArray:
		a, b := v.v.(arrayRep), other.v.(arrayRep)
		if a.ordered != b.ordered || len(a.elems) != len(b.elems) {
			return false
		}
		for i := range a.elems {
			if !a.elems[i].Equal(b.elems[i]) {
				return false
			}
		}
		return true
	default:
		return v.v == other.v
	}
}

// String renders the value for error messages and debugging. It is not
// the canonical cast-to-string form; see CastValue for that.
func (v Value) String() string {
	if !v.IsValid() {
		return "<invalid>"
	}
	if v.null {
		return fmt.Sprintf("NULL(%s)", v.typ)
	}
	switch v.Kind() {
	case TypeKindString:
		return strconv.Quote(v.StringValue())
	case TypeKindBytes:
		return fmt.Sprintf("b%q", v.BytesValue())
	case TypeKindEnum:
		return fmt.Sprintf("%s:%s", v.typ, v.EnumName())
	case TypeKindStruct:
		return fmt.Sprintf("%s%v", v.typ, v.Fields())
	case TypeKindArray:
		return fmt.Sprintf("%s%v", v.typ, v.Elements())
	case TypeKindProto:
		return fmt.Sprintf("%s<%d bytes>", v.typ, len(v.ProtoBytes()))
	case TypeKindDate:
		return FormatDate(v.DateValue())
	default:
		return fmt.Sprintf("%v", v.v)
	}
}
