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
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// NUMERIC holds 38 decimal digits with 9 of them after the point.
const (
	numericScale        = 9
	numericIntegerParts = 29
)

var numericMax = decimal.New(1, numericIntegerParts)

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// castSignedTo narrows or re-signs an int64 with range checks.
func castSignedTo(x int64, to Type) (Value, error) {
	switch to.Kind() {
	case TypeKindInt32:
		if x < math.MinInt32 || x > math.MaxInt32 {
			return Value{}, ErrCastOutOfRange.New(x, to)
		}
		return NewInt32(int32(x)), nil
	case TypeKindInt64:
		return NewInt64(x), nil
	case TypeKindUint32:
		if x < 0 || x > math.MaxUint32 {
			return Value{}, ErrCastOutOfRange.New(x, to)
		}
		return NewUint32(uint32(x)), nil
	case TypeKindUint64:
		if x < 0 {
			return Value{}, ErrCastOutOfRange.New(x, to)
		}
		return NewUint64(uint64(x)), nil
	}
	return Value{}, ErrUnimplementedCast.New(Int64, to)
}

// castUnsignedTo narrows or re-signs a uint64 with range checks.
func castUnsignedTo(x uint64, to Type) (Value, error) {
	switch to.Kind() {
	case TypeKindInt32:
		if x > math.MaxInt32 {
			return Value{}, ErrCastOutOfRange.New(x, to)
		}
		return NewInt32(int32(x)), nil
	case TypeKindInt64:
		if x > math.MaxInt64 {
			return Value{}, ErrCastOutOfRange.New(x, to)
		}
		return NewInt64(int64(x)), nil
	case TypeKindUint32:
		if x > math.MaxUint32 {
			return Value{}, ErrCastOutOfRange.New(x, to)
		}
		return NewUint32(uint32(x)), nil
	case TypeKindUint64:
		return NewUint64(x), nil
	}
	return Value{}, ErrUnimplementedCast.New(Uint64, to)
}

// roundHalfAwayFromZero rounds to the nearest integer, breaking ties
// away from zero.
func roundHalfAwayFromZero(x float64) float64 {
	if x >= 0 {
		return math.Floor(x + 0.5)
	}
	return math.Ceil(x - 0.5)
}

// Integer bounds expressed exactly in float64. MaxInt64 itself is not
// representable, so the upper checks are exclusive on the next power
// of two.
const (
	maxInt64AsFloat  = float64(1 << 63)
	maxUint64AsFloat = float64(1 << 64)
)

// castFloatTo converts a float64 to a narrower float or an integer
// type. Integer conversions round, breaking ties away from zero.
func castFloatTo(x float64, to Type) (Value, error) {
	if to.Kind() == TypeKindFloat64 {
		return NewFloat64(x), nil
	}
	if to.Kind() == TypeKindFloat32 {
		if !math.IsInf(x, 0) && math.Abs(x) > math.MaxFloat32 {
			return Value{}, ErrCastOutOfRange.New(x, to)
		}
		return NewFloat32(float32(x)), nil
	}

	if math.IsNaN(x) || math.IsInf(x, 0) {
		return Value{}, ErrCastOutOfRange.New(x, to)
	}
	r := roundHalfAwayFromZero(x)
	switch to.Kind() {
	case TypeKindInt32:
		if r < math.MinInt32 || r > math.MaxInt32 {
			return Value{}, ErrCastOutOfRange.New(x, to)
		}
		return NewInt32(int32(r)), nil
	case TypeKindInt64:
		if r < -maxInt64AsFloat || r >= maxInt64AsFloat {
			return Value{}, ErrCastOutOfRange.New(x, to)
		}
		return NewInt64(int64(r)), nil
	case TypeKindUint32:
		if r < 0 || r > math.MaxUint32 {
			return Value{}, ErrCastOutOfRange.New(x, to)
		}
		return NewUint32(uint32(r)), nil
	case TypeKindUint64:
		if r < 0 || r >= maxUint64AsFloat {
			return Value{}, ErrCastOutOfRange.New(x, to)
		}
		return NewUint64(uint64(r)), nil
	}
	return Value{}, ErrUnimplementedCast.New(Float64, to)
}

// castDecimalTo converts a NUMERIC to an integer or float type.
// Integer conversions round, breaking ties away from zero.
func castDecimalTo(d decimal.Decimal, to Type) (Value, error) {
	switch to.Kind() {
	case TypeKindInt32, TypeKindInt64, TypeKindUint32, TypeKindUint64:
		r := d.Round(0)
		bi := r.BigInt()
		switch to.Kind() {
		case TypeKindUint32, TypeKindUint64:
			if !bi.IsUint64() {
				return Value{}, ErrCastOutOfRange.New(d, to)
			}
			return castUnsignedTo(bi.Uint64(), to)
		default:
			if !bi.IsInt64() {
				return Value{}, ErrCastOutOfRange.New(d, to)
			}
			return castSignedTo(bi.Int64(), to)
		}
	case TypeKindFloat32:
		f, _ := d.Float64()
		return castFloatTo(f, to)
	case TypeKindFloat64:
		f, _ := d.Float64()
		return NewFloat64(f), nil
	}
	return Value{}, ErrUnimplementedCast.New(Numeric, to)
}

// floatToNumeric converts a float64 to NUMERIC, rounding to the NUMERIC
// scale.
func floatToNumeric(x float64) (Value, error) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return Value{}, ErrCastOutOfRange.New(x, Numeric)
	}
	return numericFromDecimal(decimal.NewFromFloat(x))
}

func numericFromDecimal(d decimal.Decimal) (Value, error) {
	r := d.Round(numericScale)
	if r.Abs().GreaterThanOrEqual(numericMax) {
		return Value{}, ErrCastOutOfRange.New(d, Numeric)
	}
	return NewNumeric(r), nil
}

func decimalFromUint64(x uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(x), 0)
}

// stringToNumber parses a string as the given numeric or bool type.
func stringToNumber(s string, to Type) (Value, error) {
	switch to.Kind() {
	case TypeKindBool:
		switch strings.ToLower(s) {
		case "true":
			return NewBool(true), nil
		case "false":
			return NewBool(false), nil
		}
		return Value{}, ErrCastParse.New(s, to)
	case TypeKindInt32, TypeKindInt64:
		x, err := cast.ToInt64E(s)
		if err != nil {
			return Value{}, ErrCastParse.New(s, to)
		}
		return castSignedTo(x, to)
	case TypeKindUint32, TypeKindUint64:
		x, err := cast.ToUint64E(s)
		if err != nil {
			return Value{}, ErrCastParse.New(s, to)
		}
		return castUnsignedTo(x, to)
	case TypeKindFloat32, TypeKindFloat64:
		x, err := cast.ToFloat64E(s)
		if err != nil {
			return Value{}, ErrCastParse.New(s, to)
		}
		return castFloatTo(x, to)
	case TypeKindNumeric:
		d, err := decimal.NewFromString(s)
		if err != nil {
			return Value{}, ErrCastParse.New(s, to)
		}
		return numericFromDecimal(d)
	}
	return Value{}, ErrUnimplementedCast.New(String, to)
}

// numberToString formats a numeric or bool value canonically.
func numberToString(v Value) (Value, error) {
	if v.Kind() == TypeKindNumeric {
		return NewString(v.NumericValue().String()), nil
	}
	s, err := cast.ToStringE(v.v)
	if err != nil {
		return Value{}, ErrUnimplementedCast.New(v.Type(), String)
	}
	return NewString(s), nil
}

func int64ToEnum(x int64, to *EnumType) (Value, error) {
	if x < math.MinInt32 || x > math.MaxInt32 {
		return Value{}, ErrEnumValueOutOfRange.New(x, to)
	}
	return NewEnum(to, int32(x))
}

// typeForProtoField maps a scalar proto field to the type its values
// cast through. Message and group fields are not castable this way.
func typeForProtoField(fd protoreflect.FieldDescriptor) (Type, bool) {
	switch fd.Kind() {
	case protoreflect.BoolKind:
		return Bool, true
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind:
		return Int32, true
	case protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		return Int64, true
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind:
		return Uint32, true
	case protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		return Uint64, true
	case protoreflect.FloatKind:
		return Float32, true
	case protoreflect.DoubleKind:
		return Float64, true
	case protoreflect.StringKind:
		return String, true
	case protoreflect.BytesKind:
		return Bytes, true
	}
	return nil, false
}

func protoFieldValue(v Value, fd protoreflect.FieldDescriptor) (protoreflect.Value, error) {
	switch v.Kind() {
	case TypeKindBool:
		return protoreflect.ValueOfBool(v.BoolValue()), nil
	case TypeKindInt32:
		return protoreflect.ValueOfInt32(v.Int32Value()), nil
	case TypeKindInt64:
		return protoreflect.ValueOfInt64(v.Int64Value()), nil
	case TypeKindUint32:
		return protoreflect.ValueOfUint32(v.Uint32Value()), nil
	case TypeKindUint64:
		return protoreflect.ValueOfUint64(v.Uint64Value()), nil
	case TypeKindFloat32:
		return protoreflect.ValueOfFloat32(v.Float32Value()), nil
	case TypeKindFloat64:
		return protoreflect.ValueOfFloat64(v.Float64Value()), nil
	case TypeKindString:
		return protoreflect.ValueOfString(v.StringValue()), nil
	case TypeKindBytes:
		return protoreflect.ValueOfBytes(v.BytesValue()), nil
	}
	return protoreflect.Value{}, ErrUnsupportedCast.New(v.Type(), fd.Kind())
}
