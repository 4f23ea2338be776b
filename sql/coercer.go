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

// ConversionSourceKind describes what kind of expression a coercion
// applies to. Literals and query parameters coerce in more contexts
// than general expressions.
type ConversionSourceKind int8

const (
	// ConversionSourceGeneral is a coercion of an arbitrary expression.
	ConversionSourceGeneral ConversionSourceKind = iota
	// ConversionSourceLiteral is a coercion of a literal value.
	ConversionSourceLiteral
	// ConversionSourceParameter is a coercion of a query parameter.
	ConversionSourceParameter
)

func (k ConversionSourceKind) String() string {
	switch k {
	case ConversionSourceLiteral:
		return "literal"
	case ConversionSourceParameter:
		return "parameter"
	default:
		return "general"
	}
}

// Coercer decides whether one type converts to another in a given
// context. It consults the static compatibility table for simple types
// and recurses structurally through composite types.
type Coercer struct {
	conversions ConversionSource
}

// NewCoercer returns a coercer. The conversion source may be nil, in
// which case extended types never coerce.
func NewCoercer(conversions ConversionSource) *Coercer {
	return &Coercer{conversions: conversions}
}

// CoercesTo reports whether a value of type from converts to type to
// when it originates from the given source kind. Explicit casts accept
// every table entry; implicit contexts narrow by the entry's
// strictness.
func (c *Coercer) CoercesTo(from, to Type, kind ConversionSourceKind, isExplicit bool) bool {
	if from == nil || to == nil {
		return false
	}
	if from.Equals(to) {
		return true
	}

	if _, ok := from.(ExtendedType); ok {
		return c.extendedCoercesTo(from, to, kind, isExplicit)
	}
	if _, ok := to.(ExtendedType); ok {
		return c.extendedCoercesTo(from, to, kind, isExplicit)
	}

	switch ft := from.(type) {
	case *StructType:
		tt, ok := to.(*StructType)
		if !ok || ft.NumFields() != tt.NumFields() {
			return false
		}
		for i := range ft.Fields() {
			if !c.CoercesTo(ft.Field(i).Type, tt.Field(i).Type, kind, isExplicit) {
				return false
			}
		}
		return true
	case *ArrayType:
		tt, ok := to.(*ArrayType)
		if !ok {
			return false
		}
		if isExplicit {
			return validExplicitCast(ft.Elem(), tt.Elem())
		}
		// Implicit coercion never changes array element types.
		return ft.Elem().Equivalent(tt.Elem())
	case *EnumType, *ProtoType:
		if from.Kind() == to.Kind() {
			return from.Equivalent(to)
		}
	}

	ct, ok := GetCastType(from.Kind(), to.Kind())
	if !ok {
		return false
	}
	if isExplicit {
		return ct.SupportsExplicitCast()
	}
	switch kind {
	case ConversionSourceLiteral:
		return ct.SupportsLiteralCoercion()
	case ConversionSourceParameter:
		return ct.SupportsParameterCoercion()
	default:
		return ct.SupportsImplicitCoercion()
	}
}

func (c *Coercer) extendedCoercesTo(from, to Type, kind ConversionSourceKind, isExplicit bool) bool {
	if c.conversions == nil {
		return false
	}
	_, err := c.conversions.FindConversion(from, to, FindConversionOptions{
		IsExplicit: isExplicit,
		SourceKind: kind,
	})
	return err == nil
}

// supertypeCandidates are tried in order when neither side of a pair
// coerces directly to the other.
var supertypeCandidates = []Type{Int64, Numeric, Float64, Datetime, Timestamp}

// Supertype returns the common type a pair of types implicitly coerces
// to, preferring the cheaper of the two sides and falling back to a
// fixed ladder of wider types.
func (c *Coercer) Supertype(a, b Type) (Type, bool) {
	if a == nil || b == nil {
		return nil, false
	}
	if a.Equals(b) {
		return a, true
	}
	if c.CoercesTo(a, b, ConversionSourceGeneral, false) {
		return b, true
	}
	if c.CoercesTo(b, a, ConversionSourceGeneral, false) {
		return a, true
	}
	for _, cand := range supertypeCandidates {
		if c.CoercesTo(a, cand, ConversionSourceGeneral, false) &&
			c.CoercesTo(b, cand, ConversionSourceGeneral, false) {
			return cand, true
		}
	}
	return nil, false
}

// validExplicitCast reports whether CAST syntax can convert between the
// two types, recursing structurally through composites. It is the
// static mirror of the evaluator in CastValue.
func validExplicitCast(from, to Type) bool {
	if from == nil || to == nil {
		return false
	}
	if from.Equals(to) {
		return true
	}

	switch ft := from.(type) {
	case *StructType:
		if isMapEntryCast(from, to) {
			return true
		}
		tt, ok := to.(*StructType)
		if !ok || ft.NumFields() != tt.NumFields() {
			return false
		}
		for i := range ft.Fields() {
			if !validExplicitCast(ft.Field(i).Type, tt.Field(i).Type) {
				return false
			}
		}
		return true
	case *ArrayType:
		tt, ok := to.(*ArrayType)
		if !ok {
			return false
		}
		return validExplicitCast(ft.Elem(), tt.Elem())
	case *EnumType, *ProtoType:
		if from.Kind() == to.Kind() {
			return from.Equivalent(to)
		}
	}

	ct, ok := GetCastType(from.Kind(), to.Kind())
	return ok && ct.SupportsExplicitCast()
}
