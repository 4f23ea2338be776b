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

// ConversionFunc converts a single non-NULL value.
type ConversionFunc func(v Value) (Value, error)

// ConversionEvaluator executes a conversion between two types. The
// zero value is invalid and fails every evaluation.
type ConversionEvaluator struct {
	from Type
	to   Type
	fn   ConversionFunc
}

// NewConversionEvaluator creates an evaluator. Both types and the
// function must be set, and the types must differ; an evaluator between
// a type and itself would shadow the identity cast.
func NewConversionEvaluator(from, to Type, fn ConversionFunc) (ConversionEvaluator, error) {
	if from == nil || to == nil || fn == nil {
		return ConversionEvaluator{}, ErrInvalidTypeArgument.New("conversion evaluator needs both types and a function")
	}
	if from.Equals(to) {
		return ConversionEvaluator{}, ErrInvalidTypeArgument.New("conversion source and destination types must differ")
	}
	return ConversionEvaluator{from: from, to: to, fn: fn}, nil
}

// IsValid returns whether the evaluator was properly constructed.
func (e ConversionEvaluator) IsValid() bool { return e.fn != nil }

// FromType returns the source type of the conversion.
func (e ConversionEvaluator) FromType() Type { return e.from }

// ToType returns the destination type of the conversion.
func (e ConversionEvaluator) ToType() Type { return e.to }

// Eval converts the given value. NULL inputs convert to a NULL of the
// destination type without invoking the conversion function.
func (e ConversionEvaluator) Eval(v Value) (Value, error) {
	if !e.IsValid() {
		return Value{}, ErrInvalidConversion.New()
	}
	if !v.IsValid() {
		return Value{}, ErrInvalidCastValue.New()
	}
	if !v.Type().Equals(e.from) {
		return Value{}, ErrConversionSourceType.New(v.Type(), e.from)
	}
	if v.IsNull() {
		return Null(e.to), nil
	}
	return e.fn(v)
}

// Conversion pairs an evaluator with the strictness under which the
// conversion applies. Catalogs return these for casts that involve
// extended types.
type Conversion struct {
	evaluator ConversionEvaluator
	castType  CastType
}

// NewConversion creates a conversion with the given strictness.
func NewConversion(evaluator ConversionEvaluator, castType CastType) (Conversion, error) {
	if !evaluator.IsValid() {
		return Conversion{}, ErrInvalidConversion.New()
	}
	if !castType.SupportsExplicitCast() {
		return Conversion{}, ErrInvalidTypeArgument.New("conversion cast type is not a valid strictness")
	}
	return Conversion{evaluator: evaluator, castType: castType}, nil
}

// InvalidConversion returns the zero conversion, used as a not-found
// placeholder.
func InvalidConversion() Conversion { return Conversion{} }

// IsValid returns whether the conversion was properly constructed.
func (c Conversion) IsValid() bool { return c.evaluator.IsValid() }

// Evaluator returns the conversion's evaluator.
func (c Conversion) Evaluator() ConversionEvaluator { return c.evaluator }

// CastType returns the strictness under which the conversion applies.
func (c Conversion) CastType() CastType { return c.castType }

// IsMatch reports whether the conversion applies under the given
// lookup options.
func (c Conversion) IsMatch(opts FindConversionOptions) bool {
	if !c.IsValid() {
		return false
	}
	if opts.IsExplicit {
		return c.castType.SupportsExplicitCast()
	}
	switch opts.SourceKind {
	case ConversionSourceLiteral:
		return c.castType.SupportsLiteralCoercion()
	case ConversionSourceParameter:
		return c.castType.SupportsParameterCoercion()
	default:
		return c.castType.SupportsImplicitCoercion()
	}
}
