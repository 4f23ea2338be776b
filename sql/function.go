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

// anyType is a signature placeholder that accepts an argument of any
// type. It never appears in resolved output.
type anyType struct{}

// AnyType matches any argument type in a function signature.
var AnyType Type = anyType{}

func (anyType) Kind() TypeKind { return TypeKindUnknown }

func (anyType) String() string { return "ANY" }

func (anyType) Equals(other Type) bool {
	_, ok := other.(anyType)
	return ok
}

func (t anyType) Equivalent(other Type) bool { return t.Equals(other) }

// FunctionSignature is one overload of a catalog function.
type FunctionSignature struct {
	// Args are the expected argument types. AnyType entries accept any
	// argument.
	Args []Type
	// Variadic allows the last entry of Args to repeat zero or more
	// times.
	Variadic bool
	// Result is the type the call produces.
	Result Type
	// ResultFn computes the result type from the concrete argument
	// types. Overrides Result when set.
	ResultFn func(args []Type) Type
}

// Function is a scalar, aggregate or analytic function known to the
// catalog.
type Function struct {
	Name       string
	Signatures []FunctionSignature
	// IsAggregate marks functions evaluated across grouped rows.
	IsAggregate bool
	// IsAnalytic marks functions that require an OVER clause.
	IsAnalytic bool
	// Deprecated carries a warning message reported once per statement
	// when set.
	Deprecated string
}

// SignatureArgument describes one call argument for signature
// matching.
type SignatureArgument struct {
	Type Type
	// Kind widens the set of usable coercions for literal and
	// parameter arguments.
	Kind ConversionSourceKind
	// Untyped marks a NULL literal with no type of its own. It matches
	// any signature argument.
	Untyped bool
}

// TableArgumentCoercion maps the columns of a table-valued argument to
// the types a table function requires. Exactly one of ByPosition and
// ByName is set, never both.
type TableArgumentCoercion struct {
	ByPosition []Type
	ByName     map[string]Type
}

// SignatureMatch is the outcome of matching call arguments against a
// function's overloads.
type SignatureMatch struct {
	// Index is the position of the chosen signature.
	Index int
	// ArgTypes are the types each argument coerces to.
	ArgTypes []Type
	// Result is the type the call produces.
	Result Type
	// TableArgs carry column coercions for table-valued arguments.
	TableArgs []TableArgumentCoercion
}

// SignatureMatcher selects a function overload for a set of call
// arguments.
type SignatureMatcher interface {
	// Match returns the best matching signature, or false if no
	// signature accepts the arguments.
	Match(fn *Function, args []SignatureArgument, coercer *Coercer) (SignatureMatch, bool)
}

type defaultSignatureMatcher struct{}

// DefaultSignatureMatcher matches by arity first and then by the
// number of coercions a signature requires, fewest winning. Earlier
// signatures win ties.
func DefaultSignatureMatcher() SignatureMatcher { return defaultSignatureMatcher{} }

func (defaultSignatureMatcher) Match(fn *Function, args []SignatureArgument, coercer *Coercer) (SignatureMatch, bool) {
	bestIdx := -1
	bestCost := 0
	var bestTypes []Type
	for i, sig := range fn.Signatures {
		types, cost, ok := matchSignature(sig, args, coercer)
		if !ok {
			continue
		}
		if bestIdx < 0 || cost < bestCost {
			bestIdx, bestCost, bestTypes = i, cost, types
		}
	}
	if bestIdx < 0 {
		return SignatureMatch{}, false
	}

	sig := fn.Signatures[bestIdx]
	result := sig.Result
	if sig.ResultFn != nil {
		result = sig.ResultFn(bestTypes)
	}
	return SignatureMatch{Index: bestIdx, ArgTypes: bestTypes, Result: result}, true
}

func matchSignature(sig FunctionSignature, args []SignatureArgument, coercer *Coercer) ([]Type, int, bool) {
	if sig.Variadic {
		if len(args) < len(sig.Args)-1 {
			return nil, 0, false
		}
	} else if len(args) != len(sig.Args) {
		return nil, 0, false
	}

	types := make([]Type, len(args))
	cost := 0
	for i, arg := range args {
		target := sig.Args[min(i, len(sig.Args)-1)]
		if target.Equals(AnyType) {
			if arg.Untyped {
				// An untyped NULL with nothing to coerce to defaults to
				// INT64.
				types[i] = Int64
			} else {
				types[i] = arg.Type
			}
			continue
		}
		if arg.Untyped {
			types[i] = target
			continue
		}
		if arg.Type.Equals(target) {
			types[i] = target
			continue
		}
		if !coercer.CoercesTo(arg.Type, target, arg.Kind, false) {
			return nil, 0, false
		}
		types[i] = target
		cost++
	}
	return types, cost, true
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
