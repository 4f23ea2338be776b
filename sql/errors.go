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

import "gopkg.in/src-d/go-errors.v1"

// Semantic errors thrown during resolution. By convention the first
// format argument is the source position of the offending syntax node.
var (
	// ErrTableNotFound is returned when a table reference matches
	// neither a visible WITH alias nor a catalog table.
	ErrTableNotFound = errors.NewKind("%s: table not found: %s")

	// ErrColumnNotFound is returned when an identifier does not resolve
	// in any scope.
	ErrColumnNotFound = errors.NewKind("%s: unrecognized name: %s")

	// ErrAmbiguousColumnName is returned when an identifier matches more
	// than one visible column.
	ErrAmbiguousColumnName = errors.NewKind("%s: column name %s is ambiguous")

	// ErrAmbiguousName is returned when an identifier matches both a
	// range variable and a column.
	ErrAmbiguousName = errors.NewKind("%s: name %s is ambiguous inside this scope")

	// ErrFieldNotFound is returned when a path expression steps into a
	// type that has no such field.
	ErrFieldNotFound = errors.NewKind("%s: field %s does not exist in %s")

	// ErrFieldAccessOnScalar is returned when a path expression steps
	// into a non-struct type.
	ErrFieldAccessOnScalar = errors.NewKind("%s: cannot access field %s on a value of type %s")

	// ErrTypeNotFound is returned when a type name matches neither a
	// built-in type nor a catalog type.
	ErrTypeNotFound = errors.NewKind("%s: type not found: %s")

	// ErrFunctionNotFound is returned for calls to functions the catalog
	// does not know.
	ErrFunctionNotFound = errors.NewKind("%s: function not found: %s")

	// ErrTableFunctionNotFound is returned for table function calls the
	// catalog does not know.
	ErrTableFunctionNotFound = errors.NewKind("%s: table function not found: %s")

	// ErrNoMatchingSignature is returned when no overload of a function
	// accepts the call's argument types.
	ErrNoMatchingSignature = errors.NewKind("%s: no matching signature for function %s for argument types %s")

	// ErrDuplicateAliasOrTable is returned when two FROM items expose
	// the same name.
	ErrDuplicateAliasOrTable = errors.NewKind("%s: duplicate table alias %s in the same FROM clause")

	// ErrTypeMismatch is returned when an expression cannot be coerced
	// to the type its context requires.
	ErrTypeMismatch = errors.NewKind("%s: expected type %s, found %s")

	// ErrAggregateInAggregate is returned for aggregate calls nested
	// inside another aggregate call's arguments.
	ErrAggregateInAggregate = errors.NewKind("%s: aggregate function %s cannot be nested inside another aggregate function")

	// ErrAggregateNotAllowed is returned when an aggregate call appears
	// in a clause that cannot contain one.
	ErrAggregateNotAllowed = errors.NewKind("%s: aggregate function %s is not allowed in %s")

	// ErrAnalyticNotAllowed is returned when an analytic call appears in
	// a clause that cannot contain one.
	ErrAnalyticNotAllowed = errors.NewKind("%s: analytic function %s is not allowed in %s")

	// ErrNotAggregated is returned when a post-GROUP BY expression
	// references a column that is neither grouped nor aggregated.
	ErrNotAggregated = errors.NewKind("%s: column %s is neither grouped nor aggregated")

	// ErrOrdinalOutOfRange is returned for GROUP BY and ORDER BY
	// ordinals outside 1..len(select list).
	ErrOrdinalOutOfRange = errors.NewKind("%s: position %d is not in the select list, which has %d items")

	// ErrOrderByNotInDistinct is returned when ORDER BY needs an
	// expression that is not part of the SELECT DISTINCT output.
	ErrOrderByNotInDistinct = errors.NewKind("%s: ORDER BY expression references a column which is not in the SELECT DISTINCT list")

	// ErrColumnCountMismatch is returned when set operation branches or
	// explicit CTE column lists disagree on width.
	ErrColumnCountMismatch = errors.NewKind("%s: expected %d columns, found %d")

	// ErrStarWithoutTables is returned for SELECT * with no FROM clause.
	ErrStarWithoutTables = errors.NewKind("%s: SELECT * must have a FROM clause")

	// ErrScalarSubqueryColumns is returned when a scalar subquery
	// produces more than one column.
	ErrScalarSubqueryColumns = errors.NewKind("%s: scalar subquery must produce exactly one column, found %d")

	// ErrUnsupportedSyntax is returned for constructs the resolver does
	// not handle.
	ErrUnsupportedSyntax = errors.NewKind("%s: unsupported syntax: %s")

	// ErrLiteralCastFailed wraps a cast evaluation failure at a
	// specific literal during static analysis.
	ErrLiteralCastFailed = errors.NewKind("%s: %s")

	// ErrMixedParameterStyles is returned when a statement mixes named
	// and positional parameters.
	ErrMixedParameterStyles = errors.NewKind("%s: cannot mix named and positional query parameters")
)

// Recursive CTE errors.
var (
	// ErrRecursiveWithoutUnion is returned when a WITH RECURSIVE entry's
	// body is not a set operation at its top level.
	ErrRecursiveWithoutUnion = errors.NewKind("%s: recursive query %s does not have the form <non-recursive term> UNION [ALL] <recursive term>")

	// ErrRecursiveRefInNonRecursiveTerm is returned when the
	// non-recursive term references the alias being defined.
	ErrRecursiveRefInNonRecursiveTerm = errors.NewKind("%s: table %s cannot be referenced inside its own non-recursive term")

	// ErrMultipleRecursiveRefs is returned when a recursive term
	// references its own query more than once.
	ErrMultipleRecursiveRefs = errors.NewKind("recursive query %s must reference itself exactly once in its recursive term")

	// ErrRecursiveRefNotAllowed is returned when a self-reference sits
	// under a construct that breaks incremental evaluation.
	ErrRecursiveRefNotAllowed = errors.NewKind("recursive reference to %s cannot appear %s")

	// ErrOuterRecursiveRef is returned for references to an enclosing
	// recursive query other than the one being defined.
	ErrOuterRecursiveRef = errors.NewKind("recursive reference to outer query %s is not allowed")

	// ErrRecursiveRefInNestedWith is returned for self-references nested
	// inside another WITH entry.
	ErrRecursiveRefInNestedWith = errors.NewKind("recursive reference to %s cannot be nested inside another WITH entry")
)

// Cast and coercion errors. These carry no source position; the
// resolver attaches one when a cast is evaluated against a literal.
var (
	// ErrUnsupportedCast is returned when the compatibility table has no
	// entry for the requested kind pair, or when structurally
	// incompatible composite types are cast.
	ErrUnsupportedCast = errors.NewKind("unsupported cast from %s to %s")

	// ErrUnimplementedCast signals a populated table entry with no
	// evaluator arm. It indicates a bug in this package, never bad user
	// input.
	ErrUnimplementedCast = errors.NewKind("unimplemented cast from %s to %s")

	// ErrCastOutOfRange is returned when a numeric conversion overflows
	// the destination type.
	ErrCastOutOfRange = errors.NewKind("value %v out of range for %s")

	// ErrCastParse is returned when a string does not parse as the
	// destination type.
	ErrCastParse = errors.NewKind("could not cast %q to %s")

	// ErrStructCastArity is returned when struct cast field counts
	// differ.
	ErrStructCastArity = errors.NewKind("cannot cast struct with %d fields to struct with %d fields")

	// ErrInvalidUTF8 is returned when bytes are cast to string but are
	// not well-formed UTF-8.
	ErrInvalidUTF8 = errors.NewKind("invalid cast of bytes to UTF8 string")

	// ErrProtoConversion is returned when proto bytes or text cannot be
	// parsed or serialized through the message schema.
	ErrProtoConversion = errors.NewKind("invalid cast %s %s: %s")

	// ErrInvalidCastValue is returned when CastValue receives an
	// improperly constructed value.
	ErrInvalidCastValue = errors.NewKind("cannot cast an invalid value")
)

// Configuration errors. These indicate the embedding engine is
// misconfigured and are never triggered by user input.
var (
	// ErrExtendedCastNotConfigured is returned when a cast touches an
	// extended type but no conversion lookup was supplied.
	ErrExtendedCastNotConfigured = errors.NewKind("attempt to cast a value of extended type %s without a conversion source configured")

	// ErrInvalidConversion is returned when an invalid Conversion or
	// ConversionEvaluator is used.
	ErrInvalidConversion = errors.NewKind("attempt to cast a value using an invalid conversion")

	// ErrConversionSourceType is returned when a conversion evaluator is
	// fed a value whose type differs from the conversion's source type.
	ErrConversionSourceType = errors.NewKind("type of cast value %s does not match the source type of the conversion %s")
)

// ErrResolutionDepthExceeded guards against stack exhaustion on deeply
// nested statements.
var ErrResolutionDepthExceeded = errors.NewKind("statement is too deeply nested to analyze")

// StackOverflowError is built once so reporting resolution-depth
// exhaustion performs no allocation at the point of failure.
var StackOverflowError = ErrResolutionDepthExceeded.New()
