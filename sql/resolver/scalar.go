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

package resolver

import (
	"fmt"
	"strings"

	"github.com/georgewfraser/zetasql/ast"
	"github.com/georgewfraser/zetasql/sql"
	"github.com/georgewfraser/zetasql/sql/expression"
	"github.com/georgewfraser/zetasql/sql/plan"
)

// resolveScalar resolves an expression in the given scope.
func (r *Resolver) resolveScalar(ctx *sql.Context, e ast.Expr, s *scope) sql.Expression {
	defer r.enter()()

	switch ex := e.(type) {
	case *ast.NullLiteral:
		return expression.NewUntypedNull()
	case *ast.BoolLiteral:
		return expression.NewLiteral(sql.NewBool(ex.Value))
	case *ast.IntLiteral:
		return expression.NewLiteral(sql.NewInt64(ex.Value))
	case *ast.FloatLiteral:
		return expression.NewLiteral(sql.NewFloat64(ex.Value))
	case *ast.StringLiteral:
		return expression.NewLiteral(sql.NewString(ex.Value))
	case *ast.BytesLiteral:
		return expression.NewLiteral(sql.NewBytes(ex.Value))
	case *ast.TypedLiteral:
		return r.resolveTypedLiteral(ex)
	case *ast.Identifier:
		return s.resolveName(ex.Position(), ex.Parts)
	case *ast.UnaryExpr:
		return r.resolveUnary(ctx, ex, s)
	case *ast.BinaryExpr:
		return r.resolveBinary(ctx, ex, s)
	case *ast.FuncCall:
		return r.resolveFuncCall(ctx, ex, s)
	case *ast.CastExpr:
		return r.resolveCast(ctx, ex, s)
	case *ast.SubqueryExpr:
		return r.resolveSubqueryExpr(ctx, ex, s)
	case *ast.InExpr:
		return r.resolveInExpr(ctx, ex, s)
	case *ast.Parameter:
		return r.resolveParameter(ex)
	default:
		r.throw(sql.ErrUnsupportedSyntax.New(e.Position(), "expression"))
		return nil
	}
}

// tryResolveScalar resolves an expression, reporting failure instead
// of aborting the statement. Parameter bookkeeping is rolled back so a
// failed attempt leaves no trace.
func (r *Resolver) tryResolveScalar(ctx *sql.Context, e ast.Expr, s *scope) (expr sql.Expression, ok bool) {
	positional := len(r.positionalParams)
	defer func() {
		r.positionalParams = r.positionalParams[:positional]
		r.positionalConstrained = r.positionalConstrained[:positional]
		if rec := recover(); rec != nil {
			if _, isResolve := rec.(resolveErr); !isResolve {
				panic(rec)
			}
			expr, ok = nil, false
		}
	}()
	return r.resolveScalar(ctx, e, s), true
}

// resolveTypedLiteral folds a literal like DATE '2024-01-05' by
// casting its string form at resolution time.
func (r *Resolver) resolveTypedLiteral(lit *ast.TypedLiteral) sql.Expression {
	to, ok := simpleTypeNamed(lit.TypeName)
	if !ok {
		r.throw(sql.ErrTypeNotFound.New(lit.Position(), lit.TypeName))
	}
	v, err := sql.CastValue(sql.NewString(lit.Value), to, r.castOptions())
	if err != nil {
		r.throw(sql.ErrLiteralCastFailed.New(lit.Position(), err))
	}
	return expression.NewLiteral(v)
}

func (r *Resolver) resolveUnary(ctx *sql.Context, ex *ast.UnaryExpr, s *scope) sql.Expression {
	child := r.resolveScalar(ctx, ex.Expr, s)
	switch strings.ToUpper(ex.Op) {
	case "NOT":
		return expression.NewNot(r.coerceTo(ex.Position(), child, sql.Bool))
	case "+":
		r.requireNumeric(ex.Position(), child)
		return child
	case "-":
		r.requireNumeric(ex.Position(), child)
		if lit, ok := child.(*expression.Literal); ok && !lit.Value().IsNull() {
			if v, ok := negateValue(lit.Value()); ok {
				return expression.NewLiteral(v)
			}
		}
		return expression.NewNegate(child)
	default:
		r.throw(sql.ErrUnsupportedSyntax.New(ex.Position(), fmt.Sprintf("operator %s", ex.Op)))
		return nil
	}
}

func negateValue(v sql.Value) (sql.Value, bool) {
	switch v.Kind() {
	case sql.TypeKindInt64:
		return sql.NewInt64(-v.Int64Value()), true
	case sql.TypeKindFloat64:
		return sql.NewFloat64(-v.Float64Value()), true
	case sql.TypeKindNumeric:
		return sql.NewNumeric(v.NumericValue().Neg()), true
	}
	return sql.Value{}, false
}

func (r *Resolver) requireNumeric(pos ast.Position, expr sql.Expression) {
	if lit, ok := expr.(*expression.Literal); ok && lit.IsUntypedNull() {
		return
	}
	if !expr.Type().Kind().IsNumeric() {
		r.throw(sql.ErrTypeMismatch.New(pos, sql.Int64, expr.Type()))
	}
}

func (r *Resolver) resolveBinary(ctx *sql.Context, ex *ast.BinaryExpr, s *scope) sql.Expression {
	op := strings.ToUpper(ex.Op)
	left := r.resolveScalar(ctx, ex.Left, s)
	right := r.resolveScalar(ctx, ex.Right, s)

	switch op {
	case "AND":
		return expression.NewAnd(
			r.coerceTo(ex.Left.Position(), left, sql.Bool),
			r.coerceTo(ex.Right.Position(), right, sql.Bool))
	case "OR":
		return expression.NewOr(
			r.coerceTo(ex.Left.Position(), left, sql.Bool),
			r.coerceTo(ex.Right.Position(), right, sql.Bool))
	case "=", "!=", "<>", "<", "<=", ">", ">=":
		t := r.commonType(ex.Position(), left, right)
		return expression.NewComparison(op,
			r.coerceTo(ex.Left.Position(), left, t),
			r.coerceTo(ex.Right.Position(), right, t))
	case "+", "-", "*":
		t := r.commonType(ex.Position(), left, right)
		if !t.Kind().IsNumeric() {
			r.throw(sql.ErrTypeMismatch.New(ex.Position(), sql.Int64, t))
		}
		return expression.NewArithmetic(op,
			r.coerceTo(ex.Left.Position(), left, t),
			r.coerceTo(ex.Right.Position(), right, t), t)
	case "/":
		// Division always produces DOUBLE, except NUMERIC operands
		// which stay NUMERIC.
		t := sql.Type(sql.Float64)
		if left.Type().Kind() == sql.TypeKindNumeric || right.Type().Kind() == sql.TypeKindNumeric {
			t = sql.Numeric
		}
		return expression.NewArithmetic(op,
			r.coerceTo(ex.Left.Position(), left, t),
			r.coerceTo(ex.Right.Position(), right, t), t)
	default:
		r.throw(sql.ErrUnsupportedSyntax.New(ex.Position(), fmt.Sprintf("operator %s", ex.Op)))
		return nil
	}
}

// commonType finds the supertype two operands both coerce to. Untyped
// NULLs and parameters without an inferred type yet adopt the other
// operand's type.
func (r *Resolver) commonType(pos ast.Position, left, right sql.Expression) sql.Type {
	lt, rt := left.Type(), right.Type()
	if lit, ok := left.(*expression.Literal); ok && lit.IsUntypedNull() {
		return rt
	}
	if lit, ok := right.(*expression.Literal); ok && lit.IsUntypedNull() {
		return lt
	}
	lp, lok := left.(*expression.Parameter)
	rp, rok := right.(*expression.Parameter)
	lOpen := lok && !r.parameterConstrained(lp)
	rOpen := rok && !r.parameterConstrained(rp)
	if lOpen && !rOpen {
		return rt
	}
	if rOpen && !lOpen {
		return lt
	}
	t, ok := r.coercer.Supertype(lt, rt)
	if !ok {
		r.throw(sql.ErrTypeMismatch.New(pos, lt, rt))
	}
	return t
}

func (r *Resolver) resolveFuncCall(ctx *sql.Context, ex *ast.FuncCall, s *scope) sql.Expression {
	fn, ok := r.cat.Function(ex.Name)
	if !ok {
		r.throw(sql.ErrFunctionNotFound.New(ex.Position(), ex.Name))
	}
	if fn.Deprecated != "" {
		r.warn(ctx, WarnDeprecation, fmt.Sprintf("function %s is deprecated: %s", fn.Name, fn.Deprecated))
	}

	if ex.Over != nil || fn.IsAnalytic {
		return r.resolveAnalyticCall(ctx, ex, fn, s)
	}
	if fn.IsAggregate {
		return r.resolveAggregateCall(ctx, ex, fn, s)
	}

	if ex.Distinct {
		r.throw(sql.ErrUnsupportedSyntax.New(ex.Position(), "DISTINCT in a non-aggregate function call"))
	}
	args := r.resolveCallArgs(ctx, ex, s)
	match := r.matchCall(ex, fn, args)
	return expression.NewFunctionCall(fn.Name, match.Result, r.coerceArgs(ex, args, match)...)
}

func (r *Resolver) resolveAggregateCall(ctx *sql.Context, ex *ast.FuncCall, fn *sql.Function, s *scope) sql.Expression {
	if s.inAggregateArgs {
		r.throw(sql.ErrAggregateInAggregate.New(ex.Position(), fn.Name))
	}
	if s.noAggregates || s.groups == nil {
		r.throw(sql.ErrAggregateNotAllowed.New(ex.Position(), fn.Name, clauseName(s)))
	}

	argScope := *s
	argScope.inAggregateArgs = true
	args := r.resolveCallArgs(ctx, ex, &argScope)
	match := r.matchCall(ex, fn, args)

	call := expression.NewAggregateFunctionCall(fn.Name, match.Result, ex.Distinct,
		r.coerceArgs(ex, args, match)...)
	col := s.groups.addAggregate(r, strings.ToLower(fn.Name), call)
	return expression.NewColumnRef(col)
}

func (r *Resolver) resolveAnalyticCall(ctx *sql.Context, ex *ast.FuncCall, fn *sql.Function, s *scope) sql.Expression {
	if fn.IsAnalytic && ex.Over == nil {
		r.throw(sql.ErrUnsupportedSyntax.New(ex.Position(),
			fmt.Sprintf("analytic function %s without an OVER clause", fn.Name)))
	}
	if s.inAggregateArgs {
		r.throw(sql.ErrAnalyticNotAllowed.New(ex.Position(), fn.Name, "aggregate function arguments"))
	}
	if !s.allowAnalytic {
		r.throw(sql.ErrAnalyticNotAllowed.New(ex.Position(), fn.Name, clauseName(s)))
	}
	if ex.Distinct {
		r.throw(sql.ErrUnsupportedSyntax.New(ex.Position(), "DISTINCT in an analytic function call"))
	}

	args := r.resolveCallArgs(ctx, ex, s)
	match := r.matchCall(ex, fn, args)

	var partitionBy []sql.Expression
	var orderBy []expression.SortField
	if ex.Over != nil {
		for _, p := range ex.Over.PartitionBy {
			partitionBy = append(partitionBy, r.resolveGroupedScalar(ctx, p, s))
		}
		for _, o := range ex.Over.OrderBy {
			orderBy = append(orderBy, expression.SortField{
				Column: r.resolveGroupedScalar(ctx, o.Expr, s),
				Desc:   o.Desc,
			})
		}
	}
	return expression.NewAnalyticFunctionCall(fn.Name, match.Result,
		r.coerceArgs(ex, args, match), partitionBy, orderBy)
}

func (r *Resolver) resolveCallArgs(ctx *sql.Context, ex *ast.FuncCall, s *scope) []sql.Expression {
	args := make([]sql.Expression, len(ex.Args))
	for i, arg := range ex.Args {
		args[i] = r.resolveGroupedScalar(ctx, arg, s)
	}
	return args
}

// matchCall selects the function overload for the resolved arguments.
func (r *Resolver) matchCall(ex *ast.FuncCall, fn *sql.Function, args []sql.Expression) sql.SignatureMatch {
	sigArgs := make([]sql.SignatureArgument, len(args))
	for i, arg := range args {
		sigArgs[i] = signatureArgument(arg)
	}
	match, ok := r.matcher.Match(fn, sigArgs, r.coercer)
	if !ok {
		r.throw(sql.ErrNoMatchingSignature.New(ex.Position(), fn.Name, formatTypes(exprTypes(args))))
	}
	return match
}

func signatureArgument(arg sql.Expression) sql.SignatureArgument {
	sa := sql.SignatureArgument{Type: arg.Type(), Kind: sql.ConversionSourceGeneral}
	switch e := arg.(type) {
	case *expression.Literal:
		sa.Kind = sql.ConversionSourceLiteral
		sa.Untyped = e.IsUntypedNull()
	case *expression.Parameter:
		sa.Kind = sql.ConversionSourceParameter
	}
	return sa
}

// coerceArgs casts the call arguments to the types the chosen
// signature expects.
func (r *Resolver) coerceArgs(ex *ast.FuncCall, args []sql.Expression, match sql.SignatureMatch) []sql.Expression {
	out := make([]sql.Expression, len(args))
	for i, arg := range args {
		out[i] = r.coerceTo(ex.Args[i].Position(), arg, match.ArgTypes[i])
	}
	return out
}

func (r *Resolver) resolveCast(ctx *sql.Context, ex *ast.CastExpr, s *scope) sql.Expression {
	to := r.resolveTypeName(ex.To)
	child := r.resolveScalar(ctx, ex.Expr, s)

	if lit, ok := child.(*expression.Literal); ok {
		if lit.IsUntypedNull() {
			return lit.WithType(to)
		}
		v, err := sql.CastValue(lit.Value(), to, r.castOptions())
		if err != nil {
			r.throw(sql.ErrLiteralCastFailed.New(ex.Position(), err))
		}
		return expression.NewLiteral(v)
	}

	if !r.coercer.CoercesTo(child.Type(), to, sql.ConversionSourceGeneral, true) {
		r.throw(sql.ErrTypeMismatch.New(ex.Position(), to, child.Type()))
	}
	return expression.NewCast(child, to)
}

func (r *Resolver) resolveSubqueryExpr(ctx *sql.Context, ex *ast.SubqueryExpr, s *scope) sql.Expression {
	sub, corr := s.subqueryScope()
	node, list := r.resolveQuery(ctx, ex.Query, sub)

	if ex.Exists {
		return plan.NewExistsSubquery(node, corr.cols)
	}
	if len(list.entries) != 1 {
		r.throw(sql.ErrScalarSubqueryColumns.New(ex.Position(), len(list.entries)))
	}
	return plan.NewSubquery(node, corr.cols)
}

// resolveInExpr resolves an IN test against a subquery. The tested
// value and the subquery column are both coerced to their supertype.
func (r *Resolver) resolveInExpr(ctx *sql.Context, ex *ast.InExpr, s *scope) sql.Expression {
	left := r.resolveScalar(ctx, ex.Expr, s)

	sub, corr := s.subqueryScope()
	node, list := r.resolveQuery(ctx, ex.Query, sub)
	if len(list.entries) != 1 {
		r.throw(sql.ErrScalarSubqueryColumns.New(ex.Position(), len(list.entries)))
	}
	col := node.Schema()[0]

	target := col.Type
	if lit, ok := left.(*expression.Literal); !ok || !lit.IsUntypedNull() {
		super, ok := r.coercer.Supertype(left.Type(), col.Type)
		if !ok {
			r.throw(sql.ErrTypeMismatch.New(ex.Position(), left.Type(), col.Type))
		}
		target = super
	}
	left = r.coerceTo(ex.Expr.Position(), left, target)
	if !col.Type.Equals(target) {
		to := node.Schema().Copy()
		to[0].Type = target
		node = r.coerceBranch(ex.Position(), node, node.Schema(), to)
	}
	return plan.NewInSubquery(left, plan.NewSubquery(node, corr.cols), ex.Not)
}

// resolveParameter resolves a query parameter reference. A parameter's
// type defaults to INT64 until a coercion assigns it a concrete one.
func (r *Resolver) resolveParameter(ex *ast.Parameter) sql.Expression {
	if ex.Name != "" {
		if r.sawPositional {
			r.throw(sql.ErrMixedParameterStyles.New(ex.Position()))
		}
		r.sawNamedParam = true
		key := strings.ToLower(ex.Name)
		typ, ok := r.namedParams[key]
		if !ok {
			typ = sql.Int64
			r.namedParams[key] = typ
		}
		return expression.NewNamedParameter(key, typ)
	}

	if r.sawNamedParam {
		r.throw(sql.ErrMixedParameterStyles.New(ex.Position()))
	}
	r.sawPositional = true
	for len(r.positionalParams) < ex.Ordinal {
		r.positionalParams = append(r.positionalParams, sql.Int64)
		r.positionalConstrained = append(r.positionalConstrained, false)
	}
	return expression.NewPositionalParameter(ex.Ordinal, r.positionalParams[ex.Ordinal-1])
}

// parameterConstrained reports whether a coercion context has fixed
// the parameter's type yet.
func (r *Resolver) parameterConstrained(p *expression.Parameter) bool {
	if p.Name() != "" {
		return r.namedConstrained[p.Name()]
	}
	return r.positionalConstrained[p.Ordinal()-1]
}

// coerceTo makes an expression produce the target type, folding
// literals and inserting casts for everything else. Coercions that the
// compatibility table does not allow for the expression's context are
// errors.
func (r *Resolver) coerceTo(pos ast.Position, expr sql.Expression, to sql.Type) sql.Expression {
	from := expr.Type()
	if from.Equals(to) {
		return expr
	}

	switch e := expr.(type) {
	case *expression.Literal:
		if e.IsUntypedNull() {
			return e.WithType(to)
		}
		if !r.coercer.CoercesTo(from, to, sql.ConversionSourceLiteral, false) {
			r.throw(sql.ErrTypeMismatch.New(pos, to, from))
		}
		v, err := sql.CastValue(e.Value(), to, r.castOptions())
		if err != nil {
			r.throw(sql.ErrLiteralCastFailed.New(pos, err))
		}
		return expression.NewLiteral(v)
	case *expression.Parameter:
		// A parameter without an inferred type adopts its first
		// coercion context outright; after that the usual parameter
		// coercion rules apply.
		if r.parameterConstrained(e) &&
			!r.coercer.CoercesTo(from, to, sql.ConversionSourceParameter, false) {
			r.throw(sql.ErrTypeMismatch.New(pos, to, from))
		}
		return r.retypeParameter(e, to)
	}

	if !r.coercer.CoercesTo(from, to, sql.ConversionSourceGeneral, false) {
		r.throw(sql.ErrTypeMismatch.New(pos, to, from))
	}
	return expression.NewCast(expr, to)
}

// retypeParameter narrows a parameter to the type its context demands
// and records the inference.
func (r *Resolver) retypeParameter(p *expression.Parameter, to sql.Type) sql.Expression {
	if p.Name() != "" {
		r.namedParams[p.Name()] = to
		r.namedConstrained[p.Name()] = true
		return expression.NewNamedParameter(p.Name(), to)
	}
	r.positionalParams[p.Ordinal()-1] = to
	r.positionalConstrained[p.Ordinal()-1] = true
	return expression.NewPositionalParameter(p.Ordinal(), to)
}

// resolveTypeName maps a syntactic type name to a type: built-in
// simple names first, then ARRAY and STRUCT shapes, then catalog
// types.
func (r *Resolver) resolveTypeName(tn *ast.TypeName) sql.Type {
	switch strings.ToUpper(tn.Name) {
	case "ARRAY":
		if tn.Elem == nil {
			r.throw(sql.ErrUnsupportedSyntax.New(tn.Position(), "ARRAY without an element type"))
		}
		return sql.CreateArrayType(r.resolveTypeName(tn.Elem))
	case "STRUCT":
		fields := make([]sql.StructField, len(tn.Fields))
		for i, f := range tn.Fields {
			fields[i] = sql.StructField{Name: f.Name, Type: r.resolveTypeName(f.Type)}
		}
		return sql.CreateStructType(fields...)
	}

	if t, ok := simpleTypeNamed(tn.Name); ok {
		return t
	}
	if t, ok := r.cat.LookupType(tn.Name); ok {
		return t
	}
	r.throw(sql.ErrTypeNotFound.New(tn.Position(), tn.Name))
	return nil
}

var simpleTypeNames = map[string]sql.Type{
	"BOOL":      sql.Bool,
	"BOOLEAN":   sql.Bool,
	"INT32":     sql.Int32,
	"INT64":     sql.Int64,
	"INT":       sql.Int64,
	"UINT32":    sql.Uint32,
	"UINT64":    sql.Uint64,
	"FLOAT":     sql.Float32,
	"FLOAT64":   sql.Float64,
	"DOUBLE":    sql.Float64,
	"NUMERIC":   sql.Numeric,
	"DECIMAL":   sql.Numeric,
	"STRING":    sql.String,
	"BYTES":     sql.Bytes,
	"DATE":      sql.Date,
	"TIME":      sql.Time,
	"DATETIME":  sql.Datetime,
	"TIMESTAMP": sql.Timestamp,
}

func simpleTypeNamed(name string) (sql.Type, bool) {
	t, ok := simpleTypeNames[strings.ToUpper(name)]
	return t, ok
}

func clauseName(s *scope) string {
	if s.clause != "" {
		return s.clause
	}
	return "this clause"
}

func exprTypes(exprs []sql.Expression) []sql.Type {
	types := make([]sql.Type, len(exprs))
	for i, e := range exprs {
		types[i] = e.Type()
	}
	return types
}

func formatTypes(types []sql.Type) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}
