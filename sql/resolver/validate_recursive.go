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
	"strings"

	"github.com/georgewfraser/zetasql/ast"
	"github.com/georgewfraser/zetasql/sql"
)

// recursiveTermValidator walks the syntax tree of a recursive term and
// checks every reference to the alias under definition. A reference is
// only legal when no aggregation (GROUP BY, HAVING, aggregate calls,
// SELECT DISTINCT), analytic computation, LIMIT, ORDER BY, or table
// sample applies above it, and never inside a subquery expression, on
// the outer side of an outer join, in table function arguments, or in
// a nested WITH.
type recursiveTermValidator struct {
	r    *Resolver
	name string

	refs int

	inAggregate int
	inAnalytic  int
	inLimit     int
	inOrderBy   int
	inSample    int
	inSubquery  int
	inOuterJoin int
	inTVFArgs   int
	inWith      int

	// Aliases redefined by a nested WITH. References to them bind to
	// the inner definition and are not recursive references.
	shadowed map[string]bool
}

func validateRecursiveTerm(r *Resolver, term ast.QueryExpr, name string) {
	v := &recursiveTermValidator{r: r, name: name, shadowed: map[string]bool{}}
	v.queryExpr(term)
	if v.refs > 1 {
		r.throw(sql.ErrMultipleRecursiveRefs.New(name))
	}
}

func (v *recursiveTermValidator) sawRef() {
	switch {
	case v.inWith > 0:
		v.r.throw(sql.ErrRecursiveRefInNestedWith.New(v.name))
	case v.inAggregate > 0:
		v.r.throw(sql.ErrRecursiveRefNotAllowed.New(v.name, "under aggregation"))
	case v.inAnalytic > 0:
		v.r.throw(sql.ErrRecursiveRefNotAllowed.New(v.name, "under an analytic function"))
	case v.inLimit > 0:
		v.r.throw(sql.ErrRecursiveRefNotAllowed.New(v.name, "under LIMIT"))
	case v.inOrderBy > 0:
		v.r.throw(sql.ErrRecursiveRefNotAllowed.New(v.name, "under ORDER BY"))
	case v.inSample > 0:
		v.r.throw(sql.ErrRecursiveRefNotAllowed.New(v.name, "under a TABLESAMPLE clause"))
	case v.inSubquery > 0:
		v.r.throw(sql.ErrRecursiveRefNotAllowed.New(v.name, "inside a subquery expression"))
	case v.inOuterJoin > 0:
		v.r.throw(sql.ErrRecursiveRefNotAllowed.New(v.name, "on the outer side of an outer join"))
	case v.inTVFArgs > 0:
		v.r.throw(sql.ErrRecursiveRefNotAllowed.New(v.name, "as a table function argument"))
	}
	v.refs++
}

// outerEntry checks whether the name resolves to a recursive alias
// still being defined in an enclosing query. Referencing one of those
// from a deeper recursive term is never allowed.
func (v *recursiveTermValidator) outerEntry(name string) {
	if v.shadowed[strings.ToLower(name)] {
		return
	}
	if e, ok := v.r.topEntry(name); ok && e.defining != nil {
		v.r.throw(sql.ErrOuterRecursiveRef.New(name))
	}
}

func (v *recursiveTermValidator) queryExpr(qe ast.QueryExpr) {
	switch body := qe.(type) {
	case *ast.Query:
		v.query(body)
	case *ast.SetOperation:
		for _, input := range body.Inputs {
			v.queryExpr(input)
		}
	case *ast.Select:
		v.selectStmt(body)
	}
}

func (v *recursiveTermValidator) query(q *ast.Query) {
	var unshadow []string
	if q.With != nil {
		v.inWith++
		for _, entry := range q.With.Entries {
			v.query(entry.Query)
			key := strings.ToLower(entry.Name)
			if !v.shadowed[key] {
				v.shadowed[key] = true
				unshadow = append(unshadow, key)
			}
		}
		v.inWith--
	}
	// ORDER BY and LIMIT apply above everything the body scans, so a
	// self-reference anywhere under them is illegal.
	ordered := len(q.OrderBy) > 0
	limited := q.Limit != nil || q.Offset != nil
	if ordered {
		v.inOrderBy++
	}
	if limited {
		v.inLimit++
	}
	v.queryExpr(q.Body)
	if limited {
		v.inLimit--
	}
	if ordered {
		v.inOrderBy--
	}
	v.inOrderBy++
	for _, item := range q.OrderBy {
		v.expr(item.Expr)
	}
	v.inOrderBy--
	v.inLimit++
	v.expr(q.Limit)
	v.expr(q.Offset)
	v.inLimit--
	for _, key := range unshadow {
		delete(v.shadowed, key)
	}
}

func (v *recursiveTermValidator) selectStmt(s *ast.Select) {
	// An aggregated or DISTINCT select computes above its FROM clause,
	// as does any analytic call in its select list.
	aggregated, analytic := v.selectScans(s)
	if aggregated {
		v.inAggregate++
	}
	if analytic {
		v.inAnalytic++
	}
	v.tableExpr(s.From)
	for _, item := range s.Items {
		if se, ok := item.(*ast.SelectExpr); ok {
			v.expr(se.Expr)
		}
	}
	v.expr(s.Where)
	for _, g := range s.GroupBy {
		v.expr(g)
	}
	v.expr(s.Having)
	if analytic {
		v.inAnalytic--
	}
	if aggregated {
		v.inAggregate--
	}
}

// selectScans reports whether the select aggregates its input or
// computes analytic functions over it. Subquery expressions are not
// entered; their clauses describe their own scans.
func (v *recursiveTermValidator) selectScans(s *ast.Select) (aggregated, analytic bool) {
	aggregated = len(s.GroupBy) > 0 || s.Having != nil || s.Distinct
	for _, item := range s.Items {
		if se, ok := item.(*ast.SelectExpr); ok {
			v.scanCalls(se.Expr, &aggregated, &analytic)
		}
	}
	v.scanCalls(s.Having, &aggregated, &analytic)
	return aggregated, analytic
}

func (v *recursiveTermValidator) scanCalls(e ast.Expr, aggregated, analytic *bool) {
	switch ex := e.(type) {
	case nil:
	case *ast.FuncCall:
		agg, anl := v.callKind(ex)
		if agg {
			*aggregated = true
		}
		if anl {
			*analytic = true
		}
		for _, arg := range ex.Args {
			v.scanCalls(arg, aggregated, analytic)
		}
	case *ast.UnaryExpr:
		v.scanCalls(ex.Expr, aggregated, analytic)
	case *ast.BinaryExpr:
		v.scanCalls(ex.Left, aggregated, analytic)
		v.scanCalls(ex.Right, aggregated, analytic)
	case *ast.CastExpr:
		v.scanCalls(ex.Expr, aggregated, analytic)
	case *ast.InExpr:
		v.scanCalls(ex.Expr, aggregated, analytic)
	}
}

func (v *recursiveTermValidator) tableExpr(te ast.TableExpr) {
	switch t := te.(type) {
	case nil:
	case *ast.TableRef:
		if len(t.Path) == 1 && strings.EqualFold(t.Path[0], v.name) &&
			!v.shadowed[strings.ToLower(t.Path[0])] {
			if t.Sample != nil {
				v.inSample++
				v.sawRef()
				v.inSample--
				return
			}
			v.sawRef()
			return
		}
		if len(t.Path) == 1 {
			v.outerEntry(t.Path[0])
		}
	case *ast.Join:
		leftOuter := t.Type == ast.RightJoin || t.Type == ast.FullJoin
		rightOuter := t.Type == ast.LeftJoin || t.Type == ast.FullJoin
		if leftOuter {
			v.inOuterJoin++
		}
		v.tableExpr(t.Left)
		if leftOuter {
			v.inOuterJoin--
		}
		if rightOuter {
			v.inOuterJoin++
		}
		v.tableExpr(t.Right)
		if rightOuter {
			v.inOuterJoin--
		}
		v.expr(t.On)
	case *ast.SubqueryTable:
		if t.Sample != nil {
			v.inSample++
			v.query(t.Query)
			v.inSample--
			return
		}
		v.query(t.Query)
	case *ast.TableFuncCall:
		v.inTVFArgs++
		for _, arg := range t.Args {
			v.expr(arg)
		}
		v.inTVFArgs--
	}
}

func (v *recursiveTermValidator) expr(e ast.Expr) {
	switch ex := e.(type) {
	case nil:
	case *ast.SubqueryExpr:
		v.inSubquery++
		v.query(ex.Query)
		v.inSubquery--
	case *ast.InExpr:
		v.expr(ex.Expr)
		v.inSubquery++
		v.query(ex.Query)
		v.inSubquery--
	case *ast.UnaryExpr:
		v.expr(ex.Expr)
	case *ast.BinaryExpr:
		v.expr(ex.Left)
		v.expr(ex.Right)
	case *ast.FuncCall:
		aggregate, analytic := v.callKind(ex)
		switch {
		case analytic:
			v.inAnalytic++
		case aggregate:
			v.inAggregate++
		}
		for _, arg := range ex.Args {
			v.expr(arg)
		}
		if ex.Over != nil {
			for _, p := range ex.Over.PartitionBy {
				v.expr(p)
			}
			for _, o := range ex.Over.OrderBy {
				v.expr(o.Expr)
			}
		}
		switch {
		case analytic:
			v.inAnalytic--
		case aggregate:
			v.inAggregate--
		}
	case *ast.CastExpr:
		v.expr(ex.Expr)
	}
}

func (v *recursiveTermValidator) callKind(call *ast.FuncCall) (aggregate, analytic bool) {
	if call.Over != nil {
		return false, true
	}
	if fn, ok := v.r.cat.Function(call.Name); ok {
		return fn.IsAggregate, fn.IsAnalytic
	}
	return false, false
}
