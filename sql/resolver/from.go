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

// resolveFrom resolves a FROM clause into a plan subtree and the name
// list it makes visible to the rest of the select.
func (r *Resolver) resolveFrom(ctx *sql.Context, from ast.TableExpr, s *scope) (sql.Node, *nameList) {
	if from == nil {
		return plan.NewSingleRow(), &nameList{}
	}
	span, ctx := ctx.Span("resolve_from")
	defer span.Finish()
	return r.resolveTableExpr(ctx, from, s)
}

func (r *Resolver) resolveTableExpr(ctx *sql.Context, te ast.TableExpr, s *scope) (sql.Node, *nameList) {
	switch t := te.(type) {
	case *ast.TableRef:
		return r.resolveTableRef(ctx, t, s)
	case *ast.Join:
		return r.resolveJoin(ctx, t, s)
	case *ast.SubqueryTable:
		return r.resolveSubqueryTable(ctx, t, s)
	case *ast.TableFuncCall:
		return r.resolveTableFuncCall(ctx, t, s)
	default:
		r.throw(sql.ErrUnsupportedSyntax.New(te.Position(), "table expression"))
		return nil, nil
	}
}

func (r *Resolver) resolveTableRef(ctx *sql.Context, t *ast.TableRef, s *scope) (sql.Node, *nameList) {
	var node sql.Node
	var rv *rangeVariable

	name := t.Path[len(t.Path)-1]
	if entry, ok := r.topEntry(name); ok && len(t.Path) == 1 {
		switch {
		case entry.poisoned:
			r.throw(sql.ErrTableNotFound.New(t.Position(), name))
		case entry.defining != nil:
			node, rv = r.expandRecursiveRef(entry.defining, t.Alias)
		default:
			node, rv = r.expandNamedSubquery(entry.sub, t.Alias)
		}
	} else {
		table, ok := r.cat.Table(t.Path)
		if !ok {
			r.throw(sql.ErrTableNotFound.New(t.Position(), strings.Join(t.Path, ".")))
		}
		node, rv = r.scanTable(table, t.Alias)
	}

	node = r.applySample(ctx, t.Sample, node, s)
	list := &nameList{}
	r.addRangeVariable(t.Position(), list, rv)
	return node, list
}

// scanTable builds a scan over a catalog table with freshly allocated
// column ids. A value table contributes a single unnamed column of the
// table's row type instead of one column per declared field.
func (r *Resolver) scanTable(table *sql.Table, alias string) (sql.Node, *rangeVariable) {
	name := alias
	if name == "" {
		name = table.Name
	}
	cols := make(sql.Schema, len(table.Columns))
	for i, tc := range table.Columns {
		cols[i] = r.nextColumn(name, tc.Name, tc.Type)
	}
	rv := &rangeVariable{name: name, columns: cols, isValueTable: table.IsValueTable}
	return plan.NewResolvedTable(table, cols), rv
}

// expandRecursiveRef instantiates the self-reference inside a
// recursive term as a scan of the rows produced so far.
func (r *Resolver) expandRecursiveRef(def *recursiveDef, alias string) (sql.Node, *rangeVariable) {
	def.refs++
	name := alias
	if name == "" {
		name = def.name
	}
	cols := make(sql.Schema, len(def.columns))
	for i, col := range def.columns {
		cols[i] = r.nextColumn(name, col.Name, col.Type)
	}
	return plan.NewRecursiveTable(def.uniqueName, cols), &rangeVariable{name: name, columns: cols}
}

func (r *Resolver) resolveSubqueryTable(ctx *sql.Context, t *ast.SubqueryTable, s *scope) (sql.Node, *nameList) {
	sub, boundary := s.subqueryScope()
	node, inner := r.resolveQuery(ctx, t.Query, sub)
	if len(boundary.cols) > 0 {
		r.throw(sql.ErrUnsupportedSyntax.New(t.Position(), "correlated table subquery"))
	}

	name := t.Alias
	if name == "" {
		r.cteCounter++
		name = fmt.Sprintf("$subquery%d", r.cteCounter)
	}
	cols := inner.columns()
	node = plan.NewSubqueryAlias(name, cols, node)
	node = r.applySample(ctx, t.Sample, node, s)
	list := &nameList{}
	r.addRangeVariable(t.Position(), list, &rangeVariable{name: name, columns: cols})
	return node, list
}

func (r *Resolver) resolveTableFuncCall(ctx *sql.Context, t *ast.TableFuncCall, s *scope) (sql.Node, *nameList) {
	tf, ok := r.cat.TableFunction(t.Name)
	if !ok {
		r.throw(sql.ErrTableFunctionNotFound.New(t.Position(), t.Name))
	}

	args := make([]sql.Expression, len(t.Args))
	for i, arg := range t.Args {
		args[i] = r.resolveScalar(ctx, arg, s)
	}
	if len(args) != len(tf.Args) {
		r.throw(sql.ErrNoMatchingSignature.New(t.Position(), t.Name, formatTypes(exprTypes(args))))
	}
	for i := range args {
		args[i] = r.coerceTo(t.Args[i].Position(), args[i], tf.Args[i])
	}

	name := t.Alias
	if name == "" {
		name = t.Name
	}
	cols := make(sql.Schema, len(tf.Columns))
	for i, tc := range tf.Columns {
		cols[i] = r.nextColumn(name, tc.Name, tc.Type)
	}
	rv := &rangeVariable{name: name, columns: cols, isValueTable: tf.IsValueTable}
	list := &nameList{}
	r.addRangeVariable(t.Position(), list, rv)
	return plan.NewTableFunctionScan(t.Name, cols, args...), list
}

func (r *Resolver) resolveJoin(ctx *sql.Context, j *ast.Join, s *scope) (sql.Node, *nameList) {
	left, leftList := r.resolveTableExpr(ctx, j.Left, s)
	right, rightList := r.resolveTableExpr(ctx, j.Right, s)

	for _, rv := range rightList.rangeVars {
		if leftList.rangeVariable(rv.name) != nil {
			r.throw(sql.ErrDuplicateAliasOrTable.New(j.Position(), rv.name))
		}
	}
	list := leftList.merge(rightList)

	var condition sql.Expression
	switch {
	case len(j.Using) > 0:
		condition = r.resolveUsing(j, leftList, rightList, list)
	case j.On != nil:
		joinScope := s.child(list)
		cond := r.resolveScalar(ctx, j.On, joinScope)
		condition = r.coerceTo(j.On.Position(), cond, sql.Bool)
	case j.Type != ast.CrossJoin && j.Type != ast.InnerJoin:
		r.throw(sql.ErrUnsupportedSyntax.New(j.Position(), "outer join without a join condition"))
	}

	return plan.NewJoin(joinPlanType(j.Type), left, right, condition), list
}

// resolveUsing builds the equality condition for JOIN USING and hides
// the right side's copies of the named columns, so an unqualified
// reference binds to the left side only.
func (r *Resolver) resolveUsing(j *ast.Join, leftList, rightList, list *nameList) sql.Expression {
	var condition sql.Expression
	for _, name := range j.Using {
		lcol := r.usingColumn(j.Position(), leftList, name)
		rcol := r.usingColumn(j.Position(), rightList, name)
		if !r.coercer.CoercesTo(lcol.Type, rcol.Type, sql.ConversionSourceGeneral, false) &&
			!r.coercer.CoercesTo(rcol.Type, lcol.Type, sql.ConversionSourceGeneral, false) {
			r.throw(sql.ErrTypeMismatch.New(j.Position(), rcol.Type, lcol.Type))
		}

		eq := expression.NewEquals(expression.NewColumnRef(lcol), expression.NewColumnRef(rcol))
		if condition == nil {
			condition = eq
		} else {
			condition = expression.NewAnd(condition, eq)
		}
		list.hideColumn(rcol.ID)
	}
	return condition
}

func (r *Resolver) usingColumn(pos ast.Position, list *nameList, name string) sql.Column {
	entries := list.findColumn(name)
	switch len(entries) {
	case 0:
		r.throw(sql.ErrColumnNotFound.New(pos, name))
	case 1:
	default:
		r.throw(sql.ErrAmbiguousColumnName.New(pos, name))
	}
	return entries[0].col
}

// addRangeVariable registers a range variable in the list, rejecting
// duplicate names within the same FROM clause.
func (r *Resolver) addRangeVariable(pos ast.Position, list *nameList, rv *rangeVariable) {
	if list.rangeVariable(rv.name) != nil {
		r.throw(sql.ErrDuplicateAliasOrTable.New(pos, rv.name))
	}
	list.addRangeVariable(rv)
}

// applySample wraps the node in a sample operator. The sample size
// resolves against the enclosing scope; the sampled table's own columns
// are not visible to it.
func (r *Resolver) applySample(ctx *sql.Context, sample *ast.TableSample, node sql.Node, s *scope) sql.Node {
	if sample == nil {
		return node
	}
	ss := *s
	ss.noAggregates = true
	ss.clause = "TABLESAMPLE clause"
	if sample.Rows != nil {
		rows := r.resolveScalar(ctx, sample.Rows, &ss)
		rows = r.coerceTo(sample.Rows.Position(), rows, sql.Int64)
		return plan.NewRowSample(sample.Method, rows, node)
	}
	percent := r.resolveScalar(ctx, sample.Percent, &ss)
	percent = r.coerceTo(sample.Percent.Position(), percent, sql.Float64)
	return plan.NewPercentSample(sample.Method, percent, node)
}

func joinPlanType(t ast.JoinType) plan.JoinType {
	switch t {
	case ast.CrossJoin:
		return plan.JoinCross
	case ast.LeftJoin:
		return plan.JoinLeft
	case ast.RightJoin:
		return plan.JoinRight
	case ast.FullJoin:
		return plan.JoinFull
	default:
		return plan.JoinInner
	}
}
