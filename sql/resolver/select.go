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
	"github.com/georgewfraser/zetasql/sql/expression"
	"github.com/georgewfraser/zetasql/sql/plan"
)

// groupingInfo records the grouping keys and aggregate calls of an
// aggregated select, built up while its clauses resolve.
type groupingInfo struct {
	keys []plan.ComputedColumn
	// byID maps a pre-aggregation column id to the grouping key that
	// carries it past the GROUP BY.
	byID map[sql.ColumnID]sql.Column
	// byExpr maps the printed form of a grouping key expression to its
	// output column, so repeating the expression reuses the key.
	byExpr map[string]sql.Column

	aggs []plan.ComputedColumn
	// aggByExpr deduplicates identical aggregate calls.
	aggByExpr map[string]sql.Column
}

func newGroupingInfo() *groupingInfo {
	return &groupingInfo{
		byID:      make(map[sql.ColumnID]sql.Column),
		byExpr:    make(map[string]sql.Column),
		aggByExpr: make(map[string]sql.Column),
	}
}

// keyForColumn returns the grouping key column that carries the given
// input column, if the column is grouped.
func (g *groupingInfo) keyForColumn(id sql.ColumnID) (sql.Column, bool) {
	col, ok := g.byID[id]
	return col, ok
}

// addKey registers a grouping key and returns its output column.
func (g *groupingInfo) addKey(r *Resolver, expr sql.Expression) sql.Column {
	if col, ok := g.byExpr[expr.String()]; ok {
		return col
	}
	name := ""
	if ref, ok := expr.(*expression.ColumnRef); ok {
		name = ref.Name()
	}
	col := r.nextColumn("", name, expr.Type())
	g.keys = append(g.keys, plan.ComputedColumn{Col: col, Expr: expr})
	g.byExpr[expr.String()] = col
	if ref, ok := expr.(*expression.ColumnRef); ok && !ref.Correlated() {
		g.byID[ref.ID()] = col
	}
	return col
}

// addAggregate registers an aggregate call and returns the column that
// carries its result. Identical calls share a column.
func (g *groupingInfo) addAggregate(r *Resolver, name string, expr sql.Expression) sql.Column {
	if col, ok := g.aggByExpr[expr.String()]; ok {
		return col
	}
	col := r.nextColumn("", name, expr.Type())
	g.aggs = append(g.aggs, plan.ComputedColumn{Col: col, Expr: expr})
	g.aggByExpr[expr.String()] = col
	return col
}

// resolveQuery resolves a query, its WITH clause included, and returns
// the plan along with a name list describing its output columns.
func (r *Resolver) resolveQuery(ctx *sql.Context, q *ast.Query, s *scope) (sql.Node, *nameList) {
	defer r.enter()()

	if q.With != nil {
		pop := r.pushWith(ctx, q.With, s)
		defer pop()
	}

	if sel, ok := q.Body.(*ast.Select); ok {
		return r.resolveSelect(ctx, sel, q.OrderBy, q.Limit, q.Offset, s)
	}

	node, list := r.resolveQueryExpr(ctx, q.Body, s)
	if len(q.OrderBy) > 0 {
		fields := r.resolveOutputOrderBy(ctx, q.OrderBy, list, s)
		node = plan.NewSort(fields, node)
	}
	return r.applyLimit(ctx, q.Limit, q.Offset, node, s), list
}

func (r *Resolver) resolveQueryExpr(ctx *sql.Context, qe ast.QueryExpr, s *scope) (sql.Node, *nameList) {
	switch body := qe.(type) {
	case *ast.Query:
		return r.resolveQuery(ctx, body, s)
	case *ast.Select:
		return r.resolveSelect(ctx, body, nil, nil, nil, s)
	case *ast.SetOperation:
		return r.resolveSetOperationBranch(ctx, body, body.Inputs, s)
	default:
		r.throw(sql.ErrUnsupportedSyntax.New(qe.Position(), "query expression"))
		return nil, nil
	}
}

// resolveSetOperationBranch resolves some prefix of a set operation's
// inputs. Recursive queries use it to resolve the non-recursive terms
// on their own; everything else passes all inputs.
func (r *Resolver) resolveSetOperationBranch(ctx *sql.Context, op *ast.SetOperation, inputs []ast.QueryExpr, s *scope) (sql.Node, *nameList) {
	defer r.enter()()

	nodes := make([]sql.Node, len(inputs))
	lists := make([]*nameList, len(inputs))
	for i, input := range inputs {
		nodes[i], lists[i] = r.resolveQueryExpr(ctx, input, s)
	}
	if len(inputs) == 1 {
		return nodes[0], lists[0]
	}

	first := lists[0].columns()
	for i := 1; i < len(inputs); i++ {
		if len(lists[i].entries) != len(first) {
			r.throw(sql.ErrColumnCountMismatch.New(inputs[i].Position(),
				len(first), len(lists[i].entries)))
		}
	}

	// Each output column takes the supertype of the corresponding
	// input columns.
	types := make([]sql.Type, len(first))
	for j := range first {
		t := first[j].Type
		for i := 1; i < len(inputs); i++ {
			col := lists[i].entries[j].col
			super, ok := r.coercer.Supertype(t, col.Type)
			if !ok {
				r.throw(sql.ErrTypeMismatch.New(inputs[i].Position(), t, col.Type))
			}
			t = super
		}
		types[j] = t
	}

	out := make(sql.Schema, len(first))
	for j, col := range first {
		out[j] = r.nextColumn("", col.Name, types[j])
	}
	for i := range nodes {
		nodes[i] = r.coerceBranch(inputs[i].Position(), nodes[i], lists[i].columns(), out)
	}

	node := plan.NewSetOperation(setOpPlanType(op.Op), op.Distinct, out, nodes...)
	return node, listForOutput(out)
}

// coerceBranch wraps a set operation input in a projection that casts
// its columns to the target types where they differ.
func (r *Resolver) coerceBranch(pos ast.Position, node sql.Node, from, to sql.Schema) sql.Node {
	if len(from) != len(to) {
		r.throw(sql.ErrColumnCountMismatch.New(pos, len(to), len(from)))
	}
	needed := false
	for j := range from {
		if !from[j].Type.Equals(to[j].Type) {
			needed = true
			break
		}
	}
	if !needed {
		return node
	}

	projections := make([]plan.ComputedColumn, len(from))
	for j, col := range from {
		ref := expression.NewColumnRef(col)
		if col.Type.Equals(to[j].Type) {
			projections[j] = plan.ComputedColumn{Col: col, Expr: ref}
			continue
		}
		out := r.nextColumn(col.Table, col.Name, to[j].Type)
		projections[j] = plan.ComputedColumn{Col: out, Expr: expression.NewCast(ref, to[j].Type)}
	}
	return plan.NewProject(projections, node)
}

// resolveSelect resolves one SELECT block together with the ORDER BY
// and LIMIT of its enclosing query, which see its select list.
func (r *Resolver) resolveSelect(ctx *sql.Context, sel *ast.Select, orderBy []*ast.OrderByItem, limit, offset ast.Expr, s *scope) (sql.Node, *nameList) {
	defer r.enter()()
	span, ctx := ctx.Span("resolve_select")
	defer span.Finish()

	node, fromList := r.resolveFrom(ctx, sel.From, s)
	selScope := s.child(fromList)

	if sel.Where != nil {
		ws := *selScope
		ws.noAggregates = true
		ws.clause = "WHERE clause"
		cond := r.resolveScalar(ctx, sel.Where, &ws)
		cond = r.coerceTo(sel.Where.Position(), cond, sql.Bool)
		node = plan.NewFilter(cond, node)
	}

	grouped := len(sel.GroupBy) > 0 || sel.Having != nil ||
		r.selectHasAggregates(sel, orderBy)

	var g *groupingInfo
	if grouped {
		g = r.resolveGroupBy(ctx, sel, selScope)
		selScope = selScope.grouped(g)
	}

	projections, outList := r.resolveSelectItems(ctx, sel, fromList, selScope)

	var having sql.Expression
	if sel.Having != nil {
		hs := *selScope
		hs.clause = "HAVING clause"
		cond := r.resolveGroupedScalar(ctx, sel.Having, &hs)
		having = r.coerceTo(sel.Having.Position(), cond, sql.Bool)
	}

	sortFields, hidden := r.resolveOrderBy(ctx, orderBy, sel, projections, outList, selScope)
	projections = append(projections, hidden...)

	// Analytic calls compute between aggregation and projection.
	var window []plan.ComputedColumn
	for i := range projections {
		projections[i].Expr = r.extractAnalytic(projections[i].Expr, &window)
	}
	for i := range sortFields {
		sortFields[i].Column = r.extractAnalytic(sortFields[i].Column, &window)
	}

	if grouped {
		node = plan.NewGroupBy(g.keys, g.aggs, node)
	}
	if having != nil {
		node = plan.NewFilter(having, node)
	}
	if len(window) > 0 {
		node = plan.NewWindow(window, node)
	}
	node = plan.NewProject(projections, node)

	if sel.Distinct {
		node = r.planDistinct(projections, node)
	}
	if len(sortFields) > 0 {
		node = plan.NewSort(sortFields, node)
	}
	if len(hidden) > 0 {
		// Trim the columns added for ORDER BY back out.
		visible := projections[:len(projections)-len(hidden)]
		trimmed := make([]plan.ComputedColumn, len(visible))
		for i, p := range visible {
			trimmed[i] = plan.ComputedColumn{Col: p.Col, Expr: expression.NewColumnRef(p.Col)}
		}
		node = plan.NewProject(trimmed, node)
	}
	return r.applyLimit(ctx, limit, offset, node, s), outList
}

// planDistinct plans SELECT DISTINCT as an aggregation that groups by
// every output column.
func (r *Resolver) planDistinct(projections []plan.ComputedColumn, node sql.Node) sql.Node {
	keys := make([]plan.ComputedColumn, len(projections))
	for i, p := range projections {
		keys[i] = plan.ComputedColumn{Col: p.Col, Expr: expression.NewColumnRef(p.Col)}
	}
	return plan.NewGroupBy(keys, nil, node)
}

// resolveGroupBy resolves the GROUP BY keys. Keys may be expressions
// over the FROM columns, 1-based select list ordinals, or select list
// aliases.
func (r *Resolver) resolveGroupBy(ctx *sql.Context, sel *ast.Select, s *scope) *groupingInfo {
	g := newGroupingInfo()
	gs := *s
	gs.noAggregates = true
	gs.clause = "GROUP BY clause"

	for _, key := range sel.GroupBy {
		e := key
		if lit, ok := key.(*ast.IntLiteral); ok {
			e = r.selectItemExpr(sel, key.Position(), lit.Value)
		} else if id, ok := key.(*ast.Identifier); ok && len(id.Parts) == 1 {
			if alias := findAliasedItem(sel, id.Parts[0]); alias != nil {
				e = alias
			}
		}
		expr := r.resolveScalar(ctx, e, &gs)
		g.addKey(r, expr)
	}
	return g
}

// selectItemExpr returns the expression of the select item at the
// given 1-based ordinal.
func (r *Resolver) selectItemExpr(sel *ast.Select, pos ast.Position, ordinal int64) ast.Expr {
	if ordinal < 1 || ordinal > int64(len(sel.Items)) {
		r.throw(sql.ErrOrdinalOutOfRange.New(pos, ordinal, len(sel.Items)))
	}
	item, ok := sel.Items[ordinal-1].(*ast.SelectExpr)
	if !ok {
		r.throw(sql.ErrUnsupportedSyntax.New(pos, "ordinal reference to a star item"))
	}
	return item.Expr
}

func findAliasedItem(sel *ast.Select, name string) ast.Expr {
	for _, item := range sel.Items {
		if se, ok := item.(*ast.SelectExpr); ok && strings.EqualFold(se.Alias, name) {
			return se.Expr
		}
	}
	return nil
}

// resolveSelectItems resolves the select list into projections and the
// output name list. Stars expand to the visible FROM columns in order.
func (r *Resolver) resolveSelectItems(ctx *sql.Context, sel *ast.Select, fromList *nameList, s *scope) ([]plan.ComputedColumn, *nameList) {
	is := *s
	is.clause = "SELECT list"
	is.allowAnalytic = true

	var projections []plan.ComputedColumn
	outList := &nameList{}
	emit := func(name string, expr sql.Expression) {
		col := r.nextColumn("", name, expr.Type())
		projections = append(projections, plan.ComputedColumn{Col: col, Expr: expr})
		outList.entries = append(outList.entries, nameEntry{col: col})
	}

	for _, item := range sel.Items {
		switch it := item.(type) {
		case *ast.Star:
			if sel.From == nil {
				r.throw(sql.ErrStarWithoutTables.New(it.Position()))
			}
			for _, e := range fromList.entries {
				if e.hidden {
					continue
				}
				emit(e.col.Name, s.groupedRef(it.Position(), e.col, false))
			}
		case *ast.DotStar:
			r.expandDotStar(ctx, it, &is, emit)
		case *ast.SelectExpr:
			expr := r.resolveGroupedScalar(ctx, it.Expr, &is)
			emit(outputName(it, expr), expr)
		}
	}
	return projections, outList
}

// expandDotStar expands expr.* to one output column per field of the
// expression's struct type, or per column of the range variable.
func (r *Resolver) expandDotStar(ctx *sql.Context, it *ast.DotStar, s *scope, emit func(string, sql.Expression)) {
	if id, ok := it.Expr.(*ast.Identifier); ok && len(id.Parts) == 1 {
		if rv := s.list.rangeVariable(id.Parts[0]); rv != nil && !rv.isValueTable {
			for _, col := range rv.columns {
				emit(col.Name, s.groupedRef(it.Position(), col, false))
			}
			return
		}
	}

	expr := r.resolveGroupedScalar(ctx, it.Expr, s)
	st, ok := expr.Type().(*sql.StructType)
	if !ok {
		r.throw(sql.ErrFieldAccessOnScalar.New(it.Position(), "*", expr.Type()))
	}
	for i, f := range st.Fields() {
		emit(f.Name, expression.NewGetStructField(expr, f.Name, i, f.Type))
	}
}

// outputName derives the name of an output column: the alias if given,
// otherwise the last identifier of the expression.
func outputName(item *ast.SelectExpr, expr sql.Expression) string {
	if item.Alias != "" {
		return item.Alias
	}
	switch e := expr.(type) {
	case *expression.ColumnRef:
		return e.Name()
	case *expression.GetStructField:
		return e.Name()
	}
	if id, ok := item.Expr.(*ast.Identifier); ok {
		return id.Parts[len(id.Parts)-1]
	}
	return ""
}

// resolveGroupedScalar resolves an expression in an aggregated scope.
// An expression that repeats a grouping key verbatim resolves to the
// key's output column even when its own columns are not grouped.
func (r *Resolver) resolveGroupedScalar(ctx *sql.Context, e ast.Expr, s *scope) sql.Expression {
	if s.groups != nil && len(s.groups.byExpr) > 0 {
		trial := *s
		trial.groups = nil
		trial.noAggregates = true
		if expr, ok := r.tryResolveScalar(ctx, e, &trial); ok {
			if key, found := s.groups.byExpr[expr.String()]; found {
				return expression.NewColumnRef(key)
			}
		}
	}
	return r.resolveScalar(ctx, e, s)
}

// resolveOrderBy resolves ORDER BY keys against the select list.
// Ordinals and output names bind to output columns; any other
// expression is computed as an extra hidden projection column, which
// SELECT DISTINCT forbids.
func (r *Resolver) resolveOrderBy(ctx *sql.Context, orderBy []*ast.OrderByItem, sel *ast.Select, projections []plan.ComputedColumn, outList *nameList, s *scope) ([]expression.SortField, []plan.ComputedColumn) {
	if len(orderBy) == 0 {
		return nil, nil
	}
	os := *s
	os.clause = "ORDER BY clause"
	os.allowAnalytic = true

	var fields []expression.SortField
	var hidden []plan.ComputedColumn
	for _, item := range orderBy {
		if col, ok := r.orderByOutputColumn(item.Expr, projections, outList); ok {
			fields = append(fields, expression.SortField{
				Column: expression.NewColumnRef(col),
				Desc:   item.Desc,
			})
			continue
		}
		if sel.Distinct {
			r.throw(sql.ErrOrderByNotInDistinct.New(item.Position()))
		}
		expr := r.resolveGroupedScalar(ctx, item.Expr, &os)
		col := r.nextColumn("", "", expr.Type())
		hidden = append(hidden, plan.ComputedColumn{Col: col, Expr: expr})
		fields = append(fields, expression.SortField{
			Column: expression.NewColumnRef(col),
			Desc:   item.Desc,
		})
	}
	return fields, hidden
}

// orderByOutputColumn matches an ORDER BY key against the select list:
// a 1-based ordinal or an unambiguous output column name.
func (r *Resolver) orderByOutputColumn(e ast.Expr, projections []plan.ComputedColumn, outList *nameList) (sql.Column, bool) {
	if lit, ok := e.(*ast.IntLiteral); ok {
		if lit.Value < 1 || lit.Value > int64(len(projections)) {
			r.throw(sql.ErrOrdinalOutOfRange.New(e.Position(), lit.Value, len(projections)))
		}
		return projections[lit.Value-1].Col, true
	}
	if id, ok := e.(*ast.Identifier); ok && len(id.Parts) == 1 {
		matches := outList.findColumn(id.Parts[0])
		if len(matches) > 1 {
			r.throw(sql.ErrAmbiguousColumnName.New(e.Position(), id.Parts[0]))
		}
		if len(matches) == 1 {
			return matches[0].col, true
		}
	}
	return sql.Column{}, false
}

// resolveOutputOrderBy resolves the ORDER BY of a set operation, where
// keys only bind to output columns and ordinals.
func (r *Resolver) resolveOutputOrderBy(ctx *sql.Context, orderBy []*ast.OrderByItem, list *nameList, s *scope) []expression.SortField {
	projections := make([]plan.ComputedColumn, len(list.entries))
	for i, e := range list.entries {
		projections[i] = plan.ComputedColumn{Col: e.col, Expr: expression.NewColumnRef(e.col)}
	}

	var fields []expression.SortField
	for _, item := range orderBy {
		col, ok := r.orderByOutputColumn(item.Expr, projections, list)
		if !ok {
			r.throw(sql.ErrUnsupportedSyntax.New(item.Position(),
				"ORDER BY over a set operation must name an output column"))
		}
		fields = append(fields, expression.SortField{
			Column: expression.NewColumnRef(col),
			Desc:   item.Desc,
		})
	}
	return fields
}

func (r *Resolver) applyLimit(ctx *sql.Context, limit, offset ast.Expr, node sql.Node, s *scope) sql.Node {
	if limit == nil && offset == nil {
		return node
	}
	ls := *s
	ls.noAggregates = true
	ls.clause = "LIMIT clause"

	var limitExpr, offsetExpr sql.Expression
	if limit != nil {
		limitExpr = r.coerceTo(limit.Position(), r.resolveScalar(ctx, limit, &ls), sql.Int64)
	}
	if offset != nil {
		offsetExpr = r.coerceTo(offset.Position(), r.resolveScalar(ctx, offset, &ls), sql.Int64)
	}
	return plan.NewLimit(limitExpr, offsetExpr, node)
}

// extractAnalytic lifts analytic calls out of an expression, replacing
// each with a reference to the window column that computes it.
func (r *Resolver) extractAnalytic(expr sql.Expression, window *[]plan.ComputedColumn) sql.Expression {
	if call, ok := expr.(*expression.AnalyticFunctionCall); ok {
		for _, cc := range *window {
			if cc.Expr.String() == call.String() {
				return expression.NewColumnRef(cc.Col)
			}
		}
		col := r.nextColumn("", call.Name(), call.Type())
		*window = append(*window, plan.ComputedColumn{Col: col, Expr: call})
		return expression.NewColumnRef(col)
	}

	children := expr.Children()
	if len(children) == 0 {
		return expr
	}
	changed := false
	replaced := make([]sql.Expression, len(children))
	for i, child := range children {
		replaced[i] = r.extractAnalytic(child, window)
		if replaced[i] != child {
			changed = true
		}
	}
	if !changed {
		return expr
	}
	out, err := expr.WithChildren(replaced...)
	if err != nil {
		r.throw(err)
	}
	return out
}

// selectHasAggregates reports whether the select list or ORDER BY
// contains an aggregate call, which makes the whole select aggregate
// even without GROUP BY.
func (r *Resolver) selectHasAggregates(sel *ast.Select, orderBy []*ast.OrderByItem) bool {
	for _, item := range sel.Items {
		if se, ok := item.(*ast.SelectExpr); ok && r.exprHasAggregate(se.Expr) {
			return true
		}
	}
	for _, item := range orderBy {
		if r.exprHasAggregate(item.Expr) {
			return true
		}
	}
	return false
}

func (r *Resolver) exprHasAggregate(e ast.Expr) bool {
	switch ex := e.(type) {
	case nil:
	case *ast.UnaryExpr:
		return r.exprHasAggregate(ex.Expr)
	case *ast.BinaryExpr:
		return r.exprHasAggregate(ex.Left) || r.exprHasAggregate(ex.Right)
	case *ast.CastExpr:
		return r.exprHasAggregate(ex.Expr)
	case *ast.FuncCall:
		if ex.Over == nil {
			if fn, ok := r.cat.Function(ex.Name); ok && fn.IsAggregate {
				return true
			}
		}
		for _, arg := range ex.Args {
			if r.exprHasAggregate(arg) {
				return true
			}
		}
	}
	return false
}

func listForOutput(schema sql.Schema) *nameList {
	list := &nameList{}
	for _, col := range schema {
		list.entries = append(list.entries, nameEntry{col: col})
	}
	return list
}

func setOpPlanType(op ast.SetOp) plan.SetOpType {
	switch op {
	case ast.IntersectOp:
		return plan.SetOpIntersect
	case ast.ExceptOp:
		return plan.SetOpExcept
	default:
		return plan.SetOpUnion
	}
}
