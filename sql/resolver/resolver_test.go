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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/georgewfraser/zetasql/ast"
	"github.com/georgewfraser/zetasql/mem"
	"github.com/georgewfraser/zetasql/sql"
	"github.com/georgewfraser/zetasql/sql/expression"
	"github.com/georgewfraser/zetasql/sql/plan"
)

func testCatalog() *mem.Catalog {
	return mem.NewCatalog().AddBuiltins().
		AddTable(&sql.Table{Name: "orders", Columns: []sql.TableColumn{
			{Name: "id", Type: sql.Int64},
			{Name: "customer_id", Type: sql.Int64},
			{Name: "amount", Type: sql.Float64},
			{Name: "status", Type: sql.String},
		}}).
		AddTable(&sql.Table{Name: "customers", Columns: []sql.TableColumn{
			{Name: "id", Type: sql.Int64},
			{Name: "name", Type: sql.String},
		}})
}

func resolveQueryOn(t *testing.T, cat sql.Catalog, q *ast.Query) (sql.Node, *Resolver, error) {
	t.Helper()
	r := New(cat, Options{})
	node, err := r.ResolveStatement(sql.NewEmptyContext(), &ast.QueryStatement{Query: q})
	return node, r, err
}

func mustResolve(t *testing.T, cat sql.Catalog, q *ast.Query) sql.Node {
	t.Helper()
	node, _, err := resolveQueryOn(t, cat, q)
	require.NoError(t, err)
	require.NotNil(t, node)
	return node
}

func ident(parts ...string) *ast.Identifier { return &ast.Identifier{Parts: parts} }

func intLit(v int64) *ast.IntLiteral { return &ast.IntLiteral{Value: v} }

func strLit(v string) *ast.StringLiteral { return &ast.StringLiteral{Value: v} }

func selItem(e ast.Expr) *ast.SelectExpr { return &ast.SelectExpr{Expr: e} }

func aliased(e ast.Expr, alias string) *ast.SelectExpr {
	return &ast.SelectExpr{Expr: e, Alias: alias}
}

func tableRef(name string) *ast.TableRef { return &ast.TableRef{Path: []string{name}} }

func call(name string, args ...ast.Expr) *ast.FuncCall {
	return &ast.FuncCall{Name: name, Args: args}
}

func binary(op string, left, right ast.Expr) *ast.BinaryExpr {
	return &ast.BinaryExpr{Op: op, Left: left, Right: right}
}

func query(body ast.QueryExpr) *ast.Query { return &ast.Query{Body: body} }

func selectCols(from ast.TableExpr, items ...ast.SelectItem) *ast.Select {
	return &ast.Select{Items: items, From: from}
}

// countNodes returns how many nodes in the plan satisfy the predicate.
func countNodes(node sql.Node, pred func(sql.Node) bool) int {
	n := 0
	plan.Inspect(node, func(child sql.Node) bool {
		if pred(child) {
			n++
		}
		return true
	})
	return n
}

func TestResolveSimpleSelect(t *testing.T) {
	require := require.New(t)

	node := mustResolve(t, testCatalog(), query(selectCols(tableRef("orders"),
		selItem(ident("id")), selItem(ident("amount")))))

	proj, ok := node.(*plan.Project)
	require.True(ok)
	require.Len(proj.Projections, 2)

	schema := node.Schema()
	require.Equal("id", schema[0].Name)
	require.Equal(sql.Type(sql.Int64), schema[0].Type)
	require.Equal("amount", schema[1].Name)
	require.Equal(sql.Type(sql.Float64), schema[1].Type)
	require.NotEqual(schema[0].ID, schema[1].ID)

	require.Equal(1, countNodes(node, func(n sql.Node) bool {
		_, ok := n.(*plan.ResolvedTable)
		return ok
	}))
}

func TestResolveStar(t *testing.T) {
	t.Run("expands in declaration order", func(t *testing.T) {
		node := mustResolve(t, testCatalog(), query(selectCols(tableRef("orders"), &ast.Star{})))
		schema := node.Schema()
		require.Len(t, schema, 4)
		require.Equal(t, "id", schema[0].Name)
		require.Equal(t, "customer_id", schema[1].Name)
		require.Equal(t, "amount", schema[2].Name)
		require.Equal(t, "status", schema[3].Name)
	})

	t.Run("requires a FROM clause", func(t *testing.T) {
		_, _, err := resolveQueryOn(t, testCatalog(), query(selectCols(nil, &ast.Star{})))
		require.True(t, sql.ErrStarWithoutTables.Is(err))
	})
}

func TestResolveNameErrors(t *testing.T) {
	cat := testCatalog()

	t.Run("table not found", func(t *testing.T) {
		_, _, err := resolveQueryOn(t, cat, query(selectCols(tableRef("nope"), selItem(ident("id")))))
		require.True(t, sql.ErrTableNotFound.Is(err))
	})

	t.Run("column not found", func(t *testing.T) {
		_, _, err := resolveQueryOn(t, cat, query(selectCols(tableRef("orders"), selItem(ident("nope")))))
		require.True(t, sql.ErrColumnNotFound.Is(err))
	})

	t.Run("ambiguous column", func(t *testing.T) {
		join := &ast.Join{
			Type:  ast.CrossJoin,
			Left:  tableRef("orders"),
			Right: tableRef("customers"),
		}
		_, _, err := resolveQueryOn(t, cat, query(selectCols(join, selItem(ident("id")))))
		require.True(t, sql.ErrAmbiguousColumnName.Is(err))
	})

	t.Run("qualified reference disambiguates", func(t *testing.T) {
		join := &ast.Join{
			Type:  ast.CrossJoin,
			Left:  tableRef("orders"),
			Right: tableRef("customers"),
		}
		node := mustResolve(t, cat, query(selectCols(join, selItem(ident("customers", "id")))))
		require.Equal(t, "id", node.Schema()[0].Name)
	})
}

func TestResolveWhere(t *testing.T) {
	t.Run("comparison condition", func(t *testing.T) {
		sel := selectCols(tableRef("orders"), selItem(ident("id")))
		sel.Where = binary("=", ident("status"), strLit("open"))
		node := mustResolve(t, testCatalog(), query(sel))

		filter := node.Children()[0].(*plan.Filter)
		_, ok := filter.Condition.(*expression.Comparison)
		require.True(t, ok)
	})

	t.Run("condition must be boolean", func(t *testing.T) {
		sel := selectCols(tableRef("orders"), selItem(ident("id")))
		sel.Where = ident("amount")
		_, _, err := resolveQueryOn(t, testCatalog(), query(sel))
		require.True(t, sql.ErrTypeMismatch.Is(err))
	})

	t.Run("no aggregates", func(t *testing.T) {
		sel := selectCols(tableRef("orders"), selItem(ident("id")))
		sel.Where = binary(">", call("sum", ident("amount")), intLit(1))
		_, _, err := resolveQueryOn(t, testCatalog(), query(sel))
		require.True(t, sql.ErrAggregateNotAllowed.Is(err))
	})
}

func TestResolveGroupBy(t *testing.T) {
	cat := testCatalog()

	t.Run("keys and aggregates", func(t *testing.T) {
		sel := selectCols(tableRef("orders"),
			selItem(ident("status")), selItem(call("sum", ident("amount"))))
		sel.GroupBy = []ast.Expr{ident("status")}
		node := mustResolve(t, cat, query(sel))

		var gb *plan.GroupBy
		plan.Inspect(node, func(n sql.Node) bool {
			if g, ok := n.(*plan.GroupBy); ok {
				gb = g
			}
			return true
		})
		require.NotNil(t, gb)
		require.Len(t, gb.Grouping, 1)
		require.Len(t, gb.Aggregates, 1)

		// The select list only references the post-aggregation columns.
		proj := node.(*plan.Project)
		for _, p := range proj.Projections {
			_, ok := p.Expr.(*expression.ColumnRef)
			require.True(t, ok)
		}
	})

	t.Run("ungrouped column", func(t *testing.T) {
		sel := selectCols(tableRef("orders"),
			selItem(ident("amount")), selItem(call("count")))
		sel.GroupBy = []ast.Expr{ident("status")}
		_, _, err := resolveQueryOn(t, cat, query(sel))
		require.True(t, sql.ErrNotAggregated.Is(err))
	})

	t.Run("ordinal key", func(t *testing.T) {
		sel := selectCols(tableRef("orders"),
			selItem(ident("status")), selItem(call("count")))
		sel.GroupBy = []ast.Expr{intLit(1)}
		mustResolve(t, cat, query(sel))
	})

	t.Run("ordinal out of range", func(t *testing.T) {
		sel := selectCols(tableRef("orders"), selItem(ident("status")))
		sel.GroupBy = []ast.Expr{intLit(3)}
		_, _, err := resolveQueryOn(t, cat, query(sel))
		require.True(t, sql.ErrOrdinalOutOfRange.Is(err))
	})

	t.Run("alias key", func(t *testing.T) {
		sel := selectCols(tableRef("orders"),
			aliased(ident("status"), "s"), selItem(call("count")))
		sel.GroupBy = []ast.Expr{ident("s")}
		mustResolve(t, cat, query(sel))
	})

	t.Run("expression key reused by the select list", func(t *testing.T) {
		sel := selectCols(tableRef("orders"),
			selItem(binary("+", ident("amount"), intLit(1))))
		sel.GroupBy = []ast.Expr{binary("+", ident("amount"), intLit(1))}
		node := mustResolve(t, cat, query(sel))

		proj := node.(*plan.Project)
		_, ok := proj.Projections[0].Expr.(*expression.ColumnRef)
		require.True(t, ok)
	})
}

func TestResolveHaving(t *testing.T) {
	sel := selectCols(tableRef("orders"),
		selItem(ident("status")), selItem(call("sum", ident("amount"))))
	sel.GroupBy = []ast.Expr{ident("status")}
	sel.Having = binary(">", call("sum", ident("amount")), intLit(10))
	node := mustResolve(t, testCatalog(), query(sel))

	// HAVING filters between aggregation and projection.
	proj := node.(*plan.Project)
	filter := proj.Child.(*plan.Filter)
	gb := filter.Child.(*plan.GroupBy)

	// The HAVING aggregate shares the select list's column.
	require.Len(t, gb.Aggregates, 1)
}

func TestImplicitAggregation(t *testing.T) {
	node := mustResolve(t, testCatalog(), query(selectCols(tableRef("orders"),
		selItem(call("count")))))

	proj := node.(*plan.Project)
	gb := proj.Child.(*plan.GroupBy)
	require.Empty(t, gb.Grouping)
	require.Len(t, gb.Aggregates, 1)
}

func TestAggregateErrors(t *testing.T) {
	t.Run("nested aggregate", func(t *testing.T) {
		_, _, err := resolveQueryOn(t, testCatalog(), query(selectCols(tableRef("orders"),
			selItem(call("sum", call("count"))))))
		require.True(t, sql.ErrAggregateInAggregate.Is(err))
	})

	t.Run("aggregate in GROUP BY", func(t *testing.T) {
		sel := selectCols(tableRef("orders"), selItem(ident("status")))
		sel.GroupBy = []ast.Expr{call("count")}
		_, _, err := resolveQueryOn(t, testCatalog(), query(sel))
		require.True(t, sql.ErrAggregateNotAllowed.Is(err))
	})
}

func TestResolveDistinct(t *testing.T) {
	t.Run("planned as grouping", func(t *testing.T) {
		sel := selectCols(tableRef("orders"), selItem(ident("status")))
		sel.Distinct = true
		node := mustResolve(t, testCatalog(), query(sel))

		gb, ok := node.(*plan.GroupBy)
		require.True(t, ok)
		require.Len(t, gb.Grouping, 1)
		require.Empty(t, gb.Aggregates)

		// Grouping keys keep the output column ids.
		require.Equal(t, gb.Child.Schema()[0].ID, gb.Grouping[0].Col.ID)
	})

	t.Run("ORDER BY must use the output columns", func(t *testing.T) {
		sel := selectCols(tableRef("orders"), selItem(ident("status")))
		sel.Distinct = true
		q := query(sel)
		q.OrderBy = []*ast.OrderByItem{{Expr: ident("amount")}}
		_, _, err := resolveQueryOn(t, testCatalog(), q)
		require.True(t, sql.ErrOrderByNotInDistinct.Is(err))
	})
}

func TestResolveOrderBy(t *testing.T) {
	cat := testCatalog()

	t.Run("output name", func(t *testing.T) {
		q := query(selectCols(tableRef("orders"), aliased(ident("amount"), "a")))
		q.OrderBy = []*ast.OrderByItem{{Expr: ident("a"), Desc: true}}
		node := mustResolve(t, cat, q)

		sort, ok := node.(*plan.Sort)
		require.True(t, ok)
		require.True(t, sort.Fields[0].Desc)
	})

	t.Run("ordinal", func(t *testing.T) {
		q := query(selectCols(tableRef("orders"), selItem(ident("id")), selItem(ident("amount"))))
		q.OrderBy = []*ast.OrderByItem{{Expr: intLit(2)}}
		node := mustResolve(t, cat, q)

		sort := node.(*plan.Sort)
		ref := sort.Fields[0].Column.(*expression.ColumnRef)
		require.Equal(t, node.Schema()[1].ID, ref.ID())
	})

	t.Run("ordinal out of range", func(t *testing.T) {
		q := query(selectCols(tableRef("orders"), selItem(ident("id"))))
		q.OrderBy = []*ast.OrderByItem{{Expr: intLit(5)}}
		_, _, err := resolveQueryOn(t, cat, q)
		require.True(t, sql.ErrOrdinalOutOfRange.Is(err))
	})

	t.Run("output alias shadows a grouped column", func(t *testing.T) {
		// The alias binds first; the shadowed source column stays
		// reachable with its table qualifier.
		sel := selectCols(tableRef("orders"), aliased(ident("status"), "amount"))
		sel.GroupBy = []ast.Expr{ident("orders", "amount"), ident("orders", "status")}
		q := query(sel)
		q.OrderBy = []*ast.OrderByItem{{Expr: ident("amount")}}
		node := mustResolve(t, cat, q)

		sort, ok := node.(*plan.Sort)
		require.True(t, ok)
		ref := sort.Fields[0].Column.(*expression.ColumnRef)
		require.Equal(t, node.Schema()[0].ID, ref.ID())
		require.Equal(t, sql.Type(sql.String), ref.Type())

		qualified := query(sel)
		qualified.OrderBy = []*ast.OrderByItem{{Expr: ident("orders", "amount")}}
		node = mustResolve(t, cat, qualified)

		// The qualified key is not an output column, so it sorts on a
		// hidden column and gets trimmed back out.
		outer, ok := node.(*plan.Project)
		require.True(t, ok)
		require.Len(t, outer.Projections, 1)
	})

	t.Run("hidden expression column is trimmed", func(t *testing.T) {
		q := query(selectCols(tableRef("orders"), selItem(ident("id"))))
		q.OrderBy = []*ast.OrderByItem{{Expr: ident("amount")}}
		node := mustResolve(t, cat, q)

		outer, ok := node.(*plan.Project)
		require.True(t, ok)
		require.Len(t, outer.Projections, 1)

		sort := outer.Child.(*plan.Sort)
		inner := sort.Child.(*plan.Project)
		require.Len(t, inner.Projections, 2)
		require.Len(t, node.Schema(), 1)
	})
}

func TestResolveLimit(t *testing.T) {
	t.Run("limit and offset", func(t *testing.T) {
		q := query(selectCols(tableRef("orders"), selItem(ident("id"))))
		q.Limit = intLit(10)
		q.Offset = intLit(5)
		node := mustResolve(t, testCatalog(), q)

		limit, ok := node.(*plan.Limit)
		require.True(t, ok)
		require.NotNil(t, limit.Limit)
		require.NotNil(t, limit.Offset)
	})

	t.Run("limit must be an integer", func(t *testing.T) {
		q := query(selectCols(tableRef("orders"), selItem(ident("id"))))
		q.Limit = &ast.BoolLiteral{Value: true}
		_, _, err := resolveQueryOn(t, testCatalog(), q)
		require.True(t, sql.ErrTypeMismatch.Is(err))
	})
}

func TestResolveSetOperation(t *testing.T) {
	cat := mem.NewCatalog().AddBuiltins().
		AddTable(&sql.Table{Name: "a", Columns: []sql.TableColumn{{Name: "x", Type: sql.Int64}}}).
		AddTable(&sql.Table{Name: "b", Columns: []sql.TableColumn{{Name: "x", Type: sql.Uint64}}}).
		AddTable(&sql.Table{Name: "c", Columns: []sql.TableColumn{{Name: "x", Type: sql.String}}})

	union := func(inputs ...ast.QueryExpr) *ast.SetOperation {
		return &ast.SetOperation{Op: ast.UnionOp, Inputs: inputs}
	}

	t.Run("branches coerce to the supertype", func(t *testing.T) {
		node := mustResolve(t, cat, query(union(
			selectCols(tableRef("a"), selItem(ident("x"))),
			selectCols(tableRef("b"), selItem(ident("x"))))))

		setop, ok := node.(*plan.SetOperation)
		require.True(t, ok)
		require.Equal(t, sql.Type(sql.Numeric), node.Schema()[0].Type)
		require.Equal(t, "x", node.Schema()[0].Name)

		// Both branches need a cast, so both get wrapped.
		for _, input := range setop.Inputs {
			require.Equal(t, sql.Type(sql.Numeric), input.Schema()[0].Type)
		}
	})

	t.Run("incompatible branches", func(t *testing.T) {
		_, _, err := resolveQueryOn(t, cat, query(union(
			selectCols(tableRef("a"), selItem(ident("x"))),
			selectCols(tableRef("c"), selItem(ident("x"))))))
		require.True(t, sql.ErrTypeMismatch.Is(err))
	})

	t.Run("column count mismatch", func(t *testing.T) {
		_, _, err := resolveQueryOn(t, cat, query(union(
			selectCols(tableRef("a"), selItem(ident("x"))),
			selectCols(tableRef("b"), selItem(ident("x")), selItem(ident("x"))))))
		require.True(t, sql.ErrColumnCountMismatch.Is(err))
	})

	t.Run("ORDER BY binds to output columns", func(t *testing.T) {
		q := query(union(
			selectCols(tableRef("a"), selItem(ident("x"))),
			selectCols(tableRef("b"), selItem(ident("x")))))
		q.OrderBy = []*ast.OrderByItem{{Expr: ident("x")}}
		node := mustResolve(t, cat, q)
		_, ok := node.(*plan.Sort)
		require.True(t, ok)
	})

	t.Run("ORDER BY expression is rejected", func(t *testing.T) {
		q := query(union(
			selectCols(tableRef("a"), selItem(ident("x"))),
			selectCols(tableRef("b"), selItem(ident("x")))))
		q.OrderBy = []*ast.OrderByItem{{Expr: binary("+", ident("x"), intLit(1))}}
		_, _, err := resolveQueryOn(t, cat, q)
		require.True(t, sql.ErrUnsupportedSyntax.Is(err))
	})
}

func TestResolveWith(t *testing.T) {
	cat := testCatalog()

	t.Run("alias expands per reference", func(t *testing.T) {
		q := &ast.Query{
			With: &ast.With{Entries: []*ast.WithEntry{{
				Name:  "t",
				Query: query(selectCols(tableRef("orders"), selItem(ident("id")))),
			}}},
			Body: selectCols(
				&ast.Join{
					Type:  ast.CrossJoin,
					Left:  tableRef("t"),
					Right: &ast.TableRef{Path: []string{"t"}, Alias: "t2"},
				},
				selItem(ident("t", "id")), selItem(ident("t2", "id"))),
		}
		node := mustResolve(t, cat, q)

		var ctes []*plan.SubqueryAlias
		plan.Inspect(node, func(n sql.Node) bool {
			if sa, ok := n.(*plan.SubqueryAlias); ok && sa.IsCTE {
				ctes = append(ctes, sa)
			}
			return true
		})
		require.Len(t, ctes, 2)
		require.NotEqual(t, ctes[0].Schema()[0].ID, ctes[1].Schema()[0].ID)
	})

	t.Run("duplicate alias", func(t *testing.T) {
		q := &ast.Query{
			With: &ast.With{Entries: []*ast.WithEntry{
				{Name: "t", Query: query(selectCols(tableRef("orders"), selItem(ident("id"))))},
				{Name: "T", Query: query(selectCols(tableRef("orders"), selItem(ident("id"))))},
			}},
			Body: selectCols(tableRef("t"), selItem(ident("id"))),
		}
		_, _, err := resolveQueryOn(t, cat, q)
		require.True(t, sql.ErrDuplicateAliasOrTable.Is(err))
	})

	t.Run("self reference without RECURSIVE", func(t *testing.T) {
		q := &ast.Query{
			With: &ast.With{Entries: []*ast.WithEntry{{
				Name:  "t",
				Query: query(selectCols(tableRef("t"), selItem(ident("id")))),
			}}},
			Body: selectCols(tableRef("t"), selItem(ident("id"))),
		}
		_, _, err := resolveQueryOn(t, cat, q)
		require.True(t, sql.ErrTableNotFound.Is(err))
	})

	t.Run("later entries see earlier ones", func(t *testing.T) {
		q := &ast.Query{
			With: &ast.With{Entries: []*ast.WithEntry{
				{Name: "t", Query: query(selectCols(tableRef("orders"), selItem(ident("id"))))},
				{Name: "u", Query: query(selectCols(tableRef("t"), selItem(ident("id"))))},
			}},
			Body: selectCols(tableRef("u"), selItem(ident("id"))),
		}
		mustResolve(t, cat, q)
	})
}

func recursiveQuery(entry *ast.Query, body ast.QueryExpr) *ast.Query {
	return &ast.Query{
		With: &ast.With{Recursive: true, Entries: []*ast.WithEntry{{
			Name:  "seq",
			Query: entry,
		}}},
		Body: body,
	}
}

func TestResolveRecursiveCte(t *testing.T) {
	cat := testCatalog()

	initTerm := selectCols(nil, aliased(intLit(1), "n"))
	recTerm := selectCols(tableRef("seq"), selItem(binary("+", ident("n"), intLit(1))))

	t.Run("iterative plan", func(t *testing.T) {
		q := recursiveQuery(
			query(&ast.SetOperation{Op: ast.UnionOp, Inputs: []ast.QueryExpr{initTerm, recTerm}}),
			selectCols(tableRef("seq"), selItem(ident("n"))))
		node := mustResolve(t, cat, q)

		require.Equal(t, 1, countNodes(node, func(n sql.Node) bool {
			_, ok := n.(*plan.RecursiveCte)
			return ok
		}))
		require.Equal(t, 1, countNodes(node, func(n sql.Node) bool {
			_, ok := n.(*plan.RecursiveTable)
			return ok
		}))
		require.Equal(t, "n", node.Schema()[0].Name)
		require.Equal(t, sql.Type(sql.Int64), node.Schema()[0].Type)
	})

	t.Run("requires a union", func(t *testing.T) {
		q := recursiveQuery(
			query(recTerm),
			selectCols(tableRef("seq"), selItem(ident("n"))))
		_, _, err := resolveQueryOn(t, cat, q)
		require.True(t, sql.ErrRecursiveWithoutUnion.Is(err))
	})

	t.Run("no self reference in the non-recursive term", func(t *testing.T) {
		q := recursiveQuery(
			query(&ast.SetOperation{Op: ast.UnionOp, Inputs: []ast.QueryExpr{recTerm, recTerm}}),
			selectCols(tableRef("seq"), selItem(ident("n"))))
		_, _, err := resolveQueryOn(t, cat, q)
		require.True(t, sql.ErrRecursiveRefInNonRecursiveTerm.Is(err))
	})

	t.Run("exactly one self reference", func(t *testing.T) {
		doubled := selectCols(
			&ast.Join{
				Type:  ast.CrossJoin,
				Left:  tableRef("seq"),
				Right: &ast.TableRef{Path: []string{"seq"}, Alias: "s2"},
			},
			selItem(ident("seq", "n")))
		q := recursiveQuery(
			query(&ast.SetOperation{Op: ast.UnionOp, Inputs: []ast.QueryExpr{initTerm, doubled}}),
			selectCols(tableRef("seq"), selItem(ident("n"))))
		_, _, err := resolveQueryOn(t, cat, q)
		require.True(t, sql.ErrMultipleRecursiveRefs.Is(err))
	})

	t.Run("no self reference inside a subquery", func(t *testing.T) {
		withSub := selectCols(tableRef("orders"), selItem(ident("id")))
		withSub.Where = &ast.SubqueryExpr{
			Exists: true,
			Query:  query(selectCols(tableRef("seq"), selItem(ident("n")))),
		}
		q := recursiveQuery(
			query(&ast.SetOperation{Op: ast.UnionOp, Inputs: []ast.QueryExpr{initTerm, withSub}}),
			selectCols(tableRef("seq"), selItem(ident("n"))))
		_, _, err := resolveQueryOn(t, cat, q)
		require.True(t, sql.ErrRecursiveRefNotAllowed.Is(err))
	})

	t.Run("no self reference in a nested WITH", func(t *testing.T) {
		nested := &ast.Query{
			With: &ast.With{Entries: []*ast.WithEntry{{
				Name:  "inner",
				Query: query(selectCols(tableRef("seq"), selItem(ident("n")))),
			}}},
			Body: selectCols(tableRef("inner"), selItem(ident("n"))),
		}
		q := recursiveQuery(
			query(&ast.SetOperation{Op: ast.UnionOp, Inputs: []ast.QueryExpr{initTerm, nested}}),
			selectCols(tableRef("seq"), selItem(ident("n"))))
		_, _, err := resolveQueryOn(t, cat, q)
		require.True(t, sql.ErrRecursiveRefInNestedWith.Is(err))
	})

	t.Run("no ORDER BY on the recursive body", func(t *testing.T) {
		entry := query(&ast.SetOperation{Op: ast.UnionOp, Inputs: []ast.QueryExpr{initTerm, recTerm}})
		entry.OrderBy = []*ast.OrderByItem{{Expr: intLit(1)}}
		q := recursiveQuery(entry, selectCols(tableRef("seq"), selItem(ident("n"))))
		_, _, err := resolveQueryOn(t, cat, q)
		require.True(t, sql.ErrUnsupportedSyntax.Is(err))
	})

	t.Run("no self reference under GROUP BY", func(t *testing.T) {
		term := selectCols(tableRef("seq"), selItem(ident("n")))
		term.GroupBy = []ast.Expr{ident("n")}
		q := recursiveQuery(
			query(&ast.SetOperation{Op: ast.UnionOp, Inputs: []ast.QueryExpr{initTerm, term}}),
			selectCols(tableRef("seq"), selItem(ident("n"))))
		_, _, err := resolveQueryOn(t, cat, q)
		require.True(t, sql.ErrRecursiveRefNotAllowed.Is(err))
	})

	t.Run("no self reference under SELECT DISTINCT", func(t *testing.T) {
		term := selectCols(tableRef("seq"), selItem(ident("n")))
		term.Distinct = true
		q := recursiveQuery(
			query(&ast.SetOperation{Op: ast.UnionOp, Inputs: []ast.QueryExpr{initTerm, term}}),
			selectCols(tableRef("seq"), selItem(ident("n"))))
		_, _, err := resolveQueryOn(t, cat, q)
		require.True(t, sql.ErrRecursiveRefNotAllowed.Is(err))
	})

	t.Run("no self reference under an analytic select list", func(t *testing.T) {
		term := selectCols(tableRef("seq"),
			selItem(&ast.FuncCall{Name: "row_number", Over: &ast.WindowSpec{}}))
		q := recursiveQuery(
			query(&ast.SetOperation{Op: ast.UnionOp, Inputs: []ast.QueryExpr{initTerm, term}}),
			selectCols(tableRef("seq"), selItem(ident("n"))))
		_, _, err := resolveQueryOn(t, cat, q)
		require.True(t, sql.ErrRecursiveRefNotAllowed.Is(err))
	})

	t.Run("no self reference under a derived table LIMIT", func(t *testing.T) {
		inner := query(selectCols(tableRef("seq"), selItem(ident("n"))))
		inner.Limit = intLit(1)
		term := selectCols(&ast.SubqueryTable{Query: inner, Alias: "d"}, selItem(ident("n")))
		q := recursiveQuery(
			query(&ast.SetOperation{Op: ast.UnionOp, Inputs: []ast.QueryExpr{initTerm, term}}),
			selectCols(tableRef("seq"), selItem(ident("n"))))
		_, _, err := resolveQueryOn(t, cat, q)
		require.True(t, sql.ErrRecursiveRefNotAllowed.Is(err))
	})

	t.Run("no self reference under a derived table ORDER BY", func(t *testing.T) {
		inner := query(selectCols(tableRef("seq"), selItem(ident("n"))))
		inner.OrderBy = []*ast.OrderByItem{{Expr: ident("n")}}
		term := selectCols(&ast.SubqueryTable{Query: inner, Alias: "d"}, selItem(ident("n")))
		q := recursiveQuery(
			query(&ast.SetOperation{Op: ast.UnionOp, Inputs: []ast.QueryExpr{initTerm, term}}),
			selectCols(tableRef("seq"), selItem(ident("n"))))
		_, _, err := resolveQueryOn(t, cat, q)
		require.True(t, sql.ErrRecursiveRefNotAllowed.Is(err))
	})

	t.Run("no self reference under a sampled derived table", func(t *testing.T) {
		inner := query(selectCols(tableRef("seq"), selItem(ident("n"))))
		term := selectCols(&ast.SubqueryTable{
			Query:  inner,
			Alias:  "d",
			Sample: &ast.TableSample{Method: "BERNOULLI", Percent: &ast.FloatLiteral{Value: 10}},
		}, selItem(ident("n")))
		q := recursiveQuery(
			query(&ast.SetOperation{Op: ast.UnionOp, Inputs: []ast.QueryExpr{initTerm, term}}),
			selectCols(tableRef("seq"), selItem(ident("n"))))
		_, _, err := resolveQueryOn(t, cat, q)
		require.True(t, sql.ErrRecursiveRefNotAllowed.Is(err))
	})

	t.Run("zero self references resolves as a plain union", func(t *testing.T) {
		second := selectCols(nil, aliased(intLit(2), "n"))
		q := recursiveQuery(
			query(&ast.SetOperation{Op: ast.UnionOp, Inputs: []ast.QueryExpr{initTerm, second}}),
			selectCols(tableRef("seq"), selItem(ident("n"))))
		node := mustResolve(t, cat, q)

		require.Equal(t, 0, countNodes(node, func(n sql.Node) bool {
			_, ok := n.(*plan.RecursiveCte)
			return ok
		}))
		require.Equal(t, 1, countNodes(node, func(n sql.Node) bool {
			_, ok := n.(*plan.SetOperation)
			return ok
		}))
	})

	t.Run("non-recursive term never sees an outer alias of the same name", func(t *testing.T) {
		inner := recursiveQuery(
			query(&ast.SetOperation{Op: ast.UnionOp, Inputs: []ast.QueryExpr{
				selectCols(tableRef("seq"), selItem(ident("n"))), recTerm}}),
			selectCols(tableRef("seq"), selItem(ident("n"))))
		outer := &ast.Query{
			With: &ast.With{Entries: []*ast.WithEntry{{
				Name:  "seq",
				Query: query(selectCols(nil, aliased(intLit(1), "n"))),
			}}},
			Body: selectCols(&ast.SubqueryTable{Query: inner, Alias: "q"}, selItem(ident("n"))),
		}
		_, _, err := resolveQueryOn(t, cat, outer)
		require.True(t, sql.ErrRecursiveRefInNonRecursiveTerm.Is(err))
	})
}

func TestResolveSubqueryExpr(t *testing.T) {
	cat := testCatalog()

	t.Run("correlated EXISTS", func(t *testing.T) {
		inner := query(selectCols(tableRef("customers"), selItem(intLit(1))))
		inner.Body.(*ast.Select).Where = binary("=",
			ident("customers", "id"), ident("customer_id"))

		sel := selectCols(tableRef("orders"), selItem(ident("id")))
		sel.Where = &ast.SubqueryExpr{Query: inner, Exists: true}
		node := mustResolve(t, cat, query(sel))

		filter := node.Children()[0].(*plan.Filter)
		sub, ok := filter.Condition.(*plan.Subquery)
		require.True(t, ok)
		require.Len(t, sub.Correlated, 1)
		require.Equal(t, "customer_id", sub.Correlated[0].Name)
	})

	t.Run("scalar subquery must be one column", func(t *testing.T) {
		inner := query(selectCols(tableRef("customers"), selItem(ident("id")), selItem(ident("name"))))
		_, _, err := resolveQueryOn(t, cat, query(selectCols(tableRef("orders"),
			selItem(&ast.SubqueryExpr{Query: inner}))))
		require.True(t, sql.ErrScalarSubqueryColumns.Is(err))
	})

	t.Run("IN over a subquery", func(t *testing.T) {
		inner := query(selectCols(tableRef("customers"), selItem(ident("id"))))
		sel := selectCols(tableRef("orders"), selItem(ident("id")))
		sel.Where = &ast.InExpr{Expr: ident("customer_id"), Query: inner}
		node := mustResolve(t, cat, query(sel))

		filter := node.Children()[0].(*plan.Filter)
		in, ok := filter.Condition.(*plan.InSubquery)
		require.True(t, ok)
		require.False(t, in.IsNegated())
		require.Equal(t, sql.Type(sql.Bool), in.Type())
		require.Equal(t, sql.Type(sql.Int64), in.Left.Type())
		require.Equal(t, sql.Type(sql.Int64), in.Subquery.Query.Schema()[0].Type)
	})

	t.Run("NOT IN coerces the subquery column to the supertype", func(t *testing.T) {
		inner := query(selectCols(tableRef("customers"), selItem(ident("id"))))
		sel := selectCols(tableRef("orders"), selItem(ident("id")))
		sel.Where = &ast.InExpr{Expr: ident("amount"), Query: inner, Not: true}
		node := mustResolve(t, cat, query(sel))

		filter := node.Children()[0].(*plan.Filter)
		in := filter.Condition.(*plan.InSubquery)
		require.True(t, in.IsNegated())
		require.Equal(t, sql.Type(sql.Float64), in.Left.Type())
		require.Equal(t, sql.Type(sql.Float64), in.Subquery.Query.Schema()[0].Type)
	})

	t.Run("IN with no common supertype", func(t *testing.T) {
		inner := query(selectCols(tableRef("customers"), selItem(ident("id"))))
		sel := selectCols(tableRef("orders"), selItem(ident("id")))
		sel.Where = &ast.InExpr{Expr: ident("status"), Query: inner}
		_, _, err := resolveQueryOn(t, cat, query(sel))
		require.True(t, sql.ErrTypeMismatch.Is(err))
	})

	t.Run("IN subquery must be one column", func(t *testing.T) {
		inner := query(selectCols(tableRef("customers"), selItem(ident("id")), selItem(ident("name"))))
		sel := selectCols(tableRef("orders"), selItem(ident("id")))
		sel.Where = &ast.InExpr{Expr: ident("customer_id"), Query: inner}
		_, _, err := resolveQueryOn(t, cat, query(sel))
		require.True(t, sql.ErrScalarSubqueryColumns.Is(err))
	})
}

func TestResolveParameters(t *testing.T) {
	cat := testCatalog()

	t.Run("named parameter adopts the context type", func(t *testing.T) {
		sel := selectCols(tableRef("orders"), selItem(ident("id")))
		sel.Where = binary(">", ident("amount"), &ast.Parameter{Name: "cutoff"})
		_, r, err := resolveQueryOn(t, cat, query(sel))
		require.NoError(t, err)
		require.Equal(t, sql.Type(sql.Float64), r.NamedParameters()["cutoff"])
	})

	t.Run("positional parameters infer in order", func(t *testing.T) {
		sel := selectCols(tableRef("orders"), selItem(ident("id")))
		sel.Where = binary("AND",
			binary("=", ident("id"), &ast.Parameter{Ordinal: 1}),
			binary(">", ident("amount"), &ast.Parameter{Ordinal: 2}))
		_, r, err := resolveQueryOn(t, cat, query(sel))
		require.NoError(t, err)
		params := r.PositionalParameters()
		require.Len(t, params, 2)
		require.Equal(t, sql.Type(sql.Int64), params[0])
		require.Equal(t, sql.Type(sql.Float64), params[1])
	})

	t.Run("named parameter infers a string type from a comparison", func(t *testing.T) {
		sel := selectCols(tableRef("customers"), selItem(ident("id")))
		sel.Where = binary("=", ident("name"), &ast.Parameter{Name: "who"})
		_, r, err := resolveQueryOn(t, cat, query(sel))
		require.NoError(t, err)
		require.Equal(t, sql.Type(sql.String), r.NamedParameters()["who"])
	})

	t.Run("positional parameter infers a string type", func(t *testing.T) {
		sel := selectCols(tableRef("customers"), selItem(ident("id")))
		sel.Where = binary("=", ident("name"), &ast.Parameter{Ordinal: 1})
		_, r, err := resolveQueryOn(t, cat, query(sel))
		require.NoError(t, err)
		params := r.PositionalParameters()
		require.Len(t, params, 1)
		require.Equal(t, sql.Type(sql.String), params[0])
	})

	t.Run("inferred type binds later uses", func(t *testing.T) {
		sel := selectCols(tableRef("orders"), selItem(ident("id")))
		sel.Where = binary("AND",
			binary(">", ident("amount"), &ast.Parameter{Name: "p"}),
			binary("=", ident("status"), &ast.Parameter{Name: "p"}))
		_, _, err := resolveQueryOn(t, cat, query(sel))
		require.True(t, sql.ErrTypeMismatch.Is(err))
	})

	t.Run("styles cannot mix", func(t *testing.T) {
		sel := selectCols(tableRef("orders"), selItem(ident("id")))
		sel.Where = binary("AND",
			binary("=", ident("id"), &ast.Parameter{Name: "a"}),
			binary("=", ident("customer_id"), &ast.Parameter{Ordinal: 1}))
		_, _, err := resolveQueryOn(t, cat, query(sel))
		require.True(t, sql.ErrMixedParameterStyles.Is(err))
	})
}

func TestDeprecationWarning(t *testing.T) {
	cat := testCatalog().AddFunction(&sql.Function{
		Name:       "old_total",
		Deprecated: "use sum instead",
		Signatures: []sql.FunctionSignature{{Args: []sql.Type{sql.Float64}, Result: sql.Float64}},
	})

	_, r, err := resolveQueryOn(t, cat, query(selectCols(tableRef("orders"),
		selItem(call("old_total", ident("amount"))),
		selItem(call("old_total", ident("amount"))))))
	require.NoError(t, err)
	require.Len(t, r.Warnings(), 1)
	require.Equal(t, WarnDeprecation, r.Warnings()[0].Kind)
	require.Contains(t, r.Warnings()[0].Message, "old_total")
}

func TestResolveJoinUsing(t *testing.T) {
	cat := testCatalog()
	join := func() *ast.Join {
		return &ast.Join{
			Type:  ast.InnerJoin,
			Left:  tableRef("orders"),
			Right: tableRef("customers"),
			Using: []string{"id"},
		}
	}

	t.Run("join column resolves unambiguously", func(t *testing.T) {
		node := mustResolve(t, cat, query(selectCols(join(), selItem(ident("id")))))
		var j *plan.Join
		plan.Inspect(node, func(n sql.Node) bool {
			if jn, ok := n.(*plan.Join); ok {
				j = jn
			}
			return true
		})
		require.NotNil(t, j)
		_, ok := j.Condition.(*expression.Comparison)
		require.True(t, ok)
	})

	t.Run("star hides the right side's copy", func(t *testing.T) {
		node := mustResolve(t, cat, query(selectCols(join(), &ast.Star{})))
		schema := node.Schema()
		require.Len(t, schema, 5)
		require.Equal(t, "id", schema[0].Name)
		require.Equal(t, "name", schema[4].Name)
	})

	t.Run("duplicate table name", func(t *testing.T) {
		dup := &ast.Join{Type: ast.CrossJoin, Left: tableRef("orders"), Right: tableRef("orders")}
		_, _, err := resolveQueryOn(t, cat, query(selectCols(dup, &ast.Star{})))
		require.True(t, sql.ErrDuplicateAliasOrTable.Is(err))
	})

	t.Run("outer join needs a condition", func(t *testing.T) {
		bare := &ast.Join{Type: ast.LeftJoin, Left: tableRef("orders"), Right: tableRef("customers")}
		_, _, err := resolveQueryOn(t, cat, query(selectCols(bare, selItem(ident("name")))))
		require.True(t, sql.ErrUnsupportedSyntax.Is(err))
	})
}

func TestResolveCast(t *testing.T) {
	cat := testCatalog()

	t.Run("literal folds", func(t *testing.T) {
		node := mustResolve(t, cat, query(selectCols(nil,
			selItem(&ast.CastExpr{Expr: strLit("12"), To: &ast.TypeName{Name: "INT64"}}))))
		proj := node.(*plan.Project)
		lit, ok := proj.Projections[0].Expr.(*expression.Literal)
		require.True(t, ok)
		require.Equal(t, int64(12), lit.Value().Int64Value())
	})

	t.Run("bad literal fails at resolution time", func(t *testing.T) {
		_, _, err := resolveQueryOn(t, cat, query(selectCols(nil,
			selItem(&ast.CastExpr{Expr: strLit("twelve"), To: &ast.TypeName{Name: "INT64"}}))))
		require.True(t, sql.ErrLiteralCastFailed.Is(err))
	})

	t.Run("unknown type name", func(t *testing.T) {
		_, _, err := resolveQueryOn(t, cat, query(selectCols(nil,
			selItem(&ast.CastExpr{Expr: intLit(1), To: &ast.TypeName{Name: "MYSTERY"}}))))
		require.True(t, sql.ErrTypeNotFound.Is(err))
	})

	t.Run("typed literal", func(t *testing.T) {
		node := mustResolve(t, cat, query(selectCols(nil,
			selItem(&ast.TypedLiteral{TypeName: "DATE", Value: "2024-01-05"}))))
		require.Equal(t, sql.Type(sql.Date), node.Schema()[0].Type)
	})
}

func TestResolveValueTable(t *testing.T) {
	rowType := sql.CreateStructType(
		sql.StructField{Name: "id", Type: sql.Int64},
		sql.StructField{Name: "kind", Type: sql.String},
	)
	cat := testCatalog().AddTable(&sql.Table{
		Name:         "events",
		IsValueTable: true,
		Columns:      []sql.TableColumn{{Name: "value", Type: rowType}},
	})

	t.Run("fields resolve without qualification", func(t *testing.T) {
		node := mustResolve(t, cat, query(selectCols(tableRef("events"), selItem(ident("kind")))))
		proj := node.(*plan.Project)
		_, ok := proj.Projections[0].Expr.(*expression.GetStructField)
		require.True(t, ok)
		require.Equal(t, "kind", node.Schema()[0].Name)
	})

	t.Run("the range variable is the row value", func(t *testing.T) {
		node := mustResolve(t, cat, query(selectCols(tableRef("events"), selItem(ident("events")))))
		require.Equal(t, sql.Type(rowType), node.Schema()[0].Type)
	})
}

func TestResolveAnalytic(t *testing.T) {
	cat := testCatalog()

	t.Run("calls compute in a window operator", func(t *testing.T) {
		node := mustResolve(t, cat, query(selectCols(tableRef("orders"),
			selItem(ident("id")),
			selItem(&ast.FuncCall{Name: "row_number", Over: &ast.WindowSpec{
				PartitionBy: []ast.Expr{ident("status")},
				OrderBy:     []*ast.OrderByItem{{Expr: ident("amount"), Desc: true}},
			}}))))

		proj := node.(*plan.Project)
		window, ok := proj.Child.(*plan.Window)
		require.True(t, ok)
		require.Len(t, window.Functions, 1)

		// The projection references the window column instead of holding
		// the call.
		_, ok = proj.Projections[1].Expr.(*expression.ColumnRef)
		require.True(t, ok)
	})

	t.Run("not allowed in WHERE", func(t *testing.T) {
		sel := selectCols(tableRef("orders"), selItem(ident("id")))
		sel.Where = binary(">", &ast.FuncCall{Name: "row_number", Over: &ast.WindowSpec{}}, intLit(1))
		_, _, err := resolveQueryOn(t, cat, query(sel))
		require.True(t, sql.ErrAnalyticNotAllowed.Is(err))
	})

	t.Run("requires an OVER clause", func(t *testing.T) {
		_, _, err := resolveQueryOn(t, cat, query(selectCols(tableRef("orders"),
			selItem(call("row_number")))))
		require.True(t, sql.ErrUnsupportedSyntax.Is(err))
	})
}

func TestResolveTableSample(t *testing.T) {
	ref := &ast.TableRef{
		Path:   []string{"orders"},
		Sample: &ast.TableSample{Method: "BERNOULLI", Rows: intLit(10)},
	}
	node := mustResolve(t, testCatalog(), query(selectCols(ref, selItem(ident("id")))))

	var sample *plan.Sample
	plan.Inspect(node, func(n sql.Node) bool {
		if s, ok := n.(*plan.Sample); ok {
			sample = s
		}
		return true
	})
	require.NotNil(t, sample)
	require.NotNil(t, sample.Rows)
	require.Nil(t, sample.Percent)
}

func TestResolveTableFunction(t *testing.T) {
	cat := testCatalog().AddTableFunction(&sql.TableFunction{
		Name:    "number_range",
		Args:    []sql.Type{sql.Int64, sql.Int64},
		Columns: []sql.TableColumn{{Name: "n", Type: sql.Int64}},
	})

	t.Run("scan with arguments", func(t *testing.T) {
		ref := &ast.TableFuncCall{Name: "number_range", Args: []ast.Expr{intLit(1), intLit(10)}}
		node := mustResolve(t, cat, query(selectCols(ref, selItem(ident("n")))))
		require.Equal(t, 1, countNodes(node, func(n sql.Node) bool {
			_, ok := n.(*plan.TableFunctionScan)
			return ok
		}))
	})

	t.Run("arity mismatch", func(t *testing.T) {
		ref := &ast.TableFuncCall{Name: "number_range", Args: []ast.Expr{intLit(1)}}
		_, _, err := resolveQueryOn(t, cat, query(selectCols(ref, selItem(ident("n")))))
		require.True(t, sql.ErrNoMatchingSignature.Is(err))
	})

	t.Run("unknown function", func(t *testing.T) {
		ref := &ast.TableFuncCall{Name: "mystery"}
		_, _, err := resolveQueryOn(t, cat, query(selectCols(ref, &ast.Star{})))
		require.True(t, sql.ErrTableFunctionNotFound.Is(err))
	})
}

func TestColumnIDsStayUnique(t *testing.T) {
	require := require.New(t)

	cat := testCatalog()
	r := New(cat, Options{})
	ctx := sql.NewEmptyContext()
	q := query(selectCols(tableRef("orders"), selItem(ident("id"))))

	first, err := r.ResolveStatement(ctx, &ast.QueryStatement{Query: q})
	require.NoError(err)
	highWater := r.MaxColumnID()

	second, err := r.ResolveStatement(ctx, &ast.QueryStatement{Query: q})
	require.NoError(err)

	require.Greater(r.MaxColumnID(), highWater)
	require.Greater(second.Schema()[0].ID, first.Schema()[0].ID)

	// No reference in the second plan points at a first-plan column.
	plan.InspectExpressions(second, func(e sql.Expression) bool {
		if ref, ok := e.(*expression.ColumnRef); ok {
			require.Greater(ref.ID(), highWater)
		}
		return true
	})
}

func TestResolutionDepthLimit(t *testing.T) {
	q := query(selectCols(tableRef("orders"), selItem(ident("id"))))
	for i := 0; i < maxDepth; i++ {
		q = query(q)
	}
	_, _, err := resolveQueryOn(t, testCatalog(), q)
	require.True(t, sql.ErrResolutionDepthExceeded.Is(err))
}
