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
	"github.com/georgewfraser/zetasql/sql/plan"
)

// pushWith resolves the entries of a WITH clause and registers them
// for the rest of the query. The returned function unregisters them.
func (r *Resolver) pushWith(ctx *sql.Context, with *ast.With, s *scope) func() {
	var pushed []string
	seen := map[string]bool{}
	for _, entry := range with.Entries {
		key := strings.ToLower(entry.Name)
		if seen[key] {
			r.throw(sql.ErrDuplicateAliasOrTable.New(entry.Position(), entry.Name))
		}
		seen[key] = true
		r.resolveWithEntry(ctx, with.Recursive, entry, s)
		pushed = append(pushed, key)
	}
	return func() {
		for _, name := range pushed {
			stack := r.registry[name]
			r.registry[name] = stack[:len(stack)-1]
		}
	}
}

func (r *Resolver) pushEntry(name string, e registryEntry) {
	key := strings.ToLower(name)
	r.registry[key] = append(r.registry[key], e)
}

func (r *Resolver) popEntry(name string) {
	key := strings.ToLower(name)
	stack := r.registry[key]
	r.registry[key] = stack[:len(stack)-1]
}

// topEntry returns the innermost registry entry for the name, if any.
func (r *Resolver) topEntry(name string) (registryEntry, bool) {
	stack := r.registry[strings.ToLower(name)]
	if len(stack) == 0 {
		return registryEntry{}, false
	}
	return stack[len(stack)-1], true
}

// resolveWithEntry resolves one WITH entry and leaves it registered.
//
// While the entry's own definition resolves, a poisoned registry entry
// shadows any outer definition of the same alias, so self-references
// in a non-recursive entry fail instead of silently binding outward.
func (r *Resolver) resolveWithEntry(ctx *sql.Context, recursive bool, entry *ast.WithEntry, s *scope) {
	selfRef := queryReferencesAlias(entry.Query, entry.Name)

	if !recursive || !selfRef {
		r.pushEntry(entry.Name, registryEntry{poisoned: true})
		node, list := r.resolveQuery(ctx, entry.Query, s)
		r.popEntry(entry.Name)
		r.pushEntry(entry.Name, registryEntry{sub: &namedSubquery{
			name:    entry.Name,
			columns: list.columns(),
			node:    node,
		}})
		return
	}

	r.resolveRecursiveEntry(ctx, entry, s)
}

// resolveRecursiveEntry resolves a self-referencing WITH RECURSIVE
// entry of the form <init term> UNION [ALL] <recursive term>.
func (r *Resolver) resolveRecursiveEntry(ctx *sql.Context, entry *ast.WithEntry, s *scope) {
	setop, ok := entry.Query.Body.(*ast.SetOperation)
	if !ok || setop.Op != ast.UnionOp || len(setop.Inputs) < 2 {
		r.throw(sql.ErrRecursiveWithoutUnion.New(entry.Position(), entry.Name))
	}
	if entry.Query.With != nil {
		r.throw(sql.ErrUnsupportedSyntax.New(entry.Position(), "WITH inside a recursive query"))
	}
	if len(entry.Query.OrderBy) > 0 || entry.Query.Limit != nil || entry.Query.Offset != nil {
		r.throw(sql.ErrUnsupportedSyntax.New(entry.Position(), "ORDER BY or LIMIT in a recursive query"))
	}

	// The init term must not reference the alias being defined.
	recursiveTerm := setop.Inputs[len(setop.Inputs)-1]
	initInputs := setop.Inputs[:len(setop.Inputs)-1]
	for _, input := range initInputs {
		if queryExprReferencesAlias(input, entry.Name) {
			r.throw(sql.ErrRecursiveRefInNonRecursiveTerm.New(input.Position(), entry.Name))
		}
	}

	r.pushEntry(entry.Name, registryEntry{poisoned: true})
	initNode, initList := r.resolveSetOperationBranch(ctx, setop, initInputs, s)
	r.popEntry(entry.Name)

	// Placement of the self-reference is validated on the syntax tree
	// before the term resolves, so the errors point at the offending
	// construct rather than at its resolved shape.
	validateRecursiveTerm(r, recursiveTerm, entry.Name)

	r.cteCounter++
	def := &recursiveDef{
		name:       entry.Name,
		uniqueName: fmt.Sprintf("%s_%d", entry.Name, r.cteCounter),
		columns:    initList.columns(),
	}
	r.pushEntry(entry.Name, registryEntry{defining: def})
	recNode, recList := r.resolveQueryExpr(ctx, recursiveTerm, s)
	r.popEntry(entry.Name)

	if def.refs != 1 {
		r.throw(sql.ErrMultipleRecursiveRefs.New(entry.Name))
	}
	if len(recList.entries) != len(initList.entries) {
		r.throw(sql.ErrColumnCountMismatch.New(recursiveTerm.Position(),
			len(initList.entries), len(recList.entries)))
	}
	recNode = r.coerceBranch(recursiveTerm.Position(), recNode, recList.columns(), initList.columns())

	cte := plan.NewRecursiveCte(entry.Name, def.uniqueName, setop.Distinct,
		initList.columns(), initNode, recNode)
	r.pushEntry(entry.Name, registryEntry{sub: &namedSubquery{
		name:    entry.Name,
		columns: initList.columns(),
		node:    cte,
	}})
}

// expandNamedSubquery instantiates a reference to a WITH alias. Each
// reference gets its own column ids so two scans of the same alias
// never collide.
func (r *Resolver) expandNamedSubquery(sub *namedSubquery, alias string) (sql.Node, *rangeVariable) {
	name := alias
	if name == "" {
		name = sub.name
	}
	cols := make(sql.Schema, len(sub.columns))
	for i, col := range sub.columns {
		cols[i] = r.nextColumn(name, col.Name, col.Type)
	}
	node := plan.NewSubqueryAlias(name, cols, sub.node).AsCTE()
	return node, &rangeVariable{name: name, columns: cols}
}

// queryReferencesAlias reports whether any table reference in the
// query names the alias. Shadowing by nested WITH entries of the same
// name is respected.
func queryReferencesAlias(q *ast.Query, name string) bool {
	if q == nil {
		return false
	}
	if q.With != nil {
		for _, e := range q.With.Entries {
			if strings.EqualFold(e.Name, name) {
				// Inner definition shadows the outer alias.
				return false
			}
			if queryReferencesAlias(e.Query, name) {
				return true
			}
		}
	}
	return queryExprReferencesAlias(q.Body, name)
}

func queryExprReferencesAlias(qe ast.QueryExpr, name string) bool {
	switch body := qe.(type) {
	case *ast.Query:
		return queryReferencesAlias(body, name)
	case *ast.SetOperation:
		for _, input := range body.Inputs {
			if queryExprReferencesAlias(input, name) {
				return true
			}
		}
	case *ast.Select:
		if tableExprReferencesAlias(body.From, name) {
			return true
		}
		for _, item := range body.Items {
			if se, ok := item.(*ast.SelectExpr); ok && exprReferencesAlias(se.Expr, name) {
				return true
			}
		}
		return exprReferencesAlias(body.Where, name) ||
			exprReferencesAlias(body.Having, name)
	}
	return false
}

func tableExprReferencesAlias(te ast.TableExpr, name string) bool {
	switch t := te.(type) {
	case nil:
		return false
	case *ast.TableRef:
		return len(t.Path) == 1 && strings.EqualFold(t.Path[0], name)
	case *ast.Join:
		return tableExprReferencesAlias(t.Left, name) ||
			tableExprReferencesAlias(t.Right, name) ||
			exprReferencesAlias(t.On, name)
	case *ast.SubqueryTable:
		return queryReferencesAlias(t.Query, name)
	case *ast.TableFuncCall:
		for _, arg := range t.Args {
			if exprReferencesAlias(arg, name) {
				return true
			}
		}
	}
	return false
}

func exprReferencesAlias(e ast.Expr, name string) bool {
	switch ex := e.(type) {
	case nil:
		return false
	case *ast.SubqueryExpr:
		return queryReferencesAlias(ex.Query, name)
	case *ast.InExpr:
		return exprReferencesAlias(ex.Expr, name) || queryReferencesAlias(ex.Query, name)
	case *ast.UnaryExpr:
		return exprReferencesAlias(ex.Expr, name)
	case *ast.BinaryExpr:
		return exprReferencesAlias(ex.Left, name) || exprReferencesAlias(ex.Right, name)
	case *ast.FuncCall:
		for _, arg := range ex.Args {
			if exprReferencesAlias(arg, name) {
				return true
			}
		}
	case *ast.CastExpr:
		return exprReferencesAlias(ex.Expr, name)
	}
	return false
}
