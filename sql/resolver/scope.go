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
)

// rangeVariable is one named FROM item: a table, an alias, or a
// derived table.
type rangeVariable struct {
	name    string
	columns sql.Schema
	// isValueTable marks items whose rows are single values. Fields of
	// the value resolve as if they were columns.
	isValueTable bool
}

// nameEntry is one column visible in a scope. Hidden entries resolve
// only through their range variable, not by bare name; USING joins
// hide the right side's join columns this way.
type nameEntry struct {
	col    sql.Column
	rv     *rangeVariable
	hidden bool
}

// nameList is the ordered set of columns a FROM clause exposes.
type nameList struct {
	entries   []nameEntry
	rangeVars []*rangeVariable
}

func (l *nameList) addRangeVariable(rv *rangeVariable) {
	l.rangeVars = append(l.rangeVars, rv)
	for _, col := range rv.columns {
		l.entries = append(l.entries, nameEntry{col: col, rv: rv})
	}
}

func (l *nameList) merge(other *nameList) *nameList {
	out := &nameList{}
	out.entries = append(out.entries, l.entries...)
	out.entries = append(out.entries, other.entries...)
	out.rangeVars = append(out.rangeVars, l.rangeVars...)
	out.rangeVars = append(out.rangeVars, other.rangeVars...)
	return out
}

// columns returns the visible columns in order, hidden ones included.
func (l *nameList) columns() sql.Schema {
	out := make(sql.Schema, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.col
	}
	return out
}

func (l *nameList) rangeVariable(name string) *rangeVariable {
	for _, rv := range l.rangeVars {
		if strings.EqualFold(rv.name, name) {
			return rv
		}
	}
	return nil
}

// hideColumn marks the entry with the given id as hidden. It stays
// reachable through its range variable.
func (l *nameList) hideColumn(id sql.ColumnID) {
	for i := range l.entries {
		if l.entries[i].col.ID == id {
			l.entries[i].hidden = true
		}
	}
}

// findColumn returns the entries matching a bare column name,
// excluding hidden ones.
func (l *nameList) findColumn(name string) []nameEntry {
	var found []nameEntry
	for _, e := range l.entries {
		if e.hidden {
			continue
		}
		if strings.EqualFold(e.col.Name, name) {
			found = append(found, e)
		}
	}
	return found
}

// correlation collects the outer columns a subquery captures, in
// first-use order.
type correlation struct {
	cols []sql.Column
	seen map[sql.ColumnID]bool
}

func newCorrelation() *correlation {
	return &correlation{seen: make(map[sql.ColumnID]bool)}
}

func (c *correlation) add(col sql.Column) {
	if c.seen[col.ID] {
		return
	}
	c.seen[col.ID] = true
	c.cols = append(c.cols, col)
}

// scope is one level of name visibility. Scopes chain through parent;
// resolution that crosses a subquery boundary records the column in
// the boundary's correlation.
type scope struct {
	r      *Resolver
	parent *scope
	list   *nameList
	// boundary is set on the root scope of a subquery expression.
	// Columns resolved through it are correlated references.
	boundary *correlation
	// groups is set once GROUP BY is resolved; expressions resolved
	// afterwards must reduce to grouping keys or aggregates.
	groups *groupingInfo
	// inAggregateArgs is set while resolving the arguments of an
	// aggregate call.
	inAggregateArgs bool
	// noAggregates rejects aggregate and analytic calls outright, for
	// clauses like WHERE and GROUP BY that never allow them.
	noAggregates bool
	// clause names the clause being resolved, for error messages.
	clause string
	// allowAnalytic permits analytic calls; only the select list and
	// ORDER BY set it.
	allowAnalytic bool
}

func (s *scope) child(list *nameList) *scope {
	return &scope{r: s.r, parent: s, list: list}
}

// subqueryScope opens a scope for a subquery expression. Names not
// found inside resolve against the enclosing scopes as correlated
// references.
func (s *scope) subqueryScope() (*scope, *correlation) {
	corr := newCorrelation()
	return &scope{r: s.r, parent: s, list: &nameList{}, boundary: corr}, corr
}

// grouped returns a copy of the scope with grouping info attached.
func (s *scope) grouped(g *groupingInfo) *scope {
	ns := *s
	ns.groups = g
	return &ns
}

// lookup is the result of resolving an identifier prefix.
type lookup struct {
	expr sql.Expression
	// rest are the identifier parts not yet consumed; they resolve as
	// field accesses on expr.
	rest []string
}

// resolveName resolves a possibly-qualified identifier to an
// expression, walking parent scopes and capturing correlated columns
// along the way. It throws if the name is ambiguous or unknown.
func (s *scope) resolveName(pos ast.Position, parts []string) sql.Expression {
	l, ok := s.resolveLocal(pos, parts, false)
	if !ok {
		s.r.throw(sql.ErrColumnNotFound.New(pos, strings.Join(parts, ".")))
	}
	return resolveFieldPath(s.r, pos, l.expr, l.rest)
}

// resolveLocal finds the longest resolvable prefix of parts in this
// scope or an enclosing one. correlated is true once a subquery
// boundary has been crossed.
func (s *scope) resolveLocal(pos ast.Position, parts []string, correlated bool) (lookup, bool) {
	name := parts[0]

	rv := s.list.rangeVariable(name)
	cols := s.list.findColumn(name)

	if rv != nil && len(parts) > 1 {
		// A qualified name prefers the range variable; a bare one must
		// not be claimed by both a range variable and a column.
		inner := rv.findColumn(parts[1])
		if inner != nil {
			return lookup{expr: s.groupedRef(pos, *inner, correlated), rest: parts[2:]}, true
		}
		if rv.isValueTable {
			ref := s.groupedRef(pos, rv.columns[0], correlated)
			return lookup{expr: ref, rest: parts[1:]}, true
		}
		s.r.throw(sql.ErrFieldNotFound.New(pos, parts[1], rv.name))
	}

	if rv != nil && len(parts) == 1 {
		if len(cols) > 0 {
			s.r.throw(sql.ErrAmbiguousName.New(pos, name))
		}
		if rv.isValueTable || len(rv.columns) == 1 {
			return lookup{expr: s.groupedRef(pos, rv.columns[0], correlated)}, true
		}
		s.r.throw(sql.ErrUnsupportedSyntax.New(pos, "range variable used as a value"))
	}

	if len(cols) > 1 {
		s.r.throw(sql.ErrAmbiguousColumnName.New(pos, name))
	}
	if len(cols) == 1 {
		return lookup{expr: s.groupedRef(pos, cols[0].col, correlated), rest: parts[1:]}, true
	}

	// Fields of value tables resolve without qualification.
	var valueMatches []lookup
	for _, vrv := range s.list.rangeVars {
		if !vrv.isValueTable {
			continue
		}
		st, ok := vrv.columns[0].Type.(*sql.StructType)
		if !ok {
			continue
		}
		if st.FieldIndex(name) >= 0 {
			ref := s.groupedRef(pos, vrv.columns[0], correlated)
			valueMatches = append(valueMatches, lookup{expr: ref, rest: parts})
		}
	}
	if len(valueMatches) > 1 {
		s.r.throw(sql.ErrAmbiguousColumnName.New(pos, name))
	}
	if len(valueMatches) == 1 {
		return valueMatches[0], true
	}

	if s.parent == nil {
		return lookup{}, false
	}
	if s.boundary != nil {
		correlated = true
	}
	l, ok := s.parent.resolveLocal(pos, parts, correlated)
	if ok && s.boundary != nil {
		if ref, isRef := l.expr.(*expression.ColumnRef); isRef {
			s.boundary.add(ref.Column())
		}
	}
	return l, ok
}

// columnRef builds a reference, correlated when resolution crossed a
// subquery boundary.
func (s *scope) columnRef(col sql.Column, correlated bool) sql.Expression {
	if correlated {
		return expression.NewCorrelatedColumnRef(col)
	}
	return expression.NewColumnRef(col)
}

// groupedRef maps a column reference through the grouping keys when
// the scope is aggregated. References that are neither grouped nor
// inside an aggregate call are errors.
func (s *scope) groupedRef(pos ast.Position, col sql.Column, correlated bool) sql.Expression {
	if s.groups == nil || s.inAggregateArgs || correlated {
		return s.columnRef(col, correlated)
	}
	if key, ok := s.groups.keyForColumn(col.ID); ok {
		return expression.NewColumnRef(key)
	}
	s.r.throw(sql.ErrNotAggregated.New(pos, col.Name))
	return nil
}

func (rv *rangeVariable) findColumn(name string) *sql.Column {
	for i, col := range rv.columns {
		if strings.EqualFold(col.Name, name) {
			return &rv.columns[i]
		}
	}
	return nil
}

// resolveFieldPath steps through the remaining identifier parts as
// struct field accesses.
func resolveFieldPath(r *Resolver, pos ast.Position, expr sql.Expression, rest []string) sql.Expression {
	for _, part := range rest {
		st, ok := expr.Type().(*sql.StructType)
		if !ok {
			r.throw(sql.ErrFieldAccessOnScalar.New(pos, part, expr.Type()))
		}
		idx := st.FieldIndex(part)
		if idx < 0 {
			r.throw(sql.ErrFieldNotFound.New(pos, part, st))
		}
		expr = expression.NewGetStructField(expr, st.Field(idx).Name, idx, st.Field(idx).Type)
	}
	return expr
}
