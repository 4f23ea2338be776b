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

// Package ast declares the syntax tree the resolver consumes. Every
// node records the source position it came from so semantic errors can
// point at the offending syntax.
package ast

import (
	"fmt"
	"strings"
)

// Position is a 1-based line and column in the query text.
type Position struct {
	Line int
	Col  int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Node is implemented by every syntax node.
type Node interface {
	Position() Position
}

// Statement is a top-level statement.
type Statement interface {
	Node
	statementNode()
}

// QueryStatement is a standalone query.
type QueryStatement struct {
	Pos   Position
	Query *Query
}

func (s *QueryStatement) Position() Position { return s.Pos }
func (s *QueryStatement) statementNode()     {}

// Query is a query expression with its optional WITH clause, ordering
// and limit.
type Query struct {
	Pos     Position
	With    *With
	Body    QueryExpr
	OrderBy []*OrderByItem
	Limit   Expr
	Offset  Expr
}

func (q *Query) Position() Position { return q.Pos }
func (q *Query) queryExprNode()     {}

// QueryExpr is the body of a query: a SELECT, a set operation, or a
// parenthesized query.
type QueryExpr interface {
	Node
	queryExprNode()
}

// With is a WITH clause.
type With struct {
	Pos       Position
	Recursive bool
	Entries   []*WithEntry
}

func (w *With) Position() Position { return w.Pos }

// WithEntry is one alias definition in a WITH clause.
type WithEntry struct {
	Pos   Position
	Name  string
	Query *Query
}

func (e *WithEntry) Position() Position { return e.Pos }

// Select is a SELECT clause with its attached clauses.
type Select struct {
	Pos      Position
	Distinct bool
	Items    []SelectItem
	From     TableExpr
	Where    Expr
	GroupBy  []Expr
	Having   Expr
}

func (s *Select) Position() Position { return s.Pos }
func (s *Select) queryExprNode()     {}

// SetOp is a set operation kind.
type SetOp int

const (
	UnionOp SetOp = iota
	IntersectOp
	ExceptOp
)

func (o SetOp) String() string {
	switch o {
	case IntersectOp:
		return "INTERSECT"
	case ExceptOp:
		return "EXCEPT"
	default:
		return "UNION"
	}
}

// SetOperation combines two or more query expressions with UNION,
// INTERSECT or EXCEPT.
type SetOperation struct {
	Pos      Position
	Op       SetOp
	Distinct bool
	Inputs   []QueryExpr
}

func (s *SetOperation) Position() Position { return s.Pos }
func (s *SetOperation) queryExprNode()     {}

// SelectItem is one item of a select list.
type SelectItem interface {
	Node
	selectItemNode()
}

// Star is a bare * select item.
type Star struct {
	Pos Position
}

func (s *Star) Position() Position { return s.Pos }
func (s *Star) selectItemNode()    {}

// DotStar is an expr.* select item.
type DotStar struct {
	Pos  Position
	Expr Expr
}

func (s *DotStar) Position() Position { return s.Pos }
func (s *DotStar) selectItemNode()    {}

// SelectExpr is an expression select item with an optional alias.
type SelectExpr struct {
	Pos   Position
	Expr  Expr
	Alias string
}

func (s *SelectExpr) Position() Position { return s.Pos }
func (s *SelectExpr) selectItemNode()    {}

// OrderByItem is one key of an ORDER BY clause.
type OrderByItem struct {
	Pos  Position
	Expr Expr
	Desc bool
}

func (o *OrderByItem) Position() Position { return o.Pos }

// TableExpr is a FROM clause item.
type TableExpr interface {
	Node
	tableExprNode()
}

// TableRef is a reference to a table or WITH alias by path.
type TableRef struct {
	Pos    Position
	Path   []string
	Alias  string
	Sample *TableSample
}

func (t *TableRef) Position() Position { return t.Pos }
func (t *TableRef) tableExprNode()     {}

// TableSample is a TABLESAMPLE suffix on a table reference.
type TableSample struct {
	Pos    Position
	Method string
	// Percent or Rows is set, not both.
	Percent Expr
	Rows    Expr
}

func (t *TableSample) Position() Position { return t.Pos }

// SubqueryTable is a parenthesized query in a FROM clause.
type SubqueryTable struct {
	Pos    Position
	Query  *Query
	Alias  string
	Sample *TableSample
}

func (t *SubqueryTable) Position() Position { return t.Pos }
func (t *SubqueryTable) tableExprNode()     {}

// TableFuncCall is a table function invocation in a FROM clause.
type TableFuncCall struct {
	Pos   Position
	Name  string
	Args  []Expr
	Alias string
}

func (t *TableFuncCall) Position() Position { return t.Pos }
func (t *TableFuncCall) tableExprNode()     {}

// JoinType is the kind of a join.
type JoinType int

const (
	InnerJoin JoinType = iota
	CrossJoin
	LeftJoin
	RightJoin
	FullJoin
)

func (t JoinType) String() string {
	switch t {
	case CrossJoin:
		return "CROSS JOIN"
	case LeftJoin:
		return "LEFT JOIN"
	case RightJoin:
		return "RIGHT JOIN"
	case FullJoin:
		return "FULL JOIN"
	default:
		return "JOIN"
	}
}

// Join combines two FROM items. On and Using are mutually exclusive;
// cross joins carry neither.
type Join struct {
	Pos   Position
	Type  JoinType
	Left  TableExpr
	Right TableExpr
	On    Expr
	Using []string
}

func (j *Join) Position() Position { return j.Pos }
func (j *Join) tableExprNode()     {}

// Expr is a scalar expression.
type Expr interface {
	Node
	exprNode()
}

// NullLiteral is an untyped NULL.
type NullLiteral struct {
	Pos Position
}

func (l *NullLiteral) Position() Position { return l.Pos }
func (l *NullLiteral) exprNode()          {}

// BoolLiteral is TRUE or FALSE.
type BoolLiteral struct {
	Pos   Position
	Value bool
}

func (l *BoolLiteral) Position() Position { return l.Pos }
func (l *BoolLiteral) exprNode()          {}

// IntLiteral is an integer literal.
type IntLiteral struct {
	Pos   Position
	Value int64
}

func (l *IntLiteral) Position() Position { return l.Pos }
func (l *IntLiteral) exprNode()          {}

// FloatLiteral is a floating point literal.
type FloatLiteral struct {
	Pos   Position
	Value float64
}

func (l *FloatLiteral) Position() Position { return l.Pos }
func (l *FloatLiteral) exprNode()          {}

// StringLiteral is a quoted string literal.
type StringLiteral struct {
	Pos   Position
	Value string
}

func (l *StringLiteral) Position() Position { return l.Pos }
func (l *StringLiteral) exprNode()          {}

// BytesLiteral is a quoted bytes literal.
type BytesLiteral struct {
	Pos   Position
	Value []byte
}

func (l *BytesLiteral) Position() Position { return l.Pos }
func (l *BytesLiteral) exprNode()          {}

// TypedLiteral is a literal with a leading type name, like
// DATE '2024-01-05'.
type TypedLiteral struct {
	Pos      Position
	TypeName string
	Value    string
}

func (l *TypedLiteral) Position() Position { return l.Pos }
func (l *TypedLiteral) exprNode()          {}

// Identifier is a possibly-qualified name.
type Identifier struct {
	Pos   Position
	Parts []string
}

func (i *Identifier) Position() Position { return i.Pos }
func (i *Identifier) exprNode()          {}

func (i *Identifier) String() string { return strings.Join(i.Parts, ".") }

// UnaryExpr applies a prefix operator.
type UnaryExpr struct {
	Pos  Position
	Op   string
	Expr Expr
}

func (e *UnaryExpr) Position() Position { return e.Pos }
func (e *UnaryExpr) exprNode()          {}

// BinaryExpr applies an infix operator.
type BinaryExpr struct {
	Pos   Position
	Op    string
	Left  Expr
	Right Expr
}

func (e *BinaryExpr) Position() Position { return e.Pos }
func (e *BinaryExpr) exprNode()          {}

// FuncCall is a function invocation, possibly with an OVER clause.
type FuncCall struct {
	Pos      Position
	Name     string
	Args     []Expr
	Distinct bool
	Over     *WindowSpec
}

func (e *FuncCall) Position() Position { return e.Pos }
func (e *FuncCall) exprNode()          {}

// WindowSpec is the window of an analytic function call.
type WindowSpec struct {
	Pos         Position
	PartitionBy []Expr
	OrderBy     []*OrderByItem
}

func (w *WindowSpec) Position() Position { return w.Pos }

// CastExpr is CAST(expr AS type).
type CastExpr struct {
	Pos  Position
	Expr Expr
	To   *TypeName
}

func (e *CastExpr) Position() Position { return e.Pos }
func (e *CastExpr) exprNode()          {}

// TypeName names a type in syntax. Composite types set Elem or Fields.
type TypeName struct {
	Pos  Position
	Name string
	// Elem is the element type of an ARRAY type name.
	Elem *TypeName
	// Fields are the fields of a STRUCT type name.
	Fields []TypeNameField
}

func (t *TypeName) Position() Position { return t.Pos }

// TypeNameField is one field of a STRUCT type name.
type TypeNameField struct {
	Name string
	Type *TypeName
}

// SubqueryExpr is a parenthesized query used as a scalar expression,
// or an EXISTS test.
type SubqueryExpr struct {
	Pos    Position
	Query  *Query
	Exists bool
}

func (e *SubqueryExpr) Position() Position { return e.Pos }
func (e *SubqueryExpr) exprNode()          {}

// InExpr tests membership of a value in the single column a subquery
// produces.
type InExpr struct {
	Pos   Position
	Expr  Expr
	Query *Query
	Not   bool
}

func (e *InExpr) Position() Position { return e.Pos }
func (e *InExpr) exprNode()          {}

// Parameter is a named @param or positional ? query parameter. Named
// parameters have Name set; positional ones carry their 1-based
// ordinal.
type Parameter struct {
	Pos     Position
	Name    string
	Ordinal int
}

func (e *Parameter) Position() Position { return e.Pos }
func (e *Parameter) exprNode()          {}
