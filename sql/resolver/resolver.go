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

// Package resolver turns syntax trees into resolved plans: every name
// bound to a column id, every expression typed, every implicit
// coercion made explicit.
package resolver

import (
	"time"

	"github.com/mitchellh/hashstructure"
	"github.com/sirupsen/logrus"

	"github.com/georgewfraser/zetasql/ast"
	"github.com/georgewfraser/zetasql/sql"
)

// maxDepth bounds query nesting before resolution gives up, so deeply
// nested statements fail cleanly instead of exhausting the stack.
const maxDepth = 500

// Options configures a Resolver.
type Options struct {
	// Language enables optional behavior. Defaults to
	// sql.DefaultLanguageOptions.
	Language *sql.LanguageOptions
	// Location is the default time zone for temporal casts. Defaults
	// to UTC.
	Location *time.Location
	// Matcher selects function overloads. Defaults to
	// sql.DefaultSignatureMatcher.
	Matcher sql.SignatureMatcher
}

// Warning is a non-fatal finding reported during resolution, such as a
// call to a deprecated function. A (kind, message) pair is reported
// once per statement.
type Warning struct {
	Kind    string
	Message string
}

// WarnDeprecation marks warnings about calls to deprecated functions.
const WarnDeprecation = "deprecation"

// registryEntry is one element of a named-subquery stack. A poisoned
// entry marks an alias whose definition is being resolved; references
// to it are errors. A defining entry marks the alias of a recursive
// query whose recursive term is being resolved; references to it
// become self-reference scans.
type registryEntry struct {
	sub      *namedSubquery
	poisoned bool
	defining *recursiveDef
}

// namedSubquery is a resolved WITH entry, ready to expand at each
// reference.
type namedSubquery struct {
	name    string
	columns sql.Schema
	node    sql.Node
}

// recursiveDef tracks the alias of a recursive query while its
// recursive term resolves.
type recursiveDef struct {
	name       string
	uniqueName string
	columns    sql.Schema
	refs       int
}

// Resolver resolves statements against a catalog. A Resolver is not
// safe for concurrent use; Reset prepares it for the next statement.
type Resolver struct {
	cat     sql.Catalog
	opts    Options
	coercer *sql.Coercer
	matcher sql.SignatureMatcher

	colID      sql.ColumnID
	registry   map[string][]registryEntry
	cteCounter int
	depth      int

	warnings     []Warning
	warningsSeen map[uint64]bool

	// Parameter types start as INT64 placeholders; the constrained
	// flags flip once a coercion context fixes the real type.
	namedParams           map[string]sql.Type
	namedConstrained      map[string]bool
	positionalParams      []sql.Type
	positionalConstrained []bool
	sawNamedParam         bool
	sawPositional         bool
}

// New creates a resolver over the given catalog.
func New(cat sql.Catalog, opts Options) *Resolver {
	if opts.Language == nil {
		opts.Language = sql.DefaultLanguageOptions()
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	matcher := opts.Matcher
	if matcher == nil {
		matcher = sql.DefaultSignatureMatcher()
	}
	r := &Resolver{
		cat:     cat,
		opts:    opts,
		coercer: sql.NewCoercer(cat),
		matcher: matcher,
	}
	r.Reset()
	return r
}

// Reset clears all per-statement state. Column ids keep increasing
// across statements so plans resolved by the same Resolver never share
// ids.
func (r *Resolver) Reset() {
	r.registry = make(map[string][]registryEntry)
	r.depth = 0
	r.warnings = nil
	r.warningsSeen = make(map[uint64]bool)
	r.namedParams = make(map[string]sql.Type)
	r.namedConstrained = make(map[string]bool)
	r.positionalParams = nil
	r.positionalConstrained = nil
	r.sawNamedParam = false
	r.sawPositional = false
}

// MaxColumnID returns the highest column id allocated so far.
func (r *Resolver) MaxColumnID() sql.ColumnID { return r.colID }

// Warnings returns the warnings collected for the last statement.
func (r *Resolver) Warnings() []Warning { return r.warnings }

// NamedParameters returns the inferred types of the named parameters
// seen in the last statement.
func (r *Resolver) NamedParameters() map[string]sql.Type { return r.namedParams }

// PositionalParameters returns the inferred types of the positional
// parameters seen in the last statement, in order.
func (r *Resolver) PositionalParameters() []sql.Type { return r.positionalParams }

// resolveErr carries an error up through the recursive descent.
type resolveErr struct {
	err error
}

// throw aborts resolution with the given error. ResolveStatement
// recovers it.
func (r *Resolver) throw(err error) {
	panic(resolveErr{err})
}

// enter guards against runaway nesting. Callers defer the returned
// function.
func (r *Resolver) enter() func() {
	r.depth++
	if r.depth > maxDepth {
		panic(resolveErr{sql.StackOverflowError})
	}
	return func() { r.depth-- }
}

// nextColumn allocates a column with a fresh id.
func (r *Resolver) nextColumn(table, name string, t sql.Type) sql.Column {
	r.colID++
	return sql.Column{ID: r.colID, Table: table, Name: name, Type: t}
}

// warn records a warning, deduplicating repeated (kind, message) pairs
// within the statement.
func (r *Resolver) warn(ctx *sql.Context, kind, msg string) {
	w := Warning{Kind: kind, Message: msg}
	hash, err := hashstructure.Hash(w, nil)
	if err == nil {
		if r.warningsSeen[hash] {
			return
		}
		r.warningsSeen[hash] = true
	}
	r.warnings = append(r.warnings, w)
	ctx.Warn(msg, logrus.Fields{"warning": kind})
}

// ResolveStatement resolves a statement to a plan. Warnings and
// inferred parameter types accumulate on the Resolver and reset with
// the next call.
func (r *Resolver) ResolveStatement(ctx *sql.Context, stmt ast.Statement) (node sql.Node, err error) {
	span, ctx := ctx.Span("resolve_statement")
	defer span.Finish()

	r.Reset()
	defer func() {
		if rec := recover(); rec != nil {
			re, ok := rec.(resolveErr)
			if !ok {
				panic(rec)
			}
			node, err = nil, re.err
		}
	}()

	switch s := stmt.(type) {
	case *ast.QueryStatement:
		outer := &scope{r: r, list: &nameList{}}
		node, _ = r.resolveQuery(ctx, s.Query, outer)
		ctx.Logger().WithFields(logrus.Fields{
			"columns":  len(node.Schema()),
			"warnings": len(r.warnings),
		}).Debug("statement resolved")
		return node, nil
	default:
		return nil, sql.ErrUnsupportedSyntax.New(stmt.Position(), "statement")
	}
}

// castOptions builds the evaluation options for literal folding.
func (r *Resolver) castOptions() sql.CastOptions {
	var conversions sql.ConversionSource
	if r.cat != nil {
		conversions = r.cat
	}
	return sql.CastOptions{
		Location:    r.opts.Location,
		Language:    r.opts.Language,
		Conversions: conversions,
	}
}
