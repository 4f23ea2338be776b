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

package plan

import "github.com/georgewfraser/zetasql/sql"

// Inspect traverses the plan in depth-first order, calling f on each
// node. If f returns false the node's children are skipped.
func Inspect(node sql.Node, f func(sql.Node) bool) {
	if node == nil || !f(node) {
		return
	}
	for _, child := range node.Children() {
		Inspect(child, f)
	}
}

// InspectExpressions traverses the plan and every expression held by
// its nodes, calling f on each expression. If f returns false the
// expression's children are skipped.
func InspectExpressions(node sql.Node, f func(sql.Expression) bool) {
	Inspect(node, func(n sql.Node) bool {
		if ex, ok := n.(sql.Expressioner); ok {
			for _, e := range ex.Expressions() {
				inspectExpr(e, f)
			}
		}
		return true
	})
}

func inspectExpr(expr sql.Expression, f func(sql.Expression) bool) {
	if expr == nil || !f(expr) {
		return
	}
	for _, child := range expr.Children() {
		inspectExpr(child, f)
	}
}
