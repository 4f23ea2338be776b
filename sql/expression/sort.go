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

package expression

import (
	"fmt"

	"github.com/georgewfraser/zetasql/sql"
)

// SortField is one key of an ordering.
type SortField struct {
	Column sql.Expression
	Desc   bool
}

func (s SortField) String() string {
	if s.Desc {
		return fmt.Sprintf("%s DESC", s.Column)
	}
	return fmt.Sprintf("%s ASC", s.Column)
}
