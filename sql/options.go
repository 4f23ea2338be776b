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

package sql

// LanguageOptions is the set of language feature flags consulted during
// resolution and casting. Options are built once at process start and
// never mutated afterwards, so unsynchronized concurrent reads are safe.
type LanguageOptions struct {
	// TimestampNanos selects nanosecond precision for timestamp, time
	// and datetime values; the default is microseconds.
	TimestampNanos bool
	// ProtoMaps enables the two-field-struct to map-entry proto cast.
	ProtoMaps bool
}

var defaultLanguageOptions = &LanguageOptions{ProtoMaps: true}

// DefaultLanguageOptions returns the shared, read-only default options.
func DefaultLanguageOptions() *LanguageOptions {
	return defaultLanguageOptions
}

// Scale returns the timestamp precision selected by the options.
func (o *LanguageOptions) Scale() TimestampScale {
	if o != nil && o.TimestampNanos {
		return Nanoseconds
	}
	return Microseconds
}
