// Copyright 2023 Memgrid
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package frontend

import (
	"regexp"
	"strings"
)

var likeReplacer = strings.NewReplacer("%", ".*", "_", ".")

// matchesPattern reports whether value matches the SQL LIKE style pattern
// used by the metadata commands: '%' spans any sequence of characters,
// '_' exactly one, the match is case-insensitive and anchored at both
// ends. An empty pattern matches everything. There is no escape syntax
// for literal '%' or '_'.
func matchesPattern(value, pattern string) bool {
	if pattern == "" {
		return true
	}
	expr := "^" + likeReplacer.Replace(strings.ToUpper(pattern)) + "$"
	re, err := regexp.Compile(expr)
	if err != nil {
		return false
	}
	return re.MatchString(strings.ToUpper(value))
}

// trimQuotes strips one pair of surrounding double quotes, the form
// drivers use for quoted identifiers. Anything else passes through.
func trimQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
