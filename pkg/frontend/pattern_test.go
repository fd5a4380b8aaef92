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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatchesPattern(t *testing.T) {
	cases := []struct {
		value   string
		pattern string
		want    bool
	}{
		{"Employees", "Emp%", true},
		{"Employees", "emp%", true},
		{"Employees", "Emp_oyees", true},
		{"Employees", "", true},
		{"Employees", "Employee", false},
		{"Employees", "%ees", true},
		{"Employees", "_mployees", true},
		{"Employees", "__", false},
		{"", "%", true},
		{"", "_", false},
		{"TABLE", "T%", true},
		{"TABLE", "VIEW", false},
		// '%' spans zero characters too
		{"Emp", "Emp%", true},
	}
	for _, c := range cases {
		require.Equal(t, c.want, matchesPattern(c.value, c.pattern),
			"value=%q pattern=%q", c.value, c.pattern)
	}
}

func TestMatchesPatternBadExpression(t *testing.T) {
	// characters with regexp meaning are not escaped; an invalid
	// expression simply matches nothing
	require.False(t, matchesPattern("anything", "("))
}

func TestTrimQuotes(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`"grid"`, "grid"},
		{"grid", "grid"},
		{`"grid`, `"grid`},
		{`grid"`, `grid"`},
		{`""`, ""},
		{`"`, `"`},
		{"", ""},
		// only one pair is stripped
		{`""grid""`, `"grid"`},
	}
	for _, c := range cases {
		require.Equal(t, c.want, trimQuotes(c.in), "in=%q", c.in)
	}
}
