package repository

import (
	"testing"
	"time"

	"todo_api/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestWhereEmptyMatchesAll(t *testing.T) {
	cond, args := Where{}.Build(0)
	assert.Equal(t, "TRUE", cond)
	assert.Empty(t, args)
}

func TestWhereSinglePredicate(t *testing.T) {
	cond, args := Where{}.And(CompletedIs(true)).Build(0)
	assert.Equal(t, "completed = $1", cond)
	assert.Equal(t, []any{true}, args)
}

func TestWhereConjunctionRenumbers(t *testing.T) {
	w := Where{}.And(TitleContains("milk")).And(CompletedIs(false))

	cond, args := w.Build(2)
	assert.Equal(t, `(title ILIKE $3 ESCAPE '\') AND (completed = $4)`, cond)
	assert.Equal(t, []any{"%milk%", false}, args)
}

func TestTitleContainsEscapesWildcards(t *testing.T) {
	cases := map[string]string{
		"100%":     `%100\%%`,
		"a_b":      `%a\_b%`,
		`back\`:    `%back\\%`,
		"plain":    "%plain%",
		`%_\mixed`: `%\%\_\\mixed%`,
	}
	for in, want := range cases {
		p := TitleContains(in)
		assert.Equal(t, []any{want}, p.Args, "input %q", in)
	}
}

func TestFilterWhere(t *testing.T) {
	yes := true
	no := false

	cases := []struct {
		name   string
		filter domain.TodoFilter
		cond   string
		args   []any
	}{
		{"none", domain.TodoFilter{}, "TRUE", nil},
		{"query only", domain.TodoFilter{Query: "milk"}, `title ILIKE $1 ESCAPE '\'`, []any{"%milk%"}},
		{"completed false is a filter", domain.TodoFilter{Completed: &no}, "completed = $1", []any{false}},
		{"both", domain.TodoFilter{Query: "x", Completed: &yes}, `(title ILIKE $1 ESCAPE '\') AND (completed = $2)`, []any{"%x%", true}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cond, args := filterWhere(tc.filter).Build(0)
			assert.Equal(t, tc.cond, cond)
			assert.Equal(t, tc.args, args)
		})
	}
}

func TestPatchSet(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	title := "new"
	desc := ""

	sets, args := patchSet(domain.TodoPatch{Title: &title, Description: &desc, UpdatedAt: now})
	assert.Equal(t, "title = $1, description = $2, updated_at = GREATEST($3, updated_at + INTERVAL '1 microsecond')", sets)
	assert.Equal(t, []any{"new", "", now}, args)

	sets, args = patchSet(domain.TodoPatch{UpdatedAt: now})
	assert.Equal(t, "updated_at = GREATEST($1, updated_at + INTERVAL '1 microsecond')", sets)
	assert.Equal(t, []any{now}, args)
}
