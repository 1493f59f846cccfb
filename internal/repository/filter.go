package repository

import (
	"strconv"
	"strings"

	"todo_api/internal/domain"
)

// Predicate is one SQL condition. Placeholders are written as "?" and
// renumbered when predicates are folded into a statement.
type Predicate struct {
	SQL  string
	Args []any
}

// TitleContains matches a case-insensitive literal substring of the title.
// LIKE metacharacters in q are escaped so they match themselves.
func TitleContains(q string) Predicate {
	return Predicate{
		SQL:  `title ILIKE ? ESCAPE '\'`,
		Args: []any{"%" + escapeLike(q) + "%"},
	}
}

// CompletedIs matches the completed flag exactly
func CompletedIs(completed bool) Predicate {
	return Predicate{SQL: "completed = ?", Args: []any{completed}}
}

// Where is an ordered conjunction of predicates
type Where []Predicate

// And appends p
func (w Where) And(p Predicate) Where {
	return append(w, p)
}

// Build folds the predicates into one condition whose placeholders start at
// $argOffset+1. An empty Where matches every row.
func (w Where) Build(argOffset int) (string, []any) {
	if len(w) == 0 {
		return "TRUE", nil
	}

	var sb strings.Builder
	var args []any
	n := argOffset
	for i, p := range w {
		if i > 0 {
			sb.WriteString(" AND ")
		}
		if len(w) > 1 {
			sb.WriteByte('(')
		}
		for _, r := range p.SQL {
			if r == '?' {
				n++
				sb.WriteByte('$')
				sb.WriteString(strconv.Itoa(n))
				continue
			}
			sb.WriteRune(r)
		}
		if len(w) > 1 {
			sb.WriteByte(')')
		}
		args = append(args, p.Args...)
	}
	return sb.String(), args
}

// filterWhere maps a listing filter to predicates; absent fields add nothing
func filterWhere(f domain.TodoFilter) Where {
	var w Where
	if f.Query != "" {
		w = w.And(TitleContains(f.Query))
	}
	if f.Completed != nil {
		w = w.And(CompletedIs(*f.Completed))
	}
	return w
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
