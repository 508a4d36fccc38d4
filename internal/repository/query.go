package repository

import (
	"fmt"
	"strings"
)

// cond is one optional filter predicate: a SQL fragment with a single `?`
// placeholder plus its bound argument. Absent filters contribute no cond,
// so every query composes as an AND of the predicates that are present.
type cond struct {
	expr string
	arg  any
}

// whereSQL folds conds into a WHERE clause, renumbering each `?` into the
// positional `$N` form accepted by both supported drivers. Queries that use
// whereSQL must not carry placeholders of their own.
func whereSQL(conds []cond) (string, []any) {
	if len(conds) == 0 {
		return "", nil
	}
	exprs := make([]string, len(conds))
	args := make([]any, len(conds))
	for i, c := range conds {
		exprs[i] = strings.Replace(c.expr, "?", fmt.Sprintf("$%d", i+1), 1)
		args[i] = c.arg
	}
	return " WHERE " + strings.Join(exprs, " AND "), args
}

// Page bounds a list query. Zero values fall back to skip 0 / limit 10.
type Page struct {
	Skip  int
	Limit int
}

// sql renders the page as a LIMIT/OFFSET fragment. Both values are forced
// to sane integers before being inlined, never taken from raw input.
func (p Page) sql() string {
	limit := p.Limit
	if limit <= 0 {
		limit = 10
	}
	skip := p.Skip
	if skip < 0 {
		skip = 0
	}
	return fmt.Sprintf(" LIMIT %d OFFSET %d", limit, skip)
}
