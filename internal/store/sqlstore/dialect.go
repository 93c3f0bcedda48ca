package sqlstore

import (
	"strings"
	"time"

	"sales-dashboard/internal/query"
)

type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

type dialect struct {
	name   Dialect
	driver string
	// month extracts the UTC calendar month of date_of_sale as an integer.
	month string
	// lower is the case folding function applied to text columns before
	// LIKE. It must fold the same way strings.ToLower does.
	lower      string
	encodeTime func(time.Time) any
}

var dialects = map[Dialect]dialect{
	SQLite: {
		name:   SQLite,
		driver: "sqlite",
		month:  "CAST(strftime('%m', date_of_sale) AS INTEGER)",
		lower:  unicodeLower,
		encodeTime: func(t time.Time) any {
			return t.UTC().Format(time.RFC3339)
		},
	},
	Postgres: {
		name:   Postgres,
		driver: "postgres",
		month:  "CAST(EXTRACT(MONTH FROM date_of_sale AT TIME ZONE 'UTC') AS INTEGER)",
		lower:  "LOWER",
		encodeTime: func(t time.Time) any {
			return t.UTC()
		},
	},
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// where renders f as a WHERE clause with ? placeholders.
func (d dialect) where(f query.Filter) (string, []any) {
	clauses := []string{d.month + " = ?"}
	args := []any{int(f.Month())}

	if s, ok := f.Search(); ok {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(s.Term)) + "%"
		or := []string{
			d.lower + `(title) LIKE ? ESCAPE '\'`,
			d.lower + `(description) LIKE ? ESCAPE '\'`,
		}
		args = append(args, pattern, pattern)
		if s.Price != nil {
			or = append(or, "price = ?")
			args = append(args, *s.Price)
		}
		clauses = append(clauses, "("+strings.Join(or, " OR ")+")")
	}

	if r, ok := f.PriceRange(); ok {
		op := ">="
		if r.MinExclusive {
			op = ">"
		}
		clauses = append(clauses, "price "+op+" ?")
		args = append(args, r.Min)
		if r.Bounded {
			clauses = append(clauses, "price <= ?")
			args = append(args, r.Max)
		}
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}
