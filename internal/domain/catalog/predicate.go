package catalog

import (
	"strconv"
	"strings"
)

// Predicate is one typed SQL condition. Predicates are combined with And/Or
// and rendered by a Builder; Always and Never keep "no filter" and
// "filter that cannot match" distinct until rendering.
type Predicate interface {
	predicate()
}

type always struct{}

type never struct{}

type raw struct {
	sql  string // "?" marks a bound argument
	args []any
}

type and []Predicate

type or []Predicate

func (always) predicate() {}
func (never) predicate()  {}
func (raw) predicate()    {}
func (and) predicate()    {}
func (or) predicate()     {}

// Always places no constraint.
func Always() Predicate { return always{} }

// Never matches no rows.
func Never() Predicate { return never{} }

// Raw wraps a condition using "?" for each argument in args.
func Raw(sql string, args ...any) Predicate {
	if strings.Count(sql, "?") != len(args) {
		panic("catalog: placeholder count does not match args in " + strconv.Quote(sql))
	}
	return raw{sql: sql, args: args}
}

func And(ps ...Predicate) Predicate { return Simplify(and(ps)) }

func Or(ps ...Predicate) Predicate { return Simplify(or(ps)) }

// Simplify folds Always/Never through And/Or.
func Simplify(p Predicate) Predicate {
	switch p := p.(type) {
	case and:
		var kept and
		for _, c := range p {
			c = Simplify(c)
			switch c.(type) {
			case never:
				return Never()
			case always:
				continue
			}
			kept = append(kept, c)
		}
		switch len(kept) {
		case 0:
			return Always()
		case 1:
			return kept[0]
		}
		return kept
	case or:
		var kept or
		for _, c := range p {
			c = Simplify(c)
			switch c.(type) {
			case always:
				return Always()
			case never:
				continue
			}
			kept = append(kept, c)
		}
		switch len(kept) {
		case 0:
			return Never()
		case 1:
			return kept[0]
		}
		return kept
	default:
		return p
	}
}

func IsAlways(p Predicate) bool {
	_, ok := Simplify(p).(always)
	return ok
}

func IsNever(p Predicate) bool {
	_, ok := Simplify(p).(never)
	return ok
}

// Builder renders predicates into PostgreSQL text, numbering placeholders
// across every Render call on the same Builder.
type Builder struct {
	args []any
}

func (b *Builder) Args() []any { return b.args }

// Arg binds v and returns its placeholder.
func (b *Builder) Arg(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

func (b *Builder) Render(p Predicate) string {
	switch p := Simplify(p).(type) {
	case always:
		return "TRUE"
	case never:
		return "FALSE"
	case raw:
		var sb strings.Builder
		next := 0
		for _, r := range p.sql {
			if r == '?' {
				sb.WriteString(b.Arg(p.args[next]))
				next++
				continue
			}
			sb.WriteRune(r)
		}
		return sb.String()
	case and:
		return b.join(p, " AND ")
	case or:
		return b.join(p, " OR ")
	}
	panic("catalog: unknown predicate")
}

func (b *Builder) join(ps []Predicate, sep string) string {
	parts := make([]string, len(ps))
	for i, c := range ps {
		parts[i] = b.Render(c)
	}
	return "(" + strings.Join(parts, sep) + ")"
}
