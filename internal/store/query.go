package store

import "strings"

// Op is a predicate operator understood by the store.
type Op string

const (
	OpEq    Op = "="
	OpNeq   Op = "<>"
	OpIn    Op = "IN"
	OpILike Op = "ILIKE"
)

type Filter struct {
	Column string
	Op     Op
	Value  any
}

func Eq(column string, value any) Filter {
	return Filter{Column: column, Op: OpEq, Value: value}
}

func Neq(column string, value any) Filter {
	return Filter{Column: column, Op: OpNeq, Value: value}
}

// In matches any element of values, which must be a slice. An empty slice matches nothing.
func In(column string, values any) Filter {
	return Filter{Column: column, Op: OpIn, Value: values}
}

// ILike is a case-insensitive LIKE; pattern wildcards are passed through.
func ILike(column, pattern string) Filter {
	return Filter{Column: column, Op: OpILike, Value: pattern}
}

// ILikeExact is a case-insensitive equality match built on ILIKE with wildcards escaped.
func ILikeExact(column, value string) Filter {
	return ILike(column, EscapeLike(value))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func EscapeLike(value string) string {
	return likeEscaper.Replace(value)
}

type Nulls int

const (
	NullsDefault Nulls = iota
	NullsFirst
	NullsLast
)

type Order struct {
	Column string
	Desc   bool
	Nulls  Nulls
}

func Asc(column string) Order {
	return Order{Column: column}
}

func Desc(column string) Order {
	return Order{Column: column, Desc: true}
}

func (o Order) NullsFirst() Order {
	o.Nulls = NullsFirst
	return o
}

func (o Order) NullsLast() Order {
	o.Nulls = NullsLast
	return o
}

// Query describes a single-table select. Build it with From and the chained helpers.
type Query struct {
	Table   string
	Columns []string
	Filters []Filter
	Orders  []Order
	Limit   int
	Offset  int
}

func From(table string) Query {
	return Query{Table: table}
}

func (q Query) Select(columns ...string) Query {
	q.Columns = append(append([]string{}, q.Columns...), columns...)
	return q
}

func (q Query) Where(filters ...Filter) Query {
	q.Filters = append(append([]Filter{}, q.Filters...), filters...)
	return q
}

func (q Query) OrderBy(orders ...Order) Query {
	q.Orders = append(append([]Order{}, q.Orders...), orders...)
	return q
}

func (q Query) Take(limit int) Query {
	q.Limit = limit
	return q
}

func (q Query) Skip(offset int) Query {
	q.Offset = offset
	return q
}

// Values maps column names to values for insert and update.
type Values map[string]any
