package store

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
)

var identRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

func checkIdent(name string) error {
	if !identRe.MatchString(name) {
		return fmt.Errorf("store: invalid identifier %q", name)
	}
	return nil
}

func buildSelect(q Query) (string, []any, error) {
	if err := checkIdent(q.Table); err != nil {
		return "", nil, err
	}
	columns := "*"
	if len(q.Columns) > 0 {
		for _, col := range q.Columns {
			if err := checkIdent(col); err != nil {
				return "", nil, err
			}
		}
		columns = strings.Join(q.Columns, ", ")
	}
	var b strings.Builder
	b.WriteString("SELECT " + columns + " FROM " + q.Table)
	where, args, err := buildWhere(q.Filters)
	if err != nil {
		return "", nil, err
	}
	b.WriteString(where)
	if len(q.Orders) > 0 {
		parts := make([]string, 0, len(q.Orders))
		for _, o := range q.Orders {
			if err := checkIdent(o.Column); err != nil {
				return "", nil, err
			}
			part := o.Column + " ASC"
			if o.Desc {
				part = o.Column + " DESC"
			}
			switch o.Nulls {
			case NullsFirst:
				part += " NULLS FIRST"
			case NullsLast:
				part += " NULLS LAST"
			}
			parts = append(parts, part)
		}
		b.WriteString(" ORDER BY " + strings.Join(parts, ", "))
	}
	if q.Limit > 0 {
		b.WriteString(" LIMIT " + strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		b.WriteString(" OFFSET " + strconv.Itoa(q.Offset))
	}
	return sqlx.Rebind(sqlx.DOLLAR, b.String()), args, nil
}

func buildWhere(filters []Filter) (string, []any, error) {
	if len(filters) == 0 {
		return "", nil, nil
	}
	clauses := make([]string, 0, len(filters))
	args := []any{}
	for _, f := range filters {
		if err := checkIdent(f.Column); err != nil {
			return "", nil, err
		}
		switch f.Op {
		case OpEq, OpNeq:
			clauses = append(clauses, f.Column+" "+string(f.Op)+" ?")
			args = append(args, f.Value)
		case OpILike:
			clauses = append(clauses, f.Column+" ILIKE ?")
			args = append(args, f.Value)
		case OpIn:
			rv := reflect.ValueOf(f.Value)
			if rv.Kind() != reflect.Slice {
				return "", nil, fmt.Errorf("store: IN filter on %s needs a slice, got %T", f.Column, f.Value)
			}
			if rv.Len() == 0 {
				clauses = append(clauses, "FALSE")
				continue
			}
			marks := make([]string, rv.Len())
			for i := 0; i < rv.Len(); i++ {
				marks[i] = "?"
				args = append(args, rv.Index(i).Interface())
			}
			clauses = append(clauses, f.Column+" IN ("+strings.Join(marks, ", ")+")")
		default:
			return "", nil, fmt.Errorf("store: unsupported operator %q", f.Op)
		}
	}
	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

func sortedColumns(values Values) ([]string, error) {
	columns := make([]string, 0, len(values))
	for col := range values {
		if err := checkIdent(col); err != nil {
			return nil, err
		}
		columns = append(columns, col)
	}
	sort.Strings(columns)
	return columns, nil
}

func buildInsert(table string, rows []Values, returning string) (string, []any, error) {
	if err := checkIdent(table); err != nil {
		return "", nil, err
	}
	if len(rows) == 0 {
		return "", nil, fmt.Errorf("store: insert into %s without rows", table)
	}
	columns, err := sortedColumns(rows[0])
	if err != nil {
		return "", nil, err
	}
	if len(columns) == 0 {
		return "", nil, fmt.Errorf("store: insert into %s without columns", table)
	}
	args := make([]any, 0, len(rows)*len(columns))
	tuples := make([]string, 0, len(rows))
	for _, row := range rows {
		if len(row) != len(columns) {
			return "", nil, fmt.Errorf("store: insert into %s with mismatched rows", table)
		}
		marks := make([]string, len(columns))
		for i, col := range columns {
			value, ok := row[col]
			if !ok {
				return "", nil, fmt.Errorf("store: insert into %s missing column %s", table, col)
			}
			marks[i] = "?"
			args = append(args, value)
		}
		tuples = append(tuples, "("+strings.Join(marks, ", ")+")")
	}
	query := "INSERT INTO " + table + " (" + strings.Join(columns, ", ") + ") VALUES " + strings.Join(tuples, ", ")
	if returning != "" {
		if err := checkIdent(returning); err != nil {
			return "", nil, err
		}
		query += " RETURNING " + returning
	}
	return sqlx.Rebind(sqlx.DOLLAR, query), args, nil
}

func buildUpdate(table string, values Values, filters []Filter) (string, []any, error) {
	if err := checkIdent(table); err != nil {
		return "", nil, err
	}
	if len(filters) == 0 {
		return "", nil, fmt.Errorf("store: update of %s without filters", table)
	}
	columns, err := sortedColumns(values)
	if err != nil {
		return "", nil, err
	}
	if len(columns) == 0 {
		return "", nil, fmt.Errorf("store: update of %s without values", table)
	}
	sets := make([]string, len(columns))
	args := make([]any, 0, len(columns))
	for i, col := range columns {
		sets[i] = col + " = ?"
		args = append(args, values[col])
	}
	where, whereArgs, err := buildWhere(filters)
	if err != nil {
		return "", nil, err
	}
	query := "UPDATE " + table + " SET " + strings.Join(sets, ", ") + where
	return sqlx.Rebind(sqlx.DOLLAR, query), append(args, whereArgs...), nil
}

func buildDelete(table string, filters []Filter) (string, []any, error) {
	if err := checkIdent(table); err != nil {
		return "", nil, err
	}
	if len(filters) == 0 {
		return "", nil, fmt.Errorf("store: delete from %s without filters", table)
	}
	where, args, err := buildWhere(filters)
	if err != nil {
		return "", nil, err
	}
	return sqlx.Rebind(sqlx.DOLLAR, "DELETE FROM "+table+where), args, nil
}
