package querysql

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/52North/SOS-sub007/internal/compiler"
	"github.com/52North/SOS-sub007/internal/predicate"
)

// DefaultOrderBy is used when a Compiler has no OrderBy of its own.
// COLLATE BINARY keeps text ordering identical across SQLite versions.
var DefaultOrderBy = []string{"id COLLATE BINARY ASC"}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Compiler renders compiled temporal filters as parameterized SQL.
//
// CRITICAL: ALL queries include ORDER BY for deterministic results.
// CRITICAL: All timestamps are parameterized (never interpolated).
type Compiler struct {
	// Table is the queried table.
	Table string

	// Columns is the SELECT list. Empty selects *.
	Columns []string

	// OrderBy lists ORDER BY terms. Empty uses DefaultOrderBy.
	OrderBy []string

	// Encode converts bound timestamps to driver values. Nil passes the
	// time in UTC.
	Encode func(time.Time) any
}

// Where converts the predicate of res into a squirrel condition. Every
// parameter the predicate references must have a binding.
func (c *Compiler) Where(res *compiler.Result) (sq.Sqlizer, error) {
	if res == nil {
		return nil, errors.New("cannot render nil result")
	}
	return c.convert(res.Predicate, res.Bindings)
}

// Select renders a SELECT over Table filtered by res.
// Returns (sql, params, error) tuple.
func (c *Compiler) Select(res *compiler.Result) (string, []any, error) {
	if err := c.validate(); err != nil {
		return "", nil, err
	}
	where, err := c.Where(res)
	if err != nil {
		return "", nil, err
	}

	columns := c.Columns
	if len(columns) == 0 {
		columns = []string{"*"}
	}
	// MANDATORY: Always add ORDER BY
	return sq.Select(columns...).
		From(c.Table).
		Where(where).
		OrderBy(c.orderBy()...).
		ToSql()
}

// Count renders a COUNT(*) over Table. A nil res counts every row.
func (c *Compiler) Count(res *compiler.Result) (string, []any, error) {
	if err := c.validate(); err != nil {
		return "", nil, err
	}
	q := sq.Select("COUNT(*)").From(c.Table)
	if res != nil {
		where, err := c.Where(res)
		if err != nil {
			return "", nil, err
		}
		q = q.Where(where)
	}
	return q.ToSql()
}

func (c *Compiler) orderBy() []string {
	if len(c.OrderBy) == 0 {
		return DefaultOrderBy
	}
	return c.OrderBy
}

func (c *Compiler) validate() error {
	if !identPattern.MatchString(c.Table) {
		return fmt.Errorf("invalid table name %q", c.Table)
	}
	for _, col := range c.Columns {
		if !identPattern.MatchString(col) {
			return fmt.Errorf("invalid column name %q", col)
		}
	}
	return nil
}

func (c *Compiler) encode(t time.Time) any {
	if c.Encode == nil {
		return t.UTC()
	}
	return c.Encode(t)
}

// convert maps a predicate node onto squirrel. Composite nodes become
// sq.And / sq.Or, which parenthesise their output and render empty
// conjunctions as (1=1) and empty disjunctions as (1=0).
func (c *Compiler) convert(p predicate.Predicate, bindings map[string]time.Time) (sq.Sqlizer, error) {
	switch node := p.(type) {
	case predicate.Comparison:
		if !identPattern.MatchString(node.Column) {
			return nil, fmt.Errorf("invalid column name %q", node.Column)
		}
		if !node.Op.Valid() {
			return nil, fmt.Errorf("invalid operator %s on column %s", node.Op, node.Column)
		}
		value, ok := bindings[node.Param]
		if !ok {
			return nil, fmt.Errorf("parameter %q has no binding", node.Param)
		}
		return sq.Expr(fmt.Sprintf("%s %s ?", node.Column, node.Op), c.encode(value)), nil

	case predicate.IsNull:
		if !identPattern.MatchString(node.Column) {
			return nil, fmt.Errorf("invalid column name %q", node.Column)
		}
		return sq.Expr(node.Column + " IS NULL"), nil

	case predicate.IsNotNull:
		if !identPattern.MatchString(node.Column) {
			return nil, fmt.Errorf("invalid column name %q", node.Column)
		}
		return sq.Expr(node.Column + " IS NOT NULL"), nil

	case predicate.And:
		parts, err := c.convertAll(node.Predicates, bindings)
		if err != nil {
			return nil, err
		}
		return sq.And(parts), nil

	case predicate.Or:
		parts, err := c.convertAll(node.Predicates, bindings)
		if err != nil {
			return nil, err
		}
		return sq.Or(parts), nil

	case nil:
		return nil, errors.New("cannot render nil predicate")

	default:
		return nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func (c *Compiler) convertAll(ps []predicate.Predicate, bindings map[string]time.Time) ([]sq.Sqlizer, error) {
	out := make([]sq.Sqlizer, 0, len(ps))
	for _, p := range ps {
		s, err := c.convert(p, bindings)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
