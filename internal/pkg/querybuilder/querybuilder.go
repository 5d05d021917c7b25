// Package querybuilder compiles Mongo-style condition objects and list
// filters into parameterized GORM clause expressions.
//
// Field names are resolved through a whitelist, so neither identifiers nor
// values coming from a request are ever written into the SQL text.
package querybuilder

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"gorm.io/gorm/clause"
)

var (
	ErrUnknownField     = errors.New("unknown field")
	ErrUnknownOperator  = errors.New("unknown operator")
	ErrInvalidValue     = errors.New("invalid value")
	ErrInvalidSortOrder = errors.New("invalid sort order")
)

// Condition is a Mongo-style condition object, e.g.
//
//	{"companyId": 5, "state": {"$in": [0, 1]}, "$or": [{"country": "LK"}, {"companyRole": "Government"}]}
type Condition map[string]any

// FieldMap maps request field names to database columns
type FieldMap map[string]string

// FilterBy is a single filter item of a list query
type FilterBy struct {
	Key       string `json:"key"`
	Operation string `json:"operation"`
	Value     any    `json:"value"`
}

// Sort describes the ordering of a list query
type Sort struct {
	Key   string `json:"key"`
	Order string `json:"order"`
}

// Compiler turns conditions and filters into clause expressions
type Compiler struct {
	fields FieldMap
}

// NewCompiler creates a compiler restricted to the given fields
func NewCompiler(fields FieldMap) *Compiler {
	return &Compiler{fields: fields}
}

// Column resolves a request field name to its column
func (c *Compiler) Column(field string) (clause.Column, error) {
	col, ok := c.fields[field]
	if !ok {
		return clause.Column{}, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return clause.Column{Name: col}, nil
}

// Compile compiles a condition object. An empty condition compiles to nil.
func (c *Compiler) Compile(cond Condition) (clause.Expression, error) {
	if len(cond) == 0 {
		return nil, nil
	}
	exprs, err := c.compileObject(cond)
	if err != nil {
		return nil, err
	}
	return clause.And(exprs...), nil
}

func (c *Compiler) compileObject(obj map[string]any) ([]clause.Expression, error) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	exprs := make([]clause.Expression, 0, len(keys))
	for _, key := range keys {
		value := obj[key]

		switch key {
		case "$and", "$or":
			list, err := c.compileList(key, value)
			if err != nil {
				return nil, err
			}
			if len(list) == 0 {
				continue
			}
			if key == "$and" {
				exprs = append(exprs, clause.And(list...))
			} else {
				exprs = append(exprs, anyOf(list))
			}
			continue
		case "$not":
			sub, ok := asObject(value)
			if !ok {
				return nil, fmt.Errorf("%w: $not expects an object", ErrInvalidValue)
			}
			inner, err := c.compileObject(sub)
			if err != nil {
				return nil, err
			}
			if len(inner) > 0 {
				exprs = append(exprs, clause.Not(clause.And(inner...)))
			}
			continue
		}

		if strings.HasPrefix(key, "$") {
			return nil, fmt.Errorf("%w: %s", ErrUnknownOperator, key)
		}

		col, err := c.Column(key)
		if err != nil {
			return nil, err
		}

		fieldExprs, err := c.compileField(col, value)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, fieldExprs...)
	}
	return exprs, nil
}

func (c *Compiler) compileList(op string, value any) ([]clause.Expression, error) {
	items, err := toSlice(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s expects a list", ErrInvalidValue, op)
	}
	out := make([]clause.Expression, 0, len(items))
	for _, item := range items {
		obj, ok := asObject(item)
		if !ok {
			return nil, fmt.Errorf("%w: %s items must be objects", ErrInvalidValue, op)
		}
		exprs, err := c.compileObject(obj)
		if err != nil {
			return nil, err
		}
		if len(exprs) > 0 {
			out = append(out, clause.And(exprs...))
		}
	}
	return out, nil
}

func (c *Compiler) compileField(col clause.Column, value any) ([]clause.Expression, error) {
	ops, ok := asObject(value)
	if !ok {
		return []clause.Expression{clause.Eq{Column: col, Value: value}}, nil
	}
	if len(ops) == 0 || !isOperatorObject(ops) {
		return nil, fmt.Errorf("%w: %s expects a value or an operator object", ErrInvalidValue, col.Name)
	}

	names := make([]string, 0, len(ops))
	for name := range ops {
		names = append(names, name)
	}
	sort.Strings(names)

	exprs := make([]clause.Expression, 0, len(ops))
	for _, name := range names {
		expr, err := operatorExpr(col, name, ops[name])
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

func operatorExpr(col clause.Column, op string, value any) (clause.Expression, error) {
	switch op {
	case "$eq":
		return clause.Eq{Column: col, Value: value}, nil
	case "$ne":
		return clause.Neq{Column: col, Value: value}, nil
	case "$gt":
		return clause.Gt{Column: col, Value: value}, nil
	case "$gte":
		return clause.Gte{Column: col, Value: value}, nil
	case "$lt":
		return clause.Lt{Column: col, Value: value}, nil
	case "$lte":
		return clause.Lte{Column: col, Value: value}, nil
	case "$in", "$nin":
		values, err := toSlice(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s expects a list", ErrInvalidValue, op)
		}
		in := clause.IN{Column: col, Values: values}
		if op == "$nin" {
			return clause.Not(in), nil
		}
		return in, nil
	case "$exists":
		exists, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: $exists expects a boolean", ErrInvalidValue)
		}
		if exists {
			return clause.Neq{Column: col, Value: nil}, nil
		}
		return clause.Eq{Column: col, Value: nil}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownOperator, op)
}

// Filter compiles a single list filter item
func (c *Compiler) Filter(f FilterBy) (clause.Expression, error) {
	col, err := c.Column(f.Key)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(strings.TrimSpace(f.Operation)) {
	case "", "=":
		return clause.Eq{Column: col, Value: f.Value}, nil
	case "!=", "<>":
		return clause.Neq{Column: col, Value: f.Value}, nil
	case ">":
		return clause.Gt{Column: col, Value: f.Value}, nil
	case ">=":
		return clause.Gte{Column: col, Value: f.Value}, nil
	case "<":
		return clause.Lt{Column: col, Value: f.Value}, nil
	case "<=":
		return clause.Lte{Column: col, Value: f.Value}, nil
	case "like":
		s, ok := f.Value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: like expects a string", ErrInvalidValue)
		}
		return clause.Like{Column: col, Value: s}, nil
	case "in":
		values, err := toSlice(f.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: in expects a list", ErrInvalidValue)
		}
		return clause.IN{Column: col, Values: values}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownOperator, f.Operation)
}

// Where combines the AND filters, the OR filters and an extra predicate
// (usually the caller's ability condition) with logical AND.
// It returns nil when there is nothing to filter on.
func (c *Compiler) Where(filterAnd, filterOr []FilterBy, extra clause.Expression) (clause.Expression, error) {
	var parts []clause.Expression

	for _, f := range filterAnd {
		expr, err := c.Filter(f)
		if err != nil {
			return nil, err
		}
		parts = append(parts, expr)
	}

	if len(filterOr) > 0 {
		ors := make([]clause.Expression, 0, len(filterOr))
		for _, f := range filterOr {
			expr, err := c.Filter(f)
			if err != nil {
				return nil, err
			}
			ors = append(ors, expr)
		}
		parts = append(parts, anyOf(ors))
	}

	if extra != nil {
		parts = append(parts, extra)
	}

	return clause.And(parts...), nil
}

// OrderBy resolves a sort description. ok is false when no sort was requested.
func (c *Compiler) OrderBy(s *Sort) (col clause.OrderByColumn, ok bool, err error) {
	if s == nil || s.Key == "" {
		return clause.OrderByColumn{}, false, nil
	}
	column, err := c.Column(s.Key)
	if err != nil {
		return clause.OrderByColumn{}, false, err
	}

	var desc bool
	switch strings.ToUpper(strings.TrimSpace(s.Order)) {
	case "", "ASC":
	case "DESC":
		desc = true
	default:
		return clause.OrderByColumn{}, false, fmt.Errorf("%w: %q", ErrInvalidSortOrder, s.Order)
	}
	return clause.OrderByColumn{Column: column, Desc: desc}, true, nil
}

// anyOf joins alternatives with OR. A lone alternative is returned as is:
// GORM joins a single-item OrConditions to its left neighbour with OR,
// which would turn a sibling predicate into an alternative.
func anyOf(exprs []clause.Expression) clause.Expression {
	if len(exprs) == 1 {
		return exprs[0]
	}
	return clause.Or(exprs...)
}

func asObject(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Condition:
		return m, true
	}
	return nil, false
}

func isOperatorObject(m map[string]any) bool {
	for k := range m {
		if !strings.HasPrefix(k, "$") {
			return false
		}
	}
	return true
}

func toSlice(v any) ([]any, error) {
	if items, ok := v.([]any); ok {
		return items, nil
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, ErrInvalidValue
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}
