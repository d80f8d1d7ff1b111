// Package query turns list parameters (filters, sort, pagination) into gorm clauses.
package query

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ErrInvalidParam marks a list parameter that is syntactically fine but not acceptable (422).
var ErrInvalidParam = errors.New("invalid query parameter")

type Page struct {
	Number int
	Size   int
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// ParsePage validates raw page and page_size values; empty values fall back to defaults.
func ParsePage(rawPage, rawSize string) (Page, error) {
	page := Page{Number: DefaultPage, Size: DefaultPageSize}

	if raw := strings.TrimSpace(rawPage); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return Page{}, fmt.Errorf("%w: page must be an integer >= 1", ErrInvalidParam)
		}
		page.Number = n
	}
	if raw := strings.TrimSpace(rawSize); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > MaxPageSize {
			return Page{}, fmt.Errorf("%w: page_size must be an integer between 1 and %d", ErrInvalidParam, MaxPageSize)
		}
		page.Size = n
	}
	return page, nil
}

// SortFields maps the sort keys accepted from clients to real column names.
type SortFields map[string]string

type Sort struct {
	Column string
	Desc   bool
}

// ParseSort resolves sort_by through the allow-list and validates order.
// Empty values fall back to defaultKey and ascending order.
func ParseSort(rawSortBy, rawOrder string, fields SortFields, defaultKey string) (Sort, error) {
	key := strings.TrimSpace(rawSortBy)
	if key == "" {
		key = defaultKey
	}
	column, ok := fields[key]
	if !ok {
		return Sort{}, fmt.Errorf("%w: unsupported sort field %q", ErrInvalidParam, key)
	}

	order := strings.ToLower(strings.TrimSpace(rawOrder))
	switch order {
	case "", "asc":
		return Sort{Column: column}, nil
	case "desc":
		return Sort{Column: column, Desc: true}, nil
	default:
		return Sort{}, fmt.Errorf("%w: order must be 'asc' or 'desc'", ErrInvalidParam)
	}
}

func (s Sort) Apply(db *gorm.DB) *gorm.DB {
	if s.Column == "" {
		return db
	}
	return db.Order(clause.OrderByColumn{Column: clause.Column{Name: s.Column}, Desc: s.Desc})
}

// Conditions is an AND of predicates. Zero-valued filters are never added,
// so an unset filter does not match against any value.
type Conditions struct {
	exprs []clause.Expression
}

func (c *Conditions) Equal(column string, value any) *Conditions {
	c.exprs = append(c.exprs, clause.Eq{Column: clause.Column{Name: column}, Value: value})
	return c
}

// Contains adds a case-insensitive substring match. Blank needles are ignored.
func (c *Conditions) Contains(column, needle string) *Conditions {
	needle = strings.TrimSpace(needle)
	if needle == "" {
		return c
	}
	pattern := "%" + escapeLike(strings.ToLower(needle)) + "%"
	c.exprs = append(c.exprs, clause.Expr{
		SQL:  `LOWER(?) LIKE ? ESCAPE '\'`,
		Vars: []any{clause.Column{Name: column}, pattern},
	})
	return c
}

// InSubquery adds "column IN (subquery)".
func (c *Conditions) InSubquery(column string, subquery *gorm.DB) *Conditions {
	c.exprs = append(c.exprs, clause.Expr{
		SQL:  "? IN (?)",
		Vars: []any{clause.Column{Name: column}, subquery},
	})
	return c
}

func (c *Conditions) Len() int {
	return len(c.exprs)
}

func (c *Conditions) Apply(db *gorm.DB) *gorm.DB {
	if len(c.exprs) == 0 {
		return db
	}
	return db.Clauses(clause.Where{Exprs: []clause.Expression{clause.And(c.exprs...)}})
}

func escapeLike(value string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(value)
}

// Result is one page of rows plus the count over the whole predicate.
type Result[T any] struct {
	Total int64
	Items []T
}

// Find counts rows matching conds, then loads the requested page in sort order.
// base must be scoped to the model (db.Model(&T{})).
func Find[T any](base *gorm.DB, conds *Conditions, sort Sort, page Page) (Result[T], error) {
	var total int64
	if err := conds.Apply(base.Session(&gorm.Session{})).Count(&total).Error; err != nil {
		return Result[T]{}, err
	}

	items := make([]T, 0, page.Size)
	if total == 0 {
		return Result[T]{Total: 0, Items: items}, nil
	}

	tx := sort.Apply(conds.Apply(base.Session(&gorm.Session{})))
	if err := tx.Offset(page.Offset()).Limit(page.Size).Find(&items).Error; err != nil {
		return Result[T]{}, err
	}
	return Result[T]{Total: total, Items: items}, nil
}
