package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
)

// ViolationKind classifies a failed guard check.
type ViolationKind int

const (
	ViolationNotFound ViolationKind = iota + 1
	ViolationConflict
	ViolationBadRequest
)

func (k ViolationKind) String() string {
	switch k {
	case ViolationNotFound:
		return "not_found"
	case ViolationConflict:
		return "conflict"
	case ViolationBadRequest:
		return "bad_request"
	default:
		return "unknown"
	}
}

// Violation is returned by a Check whose precondition does not hold. It wraps
// the error supplied by the caller so errors.Is works on the domain error.
type Violation struct {
	Kind ViolationKind
	Err  error
}

func (v *Violation) Error() string { return v.Err.Error() }
func (v *Violation) Unwrap() error { return v.Err }

// Check is one precondition of a mutation. It reads through exec, which is the
// mutation's own transaction.
type Check interface {
	Verify(ctx context.Context, exec SQLExecutor) error
}

// Verify evaluates checks in order and stops at the first violation or error.
func Verify(ctx context.Context, exec SQLExecutor, checks ...Check) error {
	for _, c := range checks {
		if c == nil {
			continue
		}
		if err := c.Verify(ctx, exec); err != nil {
			return err
		}
	}
	return nil
}

type condition struct {
	column string
	op     string
	value  interface{}
	fold   bool
}

// buildExists renders SELECT EXISTS over table with the AND-ed conditions.
func buildExists(table string, conds []condition) (string, []interface{}) {
	var b strings.Builder
	b.WriteString("SELECT EXISTS (SELECT 1 FROM ")
	b.WriteString(pq.QuoteIdentifier(table))
	args := make([]interface{}, 0, len(conds))
	for i, c := range conds {
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		placeholder := "$" + strconv.Itoa(i+1)
		if c.fold {
			b.WriteString("LOWER(" + pq.QuoteIdentifier(c.column) + ") " + c.op + " LOWER(" + placeholder + ")")
		} else {
			b.WriteString(pq.QuoteIdentifier(c.column) + " " + c.op + " " + placeholder)
		}
		args = append(args, c.value)
	}
	b.WriteString(")")
	return b.String(), args
}

func queryExists(ctx context.Context, exec SQLExecutor, table string, conds []condition) (bool, error) {
	query, args := buildExists(table, conds)
	var exists bool
	if err := exec.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("guard query on %s failed: %w", table, err)
	}
	return exists, nil
}

type existsCheck struct {
	table string
	conds []condition
	err   error
}

// Exists requires a row in table whose column equals id.
func Exists(table, column string, id interface{}, err error) Check {
	return &existsCheck{table: table, conds: []condition{{column: column, op: "=", value: id}}, err: err}
}

// ExistsPair requires a row matching both columns, e.g. a composite key.
func ExistsPair(table, column1 string, value1 interface{}, column2 string, value2 interface{}, err error) Check {
	return &existsCheck{
		table: table,
		conds: []condition{
			{column: column1, op: "=", value: value1},
			{column: column2, op: "=", value: value2},
		},
		err: err,
	}
}

func (c *existsCheck) Verify(ctx context.Context, exec SQLExecutor) error {
	ok, err := queryExists(ctx, exec, c.table, c.conds)
	if err != nil {
		return err
	}
	if !ok {
		return &Violation{Kind: ViolationNotFound, Err: c.err}
	}
	return nil
}

// UniqueCheck fails with a conflict when another row already holds the value.
type UniqueCheck struct {
	table   string
	value   condition
	scope   []condition
	exclude *condition
	err     error
}

func Unique(table, column string, value interface{}, err error) *UniqueCheck {
	return &UniqueCheck{table: table, value: condition{column: column, op: "=", value: value}, err: err}
}

// Within limits uniqueness to rows sharing scopeColumn, e.g. a name within a game.
func (c *UniqueCheck) Within(scopeColumn string, scopeValue interface{}) *UniqueCheck {
	c.scope = append(c.scope, condition{column: scopeColumn, op: "=", value: scopeValue})
	return c
}

// Excluding ignores the row being updated.
func (c *UniqueCheck) Excluding(idColumn string, id interface{}) *UniqueCheck {
	c.exclude = &condition{column: idColumn, op: "<>", value: id}
	return c
}

// FoldCase compares case-insensitively.
func (c *UniqueCheck) FoldCase() *UniqueCheck {
	c.value.fold = true
	return c
}

func (c *UniqueCheck) Verify(ctx context.Context, exec SQLExecutor) error {
	conds := make([]condition, 0, 2+len(c.scope))
	conds = append(conds, c.value)
	conds = append(conds, c.scope...)
	if c.exclude != nil {
		conds = append(conds, *c.exclude)
	}
	taken, err := queryExists(ctx, exec, c.table, conds)
	if err != nil {
		return err
	}
	if taken {
		return &Violation{Kind: ViolationConflict, Err: c.err}
	}
	return nil
}

type belongsToCheck struct {
	table       string
	idColumn    string
	id          *int
	scopeColumn string
	scopeID     int
	notFound    error
	mismatch    error
}

// BelongsTo requires the referenced child row to sit in the given parent scope.
// A nil child id means there is nothing to check.
func BelongsTo(table, idColumn string, id *int, scopeColumn string, scopeID int, notFound, mismatch error) Check {
	return &belongsToCheck{
		table:       table,
		idColumn:    idColumn,
		id:          id,
		scopeColumn: scopeColumn,
		scopeID:     scopeID,
		notFound:    notFound,
		mismatch:    mismatch,
	}
}

func (c *belongsToCheck) Verify(ctx context.Context, exec SQLExecutor) error {
	if c.id == nil {
		return nil
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1",
		pq.QuoteIdentifier(c.scopeColumn), pq.QuoteIdentifier(c.table), pq.QuoteIdentifier(c.idColumn))

	var scope int
	err := exec.QueryRowContext(ctx, query, *c.id).Scan(&scope)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &Violation{Kind: ViolationNotFound, Err: c.notFound}
		}
		return fmt.Errorf("guard query on %s failed: %w", c.table, err)
	}
	if scope != c.scopeID {
		return &Violation{Kind: ViolationBadRequest, Err: c.mismatch}
	}
	return nil
}

// Dependent names a table/column pair that references the row being deleted.
type Dependent struct {
	Table  string
	Column string
}

// NoDependentsCheck fails with a conflict while any dependent row references id.
type NoDependentsCheck struct {
	id      interface{}
	deps    []Dependent
	outside *condition
	err     error
}

func NoDependents(id interface{}, err error, deps ...Dependent) *NoDependentsCheck {
	return &NoDependentsCheck{id: id, deps: deps, err: err}
}

// Outside only counts dependents whose column differs from value, e.g.
// associations that would end up in another game than the referenced row.
func (c *NoDependentsCheck) Outside(column string, value interface{}) *NoDependentsCheck {
	c.outside = &condition{column: column, op: "<>", value: value}
	return c
}

func (c *NoDependentsCheck) Verify(ctx context.Context, exec SQLExecutor) error {
	for _, dep := range c.deps {
		conds := []condition{{column: dep.Column, op: "=", value: c.id}}
		if c.outside != nil {
			conds = append(conds, *c.outside)
		}
		used, err := queryExists(ctx, exec, dep.Table, conds)
		if err != nil {
			return err
		}
		if used {
			return &Violation{Kind: ViolationConflict, Err: c.err}
		}
	}
	return nil
}
