// ABOUTME: Boolean filter expressions over records, evaluated with expr-lang/expr
// ABOUTME: Records are exposed by their JSON field names, e.g. stage == "lead" && value > 500000
package query

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ErrInvalidExpression wraps compile and evaluation failures.
var ErrInvalidExpression = errors.New("invalid filter expression")

// Expr is a compiled filter. The zero value is not usable; use Compile.
type Expr struct {
	source  string
	program *vm.Program
}

// Compile parses a boolean expression. Unknown field names evaluate to nil
// rather than failing, since optional fields are omitted from records.
func Compile(source string) (*Expr, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, fmt.Errorf("%w: expression must not be empty", ErrInvalidExpression)
	}
	program, err := expr.Compile(source,
		expr.Env(map[string]any{}),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExpression, err)
	}
	return &Expr{source: source, program: program}, nil
}

func (e *Expr) String() string { return e.source }

// Match reports whether record satisfies the expression.
func (e *Expr) Match(record any) (bool, error) {
	env, err := environment(record)
	if err != nil {
		return false, err
	}
	out, err := expr.Run(e.program, env)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrInvalidExpression, e.source, err)
	}
	ok, _ := out.(bool)
	return ok, nil
}

// Select returns the records that satisfy e, keeping their order. A nil
// expression selects everything.
func Select[T any](e *Expr, records []T) ([]T, error) {
	if e == nil {
		return records, nil
	}
	out := []T{}
	for _, r := range records {
		ok, err := e.Match(r)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// environment flattens a record to its JSON shape so expressions use the
// same names as the persisted snapshot. Dates become RFC 3339 strings and
// numbers become float64.
func environment(record any) (map[string]any, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	env := map[string]any{}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	return env, nil
}
