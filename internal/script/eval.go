package script

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Evaluator evaluates narrative branch predicates against game state.
// Programs are compiled once per distinct source and cached.
type Evaluator struct {
	mu       sync.Mutex
	programs map[string]*vm.Program
}

// NewEvaluator creates an evaluator with an empty program cache.
func NewEvaluator() *Evaluator {
	return &Evaluator{programs: make(map[string]*vm.Program)}
}

// Eval evaluates a condition against an environment. The empty
// condition is always true; a condition that does not produce a
// boolean is an error.
func (e *Evaluator) Eval(condition string, env map[string]interface{}) (bool, error) {
	if condition == "" {
		return true, nil
	}

	program, err := e.compile(condition)
	if err != nil {
		return false, err
	}

	result, err := vm.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("condition evaluation error: %w", err)
	}

	boolResult, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("condition did not evaluate to boolean: %q", condition)
	}
	return boolResult, nil
}

func (e *Evaluator) compile(condition string) (*vm.Program, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if program, ok := e.programs[condition]; ok {
		return program, nil
	}

	program, err := expr.Compile(condition)
	if err != nil {
		return nil, fmt.Errorf("invalid condition %q: %w", condition, err)
	}
	e.programs[condition] = program
	return program, nil
}
