package catalog

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/f3rmion/pokedex/internal/pokemon"
)

// ErrInvalidExpression wraps compile and type errors in filter expressions.
var ErrInvalidExpression = errors.New("invalid filter expression")

// costLimit bounds evaluation of user-supplied expressions.
const costLimit = 100000

var exprEnv = sync.OnceValues(func() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("id", cel.IntType),
		cel.Variable("name", cel.StringType),
		cel.Variable("types", cel.ListType(cel.StringType)),
		cel.Variable("total", cel.IntType),
		cel.Variable("hp", cel.IntType),
		cel.Variable("attack", cel.IntType),
		cel.Variable("defense", cel.IntType),
		cel.Variable("special_attack", cel.IntType),
		cel.Variable("special_defense", cel.IntType),
		cel.Variable("speed", cel.IntType),
		cel.Variable("height", cel.IntType),
		cel.Variable("weight", cel.IntType),
		cel.Variable("base_experience", cel.IntType),
	)
})

// Expression is a compiled boolean CEL filter such as
// `speed > 100 && "fire" in types`.
type Expression struct {
	source string
	prog   cel.Program
}

// Compile parses and type-checks src.
func Compile(src string) (*Expression, error) {
	env, err := exprEnv()
	if err != nil {
		return nil, fmt.Errorf("creating CEL environment: %w", err)
	}

	ast, issues := env.Compile(src)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExpression, issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("%w: %q evaluates to %s, not bool", ErrInvalidExpression, src, ast.OutputType())
	}

	prog, err := env.Program(ast, cel.CostLimit(costLimit))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExpression, err)
	}
	return &Expression{source: src, prog: prog}, nil
}

// String returns the source text.
func (e *Expression) String() string {
	return e.source
}

// Match evaluates the expression against rec.
func (e *Expression) Match(rec pokemon.Record) (bool, error) {
	out, _, err := e.prog.Eval(activation(rec))
	if err != nil {
		return false, fmt.Errorf("evaluating %q for %s: %w", e.source, rec.Name, err)
	}
	matched, _ := out.Value().(bool)
	return matched, nil
}

func activation(rec pokemon.Record) map[string]any {
	types := rec.Types
	if types == nil {
		types = []string{}
	}
	return map[string]any{
		"id":              int64(rec.ID),
		"name":            rec.Name,
		"types":           types,
		"total":           int64(rec.Total()),
		"hp":              int64(rec.Stat(pokemon.StatHP)),
		"attack":          int64(rec.Stat(pokemon.StatAttack)),
		"defense":         int64(rec.Stat(pokemon.StatDefense)),
		"special_attack":  int64(rec.Stat(pokemon.StatSpecialAttack)),
		"special_defense": int64(rec.Stat(pokemon.StatSpecialDefense)),
		"speed":           int64(rec.Stat(pokemon.StatSpeed)),
		"height":          int64(rec.Height),
		"weight":          int64(rec.Weight),
		"base_experience": int64(rec.BaseExperience),
	}
}
