package filters

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"trip-planner/internal/domain"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/rs/zerolog/log"
)

// Variables visible to filter expressions.
type pointEnv struct {
	ID          string
	Type        string
	Destination string
	BasePrice   int
	IsFavorite  bool
	Offers      []string
	DateFrom    time.Time
	DateTo      time.Time
	Now         time.Time
}

// Compile builds a Predicate from a boolean expression such as
// `BasePrice > 100 && IsFavorite` or `DateFrom > Now`.
// Points for which evaluation fails are excluded.
func Compile(source string) (Predicate, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, errors.New("compile filter: expression must be non-empty")
	}

	program, err := expr.Compile(source, expr.Env(pointEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile filter %q: %w", source, err)
	}

	return Where(func(ref time.Time, p *domain.RoutePoint) bool {
		return match(program, source, ref, p)
	}), nil
}

func match(program *vm.Program, source string, ref time.Time, p *domain.RoutePoint) bool {
	env := pointEnv{
		ID:          p.ID,
		Type:        string(p.Type),
		Destination: p.Destination,
		BasePrice:   p.BasePrice,
		IsFavorite:  p.IsFavorite,
		Offers:      p.Offers,
		DateFrom:    p.DateFrom,
		DateTo:      p.DateTo,
		Now:         ref,
	}

	out, err := expr.Run(program, env)
	if err != nil {
		log.Warn().Err(err).Str("expr", source).Str("point", p.ID).Msg("Filter expression failed")
		return false
	}

	ok, _ := out.(bool)
	return ok
}

// ParseNamed parses a `name=expression` definition.
func ParseNamed(definition string) (Type, Predicate, error) {
	name, source, found := strings.Cut(definition, "=")
	name = strings.TrimSpace(name)
	if !found || name == "" {
		return "", nil, fmt.Errorf("parse filter %q: expected name=expression", definition)
	}

	pred, err := Compile(source)
	if err != nil {
		return "", nil, fmt.Errorf("parse filter %q: %w", name, err)
	}

	return Type(name), pred, nil
}
