package extract

import "context"

// Degradation records a collaborator failure that was absorbed: the field
// it would have produced is left empty.
type Degradation struct {
	Source string `json:"source"`
	Err    error  `json:"-"`
}

func (d Degradation) Error() string {
	return d.Source + ": " + d.Err.Error()
}

// Outcome is the result of one collaborator call. Exactly one of the
// following holds: it succeeded, it is Degraded (Value is the zero
// default), or it is Fatal.
type Outcome[T any] struct {
	Value    T
	Degraded *Degradation
	Fatal    error
}

// call runs fn and classifies its failure. Only cancellation of the caller's
// context is fatal; everything else degrades to the zero value.
func call[T any](ctx context.Context, source string, fn func(context.Context) (T, error)) Outcome[T] {
	v, err := fn(ctx)
	if err == nil {
		return Outcome[T]{Value: v}
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Outcome[T]{Fatal: ctxErr}
	}
	var zero T
	return Outcome[T]{Value: zero, Degraded: &Degradation{Source: source, Err: err}}
}
