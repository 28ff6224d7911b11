/*
Package result implements a tagged variant for the outcome of a computation
that may fail: either Ok(value) or Err(error).

Results are meant to be pattern-matched:

	var tree *Tree
	var err error
	switch m := r.Match(); m {
	case m.Ok(&tree):
		…
	case m.Err(&err):
		…
	}

Matching compares interface values, therefore T should be a comparable type
(usually a pointer).
*/
package result

// Result is either Ok(value) or Err(error).
type Result[T any] interface {
	Match() Matcher[T]
	IsOk() bool
	Get() (T, error)
	WithDefault(T) T
}

type result[T any] struct {
	value T
	err   error
}

// Ok wraps a value.
func Ok[T any](x T) Result[T] {
	return result[T]{value: x}
}

// Err wraps an error. A nil error is not a failure, therefore Err(nil)
// produces an Ok with a zero value.
func Err[T any](err error) Result[T] {
	return result[T]{err: err}
}

// From converts a conventional (value, error) pair to a Result.
func From[T any](x T, err error) Result[T] {
	if err != nil {
		return Err[T](err)
	}
	return Ok(x)
}

func (r result[T]) Match() Matcher[T] {
	return matcher[T]{r: r}
}

func (r result[T]) IsOk() bool {
	return r.err == nil
}

func (r result[T]) Get() (T, error) {
	return r.value, r.err
}

func (r result[T]) WithDefault(def T) T {
	if r.err == nil {
		return r.value
	}
	return def
}

// Map applies f to an Ok value; errors are passed through.
func Map[T, S any](r Result[T], f func(T) S) Result[S] {
	x, err := r.Get()
	if err != nil {
		return Err[S](err)
	}
	return Ok(f(x))
}

// AndThen chains a computation which may fail itself.
func AndThen[T, S any](r Result[T], f func(T) Result[S]) Result[S] {
	x, err := r.Get()
	if err != nil {
		return Err[S](err)
	}
	return f(x)
}

// MapError transforms the error of a failed result.
func MapError[T any](r Result[T], f func(error) error) Result[T] {
	x, err := r.Get()
	if err != nil {
		return Err[T](f(err))
	}
	return Ok(x)
}

// --- Matching --------------------------------------------------------------

// Matcher is used for pattern-matching a Result (see package doc).
type Matcher[T any] interface {
	Ok(*T) Matcher[T]
	Err(*error) Matcher[T]
}

type matcher[T any] struct {
	r result[T]
}

func (rm matcher[T]) Ok(v *T) Matcher[T] {
	if rm.r.err == nil {
		*v = rm.r.value
		return rm
	}
	return nil
}

func (rm matcher[T]) Err(err *error) Matcher[T] {
	if rm.r.err != nil {
		*err = rm.r.err
		return rm
	}
	return nil
}
