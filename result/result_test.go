package result_test

import (
	"errors"
	"strconv"
	"testing"

	. "github.com/npillmayer/pagetree/result"
)

// headingLevel parses the level of an <hN> tag.
func headingLevel(tag string) Result[int] {
	if len(tag) != 2 || tag[0] != 'h' || tag[1] < '1' || tag[1] > '6' {
		return Err[int](errors.New("not a heading tag: " + tag))
	}
	return Ok(int(tag[1] - '0'))
}

func TestMatchHeadingLevel(t *testing.T) {
	var level int
	var err error
	switch m := headingLevel("h3").Match(); m {
	case m.Ok(&level):
		t.Logf("level %d", level)
	case m.Err(&err):
		t.Errorf("unexpected error %v", err)
	}
	if level != 3 {
		t.Errorf("expected level 3, is %d", level)
	}
	switch m := headingLevel("p").Match(); m {
	case m.Ok(&level):
		t.Errorf("expected <p> not to have a level, have %d", level)
	case m.Err(&err):
		t.Logf("rejected: %v", err)
	}
	if err == nil {
		t.Errorf("expected an error for <p>")
	}
}

func TestResultFromAndDefault(t *testing.T) {
	r := From(strconv.Atoi("12"))
	if !r.IsOk() || r.WithDefault(0) != 12 {
		t.Errorf("expected Ok(12), have %v", r)
	}
	r = From(strconv.Atoi("x"))
	if r.IsOk() || r.WithDefault(-1) != -1 {
		t.Errorf("expected Err to fall back to default, have %v", r)
	}
}

func TestResultChaining(t *testing.T) {
	double := func(n int) int { return n * 2 }
	positive := func(n int) Result[string] {
		if n > 0 {
			return Ok(strconv.Itoa(n))
		}
		return Err[string](errors.New("not positive"))
	}
	s, err := AndThen(Map(Ok(21), double), positive).Get()
	if err != nil || s != "42" {
		t.Errorf("expected Ok(\"42\"), have %q, %v", s, err)
	}
	_, err = AndThen(Map(Ok(-1), double), positive).Get()
	if err == nil {
		t.Error("expected chain to fail for negative input")
	}
	wrapped := MapError(Err[int](errors.New("inner")), func(e error) error {
		return errors.New("outer: " + e.Error())
	})
	if _, err := wrapped.Get(); err == nil || err.Error() != "outer: inner" {
		t.Errorf("unexpected mapped error %v", err)
	}
}
