package testkit

import (
	"testing"

	perr "shoof/internal/platform/errors"
)

func TestMustPanic(t *testing.T) {
	t.Parallel()
	MustPanic(t, func() { panic("boom") })
}

func TestMustNotPanic(t *testing.T) {
	t.Parallel()
	MustNotPanic(t, func() {})
}

func TestMustContain(t *testing.T) {
	t.Parallel()
	MustContain(t, `{"level":"info","component":"store"}`, `"component":"store"`)
}

func TestMustCode(t *testing.T) {
	t.Parallel()
	MustCode(t, perr.NotFoundf("title %d not found", 7), perr.ErrorCodeNotFound)
	MustCode(t, perr.Wrapf(perr.Unavailablef("pg down"), perr.ErrorCodeUnavailable, "catalog"), perr.ErrorCodeUnavailable)
}
