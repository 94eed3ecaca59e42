package dberr

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKind(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{fmt.Errorf("%w: table %q does not exist", ErrSchema, "users"), "SchemaError"},
		{fmt.Errorf("%w: duplicate", ErrConstraint), "ConstraintError"},
		{fmt.Errorf("wrapped: %w", fmt.Errorf("%w: bad int", ErrFormat)), "FormatError"},
		{fmt.Errorf("%w: page overflow", ErrStorage), "StorageError"},
		{fmt.Errorf("%w: unknown command", ErrExecution), "ExecutionError"},
		{io.EOF, "Error"},
	}
	for _, c := range cases {
		require.Equal(t, c.want, Kind(c.err))
	}
}

func TestMessage(t *testing.T) {
	require.Equal(t, "", Message(nil))

	err := fmt.Errorf("%w: table %q does not exist", ErrSchema, "users")
	require.Equal(t, `[SchemaError] schema error: table "users" does not exist`, Message(err))
	require.True(t, errors.Is(err, ErrSchema))
}
