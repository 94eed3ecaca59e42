package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNeedsConfirm(t *testing.T) {
	require.True(t, needsConfirm("drop table users;"))
	require.True(t, needsConfirm("DROP   DATABASE shop"))
	require.False(t, needsConfirm("DROPS table x"))
	require.False(t, needsConfirm("SELECT * FROM drop_table"))
	require.False(t, needsConfirm("drop"))
}

func TestPrompt(t *testing.T) {
	require.Equal(t, "raptordb [default_db]> ", prompt("default_db"))
}
