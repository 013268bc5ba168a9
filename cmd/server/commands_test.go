package main

import (
	"bytes"
	"testing"

	"github.com/serroba/shortcode/internal/idgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspectCommand(t *testing.T) {
	t.Run("decodes a code into its fields", func(t *testing.T) {
		var out bytes.Buffer

		cmd := inspectCommand()
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"rKP"})

		require.NoError(t, cmd.Execute())

		assert.Contains(t, out.String(), "issued:   2025-01-01T00:01:40Z")
		assert.Contains(t, out.String(), "node:     3")
		assert.Contains(t, out.String(), "sequence: 5")
	})

	t.Run("rejects codes outside the alphabet", func(t *testing.T) {
		cmd := inspectCommand()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"ab-c"})

		assert.ErrorIs(t, cmd.Execute(), idgen.ErrInvalidArgument)
	})

	t.Run("requires exactly one argument", func(t *testing.T) {
		cmd := inspectCommand()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{})

		assert.Error(t, cmd.Execute())
	})
}
