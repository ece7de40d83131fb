package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "murmur", cmd.Use)
	assert.Contains(t, cmd.Long, "reasoning service")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{
		"capture", "add", "list", "show", "update", "complete",
		"archive", "unarchive", "snooze", "delete", "replay", "export",
	}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	for _, name := range []string{"config", "db"} {
		flag := cmd.PersistentFlags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Equal(t, "", flag.DefValue)
	}
}

func TestAddCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	addCmd, _, err := cmd.Find([]string{"add"})
	require.NoError(t, err)

	category := addCmd.Flags().Lookup("category")
	require.NotNil(t, category)
	assert.Equal(t, "c", category.Shorthand)
	assert.Equal(t, "note", category.DefValue)

	source := addCmd.Flags().Lookup("source")
	require.NotNil(t, source)
	assert.Equal(t, "text", source.DefValue)
}

func TestSnoozeCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	snoozeCmd, _, err := cmd.Find([]string{"snooze"})
	require.NoError(t, err)

	require.NotNil(t, snoozeCmd.Flags().Lookup("until"))
	forFlag := snoozeCmd.Flags().Lookup("for")
	require.NotNil(t, forFlag)
	assert.Equal(t, "0s", forFlag.DefValue)
}

func TestInvalidFormat(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--format", "yaml", "list"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestIsValidFormat(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))
	assert.False(t, isValidFormat("yaml"))
	assert.False(t, isValidFormat(""))
}
