package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommands(t *testing.T) {
	root := newRootCmd()

	names := []string{}
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	assert.ElementsMatch(t, []string{"api", "web", "migrate", "seed"}, names)
	assert.NotNil(t, root.PersistentFlags().Lookup("env-file"))
}

func TestSeedFlags(t *testing.T) {
	cmd, _, err := newRootCmd().Find([]string{"seed"})
	require.NoError(t, err)

	require.NoError(t, cmd.ParseFlags([]string{"--count", "25", "--seed", "9", "--profile", "profile.yaml"}))

	count, err := cmd.Flags().GetInt("count")
	require.NoError(t, err)
	assert.Equal(t, 25, count)

	seed, err := cmd.Flags().GetInt64("seed")
	require.NoError(t, err)
	assert.Equal(t, int64(9), seed)

	profile, err := cmd.Flags().GetString("profile")
	require.NoError(t, err)
	assert.Equal(t, "profile.yaml", profile)
}
