package main

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportOptions(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cmd := importCmd()
	require.NoError(t, cmd.ParseFlags([]string{
		"--source", "chase",
		"--who", "alice",
		"--threshold", "0.9",
		"--use-source-hints",
		"--skip-reconcile",
		"--force",
	}))

	opts, err := importOptions(cmd)
	require.NoError(t, err)

	assert.Equal(t, "chase", opts.Source)
	assert.Equal(t, "alice", opts.Who)
	assert.InDelta(t, 0.9, opts.Threshold, 1e-9)
	assert.True(t, opts.UseSourceHints)
	assert.True(t, opts.SkipReconcile)
	assert.True(t, opts.Force)
}

func TestImportOptionsRejectsBadThreshold(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cmd := importCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--threshold", "1.5"}))

	_, err := importOptions(cmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "threshold")
}
