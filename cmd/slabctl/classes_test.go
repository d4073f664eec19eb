package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wundergraph/go-slab"
)

func TestClassesJSON(t *testing.T) {
	resetFlags()
	jsonOut = true
	output, err := captureOutput(t, runClasses)
	require.NoError(t, err)

	var infos []classInfo
	decodeJSON(t, output, &infos)
	require.Len(t, infos, slab.NumClasses)
	require.Equal(t, classInfo{Class: 0, BlockSize: 16, BlocksPerPage: 256, MaxRequest: 12}, infos[0])
	require.Equal(t, classInfo{Class: 8, BlockSize: 4096, BlocksPerPage: 1, MaxRequest: 4092}, infos[8])
}

func TestClassesText(t *testing.T) {
	resetFlags()
	output, err := captureOutput(t, runClasses)
	require.NoError(t, err)
	assertContains(t, output, []string{"CLASS", "MAX REQUEST", "256", "4092"})
}
