package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	got, err := Generate("item")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got, "item-"))
	// Prefix + dash + 21-char NanoID.
	assert.Len(t, got, len("item-")+21)
}

func TestGenerate_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		got, err := Generate("tag")
		require.NoError(t, err)
		assert.False(t, seen[got], "duplicate ID generated: %s", got)
		seen[got] = true
	}
}

func TestMustGenerate(t *testing.T) {
	got := MustGenerate("item")
	assert.True(t, strings.HasPrefix(got, "item-"))
}
