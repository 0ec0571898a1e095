package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/mudra/internal/pose"
)

func TestSeedDefaults(t *testing.T) {
	s := newTestStore(t)

	n, err := SeedDefaults(s)
	require.NoError(t, err)
	assert.Equal(t, len(pose.DefaultDefinitions()), n)

	n, err = SeedDefaults(s)
	require.NoError(t, err)
	assert.Zero(t, n, "seeding is skipped once poses exist")

	a := New(Config{Store: s})
	require.NoError(t, a.LoadPoses())
	assert.Equal(t, pose.DefaultDefinitions(), a.Library().List())
}
