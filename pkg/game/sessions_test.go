package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jwebster45206/dayscene/pkg/content"
	"github.com/jwebster45206/dayscene/pkg/save"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessions(t *testing.T) {
	loader := content.NewLoader(testContentFS(), testLogger())
	sessions := NewSessions(func() (*Controller, error) {
		return New(loader, nil, save.FormatYAML, testLogger())
	})

	first, err := sessions.Create()
	require.NoError(t, err)
	second, err := sessions.Create()
	require.NoError(t, err)
	assert.NotEqual(t, first.ID(), second.ID())
	assert.Equal(t, 2, sessions.Len())

	got, ok := sessions.Get(first.ID())
	require.True(t, ok)
	assert.Same(t, first, got)

	// Games do not share scene state.
	require.NoError(t, first.state.ToggleOption(0))
	assert.False(t, second.View().Scene.Options[0].Selected)

	assert.True(t, sessions.Delete(first.ID()))
	assert.False(t, sessions.Delete(first.ID()))
	_, ok = sessions.Get(first.ID())
	assert.False(t, ok)

	_, ok = sessions.Get(uuid.New())
	assert.False(t, ok)
}

func TestSessions_CreateFailure(t *testing.T) {
	sessions := NewSessions(func() (*Controller, error) {
		return New(&flakyLoader{}, nil, save.FormatYAML, testLogger())
	})
	_, err := sessions.Create()
	assert.Error(t, err)
	assert.Equal(t, 0, sessions.Len())
}
