package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressMonotone(t *testing.T) {
	p := NewProgressTracker()

	p.Update("u1", 40, "uploading video")
	p.Update("u1", 25, "uploading video") // late callback must not regress

	s, ok := p.Get("u1")
	require.True(t, ok)
	assert.Equal(t, 40, s.Percent)
	assert.False(t, s.Done)
}

func TestProgressComplete(t *testing.T) {
	p := NewProgressTracker()

	p.Update("u1", 100, "complete")

	s, ok := p.Get("u1")
	require.True(t, ok)
	assert.True(t, s.Done)
	assert.Empty(t, s.Error)
}

func TestProgressFail(t *testing.T) {
	p := NewProgressTracker()

	p.Update("u1", 30, "uploading video")
	p.Fail("u1", "video upload failed")

	s, ok := p.Get("u1")
	require.True(t, ok)
	assert.True(t, s.Done)
	assert.Equal(t, "video upload failed", s.Error)
	assert.Equal(t, 30, s.Percent)
}

func TestProgressUnknownID(t *testing.T) {
	p := NewProgressTracker()

	_, ok := p.Get("nope")
	assert.False(t, ok)
}

func TestProgressCleanupKeepsFresh(t *testing.T) {
	p := NewProgressTracker()

	p.Update("u1", 10, "probing")
	p.Cleanup()

	_, ok := p.Get("u1")
	assert.True(t, ok)
}
