package proxycache

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutAndGet(t *testing.T) {
	c := New(1<<20, 100)

	stored := c.Put(CategoryQR, "videos/2025/06/abc/qr.png", []byte("png-bytes"), "image/png", `"etag1"`)
	require.True(t, stored)

	e, ok := c.Get(CategoryQR, "videos/2025/06/abc/qr.png")
	require.True(t, ok)
	assert.Equal(t, []byte("png-bytes"), e.Bytes)
	assert.Equal(t, "image/png", e.ContentType)
	assert.Equal(t, `"etag1"`, e.ETag)
}

func TestCategoriesDoNotCollide(t *testing.T) {
	c := New(1<<20, 100)

	c.Put(CategoryQR, "same-key", []byte("qr"), "image/png", "")
	c.Put(CategoryThumbnail, "same-key", []byte("thumb"), "image/jpeg", "")

	e, ok := c.Get(CategoryQR, "same-key")
	require.True(t, ok)
	assert.Equal(t, []byte("qr"), e.Bytes)

	e, ok = c.Get(CategoryThumbnail, "same-key")
	require.True(t, ok)
	assert.Equal(t, []byte("thumb"), e.Bytes)
}

func TestPerCategoryCeiling(t *testing.T) {
	// Budget 1000 bytes: qr ceiling 100, thumbnail ceiling 200
	c := New(1000, 100)

	assert.False(t, c.Put(CategoryQR, "big-qr", make([]byte, 150), "image/png", ""))
	assert.True(t, c.Put(CategoryThumbnail, "thumb", make([]byte, 150), "image/jpeg", ""))

	_, ok := c.Get(CategoryQR, "big-qr")
	assert.False(t, ok, "oversize object must never appear in the cache")

	_, ok = c.Get(CategoryThumbnail, "thumb")
	assert.True(t, ok)
}

func TestOverwriteReplacesBytes(t *testing.T) {
	c := New(1<<20, 100)

	c.Put(CategoryFile, "k", []byte("first"), "text/plain", `"v1"`)
	c.Put(CategoryFile, "k", []byte("second"), "text/plain", `"v2"`)

	e, ok := c.Get(CategoryFile, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("second"), e.Bytes)
	assert.Equal(t, `"v2"`, e.ETag)
	assert.Equal(t, int64(len("second")), c.Size())
}

func TestEvictionDropsOldestHalf(t *testing.T) {
	c := New(1<<20, 10)

	for i := 0; i < 10; i++ {
		c.Put(CategoryFile, fmt.Sprintf("key-%d", i), []byte{byte(i)}, "application/octet-stream", "")
		time.Sleep(time.Millisecond)
	}

	// Touch the newest half so access order is deterministic, then push the
	// cache over the entry threshold.
	for i := 5; i < 10; i++ {
		c.Get(CategoryFile, fmt.Sprintf("key-%d", i))
	}

	c.Put(CategoryFile, "key-10", []byte{10}, "application/octet-stream", "")

	assert.LessOrEqual(t, c.Len(), 6)

	// The untouched oldest entries are gone, the recently accessed survive
	_, ok := c.Get(CategoryFile, "key-0")
	assert.False(t, ok)

	_, ok = c.Get(CategoryFile, "key-9")
	assert.True(t, ok)
}

func TestSweepUnderBudgetIsNoop(t *testing.T) {
	c := New(1<<20, 100)

	c.Put(CategoryFile, "keep", bytes.Repeat([]byte("x"), 10), "text/plain", "")
	c.Sweep()

	_, ok := c.Get(CategoryFile, "keep")
	assert.True(t, ok)
	assert.Equal(t, 1, c.Len())
}

func TestSizeTracksEviction(t *testing.T) {
	c := New(1<<20, 4)

	for i := 0; i < 5; i++ {
		c.Put(CategoryFile, fmt.Sprintf("k%d", i), make([]byte, 100), "application/octet-stream", "")
		time.Sleep(time.Millisecond)
	}

	assert.Equal(t, int64(c.Len())*100, c.Size())
}
