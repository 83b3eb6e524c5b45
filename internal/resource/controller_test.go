package resource

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilController(t *testing.T) {
	var c *Controller
	assert.Nil(t, NewController(Config{}))

	release, err := c.AcquireBuffer(context.Background(), 1<<40)
	require.NoError(t, err)
	release()
	assert.Zero(t, c.BufferUsage())
	require.NoError(t, c.WaitIO(context.Background(), 1<<30))

	var buf bytes.Buffer
	w := c.Writer(context.Background(), &buf)
	assert.Same(t, &buf, w)
}

func TestController_Buffer(t *testing.T) {
	ctx := context.Background()
	c := NewController(Config{BufferBytes: 100})

	r1, err := c.AcquireBuffer(ctx, 60)
	require.NoError(t, err)
	r2, err := c.AcquireBuffer(ctx, 40)
	require.NoError(t, err)
	assert.Equal(t, int64(100), c.BufferUsage())

	t.Run("BlocksWhenFull", func(t *testing.T) {
		tctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()
		_, err := c.AcquireBuffer(tctx, 1)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	r1()
	r1()
	assert.Equal(t, int64(40), c.BufferUsage())

	t.Run("OversizedRunsAlone", func(t *testing.T) {
		r2()
		release, err := c.AcquireBuffer(ctx, 500)
		require.NoError(t, err)
		assert.Equal(t, int64(500), c.BufferUsage())
		release()
		assert.Zero(t, c.BufferUsage())
	})
}

func TestController_IO(t *testing.T) {
	ctx := context.Background()
	c := NewController(Config{IOBytesPerSec: 1000})

	// The first burst is free, the next 500 bytes take about half a second.
	start := time.Now()
	require.NoError(t, c.WaitIO(ctx, 1500))
	assert.GreaterOrEqual(t, time.Since(start), 300*time.Millisecond)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	assert.Error(t, c.WaitIO(canceled, 10))
}

func TestController_ReaderWriter(t *testing.T) {
	ctx := context.Background()
	c := NewController(Config{IOBytesPerSec: 1 << 20})

	payload := bytes.Repeat([]byte("hexvec"), 1000)

	var buf bytes.Buffer
	n, err := c.Writer(ctx, &buf).Write(payload)
	require.NoError(t, err)
	assert.Equal(t, len(payload), n)

	got, err := io.ReadAll(c.Reader(ctx, &buf))
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}
