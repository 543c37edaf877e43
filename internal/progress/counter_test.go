package progress

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounter_teeAndPercentage(t *testing.T) {
	c := NewCounter(0)
	assert.Equal(t, float64(0), c.Percentage())

	c.SetContentLen(10)
	var calls int
	c.OnWrite(func(downloaded, contentLen int64) {
		calls++
		assert.Equal(t, int64(10), contentLen)
	})

	n, err := io.Copy(io.Discard, io.TeeReader(strings.NewReader("hello"), c))
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	assert.Equal(t, int64(5), c.CurrentDownloaded())
	assert.Equal(t, int64(10), c.ContentLen())
	assert.InDelta(t, 50.0, c.Percentage(), 0.001)
	assert.Positive(t, calls)
}
