package progress

import (
	"sync"
	"time"
)

// Counter counts bytes of a single transfer. It is an io.Writer, so it can
// sit behind an io.TeeReader.
type Counter struct {
	contentLen        int64
	currentDownloaded int64

	mu        *sync.RWMutex
	startTime time.Time
	onWrite   func(downloaded, contentLen int64)
}

func NewCounter(contentLen int64) *Counter {
	return &Counter{
		contentLen: contentLen,
		mu:         new(sync.RWMutex),
		startTime:  time.Now(),
	}
}

// OnWrite registers f to be called after every write with the running totals.
func (c *Counter) OnWrite(f func(downloaded, contentLen int64)) *Counter {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onWrite = f
	return c
}

func (c *Counter) Write(p []byte) (n int, err error) {
	c.mu.Lock()
	c.currentDownloaded += int64(len(p))
	downloaded, contentLen, f := c.currentDownloaded, c.contentLen, c.onWrite
	c.mu.Unlock()
	if f != nil {
		f(downloaded, contentLen)
	}
	return len(p), nil
}

// SetContentLen sets the total size once the stream reports it. Zero means unknown.
// The transfer is considered started from this moment on.
func (c *Counter) SetContentLen(n int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.contentLen = n
	c.startTime = time.Now()
}

// Percentage returns 0 while the total size is unknown.
func (c *Counter) Percentage() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.contentLen == 0 {
		return 0
	}
	return (float64(c.currentDownloaded) / float64(c.contentLen)) * 100.0
}

func (c *Counter) ContentLen() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.contentLen
}

func (c *Counter) CurrentDownloaded() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.currentDownloaded
}
