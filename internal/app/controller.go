package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/vm-affekt/ytsaver/internal/logging"
	"github.com/vm-affekt/ytsaver/internal/progress"
)

var ErrDownloadInProgress = errors.New("download is already in progress")

type State int

const (
	StateIdle = State(iota)
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Controller owns the state of one UI session: the URL input, the status text
// and whether a download is running. Downloads run on their own goroutine; the
// final status is pushed to the StatusView when they complete.
type Controller struct {
	downloadService DownloadService
	view            StatusView
	timeout         time.Duration
	onComplete      func(ctx context.Context, outcome Outcome)

	mu      sync.Mutex
	input   string
	status  string
	state   State
	counter *progress.Counter
	cancel  func()
	done    chan struct{}
}

type ControllerOption func(*Controller)

// WithTimeout limits every download. Zero disables the limit.
func WithTimeout(d time.Duration) ControllerOption {
	return func(c *Controller) {
		c.timeout = d
	}
}

// WithCompletion registers f to run after the final status has been shown.
func WithCompletion(f func(ctx context.Context, outcome Outcome)) ControllerOption {
	return func(c *Controller) {
		c.onComplete = f
	}
}

func NewController(downloadService DownloadService, view StatusView, opts ...ControllerOption) *Controller {
	c := &Controller{
		downloadService: downloadService,
		view:            view,
		state:           StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) SetInput(link string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.input = link
}

func (c *Controller) Input() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

func (c *Controller) Status() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Progress returns the byte counter of the running download, or nil when idle.
func (c *Controller) Progress() *progress.Counter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counter
}

// Trigger starts downloading the current input and returns immediately.
// The work is detached from ctx: only ctx's logger is carried over.
func (c *Controller) Trigger(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateRunning {
		c.mu.Unlock()
		return ErrDownloadInProgress
	}
	req := NewDownloadRequest(c.input)

	workCtx := logging.NewContextS(logging.CopyContext(ctx, context.Background()), "download_id", req.ID)
	var cancel func()
	if c.timeout > 0 {
		workCtx, cancel = context.WithTimeout(workCtx, c.timeout)
	} else {
		workCtx, cancel = context.WithCancel(workCtx)
	}
	counter := progress.NewCounter(0)
	done := make(chan struct{})
	runningStatus := RunningStatus(req.URL)

	c.state = StateRunning
	c.status = runningStatus
	c.counter = counter
	c.cancel = cancel
	c.done = done
	c.mu.Unlock()

	c.showStatus(ctx, StateRunning, runningStatus)
	go c.run(workCtx, cancel, req, counter, done)
	return nil
}

// Cancel stops the running download. It reports false when nothing was running.
func (c *Controller) Cancel() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateRunning || c.cancel == nil {
		return false
	}
	c.cancel()
	return true
}

// Wait blocks until the last triggered download has completed, including the
// completion callback.
func (c *Controller) Wait() {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (c *Controller) run(ctx context.Context, cancel func(), req DownloadRequest, counter *progress.Counter, done chan struct{}) {
	defer close(done)
	defer cancel()
	log := logging.FromContextS(ctx)
	startT := time.Now()

	outcome := c.runService(ctx, req, &runTracker{Counter: counter, ctx: ctx, c: c})
	if outcome.IsSuccess() {
		log.Infof("Downloaded %q into %q in %v", outcome.Title, outcome.Path, time.Since(startT))
	} else {
		log.Warnf("Failed to download %q after %v: %s", req.URL, time.Since(startT), outcome.Description)
	}

	text := OutcomeStatus(outcome)
	c.mu.Lock()
	c.status = text
	c.mu.Unlock()

	// ctx may be cancelled by now, but the final status still has to get through.
	notifyCtx := logging.CopyContext(ctx, context.Background())
	c.showStatus(notifyCtx, StateIdle, text)

	c.mu.Lock()
	c.state = StateIdle
	c.counter = nil
	c.cancel = nil
	c.mu.Unlock()

	if c.onComplete != nil {
		c.onComplete(notifyCtx, outcome)
	}
}

// runTracker counts the transfer and puts the resolved title into the running status.
type runTracker struct {
	*progress.Counter
	ctx context.Context
	c   *Controller
}

func (t *runTracker) OnResolved(title string) {
	if strings.TrimSpace(title) == "" {
		return
	}
	text := RunningStatus(title)
	t.c.mu.Lock()
	t.c.status = text
	t.c.mu.Unlock()
	t.c.showStatus(t.ctx, StateRunning, text)
}

func (c *Controller) runService(ctx context.Context, req DownloadRequest, tracker ProgressTracker) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = Failure(fmt.Errorf("download panicked: %v", r))
		}
	}()
	return c.downloadService.Run(ctx, req, tracker)
}

func (c *Controller) showStatus(ctx context.Context, state State, text string) {
	if c.view == nil {
		return
	}
	if err := c.view.ShowStatus(ctx, state, text); err != nil {
		logging.FromContextS(ctx).Errorf("Failed to show status %q: %v", text, err)
	}
}
