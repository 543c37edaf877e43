package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDownloadService struct {
	run func(ctx context.Context, req DownloadRequest, tracker ProgressTracker) Outcome
}

func (f *fakeDownloadService) Run(ctx context.Context, req DownloadRequest, tracker ProgressTracker) Outcome {
	return f.run(ctx, req, tracker)
}

type recordingView struct {
	mu    sync.Mutex
	texts []string
}

func (v *recordingView) ShowStatus(_ context.Context, _ State, text string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.texts = append(v.texts, text)
	return nil
}

func (v *recordingView) all() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.texts...)
}

func titleByURL(titles map[string]string) *fakeDownloadService {
	return &fakeDownloadService{run: func(_ context.Context, req DownloadRequest, tracker ProgressTracker) Outcome {
		title, ok := titles[req.URL]
		if !ok {
			return Failure(errors.New("invalid video link"))
		}
		if ro, ok := tracker.(ResolveObserver); ok {
			ro.OnResolved(title)
		}
		return Success(title, title+".mp4")
	}}
}

func TestController_Trigger_success(t *testing.T) {
	view := &recordingView{}
	var completed []Outcome
	c := NewController(titleByURL(map[string]string{"https://youtu.be/a": "First"}), view,
		WithCompletion(func(_ context.Context, o Outcome) { completed = append(completed, o) }))

	assert.Equal(t, StateIdle, c.State())
	c.SetInput("https://youtu.be/a")
	require.NoError(t, c.Trigger(context.Background()))
	c.Wait()

	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, `Видео "First" успешно скачано!`, c.Status())
	assert.Equal(t, []string{
		"Скачивается: https://youtu.be/a",
		"Скачивается: First",
		`Видео "First" успешно скачано!`,
	}, view.all())
	require.Len(t, completed, 1)
	assert.True(t, completed[0].IsSuccess())
	assert.Nil(t, c.Progress())
}

func TestController_statusReflectsOnlyLatestInvocation(t *testing.T) {
	c := NewController(titleByURL(map[string]string{
		"https://youtu.be/a": "First",
		"https://youtu.be/b": "Second",
	}), nil)

	c.SetInput("https://youtu.be/a")
	require.NoError(t, c.Trigger(context.Background()))
	c.Wait()
	assert.Contains(t, c.Status(), "First")

	c.SetInput("https://youtu.be/b")
	require.NoError(t, c.Trigger(context.Background()))
	c.Wait()
	assert.Contains(t, c.Status(), "Second")
	assert.NotContains(t, c.Status(), "First")

	c.SetInput("not a link")
	require.NoError(t, c.Trigger(context.Background()))
	c.Wait()
	assert.Equal(t, "Ошибка: invalid video link", c.Status())
}

func TestController_Trigger_rejectsWhileRunning(t *testing.T) {
	release := make(chan struct{})
	c := NewController(&fakeDownloadService{run: func(ctx context.Context, _ DownloadRequest, _ ProgressTracker) Outcome {
		<-release
		return Success("t", "t.mp4")
	}}, nil)

	c.SetInput("https://youtu.be/a")
	require.NoError(t, c.Trigger(context.Background()))
	assert.Equal(t, StateRunning, c.State())
	assert.NotNil(t, c.Progress())

	err := c.Trigger(context.Background())
	assert.ErrorIs(t, err, ErrDownloadInProgress)
	assert.Equal(t, "Скачивается: https://youtu.be/a", c.Status())

	close(release)
	c.Wait()
	assert.Equal(t, StateIdle, c.State())
}

func TestController_Cancel(t *testing.T) {
	c := NewController(&fakeDownloadService{run: func(ctx context.Context, _ DownloadRequest, _ ProgressTracker) Outcome {
		<-ctx.Done()
		return Failure(ctx.Err())
	}}, nil)

	assert.False(t, c.Cancel())
	c.SetInput("https://youtu.be/a")
	require.NoError(t, c.Trigger(context.Background()))
	assert.True(t, c.Cancel())
	c.Wait()
	assert.Equal(t, "Ошибка: context canceled", c.Status())
}

func TestController_Timeout(t *testing.T) {
	c := NewController(&fakeDownloadService{run: func(ctx context.Context, _ DownloadRequest, _ ProgressTracker) Outcome {
		<-ctx.Done()
		return Failure(ctx.Err())
	}}, nil, WithTimeout(10*time.Millisecond))

	require.NoError(t, c.Trigger(context.Background()))
	c.Wait()
	assert.Equal(t, "Ошибка: context deadline exceeded", c.Status())
}

func TestController_recoversFromPanickingService(t *testing.T) {
	c := NewController(&fakeDownloadService{run: func(context.Context, DownloadRequest, ProgressTracker) Outcome {
		panic("boom")
	}}, nil)

	require.NoError(t, c.Trigger(context.Background()))
	c.Wait()
	assert.Equal(t, "Ошибка: download panicked: boom", c.Status())
	assert.Equal(t, StateIdle, c.State())
}

func TestController_Trigger_trimsInput(t *testing.T) {
	var got string
	c := NewController(&fakeDownloadService{run: func(_ context.Context, req DownloadRequest, _ ProgressTracker) Outcome {
		got = req.URL
		assert.NotEmpty(t, req.ID)
		return Success("t", "t.mp4")
	}}, nil)

	c.SetInput("  https://youtu.be/a \n")
	assert.Equal(t, "  https://youtu.be/a \n", c.Input())
	require.NoError(t, c.Trigger(context.Background()))
	c.Wait()
	assert.Equal(t, "https://youtu.be/a", got)
}

func TestController_runningStatusShowsResolvedTitle(t *testing.T) {
	resolved := make(chan struct{})
	release := make(chan struct{})
	view := &recordingView{}
	c := NewController(&fakeDownloadService{run: func(_ context.Context, _ DownloadRequest, tracker ProgressTracker) Outcome {
		tracker.(ResolveObserver).OnResolved("Rock & Roll")
		close(resolved)
		<-release
		return Success("Rock & Roll", "Rock & Roll.mp4")
	}}, view)

	c.SetInput("https://youtu.be/a")
	require.NoError(t, c.Trigger(context.Background()))
	<-resolved
	assert.Equal(t, StateRunning, c.State())
	assert.Equal(t, "Скачивается: Rock & Roll", c.Status())

	close(release)
	c.Wait()
	assert.Equal(t, []string{
		"Скачивается: https://youtu.be/a",
		"Скачивается: Rock & Roll",
		`Видео "Rock & Roll" успешно скачано!`,
	}, view.all())
}

func TestController_idleBeforeCompletionCallback(t *testing.T) {
	var (
		stateInCallback State
		retrigger       error
		calls           int
	)
	var c *Controller
	c = NewController(titleByURL(map[string]string{"https://youtu.be/a": "First"}), nil,
		WithCompletion(func(ctx context.Context, _ Outcome) {
			calls++
			if calls == 1 {
				stateInCallback = c.State()
				retrigger = c.Trigger(ctx)
			}
		}))

	c.SetInput("https://youtu.be/a")
	require.NoError(t, c.Trigger(context.Background()))
	c.Wait() // the first run, including its callback
	c.Wait() // the run started from the callback

	assert.Equal(t, 2, calls)
	assert.Equal(t, StateIdle, stateInCallback)
	assert.NoError(t, retrigger)
	assert.Equal(t, StateIdle, c.State())
}
