// Package console is a line based UI shell: every input line is a video link
// and every status update is printed as a line.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/vm-affekt/ytsaver/internal/app"
	"github.com/vm-affekt/ytsaver/internal/logging"
)

type Shell struct {
	in         io.Reader
	controller *app.Controller
}

func New(downloadService app.DownloadService, in io.Reader, out io.Writer, opts ...app.ControllerOption) *Shell {
	return &Shell{
		in:         in,
		controller: app.NewController(downloadService, &lineView{out: out}, opts...),
	}
}

// Run handles lines until in is exhausted or ctx is done. A line is downloaded
// completely before the next one is read.
func (s *Shell) Run(ctx context.Context) error {
	log := logging.FromContextS(ctx)
	scanner := bufio.NewScanner(s.in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.controller.SetInput(scanner.Text())
		if err := s.controller.Trigger(ctx); err != nil {
			return fmt.Errorf("failed to start download: %w", err)
		}
		if err := s.wait(ctx); err != nil {
			log.Infof("Shell interrupted: %v", err)
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

func (s *Shell) wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.controller.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.controller.Cancel()
		<-done
		return ctx.Err()
	}
}

type lineView struct {
	mu  sync.Mutex
	out io.Writer
}

func (v *lineView) ShowStatus(_ context.Context, _ app.State, text string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, err := fmt.Fprintln(v.out, text)
	return err
}
