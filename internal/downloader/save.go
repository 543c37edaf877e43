package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/vm-affekt/ytsaver/internal/logging"
)

const (
	partialPattern  = ".ytsaver-*.part"
	maxNameAttempts = 1000
)

// A context-aware io.Reader wrapper.
type readerContext struct {
	ctx context.Context
	r   io.Reader
}

func (r *readerContext) Read(p []byte) (n int, err error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}

// saveStream writes stream into a temporary file next to the target and renames
// it once the whole stream has been read. A failed transfer leaves no file behind.
// The saved file never replaces an existing one, see reserveName.
func (s *Service) saveStream(ctx context.Context, name string, stream io.Reader, contentLen int64, tracker io.Writer) (path string, err error) {
	log := logging.FromContextS(ctx)
	if err := os.MkdirAll(s.targetDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create target dir %q: %w", s.targetDir, err)
	}
	tmp, err := os.CreateTemp(s.targetDir, partialPattern)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		var cleanup *multierror.Error
		if cerr := tmp.Close(); cerr != nil && !errors.Is(cerr, os.ErrClosed) {
			cleanup = multierror.Append(cleanup, cerr)
		}
		if rerr := os.Remove(tmp.Name()); rerr != nil && !errors.Is(rerr, fs.ErrNotExist) {
			cleanup = multierror.Append(cleanup, rerr)
		}
		if cleanup.ErrorOrNil() != nil {
			log.Errorf("Failed to clean up partial file %q: %v", tmp.Name(), cleanup)
			merr := multierror.Append(err, cleanup.Errors...)
			merr.ErrorFormat = joinErrors
			err = merr
		}
	}()

	var src io.Reader = &readerContext{ctx: ctx, r: stream}
	if tracker != nil {
		src = io.TeeReader(src, tracker)
	}
	written, err := io.Copy(tmp, src)
	if err != nil {
		return "", fmt.Errorf("failed to save video stream after %d bytes: %w", written, err)
	}
	if contentLen > 0 && written != contentLen {
		return "", fmt.Errorf("video stream ended after %d of %d bytes: %w", written, contentLen, io.ErrUnexpectedEOF)
	}
	if err = tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	path, err = reserveName(s.targetDir, name)
	if err != nil {
		return "", err
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to move video into %q: %w", path, err)
	}
	s.recorder.AddBytes(written)
	log.Infof("Saved %d bytes into %q", written, path)
	return path, nil
}

// reserveName creates an empty file for name in dir and returns its path. While
// the name is taken, " (n)" is put before the extension. Existing files are
// never replaced.
func reserveName(dir, name string) (string, error) {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for n := 0; n < maxNameAttempts; n++ {
		candidate := name
		if n > 0 {
			candidate = fmt.Sprintf("%s (%d)%s", base, n, ext)
		}
		path := filepath.Join(dir, candidate)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to create %q: %w", path, err)
		}
		if err := f.Close(); err != nil {
			_ = os.Remove(path)
			return "", fmt.Errorf("failed to close %q: %w", path, err)
		}
		return path, nil
	}
	return "", fmt.Errorf("no free file name for %q in %q after %d attempts", name, dir, maxNameAttempts)
}

func joinErrors(errs []error) string {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}
