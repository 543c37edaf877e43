package downloader

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vm-affekt/ytsaver/internal/app"
	"github.com/vm-affekt/ytsaver/internal/logging"
	"go.uber.org/zap"
)

var ErrEmptyLink = errors.New("empty video link")

// Recorder observes finished downloads. metrics.Metrics implements it.
type Recorder interface {
	ObserveOutcome(success bool, elapsed time.Duration)
	AddBytes(n int64)
}

type nopRecorder struct{}

func (nopRecorder) ObserveOutcome(bool, time.Duration) {}
func (nopRecorder) AddBytes(int64)                     {}

type Service struct {
	client    VideoClient
	targetDir string
	recorder  Recorder
}

type Option func(*Service)

// WithTargetDir sets where videos are saved. Empty means the working directory.
func WithTargetDir(dir string) Option {
	return func(s *Service) {
		s.targetDir = dir
	}
}

func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

func New(client VideoClient, opts ...Option) *Service {
	s := &Service{
		client:    client,
		targetDir: ".",
		recorder:  nopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.targetDir == "" {
		s.targetDir = "."
	}
	return s
}

// Run downloads the highest resolution stream of req.URL into the target dir.
// Every failure, including a panic inside the youtube client, becomes a Failure outcome.
func (s *Service) Run(ctx context.Context, req app.DownloadRequest, tracker app.ProgressTracker) (outcome app.Outcome) {
	ctx = logging.NewContextS(ctx, zap.String("video_link", req.URL))
	log := logging.FromContextS(ctx)
	startT := time.Now()
	defer func() {
		if r := recover(); r != nil {
			log.With("recovered_obj", r).Error("!!! A PANIC occurred while downloading !!! See recovered object in recovered_obj!")
			outcome = app.Failure(fmt.Errorf("internal error: %v", r))
		}
		s.recorder.ObserveOutcome(outcome.IsSuccess(), time.Since(startT))
	}()

	title, path, err := s.download(ctx, req.URL, tracker)
	if err != nil {
		log.Errorf("Failed to download video: %v", err)
		return app.Failure(err)
	}
	log.Infof("Video %q saved to %q", title, path)
	return app.Success(title, path)
}

func (s *Service) download(ctx context.Context, link string, tracker app.ProgressTracker) (title, path string, err error) {
	log := logging.FromContextS(ctx)
	if strings.TrimSpace(link) == "" {
		return "", "", ErrEmptyLink
	}

	link = s.transformLink(ctx, link)
	video, err := s.client.GetVideoContext(ctx, link)
	if err != nil {
		return "", "", fmt.Errorf("failed to get video by link: %w", err)
	}
	log.Infof("Got video %q metadata with %d formats", video.Title, len(video.Formats))
	if ro, ok := tracker.(app.ResolveObserver); ok {
		ro.OnResolved(video.Title)
	}

	format, err := SelectHighestResolution(video.Formats)
	if err != nil {
		return video.Title, "", err
	}
	log.Infow("Selected highest resolution format",
		"format_mime_type", format.MimeType,
		"format_quality", format.QualityLabel,
		"format_itag", format.ItagNo,
	)

	stream, contentLen, err := s.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return video.Title, "", fmt.Errorf("failed to get video stream: %w", err)
	}
	defer stream.Close()
	log.Infof("Started downloading stream. Content length is %d", contentLen)
	if tracker != nil {
		tracker.SetContentLen(contentLen)
	}

	path, err = s.saveStream(ctx, fileName(video, format), stream, contentLen, tracker)
	if err != nil {
		return video.Title, "", err
	}
	return video.Title, path, nil
}

// transformLink extracts and returns video id if link has '/live/' path.
// Youtube downloader lib has bug: it doesn't recognize '/live/' links.
func (s *Service) transformLink(ctx context.Context, link string) string {
	id, err := liveVideoID(link)
	if err != nil {
		logging.FromContextS(ctx).Errorf("downloader.transformLink: %v", err)
		return link
	}
	if id == "" {
		return link
	}
	return id
}
