package downloader

import (
	"context"
	"io"
	"net/http"

	"github.com/kkdai/youtube/v2"
	"github.com/vm-affekt/ytsaver/internal/logging"
)

// VideoClient is the part of *youtube.Client the service needs.
type VideoClient interface {
	GetVideoContext(ctx context.Context, url string) (*youtube.Video, error)
	GetStreamContext(ctx context.Context, video *youtube.Video, format *youtube.Format) (io.ReadCloser, int64, error)
}

// NewClient returns a youtube client whose HTTP traffic is logged at debug
// level through the logger of the request context.
func NewClient() *youtube.Client {
	return &youtube.Client{
		HTTPClient: &http.Client{
			Transport: &loggingTransport{next: http.DefaultTransport},
		},
	}
}

type loggingTransport struct {
	next http.RoundTripper
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	log := logging.FromContextS(req.Context())
	// stream URLs carry signatures in the query, keep them out of the logs
	target := req.URL.Host + req.URL.Path
	log.Debugw("HTTP request", "method", req.Method, "target", target, "range", req.Header.Get("Range"))

	res, err := t.next.RoundTrip(req)
	if err != nil {
		log.Debugw("HTTP request failed", "target", target, "error", err)
		return nil, err
	}
	log.Debugw("HTTP response", "target", target, "status", res.Status)
	return res, nil
}
