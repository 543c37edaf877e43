package app

import (
	"context"
	"io"
	"strings"

	"github.com/google/uuid"
)

// DownloadRequest lives for exactly one trigger. ID only correlates log lines.
type DownloadRequest struct {
	ID  string
	URL string
}

func NewDownloadRequest(link string) DownloadRequest {
	return DownloadRequest{
		ID:  uuid.NewString(),
		URL: strings.TrimSpace(link),
	}
}

type OutcomeKind int

const (
	OutcomeSuccess = OutcomeKind(iota + 1)
	OutcomeFailure
)

// Outcome is the result of a download: either Success with the video title and
// saved file path, or Failure with the error description.
type Outcome struct {
	Kind        OutcomeKind
	Title       string
	Path        string
	Description string
}

func Success(title, path string) Outcome {
	return Outcome{Kind: OutcomeSuccess, Title: title, Path: path}
}

const unknownFailure = "unknown error"

func Failure(err error) Outcome {
	desc := unknownFailure
	if err != nil && err.Error() != "" {
		desc = err.Error()
	}
	return Outcome{Kind: OutcomeFailure, Description: desc}
}

func (o Outcome) IsSuccess() bool {
	return o.Kind == OutcomeSuccess
}

// ProgressTracker receives the downloaded bytes. progress.Counter implements it.
type ProgressTracker interface {
	io.Writer
	SetContentLen(n int64)
}

// ResolveObserver is optionally implemented by a ProgressTracker that wants the
// video title as soon as it is known, before the transfer starts.
type ResolveObserver interface {
	OnResolved(title string)
}

type DownloadService interface {
	// Run performs one download attempt. It never panics and never returns an error:
	// every failure is reported as a Failure outcome. tracker may be nil.
	Run(ctx context.Context, req DownloadRequest, tracker ProgressTracker) Outcome
}
