package downloader

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/kkdai/youtube/v2"
)

const livePath = "/live/"

var errNoLiveID = errors.New("no video_id after " + livePath)

// ValidateLink reports whether text is a youtube video link. The download
// itself does not need it; dialogs use it to tell links from button presses.
func ValidateLink(link string) error {
	link = strings.TrimSpace(link)
	if link == "" {
		return ErrEmptyLink
	}
	if !strings.Contains(link, "youtu.be/") && !strings.Contains(link, "youtube.com/") {
		return fmt.Errorf("string %q doesn't contain youtube host", link)
	}
	if id, err := liveVideoID(link); err != nil {
		return err
	} else if id != "" {
		link = id
	}
	_, err := youtube.ExtractVideoID(link)
	if err != nil {
		return fmt.Errorf("failed to extract video id from link: %w", err)
	}
	return nil
}

// liveVideoID returns the id of a '/live/<id>' link, or "" for any other link.
func liveVideoID(link string) (string, error) {
	parsedURL, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("failed to parse url: %w", err)
	}
	path := parsedURL.Path
	if !strings.HasPrefix(path, livePath) {
		return "", nil
	}
	id := strings.Trim(path[len(livePath):], "/")
	if id == "" {
		return "", errNoLiveID
	}
	return id, nil
}
