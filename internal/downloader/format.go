package downloader

import (
	"errors"
	"strings"

	"github.com/kkdai/youtube/v2"
)

var ErrNoStream = errors.New("no downloadable stream found")

// SelectHighestResolution picks the progressive format (video with audio) with
// the largest frame, breaking ties by FPS and then bitrate. Without progressive
// formats it falls back to the best format that still carries audio.
func SelectHighestResolution(formats youtube.FormatList) (*youtube.Format, error) {
	var (
		best            *youtube.Format
		bestProgressive bool
	)
	for i := range formats {
		f := &formats[i]
		if f.AudioChannels == 0 {
			continue
		}
		progressive := isProgressive(f)
		switch {
		case best == nil:
		case progressive != bestProgressive:
			if !progressive {
				continue
			}
		case !higherQuality(f, best):
			continue
		}
		best, bestProgressive = f, progressive
	}
	if best == nil {
		return nil, ErrNoStream
	}
	return best, nil
}

func isProgressive(f *youtube.Format) bool {
	return strings.HasPrefix(f.MimeType, "video/") && f.Width > 0 && f.Height > 0
}

func higherQuality(a, b *youtube.Format) bool {
	if ra, rb := a.Width*a.Height, b.Width*b.Height; ra != rb {
		return ra > rb
	}
	if a.FPS != b.FPS {
		return a.FPS > b.FPS
	}
	return a.Bitrate > b.Bitrate
}
