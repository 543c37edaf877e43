package downloader

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kkdai/youtube/v2"
)

const (
	defaultExt      = "mp4"
	maxBaseNameSize = 200
)

// fileName builds "<title>.<ext>" where ext comes from the format MIME type.
func fileName(video *youtube.Video, format *youtube.Format) string {
	base := sanitizeBaseName(video.Title)
	if base == "" {
		base = sanitizeBaseName(video.ID)
	}
	if base == "" {
		base = "video"
	}
	return base + "." + extension(format.MimeType)
}

// extension turns `video/mp4; codecs="avc1.42001E, mp4a.40.2"` into "mp4".
func extension(mimeType string) string {
	mediaType := strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0])
	parts := strings.SplitN(mediaType, "/", 2)
	if len(parts) != 2 || parts[1] == "" {
		return defaultExt
	}
	return parts[1]
}

func sanitizeBaseName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r):
			return '_'
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, name)
	name = strings.Trim(name, " .")
	for len(name) > maxBaseNameSize {
		_, size := utf8.DecodeLastRuneInString(name)
		name = name[:len(name)-size]
	}
	return name
}
