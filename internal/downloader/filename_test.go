package downloader

import (
	"strings"
	"testing"

	"github.com/kkdai/youtube/v2"
)

func TestFileName(t *testing.T) {
	tests := []struct {
		name   string
		video  youtube.Video
		format youtube.Format
		want   string
	}{
		{
			name:   "should_use_title_and_mime_ext",
			video:  youtube.Video{ID: "GQtVIUdr4sk", Title: "Рок-концерт 2023"},
			format: youtube.Format{MimeType: `video/mp4; codecs="avc1.42001E, mp4a.40.2"`},
			want:   "Рок-концерт 2023.mp4",
		},
		{
			name:   "should_replace_path_separators",
			video:  youtube.Video{ID: "GQtVIUdr4sk", Title: "AC/DC: Live? <best>"},
			format: youtube.Format{MimeType: `video/webm; codecs="vp9"`},
			want:   "AC_DC_ Live_ _best_.webm",
		},
		{
			name:   "should_fall_back_to_id",
			video:  youtube.Video{ID: "GQtVIUdr4sk", Title: " .. "},
			format: youtube.Format{MimeType: "video/3gpp"},
			want:   "GQtVIUdr4sk.3gpp",
		},
		{
			name:   "should_default_ext_on_bad_mime",
			video:  youtube.Video{ID: "GQtVIUdr4sk", Title: "title"},
			format: youtube.Format{MimeType: ""},
			want:   "title.mp4",
		},
		{
			name:   "should_drop_control_chars",
			video:  youtube.Video{ID: "GQtVIUdr4sk", Title: "line\none\ttab"},
			format: youtube.Format{MimeType: "video/mp4"},
			want:   "lineonetab.mp4",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fileName(&tt.video, &tt.format); got != tt.want {
				t.Errorf("fileName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSanitizeBaseName_limitsSizeOnRuneBoundary(t *testing.T) {
	got := sanitizeBaseName(strings.Repeat("я", 150))
	if len(got) > maxBaseNameSize {
		t.Fatalf("len(sanitizeBaseName()) = %d, want <= %d", len(got), maxBaseNameSize)
	}
	if !strings.HasPrefix(strings.Repeat("я", 150), got) {
		t.Errorf("sanitizeBaseName() cut a rune in half: %q", got)
	}
}
