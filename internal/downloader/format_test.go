package downloader

import (
	"testing"

	"github.com/kkdai/youtube/v2"
)

func TestSelectHighestResolution(t *testing.T) {
	audio := youtube.Format{ItagNo: 140, MimeType: `audio/mp4; codecs="mp4a.40.2"`, AudioChannels: 2, Bitrate: 130000}
	audioHigh := youtube.Format{ItagNo: 251, MimeType: `audio/webm; codecs="opus"`, AudioChannels: 2, Bitrate: 160000}
	p360 := youtube.Format{ItagNo: 18, MimeType: `video/mp4; codecs="avc1.42001E, mp4a.40.2"`, AudioChannels: 2, Width: 640, Height: 360, FPS: 30}
	p720 := youtube.Format{ItagNo: 22, MimeType: `video/mp4; codecs="avc1.64001F, mp4a.40.2"`, AudioChannels: 2, Width: 1280, Height: 720, FPS: 30}
	p720x60 := youtube.Format{ItagNo: 300, MimeType: `video/mp4; codecs="avc1.4d4020, mp4a.40.2"`, AudioChannels: 2, Width: 1280, Height: 720, FPS: 60}
	videoOnly := youtube.Format{ItagNo: 137, MimeType: `video/mp4; codecs="avc1.640028"`, Width: 1920, Height: 1080, FPS: 30}

	tests := []struct {
		name     string
		formats  youtube.FormatList
		wantItag int
		wantErr  bool
	}{
		{
			name:     "should_pick_largest_progressive",
			formats:  youtube.FormatList{p360, videoOnly, p720, audio},
			wantItag: 22,
		},
		{
			name:     "should_break_ties_by_fps",
			formats:  youtube.FormatList{p720, p720x60, p360},
			wantItag: 300,
		},
		{
			name:     "should_prefer_progressive_over_audio",
			formats:  youtube.FormatList{audioHigh, p360, audio},
			wantItag: 18,
		},
		{
			name:     "should_fall_back_to_best_audio",
			formats:  youtube.FormatList{videoOnly, audio, audioHigh},
			wantItag: 251,
		},
		{
			name:    "should_return_err_without_audio",
			formats: youtube.FormatList{videoOnly},
			wantErr: true,
		},
		{
			name:    "should_return_err_on_empty_list",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectHighestResolution(tt.formats)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SelectHighestResolution() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if got.ItagNo != tt.wantItag {
				t.Errorf("SelectHighestResolution() itag = %v, want %v", got.ItagNo, tt.wantItag)
			}
		})
	}
}
