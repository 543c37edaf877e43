package app

import (
	"errors"
	"testing"
)

func TestOutcomeStatus(t *testing.T) {
	tests := []struct {
		name    string
		outcome Outcome
		want    string
	}{
		{
			name:    "should_name_title_on_success",
			outcome: Success("Never Gonna Give You Up", "Never Gonna Give You Up.mp4"),
			want:    `Видео "Never Gonna Give You Up" успешно скачано!`,
		},
		{
			name:    "should_show_error_verbatim_on_failure",
			outcome: Failure(errors.New("failed to get video by link: invalid characters in video id")),
			want:    "Ошибка: failed to get video by link: invalid characters in video id",
		},
		{
			name:    "should_not_be_empty_on_nil_error",
			outcome: Failure(nil),
			want:    "Ошибка: unknown error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OutcomeStatus(tt.outcome); got != tt.want {
				t.Errorf("OutcomeStatus() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUserError_unwrapsCause(t *testing.T) {
	err := NewUserError("wait please").WithCause(ErrDownloadInProgress)
	if !errors.Is(err, ErrDownloadInProgress) {
		t.Errorf("errors.Is(%v, ErrDownloadInProgress) = false, want true", err)
	}
}
