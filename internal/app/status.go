package app

import (
	"context"
	"fmt"
)

// StatusView is the status display of a UI shell. state tells whether the
// download the text is about is still running.
type StatusView interface {
	ShowStatus(ctx context.Context, state State, text string) error
}

// RunningStatus names what is being downloaded: the link until the video is
// resolved, its title afterwards.
func RunningStatus(subject string) string {
	return fmt.Sprintf("Скачивается: %s", subject)
}

func OutcomeStatus(o Outcome) string {
	if o.IsSuccess() {
		return fmt.Sprintf("Видео %q успешно скачано!", o.Title)
	}
	return fmt.Sprintf("Ошибка: %s", o.Description)
}
