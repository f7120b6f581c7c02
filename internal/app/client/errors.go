package client

import (
	"errors"
	"fmt"

	"babytracker/internal/domain/record"
)

var (
	// ErrRemoteUnavailable - сервер не прошел проверку доступности, цикл прерван.
	ErrRemoteUnavailable = errors.New("remote unavailable")
	// ErrPushRejected - сервер ответил не 2xx на отправку записи.
	ErrPushRejected = errors.New("push rejected")
)

// PushError описывает отклоненную сервером запись.
type PushError struct {
	Collection record.Collection
	ID         int64
	Status     int
}

func (e *PushError) Error() string {
	return fmt.Sprintf("push %s/%d rejected with status %d", e.Collection, e.ID, e.Status)
}

func (e *PushError) Unwrap() error {
	return ErrPushRejected
}
