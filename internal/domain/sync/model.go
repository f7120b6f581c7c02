package sync

import (
	"encoding/json"
	"time"

	"babytracker/internal/domain/record"
)

// Status - результат приема документа сервером.
type Status string

const (
	StatusCreated   Status = "created"
	StatusUpdated   Status = "updated"
	StatusUnchanged Status = "unchanged"
)

// Document - запись клиента в том виде, в котором ее хранит сервер.
// Ключ документа - пара (Collection, ID), где ID - локальный id клиента.
type Document struct {
	Collection record.Collection `json:"-"`
	ID         int64             `json:"id"`
	Data       json.RawMessage   `json:"data"`
	Checksum   string            `json:"checksum"`
	ReceivedAt time.Time         `json:"receivedAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

// PushResult - ответ на отправку одного документа.
type PushResult struct {
	ID     int64  `json:"id"`
	Status Status `json:"status"`
}

const (
	DefaultListLimit = 200
	MaxListLimit     = 1000
)
