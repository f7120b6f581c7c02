package sync

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/exp/slog"

	"babytracker/internal/domain/record"
)

// Servicer интерфейс сервиса приема документов
type Servicer interface {
	// Ingest принимает документ, отправленный клиентом в коллекцию.
	Ingest(ctx context.Context, collection string, body []byte) (*PushResult, error)

	// List возвращает последние принятые документы коллекции.
	List(ctx context.Context, collection string, limit int) ([]*Document, error)

	// Health проверяет хранилище и возвращает его тип.
	Health(ctx context.Context) (string, error)
}

// Service реализация сервиса приема документов. Побеждает последняя запись.
type Service struct {
	repo Repository
	log  *slog.Logger
	now  func() time.Time
}

// NewService создает новый сервис приема документов
func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With(slog.String("component", "ingest")),
		now:  time.Now,
	}
}

// Ingest проверяет коллекцию и id документа и сохраняет его.
func (s *Service) Ingest(ctx context.Context, collection string, body []byte) (*PushResult, error) {
	c, err := record.Parse(collection)
	if err != nil {
		return nil, err
	}

	doc, err := record.DecodeDocument(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	id, err := documentID(doc)
	if err != nil {
		return nil, err
	}

	data, sum, err := Canonical(doc)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	status, err := s.repo.Upsert(ctx, &Document{
		Collection: c,
		ID:         id,
		Data:       data,
		Checksum:   sum,
		ReceivedAt: now,
		UpdatedAt:  now,
	})
	if err != nil {
		s.log.Error("Не удалось сохранить документ",
			slog.String("collection", c.String()), slog.Int64("id", id), slog.Any("error", err))
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	s.log.Debug("Документ принят",
		slog.String("collection", c.String()),
		slog.Int64("id", id),
		slog.String("status", string(status)),
	)
	return &PushResult{ID: id, Status: status}, nil
}

// List возвращает документы коллекции, limit <= 0 означает значение по умолчанию.
func (s *Service) List(ctx context.Context, collection string, limit int) ([]*Document, error) {
	c, err := record.Parse(collection)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	docs, err := s.repo.List(ctx, c, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return docs, nil
}

func (s *Service) Health(ctx context.Context) (string, error) {
	if err := s.repo.Ping(ctx); err != nil {
		return s.repo.Name(), fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return s.repo.Name(), nil
}

// Canonical возвращает тело документа без служебного поля synced с
// отсортированными ключами и его BLAKE2b-256 checksum.
func Canonical(doc record.Document) (json.RawMessage, string, error) {
	data, err := json.Marshal(doc.Without(record.KeySynced))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	sum := blake2b.Sum256(data)
	return data, hex.EncodeToString(sum[:]), nil
}

func documentID(doc record.Document) (int64, error) {
	raw, ok := doc[record.KeyID]
	if !ok {
		return 0, fmt.Errorf("%w: id is required", ErrInvalidDocument)
	}
	n, ok := raw.(json.Number)
	if !ok {
		return 0, fmt.Errorf("%w: id must be a number", ErrInvalidDocument)
	}
	id, err := n.Int64()
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id must be a positive integer, got %s", ErrInvalidDocument, n)
	}
	return id, nil
}

// IsClientError сообщает, что ошибка вызвана содержимым запроса.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidDocument) || errors.Is(err, record.ErrInvalidRecord)
}
