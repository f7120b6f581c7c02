package query

import (
	"context"

	"babytracker/internal/domain/record"
	"babytracker/internal/domain/session"
)

// Service - выборки событий активного профиля.
type Service struct {
	src   Source
	state *session.State
}

// NewService создает сервис выборок поверх хранилища и состояния сессии.
func NewService(src Source, state *session.State) *Service {
	return &Service{src: src, state: state}
}

func scoped[T any, E interface {
	*T
	record.Entry
}](ctx context.Context, s *Service, opts Options) ([]E, error) {
	id, err := s.state.RequireProfile()
	if err != nil {
		return nil, err
	}
	return List[T, E](ctx, s.src, id, opts)
}

func last[T any, E interface {
	*T
	record.Entry
}](ctx context.Context, s *Service) (E, error) {
	id, err := s.state.RequireProfile()
	if err != nil {
		var zero E
		return zero, err
	}
	return Last[T, E](ctx, s.src, id)
}

// ListProfiles возвращает все профили. Реализует session.ProfileLister.
func (s *Service) ListProfiles(ctx context.Context) ([]*record.Profile, error) {
	return Profiles(ctx, s.src)
}

func (s *Service) Feeds(ctx context.Context, opts Options) ([]*record.Feed, error) {
	return scoped[record.Feed](ctx, s, opts)
}

func (s *Service) Diapers(ctx context.Context, opts Options) ([]*record.Diaper, error) {
	return scoped[record.Diaper](ctx, s, opts)
}

func (s *Service) Sleeps(ctx context.Context, opts Options) ([]*record.Sleep, error) {
	return scoped[record.Sleep](ctx, s, opts)
}

func (s *Service) Growth(ctx context.Context, opts Options) ([]*record.Measurement, error) {
	return scoped[record.Measurement](ctx, s, opts)
}

func (s *Service) Ketones(ctx context.Context, opts Options) ([]*record.Ketone, error) {
	return scoped[record.Ketone](ctx, s, opts)
}

func (s *Service) Vaccines(ctx context.Context, opts Options) ([]*record.Vaccine, error) {
	return scoped[record.Vaccine](ctx, s, opts)
}

func (s *Service) Visits(ctx context.Context, opts Options) ([]*record.Visit, error) {
	return scoped[record.Visit](ctx, s, opts)
}

func (s *Service) Medications(ctx context.Context, opts Options) ([]*record.Medication, error) {
	return scoped[record.Medication](ctx, s, opts)
}

func (s *Service) Temperatures(ctx context.Context, opts Options) ([]*record.Temperature, error) {
	return scoped[record.Temperature](ctx, s, opts)
}

// LastFeed возвращает последнее кормление или nil.
func (s *Service) LastFeed(ctx context.Context) (*record.Feed, error) {
	return last[record.Feed](ctx, s)
}

func (s *Service) LastDiaper(ctx context.Context) (*record.Diaper, error) {
	return last[record.Diaper](ctx, s)
}

func (s *Service) LastSleep(ctx context.Context) (*record.Sleep, error) {
	return last[record.Sleep](ctx, s)
}

// Entries возвращает события произвольной коллекции активного профиля.
func (s *Service) Entries(ctx context.Context, c record.Collection, opts Options) ([]record.Entry, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	id, err := s.state.RequireProfile()
	if err != nil {
		return nil, err
	}
	docs, err := s.src.ListByProfile(ctx, c, id)
	if err != nil {
		return nil, err
	}
	items := make([]record.Entry, 0, len(docs))
	for _, doc := range docs {
		e, err := record.DecodeEntry(c, doc)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return Apply(items, id, opts, EntryKeys[record.Entry]()), nil
}
