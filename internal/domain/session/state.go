package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"babytracker/internal/domain/record"
)

// ErrNoActiveProfile - профиль не выбран, а операция требует его.
var ErrNoActiveProfile = errors.New("no active profile")

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ProfileLister отдает профили в порядке создания.
type ProfileLister interface {
	ListProfiles(ctx context.Context) ([]*record.Profile, error)
}

// Snapshot - согласованный срез состояния сессии.
type Snapshot struct {
	ProfileID int64
	HasActive bool
	Units     record.UnitSystem
	Theme     Theme
}

// State - состояние сессии приложения: активный профиль, единицы и тема.
// Не сохраняется между запусками.
type State struct {
	mu        sync.RWMutex
	profileID int64
	hasActive bool
	units     record.UnitSystem
	theme     Theme
}

// NewState создает состояние с метрическими единицами и светлой темой.
func NewState() *State {
	return &State{
		units: record.Metric,
		theme: ThemeLight,
	}
}

// Init выбирает первый профиль, если активного еще нет,
// и принимает его единицы измерения.
func (s *State) Init(ctx context.Context, lister ProfileLister) error {
	if _, ok := s.ActiveProfile(); ok {
		return nil
	}

	profiles, err := lister.ListProfiles(ctx)
	if err != nil {
		return fmt.Errorf("failed to load profiles: %w", err)
	}
	if len(profiles) == 0 {
		return nil
	}

	first := profiles[0]

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hasActive {
		return nil
	}
	s.profileID = first.ID
	s.hasActive = true
	if first.Units.Validate() == nil {
		s.units = first.Units
	}
	return nil
}

// NeedsProfile сообщает, что активного профиля нет и профилей не существует:
// вызывающему нужно перейти к созданию профиля.
func (s *State) NeedsProfile(ctx context.Context, lister ProfileLister) (bool, error) {
	if _, ok := s.ActiveProfile(); ok {
		return false, nil
	}
	profiles, err := lister.ListProfiles(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load profiles: %w", err)
	}
	return len(profiles) == 0, nil
}

// ActiveProfile возвращает идентификатор активного профиля.
func (s *State) ActiveProfile() (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profileID, s.hasActive
}

// RequireProfile возвращает активный профиль или ErrNoActiveProfile.
func (s *State) RequireProfile() (int64, error) {
	id, ok := s.ActiveProfile()
	if !ok {
		return 0, ErrNoActiveProfile
	}
	return id, nil
}

func (s *State) SetActiveProfile(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profileID = id
	s.hasActive = id > 0
}

func (s *State) Units() record.UnitSystem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.units
}

func (s *State) SetUnits(u record.UnitSystem) error {
	if err := u.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.units = u
	return nil
}

func (s *State) Theme() Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

func (s *State) SetTheme(t Theme) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = t
}

// Snapshot возвращает все поля состояния одним чтением.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		ProfileID: s.profileID,
		HasActive: s.hasActive,
		Units:     s.units,
		Theme:     s.theme,
	}
}

// Reset возвращает состояние к значениям по умолчанию.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profileID = 0
	s.hasActive = false
	s.units = record.Metric
	s.theme = ThemeLight
}
