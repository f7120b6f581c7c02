package query

import (
	"context"
	"time"

	"babytracker/internal/domain/record"
	"babytracker/internal/domain/units"
)

// Summary - сводка событий активного профиля за календарный день.
type Summary struct {
	Day   string
	Feeds int
	// FeedVolumeML - суммарный объем кормлений с единицами объема (ml, oz).
	FeedVolumeML float64
	Diapers      map[record.DiaperType]int
	// SleepTotal - длительность снов, начавшихся в этот день; текущий сон
	// считается до now.
	SleepTotal  time.Duration
	Sleeping    bool
	Medications int
	// Temperature - последнее измерение дня или nil.
	Temperature *record.Temperature
	LastFeed    *record.Feed
	LastDiaper  *record.Diaper
}

// Summary собирает сводку за день day (YYYY-MM-DD) в зоне loc.
func (s *Service) Summary(ctx context.Context, day string, loc *time.Location, now time.Time) (*Summary, error) {
	opts := Options{Date: day, Location: loc}
	sum := &Summary{Day: day, Diapers: make(map[record.DiaperType]int)}

	feeds, err := s.Feeds(ctx, opts)
	if err != nil {
		return nil, err
	}
	sum.Feeds = len(feeds)
	for _, f := range feeds {
		if f.Amount == nil {
			continue
		}
		if ml, ok := units.ToMilliliters(*f.Amount, f.Unit); ok {
			sum.FeedVolumeML += ml
		}
	}
	sum.FeedVolumeML = units.Round(sum.FeedVolumeML, 1)

	diapers, err := s.Diapers(ctx, opts)
	if err != nil {
		return nil, err
	}
	for _, d := range diapers {
		sum.Diapers[d.Type]++
	}

	sleeps, err := s.Sleeps(ctx, opts)
	if err != nil {
		return nil, err
	}
	for _, sl := range sleeps {
		sum.SleepTotal += sl.Duration(now)
	}

	meds, err := s.Medications(ctx, opts)
	if err != nil {
		return nil, err
	}
	sum.Medications = len(meds)

	temps, err := s.Temperatures(ctx, Options{Date: day, Location: loc, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(temps) > 0 {
		sum.Temperature = temps[0]
	}

	if sum.LastFeed, err = s.LastFeed(ctx); err != nil {
		return nil, err
	}
	if sum.LastDiaper, err = s.LastDiaper(ctx); err != nil {
		return nil, err
	}
	lastSleep, err := s.LastSleep(ctx)
	if err != nil {
		return nil, err
	}
	sum.Sleeping = lastSleep != nil && lastSleep.Ongoing()

	return sum, nil
}
