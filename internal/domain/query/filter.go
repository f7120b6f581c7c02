package query

import (
	"sort"
	"time"

	"babytracker/internal/domain/record"
)

// AllTypes - значение фильтра по типу, отключающее фильтр.
const AllTypes = "All"

// Options - параметры выборки событий профиля.
type Options struct {
	// Date - календарный день (YYYY-MM-DD) в зоне Location.
	Date string
	// Type - точное значение поля type; пусто или AllTypes - без фильтра.
	Type string
	// Limit - максимальное число результатов; 0 - без ограничения.
	Limit int
	// Location - зона вызывающего; nil означает time.Local.
	Location *time.Location
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.Local
	}
	return o.Location
}

func (o Options) filtersType() bool {
	return o.Type != "" && o.Type != AllTypes
}

// Keys - функции извлечения ключей фильтрации и сортировки.
type Keys[E any] struct {
	Profile func(E) int64
	Time    func(E, *time.Location) time.Time
	Day     func(E, *time.Location) string
	Kind    func(E) string
	ID      func(E) int64
}

// EntryKeys строит извлекатели из интерфейса record.Entry.
func EntryKeys[E record.Entry]() Keys[E] {
	return Keys[E]{
		Profile: func(e E) int64 { return e.ProfileID() },
		Time:    func(e E, loc *time.Location) time.Time { return e.EventTime(loc) },
		Day:     func(e E, loc *time.Location) string { return e.Day(loc) },
		Kind:    func(e E) string { return e.Kind() },
		ID:      func(e E) int64 { return e.RecordID() },
	}
}

// Apply фильтрует, сортирует и ограничивает выборку.
// Исходный срез не изменяется.
func Apply[E any](items []E, profileID int64, opts Options, keys Keys[E]) []E {
	loc := opts.location()

	result := make([]E, 0, len(items))
	for _, item := range items {
		if keys.Profile(item) != profileID {
			continue
		}
		if opts.Date != "" && keys.Day(item, loc) != opts.Date {
			continue
		}
		if opts.filtersType() && keys.Kind(item) != opts.Type {
			continue
		}
		result = append(result, item)
	}

	sort.SliceStable(result, func(i, j int) bool {
		ti, tj := keys.Time(result[i], loc), keys.Time(result[j], loc)
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return keys.ID(result[i]) > keys.ID(result[j])
	})

	if opts.Limit > 0 && len(result) > opts.Limit {
		result = result[:opts.Limit]
	}
	return result
}
