package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"babytracker/internal/domain/record"
	"babytracker/internal/domain/session"
)

// memSource - источник документов в памяти.
type memSource struct {
	docs map[record.Collection][]record.Document
	err  error
}

func newMemSource() *memSource {
	return &memSource{docs: map[record.Collection][]record.Document{}}
}

func (m *memSource) add(t *testing.T, c record.Collection, id int64, v any) {
	t.Helper()
	doc, err := record.Encode(v)
	require.NoError(t, err)
	doc[record.KeyID] = id
	m.docs[c] = append(m.docs[c], doc)
}

func (m *memSource) ListAll(_ context.Context, c record.Collection) ([]record.Document, error) {
	return m.docs[c], m.err
}

func (m *memSource) ListByProfile(_ context.Context, c record.Collection, babyID int64) ([]record.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []record.Document
	for _, d := range m.docs[c] {
		if id, _ := d.Int64(record.KeyBabyID); id == babyID {
			out = append(out, d)
		}
	}
	return out, nil
}

func ids[E record.Entry](items []E) []int64 {
	out := make([]int64, 0, len(items))
	for _, e := range items {
		out = append(out, e.RecordID())
	}
	return out
}

var zone = time.FixedZone("UTC-5", -5*3600)

func local(day string, hour, minute int) time.Time {
	t, _ := time.ParseInLocation(record.DateLayout, day, zone)
	return t.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func TestFeedsByLocalDay(t *testing.T) {
	src := newMemSource()
	src.add(t, record.Feeds, 1, &record.Feed{BabyID: 1, Type: record.FeedBottleFormula, At: local("2024-01-05", 10, 0)})
	src.add(t, record.Feeds, 2, &record.Feed{BabyID: 1, Type: record.FeedBottleFormula, At: local("2024-01-05", 14, 0)})
	src.add(t, record.Feeds, 3, &record.Feed{BabyID: 1, Type: record.FeedBottleFormula, At: local("2024-01-06", 9, 0)})
	// другой профиль в тот же день
	src.add(t, record.Feeds, 4, &record.Feed{BabyID: 2, Type: record.FeedBottleFormula, At: local("2024-01-05", 12, 0)})

	got, err := List[record.Feed](context.Background(), src, 1, Options{Date: "2024-01-05", Location: zone})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1}, ids(got))
}

func TestDayUsesCallerZone(t *testing.T) {
	src := newMemSource()
	// 2024-01-06 02:00 UTC - это еще 2024-01-05 в UTC-5
	src.add(t, record.Feeds, 1, &record.Feed{BabyID: 1, Type: "Solid Food", At: time.Date(2024, 1, 6, 2, 0, 0, 0, time.UTC)})

	got, err := List[record.Feed](context.Background(), src, 1, Options{Date: "2024-01-05", Location: zone})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = List[record.Feed](context.Background(), src, 1, Options{Date: "2024-01-05", Location: time.UTC})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOngoingSleepMatchesStartDay(t *testing.T) {
	src := newMemSource()
	src.add(t, record.Sleeps, 1, &record.Sleep{BabyID: 1, Start: local("2024-01-05", 22, 0)})

	got, err := List[record.Sleep](context.Background(), src, 1, Options{Date: "2024-01-05", Location: zone})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].End)
	assert.True(t, got[0].Ongoing())
}

func TestDayOnlyCollectionsCompareDate(t *testing.T) {
	src := newMemSource()
	src.add(t, record.Vaccines, 1, &record.Vaccine{BabyID: 1, Type: "BCG", Date: "2024-01-05"})
	src.add(t, record.Vaccines, 2, &record.Vaccine{BabyID: 1, Type: "HepB", Date: "2024-01-06"})

	for _, loc := range []*time.Location{time.UTC, zone, time.FixedZone("UTC+14", 14*3600)} {
		got, err := List[record.Vaccine](context.Background(), src, 1, Options{Date: "2024-01-05", Location: loc})
		require.NoError(t, err)
		assert.Equal(t, []int64{1}, ids(got), loc.String())
	}
}

func TestTypeFilter(t *testing.T) {
	src := newMemSource()
	src.add(t, record.Feeds, 1, &record.Feed{BabyID: 1, Type: record.FeedBreastLeft, At: local("2024-01-05", 8, 0)})
	src.add(t, record.Feeds, 2, &record.Feed{BabyID: 1, Type: record.FeedBottleMilk, At: local("2024-01-05", 9, 0)})
	src.add(t, record.Feeds, 3, &record.Feed{BabyID: 1, Type: record.FeedBreastLeft, At: local("2024-01-05", 10, 0)})

	tests := []struct {
		name string
		typ  string
		want []int64
	}{
		{name: "exact", typ: record.FeedBreastLeft, want: []int64{3, 1}},
		{name: "all sentinel", typ: AllTypes, want: []int64{3, 2, 1}},
		{name: "empty", typ: "", want: []int64{3, 2, 1}},
		{name: "case sensitive", typ: "breastfeeding - left", want: []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := List[record.Feed](context.Background(), src, 1, Options{Type: tt.typ, Location: zone})
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestSortTieBreakAndLimit(t *testing.T) {
	src := newMemSource()
	at := local("2024-01-05", 10, 0)
	src.add(t, record.Diapers, 1, &record.Diaper{BabyID: 1, Type: record.DiaperWet, At: at})
	src.add(t, record.Diapers, 2, &record.Diaper{BabyID: 1, Type: record.DiaperDirty, At: at})
	src.add(t, record.Diapers, 3, &record.Diaper{BabyID: 1, Type: record.DiaperMixed, At: at.Add(-time.Hour)})
	src.add(t, record.Diapers, 4, &record.Diaper{BabyID: 1, Type: record.DiaperWet, At: at})

	first, err := List[record.Diaper](context.Background(), src, 1, Options{})
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 2, 1, 3}, ids(first))

	for i := 0; i < 5; i++ {
		again, err := List[record.Diaper](context.Background(), src, 1, Options{})
		require.NoError(t, err)
		assert.Equal(t, ids(first), ids(again))
	}

	limited, err := List[record.Diaper](context.Background(), src, 1, Options{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 2}, ids(limited))
}

func TestApplyIsNonIncreasing(t *testing.T) {
	base := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	var items []*record.Feed
	for i := int64(1); i <= 40; i++ {
		// перемешанные времена с повторами
		at := base.Add(time.Duration((i*7)%13) * time.Hour)
		items = append(items, &record.Feed{ID: i, BabyID: 1 + i%2, At: at})
	}

	got := Apply(items, 1, Options{Location: time.UTC}, EntryKeys[*record.Feed]())
	require.NotEmpty(t, got)
	for i := 1; i < len(got); i++ {
		prev, cur := got[i-1], got[i]
		assert.False(t, cur.At.After(prev.At))
		if cur.At.Equal(prev.At) {
			assert.Greater(t, prev.ID, cur.ID)
		}
		assert.Equal(t, int64(1), cur.BabyID)
	}
	// исходный срез не переупорядочен
	assert.Equal(t, int64(1), items[0].ID)
}

func TestLast(t *testing.T) {
	src := newMemSource()

	none, err := Last[record.Sleep](context.Background(), src, 1)
	require.NoError(t, err)
	assert.Nil(t, none)

	src.add(t, record.Sleeps, 1, &record.Sleep{BabyID: 1, Start: local("2024-01-05", 13, 0)})
	src.add(t, record.Sleeps, 2, &record.Sleep{BabyID: 1, Start: local("2024-01-04", 20, 0)})

	last, err := Last[record.Sleep](context.Background(), src, 1)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, int64(1), last.ID)
}

func TestServiceRequiresActiveProfile(t *testing.T) {
	src := newMemSource()
	state := session.NewState()
	svc := NewService(src, state)

	_, err := svc.Feeds(context.Background(), Options{})
	assert.True(t, errors.Is(err, session.ErrNoActiveProfile))

	_, err = svc.LastDiaper(context.Background())
	assert.True(t, errors.Is(err, session.ErrNoActiveProfile))
}

func TestServiceScopesToActiveProfile(t *testing.T) {
	src := newMemSource()
	src.add(t, record.Profiles, 1, &record.Profile{Name: "Mia", DOB: "2023-12-01", Units: record.Metric})
	src.add(t, record.Profiles, 2, &record.Profile{Name: "Leo", DOB: "2023-11-01", Units: record.Imperial})
	src.add(t, record.Temperatures, 1, &record.Temperature{BabyID: 1, Celsius: 37.2, At: local("2024-01-05", 8, 0)})
	src.add(t, record.Temperatures, 2, &record.Temperature{BabyID: 2, Celsius: 38.1, At: local("2024-01-05", 9, 0)})

	state := session.NewState()
	svc := NewService(src, state)
	require.NoError(t, state.Init(context.Background(), svc))

	got, err := svc.Temperatures(context.Background(), Options{})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids(got))

	state.SetActiveProfile(2)
	got, err = svc.Temperatures(context.Background(), Options{})
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, ids(got))

	entries, err := svc.Entries(context.Background(), record.Temperatures, Options{})
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	_, err = svc.Entries(context.Background(), "photos", Options{})
	assert.True(t, errors.Is(err, record.ErrUnknownCollection))
}

func TestListPropagatesSourceError(t *testing.T) {
	src := newMemSource()
	src.err = record.ErrStorageUnavailable

	_, err := List[record.Feed](context.Background(), src, 1, Options{})
	assert.True(t, errors.Is(err, record.ErrStorageUnavailable))
}
