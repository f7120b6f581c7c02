package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"babytracker/internal/domain/record"
	"babytracker/internal/domain/session"
)

func ptr(v float64) *float64 { return &v }

func TestSummary(t *testing.T) {
	src := newMemSource()
	src.add(t, record.Profiles, 1, &record.Profile{Name: "Mia", DOB: "2023-12-01", Units: record.Metric})

	src.add(t, record.Feeds, 1, &record.Feed{BabyID: 1, Type: record.FeedBottleFormula, Amount: ptr(120), Unit: "ml", At: local("2024-01-05", 7, 0)})
	src.add(t, record.Feeds, 2, &record.Feed{BabyID: 1, Type: record.FeedBottleMilk, Amount: ptr(4), Unit: "oz", At: local("2024-01-05", 11, 0)})
	src.add(t, record.Feeds, 3, &record.Feed{BabyID: 1, Type: record.FeedPuree, Amount: ptr(50), Unit: "g", At: local("2024-01-05", 13, 0)})
	src.add(t, record.Feeds, 4, &record.Feed{BabyID: 1, Type: record.FeedBottleMilk, Amount: ptr(90), Unit: "ml", At: local("2024-01-04", 23, 0)})

	src.add(t, record.Diapers, 1, &record.Diaper{BabyID: 1, Type: record.DiaperWet, At: local("2024-01-05", 8, 0)})
	src.add(t, record.Diapers, 2, &record.Diaper{BabyID: 1, Type: record.DiaperWet, At: local("2024-01-05", 10, 0)})
	src.add(t, record.Diapers, 3, &record.Diaper{BabyID: 1, Type: record.DiaperDirty, At: local("2024-01-05", 12, 0)})

	end := local("2024-01-05", 11, 30)
	src.add(t, record.Sleeps, 1, &record.Sleep{BabyID: 1, Start: local("2024-01-05", 10, 0), End: &end})
	src.add(t, record.Sleeps, 2, &record.Sleep{BabyID: 1, Start: local("2024-01-05", 14, 0)})

	src.add(t, record.Temperatures, 1, &record.Temperature{BabyID: 1, Celsius: 37.1, At: local("2024-01-05", 6, 0)})
	src.add(t, record.Temperatures, 2, &record.Temperature{BabyID: 1, Celsius: 38.2, At: local("2024-01-05", 15, 0)})

	state := session.NewState()
	svc := NewService(src, state)
	require.NoError(t, state.Init(context.Background(), svc))

	now := local("2024-01-05", 15, 0)
	sum, err := svc.Summary(context.Background(), "2024-01-05", zone, now)
	require.NoError(t, err)

	assert.Equal(t, 3, sum.Feeds)
	// 120 ml + 4 oz; граммы не входят в объем
	assert.InDelta(t, 238.3, sum.FeedVolumeML, 0.05)
	assert.Equal(t, map[record.DiaperType]int{record.DiaperWet: 2, record.DiaperDirty: 1}, sum.Diapers)
	assert.Equal(t, 90*time.Minute+time.Hour, sum.SleepTotal)
	assert.True(t, sum.Sleeping)
	require.NotNil(t, sum.Temperature)
	assert.Equal(t, 38.2, sum.Temperature.Celsius)
	require.NotNil(t, sum.LastFeed)
	assert.Equal(t, int64(3), sum.LastFeed.ID)
	require.NotNil(t, sum.LastDiaper)
	assert.Equal(t, int64(3), sum.LastDiaper.ID)
}

func TestSummaryEmptyDay(t *testing.T) {
	src := newMemSource()
	src.add(t, record.Profiles, 1, &record.Profile{Name: "Mia", DOB: "2023-12-01", Units: record.Metric})
	state := session.NewState()
	svc := NewService(src, state)
	require.NoError(t, state.Init(context.Background(), svc))

	sum, err := svc.Summary(context.Background(), "2024-01-05", zone, time.Now())
	require.NoError(t, err)
	assert.Zero(t, sum.Feeds)
	assert.Empty(t, sum.Diapers)
	assert.Nil(t, sum.Temperature)
	assert.Nil(t, sum.LastFeed)
	assert.False(t, sum.Sleeping)
}
