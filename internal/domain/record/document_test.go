package record

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeFeed(t *testing.T) {
	amount := 120.0
	at := time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC)
	doc, err := Encode(&Feed{BabyID: 1, Type: FeedBottleFormula, Amount: &amount, Unit: "ml", At: at})
	require.NoError(t, err)

	assert.NotContains(t, doc, KeyID)
	assert.Equal(t, json.Number("1"), doc[KeyBabyID])
	assert.Equal(t, json.Number("120"), doc["amount"])
	assert.Equal(t, "2024-03-01T08:30:00Z", doc["at"])
	assert.Equal(t, false, doc[KeySynced])
}

func TestDecodeDocument(t *testing.T) {
	doc, err := DecodeDocument([]byte(`{"id": 9007199254740993, "name": "Mia"}`))
	require.NoError(t, err)
	assert.Equal(t, int64(9007199254740993), doc.ID())

	_, err = DecodeDocument([]byte(`[1,2]`))
	assert.True(t, errors.Is(err, ErrInvalidRecord))

	_, err = DecodeDocument([]byte(`null`))
	assert.True(t, errors.Is(err, ErrInvalidRecord))
}

func TestDocumentInt64(t *testing.T) {
	doc := Document{
		"number": json.Number("42"),
		"float":  float64(7),
		"frac":   1.5,
		"int":    3,
		"text":   "12",
		"bad":    true,
	}

	tests := []struct {
		key  string
		want int64
		ok   bool
	}{
		{"number", 42, true},
		{"float", 7, true},
		{"frac", 0, false},
		{"int", 3, true},
		{"text", 12, true},
		{"bad", 0, false},
		{"missing", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := doc.Int64(tt.key)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDocumentMerge(t *testing.T) {
	end := "2024-03-01T10:00:00Z"
	doc := Document{"id": json.Number("5"), "babyId": json.Number("1"), "start": "2024-03-01T08:00:00Z", "end": end, "synced": true}

	merged := doc.Merge(map[string]any{
		"end":    nil,
		"notes":  "woke up",
		"id":     99,
		"synced": false,
	})

	assert.NotContains(t, merged, "end")
	assert.Equal(t, "woke up", merged["notes"])
	assert.Equal(t, json.Number("5"), merged["id"])
	assert.Equal(t, true, merged["synced"])
	// исходный документ не меняется
	assert.Equal(t, end, doc["end"])
	assert.NotContains(t, doc, "notes")
}

func TestDocumentWithout(t *testing.T) {
	doc := Document{"id": 1, "synced": true, "name": "Mia"}
	out := doc.Without(KeyID, KeySynced)
	assert.Equal(t, Document{"name": "Mia"}, out)
	assert.Len(t, doc, 3)
}
