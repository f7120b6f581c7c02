package record

import (
	"time"
)

// localLayouts - значения datetime-local без зоны.
var localLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
}

// TimeFields возвращает поля коллекции, хранящие момент времени.
// Для коллекций с календарным днем список пуст.
func TimeFields(c Collection) []string {
	schema, err := Lookup(c)
	if err != nil || schema.DayOnly {
		return nil
	}
	if schema.EndField != "" {
		return []string{schema.TimeField, schema.EndField}
	}
	return []string{schema.TimeField}
}

// NormalizeTimes переписывает время без зоны в RFC3339, читая его в зоне loc.
// Остальные значения остаются как есть и проверяются при декодировании.
// Исходный документ не меняется.
func NormalizeTimes(c Collection, doc Document, loc *time.Location) Document {
	if loc == nil {
		loc = time.Local
	}

	out, cloned := doc, false
	for _, field := range TimeFields(c) {
		s, ok := doc[field].(string)
		if !ok {
			continue
		}
		t, ok := parseLocal(s, loc)
		if !ok {
			continue
		}
		if !cloned {
			out, cloned = doc.Clone(), true
		}
		out[field] = t.Format(time.RFC3339)
	}
	return out
}

func parseLocal(s string, loc *time.Location) (time.Time, bool) {
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
