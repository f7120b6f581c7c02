package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"babytracker/internal/domain/record"
)

// ParseFields разбирает пары key=value. Значение, являющееся JSON
// (число, true/false, объект), сохраняется как JSON, иначе как строка.
func ParseFields(pairs []string) (map[string]any, error) {
	fields := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("ожидается key=value, получено %q", pair)
		}
		fields[key] = parseValue(value)
	}
	return fields, nil
}

func parseValue(s string) any {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return s
	}
	if _, isString := v.(string); isString {
		return v
	}
	if v == nil {
		return s
	}
	return v
}

// FillEventTime задает время события текущим моментом, если оно не указано.
// Для коллекций с календарным днем подставляется сегодняшняя дата.
func FillEventTime(c record.Collection, fields map[string]any, now time.Time) error {
	schema, err := record.Lookup(c)
	if err != nil {
		return err
	}
	if _, ok := fields[schema.TimeField]; ok {
		return nil
	}
	if schema.DayOnly {
		fields[schema.TimeField] = now.Format(record.DateLayout)
		return nil
	}
	fields[schema.TimeField] = now.Format(time.RFC3339)
	return nil
}
