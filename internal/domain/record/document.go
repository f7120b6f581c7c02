package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Служебные ключи документа. Хранилище управляет ими само и не хранит в data.
const (
	KeyID     = "id"
	KeySynced = "synced"
	KeyBabyID = "babyId"
)

// Document - запись коллекции в том виде, в котором она хранится
// и отправляется на сервер: набор полей без фиксированной схемы.
type Document map[string]any

// Encode превращает типизированную запись в документ.
func Encode(v any) (Document, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record: %w", err)
	}
	return DecodeDocument(raw)
}

// DecodeDocument разбирает JSON объект. Числа сохраняются как json.Number,
// чтобы идентификаторы не теряли точность.
func DecodeDocument(raw []byte) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRecord, err.Error())
	}
	if doc == nil {
		return nil, invalid("document must be a JSON object")
	}
	return doc, nil
}

// Into декодирует документ в типизированную запись.
func (d Document) Into(v any) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRecord, err.Error())
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRecord, err.Error())
	}
	return nil
}

// ID возвращает идентификатор записи или 0, если он не задан.
func (d Document) ID() int64 {
	id, _ := d.Int64(KeyID)
	return id
}

// Synced возвращает флаг синхронизации.
func (d Document) Synced() bool {
	v, _ := d[KeySynced].(bool)
	return v
}

// Int64 читает целочисленное поле независимо от того, как оно было получено.
func (d Document) Int64(key string) (int64, bool) {
	switch v := d[key].(type) {
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		if v != float64(int64(v)) {
			return 0, false
		}
		return int64(v), true
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// Clone возвращает поверхностную копию документа.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Merge накладывает fields на копию документа. Значение nil удаляет поле,
// служебные ключи id и synced игнорируются.
func (d Document) Merge(fields map[string]any) Document {
	out := d.Clone()
	for k, v := range fields {
		if k == KeyID || k == KeySynced {
			continue
		}
		if v == nil {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}

// Without возвращает копию документа без указанных ключей.
func (d Document) Without(keys ...string) Document {
	out := d.Clone()
	for _, k := range keys {
		delete(out, k)
	}
	return out
}
