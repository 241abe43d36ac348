package docstore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Record est le contenu brut d'un document
type Record map[string]interface{}

func decodeRecord(raw string) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()

	var r Record
	if err := dec.Decode(&r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if r == nil {
		r = Record{}
	}
	return r, nil
}

func encodeRecord(r Record) (string, error) {
	if r == nil {
		r = Record{}
	}
	b, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return string(b), nil
}

// String renvoie un champ texte; ok=false s'il est absent, nul ou d'un autre type
func (r Record) String(key string) (string, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Has indique si le champ est présent et non nul
func (r Record) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}

// Int64 renvoie un champ entier; ok=false s'il est absent, nul, non entier ou d'un autre type
func (r Record) Int64(key string) (int64, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInt(f)
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return floatToInt(n)
	default:
		return 0, false
	}
}

func floatToInt(f float64) (int64, bool) {
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	// Hors de [-2^63, 2^63) la conversion changerait de signe
	if f < -(1<<63) || f >= 1<<63 {
		return 0, false
	}
	return int64(f), true
}
