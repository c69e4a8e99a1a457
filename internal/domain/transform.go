package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrMissingHourTime is returned when a forecast hour has no timestamp.
	ErrMissingHourTime = errors.New("forecast hour missing time")

	// ErrUnorderedForecast is returned when forecast hours are not strictly chronological.
	ErrUnorderedForecast = errors.New("forecast hours not in chronological order")
)

// ParseRawEvent deserializes a RawEvent's value into a ConditionsBatch and
// checks that the forecast hours are timestamped and strictly chronological,
// which the water-temperature projection depends on.
func ParseRawEvent(raw RawEvent) (ConditionsBatch, error) {
	var batch ConditionsBatch
	if err := json.Unmarshal(raw.Value, &batch); err != nil {
		return ConditionsBatch{}, fmt.Errorf("parse conditions batch: %w", err)
	}
	if err := validateForecast(batch.Forecast); err != nil {
		return ConditionsBatch{}, fmt.Errorf("parse conditions batch: %w", err)
	}
	return batch, nil
}

func validateForecast(hours []ForecastHour) error {
	var prev time.Time
	for i, h := range hours {
		if h.Time.IsZero() {
			return fmt.Errorf("hour %d: %w", i, ErrMissingHourTime)
		}
		if i > 0 && !h.Time.After(prev) {
			return fmt.Errorf("hour %d at %s: %w", i, h.Time.Format(time.RFC3339), ErrUnorderedForecast)
		}
		prev = h.Time
	}
	return nil
}

// ScoreKey is the message key and upsert key for a score record: the score
// time in UTC, RFC 3339.
func ScoreKey(r ScoreRecord) string {
	return r.ScoreTime.UTC().Format(time.RFC3339)
}

// EncodeSnapshot marshals the input snapshot for storage as JSON.
func EncodeSnapshot(s InputSnapshot) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode input snapshot: %w", err)
	}
	return data, nil
}
