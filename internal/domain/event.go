package domain

import (
	"context"
	"time"
)

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// Observation is a single surface water-quality reading from the lake buoy.
// Absent readings are nil.
type Observation struct {
	Time           time.Time `json:"time,omitzero"`
	DepthM         *float64  `json:"depth_m,omitempty"`
	WaterTempC     *float64  `json:"water_temp_c,omitempty"`
	TurbidityNTU   *float64  `json:"turbidity_ntu,omitempty"`
	PhycocyaninUGL *float64  `json:"phycocyanin_ugl,omitempty"`
	ChlorophyllUGL *float64  `json:"chlorophyll_ugl,omitempty"` // carried, not scored
}

// WaterTempF returns the water temperature in Fahrenheit rounded to one decimal.
func (o Observation) WaterTempF() *float64 {
	if o.WaterTempC == nil {
		return nil
	}
	return Float(CelsiusToFahrenheit(*o.WaterTempC))
}

// ForecastHour is one hourly weather and air-quality prediction.
type ForecastHour struct {
	Time       time.Time `json:"time"`
	FeelsLikeF *float64  `json:"feels_like_f,omitempty"`
	AirTempF   *float64  `json:"air_temp_f,omitempty"` // carried, not scored
	WindMph    *float64  `json:"wind_mph,omitempty"`
	SolarWm2   *float64  `json:"solar_w,omitempty"`
	PrecipPct  *float64  `json:"precip_pct,omitempty"`
	USAQI      *float64  `json:"us_aqi,omitempty"`
	UVIndex    *float64  `json:"uv_index,omitempty"` // carried, not scored
}

// ConditionsBatch is the payload published to the source topic: the latest
// buoy observation plus an ordered, chronological run of forecast hours.
type ConditionsBatch struct {
	Observation Observation    `json:"observation"`
	Forecast    []ForecastHour `json:"forecast"`
}

// SubScores holds the per-factor 0-100 scores.
type SubScores struct {
	WaterTemp float64 `json:"water_temp"`
	AirTemp   float64 `json:"air_temp"`
	Wind      float64 `json:"wind"`
	Sun       float64 `json:"sun"`
	Rain      float64 `json:"rain"`
	Clarity   float64 `json:"clarity"`
	Algae     float64 `json:"algae"`
	AQI       float64 `json:"aqi"`
}

// InputSnapshot records every raw input used to score one hour.
type InputSnapshot struct {
	WaterTempF     *float64 `json:"water_temp_f"`
	FeelsLikeF     *float64 `json:"feels_like_f"`
	WindMph        *float64 `json:"wind_mph"`
	SolarWm2       *float64 `json:"solar_w"`
	PrecipPct      *float64 `json:"precip_pct"`
	TurbidityNTU   *float64 `json:"turbidity_ntu"`
	PhycocyaninUGL *float64 `json:"phycocyanin_ugl"`
	AQI            *float64 `json:"aqi"`
	UVIndex        *float64 `json:"uv_index"`
}

// ScoreRecord is the scored output for one forecast hour.
type ScoreRecord struct {
	ScoreTime           time.Time     `json:"score_time"`
	ComputedAt          time.Time     `json:"computed_at"`
	RunID               string        `json:"run_id,omitempty"`
	ProjectedWaterTempF *float64      `json:"projected_water_temp_f"`
	SubScores           SubScores     `json:"sub_scores"`
	Overall             float64       `json:"overall_score"`
	Label               string        `json:"label"`
	OverrideReason      *string       `json:"override_reason"`
	Overrides           []string      `json:"overrides,omitempty"`
	Inputs              InputSnapshot `json:"input_snapshot"`
}

// Float returns a pointer to v, for building optional readings.
func Float(v float64) *float64 {
	return &v
}
