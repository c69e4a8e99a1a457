package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreWaterTemp(t *testing.T) {
	tests := []struct {
		name     string
		input    *float64
		expected float64
	}{
		{"first anchor", Float(45), 0},
		{"below range", Float(32), 0},
		{"anchor 68", Float(68), 75},
		{"between 60 and 65", Float(62.5), 57.5},
		{"last anchor", Float(78), 100},
		{"past last anchor", Float(80), 100},
		{"absent", nil, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, ScoreWaterTemp(tt.input), 1e-9)
		})
	}
}

func TestScoreRain(t *testing.T) {
	tests := []struct {
		name     string
		input    *float64
		expected float64
	}{
		{"30 percent", Float(30), 70},
		{"dry", Float(0), 100},
		{"certain", Float(100), 0},
		{"above 100 clamps", Float(110), 0},
		{"negative clamps", Float(-5), 100},
		{"absent", nil, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ScoreRain(tt.input))
		})
	}
}

func TestScorers_Fallbacks(t *testing.T) {
	tests := []struct {
		name     string
		score    func(*float64) float64
		expected float64
	}{
		{FactorWaterTemp, ScoreWaterTemp, 50},
		{FactorAirTemp, ScoreAirTemp, 50},
		{FactorWind, ScoreWind, 50},
		{FactorSun, ScoreSun, 50},
		{FactorRain, ScoreRain, 50},
		{FactorClarity, ScoreClarity, 75},
		{FactorAlgae, ScoreAlgae, 80},
		{FactorAQI, ScoreAQI, 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.score(nil))
		})
	}
}

func TestScorers_CalibrationPoints(t *testing.T) {
	tests := []struct {
		name     string
		score    func(*float64) float64
		input    float64
		expected float64
	}{
		{"air comfortable band low", ScoreAirTemp, 68, 60},
		{"air comfortable band high", ScoreAirTemp, 85, 100},
		{"air cold", ScoreAirTemp, 55, 15},
		{"wind calm", ScoreWind, 2, 100},
		{"wind 10 mph", ScoreWind, 10, 65},
		{"wind 12.5 mph", ScoreWind, 12.5, 50},
		{"wind gale", ScoreWind, 40, 0},
		{"sun night", ScoreSun, 0, 0},
		{"sun 400", ScoreSun, 400, 72.5},
		{"sun saturates", ScoreSun, 900, 100},
		{"clarity clear", ScoreClarity, 0.5, 100},
		{"clarity 2 NTU", ScoreClarity, 2, 85},
		{"clarity murky", ScoreClarity, 20, 0},
		{"algae low", ScoreAlgae, 2, 90},
		{"algae bloom", ScoreAlgae, 25, 5},
		{"aqi good", ScoreAQI, 40, 100},
		{"aqi 125", ScoreAQI, 125, 45},
		{"aqi hazardous", ScoreAQI, 300, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, tt.score(Float(tt.input)), 1e-9)
		})
	}
}
