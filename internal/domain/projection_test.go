package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hoursAt(start time.Time, feelsLike, solar []float64) []ForecastHour {
	hours := make([]ForecastHour, len(feelsLike))
	for i := range feelsLike {
		hours[i] = ForecastHour{
			Time:       start.Add(time.Duration(i) * time.Hour),
			FeelsLikeF: Float(feelsLike[i]),
			SolarWm2:   Float(solar[i]),
		}
	}
	return hours
}

func TestProjectWaterTemps_WarmsTowardAir(t *testing.T) {
	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	hours := hoursAt(start, []float64{70, 70, 70}, []float64{0, 0, 0})

	projected := ProjectWaterTemps(Float(65.0), hours)

	require.Len(t, projected, 3)
	for _, p := range projected {
		require.NotNil(t, p)
	}
	assert.InDelta(t, 65.0, *projected[0], 1e-9)
	assert.InDelta(t, 65.0, *projected[1], 1e-9)
	assert.InDelta(t, 65.1, *projected[2], 1e-9)
}

func TestWaterTempProjector_StrictlyIncreasingWithoutOvershoot(t *testing.T) {
	const air = 70.0
	h := ForecastHour{FeelsLikeF: Float(air), SolarWm2: Float(0)}

	p := NewWaterTempProjector(65)
	prev := p.WaterF()
	for i := 0; i < 5000; i++ {
		p, _ = p.Step(h)
		assert.Greater(t, p.WaterF(), prev, "hour %d", i)
		assert.Less(t, p.WaterF(), air, "hour %d", i)
		prev = p.WaterF()
	}
}

func TestWaterTempProjector_CoolsTowardAir(t *testing.T) {
	const air = 55.0
	h := ForecastHour{FeelsLikeF: Float(air)}

	p := NewWaterTempProjector(72)
	prev := p.WaterF()
	for i := 0; i < 1000; i++ {
		p, _ = p.Step(h)
		assert.Less(t, p.WaterF(), prev)
		assert.Greater(t, p.WaterF(), air)
		prev = p.WaterF()
	}
}

func TestWaterTempProjector_SolarGain(t *testing.T) {
	p := NewWaterTempProjector(60)

	next, emitted := p.Step(ForecastHour{FeelsLikeF: Float(60), SolarWm2: Float(500)})

	assert.InDelta(t, 60.4, next.WaterF(), 1e-9)
	assert.InDelta(t, 60.4, emitted, 1e-9)
}

func TestWaterTempProjector_MissingInputsHoldTemperature(t *testing.T) {
	p := NewWaterTempProjector(70)

	for i := 0; i < 24; i++ {
		var v float64
		p, v = p.Step(ForecastHour{})
		assert.InDelta(t, 70.0, v, 1e-9)
	}
	assert.InDelta(t, 70.0, p.WaterF(), 1e-9)
}

func TestWaterTempProjector_StepDoesNotMutateReceiver(t *testing.T) {
	p := NewWaterTempProjector(60)
	h := ForecastHour{FeelsLikeF: Float(90), SolarWm2: Float(800)}

	a, va := p.Step(h)
	b, vb := p.Step(h)

	assert.Equal(t, 60.0, p.WaterF())
	assert.Equal(t, a, b)
	assert.Equal(t, va, vb)
}

func TestProjectWaterTemps_AbsentStartPropagates(t *testing.T) {
	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	hours := hoursAt(start, []float64{70, 75, 80, 85}, []float64{100, 200, 300, 400})

	projected := ProjectWaterTemps(nil, hours)

	require.Len(t, projected, len(hours))
	for i, p := range projected {
		assert.Nil(t, p, "hour %d", i)
	}
}

func TestProjectWaterTemps_Empty(t *testing.T) {
	assert.Empty(t, ProjectWaterTemps(Float(60), nil))
}

func TestProjectWaterTemps_Deterministic(t *testing.T) {
	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	hours := hoursAt(start, []float64{62, 68, 74, 80, 77, 70}, []float64{0, 150, 450, 700, 300, 0})

	first := ProjectWaterTemps(Float(61.2), hours)
	second := ProjectWaterTemps(Float(61.2), hours)

	assert.Equal(t, first, second)
}
