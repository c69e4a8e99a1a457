package domain

const (
	// decayRate is the fraction of the air/water gap closed per simulated
	// hour. The lake has high thermal mass, so it is small.
	decayRate = 0.006

	// solarGain is the heating bonus in °F per hour per W/m² of solar radiation.
	solarGain = 0.0008

	// airWeight is the share of air temperature in the hourly equilibrium;
	// the rest is the current water temperature.
	airWeight = 0.7
)

// WaterTempProjector advances a surface water temperature one forecast hour
// at a time. It is a value: Step returns the advanced projector rather than
// mutating the receiver, so a run's state cannot leak between batches.
type WaterTempProjector struct {
	waterF float64
}

// NewWaterTempProjector starts a projection at the given water temperature in °F.
func NewWaterTempProjector(startF float64) WaterTempProjector {
	return WaterTempProjector{waterF: startF}
}

// WaterF returns the unrounded running water temperature.
func (p WaterTempProjector) WaterF() float64 {
	return p.waterF
}

// Step advances the projection by one hour and returns the new projector with
// the emitted temperature rounded to one decimal. A missing feels-like
// temperature holds air at the current water temperature; missing solar
// radiation counts as zero.
func (p WaterTempProjector) Step(h ForecastHour) (WaterTempProjector, float64) {
	water := p.waterF

	air := water
	if h.FeelsLikeF != nil {
		air = *h.FeelsLikeF
	}
	solar := 0.0
	if h.SolarWm2 != nil {
		solar = *h.SolarWm2
	}

	equilibrium := airWeight*air + (1-airWeight)*water
	water += (equilibrium - water) * decayRate
	water += solar * solarGain

	return WaterTempProjector{waterF: water}, round1(water)
}

// ProjectWaterTemps projects one water temperature per forecast hour, in input
// order. If startF is nil every projection is nil.
func ProjectWaterTemps(startF *float64, hours []ForecastHour) []*float64 {
	projected := make([]*float64, len(hours))
	if startF == nil {
		return projected
	}

	p := NewWaterTempProjector(*startF)
	for i, h := range hours {
		var v float64
		p, v = p.Step(h)
		projected[i] = Float(v)
	}
	return projected
}
