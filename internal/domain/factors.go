package domain

// Factor names, used as sub-score keys and metric labels.
const (
	FactorWaterTemp = "water_temp"
	FactorAirTemp   = "air_temp"
	FactorWind      = "wind"
	FactorSun       = "sun"
	FactorRain      = "rain"
	FactorClarity   = "clarity"
	FactorAlgae     = "algae"
	FactorAQI       = "aqi"
)

// Fallback scores used when a reading is absent. They are neutral or
// optimistic so a sensor gap alone never reads as unsafe.
const (
	fallbackWaterTemp = 50
	fallbackAirTemp   = 50
	fallbackWind      = 50
	fallbackSun       = 50
	fallbackRain      = 50
	fallbackClarity   = 75
	fallbackAlgae     = 80
	fallbackAQI       = 80
)

var (
	// waterTempCurve is calibrated for a cold-sensitive swimmer, in °F.
	waterTempCurve = Curve{{45, 0}, {55, 30}, {60, 50}, {65, 65}, {68, 75}, {72, 85}, {75, 93}, {78, 100}}

	// airTempCurve scores feels-like temperature in °F.
	airTempCurve = Curve{{50, 0}, {60, 30}, {68, 60}, {75, 80}, {80, 93}, {85, 100}}

	// windCurve scores wind speed in mph; calm is best.
	windCurve = Curve{{0, 100}, {3, 100}, {5, 90}, {10, 65}, {15, 35}, {20, 10}, {25, 0}}

	// sunCurve scores solar radiation in W/m², saturating at 700.
	sunCurve = Curve{{0, 0}, {50, 10}, {100, 30}, {300, 60}, {500, 85}, {700, 100}}

	// clarityCurve scores turbidity in NTU; lower is clearer.
	clarityCurve = Curve{{0, 100}, {1, 100}, {2, 85}, {5, 50}, {10, 20}, {15, 0}}

	// algaeCurve scores phycocyanin (blue-green algae proxy) in µg/L.
	algaeCurve = Curve{{0, 100}, {1, 100}, {3, 80}, {10, 40}, {20, 10}, {30, 0}}

	// aqiCurve scores the US AQI; lower is better.
	aqiCurve = Curve{{0, 100}, {50, 100}, {75, 80}, {100, 60}, {150, 30}, {200, 0}}
)

// ScoreWaterTemp scores a water temperature in °F.
func ScoreWaterTemp(f *float64) float64 { return scoreCurve(f, waterTempCurve, fallbackWaterTemp) }

// ScoreAirTemp scores a feels-like air temperature in °F.
func ScoreAirTemp(f *float64) float64 { return scoreCurve(f, airTempCurve, fallbackAirTemp) }

// ScoreWind scores a wind speed in mph.
func ScoreWind(mph *float64) float64 { return scoreCurve(mph, windCurve, fallbackWind) }

// ScoreSun scores solar radiation in W/m².
func ScoreSun(wm2 *float64) float64 { return scoreCurve(wm2, sunCurve, fallbackSun) }

// ScoreClarity scores water turbidity in NTU.
func ScoreClarity(ntu *float64) float64 { return scoreCurve(ntu, clarityCurve, fallbackClarity) }

// ScoreAlgae scores a phycocyanin concentration in µg/L.
func ScoreAlgae(ugl *float64) float64 { return scoreCurve(ugl, algaeCurve, fallbackAlgae) }

// ScoreAQI scores a US AQI value.
func ScoreAQI(aqi *float64) float64 { return scoreCurve(aqi, aqiCurve, fallbackAQI) }

// ScoreRain scores a precipitation probability (0-100%) as its complement.
func ScoreRain(pct *float64) float64 {
	if pct == nil {
		return fallbackRain
	}
	return clamp(100-*pct, 0, 100)
}

func scoreCurve(v *float64, c Curve, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return c.Eval(*v)
}
