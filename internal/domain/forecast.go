package domain

// ScoreHour builds the score record for one forecast hour from the buoy
// observation and the projected water temperature for that hour.
func ScoreHour(obs Observation, hour ForecastHour, waterF *float64) ScoreRecord {
	in := ScoreInputs{
		WaterTempF:     waterF,
		FeelsLikeF:     hour.FeelsLikeF,
		WindMph:        hour.WindMph,
		SolarWm2:       hour.SolarWm2,
		PrecipPct:      hour.PrecipPct,
		TurbidityNTU:   obs.TurbidityNTU,
		PhycocyaninUGL: obs.PhycocyaninUGL,
		AQI:            hour.USAQI,
	}
	a := ComputeScore(in)

	return ScoreRecord{
		ScoreTime:           hour.Time,
		ComputedAt:          clock.Now(),
		ProjectedWaterTempF: waterF,
		SubScores:           roundSubScores(a.SubScores),
		Overall:             a.Overall,
		Label:               a.Label,
		OverrideReason:      a.OverrideReason,
		Overrides:           a.Overrides,
		Inputs: InputSnapshot{
			WaterTempF:     waterF,
			FeelsLikeF:     hour.FeelsLikeF,
			WindMph:        hour.WindMph,
			SolarWm2:       hour.SolarWm2,
			PrecipPct:      hour.PrecipPct,
			TurbidityNTU:   obs.TurbidityNTU,
			PhycocyaninUGL: obs.PhycocyaninUGL,
			AQI:            hour.USAQI,
			UVIndex:        hour.UVIndex,
		},
	}
}

// ScoreForecast projects water temperature across the forecast and scores
// every hour in order. It is the sequential reference for the concurrent
// transformer in the pipeline package.
func ScoreForecast(batch ConditionsBatch) []ScoreRecord {
	projected := ProjectWaterTemps(batch.Observation.WaterTempF(), batch.Forecast)
	records := make([]ScoreRecord, len(batch.Forecast))
	for i, h := range batch.Forecast {
		records[i] = ScoreHour(batch.Observation, h, projected[i])
	}
	return records
}

func roundSubScores(s SubScores) SubScores {
	return SubScores{
		WaterTemp: round1(s.WaterTemp),
		AirTemp:   round1(s.AirTemp),
		Wind:      round1(s.Wind),
		Sun:       round1(s.Sun),
		Rain:      round1(s.Rain),
		Clarity:   round1(s.Clarity),
		Algae:     round1(s.Algae),
		AQI:       round1(s.AQI),
	}
}
