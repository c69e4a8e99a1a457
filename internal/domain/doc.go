// Package domain scores lake swimming comfort from buoy and forecast data.
//
// # Data Sources
//
// Water quality comes from the lake buoy's surface sensors (readings shallower
// than 1.5 m): temperature in °C, turbidity in NTU, and phycocyanin and
// chlorophyll in µg/L. Hourly weather and air quality come from a forecast
// provider: feels-like and air temperature in °F, wind in mph, solar radiation
// in W/m², precipitation probability in percent, US AQI, and UV index. The
// upstream collector publishes both as one ConditionsBatch per fetch.
//
// Every reading may be missing. Missing readings are nil pointers, never
// zero or NaN.
//
// # Scoring
//
// Each hour gets eight 0-100 sub-scores, one per factor:
//
//	water_temp  30%   projected water temperature (°F)
//	air_temp    20%   feels-like temperature (°F)
//	wind        15%   wind speed (mph)
//	sun         10%   solar radiation (W/m²)
//	rain        10%   100 - precipitation probability
//	clarity      5%   turbidity (NTU)
//	algae      2.5%   phycocyanin (µg/L)
//	aqi        2.5%   US AQI
//
// Table-driven factors use a piecewise-linear [Curve] clamped at its end
// anchors. The remaining 5% is a flat baseline bonus, so a perfect hour scores
// exactly 100. The composite is clamped to [0,100] and rounded to one decimal.
//
// Hazard overrides then cap the composite, in order:
//
//	phycocyanin > 20 µg/L   cap 30   algae bloom
//	AQI > 150               cap 20   very unhealthy air (replaces earlier reasons)
//	100 < AQI <= 150        cap 40   unhealthy for sensitive groups
//
// Labels: >=80 Excellent, >=60 Good, >=40 Fair, >=20 Poor, otherwise Unsafe.
//
// # Water Temperature Projection
//
// The buoy reports the current water temperature only. [WaterTempProjector]
// carries it forward one forecast hour at a time: the water closes 0.6% of the
// gap to an equilibrium of 0.7*air + 0.3*water each hour and gains 0.0008 °F
// per W/m² of solar radiation. The fold is strictly sequential. Without a
// starting temperature every hour's projection is nil and the water factor
// falls back to its neutral score.
package domain
