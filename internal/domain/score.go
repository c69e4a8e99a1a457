package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Labels, from best to worst.
const (
	LabelExcellent = "Excellent"
	LabelGood      = "Good"
	LabelFair      = "Fair"
	LabelPoor      = "Poor"
	LabelUnsafe    = "Unsafe"
)

// Override rule names.
const (
	OverrideAlgaeBloom       = "algae_bloom"
	OverrideAQIVeryUnhealthy = "aqi_very_unhealthy"
	OverrideAQISensitive     = "aqi_sensitive"
)

// baselineBonus is the weight left over after the factor weights (0.95),
// granted in full so a perfect hour reaches exactly 100.
const baselineBonus = 0.05

// reasonSeparator joins the messages of several overrides.
const reasonSeparator = "; "

// ScoreInputs are the raw readings for one hour. Water temperature is the
// projected value, not the buoy reading.
type ScoreInputs struct {
	WaterTempF     *float64
	FeelsLikeF     *float64
	WindMph        *float64
	SolarWm2       *float64
	PrecipPct      *float64
	TurbidityNTU   *float64
	PhycocyaninUGL *float64
	AQI            *float64
}

// Assessment is the result of scoring one hour.
type Assessment struct {
	Overall        float64
	Label          string
	SubScores      SubScores
	OverrideReason *string
	Overrides      []string
}

type factor struct {
	name   string
	weight float64
	score  func(ScoreInputs) float64
}

// factors lists every weighted factor. Weights sum to 0.95.
var factors = []factor{
	{FactorWaterTemp, 0.30, func(in ScoreInputs) float64 { return ScoreWaterTemp(in.WaterTempF) }},
	{FactorAirTemp, 0.20, func(in ScoreInputs) float64 { return ScoreAirTemp(in.FeelsLikeF) }},
	{FactorWind, 0.15, func(in ScoreInputs) float64 { return ScoreWind(in.WindMph) }},
	{FactorSun, 0.10, func(in ScoreInputs) float64 { return ScoreSun(in.SolarWm2) }},
	{FactorRain, 0.10, func(in ScoreInputs) float64 { return ScoreRain(in.PrecipPct) }},
	{FactorClarity, 0.05, func(in ScoreInputs) float64 { return ScoreClarity(in.TurbidityNTU) }},
	{FactorAlgae, 0.025, func(in ScoreInputs) float64 { return ScoreAlgae(in.PhycocyaninUGL) }},
	{FactorAQI, 0.025, func(in ScoreInputs) float64 { return ScoreAQI(in.AQI) }},
}

// overrideRule caps the score when a hazard is present. A rule that
// supersedes discards the messages of rules applied before it.
type overrideRule struct {
	name       string
	cap        float64
	supersedes bool
	applies    func(ScoreInputs) bool
	message    func(ScoreInputs) string
}

// overrideRules are applied in order. The two AQI rules are mutually exclusive.
var overrideRules = []overrideRule{
	{
		name:    OverrideAlgaeBloom,
		cap:     30,
		applies: func(in ScoreInputs) bool { return in.PhycocyaninUGL != nil && *in.PhycocyaninUGL > 20 },
		message: func(in ScoreInputs) string {
			return fmt.Sprintf("Algae bloom warning (phycocyanin %s ug/L)", formatReading(*in.PhycocyaninUGL))
		},
	},
	{
		name:       OverrideAQIVeryUnhealthy,
		cap:        20,
		supersedes: true,
		applies:    func(in ScoreInputs) bool { return in.AQI != nil && *in.AQI > 150 },
		message: func(in ScoreInputs) string {
			return fmt.Sprintf("Very unhealthy air quality (AQI %s)", formatReading(*in.AQI))
		},
	},
	{
		name:    OverrideAQISensitive,
		cap:     40,
		applies: func(in ScoreInputs) bool { return in.AQI != nil && *in.AQI > 100 && *in.AQI <= 150 },
		message: func(in ScoreInputs) string {
			return fmt.Sprintf("Unhealthy air quality for sensitive groups (AQI %s)", formatReading(*in.AQI))
		},
	},
}

// ComputeScore computes the weighted comfort score for one hour, applies the
// hazard overrides, and labels the result. It is total over absent inputs.
//
// Override reasons print readings in shortest form ("AQI 160", not
// "AQI 160.0") and join messages with "; ". Rows written by the earlier Python
// job used "160.0" and no separator, so override_reason text is not comparable
// across the two.
func ComputeScore(in ScoreInputs) Assessment {
	scores := make(map[string]float64, len(factors))
	weighted := 0.0
	for _, f := range factors {
		s := f.score(in)
		scores[f.name] = s
		weighted += s * f.weight
	}

	overall := round1(clamp(weighted+100*baselineBonus, 0, 100))
	overall, reason, fired := applyOverrides(overall, in)

	return Assessment{
		Overall: overall,
		Label:   LabelForScore(overall),
		SubScores: SubScores{
			WaterTemp: scores[FactorWaterTemp],
			AirTemp:   scores[FactorAirTemp],
			Wind:      scores[FactorWind],
			Sun:       scores[FactorSun],
			Rain:      scores[FactorRain],
			Clarity:   scores[FactorClarity],
			Algae:     scores[FactorAlgae],
			AQI:       scores[FactorAQI],
		},
		OverrideReason: reason,
		Overrides:      fired,
	}
}

// applyOverrides lowers score by every applicable rule and returns the joined
// reason (nil when none applied) and the names of the rules that fired.
func applyOverrides(score float64, in ScoreInputs) (float64, *string, []string) {
	var messages, fired []string
	for _, r := range overrideRules {
		if !r.applies(in) {
			continue
		}
		score = min(score, r.cap)
		if r.supersedes {
			messages = messages[:0]
		}
		messages = append(messages, r.message(in))
		fired = append(fired, r.name)
	}

	if len(messages) == 0 {
		return score, nil, nil
	}
	reason := strings.Join(messages, reasonSeparator)
	return score, &reason, fired
}

// LabelForScore maps a composite score to its qualitative label.
func LabelForScore(score float64) string {
	switch {
	case score >= 80:
		return LabelExcellent
	case score >= 60:
		return LabelGood
	case score >= 40:
		return LabelFair
	case score >= 20:
		return LabelPoor
	default:
		return LabelUnsafe
	}
}

func formatReading(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
