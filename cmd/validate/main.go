// Command validate checks a scored comfort fixture against the scoring
// invariants: value ranges, label bands, hazard caps, chronological order,
// and, when the source batch is given, parity with a fresh scoring run.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -scores data/mock/comfort_scores.json \
//	  -conditions data/mock/conditions_batch.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/couchcryptid/swim-comfort-etl/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	scoresPath := flag.String("scores", "", "path to scored JSON fixture")
	conditionsPath := flag.String("conditions", "", "optional path to the conditions batch the scores came from")
	flag.Parse()

	if *scoresPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*scoresPath, *conditionsPath); code != 0 {
		os.Exit(code)
	}
}

func run(scoresPath, conditionsPath string) int {
	fmt.Println("=== Comfort Score Validation ===")
	fmt.Println()

	scores, err := loadScores(scoresPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load scores: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateRanges(scores),
		validateLabels(scores),
		validateOverrides(scores),
		validateChronology(scores),
	}

	if conditionsPath != "" {
		batch, err := loadConditions(conditionsPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: load conditions: %v\n", err)
			return 1
		}
		phases = append(phases, validateParity(scores, batch))
	}

	// ── Report results ──
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d scores\n", len(scores))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Data loading ──

func loadScores(path string) ([]domain.ScoreRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var scores []domain.ScoreRecord
	if err := json.Unmarshal(data, &scores); err != nil {
		return nil, err
	}
	return scores, nil
}

func loadConditions(path string) (domain.ConditionsBatch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.ConditionsBatch{}, err
	}
	return domain.ParseRawEvent(domain.RawEvent{Value: data})
}

// ── Phase 1: Ranges ──

func validateRanges(scores []domain.ScoreRecord) *phase {
	p := &phase{name: "Phase 1: Ranges (0-100, one decimal)"}
	for i := range scores {
		s := &scores[i]
		checkScore(p, i, "overall_score", s.Overall)
		for name, v := range subScoreMap(s.SubScores) {
			checkScore(p, i, name, v)
		}
	}
	return p
}

func checkScore(p *phase, i int, name string, v float64) {
	if v < 0 || v > 100 || math.IsNaN(v) {
		p.errorf("record %d: %s=%g outside [0,100]", i, name, v)
		return
	}
	if !oneDecimal(v) {
		p.errorf("record %d: %s=%g has more than one decimal", i, name, v)
	}
}

// ── Phase 2: Labels ──

func validateLabels(scores []domain.ScoreRecord) *phase {
	p := &phase{name: "Phase 2: Label bands"}
	for i := range scores {
		want := domain.LabelForScore(scores[i].Overall)
		if scores[i].Label != want {
			p.errorf("record %d: score %g labelled %q, expected %q", i, scores[i].Overall, scores[i].Label, want)
		}
	}
	return p
}

// ── Phase 3: Overrides ──

func validateOverrides(scores []domain.ScoreRecord) *phase {
	p := &phase{name: "Phase 3: Hazard caps"}
	for i := range scores {
		checkOverrideRecord(p, i, &scores[i])
	}
	return p
}

func checkOverrideRecord(p *phase, i int, s *domain.ScoreRecord) {
	in := s.Inputs
	if in.PhycocyaninUGL != nil && *in.PhycocyaninUGL > 20 && s.Overall > 30 {
		p.errorf("record %d: phycocyanin %g but score %g > 30", i, *in.PhycocyaninUGL, s.Overall)
	}
	if in.AQI != nil {
		aqi := *in.AQI
		if aqi > 150 && s.Overall > 20 {
			p.errorf("record %d: AQI %g but score %g > 20", i, aqi, s.Overall)
		}
		if aqi > 100 && aqi <= 150 && s.Overall > 40 {
			p.errorf("record %d: AQI %g but score %g > 40", i, aqi, s.Overall)
		}
	}
	if (s.OverrideReason == nil) != (len(s.Overrides) == 0) {
		p.errorf("record %d: override_reason and overrides disagree", i)
	}
}

// ── Phase 4: Chronology ──

func validateChronology(scores []domain.ScoreRecord) *phase {
	p := &phase{name: "Phase 4: Chronological order"}
	for i := range scores {
		if scores[i].ScoreTime.IsZero() {
			p.errorf("record %d: score_time is zero", i)
			continue
		}
		if i > 0 && !scores[i].ScoreTime.After(scores[i-1].ScoreTime) {
			p.errorf("record %d: score_time %s not after %s", i,
				scores[i].ScoreTime.Format(time.RFC3339), scores[i-1].ScoreTime.Format(time.RFC3339))
		}
	}
	return p
}

// ── Phase 5: Parity ──

func validateParity(scores []domain.ScoreRecord, batch domain.ConditionsBatch) *phase {
	p := &phase{name: "Phase 5: Re-scoring parity"}

	fresh := domain.ScoreForecast(batch)
	if len(fresh) != len(scores) {
		p.errorf("count: conditions yield %d scores, fixture has %d", len(fresh), len(scores))
		return p
	}
	for i := range fresh {
		compareRecords(p, i, &fresh[i], &scores[i])
	}
	return p
}

func compareRecords(p *phase, i int, want, got *domain.ScoreRecord) {
	if !want.ScoreTime.Equal(got.ScoreTime) {
		p.errorf("record %d: score_time expected %s, got %s", i,
			want.ScoreTime.Format(time.RFC3339), got.ScoreTime.Format(time.RFC3339))
	}
	if !floatEq(want.Overall, got.Overall) {
		p.errorf("record %d: overall expected %g, got %g", i, want.Overall, got.Overall)
	}
	if want.Label != got.Label {
		p.errorf("record %d: label expected %q, got %q", i, want.Label, got.Label)
	}
	if !ptrFloatEq(want.ProjectedWaterTempF, got.ProjectedWaterTempF) {
		p.errorf("record %d: projected water expected %s, got %s", i,
			ptrFloat(want.ProjectedWaterTempF), ptrFloat(got.ProjectedWaterTempF))
	}
	wantSubs, gotSubs := subScoreMap(want.SubScores), subScoreMap(got.SubScores)
	for name, v := range wantSubs {
		if !floatEq(v, gotSubs[name]) {
			p.errorf("record %d: %s expected %g, got %g", i, name, v, gotSubs[name])
		}
	}
	if !ptrStrEq(want.OverrideReason, got.OverrideReason) {
		p.errorf("record %d: override_reason expected %s, got %s", i, ptrStr(want.OverrideReason), ptrStr(got.OverrideReason))
	}
}

// ── Helpers ──

func subScoreMap(s domain.SubScores) map[string]float64 {
	return map[string]float64{
		domain.FactorWaterTemp: s.WaterTemp,
		domain.FactorAirTemp:   s.AirTemp,
		domain.FactorWind:      s.Wind,
		domain.FactorSun:       s.Sun,
		domain.FactorRain:      s.Rain,
		domain.FactorClarity:   s.Clarity,
		domain.FactorAlgae:     s.Algae,
		domain.FactorAQI:       s.AQI,
	}
}

func oneDecimal(v float64) bool {
	return floatEq(v, math.Round(v*10)/10)
}

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func ptrStrEq(a, b *string) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

func ptrFloatEq(a, b *float64) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return floatEq(*a, *b)
}

func ptrStr(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}

func ptrFloat(f *float64) string {
	if f == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%g", *f)
}
