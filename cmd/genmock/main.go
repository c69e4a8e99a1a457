// Command genmock generates a synthetic conditions batch fixture and its
// scored output. It uses the actual domain package so the scored fixture
// matches real pipeline behavior.
//
// The batch models a clear summer stretch on the lake: a diurnal air
// temperature and solar cycle, an afternoon breeze, rain chances rising on
// the second day, and an air-quality spike late in the run.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -conditions-out data/mock/conditions_batch.json \
//	  -scores-out data/mock/comfort_scores.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/couchcryptid/swim-comfort-etl/internal/domain"
	"github.com/jonboulle/clockwork"
)

// Local midnight (PDT) on the fixture day.
var baseDate = time.Date(2025, time.July, 15, 7, 0, 0, 0, time.UTC)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	conditionsOut := flag.String("conditions-out", "", "output path for the conditions batch fixture")
	scoresOut := flag.String("scores-out", "", "output path for the scored fixture")
	hours := flag.Int("hours", 48, "number of forecast hours")
	waterC := flag.Float64("water-c", 20.4, "buoy surface water temperature (°C)")
	phyco := flag.Float64("phycocyanin", 3.2, "buoy phycocyanin (ug/L)")
	flag.Parse()

	if *conditionsOut == "" || *scoresOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -conditions-out, -scores-out")
	}
	if *hours < 1 {
		return fmt.Errorf("-hours must be positive")
	}

	// Set a fixed clock for reproducible ComputedAt timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(baseDate.Add(-10 * time.Minute)))
	defer domain.SetClock(nil)

	batch := syntheticBatch(*hours, *waterC, *phyco)
	scores := domain.ScoreForecast(batch)
	log.Printf("generated %d forecast hours", len(batch.Forecast))

	if err := writeJSON(*conditionsOut, batch); err != nil {
		return fmt.Errorf("writing conditions fixture: %w", err)
	}
	log.Printf("wrote conditions fixture: %s", *conditionsOut)

	if err := writeJSON(*scoresOut, scores); err != nil {
		return fmt.Errorf("writing scores fixture: %w", err)
	}
	log.Printf("wrote scores fixture: %s", *scoresOut)

	printStats(scores)
	return nil
}

func syntheticBatch(hours int, waterC, phyco float64) domain.ConditionsBatch {
	forecast := make([]domain.ForecastHour, hours)
	for i := range forecast {
		forecast[i] = syntheticHour(i)
	}
	return domain.ConditionsBatch{
		Observation: domain.Observation{
			Time:           baseDate.Add(-15 * time.Minute),
			DepthM:         domain.Float(1.0),
			WaterTempC:     domain.Float(waterC),
			TurbidityNTU:   domain.Float(1.8),
			PhycocyaninUGL: domain.Float(phyco),
			ChlorophyllUGL: domain.Float(4.1),
		},
		Forecast: forecast,
	}
}

func syntheticHour(i int) domain.ForecastHour {
	local := float64(i % 24)

	air := round1(64 + 12*math.Sin((local-9)*math.Pi/12))
	feels := air - 0.5
	if air > 70 {
		feels = air + 1.5
	}

	solar := 0.0
	if local >= 5 && local <= 21 {
		solar = math.Max(0, math.Round(850*math.Sin((local-5)*math.Pi/16)))
	}

	wind := 3.0
	if local >= 11 && local <= 21 {
		wind = round1(3 + 6*math.Max(0, math.Sin((local-11)*math.Pi/10)))
	}

	precip := 5.0
	if i >= 30 {
		precip = 35
	}

	aqi := 32 + float64(i%24/3)
	switch i {
	case 40:
		aqi = 118
	case 41:
		aqi = 163
	}

	uv := 0.0
	if local >= 6 && local <= 20 {
		uv = round1(math.Max(0, 9*math.Sin((local-6)*math.Pi/14)))
	}

	h := domain.ForecastHour{
		Time:       baseDate.Add(time.Duration(i) * time.Hour),
		FeelsLikeF: domain.Float(round1(feels)),
		AirTempF:   domain.Float(air),
		WindMph:    domain.Float(wind),
		SolarWm2:   domain.Float(solar),
		PrecipPct:  domain.Float(precip),
		USAQI:      domain.Float(aqi),
		UVIndex:    domain.Float(uv),
	}
	if i == 20 {
		h.WindMph = nil // sensor gap
	}
	return h
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

type labelCount struct {
	label string
	count int
}

func printStats(scores []domain.ScoreRecord) {
	if len(scores) == 0 {
		return
	}

	labels := map[string]int{}
	overrides := map[string]int{}
	best := scores[0]
	for _, s := range scores {
		labels[s.Label]++
		for _, o := range s.Overrides {
			overrides[o]++
		}
		if s.Overall > best.Overall {
			best = s
		}
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d\n", len(scores))

	lc := make([]labelCount, 0, len(labels))
	for l, c := range labels {
		lc = append(lc, labelCount{l, c})
	}
	sort.Slice(lc, func(i, j int) bool { return lc[i].count > lc[j].count })
	fmt.Print("By label:")
	for _, l := range lc {
		fmt.Printf(" %s=%d", l.label, l.count)
	}
	fmt.Println()

	fmt.Printf("Overrides: algae_bloom=%d, aqi_very_unhealthy=%d, aqi_sensitive=%d\n",
		overrides[domain.OverrideAlgaeBloom], overrides[domain.OverrideAQIVeryUnhealthy], overrides[domain.OverrideAQISensitive])

	first, last := scores[0].ProjectedWaterTempF, scores[len(scores)-1].ProjectedWaterTempF
	if first != nil && last != nil {
		fmt.Printf("Projected water: %.1f°F -> %.1f°F\n", *first, *last)
	} else {
		fmt.Println("Projected water: unavailable")
	}
	fmt.Printf("Best hour: %s (%.1f, %s)\n", best.ScoreTime.Format(time.RFC3339), best.Overall, best.Label)
}
