package ledger

import (
	"log"
	"math"
	"strings"
)

// Rate holds credits per million input/output tokens for one vendor model.
type Rate struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

type rateKey struct {
	vendor string
	model  string
}

// DefaultRate applies when a (vendor, model) pair is missing from the table.
var DefaultRate = Rate{InputPerMillion: 1.00, OutputPerMillion: 3.00}

// rateTable maps (vendor, model) to per-million-token credit rates.
var rateTable = map[rateKey]Rate{
	{"openai", "gpt-4o-mini"}:          {InputPerMillion: 0.15, OutputPerMillion: 0.60},
	{"openai", "gpt-4o"}:               {InputPerMillion: 2.50, OutputPerMillion: 10.00},
	{"openai", "gpt-3.5-turbo"}:        {InputPerMillion: 0.50, OutputPerMillion: 1.50},
	{"openai", "whisper-1"}:            {InputPerMillion: 6.00, OutputPerMillion: 0},
	{"anthropic", "claude-3-5-sonnet"}: {InputPerMillion: 3.00, OutputPerMillion: 15.00},
	{"anthropic", "claude-3-haiku"}:    {InputPerMillion: 0.25, OutputPerMillion: 1.25},
}

// LookupRate returns the rate for a vendor/model pair and whether it came
// from the table rather than the default.
func LookupRate(vendor, model string) (Rate, bool) {
	rate, ok := rateTable[rateKey{strings.ToLower(vendor), strings.ToLower(model)}]
	if !ok {
		return DefaultRate, false
	}
	return rate, true
}

// CalculateCost prices a metered operation in whole credits. The raw amount
// is (input/1e6)*inputRate + (output/1e6)*outputRate, rounded half-up, with a
// floor of one credit so even a near-zero operation consumes something.
func CalculateCost(vendor, model string, inputTokens, outputTokens int64) int64 {
	rate, found := LookupRate(vendor, model)
	if !found {
		log.Printf("no rate for vendor=%s model=%s, falling back to default rate\n", vendor, model)
	}
	raw := float64(inputTokens)/1e6*rate.InputPerMillion +
		float64(outputTokens)/1e6*rate.OutputPerMillion
	cost := int64(math.Floor(raw + 0.5))
	if cost < 1 {
		cost = 1
	}
	return cost
}
