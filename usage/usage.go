// Package usage estimates token usage and cost of a translation run.
package usage

import (
	"strings"
	"sync"
)

// Counter estimates the number of tokens in a text.
type Counter interface {
	Count(text string) int
}

// CounterFunc adapts a function to the Counter interface.
type CounterFunc func(text string) int

func (f CounterFunc) Count(text string) int { return f(text) }

// WordCounter approximates tokens by counting whitespace-separated words.
// It is a coarse proxy, not a real tokenizer.
type WordCounter struct{}

func (WordCounter) Count(text string) int {
	return len(strings.Fields(text))
}

// Pricing holds USD rates per million tokens.
type Pricing struct {
	InputPerMillion  float64 `yaml:"input_per_million"`
	OutputPerMillion float64 `yaml:"output_per_million"`
}

// DefaultPricing returns the default rates: $5 input, $15 output per million.
func DefaultPricing() Pricing {
	return Pricing{InputPerMillion: 5, OutputPerMillion: 15}
}

// Cost returns the price of the given token counts.
func (p Pricing) Cost(in, out int) float64 {
	return float64(in)/1e6*p.InputPerMillion + float64(out)/1e6*p.OutputPerMillion
}

// Usage is a pair of token counts.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Total returns input plus output tokens.
func (u Usage) Total() int {
	return u.InputTokens + u.OutputTokens
}

// Add returns the sum of two usages.
func (u Usage) Add(o Usage) Usage {
	return Usage{
		InputTokens:  u.InputTokens + o.InputTokens,
		OutputTokens: u.OutputTokens + o.OutputTokens,
	}
}

// Meter accumulates usage across batches. It is safe for concurrent use so
// that parallel locale runs may share one meter.
type Meter struct {
	counter Counter
	pricing Pricing

	mu      sync.Mutex
	totals  Usage
	batches int
}

// NewMeter returns a meter. A nil counter means WordCounter.
func NewMeter(counter Counter, pricing Pricing) *Meter {
	if counter == nil {
		counter = WordCounter{}
	}
	return &Meter{counter: counter, pricing: pricing}
}

// RecordBatch counts the tokens of one request/response round-trip and adds
// them to the running totals.
func (m *Meter) RecordBatch(inputs, outputs []string) Usage {
	var u Usage
	for _, s := range inputs {
		u.InputTokens += m.counter.Count(s)
	}
	for _, s := range outputs {
		u.OutputTokens += m.counter.Count(s)
	}

	m.mu.Lock()
	m.totals = m.totals.Add(u)
	m.batches++
	m.mu.Unlock()
	return u
}

// Totals returns the accumulated usage.
func (m *Meter) Totals() Usage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totals
}

// Batches returns the number of recorded round-trips.
func (m *Meter) Batches() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.batches
}

// Cost returns the accumulated cost in USD.
func (m *Meter) Cost() float64 {
	t := m.Totals()
	return m.pricing.Cost(t.InputTokens, t.OutputTokens)
}

// Pricing returns the rates the meter uses.
func (m *Meter) Pricing() Pricing {
	return m.pricing
}
