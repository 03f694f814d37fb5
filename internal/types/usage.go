package types

import "time"

// Usage is the token and cost accounting reported by an improvement backend.
type Usage struct {
	Model        string
	InputTokens  int
	OutputTokens int
	InputCost    float64
	OutputCost   float64
	TotalCost    float64
	Elapsed      time.Duration
}

// Add returns the sum of two usage records. The model of u wins unless empty.
func (u Usage) Add(o Usage) Usage {
	model := u.Model
	if model == "" {
		model = o.Model
	}
	return Usage{
		Model:        model,
		InputTokens:  u.InputTokens + o.InputTokens,
		OutputTokens: u.OutputTokens + o.OutputTokens,
		InputCost:    u.InputCost + o.InputCost,
		OutputCost:   u.OutputCost + o.OutputCost,
		TotalCost:    u.TotalCost + o.TotalCost,
		Elapsed:      u.Elapsed + o.Elapsed,
	}
}
