package intent

import (
	"fmt"
	"sort"

	"intentd/pkg/types"
)

// Result is the normalized classification output. TopIntent and Confidence
// always equal AllIntents[0].
type Result struct {
	TopIntent  string             `json:"top_intent"`
	Confidence float64            `json:"confidence"`
	AllIntents []types.LabelScore `json:"all_intents"`
}

// sortDesc orders predictions by score, highest first, keeping ties in input order.
func sortDesc(preds []types.LabelScore) []types.LabelScore {
	out := append([]types.LabelScore(nil), preds...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// pairs reshapes parallel label/score arrays into label-score pairs.
func pairs(labels []string, scores []float64) ([]types.LabelScore, error) {
	if len(labels) != len(scores) {
		return nil, fmt.Errorf("labels/scores length mismatch: %d != %d", len(labels), len(scores))
	}
	out := make([]types.LabelScore, len(labels))
	for i := range labels {
		out[i] = types.LabelScore{Label: labels[i], Score: scores[i]}
	}
	return out, nil
}

func newResult(preds []types.LabelScore) Result {
	sorted := sortDesc(preds)
	return Result{
		TopIntent:  sorted[0].Label,
		Confidence: sorted[0].Score,
		AllIntents: sorted,
	}
}
