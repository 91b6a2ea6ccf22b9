// Package ranking assigns the holistic cross-project ordering. A three-tier
// cascade (model ranking, then average scores, then submission order)
// guarantees every batch comes back with a unique contiguous 1..N ranking.
package ranking

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/quorumlab/tribunal/internal/eval"
	"github.com/quorumlab/tribunal/internal/llm"
	"github.com/quorumlab/tribunal/internal/prompt"
)

// state is the cascade position. Transitions are forward-only and taken
// unconditionally on failure; no retries within a tier.
type state int

const (
	awaitingModelRanking state = iota
	averageScoreFallback
	orderFallback
	done
)

const rankingFormat = `Respond with ONLY a JSON array ranking every project, best first:
[{"project": "exact project name", "rank": 1}, {"project": "...", "rank": 2}]
Ranks start at 1 and each project appears exactly once. No code fences, no
text outside the JSON array.`

// Aggregator requests a holistic ranking from the model and falls back
// deterministically when it cannot.
type Aggregator struct {
	client llm.Client
	log    *slog.Logger

	// PayloadCeiling truncates the serialized evaluation summary sent to
	// the model, with the same discipline the prompt budgeter applies to
	// file contents.
	PayloadCeiling int
	CallOptions    llm.Options
}

// NewAggregator wires an aggregator around a model client.
func NewAggregator(client llm.Client, payloadCeiling int, opts llm.Options, log *slog.Logger) *Aggregator {
	if log == nil {
		log = slog.Default()
	}
	return &Aggregator{client: client, log: log, PayloadCeiling: payloadCeiling, CallOptions: opts}
}

// Rank assigns FinalRank to every evaluation and returns them sorted
// ascending by rank. It always completes: ranks form a contiguous 1..N
// range with no duplicates regardless of what the model does.
func (a *Aggregator) Rank(ctx context.Context, evaluations []eval.ProjectEvaluation) []eval.ProjectEvaluation {
	out := make([]eval.ProjectEvaluation, len(evaluations))
	copy(out, evaluations)
	if len(out) == 0 {
		return out
	}

	for st := awaitingModelRanking; st != done; {
		switch st {
		case awaitingModelRanking:
			if err := a.modelRanking(ctx, out); err != nil {
				a.log.Warn("model ranking failed; falling back to average scores", "err", err)
				st = averageScoreFallback
				continue
			}
			st = done
		case averageScoreFallback:
			if err := averageScoreRanking(out); err != nil {
				a.log.Warn("average-score ranking failed; falling back to submission order", "err", err)
				st = orderFallback
				continue
			}
			st = done
		case orderFallback:
			for i := range out {
				out[i].FinalRank = i + 1
			}
			st = done
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].FinalRank < out[j].FinalRank })
	return out
}

// modelRanking is the primary tier: serialize every evaluation, ask the
// model for a holistic ordering, and apply it by exact project-name match.
func (a *Aggregator) modelRanking(ctx context.Context, evaluations []eval.ProjectEvaluation) error {
	payload := prompt.Truncate(serializeEvaluations(evaluations), a.PayloadCeiling)
	messages := []llm.Message{
		{Role: "system", Content: "You are the master judge of a coding competition. Rank the submissions holistically from the per-judge results below.\n\n" + rankingFormat},
		{Role: "user", Content: payload},
	}

	resp, err := a.client.Complete(ctx, messages, a.CallOptions)
	if err != nil {
		return fmt.Errorf("ranking call: %w", err)
	}

	arr := eval.ExtractJSONArray(resp.Text)
	if arr == nil {
		return fmt.Errorf("ranking response contains no JSON array")
	}
	var entries []struct {
		Project string `json:"project"`
		Rank    int    `json:"rank"`
	}
	if err := json.Unmarshal(arr, &entries); err != nil {
		return fmt.Errorf("parse ranking response: %w", err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("ranking response is empty")
	}

	ranks := make(map[string]int, len(entries))
	for _, e := range entries {
		if e.Rank < 1 || e.Project == "" {
			continue
		}
		if _, dup := ranks[e.Project]; dup {
			continue
		}
		ranks[e.Project] = e.Rank
	}

	for i := range evaluations {
		evaluations[i].FinalRank = ranks[evaluations[i].ProjectName]
	}
	normalizeRanks(evaluations)
	return nil
}

// averageScoreRanking is tier one of the fallback: descending mean of valid
// judge scores, stable input order breaking ties. Scores outside the valid
// range are excluded from the mean; an evaluation with none scores 0.
func averageScoreRanking(evaluations []eval.ProjectEvaluation) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("average-score ranking panicked: %v", r)
		}
	}()

	type scored struct {
		index int
		mean  float64
	}
	means := make([]scored, len(evaluations))
	for i, ev := range evaluations {
		sum, count := 0, 0
		for _, r := range ev.Results {
			if r.Score >= eval.MinScore && r.Score <= eval.MaxScore {
				sum += r.Score
				count++
			}
		}
		mean := 0.0
		if count > 0 {
			mean = float64(sum) / float64(count)
		}
		means[i] = scored{index: i, mean: mean}
	}

	sort.SliceStable(means, func(i, j int) bool { return means[i].mean > means[j].mean })
	for rank, s := range means {
		evaluations[s.index].FinalRank = rank + 1
	}
	return nil
}

// normalizeRanks turns whatever the model assigned into a unique contiguous
// 1..N range. Evaluations the model ranked keep their relative order;
// anything left unranked sorts below them by mean score, then input order.
func normalizeRanks(evaluations []eval.ProjectEvaluation) {
	indices := make([]int, len(evaluations))
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(a, b int) bool {
		ra, rb := evaluations[indices[a]].FinalRank, evaluations[indices[b]].FinalRank
		switch {
		case ra > 0 && rb > 0:
			return ra < rb
		case ra > 0:
			return true
		case rb > 0:
			return false
		default:
			return meanScore(evaluations[indices[a]]) > meanScore(evaluations[indices[b]])
		}
	})
	for pos, idx := range indices {
		evaluations[idx].FinalRank = pos + 1
	}
}

func meanScore(ev eval.ProjectEvaluation) float64 {
	sum, count := 0, 0
	for _, r := range ev.Results {
		if r.Score >= eval.MinScore && r.Score <= eval.MaxScore {
			sum += r.Score
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return float64(sum) / float64(count)
}

// serializeEvaluations renders the second-order prompt body: per project,
// each judge's score, summary, likes and dislikes.
func serializeEvaluations(evaluations []eval.ProjectEvaluation) string {
	var sb strings.Builder
	for _, ev := range evaluations {
		fmt.Fprintf(&sb, "## %s\n", ev.ProjectName)
		for _, r := range ev.Results {
			fmt.Fprintf(&sb, "- %s scored %d/10: %s\n", r.JudgeName, r.Score, r.Summary)
			if len(r.Likes) > 0 {
				fmt.Fprintf(&sb, "  liked: %s\n", strings.Join(r.Likes, "; "))
			}
			if len(r.Dislikes) > 0 {
				fmt.Fprintf(&sb, "  disliked: %s\n", strings.Join(r.Dislikes, "; "))
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
