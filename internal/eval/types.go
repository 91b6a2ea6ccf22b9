// Package eval fans a project out to every judge on the panel and collects
// one well-formed result per judge, no matter what the model does.
package eval

import "github.com/quorumlab/tribunal/internal/llm"

// Score bounds and the neutral default substituted for anything invalid.
const (
	MinScore     = 1
	MaxScore     = 10
	NeutralScore = 5
)

// Fallback phrases keep likes/dislikes non-empty so rendering never faces
// missing fields.
var (
	FallbackLikes    = []string{"The project was submitted and reached evaluation"}
	FallbackDislikes = []string{"The judge could not provide specific feedback"}
)

// JudgeResult is one judge's verdict on one project. Score is always inside
// [MinScore, MaxScore]; likes and dislikes are never empty.
type JudgeResult struct {
	JudgeID   string    `json:"judge_id"`
	JudgeName string    `json:"judge_name"`
	Summary   string    `json:"summary"`
	Score     int       `json:"score"`
	Likes     []string  `json:"likes"`
	Dislikes  []string  `json:"dislikes"`
	Degraded  bool      `json:"degraded,omitempty"`
	Usage     llm.Usage `json:"usage,omitempty"`
}

// ProjectEvaluation is every judge's verdict on one project. FinalRank is
// zero until the ranking aggregator assigns it; once assigned it is 1-based
// and unique within the batch.
type ProjectEvaluation struct {
	ProjectName string        `json:"project_name"`
	Results     []JudgeResult `json:"judge_results"`
	FinalRank   int           `json:"final_rank,omitempty"`
}
