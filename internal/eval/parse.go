package eval

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// rawVerdict is the loose shape we accept from the model. Every field is
// typed as permissively as possible; validation happens per field.
type rawVerdict struct {
	Summary  any `json:"summary"`
	Score    any `json:"score"`
	Likes    any `json:"likes"`
	Dislikes any `json:"dislikes"`
}

// ParseVerdict turns raw model text into a JudgeResult for the given judge.
// Parsing is strict, validation is forgiving: each field is defaulted
// independently rather than rejecting the whole response on one bad field.
// Only a response with no JSON object at all is an error.
func ParseVerdict(judgeID, judgeName, text string) (JudgeResult, error) {
	obj := ExtractJSONObject(text)
	if obj == nil {
		return JudgeResult{}, fmt.Errorf("judge %s: no JSON object in response", judgeID)
	}

	var raw rawVerdict
	if err := json.Unmarshal(obj, &raw); err != nil {
		return JudgeResult{}, fmt.Errorf("judge %s: parse response: %w", judgeID, err)
	}

	result := JudgeResult{
		JudgeID:   judgeID,
		JudgeName: judgeName,
		Summary:   coerceSummary(raw.Summary),
		Score:     coerceScore(raw.Score),
		Likes:     coerceList(raw.Likes, FallbackLikes),
		Dislikes:  coerceList(raw.Dislikes, FallbackDislikes),
	}
	return result, nil
}

// coerceScore accepts numbers and numeric strings; anything missing,
// non-numeric, or outside [MinScore, MaxScore] becomes the neutral default.
func coerceScore(v any) int {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return NeutralScore
		}
		f = parsed
	default:
		return NeutralScore
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return NeutralScore
	}
	score := int(math.Round(f))
	if score < MinScore || score > MaxScore {
		return NeutralScore
	}
	return score
}

// coerceList accepts a list of strings (tolerating stray non-string items);
// anything else becomes the fallback phrases.
func coerceList(v any, fallback []string) []string {
	items, ok := v.([]any)
	if !ok {
		return append([]string(nil), fallback...)
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	if len(out) == 0 {
		return append([]string(nil), fallback...)
	}
	return out
}

func coerceSummary(v any) string {
	if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
		return strings.TrimSpace(s)
	}
	return "The judge did not provide a summary."
}
