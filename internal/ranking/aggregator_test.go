package ranking

import (
	"context"
	"errors"
	"testing"

	"github.com/quorumlab/tribunal/internal/eval"
	"github.com/quorumlab/tribunal/internal/llm"
)

type fakeClient struct {
	text string
	err  error
}

func (c *fakeClient) Complete(context.Context, []llm.Message, llm.Options) (llm.Response, error) {
	if c.err != nil {
		return llm.Response{}, c.err
	}
	return llm.Response{Text: c.text}, nil
}

func evaluation(name string, scores ...int) eval.ProjectEvaluation {
	ev := eval.ProjectEvaluation{ProjectName: name}
	for _, s := range scores {
		ev.Results = append(ev.Results, eval.JudgeResult{
			JudgeID: "j", JudgeName: "Judge", Summary: "s", Score: s,
			Likes: []string{"l"}, Dislikes: []string{"d"},
		})
	}
	return ev
}

func rankOf(t *testing.T, ranked []eval.ProjectEvaluation, name string) int {
	t.Helper()
	for _, ev := range ranked {
		if ev.ProjectName == name {
			return ev.FinalRank
		}
	}
	t.Fatalf("project %s missing from ranked output", name)
	return 0
}

func assertContiguous(t *testing.T, ranked []eval.ProjectEvaluation) {
	t.Helper()
	seen := map[int]bool{}
	for _, ev := range ranked {
		if ev.FinalRank < 1 || ev.FinalRank > len(ranked) {
			t.Errorf("%s has rank %d outside 1..%d", ev.ProjectName, ev.FinalRank, len(ranked))
		}
		if seen[ev.FinalRank] {
			t.Errorf("duplicate rank %d", ev.FinalRank)
		}
		seen[ev.FinalRank] = true
	}
}

func TestRankAppliesModelRanking(t *testing.T) {
	client := &fakeClient{text: `[{"project": "beta", "rank": 1}, {"project": "alpha", "rank": 2}]`}
	agg := NewAggregator(client, 1<<20, llm.DefaultOptions(), nil)

	// alpha scores higher, but the model's holistic order wins.
	ranked := agg.Rank(context.Background(), []eval.ProjectEvaluation{
		evaluation("alpha", 9, 9),
		evaluation("beta", 5, 5),
	})

	if rankOf(t, ranked, "beta") != 1 || rankOf(t, ranked, "alpha") != 2 {
		t.Errorf("model ranking not applied: %+v", ranked)
	}
	if ranked[0].ProjectName != "beta" {
		t.Error("output not sorted by final rank")
	}
	assertContiguous(t, ranked)
}

func TestRankFallsBackToAverageScores(t *testing.T) {
	client := &fakeClient{err: errors.New("model unavailable")}
	agg := NewAggregator(client, 1<<20, llm.DefaultOptions(), nil)

	ranked := agg.Rank(context.Background(), []eval.ProjectEvaluation{
		evaluation("project-b", 6, 6),
		evaluation("project-a", 8, 8),
	})

	if rankOf(t, ranked, "project-a") != 1 {
		t.Errorf("project-a (avg 8.0) rank = %d, want 1", rankOf(t, ranked, "project-a"))
	}
	if rankOf(t, ranked, "project-b") != 2 {
		t.Errorf("project-b (avg 6.0) rank = %d, want 2", rankOf(t, ranked, "project-b"))
	}
	assertContiguous(t, ranked)
}

func TestRankFallsBackOnNonJSONResponse(t *testing.T) {
	client := &fakeClient{text: "The best project is alpha, clearly."}
	agg := NewAggregator(client, 1<<20, llm.DefaultOptions(), nil)

	ranked := agg.Rank(context.Background(), []eval.ProjectEvaluation{
		evaluation("alpha", 9),
		evaluation("beta", 3),
	})

	if rankOf(t, ranked, "alpha") != 1 {
		t.Errorf("average-score fallback not applied: %+v", ranked)
	}
	assertContiguous(t, ranked)
}

func TestRankNormalizesPartialModelRanking(t *testing.T) {
	// The model ranks only one of three projects; the other two must
	// still land below it with unique contiguous ranks.
	client := &fakeClient{text: `[{"project": "gamma", "rank": 1}]`}
	agg := NewAggregator(client, 1<<20, llm.DefaultOptions(), nil)

	ranked := agg.Rank(context.Background(), []eval.ProjectEvaluation{
		evaluation("alpha", 4),
		evaluation("beta", 7),
		evaluation("gamma", 2),
	})

	if rankOf(t, ranked, "gamma") != 1 {
		t.Errorf("model-ranked project not first: %+v", ranked)
	}
	// Unranked projects order by mean score.
	if rankOf(t, ranked, "beta") != 2 || rankOf(t, ranked, "alpha") != 3 {
		t.Errorf("unranked projects not ordered by mean score: %+v", ranked)
	}
	assertContiguous(t, ranked)
}

func TestRankAverageScoreTiesKeepInputOrder(t *testing.T) {
	client := &fakeClient{err: errors.New("down")}
	agg := NewAggregator(client, 1<<20, llm.DefaultOptions(), nil)

	ranked := agg.Rank(context.Background(), []eval.ProjectEvaluation{
		evaluation("first", 7),
		evaluation("second", 7),
	})

	if rankOf(t, ranked, "first") != 1 || rankOf(t, ranked, "second") != 2 {
		t.Errorf("tie did not preserve input order: %+v", ranked)
	}
}

func TestRankIgnoresInvalidScoresInMeans(t *testing.T) {
	client := &fakeClient{err: errors.New("down")}
	agg := NewAggregator(client, 1<<20, llm.DefaultOptions(), nil)

	withJunk := evaluation("junky", 9)
	withJunk.Results = append(withJunk.Results, eval.JudgeResult{Score: 0}, eval.JudgeResult{Score: 99})

	ranked := agg.Rank(context.Background(), []eval.ProjectEvaluation{
		withJunk,
		evaluation("steady", 8),
	})

	// Out-of-range scores drop out of the mean, so junky averages 9.0.
	if rankOf(t, ranked, "junky") != 1 {
		t.Errorf("invalid scores polluted the mean: %+v", ranked)
	}
}

func TestRankEmptyInput(t *testing.T) {
	agg := NewAggregator(&fakeClient{err: errors.New("down")}, 1<<20, llm.DefaultOptions(), nil)
	if got := agg.Rank(context.Background(), nil); len(got) != 0 {
		t.Errorf("Rank(nil) = %+v, want empty", got)
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	client := &fakeClient{err: errors.New("down")}
	agg := NewAggregator(client, 1<<20, llm.DefaultOptions(), nil)

	input := []eval.ProjectEvaluation{evaluation("b", 3), evaluation("a", 9)}
	agg.Rank(context.Background(), input)

	if input[0].ProjectName != "b" || input[1].ProjectName != "a" {
		t.Error("input slice order was mutated")
	}
}
