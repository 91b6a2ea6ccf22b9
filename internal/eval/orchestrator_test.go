package eval

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/quorumlab/tribunal/internal/judges"
	"github.com/quorumlab/tribunal/internal/llm"
	"github.com/quorumlab/tribunal/internal/project"
)

// scriptedClient answers based on which judge instruction it sees.
type scriptedClient struct {
	respond func(messages []llm.Message) (llm.Response, error)
	calls   int
}

func (c *scriptedClient) Complete(_ context.Context, messages []llm.Message, _ llm.Options) (llm.Response, error) {
	c.calls++
	return c.respond(messages)
}

func demoProject() *project.Project {
	return &project.Project{
		Name: "demo",
		Files: []project.File{
			{Name: "main.go", Content: "package main\n", MediaType: "text/x-go", ByteSize: 13, IsText: true},
		},
		TotalBytes: 13,
	}
}

func demoPanel(t *testing.T, n int) *judges.Panel {
	t.Helper()
	panel := &judges.Panel{}
	for i := 0; i < n; i++ {
		err := panel.AddDefinition(judges.Definition{
			ID:          fmt.Sprintf("judge-%d", i),
			Name:        fmt.Sprintf("Judge %d", i),
			Instruction: fmt.Sprintf("You are judge number %d.", i),
		})
		if err != nil {
			t.Fatalf("AddDefinition: %v", err)
		}
	}
	return panel
}

func TestEvaluateProjectAllCallsFail(t *testing.T) {
	client := &scriptedClient{respond: func([]llm.Message) (llm.Response, error) {
		return llm.Response{}, errors.New("model unavailable")
	}}
	orch := NewOrchestrator(client, 1<<20, 1000, llm.DefaultOptions(), nil)

	panel := demoPanel(t, 3)
	results := orch.EvaluateProject(context.Background(), demoProject(), panel)

	if len(results) != 3 {
		t.Fatalf("got %d results, want one per judge", len(results))
	}
	for i, r := range results {
		if r.JudgeID != fmt.Sprintf("judge-%d", i) {
			t.Errorf("result %d is for %s; results must stay in panel order", i, r.JudgeID)
		}
		if !r.Degraded {
			t.Errorf("result %d not marked degraded after a failed call", i)
		}
		if r.Score != NeutralScore {
			t.Errorf("result %d score = %d, want neutral", i, r.Score)
		}
		if len(r.Likes) == 0 || len(r.Dislikes) == 0 {
			t.Errorf("result %d has empty likes/dislikes", i)
		}
	}
}

func TestEvaluateProjectParsesPerJudge(t *testing.T) {
	// Each judge scores based on its own instruction so we can verify
	// positional collection.
	client := &scriptedClient{respond: func(messages []llm.Message) (llm.Response, error) {
		system := messages[0].Content
		for i := 0; i < 5; i++ {
			if strings.Contains(system, fmt.Sprintf("judge number %d.", i)) {
				return llm.Response{Text: fmt.Sprintf(
					`{"summary": "from judge %d", "score": %d, "likes": ["l"], "dislikes": ["d"]}`, i, i+3)}, nil
			}
		}
		return llm.Response{}, errors.New("unknown judge")
	}}
	orch := NewOrchestrator(client, 1<<20, 1000, llm.DefaultOptions(), nil)

	panel := demoPanel(t, 3)
	results := orch.EvaluateProject(context.Background(), demoProject(), panel)

	for i, r := range results {
		if r.Score != i+3 {
			t.Errorf("result %d score = %d, want %d", i, r.Score, i+3)
		}
		if r.Degraded {
			t.Errorf("result %d marked degraded on a clean run", i)
		}
	}
}

func TestEvaluateProjectMalformedResponseFallsBack(t *testing.T) {
	client := &scriptedClient{respond: func([]llm.Message) (llm.Response, error) {
		return llm.Response{Text: "I cannot answer in JSON, sorry."}, nil
	}}
	orch := NewOrchestrator(client, 1<<20, 1000, llm.DefaultOptions(), nil)

	results := orch.EvaluateProject(context.Background(), demoProject(), demoPanel(t, 2))
	for i, r := range results {
		if !r.Degraded || r.Score != NeutralScore {
			t.Errorf("result %d = %+v, want degraded neutral fallback", i, r)
		}
	}
}

func TestEvaluateAllProducesOneEvaluationPerProject(t *testing.T) {
	client := &scriptedClient{respond: func([]llm.Message) (llm.Response, error) {
		return llm.Response{Text: `{"summary": "ok", "score": 6, "likes": ["l"], "dislikes": ["d"]}`}, nil
	}}
	orch := NewOrchestrator(client, 1<<20, 1000, llm.DefaultOptions(), nil)

	projects := []*project.Project{demoProject(), {Name: "second"}, {Name: "third"}}
	evaluations := orch.EvaluateAll(context.Background(), projects, demoPanel(t, 2))

	if len(evaluations) != 3 {
		t.Fatalf("got %d evaluations, want 3", len(evaluations))
	}
	for i, ev := range evaluations {
		if ev.ProjectName != projects[i].Name {
			t.Errorf("evaluation %d is %s; batch order must match input order", i, ev.ProjectName)
		}
		if len(ev.Results) != 2 {
			t.Errorf("evaluation %d has %d results, want 2", i, len(ev.Results))
		}
	}
}

func TestEvaluateAllRecoversFromPanics(t *testing.T) {
	client := &scriptedClient{respond: func([]llm.Message) (llm.Response, error) {
		panic("model client blew up")
	}}
	orch := NewOrchestrator(client, 1<<20, 1000, llm.DefaultOptions(), nil)

	evaluations := orch.EvaluateAll(context.Background(), []*project.Project{demoProject()}, demoPanel(t, 2))
	if len(evaluations) != 1 {
		t.Fatalf("got %d evaluations, want 1", len(evaluations))
	}
	ev := evaluations[0]
	if len(ev.Results) != 2 {
		t.Fatalf("fallback evaluation has %d results, want one per judge", len(ev.Results))
	}
	for _, r := range ev.Results {
		if !r.Degraded {
			t.Error("fallback evaluation result not marked degraded")
		}
	}
}
