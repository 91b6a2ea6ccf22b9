package eval

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/quorumlab/tribunal/internal/judges"
	"github.com/quorumlab/tribunal/internal/llm"
	"github.com/quorumlab/tribunal/internal/project"
	"github.com/quorumlab/tribunal/internal/prompt"
)

// responseFormat is appended to every judge prompt so the model returns a
// structured verdict we can parse.
const responseFormat = `Respond with ONLY a JSON object in exactly this shape:
{
  "summary": "two or three sentences on the project overall",
  "score": 7,
  "likes": ["specific thing you liked", "another"],
  "dislikes": ["specific thing you disliked", "another"]
}
The score is an integer from 1 (poor) to 10 (excellent). No code fences, no
text outside the JSON object.`

// Progress is emitted as judging advances; the CLI renders it.
type Progress struct {
	Project      string
	Judge        string
	JudgesDone   int
	JudgesTotal  int
	ProjectsDone int
	ProjectsAll  int
}

// Orchestrator runs the judge panel over projects.
type Orchestrator struct {
	client llm.Client
	log    *slog.Logger

	// PayloadCeiling caps the budgeted project payload inside each prompt;
	// it already has headroom for instruction and format text subtracted.
	PayloadCeiling int
	MaxFileChars   int
	CallOptions    llm.Options

	// OnProgress, when set, is called from the orchestrator goroutine only.
	OnProgress func(Progress)
}

// NewOrchestrator wires an orchestrator around a model client.
func NewOrchestrator(client llm.Client, payloadCeiling, maxFileChars int, opts llm.Options, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		client:         client,
		log:            log,
		PayloadCeiling: payloadCeiling,
		MaxFileChars:   maxFileChars,
		CallOptions:    opts,
	}
}

// EvaluateProject runs every judge against one project concurrently and
// returns exactly one result per judge, in panel order. Results are
// collected positionally, never in completion order, and a failed call
// yields a fallback result instead of a missing one.
func (o *Orchestrator) EvaluateProject(ctx context.Context, p *project.Project, panel *judges.Panel) []JudgeResult {
	defs := panel.List()
	payload := prompt.BuildPayload(p, prompt.Options{
		CeilingBytes: o.PayloadCeiling,
		MaxFileChars: o.MaxFileChars,
	})

	results := make([]JudgeResult, len(defs))
	var wg sync.WaitGroup
	for i, def := range defs {
		wg.Add(1)
		go func(i int, def judges.Definition) {
			defer wg.Done()
			results[i] = o.judgeOne(ctx, def, p.Name, payload)
		}(i, def)
	}
	wg.Wait()
	return results
}

// EvaluateAll processes projects strictly one at a time, in input order,
// bounding peak in-flight model calls to the panel size. Every submitted
// project yields an evaluation; an error escaping a whole project is
// replaced with a fallback evaluation rather than aborting the batch.
func (o *Orchestrator) EvaluateAll(ctx context.Context, projects []*project.Project, panel *judges.Panel) []ProjectEvaluation {
	evaluations := make([]ProjectEvaluation, 0, len(projects))
	for i, p := range projects {
		evaluations = append(evaluations, o.evaluateSafely(ctx, p, panel))
		o.report(Progress{
			Project:      p.Name,
			ProjectsDone: i + 1,
			ProjectsAll:  len(projects),
			JudgesDone:   panel.Len(),
			JudgesTotal:  panel.Len(),
		})
	}
	return evaluations
}

// evaluateSafely converts a panic while judging one project into a full
// fallback evaluation.
func (o *Orchestrator) evaluateSafely(ctx context.Context, p *project.Project, panel *judges.Panel) (ev ProjectEvaluation) {
	defer func() {
		if r := recover(); r != nil {
			o.log.Error("evaluation panicked; substituting fallback", "project", p.Name, "panic", r)
			ev = FallbackEvaluation(p.Name, panel.List())
		}
	}()
	return ProjectEvaluation{
		ProjectName: p.Name,
		Results:     o.EvaluateProject(ctx, p, panel),
	}
}

// judgeOne builds the prompt for one judge, invokes the model, and parses
// the verdict. Any failure along the way degrades to a fallback result.
func (o *Orchestrator) judgeOne(ctx context.Context, def judges.Definition, projectName, payload string) JudgeResult {
	messages := []llm.Message{
		{Role: "system", Content: def.Instruction + "\n\n" + responseFormat},
		{Role: "user", Content: payload},
	}

	resp, err := o.client.Complete(ctx, messages, o.CallOptions)
	if err != nil {
		o.log.Warn("judge call failed", "judge", def.ID, "project", projectName, "err", err)
		return FallbackResult(def, fmt.Sprintf("The model call for this judge failed (%v); a neutral result was substituted.", err))
	}

	result, err := ParseVerdict(def.ID, def.Name, resp.Text)
	if err != nil {
		o.log.Warn("judge response unparseable", "judge", def.ID, "project", projectName, "err", err)
		return FallbackResult(def, "The judge's response could not be parsed; a neutral result was substituted.")
	}
	result.Usage = resp.Usage
	return result
}

// FallbackResult synthesizes a complete neutral verdict for one judge.
func FallbackResult(def judges.Definition, reason string) JudgeResult {
	return JudgeResult{
		JudgeID:   def.ID,
		JudgeName: def.Name,
		Summary:   reason,
		Score:     NeutralScore,
		Likes:     append([]string(nil), FallbackLikes...),
		Dislikes:  append([]string(nil), FallbackDislikes...),
		Degraded:  true,
	}
}

// FallbackEvaluation synthesizes a degraded evaluation for a whole project.
func FallbackEvaluation(projectName string, defs []judges.Definition) ProjectEvaluation {
	ev := ProjectEvaluation{ProjectName: projectName}
	for _, def := range defs {
		r := FallbackResult(def, "Evaluation of this project failed unexpectedly; a degraded result was substituted.")
		r.Score = MinScore + 1
		ev.Results = append(ev.Results, r)
	}
	return ev
}

func (o *Orchestrator) report(p Progress) {
	if o.OnProgress != nil {
		o.OnProgress(p)
	}
}
