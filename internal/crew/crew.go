// Package crew runs pipelines of (role, task) steps against a model backend.
package crew

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/legal-assistant/backend/internal/agents"
	"github.com/legal-assistant/backend/internal/llm"
	"github.com/legal-assistant/backend/internal/metrics"
	"github.com/legal-assistant/backend/internal/tasks"
	"github.com/legal-assistant/backend/pkg/apperror"
	"github.com/legal-assistant/backend/pkg/logger"
)

type Step struct {
	Role agents.Role
	Task tasks.PromptTask
}

// Pipeline steps execute sequentially. A step never sees earlier outputs.
type Pipeline struct {
	Name  string
	Steps []Step
}

type StepOutput struct {
	Role    string
	Task    tasks.Kind
	Content string
	Usage   llm.Usage
}

type Result struct {
	Outputs []StepOutput
	Final   string
}

type Crew struct {
	gen     llm.Generator
	binding llm.Binding
}

func New(gen llm.Generator, binding llm.Binding) *Crew {
	return &Crew{
		gen:     gen,
		binding: binding,
	}
}

// Run stops at the first failed step and returns no partial result.
func (c *Crew) Run(ctx context.Context, p Pipeline) (*Result, error) {
	const op = "crew.Run"

	if len(p.Steps) == 0 {
		return nil, apperror.E(apperror.KindInternal, op, "pipeline has no steps", nil)
	}

	runID := uuid.New().String()
	start := time.Now()

	logger.Info("Pipeline started",
		zap.String("run_id", runID),
		zap.String("pipeline", p.Name),
		zap.Int("steps", len(p.Steps)),
	)

	outputs := make([]StepOutput, 0, len(p.Steps))
	for i, step := range p.Steps {
		stepStart := time.Now()

		resp, err := c.gen.Generate(ctx, llm.Request{
			SystemPrompt: step.Role.SystemPrompt(),
			UserPrompt:   step.Task.Render(),
			Temperature:  step.Role.Binding.Temperature,
			MaxTokens:    step.Role.Binding.MaxTokens,
		})
		metrics.StepDuration.WithLabelValues(step.Role.Name).Observe(time.Since(stepStart).Seconds())
		if err != nil {
			metrics.PipelineRuns.WithLabelValues(p.Name, "failed").Inc()
			logger.Error("Pipeline step failed",
				zap.String("run_id", runID),
				zap.String("pipeline", p.Name),
				zap.Int("step", i),
				zap.String("role", step.Role.Name),
				zap.Error(err),
			)
			return nil, apperror.Wrap(apperror.KindModelInvocation, op,
				fmt.Sprintf("%s failed", step.Role.Name), err)
		}

		outputs = append(outputs, StepOutput{
			Role:    step.Role.Name,
			Task:    step.Task.Kind,
			Content: resp.Content,
			Usage:   resp.Usage,
		})
	}

	metrics.PipelineRuns.WithLabelValues(p.Name, "completed").Inc()
	logger.Info("Pipeline completed",
		zap.String("run_id", runID),
		zap.String("pipeline", p.Name),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &Result{
		Outputs: outputs,
		Final:   outputs[len(outputs)-1].Content,
	}, nil
}

func (c *Crew) single(ctx context.Context, name string, role agents.Role, task tasks.PromptTask) (string, error) {
	res, err := c.Run(ctx, Pipeline{
		Name:  name,
		Steps: []Step{{Role: role, Task: task}},
	})
	if err != nil {
		return "", err
	}
	return res.Final, nil
}
