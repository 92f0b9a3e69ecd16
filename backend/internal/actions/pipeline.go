// Package actions runs commands through ordered validation and mutation steps.
//
// A pipeline threads a state value from step to step. Validators read the command and
// the state and may only fill the state in; mutators write to the stores. Validators
// always precede mutators, so a rejected command leaves nothing behind.
package actions

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"orkg-backend/backend/internal/metrics"
	apperrors "orkg-backend/backend/pkg/errors"
	"orkg-backend/backend/pkg/logger"
)

// Action is one step of a pipeline
type Action[C, S any] interface {
	Apply(ctx context.Context, cmd C, state S) (S, error)
}

// ActionFunc is an adapter to allow functions to be used as actions
type ActionFunc[C, S any] func(ctx context.Context, cmd C, state S) (S, error)

// Apply implements Action
func (f ActionFunc[C, S]) Apply(ctx context.Context, cmd C, state S) (S, error) {
	return f(ctx, cmd, state)
}

// StepKind tells validators from mutators
type StepKind int

const (
	Validator StepKind = iota
	Mutator
)

func (k StepKind) String() string {
	if k == Mutator {
		return "mutator"
	}
	return "validator"
}

// Step is a named action of a pipeline
type Step[C, S any] struct {
	Name   string
	Kind   StepKind
	Action Action[C, S]
}

// Pipeline is an ordered list of steps. Build it once and execute it many times;
// Execute does not modify the pipeline.
type Pipeline[C, S any] struct {
	name    string
	steps   []Step[C, S]
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// New starts an empty pipeline
func New[C, S any](name string) *Pipeline[C, S] {
	return &Pipeline[C, S]{name: name, logger: logger.Named("actions").With(zap.String("pipeline", name))}
}

// WithMetrics records outcomes in m
func (p *Pipeline[C, S]) WithMetrics(m *metrics.Metrics) *Pipeline[C, S] {
	p.metrics = m
	return p
}

// Validate appends a validator. It panics once a mutator has been added.
func (p *Pipeline[C, S]) Validate(name string, action Action[C, S]) *Pipeline[C, S] {
	if n := len(p.steps); n > 0 && p.steps[n-1].Kind == Mutator {
		panic(fmt.Sprintf("actions: validator %q of pipeline %q follows mutator %q", name, p.name, p.steps[n-1].Name))
	}
	return p.add(name, Validator, action)
}

// Mutate appends a mutator
func (p *Pipeline[C, S]) Mutate(name string, action Action[C, S]) *Pipeline[C, S] {
	return p.add(name, Mutator, action)
}

// ValidateFunc is Validate for a plain function
func (p *Pipeline[C, S]) ValidateFunc(name string, fn func(ctx context.Context, cmd C, state S) (S, error)) *Pipeline[C, S] {
	return p.Validate(name, ActionFunc[C, S](fn))
}

// MutateFunc is Mutate for a plain function
func (p *Pipeline[C, S]) MutateFunc(name string, fn func(ctx context.Context, cmd C, state S) (S, error)) *Pipeline[C, S] {
	return p.Mutate(name, ActionFunc[C, S](fn))
}

func (p *Pipeline[C, S]) add(name string, kind StepKind, action Action[C, S]) *Pipeline[C, S] {
	if action == nil {
		panic(fmt.Sprintf("actions: step %q of pipeline %q has no action", name, p.name))
	}
	p.steps = append(p.steps, Step[C, S]{Name: name, Kind: kind, Action: action})
	return p
}

func (p *Pipeline[C, S]) Name() string { return p.name }

// Steps returns the step names in execution order
func (p *Pipeline[C, S]) Steps() []string {
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		names[i] = s.Name
	}
	return names
}

// Execute applies the steps in order, feeding each the state returned by the previous one.
// The first failing step aborts the run and its error is returned as is. Steps that
// already ran are not undone.
func (p *Pipeline[C, S]) Execute(ctx context.Context, cmd C, initial S) (S, error) {
	state := initial
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.metrics.PipelineFinished(p.name, step.Name)
			return state, apperrors.NewContextCancelled(p.name+"."+step.Name, err)
		}
		next, err := step.Action.Apply(ctx, cmd, state)
		if err != nil {
			p.logger.Warn("pipeline aborted",
				zap.String("step", step.Name),
				zap.Stringer("kind", step.Kind),
				zap.Error(err),
			)
			p.metrics.PipelineFinished(p.name, step.Name)
			return state, err
		}
		state = next
	}
	p.metrics.PipelineFinished(p.name, "")
	p.logger.Debug("pipeline completed", zap.Int("steps", len(p.steps)))
	return state, nil
}
