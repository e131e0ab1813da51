package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rickchristie/duet"
	"github.com/rickchristie/duet/hooks"
	"github.com/rickchristie/duet/log"
	"github.com/rickchristie/duet/termination"
	"github.com/rickchristie/duet/toolset"
)

// participant is one side of the conversation with its own history. The two histories are
// independent; neither participant sees the other's raw messages.
type participant struct {
	role    duet.Role
	agent   duet.Agent
	history []duet.MessageContent
}

func (p *participant) append(messages ...duet.MessageContent) {
	p.history = append(p.history, messages...)
}

// run is the state of one conversation. It is driven by a single goroutine.
type run struct {
	id      string
	cfg     Config
	evalCtx duet.EvalContext
	hooks   *hooks.Registry
	clock   duet.TimeProvider
	detect  termination.Detector

	primary     *participant
	counterpart *participant

	steps                int
	primaryToolCalls     int
	counterpartTurns     int
	counterpartToolCalls int

	final  *duet.Response
	err    error
	reason duet.TerminationReason
}

// Run drives one conversation between primary and counterpart in evalCtx and returns its trace.
//
// The returned error is non-nil only for configuration errors: a nil evaluation context or
// participant, an evaluation context without a prompt, or an invalid cfg. In that case no
// participant is touched and no trace is produced. Every other failure, cancellation included,
// is reported through the trace.
//
// Both participants are cleaned up exactly once before Run returns a trace.
func Run(
	ctx context.Context,
	evalCtx duet.EvalContext,
	primary duet.Agent,
	counterpart duet.Agent,
	cfg Config,
) (*duet.Trace, error) {
	if evalCtx == nil {
		return nil, fmt.Errorf("%w: nil evaluation context", duet.ErrInvalidConfig)
	}
	if primary == nil || counterpart == nil {
		return nil, fmt.Errorf("%w: nil participant", duet.ErrInvalidConfig)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	prompt := evalCtx.Prompt()
	if prompt == "" {
		return nil, fmt.Errorf("%w: did the scenario setup run?", duet.ErrMissingPrompt)
	}

	cfg = cfg.withDefaults()
	r := &run{
		id:          cfg.NewRunID(),
		cfg:         cfg,
		evalCtx:     evalCtx,
		hooks:       cfg.Hooks,
		clock:       cfg.TimeProvider,
		detect:      cfg.Termination,
		primary:     &participant{role: duet.RolePrimary, agent: primary},
		counterpart: &participant{role: duet.RoleCounterpart, agent: counterpart},
	}
	return r.execute(ctx, prompt), nil
}

func (r *run) execute(ctx context.Context, prompt string) *duet.Trace {
	start := r.clock.Now()

	trace := func() *duet.Trace {
		defer r.cleanup(context.WithoutCancel(ctx))

		if err := r.setup(ctx, prompt); err != nil {
			r.stopWithError(ctx, 0, err)
		} else {
			r.hooks.FireBeforeRun(ctx, &duet.BeforeRunEvent{
				BaseEvent: r.base(),
				Prompt:    prompt,
				MaxSteps:  r.cfg.MaxSteps,
			})
			r.loop(ctx)
		}

		return r.submit(ctx, r.buildTrace())
	}()

	r.hooks.FireAfterRun(ctx, &duet.AfterRunEvent{
		BaseEvent: r.base(),
		Trace:     trace,
		Duration:  r.since(start),
	})
	return trace
}

// setup initializes both participants and seeds the primary's history.
func (r *run) setup(ctx context.Context, prompt string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.initialize(ctx); err != nil {
		return err
	}

	system, err := r.primary.agent.SystemMessages(ctx)
	if err != nil {
		return fmt.Errorf("primary system messages: %w", err)
	}
	r.primary.append(system...)

	initial, err := r.primary.agent.FormatMessage(ctx, duet.ChatRoleHuman, duet.Text(prompt))
	if err != nil {
		return fmt.Errorf("format prompt: %w", err)
	}
	r.primary.append(initial...)
	return nil
}

// initialize hands each uninitialized tool user its filtered view of the evaluation context's
// tools. The full set is built at most once per run.
func (r *run) initialize(ctx context.Context) error {
	var full *toolset.Set

	for _, p := range []*participant{r.primary, r.counterpart} {
		tu, ok := p.agent.(duet.ToolUser)
		if !ok || tu.Initialized() {
			continue
		}

		if full == nil {
			var err error
			full, err = toolset.New(r.evalCtx.Tools()...)
			if err != nil {
				return fmt.Errorf("build tool set: %w", err)
			}
		}

		view := full.Filter(tu.AllowedTools())
		if allowed := tu.AllowedTools(); len(allowed) > 0 {
			log.Infof("%s filtered to %d allowed tools: %s",
				p.role, view.Len(), strings.Join(view.Names(), ", "))
		}
		if err := tu.Initialize(ctx, view.Tools()); err != nil {
			return fmt.Errorf("initialize %s: %w", p.role, err)
		}
	}
	return nil
}

func (r *run) loop(ctx context.Context) {
	for r.cfg.unlimited() || r.steps < r.cfg.MaxSteps {
		if err := ctx.Err(); err != nil {
			r.stopWithError(ctx, r.steps, err)
			return
		}

		r.steps++
		stepStart := r.clock.Now()
		r.hooks.FireBeforeStep(ctx, &duet.BeforeStepEvent{
			BaseEvent: r.base(),
			Step:      r.steps,
			MaxSteps:  r.cfg.MaxSteps,
		})

		stopped := r.runStep(ctx)

		r.hooks.FireAfterStep(ctx, &duet.AfterStepEvent{
			BaseEvent:  r.base(),
			Step:       r.steps,
			Duration:   r.since(stepStart),
			Terminated: stopped,
		})
		if stopped {
			return
		}
	}
	r.reason = duet.TerminationBudgetExhausted
}

// runStep executes one step and records how it ended. Returns true when the run must stop.
func (r *run) runStep(ctx context.Context) bool {
	outcome, err := r.step(ctx)
	if err != nil {
		r.stopWithError(ctx, r.steps, err)
		return true
	}
	if outcome.reason != "" {
		r.final = outcome.response
		r.reason = outcome.reason
		return true
	}
	return false
}

// stopWithError records err as the reason the run ended. A done context takes precedence over
// whatever error the interrupted call returned.
func (r *run) stopWithError(ctx context.Context, step int, err error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		r.reason = duet.TerminationCancelled
		r.err = cancellationError(ctxErr)
	} else {
		r.reason = duet.TerminationError
		r.err = cause(err)
		log.Warnf("step %d failed: %v", step, err)
	}
	r.hooks.FireError(ctx, &duet.ErrorEvent{
		BaseEvent: r.base(),
		Step:      step,
		Err:       r.err,
	})
}

// errCancelled and errInterrupted are the error texts of a cancelled run.
var (
	errCancelled   = errors.New("cancelled")
	errInterrupted = errors.New("interrupted: deadline exceeded")
)

func cancellationError(ctxErr error) error {
	if errors.Is(ctxErr, context.DeadlineExceeded) {
		return errInterrupted
	}
	return errCancelled
}

// submit hands non-empty content to an active scenario. When submission fails, the returned
// trace is a failure trace replacing the one given.
func (r *run) submit(ctx context.Context, trace *duet.Trace) *duet.Trace {
	if trace.Content == "" || !r.evalCtx.HasScenario() {
		return trace
	}
	err := r.evalCtx.Submit(context.WithoutCancel(ctx), trace.Content)
	if err == nil {
		return trace
	}

	log.Errorf("submit failed: %v", err)
	r.hooks.FireError(ctx, &duet.ErrorEvent{
		BaseEvent: r.base(),
		Step:      r.steps,
		Err:       err,
	})
	return r.failureTrace(trace, err)
}

// cleanup releases both participants. Failures are logged; they never change the trace.
func (r *run) cleanup(ctx context.Context) {
	for _, p := range []*participant{r.primary, r.counterpart} {
		if err := p.agent.Cleanup(ctx); err != nil {
			log.Warnf("cleanup %s: %v", p.role, err)
		}
	}
}

func (r *run) base() duet.BaseEvent {
	return duet.BaseEvent{RunID: r.id, Timestamp: r.clock.Now()}
}

func (r *run) since(start time.Time) time.Duration {
	return r.clock.Now().Sub(start)
}
