package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chzyer/readline"
	"github.com/rickchristie/duet"
	"github.com/rickchristie/duet/agents/chat"
	"github.com/rickchristie/duet/agents/human"
	"github.com/rickchristie/duet/config"
	"github.com/rickchristie/duet/conversation"
	"github.com/rickchristie/duet/eval"
	"github.com/rickchristie/duet/hooks"
	"github.com/rickchristie/duet/log"
	"github.com/rickchristie/duet/loggers"
	"github.com/rickchristie/duet/scenario/bulb"
	"github.com/rickchristie/duet/telemetry"
	"github.com/spf13/cobra"
	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap/zapcore"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

type runOptions struct {
	human      bool
	agentModel string
	userModel  string
	maxSteps   int
	backend    string
	logFile    string
	jsonOutput bool
}

func (a *app) newRunCommand() *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the bulb scenario once and print the reward",
		Long: `Run the bulb scenario: the agent model tries to light the bulb with help from a
simulated user, or from you with --human.

Examples:
  duet run
  duet run --agent-model gpt-4o --max-steps 10
  duet run --human
  duet run --backend http --log-file .logs/run.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.human, "human", false, "play the user yourself")
	f.StringVar(&opts.agentModel, "agent-model", "", "agent model (overrides config)")
	f.StringVar(&opts.userModel, "user-model", "", "simulated user model (overrides config)")
	f.IntVar(&opts.maxSteps, "max-steps", 0, "step budget, -1 for unlimited (overrides config)")
	f.StringVar(&opts.backend, "backend", "", "switch backend: memory or http (overrides config)")
	f.StringVar(&opts.logFile, "log-file", "", "write a YAML transcript to this file")
	f.BoolVar(&opts.jsonOutput, "json", false, "emit JSON output")
	return cmd
}

// effectiveConfig applies the flags that were set over the loaded configuration.
func (a *app) effectiveConfig(cmd *cobra.Command, opts *runOptions) (*config.Config, error) {
	cfg := *a.cfg
	if opts.agentModel != "" {
		cfg.Agent.Model = opts.agentModel
	}
	if opts.userModel != "" {
		cfg.User.Model = opts.userModel
	}
	if cmd.Flags().Changed("max-steps") {
		cfg.Run.MaxSteps = opts.maxSteps
	}
	if opts.backend != "" {
		cfg.Backend.Kind = opts.backend
	}
	if opts.logFile != "" {
		cfg.Log.File = opts.logFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (a *app) run(cmd *cobra.Command, opts *runOptions) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	color := !opts.jsonOutput && a.isTTY(out)

	cfg, err := a.effectiveConfig(cmd, opts)
	if err != nil {
		return err
	}

	evalCtx, err := eval.Start(ctx, bulb.NewScenario(newBackend(cfg)))
	if err != nil {
		return err
	}
	defer evalCtx.Close(ctx)

	agentModel, err := a.newModel(cfg, cfg.Agent.Model)
	if err != nil {
		return err
	}
	primary := newChatAgent(agentModel, cfg.Agent, bulb.AgentInstruction, bulb.AgentTools)

	var counterpart duet.Agent
	if opts.human {
		rl, err := a.newReader(prompt(color))
		if err != nil {
			return fmt.Errorf("failed to create readline: %w", err)
		}
		defer rl.Close()
		counterpart = human.NewAgent(rl, out).WithColor(color)
	} else {
		userModel, err := a.newModel(cfg, cfg.User.Model)
		if err != nil {
			return err
		}
		counterpart = newChatAgent(userModel, cfg.User, bulb.UserInstruction, bulb.UserTools)
	}

	registry, closeLogs, err := newHooks(cfg)
	if err != nil {
		return err
	}
	defer closeLogs()

	conv := cfg.Conversation()
	conv.Hooks = registry
	trace, err := conversation.Run(ctx, evalCtx, primary, counterpart, conv)
	if err != nil {
		return err
	}

	if opts.jsonOutput {
		return printJSON(out, trace, evalCtx)
	}
	printResult(out, trace, evalCtx, color)
	return nil
}

func newBackend(cfg *config.Config) bulb.Backend {
	if cfg.Backend.Kind == config.BackendHTTP {
		return bulb.NewHTTPBackend(cfg.Backend.AgentURL, cfg.Backend.UserURL)
	}
	return bulb.NewMemoryBackend()
}

func newChatAgent(
	model duet.Model,
	pc config.ParticipantConfig,
	defaultPrompt string,
	defaultTools []string,
) *chat.Agent {
	systemPrompt := pc.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = defaultPrompt
	}
	allowed := pc.AllowedTools
	if len(allowed) == 0 {
		allowed = defaultTools
	}

	agent := chat.NewAgent(model).
		WithSystemPrompt(systemPrompt).
		WithAllowedTools(allowed...).
		WithResponseTimeout(pc.ResponseTimeout)
	if pc.Temperature > 0 {
		agent.WithCallOptions(llms.WithTemperature(pc.Temperature))
	}
	return agent
}

// newHooks registers the diagnostic logger, the tracer and, when configured, the YAML
// transcript. The returned func closes the transcript file.
func newHooks(cfg *config.Config) (*hooks.Registry, func(), error) {
	registry := hooks.NewRegistry().
		Register(loggers.NewZapHook(log.New(zapcore.AddSync(os.Stderr)).Desugar())).
		Register(telemetry.NewHook(nil))

	if cfg.Log.File == "" {
		return registry, func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.Create(cfg.Log.File)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create log file: %w", err)
	}
	registry.Register(loggers.NewYAMLHook(f))
	return registry, func() { _ = f.Close() }, nil
}

func prompt(color bool) string {
	if color {
		return colorCyan + colorBold + "You: " + colorReset
	}
	return "You: "
}

func readlineReader(prompt string) (LineReader, error) {
	return readline.New(prompt)
}

type result struct {
	RunID   string         `json:"run_id"`
	Reason  string         `json:"reason"`
	Steps   int            `json:"steps"`
	Content string         `json:"content"`
	IsError bool           `json:"is_error"`
	Reward  float64        `json:"reward"`
	Success bool           `json:"success"`
	Info    map[string]any `json:"info,omitempty"`
}

func printJSON(w io.Writer, trace *duet.Trace, evalCtx *eval.Context) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result{
		RunID:   trace.RunID,
		Reason:  string(trace.Reason),
		Steps:   trace.Steps,
		Content: trace.Content,
		IsError: trace.IsError,
		Reward:  evalCtx.Reward(),
		Success: evalCtx.Success(),
		Info:    trace.Info,
	})
}

func printResult(w io.Writer, trace *duet.Trace, evalCtx *eval.Context, color bool) {
	paint := func(code, s string) string {
		if !color {
			return s
		}
		return code + s + colorReset
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Reason:  %s (%d steps)\n", trace.Reason, trace.Steps)
	if trace.IsError {
		fmt.Fprintf(w, "Error:   %s\n", paint(colorRed, trace.Content))
	} else {
		fmt.Fprintf(w, "Answer:  %s\n", trace.Content)
	}

	status := paint(colorYellow, "FAILED")
	if evalCtx.Success() {
		status = paint(colorGreen, "SUCCESS")
	}
	fmt.Fprintf(w, "Reward:  %.1f %s\n", evalCtx.Reward(), status)
}
