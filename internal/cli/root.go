// Package cli implements the duet command-line interface using Cobra.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rickchristie/duet"
	"github.com/rickchristie/duet/config"
	"github.com/rickchristie/duet/log"
	"github.com/rickchristie/duet/models"
	"github.com/spf13/cobra"
	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/term"
)

// ModelFactory builds the model named model.
type ModelFactory func(cfg *config.Config, model string) (duet.Model, error)

// LineReaderFactory opens the terminal reader used by --human.
type LineReaderFactory func(prompt string) (LineReader, error)

// LineReader reads lines typed by a person and is closed when the run ends.
type LineReader interface {
	Readline() (string, error)
	Close() error
}

// app holds what the commands share.
type app struct {
	cfgFile string
	verbose bool
	cfg     *config.Config

	newModel  ModelFactory
	newReader LineReaderFactory
	isTTY     func(w io.Writer) bool
}

// Option customizes the command tree.
type Option func(*app)

// WithModelFactory replaces how models are built.
func WithModelFactory(f ModelFactory) Option {
	return func(a *app) { a.newModel = f }
}

// WithLineReaderFactory replaces how the --human reader is opened.
func WithLineReaderFactory(f LineReaderFactory) Option {
	return func(a *app) { a.newReader = f }
}

// NewRootCommand builds the duet command tree.
func NewRootCommand(opts ...Option) *cobra.Command {
	a := &app{
		newModel:  openAIModel,
		newReader: readlineReader,
		isTTY:     isTerminal,
	}
	for _, opt := range opts {
		opt(a)
	}

	root := &cobra.Command{
		Use:   "duet",
		Short: "duet - dual-agent conversation harness",
		Long: `duet runs a turn-based conversation between an agent under evaluation and a
simulated user, and grades the outcome.

The bundled scenario is the two-switch bulb: the agent controls one switch, the user controls
the other, and the bulb lights only when both are on.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig()
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ~/.duet/config.yaml)")
	root.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "enable debug logging")

	root.AddCommand(a.newRunCommand(), a.newToolsCommand())
	return root
}

// Execute runs the root command until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCommand().ExecuteContext(ctx)
}

func (a *app) initConfig() error {
	path := a.cfgFile
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := cfg.Log.Level
	if a.verbose {
		level = log.LevelDebug
	}
	log.SetLevel(level)
	return nil
}

func openAIModel(cfg *config.Config, model string) (duet.Model, error) {
	opts := []openai.Option{openai.WithModel(model)}
	if key := cfg.APIKey(); key != "" {
		opts = append(opts, openai.WithToken(key))
	}
	if cfg.Provider.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.Provider.BaseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create model %s: %w", model, err)
	}
	return models.NewLCGWrapper(llm).WithModelName(model), nil
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
