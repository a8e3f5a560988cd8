package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/yildizm/RankGrid/internal/config"
	"github.com/yildizm/RankGrid/internal/grid"
	"github.com/yildizm/RankGrid/internal/logger"
	"github.com/yildizm/RankGrid/internal/results"
	"github.com/yildizm/RankGrid/internal/session"
	"github.com/yildizm/RankGrid/internal/stimuli"
	"github.com/yildizm/RankGrid/internal/thumbnail"
	"github.com/yildizm/RankGrid/internal/ui"
)

var (
	runSubject    string
	runStimuli    string
	runOutput     string
	runSeed       int64
	runLogFile    string
	runValidation string
)

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a ranking session",
		Long: `Run one ranking session for a participant.

Stimuli are collected from the subdirectories of the stimuli directory,
shuffled and laid out on the grid. Rankings are written to a CSV file in the
output directory only when the session is saved.

Examples:
  rankgrid run --subject S01
  rankgrid run --stimuli ./paintings --seed 42
  rankgrid run --subject S02 --log-file session.log`,
		Args: cobra.NoArgs,
		RunE: runSession,
	}

	cmd.Flags().StringVarP(&runSubject, "subject", "s", "", "subject identifier (prompted when empty)")
	cmd.Flags().StringVar(&runStimuli, "stimuli", "", "stimuli directory")
	cmd.Flags().StringVarP(&runOutput, "output", "o", "", "output directory for ranking files")
	cmd.Flags().Int64Var(&runSeed, "seed", 0, "shuffle seed (0 = time based)")
	cmd.Flags().StringVar(&runLogFile, "log-file", "", "write the session log to a file")
	cmd.Flags().StringVar(&runValidation, "validation", "", "save-time checks (off, warn, enforce)")

	return cmd
}

func runSession(cmd *cobra.Command, args []string) error {
	cfg, err := GetGlobalConfig()
	if err != nil {
		return err
	}
	applyRunFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	subject := runSubject
	if subject == "" {
		subject, err = promptSubject(cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
	}
	if err := results.ValidateSubject(subject); err != nil {
		return err
	}

	sink, closeSink, err := openLogSink(cfg.Output.LogFile)
	if err != nil {
		return err
	}
	defer closeSink()
	log := newLogger("run").WithWriter(sink)

	board, err := prepareBoard(cfg, log)
	if err != nil {
		return err
	}

	ui.SetThemeByName(cfg.Display.Theme)
	thumbs := thumbnail.NewRenderer(ui.GetTheme().Border, log.WithComponent("thumbnail"))
	ids := make([]string, 0, board.Len())
	for _, e := range board.Entries() {
		ids = append(ids, e.Base.ID)
	}
	if failed := thumbs.Preload(ids); failed > 0 {
		log.WarnWithFields("some stimuli could not be decoded", []logger.Field{logger.Count(failed)})
	}

	opts, err := sessionOptions(cfg)
	if err != nil {
		return err
	}
	model := ui.NewSessionModel(board, opts, thumbs, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runErr := ui.Run(ctx, model)
	if buf, ok := sink.(*bytes.Buffer); ok {
		_, _ = io.Copy(os.Stderr, buf)
	}
	if runErr != nil {
		return runErr
	}

	store := results.NewCSVStore(cfg.Output.Directory, subject, cfg.Output.TaskTag)
	path, err := persist(context.Background(), model.Outcome(), session.NewCollector(opts.Validation), store, model.Records())
	if err != nil {
		return err
	}

	printSummary(cmd.OutOrStdout(), model.Outcome(), path, board.Filled(), board.Len())
	return nil
}

func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("stimuli") {
		cfg.Stimuli.Directory = runStimuli
	}
	if cmd.Flags().Changed("output") {
		cfg.Output.Directory = runOutput
	}
	if cmd.Flags().Changed("seed") {
		cfg.Stimuli.Seed = runSeed
	}
	if cmd.Flags().Changed("log-file") {
		cfg.Output.LogFile = runLogFile
	}
	if cmd.Flags().Changed("validation") {
		cfg.Session.Validation = runValidation
	}
	if verbose {
		cfg.Output.Verbose = true
	}
}

// prepareBoard scans, shuffles and lays out the stimuli. Too few stimuli or a
// missing stimuli directory abort the run before the session starts.
func prepareBoard(cfg *config.Config, log *logger.Logger) (*session.Board, error) {
	paths, err := stimuli.NewScanner(cfg.Stimuli.Extensions).Scan(cfg.Stimuli.Directory)
	if err != nil {
		return nil, err
	}

	rng := stimuli.NewRand(cfg.Stimuli.Seed, func() int64 { return time.Now().UnixNano() })
	shuffled := stimuli.Shuffle(paths, rng)

	g, err := cfg.Layout().Build(shuffled)
	if err != nil {
		if errors.Is(err, grid.ErrInsufficientStimuli) {
			return nil, fmt.Errorf("stimuli directory %s: %w", cfg.Stimuli.Directory, err)
		}
		return nil, err
	}

	log.InfoWithFields("grid built", []logger.Field{
		logger.F("found", len(paths)),
		logger.F("rows", cfg.Grid.Rows),
		logger.F("cols", cfg.Grid.Cols),
	})
	return session.NewBoard(g), nil
}

func sessionOptions(cfg *config.Config) (ui.SessionOptions, error) {
	button, err := ui.ParseButton(cfg.Focus.PointerButton)
	if err != nil {
		return ui.SessionOptions{}, err
	}
	return ui.SessionOptions{
		Instruction:   cfg.Instruction(),
		SaveKey:       cfg.Session.SaveKey,
		CancelKey:     cfg.Session.CancelKey,
		FrameInterval: cfg.Session.FrameInterval,
		Focus: session.FocusConfig{
			EnlargedSize: cfg.EnlargedSize(),
			Dwell:        cfg.Focus.Dwell,
			Button:       button,
		},
		Validation: session.ValidationMode(cfg.Session.Validation),
	}, nil
}

// persist writes the records only for a saved session
func persist(ctx context.Context, outcome session.Outcome, collector *session.Collector, sink session.Sink, records []session.Record) (string, error) {
	if outcome != session.Saved {
		return "", nil
	}
	return collector.Deliver(ctx, sink, records)
}

func promptSubject(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "Subject ID: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read subject: %w", err)
	}
	subject := strings.TrimSpace(line)
	if subject == "" {
		return "", fmt.Errorf("%w: no subject entered", results.ErrInvalidSubject)
	}
	return subject, nil
}

// openLogSink returns the log file, or a buffer flushed after the session
// since the alternate screen owns the terminal while it runs.
func openLogSink(path string) (io.Writer, func(), error) {
	if path == "" {
		return &bytes.Buffer{}, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600) // #nosec G304 - path is a user flag
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return f, func() { _ = f.Close() }, nil
}

func printSummary(out io.Writer, outcome session.Outcome, path string, filled, total int) {
	switch outcome {
	case session.Saved:
		fmt.Fprintf(out, "%s Rankings saved to %s\n", GetEmoji("success"), path)
	default:
		fmt.Fprintf(out, "%s Session cancelled, no rankings saved\n", GetEmoji("door"))
	}
	fmt.Fprintf(out, "   Ranked: %d/%d %s\n", filled, total, completionBar(filled, total))
}
