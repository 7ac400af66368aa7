package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/pavelanni/feedback/internal/collector"
	"github.com/pavelanni/feedback/internal/config"
	"github.com/pavelanni/feedback/internal/feedback"
	appI18n "github.com/pavelanni/feedback/internal/i18n"
	"github.com/pavelanni/feedback/internal/model"
	"github.com/pavelanni/feedback/internal/program"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "feedback",
		Short: "Collect training feedback from students",
	}

	collect := collectCmd()
	root.AddCommand(collect, questionsCmd(), showCmd())

	// Make "collect" the default so `feedback S002` works.
	root.RunE = collect.RunE
	root.Args = collect.Args
	root.Flags().AddFlagSet(collect.Flags())

	return root
}

func addCommonFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("phase", "p", "Mid-term", "Feedback phase name (case-insensitive)")
	f.StringP("questions", "q", "feedback_questions.txt", "Question file for phases without their own")
	f.StringP("lang", "l", "en", "Prompt language (en, ru)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
}

func collectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collect [roll-no]",
		Short: "Ask a student the phase questions and save the answers",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCollect,
	}
	addCommonFlags(cmd)
	f := cmd.Flags()
	f.StringP("output-dir", "o", feedback.DefaultDir, "Existing directory for feedback files")
	f.Bool("all", false, "Collect from every student in roster order")
	return cmd
}

func questionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "questions",
		Short: "Print the parsed question list of a phase",
		RunE:  runQuestions,
	}
	addCommonFlags(cmd)
	return cmd
}

func showCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the program, roster and phases as YAML",
		RunE:  runShow,
	}
	addCommonFlags(cmd)
	return cmd
}

func setupLogging(v *viper.Viper) {
	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("FEEDBACK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("feedback")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/feedback")
	v.AddConfigPath("/etc/feedback")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

// setup prepares logging and localization for a command and reads its
// runtime parameters.
func setup(cmd *cobra.Command) (context.Context, *viper.Viper, model.CollectConfig, error) {
	v := viperForCmd(cmd)
	setupLogging(v)

	cfg := model.CollectConfig{
		Phase:         v.GetString("phase"),
		QuestionsPath: v.GetString("questions"),
		OutputDir:     v.GetString("output-dir"),
		Lang:          v.GetString("lang"),
	}

	if err := appI18n.Init(cfg.Lang); err != nil {
		return nil, nil, cfg, fmt.Errorf("init i18n: %w", err)
	}
	return appI18n.WithLang(cmd.Context(), cfg.Lang), v, cfg, nil
}

func buildProgram(v *viper.Viper, cfg model.CollectConfig, rt program.Runtime) (*program.Program, error) {
	pc, err := config.LoadProgram(v, cfg)
	if err != nil {
		return nil, err
	}
	p, err := config.Build(pc, config.SkipRules(v), rt, time.Now())
	if err != nil {
		return nil, fmt.Errorf("build program: %w", err)
	}
	return p, nil
}

func runCollect(cmd *cobra.Command, args []string) error {
	ctx, v, cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	all := v.GetBool("all")
	if !all && len(args) == 0 {
		return fmt.Errorf("a roll number is required unless --all is set")
	}

	out := cmd.OutOrStdout()
	p, err := buildProgram(v, cfg, program.Runtime{
		Collector: collector.New(collector.NewConsole(cmd.InOrStdin(), out), out),
		Writer:    feedback.NewWriter(cfg.OutputDir),
		Out:       out,
	})
	if err != nil {
		return err
	}

	if all {
		p.CollectFromAll(ctx, cfg.Phase)
		return nil
	}

	rollNo := args[0]
	s, ok := p.FindStudent(rollNo)
	if !ok {
		slog.Warn("no student with roll number", "roll_no", rollNo)
		return nil
	}
	p.CollectFromStudent(ctx, cfg.Phase, s)
	return nil
}

func runQuestions(cmd *cobra.Command, _ []string) error {
	ctx, v, cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	p, err := buildProgram(v, cfg, program.Runtime{})
	if err != nil {
		return err
	}
	ph, ok := p.FindPhase(cfg.Phase)
	if !ok {
		slog.Warn("feedback phase not found", "phase", cfg.Phase)
		return nil
	}

	out := cmd.OutOrStdout()
	qs := ph.Questions()
	for _, q := range qs {
		fmt.Fprintf(out, "%d. %s\n", q.ID, q.Text)
	}
	fmt.Fprintln(out, appI18n.Tp(ctx, "QuestionsLoaded", len(qs)))
	return nil
}

func runShow(cmd *cobra.Command, _ []string) error {
	_, v, cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	p, err := buildProgram(v, cfg, program.Runtime{})
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(p.Snapshot()); err != nil {
		return fmt.Errorf("encode program: %w", err)
	}
	return enc.Close()
}
