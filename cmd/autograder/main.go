package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pavelanni/autograder/internal/bank"
	"github.com/pavelanni/autograder/internal/embed"
	"github.com/pavelanni/autograder/internal/grade"
	"github.com/pavelanni/autograder/internal/handler"
	"github.com/pavelanni/autograder/internal/model"
	"github.com/pavelanni/autograder/internal/nlp"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "autograder",
		Short: "Hybrid grader for free-text exam answers",
	}
	root.AddCommand(gradeCmd(), batchCmd(), serveCmd())
	return root
}

// graderFlags registers the flags shared by every command that needs a
// grader: bank location, embedding backend, and all calibration knobs.
func graderFlags(f *pflag.FlagSet) {
	f.StringP("bank", "b", "questions.csv", "Path to the question bank CSV")
	f.String("embedder", "lexical", "Embedding backend (lexical, openai)")
	f.String("llm-url", "http://localhost:11434/v1", "OpenAI-compatible API base URL (openai backend)")
	f.String("llm-key", "ollama", "API key for the embeddings endpoint")
	f.String("llm-model", "nomic-embed-text", "Embedding model name")
	f.Float64("w-concept", 0.25, "Weight of the concept-coverage signal")
	f.Float64("w-relation", 0.30, "Weight of the relation-matching signal")
	f.Float64("w-semantic", 0.35, "Weight of the semantic-similarity signal")
	f.Float64("w-penalty", 0.10, "Weight of the anti-gaming penalty")
	f.Float64("sim-floor", 0.05, "Cosine similarity floor before any semantic credit")
	f.Float64("sim-exponent", 1.1, "Exponent of the similarity rescale")
	f.Int("stuffing-limit", 3, "Keyword occurrences before repetition is penalized")
	f.Float64("noun-verb-ratio", 5, "Noun/verb ratio above which structure is penalized")
	f.Float64("length-ratio", 3, "Student/teacher length ratio above which rambling is penalized")
	f.Float64("correct-threshold", 0.5, "Normalized score above which an answer counts as correct")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
}

func gradeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grade",
		Short: "Grade a single answer and print the breakdown",
		RunE:  runGrade,
	}
	f := cmd.Flags()
	graderFlags(f)
	f.StringP("question", "q", "", "Question ID from the bank (required)")
	f.StringP("answer", "a", "", "Student answer text")
	f.String("answer-file", "", "Read the student answer from a file (- for stdin)")
	_ = cmd.MarkFlagRequired("question")
	return cmd
}

func batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Grade a CSV of submissions and emit a JSON report",
		RunE:  runBatch,
	}
	f := cmd.Flags()
	graderFlags(f)
	f.StringP("submissions", "s", "", "Path to the submissions CSV (required)")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	_ = cmd.MarkFlagRequired("submissions")
	return cmd
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the grader over HTTP",
		RunE:  runServe,
	}
	f := cmd.Flags()
	graderFlags(f)
	f.StringP("addr", "l", ":8080", "HTTP listen address")
	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

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

	v.SetEnvPrefix("AUTOGRADER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("autograder")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/autograder")
	v.AddConfigPath("/etc/autograder")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func gradeConfig(v *viper.Viper) grade.Config {
	return grade.Config{
		WConcept:         v.GetFloat64("w-concept"),
		WRelation:        v.GetFloat64("w-relation"),
		WSemantic:        v.GetFloat64("w-semantic"),
		WPenalty:         v.GetFloat64("w-penalty"),
		SimFloor:         v.GetFloat64("sim-floor"),
		SimExponent:      v.GetFloat64("sim-exponent"),
		StuffingLimit:    v.GetInt("stuffing-limit"),
		NounVerbRatio:    v.GetFloat64("noun-verb-ratio"),
		LengthRatio:      v.GetFloat64("length-ratio"),
		CorrectThreshold: v.GetFloat64("correct-threshold"),
	}
}

// newGrader builds the process-wide grader: the NLP pipeline and the
// selected embedding backend are loaded once here and shared by all calls.
func newGrader(ctx context.Context, v *viper.Viper) (*grade.Grader, error) {
	pipeline, err := nlp.NewPipeline()
	if err != nil {
		return nil, fmt.Errorf("create NLP pipeline: %w", err)
	}

	var enc embed.Encoder
	switch backend := strings.ToLower(v.GetString("embedder")); backend {
	case "lexical":
		enc = embed.NewLexical()
	case "openai":
		client := embed.NewOpenAI(v.GetString("llm-url"), v.GetString("llm-key"), v.GetString("llm-model"))
		if err := client.Ping(ctx); err != nil {
			return nil, fmt.Errorf("embeddings health check: %w", err)
		}
		slog.Info("embeddings endpoint OK", "url", v.GetString("llm-url"), "model", v.GetString("llm-model"))
		enc = client
	default:
		return nil, fmt.Errorf("unknown embedder %q (want lexical or openai)", backend)
	}

	g, err := grade.New(gradeConfig(v), pipeline, enc)
	if err != nil {
		return nil, fmt.Errorf("create grader: %w", err)
	}
	return g, nil
}

func loadBank(v *viper.Viper) (map[string]model.QuestionConfig, []model.QuestionConfig, error) {
	configs, err := bank.Load(v.GetString("bank"))
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[string]model.QuestionConfig, len(configs))
	for _, q := range configs {
		byID[q.QuestionID] = q
	}
	slog.Info("loaded question bank", "path", v.GetString("bank"), "questions", len(configs))
	return byID, configs, nil
}

func runGrade(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)
	ctx := cmd.Context()

	byID, _, err := loadBank(v)
	if err != nil {
		return err
	}
	q, ok := byID[v.GetString("question")]
	if !ok {
		return fmt.Errorf("question %q not found in bank", v.GetString("question"))
	}

	answer := v.GetString("answer")
	if path := v.GetString("answer-file"); path != "" {
		var data []byte
		if path == "-" {
			data, err = io.ReadAll(os.Stdin)
		} else {
			data, err = os.ReadFile(path)
		}
		if err != nil {
			return fmt.Errorf("read answer: %w", err)
		}
		answer = string(data)
	}

	g, err := newGrader(ctx, v)
	if err != nil {
		return err
	}

	breakdown, err := g.Grade(ctx, q, answer)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(breakdown, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func runBatch(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)
	ctx := cmd.Context()

	byID, _, err := loadBank(v)
	if err != nil {
		return err
	}
	subs, err := bank.LoadSubmissions(v.GetString("submissions"))
	if err != nil {
		return err
	}
	g, err := newGrader(ctx, v)
	if err != nil {
		return err
	}

	report := gradeBatch(ctx, g, byID, subs)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}

	outPath := v.GetString("output")
	var w io.Writer
	if outPath == "" || outPath == "-" {
		w = os.Stdout
	} else {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	_, _ = fmt.Fprintln(w)
	return nil
}

// gradeBatch grades every submission. A failed call marks that row as
// ungraded and never disturbs the rows already scored.
func gradeBatch(ctx context.Context, g *grade.Grader, byID map[string]model.QuestionConfig, subs []bank.Submission) model.Report {
	report := model.Report{GradedAt: time.Now().UTC()}
	for _, sub := range subs {
		row := model.ReportRow{QuestionID: sub.QuestionID}
		q, ok := byID[sub.QuestionID]
		if !ok {
			row.Error = "question not found in bank"
			report.Results = append(report.Results, row)
			continue
		}
		report.MaxPossible += q.MaxScore

		breakdown, err := g.Grade(ctx, q, sub.Answer)
		if err != nil {
			var ge *model.GradeError
			if !errors.As(err, &ge) && !errors.Is(err, model.ErrConfig) {
				// Unexpected failure class; still ungraded, but say so loudly.
				slog.Error("grading failed", "question", sub.QuestionID, "error", err)
			}
			row.Error = err.Error()
			report.Results = append(report.Results, row)
			continue
		}

		row.Breakdown = breakdown
		row.Percent = breakdown.Normalized * 100
		report.TotalScore += breakdown.FinalScore
		report.Results = append(report.Results, row)
	}
	if report.MaxPossible > 0 {
		report.Percent = report.TotalScore / report.MaxPossible * 100
	}
	return report
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)
	ctx := cmd.Context()

	_, configs, err := loadBank(v)
	if err != nil {
		return err
	}
	g, err := newGrader(ctx, v)
	if err != nil {
		return err
	}

	h := handler.New(g, configs)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	h.Routes(r)

	addr := v.GetString("addr")
	slog.Info("starting server",
		"addr", addr,
		"embedder", v.GetString("embedder"),
		"questions", len(configs),
	)
	return http.ListenAndServe(addr, r)
}
