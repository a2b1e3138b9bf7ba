package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"yashubustudio/yogapose/internal/logging"
	"yashubustudio/yogapose/internal/server"
	"yashubustudio/yogapose/recommender"
)

const wordWrap = 80

type rootOptions struct {
	configPath  string
	datasetPath string
	logLevel    string

	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{stdout: stdout, stderr: stderr}
	root := &cobra.Command{
		Use:           "yoga-cli",
		Short:         "Yoga pose recommendations for a pain description",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "Path to config.yaml (default: ./config.yaml)")
	pf.StringVar(&opts.datasetPath, "dataset", "", "Pose table CSV/TSV (overrides dataset_path)")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")

	root.AddCommand(newRecommendCmd(opts), newLabelsCmd(opts), newServeCmd(opts))
	return root
}

// load builds the service from config, flags and the dataset.
func (o *rootOptions) load() (*recommender.Service, zerolog.Logger, error) {
	cfg, err := recommender.LoadConfig(o.configPath)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("load config: %w", err)
	}
	if o.datasetPath != "" {
		cfg.DatasetPath = o.datasetPath
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	logger := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: o.stderr,
	})

	ds, err := recommender.LoadDataset(cfg.DatasetPath)
	if err != nil {
		return nil, logger, fmt.Errorf("load dataset: %w", err)
	}
	svc, err := recommender.NewService(ds, cfg, logger)
	if err != nil {
		return nil, logger, err
	}
	return svc, logger, nil
}

type recommendOptions struct {
	lang    string
	level   string
	plain   bool
	explain bool
}

func newRecommendCmd(root *rootOptions) *cobra.Command {
	var opts recommendOptions
	cmd := &cobra.Command{
		Use:   "recommend <pain description...>",
		Short: "Resolve a pain description and print matching poses",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecommend(cmd.Context(), root, opts, strings.Join(args, " "))
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.lang, "lang", "l", "", "Language: English, Hindi, Telugu or a tag such as hi")
	f.StringVar(&opts.level, "level", "", "Fitness level: Beginner, Intermediate, Advanced")
	f.BoolVar(&opts.plain, "plain", false, "Print raw markdown instead of rendering it")
	f.BoolVar(&opts.explain, "explain", false, "Print the similarity score of every pain area")
	return cmd
}

func runRecommend(ctx context.Context, root *rootOptions, opts recommendOptions, query string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	req := recommender.Request{Query: query}
	if opts.lang != "" {
		lang, err := recommender.ParseLanguage(opts.lang)
		if err != nil {
			return err
		}
		req.Language = lang
	}
	if opts.level != "" {
		lvl, err := recommender.ParseFitnessLevel(opts.level)
		if err != nil {
			return err
		}
		req.Fitness = lvl
	}

	svc, _, err := root.load()
	if err != nil {
		return err
	}
	res, err := svc.Recommend(ctx, req)
	if err != nil {
		return err
	}

	if !res.Found() {
		fmt.Fprintln(root.stdout, warnStyle.Render(res.Message))
	} else {
		fmt.Fprintln(root.stdout, okStyle.Render(res.Message))
		if err := writeMarkdown(root.stdout, entriesMarkdown(res), opts.plain); err != nil {
			return err
		}
	}
	if opts.explain {
		exp, err := svc.Explain(query)
		if err != nil {
			return err
		}
		writeExplanation(root.stdout, svc.PainLabels(), exp)
	}
	return nil
}

// entriesMarkdown is the rendered result without its leading message line.
func entriesMarkdown(res recommender.Result) string {
	md := recommender.RenderMarkdown(res)
	return strings.TrimPrefix(md, res.Message+"\n\n")
}

func writeMarkdown(w io.Writer, md string, plain bool) error {
	if plain {
		_, err := io.WriteString(w, md)
		return err
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wordWrap),
	)
	if err != nil {
		return fmt.Errorf("markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

func writeExplanation(w io.Writer, labels []string, exp recommender.Resolution) {
	type row struct {
		label string
		score float64
	}
	rows := make([]row, 0, len(labels))
	for i, l := range labels {
		if i < len(exp.Scores) {
			rows = append(rows, row{l, exp.Scores[i]})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].score > rows[j].score })

	fmt.Fprintln(w, dimStyle.Render("similarity"))
	t := plainTable()
	for _, r := range rows {
		marker := ""
		if r.label == exp.Label {
			marker = "*"
		}
		t.Row(r.label, fmt.Sprintf("%.4f", r.score), marker)
	}
	fmt.Fprintln(w, t.Render())
}

// plainTable is a borderless table that stays readable without color.
func plainTable() *table.Table {
	return table.New().
		Border(lipgloss.HiddenBorder()).
		BorderHeader(false).
		StyleFunc(func(_, _ int) lipgloss.Style {
			return lipgloss.NewStyle().PaddingRight(2)
		})
}

func newLabelsCmd(root *rootOptions) *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:   "labels",
		Short: "List the pain areas queries are matched against",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, _, err := root.load()
			if err != nil {
				return err
			}
			target := svc.Config().DefaultLanguage
			if lang != "" {
				if target, err = recommender.ParseLanguage(lang); err != nil {
					return err
				}
			}
			t := plainTable()
			for _, l := range svc.PainLabels() {
				t.Row(l, recommender.LocalizeLabel(l, target))
			}
			_, err = fmt.Fprintln(root.stdout, t.Render())
			return err
		},
	}
	cmd.Flags().StringVarP(&lang, "lang", "l", "", "Language for the localized column")
	return cmd
}

func newServeCmd(root *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, logger, err := root.load()
			if err != nil {
				return err
			}
			srvCfg := svc.Config().Server
			if addr != "" {
				srvCfg.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return server.New(svc, srvCfg, logger).Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}
