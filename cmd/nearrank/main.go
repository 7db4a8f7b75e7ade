// nearrank computes exact quantiles of values read one per line.
//
//	seq 1 100 | nearrank --type int4 --quantiles '{0.25,0.5,0.75}'
//	{25,50,75}
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/nikandfor/nearrank/agg"
)

func main() {
	err := newRootCmd().Execute()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configFile string
		flagCfg    = defaultConfig()
		quantile   float64
		quantiles  ArrayFlag
	)

	cmd := &cobra.Command{
		Use:   "nearrank [flags] [file...]",
		Short: "compute exact nearest-rank quantiles of values read one per line",
		Long: `Reads values one per line from the files or stdin and prints the quantiles.
Empty lines, NULL and \N are absent values and are skipped.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := defaultConfig()

			if configFile != "" {
				err := loadConfig(configFile, &cfg)
				if err != nil {
					return err
				}
			}

			fs := cmd.Flags()

			if fs.Changed("type") {
				cfg.Type = flagCfg.Type
			}
			if fs.Changed("quantile") {
				cfg.Quantile, cfg.Quantiles = &quantile, nil
			}
			if fs.Changed("quantiles") {
				cfg.Quantile, cfg.Quantiles = nil, &quantiles
			}
			if fs.Changed("slice-size") {
				cfg.SliceSize = flagCfg.SliceSize
			}
			if fs.Changed("memory-limit") {
				cfg.MemoryLimit = flagCfg.MemoryLimit
			}
			if fs.Changed("format") {
				cfg.Format = flagCfg.Format
			}
			if fs.Changed("log-level") {
				cfg.LogLevel = flagCfg.LogLevel
			}

			err := cfg.Validate()
			if err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			return run(cmd, args, cfg)
		},
	}

	fs := cmd.Flags()

	fs.StringVarP(&configFile, "config", "c", "", "YAML config file")
	fs.StringVarP(&flagCfg.Type, "type", "t", flagCfg.Type, "element type. float8|int4|int8|numeric")
	fs.Float64VarP(&quantile, "quantile", "q", 0.5, "single quantile fraction, prints a scalar")
	fs.Var(&quantiles, "quantiles", "quantile fractions array literal, e.g. '{0.5,0.9,0.99}', prints an array")
	fs.IntVar(&flagCfg.SliceSize, "slice-size", flagCfg.SliceSize, "buffer growth step in elements")
	fs.Int64Var(&flagCfg.MemoryLimit, "memory-limit", 0, "buffer memory limit in bytes, 0 for unlimited")
	fs.StringVar(&flagCfg.Format, "format", flagCfg.Format, "output format. text|yaml|table")
	fs.StringVar(&flagCfg.LogLevel, "log-level", flagCfg.LogLevel, "log level. debug|info|warn|error")

	cmd.MarkFlagsMutuallyExclusive("quantile", "quantiles")

	return cmd
}

func run(cmd *cobra.Command, args []string, cfg Config) (err error) {
	log, err := newLogger(cfg.LogLevel, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	defer func() {
		_ = log.Sync()
	}()

	kind, err := agg.ParseKind(cfg.Type)
	if err != nil {
		return err
	}

	q := cfg.Fractions()

	qs, err := q.Parse()
	if err != nil {
		return fmt.Errorf("quantiles: %w", err)
	}

	g, err := agg.New(kind, q,
		agg.WithSliceSize(cfg.SliceSize),
		agg.WithMemoryLimit(cfg.MemoryLimit),
		agg.WithLogger(log),
	)
	if err != nil {
		return err
	}

	defer g.Close()

	var st stats

	if len(args) == 0 {
		err = feed(g, kind, "stdin", cmd.InOrStdin(), &st)
	}

	for _, name := range args {
		err = feedFile(g, kind, name, &st)
		if err != nil {
			break
		}
	}

	if err != nil {
		log.Error("aggregation failed", zap.Error(err), zap.Int("present", st.present), zap.Int("absent", st.absent))
		return err
	}

	res, err := g.Final()
	if err != nil {
		return err
	}

	log.Info("aggregation done", zap.Int("present", st.present), zap.Int("absent", st.absent), zap.Bool("null", res.Null))

	return write(cmd.OutOrStdout(), cfg.Format, qs, res)
}

type stats struct {
	present, absent int
}

func feedFile(g *agg.Aggregation, kind agg.Kind, name string, st *stats) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}

	defer f.Close()

	return feed(g, kind, name, f, st)
}

func feed(g *agg.Aggregation, kind agg.Kind, name string, r io.Reader, st *stats) error {
	sc := bufio.NewScanner(r)

	line := 0

	for sc.Scan() {
		line++

		v, err := agg.ParseValue(kind, sc.Text())
		if err != nil {
			return fmt.Errorf("%v:%d: %w", name, line, err)
		}

		err = g.Add(v)
		if err != nil {
			return fmt.Errorf("%v:%d: %w", name, line, err)
		}

		if v.Valid {
			st.present++
		} else {
			st.absent++
		}
	}

	return sc.Err()
}

func write(w io.Writer, format string, qs []float64, res agg.Result) error {
	switch format {
	case "text":
		_, err := fmt.Fprintln(w, res.String())
		return err
	case "table":
		writeTable(w, qs, res)
		return nil
	}

	rep := struct {
		Type      agg.Kind   `yaml:"type"`
		Quantiles []float64  `yaml:"quantiles"`
		Result    *yaml.Node `yaml:"result"`
	}{
		Type:      res.Kind,
		Quantiles: qs,
		Result:    resultNode(res),
	}

	e := yaml.NewEncoder(w)
	e.SetIndent(2)

	err := e.Encode(rep)
	if err != nil {
		return err
	}

	return e.Close()
}

func writeTable(w io.Writer, qs []float64, res agg.Result) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Quantile", res.Kind.String()})

	for i, q := range qs {
		if res.Null {
			t.AppendRow(table.Row{q, "NULL"})
			continue
		}

		t.AppendRow(table.Row{q, fmt.Sprint(res.Values[i])})
	}

	t.Render()
}

func resultNode(res agg.Result) *yaml.Node {
	if res.Null {
		return &yaml.Node{Kind: yaml.ScalarNode, Value: "null"}
	}

	// numbers are emitted plain so decimals keep all their digits
	scalar := func(v any) *yaml.Node {
		return &yaml.Node{Kind: yaml.ScalarNode, Value: fmt.Sprint(v)}
	}

	if !res.Array {
		return scalar(res.Values[0])
	}

	n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}

	for _, v := range res.Values {
		n.Content = append(n.Content, scalar(v))
	}

	return n
}

func newLogger(level string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	enc := zap.NewDevelopmentEncoderConfig()

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), lvl)

	return zap.New(core), nil
}
