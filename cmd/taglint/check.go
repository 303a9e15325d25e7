package main

import (
	"strings"

	"github.com/spf13/cobra"

	"taglint/internal/core/version"
	"taglint/internal/platform/config"
	perr "taglint/internal/platform/errors"
	"taglint/internal/platform/logger"
	"taglint/internal/platform/metrics"
	"taglint/internal/platform/store"
	defectsmod "taglint/internal/services/defects/module"
	lintmod "taglint/internal/services/lint/module"
)

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [input]",
		Short: "Lint a GeoJSON input and write its defects",
		Long: `check lints one input ("-" or no argument reads stdin) and writes defects to
the selected output: ndjson (stdout or --out-file), geojson (one file per
destination in --out-dir), pg or ch (one table per destination).`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) > 1 {
				return perr.Validationf("check takes at most one input, got %d", len(args))
			}
			return nil
		},
		RunE: runCheck,
	}

	f := cmd.Flags()
	f.StringP("output", "o", defectsmod.OutputNDJSON, "Output backend (ndjson, geojson, pg, ch)")
	f.String("out-file", "-", "ndjson output file, - is stdout")
	f.String("out-dir", "taglint-out", "geojson output directory")
	f.String("table-prefix", "", "Prefix for destination names")
	f.Int("batch-size", 500, "Rows per database insert")
	f.String("classes", "", "Classes YAML replacing the embedded road and place lists")
	f.String("metrics-file", "", "Write prometheus metrics to this file when the run ends")
	f.Int("progress-every", 100000, "Log progress every n features, 0 disables")
	f.Bool("skip-invalid", false, "Skip features that cannot be checked instead of failing")
	f.String("pg-url", "", "Postgres URL for the pg output")
	f.String("ch-url", "", "ClickHouse URL for the ch output")
	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := config.New()
	log := logger.Named("check")

	lopts := lintmod.FromConfig(cfg)
	if len(args) == 1 {
		lopts.Input = args[0]
	}
	dopts := defectsmod.FromConfig(cfg)
	applyCheckFlags(cmd, &lopts, &dopts)
	if err := dopts.Validate(); err != nil {
		return err
	}

	info := version.Info()
	sc, err := dopts.StoreConfig(cfg, info.Name, info.Version)
	if err != nil {
		return err
	}
	st, err := store.Open(ctx, sc, store.WithLogger(*log))
	if err != nil {
		return perr.WrapIf(err, perr.ErrorCodeUnavailable, "open store")
	}
	defer func() {
		if err := st.Close(ctx); err != nil {
			log.Error().Err(err).Msg("failed to close store")
		}
	}()
	if err := st.Guard(ctx); err != nil {
		return perr.WrapIf(err, perr.ErrorCodeUnavailable, "ping store")
	}

	dm, err := defectsmod.New(defectsmod.Deps{Store: st, Stdout: cmd.OutOrStdout(), Log: *log}, dopts)
	if err != nil {
		return err
	}
	lm, err := lintmod.New(lintmod.Deps{Writer: dm.Ports().Writer, Metrics: metrics.New(), Log: *log}, lopts)
	if err != nil {
		return err
	}

	sum, err := lm.Run(ctx)
	if err != nil {
		return err
	}
	for name, n := range dm.Ports().Writer.Counts() {
		log.Debug().Str("destination", name).Int("records", n).Msg("destination written")
	}
	log.Info().Str("run_id", sum.RunID).Str("output", dopts.Output).Int64("defects", sum.Defects).Msg("check done")
	return nil
}

// applyCheckFlags overrides config values with the flags set on the command line
func applyCheckFlags(cmd *cobra.Command, lo *lintmod.Options, do *defectsmod.Options) {
	f := cmd.Flags()
	str := func(name string, dst *string) {
		if f.Changed(name) {
			*dst, _ = f.GetString(name)
		}
	}
	str("output", &do.Output)
	do.Output = strings.ToLower(do.Output)
	str("out-file", &do.File)
	str("out-dir", &do.Dir)
	str("table-prefix", &do.Prefix)
	str("pg-url", &do.PGURL)
	str("ch-url", &do.CHURL)
	str("classes", &lo.ClassesFile)
	str("metrics-file", &lo.MetricsFile)
	if f.Changed("batch-size") {
		do.BatchSize, _ = f.GetInt("batch-size")
	}
	if f.Changed("progress-every") {
		n, _ := f.GetInt("progress-every")
		lo.ProgressEvery = int64(n)
	}
	if f.Changed("skip-invalid") {
		lo.SkipInvalid, _ = f.GetBool("skip-invalid")
	}
}
