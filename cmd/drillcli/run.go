package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"drillcli/internal/config"
	apperrors "drillcli/internal/errors"
	"drillcli/internal/exporter"
	"drillcli/internal/services"
	"drillcli/pkg/contracts/domain"
)

type runOptions struct {
	files       services.InputFiles
	output      string
	summary     string
	diagnostics string
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Desurvey an interval table",
		Long: `Desurvey an interval table against its collar and survey tables.

Inputs may be CSV files or Excel workbooks. The result keeps every input
column and appends x, y and z.

Examples:
  drillcli run --collar collar.csv --survey survey.csv --intervals assays.csv
  drillcli run --collar holes.xlsx --collar-sheet collar \
      --survey holes.xlsx --survey-sheet survey \
      --intervals assays.csv --format xlsx -o assays.xlsx
  drillcli run ... --dip-sign up --no-anchor --summary holes_summary.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, root)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.files.Collar, "collar", "", "Collar table file (required)")
	f.StringVar(&opts.files.CollarSheet, "collar-sheet", "", "Worksheet of the collar workbook")
	f.StringVar(&opts.files.Survey, "survey", "", "Survey table file (required)")
	f.StringVar(&opts.files.SurveySheet, "survey-sheet", "", "Worksheet of the survey workbook")
	f.StringVar(&opts.files.Intervals, "intervals", "", "Interval table file (required)")
	f.StringVar(&opts.files.IntervalsSheet, "intervals-sheet", "", "Worksheet of the interval workbook")
	_ = cmd.MarkFlagRequired("collar")
	_ = cmd.MarkFlagRequired("survey")
	_ = cmd.MarkFlagRequired("intervals")

	addMappingFlags(cmd)

	f.Int("workers", 0, "Holes processed in parallel (0 = number of CPUs)")
	f.String("dip-sign", "", "Dip convention: down (positive dip descends) or up")
	f.Bool("no-anchor", false, "Do not emit the zero-length collar row per hole")

	f.String("format", "", "Output format: csv, xlsx, sqlite, json")
	f.Int("precision", 0, "Decimals for x, y, z (-1 = shortest exact)")
	f.Bool("bom", false, "Prefix CSV output with a UTF-8 BOM")
	f.String("sheet", "", "Worksheet name for xlsx output")
	f.String("table", "", "Table name for sqlite output")
	f.StringVarP(&opts.output, "output", "o", "", "Result file (default: data/output/<intervals>_desurveyed.<format>)")
	f.StringVar(&opts.summary, "summary", "", "Also write per-hole summaries to this CSV file")
	f.StringVar(&opts.diagnostics, "diagnostics", "", "Also write run diagnostics to this CSV file")

	return cmd
}

// settings overlays this command's flags onto the loaded configuration
func (o *runOptions) settings(cmd *cobra.Command, cfg *config.Config) (*config.Config, error) {
	merged := *cfg

	applyMappingFlags(cmd, &merged.Mapping)

	overlayInt(cmd, "workers", &merged.Options.Workers)
	if cmd.Flags().Changed("dip-sign") {
		raw, _ := cmd.Flags().GetString("dip-sign")
		sign, err := parseDipSign(raw)
		if err != nil {
			return nil, err
		}
		merged.Options.DipSign = sign
	}
	if noAnchor, _ := cmd.Flags().GetBool("no-anchor"); noAnchor {
		merged.Options.AnchorRow = false
	}

	overlayString(cmd, "format", &merged.Output.Format)
	overlayInt(cmd, "precision", &merged.Output.Precision)
	overlayBool(cmd, "bom", &merged.Output.BOM)
	overlayString(cmd, "sheet", &merged.Output.Sheet)
	overlayString(cmd, "table", &merged.Output.Table)

	if err := merged.Validate(); err != nil {
		return nil, apperrors.NewAppValidationError(err.Error())
	}
	return &merged, nil
}

func (o *runOptions) run(cmd *cobra.Command, root *rootOptions) error {
	ctx := cmd.Context()
	logger := root.logger

	cfg, err := o.settings(cmd, root.cfg)
	if err != nil {
		return err
	}

	outPath := o.output
	if outPath == "" {
		paths, err := config.GetPaths()
		if err != nil {
			return err
		}
		if err := paths.EnsureDirectories(); err != nil {
			return err
		}
		outPath = paths.GetOutputPath(config.DefaultOutputName(o.files.Intervals, cfg.Output.Format))
	}

	svc := services.NewDesurveyService(nil, nil, logger)

	req, err := svc.LoadRequest(ctx, o.files, cfg.Mapping, cfg.Options)
	if err != nil {
		return err
	}

	result, err := svc.Run(ctx, req)
	if err != nil {
		var emptyErr *apperrors.EmptyResultError
		if errors.As(err, &emptyErr) {
			o.writeDiagnostics(cfg.Output, emptyErr.Diagnostics, logger)
		}
		return err
	}

	if err := svc.Export(ctx, result, outPath, o.summary, cfg.Output, cfg.Options.DipSign); err != nil {
		return err
	}
	o.writeDiagnostics(cfg.Output, result.Diagnostics, logger)

	sum := result.Summary
	fmt.Fprintf(cmd.OutOrStdout(), "%d holes desurveyed, %d failed, %d rows (%d synthetic) written to %s\n",
		sum.HolesDesurveyed, sum.HolesFailed, sum.OutputRows, sum.SyntheticRows, outPath)
	return nil
}

// writeDiagnostics saves diagnostics when --diagnostics was given. A
// failure here is logged; the run result stands.
func (o *runOptions) writeDiagnostics(out config.OutputConfig, diags []domain.Diagnostic, logger *slog.Logger) {
	if o.diagnostics == "" {
		return
	}
	if err := exporter.NewCSVWriter(out, logger).WriteDiagnosticsCSV(o.diagnostics, diags); err != nil {
		logger.Error("failed to write diagnostics",
			slog.String("file_path", o.diagnostics),
			slog.String("error", err.Error()))
	}
}
