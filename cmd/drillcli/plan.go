package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"drillcli/internal/exporter"
	"drillcli/internal/planner"
	"drillcli/internal/services"
	"drillcli/internal/tableio"
	"drillcli/pkg/contracts/domain"
)

type planOptions struct {
	holes  string
	sheet  string
	output string
	cols   planner.Columns
}

func newPlanCmd(root *rootOptions) *cobra.Command {
	opts := &planOptions{cols: planner.DefaultColumns()}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Project straight planned holes",
		Long: `Project each planned hole from its collar along azimuth and dip for
its depth and print start and end points as CSV.

Examples:
  drillcli plan --holes planned.csv
  drillcli plan --holes planned.xlsx --sheet plan --dip-sign up -o traces.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, root)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.holes, "holes", "", "Planned holes table file (required)")
	f.StringVar(&opts.sheet, "sheet", "", "Worksheet of the planned holes workbook")
	f.StringVarP(&opts.output, "output", "o", "", "Write traces to this file instead of stdout")
	f.String("dip-sign", "", "Dip convention: down or up (default from config)")
	f.Int("precision", 0, "Decimals for coordinates (-1 = shortest exact)")
	f.StringVar(&opts.cols.HoleID, "hole-id-col", opts.cols.HoleID, "Hole id column")
	f.StringVar(&opts.cols.Easting, "easting-col", opts.cols.Easting, "Easting column")
	f.StringVar(&opts.cols.Northing, "northing-col", opts.cols.Northing, "Northing column")
	f.StringVar(&opts.cols.Elevation, "elevation-col", opts.cols.Elevation, "Elevation column")
	f.StringVar(&opts.cols.Azimuth, "azimuth-col", opts.cols.Azimuth, "Azimuth column")
	f.StringVar(&opts.cols.Dip, "dip-col", opts.cols.Dip, "Dip column")
	f.StringVar(&opts.cols.Depth, "depth-col", opts.cols.Depth, "Planned depth column")
	_ = cmd.MarkFlagRequired("holes")

	return cmd
}

func (o *planOptions) run(cmd *cobra.Command, root *rootOptions) error {
	sign := root.cfg.Options.DipSign
	if sign == "" {
		sign = domain.DipSignDown
	}
	if cmd.Flags().Changed("dip-sign") {
		raw, _ := cmd.Flags().GetString("dip-sign")
		var err error
		if sign, err = parseDipSign(raw); err != nil {
			return err
		}
	}
	precision := root.cfg.Output.Precision
	overlayInt(cmd, "precision", &precision)

	table, err := tableio.NewLoader(root.logger).LoadFile(o.holes, o.sheet)
	if err != nil {
		return err
	}

	traces, err := services.NewPlannerService(nil, nil, root.logger).Plan(cmd.Context(), table, o.cols, sign)
	if err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	if o.output != "" {
		f, err := os.Create(o.output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", o.output, err)
		}
		defer f.Close()
		out = f
	}

	if err := exporter.EncodePlan(out, traces, precision); err != nil {
		return err
	}
	if o.output != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d planned holes written to %s\n", len(traces), o.output)
	}
	return nil
}
