package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"drillcli/pkg/contracts/domain"
)

// Flag values only replace configuration when the flag was given

func overlayString(cmd *cobra.Command, name string, dst *string) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetString(name)
	}
}

func overlayInt(cmd *cobra.Command, name string, dst *int) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetInt(name)
	}
}

func overlayFloat(cmd *cobra.Command, name string, dst *float64) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetFloat64(name)
	}
}

func overlayBool(cmd *cobra.Command, name string, dst *bool) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetBool(name)
	}
}

// addMappingFlags registers one flag per ColumnMapping field
func addMappingFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("hole-id-col", "", "Interval hole id column")
	f.String("from-col", "", "Interval from-depth column")
	f.String("to-col", "", "Interval to-depth column")
	f.String("survey-hole-id-col", "", "Survey hole id column")
	f.String("survey-depth-col", "", "Survey station depth column")
	f.String("azimuth-col", "", "Survey azimuth column")
	f.String("dip-col", "", "Survey dip column")
	f.String("collar-hole-id-col", "", "Collar hole id column")
	f.String("easting-col", "", "Collar easting column")
	f.String("northing-col", "", "Collar northing column")
	f.String("elevation-col", "", "Collar elevation column")
	f.String("start-depth-col", "", `Collar start depth column, "None" when holes start at surface`)
	f.String("final-depth-col", "", "Collar final depth column")
	f.Float64("max-infill", 0, "Longest synthetic gap interval in metres")
}

func applyMappingFlags(cmd *cobra.Command, m *domain.ColumnMapping) {
	overlayString(cmd, "hole-id-col", &m.HoleIDCol)
	overlayString(cmd, "from-col", &m.FromCol)
	overlayString(cmd, "to-col", &m.ToCol)
	overlayString(cmd, "survey-hole-id-col", &m.SurveyHoleIDCol)
	overlayString(cmd, "survey-depth-col", &m.SurveyDepthCol)
	overlayString(cmd, "azimuth-col", &m.AzimuthCol)
	overlayString(cmd, "dip-col", &m.DipCol)
	overlayString(cmd, "collar-hole-id-col", &m.CollarHoleIDCol)
	overlayString(cmd, "easting-col", &m.CollarEastingCol)
	overlayString(cmd, "northing-col", &m.CollarNorthingCol)
	overlayString(cmd, "elevation-col", &m.CollarElevationCol)
	overlayString(cmd, "start-depth-col", &m.CollarStartDepthCol)
	overlayString(cmd, "final-depth-col", &m.CollarFinalDepthCol)
	overlayFloat(cmd, "max-infill", &m.MaxInfill)
}

func parseDipSign(s string) (domain.DipSign, error) {
	switch sign := domain.DipSign(s); sign {
	case domain.DipSignDown, domain.DipSignUp:
		return sign, nil
	}
	return "", fmt.Errorf("invalid --dip-sign %q: want down or up", s)
}
