package testutil

import (
	"drillcli/pkg/contracts/domain"
)

// CollarTable returns a collar table in the default column layout.
// DH01 is vertical at the origin, DH02 is inclined towards the east.
func CollarTable() domain.RawTable {
	return domain.RawTable{
		Name:    "collar",
		Headers: []string{"hole_id", "easting", "northing", "elevation", "final_depth"},
		Rows: [][]string{
			{"DH01", "0", "0", "100", "60"},
			{"DH02", "500", "1000", "250", "40"},
		},
	}
}

// SurveyTable returns stations for CollarTable's holes
func SurveyTable() domain.RawTable {
	return domain.RawTable{
		Name:    "survey",
		Headers: []string{"hole_id", "depth", "azimuth", "dip"},
		Rows: [][]string{
			{"DH01", "0", "0", "90"},
			{"DH02", "0", "90", "60"},
			{"DH02", "20", "90", "45"},
		},
	}
}

// IntervalTable returns assay intervals with two passthrough columns
func IntervalTable() domain.RawTable {
	return domain.RawTable{
		Name:    "intervals",
		Headers: []string{"hole_id", "from", "to", "au_ppm", "lith"},
		Rows: [][]string{
			{"DH01", "0", "10", "0.12", "granite"},
			{"DH01", "10", "20", "1.50", "granite"},
			{"DH01", "50", "55", "0.80", "schist"},
			{"DH02", "5", "10", "2.10", "basalt"},
			{"DH02", "10", "15", "0.05", "basalt"},
		},
	}
}

// SampleRequest bundles the fixture tables with default mapping and options
func SampleRequest() domain.DesurveyRequest {
	return domain.DesurveyRequest{
		Collar:    CollarTable(),
		Survey:    SurveyTable(),
		Intervals: IntervalTable(),
		Mapping:   domain.DefaultColumnMapping(),
		Options:   domain.DefaultDesurveyOptions(),
	}
}

// CSV renderings of the fixtures, for loader and command tests
const (
	CollarCSV = "hole_id,easting,northing,elevation,final_depth\n" +
		"DH01,0,0,100,60\n" +
		"DH02,500,1000,250,40\n"

	SurveyCSV = "hole_id,depth,azimuth,dip\n" +
		"DH01,0,0,90\n" +
		"DH02,0,90,60\n" +
		"DH02,20,90,45\n"

	IntervalCSV = "hole_id,from,to,au_ppm,lith\n" +
		"DH01,0,10,0.12,granite\n" +
		"DH01,10,20,1.50,granite\n" +
		"DH01,50,55,0.80,schist\n" +
		"DH02,5,10,2.10,basalt\n" +
		"DH02,10,15,0.05,basalt\n"
)
