package desurvey

import (
	"slices"
	"sort"

	"drillcli/pkg/contracts/domain"
)

// Sampler is a hold-last-value lookup of orientation by depth for one hole
type Sampler struct {
	stations []domain.SurveyRecord
}

// NewSampler copies stations and sorts them by depth, keeping input order
// for equal depths
func NewSampler(stations []domain.SurveyRecord) *Sampler {
	sorted := slices.Clone(stations)
	slices.SortStableFunc(sorted, func(a, b domain.SurveyRecord) int {
		switch {
		case a.Depth < b.Depth:
			return -1
		case a.Depth > b.Depth:
			return 1
		}
		return 0
	})
	return &Sampler{stations: sorted}
}

// Len returns the number of usable stations
func (s *Sampler) Len() int {
	if s == nil {
		return 0
	}
	return len(s.stations)
}

// Sample returns the orientation of the deepest station at or above depth,
// taking the last of equal depths. Above the first station it falls back
// to the deepest station of the hole. ok is false when there are no stations.
func (s *Sampler) Sample(depth float64) (azimuth, dip float64, ok bool) {
	n := s.Len()
	if n == 0 {
		return 0, 0, false
	}

	// First index whose depth is strictly greater than the target
	i := sort.Search(n, func(i int) bool { return s.stations[i].Depth > depth })

	station := s.stations[n-1]
	if i > 0 {
		station = s.stations[i-1]
	}
	return station.Azimuth, station.Dip, true
}
