package desurvey

import (
	"fmt"
	"math"
	"slices"

	apperrors "drillcli/internal/errors"
	"drillcli/pkg/contracts/domain"
)

// MaxSyntheticRows caps the synthetic rows Infill adds to a single hole
const MaxSyntheticRows = 1 << 18

// Infill bounds every depth gap of one hole by maxInfill. rows must belong
// to collar's hole and be sorted by To. Real rows are copied unmodified;
// gaps before the first row, between rows and after the last row (up to
// the collar's final depth) are filled with synthetic rows no longer than
// maxInfill. With anchor set, a zero-length row at the hole's shallowest
// From is added for the integrator to pin the collar position on.
// The result is sorted by To, stable.
//
// A zero maxInfill means domain.DefaultMaxInfill. Infill fails with
// ErrInfillStalled when a step is lost to float64 rounding and with
// ErrInfillLimit past MaxSyntheticRows.
func Infill(collar domain.CollarRecord, rows []domain.IntervalRecord, maxInfill float64, anchor bool) ([]domain.IntervalRecord, error) {
	switch {
	case maxInfill == 0:
		maxInfill = domain.DefaultMaxInfill
	case !(maxInfill > 0) || math.IsInf(maxInfill, 1):
		return nil, fmt.Errorf("invalid max infill %g", maxInfill)
	}

	out := make([]domain.IntervalRecord, 0, len(rows)+2)
	synthetic := func(from, to float64) domain.IntervalRecord {
		return domain.IntervalRecord{
			HoleID:    collar.HoleID,
			From:      from,
			To:        to,
			Synthetic: true,
			Seq:       -1,
		}
	}

	added := 0
	fill := func(from, until float64) error {
		for from < until {
			to := math.Min(from+maxInfill, until)
			if to <= from {
				return fmt.Errorf("at depth %g: %w", from, apperrors.ErrInfillStalled)
			}
			if added == MaxSyntheticRows {
				return fmt.Errorf("more than %d: %w", MaxSyntheticRows, apperrors.ErrInfillLimit)
			}
			out = append(out, synthetic(from, to))
			added++
			from = to
		}
		return nil
	}

	lastTo := collar.StartDepth
	for _, row := range rows {
		if err := fill(lastTo, row.From); err != nil {
			return nil, err
		}
		out = append(out, row)
		lastTo = row.To
	}
	if err := fill(lastTo, collar.FinalDepth); err != nil {
		return nil, err
	}

	if anchor && len(out) > 0 {
		minFrom := out[0].From
		for _, row := range out[1:] {
			minFrom = math.Min(minFrom, row.From)
		}
		a := synthetic(minFrom, minFrom)
		a.Anchor = true
		out = append(out, a)
	}

	slices.SortStableFunc(out, func(a, b domain.IntervalRecord) int {
		switch {
		case a.To < b.To:
			return -1
		case a.To > b.To:
			return 1
		}
		return 0
	})

	return out, nil
}
