package desurvey

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	apperrors "drillcli/internal/errors"
	"drillcli/pkg/contracts/domain"
)

// Direction returns the unit vector for an azimuth/dip pair in degrees.
// Azimuth is clockwise from north (+Y); sign scales the vertical component.
func Direction(azimuthDeg, dipDeg float64, sign domain.DipSign) r3.Vec {
	az := azimuthDeg * math.Pi / 180
	dip := dipDeg * math.Pi / 180
	return r3.Vec{
		X: math.Sin(az) * math.Cos(dip),
		Y: math.Cos(az) * math.Cos(dip),
		Z: sign.Factor() * math.Sin(dip),
	}
}

// IntegrateHole assigns positions to rows of one hole by tangential
// integration. rows must be sorted by To. The first row whose To equals the
// hole's minimum To takes the collar position; every other row advances
// the running position by (To - previous To) along the orientation sampled
// at its To. Positions are written only when the whole hole succeeds.
func IntegrateHole(collar domain.CollarRecord, rows []domain.IntervalRecord, sampler *Sampler, sign domain.DipSign) error {
	if len(rows) == 0 {
		return apperrors.NewHoleIntegrationError(collar.HoleID, domain.StageIntegrate, apperrors.ErrNoAnchorRow)
	}
	if sampler.Len() == 0 {
		return apperrors.NewHoleIntegrationError(collar.HoleID, domain.StageIntegrate, apperrors.ErrNoSurveyStations)
	}

	anchor := 0
	for i, row := range rows {
		if row.To < rows[anchor].To {
			anchor = i
		}
	}

	positions := make([]r3.Vec, len(rows))
	pos := collar.Position()
	positions[anchor] = pos
	prev := rows[anchor].To

	for i, row := range rows {
		if i == anchor {
			continue
		}
		azimuth, dip, _ := sampler.Sample(row.To)
		delta := row.To - prev
		if delta != 0 {
			pos = r3.Add(pos, r3.Scale(delta, Direction(azimuth, dip, sign)))
		}
		positions[i] = pos
		prev = row.To
	}

	for i := range rows {
		p := positions[i]
		rows[i].Position = &p
	}
	return nil
}
