package desurvey

import (
	"sort"

	apperrors "drillcli/internal/errors"
)

// CheckConsistency gates the whole run: every interval hole id must appear
// in both the collar and the survey table. All offending ids are reported
// at once, sorted.
func CheckConsistency(t *Tables) error {
	var missingInCollar, missingInSurvey []string

	for _, holeID := range t.IntervalHoles() {
		if !t.CollarIDs[holeID] {
			missingInCollar = append(missingInCollar, holeID)
		}
		if !t.SurveyIDs[holeID] {
			missingInSurvey = append(missingInSurvey, holeID)
		}
	}

	if len(missingInCollar) == 0 && len(missingInSurvey) == 0 {
		return nil
	}

	sort.Strings(missingInCollar)
	sort.Strings(missingInSurvey)

	return &apperrors.KeyConsistencyError{
		MissingInCollar: missingInCollar,
		MissingInSurvey: missingInSurvey,
	}
}
