package ptrboard

import (
	"math"
	"sort"

	"github.com/ukaji3/ptrboard-go/pkg/ptrboard/models"
)

// Percentages computes the status breakdown of one version per platform.
//
// Records are partitioned by the OS column; platforms defaults to Android and
// iOS. Each platform's shares are rounded to two decimals and sum to 100
// (within rounding). Empty status cells count as N/A. Combinations without
// records are omitted rather than reported as zero.
func Percentages(table *models.Table, version string, platforms ...string) ([]models.Percentage, error) {
	statusCol := StatusColumn(version)
	if !table.HasColumn(statusCol) {
		return nil, NewMissingColumnError("percentages", statusCol)
	}
	if !table.HasColumn(ColumnOS) {
		return nil, NewMissingColumnError("percentages", ColumnOS)
	}
	if len(platforms) == 0 {
		platforms = []string{PlatformAndroid, PlatformIOS}
	}

	var out []models.Percentage
	for _, platform := range platforms {
		var statuses []string
		counts := make(map[string]int)
		total := 0

		for _, row := range table.Rows {
			if row[ColumnOS] != platform {
				continue
			}
			status := StatusValue(row[statusCol])
			if _, ok := counts[status]; !ok {
				statuses = append(statuses, status)
			}
			counts[status]++
			total++
		}
		if total == 0 {
			continue
		}

		// Stable sort keeps first-seen order among equal counts.
		sort.SliceStable(statuses, func(i, j int) bool {
			return counts[statuses[i]] > counts[statuses[j]]
		})

		for _, status := range statuses {
			out = append(out, models.Percentage{
				Status:     status,
				Platform:   platform,
				Percentage: round2(float64(counts[status]) / float64(total) * 100),
			})
		}
	}
	return out, nil
}

// StatusValue maps an empty status cell to N/A.
func StatusValue(v string) string {
	if v == "" {
		return StatusNotApplicable
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
