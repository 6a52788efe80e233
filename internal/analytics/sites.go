package analytics

import (
	"sort"
	"time"

	"github.com/magabrotheeeer/peptide-tracker/internal/lib/week"
	"github.com/magabrotheeeer/peptide-tracker/internal/models"
)

const (
	overuseShare   = 25.0
	recentSiteDays = 7
)

// CalculateSiteAnalytics считает использование мест инъекций. Результат
// отсортирован по убыванию числа инъекций, проценты в сумме дают 100.
func CalculateSiteAnalytics(injections []models.Injection, now time.Time) []models.SiteAnalytics {
	usage := CalculateSiteUsage(injections)
	total := len(injections)

	result := make([]models.SiteAnalytics, 0, len(usage))
	for _, u := range usage {
		share := float64(u.TotalUses) / float64(total) * 100
		daysSince := int(now.Sub(u.LastUsed) / week.Day)
		result = append(result, models.SiteAnalytics{
			Location:            u.Location,
			Side:                u.Side,
			UsageCount:          u.TotalUses,
			UsagePercentage:     share,
			LastUsed:            u.LastUsed,
			DaysSinceLastUse:    daysSince,
			RecommendedRotation: daysSince < recentSiteDays && u.TotalUses > 1,
			Overused:            share > overuseShare,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].UsageCount > result[j].UsageCount
	})
	return result
}
