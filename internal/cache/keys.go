package cache

import (
	"time"

	"github.com/magabrotheeeer/peptide-tracker/internal/lib/week"
)

// ProgressPrefix — префикс всех ключей недельного прогресса пользователя.
func ProgressPrefix(userID string) string {
	return "progress:" + userID + ":"
}

// ProgressKey — ключ недельного прогресса пользователя для недели weekStart.
func ProgressKey(userID string, weekStart time.Time) string {
	return ProgressPrefix(userID) + week.DayKey(weekStart)
}
