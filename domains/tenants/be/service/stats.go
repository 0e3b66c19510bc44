package service

import (
	"math"
	"time"
)

// growthPercentage compares tenants created this calendar month against the
// previous one: round((this - last) / last * 100). A zero last-month baseline
// yields 0 rather than a division by zero; the figure is not meaningful at
// zero baseline, only defined.
func growthPercentage(creationTimes []time.Time, now time.Time) int {
	startOfThisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	startOfLastMonth := startOfThisMonth.AddDate(0, -1, 0)

	var thisMonth, lastMonth int
	for _, created := range creationTimes {
		created = created.In(now.Location())
		switch {
		case !created.Before(startOfThisMonth):
			thisMonth++
		case !created.Before(startOfLastMonth):
			lastMonth++
		}
	}

	if lastMonth == 0 {
		return 0
	}
	return int(math.Round(float64(thisMonth-lastMonth) / float64(lastMonth) * 100))
}
