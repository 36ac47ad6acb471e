package analyzer

import (
	"sort"

	"github.com/ccollicutt/chatlens/pkg/parser"
)

// activityCollector buckets messages by calendar day and by hour of day.
type activityCollector struct {
	daily  map[string]int
	hourly [HoursPerDay]int
}

func newActivityCollector() *activityCollector {
	return &activityCollector{daily: make(map[string]int)}
}

func (c *activityCollector) Process(msg parser.ParsedMessage, _ Features) {
	c.daily[msg.Timestamp.Format(dateLayout)]++
	c.hourly[msg.Timestamp.Hour()]++
}

func (c *activityCollector) Finalize(r *Report) {
	days := make([]string, 0, len(c.daily))
	for d := range c.daily {
		days = append(days, d)
	}
	// YYYY-MM-DD sorts chronologically as a string.
	sort.Strings(days)

	r.DailyActivity = make([]DailyActivity, len(days))
	for i, d := range days {
		r.DailyActivity[i] = DailyActivity{Date: d, Messages: c.daily[d]}
	}

	r.HourlyActivity = make([]HourlyActivity, HoursPerDay)
	for h := range r.HourlyActivity {
		r.HourlyActivity[h] = HourlyActivity{Hour: h, Messages: c.hourly[h]}
	}
}
