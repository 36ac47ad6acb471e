package analyzer

import (
	"sort"

	"github.com/ccollicutt/chatlens/pkg/parser"
)

// userCollector tracks participants in order of first appearance and their
// per-user totals.
type userCollector struct {
	order []string
	stats map[string]*UserStats
}

func newUserCollector() *userCollector {
	return &userCollector{stats: make(map[string]*UserStats)}
}

func (c *userCollector) Process(msg parser.ParsedMessage, f Features) {
	s, ok := c.stats[msg.Sender]
	if !ok {
		s = &UserStats{Name: msg.Sender}
		c.stats[msg.Sender] = s
		c.order = append(c.order, msg.Sender)
	}
	s.Messages++
	s.Words += len(f.Words)
}

func (c *userCollector) Finalize(r *Report) {
	r.Participants = append([]string{}, c.order...)

	users := make([]UserStats, len(c.order))
	for i, name := range c.order {
		users[i] = *c.stats[name]
	}
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].Messages > users[j].Messages
	})

	for rank := range users {
		u := &users[rank]
		if u.Messages > 0 {
			u.AvgLength = float64(u.Words) / float64(u.Messages)
		}
		u.Color = Palette[rank%len(Palette)]
	}
	r.UserStats = users
}
