package analyzer

import "sort"

// counter tallies keys and remembers the order each key was first seen.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) Add(key string) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// entry is one key with its count.
type entry struct {
	Key   string
	Count int
}

// Top returns at most n entries, highest count first. Equal counts keep
// first-seen order.
func (c *counter) Top(n int) []entry {
	entries := make([]entry, len(c.order))
	for i, k := range c.order {
		entries[i] = entry{Key: k, Count: c.counts[k]}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
