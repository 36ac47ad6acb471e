package textstats

// stopWords are common English words excluded from word statistics.
var stopWords = toSet([]string{
	"the", "and", "for", "are", "but", "not", "you", "all", "can", "had",
	"her", "was", "one", "our", "out", "day", "get", "has", "him", "his",
	"how", "its", "may", "new", "now", "old", "see", "two", "who", "boy",
	"did", "she", "use", "way", "many", "then", "them", "well", "were", "this",
	"that", "with", "have", "will", "your", "from", "they", "know", "want", "been",
	"good", "much", "some", "time", "very", "when", "come", "here", "just", "like",
	"long", "make", "over", "such", "take", "than", "only", "think", "also", "back",
	"after", "first", "year",
})

// IsStopWord reports whether a lowercase token is on the stop list.
func IsStopWord(word string) bool {
	_, ok := stopWords[word]
	return ok
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
