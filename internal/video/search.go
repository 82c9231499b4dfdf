package video

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// episodeTitles implements fuzzy.Source over lowercase episode titles
type episodeTitles []*Episode

func (e episodeTitles) String(i int) string { return strings.ToLower(e[i].Title) }
func (e episodeTitles) Len() int            { return len(e) }

// rankEpisodes returns the episodes whose title fuzzily matches query, best match first
func rankEpisodes(query string, episodes []*Episode) []*Episode {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	matches := fuzzy.FindFrom(strings.ToLower(query), episodeTitles(episodes))
	ranked := make([]*Episode, 0, len(matches))
	for _, m := range matches {
		ranked = append(ranked, episodes[m.Index])
	}
	return ranked
}
