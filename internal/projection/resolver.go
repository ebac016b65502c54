package projection

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// DefaultMatchThreshold is the minimum token-sort similarity accepted when
// matching a bookmaker's display name to a stored player.
const DefaultMatchThreshold = 0.85

// NameResolver maps free-text player names to stable player identifiers.
// It is built fresh at the start of every projection run from the current
// rolling-stats name index and is append-only for the life of the run, so
// repeated runs can never serve stale mappings.
type NameResolver struct {
	byName    map[string]string
	names     []string
	threshold float64
}

// NewNameResolver creates an empty resolver. A threshold outside (0,1]
// falls back to the default.
func NewNameResolver(threshold float64) *NameResolver {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultMatchThreshold
	}
	return &NameResolver{
		byName:    make(map[string]string),
		threshold: threshold,
	}
}

// Add registers a player name against an identifier. Names are indexed
// lowercase.
func (r *NameResolver) Add(name, playerID string) {
	clean := strings.ToLower(strings.TrimSpace(name))
	if clean == "" || playerID == "" {
		return
	}
	if _, exists := r.byName[clean]; !exists {
		r.names = append(r.names, clean)
	}
	r.byName[clean] = playerID
}

// Len returns the number of indexed names.
func (r *NameResolver) Len() int {
	return len(r.names)
}

// Resolve finds the identifier for a display name: exact lowercase match
// first, then the best token-sort similarity across the index, accepted
// only at or above the threshold.
func (r *NameResolver) Resolve(name string) (string, bool) {
	clean := strings.ToLower(strings.TrimSpace(name))
	if clean == "" || len(r.names) == 0 {
		return "", false
	}

	if id, ok := r.byName[clean]; ok {
		return id, true
	}

	bestScore := -1.0
	bestName := ""
	for _, candidate := range r.names {
		score := tokenSortRatio(clean, candidate)
		if score > bestScore {
			bestScore = score
			bestName = candidate
		}
	}

	if bestScore >= r.threshold {
		return r.byName[bestName], true
	}
	return "", false
}

// tokenSortRatio computes similarity between two strings after sorting
// their whitespace-delimited tokens, so "smith john" and "john smith"
// compare equal. The ratio is 1 - levenshtein/maxlen.
func tokenSortRatio(a, b string) float64 {
	sa := sortTokens(a)
	sb := sortTokens(b)
	if sa == sb {
		return 1
	}

	longest := len([]rune(sa))
	if l := len([]rune(sb)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 0
	}

	dist := levenshtein.ComputeDistance(sa, sb)
	return 1 - float64(dist)/float64(longest)
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
