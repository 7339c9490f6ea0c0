package roster

import (
	"strings"
	"sync"

	"github.com/bkoetsier/tenderplan/internal/domain"
)

// fallbackPalette provides deterministic colors for members (or unknown ids)
// that carry none of their own.
var fallbackPalette = []string{
	"#8ec07c", "#fabd2f", "#83a598", "#d3869b", "#fe8019", "#fb4934",
}

// Index resolves opaque user identifiers to display attributes. It is
// rebuilt wholesale whenever the team roster changes; entries are read-only
// reference data.
type Index struct {
	mu      sync.RWMutex
	byID    map[string]domain.TeamMember
	ordered []domain.TeamMember
}

// NewIndex returns an empty index; Resolve falls back to derived attributes
// until Rebuild is called with a roster.
func NewIndex() *Index {
	return &Index{byID: make(map[string]domain.TeamMember)}
}

// Rebuild replaces the full index contents with the given roster.
func (ix *Index) Rebuild(members []domain.TeamMember) {
	byID := make(map[string]domain.TeamMember, len(members))
	ordered := make([]domain.TeamMember, 0, len(members))
	for _, m := range members {
		if m.Initials == "" {
			m.Initials = DeriveInitials(m.Name)
		}
		if m.Color == "" {
			m.Color = paletteColor(m.ID)
		}
		byID[m.ID] = m
		ordered = append(ordered, m)
	}

	ix.mu.Lock()
	ix.byID = byID
	ix.ordered = ordered
	ix.mu.Unlock()
}

// Resolve returns the display attributes for a user id. Unknown ids get a
// deterministic fallback entry so assignment badges render even when the
// roster fetch failed or the member has since left the bureau.
func (ix *Index) Resolve(id string) (domain.TeamMember, bool) {
	ix.mu.RLock()
	m, ok := ix.byID[id]
	ix.mu.RUnlock()
	if ok {
		return m, true
	}
	return domain.TeamMember{
		ID:       id,
		Name:     id,
		Initials: DeriveInitials(id),
		Color:    paletteColor(id),
	}, false
}

// Members returns the roster in its original order.
func (ix *Index) Members() []domain.TeamMember {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	out := make([]domain.TeamMember, len(ix.ordered))
	copy(out, ix.ordered)
	return out
}

// Len reports the number of roster entries.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.ordered)
}

// DeriveInitials builds a two-letter uppercase abbreviation from a display
// name: first letters of the first two words, or the first two letters of a
// single word.
func DeriveInitials(name string) string {
	fields := strings.Fields(strings.TrimSpace(name))
	switch {
	case len(fields) == 0:
		return "??"
	case len(fields) == 1:
		r := []rune(fields[0])
		if len(r) == 1 {
			return strings.ToUpper(string(r[0]))
		}
		return strings.ToUpper(string(r[:2]))
	default:
		first := []rune(fields[0])
		last := []rune(fields[len(fields)-1])
		return strings.ToUpper(string(first[0]) + string(last[0]))
	}
}

func paletteColor(id string) string {
	var sum int
	for _, r := range id {
		sum += int(r)
	}
	return fallbackPalette[sum%len(fallbackPalette)]
}
