package dvb

import (
	"sort"

	"go.uber.org/zap"
)

// Translator scores guide category labels against the taxonomy table. The
// table is shared, immutable and built once per process; the translator itself
// is stateless and safe for concurrent use.
type Translator struct {
	table map[string]Entry
	log   *zap.Logger
}

// NewTranslator creates a translator over the process-wide taxonomy table.
func NewTranslator(log *zap.Logger) *Translator {
	return &Translator{table: lookupTable(), log: log}
}

// Classify maps a set of free-text labels onto the single best taxonomy
// category. Unknown labels are silently dropped. The boolean is false when no
// label matched at all.
//
// Scoring: weights of matched labels are summed per group, with a per-category
// subtotal inside each group. The group(s) with the highest total narrow the
// field, then the highest category subtotal within those groups wins. A tie at
// that point is resolved deterministically (first in lexical order) and logged,
// never surfaced as a failure.
func (t *Translator) Classify(labels []string) (string, bool) {
	groupTotals := make(map[string]int)
	categoryTotals := make(map[string]map[string]int)

	for _, label := range labels {
		entry, ok := t.table[normalizeLabel(label)]
		if !ok {
			continue
		}

		groupTotals[entry.Group] += entry.Weight
		if categoryTotals[entry.Group] == nil {
			categoryTotals[entry.Group] = make(map[string]int)
		}
		categoryTotals[entry.Group][entry.Category] += entry.Weight
	}

	if len(groupTotals) == 0 {
		return "", false
	}

	bestGroupTotal := 0
	for _, total := range groupTotals {
		if total > bestGroupTotal {
			bestGroupTotal = total
		}
	}

	var candidateGroups []string
	for group, total := range groupTotals {
		if total == bestGroupTotal {
			candidateGroups = append(candidateGroups, group)
		}
	}

	bestCategoryTotal := 0
	for _, group := range candidateGroups {
		for _, total := range categoryTotals[group] {
			if total > bestCategoryTotal {
				bestCategoryTotal = total
			}
		}
	}

	var finalists []string
	for _, group := range candidateGroups {
		for category, total := range categoryTotals[group] {
			if total == bestCategoryTotal {
				finalists = append(finalists, category)
			}
		}
	}
	sort.Strings(finalists)

	if len(finalists) > 1 {
		t.log.Warn("ambiguous category classification",
			zap.Strings("labels", labels),
			zap.Strings("candidates", finalists),
			zap.String("chosen", finalists[0]))
	}

	return finalists[0], true
}
