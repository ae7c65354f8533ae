package importer

import (
	"github.com/folhaplus/folha-backend-go/internal/domain/mapping"
)

// autoApplyThreshold: a saved mapping is applied without asking only
// when its header-set similarity strictly exceeds this.
const autoApplyThreshold = 0.7

// Similarity scores two header sets. Every entry goes through
// headerKey, the same normalization the stored signatures use, so a
// layout always scores 1.0 against its own saved signature regardless
// of accents or casing. The score is common / ((|A| + |B|) / 2), which
// rewards sets that are close in both content and size. A long file
// header matched against a short saved signature scores low even if
// every signature entry is present.
func Similarity(a, b []string) float64 {
	na := normalizeHeaderSet(a)
	nb := normalizeHeaderSet(b)
	if len(na) == 0 || len(nb) == 0 {
		return 0
	}

	inB := make(map[string]struct{}, len(nb))
	for _, h := range nb {
		inB[h] = struct{}{}
	}

	common := 0
	for _, h := range na {
		if _, ok := inB[h]; ok {
			common++
		}
	}

	return float64(common) / ((float64(len(na)) + float64(len(nb))) / 2)
}

func normalizeHeaderSet(headers []string) []string {
	out := make([]string, 0, len(headers))
	for _, h := range headers {
		if key := headerKey(h); key != "" {
			out = append(out, key)
		}
	}
	return out
}

// BestMatch picks the saved mapping to auto-apply for the current
// header set, or nil when none scores above the threshold. Ties go to
// the most recently created mapping, so re-saving a layout makes the
// newer version win deterministically.
func BestMatch(headers []string, saved []mapping.Mapping) (*mapping.Mapping, float64) {
	var best *mapping.Mapping
	bestScore := 0.0

	for i := range saved {
		score := Similarity(headers, saved[i].HeaderSignature)
		if score > bestScore {
			best = &saved[i]
			bestScore = score
			continue
		}
		if score == bestScore && best != nil && saved[i].CreatedAt.After(best.CreatedAt) {
			best = &saved[i]
		}
	}

	if best == nil || bestScore <= autoApplyThreshold {
		return nil, bestScore
	}
	return best, bestScore
}
