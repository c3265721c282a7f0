package categorize

import (
	"sort"
	"time"

	"github.com/centavo-dev/centavo/internal/model"
)

// DefaultThreshold is the minimum fuzzy score that counts as a match.
const DefaultThreshold = 0.82

// RuleSet holds the rules derived from history, ready for matching.
type RuleSet struct {
	rules     map[string]model.CategoryRule
	keys      []string // sorted, for deterministic fuzzy scans
	threshold float64
}

// BuildRuleSet derives rules from categorized history. For every
// description key the majority category wins; ties break by most recent
// observation, then category name. Keys whose history disagrees are
// reported as conflicts, never as errors.
func BuildRuleSet(history []model.Transaction, threshold float64) (*RuleSet, []model.RuleConflict) {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}

	type evidence struct {
		lastSeen map[string]time.Time
		count    map[string]int
		total    int
	}

	byKey := make(map[string]*evidence)
	for _, txn := range history {
		if txn.Category == "" {
			continue
		}
		key := NormalizeKey(keyText(txn))
		if key == "" {
			continue
		}

		ev, ok := byKey[key]
		if !ok {
			ev = &evidence{lastSeen: make(map[string]time.Time), count: make(map[string]int)}
			byKey[key] = ev
		}
		ev.count[txn.Category]++
		ev.total++
		if txn.Date.After(ev.lastSeen[txn.Category]) {
			ev.lastSeen[txn.Category] = txn.Date
		}
	}

	rs := &RuleSet{
		rules:     make(map[string]model.CategoryRule, len(byKey)),
		threshold: threshold,
	}
	var conflicts []model.RuleConflict

	for key, ev := range byKey {
		winner := pickWinner(ev.count, ev.lastSeen)

		rs.rules[key] = model.CategoryRule{
			Key:      key,
			Category: winner,
			Count:    ev.count[winner],
			LastSeen: ev.lastSeen[winner],
		}
		rs.keys = append(rs.keys, key)

		if len(ev.count) > 1 {
			others := make([]string, 0, len(ev.count)-1)
			for cat := range ev.count {
				if cat != winner {
					others = append(others, cat)
				}
			}
			sort.Strings(others)
			conflicts = append(conflicts, model.RuleConflict{
				Key:      key,
				Winner:   winner,
				Others:   others,
				Total:    ev.total,
				WinCount: ev.count[winner],
			})
		}
	}

	sort.Strings(rs.keys)
	sort.Slice(conflicts, func(i, j int) bool { return conflicts[i].Key < conflicts[j].Key })

	return rs, conflicts
}

// pickWinner chooses the majority category; ties go to the most recently
// seen, then to the lexicographically first name so the outcome never
// depends on map order.
func pickWinner(count map[string]int, lastSeen map[string]time.Time) string {
	winner := ""
	for cat, n := range count {
		if winner == "" {
			winner = cat
			continue
		}
		switch {
		case n > count[winner]:
			winner = cat
		case n == count[winner] && lastSeen[cat].After(lastSeen[winner]):
			winner = cat
		case n == count[winner] && lastSeen[cat].Equal(lastSeen[winner]) && cat < winner:
			winner = cat
		}
	}
	return winner
}

// keyText picks the description a transaction is keyed by.
func keyText(txn model.Transaction) string {
	if txn.Description != "" {
		return txn.Description
	}
	return txn.RawDescription
}

// Len returns the number of rules.
func (rs *RuleSet) Len() int {
	return len(rs.rules)
}

// Threshold returns the fuzzy match threshold in effect.
func (rs *RuleSet) Threshold() float64 {
	return rs.threshold
}

// Rules returns the rules sorted by key.
func (rs *RuleSet) Rules() []model.CategoryRule {
	out := make([]model.CategoryRule, 0, len(rs.keys))
	for _, key := range rs.keys {
		out = append(out, rs.rules[key])
	}
	return out
}

// Categorize finds the category for a description. An exact key match wins
// outright; otherwise the best fuzzy candidate at or above the threshold is
// used. No match means no category, which is not an error.
func (rs *RuleSet) Categorize(desc string) (string, bool) {
	key := NormalizeKey(desc)
	if key == "" {
		return "", false
	}

	if rule, ok := rs.rules[key]; ok {
		return rule.Category, true
	}

	var (
		best      model.CategoryRule
		bestScore float64
		found     bool
	)
	for _, candidate := range rs.keys {
		score := lcsRatio(key, candidate)
		if score < rs.threshold {
			continue
		}
		rule := rs.rules[candidate]
		if !found || betterMatch(score, rule, bestScore, best) {
			best = rule
			bestScore = score
			found = true
		}
	}

	if !found {
		return "", false
	}
	return best.Category, true
}

// betterMatch orders fuzzy candidates: higher score, then more evidence,
// then more recent, then key order.
func betterMatch(score float64, rule model.CategoryRule, bestScore float64, best model.CategoryRule) bool {
	if score != bestScore {
		return score > bestScore
	}
	if rule.Count != best.Count {
		return rule.Count > best.Count
	}
	if !rule.LastSeen.Equal(best.LastSeen) {
		return rule.LastSeen.After(best.LastSeen)
	}
	return rule.Key < best.Key
}
