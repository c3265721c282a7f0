package model

import "time"

// CategoryRule maps a normalized description key to the category history
// assigns it. Count and LastSeen carry the evidence behind the rule and
// break ties during matching.
type CategoryRule struct {
	LastSeen time.Time
	Key      string
	Category string
	Count    int
}

// RuleConflict records a description key whose history disagrees about the
// category. Conflicts are reported, never fatal; the winning rule is the
// majority choice.
type RuleConflict struct {
	Key      string
	Winner   string
	Others   []string
	Total    int
	WinCount int
}

// CategoryUpdate assigns a category to the stored transaction with the
// given hash.
type CategoryUpdate struct {
	Hash     string
	Category string
}
