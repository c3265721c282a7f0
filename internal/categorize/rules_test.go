package categorize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centavo-dev/centavo/internal/model"
)

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func historyTxn(desc, category string, date time.Time) model.Transaction {
	return model.Transaction{Description: desc, Category: category, Date: date}
}

func TestBuildRuleSetMajorityWins(t *testing.T) {
	history := []model.Transaction{
		historyTxn("AMZN MKTPLACE", "Shopping", day(1)),
		historyTxn("AMZN MKTPLACE", "Shopping", day(2)),
		historyTxn("AMZN MKTPLACE", "Gifts", day(3)),
		historyTxn("AMZN MKTPLACE", "Shopping", day(4)),
	}

	rs, conflicts := BuildRuleSet(history, 0)

	category, ok := rs.Categorize("AMZN MKTPLACE")
	require.True(t, ok)
	assert.Equal(t, "Shopping", category)

	// The disagreement is reported, not fatal.
	require.Len(t, conflicts, 1)
	conflict := conflicts[0]
	assert.Equal(t, "amzn mktplace", conflict.Key)
	assert.Equal(t, "Shopping", conflict.Winner)
	assert.Equal(t, []string{"Gifts"}, conflict.Others)
	assert.Equal(t, 4, conflict.Total)
	assert.Equal(t, 3, conflict.WinCount)
}

func TestBuildRuleSetTieBreaksByRecency(t *testing.T) {
	history := []model.Transaction{
		historyTxn("NETFLIX.COM", "Entertainment", day(1)),
		historyTxn("NETFLIX.COM", "Streaming", day(10)),
		historyTxn("NETFLIX.COM", "Entertainment", day(2)),
		historyTxn("NETFLIX.COM", "Streaming", day(3)),
	}

	rs, conflicts := BuildRuleSet(history, 0)

	category, ok := rs.Categorize("NETFLIX.COM")
	require.True(t, ok)
	assert.Equal(t, "Streaming", category, "equal counts resolve to the most recently seen category")
	assert.Len(t, conflicts, 1)
}

func TestBuildRuleSetSkipsUncategorized(t *testing.T) {
	history := []model.Transaction{
		historyTxn("COFFEE SHOP", "Dining", day(1)),
		historyTxn("MYSTERY VENDOR", "", day(2)),
	}

	rs, conflicts := BuildRuleSet(history, 0)
	assert.Equal(t, 1, rs.Len())
	assert.Empty(t, conflicts)
}

func TestCategorizeExactBeatsFuzzy(t *testing.T) {
	// "coffee shop nyc" is a strong fuzzy candidate for "coffee shop" with
	// far more evidence, but the exact key must win outright.
	history := []model.Transaction{
		historyTxn("COFFEE SHOP", "Dining", day(1)),
	}
	for d := 2; d < 12; d++ {
		history = append(history, historyTxn("COFFEE SHOP NYC", "Travel", day(d)))
	}

	rs, _ := BuildRuleSet(history, 0)

	category, ok := rs.Categorize("Coffee Shop")
	require.True(t, ok)
	assert.Equal(t, "Dining", category)
}

func TestCategorizeFuzzyMatch(t *testing.T) {
	history := []model.Transaction{
		historyTxn("AMZN MKTPLACE", "Shopping", day(1)),
	}

	rs, _ := BuildRuleSet(history, 0)

	// A card suffix keeps the key from matching exactly; the fuzzy pass
	// still places it.
	category, ok := rs.Categorize("AMZN MKTPLACE *2AB3")
	require.True(t, ok)
	assert.Equal(t, "Shopping", category)
}

func TestCategorizeNoMatchIsNotAnError(t *testing.T) {
	history := []model.Transaction{
		historyTxn("WHOLE FOODS MARKET", "Groceries", day(1)),
	}

	rs, _ := BuildRuleSet(history, 0)

	category, ok := rs.Categorize("XYZZY PLUGH")
	assert.False(t, ok)
	assert.Empty(t, category)
}

func TestCategorizeBelowThresholdStaysUncategorized(t *testing.T) {
	history := []model.Transaction{
		historyTxn("WHOLE FOODS MARKET", "Groceries", day(1)),
	}

	// With the threshold at 1.0 even close spellings must not match.
	rs, _ := BuildRuleSet(history, 1.0)

	_, ok := rs.Categorize("WHOLE FOODS MKT")
	assert.False(t, ok)
}

func TestCategorizeDeterministic(t *testing.T) {
	history := []model.Transaction{
		historyTxn("AMZN MKTPLACE", "Shopping", day(1)),
		historyTxn("AMZN MKTPLACE", "Gifts", day(2)),
		historyTxn("AMZN MKTPLACE", "Shopping", day(3)),
		historyTxn("NETFLIX.COM", "Streaming", day(4)),
		historyTxn("COFFEE SHOP", "Dining", day(5)),
	}

	reversed := make([]model.Transaction, len(history))
	for i, txn := range history {
		reversed[len(history)-1-i] = txn
	}

	inputs := []string{"AMZN MKTPLACE", "amzn mktplace 9921", "NETFLIX.COM", "COFFEE SHOP", "UNKNOWN"}

	for run := 0; run < 5; run++ {
		a, _ := BuildRuleSet(history, 0)
		b, _ := BuildRuleSet(reversed, 0)
		for _, input := range inputs {
			catA, okA := a.Categorize(input)
			catB, okB := b.Categorize(input)
			assert.Equal(t, catA, catB, "input %q differs between history orderings", input)
			assert.Equal(t, okA, okB)
		}
	}
}

func TestRulesSortedByKey(t *testing.T) {
	history := []model.Transaction{
		historyTxn("ZEBRA STORE", "Shopping", day(1)),
		historyTxn("ALPHA MARKET", "Groceries", day(2)),
	}

	rs, _ := BuildRuleSet(history, 0)
	rules := rs.Rules()
	require.Len(t, rules, 2)
	assert.Equal(t, "alpha market", rules[0].Key)
	assert.Equal(t, "zebra store", rules[1].Key)
}
