package categorize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centavo-dev/centavo/internal/model"
)

func TestSuggesterRanksPlausibleCategory(t *testing.T) {
	history := []model.Transaction{
		historyTxn("coffee shop downtown", "Dining", day(1)),
		historyTxn("coffee roasters", "Dining", day(2)),
		historyTxn("whole foods market", "Groceries", day(3)),
		historyTxn("farmers market stand", "Groceries", day(4)),
	}

	s, err := NewSuggester(history)
	require.NoError(t, err)

	suggestions := s.Suggest("coffee shop latte", 5)
	require.NotEmpty(t, suggestions)
	assert.Equal(t, "Dining", suggestions[0])
}

func TestSuggesterNeedsTwoCategories(t *testing.T) {
	history := []model.Transaction{
		historyTxn("coffee shop", "Dining", day(1)),
		historyTxn("another cafe", "Dining", day(2)),
	}

	_, err := NewSuggester(history)
	assert.Error(t, err)
}

func TestSuggesterDeterministic(t *testing.T) {
	history := []model.Transaction{
		historyTxn("uber trip help.uber.com", "Transport", day(1)),
		historyTxn("uber eats order", "Dining", day(2)),
		historyTxn("shell gas station", "Transport", day(3)),
		historyTxn("pizza palace", "Dining", day(4)),
	}

	s, err := NewSuggester(history)
	require.NoError(t, err)

	first := s.Suggest("uber trip 99x2", 3)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, s.Suggest("uber trip 99x2", 3))
	}
}
