package categorize

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/jbrukh/bayesian"

	"github.com/centavo-dev/centavo/internal/model"
)

// Suggester proposes categories for descriptions the rule set cannot
// place. It ranks candidates with a TF-IDF naive Bayes classifier trained
// on categorized history. Suggestions are for the review flow only; they
// are never applied automatically.
type Suggester struct {
	classifier *bayesian.Classifier
	classes    []bayesian.Class
}

// NewSuggester trains a suggester on categorized history. It needs at
// least two distinct categories to rank against each other.
func NewSuggester(history []model.Transaction) (*Suggester, error) {
	seen := make(map[string]struct{})
	var names []string
	for _, txn := range history {
		if txn.Category == "" {
			continue
		}
		if _, ok := seen[txn.Category]; !ok {
			seen[txn.Category] = struct{}{}
			names = append(names, txn.Category)
		}
	}
	if len(names) < 2 {
		return nil, fmt.Errorf("need at least 2 categories in history, have %d", len(names))
	}
	sort.Strings(names)

	classes := make([]bayesian.Class, len(names))
	for i, name := range names {
		classes[i] = bayesian.Class(name)
	}

	classifier := bayesian.NewClassifierTfIdf(classes...)
	for _, txn := range history {
		if txn.Category == "" {
			continue
		}
		classifier.Learn(terms(keyText(txn)), bayesian.Class(txn.Category))
	}
	classifier.ConvertTermsFreqToTfIdf()

	return &Suggester{classifier: classifier, classes: classes}, nil
}

// Suggest returns up to max categories for a description, best first. The
// list stops early when the score gap to the previous candidate exceeds
// one standard deviation, the point where candidates stop being credible.
func (s *Suggester) Suggest(desc string, max int) []string {
	if max <= 0 {
		max = 5
	}

	scores, _, _ := s.classifier.LogScores(terms(desc))

	type pair struct {
		score float64
		pos   int
	}
	pairs := make([]pair, 0, len(scores))

	var mean, stddev float64
	for pos, score := range scores {
		pairs = append(pairs, pair{score, pos})
		mean += score
	}
	mean /= float64(len(scores))
	for _, score := range scores {
		stddev += math.Pow(score-mean, 2)
	}
	stddev /= float64(len(scores) - 1)
	stddev = math.Sqrt(stddev)

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].score != pairs[j].score {
			return pairs[i].score > pairs[j].score
		}
		return pairs[i].pos < pairs[j].pos
	})

	result := make([]string, 0, max)
	last := pairs[0].score
	for i := 0; i < len(pairs) && i < max; i++ {
		if math.Abs(pairs[i].score-last) > stddev {
			break
		}
		result = append(result, string(s.classes[pairs[i].pos]))
		last = pairs[i].score
	}
	return result
}

// terms tokenizes a description for the classifier.
func terms(desc string) []string {
	return strings.Fields(strings.ToLower(desc))
}
