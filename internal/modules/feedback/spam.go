package feedback

import (
	"regexp"
	"strings"
)

// Classifier scores a submission 0-100, higher meaning more likely spam.
// The score is stored alongside the submission for moderators; it never
// blocks intake on its own.
type Classifier interface {
	Score(message string) int
}

var spamKeywords = []string{
	"viagra", "casino", "crypto", "bitcoin", "forex",
	"seo service", "backlink", "cheap followers", "click here",
	"limited offer", "work from home", "make money fast",
}

var linkPattern = regexp.MustCompile(`https?://\S+`)

// KeywordClassifier is the default classifier: keyword hits plus link
// density heuristics.
type KeywordClassifier struct{}

func (KeywordClassifier) Score(message string) int {
	lower := strings.ToLower(message)

	score := 0
	for _, kw := range spamKeywords {
		if strings.Contains(lower, kw) {
			score += 30
		}
	}

	links := len(linkPattern.FindAllString(lower, -1))
	switch {
	case links >= 3:
		score += 40
	case links > 0:
		score += 15 * links
	}

	// All-caps shouting on anything longer than a short note.
	if len(message) > 20 && strings.ToUpper(message) == message && strings.ToLower(message) != message {
		score += 20
	}

	if score > 100 {
		score = 100
	}
	return score
}
