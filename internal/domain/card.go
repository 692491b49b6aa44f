package domain

// Card is one quiz unit: a prompt, its correct answer, and the list of
// choices shown to the user (answer included, order already shuffled).
// A Card is an immutable value — grading never mutates it.
type Card struct {
	Prompt  string
	Answer  string
	Choices []string
}

// HasChoice reports whether text is one of the displayed choices.
func (c *Card) HasChoice(text string) bool {
	for _, ch := range c.Choices {
		if ch == text {
			return true
		}
	}
	return false
}

// IsCorrect reports whether text matches the card's answer exactly.
func (c *Card) IsCorrect(text string) bool {
	return text == c.Answer
}

// AddResult is the outcome of adding a word pair to a user's dictionary.
// Duplicate is an expected outcome, not an error: callers branch on it.
type AddResult int

const (
	AddResultCreated AddResult = iota
	AddResultDuplicate
)

func (r AddResult) String() string {
	if r == AddResultDuplicate {
		return "duplicate"
	}
	return "created"
}
