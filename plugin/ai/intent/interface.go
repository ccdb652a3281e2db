// Package intent classifies user turns coarse-to-fine: a global intent
// first, then a question sub-intent when the turn is a question. External
// classifier output is mapped onto closed enumerations at this boundary;
// malformed labels never flow further than this package.
package intent

import "strings"

// Global is the top-level intent of a user turn.
type Global string

const (
	GlobalFindRecipe       Global = "Find a recipe"
	GlobalFindRestaurant   Global = "Find a restaurant"
	GlobalQuitChat         Global = "Quit Chat"
	GlobalGreetings        Global = "Greetings"
	GlobalExpressGratitude Global = "Express Gratitude"
	GlobalAskQuestion      Global = "Ask a Question"
	GlobalOther            Global = "Other"

	// GlobalUnknown is the terminal state when classification does not
	// converge; it routes to the default recipe path downstream.
	GlobalUnknown Global = "Unknown"
)

// Globals lists the classifiable global intents (excluding Unknown).
func Globals() []Global {
	return []Global{
		GlobalFindRecipe,
		GlobalFindRestaurant,
		GlobalQuitChat,
		GlobalGreetings,
		GlobalExpressGratitude,
		GlobalAskQuestion,
		GlobalOther,
	}
}

// globalFromLabel maps arbitrary classifier output onto the enumeration,
// case-insensitively. The boolean reports whether the label matched.
func globalFromLabel(s string) (Global, bool) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	for _, g := range Globals() {
		if normalized == strings.ToLower(string(g)) {
			return g, true
		}
	}
	return GlobalUnknown, false
}

// Question is the sub-intent of an AskQuestion turn.
type Question string

const (
	QuestionFoodRelated    Question = "Food Related Question"
	QuestionNonFoodRelated Question = "Non Food Related Question"
	QuestionUnknown        Question = "Unknown"
)

// Questions lists the classifiable question sub-intents.
func Questions() []Question {
	return []Question{QuestionFoodRelated, QuestionNonFoodRelated}
}

// questionFromLabel maps arbitrary classifier output onto the question
// enumeration, case-insensitively.
func questionFromLabel(s string) (Question, bool) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	for _, q := range Questions() {
		if normalized == strings.ToLower(string(q)) {
			return q, true
		}
	}
	return QuestionUnknown, false
}
