package intent

import (
	"context"
	"fmt"
	"strings"

	"github.com/tastegraph/tastegraph/plugin/ai"
	"github.com/tastegraph/tastegraph/plugin/ai/memory"
)

const assistantPersona = "You are a friendly assistant that can help users find recipes or restaurants. "

// Responder generates the canned conversational responses for the
// non-search intents and the context-aware answers for food questions.
type Responder struct {
	llm ai.Completer
}

// NewResponder creates a new responder.
func NewResponder(llm ai.Completer) *Responder {
	return &Responder{llm: llm}
}

// RespondToGreeting answers a greeting and advertises the assistant's
// capabilities.
func (r *Responder) RespondToGreeting(ctx context.Context, input string) (string, error) {
	instruction := assistantPersona +
		"Please give a friendly response to this user greeting and let them know some of the things " +
		"that you are able to do, such as find a healthy recipe, find a recipe with certain ingredients, " +
		"or find a restaurant."
	return r.llm.Complete(ctx, input, instruction, 0)
}

// RespondToQuitChat gives the user a farewell.
func (r *Responder) RespondToQuitChat(ctx context.Context, input string) (string, error) {
	instruction := assistantPersona +
		"The user has expressed that they are done with their current session. Please give them a kind " +
		"farewell and let them know you are here to help for any future cooking needs."
	return r.llm.Complete(ctx, input, instruction, 0)
}

// RespondToGratitude acknowledges the user's thanks.
func (r *Responder) RespondToGratitude(ctx context.Context, input string) (string, error) {
	instruction := assistantPersona +
		"The user has expressed gratitude for your help. Please provide a friendly answer and let them " +
		"know you can continue to help them with any new food questions."
	return r.llm.Complete(ctx, input, instruction, 0)
}

// RespondToOther redirects an off-topic turn back to food tasks.
func (r *Responder) RespondToOther(ctx context.Context, input string) (string, error) {
	instruction := assistantPersona +
		"The user has given a response that is irrelevant to food. Please redirect the user by informing " +
		"them that you are only trained for food related tasks."
	return r.llm.Complete(ctx, input, instruction, 0)
}

// RefuseNonFoodQuestion declines a question outside the food domain.
func (r *Responder) RefuseNonFoodQuestion(ctx context.Context, input string) (string, error) {
	instruction := assistantPersona +
		"The user has asked a non food related question. Please let them know that unfortunately you " +
		"cannot help with this as you are designed to only help with food related tasks."
	return r.llm.Complete(ctx, input, instruction, 0)
}

// FindRelevantInformation extracts from the conversation history only the
// details relevant to the current question.
func (r *Responder) FindRelevantInformation(ctx context.Context, query string, history []memory.Message) (string, error) {
	instruction := "You are an information synthesis expert. I am going to give you a conversation and a " +
		"current user question. Please take the conversation and extract only the details relevant to the " +
		"current user question. Do not restate the user's current or previous questions; simply extract " +
		"the information relevant to their current question."
	input := fmt.Sprintf("previous conversation:\n%s\ncurrent question: %s", formatHistory(history), query)
	return r.llm.Complete(ctx, input, instruction, 0)
}

// AnswerFoodQuestion answers a food question using the extracted context.
func (r *Responder) AnswerFoodQuestion(ctx context.Context, query, relevantContext string) (string, error) {
	instruction := "You are a friendly assistant that can help users answer food related questions. " +
		"Please refer to the current user question and the provided context to answer as accurately as " +
		"possible. Only respond to the most recent user question and use the context as background."
	input := fmt.Sprintf("context: %s\nquestion: %s", relevantContext, query)
	return r.llm.Complete(ctx, input, instruction, 0)
}

// formatHistory renders messages one per line as "role: content".
func formatHistory(history []memory.Message) string {
	var b strings.Builder
	for _, msg := range history {
		b.WriteString(string(msg.Role))
		b.WriteString(": ")
		b.WriteString(msg.Content)
		b.WriteString("\n")
	}
	return b.String()
}
