package intent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tastegraph/tastegraph/plugin/ai"
	"github.com/tastegraph/tastegraph/plugin/ai/memory"
)

func TestResponder_CannedResponses(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		respond     func(r *Responder) (string, error)
		instruction string
	}{
		{
			name: "greeting",
			respond: func(r *Responder) (string, error) {
				return r.RespondToGreeting(ctx, "hi there")
			},
			instruction: "friendly response to this user greeting",
		},
		{
			name: "quit chat",
			respond: func(r *Responder) (string, error) {
				return r.RespondToQuitChat(ctx, "bye")
			},
			instruction: "kind farewell",
		},
		{
			name: "gratitude",
			respond: func(r *Responder) (string, error) {
				return r.RespondToGratitude(ctx, "thanks a lot")
			},
			instruction: "expressed gratitude",
		},
		{
			name: "other",
			respond: func(r *Responder) (string, error) {
				return r.RespondToOther(ctx, "what's the weather")
			},
			instruction: "only trained for food related tasks",
		},
		{
			name: "non food question refusal",
			respond: func(r *Responder) (string, error) {
				return r.RefuseNonFoodQuestion(ctx, "who won the game")
			},
			instruction: "cannot help with this",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &ai.MockCompleter{Responses: []string{"model answer"}}
			responder := NewResponder(mock)

			out, err := tt.respond(responder)
			require.NoError(t, err)
			assert.Equal(t, "model answer", out)

			require.Len(t, mock.Calls, 1)
			assert.Contains(t, mock.Calls[0].Instruction, tt.instruction)
			assert.Equal(t, float32(0), mock.Calls[0].Temperature)
		})
	}
}

func TestResponder_FindRelevantInformation(t *testing.T) {
	mock := &ai.MockCompleter{Responses: []string{"the user is allergic to peanuts"}}
	responder := NewResponder(mock)

	history := []memory.Message{
		{Role: memory.RoleUser, Content: "I'm allergic to peanuts"},
		{Role: memory.RoleAssistant, Content: "Noted, I'll avoid peanuts."},
	}

	out, err := responder.FindRelevantInformation(context.Background(), "can I eat pad thai?", history)
	require.NoError(t, err)
	assert.Equal(t, "the user is allergic to peanuts", out)

	require.Len(t, mock.Calls, 1)
	input := mock.Calls[0].Input
	assert.Contains(t, input, "previous conversation:")
	assert.Contains(t, input, "user: I'm allergic to peanuts")
	assert.Contains(t, input, "assistant: Noted, I'll avoid peanuts.")
	assert.Contains(t, input, "current question: can I eat pad thai?")
}

func TestResponder_AnswerFoodQuestion(t *testing.T) {
	mock := &ai.MockCompleter{Responses: []string{"pad thai usually contains peanuts"}}
	responder := NewResponder(mock)

	out, err := responder.AnswerFoodQuestion(context.Background(), "can I eat pad thai?", "user is allergic to peanuts")
	require.NoError(t, err)
	assert.Equal(t, "pad thai usually contains peanuts", out)

	require.Len(t, mock.Calls, 1)
	assert.Contains(t, mock.Calls[0].Input, "context: user is allergic to peanuts")
	assert.Contains(t, mock.Calls[0].Input, "question: can I eat pad thai?")
}

func TestFormatHistory(t *testing.T) {
	assert.Empty(t, formatHistory(nil))

	history := []memory.Message{
		{Role: memory.RoleUser, Content: "hello"},
		{Role: memory.RoleAssistant, Content: "hi"},
	}
	assert.Equal(t, "user: hello\nassistant: hi\n", formatHistory(history))
}
