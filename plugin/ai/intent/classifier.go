package intent

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/tastegraph/tastegraph/plugin/ai"
)

const (
	// retryTemperature is the altered sampling temperature used for the
	// single retry when the first classification does not land on an
	// enumerated label.
	retryTemperature = 0.5

	classifyTimeout = 10 * time.Second
)

// Parser classifies user turns via the external completion capability.
type Parser struct {
	llm ai.Completer
}

// NewParser creates a new intent parser.
func NewParser(llm ai.Completer) *Parser {
	return &Parser{llm: llm}
}

// ParseGlobalIntent classifies the turn into one of the global intents.
// A label outside the enumeration triggers one retry at a higher
// temperature; a second miss degrades to GlobalUnknown. Transport errors
// propagate to the caller.
func (p *Parser) ParseGlobalIntent(ctx context.Context, input string) (Global, error) {
	ctx, cancel := context.WithTimeout(ctx, classifyTimeout)
	defer cancel()

	labels := make([]string, 0, len(Globals()))
	for _, g := range Globals() {
		labels = append(labels, string(g))
	}
	instruction := "Please classify the user's intent into one of the following categories. " +
		"Please provide only the option you choose: " + strings.Join(labels, ", ")

	start := time.Now()
	raw, err := p.llm.Complete(ctx, input, instruction, 0)
	if err != nil {
		return GlobalUnknown, err
	}

	global, ok := globalFromLabel(raw)
	if !ok {
		raw, err = p.llm.Complete(ctx, input, instruction, retryTemperature)
		if err != nil {
			return GlobalUnknown, err
		}
		global, ok = globalFromLabel(raw)
	}

	slog.Debug("global intent classified",
		"input", truncate(input, 50),
		"intent", global,
		"matched", ok,
		"latency_ms", time.Since(start).Milliseconds())

	return global, nil
}

// ParseQuestionIntent classifies an AskQuestion turn as food related or
// not, with the same retry-then-Unknown policy as the global layer.
func (p *Parser) ParseQuestionIntent(ctx context.Context, input string) (Question, error) {
	ctx, cancel := context.WithTimeout(ctx, classifyTimeout)
	defer cancel()

	instruction := "You are an assistant that determines whether a user has asked a food related " +
		"or non food related question. Please respond exactly Food Related Question or Non Food Related Question"

	raw, err := p.llm.Complete(ctx, input, instruction, 0)
	if err != nil {
		return QuestionUnknown, err
	}

	question, ok := questionFromLabel(raw)
	if !ok {
		raw, err = p.llm.Complete(ctx, input, instruction, retryTemperature)
		if err != nil {
			return QuestionUnknown, err
		}
		question, _ = questionFromLabel(raw)
	}

	return question, nil
}

// truncate truncates a string to maxLen characters for logging.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
