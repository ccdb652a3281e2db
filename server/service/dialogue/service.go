package dialogue

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/tastegraph/tastegraph/plugin/ai/intent"
	"github.com/tastegraph/tastegraph/plugin/ai/memory"
	"github.com/tastegraph/tastegraph/plugin/nlp/criteria"
	"github.com/tastegraph/tastegraph/plugin/nlp/ner"
)

// Service handles conversational turns. Turns in different sessions run
// concurrently; turns within one session are serialized so the memory
// reads and writes of a turn stay atomic.
type Service struct {
	parser    *intent.Parser
	responder *intent.Responder
	matcher   *ner.Matcher
	extractor *criteria.Extractor
	memory    memory.Service
	searcher  Searcher
	window    int

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService wires a dialogue service. window is the number of recent
// messages offered as context on the question path; zero means
// memory.DefaultWindow.
func NewService(
	parser *intent.Parser,
	responder *intent.Responder,
	matcher *ner.Matcher,
	extractor *criteria.Extractor,
	mem memory.Service,
	searcher Searcher,
	window int,
) *Service {
	if window <= 0 {
		window = memory.DefaultWindow
	}
	return &Service{
		parser:    parser,
		responder: responder,
		matcher:   matcher,
		extractor: extractor,
		memory:    mem,
		searcher:  searcher,
		window:    window,
		locks:     make(map[string]*sync.Mutex),
	}
}

// Handle runs one turn end to end and returns the assistant's reply.
// The user message and the reply are both recorded in the session's
// memory; on failure nothing past the user message is recorded.
func (s *Service) Handle(ctx context.Context, sessionID string, req Request) (string, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return "", ErrEmptyQuery
	}

	unlock := s.lockSession(sessionID)
	defer unlock()

	start := time.Now()

	// Snapshot history before recording this turn so the question path
	// sees "previous conversation" without the current question in it.
	history, err := s.memory.LastK(ctx, sessionID, s.window)
	if err != nil {
		return "", errors.Wrap(err, "failed to read conversation history")
	}
	if err := s.memory.Append(ctx, sessionID, memory.Message{Role: memory.RoleUser, Content: query}); err != nil {
		return "", errors.Wrap(err, "failed to record user message")
	}

	global, err := s.parser.ParseGlobalIntent(ctx, query)
	if err != nil {
		return "", errors.Wrap(err, "intent classification failed")
	}

	reply, err := s.route(ctx, global, query, req, history)
	if err != nil {
		return "", err
	}

	if err := s.memory.Append(ctx, sessionID, memory.Message{Role: memory.RoleAssistant, Content: reply}); err != nil {
		return "", errors.Wrap(err, "failed to record assistant reply")
	}

	slog.Info("turn handled",
		"intent", string(global),
		"latency_ms", time.Since(start).Milliseconds())
	return reply, nil
}

// route dispatches a classified turn to its handler.
func (s *Service) route(ctx context.Context, global intent.Global, query string, req Request, history []memory.Message) (string, error) {
	switch global {
	case intent.GlobalGreetings:
		input := query
		if req.Name != "" {
			input = fmt.Sprintf("%s\nThe user's name is %s.", query, req.Name)
		}
		return s.responder.RespondToGreeting(ctx, input)

	case intent.GlobalQuitChat:
		return s.responder.RespondToQuitChat(ctx, query)

	case intent.GlobalExpressGratitude:
		return s.responder.RespondToGratitude(ctx, query)

	case intent.GlobalOther:
		return s.responder.RespondToOther(ctx, query)

	case intent.GlobalAskQuestion:
		return s.answerQuestion(ctx, query, history)

	case intent.GlobalFindRestaurant:
		spans := s.matcher.Match(query)
		rest := s.extractor.Restaurant(spans, req.City)
		return s.searcher.SearchRestaurants(ctx, query, rest)

	default:
		// FindRecipe, and Unknown as the fallback path.
		spans := s.matcher.Match(query)
		rec := s.extractor.Recipe(spans, req.Allergies)
		return s.searcher.SearchRecipes(ctx, query, rec)
	}
}

// answerQuestion handles the question sub-layer: food questions get a
// context-aware answer, everything else a polite refusal.
func (s *Service) answerQuestion(ctx context.Context, query string, history []memory.Message) (string, error) {
	question, err := s.parser.ParseQuestionIntent(ctx, query)
	if err != nil {
		return "", errors.Wrap(err, "question classification failed")
	}
	if question != intent.QuestionFoodRelated {
		return s.responder.RefuseNonFoodQuestion(ctx, query)
	}

	relevant, err := s.responder.FindRelevantInformation(ctx, query, history)
	if err != nil {
		return "", errors.Wrap(err, "failed to extract relevant context")
	}
	return s.responder.AnswerFoodQuestion(ctx, query, relevant)
}

// ResetMemory clears a session's conversation history.
func (s *Service) ResetMemory(ctx context.Context, sessionID string) error {
	unlock := s.lockSession(sessionID)
	defer unlock()
	return s.memory.Reset(ctx, sessionID)
}

// lockSession acquires the per-session mutex, creating it lazily.
func (s *Service) lockSession(sessionID string) func() {
	s.mu.Lock()
	lock, ok := s.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[sessionID] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
