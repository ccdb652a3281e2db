// Package server exposes the assistant over HTTP: a query endpoint, a
// memory reset endpoint, and a liveness probe.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/lithammer/shortuuid/v4"

	"github.com/tastegraph/tastegraph/internal/profile"
	apimw "github.com/tastegraph/tastegraph/server/middleware"
	"github.com/tastegraph/tastegraph/server/service/dialogue"
)

// SessionTokenHeader carries the client's session identity. When a
// request arrives without one, the server mints a token and echoes it
// back so the client can stick to it.
const SessionTokenHeader = "X-Session-Token"

const sessionTokenKey = "session-token"

// Server is the HTTP front of the assistant.
type Server struct {
	Profile *profile.Profile

	echoServer *echo.Echo
	dialogue   *dialogue.Service
}

// NewServer builds the echo instance, middleware chain and routes.
func NewServer(instanceProfile *profile.Profile, dialogueService *dialogue.Service) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: []string{"*"}}))
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(sessionTokenMiddleware)

	limiter := apimw.NewSessionRateLimiter(10, 20)
	e.Use(limiter.Middleware(sessionToken))

	s := &Server{
		Profile:    instanceProfile,
		echoServer: e,
		dialogue:   dialogueService,
	}

	e.GET("/api/test", s.handleTest)
	e.POST("/query", s.handleQuery)
	e.POST("/reset_memory", s.handleResetMemory)

	return s
}

// Start begins serving in the background. Fatal listener errors are
// logged, not returned; callers watch ctx for shutdown.
func (s *Server) Start(_ context.Context) error {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	go func() {
		if err := s.echoServer.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start http server", "error", err)
		}
	}()
	return nil
}

// Shutdown drains in-flight requests, bounded to 10 seconds.
func (s *Server) Shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.echoServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shut down http server", "error", err)
	}
	slog.Info("http server stopped")
}

// sessionTokenMiddleware ensures every request carries a session token
// and mirrors it on the response so clients can adopt minted tokens.
func sessionTokenMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := c.Request().Header.Get(SessionTokenHeader)
		if token == "" {
			token = shortuuid.New()
		}
		c.Set(sessionTokenKey, token)
		c.Response().Header().Set(SessionTokenHeader, token)
		return next(c)
	}
}

// sessionToken returns the request's session token, minted or supplied.
func sessionToken(c echo.Context) string {
	if token, ok := c.Get(sessionTokenKey).(string); ok {
		return token
	}
	return ""
}

// handleQuery runs one conversational turn.
// POST /query
func (s *Server) handleQuery(c echo.Context) error {
	var req QueryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	result, err := s.dialogue.Handle(c.Request().Context(), sessionToken(c), dialogue.Request{
		Query:     req.Query,
		Allergies: req.Allergies,
		City:      req.City,
		Name:      req.Name,
	})
	if err != nil {
		if errors.Is(err, dialogue.ErrEmptyQuery) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "No query provided"})
		}
		slog.Error("query failed",
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			"error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, QueryResponse{Result: result})
}

// handleResetMemory clears the calling session's conversation history.
// POST /reset_memory
func (s *Server) handleResetMemory(c echo.Context) error {
	if err := s.dialogue.ResetMemory(c.Request().Context(), sessionToken(c)); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "memory cleared"})
}

// handleTest is the liveness probe.
// GET /api/test
func (s *Server) handleTest(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "Hello, from TasteGraph!"})
}
