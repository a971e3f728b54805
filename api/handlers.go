package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/cassette/pkg/assistant"
	"github.com/papercomputeco/cassette/pkg/memory"
)

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleCreateSession opens a fresh session with its own memory key.
func (s *Server) handleCreateSession(c *fiber.Ctx) error {
	session, err := s.sessions.Create()
	if err != nil {
		s.logger.Error("failed to create session", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to create session"})
	}

	return c.Status(fiber.StatusCreated).JSON(SessionResponse{ID: session.ID()})
}

// handleMessage runs one turn against the session.
func (s *Server) handleMessage(c *fiber.Ctx) error {
	var req MessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}
	if strings.TrimSpace(req.Message) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "message is required"})
	}

	session, ok := s.session(c)
	if !ok {
		return nil
	}

	reply, err := session.Respond(c.UserContext(), req.Message)
	if err != nil {
		if errors.Is(err, assistant.ErrTurnInFlight) {
			return c.Status(fiber.StatusConflict).JSON(ErrorResponse{Error: err.Error()})
		}
		s.logger.Error("turn failed", "session", session.ID(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to respond"})
	}

	return c.JSON(MessageResponse{Reply: reply})
}

func (s *Server) handleGetMemory(c *fiber.Ctx) error {
	session, ok := s.session(c)
	if !ok {
		return nil
	}

	return c.JSON(MemoryResponse{Memory: session.Memory().Load(c.UserContext())})
}

// handlePutMemory saves name and tone, keeping the stored note.
func (s *Server) handlePutMemory(c *fiber.Ctx) error {
	var req SettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	session, ok := s.session(c)
	if !ok {
		return nil
	}

	rec, err := session.Memory().SaveSettings(c.UserContext(), req.Name, req.Tone)
	if err != nil {
		if errors.Is(err, memory.ErrInvalidTone) {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
		}
		s.logger.Error("failed to save memory", "session", session.ID(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to save memory"})
	}

	return c.JSON(MemoryResponse{Memory: rec})
}

func (s *Server) handleDeleteMemory(c *fiber.Ctx) error {
	session, ok := s.session(c)
	if !ok {
		return nil
	}

	if err := session.Memory().Clear(c.UserContext()); err != nil {
		s.logger.Error("failed to clear memory", "session", session.ID(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to clear memory"})
	}

	return c.JSON(MessageResult{Message: "Memory cleared."})
}

func (s *Server) handleGetLogs(c *fiber.Ctx) error {
	session, ok := s.session(c)
	if !ok {
		return nil
	}

	return c.JSON(LogsResponse{Entries: session.Log().Entries()})
}

func (s *Server) handleDeleteLogs(c *fiber.Ctx) error {
	session, ok := s.session(c)
	if !ok {
		return nil
	}

	session.Log().Clear()
	return c.JSON(MessageResult{Message: "Logs cleared."})
}

// session resolves the :id route parameter. When it returns false the 404
// response has already been written.
func (s *Server) session(c *fiber.Ctx) (*assistant.Session, bool) {
	session, err := s.sessions.Get(c.Params("id"))
	if err != nil {
		_ = c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "session not found"})
		return nil, false
	}
	return session, true
}
