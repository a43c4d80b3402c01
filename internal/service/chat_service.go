package service

import (
	"context"

	"github.com/xinv4sionx/marketplace/server/internal/apperr"
	"github.com/xinv4sionx/marketplace/server/internal/assistant"
	"github.com/xinv4sionx/marketplace/server/internal/logger"
	"github.com/xinv4sionx/marketplace/server/internal/metrics"
	"github.com/xinv4sionx/marketplace/server/internal/models"
)

// CatalogRepository hands out read-only catalog snapshots.
type CatalogRepository interface {
	Load(ctx context.Context) (models.Catalog, error)
}

// Replier is the rule engine behind the assistant.
type Replier interface {
	Reply(req assistant.Request) assistant.Reply
}

// UnavailableReply is what callers show when the assistant cannot answer.
const UnavailableReply = "AI is unavailable right now."

// ChatService answers assistant questions from buyers and sellers.
type ChatService interface {
	// Ask returns the assistant's reply to req on behalf of requester.
	Ask(ctx context.Context, requester models.User, req models.AskRequest) (string, error)
}

// chatService loads a fresh catalog snapshot for every question and passes
// it to the engine together with the caller's profile.
type chatService struct {
	catalog CatalogRepository
	engine  Replier
	log     logger.Logger
}

// NewChatService wires dependencies and returns ChatService.
func NewChatService(catalog CatalogRepository, engine Replier, log logger.Logger) ChatService {
	return &chatService{catalog: catalog, engine: engine, log: log}
}

func (s *chatService) Ask(ctx context.Context, requester models.User, req models.AskRequest) (string, error) {
	// The widget may omit the role; fall back to the one the user signed up with.
	roleStr := req.Role
	if roleStr == "" {
		roleStr = string(requester.Role)
	}
	role, ok := models.ParseRole(roleStr)
	if !ok {
		return "", apperr.Validation("Role must be buyer or seller")
	}

	cat, err := s.catalog.Load(ctx)
	if err != nil {
		metrics.AssistantFailures.Inc()
		s.log.WithError(err).Error("assistant catalog unavailable", map[string]interface{}{
			"userId": requester.ID,
		})
		return "", apperr.Wrap(apperr.CodeAssistantUnavailable, UnavailableReply, err)
	}

	profile := assistant.Requester{Name: requester.Name, Town: requester.Town}
	if requester.StoreName != nil {
		profile.StoreName = *requester.StoreName
	}

	reply := s.engine.Reply(assistant.Request{
		Question:  req.Question,
		Mode:      req.Mode,
		Role:      role,
		Requester: profile,
		Catalog:   cat,
		SellerID:  req.SellerID,
	})

	metrics.AssistantReplies.WithLabelValues(string(role), string(reply.Commodity)).Inc()
	s.log.Debug("assistant replied", map[string]interface{}{
		"userId":    requester.ID,
		"role":      role,
		"town":      reply.Town,
		"commodity": reply.Commodity,
		"window":    reply.Window != nil,
	})
	return reply.Text, nil
}
