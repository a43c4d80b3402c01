package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xinv4sionx/marketplace/server/internal/apperr"
	"github.com/xinv4sionx/marketplace/server/internal/assistant"
	"github.com/xinv4sionx/marketplace/server/internal/logger"
	"github.com/xinv4sionx/marketplace/server/internal/models"
)

func chatCatalog() models.Catalog {
	back := "2025-01-01T18:45:00Z"
	return models.Catalog{
		Users: []models.User{
			{ID: "seller-9", Role: models.RoleSeller, Availability: &models.Availability{Status: models.StatusOffline, BackAt: &back}},
		},
		Products: []models.Product{
			{Title: "Fridge", Price: 30000, Town: "Kiambu", AvailableNow: true},
		},
	}
}

func TestChatService_Ask(t *testing.T) {
	repo := new(MockCatalogRepository)
	repo.On("Load", mock.Anything).Return(chatCatalog(), nil)
	svc := NewChatService(repo, assistant.New(assistant.Options{Location: time.UTC}), logger.NewTestLogger(t))

	reply, err := svc.Ask(context.Background(), sellerUser(), models.AskRequest{
		Question: "How do I price a fridge at 30000?",
		Mode:     "pro",
		SellerID: "seller-9",
	})
	require.NoError(t, err)

	want := "Here is a structured insight: For a **solid** targeting **Kiambu**, craft a clear listing with 2 images," +
		" short bullets, and delivery/meetup details. Consider pricing around **KES 21000 – 39000**." +
		" This seller is currently offline. Expected back at 18:45." +
		" Here are similar items nearby: Fridge (KES 30000)."
	assert.Equal(t, want, reply)
	repo.AssertExpectations(t)
}

func TestChatService_RoleOverride(t *testing.T) {
	repo := new(MockCatalogRepository)
	repo.On("Load", mock.Anything).Return(models.Catalog{}, nil)
	svc := NewChatService(repo, assistant.New(assistant.Options{}), logger.NewNoOpLogger())

	reply, err := svc.Ask(context.Background(), sellerUser(), models.AskRequest{Question: "tv", Role: "buyer"})
	require.NoError(t, err)
	assert.Contains(t, reply, "You are looking for a **solid** in **Kiambu**.")
}

func TestChatService_RejectsUnknownRole(t *testing.T) {
	repo := new(MockCatalogRepository)
	svc := NewChatService(repo, assistant.New(assistant.Options{}), logger.NewNoOpLogger())

	_, err := svc.Ask(context.Background(), buyerUser(), models.AskRequest{Question: "hi", Role: "admin"})
	requireCode(t, err, apperr.CodeValidation)
	repo.AssertNotCalled(t, "Load", mock.Anything)
}

func TestChatService_CatalogUnavailable(t *testing.T) {
	repo := new(MockCatalogRepository)
	repo.On("Load", mock.Anything).Return(models.Catalog{}, errors.New("file locked"))
	svc := NewChatService(repo, assistant.New(assistant.Options{}), logger.NewNoOpLogger())

	_, err := svc.Ask(context.Background(), buyerUser(), models.AskRequest{Question: "hi"})
	requireCode(t, err, apperr.CodeAssistantUnavailable)
	e, _ := apperr.As(err)
	assert.Equal(t, UnavailableReply, e.Message)
}
