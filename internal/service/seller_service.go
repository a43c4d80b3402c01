package service

import (
	"context"
	"errors"
	"math"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/xinv4sionx/marketplace/server/internal/apperr"
	"github.com/xinv4sionx/marketplace/server/internal/logger"
	"github.com/xinv4sionx/marketplace/server/internal/metrics"
	"github.com/xinv4sionx/marketplace/server/internal/models"
	"github.com/xinv4sionx/marketplace/server/internal/repository"
)

// ---- Repository contract ---------------------------------------------------

// SellerRepository persists seller-owned state.
type SellerRepository interface {
	UpdateAvailability(ctx context.Context, userID string, a models.Availability) error
	InsertProduct(ctx context.Context, p models.Product) error
}

// ImageStore keeps uploaded product images and returns their public paths.
type ImageStore interface {
	Validate(files []*multipart.FileHeader) error
	Save(sellerID string, files []*multipart.FileHeader) ([]string, error)
	// Remove deletes images previously returned by Save.
	Remove(paths []string) error
}

// ---- Service interface + implementation ------------------------------------

// SellerService lets sellers publish availability and list products.
type SellerService interface {
	SetAvailability(ctx context.Context, seller models.User, req models.AvailabilityRequest) (models.Availability, error)
	AddProduct(ctx context.Context, seller models.User, in models.ProductInput) (models.Product, error)
}

const (
	maxTitleLen    = 100
	maxCategoryLen = 50
)

type sellerService struct {
	repo   SellerRepository
	images ImageStore
	log    logger.Logger
	now    func() time.Time
}

// NewSellerService wires dependencies.
func NewSellerService(repo SellerRepository, images ImageStore, log logger.Logger) SellerService {
	return &sellerService{repo: repo, images: images, log: log, now: time.Now}
}

func (s *sellerService) SetAvailability(ctx context.Context, seller models.User, req models.AvailabilityRequest) (models.Availability, error) {
	if !seller.IsSeller() {
		return models.Availability{}, apperr.Forbidden("Not a seller")
	}

	a := models.Availability{Status: req.Status}
	switch a.Status {
	case "":
		a.Status = models.StatusOnline
	case models.StatusOnline, models.StatusBusy, models.StatusOffline:
	default:
		return models.Availability{}, apperr.Validation("Status must be online, busy or offline")
	}
	if req.BackAt != "" {
		back := req.BackAt
		a.BackAt = &back
	}

	if err := s.repo.UpdateAvailability(ctx, seller.ID, a); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.Availability{}, apperr.NotFound("User not found")
		}
		return models.Availability{}, apperr.Storage(err)
	}
	return a, nil
}

func (s *sellerService) AddProduct(ctx context.Context, seller models.User, in models.ProductInput) (models.Product, error) {
	if !seller.IsSeller() {
		return models.Product{}, apperr.Forbidden("Not a seller")
	}
	if err := s.images.Validate(in.Images); err != nil {
		return models.Product{}, apperr.New(apperr.CodeUploadRejected, err.Error())
	}
	if in.Title == "" || in.Price == "" || in.Category == "" {
		return models.Product{}, apperr.Validation("Missing required fields")
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(in.Price), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return models.Product{}, apperr.Validation("Price must be a non-negative number")
	}

	town := in.Town
	if town == "" {
		town = seller.Town
	}
	if town == "" {
		town = defaultTown
	}

	paths, err := s.images.Save(seller.ID, in.Images)
	if err != nil {
		return models.Product{}, apperr.Wrap(apperr.CodeUploadRejected, "Upload failed", err)
	}

	p := models.Product{
		ID:           uuid.NewString(),
		SellerID:     seller.ID,
		Title:        truncate(in.Title, maxTitleLen),
		Price:        price,
		Category:     truncate(in.Category, maxCategoryLen),
		Town:         town,
		AvailableNow: in.AvailableNow == "on" || in.AvailableNow == "true",
		Images:       paths,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.InsertProduct(ctx, p); err != nil {
		if rmErr := s.images.Remove(paths); rmErr != nil {
			s.log.WithError(rmErr).Warn("orphaned product images", map[string]interface{}{
				"sellerId": seller.ID,
				"images":   paths,
			})
		}
		return models.Product{}, apperr.Storage(err)
	}

	metrics.ProductsListed.Inc()
	s.log.Info("product listed", map[string]interface{}{
		"productId": p.ID,
		"sellerId":  seller.ID,
		"images":    len(paths),
	})
	return p, nil
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
