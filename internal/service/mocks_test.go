package service

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xinv4sionx/marketplace/server/internal/models"
	"github.com/xinv4sionx/marketplace/server/internal/repository"
)

// ==========================
// Mocks
// ==========================

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, id string) (models.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByPhone(ctx context.Context, phone string) (models.User, error) {
	args := m.Called(ctx, phone)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserRepository) InsertUser(ctx context.Context, u models.User) error {
	return m.Called(ctx, u).Error(0)
}

type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) Load(ctx context.Context) (models.Catalog, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.Catalog), args.Error(1)
}

type MockSellerRepository struct {
	mock.Mock
}

func (m *MockSellerRepository) UpdateAvailability(ctx context.Context, userID string, a models.Availability) error {
	return m.Called(ctx, userID, a).Error(0)
}

func (m *MockSellerRepository) InsertProduct(ctx context.Context, p models.Product) error {
	return m.Called(ctx, p).Error(0)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) ListAvailableProducts(ctx context.Context, town string, limit int) ([]models.Product, error) {
	args := m.Called(ctx, town, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

// fakeImages accepts everything and reports deterministic paths.
type fakeImages struct {
	validateErr error
	saved       int
	removed     []string
}

func (f *fakeImages) Validate(files []*multipart.FileHeader) error { return f.validateErr }

func (f *fakeImages) Save(sellerID string, files []*multipart.FileHeader) ([]string, error) {
	out := make([]string, len(files))
	for i, fh := range files {
		out[i] = "/uploads/sellers/" + sellerID + "/" + fh.Filename
	}
	f.saved += len(files)
	return out, nil
}

func (f *fakeImages) Remove(paths []string) error {
	f.removed = append(f.removed, paths...)
	return nil
}

// ==========================
// Helpers
// ==========================

func newStore(t *testing.T) *repository.MarketFile {
	t.Helper()
	return repository.NewMarketFile(filepath.Join(t.TempDir(), "database.json"))
}

func sellerUser() models.User {
	store := "Mama Mboga"
	return models.User{
		ID:           "seller-1",
		Name:         "Wanjiku",
		Role:         models.RoleSeller,
		Town:         "Kiambu",
		StoreName:    &store,
		Availability: &models.Availability{Status: models.StatusOnline},
	}
}

func buyerUser() models.User {
	return models.User{ID: "buyer-1", Name: "Otieno", Role: models.RoleBuyer, Town: "Nairobi"}
}

// imageHeaders builds real multipart headers for a single png upload.
func imageHeaders(t *testing.T, name string, data []byte) []*multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("images", name)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, "/", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["images"]
}
