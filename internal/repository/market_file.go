package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xinv4sionx/marketplace/server/internal/models"
)

// fileUser keeps the password hash in the file even though it is never
// serialised in API responses.
type fileUser struct {
	models.User
	PasswordHash string `json:"passwordHash"`
}

type fileDB struct {
	Users    []fileUser       `json:"users"`
	Products []models.Product `json:"products"`
}

// MarketFile persists the whole catalog as one JSON document. Every
// mutation is a load-modify-save cycle under a mutex, and saves go through a
// temp file and rename so a crash never leaves a half-written database.
type MarketFile struct {
	path string
	mu   sync.Mutex
}

// NewMarketFile returns a store backed by path. The file is created on the
// first write.
func NewMarketFile(path string) *MarketFile {
	return &MarketFile{path: path}
}

// Load returns the current catalog. A missing file is an empty catalog.
func (s *MarketFile) Load(ctx context.Context) (models.Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Save replaces the stored catalog with cat.
func (s *MarketFile) Save(ctx context.Context, cat models.Catalog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(cat)
}

func (s *MarketFile) FindUserByID(ctx context.Context, id string) (models.User, error) {
	cat, err := s.Load(ctx)
	if err != nil {
		return models.User{}, err
	}
	if u, ok := cat.FindUser(id); ok {
		return u, nil
	}
	return models.User{}, ErrNotFound
}

func (s *MarketFile) FindUserByPhone(ctx context.Context, phone string) (models.User, error) {
	cat, err := s.Load(ctx)
	if err != nil {
		return models.User{}, err
	}
	for _, u := range cat.Users {
		if u.Phone == phone {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (s *MarketFile) InsertUser(ctx context.Context, u models.User) error {
	return s.update(func(cat *models.Catalog) error {
		for _, existing := range cat.Users {
			if existing.Phone == u.Phone {
				return ErrDuplicatePhone
			}
		}
		cat.Users = append(cat.Users, u)
		return nil
	})
}

func (s *MarketFile) UpdateAvailability(ctx context.Context, userID string, a models.Availability) error {
	return s.update(func(cat *models.Catalog) error {
		for i := range cat.Users {
			if cat.Users[i].ID == userID {
				cat.Users[i].Availability = &a
				return nil
			}
		}
		return ErrNotFound
	})
}

// InsertProduct puts p at the head of the catalog.
func (s *MarketFile) InsertProduct(ctx context.Context, p models.Product) error {
	return s.update(func(cat *models.Catalog) error {
		cat.Products = append([]models.Product{p}, cat.Products...)
		return nil
	})
}

// ListAvailableProducts returns up to limit available products, newest first,
// optionally restricted to town (case-insensitive).
func (s *MarketFile) ListAvailableProducts(ctx context.Context, town string, limit int) ([]models.Product, error) {
	cat, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := []models.Product{}
	for _, p := range cat.Products {
		if !p.AvailableNow || (town != "" && !strings.EqualFold(p.Town, town)) {
			continue
		}
		out = append(out, p)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// Ping checks that the database file is readable and well-formed.
func (s *MarketFile) Ping(ctx context.Context) error {
	_, err := s.Load(ctx)
	return err
}

func (s *MarketFile) update(fn func(*models.Catalog) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cat, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(&cat); err != nil {
		return err
	}
	return s.save(cat)
}

func (s *MarketFile) load() (models.Catalog, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.Catalog{Users: []models.User{}, Products: []models.Product{}}, nil
		}
		return models.Catalog{}, fmt.Errorf("read catalog: %w", err)
	}
	var db fileDB
	if err := json.Unmarshal(data, &db); err != nil {
		return models.Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}
	cat := models.Catalog{
		Users:    make([]models.User, len(db.Users)),
		Products: db.Products,
	}
	for i, fu := range db.Users {
		u := fu.User
		u.PasswordHash = fu.PasswordHash
		cat.Users[i] = u
	}
	if cat.Products == nil {
		cat.Products = []models.Product{}
	}
	return cat, nil
}

func (s *MarketFile) save(cat models.Catalog) error {
	db := fileDB{
		Users:    make([]fileUser, len(cat.Users)),
		Products: cat.Products,
	}
	for i, u := range cat.Users {
		db.Users[i] = fileUser{User: u, PasswordHash: u.PasswordHash}
	}
	if db.Products == nil {
		db.Products = []models.Product{}
	}
	data, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace catalog: %w", err)
	}
	return nil
}
