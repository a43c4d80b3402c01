package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/xinv4sionx/marketplace/server/internal/logger"
	"github.com/xinv4sionx/marketplace/server/internal/models"
)

// MarketMongo keeps users and products in two collections.
//
// Expected schema:
//
//	users
//	  { _id, phone (unique), password_hash, name, role, town, store_name, availability: {status, back_at}, created_at }
//
//	products
//	  { _id, seller_id, title, price, category, town, available_now, images, created_at }
type MarketMongo struct {
	db       *mongo.Database
	users    *mongo.Collection
	products *mongo.Collection
	log      logger.Logger
}

// NewMarketMongo wires the collections.
func NewMarketMongo(db *mongo.Database, log logger.Logger) *MarketMongo {
	return &MarketMongo{
		db:       db,
		users:    db.Collection("users"),
		products: db.Collection("products"),
		log:      log,
	}
}

// EnsureIndexes creates the unique phone index and the hotlist index.
func (r *MarketMongo) EnsureIndexes(ctx context.Context) error {
	_, err := r.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "phone", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create users.phone index: %w", err)
	}
	_, err = r.products.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "available_now", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create products hotlist index: %w", err)
	}
	return nil
}

// -------------------------- public API --------------------------------------

// Load reads every user and product, products newest first.
func (r *MarketMongo) Load(ctx context.Context) (models.Catalog, error) {
	cat := models.Catalog{Users: []models.User{}, Products: []models.Product{}}

	cur, err := r.users.Find(ctx, bson.M{})
	if err != nil {
		return models.Catalog{}, fmt.Errorf("find users: %w", err)
	}
	if err := cur.All(ctx, &cat.Users); err != nil {
		return models.Catalog{}, fmt.Errorf("decode users: %w", err)
	}

	cur, err = r.products.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return models.Catalog{}, fmt.Errorf("find products: %w", err)
	}
	if err := cur.All(ctx, &cat.Products); err != nil {
		return models.Catalog{}, fmt.Errorf("decode products: %w", err)
	}

	r.log.Debug("catalog loaded", map[string]interface{}{
		"users":    len(cat.Users),
		"products": len(cat.Products),
	})
	return cat, nil
}

func (r *MarketMongo) FindUserByID(ctx context.Context, id string) (models.User, error) {
	return r.findUser(ctx, bson.M{"_id": id})
}

func (r *MarketMongo) FindUserByPhone(ctx context.Context, phone string) (models.User, error) {
	return r.findUser(ctx, bson.M{"phone": phone})
}

func (r *MarketMongo) InsertUser(ctx context.Context, u models.User) error {
	_, err := r.users.InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicatePhone
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *MarketMongo) UpdateAvailability(ctx context.Context, userID string, a models.Availability) error {
	res, err := r.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"availability": a}},
	)
	if err != nil {
		return fmt.Errorf("update availability: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MarketMongo) InsertProduct(ctx context.Context, p models.Product) error {
	if _, err := r.products.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// ListAvailableProducts returns up to limit available products, newest first,
// optionally restricted to town (case-insensitive).
func (r *MarketMongo) ListAvailableProducts(ctx context.Context, town string, limit int) ([]models.Product, error) {
	filter := bson.M{"available_now": true}
	if town != "" {
		filter["town"] = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(town) + "$", Options: "i"}
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := r.products.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	out := []models.Product{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return out, nil
}

// Ping verifies the server is reachable.
func (r *MarketMongo) Ping(ctx context.Context) error {
	return r.db.Client().Ping(ctx, nil)
}

func (r *MarketMongo) findUser(ctx context.Context, filter bson.M) (models.User, error) {
	var u models.User
	err := r.users.FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}
