package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	perrors "github.com/abgdnv/soapshop/internal/errors"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ProductsCollection is the MongoDB collection holding the catalog.
const ProductsCollection = "products"

// mongoProduct mirrors the document layout of the products collection.
// Prices are stored as doubles.
type mongoProduct struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Name            string             `bson:"name"`
	Description     string             `bson:"description"`
	LongDescription string             `bson:"longDescription,omitempty"`
	Price           float64            `bson:"price"`
	Category        string             `bson:"category"`
	Stock           int                `bson:"stock"`
	Image           string             `bson:"image,omitempty"`
	Ingredients     []string           `bson:"ingredients,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt,omitempty"`
}

func (m mongoProduct) toProduct() Product {
	return Product{
		ID:              m.ID.Hex(),
		Name:            m.Name,
		Description:     m.Description,
		LongDescription: m.LongDescription,
		Price:           decimal.NewFromFloat(m.Price),
		Category:        m.Category,
		Stock:           m.Stock,
		Image:           m.Image,
		Ingredients:     m.Ingredients,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// MongoStore implements ProductStore on a MongoDB collection.
type MongoStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewMongoStore creates a MongoStore over the products collection of db.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(ProductsCollection), now: time.Now}
}

func (s *MongoStore) FindAll(ctx context.Context) ([]Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find all products: %w", err)
	}
	var docs []mongoProduct
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	products := make([]Product, 0, len(docs))
	for _, d := range docs {
		products = append(products, d.toProduct())
	}
	return products, nil
}

func (s *MongoStore) FindByID(ctx context.Context, id string) (*Product, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	return s.decodeOne(s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}), "find product by ID")
}

func (s *MongoStore) Create(ctx context.Context, in ProductInput) (*Product, error) {
	now := s.now().UTC().Truncate(time.Millisecond)
	doc := mongoProduct{
		Name:            in.Name,
		Description:     in.Description,
		LongDescription: in.LongDescription,
		Price:           in.Price.InexactFloat64(),
		Category:        in.Category,
		Stock:           in.Stock,
		Image:           in.Image,
		Ingredients:     in.Ingredients,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	doc.ID = oid
	p := doc.toProduct()
	return &p, nil
}

func (s *MongoStore) Update(ctx context.Context, id string, in ProductInput) (*Product, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	set := bson.D{
		{Key: "name", Value: in.Name},
		{Key: "description", Value: in.Description},
		{Key: "longDescription", Value: in.LongDescription},
		{Key: "price", Value: in.Price.InexactFloat64()},
		{Key: "category", Value: in.Category},
		{Key: "stock", Value: in.Stock},
		{Key: "ingredients", Value: in.Ingredients},
		{Key: "updatedAt", Value: s.now().UTC().Truncate(time.Millisecond)},
	}
	if in.Image != "" {
		set = append(set, bson.E{Key: "image", Value: in.Image})
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	res := s.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, bson.D{{Key: "$set", Value: set}}, opts)
	return s.decodeOne(res, "update product")
}

func (s *MongoStore) Delete(ctx context.Context, id string) (*Product, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	return s.decodeOne(s.coll.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: oid}}), "delete product")
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, readpref.Primary())
}

func (s *MongoStore) decodeOne(res *mongo.SingleResult, op string) (*Product, error) {
	var doc mongoProduct
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, perrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	p := doc.toProduct()
	return &p, nil
}

func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", perrors.ErrInvalidProductID, id)
	}
	return oid, nil
}
