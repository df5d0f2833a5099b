package store

import (
	"context"
	"os"
	"testing"
	"time"

	perrors "github.com/abgdnv/soapshop/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStoreSuite runs the MongoStore against a real MongoDB container.
type MongoStoreSuite struct {
	suite.Suite
	container *mongodb.MongoDBContainer
	client    *mongo.Client
	store     *MongoStore
	ctx       context.Context
}

func (s *MongoStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	var err error

	s.container, err = mongodb.Run(s.ctx, "mongo:7")
	require.NoError(s.T(), err, "Failed to run MongoDB container")

	uri, err := s.container.ConnectionString(s.ctx)
	require.NoError(s.T(), err, "Failed to get connection string from container")

	connectCtx, cancel := context.WithTimeout(s.ctx, 30*time.Second)
	defer cancel()
	s.client, err = mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	require.NoError(s.T(), err, "Failed to connect to MongoDB")

	s.store = NewMongoStore(s.client.Database("storefront_test"))
}

func (s *MongoStoreSuite) TearDownSuite() {
	if s.client != nil {
		_ = s.client.Disconnect(s.ctx)
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *MongoStoreSuite) SetupTest() {
	_, err := s.store.coll.DeleteMany(s.ctx, bson.D{})
	require.NoError(s.T(), err)
}

func TestMongoStoreIntegration(t *testing.T) {
	if os.Getenv(skipIntegrationTests) == "1" {
		t.Skip("Skipping integration tests based on " + skipIntegrationTests + " env var")
	}
	suite.Run(t, new(MongoStoreSuite))
}

func (s *MongoStoreSuite) TestCRUD() {
	// create
	created, err := s.store.Create(s.ctx, input("Rose Petal Soap", "Floral", "7.99"))
	require.NoError(s.T(), err)
	assert.True(s.T(), primitive.IsValidObjectID(created.ID))

	// find keeps the decimal price
	found, err := s.store.FindByID(s.ctx, created.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "7.99", found.Price.String())

	// update
	updated, err := s.store.Update(s.ctx, created.ID, input("Rose Petal Soap", "Floral", "8.49"))
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "8.49", updated.Price.String())

	// delete
	_, err = s.store.Delete(s.ctx, created.ID)
	require.NoError(s.T(), err)
	_, err = s.store.FindByID(s.ctx, created.ID)
	assert.ErrorIs(s.T(), err, perrors.ErrProductNotFound)
}

func (s *MongoStoreSuite) TestInvalidID() {
	_, err := s.store.FindByID(s.ctx, "xyz")
	assert.ErrorIs(s.T(), err, perrors.ErrInvalidProductID)
}

func (s *MongoStoreSuite) TestFindAll_NewestFirst() {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.store.now = func() time.Time { now = now.Add(time.Second); return now }
	for _, name := range []string{"first", "second"} {
		_, err := s.store.Create(s.ctx, input(name, "Herbal", "5"))
		require.NoError(s.T(), err)
	}

	all, err := s.store.FindAll(s.ctx)

	require.NoError(s.T(), err)
	require.Len(s.T(), all, 2)
	assert.Equal(s.T(), "second", all[0].Name)
	require.NoError(s.T(), s.store.Ping(s.ctx))
}
