package wiki

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gogotex/pingbot/pkg/logger"
)

// MongoBackend stores one Mongo document per (community, page name).
type MongoBackend struct {
	col *mongo.Collection
}

func NewMongoBackend(col *mongo.Collection) *MongoBackend {
	// (community, name) is the page identity
	idxModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "community", Value: 1}, {Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := col.Indexes().CreateOne(context.Background(), idxModel); err != nil {
		logger.Warnf("[wiki] could not ensure page index: %v", err)
	}
	return &MongoBackend{col: col}
}

func pageFilter(community, name string) bson.M {
	return bson.M{"community": community, "name": name}
}

func (m *MongoBackend) GetPage(ctx context.Context, community, name string) (*Page, error) {
	var p Page
	if err := m.col.FindOne(ctx, pageFilter(community, name)).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (m *MongoBackend) CreatePage(ctx context.Context, community, name, content, reason string) error {
	now := time.Now().UTC()
	p := &Page{
		Community:  community,
		Name:       name,
		Content:    content,
		Listed:     true,
		Permission: PermissionDefault,
		Reason:     reason,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := m.col.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrPageExists
		}
		return err
	}
	return nil
}

func (m *MongoBackend) UpdatePageSettings(ctx context.Context, community, name string, listed bool, perm Permission) error {
	set := bson.M{"listed": listed, "permission": perm}
	return m.update(ctx, community, name, set)
}

func (m *MongoBackend) UpdatePage(ctx context.Context, community, name, content, reason string) error {
	set := bson.M{"content": content, "reason": reason, "updatedAt": time.Now().UTC()}
	return m.update(ctx, community, name, set)
}

func (m *MongoBackend) update(ctx context.Context, community, name string, set bson.M) error {
	res, err := m.col.UpdateOne(ctx, pageFilter(community, name), bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrPageNotFound
	}
	return nil
}
