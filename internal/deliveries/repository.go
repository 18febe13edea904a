package deliveries

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gogotex/pingbot/pkg/logger"
)

// Repository stores delivery records.
type Repository interface {
	// Claim stores d unless an unexpired record with the same ID exists.
	// It reports whether d was stored.
	Claim(ctx context.Context, d *Delivery) (bool, error)
}

// MongoRepository implements Repository using a Mongo collection with a TTL index.
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "expiresAt", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	}
	if _, err := col.Indexes().CreateOne(context.Background(), idx); err != nil {
		logger.Warnf("[deliveries] could not ensure TTL index: %v", err)
	}
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Claim(ctx context.Context, d *Delivery) (bool, error) {
	// the TTL monitor runs about once a minute, so drop stale records first
	_, _ = r.col.DeleteOne(ctx, bson.M{"_id": d.ID, "expiresAt": bson.M{"$lte": time.Now().UTC()}})
	if _, err := r.col.InsertOne(ctx, d); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// memorySweepInterval is how often MemoryRepository drops expired records.
const memorySweepInterval = time.Minute

// MemoryRepository keeps records in process memory.
type MemoryRepository struct {
	mu        sync.Mutex
	store     map[string]*Delivery
	now       func() time.Time
	lastSweep time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: map[string]*Delivery{}, now: time.Now}
}

func (r *MemoryRepository) Claim(_ context.Context, d *Delivery) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now().UTC()
	if now.Sub(r.lastSweep) >= memorySweepInterval {
		for id, old := range r.store {
			if !now.Before(old.ExpiresAt) {
				delete(r.store, id)
			}
		}
		r.lastSweep = now
	}
	if old, ok := r.store[d.ID]; ok && now.Before(old.ExpiresAt) {
		return false, nil
	}
	cp := *d
	r.store[d.ID] = &cp
	return true, nil
}
