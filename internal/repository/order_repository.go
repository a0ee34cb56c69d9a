package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"food-ordering-api/internal/model"
)

type MongoOrderRepository struct {
	col *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{col: db.Collection("orders")}
}

// Create inserts the order with its embedded line items in one write.
func (m *MongoOrderRepository) Create(ctx context.Context, o *model.Order) error {
	_, err := m.col.InsertOne(ctx, o)
	return mapWriteErr(err)
}

func (m *MongoOrderRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	var o model.Order
	err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	return &o, err
}

func (m *MongoOrderRepository) FindByUser(ctx context.Context, userID string, status model.OrderStatus, skip, limit int) ([]*model.Order, error) {
	return m.find(ctx, userFilter(userID, status), skip, limit)
}

func (m *MongoOrderRepository) CountByUser(ctx context.Context, userID string, status model.OrderStatus) (int64, error) {
	return m.col.CountDocuments(ctx, userFilter(userID, status))
}

func (m *MongoOrderRepository) FindAll(ctx context.Context, status model.OrderStatus, skip, limit int) ([]*model.Order, error) {
	return m.find(ctx, userFilter("", status), skip, limit)
}

func (m *MongoOrderRepository) Count(ctx context.Context, status model.OrderStatus) (int64, error) {
	return m.col.CountDocuments(ctx, userFilter("", status))
}

// FindInStatusOlderThan returns orders in the given status whose reference
// timestamp (created_at for byCreation, updated_at otherwise) is before the
// given instant. Used by the scan pass to pick up eligible transitions.
func (m *MongoOrderRepository) FindInStatusOlderThan(ctx context.Context, status model.OrderStatus, before time.Time, byCreation bool) ([]*model.Order, error) {
	field := "updated_at"
	if byCreation {
		field = "created_at"
	}
	filter := bson.M{"status": status, field: bson.M{"$lt": before}}
	return m.find(ctx, filter, 0, 0)
}

func (m *MongoOrderRepository) UpdateStatus(ctx context.Context, id string, status model.OrderStatus, at time.Time) error {
	res, err := m.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"status": status, "updated_at": at},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoOrderRepository) Delete(ctx context.Context, id string) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoOrderRepository) find(ctx context.Context, filter bson.M, skip, limit int) ([]*model.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if skip > 0 {
		opts.SetSkip(int64(skip))
	}
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := m.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*model.Order
	for cur.Next(ctx) {
		var o model.Order
		if err := cur.Decode(&o); err != nil {
			return nil, err
		}
		out = append(out, &o)
	}
	return out, cur.Err()
}

func userFilter(userID string, status model.OrderStatus) bson.M {
	filter := bson.M{}
	if userID != "" {
		filter["user_id"] = userID
	}
	if status != "" {
		filter["status"] = status
	}
	return filter
}
