package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"food-ordering-api/internal/model"
)

type MongoNotificationRepository struct {
	col *mongo.Collection
}

func NewMongoNotificationRepository(db *mongo.Database) *MongoNotificationRepository {
	return &MongoNotificationRepository{col: db.Collection("notifications")}
}

// Insert returns ErrDuplicateKey when the lifecycle dedup index rejects the
// write.
func (m *MongoNotificationRepository) Insert(ctx context.Context, n *model.Notification) error {
	_, err := m.col.InsertOne(ctx, n)
	return mapWriteErr(err)
}

func (m *MongoNotificationRepository) FindByKey(ctx context.Context, userID string, typ model.NotificationType, title, relatedID string) (*model.Notification, error) {
	var n model.Notification
	err := m.col.FindOne(ctx, bson.M{
		"user_id":    userID,
		"type":       typ,
		"title":      title,
		"related_id": relatedID,
	}).Decode(&n)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	return &n, err
}

func (m *MongoNotificationRepository) FindByID(ctx context.Context, id string) (*model.Notification, error) {
	var n model.Notification
	err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&n)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	return &n, err
}

func (m *MongoNotificationRepository) FindByUser(ctx context.Context, userID string, unreadOnly bool, skip, limit int) ([]*model.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if skip > 0 {
		opts.SetSkip(int64(skip))
	}
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := m.col.Find(ctx, readFilter(userID, unreadOnly), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*model.Notification
	for cur.Next(ctx) {
		var n model.Notification
		if err := cur.Decode(&n); err != nil {
			return nil, err
		}
		out = append(out, &n)
	}
	return out, cur.Err()
}

func (m *MongoNotificationRepository) CountByUser(ctx context.Context, userID string, unreadOnly bool) (int64, error) {
	return m.col.CountDocuments(ctx, readFilter(userID, unreadOnly))
}

func (m *MongoNotificationRepository) MarkRead(ctx context.Context, id string, at time.Time) error {
	res, err := m.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"is_read": true, "updated_at": at},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoNotificationRepository) MarkAllRead(ctx context.Context, userID string, at time.Time) (int64, error) {
	res, err := m.col.UpdateMany(ctx, bson.M{"user_id": userID, "is_read": false}, bson.M{
		"$set": bson.M{"is_read": true, "updated_at": at},
	})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (m *MongoNotificationRepository) Delete(ctx context.Context, id string) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoNotificationRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	res, err := m.col.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (m *MongoNotificationRepository) Count(ctx context.Context) (int64, error) {
	return m.col.CountDocuments(ctx, bson.M{})
}

func (m *MongoNotificationRepository) CountUnread(ctx context.Context) (int64, error) {
	return m.col.CountDocuments(ctx, bson.M{"is_read": false})
}

func (m *MongoNotificationRepository) CountByType(ctx context.Context, typ model.NotificationType) (int64, error) {
	return m.col.CountDocuments(ctx, bson.M{"type": typ})
}

func readFilter(userID string, unreadOnly bool) bson.M {
	filter := bson.M{"user_id": userID}
	if unreadOnly {
		filter["is_read"] = false
	}
	return filter
}
