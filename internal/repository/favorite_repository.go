package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"food-ordering-api/internal/model"
)

type MongoFavoriteRepository struct {
	col *mongo.Collection
}

func NewMongoFavoriteRepository(db *mongo.Database) *MongoFavoriteRepository {
	return &MongoFavoriteRepository{col: db.Collection("favorites")}
}

// Insert returns ErrDuplicateKey when the product is already a favorite of
// the user (compound unique index).
func (m *MongoFavoriteRepository) Insert(ctx context.Context, f *model.Favorite) error {
	_, err := m.col.InsertOne(ctx, f)
	return mapWriteErr(err)
}

func (m *MongoFavoriteRepository) Delete(ctx context.Context, userID, productID string) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"user_id": userID, "product_id": productID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoFavoriteRepository) FindByUser(ctx context.Context, userID string) ([]*model.Favorite, error) {
	cur, err := m.col.Find(ctx, bson.M{"user_id": userID}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*model.Favorite
	for cur.Next(ctx) {
		var f model.Favorite
		if err := cur.Decode(&f); err != nil {
			return nil, err
		}
		out = append(out, &f)
	}
	return out, cur.Err()
}
