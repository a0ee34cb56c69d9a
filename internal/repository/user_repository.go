package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"food-ordering-api/internal/model"
)

type MongoUserRepository struct {
	col *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{col: db.Collection("users")}
}

// Create returns ErrDuplicateKey when the email is already taken.
func (m *MongoUserRepository) Create(ctx context.Context, u *model.User) error {
	_, err := m.col.InsertOne(ctx, u)
	return mapWriteErr(err)
}

func (m *MongoUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	return &u, err
}

func (m *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := m.col.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	return &u, err
}

func (m *MongoUserRepository) Update(ctx context.Context, u *model.User) error {
	res, err := m.col.ReplaceOne(ctx, bson.M{"_id": u.ID}, u)
	if err != nil {
		return mapWriteErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// FindAllIDs returns every user id, used by the broadcast notifications.
func (m *MongoUserRepository) FindAllIDs(ctx context.Context) ([]string, error) {
	cur, err := m.col.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []string
	for cur.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		ids = append(ids, doc.ID)
	}
	return ids, cur.Err()
}
