package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"food-ordering-api/internal/model"
	"food-ordering-api/internal/repository"
	"food-ordering-api/internal/service"
)

type fakeFavoriteRepo struct {
	favorites map[string]*model.Favorite // keyed by userID|productID
}

func newFakeFavoriteRepo() *fakeFavoriteRepo {
	return &fakeFavoriteRepo{favorites: map[string]*model.Favorite{}}
}

func (f *fakeFavoriteRepo) Insert(_ context.Context, fav *model.Favorite) error {
	key := fav.UserID + "|" + fav.ProductID
	if _, ok := f.favorites[key]; ok {
		return repository.ErrDuplicateKey
	}
	f.favorites[key] = fav
	return nil
}

func (f *fakeFavoriteRepo) Delete(_ context.Context, userID, productID string) error {
	key := userID + "|" + productID
	if _, ok := f.favorites[key]; !ok {
		return repository.ErrNotFound
	}
	delete(f.favorites, key)
	return nil
}

func (f *fakeFavoriteRepo) FindByUser(_ context.Context, userID string) ([]*model.Favorite, error) {
	var out []*model.Favorite
	for _, fav := range f.favorites {
		if fav.UserID == userID {
			out = append(out, fav)
		}
	}
	return out, nil
}

func TestAddFavorite(t *testing.T) {
	repo := newFakeFavoriteRepo()
	svc := service.NewFavoriteService(repo, catalog())
	ctx := context.Background()

	fav, err := svc.Add(ctx, "user-1", "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", fav.ProductID)

	_, err = svc.Add(ctx, "user-1", "p1")
	assert.ErrorIs(t, err, service.ErrAlreadyFavorite)

	_, err = svc.Add(ctx, "user-1", "missing")
	assert.ErrorIs(t, err, service.ErrProductNotFound)

	_, err = svc.Add(ctx, "user-2", "p1")
	assert.NoError(t, err, "another user may favorite the same product")
}

func TestRemoveFavorite(t *testing.T) {
	repo := newFakeFavoriteRepo()
	svc := service.NewFavoriteService(repo, catalog())
	ctx := context.Background()

	_, err := svc.Add(ctx, "user-1", "p1")
	require.NoError(t, err)

	assert.NoError(t, svc.Remove(ctx, "user-1", "p1"))
	assert.ErrorIs(t, svc.Remove(ctx, "user-1", "p1"), service.ErrFavoriteNotFound)
}

func TestListFavorites(t *testing.T) {
	repo := newFakeFavoriteRepo()
	svc := service.NewFavoriteService(repo, catalog())
	ctx := context.Background()

	_, err := svc.Add(ctx, "user-1", "p1")
	require.NoError(t, err)
	_, err = svc.Add(ctx, "user-1", "p2")
	require.NoError(t, err)
	_, err = svc.Add(ctx, "user-2", "p1")
	require.NoError(t, err)

	list, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
