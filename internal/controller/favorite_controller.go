package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"food-ordering-api/internal/dto"
	"food-ordering-api/internal/service"
)

type FavoriteController struct {
	Favorites *service.FavoriteService
}

func NewFavoriteController(favorites *service.FavoriteService) *FavoriteController {
	return &FavoriteController{Favorites: favorites}
}

// GET /api/favorites
func (ctl *FavoriteController) List(c *gin.Context) {
	favorites, err := ctl.Favorites.List(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorites": favorites})
}

// POST /api/favorites
func (ctl *FavoriteController) Add(c *gin.Context) {
	var req dto.AddFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	favorite, err := ctl.Favorites.Add(c.Request.Context(), c.GetString("userID"), req.ProductID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"favorite": favorite})
}

// DELETE /api/favorites/:productId
func (ctl *FavoriteController) Remove(c *gin.Context) {
	err := ctl.Favorites.Remove(c.Request.Context(), c.GetString("userID"), c.Param("productId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Removed from favorites"})
}
