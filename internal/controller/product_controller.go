package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"food-ordering-api/internal/cache"
	"food-ordering-api/internal/dto"
	"food-ordering-api/internal/service"
)

// ProductCacheKey prefixes the cached product responses; mutations
// invalidate ProductCacheKey + "*".
const ProductCacheKey = "products:"

type ProductController struct {
	Products *service.ProductService
	Cache    *cache.Cache
}

func NewProductController(products *service.ProductService, store *cache.Cache) *ProductController {
	return &ProductController{Products: products, Cache: store}
}

// GET /api/products
func (ctl *ProductController) List(c *gin.Context) {
	products, err := ctl.Products.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// GET /api/products/:id
func (ctl *ProductController) Get(c *gin.Context) {
	product, err := ctl.Products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// POST /api/products (admin only)
func (ctl *ProductController) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := ctl.Products.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	ctl.invalidate(c)
	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// PUT /api/products/:id (admin only)
func (ctl *ProductController) Update(c *gin.Context) {
	var req dto.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := ctl.Products.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	ctl.invalidate(c)
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// DELETE /api/products/:id (admin only)
func (ctl *ProductController) Delete(c *gin.Context) {
	if err := ctl.Products.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	ctl.invalidate(c)
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

func (ctl *ProductController) invalidate(c *gin.Context) {
	_ = ctl.Cache.Invalidate(c.Request.Context(), ProductCacheKey+"*")
}
