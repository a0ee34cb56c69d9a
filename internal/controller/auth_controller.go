package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"food-ordering-api/internal/dto"
	"food-ordering-api/internal/service"
)

type AuthController struct {
	Auth *service.AuthService
}

func NewAuthController(auth *service.AuthService) *AuthController {
	return &AuthController{Auth: auth}
}

// POST /api/auth/signup
func (ctl *AuthController) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := ctl.Auth.Signup(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"accessToken": token,
		"user":        user,
		"message":     "User registered successfully",
	})
}

// POST /api/auth/login
func (ctl *AuthController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := ctl.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accessToken": token,
		"user":        user,
		"message":     "Login successful",
	})
}

// GET /api/users/profile
func (ctl *AuthController) GetProfile(c *gin.Context) {
	user, err := ctl.Auth.Profile(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// PUT /api/users/profile
func (ctl *AuthController) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := ctl.Auth.UpdateProfile(c.Request.Context(), c.GetString("userID"), req.Username, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accessToken": token,
		"user":        user,
		"message":     "Profile updated successfully",
	})
}
