package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jaideep-27/insightwiz/internal/api/dto"
	"github.com/jaideep-27/insightwiz/internal/api/middleware"
	"github.com/jaideep-27/insightwiz/internal/domain/user"
	"github.com/jaideep-27/insightwiz/pkg/config"
	"github.com/jaideep-27/insightwiz/pkg/security/auth"
	"go.uber.org/zap"
)

// AuthHandler serves registration, login and profile endpoints.
type AuthHandler struct {
	userService user.Service
	authConfig  config.AuthConfig
	logger      *zap.Logger
}

func NewAuthHandler(userService user.Service, authConfig config.AuthConfig, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		authConfig:  authConfig,
		logger:      logger,
	}
}

// Register creates an account and issues a token.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	u, err := h.userService.Register(c.Request.Context(), user.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, user.ErrEmailExists) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "User already exists with this email"})
			return
		}
		h.logger.Error("Registration failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error during registration"})
		return
	}

	token, err := h.issueToken(u)
	if err != nil {
		h.logger.Error("Token generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error during registration"})
		return
	}

	c.JSON(http.StatusCreated, dto.AuthResponse{
		Message: "User registered successfully",
		Token:   token,
		User:    dto.ToUserPayload(u),
	})
}

// Login verifies credentials and issues a token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and password are required"})
		return
	}

	u, err := h.userService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid credentials"})
			return
		}
		h.logger.Error("Login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error during login"})
		return
	}

	token, err := h.issueToken(u)
	if err != nil {
		h.logger.Error("Token generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error during login"})
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		Message: "Login successful",
		Token:   token,
		User:    dto.ToUserPayload(u),
	})
}

// Verify returns the account behind a valid token.
func (h *AuthHandler) Verify(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "user not authenticated"})
		return
	}

	u, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error during token verification"})
		return
	}

	c.JSON(http.StatusOK, dto.ProfileResponse{User: dto.ToUserPayload(u)})
}

// UpdateProfile applies a partial profile update.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "user not authenticated"})
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	u, err := h.userService.UpdateProfile(c.Request.Context(), userID, user.UpdateProfileInput{
		Name:        req.Name,
		Preferences: req.Preferences,
	})
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		h.logger.Error("Profile update failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error during profile update"})
		return
	}

	c.JSON(http.StatusOK, dto.ProfileResponse{
		Message: "Profile updated successfully",
		User:    dto.ToUserPayload(u),
	})
}

func (h *AuthHandler) issueToken(u *user.User) (string, error) {
	return auth.GenerateToken(
		u.ID,
		u.Email,
		u.Name,
		h.authConfig.JWTSecret,
		h.authConfig.JWTIssuer,
		h.authConfig.JWTExpiryHours,
	)
}
