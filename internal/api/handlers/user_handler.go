// server/internal/api/handlers/user_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"inbound-wms-api-server/internal/api/middleware"
	"inbound-wms-api-server/internal/auth"
	"inbound-wms-api-server/internal/repository"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	Users  repository.UserRepository
	Tokens *auth.TokenManager
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login kiểm tra email/mật khẩu và cấp JWT.
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	user, err := h.Users.GetByEmail(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid email or password"})
			return
		}
		respondError(c, err)
		return
	}
	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid email or password"})
		return
	}

	token, err := h.Tokens.Generate(user.Email, user.Name, user.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"token": token, "user": user})
}

// Me trả về thông tin user của token hiện tại.
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.Users.GetByEmail(c.Request.Context(), c.GetString(middleware.UserEmailKey))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, user)
}
