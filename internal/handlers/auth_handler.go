// formajoy-api/internal/handlers/auth_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/baxirbajja/Formajoy-api/config"
	"github.com/baxirbajja/Formajoy-api/internal/identity"
)

type registerAdminInput struct {
	LastName  string `json:"nom" binding:"required"`
	FirstName string `json:"prenom" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
}

// RegisterAdminHandler creates an administrator account and signs it in.
func RegisterAdminHandler(c *gin.Context) {
	var input registerAdminInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	resolver := identity.NewResolver(config.DB)
	account, err := resolver.RegisterAdmin(input.LastName, input.FirstName, input.Email, input.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := identity.IssueToken(account.Role, account.ID())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"token":   token,
		"user":    account.Summarize(),
	})
}

// RegisterHandler creates a teacher, student or organization account
// depending on the role field, then signs it in.
func RegisterHandler(c *gin.Context) {
	var input identity.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	resolver := identity.NewResolver(config.DB)
	account, err := resolver.Register(input)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := identity.IssueToken(account.Role, account.ID())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"token":   token,
		"user":    account.Summarize(),
	})
}

type loginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginHandler authenticates by email and password.
func LoginHandler(c *gin.Context) {
	var input loginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	resolver := identity.NewResolver(config.DB)
	account, err := resolver.Login(input.Email, input.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := identity.IssueToken(account.Role, account.ID())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"user":    account.Summarize(),
	})
}

// MeHandler returns the full account of the authenticated caller.
func MeHandler(c *gin.Context) {
	claims := identity.Claims{
		UserID: c.GetUint("user_id"),
		Role:   c.GetString("role"),
	}
	account, err := identity.NewResolver(config.DB).Resolve(claims)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, account.Data())
}
