package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Adi-ops16/Swift-Tix-server/internal/helpers"
	"github.com/Adi-ops16/Swift-Tix-server/internal/models"
	"github.com/Adi-ops16/Swift-Tix-server/internal/stores"
)

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL"`
}

type UpdateRoleRequest struct {
	ID          uuid.UUID `json:"id" binding:"required"`
	UpdatedRole string    `json:"updatedRole" binding:"required"`
}

func GetRole(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		helpers.RespondWithError(c, http.StatusBadRequest, "Email query parameter is required.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	role, err := stores.NewUserStore(gormDB).RoleByEmail(email)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Couldn't get role.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"role": role})
}

func ListUsers(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	users, err := stores.NewUserStore(gormDB).List()
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Couldn't get users.")
		return
	}

	c.JSON(http.StatusOK, users)
}

// CreateUser is an idempotent create keyed by email: posting the same
// email twice leaves exactly one record and reports the duplicate.
func CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	user := models.User{
		Email:    req.Email,
		Name:     req.Name,
		PhotoURL: req.PhotoURL,
	}

	if err := stores.NewUserStore(gormDB).CreateIfAbsent(&user); err != nil {
		if errors.Is(err, stores.ErrUserExists) {
			c.JSON(http.StatusOK, gin.H{"message": "User already exists in Database"})
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create user.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User created successfully.",
		"user":    user,
	})
}

func UpdateRole(c *gin.Context) {
	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	if err := stores.NewUserStore(gormDB).UpdateRole(req.ID, req.UpdatedRole); err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "User not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update role.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Role updated successfully."})
}
