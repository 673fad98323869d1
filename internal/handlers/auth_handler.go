package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kngkeeper/therapydash-demo/internal/auth"
	"github.com/kngkeeper/therapydash-demo/internal/models"
	"github.com/kngkeeper/therapydash-demo/internal/session"
	"github.com/kngkeeper/therapydash-demo/internal/store"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Surname  string `json:"surname"`
	Role     string `json:"role" binding:"required"`
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	role := models.Role(req.Role)
	if !role.Valid() {
		fail(c, http.StatusBadRequest, "role must be therapist or client")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	user := &models.User{
		Email:        req.Email,
		Name:         req.Name,
		Surname:      req.Surname,
		PasswordHash: hash,
		Role:         role,
	}
	if err := h.users.CreateUser(c.Request.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			fail(c, http.StatusConflict, "An account with this email already exists")
			return
		}
		log.Printf("register: %v", err)
		fail(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	ok(c, http.StatusCreated, gin.H{"user": user})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request")
		return
	}

	user, err := h.users.UserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			log.Printf("login: %v", err)
		}
		fail(c, http.StatusUnauthorized, "Invalid login credentials")
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		fail(c, http.StatusUnauthorized, "Invalid login credentials")
		return
	}

	token, err := auth.GenerateToken(user, h.secret)
	if err != nil {
		log.Printf("login: %v", err)
		fail(c, http.StatusInternalServerError, "Could not generate token")
		return
	}

	ok(c, http.StatusOK, gin.H{"token": token, "user": user})
}
