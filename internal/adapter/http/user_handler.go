package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/legolas182/NatureGlow/internal/adapter/http/middleware"
	"github.com/legolas182/NatureGlow/internal/entity"
	"github.com/legolas182/NatureGlow/internal/usecase"
)

type UserHandler struct {
	accounts *usecase.Accounts
}

func NewUserHandler(accounts *usecase.Accounts) *UserHandler {
	return &UserHandler{accounts: accounts}
}

type registerReq struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.accounts.Register(c.Request.Context(), usecase.RegisterInput{
		Name: req.Name, Email: req.Email, Password: req.Password,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "user registered", "user": toUserResp(u)})
}

type loginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	token, u, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// Invalid credentials are a 401 on this endpoint, not 400.
		if errors.Is(err, entity.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
			return
		}
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": toUserResp(u)})
}

func (h *UserHandler) Profile(c *gin.Context) {
	u, err := h.accounts.Profile(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResp(u))
}

type updateProfileReq struct {
	Name     string `json:"name"`
	Password string `json:"password" binding:"omitempty,min=8"`
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.accounts.UpdateProfile(c.Request.Context(), middleware.CallerFrom(c), req.Name, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResp(u))
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.accounts.ListUsers(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	out := make([]userResp, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResp(u))
	}
	c.JSON(http.StatusOK, out)
}

func (h *UserHandler) GetByID(c *gin.Context) {
	u, err := h.accounts.GetUser(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResp(u))
}

type createUserReq struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"omitempty,oneof=customer admin"`
	Active   *bool  `json:"active"`
}

// updateUserReq differs from create only in the password: an omitted
// password keeps the current one.
type updateUserReq struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"omitempty,min=8"`
	Role     string `json:"role" binding:"omitempty,oneof=customer admin"`
	Active   *bool  `json:"active"`
}

func (h *UserHandler) Create(c *gin.Context) {
	var req createUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.accounts.CreateUser(c.Request.Context(), middleware.CallerFrom(c), usecase.UserInput{
		Name: req.Name, Email: req.Email, Password: req.Password,
		Role: entity.Role(req.Role), Active: req.Active,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toUserResp(u))
}

func (h *UserHandler) Update(c *gin.Context) {
	var req updateUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.accounts.UpdateUser(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"), usecase.UserInput{
		Name: req.Name, Email: req.Email, Password: req.Password,
		Role: entity.Role(req.Role), Active: req.Active,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResp(u))
}

func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.accounts.DeleteUser(c.Request.Context(), middleware.CallerFrom(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deactivated"})
}
