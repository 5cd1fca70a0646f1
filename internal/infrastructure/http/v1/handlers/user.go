package handlers

import (
	"github.com/gin-gonic/gin"

	"usersvc/internal/domain/user"
	"usersvc/internal/infrastructure/http/v1/dto"
)

// UserHandler serves the /users routes.
type UserHandler struct {
	base    *BaseHandler
	service *user.Service
}

// NewUserHandler creates a new user handler.
func NewUserHandler(base *BaseHandler, service *user.Service) *UserHandler {
	return &UserHandler{
		base:    base,
		service: service,
	}
}

// List handles GET /users.
func (h *UserHandler) List(c *gin.Context) {
	var query dto.ListUsersQuery
	if !h.base.BindQuery(c, &query) {
		return
	}
	query.Defaults()

	limit, offset := query.LimitOffset()
	users, total, err := h.service.ListUsers(c.Request.Context(), limit, offset)
	if err != nil {
		h.base.Error(c, err)
		return
	}

	h.base.OK(c, dto.NewListUsersResponse(users, query.Page, query.PageSize, total))
}

// Create handles POST /users.
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if !h.base.BindJSON(c, &req) {
		return
	}

	created, err := h.service.CreateUser(c.Request.Context(), req.ToCreateUser())
	if err != nil {
		h.base.Error(c, err)
		return
	}

	h.base.Created(c, dto.FromUser(created))
}

// Get handles GET /users/:userId.
func (h *UserHandler) Get(c *gin.Context) {
	userID, ok := h.base.ParseID(c, "userId")
	if !ok {
		return
	}

	u, err := h.service.GetUser(c.Request.Context(), userID)
	if err != nil {
		h.base.Error(c, err)
		return
	}

	h.base.OK(c, dto.FromUser(u))
}

// Patch handles PATCH /users/:userId.
func (h *UserHandler) Patch(c *gin.Context) {
	userID, ok := h.base.ParseID(c, "userId")
	if !ok {
		return
	}

	var req dto.PatchUserRequest
	if !h.base.BindJSON(c, &req) {
		return
	}

	updated, err := h.service.PatchUser(c.Request.Context(), userID, req)
	if err != nil {
		h.base.Error(c, err)
		return
	}

	h.base.OK(c, dto.FromUser(updated))
}

// Delete handles DELETE /users/:userId.
func (h *UserHandler) Delete(c *gin.Context) {
	userID, ok := h.base.ParseID(c, "userId")
	if !ok {
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), userID); err != nil {
		h.base.Error(c, err)
		return
	}

	h.base.NoContent(c)
}
