package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gallery-backend/internal/domains/user"
	"gallery-backend/internal/shared/middleware"
	"gallery-backend/internal/shared/request"
	"gallery-backend/internal/shared/response"
	"gallery-backend/pkg/logger"
)

// ImageField là field multipart chứa ảnh profile
const ImageField = "imageProfile"

// UserHandler xử lý HTTP requests cho user domain
type UserHandler struct {
	service user.Service
}

func NewUserHandler(service user.Service) *UserHandler {
	return &UserHandler{service: service}
}

// ========================================
// AUTHENTICATION ENDPOINTS
// ========================================

// Register xử lý POST /users/register
func (h *UserHandler) Register(c *gin.Context) {
	// STEP 1: PARSE REQUEST BODY
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	// STEP 2: CALL SERVICE (validate, check trùng, hash password)
	created, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.Header("Location", "/api/v1/users/"+created.ID)
	response.Success(c, http.StatusCreated, "User registered successfully", created)
}

// Login xử lý POST /users/login
func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		logger.Debug("Login rejected", map[string]interface{}{
			"ip":    middleware.GetClientIP(c),
			"error": err.Error(),
		})
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Login successful", res)
}

// ========================================
// PROFILE ENDPOINTS (JWT)
// ========================================

// GetProfile xử lý GET /users/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	u, err := h.service.GetProfile(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Profile retrieved successfully", u)
}

// UpdateProfile xử lý PUT /users/update
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	h.update(c, middleware.GetUserID(c))
}

// UpdateUser xử lý PUT /users/:id (admin)
func (h *UserHandler) UpdateUser(c *gin.Context) {
	h.update(c, c.Param("id"))
}

// update: body JSON, hoặc multipart "data" (JSON) + "imageProfile" (file)
func (h *UserHandler) update(c *gin.Context, targetID string) {
	// STEP 1: PARSE PARTIAL BODY
	var req user.UpdateUserRequest
	if err := request.BindBody(c, &req); err != nil {
		response.FromError(c, err)
		return
	}

	// STEP 2: OPTIONAL IMAGE
	image, err := request.FormFile(c, ImageField)
	if err != nil {
		response.FromError(c, err)
		return
	}

	// STEP 3: CALL SERVICE, quyền theo role đã load từ DB
	actor := user.Actor{ID: middleware.GetUserID(c), Role: user.Role(middleware.GetRole(c))}
	updated, err := h.service.Update(c.Request.Context(), actor, targetID, req, image)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "User updated successfully", updated)
}

// Deactivate xử lý PUT /users/deactivate
func (h *UserHandler) Deactivate(c *gin.Context) {
	u, err := h.service.Deactivate(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Account deactivated", u)
}
