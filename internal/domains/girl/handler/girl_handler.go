package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gallery-backend/internal/domains/girl"
	"gallery-backend/internal/shared/apperror"
	"gallery-backend/internal/shared/request"
	"gallery-backend/internal/shared/response"
)

// ImageField là field multipart chứa ảnh profile
const ImageField = "image"

// GirlHandler xử lý HTTP requests cho girl domain
type GirlHandler struct {
	service girl.Service
}

func NewGirlHandler(service girl.Service) *GirlHandler {
	return &GirlHandler{service: service}
}

// Create xử lý POST /girls
func (h *GirlHandler) Create(c *gin.Context) {
	// STEP 1: PARSE REQUEST BODY
	var req girl.CreateGirlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	// STEP 2: CALL SERVICE (validate + check trùng + persist)
	created, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.Header("Location", "/api/v1/girls/"+created.ID)
	response.Success(c, http.StatusCreated, "Girl created successfully", created)
}

// List xử lý GET /girls
func (h *GirlHandler) List(c *gin.Context) {
	var filter girl.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.FromError(c, apperror.Validation("invalid query", apperror.FieldError{Field: "query", Message: err.Error()}))
		return
	}

	page, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Girls retrieved successfully", page)
}

// GetByID xử lý GET /girls/:id
func (h *GirlHandler) GetByID(c *gin.Context) {
	g, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Girl retrieved successfully", g)
}

// GetBySlug xử lý GET /girls/slug/:slug
func (h *GirlHandler) GetBySlug(c *gin.Context) {
	g, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Girl retrieved successfully", g)
}

// Update xử lý PUT /girls/:id
// Body là JSON, hoặc multipart với field "data" (JSON) + field "image" (file)
func (h *GirlHandler) Update(c *gin.Context) {
	// STEP 1: PARSE PARTIAL BODY
	var req girl.UpdateGirlRequest
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

	// STEP 3: CALL SERVICE
	updated, err := h.service.Update(c.Request.Context(), c.Param("id"), req, image)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Girl updated successfully", updated)
}

// Delete xử lý DELETE /girls/:id
func (h *GirlHandler) Delete(c *gin.Context) {
	if _, err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Girl deleted successfully", nil)
}
