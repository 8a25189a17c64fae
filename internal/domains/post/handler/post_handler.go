package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gallery-backend/internal/domains/post"
	"gallery-backend/internal/shared/apperror"
	"gallery-backend/internal/shared/request"
	"gallery-backend/internal/shared/response"
)

// ContentField là field multipart chứa file content (lặp lại được khi update)
const ContentField = "content"

type PostHandler struct {
	service post.Service
}

func NewPostHandler(service post.Service) *PostHandler {
	return &PostHandler{service: service}
}

// Create xử lý POST /posts
// Body là JSON, hoặc multipart với "data" (JSON) + tối đa 1 file "content"
func (h *PostHandler) Create(c *gin.Context) {
	// STEP 1: PARSE REQUEST BODY
	var req post.CreatePostRequest
	if err := request.BindBody(c, &req); err != nil {
		response.FromError(c, err)
		return
	}

	// STEP 2: OPTIONAL FILE
	file, err := request.FormFile(c, ContentField)
	if err != nil {
		response.FromError(c, err)
		return
	}

	// STEP 3: CALL SERVICE
	created, err := h.service.Create(c.Request.Context(), req, file)
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.Header("Location", "/api/v1/posts/"+created.Slug)
	response.Success(c, http.StatusCreated, "Post created successfully", created)
}

// List xử lý GET /posts
func (h *PostHandler) List(c *gin.Context) {
	var filter post.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.FromError(c, apperror.Validation("invalid query", apperror.FieldError{Field: "query", Message: err.Error()}))
		return
	}

	page, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Posts retrieved successfully", page)
}

// GetBySlug xử lý GET /posts/:slug, mỗi lần gọi tính 1 view
func (h *PostHandler) GetBySlug(c *gin.Context) {
	p, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Post retrieved successfully", p)
}

// Update xử lý PUT /posts/:id
func (h *PostHandler) Update(c *gin.Context) {
	// STEP 1: PARSE PARTIAL BODY
	var req post.UpdatePostRequest
	if err := request.BindBody(c, &req); err != nil {
		response.FromError(c, err)
		return
	}

	// STEP 2: FILES để append vào content
	files, err := request.FormFiles(c, ContentField)
	if err != nil {
		response.FromError(c, err)
		return
	}

	// STEP 3: CALL SERVICE
	updated, err := h.service.Update(c.Request.Context(), c.Param("id"), req, files)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Post updated successfully", updated)
}

// DeleteContent xử lý PUT /posts/:id/delete-content
func (h *PostHandler) DeleteContent(c *gin.Context) {
	var req post.DeleteContentRequest
	if err := request.BindBody(c, &req); err != nil {
		response.FromError(c, err)
		return
	}

	updated, err := h.service.DeleteContent(c.Request.Context(), c.Param("id"), req.ContentURL)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Content deleted successfully", updated)
}

// Delete xử lý DELETE /posts/:id
func (h *PostHandler) Delete(c *gin.Context) {
	if _, err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Post deleted successfully", nil)
}
