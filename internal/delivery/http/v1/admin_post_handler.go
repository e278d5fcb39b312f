package v1

import (
	"net/http"
	"strconv"

	"kohi-api/internal/delivery/http/response"
	"kohi-api/internal/domain"
	"kohi-api/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type AdminPostHandler struct {
	postUC domain.PostUsecase
}

// NewAdminPostHandler registers post management routes. The group must sit
// behind the admin gate.
func NewAdminPostHandler(admin *gin.RouterGroup, postUC domain.PostUsecase) {
	handler := &AdminPostHandler{postUC: postUC}

	posts := admin.Group("/posts")
	{
		posts.GET("", handler.List)
		posts.POST("", handler.Create)
		posts.GET("/:id", handler.Get)
		posts.PATCH("/:id", handler.Update)
		posts.DELETE("/:id", handler.Delete)
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.Error(apperror.BadRequest("Invalid id"))
		return 0, false
	}
	return id, true
}

// List godoc
// @Summary      List all posts
// @Description  Every post including drafts, newest publish date first.
// @Tags         admin
// @Produce      json
// @Security     BasicAuth
// @Success      200  {object}  response.Response{data=[]domain.Post}
// @Failure      401  {object}  response.Response
// @Failure      503  {object}  response.Response
// @Router       /admin/posts [get]
func (h *AdminPostHandler) List(c *gin.Context) {
	posts, err := h.postUC.ListPosts(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "", posts)
}

// Get godoc
// @Summary      Get a post
// @Tags         admin
// @Produce      json
// @Security     BasicAuth
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  response.Response{data=domain.Post}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /admin/posts/{id} [get]
func (h *AdminPostHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	post, err := h.postUC.GetPost(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "", post)
}

// Create godoc
// @Summary      Create a post
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        post  body      domain.PostInput  true  "Post"
// @Success      201   {object}  response.Response{data=domain.Post}
// @Failure      400   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /admin/posts [post]
func (h *AdminPostHandler) Create(c *gin.Context) {
	var input domain.PostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	post, err := h.postUC.CreatePost(c.Request.Context(), &input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Post created", post)
}

// Update godoc
// @Summary      Replace a post
// @Description  Every field is replaced by the payload.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        id    path      int               true  "Post ID"
// @Param        post  body      domain.PostInput  true  "Post"
// @Success      200   {object}  response.Response{data=domain.Post}
// @Failure      400   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /admin/posts/{id} [patch]
func (h *AdminPostHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var input domain.PostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	post, err := h.postUC.UpdatePost(c.Request.Context(), id, &input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Post updated", post)
}

// Delete godoc
// @Summary      Delete a post
// @Tags         admin
// @Produce      json
// @Security     BasicAuth
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /admin/posts/{id} [delete]
func (h *AdminPostHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.postUC.DeletePost(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Post deleted", nil)
}
