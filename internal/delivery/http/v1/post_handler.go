package v1

import (
	"net/http"
	"strconv"

	"kohi-api/internal/delivery/http/response"
	"kohi-api/internal/domain"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postUC domain.PostUsecase
}

// NewPostHandler registers the public blog routes. Only published posts are
// ever returned.
func NewPostHandler(public *gin.RouterGroup, postUC domain.PostUsecase) {
	handler := &PostHandler{postUC: postUC}

	posts := public.Group("/posts")
	{
		posts.GET("", handler.List)
		posts.GET("/featured", handler.Featured)
		posts.GET("/:slug", handler.GetBySlug)
	}
}

// List godoc
// @Summary      List published posts
// @Tags         posts
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Post}
// @Router       /posts [get]
func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.postUC.ListPublished(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "", emptyIfNil(posts))
}

// Featured godoc
// @Summary      List featured posts
// @Tags         posts
// @Produce      json
// @Param        limit  query     int  false  "Max posts (default 2)"
// @Success      200    {object}  response.Response{data=[]domain.Post}
// @Router       /posts/featured [get]
func (h *PostHandler) Featured(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "2"))

	posts, err := h.postUC.ListFeatured(c.Request.Context(), limit)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "", emptyIfNil(posts))
}

// GetBySlug godoc
// @Summary      Get a published post
// @Tags         posts
// @Produce      json
// @Param        slug  path      string  true  "Post slug"
// @Success      200   {object}  response.Response{data=domain.Post}
// @Failure      404   {object}  response.Response
// @Router       /posts/{slug} [get]
func (h *PostHandler) GetBySlug(c *gin.Context) {
	post, err := h.postUC.GetPublishedBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "", post)
}

func emptyIfNil(posts []domain.Post) []domain.Post {
	if posts == nil {
		return []domain.Post{}
	}
	return posts
}
