package v1

import (
	"net/http"

	"kohi-api/internal/delivery/http/middleware"
	"kohi-api/internal/delivery/http/response"
	"kohi-api/internal/domain"
	"kohi-api/pkg/apperror"

	"github.com/gin-gonic/gin"
)

const contactSuccessMessage = "Thanks — I'll get back to you soon."

type ContactHandler struct {
	contactUC domain.ContactUsecase
}

// NewContactHandler registers the contact routes (public, no auth required)
func NewContactHandler(public *gin.RouterGroup, contactUC domain.ContactUsecase, limiter gin.HandlerFunc) {
	handler := &ContactHandler{
		contactUC: contactUC,
	}

	public.POST("/contact", limiter, handler.SubmitContact)
}

// SubmitContact godoc
// @Summary      Submit Contact Form
// @Description  Send a message to the site owner. Rejects honeypot and too-fast submissions.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        contact  body      domain.ContactSubmission  true  "Contact Form Data"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Failure      503      {object}  response.Response
// @Router       /contact [post]
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	var req domain.ContactSubmission
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	meta := domain.RequestMeta{
		IP:        middleware.ForwardedIP(c),
		UserAgent: c.GetHeader("User-Agent"),
	}
	if _, err := h.contactUC.Submit(c.Request.Context(), &req, meta); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, contactSuccessMessage, nil)
}
