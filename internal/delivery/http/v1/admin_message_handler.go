package v1

import (
	"net/http"
	"strconv"

	"kohi-api/internal/delivery/http/response"
	"kohi-api/internal/domain"
	"kohi-api/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type AdminMessageHandler struct {
	contactUC domain.ContactUsecase
}

func NewAdminMessageHandler(admin *gin.RouterGroup, contactUC domain.ContactUsecase) {
	handler := &AdminMessageHandler{contactUC: contactUC}
	admin.GET("/messages", handler.List)
}

// List godoc
// @Summary      List contact messages
// @Description  Read-only inbox of stored submissions, newest first.
// @Tags         admin
// @Produce      json
// @Security     BasicAuth
// @Param        status  query     string  false  "received, sent or error"
// @Param        limit   query     int     false  "Page size (default 50, max 200)"
// @Param        offset  query     int     false  "Rows to skip"
// @Success      200     {object}  response.Response{data=response.Page}
// @Failure      400     {object}  response.Response
// @Failure      503     {object}  response.Response
// @Router       /admin/messages [get]
func (h *AdminMessageHandler) List(c *gin.Context) {
	filter := domain.ContactListFilter{
		Status: domain.ContactStatus(c.Query("status")),
	}

	var err error
	if v := c.Query("limit"); v != "" {
		if filter.Limit, err = strconv.Atoi(v); err != nil {
			c.Error(apperror.BadRequest("Invalid limit"))
			return
		}
	}
	if v := c.Query("offset"); v != "" {
		if filter.Offset, err = strconv.Atoi(v); err != nil {
			c.Error(apperror.BadRequest("Invalid offset"))
			return
		}
	}

	messages, total, err := h.contactUC.ListMessages(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	if messages == nil {
		messages = []domain.ContactMessage{}
	}

	page := filter.Normalized()
	response.Success(c, http.StatusOK, "", response.Page{
		Items:  messages,
		Total:  total,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
}
