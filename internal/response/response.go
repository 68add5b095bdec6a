package response

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/fekuna/omnipos-storefront/internal/apperror"
	"github.com/fekuna/omnipos-storefront/internal/validation"
	"github.com/fekuna/omnipos-storefront/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	maxPerPage = 100
	// maxPage keeps LIMIT/OFFSET arithmetic far from overflow.
	maxPage = 1_000_000
)

type Meta struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
}

type Links struct {
	Next *string `json:"next"`
	Prev *string `json:"prev"`
}

type Page struct {
	Data  interface{} `json:"data"`
	Meta  Meta        `json:"meta"`
	Links Links       `json:"links"`
}

// ParsePage reads page and per_page from the query string.
func ParsePage(c *gin.Context, defaultPerPage int) (page, perPage int) {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	perPage, err = strconv.Atoi(c.Query("per_page"))
	if err != nil || perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}

func NewPage(c *gin.Context, data interface{}, page, perPage, total int) Page {
	lastPage := 1
	if perPage > 0 && total > 0 {
		lastPage = (total + perPage - 1) / perPage
	}

	var links Links
	if page < lastPage {
		links.Next = pageURL(c, page+1)
	}
	if page > 1 {
		links.Prev = pageURL(c, page-1)
	}

	return Page{
		Data: data,
		Meta: Meta{
			CurrentPage: page,
			LastPage:    lastPage,
			PerPage:     perPage,
			Total:       total,
		},
		Links: links,
	}
}

func Paginated(c *gin.Context, data interface{}, page, perPage, total int) {
	c.JSON(http.StatusOK, NewPage(c, data, page, perPage, total))
}

func pageURL(c *gin.Context, page int) *string {
	q := c.Request.URL.Query()
	q.Set("page", strconv.Itoa(page))

	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	u := fmt.Sprintf("%s://%s%s?%s", scheme, c.Request.Host, c.Request.URL.Path, q.Encode())
	return &u
}

func Data(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"data": data})
}

func Message(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}

func MessageData(c *gin.Context, status int, msg string, data interface{}) {
	c.JSON(status, gin.H{"message": msg, "data": data})
}

// Error writes err as a JSON error envelope. Errors that are not an
// *apperror.Error are logged and reported as a generic server error.
func Error(c *gin.Context, log logger.ZapLogger, err error) {
	if errors.Is(err, validation.ErrBodyTooLarge) {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"message": "Request body too large."})
		return
	}
	if errors.Is(err, validation.ErrMalformedBody) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Malformed request body."})
		return
	}

	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		appErr = apperror.Internal(err)
	}

	if appErr.Kind == apperror.KindInternal {
		log.Error("request failed",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}

	body := gin.H{"message": appErr.Message}
	if appErr.Kind == apperror.KindValidation {
		body["errors"] = appErr.Fields
	}
	c.AbortWithStatusJSON(appErr.Kind.Status(), body)
}
