package httputil

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ErrRequestBodyEmpty is returned when the request body must not be empty, but is
var ErrRequestBodyEmpty = errors.New("the request body must not be empty")

// ErrInvalidBody is returned when the body cannot be parsed
var ErrInvalidBody = errors.New("the body of your request contains invalid or un-parseable data. Please check and try again")

// ErrInvalidQueryString is returned when query string parameters cannot be parsed
var ErrInvalidQueryString = errors.New("the URL you specified contains invalid or un-parseable data. Please check and try again")

// BindData binds the data from the request to the struct passed in the interface.
func BindData(c *gin.Context, data interface{}) error {
	if err := c.ShouldBindJSON(&data); err != nil {
		if errors.Is(io.EOF, err) {
			return ErrRequestBodyEmpty
		}

		log.Error().Str("request-id", requestid.Get(c)).Msgf("%T: %v", err, err.Error())
		return ErrInvalidBody
	}

	return nil
}

// ErrorResponse is the response body for requests that failed.
type ErrorResponse struct {
	Error string `json:"error" example:"the specified resource ID is not a valid UUID"`
}

// NewError writes an error response with the passed status.
func NewError(c *gin.Context, status int, err error) {
	c.JSON(status, ErrorResponse{
		Error: err.Error(),
	})
}

// InternalServerError logs the error and responds with a general
// message referencing the request ID, so server admins can find the
// log line.
func InternalServerError(c *gin.Context, err error) {
	log.Error().Str("request-id", requestid.Get(c)).Msgf("%T: %v", err, err.Error())
	NewError(c, http.StatusInternalServerError, errors.New("an error occurred on the server during your request, the request id is '"+requestid.Get(c)+"'"))
}
