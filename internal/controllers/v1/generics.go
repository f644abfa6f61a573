package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/envelopay/backend/internal/auth"
	"github.com/envelopay/backend/internal/httputil"
	"github.com/envelopay/backend/internal/models"
)

// resourceOptionsDetail returns the appropriate response for an HTTP OPTIONS
// request for a specific resource.
//
// The lookup is scoped to the authenticated caller, a resource owned by
// another user behaves exactly like a missing one.
func resourceOptionsDetail[R models.Account | models.Envelope | models.IncomeSource | models.Transaction](c *gin.Context, resource R) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Where("user_id = ?", auth.UserID(c)).First(&resource, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}
