package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/envelopay/backend/internal/auth"
	"github.com/envelopay/backend/internal/httputil"
	"github.com/envelopay/backend/internal/models"
	"github.com/envelopay/backend/internal/reconciliation"
)

// RegisterReconciliationRoutes registers the routes for the
// reconciliation report with the RouterGroup that is passed.
func RegisterReconciliationRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsReconciliation)
	r.GET("", GetReconciliation)
}

type ReconciliationResponse struct {
	Error *string                `json:"error" example:"there is no account matching your query"`
	Data  *reconciliation.Report `json:"data"`
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Reconciliation
// @Success		204
// @Router			/v1/reconciliation [options]
func OptionsReconciliation(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Reconciliation report
// @Description	Returns the money conservation report: account balances, envelope balances and the surplus that reconciles them
// @Tags			Reconciliation
// @Produce		json
// @Success		200	{object}	ReconciliationResponse
// @Failure		500	{object}	ReconciliationResponse
// @Router			/v1/reconciliation [get]
func GetReconciliation(c *gin.Context) {
	report, err := reconciliation.Compute(models.DB, auth.UserID(c))
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ReconciliationResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, ReconciliationResponse{Data: &report})
}
