package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/envelopay/backend/internal/auth"
	"github.com/envelopay/backend/internal/debts"
	"github.com/envelopay/backend/internal/httputil"
	"github.com/envelopay/backend/internal/models"
)

// RegisterDebtRoutes registers the routes for debt payoff planning
// with the RouterGroup that is passed.
func RegisterDebtRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsDebts)
	r.GET("", GetDebtComparison)
	r.POST("", CompareDebts)
}

type DebtComparison struct {
	Debts      []debts.CardDebt `json:"debts"`
	Comparison debts.Comparison `json:"comparison"`
}

type DebtComparisonResponse struct {
	Error *string         `json:"error" example:"there are no credit card accounts carrying debt"`
	Data  *DebtComparison `json:"data"`
}

// DebtCompareEditable is an explicit comparison request with caller
// supplied debt snapshots instead of live account data.
type DebtCompareEditable struct {
	Debts       []debts.CardDebt `json:"debts"`
	ExtraBudget decimal.Decimal  `json:"extraBudget" example:"150"`
}

type DebtQuery struct {
	ExtraBudget decimal.Decimal `form:"extraBudget"` // Extra money per month on top of the minimum payments. Defaults to 0.
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Debts
// @Success		204
// @Router			/v1/debts [options]
func OptionsDebts(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Debt payoff comparison
// @Description	Builds debt snapshots from the credit card accounts and compares the avalanche and snowball repayment strategies
// @Tags			Debts
// @Produce		json
// @Success		200	{object}	DebtComparisonResponse
// @Failure		400	{object}	DebtComparisonResponse
// @Failure		500	{object}	DebtComparisonResponse
// @Router			/v1/debts [get]
// @Param			extraBudget	query	string	false	"Extra money per month on top of the minimum payments. Defaults to 0."
func GetDebtComparison(c *gin.Context) {
	var query DebtQuery
	if err := c.Bind(&query); err != nil {
		s := httputil.ErrInvalidQueryString.Error()
		c.JSON(http.StatusBadRequest, DebtComparisonResponse{
			Error: &s,
		})
		return
	}

	var accounts []models.Account
	err := models.DB.
		Where(&models.Account{UserID: auth.UserID(c), Type: models.AccountTypeCreditCard, Archived: false}, "UserID", "Type", "Archived").
		Order("name ASC").
		Find(&accounts).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), DebtComparisonResponse{
			Error: &s,
		})
		return
	}

	snapshots := debts.Snapshots(accounts)
	if len(snapshots) == 0 {
		s := errNoDebts.Error()
		c.JSON(http.StatusBadRequest, DebtComparisonResponse{
			Error: &s,
		})
		return
	}

	comparison := debts.Compare(snapshots, query.ExtraBudget)
	c.JSON(http.StatusOK, DebtComparisonResponse{
		Data: &DebtComparison{
			Debts:      snapshots,
			Comparison: comparison,
		},
	})
}

// @Summary		Debt payoff comparison for explicit debts
// @Description	Compares the avalanche and snowball repayment strategies for caller supplied debt snapshots, e.g. for what-if planning
// @Tags			Debts
// @Produce		json
// @Success		200		{object}	DebtComparisonResponse
// @Failure		400		{object}	DebtComparisonResponse
// @Failure		500		{object}	DebtComparisonResponse
// @Param			request	body		DebtCompareEditable	true	"Debts to compare"
// @Router			/v1/debts [post]
func CompareDebts(c *gin.Context) {
	var editable DebtCompareEditable
	if err := httputil.BindData(c, &editable); err != nil {
		s := err.Error()
		c.JSON(status(err), DebtComparisonResponse{
			Error: &s,
		})
		return
	}

	if len(editable.Debts) == 0 {
		s := errNoDebts.Error()
		c.JSON(http.StatusBadRequest, DebtComparisonResponse{
			Error: &s,
		})
		return
	}

	comparison := debts.Compare(editable.Debts, editable.ExtraBudget)
	c.JSON(http.StatusOK, DebtComparisonResponse{
		Data: &DebtComparison{
			Debts:      editable.Debts,
			Comparison: comparison,
		},
	})
}
