package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ryanuber/go-glob"
	"github.com/shopspring/decimal"

	"github.com/envelopay/backend/internal/allocation"
	"github.com/envelopay/backend/internal/auth"
	"github.com/envelopay/backend/internal/httputil"
	"github.com/envelopay/backend/internal/models"
	"github.com/envelopay/backend/internal/surplus"
	"github.com/envelopay/backend/internal/transfers"
)

// RegisterIncomeRoutes registers the routes for income handling with
// the RouterGroup that is passed.
func RegisterIncomeRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("/reality", OptionsIncomeReality)
		r.GET("/reality", GetIncomeReality)
	}

	{
		r.OPTIONS("/allocate-surplus", OptionsAllocateSurplus)
		r.POST("/allocate-surplus", AllocateSurplus)
	}

	{
		r.OPTIONS("/detect", OptionsDetectIncome)
		r.POST("/detect", DetectIncome)
	}

	{
		r.OPTIONS("/approve", OptionsApproveIncome)
		r.POST("/approve", ApproveIncome)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Income
// @Success		204
// @Router			/v1/income/reality [options]
func OptionsIncomeReality(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Income
// @Success		204
// @Router			/v1/income/allocate-surplus [options]
func OptionsAllocateSurplus(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Income
// @Success		204
// @Router			/v1/income/detect [options]
func OptionsDetectIncome(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Income
// @Success		204
// @Router			/v1/income/approve [options]
func OptionsApproveIncome(c *gin.Context) {
	httputil.OptionsPost(c)
}

// incomeReality loads everything the surplus calculation needs for a
// user and runs it.
func incomeReality(userID uuid.UUID) (surplus.Summary, error) {
	var sources []models.IncomeSource
	err := models.DB.Where(&models.IncomeSource{UserID: userID}).Order("name ASC").Find(&sources).Error
	if err != nil {
		return surplus.Summary{}, err
	}

	var envelopes []models.Envelope
	err = models.DB.Where(&models.Envelope{UserID: userID}).Find(&envelopes).Error
	if err != nil {
		return surplus.Summary{}, err
	}

	committed, err := models.CommittedPerSource(models.DB, userID)
	if err != nil {
		return surplus.Summary{}, err
	}

	_, ccHolding, err := models.EnvelopeBalances(models.DB, userID)
	if err != nil {
		return surplus.Summary{}, err
	}

	return surplus.Calculate(sources, envelopes, committed, ccHolding), nil
}

// @Summary		Income reality
// @Description	Returns the committed amounts and surplus per active income source
// @Tags			Income
// @Produce		json
// @Success		200	{object}	RealityResponse
// @Failure		500	{object}	RealityResponse
// @Router			/v1/income/reality [get]
func GetIncomeReality(c *gin.Context) {
	summary, err := incomeReality(auth.UserID(c))
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RealityResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, RealityResponse{Data: &summary})
}

// @Summary		Allocate surplus
// @Description	Distributes a surplus amount to underfunded envelopes, largest deficit first. When no amount is sent, the currently allocatable surplus is used.
// @Tags			Income
// @Produce		json
// @Success		200		{object}	SurplusAllocationResponse
// @Failure		400		{object}	SurplusAllocationResponse
// @Failure		500		{object}	SurplusAllocationResponse
// @Param			request	body		SurplusAllocationEditable	true	"Surplus allocation"
// @Router			/v1/income/allocate-surplus [post]
func AllocateSurplus(c *gin.Context) {
	var editable SurplusAllocationEditable
	if err := httputil.BindData(c, &editable); err != nil {
		s := err.Error()
		c.JSON(status(err), SurplusAllocationResponse{
			Error: &s,
		})
		return
	}

	userID := auth.UserID(c)

	amount := editable.Amount
	if amount.IsZero() {
		summary, err := incomeReality(userID)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), SurplusAllocationResponse{
				Error: &s,
			})
			return
		}
		amount = summary.AllocatableSurplus
	}

	if !amount.IsPositive() {
		s := errSurplusNotPositive.Error()
		c.JSON(http.StatusBadRequest, SurplusAllocationResponse{
			Error: &s,
		})
		return
	}

	grants, remaining, err := allocation.ApplySurplus(models.DB, userID, amount)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SurplusAllocationResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, SurplusAllocationResponse{
		Data: &SurplusAllocation{
			Grants:    grants,
			Remaining: remaining,
		},
	})
}

// @Summary		Detect pay events
// @Description	Matches unreconciled income transactions against the payee patterns of active income sources and proposes a split for each
// @Tags			Income
// @Produce		json
// @Success		200	{object}	DetectListResponse
// @Failure		500	{object}	DetectListResponse
// @Router			/v1/income/detect [post]
func DetectIncome(c *gin.Context) {
	userID := auth.UserID(c)

	var sources []models.IncomeSource
	err := models.DB.
		Where(&models.IncomeSource{UserID: userID, Active: true}, "UserID", "Active").
		Order("name ASC").
		Find(&sources).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), DetectListResponse{
			Error: &s,
		})
		return
	}

	cutoff := time.Now().In(time.UTC).AddDate(0, 0, -transfers.DefaultScanDays)

	var transactions []models.Transaction
	err = models.DB.
		Where(&models.Transaction{UserID: userID}, "UserID").
		Where("reconciled = ? AND transfer_pending = ? AND linked_transaction_id IS NULL", false, false).
		Where("amount > 0").
		Where("date >= ?", cutoff).
		Order("date DESC").
		Find(&transactions).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), DetectListResponse{
			Error: &s,
		})
		return
	}

	data := []DetectedPayEvent{}
	for _, transaction := range transactions {
		for _, source := range sources {
			if source.MatchPattern == "" || !glob.Glob(source.MatchPattern, transaction.Payee) {
				continue
			}

			// The transaction amount has to roughly fit the expected
			// pay, a refund with a matching payee is not a pay event
			if source.Amount.IsPositive() && !amountFitsPay(transaction.Amount, source.Amount) {
				continue
			}

			proposal, err := proposeSplit(userID, source.ID, transaction.Amount)
			if err != nil {
				s := err.Error()
				c.JSON(status(err), DetectListResponse{
					Error: &s,
				})
				return
			}

			data = append(data, DetectedPayEvent{
				Transaction:  newTransaction(c, transaction),
				IncomeSource: newIncomeSource(c, source),
				Proposal:     proposal,
			})

			// First matching source wins
			break
		}
	}

	c.JSON(http.StatusOK, DetectListResponse{Data: data})
}

// payTolerance is how far a transaction amount may deviate from the
// expected pay of an income source and still be detected, relative to
// the expected pay.
var payTolerance = decimal.New(1, -1)

func amountFitsPay(amount, expected decimal.Decimal) bool {
	return amount.Sub(expected).Abs().LessThanOrEqual(expected.Mul(payTolerance))
}

// proposeSplit builds the suggested allocation for a pay event: the
// saved plan of the income source in priority order, each amount capped
// to what is left of the transaction, the remainder as surplus.
func proposeSplit(userID, sourceID uuid.UUID, amount decimal.Decimal) (PayEventProposal, error) {
	var allocations []models.Allocation
	err := models.DB.
		Where(&models.Allocation{UserID: userID, IncomeSourceID: sourceID}).
		Order("priority ASC").
		Find(&allocations).Error
	if err != nil {
		return PayEventProposal{}, err
	}

	proposal := PayEventProposal{
		Allocations: []allocation.EnvelopeAmount{},
	}

	remaining := amount
	for _, a := range allocations {
		if !remaining.IsPositive() {
			break
		}

		grant := decimal.Min(remaining, a.Amount)
		proposal.Allocations = append(proposal.Allocations, allocation.EnvelopeAmount{
			EnvelopeID: a.EnvelopeID,
			Amount:     grant,
		})
		remaining = remaining.Sub(grant)
	}

	proposal.Surplus = remaining
	return proposal, nil
}

// @Summary		Approve pay event
// @Description	Approves a pay event: writes the splits, increments the envelope balances and marks the transaction reconciled. The amounts must reconstruct the transaction amount within one cent.
// @Tags			Income
// @Produce		json
// @Success		201		{object}	ApproveResponse
// @Failure		400		{object}	ApproveResponse
// @Failure		404		{object}	ApproveResponse
// @Failure		409		{object}	ApproveResponse
// @Failure		500		{object}	ApproveResponse
// @Param			request	body		allocation.ApprovalRequest	true	"Approval"
// @Router			/v1/income/approve [post]
func ApproveIncome(c *gin.Context) {
	var request allocation.ApprovalRequest
	if err := httputil.BindData(c, &request); err != nil {
		s := err.Error()
		c.JSON(status(err), ApproveResponse{
			Error: &s,
		})
		return
	}

	splits, err := allocation.Approve(models.DB, auth.UserID(c), request)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ApproveResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusCreated, ApproveResponse{Data: splits})
}
