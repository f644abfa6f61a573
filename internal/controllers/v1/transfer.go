package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/envelopay/backend/internal/auth"
	"github.com/envelopay/backend/internal/httputil"
	"github.com/envelopay/backend/internal/models"
	"github.com/envelopay/backend/internal/transfers"
)

// TransferScanDays is the default scan window. Overridden from the
// configuration at startup.
var TransferScanDays = transfers.DefaultScanDays

// RegisterTransferRoutes registers the routes for transfer matching
// with the RouterGroup that is passed.
func RegisterTransferRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("/scan", OptionsTransferScan)
		r.GET("/scan", ScanTransfers)
	}

	{
		r.OPTIONS("/candidates/:id", OptionsTransferCandidates)
		r.GET("/candidates/:id", GetTransferCandidates)
	}

	{
		r.OPTIONS("/link", OptionsTransferLink)
		r.POST("/link", LinkTransfer)
		r.DELETE("/link/:id", UnlinkTransfer)
	}

	{
		r.OPTIONS("/pending/:id", OptionsTransferPending)
		r.POST("/pending/:id", MarkTransferPending)
		r.DELETE("/pending/:id", ClearTransferPending)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transfers
// @Success		204
// @Router			/v1/transfers/scan [options]
func OptionsTransferScan(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transfers
// @Success		204
// @Param			id	path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/transfers/candidates/{id} [options]
func OptionsTransferCandidates(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transfers
// @Success		204
// @Router			/v1/transfers/link [options]
func OptionsTransferLink(c *gin.Context) {
	httputil.OptionsPostDelete(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transfers
// @Success		204
// @Param			id	path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/transfers/pending/{id} [options]
func OptionsTransferPending(c *gin.Context) {
	httputil.OptionsPostDelete(c)
}

// @Summary		Scan for transfers
// @Description	Proposes transfer pairs among the unlinked transactions of the scan window, highest confidence first
// @Tags			Transfers
// @Produce		json
// @Success		200	{object}	CandidateListResponse
// @Failure		400	{object}	CandidateListResponse
// @Failure		500	{object}	CandidateListResponse
// @Router			/v1/transfers/scan [get]
// @Param			scanDays	query	int	false	"How many days to scan backwards from today. Defaults to 30."
func ScanTransfers(c *gin.Context) {
	var query TransferScanQuery
	if err := c.Bind(&query); err != nil {
		s := httputil.ErrInvalidQueryString.Error()
		c.JSON(http.StatusBadRequest, CandidateListResponse{
			Error: &s,
		})
		return
	}

	scanDays := TransferScanDays
	if query.ScanDays > 0 {
		scanDays = query.ScanDays
	}

	candidates, err := transfers.Scan(models.DB, auth.UserID(c), scanDays)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CandidateListResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, CandidateListResponse{Data: candidates})
}

// @Summary		Transfer candidates
// @Description	Returns the possible transfer counterparts for a specific transaction, highest confidence first
// @Tags			Transfers
// @Produce		json
// @Success		200	{object}	CandidateListResponse
// @Failure		400	{object}	CandidateListResponse
// @Failure		404	{object}	CandidateListResponse
// @Failure		500	{object}	CandidateListResponse
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/transfers/candidates/{id} [get]
func GetTransferCandidates(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		s := err.Error()
		c.JSON(status(err), CandidateListResponse{
			Error: &s,
		})
		return
	}

	var transaction models.Transaction
	err := models.DB.Where(&models.Transaction{UserID: auth.UserID(c)}, "UserID").First(&transaction, "id = ?", uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CandidateListResponse{
			Error: &s,
		})
		return
	}

	candidates, err := transfers.CandidatesFor(models.DB, transaction)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CandidateListResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, CandidateListResponse{Data: candidates})
}

// @Summary		Link transfer
// @Description	Links two transactions as the two sides of one transfer. The amounts must be the additive inverse of each other within one cent.
// @Tags			Transfers
// @Produce		json
// @Success		201		{object}	LinkResponse
// @Failure		400		{object}	LinkResponse
// @Failure		404		{object}	LinkResponse
// @Failure		409		{object}	LinkResponse
// @Failure		500		{object}	LinkResponse
// @Param			link	body		LinkEditable	true	"Transactions to link"
// @Router			/v1/transfers/link [post]
func LinkTransfer(c *gin.Context) {
	var editable LinkEditable
	if err := httputil.BindData(c, &editable); err != nil {
		s := err.Error()
		c.JSON(status(err), LinkResponse{
			Error: &s,
		})
		return
	}

	first, second, err := transfers.Link(models.DB, auth.UserID(c), editable.TransactionID, editable.OtherTransactionID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LinkResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusCreated, LinkResponse{
		Data: []Transaction{newTransaction(c, first), newTransaction(c, second)},
	})
}

// @Summary		Unlink transfer
// @Description	Dissolves a linked transfer pair. The transaction types are restored from the sign of the amounts.
// @Tags			Transfers
// @Produce		json
// @Success		200	{object}	LinkResponse
// @Failure		400	{object}	LinkResponse
// @Failure		404	{object}	LinkResponse
// @Failure		500	{object}	LinkResponse
// @Param			id	path		URIID	true	"ID of either side of the pair"
// @Router			/v1/transfers/link/{id} [delete]
func UnlinkTransfer(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		s := err.Error()
		c.JSON(status(err), LinkResponse{
			Error: &s,
		})
		return
	}

	first, second, err := transfers.Unlink(models.DB, auth.UserID(c), uri.ID.UUID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LinkResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, LinkResponse{
		Data:         []Transaction{newTransaction(c, first), newTransaction(c, second)},
		TypeRestored: true,
	})
}

// @Summary		Mark transfer pending
// @Description	Flags a transaction as one side of a transfer whose counterpart does not exist yet. Clears its envelope assignment.
// @Tags			Transfers
// @Produce		json
// @Success		200	{object}	TransactionResponse
// @Failure		400	{object}	TransactionResponse
// @Failure		404	{object}	TransactionResponse
// @Failure		409	{object}	TransactionResponse
// @Failure		500	{object}	TransactionResponse
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/transfers/pending/{id} [post]
func MarkTransferPending(c *gin.Context) {
	setTransferPending(c, true)
}

// @Summary		Clear transfer pending
// @Description	Removes the pending transfer flag from a transaction
// @Tags			Transfers
// @Produce		json
// @Success		200	{object}	TransactionResponse
// @Failure		400	{object}	TransactionResponse
// @Failure		404	{object}	TransactionResponse
// @Failure		409	{object}	TransactionResponse
// @Failure		500	{object}	TransactionResponse
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/transfers/pending/{id} [delete]
func ClearTransferPending(c *gin.Context) {
	setTransferPending(c, false)
}

func setTransferPending(c *gin.Context, pending bool) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{
			Error: &s,
		})
		return
	}

	transaction, err := transfers.MarkPending(models.DB, auth.UserID(c), uri.ID.UUID, pending)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{
			Error: &s,
		})
		return
	}

	data := newTransaction(c, transaction)
	c.JSON(http.StatusOK, TransactionResponse{Data: &data})
}
