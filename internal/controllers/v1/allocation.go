package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/envelopay/backend/internal/allocation"
	"github.com/envelopay/backend/internal/auth"
	"github.com/envelopay/backend/internal/httputil"
	"github.com/envelopay/backend/internal/models"
)

// RegisterAllocationRoutes registers the routes for allocations with
// the RouterGroup that is passed.
func RegisterAllocationRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsAllocationList)
	r.GET("", GetAllocations)
	r.PATCH("", UpsertAllocation)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Allocations
// @Success		204
// @Router			/v1/allocations [options]
func OptionsAllocationList(c *gin.Context) {
	httputil.OptionsGetPatch(c)
}

// @Summary		List allocations
// @Description	Returns the allocation plan entries of the authenticated user
// @Tags			Allocations
// @Produce		json
// @Success		200	{object}	AllocationListResponse
// @Failure		400	{object}	AllocationListResponse
// @Failure		500	{object}	AllocationListResponse
// @Router			/v1/allocations [get]
// @Param			envelope	query	string	false	"Filter by the ID of the envelope"
// @Param			source		query	string	false	"Filter by the ID of the income source"
func GetAllocations(c *gin.Context) {
	var filter AllocationQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := httputil.ErrInvalidQueryString.Error()
		c.JSON(http.StatusBadRequest, AllocationListResponse{
			Error: &s,
		})
		return
	}

	queryFields, _ := httputil.GetURLFields(c.Request.URL, filter)

	model := filter.model()
	model.UserID = auth.UserID(c)
	queryFields = append(queryFields, "UserID")

	var allocations []models.Allocation
	err := models.DB.
		Order("priority ASC").
		Where(&model, queryFields...).
		Find(&allocations).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationListResponse{
			Error: &s,
		})
		return
	}

	data := make([]Allocation, 0, len(allocations))
	for _, a := range allocations {
		data = append(data, newAllocation(c, a))
	}

	c.JSON(http.StatusOK, AllocationListResponse{Data: data})
}

// @Summary		Upsert allocation
// @Description	Creates or updates the allocation for an (envelope, income source) pair. An amount of zero or less removes it.
// @Tags			Allocations
// @Produce		json
// @Success		200			{object}	AllocationResponse
// @Failure		400			{object}	AllocationResponse
// @Failure		404			{object}	AllocationResponse
// @Failure		500			{object}	AllocationResponse
// @Param			allocation	body		AllocationEditable	true	"Allocation"
// @Router			/v1/allocations [patch]
func UpsertAllocation(c *gin.Context) {
	var editable AllocationEditable
	if err := httputil.BindData(c, &editable); err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationResponse{
			Error: &s,
		})
		return
	}

	result, err := allocation.Upsert(models.DB, auth.UserID(c), editable.EnvelopeID, editable.IncomeSourceID, editable.Amount)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationResponse{
			Error: &s,
		})
		return
	}

	// A nil result means the allocation was removed
	if result == nil {
		c.JSON(http.StatusOK, AllocationResponse{})
		return
	}

	data := newAllocation(c, *result)
	c.JSON(http.StatusOK, AllocationResponse{Data: &data})
}
