package models_test

import (
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/envelopay/backend/internal/models"
)

// Active has no column default, a false value has to survive Create.
func (suite *TestSuiteStandard) TestIncomeSourceInactiveStored() {
	source := models.IncomeSource{
		UserID: suite.userID,
		Name:   "Old gig",
		Amount: decimal.NewFromFloat(150),
		Active: false,
	}
	assert.Nil(suite.T(), models.DB.Create(&source).Error)

	var reloaded models.IncomeSource
	assert.Nil(suite.T(), models.DB.Where("id = ?", source.ID).First(&reloaded).Error)
	assert.False(suite.T(), reloaded.Active)
}
