package transfers

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/envelopay/backend/internal/models"
)

var (
	ErrSameAccount       = errors.New("both transactions belong to the same account")
	ErrAmountsNotInverse = errors.New("the transaction amounts are not the additive inverse of each other")
	ErrSelfLink          = errors.New("a transaction cannot be linked to itself")
)

// Link pairs two transactions as the two sides of one internal
// transfer.
//
// Both rows are updated in a single database transaction with a
// compare-and-swap on the link column, so two concurrent match requests
// cannot link one transaction to different partners. Linking clears the
// pending flag and any envelope assignment and types both rows as
// transfers.
func Link(db *gorm.DB, userID, id, otherID uuid.UUID) (models.Transaction, models.Transaction, error) {
	var first, second models.Transaction

	if id == otherID {
		return first, second, ErrSelfLink
	}

	err := db.Where(&models.Transaction{UserID: userID}).First(&first, id).Error
	if err != nil {
		return first, second, err
	}

	err = db.Where(&models.Transaction{UserID: userID}).First(&second, otherID).Error
	if err != nil {
		return first, second, err
	}

	if first.AccountID == second.AccountID {
		return first, second, ErrSameAccount
	}

	if !models.WithinTolerance(first.Amount.Neg(), second.Amount) {
		return first, second, ErrAmountsNotInverse
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		for _, pair := range []struct {
			id     uuid.UUID
			linkTo uuid.UUID
		}{
			{id: id, linkTo: otherID},
			{id: otherID, linkTo: id},
		} {
			result := tx.Model(&models.Transaction{}).
				Where("id = ? AND user_id = ? AND linked_transaction_id IS NULL", pair.id, userID).
				Updates(map[string]interface{}{
					"linked_transaction_id": pair.linkTo,
					"type":                  models.TypeTransfer,
					"transfer_pending":      false,
					"envelope_id":           nil,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return models.ErrTransactionAlreadyLinked
			}
		}

		return nil
	})
	if err != nil {
		return first, second, err
	}

	linkedTotal.Inc()

	err = db.First(&first, id).Error
	if err != nil {
		return first, second, err
	}
	err = db.First(&second, otherID).Error

	return first, second, err
}

// Unlink dissolves a linked transfer pair.
//
// The transaction types are restored from the sign of the amounts,
// inflow means income and outflow means expense. That inference is
// lossy: if a side originally had a different type it cannot be
// recovered, which is why the restored types are returned to the
// caller.
func Unlink(db *gorm.DB, userID, id uuid.UUID) (models.Transaction, models.Transaction, error) {
	var first, second models.Transaction

	err := db.Where(&models.Transaction{UserID: userID}).First(&first, id).Error
	if err != nil {
		return first, second, err
	}

	if first.LinkedTransactionID == nil {
		return first, second, models.ErrTransactionNotLinked
	}

	err = db.Where(&models.Transaction{UserID: userID}).First(&second, *first.LinkedTransactionID).Error
	if err != nil {
		return first, second, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		for _, transaction := range []models.Transaction{first, second} {
			err := tx.Model(&models.Transaction{}).
				Where("id = ? AND user_id = ?", transaction.ID, userID).
				Updates(map[string]interface{}{
					"linked_transaction_id": nil,
					"type":                  models.TypeForAmount(transaction.Amount),
				}).Error
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return first, second, err
	}

	unlinkedTotal.Inc()

	err = db.First(&first, id).Error
	if err != nil {
		return first, second, err
	}
	err = db.First(&second, second.ID).Error

	return first, second, err
}

// MarkPending flags one side of a transfer whose counterpart does not
// exist yet. A pending transaction keeps counting toward its account
// balance but is excluded from envelope totals, so its envelope
// assignment is cleared.
func MarkPending(db *gorm.DB, userID, id uuid.UUID, pending bool) (models.Transaction, error) {
	var transaction models.Transaction

	err := db.Where(&models.Transaction{UserID: userID}).First(&transaction, id).Error
	if err != nil {
		return transaction, err
	}

	if transaction.LinkedTransactionID != nil {
		return transaction, models.ErrTransactionAlreadyLinked
	}

	updates := map[string]interface{}{
		"transfer_pending": pending,
	}
	if pending {
		updates["envelope_id"] = nil
	}

	err = db.Model(&models.Transaction{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates).Error
	if err != nil {
		return transaction, err
	}

	err = db.First(&transaction, id).Error
	return transaction, err
}
