package models

import (
	"errors"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")
)

// Account errors
var (
	ErrAccountNameNotUnique   = errors.New("the account name must be unique for the user")
	ErrAccountHasTransactions = errors.New("the account still has transactions, delete them first")
)

// Envelope errors
var (
	ErrEnvelopeNameNotUnique       = errors.New("the envelope name must be unique for the user")
	ErrEnvelopeSurplusAndCCHolding = errors.New("an envelope cannot be both the surplus envelope and a credit card holding envelope")
)

// Income source errors
var (
	ErrIncomeSourceNameNotUnique  = errors.New("the income source name must be unique for the user")
	ErrIncomeSourceAmountNegative = errors.New("the income source amount must not be negative")
)

// Allocation errors
var (
	ErrAllocationNotUnique      = errors.New("there already is an allocation for this income source and envelope")
	ErrAllocationAmountNegative = errors.New("the allocation amount must be positive")
)

// Transaction errors
var (
	ErrTransactionPendingWithEnvelope = errors.New("a transaction that is pending as a transfer cannot be assigned to an envelope")
	ErrTransactionAlreadyLinked       = errors.New("the transaction is already linked to another transaction")
	ErrTransactionLinked              = errors.New("the transaction is part of a linked transfer, unlink it first")
	ErrTransactionNotLinked           = errors.New("the transaction is not linked to another transaction")
	ErrTransactionAlreadyReconciled   = errors.New("the transaction is already reconciled")
)
