package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrTransactionNotFound indicates that a transaction with the given ID does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrInvestmentNotFound indicates that an investment with the given ID does not exist.
	ErrInvestmentNotFound = errors.New("investment not found")

	// ErrNoteNotFound indicates that a note with the given ID does not exist.
	ErrNoteNotFound = errors.New("note not found")

	// ErrBalanceNotCached indicates that no balance has been computed or persisted yet.
	ErrBalanceNotCached = errors.New("balance not cached")
)

// Business logic errors represent validation failures or constraint violations.
var (
	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrEmptyID indicates that a required ID parameter is empty or missing.
	ErrEmptyID = errors.New("ID cannot be empty")

	// ErrInvalidAttachment indicates an attachment URI that the media store cannot address.
	ErrInvalidAttachment = errors.New("invalid attachment URI")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
var (
	// Balance operation errors
	ErrFailedToComputeBalance    = errors.New("failed to compute balance")
	ErrFailedToInvalidateBalance = errors.New("failed to invalidate balance cache")

	// Transaction operation errors
	ErrFailedToRetrieveTransactions = errors.New("failed to retrieve transactions")
	ErrFailedToRetrieveTransaction  = errors.New("failed to retrieve transaction")

	// Investment operation errors
	ErrFailedToRetrieveInvestments = errors.New("failed to retrieve investments")

	// Note operation errors
	ErrFailedToRetrieveNotes = errors.New("failed to retrieve notes")
	ErrFailedToRetrieveNote  = errors.New("failed to retrieve note")

	// System operation errors
	ErrFailedToGetVersion = errors.New("failed to get version information")
)

// Data integrity errors represent inconsistencies or corruption in the data.
var (
	// ErrDataInconsistency indicates that a stored record could not be decoded.
	ErrDataInconsistency = errors.New("data inconsistency detected")
)
