package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for the transport layer.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindInvalidRequest
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidRequest:
		return "invalid_request"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Domain errors
var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidRequest = errors.New("invalid request")
	ErrConflict       = errors.New("conflict")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Kind    Kind
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, kind Kind, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Kind:    kind,
		Err:     err,
	}
}

// KindOf reports the kind of err; anything that is not a BusinessError is internal.
func KindOf(err error) Kind {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindInternal
}

// MessageOf returns the human readable message carried by err.
func MessageOf(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Message
	}
	return "internal server error"
}

// CodeOf returns the error code carried by err, or "" for plain errors.
func CodeOf(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

// Is reports whether err is a business error of the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Error codes
const (
	ErrCodeClientNotFound         = "CLIENT_NOT_FOUND"
	ErrCodeLoanNotFound           = "LOAN_NOT_FOUND"
	ErrCodeInstallmentNotFound    = "INSTALLMENT_NOT_FOUND"
	ErrCodeInvoiceNotFound        = "INVOICE_NOT_FOUND"
	ErrCodeTaxIDAlreadyExists     = "TAX_ID_ALREADY_EXISTS"
	ErrCodeInvoiceAlreadyExists   = "INVOICE_ALREADY_EXISTS"
	ErrCodeInstallmentNotInvoiced = "INSTALLMENT_NOT_IN_INVOICE"
	ErrCodeNoPendingInstallments  = "NO_PENDING_INSTALLMENTS"
	ErrCodeInstallmentSettled     = "INSTALLMENT_ALREADY_SETTLED"
	ErrCodeLoanHasOpenInvoices    = "LOAN_HAS_OPEN_INVOICES"
	ErrCodeValidation             = "VALIDATION_FAILED"
	ErrCodeDatabaseError          = "DATABASE_ERROR"
	ErrCodeCacheError             = "CACHE_ERROR"
)

func WrapClientNotFound(clientID string) *BusinessError {
	return NewBusinessError(
		ErrCodeClientNotFound,
		fmt.Sprintf("Client with ID %s not found", clientID),
		KindNotFound,
		ErrNotFound,
	)
}

func WrapLoanNotFound(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanNotFound,
		fmt.Sprintf("Loan with ID %s not found", loanID),
		KindNotFound,
		ErrNotFound,
	)
}

func WrapInstallmentNotFound(installmentID string) *BusinessError {
	return NewBusinessError(
		ErrCodeInstallmentNotFound,
		fmt.Sprintf("Installment with ID %s not found", installmentID),
		KindNotFound,
		ErrNotFound,
	)
}

func WrapInvoiceNotFound(invoiceID string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvoiceNotFound,
		fmt.Sprintf("Invoice with ID %s not found", invoiceID),
		KindNotFound,
		ErrNotFound,
	)
}

func WrapInstallmentNotInInvoice(invoiceID, installmentID string) *BusinessError {
	return NewBusinessError(
		ErrCodeInstallmentNotInvoiced,
		fmt.Sprintf("Installment %s is not part of invoice %s", installmentID, invoiceID),
		KindNotFound,
		ErrNotFound,
	)
}

func WrapTaxIDAlreadyExists(taxID string) *BusinessError {
	return NewBusinessError(
		ErrCodeTaxIDAlreadyExists,
		fmt.Sprintf("A client with tax ID %s already exists", taxID),
		KindConflict,
		ErrConflict,
	)
}

func WrapInvoiceAlreadyExists(installmentID string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvoiceAlreadyExists,
		fmt.Sprintf("An invoice already exists for installment %s", installmentID),
		KindConflict,
		ErrConflict,
	)
}

func WrapLoanHasOpenInvoices(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanHasOpenInvoices,
		fmt.Sprintf("Loan %s has installments referenced by open invoices", loanID),
		KindConflict,
		ErrConflict,
	)
}

func WrapNoPendingInstallments(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeNoPendingInstallments,
		fmt.Sprintf("Loan %s has no pending installments to advance", loanID),
		KindInvalidRequest,
		ErrInvalidRequest,
	)
}

func WrapInstallmentAlreadySettled(installmentID, status string) *BusinessError {
	return NewBusinessError(
		ErrCodeInstallmentSettled,
		fmt.Sprintf("Installment %s is already %s", installmentID, status),
		KindInvalidRequest,
		ErrInvalidRequest,
	)
}

func WrapInvalidRequest(message string) *BusinessError {
	return NewBusinessError(
		ErrCodeValidation,
		message,
		KindInvalidRequest,
		ErrInvalidRequest,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		KindInternal,
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"cache operation failed",
		KindInternal,
		err,
	)
}
