package employeeerrors

import (
	"net/http"

	"go-hrportal/internal/shared/apperror"
)

var (
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrEmailTaken = apperror.New(
		apperror.CodeConflict,
		"an employee with this email already exists",
		http.StatusConflict,
	)
	ErrNegativeAllowance = apperror.New(
		apperror.CodeInvalidInput,
		"carry-over and annual accrual days must not be negative",
		http.StatusBadRequest,
	)
	ErrNotAllowed = apperror.New(
		apperror.CodeForbidden,
		"actor is not allowed to perform this operation",
		http.StatusForbidden,
	)
)
