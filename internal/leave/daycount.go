package leave

import (
	"time"

	leaveerrors "go-hrportal/internal/leave/errors"

	"github.com/shopspring/decimal"
)

const (
	TypeAnnual  = "ANNUAL"
	TypeHalfDay = "HALF_DAY"
	TypeSick    = "SICK"
	TypeOther   = "OTHER"
)

var halfDay = decimal.New(5, -1) // 0.5

// ComputeDays returns the number of leave days a request consumes. The
// result is computed once at submission and frozen into the request row;
// approval charges that snapshot, never a fresh calculation.
//
// A HALF_DAY request always counts 0.5 regardless of the date range (the
// range is still recorded). Every other type counts calendar days
// inclusive of both endpoints.
func ComputeDays(startDate, endDate time.Time, leaveType string) (decimal.Decimal, error) {
	switch leaveType {
	case TypeAnnual, TypeHalfDay, TypeSick, TypeOther:
	default:
		return decimal.Zero, leaveerrors.ErrUnknownLeaveType
	}

	if endDate.Before(startDate) {
		return decimal.Zero, leaveerrors.ErrInvalidDateRange
	}

	if leaveType == TypeHalfDay {
		return halfDay, nil
	}

	wholeDays := int64(endDate.Sub(startDate).Hours()/24) + 1
	return decimal.NewFromInt(wholeDays), nil
}
