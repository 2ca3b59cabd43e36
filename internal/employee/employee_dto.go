package employee

type CreateEmployeeRequest struct {
	FullName          string  `json:"full_name" binding:"required"`
	Email             string  `json:"email" binding:"required,email"`
	CarryOverDays     float64 `json:"carry_over_days" binding:"gte=0"`
	AnnualAccrualDays float64 `json:"annual_accrual_days" binding:"gte=0"`
}

type SetAllowanceRequest struct {
	CarryOverDays     float64 `json:"carry_over_days" binding:"gte=0"`
	AnnualAccrualDays float64 `json:"annual_accrual_days" binding:"gte=0"`
}

type EmployeeResponse struct {
	ID                string `json:"id"`
	FullName          string `json:"full_name"`
	Email             string `json:"email"`
	CarryOverDays     string `json:"carry_over_days"`
	AnnualAccrualDays string `json:"annual_accrual_days"`
	UsedDays          string `json:"used_days"`
	RemainingDays     string `json:"remaining_days"`
}

type BalanceResponse struct {
	EmployeeID        string `json:"employee_id"`
	CarryOverDays     string `json:"carry_over_days"`
	AnnualAccrualDays string `json:"annual_accrual_days"`
	UsedDays          string `json:"used_days"`
	RemainingDays     string `json:"remaining_days"`
}

type ResetFailure struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
}

// ResetManifest reports the per-employee outcome of the bulk balance
// reset. A partially failed sweep is a normal result, not an error.
type ResetManifest struct {
	Succeeded []string       `json:"succeeded"`
	Failed    []ResetFailure `json:"failed"`
}
