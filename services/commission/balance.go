package commission

import (
	"regexp"

	"kigalimove/models"
)

var payoutPhonePattern = regexp.MustCompile(`^[0-9]{10}$`)

// AvailableBalance sums the approved commissions.
func AvailableBalance(commissions []models.AgentCommission) int64 {
	var total int64
	for _, c := range commissions {
		if c.Status == models.CommissionApproved {
			total += c.Amount
		}
	}
	return total
}

// CommittedWithdrawals sums withdrawals that are being paid or already paid.
func CommittedWithdrawals(withdrawals []models.WithdrawalRequest) int64 {
	var total int64
	for _, w := range withdrawals {
		if w.Status == models.WithdrawalProcessing || w.Status == models.WithdrawalPaid {
			total += w.Amount
		}
	}
	return total
}

// ValidateWithdrawal checks a payout request against the available balance.
func ValidateWithdrawal(amount, available int64, phone string) error {
	switch {
	case amount <= 0:
		return models.NewValidationError("amount", "Please enter a valid amount")
	case amount > available:
		return models.NewValidationError("amount", "Amount exceeds available balance")
	case !payoutPhonePattern.MatchString(phone):
		return models.NewValidationError("phoneNumber", "Please enter a valid 10-digit phone number")
	}
	return nil
}
