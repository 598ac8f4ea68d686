// services/calculation_service.go
package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sshinde/billsplit-backend/models"
	"github.com/sshinde/billsplit-backend/utils"
)

var oneHundred = decimal.NewFromInt(100)

// CalculationService computes per-participant shares for an expense.
// It is pure: no I/O and no state.
type CalculationService struct{}

// NewCalculationService creates a new calculation service
func NewCalculationService() *CalculationService {
	return &CalculationService{}
}

// ComputeShares converts a total amount and a split type into the full
// participant -> owed amount mapping. suppliedShares is keyed by user ID and
// holds percentages for PERCENTAGE splits and exact amounts for EXACT
// splits; it is ignored for EQUAL splits.
//
// The mapping is always computed wholesale. Any violation returns a
// settlement error and no partial result.
func (s *CalculationService) ComputeShares(
	splitType models.SplitType,
	totalAmount decimal.Decimal,
	participants []models.User,
	suppliedShares map[int64]decimal.Decimal,
) (map[int64]decimal.Decimal, error) {

	shares := make(map[int64]decimal.Decimal)

	switch splitType {
	case models.SplitEqual:
		if len(participants) == 0 {
			return nil, utils.NewSettlementError("No participants found for equal split")
		}
		// Each share is rounded half-up to 2 decimals independently; the
		// residual is not redistributed, so the share sum can drift from the
		// total by up to len(participants)-1 minor units.
		equalShare := totalAmount.DivRound(decimal.NewFromInt(int64(len(participants))), 2)
		for _, participant := range participants {
			shares[participant.ID] = equalShare
		}

	case models.SplitPercentage:
		if len(suppliedShares) == 0 {
			return nil, utils.NewSettlementError("Participant shares must be provided for PERCENTAGE split type")
		}
		totalPercentage := decimal.Zero
		for _, percentage := range suppliedShares {
			totalPercentage = totalPercentage.Add(percentage)
		}
		if !totalPercentage.Equal(oneHundred) {
			return nil, utils.NewSettlementError("Total percentage must equal 100%")
		}
		for userID, percentage := range suppliedShares {
			if !containsParticipant(participants, userID) {
				return nil, utils.NewSettlementError(fmt.Sprintf("Invalid participant ID: %d", userID))
			}
			shares[userID] = totalAmount.Mul(percentage).DivRound(oneHundred, 2)
		}

	case models.SplitExact:
		if len(suppliedShares) == 0 {
			return nil, utils.NewSettlementError("Participant shares must be provided for EXACT split type")
		}
		totalExactAmount := decimal.Zero
		for _, amount := range suppliedShares {
			totalExactAmount = totalExactAmount.Add(amount)
		}
		if !totalExactAmount.Equal(totalAmount) {
			return nil, utils.NewSettlementError("Total exact shares must equal the total amount")
		}
		for userID, amount := range suppliedShares {
			if !containsParticipant(participants, userID) {
				return nil, utils.NewSettlementError(fmt.Sprintf("Invalid participant ID: %d", userID))
			}
			shares[userID] = amount
		}

	default:
		// Split types are validated at the binding boundary, but a string
		// value can still arrive out of range from a stored row.
		return nil, utils.NewSettlementError("Invalid split type")
	}

	return shares, nil
}

func containsParticipant(participants []models.User, userID int64) bool {
	for _, p := range participants {
		if p.ID == userID {
			return true
		}
	}
	return false
}
