package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/sshinde/billsplit-backend/models"
	"github.com/sshinde/billsplit-backend/utils"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testParticipants(ids ...int64) []models.User {
	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		users = append(users, models.User{ID: id})
	}
	return users
}

func TestComputeShares_EqualSplit(t *testing.T) {
	calc := NewCalculationService()

	shares, err := calc.ComputeShares(models.SplitEqual, dec("200.00"), testParticipants(2, 3), nil)

	assert.NoError(t, err)
	assert.Len(t, shares, 2)
	assert.True(t, shares[2].Equal(dec("100.00")), "share was %s", shares[2])
	assert.True(t, shares[3].Equal(dec("100.00")), "share was %s", shares[3])

	// The payer is not auto-included; only listed participants owe a share
	_, ok := shares[1]
	assert.False(t, ok)
}

func TestComputeShares_EqualSplit_RoundsHalfUp(t *testing.T) {
	calc := NewCalculationService()

	shares, err := calc.ComputeShares(models.SplitEqual, dec("0.25"), testParticipants(1, 2), nil)

	assert.NoError(t, err)
	assert.True(t, shares[1].Equal(dec("0.13")), "share was %s", shares[1])
	assert.True(t, shares[2].Equal(dec("0.13")), "share was %s", shares[2])
}

// Equal splits round each share independently and never redistribute the
// residual, so the share sum may drift from the total by up to one minor
// unit per participant.
func TestComputeShares_EqualSplit_UnreconciledRoundingDrift(t *testing.T) {
	calc := NewCalculationService()

	cases := []struct {
		total        string
		participants []models.User
	}{
		{"100.00", testParticipants(1, 2, 3)},
		{"100.00", testParticipants(1, 2, 3, 4, 5, 6, 7)},
		{"0.10", testParticipants(1, 2, 3)},
		{"999.99", testParticipants(1, 2, 3, 4, 5, 6)},
	}

	for _, tc := range cases {
		total := dec(tc.total)
		shares, err := calc.ComputeShares(models.SplitEqual, total, tc.participants, nil)
		assert.NoError(t, err)
		assert.Len(t, shares, len(tc.participants))

		sum := decimal.Zero
		for _, share := range shares {
			sum = sum.Add(share)
		}

		tolerance := decimal.NewFromInt(int64(len(tc.participants))).Mul(dec("0.01"))
		drift := sum.Sub(total).Abs()
		assert.True(t, drift.LessThanOrEqual(tolerance),
			"total %s over %d participants drifted by %s", tc.total, len(tc.participants), drift)
	}
}

func TestComputeShares_EqualSplit_NoParticipants(t *testing.T) {
	calc := NewCalculationService()

	_, err := calc.ComputeShares(models.SplitEqual, dec("100.00"), nil, nil)

	assert.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindSettlement))
	assert.Contains(t, err.Error(), "No participants found for equal split")
}

func TestComputeShares_Percentage(t *testing.T) {
	calc := NewCalculationService()

	shares, err := calc.ComputeShares(models.SplitPercentage, dec("200.00"), testParticipants(2, 3),
		map[int64]decimal.Decimal{2: dec("40"), 3: dec("60")})

	assert.NoError(t, err)
	assert.True(t, shares[2].Equal(dec("80.00")), "share was %s", shares[2])
	assert.True(t, shares[3].Equal(dec("120.00")), "share was %s", shares[3])
}

func TestComputeShares_Percentage_MustSumToHundred(t *testing.T) {
	calc := NewCalculationService()

	_, err := calc.ComputeShares(models.SplitPercentage, dec("200.00"), testParticipants(1, 2, 3),
		map[int64]decimal.Decimal{2: dec("40"), 3: dec("50")})

	assert.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindSettlement))
	assert.Contains(t, err.Error(), "Total percentage must equal 100%")
}

func TestComputeShares_Percentage_RequiresShares(t *testing.T) {
	calc := NewCalculationService()

	_, err := calc.ComputeShares(models.SplitPercentage, dec("200.00"), testParticipants(1, 2), nil)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Participant shares must be provided for PERCENTAGE split type")
}

func TestComputeShares_Percentage_UnknownParticipant(t *testing.T) {
	calc := NewCalculationService()

	_, err := calc.ComputeShares(models.SplitPercentage, dec("200.00"), testParticipants(1, 2),
		map[int64]decimal.Decimal{99: dec("100")})

	assert.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindSettlement))
	assert.Contains(t, err.Error(), "Invalid participant ID: 99")
}

func TestComputeShares_Exact(t *testing.T) {
	calc := NewCalculationService()

	shares, err := calc.ComputeShares(models.SplitExact, dec("120.00"), testParticipants(2, 3),
		map[int64]decimal.Decimal{2: dec("50.00"), 3: dec("70.00")})

	assert.NoError(t, err)
	assert.True(t, shares[2].Equal(dec("50.00")))
	assert.True(t, shares[3].Equal(dec("70.00")))
}

func TestComputeShares_Exact_SumMismatch(t *testing.T) {
	calc := NewCalculationService()

	_, err := calc.ComputeShares(models.SplitExact, dec("120.00"), testParticipants(2, 3),
		map[int64]decimal.Decimal{2: dec("40.00"), 3: dec("60.00")})

	assert.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindSettlement))
	assert.Contains(t, err.Error(), "Total exact shares must equal the total amount")
}

func TestComputeShares_Exact_UnknownParticipant(t *testing.T) {
	calc := NewCalculationService()

	_, err := calc.ComputeShares(models.SplitExact, dec("120.00"), testParticipants(2, 3),
		map[int64]decimal.Decimal{2: dec("50.00"), 99: dec("70.00")})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid participant ID: 99")
}

func TestComputeShares_InvalidSplitType(t *testing.T) {
	calc := NewCalculationService()

	_, err := calc.ComputeShares(models.SplitType("RANDOM"), dec("100.00"), testParticipants(1), nil)

	assert.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindSettlement))
	assert.Contains(t, err.Error(), "Invalid split type")
}
