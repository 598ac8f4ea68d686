// models/models.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role classifies a user account
type Role string

const (
	RoleUser   Role = "USER"
	RoleLender Role = "LENDER"
)

// Currency is the ISO code an expense is denominated in
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyINR Currency = "INR"
)

// IsValid reports whether the currency is one of the supported codes
func (c Currency) IsValid() bool {
	switch c {
	case CurrencyUSD, CurrencyEUR, CurrencyGBP, CurrencyINR:
		return true
	}
	return false
}

// SplitType determines how an expense amount is divided among participants
type SplitType string

const (
	SplitEqual      SplitType = "EQUAL"
	SplitExact      SplitType = "EXACT"
	SplitPercentage SplitType = "PERCENTAGE"
)

// IsValid reports whether the split type is part of the closed set
func (s SplitType) IsValid() bool {
	switch s {
	case SplitEqual, SplitExact, SplitPercentage:
		return true
	}
	return false
}

// ExpenseStatus classifies the lifecycle state of an expense
type ExpenseStatus string

const (
	StatusPending   ExpenseStatus = "PENDING"
	StatusSettled   ExpenseStatus = "SETTLED"
	StatusCancelled ExpenseStatus = "CANCELLED"
)

func (s ExpenseStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusSettled, StatusCancelled:
		return true
	}
	return false
}

// ExpenseCategory classifies what an expense was for
type ExpenseCategory string

const (
	CategoryFood          ExpenseCategory = "FOOD"
	CategoryTravel        ExpenseCategory = "TRAVEL"
	CategoryRent          ExpenseCategory = "RENT"
	CategoryUtilities     ExpenseCategory = "UTILITIES"
	CategoryEntertainment ExpenseCategory = "ENTERTAINMENT"
	CategoryShopping      ExpenseCategory = "SHOPPING"
	CategoryOther         ExpenseCategory = "OTHER"
)

func (c ExpenseCategory) IsValid() bool {
	switch c {
	case CategoryFood, CategoryTravel, CategoryRent, CategoryUtilities,
		CategoryEntertainment, CategoryShopping, CategoryOther:
		return true
	}
	return false
}

// User represents a registered account
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"-"`
	PasswordHash string    `json:"-"`
	Gender       bool      `json:"gender"`
	Enabled      bool      `json:"-"`
	Active       bool      `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

// VerificationToken is issued on registration and consumed on email verification
type VerificationToken struct {
	Token     string
	UserID    int64
	ExpiresAt time.Time
}

// Group is a named set of users sharing expenses. Only the creator may
// update or delete it; the creator is always a member.
type Group struct {
	ID        int64     `json:"id"`
	GroupName string    `json:"groupName"`
	Members   []User    `json:"members"`
	CreatedBy int64     `json:"createdBy"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Expense is the unit of settlement. Shares maps each participant's user ID
// to the amount they owe; it is always recomputed wholesale, never patched.
type Expense struct {
	ID           int64                     `json:"id"`
	Amount       decimal.Decimal           `json:"amount"`
	Currency     Currency                  `json:"currency"`
	Description  string                    `json:"description"`
	Payer        User                      `json:"payer"`
	Participants []User                    `json:"participants"`
	Group        *Group                    `json:"group,omitempty"`
	SplitType    SplitType                 `json:"splitType"`
	Shares       map[int64]decimal.Decimal `json:"shares"`
	Status       ExpenseStatus             `json:"status"`
	Category     ExpenseCategory           `json:"category"`
	CreatedAt    time.Time                 `json:"-"`
	UpdatedAt    time.Time                 `json:"-"`
}

// HasParticipant reports whether the user is in the participant set
func (e *Expense) HasParticipant(userID int64) bool {
	for _, p := range e.Participants {
		if p.ID == userID {
			return true
		}
	}
	return false
}
