// models/requests.go
package models

import "github.com/shopspring/decimal"

// RegisterRequest is the payload for user registration
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Gender   *bool  `json:"gender" binding:"required"`
}

// LoginRequest is the payload for authentication
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the session token for an authenticated user
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// UserUpdateRequest updates profile fields of the acting user
type UserUpdateRequest struct {
	Name   string `json:"name" binding:"required"`
	Phone  string `json:"phone" binding:"required"`
	Gender *bool  `json:"gender" binding:"required"`
}

// GroupRequest creates a group. The creator is added to the members
// whether or not their ID is listed.
type GroupRequest struct {
	GroupName string  `json:"groupName" binding:"required"`
	MemberIDs []int64 `json:"memberIds" binding:"required,min=1"`
}

// GroupUpdateRequest partially updates a group. A nil field is left
// untouched; MemberIDs, when present, replaces the member set wholesale.
type GroupUpdateRequest struct {
	GroupName *string `json:"groupName"`
	MemberIDs []int64 `json:"memberIds"`
}

// ExpenseRequest creates an expense. Exactly one of GroupID and
// ParticipantIDs supplies the participant set.
type ExpenseRequest struct {
	Amount            *decimal.Decimal          `json:"amount" binding:"required"`
	Currency          Currency                  `json:"currency" binding:"required,oneof=USD EUR GBP INR"`
	Description       string                    `json:"description" binding:"max=255"`
	PayerID           int64                     `json:"payerId" binding:"required"`
	ParticipantIDs    []int64                   `json:"participantIds"`
	GroupID           *int64                    `json:"groupId"`
	SplitType         SplitType                 `json:"splitType" binding:"required,oneof=EQUAL EXACT PERCENTAGE"`
	ParticipantShares map[int64]decimal.Decimal `json:"participantShares"`
	Status            ExpenseStatus             `json:"status" binding:"required,oneof=PENDING SETTLED CANCELLED"`
	Category          ExpenseCategory           `json:"category" binding:"required,oneof=FOOD TRAVEL RENT UTILITIES ENTERTAINMENT SHOPPING OTHER"`
}

// ExpenseUpdateRequest partially updates an expense. Absent fields are
// left untouched (sparse PATCH, not a full replace).
type ExpenseUpdateRequest struct {
	Amount            *decimal.Decimal          `json:"amount"`
	Currency          *Currency                 `json:"currency" binding:"omitempty,oneof=USD EUR GBP INR"`
	Description       *string                   `json:"description" binding:"omitempty,max=255"`
	GroupID           *int64                    `json:"groupId"`
	ParticipantIDs    []int64                   `json:"participantIds"`
	SplitType         *SplitType                `json:"splitType" binding:"omitempty,oneof=EQUAL EXACT PERCENTAGE"`
	ParticipantShares map[int64]decimal.Decimal `json:"participantShares"`
	Status            *ExpenseStatus            `json:"status" binding:"omitempty,oneof=PENDING SETTLED CANCELLED"`
	Category          *ExpenseCategory          `json:"category" binding:"omitempty,oneof=FOOD TRAVEL RENT UTILITIES ENTERTAINMENT SHOPPING OTHER"`
}

// ExpenseResponse is the external representation of an expense. It is
// also the payload stored in the read cache.
type ExpenseResponse struct {
	ID                int64                     `json:"id"`
	Amount            decimal.Decimal           `json:"amount"`
	Currency          Currency                  `json:"currency"`
	Description       string                    `json:"description,omitempty"`
	PayerID           int64                     `json:"payerId"`
	ParticipantIDs    []int64                   `json:"participantIds"`
	GroupID           *int64                    `json:"groupId,omitempty"`
	SplitType         SplitType                 `json:"splitType"`
	ParticipantShares map[int64]decimal.Decimal `json:"participantShares"`
	Status            ExpenseStatus             `json:"status"`
	Category          ExpenseCategory           `json:"category"`
}
