// services/expense_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/sshinde/billsplit-backend/models"
	"github.com/sshinde/billsplit-backend/utils"
)

const (
	expenseCacheKeyPrefix = "expense:"
	expenseCacheTTL       = 10 * time.Minute
)

// UserDirectory resolves user references for the expense flows
type UserDirectory interface {
	GetUserByID(id int64) (*models.User, error)
	// GetUsersByIDs drops unresolved IDs silently; callers check for an
	// empty result themselves.
	GetUsersByIDs(ids []int64) ([]models.User, error)
}

// GroupDirectory resolves group references for the expense flows
type GroupDirectory interface {
	GetGroupByID(id int64) (*models.Group, error)
}

// ExpenseStore is the durable store for expenses
type ExpenseStore interface {
	CreateExpense(expense *models.Expense) error
	UpdateExpense(expense *models.Expense) error
	DeleteExpense(id int64) error
	GetExpenseByID(id int64) (*models.Expense, error)
	GetExpensesByUser(userID int64) ([]*models.Expense, error)
	GetExpensesByGroup(groupID int64) ([]*models.Expense, error)
}

// ExpenseCache is the read cache for expense representations
type ExpenseCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// ExpenseService orchestrates expense creation, reads and mutations.
// Reads follow a cache-aside discipline over the ExpenseCache; every read
// re-runs the access check whether it was served from cache or not, and
// every successful mutation invalidates the cached entry.
type ExpenseService struct {
	users        UserDirectory
	groups       GroupDirectory
	store        ExpenseStore
	calc         *CalculationService
	cache        ExpenseCache
	cacheEnabled bool
}

// NewExpenseService creates a new expense service. cache may be nil when
// caching is disabled.
func NewExpenseService(users UserDirectory, groups GroupDirectory, store ExpenseStore,
	calc *CalculationService, cache ExpenseCache, cacheEnabled bool) *ExpenseService {
	return &ExpenseService{
		users:        users,
		groups:       groups,
		store:        store,
		calc:         calc,
		cache:        cache,
		cacheEnabled: cacheEnabled && cache != nil,
	}
}

// AddExpense validates the request, resolves the participant set, computes
// the share mapping and persists the expense. Nothing is written on any
// failure.
func (s *ExpenseService) AddExpense(actor models.User, req *models.ExpenseRequest) (*models.ExpenseResponse, error) {
	if req.Amount == nil {
		return nil, utils.NewValidationError("Amount cannot be null")
	}
	if err := utils.ValidateNonNegativeAmount(*req.Amount, "Amount"); err != nil {
		return nil, err
	}
	if req.SplitType == "" {
		return nil, utils.NewValidationError("Split type must be provided")
	}

	payer, err := s.users.GetUserByID(req.PayerID)
	if err != nil {
		return nil, utils.NewInternalError("Failed to resolve payer")
	}
	if payer == nil {
		return nil, utils.NewNotFoundError("Payer")
	}

	var participants []models.User
	var group *models.Group

	if req.GroupID != nil {
		group, err = s.groups.GetGroupByID(*req.GroupID)
		if err != nil {
			return nil, utils.NewInternalError("Failed to resolve group")
		}
		if group == nil {
			return nil, utils.NewValidationError("Invalid Group ID")
		}
		if !IsGroupMember(actor, group) {
			return nil, utils.NewForbiddenError("Access denied: You are not a member of this group")
		}
		participants = group.Members
	} else if req.ParticipantIDs != nil {
		participants, err = s.users.GetUsersByIDs(req.ParticipantIDs)
		if err != nil {
			return nil, utils.NewInternalError("Failed to resolve participants")
		}
		if len(participants) == 0 {
			return nil, utils.NewValidationError("No valid participants found")
		}
	} else {
		return nil, utils.NewValidationError("Either group ID or participant IDs must be provided")
	}

	shares, err := s.calc.ComputeShares(req.SplitType, *req.Amount, participants, req.ParticipantShares)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	expense := &models.Expense{
		Amount:       *req.Amount,
		Currency:     req.Currency,
		Description:  req.Description,
		Payer:        *payer,
		Participants: participants,
		Group:        group,
		SplitType:    req.SplitType,
		Shares:       shares,
		Status:       req.Status,
		Category:     req.Category,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateExpense(expense); err != nil {
		return nil, utils.NewInternalError("Failed to store expense")
	}

	return toExpenseResponse(expense), nil
}

// GetExpenseByID serves a single expense cache-aside. The access check
// runs on every read, including cache hits; a cached entry that fails to
// decode falls through to the durable store.
func (s *ExpenseService) GetExpenseByID(ctx context.Context, actor models.User, id int64) (*models.ExpenseResponse, error) {
	key := cacheKey(id)

	if s.cacheEnabled {
		raw, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			log.Printf("Warning: cache get failed for %s: %v", key, err)
		} else if ok {
			var cached models.ExpenseResponse
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				allowed, err := s.authorizeCached(actor, &cached)
				if err != nil {
					return nil, err
				}
				if !allowed {
					return nil, utils.NewForbiddenError("Access denied: You are not a part of this expense")
				}
				return &cached, nil
			}
			log.Printf("Warning: discarding undecodable cache entry %s", key)
		}
	}

	expense, err := s.store.GetExpenseByID(id)
	if err != nil {
		return nil, utils.NewInternalError("Failed to retrieve expense")
	}
	if expense == nil {
		return nil, utils.NewNotFoundError("Expense")
	}

	if !CanAccessExpense(actor, expense) {
		return nil, utils.NewForbiddenError("Access denied: You are not a part of this expense")
	}

	response := toExpenseResponse(expense)

	if s.cacheEnabled {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, key, string(payload), expenseCacheTTL); err != nil {
				log.Printf("Warning: cache set failed for %s: %v", key, err)
			}
		}
	}

	return response, nil
}

// authorizeCached runs the access check against a cached representation.
// Payer and participant checks need no extra I/O; group membership is only
// resolved when the cheaper checks fail.
func (s *ExpenseService) authorizeCached(actor models.User, cached *models.ExpenseResponse) (bool, error) {
	if cached.PayerID == actor.ID {
		return true, nil
	}
	for _, participantID := range cached.ParticipantIDs {
		if participantID == actor.ID {
			return true, nil
		}
	}
	if cached.GroupID != nil {
		group, err := s.groups.GetGroupByID(*cached.GroupID)
		if err != nil {
			return false, utils.NewInternalError("Failed to resolve group")
		}
		if group != nil && IsGroupMember(actor, group) {
			return true, nil
		}
	}
	return false, nil
}

// GetExpensesByUser returns every expense the actor paid for or
// participates in
func (s *ExpenseService) GetExpensesByUser(actor models.User) ([]*models.ExpenseResponse, error) {
	expenses, err := s.store.GetExpensesByUser(actor.ID)
	if err != nil {
		return nil, utils.NewInternalError("Failed to retrieve expenses")
	}
	return toExpenseResponses(expenses), nil
}

// GetExpensesByGroup returns a group's expenses to a current member
func (s *ExpenseService) GetExpensesByGroup(actor models.User, groupID int64) ([]*models.ExpenseResponse, error) {
	group, err := s.groups.GetGroupByID(groupID)
	if err != nil {
		return nil, utils.NewInternalError("Failed to resolve group")
	}
	if group == nil {
		return nil, utils.NewNotFoundError("Group")
	}
	if !IsGroupMember(actor, group) {
		return nil, utils.NewForbiddenError("Access denied: You are not a member of this group")
	}

	expenses, err := s.store.GetExpensesByGroup(groupID)
	if err != nil {
		return nil, utils.NewInternalError("Failed to retrieve expenses")
	}
	return toExpenseResponses(expenses), nil
}

// UpdateExpense applies a sparse partial update: present fields overwrite,
// absent fields are untouched. Shares are recomputed wholesale iff the
// split type changed or the participant set was replaced. Any failure
// leaves the store untouched.
func (s *ExpenseService) UpdateExpense(ctx context.Context, actor models.User, id int64, req *models.ExpenseUpdateRequest) error {
	expense, err := s.store.GetExpenseByID(id)
	if err != nil {
		return utils.NewInternalError("Failed to retrieve expense")
	}
	if expense == nil {
		return utils.NewNotFoundError("Expense")
	}

	if !CanAccessExpense(actor, expense) {
		return utils.NewForbiddenError("You do not have permission to update this expense")
	}

	if req.Amount != nil {
		if err := utils.ValidateNonNegativeAmount(*req.Amount, "Amount"); err != nil {
			return err
		}
		expense.Amount = *req.Amount
	}
	if req.Currency != nil {
		expense.Currency = *req.Currency
	}
	if req.Description != nil {
		expense.Description = *req.Description
	}
	if req.Status != nil {
		expense.Status = *req.Status
	}
	if req.Category != nil {
		expense.Category = *req.Category
	}

	participantsUpdated := false
	if req.GroupID != nil {
		group, err := s.groups.GetGroupByID(*req.GroupID)
		if err != nil {
			return utils.NewInternalError("Failed to resolve group")
		}
		if group == nil {
			return utils.NewValidationError("Invalid Group ID")
		}
		expense.Group = group
		expense.Participants = group.Members
		participantsUpdated = true
	} else if req.ParticipantIDs != nil {
		participants, err := s.users.GetUsersByIDs(req.ParticipantIDs)
		if err != nil {
			return utils.NewInternalError("Failed to resolve participants")
		}
		if len(participants) == 0 {
			return utils.NewValidationError("No valid participants found")
		}
		expense.Participants = participants
		participantsUpdated = true
	}

	shouldRecalculate := req.SplitType != nil || participantsUpdated
	if shouldRecalculate {
		newSplitType := expense.SplitType
		if req.SplitType != nil {
			newSplitType = *req.SplitType
		}

		if newSplitType == models.SplitPercentage || newSplitType == models.SplitExact {
			if len(req.ParticipantShares) == 0 {
				return utils.NewSettlementError(
					fmt.Sprintf("Participant shares must be provided for %s split type", newSplitType))
			}
		}

		shares, err := s.calc.ComputeShares(newSplitType, expense.Amount, expense.Participants, req.ParticipantShares)
		if err != nil {
			return err
		}
		expense.SplitType = newSplitType
		expense.Shares = shares
	}

	expense.UpdatedAt = time.Now()

	if err := s.store.UpdateExpense(expense); err != nil {
		return utils.NewInternalError("Failed to store expense")
	}

	s.invalidate(ctx, id)
	return nil
}

// DeleteExpense removes an expense. The store's delete is never called for
// an unknown ID.
func (s *ExpenseService) DeleteExpense(ctx context.Context, actor models.User, id int64) error {
	expense, err := s.store.GetExpenseByID(id)
	if err != nil {
		return utils.NewInternalError("Failed to retrieve expense")
	}
	if expense == nil {
		return utils.NewNotFoundError("Expense")
	}

	if !CanAccessExpense(actor, expense) {
		return utils.NewForbiddenError("You do not have permission to delete this expense")
	}

	if err := s.store.DeleteExpense(id); err != nil {
		return utils.NewInternalError("Failed to delete expense")
	}

	s.invalidate(ctx, id)
	return nil
}

func (s *ExpenseService) invalidate(ctx context.Context, id int64) {
	if !s.cacheEnabled {
		return
	}
	if err := s.cache.Delete(ctx, cacheKey(id)); err != nil {
		log.Printf("Warning: cache invalidation failed for expense %d: %v", id, err)
	}
}

func cacheKey(id int64) string {
	return fmt.Sprintf("%s%d", expenseCacheKeyPrefix, id)
}

func toExpenseResponse(expense *models.Expense) *models.ExpenseResponse {
	participantIDs := make([]int64, 0, len(expense.Participants))
	for _, participant := range expense.Participants {
		participantIDs = append(participantIDs, participant.ID)
	}

	var groupID *int64
	if expense.Group != nil {
		id := expense.Group.ID
		groupID = &id
	}

	return &models.ExpenseResponse{
		ID:                expense.ID,
		Amount:            expense.Amount,
		Currency:          expense.Currency,
		Description:       expense.Description,
		PayerID:           expense.Payer.ID,
		ParticipantIDs:    participantIDs,
		GroupID:           groupID,
		SplitType:         expense.SplitType,
		ParticipantShares: expense.Shares,
		Status:            expense.Status,
		Category:          expense.Category,
	}
}

func toExpenseResponses(expenses []*models.Expense) []*models.ExpenseResponse {
	responses := make([]*models.ExpenseResponse, 0, len(expenses))
	for _, expense := range expenses {
		responses = append(responses, toExpenseResponse(expense))
	}
	return responses
}
