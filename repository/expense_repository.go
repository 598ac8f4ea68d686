// repository/expense_repository.go
package repository

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sshinde/billsplit-backend/models"
)

// ExpenseRepository handles database operations for expenses
type ExpenseRepository struct {
	db     *sql.DB
	users  *UserRepository
	groups *GroupRepository
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(db *sql.DB, users *UserRepository, groups *GroupRepository) *ExpenseRepository {
	return &ExpenseRepository{db: db, users: users, groups: groups}
}

// CreateExpense inserts an expense with its participants and shares in one
// transaction and fills in the generated ID
func (r *ExpenseRepository) CreateExpense(expense *models.Expense) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	var groupID *int64
	if expense.Group != nil {
		groupID = &expense.Group.ID
	}

	err = tx.QueryRow(
		`INSERT INTO expenses (amount, currency, description, payer_id, group_id, split_type, status, category, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`,
		expense.Amount, expense.Currency, expense.Description, expense.Payer.ID, groupID,
		expense.SplitType, expense.Status, expense.Category, expense.CreatedAt, expense.UpdatedAt,
	).Scan(&expense.ID)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %v", err)
	}

	if err := insertExpenseChildren(tx, expense); err != nil {
		return err
	}

	return tx.Commit()
}

// UpdateExpense persists the expense row and replaces the participant and
// share sets wholesale, all in one transaction
func (r *ExpenseRepository) UpdateExpense(expense *models.Expense) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	var groupID *int64
	if expense.Group != nil {
		groupID = &expense.Group.ID
	}

	_, err = tx.Exec(
		`UPDATE expenses SET amount = $1, currency = $2, description = $3, payer_id = $4,
		 group_id = $5, split_type = $6, status = $7, category = $8, updated_at = $9
		 WHERE id = $10`,
		expense.Amount, expense.Currency, expense.Description, expense.Payer.ID, groupID,
		expense.SplitType, expense.Status, expense.Category, expense.UpdatedAt, expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %v", err)
	}

	_, err = tx.Exec(`DELETE FROM expense_participants WHERE expense_id = $1`, expense.ID)
	if err != nil {
		return fmt.Errorf("failed to clear expense participants: %v", err)
	}
	_, err = tx.Exec(`DELETE FROM participant_shares WHERE expense_id = $1`, expense.ID)
	if err != nil {
		return fmt.Errorf("failed to clear participant shares: %v", err)
	}

	if err := insertExpenseChildren(tx, expense); err != nil {
		return err
	}

	return tx.Commit()
}

func insertExpenseChildren(tx *sql.Tx, expense *models.Expense) error {
	for _, participant := range expense.Participants {
		_, err := tx.Exec(
			`INSERT INTO expense_participants (expense_id, user_id) VALUES ($1, $2)`,
			expense.ID, participant.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense participant: %v", err)
		}
	}

	for userID, share := range expense.Shares {
		_, err := tx.Exec(
			`INSERT INTO participant_shares (expense_id, user_id, share) VALUES ($1, $2, $3)`,
			expense.ID, userID, share,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant share: %v", err)
		}
	}

	return nil
}

// GetExpenseByID returns a fully loaded expense, or nil if absent
func (r *ExpenseRepository) GetExpenseByID(id int64) (*models.Expense, error) {
	row := r.db.QueryRow(
		`SELECT id, amount, currency, description, payer_id, group_id, split_type, status, category, created_at, updated_at
		 FROM expenses WHERE id = $1`,
		id,
	)

	expense, err := r.scanExpense(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return expense, nil
}

// GetExpensesByUser returns expenses where the user is payer or participant
func (r *ExpenseRepository) GetExpensesByUser(userID int64) ([]*models.Expense, error) {
	return r.queryExpenses(
		`SELECT id, amount, currency, description, payer_id, group_id, split_type, status, category, created_at, updated_at
		 FROM expenses
		 WHERE payer_id = $1
		    OR id IN (SELECT expense_id FROM expense_participants WHERE user_id = $1)
		 ORDER BY created_at ASC`,
		userID,
	)
}

// GetExpensesByGroup returns all expenses recorded against a group
func (r *ExpenseRepository) GetExpensesByGroup(groupID int64) ([]*models.Expense, error) {
	return r.queryExpenses(
		`SELECT id, amount, currency, description, payer_id, group_id, split_type, status, category, created_at, updated_at
		 FROM expenses WHERE group_id = $1 ORDER BY created_at ASC`,
		groupID,
	)
}

// DeleteExpense removes an expense; participants and shares cascade
func (r *ExpenseRepository) DeleteExpense(id int64) error {
	_, err := r.db.Exec(`DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %v", err)
	}
	return nil
}

func (r *ExpenseRepository) queryExpenses(query string, arg interface{}) ([]*models.Expense, error) {
	rows, err := r.db.Query(query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to get expenses: %v", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense, err := r.scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}

func (r *ExpenseRepository) scanExpense(row interface{ Scan(...interface{}) error }) (*models.Expense, error) {
	var expense models.Expense
	var description sql.NullString
	var payerID int64
	var groupID sql.NullInt64

	err := row.Scan(&expense.ID, &expense.Amount, &expense.Currency, &description,
		&payerID, &groupID, &expense.SplitType, &expense.Status, &expense.Category,
		&expense.CreatedAt, &expense.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		expense.Description = description.String
	}

	payer, err := r.users.GetUserByID(payerID)
	if err != nil {
		return nil, err
	}
	if payer != nil {
		expense.Payer = *payer
	}

	if groupID.Valid {
		group, err := r.groups.GetGroupByID(groupID.Int64)
		if err != nil {
			return nil, err
		}
		expense.Group = group
	}

	participants, err := r.loadParticipants(expense.ID)
	if err != nil {
		return nil, err
	}
	expense.Participants = participants

	shares, err := r.loadShares(expense.ID)
	if err != nil {
		return nil, err
	}
	expense.Shares = shares

	return &expense, nil
}

func (r *ExpenseRepository) loadParticipants(expenseID int64) ([]models.User, error) {
	rows, err := r.db.Query(
		`SELECT u.id, u.name, u.email, u.phone, u.password_hash, u.gender, u.enabled, u.active, u.role, u.created_at, u.updated_at
		 FROM users u
		 JOIN expense_participants ep ON ep.user_id = u.id
		 WHERE ep.expense_id = $1`,
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense participants: %v", err)
	}
	defer rows.Close()

	var participants []models.User
	for rows.Next() {
		participant, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participant: %v", err)
		}
		participants = append(participants, *participant)
	}
	return participants, rows.Err()
}

func (r *ExpenseRepository) loadShares(expenseID int64) (map[int64]decimal.Decimal, error) {
	rows, err := r.db.Query(
		`SELECT user_id, share FROM participant_shares WHERE expense_id = $1`,
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participant shares: %v", err)
	}
	defer rows.Close()

	shares := make(map[int64]decimal.Decimal)
	for rows.Next() {
		var userID int64
		var share decimal.Decimal
		if err := rows.Scan(&userID, &share); err != nil {
			return nil, fmt.Errorf("failed to scan share: %v", err)
		}
		shares[userID] = share
	}
	return shares, rows.Err()
}
