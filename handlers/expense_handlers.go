// handlers/expense_handlers.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sshinde/billsplit-backend/middleware"
	"github.com/sshinde/billsplit-backend/models"
	"github.com/sshinde/billsplit-backend/services"
	"github.com/sshinde/billsplit-backend/utils"
)

// ExpenseHandler exposes the expense endpoints
type ExpenseHandler struct {
	expenses *services.ExpenseService
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(expenses *services.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses}
}

// AddExpense handles POST /api/expenses
func (h *ExpenseHandler) AddExpense(c *gin.Context) {
	var request models.ExpenseRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewValidationError("Invalid request"))
		return
	}

	actor := middleware.CurrentUser(c)
	response, err := h.expenses.AddExpense(actor, &request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, response)
}

// GetExpenseByID handles GET /api/expenses/:expenseId
func (h *ExpenseHandler) GetExpenseByID(c *gin.Context) {
	id, err := parseIDParam(c, "expenseId")
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	actor := middleware.CurrentUser(c)
	response, err := h.expenses.GetExpenseByID(c.Request.Context(), actor, id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, response)
}

// GetMyExpenses handles GET /api/expenses/my
func (h *ExpenseHandler) GetMyExpenses(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	responses, err := h.expenses.GetExpensesByUser(actor)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, responses)
}

// GetExpensesByGroup handles GET /api/expenses/group/:groupId
func (h *ExpenseHandler) GetExpensesByGroup(c *gin.Context) {
	groupID, err := parseIDParam(c, "groupId")
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	actor := middleware.CurrentUser(c)
	responses, err := h.expenses.GetExpensesByGroup(actor, groupID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, responses)
}

// UpdateExpense handles PUT /api/expenses/:expenseId
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	id, err := parseIDParam(c, "expenseId")
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	var request models.ExpenseUpdateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewValidationError("Invalid request"))
		return
	}

	actor := middleware.CurrentUser(c)
	if err := h.expenses.UpdateExpense(c.Request.Context(), actor, id, &request); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, gin.H{"message": "Expense updated successfully"})
}

// DeleteExpense handles DELETE /api/expenses/:expenseId
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	id, err := parseIDParam(c, "expenseId")
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	actor := middleware.CurrentUser(c)
	if err := h.expenses.DeleteExpense(c.Request.Context(), actor, id); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, gin.H{"message": "Expense deleted successfully"})
}

func parseIDParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, utils.NewValidationError("Invalid " + name)
	}
	return id, nil
}
