// services/report_service.go
package services

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/sshinde/billsplit-backend/models"
	"github.com/sshinde/billsplit-backend/utils"
)

// ReportService exports a group's expenses as an Excel workbook
type ReportService struct {
	groups   *GroupService
	expenses *ExpenseService
}

// NewReportService creates a new report service
func NewReportService(groups *GroupService, expenses *ExpenseService) *ReportService {
	return &ReportService{groups: groups, expenses: expenses}
}

// ExportGroupExpenses builds an xlsx with one row per expense and one
// share column per group member. Access follows the group read rules:
// only current members may export.
func (s *ReportService) ExportGroupExpenses(actor models.User, groupID int64) (*excelize.File, string, error) {
	group, err := s.groups.GetGroupByID(actor, groupID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	sheet := "Expenses"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{"Date", "Description", "Category", "Status", "Currency", "Payer", "Amount"}
	for _, member := range group.Members {
		headers = append(headers, member.Name)
	}

	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	// Membership was enforced by the group read above; load the full
	// entities so share rows carry member names.
	expenses, err := s.expenses.store.GetExpensesByGroup(groupID)
	if err != nil {
		return nil, "", utils.NewInternalError("Failed to retrieve expenses")
	}

	totals := make(map[int64]decimal.Decimal, len(group.Members))
	for row, expense := range expenses {
		values := []interface{}{
			expense.CreatedAt.Format("2006-01-02"),
			expense.Description,
			string(expense.Category),
			string(expense.Status),
			string(expense.Currency),
			expense.Payer.Name,
			expense.Amount.InexactFloat64(),
		}
		for _, member := range group.Members {
			if share, ok := expense.Shares[member.ID]; ok {
				values = append(values, share.InexactFloat64())
				totals[member.ID] = totals[member.ID].Add(share)
			} else {
				values = append(values, "")
			}
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	// Totals row
	totalRow := len(expenses) + 2
	f.SetCellValue(sheet, fmt.Sprintf("F%d", totalRow), "Total owed")
	for i, member := range group.Members {
		cell, _ := excelize.CoordinatesToCellName(8+i, totalRow)
		f.SetCellValue(sheet, cell, totals[member.ID].InexactFloat64())
	}

	filename := utils.CleanFileName(group.GroupName) + "_expenses.xlsx"
	return f, filename, nil
}
