// handlers/group_handlers.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sshinde/billsplit-backend/middleware"
	"github.com/sshinde/billsplit-backend/models"
	"github.com/sshinde/billsplit-backend/services"
	"github.com/sshinde/billsplit-backend/utils"
)

// GroupHandler exposes the group endpoints
type GroupHandler struct {
	groups  *services.GroupService
	reports *services.ReportService
}

// NewGroupHandler creates a new group handler
func NewGroupHandler(groups *services.GroupService, reports *services.ReportService) *GroupHandler {
	return &GroupHandler{groups: groups, reports: reports}
}

// CreateGroup handles POST /api/group
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	var request models.GroupRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewValidationError("Invalid request"))
		return
	}

	actor := middleware.CurrentUser(c)
	group, err := h.groups.CreateGroup(actor, &request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, group)
}

// GetMyGroups handles GET /api/group
func (h *GroupHandler) GetMyGroups(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	groups, err := h.groups.GetGroupsForUser(actor)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, groups)
}

// GetGroupByID handles GET /api/group/:groupId
func (h *GroupHandler) GetGroupByID(c *gin.Context) {
	id, err := parseIDParam(c, "groupId")
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	actor := middleware.CurrentUser(c)
	group, err := h.groups.GetGroupByID(actor, id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, group)
}

// UpdateGroup handles PUT /api/group/:groupId
func (h *GroupHandler) UpdateGroup(c *gin.Context) {
	id, err := parseIDParam(c, "groupId")
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	var request models.GroupUpdateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewValidationError("Invalid request"))
		return
	}

	actor := middleware.CurrentUser(c)
	group, err := h.groups.UpdateGroup(actor, id, &request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, group)
}

// DeleteGroup handles DELETE /api/group/:groupId
func (h *GroupHandler) DeleteGroup(c *gin.Context) {
	id, err := parseIDParam(c, "groupId")
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	actor := middleware.CurrentUser(c)
	if err := h.groups.DeleteGroup(actor, id); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, gin.H{"message": "Group deleted successfully"})
}

// ExportGroupExpenses handles GET /api/group/:groupId/export
func (h *GroupHandler) ExportGroupExpenses(c *gin.Context) {
	id, err := parseIDParam(c, "groupId")
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	actor := middleware.CurrentUser(c)
	file, filename, err := h.reports.ExportGroupExpenses(actor, id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := file.Write(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}
