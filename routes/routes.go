// routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/sshinde/billsplit-backend/handlers"
	"github.com/sshinde/billsplit-backend/middleware"
)

// Handlers bundles the handler dependencies for route registration
type Handlers struct {
	Users    *handlers.UserHandler
	Groups   *handlers.GroupHandler
	Expenses *handlers.ExpenseHandler
}

// SetupRoutes configures all API routes for the application
func SetupRoutes(router *gin.Engine, h *Handlers, authMW *middleware.AuthMiddleware) {
	api := router.Group("/api")

	// Public account endpoints
	user := api.Group("/user")
	{
		user.POST("/register", h.Users.Register)
		user.GET("/verify", h.Users.VerifyEmail)
		user.POST("/login", h.Users.Login)
	}

	// Everything else requires a session
	authed := api.Group("")
	authed.Use(authMW.RequireAuth())
	{
		authed.PUT("/user", h.Users.UpdateProfile)
		authed.DELETE("/user", h.Users.Deactivate)

		group := authed.Group("/group")
		{
			group.POST("", h.Groups.CreateGroup)
			group.GET("", h.Groups.GetMyGroups)
			group.GET("/:groupId", h.Groups.GetGroupByID)
			group.PUT("/:groupId", h.Groups.UpdateGroup)
			group.DELETE("/:groupId", h.Groups.DeleteGroup)
			group.GET("/:groupId/export", h.Groups.ExportGroupExpenses)
		}

		expenses := authed.Group("/expenses")
		{
			expenses.POST("", h.Expenses.AddExpense)
			expenses.GET("/my", h.Expenses.GetMyExpenses)
			expenses.GET("/group/:groupId", h.Expenses.GetExpensesByGroup)
			expenses.GET("/:expenseId", h.Expenses.GetExpenseByID)
			expenses.PUT("/:expenseId", h.Expenses.UpdateExpense)
			expenses.DELETE("/:expenseId", h.Expenses.DeleteExpense)
		}
	}
}
