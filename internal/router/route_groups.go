package router

import (
	"olivemind_backend/internal/handlers"
	"olivemind_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupPublicInvitationRoutes sets up the worker-facing invitation routes.
func SetupPublicInvitationRoutes(apiGroup *gin.RouterGroup, invitationHandler *handlers.InvitationHandler) {
	publicRoutes := apiGroup.Group("/invitations")
	{
		publicRoutes.POST("/:id/respond", invitationHandler.RespondToInvitation)
	}
}

// SetupWorkerRoutes sets up the worker roster routes.
func SetupWorkerRoutes(authenticatedGroup *gin.RouterGroup, workerHandler *handlers.WorkerHandler, invitationHandler *handlers.InvitationHandler, reminderHandler *handlers.ReminderHandler) {
	workerRoutes := authenticatedGroup.Group("/workers")
	workerRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Coordinator"))
	{
		workerRoutes.POST("", workerHandler.CreateWorker)
		workerRoutes.GET("", workerHandler.GetWorkers)
		workerRoutes.GET("/:id", workerHandler.GetWorkerByID)
		workerRoutes.PUT("/:id", workerHandler.UpdateWorker)
		workerRoutes.GET("/:id/invitations", invitationHandler.GetInvitationsByWorker)
		workerRoutes.GET("/:id/reminders", reminderHandler.GetRemindersByWorker)
	}
}

// SetupShiftRoutes sets up the shift routes.
func SetupShiftRoutes(authenticatedGroup *gin.RouterGroup, shiftHandler *handlers.ShiftHandler, invitationHandler *handlers.InvitationHandler, reminderHandler *handlers.ReminderHandler, briefHandler *handlers.BriefHandler) {
	shiftRoutes := authenticatedGroup.Group("/shifts")
	shiftRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Coordinator"))
	{
		shiftRoutes.POST("", shiftHandler.CreateShift)
		shiftRoutes.GET("", shiftHandler.GetShifts)
		shiftRoutes.GET("/:id", shiftHandler.GetShiftByID)
		shiftRoutes.PUT("/:id", shiftHandler.UpdateShift)
		shiftRoutes.DELETE("/:id", shiftHandler.DeleteShift)
		shiftRoutes.POST("/:id/assign", shiftHandler.AssignWorker)
		shiftRoutes.POST("/:id/invitations", invitationHandler.SendInvitations)
		shiftRoutes.GET("/:id/invitations", invitationHandler.GetInvitationsByShift)
		shiftRoutes.GET("/:id/reminders", reminderHandler.GetRemindersByShift)
		shiftRoutes.GET("/:id/brief", briefHandler.GetBriefByShift)
	}
}

// SetupInvitationRoutes sets up the dashboard-facing invitation routes.
func SetupInvitationRoutes(authenticatedGroup *gin.RouterGroup, invitationHandler *handlers.InvitationHandler) {
	invitationRoutes := authenticatedGroup.Group("/invitations")
	{
		invitationRoutes.GET("/:id", invitationHandler.GetInvitationByID)
	}
}

// SetupReminderRoutes sets up the reminder routes.
func SetupReminderRoutes(authenticatedGroup *gin.RouterGroup, reminderHandler *handlers.ReminderHandler) {
	reminderRoutes := authenticatedGroup.Group("/reminders")
	{
		reminderRoutes.PATCH("/:id/sent", reminderHandler.MarkReminderSent)
	}
}

// SetupBriefRoutes sets up the work brief routes.
func SetupBriefRoutes(authenticatedGroup *gin.RouterGroup, briefHandler *handlers.BriefHandler) {
	briefRoutes := authenticatedGroup.Group("/work-briefs")
	briefRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Coordinator"))
	{
		briefRoutes.POST("", briefHandler.CreateBrief)
		briefRoutes.GET("", briefHandler.GetBriefs)
		briefRoutes.GET("/:id", briefHandler.GetBriefByID)
		briefRoutes.PUT("/:id", briefHandler.UpdateBrief)
		briefRoutes.DELETE("/:id", briefHandler.DeleteBrief)
	}
}
