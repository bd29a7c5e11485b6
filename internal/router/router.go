package router

import (
	"database/sql"

	"olivemind_backend/internal/handlers"
	"olivemind_backend/internal/middleware"
	"olivemind_backend/internal/repositories"
	"olivemind_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application. It returns the reminder
// service so the caller can hand it to the reminder dispatcher.
func Setup(engine *gin.Engine, db *sql.DB, sender services.MessageSender) services.ReminderService {
	// Initialize Repositories
	workerRepo := repositories.NewWorkerRepository(db)
	shiftRepo := repositories.NewShiftRepository(db)
	invitationRepo := repositories.NewInvitationRepository(db)
	reminderRepo := repositories.NewReminderRepository(db)
	briefRepo := repositories.NewBriefRepository(db)

	// Initialize Services
	workerService := services.NewWorkerService(workerRepo)
	reminderService := services.NewReminderService(reminderRepo, workerRepo, sender)
	shiftService := services.NewShiftService(shiftRepo, workerRepo, reminderService)
	invitationService := services.NewInvitationService(invitationRepo, shiftRepo, workerRepo, shiftService)
	briefService := services.NewBriefService(briefRepo, shiftRepo)

	// Initialize Handlers
	workerHandler := handlers.NewWorkerHandler(workerService)
	shiftHandler := handlers.NewShiftHandler(shiftService)
	invitationHandler := handlers.NewInvitationHandler(invitationService)
	reminderHandler := handlers.NewReminderHandler(reminderService)
	briefHandler := handlers.NewBriefHandler(briefService)

	apiV1 := engine.Group("/api/v1")

	// Invitation responses arrive from links sent to workers' phones, so the
	// respond endpoint stays public.
	SetupPublicInvitationRoutes(apiV1, invitationHandler)

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		SetupWorkerRoutes(authenticated, workerHandler, invitationHandler, reminderHandler)
		SetupShiftRoutes(authenticated, shiftHandler, invitationHandler, reminderHandler, briefHandler)
		SetupInvitationRoutes(authenticated, invitationHandler)
		SetupReminderRoutes(authenticated, reminderHandler)
		SetupBriefRoutes(authenticated, briefHandler)
	}

	return reminderService
}
