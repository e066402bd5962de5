package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/tenant-scheduler/internal/config"
	"github.com/BruksfildServices01/tenant-scheduler/internal/handlers"
	"github.com/BruksfildServices01/tenant-scheduler/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/tenant-scheduler/internal/usecase/appointment"
)

// RegisterRoutes wires the use cases over deps into r. The store, cache and
// audit sinks are chosen by the caller.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, deps ucAppointment.Deps) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// USE CASES
	// ======================================================
	retry := ucAppointment.DefaultRetryPolicy(cfg.BookingMaxRetries)

	availabilityUC := ucAppointment.NewGetAvailability(deps, cfg.SlotGranularity)
	bookUC := ucAppointment.NewBookAppointment(deps, retry)
	confirmUC := ucAppointment.NewConfirmAppointment(deps)
	cancelUC := ucAppointment.NewCancelAppointment(deps)
	rescheduleUC := ucAppointment.NewRescheduleAppointment(deps, retry)
	deleteUC := ucAppointment.NewDeleteAppointment(deps)
	listUC := ucAppointment.NewListAppointments(deps.Repo)
	historyUC := ucAppointment.NewGetAppointmentHistory(deps.Repo)
	searchAuditUC := ucAppointment.NewSearchAuditLogs(deps.Repo)
	workingHoursUC := ucAppointment.NewWorkingHours(deps)

	// ======================================================
	// HANDLERS
	// ======================================================
	appointmentHandler := handlers.NewAppointmentHandler(
		bookUC,
		confirmUC,
		cancelUC,
		rescheduleUC,
		deleteUC,
		listUC,
		historyUC,
	)
	availabilityHandler := handlers.NewAvailabilityHandler(availabilityUC)
	workingHoursHandler := handlers.NewWorkingHoursHandler(workingHoursUC)
	auditLogsHandler := handlers.NewAuditLogsHandler(searchAuditUC)
	publicHandler := handlers.NewPublicHandler(deps.Repo, availabilityUC, bookUC)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/:slug/availability", publicHandler.Availability)
			publicAPI.POST("/:slug/appointments", publicHandler.CreateAppointment)
		}

		// ------------------------------
		// PRIVATE
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/availability", availabilityHandler.Slots)
			secured.GET("/availability/windows", availabilityHandler.Windows)

			secured.GET("/employees/:id/working-hours", workingHoursHandler.Get)
			secured.PUT("/employees/:id/working-hours", workingHoursHandler.Update)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/appointments", appointmentHandler.Create)
			secured.GET("/appointments", appointmentHandler.ListByDate)
			secured.GET("/appointments/month", appointmentHandler.ListByMonth)
			secured.POST("/appointments/:id/confirm", appointmentHandler.Confirm)
			secured.POST("/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PUT("/appointments/:id", appointmentHandler.Reschedule)

			// PATCH aliases kept for existing clients
			secured.PATCH("/appointments/:id/confirm", appointmentHandler.Confirm)
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/appointments/:id/reschedule", appointmentHandler.Reschedule)
			secured.DELETE("/appointments/:id", appointmentHandler.Delete)
			secured.GET("/appointments/:id/history", appointmentHandler.History)

			secured.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
