package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pipecrm/internal/handlers"
)

func SetupRoutes(
	r *gin.Engine,
	companyHandler *handlers.CompanyHandler,
	contactHandler *handlers.ContactHandler,
	dealHandler *handlers.DealHandler,
	leadHandler *handlers.LeadHandler,
	activityHandler *handlers.ActivityHandler,
	searchHandler *handlers.SearchHandler,
	reportHandler *handlers.ReportHandler,
	exportHandler *handlers.ExportHandler,
	attachmentHandler *handlers.AttachmentHandler,
	notificationHandler *handlers.NotificationHandler,
) *gin.Engine {

	// healthcheck
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	api := r.Group("/api")

	// COMPANIES
	companies := api.Group("/companies")
	{
		companies.GET("", companyHandler.List)
		companies.POST("", companyHandler.Create)
	}

	// CONTACTS
	contacts := api.Group("/contacts")
	{
		contacts.GET("", contactHandler.List)
		contacts.POST("", contactHandler.Create)
		contacts.GET("/:id", contactHandler.GetByID)
		contacts.PUT("/:id", contactHandler.Update)
		contacts.DELETE("/:id", contactHandler.Delete)
	}

	// DEALS
	deals := api.Group("/deals")
	{
		deals.GET("", dealHandler.List)
		deals.POST("", dealHandler.Create)
		// до /:id, иначе gin сматчит "reorder" как id
		deals.POST("/reorder", dealHandler.Reorder)
		deals.GET("/:id", dealHandler.GetByID)
		deals.PUT("/:id", dealHandler.Update)
		deals.DELETE("/:id", dealHandler.Delete)
	}

	// LEADS
	leads := api.Group("/leads")
	{
		leads.GET("", leadHandler.List)
		leads.POST("", leadHandler.Create)
		leads.GET("/:id", leadHandler.GetByID)
		leads.PUT("/:id", leadHandler.Update)
		leads.DELETE("/:id", leadHandler.Delete)
		leads.POST("/:id/convert", leadHandler.Convert)
	}

	// ACTIVITIES
	activities := api.Group("/activities")
	{
		activities.GET("", activityHandler.List)
		activities.POST("", activityHandler.Create)
		activities.PUT("/:id", activityHandler.Update)
		activities.DELETE("/:id", activityHandler.Delete)
	}

	api.GET("/search", searchHandler.Search)

	// REPORTS
	reports := api.Group("/reports")
	{
		reports.GET("/pipeline_totals", reportHandler.PipelineTotals)
		reports.GET("/pipeline_totals/pdf", reportHandler.PipelineTotalsPDF)
	}

	api.GET("/export/:entity", exportHandler.Export)
	api.POST("/import/:entity", exportHandler.Import)

	// ATTACHMENTS
	attachments := api.Group("/attachments")
	{
		attachments.GET("", attachmentHandler.List)
		attachments.POST("", attachmentHandler.Upload)
		attachments.GET("/:id/download", attachmentHandler.Download)
		attachments.DELETE("/:id", attachmentHandler.Delete)
	}

	// NOTIFICATIONS
	notifications := api.Group("/notifications")
	{
		notifications.GET("", notificationHandler.List)
		notifications.POST("", notificationHandler.Create)
		notifications.GET("/stream", notificationHandler.Stream)
		notifications.POST("/:id/seen", notificationHandler.MarkSeen)
	}

	return r
}
