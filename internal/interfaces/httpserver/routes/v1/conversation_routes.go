package v1

import (
	"github.com/gin-gonic/gin"

	"briefhq/intake-api/internal/interfaces/httpserver/handlers"
)

func registerProgressRoutes(router gin.IRoutes, handler *handlers.ProgressHandler) {
	router.GET("/progress", handler.Get)
}

func registerConversationRoutes(router gin.IRoutes, handler *handlers.ConversationHandler, analysisHandler *handlers.AnalysisHandler) {
	router.POST("/conversations", handler.Submit)
	router.POST("/conversations/bulk", handler.BulkEdit)
	router.POST("/conversations/skip", handler.Skip)
	router.POST("/conversations/followup-question", handler.Followup)
	router.DELETE("/conversations", handler.Purge)

	router.POST("/conversations/phase-analysis", analysisHandler.Upsert)
	router.GET("/conversations/phase-analysis", analysisHandler.List)
}

func registerCatalogRoutes(router gin.IRoutes, handler *handlers.CatalogHandler) {
	router.GET("/questions", handler.List)
}

func registerBusinessRoutes(router gin.IRoutes, handler *handlers.BusinessHandler) {
	router.POST("/businesses", handler.Create)
	router.GET("/businesses", handler.List)
}
