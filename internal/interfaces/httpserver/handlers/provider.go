package handlers

import (
	"github.com/rs/zerolog"

	"briefhq/intake-api/internal/domain/analysis"
	"briefhq/intake-api/internal/domain/business"
	"briefhq/intake-api/internal/domain/catalog"
	"briefhq/intake-api/internal/domain/conversation"
)

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	Progress     *ProgressHandler
	Conversation *ConversationHandler
	Analysis     *AnalysisHandler
	Catalog      *CatalogHandler
	Business     *BusinessHandler
}

// NewProvider constructs the handler provider with domain services.
func NewProvider(
	conversationService conversation.Service,
	analysisService analysis.Service,
	catalogReader catalog.Reader,
	businesses business.Repository,
	log zerolog.Logger,
) *Provider {
	gate := newAccessGate(businesses)
	return &Provider{
		Progress:     NewProgressHandler(conversationService, analysisService, gate, log),
		Conversation: NewConversationHandler(conversationService, analysisService, gate, log),
		Analysis:     NewAnalysisHandler(analysisService, gate, log),
		Catalog:      NewCatalogHandler(catalogReader, log),
		Business:     NewBusinessHandler(businesses, log),
	}
}
