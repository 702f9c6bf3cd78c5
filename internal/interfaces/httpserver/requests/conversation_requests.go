package requests

import (
	"encoding/json"
	"time"
)

// SubmitConversationRequest carries one submission: a user answer, a free
// standing bot message, or an edit (signalled through metadata flags).
type SubmitConversationRequest struct {
	BusinessID  string         `json:"business_id" binding:"required"`
	QuestionID  *uint          `json:"question_id,omitempty"`
	AnswerText  string         `json:"answer_text,omitempty"`
	MessageText string         `json:"message_text,omitempty"`
	IsComplete  bool           `json:"is_complete,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// SkipQuestionRequest marks one question as skipped.
type SkipQuestionRequest struct {
	BusinessID string `json:"business_id" binding:"required"`
	QuestionID uint   `json:"question_id" binding:"required"`
}

// BulkEditItem is one question/answer pair of a bulk edit.
type BulkEditItem struct {
	QuestionID uint   `json:"question_id" binding:"required"`
	AnswerText string `json:"answer_text" binding:"required"`
	IsComplete bool   `json:"is_complete,omitempty"`
}

// BulkEditRequest replaces the answers of several questions in one call.
// Items apply in order; each item is independently atomic.
type BulkEditRequest struct {
	BusinessID string         `json:"business_id" binding:"required"`
	Items      []BulkEditItem `json:"items" binding:"required,min=1"`
}

// FollowupQuestionRequest records a bot follow-up prompt for a question.
type FollowupQuestionRequest struct {
	BusinessID  string `json:"business_id" binding:"required"`
	QuestionID  uint   `json:"question_id" binding:"required"`
	MessageText string `json:"message_text" binding:"required"`
}

// PhaseAnalysisRequest upserts one phase analysis snapshot.
type PhaseAnalysisRequest struct {
	BusinessID  string          `json:"business_id" binding:"required"`
	Phase       string          `json:"phase" binding:"required"`
	Type        string          `json:"analysis_type" binding:"required"`
	Name        string          `json:"analysis_name,omitempty"`
	Result      json.RawMessage `json:"analysis_data,omitempty"`
	GeneratedAt *time.Time      `json:"generated_at,omitempty"`
}

// PurgeConversationRequest identifies the scope to purge.
type PurgeConversationRequest struct {
	BusinessID string `json:"business_id"`
}
