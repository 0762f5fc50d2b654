package entity

import "time"

type SubmitAnswerRequest struct {
	Answer      string `json:"answer"`
	ForceFinish bool   `json:"force_finish"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// InterviewDTO is the external view of the active interview. The transcript
// itself stays internal; clients only need the question being asked.
type InterviewDTO struct {
	SessionID       string          `json:"session_id"`
	Status          InterviewStatus `json:"status"`
	Step            int             `json:"step"`
	CurrentQuestion *Question       `json:"current_question,omitempty"`
	Summary         *Summary        `json:"summary,omitempty"`
}

// OutcomeDTO is returned after an answer round trip: either the next
// question or the completed summary.
type OutcomeDTO struct {
	SessionID string    `json:"session_id"`
	Complete  bool      `json:"is_complete"`
	Question  *Question `json:"question,omitempty"`
	Summary   *Summary  `json:"summary,omitempty"`
}

// HistoryEntryDTO is the condensed archive listing item.
type HistoryEntryDTO struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	ProjectName string    `json:"project_name"`
	Questions   int       `json:"questions"`
}

// RenderedDocument is a finished export of the blueprint in one format.
type RenderedDocument struct {
	Filename    string
	ContentType string
	Data        []byte
}

type ResendResponse struct {
	Delivered bool   `json:"delivered"`
	Notice    string `json:"notice,omitempty"`
}
