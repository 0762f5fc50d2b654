package entity

import (
	"time"
)

// InterviewStatus represents the current state of the interview workflow
type InterviewStatus string

const (
	InterviewStatusNotStarted   InterviewStatus = "NOT_STARTED"  // Session minted, bootstrap question not shown yet
	InterviewStatusInterviewing InterviewStatus = "INTERVIEWING" // Questions are being asked and answered
	InterviewStatusCompleted    InterviewStatus = "COMPLETED"    // Summary produced, transcript frozen
)

type TurnRole string

const (
	TurnRoleAssistant TurnRole = "assistant"
	TurnRoleUser      TurnRole = "user"
)

// QuestionType is the input modality the client should render for a question.
type QuestionType string

const (
	QuestionTypeText   QuestionType = "text"
	QuestionTypeChoice QuestionType = "choice"
)

// QuestionOption is one selectable answer for a choice question.
type QuestionOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Question is a structured prompt posed by an assistant turn. The JSON field
// names are the wire contract with the model (see the system prompt).
type Question struct {
	ID         string           `json:"id"`
	Type       QuestionType     `json:"type"`
	Text       string           `json:"text"`
	Suggestion string           `json:"suggestion,omitempty"`
	Options    []QuestionOption `json:"options,omitempty"`
}

// Turn is one message in the interview transcript. Assistant turns that pose
// a question carry it alongside the display content.
type Turn struct {
	Role      TurnRole  `json:"role"`
	Content   string    `json:"content"`
	Question  *Question `json:"question,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ReconciledOutcome is the decoded result of one model response: either the
// next question to pose or the completed blueprint.
type ReconciledOutcome struct {
	Complete bool      `json:"isComplete"`
	Question *Question `json:"question,omitempty"`
	Summary  *Summary  `json:"summary,omitempty"`
}

// Summary is the completed project blueprint. No field is required; every
// consumer must degrade gracefully on absent sections.
type Summary struct {
	Title           string           `json:"title"`
	Pitch           string           `json:"pitch"`
	Objectives      []string         `json:"objectives,omitempty"`
	TechnicalDetail *TechnicalDetail `json:"technicalDetail,omitempty"`
	TechStack       []string         `json:"techStack,omitempty"`
	SprintPlan      []SprintWeek     `json:"sprintPlan,omitempty"`
}

// TechnicalDetail is the three-way division breakdown of the blueprint.
type TechnicalDetail struct {
	UIUX *DesignDetail   `json:"uiux,omitempty"`
	BE   *BackendDetail  `json:"be,omitempty"`
	FE   *FrontendDetail `json:"fe,omitempty"`
}

type DesignDetail struct {
	Assets      []string `json:"assets,omitempty"`
	Philosophy  string   `json:"philosophy,omitempty"`
	TargetUsers string   `json:"targetUsers,omitempty"`
}

type BackendDetail struct {
	Routes      []APIRoute `json:"routes,omitempty"`
	AuthSystem  string     `json:"authSystem,omitempty"`
	RequestFlow string     `json:"requestFlow,omitempty"`
	APIFeatures []string   `json:"apiFeatures,omitempty"`
}

type APIRoute struct {
	Path     string `json:"path"`
	Method   string `json:"method"`
	Response string `json:"response,omitempty"`
}

type FrontendDetail struct {
	PageFlow    string       `json:"pageFlow,omitempty"`
	PageDetails []PageDetail `json:"pageDetails,omitempty"`
	UIFeatures  []string     `json:"uiFeatures,omitempty"`
}

type PageDetail struct {
	Page    string   `json:"page"`
	Content []string `json:"content,omitempty"`
}

type SprintWeek struct {
	Week  int      `json:"week"`
	Tasks []string `json:"tasks"`
}

// QA is one condensed question/answer pair of a completed interview.
type QA struct {
	Q string `json:"q"`
	A string `json:"a"`
}

// HistoryEntry is the archived record of one completed interview.
type HistoryEntry struct {
	ID          string            `json:"id"`
	Timestamp   time.Time         `json:"timestamp"`
	ProjectName string            `json:"projectName"`
	QA          []QA              `json:"qa"`
	Summary     *Summary          `json:"summary,omitempty"`
	Answers     map[string]string `json:"answers"`
}

// Interview is the full mutable state of the active interview. It is owned
// exclusively by the interview usecase; the archive only ever receives copies.
type Interview struct {
	SessionID  string            `json:"session_id"`
	Status     InterviewStatus   `json:"status"`
	Transcript []Turn            `json:"transcript"`
	Answers    map[string]string `json:"answers"`
	Summary    *Summary          `json:"summary,omitempty"`
}

// CurrentQuestion returns the question of the latest assistant turn, or nil
// when the transcript holds none (empty or completed interview).
func (iv *Interview) CurrentQuestion() *Question {
	for i := len(iv.Transcript) - 1; i >= 0; i-- {
		turn := iv.Transcript[i]
		if turn.Role == TurnRoleAssistant && turn.Question != nil {
			return turn.Question
		}
	}
	return nil
}

// AssistantTurnCount counts the assistant turns in the transcript. Every
// non-terminal assistant turn carries a question, so this is the number of
// questions posed; forced completion is gated on it.
func (iv *Interview) AssistantTurnCount() int {
	n := 0
	for _, turn := range iv.Transcript {
		if turn.Role == TurnRoleAssistant {
			n++
		}
	}
	return n
}

// ResultFormat selects the document renderer for the completed blueprint.
type ResultFormat string

const (
	FormatMarkdown ResultFormat = "markdown"
	FormatPDF      ResultFormat = "pdf"
	FormatDOCX     ResultFormat = "docx"
)

func (rf ResultFormat) Validate() error {
	switch rf {
	case FormatMarkdown, FormatPDF, FormatDOCX:
		return nil
	default:
		return ErrUnsupportedFormat
	}
}
