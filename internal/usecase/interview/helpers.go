package interview

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/HIMASAKTA-DEV/project-wizard/internal/entity"
)

const (
	bootstrapQuestionID = "project_name"
	untitledProject     = "Untitled Project"
)

// bootstrapTurn is the fixed opening turn every interview starts from.
func bootstrapTurn() entity.Turn {
	return entity.Turn{
		Role:    entity.TurnRoleAssistant,
		Content: "Selamat datang di ProjectWizard. Mari kita bangun visi Anda. Apa nama atau ide utama proyek Anda?",
		Question: &entity.Question{
			ID:         bootstrapQuestionID,
			Type:       entity.QuestionTypeText,
			Text:       "Mari kita mulai dengan nama. Apa yang sedang kita bangun?",
			Suggestion: "Misal: Aplikasi E-commerce untuk UMKM",
		},
		Timestamp: time.Now(),
	}
}

func freshInterview(sessionID string) *entity.Interview {
	return &entity.Interview{
		SessionID:  sessionID,
		Status:     entity.InterviewStatusNotStarted,
		Transcript: []entity.Turn{bootstrapTurn()},
		Answers:    map[string]string{},
	}
}

// snapshot copies the interview so callers can read it after the mutex
// is released. Turns and answers are duplicated; the summary is shared
// because it is never mutated after completion.
func snapshot(iv *entity.Interview) *entity.Interview {
	out := &entity.Interview{
		SessionID: iv.SessionID,
		Status:    iv.Status,
		Summary:   iv.Summary,
		Answers:   cloneAnswers(iv.Answers),
	}
	if iv.Transcript != nil {
		out.Transcript = make([]entity.Turn, len(iv.Transcript))
		copy(out.Transcript, iv.Transcript)
	}
	return out
}

func cloneAnswers(answers map[string]string) map[string]string {
	out := make(map[string]string, len(answers))
	for k, v := range answers {
		out[k] = v
	}
	return out
}

// buildHistoryEntry derives the archived record from a completed
// interview: question/answer pairs are taken from adjacent
// assistant-then-user turns in the transcript.
func buildHistoryEntry(iv *entity.Interview) entity.HistoryEntry {
	var qa []entity.QA
	for i, turn := range iv.Transcript {
		if turn.Role != entity.TurnRoleAssistant || turn.Question == nil {
			continue
		}
		if i+1 >= len(iv.Transcript) || iv.Transcript[i+1].Role != entity.TurnRoleUser {
			continue
		}
		qa = append(qa, entity.QA{Q: turn.Content, A: iv.Transcript[i+1].Content})
	}

	projectName := iv.Answers[bootstrapQuestionID]
	if projectName == "" {
		projectName = untitledProject
	}

	return entity.HistoryEntry{
		ID:          uuid.NewString(),
		Timestamp:   time.Now(),
		ProjectName: projectName,
		QA:          qa,
		Summary:     iv.Summary,
		Answers:     cloneAnswers(iv.Answers),
	}
}

func summaryTitle(summary *entity.Summary) string {
	if summary == nil || summary.Title == "" {
		return untitledProject
	}
	return summary.Title
}

// blueprintFilename turns a project title into a download name, e.g.
// "Toko Kue Online" -> "Toko_Kue_Online_Blueprint.pdf".
func blueprintFilename(title, ext string) string {
	return strings.Join(strings.Fields(title), "_") + "_Blueprint" + ext
}
