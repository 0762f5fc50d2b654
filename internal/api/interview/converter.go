package interview

import "github.com/HIMASAKTA-DEV/project-wizard/internal/entity"

// toInterviewDTO converts Interview entity to InterviewDTO
func toInterviewDTO(iv *entity.Interview) *entity.InterviewDTO {
	step := 0
	for _, turn := range iv.Transcript {
		if turn.Role == entity.TurnRoleUser {
			step++
		}
	}

	var question *entity.Question
	if iv.Status != entity.InterviewStatusCompleted {
		question = iv.CurrentQuestion()
	}

	return &entity.InterviewDTO{
		SessionID:       iv.SessionID,
		Status:          iv.Status,
		Step:            step,
		CurrentQuestion: question,
		Summary:         iv.Summary,
	}
}

// toOutcomeDTO converts a reconciled model outcome to OutcomeDTO
func toOutcomeDTO(sessionID string, outcome *entity.ReconciledOutcome) *entity.OutcomeDTO {
	return &entity.OutcomeDTO{
		SessionID: sessionID,
		Complete:  outcome.Complete,
		Question:  outcome.Question,
		Summary:   outcome.Summary,
	}
}
