package validator

import (
	"fmt"

	"github.com/HIMASAKTA-DEV/project-wizard/internal/config"
	"github.com/HIMASAKTA-DEV/project-wizard/internal/entity"
)

// Validator validates inbound interview requests
type Validator struct {
	cfg config.InterviewConfig
}

func NewInterviewValidator(cfg config.InterviewConfig) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateSubmitAnswer validates answer submission. A force-finish
// request may omit the answer because a fixed directive replaces it.
func (v *Validator) ValidateSubmitAnswer(req *entity.SubmitAnswerRequest) error {
	if !req.ForceFinish && req.Answer == "" {
		return fmt.Errorf("%w: answer", entity.ErrMissingField)
	}

	if len(req.Answer) > v.cfg.MaxAnswerLength {
		return fmt.Errorf("%w: answer is %d bytes (max %d)", entity.ErrAnswerTooLong, len(req.Answer), v.cfg.MaxAnswerLength)
	}

	return nil
}

// ValidateFormat validates the export format path parameter.
func (v *Validator) ValidateFormat(format string) (entity.ResultFormat, error) {
	f := entity.ResultFormat(format)
	if err := f.Validate(); err != nil {
		return "", err
	}
	return f, nil
}
