package interview

import (
	"context"

	"github.com/HIMASAKTA-DEV/project-wizard/internal/entity"
)

type WizardUsecase interface {
	Start(ctx context.Context) *entity.Interview
	Get(ctx context.Context) *entity.Interview
	SubmitAnswer(ctx context.Context, req *entity.SubmitAnswerRequest, onFragment func(string)) (*entity.ReconciledOutcome, error)
	Reset(ctx context.Context) (*entity.Interview, error)
	LoadEntry(ctx context.Context, id string) (*entity.Interview, error)
	RenderResult(ctx context.Context, format entity.ResultFormat) (*entity.RenderedDocument, error)
	Resend(ctx context.Context) error
}
