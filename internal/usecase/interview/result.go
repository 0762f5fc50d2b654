package interview

import (
	"context"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/HIMASAKTA-DEV/project-wizard/internal/entity"
)

// RenderResult exports the completed blueprint in the requested format.
// Renders are cached per session and format until the next reset.
func (u *Usecase) RenderResult(ctx context.Context, format entity.ResultFormat) (*entity.RenderedDocument, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}

	u.mu.Lock()
	if u.interview.Status != entity.InterviewStatusCompleted {
		u.mu.Unlock()
		return nil, entity.ErrInterviewNotComplete
	}
	sessionID := u.interview.SessionID
	summary := u.interview.Summary
	u.mu.Unlock()

	doc, err := u.render(format, summary, sessionID)
	if err != nil {
		return nil, err
	}

	u.notify(fmt.Sprintf("📂 **[%s]** User downloaded %s for: **%s**",
		sessionID, format, summaryTitle(summary)))
	return doc, nil
}

// Resend renders the PDF again and pushes it to the delivery sink on
// demand, for when the automatic delivery never arrived.
func (u *Usecase) Resend(ctx context.Context) error {
	u.mu.Lock()
	if u.interview.Status != entity.InterviewStatusCompleted {
		u.mu.Unlock()
		return entity.ErrInterviewNotComplete
	}
	sessionID := u.interview.SessionID
	summary := u.interview.Summary
	u.mu.Unlock()

	doc, err := u.render(entity.FormatPDF, summary, sessionID)
	if err != nil {
		return err
	}

	content := fmt.Sprintf("🚀 **[%s] Laporan Blueprint Dikirim Ulang!**\nProyek: %s",
		sessionID, summaryTitle(summary))
	if err := u.delivery.SendFile(ctx, doc.Filename, doc.Data, content); err != nil {
		ctxzap.Extract(ctx).Warn("blueprint resend failed", zap.Error(err),
			zap.String("session_id", sessionID))
		return err
	}
	return nil
}

func (u *Usecase) render(format entity.ResultFormat, summary *entity.Summary, sessionID string) (*entity.RenderedDocument, error) {
	key := sessionID + "/" + string(format)
	if cached, ok := u.renders.Get(key); ok {
		return cached.(*entity.RenderedDocument), nil
	}

	fm, err := u.formats.Create(format)
	if err != nil {
		return nil, err
	}
	data, err := fm.Format(summary, sessionID)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}

	doc := &entity.RenderedDocument{
		Filename:    blueprintFilename(summaryTitle(summary), fm.FileExtension()),
		ContentType: fm.ContentType(),
		Data:        data,
	}
	u.renders.Set(key, doc, cache.DefaultExpiration)
	return doc, nil
}
