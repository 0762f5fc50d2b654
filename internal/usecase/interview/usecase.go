package interview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/HIMASAKTA-DEV/project-wizard/internal/config"
	"github.com/HIMASAKTA-DEV/project-wizard/internal/entity"
	"github.com/HIMASAKTA-DEV/project-wizard/internal/pkg/formatter"
	"github.com/HIMASAKTA-DEV/project-wizard/internal/pkg/logger"
	"github.com/HIMASAKTA-DEV/project-wizard/internal/pkg/reconcile"
	"github.com/HIMASAKTA-DEV/project-wizard/internal/pkg/sessionid"
	"github.com/HIMASAKTA-DEV/project-wizard/internal/repository"
)

const (
	renderCacheTTL     = 10 * time.Minute
	renderCacheCleanup = 15 * time.Minute
	deliveryTimeout    = 30 * time.Second
)

// Usecase owns the single active interview: its transcript, answer map
// and lifecycle. All state transitions go through the mutex; the epoch
// counter lets Reset abandon a stream that is still being consumed.
type Usecase struct {
	cfg      config.InterviewConfig
	gateway  ModelGateway
	archive  repository.HistoryArchive
	delivery Delivery
	formats  *formatter.Factory
	renders  *cache.Cache
	logger   *zap.Logger

	mu        sync.Mutex
	interview *entity.Interview
	inFlight  bool
	epoch     uint64
}

func NewUsecase(
	cfg config.InterviewConfig,
	gateway ModelGateway,
	archive repository.HistoryArchive,
	delivery Delivery,
	formats *formatter.Factory,
	logger *zap.Logger,
) *Usecase {
	return &Usecase{
		cfg:       cfg,
		gateway:   gateway,
		archive:   archive,
		delivery:  delivery,
		formats:   formats,
		renders:   cache.New(renderCacheTTL, renderCacheCleanup),
		logger:    logger,
		interview: freshInterview(sessionid.Mint()),
	}
}

// Restore replays the persisted session identity so a restarted server
// keeps the token its history was recorded under. A blank archive gets
// the freshly minted identity persisted instead.
func (u *Usecase) Restore(ctx context.Context) error {
	sid, err := u.archive.LoadSessionID(ctx)
	if err != nil {
		return fmt.Errorf("load session id: %w", err)
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	if sid == "" {
		return u.archive.SaveSessionID(ctx, u.interview.SessionID)
	}
	u.interview.SessionID = sid
	return nil
}

// Start moves a fresh wizard into the interviewing state. Calling it
// again while an interview is running just reports the current state.
func (u *Usecase) Start(ctx context.Context) *entity.Interview {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.interview.Status == entity.InterviewStatusNotStarted {
		u.interview.Status = entity.InterviewStatusInterviewing
		ctxzap.Extract(ctx).Info("interview started",
			zap.String("session_id", u.interview.SessionID))
	}
	return snapshot(u.interview)
}

func (u *Usecase) Get(_ context.Context) *entity.Interview {
	u.mu.Lock()
	defer u.mu.Unlock()
	return snapshot(u.interview)
}

// SubmitAnswer records the user's answer, runs one model round trip and
// applies the reconciled outcome. onFragment, when non-nil, receives
// each raw model fragment as it arrives. The user turn is appended
// before the gateway is called and is not rolled back on failure, so
// resubmitting after an error duplicates it in the transcript.
func (u *Usecase) SubmitAnswer(ctx context.Context, req *entity.SubmitAnswerRequest, onFragment func(string)) (*entity.ReconciledOutcome, error) {
	u.mu.Lock()
	if u.interview.Status != entity.InterviewStatusInterviewing {
		u.mu.Unlock()
		return nil, entity.ErrInterviewNotActive
	}
	if u.inFlight {
		u.mu.Unlock()
		return nil, entity.ErrAnswerInFlight
	}
	question := u.interview.CurrentQuestion()
	if question == nil {
		u.mu.Unlock()
		return nil, entity.ErrNoQuestionPending
	}
	if req.ForceFinish && u.interview.AssistantTurnCount() < u.cfg.ForceFinishMinQuestions {
		u.mu.Unlock()
		return nil, entity.ErrForceFinishTooEarly
	}

	answer := req.Answer
	if req.ForceFinish {
		answer = forceFinishDirective
	}
	if answer == "" {
		u.mu.Unlock()
		return nil, fmt.Errorf("%w: answer", entity.ErrMissingField)
	}

	u.interview.Transcript = append(u.interview.Transcript, entity.Turn{
		Role:      entity.TurnRoleUser,
		Content:   answer,
		Timestamp: time.Now(),
	})
	u.interview.Answers[question.ID] = answer

	u.inFlight = true
	epoch := u.epoch
	sessionID := u.interview.SessionID
	transcript := make([]entity.Turn, len(u.interview.Transcript))
	copy(transcript, u.interview.Transcript)
	u.mu.Unlock()

	ctx = logger.WithSession(ctx, sessionID)
	log := ctxzap.Extract(ctx)

	u.notify(fmt.Sprintf("[%s] User Answered: **%s**\nAnswer: ```%s```",
		sessionID, question.Text, answer))

	stream, err := u.gateway.StreamCompletion(ctx, systemPrompt, transcript)
	if err != nil {
		u.settle(epoch)
		return nil, err
	}
	defer stream.Close()

	raw, err := reconcile.Consume(stream, onFragment)
	if err != nil {
		u.settle(epoch)
		if errors.Is(err, entity.ErrTransportInterrupted) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", entity.ErrTransportInterrupted, err)
	}

	outcome := reconcile.Reconcile(raw)

	u.mu.Lock()
	if epoch != u.epoch {
		u.mu.Unlock()
		log.Warn("discarding model outcome after reset")
		return nil, entity.ErrInterviewReset
	}
	u.inFlight = false

	if !outcome.Complete {
		u.interview.Transcript = append(u.interview.Transcript, entity.Turn{
			Role:      entity.TurnRoleAssistant,
			Content:   outcome.Question.Text,
			Question:  outcome.Question,
			Timestamp: time.Now(),
		})
		u.mu.Unlock()
		return &outcome, nil
	}

	u.interview.Status = entity.InterviewStatusCompleted
	u.interview.Summary = outcome.Summary
	entry := buildHistoryEntry(u.interview)
	summary := u.interview.Summary
	u.mu.Unlock()

	if err := u.archive.Append(ctx, entry); err != nil {
		log.Error("archive append failed", zap.Error(err),
			zap.String("entry_id", entry.ID))
	}
	log.Info("interview completed",
		zap.String("project_name", entry.ProjectName))

	go u.autoDeliver(sessionID, summary)

	return &outcome, nil
}

// Reset discards the running interview and mints a new session identity.
// Any stream still in flight keeps draining but its outcome is dropped.
func (u *Usecase) Reset(ctx context.Context) (*entity.Interview, error) {
	u.mu.Lock()
	u.epoch++
	u.inFlight = false
	u.interview = freshInterview(sessionid.Mint())
	u.interview.Status = entity.InterviewStatusInterviewing
	iv := snapshot(u.interview)
	u.mu.Unlock()

	u.renders.Flush()

	if err := u.archive.SaveSessionID(ctx, iv.SessionID); err != nil {
		return nil, fmt.Errorf("persist session id: %w", err)
	}
	ctxzap.Extract(ctx).Info("interview reset",
		zap.String("session_id", iv.SessionID))
	return iv, nil
}

// LoadEntry restores an archived interview into the completed state so
// its blueprint can be viewed and re-rendered. The live transcript is
// replaced, not merged.
func (u *Usecase) LoadEntry(ctx context.Context, id string) (*entity.Interview, error) {
	entry, err := u.archive.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	u.mu.Lock()
	u.epoch++
	u.inFlight = false
	u.interview = &entity.Interview{
		SessionID: u.interview.SessionID,
		Status:    entity.InterviewStatusCompleted,
		Summary:   entry.Summary,
		Answers:   cloneAnswers(entry.Answers),
	}
	iv := snapshot(u.interview)
	u.mu.Unlock()

	u.renders.Flush()
	return iv, nil
}

func (u *Usecase) History(ctx context.Context) ([]entity.HistoryEntry, error) {
	return u.archive.List(ctx)
}

func (u *Usecase) HistoryEntry(ctx context.Context, id string) (*entity.HistoryEntry, error) {
	return u.archive.Get(ctx, id)
}

// settle clears the in-flight gate unless a reset already superseded
// this round trip.
func (u *Usecase) settle(epoch uint64) {
	u.mu.Lock()
	if epoch == u.epoch {
		u.inFlight = false
	}
	u.mu.Unlock()
}

// notify pushes a status line to the delivery sink without blocking the
// interview. Failures are logged and swallowed.
func (u *Usecase) notify(content string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
		defer cancel()
		if err := u.delivery.SendMessage(ctx, content); err != nil {
			u.logger.Warn("delivery notification failed", zap.Error(err))
		}
	}()
}

// autoDeliver renders the finished blueprint as a PDF and ships it to
// the delivery sink. Runs detached from the submitting request.
func (u *Usecase) autoDeliver(sessionID string, summary *entity.Summary) {
	ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
	defer cancel()

	doc, err := u.render(entity.FormatPDF, summary, sessionID)
	if err != nil {
		u.logger.Error("auto delivery render failed", zap.Error(err),
			zap.String("session_id", sessionID))
		return
	}

	content := fmt.Sprintf("✅ **[%s] LAPORAN OTOMATIS BERHASIL DIBUAT!**\nJudul: %s\n\nLaporan ini telah dikirim secara otomatis.",
		sessionID, summaryTitle(summary))
	if err := u.delivery.SendFile(ctx, doc.Filename, doc.Data, content); err != nil {
		u.logger.Error("auto delivery failed", zap.Error(err),
			zap.String("session_id", sessionID))
		return
	}
	u.logger.Info("blueprint delivered",
		zap.String("session_id", sessionID),
		zap.String("filename", doc.Filename))
}
