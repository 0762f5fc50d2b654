package interview

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/HIMASAKTA-DEV/project-wizard/internal/config"
	"github.com/HIMASAKTA-DEV/project-wizard/internal/entity"
	"github.com/HIMASAKTA-DEV/project-wizard/internal/pkg/formatter"
)

type stubStream struct {
	fragments []string
	recvErr   error
	pos       int
}

func (s *stubStream) Recv() (string, error) {
	if s.pos >= len(s.fragments) {
		if s.recvErr != nil {
			return "", s.recvErr
		}
		return "", io.EOF
	}
	f := s.fragments[s.pos]
	s.pos++
	return f, nil
}

func (s *stubStream) Close() error { return nil }

type stubGateway struct {
	mu        sync.Mutex
	responses []string
	err       error
	streamErr error
	calls     [][]entity.Turn
}

func (g *stubGateway) StreamCompletion(_ context.Context, _ string, turns []entity.Turn) (entity.CompletionStream, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, turns)
	if g.err != nil {
		return nil, g.err
	}
	payload := g.responses[0]
	if len(g.responses) > 1 {
		g.responses = g.responses[1:]
	}
	return &stubStream{fragments: []string{payload}, recvErr: g.streamErr}, nil
}

type memArchive struct {
	mu        sync.Mutex
	entries   []entity.HistoryEntry
	sessionID string
	appendErr error
}

func (a *memArchive) Append(_ context.Context, entry entity.HistoryEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.appendErr != nil {
		return a.appendErr
	}
	a.entries = append([]entity.HistoryEntry{entry}, a.entries...)
	return nil
}

func (a *memArchive) List(_ context.Context) ([]entity.HistoryEntry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]entity.HistoryEntry(nil), a.entries...), nil
}

func (a *memArchive) Get(_ context.Context, id string) (*entity.HistoryEntry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.entries {
		if a.entries[i].ID == id {
			return &a.entries[i], nil
		}
	}
	return nil, entity.ErrEntryNotFound
}

func (a *memArchive) SaveSessionID(_ context.Context, sessionID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sessionID = sessionID
	return nil
}

func (a *memArchive) LoadSessionID(_ context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sessionID, nil
}

type recordingDelivery struct {
	mu       sync.Mutex
	messages []string
	files    []string
	sendErr  error
}

func (d *recordingDelivery) SendMessage(_ context.Context, content string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sendErr != nil {
		return d.sendErr
	}
	d.messages = append(d.messages, content)
	return nil
}

func (d *recordingDelivery) SendFile(_ context.Context, filename string, _ []byte, _ string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sendErr != nil {
		return d.sendErr
	}
	d.files = append(d.files, filename)
	return nil
}

func (d *recordingDelivery) fileCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.files)
}

const (
	ongoingPayload  = `{"isComplete":false,"question":{"id":"page_count","type":"text","text":"Berapa halaman yang dibutuhkan?"}}`
	completePayload = "```json\n{\"isComplete\":true,\"summary\":{\"title\":\"Toko Kue\",\"pitch\":\"Platform kue rumahan.\"}}\n```"
)

func testConfig() config.InterviewConfig {
	return config.InterviewConfig{ForceFinishMinQuestions: 5, MaxAnswerLength: 8192}
}

func newTestUsecase(gw ModelGateway, archive *memArchive, delivery *recordingDelivery) *Usecase {
	return NewUsecase(testConfig(), gw, archive, delivery, formatter.NewFactory(), zap.NewNop())
}

func answer(text string) *entity.SubmitAnswerRequest {
	return &entity.SubmitAnswerRequest{Answer: text}
}

func TestStart_TransitionsToInterviewing(t *testing.T) {
	uc := newTestUsecase(&stubGateway{}, &memArchive{}, &recordingDelivery{})

	iv := uc.Start(context.Background())

	assert.Equal(t, entity.InterviewStatusInterviewing, iv.Status)
	require.Len(t, iv.Transcript, 1)
	require.NotNil(t, iv.Transcript[0].Question)
	assert.Equal(t, "project_name", iv.Transcript[0].Question.ID)
}

func TestStart_Idempotent(t *testing.T) {
	uc := newTestUsecase(&stubGateway{}, &memArchive{}, &recordingDelivery{})

	first := uc.Start(context.Background())
	second := uc.Start(context.Background())

	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Len(t, second.Transcript, 1)
}

func TestSubmitAnswer_NotStarted(t *testing.T) {
	uc := newTestUsecase(&stubGateway{}, &memArchive{}, &recordingDelivery{})

	_, err := uc.SubmitAnswer(context.Background(), answer("Toko Kue Online"), nil)
	assert.ErrorIs(t, err, entity.ErrInterviewNotActive)
}

func TestSubmitAnswer_OngoingOutcome(t *testing.T) {
	gw := &stubGateway{responses: []string{ongoingPayload}}
	uc := newTestUsecase(gw, &memArchive{}, &recordingDelivery{})
	uc.Start(context.Background())

	outcome, err := uc.SubmitAnswer(context.Background(), answer("Toko Kue Online"), nil)
	require.NoError(t, err)

	assert.False(t, outcome.Complete)
	require.NotNil(t, outcome.Question)
	assert.Equal(t, "page_count", outcome.Question.ID)

	iv := uc.Get(context.Background())
	require.Len(t, iv.Transcript, 3)
	assert.Equal(t, entity.TurnRoleAssistant, iv.Transcript[0].Role)
	assert.Equal(t, entity.TurnRoleUser, iv.Transcript[1].Role)
	assert.Equal(t, entity.TurnRoleAssistant, iv.Transcript[2].Role)
	assert.Equal(t, map[string]string{"project_name": "Toko Kue Online"}, iv.Answers)
}

func TestSubmitAnswer_CompletionArchives(t *testing.T) {
	gw := &stubGateway{responses: []string{ongoingPayload, completePayload}}
	archive := &memArchive{}
	delivery := &recordingDelivery{}
	uc := newTestUsecase(gw, archive, delivery)
	uc.Start(context.Background())

	_, err := uc.SubmitAnswer(context.Background(), answer("Toko Kue Online"), nil)
	require.NoError(t, err)

	outcome, err := uc.SubmitAnswer(context.Background(), answer("5 halaman"), nil)
	require.NoError(t, err)

	assert.True(t, outcome.Complete)
	require.NotNil(t, outcome.Summary)
	assert.Equal(t, "Toko Kue", outcome.Summary.Title)

	iv := uc.Get(context.Background())
	assert.Equal(t, entity.InterviewStatusCompleted, iv.Status)

	entries, err := archive.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Toko Kue Online", entries[0].ProjectName)
	require.Len(t, entries[0].QA, 2)
	assert.Equal(t, "Toko Kue Online", entries[0].QA[0].A)

	// Automatic PDF delivery runs detached from the request.
	require.Eventually(t, func() bool {
		return delivery.fileCount() == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSubmitAnswer_GatewayFailureRecoverable(t *testing.T) {
	gw := &stubGateway{err: entity.ErrModelUnavailable}
	uc := newTestUsecase(gw, &memArchive{}, &recordingDelivery{})
	uc.Start(context.Background())

	_, err := uc.SubmitAnswer(context.Background(), answer("Toko Kue Online"), nil)
	assert.ErrorIs(t, err, entity.ErrModelUnavailable)

	// Interview stays active and accepts a resubmission; the optimistic
	// user turn is kept.
	iv := uc.Get(context.Background())
	assert.Equal(t, entity.InterviewStatusInterviewing, iv.Status)
	assert.Len(t, iv.Transcript, 2)

	gw.mu.Lock()
	gw.err = nil
	gw.responses = []string{ongoingPayload}
	gw.mu.Unlock()

	_, err = uc.SubmitAnswer(context.Background(), answer("Toko Kue Online"), nil)
	require.NoError(t, err)
}

func TestSubmitAnswer_TruncatedStreamRecoverable(t *testing.T) {
	gw := &stubGateway{
		responses: []string{`{"isComplete":true,"summ`},
		streamErr: entity.ErrTransportInterrupted,
	}
	uc := newTestUsecase(gw, &memArchive{}, &recordingDelivery{})
	uc.Start(context.Background())

	var fragments []string
	_, err := uc.SubmitAnswer(context.Background(), answer("Toko Kue Online"), func(f string) {
		fragments = append(fragments, f)
	})
	assert.ErrorIs(t, err, entity.ErrTransportInterrupted)
	assert.Equal(t, []string{`{"isComplete":true,"summ`}, fragments)

	// The partial payload is never reconciled: no assistant turn, no
	// completion, and the optimistic user turn stays for the retry.
	iv := uc.Get(context.Background())
	assert.Equal(t, entity.InterviewStatusInterviewing, iv.Status)
	assert.Len(t, iv.Transcript, 2)
	assert.Nil(t, iv.Summary)

	gw.mu.Lock()
	gw.streamErr = nil
	gw.responses = []string{ongoingPayload}
	gw.mu.Unlock()

	_, err = uc.SubmitAnswer(context.Background(), answer("Toko Kue Online"), nil)
	require.NoError(t, err)
}

func TestSubmitAnswer_RejectsWhileInFlight(t *testing.T) {
	release := make(chan struct{})
	gw := &blockingGateway{release: release, started: make(chan struct{})}
	uc := newTestUsecase(gw, &memArchive{}, &recordingDelivery{})
	uc.Start(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := uc.SubmitAnswer(context.Background(), answer("Toko Kue Online"), nil)
		done <- err
	}()

	gw.wait()

	_, err := uc.SubmitAnswer(context.Background(), answer("balapan"), nil)
	assert.ErrorIs(t, err, entity.ErrAnswerInFlight)

	close(release)
	require.NoError(t, <-done)
}

// blockingGateway parks the round trip until released so tests can
// observe the in-flight state.
type blockingGateway struct {
	release chan struct{}
	started chan struct{}
	once    sync.Once
}

func (g *blockingGateway) StreamCompletion(context.Context, string, []entity.Turn) (entity.CompletionStream, error) {
	g.once.Do(func() { close(g.started) })
	<-g.release
	return &stubStream{fragments: []string{ongoingPayload}}, nil
}

func (g *blockingGateway) wait() { <-g.started }

func TestSubmitAnswer_ForceFinishBelowThreshold(t *testing.T) {
	gw := &stubGateway{responses: []string{ongoingPayload}}
	uc := newTestUsecase(gw, &memArchive{}, &recordingDelivery{})
	uc.Start(context.Background())

	_, err := uc.SubmitAnswer(context.Background(), &entity.SubmitAnswerRequest{ForceFinish: true}, nil)
	assert.ErrorIs(t, err, entity.ErrForceFinishTooEarly)
}

func TestSubmitAnswer_ForceFinishAtThreshold(t *testing.T) {
	gw := &stubGateway{responses: []string{
		ongoingPayload, ongoingPayload, ongoingPayload, ongoingPayload, completePayload,
	}}
	uc := newTestUsecase(gw, &memArchive{}, &recordingDelivery{})
	uc.Start(context.Background())

	for i := 0; i < 4; i++ {
		_, err := uc.SubmitAnswer(context.Background(), answer("jawaban"), nil)
		require.NoError(t, err)
	}

	// 5 assistant questions on the transcript now, threshold reached.
	outcome, err := uc.SubmitAnswer(context.Background(), &entity.SubmitAnswerRequest{ForceFinish: true}, nil)
	require.NoError(t, err)
	assert.True(t, outcome.Complete)

	// The forced turn carries the conclude directive, not a user answer.
	gw.mu.Lock()
	lastCall := gw.calls[len(gw.calls)-1]
	gw.mu.Unlock()
	assert.Equal(t, forceFinishDirective, lastCall[len(lastCall)-1].Content)
}

func TestSubmitAnswer_EmptyAnswerRejected(t *testing.T) {
	uc := newTestUsecase(&stubGateway{}, &memArchive{}, &recordingDelivery{})
	uc.Start(context.Background())

	_, err := uc.SubmitAnswer(context.Background(), answer(""), nil)
	assert.ErrorIs(t, err, entity.ErrMissingField)
}

func TestReset_MintsNewSession(t *testing.T) {
	archive := &memArchive{}
	uc := newTestUsecase(&stubGateway{responses: []string{ongoingPayload}}, archive, &recordingDelivery{})

	first := uc.Start(context.Background())
	_, err := uc.SubmitAnswer(context.Background(), answer("Toko Kue Online"), nil)
	require.NoError(t, err)

	iv, err := uc.Reset(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first.SessionID, iv.SessionID)
	assert.Equal(t, entity.InterviewStatusInterviewing, iv.Status)
	require.Len(t, iv.Transcript, 1)
	assert.Empty(t, iv.Answers)
	assert.Equal(t, iv.SessionID, archive.sessionID)
}

func TestReset_AbandonsInFlightOutcome(t *testing.T) {
	release := make(chan struct{})
	gw := &blockingGateway{release: release, started: make(chan struct{})}
	uc := newTestUsecase(gw, &memArchive{}, &recordingDelivery{})
	uc.Start(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := uc.SubmitAnswer(context.Background(), answer("Toko Kue Online"), nil)
		done <- err
	}()

	gw.wait()

	_, err := uc.Reset(context.Background())
	require.NoError(t, err)

	close(release)
	assert.ErrorIs(t, <-done, entity.ErrInterviewReset)

	// The stale outcome never reached the fresh interview.
	iv := uc.Get(context.Background())
	assert.Len(t, iv.Transcript, 1)
}

func TestRestore_ReusesPersistedSession(t *testing.T) {
	archive := &memArchive{sessionID: "SESSION-PERSISTED"}
	uc := newTestUsecase(&stubGateway{}, archive, &recordingDelivery{})

	require.NoError(t, uc.Restore(context.Background()))
	assert.Equal(t, "SESSION-PERSISTED", uc.Get(context.Background()).SessionID)
}

func TestRestore_PersistsFreshSession(t *testing.T) {
	archive := &memArchive{}
	uc := newTestUsecase(&stubGateway{}, archive, &recordingDelivery{})

	require.NoError(t, uc.Restore(context.Background()))
	assert.Equal(t, uc.Get(context.Background()).SessionID, archive.sessionID)
}

func TestLoadEntry_RestoresCompletedState(t *testing.T) {
	archive := &memArchive{entries: []entity.HistoryEntry{{
		ID:          "e1",
		ProjectName: "Toko Kue Online",
		Summary:     &entity.Summary{Title: "Toko Kue"},
		Answers:     map[string]string{"project_name": "Toko Kue Online"},
	}}}
	uc := newTestUsecase(&stubGateway{}, archive, &recordingDelivery{})

	iv, err := uc.LoadEntry(context.Background(), "e1")
	require.NoError(t, err)

	assert.Equal(t, entity.InterviewStatusCompleted, iv.Status)
	require.NotNil(t, iv.Summary)
	assert.Equal(t, "Toko Kue", iv.Summary.Title)
	assert.Equal(t, "Toko Kue Online", iv.Answers["project_name"])
}

func TestLoadEntry_NotFound(t *testing.T) {
	uc := newTestUsecase(&stubGateway{}, &memArchive{}, &recordingDelivery{})

	_, err := uc.LoadEntry(context.Background(), "missing")
	assert.ErrorIs(t, err, entity.ErrEntryNotFound)
}

func TestRenderResult_RequiresCompletion(t *testing.T) {
	uc := newTestUsecase(&stubGateway{}, &memArchive{}, &recordingDelivery{})
	uc.Start(context.Background())

	_, err := uc.RenderResult(context.Background(), entity.FormatMarkdown)
	assert.ErrorIs(t, err, entity.ErrInterviewNotComplete)
}

func TestRenderResult_MarkdownAndCache(t *testing.T) {
	gw := &stubGateway{responses: []string{completePayload}}
	uc := newTestUsecase(gw, &memArchive{}, &recordingDelivery{})
	uc.Start(context.Background())

	_, err := uc.SubmitAnswer(context.Background(), answer("Toko Kue Online"), nil)
	require.NoError(t, err)

	doc, err := uc.RenderResult(context.Background(), entity.FormatMarkdown)
	require.NoError(t, err)

	assert.Equal(t, "Toko_Kue_Blueprint.md", doc.Filename)
	assert.Contains(t, string(doc.Data), "Toko Kue")

	again, err := uc.RenderResult(context.Background(), entity.FormatMarkdown)
	require.NoError(t, err)
	assert.Same(t, doc, again)
}

func TestRenderResult_UnsupportedFormat(t *testing.T) {
	uc := newTestUsecase(&stubGateway{}, &memArchive{}, &recordingDelivery{})

	_, err := uc.RenderResult(context.Background(), entity.ResultFormat("xlsx"))
	assert.ErrorIs(t, err, entity.ErrUnsupportedFormat)
}

func TestResend_DeliversPDF(t *testing.T) {
	gw := &stubGateway{responses: []string{completePayload}}
	delivery := &recordingDelivery{}
	uc := newTestUsecase(gw, &memArchive{}, delivery)
	uc.Start(context.Background())

	_, err := uc.SubmitAnswer(context.Background(), answer("Toko Kue Online"), nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return delivery.fileCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, uc.Resend(context.Background()))
	assert.Equal(t, 2, delivery.fileCount())
}

func TestResend_NotComplete(t *testing.T) {
	uc := newTestUsecase(&stubGateway{}, &memArchive{}, &recordingDelivery{})

	err := uc.Resend(context.Background())
	assert.ErrorIs(t, err, entity.ErrInterviewNotComplete)
}

func TestSubmitAnswer_ArchiveFailureDoesNotFailCompletion(t *testing.T) {
	gw := &stubGateway{responses: []string{completePayload}}
	archive := &memArchive{appendErr: errors.New("disk full")}
	uc := newTestUsecase(gw, archive, &recordingDelivery{})
	uc.Start(context.Background())

	outcome, err := uc.SubmitAnswer(context.Background(), answer("Toko Kue Online"), nil)
	require.NoError(t, err)
	assert.True(t, outcome.Complete)
	assert.Equal(t, entity.InterviewStatusCompleted, uc.Get(context.Background()).Status)
}
