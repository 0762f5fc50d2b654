package interview

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HIMASAKTA-DEV/project-wizard/internal/config"
	"github.com/HIMASAKTA-DEV/project-wizard/internal/entity"
	"github.com/HIMASAKTA-DEV/project-wizard/internal/pkg/validator"
)

type stubUsecase struct {
	interview *entity.Interview
	outcome   *entity.ReconciledOutcome
	submitErr error
	doc       *entity.RenderedDocument
	renderErr error
	resendErr error
	fragments []string
}

func (s *stubUsecase) Start(context.Context) *entity.Interview { return s.interview }

func (s *stubUsecase) Get(context.Context) *entity.Interview { return s.interview }

func (s *stubUsecase) SubmitAnswer(_ context.Context, _ *entity.SubmitAnswerRequest, onFragment func(string)) (*entity.ReconciledOutcome, error) {
	if s.submitErr != nil {
		return nil, s.submitErr
	}
	if onFragment != nil {
		for _, f := range s.fragments {
			onFragment(f)
		}
	}
	return s.outcome, nil
}

func (s *stubUsecase) Reset(context.Context) (*entity.Interview, error) { return s.interview, nil }

func (s *stubUsecase) LoadEntry(_ context.Context, id string) (*entity.Interview, error) {
	if id == "missing" {
		return nil, entity.ErrEntryNotFound
	}
	return s.interview, nil
}

func (s *stubUsecase) RenderResult(context.Context, entity.ResultFormat) (*entity.RenderedDocument, error) {
	if s.renderErr != nil {
		return nil, s.renderErr
	}
	return s.doc, nil
}

func (s *stubUsecase) Resend(context.Context) error { return s.resendErr }

func activeInterview() *entity.Interview {
	return &entity.Interview{
		SessionID: "SESSION-TEST12345",
		Status:    entity.InterviewStatusInterviewing,
		Transcript: []entity.Turn{{
			Role:    entity.TurnRoleAssistant,
			Content: "Apa namanya?",
			Question: &entity.Question{
				ID:   "project_name",
				Type: entity.QuestionTypeText,
				Text: "Apa namanya?",
			},
		}},
		Answers: map[string]string{},
	}
}

func newTestRouter(uc *stubUsecase) http.Handler {
	v := validator.NewInterviewValidator(config.InterviewConfig{
		ForceFinishMinQuestions: 5,
		MaxAnswerLength:         8192,
	})
	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(uc, v))
	return r
}

func TestStartEndpoint(t *testing.T) {
	router := newTestRouter(&stubUsecase{interview: activeInterview()})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/interview/start", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var dto entity.InterviewDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.Equal(t, "SESSION-TEST12345", dto.SessionID)
	assert.Equal(t, entity.InterviewStatusInterviewing, dto.Status)
	require.NotNil(t, dto.CurrentQuestion)
	assert.Equal(t, "project_name", dto.CurrentQuestion.ID)
}

func TestSubmitAnswerEndpoint_JSON(t *testing.T) {
	uc := &stubUsecase{
		interview: activeInterview(),
		outcome: &entity.ReconciledOutcome{
			Question: &entity.Question{ID: "page_count", Type: entity.QuestionTypeText, Text: "Berapa halaman?"},
		},
	}
	router := newTestRouter(uc)

	body := bytes.NewBufferString(`{"answer":"Toko Kue Online"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/interview/answer", body))

	require.Equal(t, http.StatusOK, rec.Code)

	var dto entity.OutcomeDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.False(t, dto.Complete)
	require.NotNil(t, dto.Question)
	assert.Equal(t, "page_count", dto.Question.ID)
}

func TestSubmitAnswerEndpoint_SSE(t *testing.T) {
	uc := &stubUsecase{
		interview: activeInterview(),
		fragments: []string{`{"isComplete":`, `false}`},
		outcome: &entity.ReconciledOutcome{
			Question: &entity.Question{ID: "q1", Type: entity.QuestionTypeText, Text: "Lanjut?"},
		},
	}
	router := newTestRouter(uc)

	req := httptest.NewRequest(http.MethodPost, "/interview/answer", bytes.NewBufferString(`{"answer":"jawaban"}`))
	req.Header.Set("Accept", "text/event-stream")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	out := rec.Body.String()
	assert.Contains(t, out, "event: delta\ndata: {\"isComplete\":\n")
	assert.Contains(t, out, "event: outcome\n")
	assert.Contains(t, out, `"q1"`)
}

func TestSubmitAnswerEndpoint_ValidationError(t *testing.T) {
	router := newTestRouter(&stubUsecase{interview: activeInterview()})

	body := bytes.NewBufferString(`{"answer":""}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/interview/answer", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitAnswerEndpoint_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"in flight", entity.ErrAnswerInFlight, http.StatusConflict},
		{"not active", entity.ErrInterviewNotActive, http.StatusConflict},
		{"force finish too early", entity.ErrForceFinishTooEarly, http.StatusUnprocessableEntity},
		{"model unavailable", entity.ErrModelUnavailable, http.StatusBadGateway},
		{"stream interrupted", entity.ErrTransportInterrupted, http.StatusBadGateway},
		{"credential missing", entity.ErrConfigurationMissing, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(&stubUsecase{interview: activeInterview(), submitErr: tc.err})

			body := bytes.NewBufferString(`{"answer":"jawaban"}`)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/interview/answer", body))

			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestRenderResultEndpoint(t *testing.T) {
	uc := &stubUsecase{
		interview: activeInterview(),
		doc: &entity.RenderedDocument{
			Filename:    "Toko_Kue_Blueprint.pdf",
			ContentType: "application/pdf",
			Data:        []byte("%PDF-fake"),
		},
	}
	router := newTestRouter(uc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/interview/result/pdf", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Toko_Kue_Blueprint.pdf")
	assert.Equal(t, "%PDF-fake", rec.Body.String())
}

func TestRenderResultEndpoint_InvalidFormat(t *testing.T) {
	router := newTestRouter(&stubUsecase{interview: activeInterview()})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/interview/result/xlsx", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRenderResultEndpoint_NotComplete(t *testing.T) {
	router := newTestRouter(&stubUsecase{interview: activeInterview(), renderErr: entity.ErrInterviewNotComplete})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/interview/result/pdf", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestResendEndpoint_DeliveryFailureIsNonFatal(t *testing.T) {
	router := newTestRouter(&stubUsecase{interview: activeInterview(), resendErr: entity.ErrDeliveryFailed})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/interview/resend", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp entity.ResendResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Delivered)
	assert.NotEmpty(t, resp.Notice)
}

func TestResendEndpoint_Success(t *testing.T) {
	router := newTestRouter(&stubUsecase{interview: activeInterview()})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/interview/resend", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp entity.ResendResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Delivered)
}

func TestLoadEntryEndpoint_NotFound(t *testing.T) {
	router := newTestRouter(&stubUsecase{interview: activeInterview()})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/interview/load/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
