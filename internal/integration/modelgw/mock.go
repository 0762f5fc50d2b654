package modelgw

import (
	"context"
	"fmt"
	"io"

	"github.com/HIMASAKTA-DEV/project-wizard/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector replays canned interview turns without touching the network.
// It asks a fixed follow-up question for the first few answers and then
// produces a completion, so the whole flow can be exercised offline.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) StreamCompletion(ctx context.Context, system string, turns []entity.Turn) (entity.CompletionStream, error) {
	ctxzap.Info(ctx, "[MOCK] streaming completion", zap.Int("turn_count", len(turns)))

	userTurns := 0
	for _, turn := range turns {
		if turn.Role == entity.TurnRoleUser {
			userTurns++
		}
	}

	var payload string
	if userTurns < 3 {
		payload = fmt.Sprintf(
			`{"question":{"id":"mock_q%d","type":"text","text":"Ceritakan lebih detail tentang fitur utama proyek Anda?","suggestion":"Misal: katalog produk dan keranjang belanja"},"isComplete":false}`,
			userTurns+1,
		)
	} else {
		payload = `{"isComplete":true,"summary":{"title":"Mock Project","pitch":"Blueprint yang dihasilkan oleh mock connector untuk pengujian lokal.","techStack":["Go","PostgreSQL"],"sprintPlan":[{"week":1,"tasks":["Setup project","Desain skema data"]}]}}`
	}

	return &mockStream{fragments: splitFragments(payload, 16)}, nil
}

// splitFragments chops the payload into small pieces so consumers see a
// realistic multi-fragment stream rather than one blob.
func splitFragments(payload string, size int) []string {
	var fragments []string
	for len(payload) > size {
		fragments = append(fragments, payload[:size])
		payload = payload[size:]
	}
	if payload != "" {
		fragments = append(fragments, payload)
	}
	return fragments
}

type mockStream struct {
	fragments []string
	pos       int
}

func (s *mockStream) Recv() (string, error) {
	if s.pos >= len(s.fragments) {
		return "", io.EOF
	}
	fragment := s.fragments[s.pos]
	s.pos++
	return fragment, nil
}

func (s *mockStream) Close() error {
	s.pos = len(s.fragments)
	return nil
}
