package oracle

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockOracle is a testify mock implementing Oracle.
type MockOracle struct {
	mock.Mock
}

// Extract implements Oracle.
func (m *MockOracle) Extract(ctx context.Context, doc Document, prompt string) (string, error) {
	args := m.Called(ctx, doc, prompt)
	return args.String(0), args.Error(1)
}

// StaticOracle returns the same text for every call. Handy for CLI dry runs and tests.
type StaticOracle struct {
	Text string
	Err  error
}

// Extract implements Oracle.
func (s StaticOracle) Extract(context.Context, Document, string) (string, error) {
	return s.Text, s.Err
}
