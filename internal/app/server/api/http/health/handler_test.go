package health

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"babytracker/internal/utils/logger"
)

type MockChecker struct {
	mock.Mock
}

func (m *MockChecker) Health(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func TestHandler_healthCheck(t *testing.T) {
	tests := []struct {
		name       string
		storage    string
		err        error
		wantOK     bool
		wantStatus int
	}{
		{
			name:       "storage reachable",
			storage:    "postgres",
			wantOK:     true,
			wantStatus: http.StatusOK,
		},
		{
			name:       "storage down",
			storage:    "postgres",
			err:        errors.New("connection refused"),
			wantOK:     false,
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			checker := new(MockChecker)
			checker.On("Health", mock.Anything).Return(tt.storage, tt.err)
			handler := NewHandler(checker, logger.Discard(), huma.Middlewares{})

			// Act
			output, err := handler.healthCheck(context.Background(), &Input{})

			// Assert
			assert.NoError(t, err)
			assert.Equal(t, tt.wantStatus, output.Status)
			assert.Equal(t, tt.wantOK, output.Body.OK)
			assert.Equal(t, tt.storage, output.Body.Storage)
			checker.AssertExpectations(t)
		})
	}
}
