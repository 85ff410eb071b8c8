package background

import (
	"context"
	"errors"
	"testing"
	"time"

	"invoicedash/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSummaryRefresher struct {
	mock.Mock
}

func (m *MockSummaryRefresher) Refresh(ctx context.Context) (*models.CardData, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CardData), args.Error(1)
}

func TestJobScheduler_RegistersSummaryJob(t *testing.T) {
	js, err := NewJobScheduler(&MockSummaryRefresher{}, time.Hour, nil)
	require.NoError(t, err)
	defer js.Stop()

	status := js.GetJobStatus()

	assert.Equal(t, 1, status["total_jobs"])
	jobs := status["jobs"].([]JobStatus)
	assert.Equal(t, SummaryRefreshJob, jobs[0].Name)
}

func TestJobScheduler_RefreshSummary(t *testing.T) {
	refresher := &MockSummaryRefresher{}
	js, err := NewJobScheduler(refresher, time.Hour, nil)
	require.NoError(t, err)
	defer js.Stop()
	ctx := context.Background()

	refresher.On("Refresh", ctx).Return(&models.CardData{NumberOfInvoices: 3}, nil).Once()
	refresher.On("Refresh", ctx).Return(nil, errors.New("db down")).Once()

	assert.NoError(t, js.refreshSummary(ctx))
	assert.Error(t, js.refreshSummary(ctx))
	refresher.AssertExpectations(t)
}
