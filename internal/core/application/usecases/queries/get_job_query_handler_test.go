package queries_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/candidate"
	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/clock"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type MockJobReader struct{ mock.Mock }

func (m *MockJobReader) Get(ctx context.Context, id kernel.UUID) (*job.Job, error) {
	args := m.Called(ctx, id)
	j, _ := args.Get(0).(*job.Job)
	return j, args.Error(1)
}

func (m *MockJobReader) FindByActiveCode(ctx context.Context, code string, at time.Time) (*job.Job, error) {
	args := m.Called(ctx, code, at)
	j, _ := args.Get(0).(*job.Job)
	return j, args.Error(1)
}

func acceptedJob(t *testing.T) (*job.Job, candidate.Candidate) {
	t.Helper()
	req, err := job.NewRequirements(job.Ride, "north", "car", "sedan")
	require.NoError(t, err)
	j, err := job.NewJob(kernel.NewUUID(), job.Ride, req, job.Route{Pickup: "1 Main St", Dropoff: "2 Side St"}, now)
	require.NoError(t, err)

	addr, err := kernel.NewContactAddress("+1 (555) 010-0")
	require.NoError(t, err)
	driver, err := candidate.NewCandidate(kernel.NewUUID(), addr, "Ann", "north", candidate.Class{Category: "car"})
	require.NoError(t, err)
	require.NoError(t, j.Accept(driver, now))
	return j, driver
}

func TestGetJobQueryHandler_Handle(t *testing.T) {
	ctx := t.Context()

	t.Run("should map the job and its assignee", func(t *testing.T) {
		j, driver := acceptedJob(t)
		pos, err := kernel.NewPosition(52.5, 13.4, now.Add(time.Minute))
		require.NoError(t, err)
		require.NoError(t, j.ReportPosition(driver.Contact(), pos))

		reader := new(MockJobReader)
		reader.On("Get", ctx, j.ID()).Return(j, nil).Once()
		query, err := queries.NewGetJobQuery(j.ID())
		require.NoError(t, err)

		resp, err := queries.NewGetJobQueryHandler(reader).Handle(ctx, query)

		require.NoError(t, err)
		assert.Equal(t, "ACCEPTED", resp.Status)
		assert.Equal(t, "RIDE", resp.Kind)
		assert.Equal(t, "sedan", resp.VehicleClass)
		require.NotNil(t, resp.Assignee)
		assert.Equal(t, "Ann", resp.Assignee.DisplayName)
		assert.Equal(t, "+15550100", resp.Assignee.Contact)
		require.NotNil(t, resp.Position)
		assert.InDelta(t, 13.4, resp.Position.Lon, 1e-9)
		assert.Nil(t, resp.CodeExpiresAt)
		reader.AssertExpectations(t)
	})

	t.Run("should pass not found through", func(t *testing.T) {
		id := kernel.NewUUID()
		reader := new(MockJobReader)
		reader.On("Get", ctx, id).Return(nil, errs.NewObjectNotFoundError("job", id.String())).Once()
		query, _ := queries.NewGetJobQuery(id)

		_, err := queries.NewGetJobQueryHandler(reader).Handle(ctx, query)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("should reject an unconstructed query", func(t *testing.T) {
		_, err := queries.NewGetJobQueryHandler(new(MockJobReader)).Handle(ctx, queries.GetJobQuery{})

		require.ErrorIs(t, err, queries.ErrGetJobQueryIsNotConstructed)
	})
}

func TestVerifyCodeQueryHandler_Handle(t *testing.T) {
	ctx := t.Context()
	clk := clock.NewManual(now)

	t.Run("should resolve the code at the current time", func(t *testing.T) {
		j, _ := acceptedJob(t)
		code, err := job.NewPickupCode("004217", now.Add(2*time.Hour))
		require.NoError(t, err)
		require.NoError(t, j.IssueCode(code, now))

		reader := new(MockJobReader)
		reader.On("FindByActiveCode", ctx, "004217", now).Return(j, nil).Once()
		query, err := queries.NewVerifyCodeQuery(" 004217 ")
		require.NoError(t, err)

		resp, err := queries.NewVerifyCodeQueryHandler(reader, clk).Handle(ctx, query)

		require.NoError(t, err)
		assert.Equal(t, "PICKING_UP", resp.Status)
		require.NotNil(t, resp.CodeExpiresAt)
		assert.Equal(t, now.Add(2*time.Hour), *resp.CodeExpiresAt)
		reader.AssertExpectations(t)
	})

	t.Run("should report unknown codes as not found", func(t *testing.T) {
		reader := new(MockJobReader)
		reader.On("FindByActiveCode", ctx, "999999", now).
			Return(nil, errs.NewObjectNotFoundError("code", "active pickup code")).Once()
		query, _ := queries.NewVerifyCodeQuery("999999")

		_, err := queries.NewVerifyCodeQueryHandler(reader, clk).Handle(ctx, query)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}
