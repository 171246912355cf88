package jobrepo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"dispatch/internal/adapters/out/postgres/cyclerepo"
	"dispatch/internal/adapters/out/postgres/jobrepo"
	"dispatch/internal/core/domain/model/candidate"
	"dispatch/internal/core/domain/model/cascade"
	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

type JobRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *jobrepo.GormJobRepository
	tracker    *MockAggregateTracker
}

func (suite *JobRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&jobrepo.JobDTO{}, &cyclerepo.CycleDTO{}))
}

func (suite *JobRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE jobs, cascade_cycles").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.repository = jobrepo.NewGormJobRepository(suite.db, suite.tracker)
}

func (suite *JobRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *JobRepositoryIntegrationTestSuite) TestAdd_TracksAndPersists() {
	ctx := context.Background()
	tracker := new(MockAggregateTracker)
	repository := jobrepo.NewGormJobRepository(suite.db, tracker)
	j := suite.newJob()
	tracker.On("TrackAggregate", j.ID(), j).Once()

	suite.Require().NoError(repository.Add(ctx, j))

	stored, err := repository.Get(ctx, j.ID())
	suite.Require().NoError(err)
	suite.True(stored.ID().IsEqual(j.ID()))
	suite.Equal(job.Pending, stored.Status())
	suite.Equal(job.Delivery, stored.Kind())
	suite.Equal("north", stored.Requirements().RegionID)
	suite.Equal("1 Main St", stored.Route().Pickup)
	suite.Equal(0, stored.Version())
	suite.Nil(stored.Assignee())
	suite.Nil(stored.Code())
	suite.Nil(stored.Position())
	tracker.AssertExpectations(suite.T())
}

func (suite *JobRepositoryIntegrationTestSuite) TestGet_NotFound() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	var notFound *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFound)
}

func (suite *JobRepositoryIntegrationTestSuite) TestUpdate_RoundTripsAssignedJob() {
	ctx := context.Background()
	j := suite.newJob()
	suite.Require().NoError(suite.repository.Add(ctx, j))

	driver := suite.newCandidate("+1 555 0100")
	suite.Require().NoError(j.Accept(driver, now.Add(time.Second)))
	code, err := job.NewPickupCode("012345", now.Add(2*time.Hour))
	suite.Require().NoError(err)
	suite.Require().NoError(j.IssueCode(code, now.Add(2*time.Second)))
	pos, err := kernel.NewPosition(52.52, 13.40, now.Add(3*time.Second))
	suite.Require().NoError(err)
	suite.Require().NoError(j.ReportPosition(driver.Contact(), pos))

	suite.Require().NoError(suite.repository.Update(ctx, j))
	suite.Equal(1, j.Version())

	stored, err := suite.repository.Get(ctx, j.ID())
	suite.Require().NoError(err)
	suite.Equal(job.PickingUp, stored.Status())
	suite.Equal(1, stored.Version())
	suite.Require().NotNil(stored.Assignee())
	suite.True(stored.Assignee().IsEqual(driver))
	suite.Equal([]string{"insulated"}, stored.Assignee().Class().Attributes)
	suite.Require().NotNil(stored.Code())
	suite.Equal("012345", stored.Code().Value())
	suite.Require().NotNil(stored.Position())
	suite.InDelta(13.40, stored.Position().Lon(), 1e-9)
	suite.Equal(now, stored.CreatedAt())
}

func (suite *JobRepositoryIntegrationTestSuite) TestUpdate_StaleVersionWritesNothing() {
	ctx := context.Background()
	j := suite.newJob()
	suite.Require().NoError(suite.repository.Add(ctx, j))

	first, err := suite.repository.Get(ctx, j.ID())
	suite.Require().NoError(err)
	second, err := suite.repository.Get(ctx, j.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(first.Accept(suite.newCandidate("+1 555 0100"), now))
	suite.Require().NoError(suite.repository.Update(ctx, first))

	suite.Require().NoError(second.Accept(suite.newCandidate("+1 555 0101"), now))
	err = suite.repository.Update(ctx, second)

	suite.Require().ErrorIs(err, errs.ErrVersionIsInvalid)
	suite.True(errs.IsConflict(err))
	suite.Equal(0, second.Version())

	stored, err := suite.repository.Get(ctx, j.ID())
	suite.Require().NoError(err)
	suite.Equal("+15550100", stored.Assignee().Contact().String())
}

func (suite *JobRepositoryIntegrationTestSuite) TestUpdate_MissingJob() {
	err := suite.repository.Update(context.Background(), suite.newJob())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *JobRepositoryIntegrationTestSuite) TestGetForUpdate_BlocksSecondLocker() {
	ctx := context.Background()
	j := suite.newJob()
	suite.Require().NoError(suite.repository.Add(ctx, j))

	tx := suite.db.Begin()
	defer tx.Rollback()
	_, err := jobrepo.NewGormJobRepository(tx, suite.tracker).GetForUpdate(ctx, j.ID())
	suite.Require().NoError(err)

	other := suite.db.Begin()
	defer other.Rollback()
	waitCtx, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
	defer cancel()
	_, err = jobrepo.NewGormJobRepository(other, suite.tracker).GetForUpdate(waitCtx, j.ID())
	suite.Require().Error(err)

	suite.Require().NoError(tx.Commit().Error)
	third := suite.db.Begin()
	defer third.Rollback()
	_, err = jobrepo.NewGormJobRepository(third, suite.tracker).GetForUpdate(ctx, j.ID())
	suite.Require().NoError(err)
}

func (suite *JobRepositoryIntegrationTestSuite) TestFindByActiveCode() {
	ctx := context.Background()
	j := suite.newJob()
	suite.Require().NoError(suite.repository.Add(ctx, j))
	suite.Require().NoError(j.Accept(suite.newCandidate("+1 555 0100"), now))
	code, err := job.NewPickupCode("424242", now.Add(2*time.Hour))
	suite.Require().NoError(err)
	suite.Require().NoError(j.IssueCode(code, now))
	suite.Require().NoError(suite.repository.Update(ctx, j))

	found, err := suite.repository.FindByActiveCode(ctx, "424242", now.Add(119*time.Minute))
	suite.Require().NoError(err)
	suite.True(found.ID().IsEqual(j.ID()))

	_, err = suite.repository.FindByActiveCode(ctx, "424242", now.Add(2*time.Hour))
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)

	_, err = suite.repository.FindByActiveCode(ctx, "000000", now)
	suite.True(errors.Is(err, errs.ErrObjectNotFound))
}

func (suite *JobRepositoryIntegrationTestSuite) TestUpdate_ActiveCodeIsUniqueAmongPickups() {
	ctx := context.Background()
	holder := suite.newJob()
	other := suite.newJob()
	suite.Require().NoError(suite.repository.Add(ctx, holder))
	suite.Require().NoError(suite.repository.Add(ctx, other))

	code, err := job.NewPickupCode("555123", now.Add(2*time.Hour))
	suite.Require().NoError(err)
	suite.Require().NoError(holder.Accept(suite.newCandidate("+1 555 0100"), now))
	suite.Require().NoError(holder.IssueCode(code, now))
	suite.Require().NoError(suite.repository.Update(ctx, holder))

	suite.Require().NoError(other.Accept(suite.newCandidate("+1 555 0101"), now))
	suite.Require().NoError(other.IssueCode(code, now))
	err = suite.repository.Update(ctx, other)

	suite.Require().ErrorIs(err, errs.ErrConflict)
	suite.Equal(0, other.Version())
	stored, err := suite.repository.Get(ctx, other.ID())
	suite.Require().NoError(err)
	suite.Equal(job.Pending, stored.Status())
	suite.Nil(stored.Code())

	// the holder may be re-issued the same value
	suite.Require().NoError(holder.IssueCode(code, now.Add(time.Minute)))
	suite.Require().NoError(suite.repository.Update(ctx, holder))
}

func (suite *JobRepositoryIntegrationTestSuite) TestUpdate_CodeIsFreedOnceThePickupIsConfirmed() {
	ctx := context.Background()
	first := suite.newJob()
	second := suite.newJob()
	suite.Require().NoError(suite.repository.Add(ctx, first))
	suite.Require().NoError(suite.repository.Add(ctx, second))

	code, err := job.NewPickupCode("777001", now.Add(2*time.Hour))
	suite.Require().NoError(err)
	suite.Require().NoError(first.Accept(suite.newCandidate("+1 555 0100"), now))
	suite.Require().NoError(first.IssueCode(code, now))
	suite.Require().NoError(suite.repository.Update(ctx, first))
	suite.Require().NoError(first.ConfirmPickup("777001", now.Add(time.Minute)))
	suite.Require().NoError(suite.repository.Update(ctx, first))

	suite.Require().NoError(second.Accept(suite.newCandidate("+1 555 0101"), now))
	suite.Require().NoError(second.IssueCode(code, now.Add(2*time.Minute)))
	suite.Require().NoError(suite.repository.Update(ctx, second))
}

func (suite *JobRepositoryIntegrationTestSuite) TestListUnstarted() {
	ctx := context.Background()
	older := suite.newJobAt(now.Add(-time.Minute))
	fresh := suite.newJobAt(now)
	started := suite.newJobAt(now.Add(-time.Hour))
	closed := suite.newJobAt(now.Add(-time.Hour))
	for _, j := range []*job.Job{older, fresh, started, closed} {
		suite.Require().NoError(suite.repository.Add(ctx, j))
	}

	cycle, err := cascade.NewCycle(started.ID(), []candidate.Candidate{suite.newCandidate("+1 555 0100")}, now.Add(time.Minute), now)
	suite.Require().NoError(err)
	suite.Require().NoError(cyclerepo.NewGormCycleRepository(suite.db).Save(ctx, cycle))
	suite.Require().NoError(closed.Exhaust(now))
	suite.Require().NoError(suite.repository.Update(ctx, closed))

	ids, err := suite.repository.ListUnstarted(ctx, now, 0)
	suite.Require().NoError(err)
	suite.Require().Len(ids, 2)
	suite.True(ids[0].IsEqual(older.ID()), "oldest first")
	suite.True(ids[1].IsEqual(fresh.ID()))

	ids, err = suite.repository.ListUnstarted(ctx, now.Add(-time.Second), 0)
	suite.Require().NoError(err)
	suite.Require().Len(ids, 1)
	suite.True(ids[0].IsEqual(older.ID()))

	ids, err = suite.repository.ListUnstarted(ctx, now, 1)
	suite.Require().NoError(err)
	suite.Len(ids, 1)
}

func (suite *JobRepositoryIntegrationTestSuite) newJob() *job.Job {
	return suite.newJobAt(now)
}

func (suite *JobRepositoryIntegrationTestSuite) newJobAt(createdAt time.Time) *job.Job {
	req, err := job.NewRequirements(job.Delivery, "north", "bike", "")
	suite.Require().NoError(err)
	j, err := job.NewJob(kernel.NewUUID(), job.Delivery, req, job.Route{Pickup: "1 Main St", Dropoff: "2 Side St"}, createdAt)
	suite.Require().NoError(err)
	return j
}

func (suite *JobRepositoryIntegrationTestSuite) newCandidate(contact string) candidate.Candidate {
	addr, err := kernel.NewContactAddress(contact)
	suite.Require().NoError(err)
	c, err := candidate.NewCandidate(kernel.NewUUID(), addr, "Driver", "north",
		candidate.Class{Category: "bike", Attributes: []string{"insulated"}})
	suite.Require().NoError(err)
	return c
}

func TestJobRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(JobRepositoryIntegrationTestSuite))
}
