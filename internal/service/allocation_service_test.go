package service

import (
	"context"
	"testing"
	"time"

	"peopleops/internal/apperr"
	"peopleops/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureCoverageCreatesSingleDayAllocation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	employee := f.seedEmployee(nil)
	project := f.seedProject("Atlas", "ATL")
	member := f.seedMember(project, employee)
	element := f.seedElement(project, "ATL-DEV")

	day := date(2026, time.March, 2)
	allocation, err := f.allocations.EnsureCoverage(ctx, member.ID, element.ID, day)
	require.NoError(t, err)

	require.NotNil(t, allocation.StartDate)
	require.NotNil(t, allocation.EndDate)
	assert.True(t, model.SameDay(*allocation.StartDate, day))
	assert.True(t, model.SameDay(*allocation.EndDate, day))
	assert.True(t, allocation.Active)

	covered, err := f.allocations.IsCovered(ctx, member.ID, element.ID, day)
	require.NoError(t, err)
	assert.True(t, covered)

	// Adjacent days are not covered by the single-day window.
	covered, err = f.allocations.IsCovered(ctx, member.ID, element.ID, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.False(t, covered)
}

func TestEnsureCoverageReusesCoveringAllocation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	employee := f.seedEmployee(nil)
	project := f.seedProject("Atlas", "ATL")
	member := f.seedMember(project, employee)
	element := f.seedElement(project, "ATL-DEV")
	existing := f.seedAllocation(member, element) // open-ended

	allocation, err := f.allocations.EnsureCoverage(ctx, member.ID, element.ID, date(2026, time.March, 2))
	require.NoError(t, err)
	assert.Equal(t, existing.ID, allocation.ID)
	assert.Len(t, f.wbsRepo.allocations, 1, "no new allocation created")
}

func TestEnsureCoverageOnDisabledElement(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	employee := f.seedEmployee(nil)
	project := f.seedProject("Atlas", "ATL")
	member := f.seedMember(project, employee)
	element := f.seedElement(project, "ATL-DEV")
	element.Disabled = true

	_, err := f.allocations.EnsureCoverage(ctx, member.ID, element.ID, date(2026, time.March, 2))
	assert.True(t, apperr.IsConflict(err))
}

func TestEnsureCoverageOutsideElementWindow(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	employee := f.seedEmployee(nil)
	project := f.seedProject("Atlas", "ATL")
	member := f.seedMember(project, employee)
	element := f.seedElement(project, "ATL-DEV")
	end := date(2026, time.February, 28)
	element.EndDate = &end

	_, err := f.allocations.EnsureCoverage(ctx, member.ID, element.ID, date(2026, time.March, 2))
	assert.True(t, apperr.IsConflict(err))
}

func TestCreateAllocation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	employee := f.seedEmployee(nil)
	project := f.seedProject("Atlas", "ATL")
	member := f.seedMember(project, employee)
	element := f.seedElement(project, "ATL-DEV")

	start := date(2026, time.March, 1)
	end := date(2026, time.June, 30)
	allocation, err := f.allocations.CreateAllocation(ctx, CreateAllocationRequest{
		MemberID:     member.ID.String(),
		WBSElementID: element.ID.String(),
		StartDate:    &start,
		EndDate:      &end,
	}, nil)
	require.NoError(t, err)
	assert.True(t, allocation.Covers(date(2026, time.April, 15)))
	assert.False(t, allocation.Covers(date(2026, time.July, 1)))
}

func TestCreateAllocationWindowOrder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	employee := f.seedEmployee(nil)
	project := f.seedProject("Atlas", "ATL")
	member := f.seedMember(project, employee)
	element := f.seedElement(project, "ATL-DEV")

	start := date(2026, time.June, 30)
	end := date(2026, time.March, 1)
	_, err := f.allocations.CreateAllocation(ctx, CreateAllocationRequest{
		MemberID:     member.ID.String(),
		WBSElementID: element.ID.String(),
		StartDate:    &start,
		EndDate:      &end,
	}, nil)
	assert.True(t, apperr.IsInvalid(err))
}

func TestCreateAllocationCrossProject(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	employee := f.seedEmployee(nil)
	projectA := f.seedProject("Atlas", "ATL")
	projectB := f.seedProject("Borealis", "BOR")
	member := f.seedMember(projectA, employee)
	element := f.seedElement(projectB, "BOR-DEV")

	_, err := f.allocations.CreateAllocation(ctx, CreateAllocationRequest{
		MemberID:     member.ID.String(),
		WBSElementID: element.ID.String(),
	}, nil)
	assert.True(t, apperr.IsConflict(err))
}

func TestCreateAllocationOutsideElementWindow(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	employee := f.seedEmployee(nil)
	project := f.seedProject("Atlas", "ATL")
	member := f.seedMember(project, employee)
	element := f.seedElement(project, "ATL-DEV")
	elementEnd := date(2026, time.March, 31)
	element.EndDate = &elementEnd

	start := date(2026, time.March, 1)
	end := date(2026, time.April, 30)
	_, err := f.allocations.CreateAllocation(ctx, CreateAllocationRequest{
		MemberID:     member.ID.String(),
		WBSElementID: element.ID.String(),
		StartDate:    &start,
		EndDate:      &end,
	}, nil)
	assert.True(t, apperr.IsConflict(err))
}

func TestDeactivateAllocationIsIdempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	employee := f.seedEmployee(nil)
	project := f.seedProject("Atlas", "ATL")
	member := f.seedMember(project, employee)
	element := f.seedElement(project, "ATL-DEV")
	allocation := f.seedAllocation(member, element)

	deactivated, err := f.allocations.DeactivateAllocation(ctx, allocation.ID.String(), nil)
	require.NoError(t, err)
	assert.False(t, deactivated.Active)

	again, err := f.allocations.DeactivateAllocation(ctx, allocation.ID.String(), nil)
	require.NoError(t, err)
	assert.False(t, again.Active)

	covered, err := f.allocations.IsCovered(ctx, member.ID, element.ID, date(2026, time.March, 2))
	require.NoError(t, err)
	assert.False(t, covered)
}
