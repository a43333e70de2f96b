//go:build unit

package usecase_test

import (
	"context"
	"testing"
	"time"

	"tablebook/internal/domain/reservation"
	"tablebook/internal/domain/table"
	"tablebook/internal/domain/user"
	"tablebook/internal/pkg/clock"
	"tablebook/internal/usecase"
	"tablebook/internal/usecase/readmodel"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tableFixture struct {
	tables       *fakeTableRepo
	reservations *fakeReservationRepo
	clock        *clock.MockClock
	registry     usecase.TableUseCase
}

func newTableFixture(t *testing.T) *tableFixture {
	t.Helper()

	tables := newFakeTableRepo()
	reservations := newFakeReservationRepo(tables)
	tables.referenced = reservations.referencesTable
	mockClock := clock.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	return &tableFixture{
		tables:       tables,
		reservations: reservations,
		clock:        mockClock,
		registry:     usecase.NewTableUseCase(tables, reservations, fakeTxRunner{}, mockClock),
	}
}

func TestCreateTable(t *testing.T) {
	ctx := context.Background()

	t.Run("staff creates a table", func(t *testing.T) {
		f := newTableFixture(t)

		view, err := f.registry.CreateTable(ctx, usecase.CreateTableParams{
			Number: 7, Capacity: 4, Section: table.SectionOutdoor, Notes: "patio",
		}, manager())

		require.NoError(t, err)
		assert.Equal(t, 7, view.Number)
		assert.Equal(t, "outdoor", view.Section)
		assert.Equal(t, "available", view.Status)
		assert.True(t, view.Active)
	})

	t.Run("customers may not manage the layout", func(t *testing.T) {
		f := newTableFixture(t)
		_, err := f.registry.CreateTable(ctx, usecase.CreateTableParams{
			Number: 7, Capacity: 4, Section: table.SectionIndoor,
		}, customer())
		assert.ErrorIs(t, err, usecase.ErrForbidden)
	})

	t.Run("duplicate number is refused", func(t *testing.T) {
		f := newTableFixture(t)

		_, err := f.registry.CreateTable(ctx, usecase.CreateTableParams{
			Number: 7, Capacity: 4, Section: table.SectionIndoor,
		}, admin())
		require.NoError(t, err)

		_, err = f.registry.CreateTable(ctx, usecase.CreateTableParams{
			Number: 7, Capacity: 2, Section: table.SectionOutdoor,
		}, admin())
		assert.ErrorIs(t, err, usecase.ErrDuplicateTableNumber)
	})

	t.Run("entity validation surfaces", func(t *testing.T) {
		f := newTableFixture(t)
		_, err := f.registry.CreateTable(ctx, usecase.CreateTableParams{
			Number: 1, Capacity: 0, Section: table.SectionIndoor,
		}, admin())
		assert.ErrorIs(t, err, table.ErrInvalidCapacity)
	})
}

func TestSetTableStatus(t *testing.T) {
	ctx := context.Background()

	create := func(t *testing.T, f *tableFixture, capacity int) uuid.UUID {
		t.Helper()
		view, err := f.registry.CreateTable(ctx, usecase.CreateTableParams{
			Number: 1, Capacity: capacity, Section: table.SectionIndoor,
		}, admin())
		require.NoError(t, err)
		return view.ID
	}

	t.Run("occupy then release", func(t *testing.T) {
		f := newTableFixture(t)
		id := create(t, f, 4)

		view, err := f.registry.SetStatus(ctx, usecase.SetTableStatusParams{
			TableID: id, Status: table.StatusOccupied, Occupancy: 3,
		}, manager())
		require.NoError(t, err)
		assert.Equal(t, "occupied", view.Status)
		assert.Equal(t, 3, view.CurrentOccupancy)

		view, err = f.registry.SetStatus(ctx, usecase.SetTableStatusParams{
			TableID: id, Status: table.StatusAvailable,
		}, manager())
		require.NoError(t, err)
		assert.Equal(t, "available", view.Status)
		assert.Zero(t, view.CurrentOccupancy)
	})

	t.Run("occupy over capacity", func(t *testing.T) {
		f := newTableFixture(t)
		id := create(t, f, 2)

		_, err := f.registry.SetStatus(ctx, usecase.SetTableStatusParams{
			TableID: id, Status: table.StatusOccupied, Occupancy: 3,
		}, manager())
		assert.ErrorIs(t, err, usecase.ErrInvalidTableStatus)
	})

	t.Run("reserve requires a future end", func(t *testing.T) {
		f := newTableFixture(t)
		id := create(t, f, 4)

		past := f.clock.Now().Add(-time.Hour)
		_, err := f.registry.SetStatus(ctx, usecase.SetTableStatusParams{
			TableID: id, Status: table.StatusReserved, Until: &past,
		}, manager())
		assert.ErrorIs(t, err, usecase.ErrInvalidTableStatus)

		_, err = f.registry.SetStatus(ctx, usecase.SetTableStatusParams{
			TableID: id, Status: table.StatusReserved,
		}, manager())
		assert.ErrorIs(t, err, usecase.ErrInvalidTableStatus)

		future := f.clock.Now().Add(2 * time.Hour)
		view, err := f.registry.SetStatus(ctx, usecase.SetTableStatusParams{
			TableID: id, Status: table.StatusReserved, Until: &future,
		}, manager())
		require.NoError(t, err)
		assert.Equal(t, "reserved", view.Status)
	})

	t.Run("deactivate via status change", func(t *testing.T) {
		f := newTableFixture(t)
		id := create(t, f, 4)

		inactive := false
		view, err := f.registry.SetStatus(ctx, usecase.SetTableStatusParams{
			TableID: id, Status: table.StatusMaintenance, Active: &inactive,
		}, manager())
		require.NoError(t, err)
		assert.Equal(t, "maintenance", view.Status)
		assert.False(t, view.Active)
	})

	t.Run("staff only", func(t *testing.T) {
		f := newTableFixture(t)
		id := create(t, f, 4)

		_, err := f.registry.SetStatus(ctx, usecase.SetTableStatusParams{
			TableID: id, Status: table.StatusMaintenance,
		}, customer())
		assert.ErrorIs(t, err, usecase.ErrForbidden)
	})
}

func TestDeleteTable(t *testing.T) {
	ctx := context.Background()

	t.Run("admin deletes an unreferenced table", func(t *testing.T) {
		f := newTableFixture(t)
		view, err := f.registry.CreateTable(ctx, usecase.CreateTableParams{
			Number: 1, Capacity: 4, Section: table.SectionIndoor,
		}, admin())
		require.NoError(t, err)

		require.NoError(t, f.registry.DeleteTable(ctx, view.ID, admin()))
		_, err = f.registry.GetTable(ctx, view.ID)
		assert.ErrorIs(t, err, usecase.ErrTableNotFound)
	})

	t.Run("refused while active bookings reference it", func(t *testing.T) {
		f := newTableFixture(t)
		view, err := f.registry.CreateTable(ctx, usecase.CreateTableParams{
			Number: 1, Capacity: 4, Section: table.SectionIndoor,
		}, admin())
		require.NoError(t, err)

		slot, err := reservation.ParseSlot("2025-06-10", "19:00")
		require.NoError(t, err)
		res, err := reservation.NewReservation(view.ID, uuid.New(), slot, 2, reservation.Details{}, user.RoleCustomer, f.clock.Now())
		require.NoError(t, err)
		_, err = f.reservations.Create(ctx, nil, res)
		require.NoError(t, err)

		err = f.registry.DeleteTable(ctx, view.ID, admin())
		assert.ErrorIs(t, err, usecase.ErrTableHasActiveReservations)
	})

	t.Run("terminal history blocks deletion distinctly", func(t *testing.T) {
		f := newTableFixture(t)
		view, err := f.registry.CreateTable(ctx, usecase.CreateTableParams{
			Number: 1, Capacity: 4, Section: table.SectionIndoor,
		}, admin())
		require.NoError(t, err)

		slot, err := reservation.ParseSlot("2025-06-10", "19:00")
		require.NoError(t, err)
		res, err := reservation.NewReservation(view.ID, uuid.New(), slot, 2, reservation.Details{}, user.RoleCustomer, f.clock.Now())
		require.NoError(t, err)
		_, err = f.reservations.Create(ctx, nil, res)
		require.NoError(t, err)

		// A cancelled booking no longer blocks the slot but its row still
		// references the table, so the delete reports history, not activity.
		require.NoError(t, res.Cancel(admin().Role, "", f.clock.Now()))
		require.NoError(t, f.reservations.Update(ctx, nil, res))

		err = f.registry.DeleteTable(ctx, view.ID, admin())
		assert.ErrorIs(t, err, usecase.ErrTableHasBookingHistory)
		assert.NotErrorIs(t, err, usecase.ErrTableHasActiveReservations)

		// The table survives and can still be soft-retired.
		inactive := false
		updated, err := f.registry.SetStatus(ctx, usecase.SetTableStatusParams{
			TableID: view.ID, Status: table.StatusMaintenance, Active: &inactive,
		}, admin())
		require.NoError(t, err)
		assert.False(t, updated.Active)
	})

	t.Run("managers may not delete", func(t *testing.T) {
		f := newTableFixture(t)
		view, err := f.registry.CreateTable(ctx, usecase.CreateTableParams{
			Number: 1, Capacity: 4, Section: table.SectionIndoor,
		}, admin())
		require.NoError(t, err)

		assert.ErrorIs(t, f.registry.DeleteTable(ctx, view.ID, manager()), usecase.ErrForbidden)
	})

	t.Run("unknown table", func(t *testing.T) {
		f := newTableFixture(t)
		assert.ErrorIs(t, f.registry.DeleteTable(ctx, uuid.New(), admin()), usecase.ErrTableNotFound)
	})
}

func TestListTables(t *testing.T) {
	ctx := context.Background()

	f := newTableFixture(t)
	for _, def := range []struct {
		number   int
		capacity int
		section  table.Section
	}{
		{1, 2, table.SectionIndoor},
		{2, 6, table.SectionOutdoor},
		{3, 4, table.SectionIndoor},
	} {
		_, err := f.registry.CreateTable(ctx, usecase.CreateTableParams{
			Number: def.number, Capacity: def.capacity, Section: def.section,
		}, admin())
		require.NoError(t, err)
	}

	t.Run("section filter", func(t *testing.T) {
		indoor, err := f.registry.ListTables(ctx, readmodel.TableFilter{Section: "indoor"})
		require.NoError(t, err)
		assert.Len(t, indoor, 2)
	})

	t.Run("capacity filter on available tables", func(t *testing.T) {
		big, err := f.registry.FindAvailableTables(ctx, readmodel.TableFilter{MinCapacity: 4})
		require.NoError(t, err)
		require.Len(t, big, 2)
		assert.Equal(t, 2, big[0].Number)
		assert.Equal(t, 3, big[1].Number)
	})
}
