//go:build unit

package table_test

import (
	"strings"
	"testing"
	"time"

	"tablebook/internal/domain/table"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTable(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		actual, err := table.NewTable(12, 4, table.SectionIndoor, "window seat")
		require.NoError(t, err)
		require.NotNil(t, actual)

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.Equal(t, 12, actual.Number())
		assert.Equal(t, 4, actual.Capacity())
		assert.Equal(t, table.SectionIndoor, actual.Section())
		assert.Equal(t, table.StatusAvailable, actual.Status())
		assert.True(t, actual.IsActive())
		assert.Equal(t, "window seat", actual.Notes())
		assert.Zero(t, actual.CurrentOccupancy())
	})

	t.Run("validation", func(t *testing.T) {
		cases := []struct {
			name     string
			number   int
			capacity int
			section  table.Section
			errIs    error
		}{
			{name: "zero table number", number: 0, capacity: 4, section: table.SectionIndoor, errIs: table.ErrInvalidTableNumber},
			{name: "negative table number", number: -1, capacity: 4, section: table.SectionIndoor, errIs: table.ErrInvalidTableNumber},
			{name: "zero capacity", number: 1, capacity: 0, section: table.SectionIndoor, errIs: table.ErrInvalidCapacity},
			{name: "minimum capacity", number: 1, capacity: 1, section: table.SectionIndoor},
			{name: "unknown section", number: 1, capacity: 4, section: table.Section("rooftop"), errIs: table.ErrInvalidSection},
			{name: "private section", number: 1, capacity: 8, section: table.SectionPrivate},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := table.NewTable(tc.number, tc.capacity, tc.section, "")
				if tc.errIs != nil {
					assert.ErrorIs(t, err, tc.errIs)
				} else {
					assert.NoError(t, err)
				}
			})
		}
	})

	t.Run("notes are trimmed and capped", func(t *testing.T) {
		actual, err := table.NewTable(1, 2, table.SectionOutdoor, "  "+strings.Repeat("x", table.MaxNotesLength+50))
		require.NoError(t, err)
		assert.Len(t, actual.Notes(), table.MaxNotesLength)
	})
}

func TestTableStatusChanges(t *testing.T) {
	now := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)

	newTable := func(t *testing.T) *table.Table {
		tbl, err := table.NewTable(5, 4, table.SectionBalcony, "")
		require.NoError(t, err)
		return tbl
	}

	t.Run("occupy within capacity", func(t *testing.T) {
		tbl := newTable(t)
		require.NoError(t, tbl.Occupy(3, now))

		assert.Equal(t, table.StatusOccupied, tbl.Status())
		assert.Equal(t, 3, tbl.CurrentOccupancy())
		require.NotNil(t, tbl.OccupiedSince())
		assert.Equal(t, now, *tbl.OccupiedSince())
	})

	t.Run("occupy over capacity refused", func(t *testing.T) {
		tbl := newTable(t)
		assert.ErrorIs(t, tbl.Occupy(5, now), table.ErrOccupancyExceedsCapacity)
		assert.Equal(t, table.StatusAvailable, tbl.Status())
	})

	t.Run("occupy with zero party refused", func(t *testing.T) {
		tbl := newTable(t)
		assert.ErrorIs(t, tbl.Occupy(0, now), table.ErrInvalidOccupancy)
	})

	t.Run("reserve requires future end", func(t *testing.T) {
		tbl := newTable(t)
		assert.ErrorIs(t, tbl.Reserve(now, now), table.ErrReservedUntilNotFuture)
		assert.ErrorIs(t, tbl.Reserve(now.Add(-time.Hour), now), table.ErrReservedUntilNotFuture)

		until := now.Add(2 * time.Hour)
		require.NoError(t, tbl.Reserve(until, now))
		assert.Equal(t, table.StatusReserved, tbl.Status())
		require.NotNil(t, tbl.ReservedUntil())
		assert.Equal(t, until, *tbl.ReservedUntil())
	})

	t.Run("release clears occupancy state", func(t *testing.T) {
		tbl := newTable(t)
		require.NoError(t, tbl.Occupy(4, now))

		tbl.Release()

		assert.Equal(t, table.StatusAvailable, tbl.Status())
		assert.Zero(t, tbl.CurrentOccupancy())
		assert.Nil(t, tbl.OccupiedSince())
		assert.Nil(t, tbl.ReservedUntil())
	})

	t.Run("maintenance clears occupancy state", func(t *testing.T) {
		tbl := newTable(t)
		require.NoError(t, tbl.Occupy(2, now))

		tbl.SetMaintenance()

		assert.Equal(t, table.StatusMaintenance, tbl.Status())
		assert.Zero(t, tbl.CurrentOccupancy())
	})

	t.Run("inactive table refuses occupy and reserve", func(t *testing.T) {
		tbl := newTable(t)
		tbl.Deactivate()

		assert.ErrorIs(t, tbl.Occupy(2, now), table.ErrTableInactive)
		assert.ErrorIs(t, tbl.Reserve(now.Add(time.Hour), now), table.ErrTableInactive)

		tbl.Activate()
		assert.NoError(t, tbl.Occupy(2, now))
	})
}

func TestTablePredicates(t *testing.T) {
	tbl, err := table.NewTable(7, 6, table.SectionIndoor, "")
	require.NoError(t, err)

	t.Run("can seat", func(t *testing.T) {
		assert.True(t, tbl.CanSeat(1))
		assert.True(t, tbl.CanSeat(6))
		assert.False(t, tbl.CanSeat(7))
		assert.False(t, tbl.CanSeat(0))
	})

	t.Run("bookable requires active and available", func(t *testing.T) {
		assert.True(t, tbl.IsBookable())

		tbl.SetMaintenance()
		assert.False(t, tbl.IsBookable())

		tbl.Release()
		assert.True(t, tbl.IsBookable())

		tbl.Deactivate()
		assert.False(t, tbl.IsBookable())
	})
}
