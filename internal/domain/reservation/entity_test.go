//go:build unit

package reservation_test

import (
	"testing"
	"time"

	"tablebook/internal/domain/reservation"
	"tablebook/internal/domain/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newBooking(t *testing.T) *reservation.Reservation {
	t.Helper()
	slot, err := reservation.ParseSlot("2025-06-10", "19:00")
	require.NoError(t, err)

	res, err := reservation.NewReservation(
		uuid.New(), uuid.New(), slot, 4,
		reservation.Details{Occasion: "birthday"},
		user.RoleCustomer, testNow,
	)
	require.NoError(t, err)
	return res
}

func TestNewReservation(t *testing.T) {
	t.Run("auto-confirms with one history entry", func(t *testing.T) {
		res := newBooking(t)

		assert.Equal(t, reservation.StatusConfirmed, res.Status())
		assert.True(t, res.IsActive())

		history := res.History()
		require.Len(t, history, 1)
		assert.Equal(t, reservation.StatusConfirmed, history[0].Status)
		assert.Equal(t, testNow, history[0].At)
		assert.Equal(t, user.RoleCustomer, history[0].ActorRole)
		assert.Equal(t, reservation.AutoConfirmNote, history[0].Note)
	})

	t.Run("guest count validation", func(t *testing.T) {
		slot, err := reservation.ParseSlot("2025-06-10", "19:00")
		require.NoError(t, err)

		for _, count := range []int{0, -1} {
			_, err := reservation.NewReservation(
				uuid.New(), uuid.New(), slot, count,
				reservation.Details{}, user.RoleCustomer, testNow,
			)
			assert.ErrorIs(t, err, reservation.ErrInvalidGuestCount, "count %d", count)
		}
	})
}

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		name  string
		from  reservation.Status
		to    reservation.Status
		errIs error
	}{
		{name: "pending to confirmed", from: reservation.StatusPending, to: reservation.StatusConfirmed},
		{name: "pending to seated", from: reservation.StatusPending, to: reservation.StatusSeated},
		{name: "confirmed to seated", from: reservation.StatusConfirmed, to: reservation.StatusSeated},
		{name: "confirmed back to pending", from: reservation.StatusConfirmed, to: reservation.StatusPending},
		{name: "seated to completed", from: reservation.StatusSeated, to: reservation.StatusCompleted},
		{name: "pending to completed skips seated", from: reservation.StatusPending, to: reservation.StatusCompleted, errIs: reservation.ErrInvalidStatusTransition},
		{name: "confirmed to completed skips seated", from: reservation.StatusConfirmed, to: reservation.StatusCompleted, errIs: reservation.ErrInvalidStatusTransition},
		{name: "seated back to confirmed", from: reservation.StatusSeated, to: reservation.StatusConfirmed, errIs: reservation.ErrInvalidStatusTransition},
		{name: "cancel from pending", from: reservation.StatusPending, to: reservation.StatusCancelled},
		{name: "cancel from seated", from: reservation.StatusSeated, to: reservation.StatusCancelled},
		{name: "completed is terminal", from: reservation.StatusCompleted, to: reservation.StatusCancelled, errIs: reservation.ErrReservationTerminal},
		{name: "cancelled is terminal", from: reservation.StatusCancelled, to: reservation.StatusConfirmed, errIs: reservation.ErrReservationTerminal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := reconstructWithStatus(t, tc.from)

			err := res.ChangeStatus(tc.to, user.RoleManager, "", testNow.Add(time.Minute))
			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
				assert.Equal(t, tc.from, res.Status())
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.to, res.Status())
			}
		})
	}
}

func TestHistory(t *testing.T) {
	t.Run("each transition appends exactly one entry", func(t *testing.T) {
		res := newBooking(t)

		require.NoError(t, res.ChangeStatus(reservation.StatusSeated, user.RoleManager, "party arrived", testNow.Add(time.Hour)))
		require.NoError(t, res.ChangeStatus(reservation.StatusCompleted, user.RoleManager, "", testNow.Add(2*time.Hour)))

		history := res.History()
		require.Len(t, history, 3)
		assert.Equal(t, reservation.StatusConfirmed, history[0].Status)
		assert.Equal(t, reservation.StatusSeated, history[1].Status)
		assert.Equal(t, "party arrived", history[1].Note)
		assert.Equal(t, reservation.StatusCompleted, history[2].Status)
	})

	t.Run("timestamps never go backwards", func(t *testing.T) {
		res := newBooking(t)

		err := res.ChangeStatus(reservation.StatusSeated, user.RoleManager, "", testNow.Add(-time.Minute))
		assert.ErrorIs(t, err, reservation.ErrHistoryTimestampReversed)
		assert.Equal(t, reservation.StatusConfirmed, res.Status())
		assert.Len(t, res.History(), 1)
	})

	t.Run("equal timestamp is allowed", func(t *testing.T) {
		res := newBooking(t)
		assert.NoError(t, res.ChangeStatus(reservation.StatusSeated, user.RoleManager, "", testNow))
	})

	t.Run("returned history is a copy", func(t *testing.T) {
		res := newBooking(t)

		history := res.History()
		history[0].Note = "tampered"

		assert.Equal(t, reservation.AutoConfirmNote, res.History()[0].Note)
	})
}

func TestCancel(t *testing.T) {
	t.Run("cancellation is terminal", func(t *testing.T) {
		res := newBooking(t)

		require.NoError(t, res.Cancel(user.RoleAdmin, "Cancelled by admin", testNow.Add(time.Minute)))
		assert.Equal(t, reservation.StatusCancelled, res.Status())
		assert.False(t, res.IsActive())

		err := res.Cancel(user.RoleAdmin, "again", testNow.Add(2*time.Minute))
		assert.ErrorIs(t, err, reservation.ErrReservationTerminal)
		assert.Len(t, res.History(), 2)
	})
}

func TestMutators(t *testing.T) {
	t.Run("reschedule swaps the slot without touching status", func(t *testing.T) {
		res := newBooking(t)

		newSlot, err := reservation.ParseSlot("2025-06-11", "20:00")
		require.NoError(t, err)
		res.Reschedule(newSlot)

		assert.True(t, res.Slot().Equal(newSlot))
		assert.Equal(t, reservation.StatusConfirmed, res.Status())
		assert.Len(t, res.History(), 1)
	})

	t.Run("guest count update validates", func(t *testing.T) {
		res := newBooking(t)

		assert.ErrorIs(t, res.UpdateGuestCount(0), reservation.ErrInvalidGuestCount)
		assert.Equal(t, 4, res.GuestCount())

		require.NoError(t, res.UpdateGuestCount(2))
		assert.Equal(t, 2, res.GuestCount())
	})

	t.Run("ownership", func(t *testing.T) {
		owner := uuid.New()
		slot, err := reservation.ParseSlot("2025-06-10", "19:00")
		require.NoError(t, err)

		res, err := reservation.NewReservation(uuid.New(), owner, slot, 2, reservation.Details{}, user.RoleCustomer, testNow)
		require.NoError(t, err)

		assert.True(t, res.IsOwnedBy(owner))
		assert.False(t, res.IsOwnedBy(uuid.New()))
	})
}

func reconstructWithStatus(t *testing.T, status reservation.Status) *reservation.Reservation {
	t.Helper()
	slot, err := reservation.ParseSlot("2025-06-10", "19:00")
	require.NoError(t, err)

	return reservation.ReconstructReservation(
		uuid.New(), uuid.New(), uuid.New(), slot, 2, status,
		[]reservation.HistoryEntry{{Status: status, At: testNow, ActorRole: user.RoleCustomer}},
		reservation.Details{}, testNow, testNow,
	)
}
