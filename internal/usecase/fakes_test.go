//go:build unit

package usecase_test

import (
	"context"
	"sort"
	"sync"

	"tablebook/internal/domain/reservation"
	"tablebook/internal/domain/table"
	"tablebook/internal/infra"
	"tablebook/internal/infra/db"
	"tablebook/internal/usecase"
	"tablebook/internal/usecase/readmodel"

	"github.com/google/uuid"
)

// In-memory repositories reproducing the storage semantics the usecases
// rely on: the partial unique constraint over active slots, duplicate table
// numbers, and not-found kinds. A single mutex per store makes the race
// scenarios deterministic.

type fakeTableRepo struct {
	mu     sync.Mutex
	tables map[uuid.UUID]*table.Table
	order  []uuid.UUID

	// referenced mirrors the reservations foreign key: when set and true for
	// an id, Delete fails the way Postgres raises 23503.
	referenced func(id uuid.UUID) bool
}

func newFakeTableRepo() *fakeTableRepo {
	return &fakeTableRepo{tables: make(map[uuid.UUID]*table.Table)}
}

func (f *fakeTableRepo) Create(_ context.Context, _ db.DBTX, t *table.Table) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.tables {
		if existing.Number() == t.Number() {
			return uuid.Nil, infra.WrapRepoErr("insert table", nil, infra.KindDuplicateKey)
		}
	}
	f.tables[t.ID()] = t
	f.order = append(f.order, t.ID())
	return t.ID(), nil
}

func (f *fakeTableRepo) Update(_ context.Context, _ db.DBTX, t *table.Table) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.tables[t.ID()]; !ok {
		return infra.WrapRepoErr("update table", nil, infra.KindNotFound)
	}
	f.tables[t.ID()] = t
	return nil
}

func (f *fakeTableRepo) FindByID(_ context.Context, id uuid.UUID) (*table.Table, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.tables[id]
	if !ok {
		return nil, infra.WrapRepoErr("find table", nil, infra.KindNotFound)
	}
	return t, nil
}

func (f *fakeTableRepo) FindByNumber(_ context.Context, number int) (*table.Table, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, t := range f.tables {
		if t.Number() == number {
			return t, nil
		}
	}
	return nil, infra.WrapRepoErr("find table by number", nil, infra.KindNotFound)
}

func (f *fakeTableRepo) List(_ context.Context, filter readmodel.TableFilter) ([]*readmodel.TableRM, error) {
	return f.collect(filter, func(t *table.Table) bool { return true }), nil
}

func (f *fakeTableRepo) FindAvailable(_ context.Context, filter readmodel.TableFilter) ([]*readmodel.TableRM, error) {
	return f.collect(filter, func(t *table.Table) bool {
		return t.IsActive() && t.Status() == table.StatusAvailable
	}), nil
}

func (f *fakeTableRepo) FindBookable(_ context.Context, filter readmodel.TableFilter) ([]*readmodel.TableRM, error) {
	return f.collect(filter, func(t *table.Table) bool { return t.IsActive() }), nil
}

func (f *fakeTableRepo) Delete(_ context.Context, _ db.DBTX, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.tables[id]; !ok {
		return infra.WrapRepoErr("delete table", nil, infra.KindNotFound)
	}
	if f.referenced != nil && f.referenced(id) {
		return infra.WrapRepoErr("delete table", nil, infra.KindForeignKeyViolated)
	}
	delete(f.tables, id)
	return nil
}

func (f *fakeTableRepo) collect(filter readmodel.TableFilter, keep func(*table.Table) bool) []*readmodel.TableRM {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]*readmodel.TableRM, 0, len(f.order))
	for _, id := range f.order {
		t, ok := f.tables[id]
		if !ok || !keep(t) {
			continue
		}
		if filter.MinCapacity > 0 && t.Capacity() < filter.MinCapacity {
			continue
		}
		if filter.Section != "" && t.Section().String() != filter.Section {
			continue
		}
		if filter.ActiveOnly && !t.IsActive() {
			continue
		}
		out = append(out, readmodel.NewTableRM(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}


type fakeReservationRepo struct {
	mu           sync.Mutex
	reservations map[uuid.UUID]*reservation.Reservation
	order        []uuid.UUID
	tables       *fakeTableRepo
	emails       map[uuid.UUID]string
}

func newFakeReservationRepo(tables *fakeTableRepo) *fakeReservationRepo {
	return &fakeReservationRepo{
		reservations: make(map[uuid.UUID]*reservation.Reservation),
		tables:       tables,
		emails:       make(map[uuid.UUID]string),
	}
}

func inUse(status reservation.Status) bool {
	for _, s := range reservation.InUseStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// slotTakenBy mirrors the partial unique index over active slots. Callers
// hold f.mu.
func (f *fakeReservationRepo) slotTakenBy(res *reservation.Reservation) bool {
	if !inUse(res.Status()) {
		return false
	}
	for _, other := range f.reservations {
		if other.ID() == res.ID() {
			continue
		}
		if other.TableID() == res.TableID() && other.Slot().Equal(res.Slot()) && inUse(other.Status()) {
			return true
		}
	}
	return false
}

func (f *fakeReservationRepo) Create(_ context.Context, _ db.DBTX, res *reservation.Reservation) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.slotTakenBy(res) {
		return uuid.Nil, infra.WrapRepoErr("insert reservation", nil, infra.KindConflict)
	}
	f.reservations[res.ID()] = res
	f.order = append(f.order, res.ID())
	return res.ID(), nil
}

func (f *fakeReservationRepo) Update(_ context.Context, _ db.DBTX, res *reservation.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.reservations[res.ID()]; !ok {
		return infra.WrapRepoErr("update reservation", nil, infra.KindNotFound)
	}
	if f.slotTakenBy(res) {
		return infra.WrapRepoErr("update reservation", nil, infra.KindConflict)
	}
	f.reservations[res.ID()] = res
	return nil
}

func (f *fakeReservationRepo) FindByID(_ context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	res, ok := f.reservations[id]
	if !ok {
		return nil, infra.WrapRepoErr("find reservation", nil, infra.KindNotFound)
	}
	return res, nil
}

func (f *fakeReservationRepo) FindConflicting(_ context.Context, tableID uuid.UUID, slot reservation.Slot, statuses []string) ([]*reservation.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*reservation.Reservation
	for _, id := range f.order {
		res := f.reservations[id]
		if res.TableID() == tableID && res.Slot().Equal(slot) && statusIn(res.Status(), statuses) {
			out = append(out, res)
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) FindConflictedTableIDs(_ context.Context, slot reservation.Slot) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []uuid.UUID
	for _, id := range f.order {
		res := f.reservations[id]
		if res.Slot().Equal(slot) && inUse(res.Status()) {
			out = append(out, res.TableID())
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) FindForDate(_ context.Context, date reservation.Date, statuses []string) ([]*reservation.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*reservation.Reservation
	for _, id := range f.order {
		res := f.reservations[id]
		if res.Slot().Date().Equal(date) && statusIn(res.Status(), statuses) {
			out = append(out, res)
		}
	}
	return out, nil
}

// referencesTable reports whether any reservation row, terminal or not,
// still holds the table's foreign key.
func (f *fakeReservationRepo) referencesTable(tableID uuid.UUID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, res := range f.reservations {
		if res.TableID() == tableID {
			return true
		}
	}
	return false
}

func (f *fakeReservationRepo) CountActiveByTable(_ context.Context, tableID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var count int64
	for _, res := range f.reservations {
		if res.TableID() == tableID && inUse(res.Status()) {
			count++
		}
	}
	return count, nil
}

func (f *fakeReservationRepo) ViewByID(_ context.Context, id uuid.UUID) (*readmodel.ReservationRM, error) {
	f.mu.Lock()
	res, ok := f.reservations[id]
	f.mu.Unlock()
	if !ok {
		return nil, infra.WrapRepoErr("view reservation", nil, infra.KindNotFound)
	}
	return f.view(res), nil
}

func (f *fakeReservationRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*readmodel.ReservationListRM, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var mine []*reservation.Reservation
	for _, id := range f.order {
		res := f.reservations[id]
		if res.UserID() == userID {
			mine = append(mine, res)
		}
	}
	sort.Slice(mine, func(i, j int) bool { return mine[i].Slot().Before(mine[j].Slot()) })

	out := make([]*readmodel.ReservationListRM, len(mine))
	for i, res := range mine {
		number := 0
		f.tables.mu.Lock()
		if t, ok := f.tables.tables[res.TableID()]; ok {
			number = t.Number()
		}
		f.tables.mu.Unlock()
		out[i] = &readmodel.ReservationListRM{
			ID:          res.ID(),
			TableID:     res.TableID(),
			TableNumber: number,
			Date:        res.Slot().Date().String(),
			Time:        res.Slot().TimeOfDay().String(),
			GuestCount:  res.GuestCount(),
			Status:      res.Status().String(),
			CreatedAt:   res.CreatedAt(),
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) ListAll(_ context.Context, filter readmodel.ReservationFilter) ([]*readmodel.ReservationRM, error) {
	f.mu.Lock()
	ids := append([]uuid.UUID(nil), f.order...)
	f.mu.Unlock()

	var out []*readmodel.ReservationRM
	for _, id := range ids {
		f.mu.Lock()
		res := f.reservations[id]
		f.mu.Unlock()

		if filter.Status != "" && res.Status().String() != filter.Status {
			continue
		}
		if filter.Date != "" && res.Slot().Date().String() != filter.Date {
			continue
		}
		if filter.TableID != nil && res.TableID() != *filter.TableID {
			continue
		}
		if filter.UserID != nil && res.UserID() != *filter.UserID {
			continue
		}
		out = append(out, f.view(res))
	}
	return out, nil
}

func (f *fakeReservationRepo) view(res *reservation.Reservation) *readmodel.ReservationRM {
	history := make([]readmodel.HistoryEntryRM, 0, len(res.History()))
	for _, entry := range res.History() {
		history = append(history, readmodel.HistoryEntryRM{
			Status:    entry.Status.String(),
			At:        entry.At,
			ActorRole: entry.ActorRole.String(),
			Note:      entry.Note,
		})
	}

	number, section := 0, ""
	f.tables.mu.Lock()
	if t, ok := f.tables.tables[res.TableID()]; ok {
		number, section = t.Number(), t.Section().String()
	}
	f.tables.mu.Unlock()

	details := res.Details()
	return &readmodel.ReservationRM{
		ID:              res.ID(),
		TableID:         res.TableID(),
		TableNumber:     number,
		TableSection:    section,
		UserID:          res.UserID(),
		UserEmail:       f.emails[res.UserID()],
		Date:            res.Slot().Date().String(),
		Time:            res.Slot().TimeOfDay().String(),
		GuestCount:      res.GuestCount(),
		Status:          res.Status().String(),
		History:         history,
		SpecialRequests: details.SpecialRequests,
		Occasion:        details.Occasion,
		DurationMinutes: details.DurationMinutes,
		ContactPhone:    details.ContactPhone,
		Channel:         details.Channel,
		Notes:           details.Notes,
		CreatedAt:       res.CreatedAt(),
		UpdatedAt:       res.UpdatedAt(),
	}
}

func statusIn(status reservation.Status, statuses []string) bool {
	for _, s := range statuses {
		if status.String() == s {
			return true
		}
	}
	return false
}

type fakeTxRunner struct{}

func (fakeTxRunner) WithinTx(_ context.Context, fn func(tx db.DBTX) error) error {
	return fn(nil)
}

// spyChecker counts delegated conflict checks so tests can assert whether
// the edit recheck policy consulted the predicate.
type spyChecker struct {
	mu    sync.Mutex
	inner usecase.ConflictChecker
	calls int
}

func (s *spyChecker) Check(ctx context.Context, req usecase.CheckRequest) error {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.inner.Check(ctx, req)
}

func (s *spyChecker) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
