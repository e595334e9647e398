package usecase

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/kamuxx/reservas-api/internal/database"
	"github.com/kamuxx/reservas-api/internal/model"
	"github.com/kamuxx/reservas-api/internal/repository"
)

// The engine is exercised against in-memory stores. The fake tx runner hands
// the closure a nil *sql.Tx, which the fakes ignore; what matters here is the
// decision logic, not SQL.

func fakeRunner() database.TxRunner {
	return func(ctx context.Context, fn func(tx *sql.Tx) error) error {
		return fn(nil)
	}
}

type fakeSpaceStore struct {
	spaces map[string]*model.Space
}

func (f *fakeSpaceStore) GetForUpdateTx(ctx context.Context, tx *sql.Tx, uuid string) (*model.Space, error) {
	sp, ok := f.spaces[uuid]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *sp
	return &cp, nil
}

type fakeReservationStore struct {
	byUUID map[string]*model.Reservation
}

func newFakeReservationStore() *fakeReservationStore {
	return &fakeReservationStore{byUUID: make(map[string]*model.Reservation)}
}

func (f *fakeReservationStore) HasOverlapTx(ctx context.Context, tx *sql.Tx, spaceID, date, start, end, cancelledStatusID string) (bool, error) {
	for _, r := range f.byUUID {
		if r.SpaceID != spaceID || r.EventDate != date || r.StatusID == cancelledStatusID {
			continue
		}
		if model.Overlaps(r.StartTime, r.EndTime, start, end) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReservationStore) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	cp := *res
	f.byUUID[res.UUID] = &cp
	return nil
}

func (f *fakeReservationStore) GetForUpdateTx(ctx context.Context, tx *sql.Tx, uuid string) (*model.Reservation, error) {
	r, ok := f.byUUID[uuid]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReservationStore) MarkCancelledTx(ctx context.Context, tx *sql.Tx, uuid, statusID, cancelledBy string, reason *string) error {
	r, ok := f.byUUID[uuid]
	if !ok {
		return sql.ErrNoRows
	}
	r.StatusID = statusID
	r.CancellationBy = &cancelledBy
	r.CancellationReason = reason
	return nil
}

type fakeAuditSink struct {
	entries []model.AuditTrailEntry
}

func (f *fakeAuditSink) AppendTx(ctx context.Context, tx *sql.Tx, e model.AuditTrailEntry) error {
	f.entries = append(f.entries, e)
	return nil
}

var testStatuses = model.StatusSet{
	Confirmed: model.Status{UUID: "st-confirmed", Name: "confirmada"},
	Scheduled: model.Status{UUID: "st-scheduled", Name: "agendada"},
	Cancelled: model.Status{UUID: "st-cancelled", Name: "cancelada"},
}

func testEngine() (*ReservationUseCases, *fakeReservationStore, *fakeAuditSink) {
	ruleID := "rule-1"
	spaces := &fakeSpaceStore{spaces: map[string]*model.Space{
		"space-1": {
			UUID:          "space-1",
			Name:          "Sala Norte",
			Capacity:      20,
			SpaceTypeID:   "type-1",
			StatusID:      "st-confirmed",
			IsActive:      true,
			PricingRuleID: &ruleID,
			PricingRule: &model.PricingRule{
				UUID:            ruleID,
				Name:            "hourly",
				RuleType:        "base",
				PriceAdjustment: decimal.RequireFromString("50"),
				AdjustmentType:  model.AdjustmentFixed,
				IsActive:        true,
			},
		},
		"space-free": {
			UUID:        "space-free",
			Name:        "Sala Sur",
			Capacity:    8,
			SpaceTypeID: "type-1",
			StatusID:    "st-confirmed",
			IsActive:    true,
		},
	}}
	reservations := newFakeReservationStore()
	audits := &fakeAuditSink{}
	uc := NewReservationUseCases(fakeRunner(), spaces, reservations, audits, testStatuses)
	return uc, reservations, audits
}

func seedReservation(store *fakeReservationStore, uuid, spaceID, userUUID, date, start, end, statusID string) {
	store.byUUID[uuid] = &model.Reservation{
		UUID:       uuid,
		ReservedBy: userUUID,
		SpaceID:    spaceID,
		StatusID:   statusID,
		EventName:  "seeded",
		EventDate:  date,
		StartTime:  start,
		EndTime:    end,
	}
}

func TestCreateAdmitsAndPrices(t *testing.T) {
	uc, store, audits := testEngine()

	res, err := uc.Create(context.Background(), CreateReservationInput{
		SpaceID:   "space-1",
		EventName: "team offsite",
		EventDate: "2026-09-10",
		StartTime: "10:00",
		EndTime:   "12:00",
	}, "user-1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if res.UUID == "" {
		t.Error("reservation UUID not assigned")
	}
	if res.StatusID != testStatuses.Confirmed.UUID {
		t.Errorf("status = %s, want confirmed", res.StatusID)
	}
	if want := decimal.RequireFromString("100"); !res.EventPrice.Equal(want) {
		t.Errorf("price = %s, want %s", res.EventPrice, want)
	}
	if res.PricingRuleID == nil || *res.PricingRuleID != "rule-1" {
		t.Error("pricing rule not recorded on reservation")
	}
	if _, ok := store.byUUID[res.UUID]; !ok {
		t.Error("reservation not persisted")
	}
	if len(audits.entries) != 1 {
		t.Fatalf("audit entries = %d, want 1", len(audits.entries))
	}
	e := audits.entries[0]
	if e.EntityName != "reservation" || e.EntityID != res.UUID || e.Operation != model.AuditCreate {
		t.Errorf("unexpected audit entry: %+v", e)
	}
	if e.UserUUID == nil || *e.UserUUID != "user-1" {
		t.Error("audit entry missing acting user")
	}
}

func TestCreateWithoutRuleIsFree(t *testing.T) {
	uc, _, _ := testEngine()

	res, err := uc.Create(context.Background(), CreateReservationInput{
		SpaceID:   "space-free",
		EventName: "study group",
		EventDate: "2026-09-10",
		StartTime: "10:00",
		EndTime:   "12:00",
	}, "user-1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !res.EventPrice.IsZero() {
		t.Errorf("price = %s, want 0 for a space without a pricing rule", res.EventPrice)
	}
}

func TestCreateSpaceNotFound(t *testing.T) {
	uc, _, audits := testEngine()

	_, err := uc.Create(context.Background(), CreateReservationInput{
		SpaceID:   "missing",
		EventName: "x",
		EventDate: "2026-09-10",
		StartTime: "10:00",
		EndTime:   "12:00",
	}, "user-1")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("err = %v, want sql.ErrNoRows", err)
	}
	if len(audits.entries) != 0 {
		t.Error("no audit entry expected on failure")
	}
}

func TestCreateRejectsOverlap(t *testing.T) {
	uc, store, audits := testEngine()
	seedReservation(store, "res-1", "space-1", "user-2", "2026-09-10", "10:00", "12:00", "st-confirmed")

	_, err := uc.Create(context.Background(), CreateReservationInput{
		SpaceID:   "space-1",
		EventName: "clash",
		EventDate: "2026-09-10",
		StartTime: "11:00",
		EndTime:   "13:00",
	}, "user-1")
	if !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
	if len(store.byUUID) != 1 {
		t.Error("conflicting reservation must not be persisted")
	}
	if len(audits.entries) != 0 {
		t.Error("no audit entry expected on conflict")
	}
}

func TestCreateAllowsTouchingIntervals(t *testing.T) {
	uc, store, _ := testEngine()
	seedReservation(store, "res-1", "space-1", "user-2", "2026-09-10", "10:00", "12:00", "st-confirmed")

	if _, err := uc.Create(context.Background(), CreateReservationInput{
		SpaceID:   "space-1",
		EventName: "back to back",
		EventDate: "2026-09-10",
		StartTime: "12:00",
		EndTime:   "14:00",
	}, "user-1"); err != nil {
		t.Fatalf("touching intervals should be admitted: %v", err)
	}
}

func TestCreateIgnoresCancelledReservations(t *testing.T) {
	uc, store, _ := testEngine()
	seedReservation(store, "res-1", "space-1", "user-2", "2026-09-10", "10:00", "12:00", "st-cancelled")

	if _, err := uc.Create(context.Background(), CreateReservationInput{
		SpaceID:   "space-1",
		EventName: "reclaim slot",
		EventDate: "2026-09-10",
		StartTime: "10:00",
		EndTime:   "12:00",
	}, "user-1"); err != nil {
		t.Fatalf("cancelled reservations must not block admission: %v", err)
	}
}

func TestCreateOtherDateDoesNotConflict(t *testing.T) {
	uc, store, _ := testEngine()
	seedReservation(store, "res-1", "space-1", "user-2", "2026-09-10", "10:00", "12:00", "st-confirmed")

	if _, err := uc.Create(context.Background(), CreateReservationInput{
		SpaceID:   "space-1",
		EventName: "next day",
		EventDate: "2026-09-11",
		StartTime: "10:00",
		EndTime:   "12:00",
	}, "user-1"); err != nil {
		t.Fatalf("same interval on another date should be admitted: %v", err)
	}
}

func TestCancelByOwner(t *testing.T) {
	uc, store, audits := testEngine()
	seedReservation(store, "res-1", "space-1", "user-1", "2026-09-10", "10:00", "12:00", "st-confirmed")

	reason := "plans changed"
	res, err := uc.Cancel(context.Background(), "res-1", "user-1", model.RoleUser, &reason)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if res.StatusID != testStatuses.Cancelled.UUID {
		t.Errorf("status = %s, want cancelled", res.StatusID)
	}
	stored := store.byUUID["res-1"]
	if stored.StatusID != testStatuses.Cancelled.UUID {
		t.Error("cancellation not persisted")
	}
	if stored.CancellationBy == nil || *stored.CancellationBy != "user-1" {
		t.Error("cancellation_by not recorded")
	}
	if stored.CancellationReason == nil || *stored.CancellationReason != reason {
		t.Error("cancellation reason not recorded")
	}
	if len(audits.entries) != 1 || audits.entries[0].Operation != model.AuditUpdate {
		t.Errorf("expected one update audit entry, got %+v", audits.entries)
	}
}

func TestCancelForbiddenForOtherUser(t *testing.T) {
	uc, store, _ := testEngine()
	seedReservation(store, "res-1", "space-1", "user-1", "2026-09-10", "10:00", "12:00", "st-confirmed")

	_, err := uc.Cancel(context.Background(), "res-1", "user-2", model.RoleUser, nil)
	if !errors.Is(err, repository.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
	if store.byUUID["res-1"].StatusID != "st-confirmed" {
		t.Error("reservation must stay confirmed after a forbidden cancel")
	}
}

func TestCancelByAdmin(t *testing.T) {
	uc, store, _ := testEngine()
	seedReservation(store, "res-1", "space-1", "user-1", "2026-09-10", "10:00", "12:00", "st-confirmed")

	res, err := uc.Cancel(context.Background(), "res-1", "admin-1", model.RoleAdmin, nil)
	if err != nil {
		t.Fatalf("admin cancel: %v", err)
	}
	if res.CancellationBy == nil || *res.CancellationBy != "admin-1" {
		t.Error("admin must be recorded as the cancelling actor")
	}
	if store.byUUID["res-1"].StatusID != testStatuses.Cancelled.UUID {
		t.Error("cancellation not persisted")
	}
}

func TestCancelAlreadyCancelled(t *testing.T) {
	uc, store, audits := testEngine()
	seedReservation(store, "res-1", "space-1", "user-1", "2026-09-10", "10:00", "12:00", "st-cancelled")

	_, err := uc.Cancel(context.Background(), "res-1", "user-1", model.RoleUser, nil)
	if !errors.Is(err, repository.ErrUnprocessable) {
		t.Fatalf("err = %v, want ErrUnprocessable", err)
	}
	if len(audits.entries) != 0 {
		t.Error("no audit entry expected for a rejected cancel")
	}
}

func TestCancelScheduledReservation(t *testing.T) {
	uc, store, _ := testEngine()
	seedReservation(store, "res-1", "space-1", "user-1", "2026-09-10", "10:00", "12:00", "st-scheduled")

	if _, err := uc.Cancel(context.Background(), "res-1", "user-1", model.RoleUser, nil); err != nil {
		t.Fatalf("scheduled reservations should be cancellable: %v", err)
	}
}

func TestCancelNotFound(t *testing.T) {
	uc, _, _ := testEngine()

	_, err := uc.Cancel(context.Background(), "missing", "user-1", model.RoleUser, nil)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("err = %v, want sql.ErrNoRows", err)
	}
}
