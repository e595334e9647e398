package usecase

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/kamuxx/reservas-api/internal/model"
	"github.com/kamuxx/reservas-api/internal/repository"
)

type fakeCatalogStore struct {
	spaces map[string]*model.Space
}

func newFakeCatalogStore() *fakeCatalogStore {
	return &fakeCatalogStore{spaces: make(map[string]*model.Space)}
}

func (f *fakeCatalogStore) CreateTx(ctx context.Context, tx *sql.Tx, sp *model.Space) error {
	cp := *sp
	f.spaces[sp.UUID] = &cp
	return nil
}

func (f *fakeCatalogStore) UpdateTx(ctx context.Context, tx *sql.Tx, sp *model.Space) error {
	if _, ok := f.spaces[sp.UUID]; !ok {
		return sql.ErrNoRows
	}
	cp := *sp
	f.spaces[sp.UUID] = &cp
	return nil
}

func (f *fakeCatalogStore) FindByUUID(ctx context.Context, uuid string) (*model.Space, error) {
	sp, ok := f.spaces[uuid]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *sp
	return &cp, nil
}

func (f *fakeCatalogStore) List(ctx context.Context, filter repository.ListFilter) ([]model.Space, int, error) {
	out := make([]model.Space, 0, len(f.spaces))
	for _, sp := range f.spaces {
		if filter.IsActive != nil && sp.IsActive != *filter.IsActive {
			continue
		}
		out = append(out, *sp)
	}
	return out, len(out), nil
}

func (f *fakeCatalogStore) ListAvailable(ctx context.Context, filter repository.AvailabilityFilter, cancelledStatusID string) ([]model.Space, error) {
	out := make([]model.Space, 0)
	for _, sp := range f.spaces {
		if sp.IsActive {
			out = append(out, *sp)
		}
	}
	return out, nil
}

type fakeSlotStore struct {
	slots []repository.OccupiedSlot
}

func (f *fakeSlotStore) OccupiedSlots(ctx context.Context, spaceID, fromDate, toDate, confirmedStatusID string) ([]repository.OccupiedSlot, error) {
	return f.slots, nil
}

func testCatalog() (*SpaceUseCases, *fakeCatalogStore, *fakeAuditSink) {
	store := newFakeCatalogStore()
	audits := &fakeAuditSink{}
	uc := NewSpaceUseCases(fakeRunner(), store, &fakeSlotStore{}, audits, testStatuses)
	return uc, store, audits
}

func TestRegisterSpace(t *testing.T) {
	uc, store, audits := testCatalog()

	sp, err := uc.Register(context.Background(), RegisterSpaceInput{
		Name:        "Sala Norte",
		Capacity:    20,
		SpaceTypeID: "type-1",
		IsActive:    true,
	}, "admin-1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if sp.UUID == "" {
		t.Error("space UUID not assigned")
	}
	if sp.StatusID != testStatuses.Confirmed.UUID {
		t.Errorf("status = %s, want confirmed", sp.StatusID)
	}
	if sp.CreatedBy == nil || *sp.CreatedBy != "admin-1" {
		t.Error("created_by not recorded")
	}
	if _, ok := store.spaces[sp.UUID]; !ok {
		t.Error("space not persisted")
	}
	if len(audits.entries) != 1 || audits.entries[0].Operation != model.AuditCreate {
		t.Errorf("expected one create audit entry, got %+v", audits.entries)
	}
	// The table is named spaces and audit rows key off the table name.
	if got := audits.entries[0].EntityName; got != "spaces" {
		t.Errorf("audit entity name = %q, want %q", got, "spaces")
	}
}

func TestUpdateSpacePatchesAndAudits(t *testing.T) {
	uc, store, audits := testCatalog()
	desc := "ground floor"
	store.spaces["space-1"] = &model.Space{
		UUID:        "space-1",
		Name:        "Sala Norte",
		Description: &desc,
		Capacity:    20,
		SpaceTypeID: "type-1",
		StatusID:    testStatuses.Confirmed.UUID,
		IsActive:    true,
	}

	newName := "Sala Norte B"
	inactive := false
	sp, err := uc.Update(context.Background(), "space-1", UpdateSpaceInput{
		Name:     &newName,
		IsActive: &inactive,
	}, "admin-1")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if sp.Name != newName || sp.IsActive {
		t.Errorf("patch not applied: %+v", sp)
	}
	if sp.Capacity != 20 || sp.Description == nil || *sp.Description != desc {
		t.Error("untouched fields must be preserved")
	}
	if len(audits.entries) != 1 {
		t.Fatalf("audit entries = %d, want 1", len(audits.entries))
	}
	if audits.entries[0].BeforeState == nil || audits.entries[0].AfterState == nil {
		t.Error("update audit must carry before and after state")
	}
	if got := audits.entries[0].EntityName; got != "spaces" {
		t.Errorf("audit entity name = %q, want %q", got, "spaces")
	}
}

func TestUpdateSpaceNotFound(t *testing.T) {
	uc, _, _ := testCatalog()
	name := "x"
	_, err := uc.Update(context.Background(), "missing", UpdateSpaceInput{Name: &name}, "admin-1")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("err = %v, want sql.ErrNoRows", err)
	}
}

func TestFindHidesInactiveFromUsers(t *testing.T) {
	uc, store, _ := testCatalog()
	store.spaces["space-1"] = &model.Space{UUID: "space-1", Name: "Sala", IsActive: false}

	if _, err := uc.Find(context.Background(), "space-1", model.RoleAdmin); err != nil {
		t.Fatalf("admin should see inactive spaces: %v", err)
	}
	_, err := uc.Find(context.Background(), "space-1", model.RoleUser)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("err = %v, want sql.ErrNoRows for a user viewing an inactive space", err)
	}
}

func TestOccupiedSlotsRequiresExistingSpace(t *testing.T) {
	uc, store, _ := testCatalog()

	_, err := uc.OccupiedSlots(context.Background(), "missing", "2026-09-01", "2026-09-30")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("err = %v, want sql.ErrNoRows", err)
	}

	store.spaces["space-1"] = &model.Space{UUID: "space-1", Name: "Sala", IsActive: true}
	if _, err := uc.OccupiedSlots(context.Background(), "space-1", "2026-09-01", "2026-09-30"); err != nil {
		t.Fatalf("OccupiedSlots: %v", err)
	}
}
