package usecase

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/kamuxx/reservas-api/internal/database"
	"github.com/kamuxx/reservas-api/internal/model"
	"github.com/kamuxx/reservas-api/internal/repository"
)

// CatalogStore is the persistence contract for the space catalog as consumed
// by the catalog use cases.
type CatalogStore interface {
	CreateTx(ctx context.Context, tx *sql.Tx, sp *model.Space) error
	UpdateTx(ctx context.Context, tx *sql.Tx, sp *model.Space) error
	FindByUUID(ctx context.Context, uuid string) (*model.Space, error)
	List(ctx context.Context, f repository.ListFilter) ([]model.Space, int, error)
	ListAvailable(ctx context.Context, f repository.AvailabilityFilter, cancelledStatusID string) ([]model.Space, error)
}

// SlotStore answers which intervals of a space are already taken.
type SlotStore interface {
	OccupiedSlots(ctx context.Context, spaceID, fromDate, toDate, confirmedStatusID string) ([]repository.OccupiedSlot, error)
}

// SpaceUseCases owns the space catalog: admin registration and updates (both
// audited), public listing and availability search.
type SpaceUseCases struct {
	run      database.TxRunner
	spaces   CatalogStore
	slots    SlotStore
	audits   AuditSink
	statuses model.StatusSet
}

// NewSpaceUseCases wires the catalog use cases.
func NewSpaceUseCases(run database.TxRunner, spaces CatalogStore, slots SlotStore, audits AuditSink, statuses model.StatusSet) *SpaceUseCases {
	if run == nil || spaces == nil || slots == nil || audits == nil {
		panic("nil dependency passed to NewSpaceUseCases")
	}
	return &SpaceUseCases{run: run, spaces: spaces, slots: slots, audits: audits, statuses: statuses}
}

// RegisterSpaceInput carries the validated admin registration request.
type RegisterSpaceInput struct {
	Name          string
	Description   *string
	Capacity      uint32
	SpaceTypeID   string
	PricingRuleID *string
	IsActive      bool
}

// Register creates a new space in the confirmed status and appends the audit
// entry, all in one transaction.
func (u *SpaceUseCases) Register(ctx context.Context, in RegisterSpaceInput, adminUUID string) (*model.Space, error) {
	sp := &model.Space{
		UUID:          uuid.NewString(),
		Name:          in.Name,
		Description:   in.Description,
		Capacity:      in.Capacity,
		SpaceTypeID:   in.SpaceTypeID,
		StatusID:      u.statuses.Confirmed.UUID,
		PricingRuleID: in.PricingRuleID,
		IsActive:      in.IsActive,
		CreatedBy:     &adminUUID,
	}
	err := u.run(ctx, func(tx *sql.Tx) error {
		if err := u.spaces.CreateTx(ctx, tx, sp); err != nil {
			return fmt.Errorf("create space: %w", err)
		}
		after, err := json.Marshal(sp)
		if err != nil {
			return fmt.Errorf("serialize space: %w", err)
		}
		return u.audits.AppendTx(ctx, tx, model.AuditTrailEntry{
			EntityName: "spaces",
			EntityID:   sp.UUID,
			Operation:  model.AuditCreate,
			AfterState: after,
			UserUUID:   &adminUUID,
		})
	})
	if err != nil {
		return nil, err
	}
	return sp, nil
}

// UpdateSpaceInput carries the fields an admin may change on a space. Nil
// fields are left as-is.
type UpdateSpaceInput struct {
	Name          *string
	Description   *string
	Capacity      *uint32
	SpaceTypeID   *string
	StatusID      *string
	PricingRuleID *string
	IsActive      *bool
}

// Update patches a space and appends a before/after audit entry in the same
// transaction. Returns sql.ErrNoRows when the space does not exist.
func (u *SpaceUseCases) Update(ctx context.Context, spaceUUID string, in UpdateSpaceInput, adminUUID string) (*model.Space, error) {
	var sp *model.Space
	err := u.run(ctx, func(tx *sql.Tx) error {
		cur, err := u.spaces.FindByUUID(ctx, spaceUUID)
		if err != nil {
			return err
		}
		before, err := json.Marshal(cur)
		if err != nil {
			return fmt.Errorf("serialize space: %w", err)
		}

		next := *cur
		if in.Name != nil {
			next.Name = *in.Name
		}
		if in.Description != nil {
			next.Description = in.Description
		}
		if in.Capacity != nil {
			next.Capacity = *in.Capacity
		}
		if in.SpaceTypeID != nil {
			next.SpaceTypeID = *in.SpaceTypeID
		}
		if in.StatusID != nil {
			next.StatusID = *in.StatusID
		}
		if in.PricingRuleID != nil {
			next.PricingRuleID = in.PricingRuleID
		}
		if in.IsActive != nil {
			next.IsActive = *in.IsActive
		}

		if err := u.spaces.UpdateTx(ctx, tx, &next); err != nil {
			return fmt.Errorf("update space: %w", err)
		}
		after, err := json.Marshal(&next)
		if err != nil {
			return fmt.Errorf("serialize space: %w", err)
		}
		sp = &next
		return u.audits.AppendTx(ctx, tx, model.AuditTrailEntry{
			EntityName:  "spaces",
			EntityID:    next.UUID,
			Operation:   model.AuditUpdate,
			BeforeState: before,
			AfterState:  after,
			UserUUID:    &adminUUID,
		})
	})
	if err != nil {
		return nil, err
	}
	return sp, nil
}

// Find returns one space. Non-admin callers only see active spaces; an
// inactive space looks absent to them.
func (u *SpaceUseCases) Find(ctx context.Context, spaceUUID string, role model.Role) (*model.Space, error) {
	sp, err := u.spaces.FindByUUID(ctx, spaceUUID)
	if err != nil {
		return nil, err
	}
	if role != model.RoleAdmin && !sp.IsActive {
		return nil, sql.ErrNoRows
	}
	return sp, nil
}

// List returns a page of spaces plus the total match count.
func (u *SpaceUseCases) List(ctx context.Context, f repository.ListFilter) ([]model.Space, int, error) {
	return u.spaces.List(ctx, f)
}

// ListAvailable returns the spaces bookable on the filter's date.
func (u *SpaceUseCases) ListAvailable(ctx context.Context, f repository.AvailabilityFilter) ([]model.Space, error) {
	return u.spaces.ListAvailable(ctx, f, u.statuses.Cancelled.UUID)
}

// OccupiedSlots lists the confirmed booking intervals for a space across a
// date range.
func (u *SpaceUseCases) OccupiedSlots(ctx context.Context, spaceUUID, fromDate, toDate string) ([]repository.OccupiedSlot, error) {
	if _, err := u.spaces.FindByUUID(ctx, spaceUUID); err != nil {
		return nil, err
	}
	return u.slots.OccupiedSlots(ctx, spaceUUID, fromDate, toDate, u.statuses.Confirmed.UUID)
}
