package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kamuxx/reservas-api/internal/model"
)

// SpaceRepo provides read access to the spaces catalog plus the pessimistic
// lock taken during reservation admission. Spaces are owned by the catalog
// subsystem; the reservation core only reads them, but admission serializes
// on the space row via SELECT ... FOR UPDATE so that overlap checks for the
// same space never run concurrently.
type SpaceRepo struct {
	db *sql.DB
}

// NewSpaceRepo returns a new SpaceRepo bound to the given database.
func NewSpaceRepo(db *sql.DB) *SpaceRepo { return &SpaceRepo{db: db} }

const spaceColumns = `uuid, name, description, capacity, spaces_type_id, status_id,
	pricing_rule_id, is_active, created_by, created_at, updated_at`

func scanSpace(row interface{ Scan(...any) error }) (*model.Space, error) {
	var sp model.Space
	var desc, ruleID, createdBy sql.NullString
	err := row.Scan(&sp.UUID, &sp.Name, &desc, &sp.Capacity, &sp.SpaceTypeID,
		&sp.StatusID, &ruleID, &sp.IsActive, &createdBy, &sp.CreatedAt, &sp.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if desc.Valid {
		sp.Description = &desc.String
	}
	if ruleID.Valid {
		sp.PricingRuleID = &ruleID.String
	}
	if createdBy.Valid {
		sp.CreatedBy = &createdBy.String
	}
	return &sp, nil
}

// GetForUpdateTx loads a space by UUID with a pessimistic write lock held for
// the duration of the transaction, and attaches its pricing rule when one is
// assigned. The rule is read in a second statement because MySQL does not
// combine FOR UPDATE cleanly with the LEFT JOIN; only the space row needs the
// lock. Returns sql.ErrNoRows when the space does not exist.
func (r *SpaceRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, uuid string) (*model.Space, error) {
	const q = `SELECT ` + spaceColumns + ` FROM spaces WHERE uuid = ? FOR UPDATE`
	sp, err := scanSpace(tx.QueryRowContext(ctx, q, uuid))
	if err != nil {
		return nil, err
	}
	if sp.PricingRuleID != nil {
		rule, err := getPricingRule(ctx, tx, *sp.PricingRuleID)
		if err != nil && err != sql.ErrNoRows {
			return nil, err
		}
		sp.PricingRule = rule // nil when the referenced rule row is gone
	}
	return sp, nil
}

// FindByUUID fetches a single space without locking. Returns sql.ErrNoRows
// when absent.
func (r *SpaceRepo) FindByUUID(ctx context.Context, uuid string) (*model.Space, error) {
	const q = `SELECT ` + spaceColumns + ` FROM spaces WHERE uuid = ?`
	return scanSpace(r.db.QueryRowContext(ctx, q, uuid))
}

// CreateTx inserts a new space within the provided transaction and reads the
// row back to populate database-generated timestamps.
func (r *SpaceRepo) CreateTx(ctx context.Context, tx *sql.Tx, sp *model.Space) error {
	const q = `INSERT INTO spaces
		(uuid, name, description, capacity, spaces_type_id, status_id, pricing_rule_id, is_active, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := tx.ExecContext(ctx, q, sp.UUID, sp.Name, sp.Description, sp.Capacity,
		sp.SpaceTypeID, sp.StatusID, sp.PricingRuleID, sp.IsActive, sp.CreatedBy)
	if err != nil {
		return err
	}
	const sel = `SELECT created_at, updated_at FROM spaces WHERE uuid = ?`
	return tx.QueryRowContext(ctx, sel, sp.UUID).Scan(&sp.CreatedAt, &sp.UpdatedAt)
}

// UpdateTx rewrites the mutable columns of a space within the provided
// transaction. The caller is expected to have loaded the current row first
// so the audit trail can record the before state.
func (r *SpaceRepo) UpdateTx(ctx context.Context, tx *sql.Tx, sp *model.Space) error {
	const q = `UPDATE spaces
		SET name = ?, description = ?, capacity = ?, spaces_type_id = ?, status_id = ?,
		    pricing_rule_id = ?, is_active = ?
		WHERE uuid = ?`
	res, err := tx.ExecContext(ctx, q, sp.Name, sp.Description, sp.Capacity,
		sp.SpaceTypeID, sp.StatusID, sp.PricingRuleID, sp.IsActive, sp.UUID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// RowsAffected is 0 both for a missing row and for a no-op update;
		// distinguish by re-reading.
		var one int
		if err := tx.QueryRowContext(ctx, `SELECT 1 FROM spaces WHERE uuid = ?`, sp.UUID).Scan(&one); err != nil {
			return err
		}
	}
	const sel = `SELECT created_at, updated_at FROM spaces WHERE uuid = ?`
	return tx.QueryRowContext(ctx, sel, sp.UUID).Scan(&sp.CreatedAt, &sp.UpdatedAt)
}

// ListFilter narrows the paginated space listing.
type ListFilter struct {
	IsActive    *bool
	SpaceTypeID *string
	MinCapacity *uint32
	Page        int
	PerPage     int
}

// List returns a page of spaces matching the filter plus the total match
// count for pagination headers.
func (r *SpaceRepo) List(ctx context.Context, f ListFilter) ([]model.Space, int, error) {
	where := []string{"1=1"}
	args := []any{}
	if f.IsActive != nil {
		where = append(where, "is_active = ?")
		args = append(args, *f.IsActive)
	}
	if f.SpaceTypeID != nil {
		where = append(where, "spaces_type_id = ?")
		args = append(args, *f.SpaceTypeID)
	}
	if f.MinCapacity != nil {
		where = append(where, "capacity >= ?")
		args = append(args, *f.MinCapacity)
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM spaces WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	perPage := f.PerPage
	if perPage <= 0 {
		perPage = 15
	}
	page := f.Page
	if page < 1 {
		page = 1
	}
	q := `SELECT ` + spaceColumns + ` FROM spaces WHERE ` + cond + ` ORDER BY name LIMIT ? OFFSET ?`
	args = append(args, perPage, (page-1)*perPage)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	spaces := make([]model.Space, 0)
	for rows.Next() {
		sp, err := scanSpace(rows)
		if err != nil {
			return nil, 0, err
		}
		spaces = append(spaces, *sp)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return spaces, total, nil
}

// AvailabilityFilter narrows the available-space query for one target date.
// FeatureIDs use AND semantics: a space qualifies only when it has every
// requested feature. PriceMin/PriceMax range over the pricing rule's
// adjustment value, not a computed per-booking price.
type AvailabilityFilter struct {
	Date        string // YYYY-MM-DD, required
	SpaceTypeID *string
	MinCapacity *uint32
	FeatureIDs  []string
	PriceMin    *decimal.Decimal
	PriceMax    *decimal.Decimal
}

// ListAvailable answers "which spaces are free on date D". SQL narrows the
// candidates by the static filters (active, type, capacity, features, price).
// The per-date rules, the default-open availability schedule and the
// fully-booked day, are applied through model.ScheduleAllows and
// model.FullyBooked on the rows loaded for the date.
func (r *SpaceRepo) ListAvailable(ctx context.Context, f AvailabilityFilter, cancelledStatusID string) ([]model.Space, error) {
	var b strings.Builder
	b.WriteString(`SELECT s.uuid, s.name, s.description, s.capacity, s.spaces_type_id, s.status_id,
		s.pricing_rule_id, s.is_active, s.created_by, s.created_at, s.updated_at
		FROM spaces s
		LEFT JOIN pricing_rules pr ON pr.uuid = s.pricing_rule_id
		WHERE s.is_active = TRUE`)
	args := []any{}

	if f.SpaceTypeID != nil {
		b.WriteString(" AND s.spaces_type_id = ?")
		args = append(args, *f.SpaceTypeID)
	}
	if f.MinCapacity != nil {
		b.WriteString(" AND s.capacity >= ?")
		args = append(args, *f.MinCapacity)
	}
	if f.PriceMin != nil {
		b.WriteString(" AND pr.price_adjustment >= ?")
		args = append(args, *f.PriceMin)
	}
	if f.PriceMax != nil {
		b.WriteString(" AND pr.price_adjustment <= ?")
		args = append(args, *f.PriceMax)
	}
	for _, fid := range f.FeatureIDs {
		b.WriteString(` AND EXISTS (SELECT 1 FROM space_features sf
			WHERE sf.space_id = s.uuid AND sf.feature_id = ?)`)
		args = append(args, fid)
	}

	b.WriteString(" ORDER BY s.name")

	rows, err := r.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	candidates := make([]model.Space, 0)
	for rows.Next() {
		sp, err := scanSpace(rows)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, *sp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return candidates, nil
	}

	declared, openForDate, err := r.scheduleIndex(ctx, f.Date)
	if err != nil {
		return nil, err
	}
	booked, err := r.bookedIntervals(ctx, f.Date, cancelledStatusID)
	if err != nil {
		return nil, err
	}

	spaces := make([]model.Space, 0, len(candidates))
	for _, sp := range candidates {
		if !model.ScheduleAllows(declared[sp.UUID], openForDate[sp.UUID]) {
			continue
		}
		if model.FullyBooked(booked[sp.UUID]) {
			continue
		}
		spaces = append(spaces, sp)
	}
	return spaces, nil
}

// scheduleIndex loads the non-deleted availability schedule: how many rows
// each space has declared, and which spaces declare the target date open.
func (r *SpaceRepo) scheduleIndex(ctx context.Context, date string) (map[string]int, map[string]bool, error) {
	const q = `SELECT space_id, available_date, is_available
		FROM space_availabilities WHERE deleted_at IS NULL`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	declared := make(map[string]int)
	open := make(map[string]bool)
	for rows.Next() {
		var spaceID string
		var d time.Time
		var avail bool
		if err := rows.Scan(&spaceID, &d, &avail); err != nil {
			return nil, nil, err
		}
		declared[spaceID]++
		if avail && d.UTC().Format("2006-01-02") == date {
			open[spaceID] = true
		}
	}
	return declared, open, rows.Err()
}

// bookedIntervals loads the non-cancelled, non-deleted booking intervals per
// space for one date.
func (r *SpaceRepo) bookedIntervals(ctx context.Context, date, cancelledStatusID string) (map[string][]model.Interval, error) {
	const q = `SELECT space_id, start_time, end_time FROM reservation
		WHERE event_date = ? AND status_id <> ? AND deleted_at IS NULL`
	rows, err := r.db.QueryContext(ctx, q, date, cancelledStatusID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	booked := make(map[string][]model.Interval)
	for rows.Next() {
		var spaceID string
		var iv model.Interval
		if err := rows.Scan(&spaceID, &iv.Start, &iv.End); err != nil {
			return nil, err
		}
		booked[spaceID] = append(booked[spaceID], iv)
	}
	return booked, rows.Err()
}

// getPricingRule loads one pricing rule inside the provided transaction.
func getPricingRule(ctx context.Context, tx *sql.Tx, uuid string) (*model.PricingRule, error) {
	const q = `SELECT uuid, name, description, rule_type, days_before_min, days_before_max,
		price_adjustment, adjustment_type, applicable_days, valid_from, valid_until,
		priority, is_active, created_at, updated_at
		FROM pricing_rules WHERE uuid = ?`
	var pr model.PricingRule
	var desc, days sql.NullString
	var minDays, maxDays sql.NullInt64
	var validFromT, validUntilT sql.NullTime
	err := tx.QueryRowContext(ctx, q, uuid).Scan(&pr.UUID, &pr.Name, &desc, &pr.RuleType,
		&minDays, &maxDays, &pr.PriceAdjustment, &pr.AdjustmentType, &days,
		&validFromT, &validUntilT, &pr.Priority, &pr.IsActive, &pr.CreatedAt, &pr.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if desc.Valid {
		pr.Description = &desc.String
	}
	if minDays.Valid {
		n := int(minDays.Int64)
		pr.DaysBeforeMin = &n
	}
	if maxDays.Valid {
		n := int(maxDays.Int64)
		pr.DaysBeforeMax = &n
	}
	if days.Valid && days.String != "" {
		// applicable_days is stored as a JSON array of weekday numbers
		_ = json.Unmarshal([]byte(days.String), &pr.ApplicableDays)
	}
	if validFromT.Valid {
		s := validFromT.Time.Format("2006-01-02")
		pr.ValidFrom = &s
	}
	if validUntilT.Valid {
		s := validUntilT.Time.Format("2006-01-02")
		pr.ValidUntil = &s
	}
	return &pr, nil
}
