// Package repository persists the portal's read-only projections. Rows are
// only ever written from authoritative backend responses; event payloads and
// other provisional data stay in memory.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"deliveryPortal/models"
)

const timeFormat = time.RFC3339

// OrderProjectionRepository caches authoritative order snapshots in SQLite.
type OrderProjectionRepository struct {
	db *sql.DB
}

// NewOrderProjectionRepository creates a repository over an opened cache DB.
func NewOrderProjectionRepository(db *sql.DB) *OrderProjectionRepository {
	return &OrderProjectionRepository{db: db}
}

const orderColumns = `id, status, client_id, client_name, client_phone, livreur_id,
 description, delivery_address, delivery_lat, delivery_lng,
 created_at, assigned_at, picked_up_at, delivered_at`

// Upsert writes one authoritative order, replacing any cached row.
func (r *OrderProjectionRepository) Upsert(ctx context.Context, o *models.Order) error {
	if o == nil {
		return errors.New("order is nil")
	}
	if o.Provisional {
		return errors.New("refusing to cache a provisional order")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return r.exec(ctx, r.db, o)
}

// ReplaceAll swaps the whole cache for a fresh authoritative snapshot in one
// transaction.
func (r *OrderProjectionRepository) ReplaceAll(ctx context.Context, orders []models.Order) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM orders`); err != nil {
		_ = tx.Rollback()
		return err
	}
	for i := range orders {
		if orders[i].Provisional {
			continue
		}
		if err := r.exec(ctx, tx, &orders[i]); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *OrderProjectionRepository) exec(ctx context.Context, ex execer, o *models.Order) error {
	_, err := ex.ExecContext(ctx, `INSERT INTO orders (`+orderColumns+`, synced_at)
 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
 ON CONFLICT(id) DO UPDATE SET
   status=excluded.status, client_id=excluded.client_id,
   client_name=excluded.client_name, client_phone=excluded.client_phone,
   livreur_id=excluded.livreur_id, description=excluded.description,
   delivery_address=excluded.delivery_address,
   delivery_lat=excluded.delivery_lat, delivery_lng=excluded.delivery_lng,
   created_at=excluded.created_at, assigned_at=excluded.assigned_at,
   picked_up_at=excluded.picked_up_at, delivered_at=excluded.delivered_at,
   synced_at=CURRENT_TIMESTAMP`,
		o.ID, string(o.Status), o.ClientID, o.ClientName, o.ClientPhone, o.LivreurID,
		o.Description, o.DeliveryAddress, o.DeliveryLat, o.DeliveryLng,
		o.CreatedAt.UTC().Format(timeFormat), formatTime(o.AssignedAt),
		formatTime(o.PickedUpAt), formatTime(o.DeliveredAt))
	return err
}

// GetByID fetches a cached order, or nil when it is not cached.
func (r *OrderProjectionRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return o, err
}

// List returns cached orders newest-first.
func (r *OrderProjectionRepository) List(ctx context.Context) ([]models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

// Delete removes one cached order.
func (r *OrderProjectionRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	return err
}

// Clear drops the whole cache, e.g. on logout.
func (r *OrderProjectionRepository) Clear(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err := r.db.ExecContext(ctx, `DELETE FROM orders`)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(row scanner) (*models.Order, error) {
	var o models.Order
	var status, createdAt string
	var livreurID sql.NullString
	var lat, lng sql.NullFloat64
	var assignedAt, pickedUpAt, deliveredAt sql.NullString
	err := row.Scan(&o.ID, &status, &o.ClientID, &o.ClientName, &o.ClientPhone, &livreurID,
		&o.Description, &o.DeliveryAddress, &lat, &lng,
		&createdAt, &assignedAt, &pickedUpAt, &deliveredAt)
	if err != nil {
		return nil, err
	}
	o.Status = models.OrderStatus(status)
	if livreurID.Valid {
		v := livreurID.String
		o.LivreurID = &v
	}
	if lat.Valid {
		v := lat.Float64
		o.DeliveryLat = &v
	}
	if lng.Valid {
		v := lng.Float64
		o.DeliveryLng = &v
	}
	if t, err := time.Parse(timeFormat, createdAt); err == nil {
		o.CreatedAt = t
	}
	o.AssignedAt = parseTime(assignedAt)
	o.PickedUpAt = parseTime(pickedUpAt)
	o.DeliveredAt = parseTime(deliveredAt)
	return &o, nil
}

func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(timeFormat)
}

func parseTime(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(timeFormat, s.String)
	if err != nil {
		return nil
	}
	return &t
}
