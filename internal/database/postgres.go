package database

import (
	"database/sql"
	"fmt"

	"property-admin/internal/models"

	_ "github.com/lib/pq"
)

// DB is the legacy PostgreSQL path. It predates the GORM layer and only
// covers read access to units and rents; everything else requires MySQL.
type DB struct {
	conn *sql.DB
}

func NewDB(host, port, user, password, dbname string) (*DB, error) {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := conn.Ping(); err != nil {
		return nil, err
	}

	return &DB{conn: conn}, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

// InitSchema creates the units and rents tables if they don't exist
func (db *DB) InitSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS units (
		id BIGSERIAL PRIMARY KEY,
		building_id BIGINT,
		name VARCHAR(255) NOT NULL,
		city VARCHAR(100),
		district VARCHAR(100),

		price_per_day DECIMAL(10, 2),
		owner_id BIGINT,
		owner_percentage DECIMAL(5, 2),

		status VARCHAR(20) NOT NULL DEFAULT 'available',
		notes TEXT,

		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS rents (
		id BIGSERIAL PRIMARY KEY,
		unit_id BIGINT NOT NULL,
		tenant_id BIGINT NOT NULL,

		rent_start VARCHAR(10) NOT NULL,
		rent_end VARCHAR(10) NOT NULL,
		total_amount DECIMAL(10, 2) NOT NULL,
		payment_status VARCHAR(20) NOT NULL DEFAULT 'pending',
		payment_method VARCHAR(30),
		payment_date VARCHAR(10),
		notes TEXT,

		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	-- Create indexes for filtering
	CREATE INDEX IF NOT EXISTS idx_units_created_at ON units(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_units_status ON units(status);
	CREATE INDEX IF NOT EXISTS idx_rents_unit_id ON rents(unit_id);
	CREATE INDEX IF NOT EXISTS idx_rents_tenant_id ON rents(tenant_id);
	CREATE INDEX IF NOT EXISTS idx_rents_payment_status ON rents(payment_status);
	`
	_, err := db.conn.Exec(query)
	return err
}

// GetAllUnits retrieves all units from the database
func (db *DB) GetAllUnits() ([]models.Unit, error) {
	query := `
		SELECT id, building_id, name, city, district,
			   price_per_day, owner_id, owner_percentage, status, notes,
			   created_at, updated_at
		FROM units
		ORDER BY created_at DESC
	`

	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var units []models.Unit
	for rows.Next() {
		var u models.Unit
		err := rows.Scan(
			&u.ID, &u.BuildingID, &u.Name, &u.City, &u.District,
			&u.PricePerDay, &u.OwnerID, &u.OwnerPercentage, &u.Status, &u.Notes,
			&u.CreatedAt, &u.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		units = append(units, u)
	}

	return units, rows.Err()
}

// GetUnitByID retrieves a unit by ID
func (db *DB) GetUnitByID(id int64) (*models.Unit, error) {
	query := `
		SELECT id, building_id, name, city, district,
			   price_per_day, owner_id, owner_percentage, status, notes,
			   created_at, updated_at
		FROM units
		WHERE id = $1
	`

	var u models.Unit
	err := db.conn.QueryRow(query, id).Scan(
		&u.ID, &u.BuildingID, &u.Name, &u.City, &u.District,
		&u.PricePerDay, &u.OwnerID, &u.OwnerPercentage, &u.Status, &u.Notes,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

// GetRents retrieves rents with optional unit/tenant filters
func (db *DB) GetRents(filters RentFilters) ([]models.Rent, error) {
	query := `
		SELECT id, unit_id, tenant_id, rent_start, rent_end,
			   total_amount, payment_status, payment_method, payment_date, notes,
			   created_at, updated_at
		FROM rents
	`
	args := []interface{}{}

	switch {
	case filters.UnitID != nil && filters.TenantID != nil:
		query += " WHERE unit_id = $1 AND tenant_id = $2"
		args = append(args, *filters.UnitID, *filters.TenantID)
	case filters.UnitID != nil:
		query += " WHERE unit_id = $1"
		args = append(args, *filters.UnitID)
	case filters.TenantID != nil:
		query += " WHERE tenant_id = $1"
		args = append(args, *filters.TenantID)
	}
	query += " ORDER BY rent_start DESC"

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rents []models.Rent
	for rows.Next() {
		var r models.Rent
		err := rows.Scan(
			&r.ID, &r.UnitID, &r.TenantID, &r.RentStart, &r.RentEnd,
			&r.TotalAmount, &r.PaymentStatus, &r.PaymentMethod, &r.PaymentDate, &r.Notes,
			&r.CreatedAt, &r.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		rents = append(rents, r)
	}

	return rents, rows.Err()
}
