package database

import (
	"fmt"
	"time"

	"property-admin/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type GormDB struct {
	db *gorm.DB
}

func NewGormDB(host, port, user, password, dbname string) (*GormDB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, password, host, port, dbname)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().Local()
		},
	})
	if err != nil {
		return nil, err
	}

	// Test connection
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}

	return &GormDB{db: db}, nil
}

// NewGormDBFromDB creates a GormDB wrapper from an existing gorm.DB instance
func NewGormDBFromDB(db *gorm.DB) *GormDB {
	return &GormDB{db: db}
}

// DB returns the underlying gorm.DB instance
func (gdb *GormDB) DB() *gorm.DB {
	return gdb.db
}

func (gdb *GormDB) Close() error {
	sqlDB, err := gdb.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// InitSchema creates tables using GORM AutoMigrate
func (gdb *GormDB) InitSchema() error {
	// AutoMigrate will create tables if they don't exist
	return gdb.db.AutoMigrate(
		&models.Building{},
		&models.Unit{},
		&models.Owner{},
		&models.Tenant{},
		&models.Rent{},
		&models.OccasionalPayment{},
		&models.Contract{},
		&models.MaintenanceRequest{},
		&models.Review{},
		&models.RevenueSnapshot{},
		&models.AuditLog{},
	)
}

// ----- Units -----

func (gdb *GormDB) CreateUnit(u *models.Unit) error {
	if u.Status == "" {
		u.Status = models.UnitStatusAvailable
	}
	return gdb.db.Create(u).Error
}

func (gdb *GormDB) GetUnits() ([]models.Unit, error) {
	var units []models.Unit
	err := gdb.db.Order("created_at DESC").Find(&units).Error
	return units, err
}

func (gdb *GormDB) GetUnitByID(id int64) (*models.Unit, error) {
	var unit models.Unit
	if err := gdb.db.First(&unit, id).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

// GetUnitsByIDs batch-fetches units for a set of ids in one query. The
// calendar and ledger use this instead of N single-unit lookups.
func (gdb *GormDB) GetUnitsByIDs(ids []int64) (map[int64]models.Unit, error) {
	byID := make(map[int64]models.Unit, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}

	var units []models.Unit
	if err := gdb.db.Where("id IN ?", ids).Find(&units).Error; err != nil {
		return nil, err
	}
	for _, u := range units {
		byID[u.ID] = u
	}
	return byID, nil
}

func (gdb *GormDB) UpdateUnit(id int64, updates map[string]interface{}) (*models.Unit, error) {
	if err := gdb.db.Model(&models.Unit{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return gdb.GetUnitByID(id)
}

func (gdb *GormDB) DeleteUnit(id int64) error {
	return gdb.db.Delete(&models.Unit{}, id).Error
}

// ----- Buildings -----

func (gdb *GormDB) CreateBuilding(b *models.Building) error {
	return gdb.db.Create(b).Error
}

func (gdb *GormDB) GetBuildings() ([]models.Building, error) {
	var buildings []models.Building
	err := gdb.db.Order("created_at DESC").Find(&buildings).Error
	return buildings, err
}

func (gdb *GormDB) GetBuildingByID(id int64) (*models.Building, error) {
	var building models.Building
	if err := gdb.db.First(&building, id).Error; err != nil {
		return nil, err
	}
	return &building, nil
}

func (gdb *GormDB) UpdateBuilding(id int64, updates map[string]interface{}) (*models.Building, error) {
	if err := gdb.db.Model(&models.Building{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return gdb.GetBuildingByID(id)
}

func (gdb *GormDB) DeleteBuilding(id int64) error {
	return gdb.db.Delete(&models.Building{}, id).Error
}

// ----- Owners -----

func (gdb *GormDB) CreateOwner(o *models.Owner) error {
	return gdb.db.Create(o).Error
}

func (gdb *GormDB) GetOwners() ([]models.Owner, error) {
	var owners []models.Owner
	err := gdb.db.Order("created_at DESC").Find(&owners).Error
	return owners, err
}

func (gdb *GormDB) GetOwnerByID(id int64) (*models.Owner, error) {
	var owner models.Owner
	if err := gdb.db.First(&owner, id).Error; err != nil {
		return nil, err
	}
	return &owner, nil
}

func (gdb *GormDB) UpdateOwner(id int64, updates map[string]interface{}) (*models.Owner, error) {
	if err := gdb.db.Model(&models.Owner{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return gdb.GetOwnerByID(id)
}

func (gdb *GormDB) DeleteOwner(id int64) error {
	return gdb.db.Delete(&models.Owner{}, id).Error
}

// ----- Tenants -----

func (gdb *GormDB) CreateTenant(t *models.Tenant) error {
	return gdb.db.Create(t).Error
}

func (gdb *GormDB) GetTenants() ([]models.Tenant, error) {
	var tenants []models.Tenant
	err := gdb.db.Order("created_at DESC").Find(&tenants).Error
	return tenants, err
}

func (gdb *GormDB) GetTenantByID(id int64) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := gdb.db.First(&tenant, id).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (gdb *GormDB) UpdateTenant(id int64, updates map[string]interface{}) (*models.Tenant, error) {
	if err := gdb.db.Model(&models.Tenant{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return gdb.GetTenantByID(id)
}

func (gdb *GormDB) DeleteTenant(id int64) error {
	return gdb.db.Delete(&models.Tenant{}, id).Error
}

// ----- Rents -----

// RentFilters narrows the rent listing
type RentFilters struct {
	UnitID   *int64
	TenantID *int64
}

func (gdb *GormDB) CreateRent(r *models.Rent) error {
	if r.PaymentStatus == "" {
		r.PaymentStatus = models.PaymentStatusPending
	}
	return gdb.db.Create(r).Error
}

func (gdb *GormDB) GetRents(filters RentFilters) ([]models.Rent, error) {
	query := gdb.db.Order("rent_start DESC")
	if filters.UnitID != nil {
		query = query.Where("unit_id = ?", *filters.UnitID)
	}
	if filters.TenantID != nil {
		query = query.Where("tenant_id = ?", *filters.TenantID)
	}

	var rents []models.Rent
	err := query.Find(&rents).Error
	return rents, err
}

func (gdb *GormDB) GetRentByID(id int64) (*models.Rent, error) {
	var rent models.Rent
	if err := gdb.db.First(&rent, id).Error; err != nil {
		return nil, err
	}
	return &rent, nil
}

func (gdb *GormDB) UpdateRent(id int64, updates map[string]interface{}) (*models.Rent, error) {
	if err := gdb.db.Model(&models.Rent{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return gdb.GetRentByID(id)
}

func (gdb *GormDB) DeleteRent(id int64) error {
	return gdb.db.Delete(&models.Rent{}, id).Error
}

// MarkOverdueRents flips pending rents whose period ended before the given
// day to overdue. Date strings are ISO formatted, so lexicographic
// comparison in SQL matches chronological order. Returns affected rent ids.
func (gdb *GormDB) MarkOverdueRents(day time.Time) ([]int64, error) {
	cutoff := day.Format(models.DateLayout)

	var ids []int64
	err := gdb.db.Model(&models.Rent{}).
		Where("payment_status = ? AND rent_end < ?", models.PaymentStatusPending, cutoff).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	err = gdb.db.Model(&models.Rent{}).
		Where("id IN ?", ids).
		Update("payment_status", models.PaymentStatusOverdue).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ----- Occasional payments -----

func (gdb *GormDB) CreateOccasionalPayment(p *models.OccasionalPayment) error {
	return gdb.db.Create(p).Error
}

func (gdb *GormDB) GetOccasionalPaymentsByUnit(unitID int64) ([]models.OccasionalPayment, error) {
	var payments []models.OccasionalPayment
	err := gdb.db.Where("unit_id = ?", unitID).Order("created_at DESC").Find(&payments).Error
	return payments, err
}

// GetOccasionalPaymentsGroupedByUnit returns every occasional payment keyed
// by unit id, the shape the ledger merge consumes.
func (gdb *GormDB) GetOccasionalPaymentsGroupedByUnit() (map[int64][]models.OccasionalPayment, error) {
	var payments []models.OccasionalPayment
	if err := gdb.db.Order("created_at DESC").Find(&payments).Error; err != nil {
		return nil, err
	}

	grouped := make(map[int64][]models.OccasionalPayment)
	for _, p := range payments {
		grouped[p.UnitID] = append(grouped[p.UnitID], p)
	}
	return grouped, nil
}

func (gdb *GormDB) GetOccasionalPaymentByID(unitID, paymentID int64) (*models.OccasionalPayment, error) {
	var payment models.OccasionalPayment
	err := gdb.db.Where("id = ? AND unit_id = ?", paymentID, unitID).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (gdb *GormDB) UpdateOccasionalPayment(unitID, paymentID int64, updates map[string]interface{}) (*models.OccasionalPayment, error) {
	err := gdb.db.Model(&models.OccasionalPayment{}).
		Where("id = ? AND unit_id = ?", paymentID, unitID).
		Updates(updates).Error
	if err != nil {
		return nil, err
	}
	return gdb.GetOccasionalPaymentByID(unitID, paymentID)
}

func (gdb *GormDB) DeleteOccasionalPayment(unitID, paymentID int64) error {
	return gdb.db.Where("id = ? AND unit_id = ?", paymentID, unitID).
		Delete(&models.OccasionalPayment{}).Error
}

// ----- Contracts -----

func (gdb *GormDB) CreateContract(c *models.Contract) error {
	return gdb.db.Create(c).Error
}

func (gdb *GormDB) GetContracts() ([]models.Contract, error) {
	var contracts []models.Contract
	err := gdb.db.Order("created_at DESC").Find(&contracts).Error
	return contracts, err
}

func (gdb *GormDB) GetContractByID(id int64) (*models.Contract, error) {
	var contract models.Contract
	if err := gdb.db.First(&contract, id).Error; err != nil {
		return nil, err
	}
	return &contract, nil
}

func (gdb *GormDB) UpdateContract(id int64, updates map[string]interface{}) (*models.Contract, error) {
	if err := gdb.db.Model(&models.Contract{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return gdb.GetContractByID(id)
}

func (gdb *GormDB) DeleteContract(id int64) error {
	return gdb.db.Delete(&models.Contract{}, id).Error
}

// ----- Maintenance requests -----

func (gdb *GormDB) CreateMaintenanceRequest(m *models.MaintenanceRequest) error {
	if m.Status == "" {
		m.Status = models.MaintenanceStatusOpen
	}
	if m.ReportedAt.IsZero() {
		m.ReportedAt = time.Now()
	}
	return gdb.db.Create(m).Error
}

func (gdb *GormDB) GetMaintenanceRequests() ([]models.MaintenanceRequest, error) {
	var requests []models.MaintenanceRequest
	err := gdb.db.Order("reported_at DESC").Find(&requests).Error
	return requests, err
}

func (gdb *GormDB) GetMaintenanceRequestByID(id int64) (*models.MaintenanceRequest, error) {
	var request models.MaintenanceRequest
	if err := gdb.db.First(&request, id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (gdb *GormDB) UpdateMaintenanceRequest(id int64, updates map[string]interface{}) (*models.MaintenanceRequest, error) {
	if err := gdb.db.Model(&models.MaintenanceRequest{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return gdb.GetMaintenanceRequestByID(id)
}

func (gdb *GormDB) DeleteMaintenanceRequest(id int64) error {
	return gdb.db.Delete(&models.MaintenanceRequest{}, id).Error
}

// ----- Reviews -----

func (gdb *GormDB) CreateReview(r *models.Review) error {
	return gdb.db.Create(r).Error
}

func (gdb *GormDB) GetReviews() ([]models.Review, error) {
	var reviews []models.Review
	err := gdb.db.Order("created_at DESC").Find(&reviews).Error
	return reviews, err
}

func (gdb *GormDB) GetReviewByID(id int64) (*models.Review, error) {
	var review models.Review
	if err := gdb.db.First(&review, id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (gdb *GormDB) UpdateReview(id int64, updates map[string]interface{}) (*models.Review, error) {
	if err := gdb.db.Model(&models.Review{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return gdb.GetReviewByID(id)
}

func (gdb *GormDB) DeleteReview(id int64) error {
	return gdb.db.Delete(&models.Review{}, id).Error
}

// ----- Audit log -----

func (gdb *GormDB) RecordAudit(entity string, entityID int64, action, detail string) error {
	entry := models.AuditLog{
		Entity:   entity,
		EntityID: entityID,
		Action:   action,
		Detail:   detail,
	}
	return gdb.db.Create(&entry).Error
}

func (gdb *GormDB) GetRecentAuditLogs(limit int) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	query := gdb.db.Order("recorded_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&logs).Error
	return logs, err
}
