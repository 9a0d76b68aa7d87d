// interfaces.go: defines the interface for sighting storage operations
package datastore

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/wildtrack/wildtrack-go/internal/conf"
	"github.com/wildtrack/wildtrack-go/internal/errors"
	"github.com/wildtrack/wildtrack-go/internal/fingerprint"
)

// Interface abstracts the underlying database implementation.
type Interface interface {
	Open() error
	Close() error
	Save(s *Sighting) (bool, error)
	Get(id string) (Sighting, error)
	GetByFingerprint(fp fingerprint.Fingerprint) (Sighting, error)
	AllFingerprints() ([]fingerprint.Fingerprint, error)
	Recent(limit int) ([]Sighting, error)
	Search(filter SearchFilter) ([]Sighting, error)
	CountByRecommendation() (map[string]int64, error)
	CountByZone() (map[string]int64, error)
}

// SearchFilter narrows a sighting query. Zero values mean "any".
type SearchFilter struct {
	Species     string
	ZoneCode    string
	SourceKind  string
	Date        string // observation day, ISO 8601
	NeedsReview *bool
	Limit       int
	Offset      int
}

// DataStore implements the shared query surface on top of a GORM database.
type DataStore struct {
	DB *gorm.DB
}

// New selects a store implementation based on the output settings.
func New(settings *conf.Settings) (Interface, error) {
	switch {
	case settings.Output.SQLite.Enabled:
		return &SQLiteStore{Settings: settings}, nil
	case settings.Output.MySQL.Enabled:
		return &MySQLStore{Settings: settings}, nil
	default:
		return nil, errors.Newf("no database output enabled").
			Component("datastore").
			Category(errors.CategoryConfiguration).
			Build()
	}
}

// Save inserts a sighting, treating a fingerprint collision as "already
// stored": the insert is skipped and Save reports inserted=false.
// Re-ingestion of an existing fingerprint is a no-op, never an error.
func (ds *DataStore) Save(s *Sighting) (bool, error) {
	if ds.DB == nil {
		return false, errors.Newf("database connection is not initialized").
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}
	result := ds.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "fingerprint"}},
		DoNothing: true,
	}).Create(s)
	if result.Error != nil {
		return false, errors.New(fmt.Errorf("saving sighting: %w", result.Error)).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("fingerprint", s.Fingerprint).
			Build()
	}
	return result.RowsAffected > 0, nil
}

// Get retrieves a sighting by its ID.
func (ds *DataStore) Get(id string) (Sighting, error) {
	var s Sighting
	if err := ds.DB.First(&s, "id = ?", id).Error; err != nil {
		return Sighting{}, fmt.Errorf("getting sighting %s: %w", id, err)
	}
	return s, nil
}

// GetByFingerprint retrieves the single record stored for a fingerprint.
func (ds *DataStore) GetByFingerprint(fp fingerprint.Fingerprint) (Sighting, error) {
	var s Sighting
	if err := ds.DB.First(&s, "fingerprint = ?", string(fp)).Error; err != nil {
		return Sighting{}, fmt.Errorf("getting sighting by fingerprint: %w", err)
	}
	return s, nil
}

// AllFingerprints returns every stored fingerprint, used to seed the
// deduplication set at the start of an ingestion run.
func (ds *DataStore) AllFingerprints() ([]fingerprint.Fingerprint, error) {
	var values []string
	if err := ds.DB.Model(&Sighting{}).Pluck("fingerprint", &values).Error; err != nil {
		return nil, fmt.Errorf("listing fingerprints: %w", err)
	}
	fps := make([]fingerprint.Fingerprint, len(values))
	for i, v := range values {
		fps[i] = fingerprint.Fingerprint(v)
	}
	return fps, nil
}

// Recent returns the most recently stored sightings, newest first.
func (ds *DataStore) Recent(limit int) ([]Sighting, error) {
	if limit <= 0 {
		limit = 25
	}
	var sightings []Sighting
	err := ds.DB.Order("created_at DESC").Limit(limit).Find(&sightings).Error
	if err != nil {
		return nil, fmt.Errorf("listing recent sightings: %w", err)
	}
	return sightings, nil
}

// Search returns sightings matching the filter, newest first.
func (ds *DataStore) Search(filter SearchFilter) ([]Sighting, error) {
	query := ds.DB.Model(&Sighting{})
	if filter.Species != "" {
		query = query.Where("species = ?", filter.Species)
	}
	if filter.ZoneCode != "" {
		query = query.Where("zone_code = ?", filter.ZoneCode)
	}
	if filter.SourceKind != "" {
		query = query.Where("source_kind = ?", filter.SourceKind)
	}
	if filter.Date != "" {
		query = query.Where("date = ?", filter.Date)
	}
	if filter.NeedsReview != nil {
		query = query.Where("needs_review = ?", *filter.NeedsReview)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	var sightings []Sighting
	if err := query.Order("observed_at DESC").Find(&sightings).Error; err != nil {
		return nil, fmt.Errorf("searching sightings: %w", err)
	}
	return sightings, nil
}

// CountByRecommendation groups stored sightings by their verdict
// recommendation.
func (ds *DataStore) CountByRecommendation() (map[string]int64, error) {
	return ds.countGrouped("recommendation")
}

// CountByZone groups stored sightings by attributed zone.
func (ds *DataStore) CountByZone() (map[string]int64, error) {
	return ds.countGrouped("zone_code")
}

func (ds *DataStore) countGrouped(column string) (map[string]int64, error) {
	type row struct {
		Value string
		Count int64
	}
	var rows []row
	err := ds.DB.Model(&Sighting{}).
		Select(column + " AS value, COUNT(*) AS count").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("counting sightings by %s: %w", column, err)
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Value] = r.Count
	}
	return counts, nil
}

// Close closes the underlying database connection.
func (ds *DataStore) Close() error {
	if ds.DB == nil {
		return nil
	}
	sqlDB, err := ds.DB.DB()
	if err != nil {
		return fmt.Errorf("fetching underlying connection: %w", err)
	}
	return sqlDB.Close()
}

// createGormLogger builds a quiet GORM logger that only surfaces slow
// queries and errors.
func createGormLogger() gormlogger.Interface {
	return gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// performAutoMigration brings the schema up to date on open.
func performAutoMigration(db *gorm.DB, debug bool, dbType, connectionInfo string) error {
	if err := db.AutoMigrate(&Sighting{}); err != nil {
		return errors.New(fmt.Errorf("migrating %s database: %w", dbType, err)).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}
	if debug {
		log.Printf("%s database initialized: %s", dbType, connectionInfo)
	}
	return nil
}
