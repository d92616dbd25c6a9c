//Package storage keeps weapon profiles, the current shooting conditions and the
//history of solved trajectories in a SQL database (SQLite or PostgreSQL).
package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/gehtsoft-usa/go_ballisticsolver"
	"github.com/gehtsoft-usa/go_ballisticsolver/internal/config"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

//ErrNotFound is returned when the requested record does not exist
var ErrNotFound = errors.New("not found")

//Zeroer solves the aim vector of a weapon before it is saved
type Zeroer func(weapon go_ballisticsolver.WeaponProfile) (go_ballisticsolver.WeaponProfile, error)

type weaponRecord struct {
	ID        uint   `gorm:"primarykey"`
	Name      string `gorm:"size:127;uniqueIndex"`
	Zeroed    bool
	Profile   datatypes.JSONType[go_ballisticsolver.WeaponProfile]
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (weaponRecord) TableName() string { return "weapons" }

type conditionsRecord struct {
	ID          uint `gorm:"primarykey"`
	Environment datatypes.JSONType[go_ballisticsolver.EnvironmentRecord]
	UpdatedAt   time.Time
}

func (conditionsRecord) TableName() string { return "conditions" }

type settingRecord struct {
	Key   string `gorm:"column:name;primarykey;size:63"`
	Value string `gorm:"size:255"`
}

func (settingRecord) TableName() string { return "settings" }

type solveRecord struct {
	ID          uint   `gorm:"primarykey"`
	WeaponName  string `gorm:"size:127;index:idx_solves_weapon"`
	Environment datatypes.JSONType[go_ballisticsolver.EnvironmentRecord]
	Results     datatypes.JSONSlice[go_ballisticsolver.TrajectoryResult]
	CreatedAt   time.Time `gorm:"index:idx_solves_weapon"`
}

func (solveRecord) TableName() string { return "solves" }

//Solve is one entry of the trajectory history
type Solve struct {
	ID          uint
	WeaponName  string
	Environment go_ballisticsolver.EnvironmentRecord
	Results     []go_ballisticsolver.TrajectoryResult
	CreatedAt   time.Time
}

const conditionsID = 1
const selectedWeaponKey = "selected_weapon"

//Store is the profile and history store
type Store struct {
	db     *gorm.DB
	zero   Zeroer
	Logger zerolog.Logger
}

//Open connects to the database described by the configuration and migrates the schema.
//An empty SQLite path opens an in-memory database.
func Open(cfg config.StorageConfig, zero Zeroer, log zerolog.Logger) (*Store, error) {
	gormConfig := &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	}

	var dialector gorm.Dialector
	switch cfg.Type {
	case "", "sqlite":
		path := cfg.SQLitePath
		if path == "" {
			path = ":memory:"
			log.Info().Msg("Using SQLite DB in memory")
		} else {
			log.Info().Str("path", path).Msg("Using local SQLite DB")
		}
		dialector = sqlite.Open(path)
	case "postgres":
		dsn := fmt.Sprintf(`host=%s port=%s user=%s password=%s dbname=%s sslmode=disable`,
			cfg.DB.Host, cfg.DB.Port, cfg.DB.Username, cfg.DB.Password, cfg.DB.Database)
		log.Debug().Str("host", cfg.DB.Host).Str("database", cfg.DB.Database).Msg("Connecting to Postgres DB")
		dialector = postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		})
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open profile store: %w", err)
	}
	if cfg.Type != "postgres" && cfg.SQLitePath == "" {
		//every connection to :memory: is a separate database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access sql interface: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return New(db, zero, log)
}

//New creates the store on top of an opened connection and migrates the schema
func New(db *gorm.DB, zero Zeroer, log zerolog.Logger) (*Store, error) {
	if err := db.AutoMigrate(&weaponRecord{}, &conditionsRecord{}, &settingRecord{}, &solveRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate profile store: %w", err)
	}
	log.Debug().Str("dialect", db.Dialector.Name()).Msg("Profile store ready")
	return &Store{db: db, zero: zero, Logger: log}, nil
}

//Close closes the database connection
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

//SaveWeapon zeroes the weapon and saves it, replacing the profile of the same name.
//The saved (zeroed) profile is returned.
func (s *Store) SaveWeapon(ctx context.Context, weapon go_ballisticsolver.WeaponProfile) (go_ballisticsolver.WeaponProfile, error) {
	if weapon.Name == "" {
		return weapon, fmt.Errorf("weapon name is empty: %w", go_ballisticsolver.ErrInvalidArgument)
	}
	if s.zero != nil {
		zeroed, err := s.zero(weapon)
		if err != nil {
			return weapon, fmt.Errorf("failed to zero %s: %w", weapon.Name, err)
		}
		weapon = zeroed
	}

	record := weaponRecord{
		Name:    weapon.Name,
		Zeroed:  weapon.IsZeroed(),
		Profile: datatypes.NewJSONType(weapon),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"zeroed", "profile", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return weapon, fmt.Errorf("failed to save %s: %w", weapon.Name, err)
	}

	s.Logger.Info().Str("weapon", weapon.Name).Bool("zeroed", record.Zeroed).Msg("Weapon saved")
	return weapon, nil
}

//LoadWeapon returns the profile saved under the name
func (s *Store) LoadWeapon(ctx context.Context, name string) (go_ballisticsolver.WeaponProfile, error) {
	var record weaponRecord
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return go_ballisticsolver.WeaponProfile{}, fmt.Errorf("weapon %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return go_ballisticsolver.WeaponProfile{}, fmt.Errorf("failed to load %s: %w", name, err)
	}
	return record.Profile.Data(), nil
}

//WeaponExists checks whether a profile is saved under the name
func (s *Store) WeaponExists(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&weaponRecord{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

//DeleteWeapon removes the profile and its trajectory history
func (s *Store) DeleteWeapon(ctx context.Context, name string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("name = ?", name).Delete(&weaponRecord{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("weapon %s: %w", name, ErrNotFound)
		}
		return tx.Where("weapon_name = ?", name).Delete(&solveRecord{}).Error
	})
	if err != nil {
		return err
	}
	s.Logger.Info().Str("weapon", name).Msg("Weapon deleted")
	return nil
}

//ListWeapons returns the names of the saved profiles in alphabetical order
func (s *Store) ListWeapons(ctx context.Context) ([]string, error) {
	var names []string
	if err := s.db.WithContext(ctx).Model(&weaponRecord{}).Pluck("name", &names).Error; err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

//SelectWeapon remembers the weapon used when none is specified
func (s *Store) SelectWeapon(ctx context.Context, name string) error {
	exists, err := s.WeaponExists(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("weapon %s: %w", name, ErrNotFound)
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&settingRecord{Key: selectedWeaponKey, Value: name}).Error
}

//SelectedWeapon returns the name of the selected weapon
func (s *Store) SelectedWeapon(ctx context.Context) (string, error) {
	var record settingRecord
	err := s.db.WithContext(ctx).Where("name = ?", selectedWeaponKey).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("selected weapon: %w", ErrNotFound)
	}
	if err != nil {
		return "", err
	}
	return record.Value, nil
}

//SaveConditions stores the current shooting conditions
func (s *Store) SaveConditions(ctx context.Context, env go_ballisticsolver.EnvironmentRecord) error {
	record := conditionsRecord{ID: conditionsID, Environment: datatypes.NewJSONType(env)}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&record).Error
}

//LoadConditions returns the stored conditions or the default ones if nothing is saved yet
func (s *Store) LoadConditions(ctx context.Context) (go_ballisticsolver.EnvironmentRecord, error) {
	var record conditionsRecord
	err := s.db.WithContext(ctx).First(&record, conditionsID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return go_ballisticsolver.DefaultEnvironment(), nil
	}
	if err != nil {
		return go_ballisticsolver.EnvironmentRecord{}, err
	}
	return record.Environment.Data(), nil
}

//RecordSolve appends the trajectory to the history of the weapon
func (s *Store) RecordSolve(ctx context.Context, weaponName string, env go_ballisticsolver.EnvironmentRecord, results []go_ballisticsolver.TrajectoryResult) error {
	record := solveRecord{
		WeaponName:  weaponName,
		Environment: datatypes.NewJSONType(env),
		Results:     datatypes.NewJSONSlice(results),
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to record solve: %w", err)
	}
	return nil
}

//ListSolves returns the latest trajectories of the weapon, newest first.
//limit <= 0 returns the whole history.
func (s *Store) ListSolves(ctx context.Context, weaponName string, limit int) ([]Solve, error) {
	var records []solveRecord
	q := s.db.WithContext(ctx).Where("weapon_name = ?", weaponName).Order("created_at desc").Order("id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&records).Error; err != nil {
		return nil, err
	}

	solves := make([]Solve, 0, len(records))
	for _, r := range records {
		solves = append(solves, Solve{
			ID:          r.ID,
			WeaponName:  r.WeaponName,
			Environment: r.Environment.Data(),
			Results:     []go_ballisticsolver.TrajectoryResult(r.Results),
			CreatedAt:   r.CreatedAt,
		})
	}
	return solves, nil
}
