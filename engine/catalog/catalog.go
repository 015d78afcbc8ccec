package catalog

import (
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// ErrDefinitionNotFound is returned when no definition matches a lookup.
var ErrDefinitionNotFound = errors.New("catalog: definition not found")

// catalog is the implementation of the Catalog interface.
type catalog struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// Catalog is the object and vehicle definition store.
type Catalog interface {
	// Migrate creates the definition tables when they are missing.
	//
	// Returns:
	//   - error: an error if the schema could not be migrated
	Migrate() error

	// Seed inserts or replaces definitions. Accepted values are *ObjectDefinition and *VehicleDefinition.
	//
	// Parameters:
	//   - defs: the definitions to store
	//
	// Returns:
	//   - error: an error if any definition could not be stored
	Seed(defs ...any) error

	// Object looks up an object definition by ID.
	//
	// Parameters:
	//   - id: the definition ID
	//
	// Returns:
	//   - *ObjectDefinition: the definition
	//   - error: ErrDefinitionNotFound when missing
	Object(id uint) (*ObjectDefinition, error)

	// ObjectByModel looks up the first object definition using the given model name.
	//
	// Parameters:
	//   - name: the model name
	//
	// Returns:
	//   - *ObjectDefinition: the definition
	//   - error: ErrDefinitionNotFound when missing
	ObjectByModel(name string) (*ObjectDefinition, error)

	// Objects returns every object definition ordered by ID.
	//
	// Returns:
	//   - []ObjectDefinition: the definitions
	//   - error: an error if the query failed
	Objects() ([]ObjectDefinition, error)

	// Vehicle looks up a vehicle definition by ID.
	//
	// Parameters:
	//   - id: the definition ID
	//
	// Returns:
	//   - *VehicleDefinition: the definition
	//   - error: ErrDefinitionNotFound when missing
	Vehicle(id uint) (*VehicleDefinition, error)

	// Close releases the underlying database connection.
	//
	// Returns:
	//   - error: an error if the connection could not be closed
	Close() error
}

var _ Catalog = &catalog{}

// Open connects to the sqlite catalog at path. An empty path opens a shared in-memory database.
//
// Parameters:
//   - path: the sqlite file path, or "" for memory
//   - log: the logger for catalog events
//
// Returns:
//   - Catalog: the opened catalog
//   - error: an error if the database could not be opened
func Open(path string, log zerolog.Logger) (Catalog, error) {
	dsn := path
	if dsn == "" {
		dsn = "file::memory:?cache=shared"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	c := &catalog{db: db, logger: log.With().Str("component", "catalog").Logger()}
	if path == "" {
		c.logger.Info().Msg("Using in-memory catalog")
	} else {
		c.logger.Info().Str("path", path).Msg("Using catalog file")
	}
	return c, nil
}

func (c *catalog) Migrate() error {
	for _, m := range models {
		if c.db.Migrator().HasTable(m) {
			continue
		}
		if err := c.db.AutoMigrate(m); err != nil {
			return fmt.Errorf("failed to migrate catalog: %w", err)
		}
	}
	return nil
}

func (c *catalog) Seed(defs ...any) error {
	for _, def := range defs {
		switch def.(type) {
		case *ObjectDefinition, *VehicleDefinition:
		default:
			return fmt.Errorf("catalog: cannot seed %T", def)
		}
		if err := c.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(def).Error; err != nil {
			return fmt.Errorf("failed to seed %T: %w", def, err)
		}
	}
	c.logger.Debug().Int("count", len(defs)).Msg("Seeded definitions")
	return nil
}

func (c *catalog) Object(id uint) (*ObjectDefinition, error) {
	var def ObjectDefinition
	if err := c.db.First(&def, id).Error; err != nil {
		return nil, notFound(err, "object", id)
	}
	return &def, nil
}

func (c *catalog) ObjectByModel(name string) (*ObjectDefinition, error) {
	var def ObjectDefinition
	if err := c.db.Where("model_name = ?", name).Order("id").First(&def).Error; err != nil {
		return nil, notFound(err, "object", name)
	}
	return &def, nil
}

func (c *catalog) Objects() ([]ObjectDefinition, error) {
	var defs []ObjectDefinition
	if err := c.db.Order("id").Find(&defs).Error; err != nil {
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}
	return defs, nil
}

func (c *catalog) Vehicle(id uint) (*VehicleDefinition, error) {
	var def VehicleDefinition
	if err := c.db.First(&def, id).Error; err != nil {
		return nil, notFound(err, "vehicle", id)
	}
	return &def, nil
}

func (c *catalog) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	return sqlDB.Close()
}

func notFound(err error, kind string, key any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s %v", ErrDefinitionNotFound, kind, key)
	}
	return fmt.Errorf("failed to load %s %v: %w", kind, key, err)
}
