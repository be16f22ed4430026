package di

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/afero"

	"github.com/vkarpenko/faultlog/internal/adapter/presenter"
	"github.com/vkarpenko/faultlog/internal/application/port/output"
	"github.com/vkarpenko/faultlog/internal/application/service"
	"github.com/vkarpenko/faultlog/internal/application/workflow"
	"github.com/vkarpenko/faultlog/internal/domain/repository"
	sqliterepo "github.com/vkarpenko/faultlog/internal/infrastructure/persistence/sqlite"
	accessrepo "github.com/vkarpenko/faultlog/internal/infrastructure/repository"
)

// Container is the DI container that holds all dependencies.
// Manual dependency injection, wired in dependency order.
type Container struct {
	// Infrastructure Layer - Database
	db *sql.DB

	// Infrastructure Layer - Repositories
	recordRepo  repository.RecordRepository
	editLogRepo repository.EditLogRepository
	accessRepo  repository.AccessRepository

	// Application Layer - Services
	sessionService service.SessionService

	// Application Layer - Workflow
	engine *workflow.Engine

	// Adapter Layer - Presenters
	presenter output.Presenter

	// Configuration
	config Config
}

// Config holds configuration for the container
type Config struct {
	DBPath         string        // Path to SQLite database file
	AccessFilePath string        // Path to the access roster JSON file
	RecentWindow   time.Duration // Window for the recent-records view
	OutputWriter   io.Writer     // Destination for rendered output
}

// NewContainer creates and initializes the DI container
func NewContainer(config Config) (*Container, error) {
	c := &Container{
		config: config,
	}

	if c.config.OutputWriter == nil {
		c.config.OutputWriter = os.Stdout
	}
	if c.config.RecentWindow <= 0 {
		c.config.RecentWindow = 24 * time.Hour
	}

	if err := c.initializeInfrastructure(); err != nil {
		return nil, fmt.Errorf("failed to initialize infrastructure: %w", err)
	}
	c.initializeApplication()

	return c, nil
}

func (c *Container) initializeInfrastructure() error {
	dbPath := c.config.DBPath
	if dbPath == "" {
		dbPath = "faultlog.db"
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	c.db = db

	migrator := sqliterepo.NewMigrator(db)
	if err := migrator.Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	c.recordRepo = sqliterepo.NewRecordRepository(db)
	c.editLogRepo = sqliterepo.NewEditLogRepository(db)
	c.accessRepo = accessrepo.NewAccessFileRepository(afero.NewOsFs(), c.config.AccessFilePath)

	return nil
}

func (c *Container) initializeApplication() {
	c.sessionService = service.NewSessionService(c.recordRepo, c.editLogRepo)
	c.presenter = presenter.NewTextPresenter(c.config.OutputWriter)
	c.engine = workflow.NewEngine(c.sessionService, c.accessRepo, c.presenter)
}

// GetRecordRepository returns the record repository
func (c *Container) GetRecordRepository() repository.RecordRepository {
	return c.recordRepo
}

// GetEditLogRepository returns the edit-trail repository
func (c *Container) GetEditLogRepository() repository.EditLogRepository {
	return c.editLogRepo
}

// GetAccessRepository returns the access roster repository
func (c *Container) GetAccessRepository() repository.AccessRepository {
	return c.accessRepo
}

// GetSessionService returns the session service
func (c *Container) GetSessionService() service.SessionService {
	return c.sessionService
}

// GetEngine returns the workflow engine
func (c *Container) GetEngine() *workflow.Engine {
	return c.engine
}

// GetPresenter returns the presenter
func (c *Container) GetPresenter() output.Presenter {
	return c.presenter
}

// RecentWindow returns the configured recent-records window
func (c *Container) RecentWindow() time.Duration {
	return c.config.RecentWindow
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}
