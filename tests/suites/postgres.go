// Package suites provides a Postgres-backed testify suite for repository
// integration tests. It needs Docker and is skipped under -short.
package suites

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/ganette57/pumpmarket.fun-sub001/app/database"
	"github.com/ganette57/pumpmarket.fun-sub001/models"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	_ "github.com/lib/pq"
)

// TestWallet is a valid Solana public key for fixtures.
const TestWallet = "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"

// domainTables are emptied between tests, children first.
var domainTables = []string{"trades", "positions", "market_outcomes", "markets"}

type PostgresContainer struct {
	testcontainers.Container
	ConnectionString string
}

func NewPostgresContainer(ctx context.Context) (*PostgresContainer, error) {
	const port = "5432/tcp"

	dbURL := func(host string, port nat.Port) string {
		return fmt.Sprintf("postgres://funmarket:funmarket@%s:%s/funmarket_test?sslmode=disable", host, port.Port())
	}

	req := testcontainers.ContainerRequest{
		Image:        "postgres:17.5-alpine3.21",
		ExposedPorts: []string{port},
		Cmd:          []string{"postgres", "-c", "fsync=off"},
		Env: map[string]string{
			"POSTGRES_DB":       "funmarket_test",
			"POSTGRES_PASSWORD": "funmarket",
			"POSTGRES_USER":     "funmarket",
		},
		WaitingFor: wait.ForSQL(port, "postgres", dbURL).
			WithStartupTimeout(30 * time.Second).
			WithQuery("SELECT 1"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}

	mappedPort, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	return &PostgresContainer{
		Container:        container,
		ConnectionString: dbURL(host, mappedPort),
	}, nil
}

// RepositoryTestSuite starts one Postgres container per suite, applies the
// SQL migrations and truncates the domain tables before every test.
type RepositoryTestSuite struct {
	suite.Suite
	Container      *PostgresContainer
	DB             *gorm.DB
	SQLDB          *sql.DB
	MigrationsPath string
}

func (suite *RepositoryTestSuite) SetupSuite() {
	if testing.Short() {
		suite.T().Skip("Skipping database integration tests in short mode")
	}

	if suite.MigrationsPath == "" {
		suite.MigrationsPath = findMigrationsPath()
	}
	if suite.MigrationsPath == "" {
		suite.T().Fatal("migrations directory not found")
	}

	ctx := context.Background()
	container, err := NewPostgresContainer(ctx)
	if err != nil {
		suite.T().Fatalf("Failed to create postgres container: %v", err)
	}
	suite.Container = container
	suite.T().Cleanup(func() {
		if suite.SQLDB != nil {
			_ = suite.SQLDB.Close()
		}
		_ = container.Terminate(context.Background())
	})

	if err := database.MigrateURL(container.ConnectionString, suite.MigrationsPath); err != nil {
		suite.T().Fatalf("Failed to run migrations: %v", err)
	}

	sqlDB, err := sql.Open("postgres", container.ConnectionString)
	if err != nil {
		suite.T().Fatalf("Failed to open sql connection: %v", err)
	}
	sqlDB.SetMaxOpenConns(5)
	sqlDB.SetMaxIdleConns(2)
	suite.SQLDB = sqlDB

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		suite.T().Fatalf("Failed to open gorm connection: %v", err)
	}
	suite.DB = gormDB
}

func (suite *RepositoryTestSuite) SetupTest() {
	if suite.DB == nil {
		return
	}
	err := suite.DB.Exec("TRUNCATE " + strings.Join(domainTables, ", ") + " CASCADE").Error
	suite.Require().NoError(err)
}

// SeedMarket inserts an open binary or multi-outcome market with the given
// outcome supplies and returns it with its outcomes loaded.
func (suite *RepositoryTestSuite) SeedMarket(supplies ...int64) *models.Market {
	market := &models.Market{
		Title:         "Seeded market",
		Category:      "test",
		MarketType:    models.MarketTypeForOutcomes(len(supplies)),
		Status:        models.MarketStatusOpen,
		CreatorWallet: TestWallet,
		CloseTime:     time.Now().Add(24 * time.Hour).UTC(),
	}
	for i, s := range supplies {
		market.Outcomes = append(market.Outcomes, models.MarketOutcome{
			Name:      fmt.Sprintf("Outcome %d", i+1),
			SortOrder: i + 1,
			Supply:    s,
		})
	}
	suite.Require().NoError(suite.DB.Create(market).Error)
	return market
}

// SeedPosition inserts a wallet position on one outcome.
func (suite *RepositoryTestSuite) SeedPosition(outcome *models.MarketOutcome, wallet string, shares int64) *models.Position {
	pos := &models.Position{
		MarketID:  outcome.MarketID,
		OutcomeID: outcome.ID,
		Wallet:    wallet,
		Shares:    shares,
	}
	suite.Require().NoError(suite.DB.Create(pos).Error)
	return pos
}

func (suite *RepositoryTestSuite) CountRecords(table string) int64 {
	var c int64
	suite.DB.Table(table).Count(&c)
	return c
}

func findMigrationsPath() string {
	wd, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(wd, "go.mod")); err == nil {
			dir := filepath.Join(wd, "migrations")
			if _, err := os.Stat(dir); err == nil {
				return dir
			}
			return ""
		}
		parent := filepath.Dir(wd)
		if parent == wd {
			return ""
		}
		wd = parent
	}
}
