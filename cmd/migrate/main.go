// Command migrate prepares a Spanner database for the snapshot backend:
// it creates the instance and database when missing and applies the
// embedded DDL files in name order.
package main

import (
	"context"
	"embed"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"slices"
	"strings"

	database "cloud.google.com/go/spanner/admin/database/apiv1"
	"cloud.google.com/go/spanner/admin/database/apiv1/databasepb"
	instance "cloud.google.com/go/spanner/admin/instance/apiv1"
	"cloud.google.com/go/spanner/admin/instance/apiv1/instancepb"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/light-bringer/salecat-service/internal/config"
	"github.com/light-bringer/salecat-service/internal/pkg/logger"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

var databasePath = regexp.MustCompile(`^projects/([^/]+)/instances/([^/]+)/databases/([^/]+)$`)

type target struct {
	project  string
	instance string
	database string
}

func (t target) instanceName() string {
	return fmt.Sprintf("projects/%s/instances/%s", t.project, t.instance)
}

func (t target) databaseName() string {
	return fmt.Sprintf("%s/databases/%s", t.instanceName(), t.database)
}

func main() {
	configPath := flag.String("config", "", "optional YAML config file; the environment is used when empty")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Environment)
	defer logger.Sync()

	ctx := context.Background()
	if host := os.Getenv("SPANNER_EMULATOR_HOST"); host != "" {
		logger.Info(ctx, "using spanner emulator", zap.String("host", host))
	}

	if err := run(ctx, cfg.Storage.SpannerDatabase); err != nil {
		logger.Error(ctx, "migration failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	logger.Info(ctx, "migrations completed")
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadEnv()
}

func run(ctx context.Context, dbPath string) error {
	m := databasePath.FindStringSubmatch(dbPath)
	if m == nil {
		return fmt.Errorf("malformed spanner database path %q", dbPath)
	}
	t := target{project: m[1], instance: m[2], database: m[3]}

	if err := ensureInstance(ctx, t); err != nil {
		return fmt.Errorf("failed to ensure instance: %w", err)
	}
	if err := ensureDatabase(ctx, t); err != nil {
		return fmt.Errorf("failed to ensure database: %w", err)
	}
	if err := applyMigrations(ctx, t); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}

func ensureInstance(ctx context.Context, t target) error {
	admin, err := instance.NewInstanceAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create instance admin client: %w", err)
	}
	defer admin.Close()

	_, err = admin.GetInstance(ctx, &instancepb.GetInstanceRequest{Name: t.instanceName()})
	if err == nil {
		return nil
	}
	if status.Code(err) != codes.NotFound {
		return fmt.Errorf("failed to get instance: %w", err)
	}

	logger.Info(ctx, "creating instance", zap.String("instance", t.instanceName()))
	op, err := admin.CreateInstance(ctx, &instancepb.CreateInstanceRequest{
		Parent:     "projects/" + t.project,
		InstanceId: t.instance,
		Instance: &instancepb.Instance{
			Config:      fmt.Sprintf("projects/%s/instanceConfigs/emulator-config", t.project),
			DisplayName: t.instance,
			NodeCount:   1,
		},
	})
	if status.Code(err) == codes.AlreadyExists {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create instance: %w", err)
	}

	if _, err := op.Wait(ctx); err != nil && status.Code(err) != codes.AlreadyExists {
		return fmt.Errorf("failed to wait for instance: %w", err)
	}

	return nil
}

func ensureDatabase(ctx context.Context, t target) error {
	admin, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create database admin client: %w", err)
	}
	defer admin.Close()

	_, err = admin.GetDatabase(ctx, &databasepb.GetDatabaseRequest{Name: t.databaseName()})
	if err == nil {
		return nil
	}
	if status.Code(err) != codes.NotFound {
		return fmt.Errorf("failed to get database: %w", err)
	}

	logger.Info(ctx, "creating database", zap.String("database", t.databaseName()))
	op, err := admin.CreateDatabase(ctx, &databasepb.CreateDatabaseRequest{
		Parent:          t.instanceName(),
		CreateStatement: fmt.Sprintf("CREATE DATABASE `%s`", t.database),
	})
	if status.Code(err) == codes.AlreadyExists {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	if _, err := op.Wait(ctx); err != nil {
		return fmt.Errorf("failed to wait for database: %w", err)
	}

	return nil
}

func applyMigrations(ctx context.Context, t target) error {
	admin, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create database admin client: %w", err)
	}
	defer admin.Close()

	ddl, err := admin.GetDatabaseDdl(ctx, &databasepb.GetDatabaseDdlRequest{Database: t.databaseName()})
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}
	existing := strings.Join(ddl.GetStatements(), "\n")

	names, err := fs.Glob(migrationFiles, "migrations/*.sql")
	if err != nil {
		return err
	}
	slices.Sort(names)

	for _, name := range names {
		content, err := migrationFiles.ReadFile(name)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", name, err)
		}

		statements := pending(splitDDLStatements(string(content)), existing)
		if len(statements) == 0 {
			logger.Info(ctx, "migration already applied", zap.String("file", name))
			continue
		}

		op, err := admin.UpdateDatabaseDdl(ctx, &databasepb.UpdateDatabaseDdlRequest{
			Database:   t.databaseName(),
			Statements: statements,
		})
		if err != nil {
			return fmt.Errorf("failed to start DDL update for %s: %w", name, err)
		}
		if err := op.Wait(ctx); err != nil {
			return fmt.Errorf("failed to apply %s: %w", name, err)
		}

		logger.Info(ctx, "migration applied", zap.String("file", name), zap.Int("statements", len(statements)))
	}

	return nil
}

var createTable = regexp.MustCompile(`(?i)^CREATE\s+TABLE\s+(\w+)`)

// pending drops CREATE TABLE statements for tables the schema already has.
func pending(statements []string, existingDDL string) []string {
	var out []string
	for _, stmt := range statements {
		if m := createTable.FindStringSubmatch(stmt); m != nil &&
			regexp.MustCompile(`(?i)CREATE TABLE\s+`+m[1]+`\b`).MatchString(existingDDL) {
			continue
		}
		out = append(out, stmt)
	}
	return out
}

func splitDDLStatements(content string) []string {
	var cleaned []string
	for line := range strings.Lines(content) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		cleaned = append(cleaned, line)
	}

	var result []string
	for stmt := range strings.SplitSeq(strings.Join(cleaned, "\n"), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			result = append(result, stmt)
		}
	}

	return result
}
