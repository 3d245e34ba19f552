// Command snapshot exports, imports and repairs the stored catalog snapshot of
// the configured backend.
//
//	snapshot -mode export -file catalog.json
//	snapshot -mode import -file catalog.json -dry-run
//	snapshot -mode repair
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/light-bringer/salecat-service/internal/app/catalog/contracts"
	"github.com/light-bringer/salecat-service/internal/app/catalog/domain"
	"github.com/light-bringer/salecat-service/internal/app/catalog/store"
	"github.com/light-bringer/salecat-service/internal/config"
	"github.com/light-bringer/salecat-service/internal/models/m_entity"
	"github.com/light-bringer/salecat-service/internal/pkg/clock"
	"github.com/light-bringer/salecat-service/internal/pkg/logger"
	"github.com/light-bringer/salecat-service/internal/services"
)

// Options for one run.
type Options struct {
	Mode   string
	File   string
	Key    string
	DryRun bool
}

func main() {
	var (
		opts       Options
		configPath string
	)
	flag.StringVar(&opts.Mode, "mode", "export", "export, import or repair")
	flag.StringVar(&opts.File, "file", "", "JSON file to read or write; stdout for export when empty")
	flag.StringVar(&opts.Key, "key", contracts.SnapshotKey, "snapshot key")
	flag.BoolVar(&opts.DryRun, "dry-run", false, "report what would change without writing")
	flag.StringVar(&configPath, "config", "", "optional YAML config file; the environment is used when empty")
	flag.Parse()

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "snapshot: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Environment)
	defer logger.Sync()

	ctx := context.Background()
	storage, err := services.OpenStorage(ctx, cfg, clock.NewRealClock())
	if err != nil {
		logger.Error(ctx, "failed to open storage", zap.Error(err))
		os.Exit(1)
	}
	defer storage.Close()

	if err := run(ctx, storage.Snapshots, opts); err != nil {
		logger.Error(ctx, "snapshot failed", zap.String("mode", opts.Mode), zap.Error(err))
		storage.Close()
		logger.Sync()
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadEnv()
}

func run(ctx context.Context, snapshots contracts.SnapshotRepository, opts Options) error {
	codec := m_entity.NewModel()

	switch opts.Mode {
	case "export":
		out := io.Writer(os.Stdout)
		if opts.File != "" {
			f, err := os.Create(opts.File)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", opts.File, err)
			}
			defer f.Close()
			out = f
		}
		return exportSnapshot(ctx, snapshots, codec, opts.Key, out)

	case "import":
		if opts.File == "" {
			return fmt.Errorf("-file is required for import")
		}
		payload, err := os.ReadFile(opts.File)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", opts.File, err)
		}
		// An import replaces whatever is stored, so it writes over the current version.
		current, err := snapshots.Load(ctx, opts.Key)
		if err != nil {
			return err
		}
		return importSnapshot(ctx, snapshots, codec.Decode(payload), current.Version, opts)

	case "repair":
		snap, err := snapshots.Load(ctx, opts.Key)
		if err != nil {
			return err
		}
		return importSnapshot(ctx, snapshots, snap.Records, snap.Version, opts)

	default:
		return fmt.Errorf("unknown mode %q", opts.Mode)
	}
}

// exportSnapshot writes the normalized catalog as a JSON array.
func exportSnapshot(
	ctx context.Context, snapshots contracts.SnapshotRepository, codec *m_entity.Model, key string, out io.Writer,
) error {
	snap, err := snapshots.Load(ctx, key)
	if err != nil {
		return err
	}

	entities, coercions := store.NormalizeRecords(snap.Records, uuid.NewString)
	report(ctx, coercions)

	payload, err := codec.Encode(raw(entities))
	if err != nil {
		return err
	}
	if _, err := out.Write(payload); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	logger.Info(ctx, "snapshot exported",
		zap.Int("entities", len(entities)),
		zap.Int64("version", snap.Version),
	)
	return nil
}

// importSnapshot normalizes records and stores them as the whole catalog,
// provided the stored version is still expectedVersion.
func importSnapshot(
	ctx context.Context,
	snapshots contracts.SnapshotRepository,
	records []domain.RawRecord,
	expectedVersion int64,
	opts Options,
) error {
	entities, coercions := store.NormalizeRecords(records, uuid.NewString)
	report(ctx, coercions)

	for _, e := range entities {
		if err := e.Validate(); err != nil {
			logger.Warn(ctx, "entity must be edited before it can be sold",
				zap.String("id", e.ID()),
				zap.Error(err),
			)
		}
	}

	if opts.DryRun {
		logger.Info(ctx, "dry run, nothing written",
			zap.Int("entities", len(entities)),
			zap.Int("normalized", len(coercions)),
		)
		return nil
	}

	snap := &contracts.Snapshot{Key: opts.Key, Records: raw(entities)}
	if err := snapshots.Save(ctx, snap, expectedVersion); err != nil {
		return err
	}

	logger.Info(ctx, "snapshot written",
		zap.Int("entities", len(entities)),
		zap.Int64("version", snap.Version),
	)
	return nil
}

func report(ctx context.Context, coercions []store.Coercion) {
	for _, c := range coercions {
		logger.Info(ctx, "normalized record",
			zap.Int("position", c.Position),
			zap.String("id", c.ID),
			zap.Strings("fields", c.Fields),
		)
	}
}

func raw(entities []*domain.Entity) []domain.RawRecord {
	records := make([]domain.RawRecord, len(entities))
	for i, e := range entities {
		records[i] = e.Raw()
	}
	return records
}
