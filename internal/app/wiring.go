package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/palletforge/internal/archive"
	"github.com/specialistvlad/palletforge/internal/ctxlog"
	"github.com/specialistvlad/palletforge/internal/objectstore"
	"github.com/specialistvlad/palletforge/internal/synth"
	"github.com/specialistvlad/palletforge/internal/taskstore"
)

// newObjectStore builds the configured artifact store.
func (a *App) newObjectStore(ctx context.Context) (objectstore.Store, error) {
	cfg := a.config.Storage
	ctxlog.FromContext(ctx).Debug("Configuring object store.", "backend", cfg.Backend)

	switch cfg.Backend {
	case StorageS3:
		return objectstore.NewS3Store(ctx, objectstore.S3Config{
			Bucket:   cfg.Bucket,
			Region:   cfg.Region,
			Endpoint: cfg.Endpoint,
			Prefix:   cfg.Prefix,
		})
	case StorageFS:
		return objectstore.NewFileStore(cfg.Dir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// newTaskStore builds the configured task store. A Redis client is kept on
// the App so Close can release it.
func (a *App) newTaskStore(ctx context.Context) (taskstore.Store, error) {
	cfg := a.config.Tasks
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Configuring task store.", "backend", cfg.Backend)

	switch cfg.Backend {
	case TasksRedis:
		client := taskstore.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.RedisAddr, err)
		}
		a.redis = client
		return taskstore.NewRedis(client, taskstore.RedisOptions{Prefix: cfg.RedisPrefix, TTL: cfg.Retention}), nil
	case TasksMemory:
		return taskstore.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown task backend %q", cfg.Backend)
	}
}

// NewAggregate builds the template-based synthesis strategy.
func (a *App) NewAggregate() (*synth.Aggregate, error) {
	policy, err := synth.ParsePolicy(a.config.Policy)
	if err != nil {
		return nil, err
	}
	engine, err := synth.NewTextEngine(a.config.TemplatesPath)
	if err != nil {
		return nil, err
	}
	return synth.NewAggregate(engine, synth.AggregateOptions{Policy: policy}), nil
}

// newAssembler builds the archive assembler over the skeleton directory.
func (a *App) newAssembler() (*archive.Assembler, error) {
	archiver, err := archive.New(archive.Format(a.config.ArchiveFormat))
	if err != nil {
		return nil, err
	}
	return archive.NewAssembler(archiver, archive.AssemblerOptions{SkeletonDir: a.config.SkeletonPath}), nil
}
