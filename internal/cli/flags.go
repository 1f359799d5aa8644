package cli

import (
	"github.com/specialistvlad/palletforge/internal/app"
	"github.com/spf13/pflag"
)

// globalFlags registers the configuration flags shared by every command,
// binding them to cfg.
func globalFlags(fs *pflag.FlagSet, cfg *app.Config) *pflag.FlagSet {
	fs.StringVar(&cfg.CataloguePath, "catalogue", cfg.CataloguePath, "Directory of .hcl pallet definitions.")
	fs.StringVar(&cfg.SkeletonPath, "skeleton", cfg.SkeletonPath, "Directory of project skeleton files.")
	fs.StringVar(&cfg.TemplatesPath, "templates", cfg.TemplatesPath, "Directory of manifest and runtime templates. Empty uses the built-in set.")
	fs.StringVar(&cfg.Target, "target", cfg.Target, "Target context, e.g. 'solochain' or 'parachain'.")
	fs.StringVar(&cfg.Policy, "policy", cfg.Policy, "Failure policy: 'all-or-nothing' or 'best-effort'.")
	fs.BoolVar(&cfg.StrictOverrides, "strict-overrides", cfg.StrictOverrides, "Reject overrides the catalogue does not allow.")
	fs.StringVar(&cfg.ArchiveFormat, "archive-format", cfg.ArchiveFormat, "Archive format: 'zip' or 'tar.zst'.")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log output format. Options: 'text' or 'json'.")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	fs.IntVar(&cfg.WorkerCount, "workers", cfg.WorkerCount, "Number of concurrent generation workers.")
	fs.IntVar(&cfg.QueueSize, "queue-size", cfg.QueueSize, "Buffered generation jobs before hand-off.")
	fs.IntVar(&cfg.HealthcheckPort, "healthcheck-port", cfg.HealthcheckPort, "Port for the HTTP health check server. 0 is disabled.")
	fs.StringVar(&cfg.Storage.Backend, "storage", cfg.Storage.Backend, "Artifact storage: 'fs' or 's3'.")
	fs.StringVar(&cfg.Storage.Dir, "storage-dir", cfg.Storage.Dir, "Root directory of the fs storage backend.")
	fs.StringVar(&cfg.Storage.Bucket, "bucket", cfg.Storage.Bucket, "S3 bucket for artifacts.")
	fs.StringVar(&cfg.Storage.Region, "region", cfg.Storage.Region, "S3 region.")
	fs.StringVar(&cfg.Storage.Endpoint, "endpoint", cfg.Storage.Endpoint, "Custom S3 endpoint, e.g. a MinIO URL.")
	fs.StringVar(&cfg.Storage.Prefix, "prefix", cfg.Storage.Prefix, "Key prefix for uploaded artifacts.")
	fs.DurationVar(&cfg.Storage.URLTTL, "url-ttl", cfg.Storage.URLTTL, "Validity of download URLs.")
	fs.StringVar(&cfg.Tasks.Backend, "tasks", cfg.Tasks.Backend, "Task store: 'memory' or 'redis'.")
	fs.StringVar(&cfg.Tasks.RedisAddr, "redis-addr", cfg.Tasks.RedisAddr, "Redis address for the redis task store.")
	fs.DurationVar(&cfg.Tasks.Retention, "retention", cfg.Tasks.Retention, "Drop finished tasks after this long. 0 keeps them.")
	return fs
}

// flagAppliers copy an explicitly set flag from the flag-bound config onto
// the effective one, so that flags win over the config file.
var flagAppliers = map[string]func(dst, src *app.Config){
	"catalogue":        func(dst, src *app.Config) { dst.CataloguePath = src.CataloguePath },
	"skeleton":         func(dst, src *app.Config) { dst.SkeletonPath = src.SkeletonPath },
	"templates":        func(dst, src *app.Config) { dst.TemplatesPath = src.TemplatesPath },
	"target":           func(dst, src *app.Config) { dst.Target = src.Target },
	"policy":           func(dst, src *app.Config) { dst.Policy = src.Policy },
	"strict-overrides": func(dst, src *app.Config) { dst.StrictOverrides = src.StrictOverrides },
	"archive-format":   func(dst, src *app.Config) { dst.ArchiveFormat = src.ArchiveFormat },
	"log-format":       func(dst, src *app.Config) { dst.LogFormat = src.LogFormat },
	"log-level":        func(dst, src *app.Config) { dst.LogLevel = src.LogLevel },
	"workers":          func(dst, src *app.Config) { dst.WorkerCount = src.WorkerCount },
	"queue-size":       func(dst, src *app.Config) { dst.QueueSize = src.QueueSize },
	"healthcheck-port": func(dst, src *app.Config) { dst.HealthcheckPort = src.HealthcheckPort },
	"storage":          func(dst, src *app.Config) { dst.Storage.Backend = src.Storage.Backend },
	"storage-dir":      func(dst, src *app.Config) { dst.Storage.Dir = src.Storage.Dir },
	"bucket":           func(dst, src *app.Config) { dst.Storage.Bucket = src.Storage.Bucket },
	"region":           func(dst, src *app.Config) { dst.Storage.Region = src.Storage.Region },
	"endpoint":         func(dst, src *app.Config) { dst.Storage.Endpoint = src.Storage.Endpoint },
	"prefix":           func(dst, src *app.Config) { dst.Storage.Prefix = src.Storage.Prefix },
	"url-ttl":          func(dst, src *app.Config) { dst.Storage.URLTTL = src.Storage.URLTTL },
	"tasks":            func(dst, src *app.Config) { dst.Tasks.Backend = src.Tasks.Backend },
	"redis-addr":       func(dst, src *app.Config) { dst.Tasks.RedisAddr = src.Tasks.RedisAddr },
	"retention":        func(dst, src *app.Config) { dst.Tasks.Retention = src.Tasks.Retention },
}
