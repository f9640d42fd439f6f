package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/seabeam/echofetch/internal/blobstore"
	"github.com/seabeam/echofetch/internal/blobstore/archive"
	"github.com/seabeam/echofetch/internal/blobstore/azure"
	miniodrv "github.com/seabeam/echofetch/internal/blobstore/minio"
	"github.com/seabeam/echofetch/internal/config"
	"github.com/seabeam/echofetch/internal/convert"
	"github.com/seabeam/echofetch/internal/discover"
	"github.com/seabeam/echofetch/internal/errs"
	"github.com/seabeam/echofetch/internal/fetch"
	"github.com/seabeam/echofetch/internal/logger"
	"github.com/seabeam/echofetch/internal/registry"
	registrymysql "github.com/seabeam/echofetch/internal/registry/mysql"
	registrypg "github.com/seabeam/echofetch/internal/registry/postgres"
	"github.com/seabeam/echofetch/internal/resolve"
)

var (
	cfgPath string
	cfg     *config.Config
	log     *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "echofetch",
	Short: "Fetch, convert and cache water-column sonar recordings",
	Long: `echofetch moves acoustic recordings between the public NCEI archive,
an object-storage cache and an on-premises container. Recordings are
addressed by ship, survey, echosounder and file name; raw recordings can be
converted to netCDF on the way into the cache.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfgPath != "" {
			cfg, err = config.Load(cfgPath)
			if err != nil {
				return err
			}
		} else {
			cfg = config.Default()
		}
		log = logger.New(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (YAML)")
}

// app bundles the wired components commands need.
type app struct {
	resolver *resolve.Resolver
	orch     *fetch.Orchestrator
	explorer *discover.Explorer
	records  registry.RecordStore

	closers []func()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// buildApp connects the configured backends. needCache demands a usable
// cache bucket (fetch does, browsing does not).
func buildApp(ctx context.Context, needCache bool) (*app, error) {
	a := &app{}

	archiveStore, err := archive.New(ctx, &blobstore.Config{
		Endpoint: cfg.Archive.Endpoint,
		UseSSL:   cfg.Archive.UseSSL,
		Region:   cfg.Archive.Region,
	}, cfg.Archive.Bucket)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() { archiveStore.Close() })

	resolver := &resolve.Resolver{
		Archive:       archiveStore,
		ArchiveBucket: cfg.Archive.Bucket,
	}

	if cfg.Cache.Endpoint != "" {
		cacheStore, err := miniodrv.New(ctx, &blobstore.Config{
			Endpoint:  cfg.Cache.Endpoint,
			AccessKey: cfg.Cache.AccessKey,
			SecretKey: cfg.Cache.SecretKey,
			UseSSL:    cfg.Cache.UseSSL,
			Region:    cfg.Cache.Region,
		})
		if err != nil {
			a.close()
			return nil, err
		}
		a.closers = append(a.closers, func() { cacheStore.Close() })
		resolver.Cache = cacheStore
		resolver.CacheBucket = cfg.Cache.Bucket
	} else if needCache {
		a.close()
		return nil, errs.New(errs.ErrKindInvalidInput,
			"cache.endpoint and cache.bucket must be configured for this command")
	}

	if cfg.Local.ConnectionString != "" {
		localStore, err := azure.New(cfg.Local.ConnectionString)
		if err != nil {
			a.close()
			return nil, err
		}
		a.closers = append(a.closers, func() { localStore.Close() })
		resolver.Local = localStore
		resolver.LocalContainer = cfg.Local.Container
	}

	if cfg.Registry.DSN != "" {
		recCfg := registry.DefaultConfig(cfg.Registry.DSN)
		var records registry.RecordStore
		switch cfg.Registry.Driver {
		case "mysql":
			records, err = registrymysql.New(ctx, recCfg)
		default:
			records, err = registrypg.New(ctx, recCfg)
		}
		if err != nil {
			a.close()
			return nil, err
		}
		a.closers = append(a.closers, records.Close)
		if err := records.EnsureSchema(ctx); err != nil {
			a.close()
			return nil, err
		}
		a.records = records
	}

	a.resolver = resolver
	a.explorer = &discover.Explorer{Store: archiveStore, Bucket: cfg.Archive.Bucket}
	a.orch = &fetch.Orchestrator{
		Resolver: resolver,
		Converter: &convert.ExecConverter{
			Command: cfg.Converter.Command,
			Timeout: cfg.Converter.Timeout,
		},
		Records:    a.records,
		Log:        log,
		StagingDir: cfg.Staging.Dir,
		UploadedBy: currentUser(),
	}
	return a, nil
}

func currentUser() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "echofetch"
}

// printJSON writes v to stdout, indented.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
