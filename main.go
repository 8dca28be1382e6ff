package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"schoolrecords-server-go/config"
	"schoolrecords-server-go/db"
	"schoolrecords-server-go/logger"
	"schoolrecords-server-go/render"
	"schoolrecords-server-go/seed"
)

var (
	configPath string
	backend    string
)

var rootCmd = &cobra.Command{
	Use:   "schoolrecords",
	Short: "School conflict documentation backed by a Nextcloud share",
	Long: `schoolrecords keeps incident reports, counseling conversation protocols
and meeting minutes for a school as JSON documents on a Nextcloud/WebDAV
share (or Redis, or in memory) and serves them to the browser front end.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "schoolrecords.yaml", "path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "override store backend (webdav, redis, memory)")
	rootCmd.AddCommand(serveCmd, seedCmd, checkCmd, shareLinkCmd, exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app is everything a command needs, built from the config.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	repo     *db.Repository
	webdav   *db.WebDAVStore // nil unless the backend is webdav
	renderer *render.HTMLRenderer
	printer  *render.ChromePrinter
	seeder   *seed.Generator
	close    func()
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if backend != "" {
		cfg.Store.Backend = backend
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	a := &app{cfg: cfg, log: log, close: func() { log.Sync() }}
	store, err := a.openStore(ctx)
	if err != nil {
		log.Sync()
		return nil, err
	}
	a.repo = db.NewRepository(store, log)

	a.renderer, err = render.NewHTMLRenderer(cfg.Render.SchoolName, nil)
	if err != nil {
		a.close()
		return nil, err
	}
	a.printer = render.NewChromePrinter(cfg.Render.ChromeBin, log)
	a.seeder = seed.New(a.repo, log)
	return a, nil
}

func (a *app) openStore(ctx context.Context) (db.DocumentStore, error) {
	switch a.cfg.Store.Backend {
	case config.BackendRedis:
		client, err := db.InitializeRedisClient(ctx, a.cfg.Redis)
		if err != nil {
			return nil, err
		}
		prev := a.close
		a.close = func() {
			if err := client.Close(); err != nil {
				a.log.Warn("closing redis client failed", "error", err)
			}
			prev()
		}
		a.log.Info("using redis store", "addr", a.cfg.Redis.Addr)
		return db.NewRedisStore(client, a.cfg.Redis.KeyPrefix, a.log), nil
	case config.BackendMemory:
		a.log.Warn("using in-memory store, data is lost on exit")
		return db.NewMemoryStore(), nil
	default:
		a.webdav = db.NewWebDAVStore(a.cfg.WebDAV, nil, a.log)
		if !a.cfg.WebDAV.IsConfigured() {
			a.log.Warn("webdav store is not configured yet, requests will answer 'setup required'")
		} else {
			a.log.Info("using webdav store", "base", a.webdav.DocumentURL(""))
		}
		return a.webdav, nil
	}
}
