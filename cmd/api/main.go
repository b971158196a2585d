package main

import (
	"context"
	"net"
	"net/http"

	"github.com/lecturelog/lecturelog/pkg/catalog"
	"github.com/lecturelog/lecturelog/pkg/config"
	"github.com/lecturelog/lecturelog/pkg/database"
	"github.com/lecturelog/lecturelog/pkg/migrations"
	"github.com/lecturelog/lecturelog/pkg/progress"
	"github.com/lecturelog/lecturelog/pkg/server"
	"github.com/lecturelog/lecturelog/pkg/version"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/robinjoseph08/golib/signals"
)

func main() {
	ctx := context.Background()
	log := logger.New()

	log.Info("starting lecturelog", logger.Data{"version": version.Version})

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Err(err).Fatal("database error")
	}

	group, err := migrations.BringUpToDate(ctx, db)
	if err != nil {
		log.Err(err).Fatal("migrations error")
	}
	if group.ID == 0 {
		log.Info("no new migrations to run")
	} else {
		log.Info("migrated to new group", logger.Data{"group_id": group.ID, "migration_names": group.Migrations.String()})
	}

	// Load the catalog manifest up front so registration immediately after
	// boot sees the full catalog.
	if cfg.CatalogManifestPath != "" {
		loader := catalog.NewLoader(db)
		stats, err := loader.ImportFile(ctx, cfg.CatalogManifestPath)
		if err != nil {
			log.Err(err).Fatal("catalog manifest error")
		}
		log.Info("catalog manifest loaded", logger.Data{
			"subjects": stats.Subjects,
			"chapters": stats.Chapters,
			"lectures": stats.Lectures,
		})

		report, err := progress.NewService(db).SyncAll(ctx)
		if err != nil {
			log.Err(err).Fatal("startup sync error")
		}
		log.Info("progress synced", logger.Data{
			"users_synced": report.UsersSynced,
			"failures":     len(report.Failures),
		})
	}

	srv, err := server.New(cfg, db)
	if err != nil {
		log.Err(err).Fatal("server error")
	}

	graceful := signals.Setup()

	go func() {
		lc := net.ListenConfig{}
		listener, err := lc.Listen(ctx, "tcp", srv.Addr)
		if err != nil {
			log.Err(err).Fatal("failed to bind port")
		}

		log.Info("server started", logger.Data{"addr": listener.Addr().String()})

		err = srv.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Err(err).Fatal("server stopped")
		}
		log.Info("server stopped")
	}()

	<-graceful
	log.Info("starting graceful shutdown")

	err = srv.Shutdown(ctx)
	if err != nil {
		log.Err(err).Error("server shutdown error")
	}
	log.Info("server shutdown")

	err = db.Close()
	if err != nil {
		log.Err(err).Error("database close error")
	}
	log.Info("database closed")
}
