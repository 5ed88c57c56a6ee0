package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/Natenyt/AI-Powered-Government-System/config"
	"github.com/Natenyt/AI-Powered-Government-System/internal/analysis"
	"github.com/Natenyt/AI-Powered-Government-System/internal/logger"
	"github.com/Natenyt/AI-Powered-Government-System/internal/providers/embedding"
	pgrepo "github.com/Natenyt/AI-Powered-Government-System/internal/repositories/postgres"
	"github.com/Natenyt/AI-Powered-Government-System/internal/services"
)

func main() {
	reindex := flag.Bool("reindex", false, "re-embed departments that are already indexed")
	timeout := flag.Duration("timeout", 2*time.Hour, "overall deadline")
	flag.Parse()

	_ = godotenv.Load()
	l := logger.New()
	s := config.LoadSettings()

	if err := config.InitPostgres(); err != nil {
		l.WithError(err).Fatal("PostgreSQL init error")
	}
	if err := config.MigratePostgres(config.PostgresDB); err != nil {
		l.WithError(err).Fatal("PostgreSQL migration error")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	provider, err := embedding.NewVertexEmbedder(ctx, s.GCPProjectID, s.GCPLocation, s.EmbeddingModel)
	if err != nil {
		l.WithError(err).Fatal("embedding client init error")
	}
	defer provider.Close()

	db := config.PostgresDB
	svc := services.NewIndexingService(
		services.NewDepartmentService(pgrepo.NewDepartmentRepo(db), nil, 0, l),
		analysis.NewResilientEmbedder(provider, analysis.DefaultEmbeddingRetry(), l),
		pgrepo.NewVectorRepo(db),
		l,
	)

	report, err := svc.IndexDepartments(ctx, *reindex)
	if err != nil {
		l.WithError(err).Fatal("department indexing failed")
	}
	l.WithFields(logrus.Fields{
		"departments": report.Departments,
		"indexed":     report.Indexed,
		"skipped":     report.Skipped,
		"failed":      report.Failed,
	}).Info("done")
}
