package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/mind-engage/questionui/internal/attempt"
	"github.com/mind-engage/questionui/internal/config"
	"github.com/mind-engage/questionui/internal/db"
	"github.com/mind-engage/questionui/internal/grading"
	"github.com/mind-engage/questionui/internal/logging"
	"github.com/mind-engage/questionui/internal/questionui"
	"github.com/mind-engage/questionui/internal/sanitize"
	"github.com/mind-engage/questionui/internal/storage"
	syncx "github.com/mind-engage/questionui/internal/sync"
)

// app is what every subcommand needs, built once from the environment.
type app struct {
	cfg     config.Config
	log     *slog.Logger
	docOpts []questionui.Option
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg := config.FromEnv()
	log := logging.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())

	san, err := sanitize.New(sanitize.Policy(cfg.SanitizerPolicy))
	if err != nil {
		return nil, err
	}
	return &app{
		cfg: cfg,
		log: log,
		docOpts: []questionui.Option{
			questionui.WithSanitizer(san),
			questionui.WithSeparators(cfg.ThousandsSeparator, cfg.DecimalSeparator),
			questionui.WithLogger(log),
		},
	}, nil
}

func (a *app) blobs() (*storage.FSStore, error) {
	return storage.NewFSStore(a.cfg.BlobBasePath)
}

// attempts opens the configured database and returns the attempt service on
// top of it. The caller closes the returned handle.
func (a *app) attempts(ctx context.Context) (*attempt.Service, *sql.DB, error) {
	octx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	dbh, err := db.Open(octx, db.Driver(a.cfg.DBDriver), a.cfg.DBDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("db open: %w", err)
	}
	svc := attempt.NewService(attempt.NewSQLStore(dbh),
		attempt.WithLogger(a.log),
		attempt.WithEventLog(syncx.NewEventRepo(dbh, a.cfg.SiteID)),
		attempt.WithGrader(grading.NewDefaultGrader(
			grading.WithMaxEditDistance(a.cfg.GradingMaxEdit),
			grading.WithPartial(a.cfg.GradingPartial),
		)),
		attempt.WithParallelism(a.cfg.RenderParallelism),
		attempt.WithDocumentOptions(a.docOpts...),
	)
	return svc, dbh, nil
}

type appKey struct{}

func appFrom(cmd *cobra.Command) *app {
	return cmd.Context().Value(appKey{}).(*app)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "qpyui",
		Short:         "Render question UIs and run attempts against them",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, a))
			return nil
		},
	}
	root.AddCommand(newRenderCmd(), newMetadataCmd(), newAttemptCmd())
	return root
}
