// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/dalemusser/volunteerhub/internal/app/resources"
	participationstore "github.com/dalemusser/volunteerhub/internal/app/store/participations"
	"github.com/dalemusser/volunteerhub/internal/app/system/workers"
)

// reconcileWorker lives for the life of the process; Shutdown stops it.
var reconcileWorker *workers.CounterReconcile

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
// It loads the shared templates and starts the enrollment counter
// reconcile worker.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	reconcileWorker = workers.NewCounterReconcile(
		participationstore.New(deps.MongoDatabase), logger, appCfg.ReconcileSchedule)
	return reconcileWorker.Start()
}
