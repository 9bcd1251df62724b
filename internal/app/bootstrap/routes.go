// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	attendancefeature "github.com/dalemusser/rollbook/internal/app/features/attendance"
	errorsfeature "github.com/dalemusser/rollbook/internal/app/features/errors"
	healthfeature "github.com/dalemusser/rollbook/internal/app/features/health"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and any Startup hooks have completed. Rollbook mounts the health check
// and the attendance feature; authentication and the rest of the school
// platform live in front of this service.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.RollbookMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Attendance ingest, summaries, listing, rebuild
	attendanceHandler := attendancefeature.NewHandler(deps.RollbookMongoDatabase, errLog, logger)
	attendanceHandler.Summaries.SetMaxAttempts(appCfg.SummaryRetryAttempts)
	r.Mount("/attendance", attendancefeature.Routes(attendanceHandler))

	return r, nil
}
