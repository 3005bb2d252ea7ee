// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"github.com/dealroom-et/dealroom/internal/app/features/console"
	userstore "github.com/dealroom-et/dealroom/internal/app/store/users"
	"github.com/dealroom-et/dealroom/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Startup runs one-time initialization after DB connections and schema
// setup, before the HTTP handler is built: deadlines, console templates and
// the initial staff account.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(appCfg.Timeouts)
	console.RegisterTemplates()

	if appCfg.StaffPassword == "" {
		return nil
	}
	created, err := userstore.New(deps.MongoDatabase).EnsureStaff(ctx, appCfg.StaffUsername, appCfg.StaffEmail, appCfg.StaffPassword)
	if err != nil {
		logger.Error("ensure staff account failed", zap.Error(err))
		return err
	}
	if created {
		logger.Info("created staff account", zap.String("username", appCfg.StaffUsername))
	}
	return nil
}
