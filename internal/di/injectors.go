//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"mafiabot/internal"
	"mafiabot/internal/controllers"
	"mafiabot/internal/jobs"
	"mafiabot/internal/platform"
	"mafiabot/internal/platform/discord"
	"mafiabot/internal/providers"
	"mafiabot/internal/services"
	"mafiabot/internal/storage"
	"mafiabot/internal/structures"
)

var baseSet = wire.NewSet(
	providers.NewConfigProvider,
	providers.NewLogMirror,
	providers.NewLogProvider,
	providers.NewMetricsProvider,
	providers.NewInstrumentedCacheProvider,

	storage.NewStores,
	storage.NewZstdCompressor,
	storage.NewBackup,

	discord.NewSession,
	wire.Bind(new(platform.Platform), new(*discord.Session)),

	services.NewBackground,
	services.NewBouncer,
	services.NewArchiver,
	services.NewDispatcher,
	services.NewPurgeEngine,
	services.NewPostRegistry,
	services.NewAvatarService,
	services.NewLogForwarder,

	jobs.NewJobs,
	jobs.NewScheduler,
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		baseSet,
		services.NewCore,
		wire.Bind(new(services.CoreInterface), new(*services.Core)),
		provideJobRunner,
		controllers.NewAdminController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}

func InitOperator(cfg *structures.CliFlags) (*internal.Operator, error) {

	wire.Build(
		baseSet,
		internal.NewOperator,
	)

	return nil, nil
}
