package components

import (
	"context"

	"parkgate/internal/worker"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		worker.NewLeaseSweeper,
	),
	fx.Invoke(startLeaseSweeper),
)

func startLeaseSweeper(lc fx.Lifecycle, sweeper *worker.LeaseSweeper) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			sweeper.Start(context.Background())
			return nil
		},
		OnStop: func(_ context.Context) error {
			sweeper.Stop()
			return nil
		},
	})
}
