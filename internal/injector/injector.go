//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/framestep/framestep/internal/config"
	"github.com/framestep/framestep/internal/core/observability/log"
	"github.com/framestep/framestep/internal/runtime"
)

func ProvideLogger() *log.Logger {
	wire.Build(log.Provide)
	return log.New(log.LevelDebug)
}

func provideRuntimeLogger(cfg config.Config) log.Log {
	level, err := cfg.Engine.Level()
	if err != nil {
		level = log.LevelInfo
	}
	return log.New(level)
}

func ProvideRuntime(cfg config.Config) (*runtime.Runtime, error) {
	wire.Build(provideRuntimeLogger, runtime.New)
	return nil, nil
}
