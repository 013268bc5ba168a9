package container

import (
	"github.com/samber/do"
	"go.uber.org/zap"
)

// LoggerPackage provides *zap.Logger, console or JSON per Options.LogFormat.
func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		opts := do.MustInvoke[*Options](i)

		if opts.LogFormat == "json" {
			return zap.NewProduction()
		}

		return zap.NewDevelopment()
	})
}
