package container

import (
	"time"

	"github.com/samber/do"
	"github.com/serroba/shortcode/internal/handlers"
	"github.com/serroba/shortcode/internal/hotcache"
	"github.com/serroba/shortcode/internal/idgen"
	"github.com/serroba/shortcode/internal/shortener"
	"go.uber.org/zap"
)

// ShortenerPackage provides the generator, the creation strategies, the promoter and the resolver.
func ShortenerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*idgen.Generator, error) {
		opts := do.MustInvoke[*Options](i)

		return idgen.NewGenerator(opts.NodeID, idgen.SystemClock{})
	})

	do.Provide(injector, func(i *do.Injector) (*shortener.Creator, error) {
		return shortener.NewCreator(
			do.MustInvoke[*idgen.Generator](i),
			do.MustInvoke[Repository](i),
			idgen.SystemClock{},
		), nil
	})

	do.Provide(injector, func(i *do.Injector) (map[handlers.Strategy]shortener.Strategy, error) {
		creator := do.MustInvoke[*shortener.Creator](i)
		repo := do.MustInvoke[Repository](i)

		return map[handlers.Strategy]shortener.Strategy{
			handlers.StrategySequence: shortener.NewSequenceStrategy(creator),
			handlers.StrategyHash:     shortener.NewHashStrategy(repo, creator),
		}, nil
	})

	do.Provide(injector, func(i *do.Injector) (*hotcache.Promoter, error) {
		opts := do.MustInvoke[*Options](i)

		return hotcache.NewPromoter(do.MustInvoke[FastPath](i), hotcache.Config{
			Threshold:     int64(opts.HotThreshold),
			CounterWindow: time.Duration(opts.CounterWindow) * time.Second,
			EntryTTL:      time.Duration(opts.EntryTTL) * time.Second,
		}), nil
	})

	do.Provide(injector, func(i *do.Injector) (*shortener.Resolver, error) {
		return shortener.NewResolver(
			do.MustInvoke[Repository](i),
			do.MustInvoke[*hotcache.Promoter](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
}
