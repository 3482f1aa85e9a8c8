package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	cartController "github.com/Alturino/bookstore/internal/cart/controller"
	cartStore "github.com/Alturino/bookstore/internal/cart/store"
	catalogClient "github.com/Alturino/bookstore/internal/catalog/client"
	catalogController "github.com/Alturino/bookstore/internal/catalog/controller"
	catalogService "github.com/Alturino/bookstore/internal/catalog/service"
	checkoutController "github.com/Alturino/bookstore/internal/checkout/controller"
	checkoutService "github.com/Alturino/bookstore/internal/checkout/service"
	"github.com/Alturino/bookstore/internal/common/constants"
	commonErrors "github.com/Alturino/bookstore/internal/common/errors"
	"github.com/Alturino/bookstore/internal/config"
	"github.com/Alturino/bookstore/internal/infra"
	"github.com/Alturino/bookstore/internal/log"
	"github.com/Alturino/bookstore/internal/middleware"
	orderClient "github.com/Alturino/bookstore/internal/order/client"
	orderController "github.com/Alturino/bookstore/internal/order/controller"
	orderService "github.com/Alturino/bookstore/internal/order/service"
	orderStore "github.com/Alturino/bookstore/internal/order/store"
	"github.com/Alturino/bookstore/internal/otel"
	"github.com/Alturino/bookstore/internal/storage"
	userController "github.com/Alturino/bookstore/internal/user/controller"
	userService "github.com/Alturino/bookstore/internal/user/service"
)

// profileProvider bridges the session service into checkout prefill.
type profileProvider struct {
	users *userService.UserService
}

func (p profileProvider) Profile(c context.Context) (checkoutService.Profile, bool) {
	user, err := p.users.Current(c)
	if err != nil {
		return checkoutService.Profile{}, false
	}
	return checkoutService.Profile{
		CustomerId: user.Id,
		FullName:   user.FullName,
		Email:      user.Email,
		Address:    user.Address,
	}, true
}

func RunStorefront(c context.Context) {
	c, span := otel.Tracer.Start(c, "RunStorefront")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyAppName, constants.APP_STOREFRONT).
		Str(log.KeyTag, "main RunStorefront").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "init config").Logger()
	logger.Info().Msg("initializing config")
	c = logger.WithContext(c)
	cfg := config.Get(c, constants.APP_STOREFRONT)
	logger = logger.With().Any(log.KeyConfig, cfg).Logger()
	logger.Info().Msg("initialized config")

	logger = logger.With().Str(log.KeyProcess, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	c = logger.WithContext(c)
	otelShutdowns, err := otel.InitOtelSdk(c, constants.APP_STOREFRONT, cfg.Otel)
	if err != nil {
		err = fmt.Errorf("failed initializing otel sdk with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	defer func() {
		logger.Info().Msg("shutting down otel")
		c = logger.WithContext(c)
		if err := otel.ShutdownOtel(c, otelShutdowns); err != nil {
			err = fmt.Errorf("failed shutting down otel with error=%w", err)
			commonErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown otel")
	}()
	logger.Info().Msg("initialized otel sdk")

	logger = logger.With().Str(log.KeyProcess, "initializing storage").Logger()
	logger.Info().Msg("initializing storage")
	c = logger.WithContext(c)
	var store storage.Store
	switch cfg.Storage.Backend {
	case "redis":
		cache := infra.NewCacheClient(c, cfg.Cache)
		defer func() {
			logger.Info().Msg("shutting down cache")
			if err := cache.Close(); err != nil {
				err = fmt.Errorf("failed shutting down cache with error=%w", err)
				commonErrors.HandleError(err, span)
				logger.Error().Err(err).Msg(err.Error())
				return
			}
			logger.Info().Msg("shutdown cache")
		}()
		store = storage.NewRedisStore(cache, cfg.Application.Env)
	default:
		fileStore, err := storage.NewFileStore(c, cfg.Storage.Dir)
		if err != nil {
			err = fmt.Errorf("failed initializing file storage with error=%w", err)
			commonErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		store = fileStore
	}
	logger.Info().Msgf("initialized storage backend=%s", cfg.Storage.Backend)

	logger = logger.With().Str(log.KeyProcess, "initializing services").Logger()
	logger.Info().Msg("initializing services")
	cart := cartStore.New(c, store)
	localOrders := orderStore.NewLocalOrderStore(store)
	users := userService.NewUserService(store, cfg.Application.SecretKey)
	catalog := catalogService.NewCatalogService(
		catalogClient.NewCatalogClient(cfg.Remote.CatalogBaseUrl),
	)
	remoteOrders := orderClient.NewOrderClient(
		cfg.Remote.OrderBaseUrl,
		time.Duration(cfg.Remote.TimeoutSeconds)*time.Second,
	)
	orders := orderService.NewOrderService(remoteOrders, localOrders)
	checkout := checkoutService.NewCheckoutService(
		cart,
		remoteOrders,
		localOrders,
		profileProvider{users: users},
	)
	logger.Info().Msg("initialized services")

	logger = logger.With().Str(log.KeyProcess, "initializing router").Logger()
	logger.Info().Msg("initializing router")
	router := mux.NewRouter()
	router.Use(
		otelmux.Middleware(constants.APP_STOREFRONT),
		middleware.Logging,
		middleware.RecoverPanic,
		middleware.Session(cfg.Application.SecretKey),
	)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	cartController.AttachCartController(router, cart)
	catalogController.AttachCatalogController(router, catalog)
	orderController.AttachOrderController(router, orders)
	checkoutController.AttachCheckoutController(router, checkout)
	userController.AttachUserController(router, users)
	logger.Info().Msg("initialized router")

	logger = logger.With().Str(log.KeyProcess, "initializing server").Logger()
	logger.Info().Msg("initializing server")
	httpServer := http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Application.Host, cfg.Application.Port),
		BaseContext:  func(net.Listener) context.Context { return c },
		Handler:      router,
		ReadTimeout:  45 * time.Second,
		WriteTimeout: 45 * time.Second,
	}
	logger.Info().Msg("initialized server")

	go func() {
		logger := logger.With().Str(log.KeyProcess, "start server").Logger()
		logger.Info().Msgf("start listening request at %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			err = fmt.Errorf("error=%w occured while server is running", err)
			commonErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown server")
	}()

	<-c.Done()
	logger = logger.With().Str(log.KeyProcess, "shutting down http server").Logger()
	logger.Info().Msg("received interruption signal shutting down")
	if err := httpServer.Shutdown(context.Background()); err != nil {
		err = fmt.Errorf("failed shutting down http server with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("shutdown http server")
}
