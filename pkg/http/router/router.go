package router

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/justinas/alice"
	"github.com/lintang-b-s/navigatorx-guidance/pkg/concurrent"
	"github.com/lintang-b-s/navigatorx-guidance/pkg/http/router/controllers"
	router_helper "github.com/lintang-b-s/navigatorx-guidance/pkg/http/router/routerhelper"
	http_server "github.com/lintang-b-s/navigatorx-guidance/pkg/http/server"
	"github.com/mailru/easygo/netpoll"
	"github.com/rs/cors"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	_ "net/http/pprof"

	httpSwagger "github.com/swaggo/http-swagger"
)

type API struct {
	log    *zap.Logger
	hub    *controllers.Hub
	poller netpoll.Poller
	pool   *concurrent.WorkerPool
}

func NewAPI(log *zap.Logger) *API {
	return &API{log: log}
}

//	@title			Navigatorx Guidance API
//	@version		1.0
//	@description	Route-following engine: turn-by-turn guidance along a precomputed driving route.

//	@contact.name	Lintang Birda Saputra
//	@contact.url	_
//	@contact.email	lintang.birda.saputra@mail.ugm.ac.id

//	@license.name	BSD License
//	@license.url	https://opensource.org/license/bsd-2-clause

// @host		localhost
// @BasePath	/api
func (api *API) Run(
	ctx context.Context,
	config http_server.Config,
	useRateLimit bool,
	navigationService controllers.NavigationService,
) error {
	api.log.Info("Run httprouter API")

	handler, cleanup := api.Handler(useRateLimit, navigationService)
	defer cleanup()

	srv := http_server.New(ctx, handler, config)
	api.log.Info(fmt.Sprintf("API run on port %d", config.Port))

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		api.log.Info("HTTP server stopped", zap.Error(err))
		return err
	case <-ctx.Done():
		api.log.Info("Context canceled, shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	}
}

// Handler. the full middleware chain and routes. cleanup unsubscribes the websocket hub from the engine and
// closes every websocket connection.
func (api *API) Handler(useRateLimit bool, navigationService controllers.NavigationService) (http.Handler, func()) {
	router := httprouter.New()

	corsHandler := cors.New(cors.Options{ //nolint:gocritic // ignore
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, //nolint:mnd // ignore
	})

	router.GET("/doc/*any", swaggerHandler)
	router.Handler(http.MethodGet, "/debug/pprof/*item", http.DefaultServeMux)

	group := router_helper.NewRouteGroup(router, "/api")
	navigationRoutes := controllers.New(navigationService, api.log)
	navigationRoutes.Routes(group)

	viper.SetDefault("WEBSOCKET_WORKERS", 16)
	viper.SetDefault("WEBSOCKET_QUEUE_SIZE", 64)
	workers := viper.GetInt("WEBSOCKET_WORKERS")
	api.pool = concurrent.NewWorkerPool(workers, viper.GetInt("WEBSOCKET_QUEUE_SIZE"), 1)
	api.hub = controllers.NewHub(api.pool, api.log)

	poller, err := netpoll.New(nil)
	if err != nil {
		api.log.Warn("netpoll unavailable, websocket users get a reader goroutine each", zap.Error(err))
	} else {
		api.poller = poller
	}

	router.GET("/ws", api.serveWebsocket)
	unsubscribe := navigationService.Subscribe(api.hub)

	var mwChain []alice.Constructor
	mwChain = append(mwChain, corsHandler.Handler, EnforceJSONHandler, api.recoverPanic,
		RealIP, Heartbeat("healthz"), Logger(api.log), Labels)
	if useRateLimit {
		mwChain = append(mwChain, Limit)
	}

	cleanup := func() {
		unsubscribe()
		api.hub.RemoveAllUser()
		api.pool.Close()
		api.log.Info("websocket hub stopped")
	}
	return alice.New(mwChain...).Then(router), cleanup
}

func swaggerHandler(res http.ResponseWriter, req *http.Request, p httprouter.Params) {
	httpSwagger.WrapHandler(res, req)
}
