package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/lintang-b-s/navigatorx-guidance/pkg/engine"
	"github.com/lintang-b-s/navigatorx-guidance/pkg/guidance"
	"github.com/lintang-b-s/navigatorx-guidance/pkg/http"
	"github.com/lintang-b-s/navigatorx-guidance/pkg/http/usecases"
	"github.com/lintang-b-s/navigatorx-guidance/pkg/logger"
	"github.com/lintang-b-s/navigatorx-guidance/pkg/publisher"
	"github.com/lintang-b-s/navigatorx-guidance/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	useRateLimit   = flag.Bool("rate_limit", false, "enable the global request rate limiter")
	routeCacheSize = flag.Int("route_cache_size", 128, "number of polyline routes kept in the route cache")
)

func main() {
	flag.Parse()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := util.ReadConfig(); err != nil {
		logger.Fatal("read config", zap.Error(err))
	}

	cfg := guidance.NewConfigFromViper()
	if err := cfg.Validate(); err != nil {
		logger.Fatal("guidance config", zap.Error(err))
	}

	navigationEngine := engine.NewEngine(cfg, logger)

	viper.SetDefault("MQTT_BROKER", "")
	viper.SetDefault("MQTT_TOPIC_PREFIX", "navigatorx")
	viper.SetDefault("MQTT_CONNECT_TIMEOUT", "5s")
	if broker := viper.GetString("MQTT_BROKER"); broker != "" {
		client, err := publisher.NewMQTTClient(broker, fmt.Sprintf("navigatorx-guidance-%d", os.Getpid()),
			viper.GetDuration("MQTT_CONNECT_TIMEOUT"))
		if err != nil {
			logger.Fatal("mqtt", zap.Error(err))
		}
		defer client.Disconnect(250)

		mqttPublisher := publisher.NewMQTTPublisher(client, viper.GetString("MQTT_TOPIC_PREFIX"), 0, logger)
		navigationEngine.Subscribe(mqttPublisher)
		logger.Info("publishing navigation updates to mqtt", zap.String("broker", broker),
			zap.String("stateTopic", mqttPublisher.StateTopic()), zap.String("eventsTopic", mqttPublisher.EventsTopic()))
	}

	navigationService, err := usecases.NewNavigationService(logger, navigationEngine, *routeCacheSize)
	if err != nil {
		logger.Fatal("navigation service", zap.Error(err))
	}

	ctx, cleanup, err := NewContext()
	if err != nil {
		panic(err)
	}

	api := http.NewServer(logger)
	if _, err := api.Use(ctx, logger, *useRateLimit, navigationService); err != nil {
		logger.Fatal("http server", zap.Error(err))
	}

	signal := http.GracefulShutdown()

	cleanup()
	if err := api.Wait(); err != nil && err != context.Canceled {
		logger.Error("http server", zap.Error(err))
	}
	logger.Info("Navigatorx Guidance Engine Server Stopped", zap.String("signal", signal.String()))
}

func NewContext() (context.Context, func(), error) {
	ctx, cancel := context.WithCancel(context.Background())
	cb := func() {
		cancel()
	}

	return ctx, cb, nil
}
