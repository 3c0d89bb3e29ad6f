package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/lintang-b-s/navigatorx-guidance/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-guidance/pkg/engine"
	"github.com/lintang-b-s/navigatorx-guidance/pkg/gpsreplay"
	"github.com/lintang-b-s/navigatorx-guidance/pkg/guidance"
	"github.com/lintang-b-s/navigatorx-guidance/pkg/logger"
	"github.com/lintang-b-s/navigatorx-guidance/pkg/publisher"
	"github.com/lintang-b-s/navigatorx-guidance/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	routeFile  = flag.String("route", "./data/route.json", "route json file")
	nmeaFile   = flag.String("nmea", "./data/drive.nmea", "nmea log file replayed against the route")
	serialPort = flag.String("serial", "", "serial port of a live gps receiver, e.g. /dev/ttyUSB0. overrides -nmea")
	baudRate   = flag.Uint("baud", 9600, "baud rate of the serial gps receiver")
	pace       = flag.Float64("pace", 0, "replay speed relative to the fix timestamps, 0 = as fast as possible")
	mqttBroker = flag.String("mqtt", "", "mqtt broker, e.g. tcp://localhost:1883. empty disables publishing")
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

	route, err := datastructure.ReadRouteFile(*routeFile)
	if err != nil {
		logger.Fatal("read route", zap.String("file", *routeFile), zap.Error(err))
	}

	navigationEngine := engine.NewEngine(cfg, logger)
	navigationEngine.Subscribe(engine.SubscriberFunc(func(state datastructure.NavigationState,
		events []datastructure.AnnouncementEvent) {
		logger.Info("navigation state",
			zap.Int("segment", state.SegmentIndex),
			zap.Float64("distanceToNextTurn", state.DistanceToNextTurn),
			zap.Float64("remainingDistance", state.RemainingDistance),
			zap.Float64("remainingTime", state.RemainingTime),
			zap.Float64("completion", state.CompletionPercent),
			zap.Bool("offRoute", state.OffRoute),
		)
		for _, ev := range events {
			logger.Info("announcement", zap.String("kind", ev.Kind.String()), zap.Bool("haptic", ev.Haptic),
				zap.String("text", ev.Text()))
		}
	}))

	if *mqttBroker != "" {
		viper.SetDefault("MQTT_TOPIC_PREFIX", "navigatorx")
		viper.SetDefault("MQTT_CONNECT_TIMEOUT", "5s")
		client, err := publisher.NewMQTTClient(*mqttBroker, "navigatorx-guidance-replay",
			viper.GetDuration("MQTT_CONNECT_TIMEOUT"))
		if err != nil {
			logger.Fatal("mqtt", zap.Error(err))
		}
		defer client.Disconnect(250)
		navigationEngine.Subscribe(publisher.NewMQTTPublisher(client, viper.GetString("MQTT_TOPIC_PREFIX"), 0, logger))
	}

	var source io.ReadCloser
	if *serialPort != "" {
		source, err = gpsreplay.OpenSerial(*serialPort, *baudRate)
	} else {
		source, err = os.Open(*nmeaFile)
	}
	if err != nil {
		logger.Fatal("open gps source", zap.Error(err))
	}
	defer source.Close()

	if err := navigationEngine.Start(route); err != nil {
		logger.Fatal("start navigation", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reader := gpsreplay.NewReader(source, logger)
	accepted, err := gpsreplay.Replay(ctx, reader, *pace, func(fix *datastructure.GPSPoint) error {
		_, _, err := navigationEngine.Update(fix)
		if !navigationEngine.IsActive() {
			// arrived
			stop()
		}
		return err
	})
	if err != nil && err != context.Canceled {
		logger.Error("replay", zap.Error(err))
	}

	logger.Info("replay finished", zap.Int("acceptedFixes", accepted), zap.Int("skippedSentences", reader.Skipped),
		zap.Bool("active", navigationEngine.IsActive()))
}
