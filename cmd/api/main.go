package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/carbon-aware-scheduler/internal/analyzer"
	"github.com/ANIKETSHETTY47/carbon-aware-scheduler/internal/cloud"
	"github.com/ANIKETSHETTY47/carbon-aware-scheduler/internal/config"
	"github.com/ANIKETSHETTY47/carbon-aware-scheduler/internal/database"
	httpHandlers "github.com/ANIKETSHETTY47/carbon-aware-scheduler/internal/http"
	"github.com/ANIKETSHETTY47/carbon-aware-scheduler/internal/messaging"
	"github.com/ANIKETSHETTY47/carbon-aware-scheduler/internal/repository"
	"github.com/ANIKETSHETTY47/carbon-aware-scheduler/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	zerolog.SetGlobalLevel(config.LogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var catalog repository.Catalog = repository.NewStatic(nil)
	if dsn := config.DatabaseDSN(); dsn != "" {
		db, err := database.Connect(ctx, dsn)
		if err != nil {
			log.Fatal().Err(err).Msg("db connect failed")
		}
		defer db.Close()
		catalog = repository.Fallback{Primary: repository.NewTiers(db), Secondary: catalog}
	}

	var pubs service.MultiPublisher
	if broker := config.MQTTBroker(); broker != "" {
		mq, err := messaging.NewMQTTPublisher(broker, config.MQTTClientID(), config.MQTTTopic())
		if err != nil {
			log.Fatal().Err(err).Msg("mqtt connect")
		}
		defer mq.Close()
		pubs = append(pubs, mq)
	}
	if config.UseCloudServices() && config.SNSTopicArn() != "" {
		sns, err := cloud.NewSNSClient(ctx, config.AWSRegion(), config.SNSTopicArn())
		if err != nil {
			log.Fatal().Err(err).Msg("sns client init failed")
		}
		pubs = append(pubs, sns)
	}

	var pub service.Publisher
	if len(pubs) > 0 {
		pub = pubs
	}

	svcs := service.New(catalog, analyzer.NewRandSource(), pub)
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })

	httpHandlers.Register(app, svcs)

	go func() {
		<-ctx.Done()
		if err := app.Shutdown(); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	addr := config.APIAddr()
	log.Info().Str("addr", addr).Int("publishers", len(pubs)).Msg("api listening")
	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("server exit")
	}
}
