package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	pkg "git.solsynth.dev/hypernet/scribe/pkg/internal"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/auth"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/cache"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/database"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/grpc"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/http"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/realtime"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/services"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/sessions"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/storage"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/syncer"
	"github.com/fatih/color"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {
	// Booting screen
	fmt.Println(color.YellowString(" ____            _ _\n/ ___|  ___ _ __(_) |__   ___\n\\___ \\ / __| '__| | '_ \\ / _ \\\n ___) | (__| |  | | |_) |  __/\n|____/ \\___|_|  |_|_.__/ \\___|"))
	fmt.Printf("%s v%s\n", color.New(color.FgHiYellow).Add(color.Bold).Sprintf("Hypernet.Scribe"), pkg.AppVersion)
	fmt.Printf("The blogging service in Hypernet\n")
	color.HiBlack("=====================================================\n")

	// Configure settings
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("settings")
	viper.SetConfigType("toml")

	// Load settings
	if err := viper.ReadInConfig(); err != nil {
		log.Panic().Err(err).Msg("An error occurred when loading settings.")
	}

	if viper.GetBool("debug.enabled") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	channel := viper.GetString("realtime.channel")

	// Connect to database
	if err := database.NewGorm(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when connect to database.")
	} else if err := database.RunMigration(database.C, channel); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when running database auto migration.")
	}

	// Initialize cache
	if err := cache.NewStore(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when initializing cache.")
	}

	// Object storage
	bucket, err := storage.NewBucket(ctx)
	if err != nil {
		log.Error().Err(err).Msg("An error occurred when configuring object storage. Uploads will be disabled.")
	}
	var uploadRoot string
	if local, ok := bucket.(*storage.LocalBucket); ok && local != nil {
		uploadRoot = local.Root()
	}

	// Realtime
	hub := realtime.NewHub()
	go func() {
		source := realtime.NewPostgresSource(viper.GetString("database.dsn"), channel)
		if err := hub.Run(ctx, source); err != nil {
			log.Error().Err(err).Msg("Realtime listener stopped.")
		}
	}()

	authenticator := auth.NewService(
		database.C,
		viper.GetString("security.secret"),
		viper.GetDuration("security.session_ttl"),
		viper.GetDuration("security.reset_ttl"),
	)

	template := syncer.Options{
		Remote:   services.NewAccessor(database.C, viper.GetInt("sync.page_size")),
		Auth:     authenticator,
		Realtime: hub,
		Config: syncer.Config{
			PageSize:           viper.GetInt("sync.page_size"),
			NotificationLimit:  viper.GetInt("sync.notification_limit"),
			FeaturedCount:      viper.GetInt("sync.featured_count"),
			LikeReconcileDelay: viper.GetDuration("sync.like_reconcile_delay"),
		},
	}
	if bucket != nil {
		template.Bucket = bucket
	}
	registry := sessions.NewRegistry(
		template,
		cache.S,
		viper.GetDuration("sessions.persist_ttl"),
		viper.GetDuration("sessions.idle_ttl"),
	)

	// Server
	server := http.NewServer(registry, uploadRoot)
	go server.Listen()

	health := grpc.NewGrpc()
	health.Probe(ctx, database.Ping)
	go func() {
		if err := health.Listen(); err != nil {
			log.Error().Err(err).Msg("An error occurred when starting grpc server...")
		}
	}()

	// Configure timed tasks
	quartz := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(&log.Logger)))
	quartz.AddFunc("@every 1m", func() {
		registry.Sweep()
	})
	quartz.AddFunc("@every 30s", func() {
		health.Probe(ctx, database.Ping)
	})
	quartz.AddFunc("@every 10m", func() {
		registry.RefreshTaxonomy(ctx)
	})
	quartz.AddFunc("@every 60m", func() {
		if count, err := authenticator.CleanupExpired(ctx); err != nil {
			log.Error().Err(err).Msg("An error occurred when cleaning up expired sessions...")
		} else {
			log.Info().Int64("count", count).Msg("Cleaned up expired sessions.")
		}
	})
	quartz.Start()

	// Messages
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	quartz.Stop()
	cancel()
	registry.Close()
	hub.Close()
	health.Stop()
	if err := server.Shutdown(); err != nil {
		log.Error().Err(err).Msg("An error occurred when shutting down server...")
	}
}
