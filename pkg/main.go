package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	pkg "git.solsynth.dev/hypernet/polls/pkg/internal"
	"git.solsynth.dev/hypernet/polls/pkg/internal/cache"
	"git.solsynth.dev/hypernet/polls/pkg/internal/database"
	"git.solsynth.dev/hypernet/polls/pkg/internal/grpc"
	"git.solsynth.dev/hypernet/polls/pkg/internal/http"
	"git.solsynth.dev/hypernet/polls/pkg/internal/models"
	"git.solsynth.dev/hypernet/polls/pkg/internal/services"
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
	fmt.Println(color.YellowString(" ____       _ _\n|  _ \\ ___ | | |___\n| |_) / _ \\| | / __|\n|  __/ (_) | | \\__ \\\n|_|   \\___/|_|_|___/"))
	fmt.Printf("%s v%s\n", color.New(color.FgHiYellow).Add(color.Bold).Sprintf("Hypernet.Polls"), pkg.AppVersion)
	fmt.Printf("The tiny voting service in Hypernet\n")
	color.HiBlack("=====================================================\n")

	// Configure settings
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("settings")
	viper.SetConfigType("toml")

	viper.SetDefault("bind", ":8000")
	viper.SetDefault("grpc_bind", ":7000")
	viper.SetDefault("trusted_proxies", []string{})
	viper.SetDefault("database.dialect", "postgres")
	viper.SetDefault("database.vote_retention", "720h")
	viper.SetDefault("polls.recent_window", "24h")
	viper.SetDefault("polls.index_take", 0)
	viper.SetDefault("cache.results_ttl", "5m")

	// Load settings
	if err := viper.ReadInConfig(); err != nil {
		log.Panic().Err(err).Msg("An error occurred when loading settings.")
	}

	if viper.GetBool("debug.enabled") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	models.DefaultRecentWindow = services.RecentWindow()

	// Connect to database
	if err := database.NewGorm(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when connect to database.")
	} else if err := database.RunMigration(database.C); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when running database auto migration.")
	}

	// Initialize cache
	if err := cache.NewStore(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when initializing cache.")
	}

	// Load fixtures
	if path := viper.GetString("fixtures.path"); len(path) > 0 {
		if _, err := services.LoadFixtures(path, time.Now()); err != nil {
			log.Error().Err(err).Msg("An error occurred when loading fixtures...")
		}
	}

	// Configure timed tasks
	quartz := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(&log.Logger)))
	quartz.AddFunc("@every 60m", services.DoAutoDatabaseCleanup)
	quartz.Start()

	// Server
	server := http.NewServer()
	go server.Listen()

	grpcServer := grpc.NewGrpc()
	go func() {
		if err := grpcServer.Listen(); err != nil {
			log.Error().Err(err).Msg("An error occurred when serving grpc...")
		}
	}()

	// Messages
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	quartz.Stop()
	grpcServer.Stop()
	if err := server.Shutdown(); err != nil {
		log.Error().Err(err).Msg("An error occurred when shutting down server...")
	}
}
