package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pacemaker_dcm/internal/device"
	"pacemaker_dcm/internal/handlers"
	"pacemaker_dcm/internal/logger"
	"pacemaker_dcm/internal/repository"
	"pacemaker_dcm/internal/server"
	"pacemaker_dcm/internal/service"
	"pacemaker_dcm/internal/transport"

	_ "pacemaker_dcm/docs"

	"github.com/spf13/viper"
)

// @title           Pacemaker DCM API
// @version         1.0
// @description     Device controller-monitor for programming and monitoring a cardiac pacemaker over a serial link.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func main() {
	// init logger
	log := logger.Get(logger.InfoLevel)

	// load config.yml
	if err := loadConfig(); err != nil {
		log.Fatalw("error reading config", "err", err)
	}

	// open DB
	db, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Fatalw("failed to close sqlite", "err", cerr)
		}
	}()

	// device link: loopback pacemaker by default, serial when configured
	sess := device.NewSession(buildTransport(log), sessionConfig(), log)

	// wire dependencies
	repos := repository.NewRepository(db)
	services := service.NewService(repos, sess, viper.GetInt("telemetry.buffer"), authConfig(), log)
	apiHandler := handlers.NewHandler(services, log)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(srv, services, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "app.db")
		dbPath = "app.db"
	}
	return repository.InitDB(dbPath)
}

// buildTransport selects the wire implementation from configuration.
func buildTransport(log *logger.Logger) transport.Transport {
	switch viper.GetString("device.transport") {
	case "serial":
		cfg := transport.SerialConfig{
			Port: viper.GetString("serial.port"),
			Baud: viper.GetInt("serial.baud"),
		}
		log.Infow("using serial transport", "port", cfg.Port, "baud", cfg.Baud)
		return transport.NewSerial(cfg)
	default:
		log.Infow("using loopback transport")
		return transport.NewLoopback()
	}
}

func authConfig() service.AuthConfig {
	return service.AuthConfig{
		SigningKey: viper.GetString("auth.signing_key"),
		TokenTTL:   viper.GetDuration("auth.token_ttl"),
	}
}

func sessionConfig() device.Config {
	cfg := device.Config{}
	if ms := viper.GetInt("device.response_timeout_ms"); ms > 0 {
		cfg.ResponseTimeout = time.Duration(ms) * time.Millisecond
	}
	if ms := viper.GetInt("telemetry.poll_ms"); ms > 0 {
		cfg.TelemetryPoll = time.Duration(ms) * time.Millisecond
	}
	return cfg
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, services *service.Service, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop the egram stream and release the device link
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := services.Telemetry.Stop(ctx); err != nil {
		log.Errorw("telemetry stop failed", "err", err)
	}
	if err := services.Programmer.Disconnect(ctx); err != nil {
		log.Errorw("device disconnect failed", "err", err)
	}

	// allow in-flight requests to complete
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
