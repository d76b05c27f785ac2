package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"service-request-form/api"
	"service-request-form/internal/cache"
	"service-request-form/internal/config"
	"service-request-form/internal/database"
	"service-request-form/internal/logger"
	"service-request-form/internal/remote/client"
	"service-request-form/internal/socket"
	"service-request-form/internal/submission"

	"github.com/gin-gonic/gin"
)

func main() {
	var (
		configFile = flag.String("config", "./config/config.yml", "Usage: -config=<config_file>")
		loggerFile = flag.String("logger", "./config/logger.yml", "Usage: -logger=<logger_config_file>")
		debug      = flag.Bool("debug", false, "Print debug information on stderr")
	)

	flag.Parse()

	logFile := logger.InitLogger(*debug, *loggerFile)
	if logFile != nil {
		defer logFile.Close()
	}
	logger.Info("Application starting...")

	cnf, err := config.GetConfig(*configFile)
	if err != nil {
		logger.Crit("Cannot load config:", err)
		return
	}
	cnf.RunInDebug = *debug

	if *debug {
		logger.Debug("Config:", cnf)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	store, closeStore := openStore(ctx, cnf)
	defer closeStore()

	settings, err := cnf.Remote.ClientSettings()
	if err != nil {
		logger.Crit(err)
		return
	}
	remote := client.New(settings)
	if settings.Endpoint == "" {
		logger.Warning("remote.endpoint is empty, submissions will fail until it is configured")
	}

	hub := socket.NewHub()
	pipeline := submission.New(store, remote,
		submission.WithNotifier(hub),
		submission.WithDelay(cnf.Form.StatusResetDelay),
	)

	app := gin.Default()
	app.MaxMultipartMemory = cnf.Server.MaxUploadMB << 20
	app.Use(
		api.CORS(cnf.Cors),
		config.Inject(api.KeyConfig, cnf),
		database.InjectStore(api.KeyStore, store),
		submission.Inject(api.KeyPipeline, pipeline),
		socket.Inject(api.KeyHub, hub),
	)

	api.InitRoutes(app)

	srv := &http.Server{
		Addr:    cnf.Server.Listen,
		Handler: app,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Listen: %s\n", err)
		}
	}()

	// Only the remote settings are applied live, the rest needs a restart.
	err = config.Watch(ctx, *configFile, func(next *config.Conf) {
		settings, err := next.Remote.ClientSettings()
		if err != nil {
			logger.Warning("Remote settings not applied:", err)
			return
		}
		remote.Configure(settings)
		logger.Info("Remote endpoint settings updated, mode", string(settings.Mode))
	})
	if err != nil {
		logger.Warning("Config hot reload disabled:", err)
	}

	logger.Info("Application started on", cnf.Server.Listen)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)

	// kill -SIGHUP XXXX
	// kill -SIGINT XXXX or Ctrl+c
	<-signals
	logger.Info("Catch OS signal! Exiting...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warning("App forced to shutdown:", err)
	}

	logger.Info("Application stopped correctly!")
}

func openStore(ctx context.Context, cnf *config.Conf) (cache.Store, func()) {
	switch cnf.Session.Backend {
	case config.BackendRedis:
		r := cnf.Session.Redis
		rdb, err := database.ConnectRedis(ctx, r.Addr, r.Password, r.DB)
		if err != nil {
			logger.Crit("Cannot connect to redis:", err)
		}
		logger.Info("Form sessions kept in redis", r.Addr)
		return cache.NewRedisStore(rdb, cnf.Session.TTL), func() { _ = rdb.Close() }
	default:
		bc, err := database.ConnectInMemoryCache(cnf.Session.TTL)
		if err != nil {
			logger.Crit("Cannot create in-memory cache:", err)
		}
		logger.Info("Form sessions kept in memory")
		return cache.NewMemoryStore(bc), func() { _ = bc.Close() }
	}
}
