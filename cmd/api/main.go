package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AgusMolinaCode/CryptoMovers_Api.git/internal/config"
	"github.com/AgusMolinaCode/CryptoMovers_Api.git/internal/database"
	"github.com/AgusMolinaCode/CryptoMovers_Api.git/internal/middleware"
	"github.com/AgusMolinaCode/CryptoMovers_Api.git/internal/repository"
	routes "github.com/AgusMolinaCode/CryptoMovers_Api.git/internal/server"
	"github.com/AgusMolinaCode/CryptoMovers_Api.git/internal/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	once := flag.Bool("once", false, "ejecuta una sola corrida y termina")
	flag.Parse()

	// Cargar variables de entorno
	if err := godotenv.Load(); err != nil {
		log.Printf("No se pudo cargar el archivo .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuración inválida: %v", err)
	}

	// Inicializar base de datos de corridas
	db, err := database.InitDB(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Error al inicializar la base de datos: %v", err)
	}
	defer db.Close()

	redisClient, err := database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Printf("Continuando sin caché: %v", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	cacheTTL := 2 * cfg.UpdateInterval
	if cacheTTL < time.Hour {
		cacheTTL = time.Hour
	}

	runRepo := repository.NewRunRepository(db)
	workbookRepo := repository.NewWorkbookRepository(cfg.WorkbookPath)
	summaryCache := repository.NewSummaryCache(redisClient, cacheTTL)
	client := services.NewCoinGeckoClient(cfg.CoinGeckoBaseURL, cfg.CoinGeckoTimeout)
	hub := middleware.NewHub()

	updater := services.NewMarketUpdater(
		cfg.UpdateInterval,
		cfg.Currency,
		cfg.PerPage,
		client,
		workbookRepo,
		runRepo,
		summaryCache,
		hub.Broadcast,
	)

	if *once {
		if _, err := updater.RunOnce(context.Background()); err != nil {
			log.Printf("La corrida falló: %v", err)
			db.Close()
			os.Exit(1)
		}
		return
	}

	// Crear el router de Gin
	router := gin.Default()

	// Configurar CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	corsConfig.ExposeHeaders = []string{"Content-Length", "Content-Disposition"}
	router.Use(cors.New(corsConfig))

	middleware.InitAuth(cfg.JWTSecret, cfg.AdminPasswordHash)
	middleware.InitMarket(updater, runRepo, workbookRepo, summaryCache)
	routes.RegisterRoutes(router, hub)

	// Iniciar la actualización periódica del mercado
	updater.Start()
	defer updater.Stop()

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Error al iniciar el servidor: %v", err)
		}
	}()
	log.Printf("Servidor escuchando en :%s", cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Apagando el servidor...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error al apagar el servidor: %v", err)
	}
}
