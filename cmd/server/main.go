package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/codebuildervaibhav/yt-audio-api/internal/cleanup"
	"github.com/codebuildervaibhav/yt-audio-api/internal/extract"
	"github.com/codebuildervaibhav/yt-audio-api/internal/handlers"
	"github.com/codebuildervaibhav/yt-audio-api/internal/jobs"
	"github.com/codebuildervaibhav/yt-audio-api/internal/search"
	"github.com/codebuildervaibhav/yt-audio-api/internal/storage"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port int    `yaml:"port"`
		Host string `yaml:"host"`
	} `yaml:"server"`

	Search struct {
		MaxResults     int `yaml:"max_results"`
		TimeoutSeconds int `yaml:"timeout_seconds"`
	} `yaml:"search"`

	Convert struct {
		ThresholdSeconds      int64 `yaml:"threshold_seconds"`
		ExtractTimeoutMinutes int   `yaml:"extract_timeout_minutes"`
	} `yaml:"convert"`

	YtDlp struct {
		Binary string `yaml:"binary"`
	} `yaml:"ytdlp"`

	Storage struct {
		TempDir   string `yaml:"temp_dir"`
		OutputDir string `yaml:"output_dir"`
		Database  string `yaml:"database"`
	} `yaml:"storage"`

	Cleanup struct {
		IntervalMinutes int `yaml:"interval_minutes"`
		MaxAgeHours     int `yaml:"max_age_hours"`
	} `yaml:"cleanup"`
}

func main() {
	// .env is optional; API keys may also come from the real environment
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	// Load configuration
	config, err := loadConfig("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Ensure directories exist
	if err := cleanup.EnsureTempDirExists(config.Storage.TempDir); err != nil {
		log.Fatalf("Failed to create temp directory: %v", err)
	}
	if err := os.MkdirAll(config.Storage.OutputDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	// Custom logger setup
	logBuffer := &LogBuffer{
		lines: make([]string, 0, 1000),
	}
	multiWriter := io.MultiWriter(os.Stdout, logBuffer)
	log.SetOutput(multiWriter)

	// Initialize components
	log.Println("Initializing components...")

	// API key pool - refuse to serve without at least one key
	keyPool, err := search.LoadKeysFromEnv()
	if err != nil {
		log.Fatalf("Failed to load API keys: %v", err)
	}
	log.Printf("Loaded %d YouTube API key(s)", keyPool.Len())

	// Search providers and dispatcher
	primary := search.NewYouTubeProvider(config.Search.MaxResults)
	fallback := search.NewYtDlpProvider(config.YtDlp.Binary, config.Search.MaxResults)
	dispatcher := search.NewDispatcher(
		keyPool,
		primary,
		fallback,
		time.Duration(config.Search.TimeoutSeconds)*time.Second,
	)

	// Extraction collaborator
	extractor := extract.NewYtDlp(
		config.YtDlp.Binary,
		time.Duration(config.Convert.ExtractTimeoutMinutes)*time.Minute,
	)
	if ytOK, ffOK := extract.CheckTools(config.YtDlp.Binary); !ytOK || !ffOK {
		log.Printf("WARNING: yt-dlp available: %v, ffmpeg available: %v - conversions may fail", ytOK, ffOK)
	}

	// Local artifact storage
	localStorage := storage.NewLocalStorage(config.Storage.OutputDir)

	// Database
	db, err := storage.NewMetadataDB(config.Storage.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Job orchestration
	router := jobs.NewDurationRouter(config.Convert.ThresholdSeconds)
	orchestrator := jobs.NewOrchestrator(
		jobs.NewMemoryStore(),
		router,
		extractor,
		localStorage,
		db,
		config.Storage.TempDir,
	)

	// Cleanup scheduler
	cleanupScheduler := cleanup.NewScheduler(
		config.Storage.TempDir,
		config.Cleanup.IntervalMinutes,
		config.Cleanup.MaxAgeHours,
	)
	cleanupScheduler.Start()
	defer cleanupScheduler.Stop()

	// Create Fiber app
	app := fiber.New()

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	// Initialize handlers
	searchHandler := handlers.NewSearchHandler(dispatcher)
	convertHandler := handlers.NewConvertHandler(orchestrator, router.Threshold())
	jobsHandler := handlers.NewJobsHandler(orchestrator)
	streamHandler := handlers.NewStreamHandler(extractor)

	// Routes
	app.Get("/health", func(c *fiber.Ctx) error {
		ytOK, ffOK := extract.CheckTools(config.YtDlp.Binary)
		status := "healthy"
		if !ytOK || !ffOK {
			status = "degraded"
		}
		return c.JSON(fiber.Map{
			"status":   status,
			"yt_dlp":   ytOK,
			"ffmpeg":   ffOK,
			"api_keys": keyPool.Len(),
			"version":  "1.0.0",
		})
	})

	app.Get("/api/search", searchHandler.Handle)
	app.Post("/api/convert", convertHandler.Handle)
	app.Get("/api/jobs/:id", jobsHandler.Status)
	app.Get("/api/stream/:videoId", streamHandler.Handle)

	// WebSocket route
	app.Get("/ws/jobs/:id", websocket.New(jobsHandler.Watch))

	// Finished conversions
	app.Get("/api/conversions", func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 50)
		records, err := db.ListConversions(limit)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(records)
	})

	// Converted audio files
	app.Static("/downloads", config.Storage.OutputDir)

	// Get server logs
	app.Get("/logs", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"logs": logBuffer.GetLogs(),
		})
	})

	// Start server
	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	log.Printf("🚀 Server starting on %s", addr)
	log.Println("📝 Endpoints:")
	log.Println("   GET  /api/search?q=       - Search music")
	log.Println("   POST /api/convert         - Start a background conversion")
	log.Println("   GET  /api/jobs/:id        - Poll job status")
	log.Println("   GET  /ws/jobs/:id         - Watch job status over WebSocket")
	log.Println("   GET  /api/stream/:videoId - Resolve a direct stream URL")
	log.Println("   GET  /api/conversions     - List finished conversions")
	log.Println("   GET  /downloads/...       - Download converted audio")
	log.Println("   GET  /logs                - View server logs")
	log.Println("   GET  /health              - Health check")

	// Graceful shutdown
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		log.Println("Shutting down gracefully...")
		app.Shutdown()
	}()

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// LogBuffer captures logs in memory
type LogBuffer struct {
	lines []string
	mu    sync.Mutex
}

func (lb *LogBuffer) Write(p []byte) (n int, err error) {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	lb.lines = append(lb.lines, string(p))

	// Keep last 1000 lines
	if len(lb.lines) > 1000 {
		lb.lines = lb.lines[len(lb.lines)-1000:]
	}

	return len(p), nil
}

func (lb *LogBuffer) GetLogs() []string {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	logs := make([]string, len(lb.lines))
	copy(logs, lb.lines)
	return logs
}

// loadConfig loads configuration from YAML file
func loadConfig(path string) (*Config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(file, &config); err != nil {
		return nil, err
	}

	return &config, nil
}
