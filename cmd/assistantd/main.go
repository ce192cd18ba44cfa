// assistantd serves the banking AI assistant: the advisor API plus the
// embedded widget endpoints, in one process.
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/alecthomas/kong"
	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	advisor "github.com/balajinrrbgm/go-assistant-widget/components/advisor"
	advisorrouter "github.com/balajinrrbgm/go-assistant-widget/components/advisor/gorouter"
	assistant "github.com/balajinrrbgm/go-assistant-widget/components/assistant"
	"github.com/balajinrrbgm/go-assistant-widget/components/assistant/commands"
	assistantrouter "github.com/balajinrrbgm/go-assistant-widget/components/assistant/gorouter"
	"github.com/balajinrrbgm/go-assistant-widget/components/assistant/httpapi"
	"github.com/balajinrrbgm/go-assistant-widget/pkg/assistantapi"
	"github.com/balajinrrbgm/go-assistant-widget/pkg/bankdata"
)

type cli struct {
	Serve serveCmd `cmd:"" default:"1" help:"Run the assistant server."`
}

type serveCmd struct {
	Addr     string `default:":8080" env:"ADDR" help:"Listen address."`
	BasePath string `default:"/assistant" env:"BASE_PATH" help:"Base path for widget routes."`
	Debug    bool   `env:"DEBUG" help:"Enable development logging."`

	AdvisorURL string `env:"ADVISOR_URL" help:"Remote advisor base URL. Empty co-hosts the advisor in this process."`
	AuthToken  string `env:"ADVISOR_AUTH_TOKEN" help:"Bearer token for a remote advisor."`

	GeminiAPIKey string `env:"GEMINI_API_KEY" help:"Gemini API key. Empty disables AI generation."`
	GeminiModel  string `env:"GEMINI_MODEL" help:"Gemini model name override."`

	RedisURL string        `env:"REDIS_URL" help:"Redis URL for the shared insights cache. Empty uses in-process memory."`
	CacheTTL time.Duration `default:"5m" env:"CACHE_TTL" help:"Insights cache TTL."`

	UserServiceURL        string `env:"USERSERVICE_URL" help:"userservice base URL."`
	BalanceReaderURL      string `env:"BALANCEREADER_URL" help:"balancereader base URL."`
	TransactionHistoryURL string `env:"TRANSACTIONHISTORY_URL" help:"transactionhistory base URL."`
	ContactsURL           string `env:"CONTACTS_URL" help:"contacts base URL."`

	SurfaceManifest string `env:"SURFACE_MANIFEST" type:"path" help:"Optional YAML manifest binding extra chart surfaces."`
}

func main() {
	_ = godotenv.Load()
	ctx := kong.Parse(&cli{},
		kong.Description("Banking AI assistant server."),
		kong.UsageOnError(),
	)
	err := ctx.Run(context.Background())
	ctx.FatalIfErrorf(err)
}

func (cmd *serveCmd) Run(ctx context.Context) error {
	logger, err := cmd.buildLogger()
	if err != nil {
		return fmt.Errorf("assistantd: build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	server := router.NewFiberAdapter()
	appRouter := server.Router()

	client, err := cmd.buildClient(ctx, logger, appRouter)
	if err != nil {
		return err
	}

	surfaces := assistant.NewSurfaceRegistry()
	if cmd.SurfaceManifest != "" {
		doc, err := surfaces.LoadManifestFile(cmd.SurfaceManifest)
		if err != nil {
			return err
		}
		logger.Info("loaded surface manifest",
			zap.String("path", cmd.SurfaceManifest),
			zap.Int("surfaces", len(doc.Surfaces)),
		)
	}

	hook := assistant.NewBroadcastHook()
	widgets, err := assistant.NewManager(assistant.Options{
		Client:      client,
		Surfaces:    surfaces,
		RefreshHook: hook,
		Telemetry:   assistant.NewZapTelemetry(logger),
	})
	if err != nil {
		return fmt.Errorf("assistantd: build widget manager: %w", err)
	}

	executor := &httpapi.CommandExecutor{
		SendMessageCommander:     commands.NewSendMessageCommand(widgets, nil),
		ToggleChatCommander:      commands.NewToggleChatCommand(widgets, nil),
		RefreshInsightsCommander: commands.NewRefreshInsightsCommand(widgets, nil),
		SavePreferencesCommander: commands.NewSavePreferencesCommand(assistant.NewInMemoryPreferenceStore(), nil),
	}

	if err := assistantrouter.Register(assistantrouter.Config[*fiber.App]{
		Router:    appRouter,
		Widgets:   widgets,
		API:       executor,
		Broadcast: hook,
		BasePath:  cmd.BasePath,
	}); err != nil {
		return fmt.Errorf("assistantd: register widget routes: %w", err)
	}

	logger.Info("assistant server ready",
		zap.String("addr", cmd.Addr),
		zap.String("widget", cmd.BasePath+"/widget"),
	)
	return server.Serve(cmd.Addr)
}

// buildClient resolves the advisor the widget talks to: a remote one when
// AdvisorURL is set, otherwise an advisor co-hosted on this router.
func (cmd *serveCmd) buildClient(ctx context.Context, logger *zap.Logger, appRouter router.Router[*fiber.App]) (assistant.Client, error) {
	if cmd.AdvisorURL != "" {
		logger.Info("using remote advisor", zap.String("url", cmd.AdvisorURL))
		return assistantapi.NewHTTPClient(assistantapi.Config{
			BaseURL:   cmd.AdvisorURL,
			AuthToken: cmd.AuthToken,
		})
	}

	bank := bankdata.NewClient(bankdata.Config{
		UserServiceURL:        cmd.UserServiceURL,
		BalanceReaderURL:      cmd.BalanceReaderURL,
		TransactionHistoryURL: cmd.TransactionHistoryURL,
		ContactsURL:           cmd.ContactsURL,
	})

	var generator advisor.Generator
	if cmd.GeminiAPIKey != "" {
		gemini, err := advisor.NewGeminiGenerator(ctx, cmd.GeminiAPIKey, cmd.GeminiModel)
		if err != nil {
			return nil, err
		}
		generator = gemini
	} else {
		logger.Warn("GEMINI_API_KEY not set, AI generation disabled")
	}

	var cache advisor.InsightsCache
	if cmd.RedisURL != "" {
		redisCache, err := advisor.NewRedisCache(cmd.RedisURL, cmd.CacheTTL)
		if err != nil {
			return nil, err
		}
		cache = redisCache
		logger.Info("using redis insights cache")
	} else {
		cache = advisor.NewMemoryCache(cmd.CacheTTL)
	}

	service, err := advisor.NewService(advisor.Options{
		Bank:      bank,
		Generator: generator,
		Cache:     cache,
		Telemetry: assistant.NewZapTelemetry(logger),
	})
	if err != nil {
		return nil, err
	}

	if err := advisorrouter.Register(advisorrouter.Config[*fiber.App]{
		Router:  appRouter,
		Service: service,
	}); err != nil {
		return nil, fmt.Errorf("assistantd: register advisor routes: %w", err)
	}

	return assistantapi.NewLocalClient(service), nil
}

func (cmd *serveCmd) buildLogger() (*zap.Logger, error) {
	if cmd.Debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
