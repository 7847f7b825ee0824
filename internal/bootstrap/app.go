package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"matching-backend/internal/ai"
	"matching-backend/internal/ai/openai"
	"matching-backend/internal/ai/perplexity"
	googleauth "matching-backend/internal/auth"
	"matching-backend/internal/companies"
	"matching-backend/internal/documents"
	"matching-backend/internal/matching"
	"matching-backend/internal/prompts"
	"matching-backend/internal/shared/config"
	"matching-backend/internal/shared/server"
	"matching-backend/internal/shared/storage/db"
	"matching-backend/internal/shared/storage/object"
	localstore "matching-backend/internal/shared/storage/object/local"
	s3store "matching-backend/internal/shared/storage/object/s3"
	"matching-backend/internal/usage"
)

// App holds shared dependencies built once at startup.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	CompaniesRepo companies.Repo
	PromptsRepo   prompts.Repo
	DocumentsRepo documents.Repo
	MatchingRepo  matching.Repo

	DocumentsService *documents.Service
	PromptResolver   *prompts.Resolver
	UsageService     *usage.Service
	MatchingService  *matching.Service

	CompanyHandler  *companies.Handler
	PromptHandler   *prompts.Handler
	MatchingHandler *matching.Handler
	UsageHandler    *usage.Handler
	GoogleAuth      *googleauth.GoogleService
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		GoogleAuth:      app.GoogleAuth,
		CompanyHandler:  app.CompanyHandler,
		PromptHandler:   app.PromptHandler,
		MatchingHandler: app.MatchingHandler,
		UsageHandler:    app.UsageHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: migrations failed; using in-memory repositories: %v", err)
			_ = sqlDB.Close()
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.AWSRegion) == "" || strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires AWS_REGION and S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildGPTClient(cfg config.Config) (ai.Client, error) {
	key := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	if key == "" {
		log.Printf("bootstrap: OPENAI_API_KEY empty; gpt analysis calls will fail until configured")
		return ai.Unconfigured{ProviderName: matching.ProviderGPT}, nil
	}
	return openai.NewClient(key, cfg.OpenAIModel)
}

func buildResearchClient(cfg config.Config) (ai.Client, error) {
	key := strings.TrimSpace(os.Getenv("PERPLEXITY_API_KEY"))
	if key == "" {
		log.Printf("bootstrap: PERPLEXITY_API_KEY empty; market research calls will fail until configured")
		return ai.Unconfigured{ProviderName: matching.ProviderPerplexity}, nil
	}
	return perplexity.NewClient(key, cfg.PerplexityModel)
}

func buildServices(app *App) error {
	var companyRepo companies.Repo
	var promptRepo prompts.Repo
	var docRepo documents.Repo
	var matchRepo matching.Repo

	if app.DB != nil {
		companyRepo = &companies.PGRepo{DB: app.DB}
		promptRepo = &prompts.PGRepo{DB: app.DB}
		docRepo = &documents.PGRepo{DB: app.DB}
		matchRepo = &matching.PGRepo{DB: app.DB}
	} else {
		companyRepo = companies.NewMemoryRepo()
		promptRepo = prompts.NewMemoryRepo()
		docRepo = documents.NewMemoryRepo()
		matchRepo = matching.NewMemoryRepo()
	}

	var usageSvc *usage.Service
	if app.DB != nil {
		usageSvc = usage.NewPostgresService(usage.NewPGStore(app.DB))
	} else {
		usageSvc = usage.NewService()
	}

	docSvc := &documents.Service{
		Store: app.Store,
		Repo:  docRepo,
	}

	resolver := &prompts.Resolver{Repo: promptRepo}

	gptClient, err := buildGPTClient(app.Config)
	if err != nil {
		return err
	}
	researchClient, err := buildResearchClient(app.Config)
	if err != nil {
		return err
	}

	matchSvc := &matching.Service{
		Repo:            matchRepo,
		Companies:       companyRepo,
		Documents:       docSvc,
		Prompts:         resolver,
		GPT:             ai.NewInvoker(gptClient),
		Research:        ai.NewInvoker(researchClient),
		Usage:           usageSvc,
		DefaultLanguage: app.Config.DefaultLanguage,
	}

	app.CompaniesRepo = companyRepo
	app.PromptsRepo = promptRepo
	app.DocumentsRepo = docRepo
	app.MatchingRepo = matchRepo
	app.DocumentsService = docSvc
	app.PromptResolver = resolver
	app.UsageService = usageSvc
	app.MatchingService = matchSvc
	app.CompanyHandler = companies.NewHandler(companyRepo)
	app.PromptHandler = prompts.NewHandler(promptRepo)
	app.MatchingHandler = matching.NewHandler(matchSvc)
	app.UsageHandler = &usage.Handler{Service: usageSvc}
	app.GoogleAuth = googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		app.Config.AdminEmails,
	)

	return nil
}
