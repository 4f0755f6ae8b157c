package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/gin-gonic/gin"
	"google.golang.org/api/option"

	"github.com/Smith-Faldu/legal-lens/internal/analyses"
	"github.com/Smith-Faldu/legal-lens/internal/documents"
	"github.com/Smith-Faldu/legal-lens/internal/extract"
	"github.com/Smith-Faldu/legal-lens/internal/history"
	"github.com/Smith-Faldu/legal-lens/internal/llm"
	"github.com/Smith-Faldu/legal-lens/internal/llm/gemini"
	"github.com/Smith-Faldu/legal-lens/internal/services/health"
	"github.com/Smith-Faldu/legal-lens/internal/shared/auth"
	"github.com/Smith-Faldu/legal-lens/internal/shared/config"
	"github.com/Smith-Faldu/legal-lens/internal/shared/gcp"
	"github.com/Smith-Faldu/legal-lens/internal/shared/server"
	"github.com/Smith-Faldu/legal-lens/internal/shared/storage/db"
	"github.com/Smith-Faldu/legal-lens/internal/shared/storage/object"
	gcsstore "github.com/Smith-Faldu/legal-lens/internal/shared/storage/object/gcs"
	localstore "github.com/Smith-Faldu/legal-lens/internal/shared/storage/object/local"
	s3store "github.com/Smith-Faldu/legal-lens/internal/shared/storage/object/s3"
	"github.com/Smith-Faldu/legal-lens/internal/shared/telemetry"
	"github.com/Smith-Faldu/legal-lens/internal/uploads"
	"github.com/Smith-Faldu/legal-lens/internal/users"
)

// App holds shared dependencies and the router built from them.
type App struct {
	Config    config.Config
	Router    *gin.Engine
	DB        *sql.DB
	Firestore *firestore.Client
	Firebase  *firebase.App
	Store     object.ObjectStore
	Extractor extract.Extractor
	LLM       llm.Client
	Verifier  auth.Verifier

	DocumentsService *documents.Service
	AnalysesService  *analyses.Service
	HistoryService   *history.Service
	UsersService     *users.Service

	closers []io.Closer
}

// Build constructs every client once, in dependency order, and wires the
// router. Dev-like environments fall back to in-memory repositories, the
// local store, the local PDF extractor and the HS256 verifier.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()
	app := &App{Config: cfg}

	if err := app.buildGoogle(ctx); err != nil {
		app.Close()
		return nil, err
	}
	if err := app.buildStore(ctx); err != nil {
		app.Close()
		return nil, err
	}
	if err := app.buildExtractor(ctx); err != nil {
		app.Close()
		return nil, err
	}
	if err := app.buildLLM(ctx); err != nil {
		app.Close()
		return nil, err
	}
	if err := app.buildVerifier(ctx); err != nil {
		app.Close()
		return nil, err
	}

	repos, err := app.buildRepos(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.DocumentsService = documents.NewService(repos.documents, app.Store)
	app.HistoryService = history.NewService(repos.history)
	app.UsersService = users.NewService(repos.users)
	ingestor := uploads.NewIngestor(app.Store, cfg.ObjectPrefix, cfg.MaxUploadBytes)
	app.AnalysesService = analyses.NewService(repos.analyses, app.DocumentsService, app.HistoryService, ingestor, app.Extractor, app.LLM)

	app.Router = server.NewRouter(cfg, server.RouterDeps{
		Verifier:  app.Verifier,
		Health:    health.NewService(),
		Documents: documents.NewHandler(app.DocumentsService),
		Analyses:  analyses.NewHandler(app.AnalysesService),
		History:   history.NewHandler(app.HistoryService),
		Users:     users.NewHandler(app.UsersService),
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":          cfg.Env,
		"database":     repos.kind,
		"object_store": app.Store.Scheme() + "://" + app.Store.Bucket(),
		"ocr":          cfg.OCRProvider,
		"llm":          cfg.LLMProvider,
		"auth":         cfg.AuthProvider,
	})
	return app, nil
}

// Close releases client handles in reverse construction order.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			telemetry.Warn("bootstrap.close_failed", map[string]any{"error": err})
		}
	}
	a.closers = nil
}

func (a *App) needsGoogle() bool {
	cfg := a.Config
	return cfg.AuthProvider == "firebase" ||
		cfg.DatabaseType == "firestore" ||
		cfg.ObjectStoreType == "gcs" ||
		cfg.OCRProvider == "documentai"
}

func (a *App) googleOptions() []option.ClientOption {
	return gcp.ClientOptions(a.Config.FirebaseCredentials)
}

func (a *App) buildGoogle(ctx context.Context) error {
	if !a.needsGoogle() {
		return nil
	}
	projectID, err := gcp.ResolveProjectID(ctx, a.Config.GCPProjectID, a.Config.FirebaseCredentials)
	if err != nil {
		return err
	}
	a.Config.GCPProjectID = projectID

	if a.Config.AuthProvider == "firebase" || a.Config.DatabaseType == "firestore" {
		fb, err := gcp.NewFirebaseApp(ctx, projectID, a.googleOptions()...)
		if err != nil {
			return err
		}
		a.Firebase = fb
	}
	if a.Config.DatabaseType == "firestore" {
		client, err := a.Firebase.Firestore(ctx)
		if err != nil {
			return fmt.Errorf("firestore client: %w", err)
		}
		a.Firestore = client
		a.closers = append(a.closers, client)
	}
	return nil
}

func (a *App) buildStore(ctx context.Context) error {
	switch a.Config.ObjectStoreType {
	case "gcs":
		store, err := gcsstore.New(ctx, a.Config.GCSBucket, a.googleOptions()...)
		if err != nil {
			return err
		}
		a.Store = store
		a.closers = append(a.closers, store)
	case "s3":
		store, err := s3store.New(ctx, a.Config.AWSRegion, a.Config.S3Bucket)
		if err != nil {
			return err
		}
		a.Store = store
	default:
		a.Store = localstore.New(a.Config.LocalStoreDir)
	}
	return nil
}

func (a *App) buildExtractor(ctx context.Context) error {
	if a.Config.OCRProvider != "documentai" {
		a.Extractor = extract.NewLocal(a.Store)
		return nil
	}
	docAI, err := extract.NewDocumentAI(ctx, extract.DocumentAIConfig{
		ProjectID:   a.Config.GCPProjectID,
		Location:    a.Config.DocumentAILocation,
		ProcessorID: a.Config.DocumentAIProcessor,
	}, a.Store, a.googleOptions()...)
	if err != nil {
		return err
	}
	a.Extractor = docAI
	a.closers = append(a.closers, docAI)
	return nil
}

func (a *App) buildLLM(ctx context.Context) error {
	if a.Config.LLMProvider != "gemini" || strings.TrimSpace(a.Config.GeminiAPIKey) == "" {
		if !a.Config.IsDevLike() {
			return errors.New("GEMINI_API_KEY is required")
		}
		telemetry.Warn("bootstrap.llm_placeholder", map[string]any{"provider": a.Config.LLMProvider})
		a.LLM = llm.PlaceholderClient{}
		return nil
	}
	client, err := gemini.NewClient(ctx, a.Config.GeminiAPIKey, a.Config.GeminiModel)
	if err != nil {
		return err
	}
	a.LLM = client
	a.closers = append(a.closers, client)
	return nil
}

func (a *App) buildVerifier(ctx context.Context) error {
	if a.Config.AuthProvider == "firebase" {
		v, err := auth.NewFirebaseVerifier(ctx, a.Firebase)
		if err != nil {
			return err
		}
		a.Verifier = v
		return nil
	}
	v, err := auth.NewJWTVerifier(a.Config.JWTSecret, a.Config.IsProduction())
	if err != nil {
		return err
	}
	a.Verifier = v
	return nil
}

type repoSet struct {
	kind      string
	documents documents.Repo
	analyses  analyses.Repo
	history   history.Repo
	users     users.Repo
}

func (a *App) buildRepos(ctx context.Context) (repoSet, error) {
	switch a.Config.DatabaseType {
	case "firestore":
		return repoSet{
			kind:      "firestore",
			documents: &documents.FirestoreRepo{Client: a.Firestore},
			analyses:  &analyses.FirestoreRepo{Client: a.Firestore},
			history:   &history.FirestoreRepo{Client: a.Firestore},
			users:     &users.FirestoreRepo{Client: a.Firestore},
		}, nil
	case "postgres":
		sqlDB, err := a.buildDB(ctx)
		if err != nil {
			return repoSet{}, err
		}
		if sqlDB != nil {
			return repoSet{
				kind:      "postgres",
				documents: &documents.PGRepo{DB: sqlDB},
				analyses:  &analyses.PGRepo{DB: sqlDB},
				history:   &history.PGRepo{DB: sqlDB},
				users:     &users.PGRepo{DB: sqlDB},
			}, nil
		}
	}
	if !a.Config.IsDevLike() {
		return repoSet{}, fmt.Errorf("DATABASE=%s is not allowed in %s", a.Config.DatabaseType, a.Config.Env)
	}
	return repoSet{
		kind:      "memory",
		documents: documents.NewMemoryRepo(),
		analyses:  analyses.NewMemoryRepo(),
		history:   history.NewMemoryRepo(),
		users:     users.NewMemoryRepo(),
	}, nil
}

// buildDB connects and migrates. Dev-like environments get nil on failure so
// Build can fall back to memory.
func (a *App) buildDB(ctx context.Context) (*sql.DB, error) {
	sqlDB, err := db.Connect(ctx, a.Config.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err == nil {
		if err = db.RunMigrations(ctx, sqlDB); err != nil {
			_ = sqlDB.Close()
		}
	}
	if err != nil {
		if a.Config.IsDevLike() {
			telemetry.Warn("bootstrap.db_fallback", map[string]any{"error": err})
			return nil, nil
		}
		return nil, err
	}
	a.DB = sqlDB
	a.closers = append(a.closers, sqlDB)
	return sqlDB, nil
}
