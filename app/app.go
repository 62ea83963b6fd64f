package app

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"merch-order-desk/app/controller"
	"merch-order-desk/app/router"
	"merch-order-desk/db"
	"merch-order-desk/pricing"
	"merch-order-desk/repository"
	"merch-order-desk/service"
)

// Initialize wires the application and returns its HTTP handler
func Initialize(ctx context.Context, cfg *Config) (http.Handler, error) {
	settingsRepo, err := newSettingsRepository(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := seedConnectionSettings(ctx, settingsRepo, cfg); err != nil {
		return nil, err
	}

	engine, err := pricing.NewEngine(cfg.ServiceFeeRate)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVICE_FEE_RATE: %w", err)
	}

	// Initialize backend client
	httpClient := &http.Client{Timeout: cfg.BackendTimeout}
	scriptClient := repository.NewScriptClient(settingsRepo, httpClient, repository.ScriptClientOptions{
		SubmitContentType: cfg.SubmitContentType,
		SubmitWithPath:    cfg.SubmitWithPath,
	})

	// Initialize services
	catalogService := service.NewCatalogService(scriptClient, cfg.DuplicatePolicy)
	catalogService.LoadCatalog(ctx)

	imageService := service.NewImageService(catalogService, httpClient, cfg.ImageCacheDir)
	orderService := service.NewOrderService(scriptClient, catalogService, engine)

	adminOpts := service.AdminServiceOptions{
		Passcode:       cfg.AdminPasscode,
		CredentialMode: cfg.CredentialMode,
	}
	if cfg.GoogleClientID != "" {
		adminOpts.Validator = service.NewGoogleIDTokenValidator(cfg.GoogleClientID)
	}
	if cfg.GoogleCredentials != "" {
		driveService, err := service.NewDriveService(ctx, cfg.GoogleCredentials, cfg.ExportDriveFolderID)
		if err != nil {
			return nil, err
		}
		adminOpts.Drive = driveService
		log.Printf("✓ Paid order exports will be uploaded to Google Drive")
	}
	adminService := service.NewAdminService(scriptClient, scriptClient, settingsRepo, adminOpts)
	warnUnusedSavedToken(ctx, settingsRepo, adminService)

	// Create controllers
	controllers := &router.Controllers{
		Catalog:  controller.NewCatalogController(catalogService, imageService),
		Order:    controller.NewOrderController(orderService),
		Settings: controller.NewSettingsController(settingsRepo),
		Admin:    controller.NewAdminController(adminService),
	}

	return router.SetupRoutes(controllers, router.Options{AllowedOrigins: cfg.AllowedOrigins}), nil
}

// newSettingsRepository keeps the connection settings in Postgres when a
// database is configured, otherwise in a local JSON file
func newSettingsRepository(ctx context.Context, cfg *Config) (repository.SettingsRepositoryInterface, error) {
	if !db.Configured() {
		log.Printf("✓ Connection settings stored in %s", cfg.SettingsPath)
		return repository.NewFileSettingsRepository(cfg.SettingsPath), nil
	}

	if err := db.InitDB(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	log.Printf("✓ Connection settings stored in database")
	return repository.NewPostgresSettingsRepository(db.DB), nil
}

// seedConnectionSettings fills empty saved settings from the environment.
// Values saved through the API always win over the environment.
func seedConnectionSettings(ctx context.Context, repo repository.SettingsRepositoryInterface, cfg *Config) error {
	current, err := repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load connection settings: %w", err)
	}

	next := current
	if next.Base == "" {
		next.Base = cfg.BackendBaseURL
	}
	if next.Token == "" {
		next.Token = cfg.AdminToken
	}
	if next == current {
		return nil
	}

	if err := repo.Save(ctx, next); err != nil {
		return fmt.Errorf("failed to seed connection settings: %w", err)
	}
	log.Printf("✓ Connection settings seeded from environment")
	return nil
}

// warnUnusedSavedToken logs when a saved admin token exists but no passcode
// guards it; the token is then never used on behalf of a caller.
func warnUnusedSavedToken(ctx context.Context, repo repository.SettingsRepositoryInterface, admin *service.AdminService) {
	if admin.PasscodeRequired() {
		return
	}
	settings, err := repo.Load(ctx)
	if err != nil || settings.Token == "" {
		return
	}
	log.Printf("⚠️  ADMIN_PASSCODE is not set: the saved admin token is ignored and admin calls need their own token")
}
