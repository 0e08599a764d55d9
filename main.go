package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/utils"

	"hadirku_backend/internals/configs"
	database "hadirku_backend/internals/databases"
	checkinService "hadirku_backend/internals/features/checkin/service"
	proofService "hadirku_backend/internals/features/proof/service"
	rosterScheduler "hadirku_backend/internals/features/roster/scheduler"
	rosterService "hadirku_backend/internals/features/roster/service"
	"hadirku_backend/internals/ledger"
	middlewares "hadirku_backend/internals/middlewares"
	routes "hadirku_backend/internals/route"
)

func main() {
	configs.LoadEnv()

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
	})

	// ⚙️ middleware dasar + performa
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault})) // gzip
	app.Use(etag.New())                                                  // 304 caching

	// 🔎 Request-ID + timing (observability ringan)
	app.Use(func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = utils.UUID()
		}
		c.Set("X-Request-ID", id)
		c.Locals("reqid", id)
		start := time.Now()
		ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()
		c.SetUserContext(ctx)
		err := c.Next()
		dur := time.Since(start)
		log.Printf("[REQ] id=%s %s %s status=%d dur=%s", id, c.Method(), c.OriginalURL(), c.Response().StatusCode(), dur)
		return err
	})

	middlewares.SetupMiddlewares(app)

	// 🔌 DB connect + migrasi + pool + warm-up
	database.ConnectDB()
	database.Migrate()
	database.TunePool()
	database.WarmUpQueries()

	// 🧾 Ledger program di atas store Postgres
	store := ledger.NewGormStore(database.DB)
	program := ledger.NewProgram(store, nil)

	// 👁 Read reconciler + poller
	roster := rosterService.NewRosterService(program)
	poller := rosterScheduler.NewPoller(roster, configs.PollInterval)
	poller.Start()

	// 🪙 Side channel mint proof (fire-and-forget)
	var minter proofService.TreeMinter = proofService.SimulatedMinter{}
	if configs.ProofMerkleTree != "" {
		treeWallet, err := ledger.DeriveWallet([]byte(configs.WalletSecret), "proof-tree-authority")
		if err != nil {
			log.Fatalf("❌ Gagal derivasi wallet tree: %v", err)
		}
		minter = &proofService.BubblegumMinter{
			MerkleTree: configs.ProofMerkleTree,
			Signer:     treeWallet,
		}
	}
	mints := proofService.NewMintQueue(minter, database.DB, configs.ProofMetadataURI, 64)
	mints.Start()

	checkins := checkinService.NewCheckinService(program, mints)

	// ❤️ Health check (anti-cold start)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	// ✅ Routes
	routes.SetupRoutes(app, program, roster, poller, checkins)

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	// Start server non-blocking
	go func() {
		log.Printf("✅ Listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown: poller & mint queue dulu, baru server & pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	poller.Stop()
	mints.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
