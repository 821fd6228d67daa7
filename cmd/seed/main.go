// Command seed applies migrations and loads the default challenge catalog
// plus a demo family, so a fresh install has data to play with.
package main

import (
	"flag"

	"go.uber.org/zap"

	"screenbreak/internal/config"
	"screenbreak/internal/database"
	"screenbreak/internal/repository"
	"screenbreak/internal/service"
)

func main() {
	demo := flag.Bool("demo", false, "also create a demo family with two children")
	flag.Parse()

	cfg := config.Load()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	if err := db.SeedDefaultCatalog(); err != nil {
		logger.Fatal("failed to seed challenge catalog", zap.Error(err))
	}
	logger.Info("challenge catalog seeded")

	if !*demo {
		return
	}

	childRepo := repository.NewChildRepository(db)
	familyRepo := repository.NewFamilyRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	familyService := service.NewFamilyService(familyRepo, childRepo, ledgerRepo)

	alice, err := familyService.RegisterChild("Alice", 8, []string{"reading", "outdoor"}, 60)
	if err != nil {
		logger.Fatal("failed to create demo child", zap.Error(err))
	}
	ben, err := familyService.RegisterChild("Ben", 12, []string{"sport", "creative"}, 90)
	if err != nil {
		logger.Fatal("failed to create demo child", zap.Error(err))
	}

	family, err := familyService.CreateFamily("The Demos", []int64{alice.ID, ben.ID})
	if err != nil {
		logger.Fatal("failed to create demo family", zap.Error(err))
	}

	logger.Info("demo family created",
		zap.Int64("family_id", family.ID),
		zap.Int64s("children", []int64{alice.ID, ben.ID}))
}
