package main

import (
	"context"
	"errors"
	"os"

	"takeout_backend/internal/staging/repository"
	"takeout_backend/platform/config"
	"takeout_backend/platform/db"
	"takeout_backend/platform/logger"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// seedFile is the campaign provisioning format. Campaigns are managed
// outside this service; this tool only backfills missing rows so a fresh
// environment has a route for the fallback platform.
type seedFile struct {
	Campaigns []seedCampaign `yaml:"campaigns"`
}

type seedCampaign struct {
	Platform string `yaml:"platform"`
	TicketID string `yaml:"ticketId"`
	BrandID  string `yaml:"brandId"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting campaign seeding", "file", cfg.GetCampaignSeedFile())

	if !cfg.IsDatabaseConfigured() {
		log.Error("BOH_DATABASE_URL is required for campaign seeding")
		panic("BOH_DATABASE_URL is required for campaign seeding")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	seeds, err := loadSeedFile(cfg.GetCampaignSeedFile())
	if err != nil {
		log.Error("failed to load seed file", "error", err)
		panic("failed to load seed file: " + err.Error())
	}

	repo := repository.New(pool)

	created, skipped := 0, 0
	for _, seed := range seeds.Campaigns {
		ticketID, err := uuid.Parse(seed.TicketID)
		if err != nil {
			log.Error("invalid ticket id in seed file", "platform", seed.Platform, "ticketId", seed.TicketID)
			panic("invalid ticket id in seed file: " + seed.TicketID)
		}

		_, err = repo.FindCampaignByPlatform(ctx, seed.Platform)
		if err == nil {
			log.Info("campaign already provisioned", "platform", seed.Platform)
			skipped++
			continue
		}
		if !errors.Is(err, repository.ErrCampaignNotFound) {
			log.Error("campaign lookup failed", "platform", seed.Platform, "error", err)
			panic("campaign lookup failed: " + err.Error())
		}

		id, err := repo.CreateCampaign(ctx, repository.CreateCampaignParams{
			TicketID: ticketID,
			BrandID:  seed.BrandID,
			Platform: seed.Platform,
		})
		if err != nil {
			log.Error("failed to create campaign", "platform", seed.Platform, "error", err)
			panic("failed to create campaign: " + err.Error())
		}
		log.Info("campaign provisioned", "platform", seed.Platform, "campaignId", id.String())
		created++
	}

	log.Info("campaign seeding complete", "created", created, "skipped", skipped)
}

func loadSeedFile(path string) (seedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return seedFile{}, err
	}

	var seeds seedFile
	if err := yaml.Unmarshal(data, &seeds); err != nil {
		return seedFile{}, err
	}
	if len(seeds.Campaigns) == 0 {
		return seedFile{}, errors.New("seed file contains no campaigns")
	}
	return seeds, nil
}
