package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/taqueria-landing/internal/config"
	"github.com/fairyhunter13/taqueria-landing/internal/logging"
	"github.com/fairyhunter13/taqueria-landing/internal/site"
	"github.com/fairyhunter13/taqueria-landing/pkg/storage"
)

func main() {
	publish := flag.Bool("publish", false, "upload the built site to DEPLOY_BUCKET")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(cfg.Log, os.Stderr)

	res, err := site.Build(cfg.Site)
	if err != nil {
		log.Fatal().Err(err).Msg("build failed")
	}
	log.Info().Int("pages", res.Pages).Str("output", cfg.Site.OutputDir).Msg("build complete")

	if !*publish {
		return
	}
	if cfg.Deploy.Bucket == "" {
		log.Fatal().Msg("-publish requires DEPLOY_BUCKET")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	publisher, err := storage.NewPublisher(ctx, storage.S3Config{
		Region:          cfg.Deploy.Region,
		AccessKeyID:     cfg.Deploy.AccessKeyID,
		SecretAccessKey: cfg.Deploy.SecretAccessKey,
		Bucket:          cfg.Deploy.Bucket,
		Prefix:          cfg.Deploy.Prefix,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create publisher")
	}
	if _, err := publisher.PublishDir(ctx, cfg.Site.OutputDir); err != nil {
		log.Fatal().Err(err).Msg("publish failed")
	}
	log.Info().Str("url", publisher.PublicURL()).Msg("site published")
}
