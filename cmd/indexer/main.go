package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/kazihub/Homeservicemarketplace/backend/internal/adapters/database"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/adapters/search"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/domain/repositories"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/infrastructure/clients/postgres"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/infrastructure/clients/typesense"
	"github.com/kazihub/Homeservicemarketplace/backend/pkg/config"
)

const providerPageSize = 200

func main() {
	var reset bool
	var intervalFlag string
	flag.BoolVar(&reset, "reset", false, "delete existing Typesense collection before reindexing")
	flag.StringVar(&intervalFlag, "interval", "", "repeat interval for reindexing (e.g. 6h, 30m)")
	flag.Parse()

	intervalValue := strings.TrimSpace(intervalFlag)
	if intervalValue == "" {
		intervalValue = strings.TrimSpace(os.Getenv("REINDEX_INTERVAL"))
	}

	var interval time.Duration
	var err error
	if intervalValue != "" {
		interval, err = time.ParseDuration(intervalValue)
		if err != nil {
			log.Fatalf("Invalid interval %q: %v", intervalValue, err)
		}
		if interval <= 0 {
			log.Fatalf("Interval must be greater than zero")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		if err := indexOnce(ctx, reset); err != nil {
			log.Printf("Reindex failed: %v", err)
		}

		if interval <= 0 {
			break
		}

		reset = false
		log.Printf("Reindex complete. Next run in %s.", interval)

		select {
		case <-ctx.Done():
			log.Println("Reindexer shutting down")
			return
		case <-time.After(interval):
		}
	}
}

func indexOnce(ctx context.Context, reset bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		return err
	}
	defer pgClient.Close()

	providerRepo := database.NewProviderAdapter(pgClient)
	listingRepo := database.NewListingAdapter(pgClient)

	tsClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		return err
	}

	if reset || os.Getenv("RESET_TYPESENSE") == "true" {
		log.Println("Deleting service listings collection before reindex")
		if _, err := tsClient.Client().Collection(typesense.ListingsCollection).Delete(ctx); err != nil {
			log.Printf("Warning: failed to delete collection: %v", err)
		}
	}

	if err := tsClient.InitSchema(ctx); err != nil {
		return err
	}

	searchRepo := search.NewTypesenseAdapter(tsClient)

	indexed := 0
	for offset := 0; ; offset += providerPageSize {
		matchable, err := providerRepo.List(ctx, repositories.ProviderFilter{
			Limit:  providerPageSize,
			Offset: offset,
		})
		if err != nil {
			return err
		}
		if len(matchable) == 0 {
			break
		}

		for _, provider := range matchable {
			listings, err := listingRepo.ListByProvider(ctx, provider.ID)
			if err != nil {
				log.Printf("Warning: failed to load listings for %s: %v", provider.ID, err)
				continue
			}
			for _, listing := range listings {
				if !listing.IsActive {
					continue
				}
				if err := searchRepo.Index(ctx, listing); err != nil {
					log.Printf("Failed to index listing %s: %v", listing.ID, err)
					continue
				}
				indexed++
			}
		}

		if len(matchable) < providerPageSize {
			break
		}
	}

	log.Printf("Indexing complete. %d listings indexed.", indexed)
	return nil
}
