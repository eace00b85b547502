package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/kazihub/Homeservicemarketplace/backend/internal/adapters/search"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/domain/entities"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/infrastructure/clients/postgres"
	"github.com/kazihub/Homeservicemarketplace/backend/internal/infrastructure/clients/typesense"
	"github.com/kazihub/Homeservicemarketplace/backend/pkg/config"
)

type seedProvider struct {
	entity   entities.Provider
	listings []entities.ServiceListing
	bookings []entities.Booking
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	var searchRepo *search.TypesenseAdapter
	if tsClient, err := typesense.NewClient(&cfg.Typesense); err == nil {
		if err := tsClient.InitSchema(context.Background()); err != nil {
			log.Printf("Failed to init search schema: %v", err)
		}
		searchRepo = search.NewTypesenseAdapter(tsClient)
	} else {
		log.Printf("Typesense unavailable, seeding database only: %v", err)
	}

	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				bookings,
				service_listings,
				providers
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	sampleDate := time.Now().AddDate(0, 0, 7).Format("2006-01-02")

	for _, seed := range seedData(sampleDate) {
		if err := insertProvider(ctx, pgClient, &seed.entity); err != nil {
			log.Printf("Failed to seed provider %s: %v", seed.entity.DisplayName, err)
			continue
		}
		for i := range seed.listings {
			listing := &seed.listings[i]
			listing.ProviderID = seed.entity.ID
			if err := insertListing(ctx, pgClient, listing); err != nil {
				log.Printf("Failed to seed listing %s: %v", listing.Title, err)
				continue
			}
			if searchRepo != nil {
				if err := searchRepo.Index(ctx, listing); err != nil {
					log.Printf("Failed to index listing %s: %v", listing.Title, err)
				}
			}
		}
		for i := range seed.bookings {
			booking := &seed.bookings[i]
			booking.ProviderID = seed.entity.ID
			if err := insertBooking(ctx, pgClient, booking); err != nil {
				log.Printf("Failed to seed booking for %s: %v", seed.entity.DisplayName, err)
			}
		}
		log.Printf("Seeded %s (%d listings, %d bookings)",
			seed.entity.DisplayName, len(seed.listings), len(seed.bookings))
	}

	log.Println("Seeding complete.")
}

func insertProvider(ctx context.Context, client *postgres.Client, p *entities.Provider) error {
	now := time.Now()
	_, err := client.DB().ExecContext(ctx, `
		INSERT INTO providers (
			id, display_name, email, phone_number, bio, skills,
			service_areas, rating, review_count, completed_jobs,
			hourly_rate, approval_state, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO NOTHING`,
		p.ID, p.DisplayName, p.Email, p.PhoneNumber, p.Bio,
		pq.Array(p.Skills), pq.Array(p.ServiceAreas),
		p.Rating, p.ReviewCount, p.CompletedJobs, p.HourlyRate,
		string(p.ApprovalState), p.IsActive, now, now,
	)
	return err
}

func insertListing(ctx context.Context, client *postgres.Client, l *entities.ServiceListing) error {
	now := time.Now()
	_, err := client.DB().ExecContext(ctx, `
		INSERT INTO service_listings (
			id, provider_id, category, title, description, price,
			price_type, duration_minutes, is_active, auto_generated,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO NOTHING`,
		l.ID, l.ProviderID, l.Category, l.Title, l.Description,
		l.Price, string(l.PriceType), l.DurationMinutes,
		l.IsActive, l.AutoGenerated, now, now,
	)
	return err
}

func insertBooking(ctx context.Context, client *postgres.Client, b *entities.Booking) error {
	now := time.Now()
	_, err := client.DB().ExecContext(ctx, `
		INSERT INTO bookings (
			id, provider_id, listing_id, client_id, scheduled_date,
			start_time, end_time, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING`,
		b.ID, b.ProviderID, b.ListingID, b.ClientID, b.ScheduledDate,
		b.StartTime, b.EndTime, string(b.Status), now, now,
	)
	return err
}

func seedData(sampleDate string) []seedProvider {
	rating := func(v float64) *float64 { return &v }
	rate := func(v float64) *float64 { return &v }

	return []seedProvider{
		{
			entity: entities.Provider{
				ID:            uuid.New().String(),
				DisplayName:   "Mara Plumbing Works",
				Email:         "mara@example.co.ke",
				PhoneNumber:   "+254700000001",
				Bio:           "Residential plumbing, 8 years in Nairobi",
				Skills:        []string{"plumbing", "pipe installation"},
				ServiceAreas:  []string{"Kileleshwa", "Westlands"},
				Rating:        rating(4.8),
				ReviewCount:   64,
				CompletedJobs: 120,
				HourlyRate:    rate(1500),
				ApprovalState: entities.ApprovalStateApproved,
				IsActive:      true,
			},
			listings: []entities.ServiceListing{
				{
					ID:              uuid.New().String(),
					Category:        "plumbing",
					Title:           "Plumbing repairs and installation",
					Description:     "Leak repair, fixture installation, pipe work",
					Price:           3000,
					PriceType:       entities.PriceTypeFixed,
					DurationMinutes: 120,
					IsActive:        true,
				},
			},
			bookings: []entities.Booking{
				{
					ID:            uuid.New().String(),
					ScheduledDate: sampleDate,
					StartTime:     "09:00",
					EndTime:       "11:00",
					Status:        entities.BookingStatusConfirmed,
				},
			},
		},
		{
			entity: entities.Provider{
				ID:            uuid.New().String(),
				DisplayName:   "Volt Electrics",
				Email:         "volt@example.co.ke",
				PhoneNumber:   "+254700000002",
				Skills:        []string{"electrical", "wiring"},
				ServiceAreas:  []string{"citywide"},
				Rating:        rating(4.5),
				ReviewCount:   38,
				CompletedJobs: 75,
				HourlyRate:    rate(2000),
				ApprovalState: entities.ApprovalStateApproved,
				IsActive:      true,
			},
			listings: []entities.ServiceListing{
				{
					ID:              uuid.New().String(),
					Category:        "electrical",
					Title:           "Electrical wiring and repairs",
					Price:           2500,
					PriceType:       entities.PriceTypeHourly,
					DurationMinutes: 90,
					IsActive:        true,
				},
			},
		},
		{
			entity: entities.Provider{
				ID:            uuid.New().String(),
				DisplayName:   "Swift Movers Kenya",
				Email:         "swift@example.co.ke",
				PhoneNumber:   "+254700000003",
				Skills:        []string{"moving", "packing"},
				ServiceAreas:  []string{"Karen", "Langata"},
				Rating:        rating(4.2),
				ReviewCount:   21,
				CompletedJobs: 40,
				ApprovalState: entities.ApprovalStateApproved,
				IsActive:      true,
			},
			listings: []entities.ServiceListing{
				{
					ID:              uuid.New().String(),
					Category:        "moving",
					Title:           "House and office moving",
					Description:     "Full-service relocation with packing",
					Price:           15000,
					PriceType:       entities.PriceTypeQuote,
					DurationMinutes: 240,
					IsActive:        true,
				},
			},
		},
		{
			// Skill-matched but unlisted; exercises the synthetic tier
			entity: entities.Provider{
				ID:            uuid.New().String(),
				DisplayName:   "Amani General Repairs",
				Email:         "amani@example.co.ke",
				PhoneNumber:   "+254700000004",
				Skills:        []string{"plumbing", "carpentry", "painting"},
				ServiceAreas:  []string{},
				ApprovalState: entities.ApprovalStateApproved,
				IsActive:      true,
			},
		},
		{
			// Pending approval; must never surface in match results
			entity: entities.Provider{
				ID:            uuid.New().String(),
				DisplayName:   "Unvetted Cleaning Co",
				Email:         "unvetted@example.co.ke",
				PhoneNumber:   "+254700000005",
				Skills:        []string{"cleaning"},
				ServiceAreas:  []string{"Westlands"},
				ApprovalState: entities.ApprovalStatePending,
				IsActive:      true,
			},
		},
	}
}
