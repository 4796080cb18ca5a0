package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/xavierca1/ligue-crm/internal/config"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/kommo"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

// Pushes one synthetic lead through the Kommo syncer, bypassing RabbitMQ.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	if !cfg.Kommo.Enabled() {
		log.Fatal("❌ KOMMO_API_TOKEN and KOMMO_BASE_URL must be set")
	}

	client := kommo.NewClient(cfg.Kommo.BaseURL, cfg.Kommo.APIToken)

	event := queue.PipelineEvent{
		Type:       queue.EventLeadCreated,
		LeadID:     uuid.NewString(),
		Name:       "Test Lead",
		Email:      "test.lead@example.com",
		Phone:      "+5561999999999",
		Company:    "Example Co",
		OccurredAt: time.Now().UTC(),
	}

	fmt.Println("🔄 Syncing lead to Kommo...")
	fmt.Printf("   Name: %s\n", event.Name)
	fmt.Printf("   Email: %s\n", event.Email)
	fmt.Printf("   Phone: %s\n", event.Phone)
	fmt.Printf("   Company: %s\n\n", event.Company)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := client.SyncLead(ctx, event); err != nil {
		log.Fatalf("❌ Kommo sync failed: %v", err)
	}
	fmt.Println("✅ Lead synced")
}
