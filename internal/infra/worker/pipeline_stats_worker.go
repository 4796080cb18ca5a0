package worker

import (
	"context"
	"log"
	"time"

	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// StatsSource computes the unrestricted pipeline totals.
type StatsSource interface {
	PipelineTotals(ctx context.Context) (*usecase.DashboardStats, error)
}

// PipelineStatsWorker periodically publishes pipeline totals through publish.
type PipelineStatsWorker struct {
	source       StatsSource
	publish      func(*usecase.DashboardStats)
	tickInterval time.Duration
}

func NewPipelineStatsWorker(source StatsSource, publish func(*usecase.DashboardStats), interval time.Duration) *PipelineStatsWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &PipelineStatsWorker{
		source:       source,
		publish:      publish,
		tickInterval: interval,
	}
}

func (w *PipelineStatsWorker) Start(ctx context.Context) {
	log.Printf("🕒 Pipeline stats worker started (every %s)", w.tickInterval)

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ Pipeline stats worker stopped")
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *PipelineStatsWorker) refresh(ctx context.Context) {
	stats, err := w.source.PipelineTotals(ctx)
	if err != nil {
		log.Printf("❌ Failed to compute pipeline totals: %v", err)
		return
	}
	w.publish(stats)
}
