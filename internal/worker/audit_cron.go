package worker

// audit_cron.go
// Scheduled stock audit. Walks every shop, checks two invariants and
// refreshes the cached inventory value:
//   - quantity >= 0 for every product
//   - for serialized products, quantity == number of live item rows
// Discrepancies are logged for the operator; the audit never mutates
// product counts itself.

import (
	"context"
	"time"

	"github.com/StockSmart-AI/stock-smart-backend/internal/repository"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog/log"
)

// AuditCronConfig holds all dependencies for the audit job.
type AuditCronConfig struct {
	Shops    repository.ShopRepository
	Products repository.ProductRepository
	Items    repository.ItemRepository
	Interval time.Duration
}

// StartAuditCron schedules the stock audit on a gocron scheduler and
// returns it so main can stop it on shutdown.
func StartAuditCron(ctx context.Context, cfg AuditCronConfig) *gocron.Scheduler {
	s := gocron.NewScheduler(time.UTC)
	interval := cfg.Interval
	if interval <= 0 {
		interval = time.Hour
	}
	_, err := s.Every(interval).Do(func() { runAudit(ctx, cfg) })
	if err != nil {
		log.Error().Err(err).Msg("audit_cron: failed to schedule")
		return s
	}
	s.StartAsync()
	log.Info().Dur("interval", interval).Msg("audit_cron: started")
	return s
}

func runAudit(ctx context.Context, cfg AuditCronConfig) {
	shops, err := cfg.Shops.ListAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("audit_cron: failed to list shops")
		return
	}

	for i := range shops {
		shop := &shops[i]
		products, err := cfg.Products.ListByShop(ctx, shop.ID)
		if err != nil {
			log.Error().Err(err).Str("shop_id", shop.ID.String()).Msg("audit_cron: failed to list products")
			continue
		}

		for j := range products {
			p := &products[j]
			if p.Quantity < 0 {
				log.Error().
					Str("product_id", p.ID.String()).
					Str("shop_id", shop.ID.String()).
					Int("quantity", p.Quantity).
					Bool("inconsistent", true).
					Msg("audit_cron: negative quantity")
			}
			if !p.IsSerialized {
				continue
			}
			count, err := cfg.Items.CountByProduct(ctx, p.ID)
			if err != nil {
				log.Error().Err(err).Str("product_id", p.ID.String()).Msg("audit_cron: failed to count items")
				continue
			}
			if int(count) != p.Quantity {
				log.Error().
					Str("product_id", p.ID.String()).
					Str("shop_id", shop.ID.String()).
					Int("quantity", p.Quantity).
					Int64("item_count", count).
					Bool("inconsistent", true).
					Msg("audit_cron: serialized count drift")
			}
		}

		value, err := cfg.Products.InventoryValue(ctx, shop.ID)
		if err != nil {
			log.Error().Err(err).Str("shop_id", shop.ID.String()).Msg("audit_cron: failed to compute inventory value")
			continue
		}
		if err := cfg.Shops.UpdateInventoryValue(ctx, shop.ID, value); err != nil {
			log.Error().Err(err).Str("shop_id", shop.ID.String()).Msg("audit_cron: failed to refresh inventory value")
		}
	}
	log.Debug().Int("shops", len(shops)).Msg("audit_cron: pass complete")
}
