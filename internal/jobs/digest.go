// Package jobs runs scheduled work outside the dialog core, currently the
// periodic low-stock digest pushed to every owner with products.
package jobs

import (
	"context"
	"log"

	"github.com/google/uuid"

	"homestock/internal/gateway"
	"homestock/internal/render"
	"homestock/internal/repositories"
)

type DigestService struct {
	products repositories.ProductRepository
	gw       gateway.Gateway
}

func NewDigestService(products repositories.ProductRepository, gw gateway.Gateway) *DigestService {
	return &DigestService{products: products, gw: gw}
}

// Run pushes a shopping-list digest to every owner that has at least one
// product at or below its threshold. Owners with nothing to buy are
// skipped rather than spammed with "fully stocked".
func (d *DigestService) Run(ctx context.Context) error {
	runID := uuid.New()
	log.Printf("digest %s: starting low stock digest", runID)

	owners, err := d.products.ListOwners(ctx)
	if err != nil {
		log.Printf("digest %s: listing owners: %v", runID, err)
		return err
	}

	sent := 0
	for _, owner := range owners {
		low, err := d.products.ListLowStock(ctx, owner)
		if err != nil {
			log.Printf("digest %s: listing low stock for owner %d: %v", runID, owner, err)
			continue
		}
		if len(low) == 0 {
			continue
		}

		text := render.ShoppingList(low, "🚨 Daily stock check")
		if err := d.gw.Send(ctx, owner, gateway.Render{Text: text}); err != nil {
			log.Printf("digest %s: sending to owner %d: %v", runID, owner, err)
			continue
		}
		sent++
	}

	log.Printf("digest %s: completed, %d digest(s) sent", runID, sent)
	return nil
}
