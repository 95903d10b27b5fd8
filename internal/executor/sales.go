package executor

import (
	"context"

	"github.com/Web-Oliver/pokemon-collection/internal/gateway"
	"github.com/Web-Oliver/pokemon-collection/internal/models"
)

// SalesExecutor runs the mark-sold transition for all three entity
// types. It gets its own loading flag and error slot so a slow sale
// doesn't blend into the add/update/delete state of the type executors.
type SalesExecutor struct {
	opState
	remote   gateway.SalesAPI
	notifier Notifier
}

func NewSalesExecutor(remote gateway.SalesAPI, notifier Notifier) *SalesExecutor {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &SalesExecutor{remote: remote, notifier: notifier}
}

func (e *SalesExecutor) MarkPsaCardSold(ctx context.Context, id string, details models.SaleDetails) (*models.PsaCard, error) {
	e.begin()
	defer e.end()

	card, err := e.remote.MarkPsaCardSold(ctx, id, details)
	if err != nil {
		return nil, e.fail(e.notifier, "psa-card", "mark-sold", "Failed to mark PSA card as sold", err)
	}
	e.ok(e.notifier, "psa-card", "mark-sold", "PSA card marked as sold")
	return card, nil
}

func (e *SalesExecutor) MarkRawCardSold(ctx context.Context, id string, details models.SaleDetails) (*models.RawCard, error) {
	e.begin()
	defer e.end()

	card, err := e.remote.MarkRawCardSold(ctx, id, details)
	if err != nil {
		return nil, e.fail(e.notifier, "raw-card", "mark-sold", "Failed to mark raw card as sold", err)
	}
	e.ok(e.notifier, "raw-card", "mark-sold", "Raw card marked as sold")
	return card, nil
}

func (e *SalesExecutor) MarkSealedProductSold(ctx context.Context, id string, details models.SaleDetails) (*models.SealedProduct, error) {
	e.begin()
	defer e.end()

	product, err := e.remote.MarkSealedProductSold(ctx, id, details)
	if err != nil {
		return nil, e.fail(e.notifier, "sealed-product", "mark-sold", "Failed to mark sealed product as sold", err)
	}
	e.ok(e.notifier, "sealed-product", "mark-sold", "Sealed product marked as sold")
	return product, nil
}
