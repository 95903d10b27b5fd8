package executor

import (
	"context"

	"github.com/Web-Oliver/pokemon-collection/internal/gateway"
	"github.com/Web-Oliver/pokemon-collection/internal/models"
)

// SealedProductExecutor runs add/update/delete for sealed products.
type SealedProductExecutor struct {
	opState
	remote   gateway.SealedProductAPI
	notifier Notifier
}

func NewSealedProductExecutor(remote gateway.SealedProductAPI, notifier Notifier) *SealedProductExecutor {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &SealedProductExecutor{remote: remote, notifier: notifier}
}

func (e *SealedProductExecutor) Add(ctx context.Context, payload models.SealedProduct) (*models.SealedProduct, error) {
	e.begin()
	defer e.end()

	product, err := e.remote.CreateSealedProduct(ctx, payload)
	if err != nil {
		return nil, e.fail(e.notifier, "sealed-product", "add", "Failed to add sealed product", err)
	}
	e.ok(e.notifier, "sealed-product", "add", "Sealed product added")
	return product, nil
}

func (e *SealedProductExecutor) Update(ctx context.Context, id string, payload models.SealedProductUpdate) (*models.SealedProduct, error) {
	e.begin()
	defer e.end()

	product, err := e.remote.UpdateSealedProduct(ctx, id, payload)
	if err != nil {
		return nil, e.fail(e.notifier, "sealed-product", "update", "Failed to update sealed product", err)
	}
	e.ok(e.notifier, "sealed-product", "update", "Sealed product updated")
	return product, nil
}

func (e *SealedProductExecutor) Delete(ctx context.Context, id string) error {
	e.begin()
	defer e.end()

	if err := e.remote.DeleteSealedProduct(ctx, id); err != nil {
		return e.fail(e.notifier, "sealed-product", "delete", "Failed to delete sealed product", err)
	}
	e.ok(e.notifier, "sealed-product", "delete", "Sealed product deleted")
	return nil
}
