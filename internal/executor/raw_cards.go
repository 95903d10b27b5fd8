package executor

import (
	"context"

	"github.com/Web-Oliver/pokemon-collection/internal/gateway"
	"github.com/Web-Oliver/pokemon-collection/internal/models"
)

// RawCardExecutor runs add/update/delete for raw cards.
type RawCardExecutor struct {
	opState
	remote   gateway.RawCardAPI
	notifier Notifier
}

func NewRawCardExecutor(remote gateway.RawCardAPI, notifier Notifier) *RawCardExecutor {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &RawCardExecutor{remote: remote, notifier: notifier}
}

func (e *RawCardExecutor) Add(ctx context.Context, payload models.RawCard) (*models.RawCard, error) {
	e.begin()
	defer e.end()

	card, err := e.remote.CreateRawCard(ctx, payload)
	if err != nil {
		return nil, e.fail(e.notifier, "raw-card", "add", "Failed to add raw card", err)
	}
	e.ok(e.notifier, "raw-card", "add", "Raw card added")
	return card, nil
}

func (e *RawCardExecutor) Update(ctx context.Context, id string, payload models.RawCardUpdate) (*models.RawCard, error) {
	e.begin()
	defer e.end()

	card, err := e.remote.UpdateRawCard(ctx, id, payload)
	if err != nil {
		return nil, e.fail(e.notifier, "raw-card", "update", "Failed to update raw card", err)
	}
	e.ok(e.notifier, "raw-card", "update", "Raw card updated")
	return card, nil
}

func (e *RawCardExecutor) Delete(ctx context.Context, id string) error {
	e.begin()
	defer e.end()

	if err := e.remote.DeleteRawCard(ctx, id); err != nil {
		return e.fail(e.notifier, "raw-card", "delete", "Failed to delete raw card", err)
	}
	e.ok(e.notifier, "raw-card", "delete", "Raw card deleted")
	return nil
}
