package executor

import (
	"context"

	"github.com/Web-Oliver/pokemon-collection/internal/gateway"
	"github.com/Web-Oliver/pokemon-collection/internal/models"
)

// PsaCardExecutor runs add/update/delete for graded cards.
type PsaCardExecutor struct {
	opState
	remote   gateway.PsaCardAPI
	notifier Notifier
}

func NewPsaCardExecutor(remote gateway.PsaCardAPI, notifier Notifier) *PsaCardExecutor {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &PsaCardExecutor{remote: remote, notifier: notifier}
}

func (e *PsaCardExecutor) Add(ctx context.Context, payload models.PsaCard) (*models.PsaCard, error) {
	e.begin()
	defer e.end()

	card, err := e.remote.CreatePsaCard(ctx, payload)
	if err != nil {
		return nil, e.fail(e.notifier, "psa-card", "add", "Failed to add PSA card", err)
	}
	e.ok(e.notifier, "psa-card", "add", "PSA card added")
	return card, nil
}

func (e *PsaCardExecutor) Update(ctx context.Context, id string, payload models.PsaCardUpdate) (*models.PsaCard, error) {
	e.begin()
	defer e.end()

	card, err := e.remote.UpdatePsaCard(ctx, id, payload)
	if err != nil {
		return nil, e.fail(e.notifier, "psa-card", "update", "Failed to update PSA card", err)
	}
	e.ok(e.notifier, "psa-card", "update", "PSA card updated")
	return card, nil
}

func (e *PsaCardExecutor) Delete(ctx context.Context, id string) error {
	e.begin()
	defer e.end()

	if err := e.remote.DeletePsaCard(ctx, id); err != nil {
		return e.fail(e.notifier, "psa-card", "delete", "Failed to delete PSA card", err)
	}
	e.ok(e.notifier, "psa-card", "delete", "PSA card deleted")
	return nil
}
