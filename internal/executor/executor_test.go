package executor

import (
	"context"
	"errors"
	"testing"

	"github.com/Web-Oliver/pokemon-collection/internal/models"
)

type recordingNotifier struct {
	successes []string
	failures  []string
}

func (n *recordingNotifier) Success(msg string) { n.successes = append(n.successes, msg) }
func (n *recordingNotifier) Error(msg string)   { n.failures = append(n.failures, msg) }

// stubPsaAPI lets each test decide how the remote behaves.
type stubPsaAPI struct {
	createFn func(context.Context, models.PsaCard) (*models.PsaCard, error)
	updateFn func(context.Context, string, models.PsaCardUpdate) (*models.PsaCard, error)
	deleteFn func(context.Context, string) error
}

func (s *stubPsaAPI) CreatePsaCard(ctx context.Context, p models.PsaCard) (*models.PsaCard, error) {
	return s.createFn(ctx, p)
}

func (s *stubPsaAPI) UpdatePsaCard(ctx context.Context, id string, p models.PsaCardUpdate) (*models.PsaCard, error) {
	return s.updateFn(ctx, id, p)
}

func (s *stubPsaAPI) DeletePsaCard(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

type stubSalesAPI struct {
	psaFn    func(context.Context, string, models.SaleDetails) (*models.PsaCard, error)
	rawFn    func(context.Context, string, models.SaleDetails) (*models.RawCard, error)
	sealedFn func(context.Context, string, models.SaleDetails) (*models.SealedProduct, error)
}

func (s *stubSalesAPI) MarkPsaCardSold(ctx context.Context, id string, d models.SaleDetails) (*models.PsaCard, error) {
	return s.psaFn(ctx, id, d)
}

func (s *stubSalesAPI) MarkRawCardSold(ctx context.Context, id string, d models.SaleDetails) (*models.RawCard, error) {
	return s.rawFn(ctx, id, d)
}

func (s *stubSalesAPI) MarkSealedProductSold(ctx context.Context, id string, d models.SaleDetails) (*models.SealedProduct, error) {
	return s.sealedFn(ctx, id, d)
}

func TestAddSuccessNotifiesAndReturnsEntity(t *testing.T) {
	notifier := &recordingNotifier{}
	stub := &stubPsaAPI{
		createFn: func(_ context.Context, p models.PsaCard) (*models.PsaCard, error) {
			p.ID = "psa-1"
			return &p, nil
		},
	}
	exec := NewPsaCardExecutor(stub, notifier)

	card, err := exec.Add(context.Background(), models.PsaCard{CardName: "Charizard"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if card.ID != "psa-1" {
		t.Errorf("Expected created entity back, got %+v", card)
	}
	if len(notifier.successes) != 1 {
		t.Errorf("Expected 1 success notification, got %v", notifier.successes)
	}
	if exec.Err() != "" {
		t.Errorf("Expected empty error slot, got %q", exec.Err())
	}
}

func TestLoadingAlwaysResolves(t *testing.T) {
	notifier := &recordingNotifier{}
	stub := &stubPsaAPI{}
	exec := NewPsaCardExecutor(stub, notifier)

	// The always-rejecting remote observes the loading flag mid-call.
	var loadingDuringCall bool
	stub.createFn = func(context.Context, models.PsaCard) (*models.PsaCard, error) {
		loadingDuringCall = exec.Loading()
		return nil, errors.New("remote exploded")
	}

	if exec.Loading() {
		t.Error("Loading should be false before the call")
	}
	if _, err := exec.Add(context.Background(), models.PsaCard{}); err == nil {
		t.Fatal("Expected error from rejecting remote")
	}
	if !loadingDuringCall {
		t.Error("Loading should be true during the remote call")
	}
	if exec.Loading() {
		t.Error("Loading should be false after the call rejects")
	}
}

func TestFailureRecordsErrorAndNotifies(t *testing.T) {
	notifier := &recordingNotifier{}
	cause := errors.New("connection refused")
	stub := &stubPsaAPI{
		deleteFn: func(context.Context, string) error { return cause },
	}
	exec := NewPsaCardExecutor(stub, notifier)

	err := exec.Delete(context.Background(), "psa-1")
	if err == nil {
		t.Fatal("Expected error to propagate")
	}
	if !errors.Is(err, cause) {
		t.Errorf("Expected propagated error to wrap the cause, got %v", err)
	}
	if exec.Err() != "Failed to delete PSA card" {
		t.Errorf("Unexpected error slot: %q", exec.Err())
	}
	if len(notifier.failures) != 1 {
		t.Errorf("Expected 1 failure notification, got %v", notifier.failures)
	}

	exec.ClearError()
	if exec.Err() != "" {
		t.Error("ClearError did not reset the error slot")
	}
}

func TestRetrySuccessClearsStaleError(t *testing.T) {
	notifier := &recordingNotifier{}
	failNext := true
	stub := &stubPsaAPI{
		createFn: func(_ context.Context, p models.PsaCard) (*models.PsaCard, error) {
			if failNext {
				return nil, errors.New("remote exploded")
			}
			p.ID = "psa-1"
			return &p, nil
		},
	}
	exec := NewPsaCardExecutor(stub, notifier)

	if _, err := exec.Add(context.Background(), models.PsaCard{}); err == nil {
		t.Fatal("Expected first Add to fail")
	}
	if exec.Err() != "Failed to add PSA card" {
		t.Fatalf("Unexpected error slot: %q", exec.Err())
	}

	// Retrying successfully must not leave the old failure on display.
	failNext = false
	if _, err := exec.Add(context.Background(), models.PsaCard{}); err != nil {
		t.Fatalf("Retry failed: %v", err)
	}
	if exec.Err() != "" {
		t.Errorf("Stale error survived a successful retry: %q", exec.Err())
	}
	if len(notifier.successes) != 1 || len(notifier.failures) != 1 {
		t.Errorf("Expected 1 success and 1 failure notification, got %v / %v", notifier.successes, notifier.failures)
	}
}

func TestUpdateReturnsUpdatedEntity(t *testing.T) {
	price := 150.0
	stub := &stubPsaAPI{
		updateFn: func(_ context.Context, id string, p models.PsaCardUpdate) (*models.PsaCard, error) {
			return &models.PsaCard{ID: id, MyPrice: *p.MyPrice}, nil
		},
	}
	exec := NewPsaCardExecutor(stub, &recordingNotifier{})

	card, err := exec.Update(context.Background(), "psa-1", models.PsaCardUpdate{MyPrice: &price})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if card.MyPrice != 150 {
		t.Errorf("Expected updated price, got %+v", card)
	}
}

func TestMarkSoldReturnsSoldEntity(t *testing.T) {
	notifier := &recordingNotifier{}
	stub := &stubSalesAPI{
		psaFn: func(_ context.Context, id string, d models.SaleDetails) (*models.PsaCard, error) {
			return &models.PsaCard{ID: id, Sold: true, SaleDetails: &d}, nil
		},
	}
	exec := NewSalesExecutor(stub, notifier)

	card, err := exec.MarkPsaCardSold(context.Background(), "psa-1", models.SaleDetails{ActualSoldPrice: 5500})
	if err != nil {
		t.Fatalf("MarkSold failed: %v", err)
	}
	if !card.Sold || card.SaleDetails == nil || card.SaleDetails.ActualSoldPrice != 5500 {
		t.Errorf("Expected sold entity with sale details, got %+v", card)
	}
	if len(notifier.successes) != 1 {
		t.Errorf("Expected success notification, got %v", notifier.successes)
	}
}

func TestMarkSoldFailureKeepsOwnErrorSlot(t *testing.T) {
	stub := &stubSalesAPI{
		rawFn: func(context.Context, string, models.SaleDetails) (*models.RawCard, error) {
			return nil, errors.New("boom")
		},
	}
	exec := NewSalesExecutor(stub, &recordingNotifier{})

	if _, err := exec.MarkRawCardSold(context.Background(), "raw-1", models.SaleDetails{}); err == nil {
		t.Fatal("Expected error")
	}
	if exec.Err() != "Failed to mark raw card as sold" {
		t.Errorf("Unexpected error slot: %q", exec.Err())
	}
	if exec.Loading() {
		t.Error("Loading not reset after failure")
	}
}
