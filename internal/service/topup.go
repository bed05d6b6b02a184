package service

import (
	"context"
	"fmt"
	"time"

	"github.com/devgate/monetize/internal/api/dto"
	"github.com/devgate/monetize/internal/domain/topup"
	ierr "github.com/devgate/monetize/internal/errors"
	"github.com/devgate/monetize/internal/idempotency"
	"github.com/devgate/monetize/internal/types"
	"github.com/samber/lo"
)

// TopupService owns queued balance adjustments: creation from completed
// orders, asynchronous execution against the billing backend, and the
// audit read surface over finished and failed top-ups.
type TopupService interface {
	CreateTopup(ctx context.Context, req *dto.CreateTopupRequest) (*dto.TopupResponse, error)
	GetTopup(ctx context.Context, id string) (*dto.TopupResponse, error)
	ListTopups(ctx context.Context, filter *types.TopupFilter) (*dto.ListTopupsResponse, error)
	ProcessTopup(ctx context.Context, id string) error
}

type topupService struct {
	ServiceParams
}

func NewTopupService(params ServiceParams) TopupService {
	return &topupService{
		ServiceParams: params,
	}
}

func (s *topupService) CreateTopup(ctx context.Context, req *dto.CreateTopupRequest) (*dto.TopupResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.DeveloperRepo.Get(ctx, req.DeveloperID); err != nil {
		return nil, err
	}

	// Idempotency is enforced at enqueue time: one top-up per source
	// order. A failed top-up is resubmitted as a new order reference,
	// never by re-executing the failed row.
	if existing, err := s.TopupRepo.GetByOrderID(ctx, req.OrderID); err == nil && existing != nil {
		return nil, ierr.NewError("a top-up already exists for this order").
			WithHint("This order has already been credited").
			WithReportableDetails(map[string]any{
				"order_id": req.OrderID,
				"topup_id": existing.ID,
			}).
			Mark(ierr.ErrAlreadyExists)
	} else if err != nil && !ierr.IsNotFound(err) {
		return nil, err
	}

	t := req.ToTopup(ctx)
	if t.Metadata == nil {
		t.Metadata = types.Metadata{}
	}
	t.Metadata["idempotency_key"] = s.IdempGen.GenerateKey(idempotency.ScopeTopup, map[string]interface{}{
		"order_id": req.OrderID,
		"currency": req.Currency,
	})

	if err := t.Validate(); err != nil {
		return nil, err
	}

	if err := s.TopupRepo.Create(ctx, t); err != nil {
		s.Logger.Errorw("failed to create topup", "error", err, "order_id", req.OrderID)
		return nil, err
	}

	if err := s.TopupPublisher.Publish(ctx, t.ID); err != nil {
		// The row stays pending so an operator can re-enqueue it.
		s.Logger.Errorw("failed to enqueue topup", "error", err, "topup_id", t.ID)
		return nil, err
	}

	return dto.NewTopupResponse(t), nil
}

func (s *topupService) GetTopup(ctx context.Context, id string) (*dto.TopupResponse, error) {
	t, err := s.TopupRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return dto.NewTopupResponse(t), nil
}

func (s *topupService) ListTopups(ctx context.Context, filter *types.TopupFilter) (*dto.ListTopupsResponse, error) {
	if filter == nil {
		filter = &types.TopupFilter{}
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	topups, err := s.TopupRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	count, err := s.TopupRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.TopupResponse, len(topups))
	for i, t := range topups {
		items[i] = dto.NewTopupResponse(t)
	}

	return lo.ToPtr(types.NewListResponse(items, count, filter.GetLimit(), filter.GetOffset())), nil
}

// ProcessTopup executes one pending top-up against the billing backend.
// The RUNNING transition is persisted before the external call so a
// re-picked task cannot be executed twice to completion.
func (s *topupService) ProcessTopup(ctx context.Context, id string) error {
	t, err := s.TopupRepo.Get(ctx, id)
	if err != nil {
		return err
	}

	if t.TopupStatus != types.TopupStatusPending {
		return ierr.NewError(fmt.Sprintf("topup is %s, not PENDING", t.TopupStatus)).
			WithHint("Only pending top-ups can be executed").
			WithReportableDetails(map[string]any{
				"topup_id": t.ID,
				"status":   t.TopupStatus,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	if err := s.updateStatus(ctx, t, types.TopupStatusRunning, nil); err != nil {
		return err
	}

	formatted := types.FormatAmount(t.Amount, t.Currency)

	if !t.IsDeveloperAdjustment() {
		err := ierr.NewError("unsupported adjustment scope").
			WithHint("Only developer balance adjustments are supported").
			WithReportableDetails(map[string]any{
				"topup_id": t.ID,
				"scope":    t.Scope,
			}).
			Mark(ierr.ErrInvalidOperation)
		if failErr := s.updateStatus(ctx, t, types.TopupStatusFailed, err); failErr != nil {
			return failErr
		}
		return err
	}

	if _, err := s.BalanceService.Credit(ctx, t.DeveloperID, t.Amount, t.Currency); err != nil {
		s.Logger.Errorw("balance credit failed",
			"topup_id", t.ID,
			"developer_id", t.DeveloperID,
			"amount", t.Amount.String(),
			"currency", t.Currency,
			"error", err,
		)
		if failErr := s.updateStatus(ctx, t, types.TopupStatusFailed, err); failErr != nil {
			return failErr
		}
		return err
	}

	if err := s.updateStatus(ctx, t, types.TopupStatusFinished, nil); err != nil {
		return err
	}

	s.Messenger.AddStatus(fmt.Sprintf("Successfully added %s (%s) to the developer balance", formatted, t.Currency))
	s.Logger.Infow("topup finished",
		"topup_id", t.ID,
		"developer_id", t.DeveloperID,
		"amount", t.Amount.String(),
		"currency", t.Currency,
	)
	return nil
}

// updateStatus applies a status transition, stamping the matching
// timestamp. Invalid transitions are rejected before anything is written.
func (s *topupService) updateStatus(ctx context.Context, t *topup.Topup, status types.TopupStatus, cause error) error {
	if !t.TopupStatus.CanTransitionTo(status) {
		return ierr.NewError(fmt.Sprintf("invalid status transition from %s to %s", t.TopupStatus, status)).
			WithHint("Invalid status transition").
			WithReportableDetails(map[string]any{
				"from": t.TopupStatus,
				"to":   status,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	now := time.Now().UTC()
	t.TopupStatus = status
	switch status {
	case types.TopupStatusRunning:
		t.StartedAt = &now
	case types.TopupStatusFinished:
		t.CompletedAt = &now
	case types.TopupStatusFailed:
		t.FailedAt = &now
		if cause != nil {
			t.ErrorSummary = lo.ToPtr(cause.Error())
		}
	}
	t.UpdatedAt = now
	t.UpdatedBy = types.GetUserID(ctx)

	if err := s.TopupRepo.Update(ctx, t); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update topup").
			Mark(ierr.ErrDatabase)
	}

	return nil
}
