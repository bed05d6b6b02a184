package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/devgate/monetize/internal/api/dto"
	"github.com/devgate/monetize/internal/domain/order"
	ierr "github.com/devgate/monetize/internal/errors"
	"github.com/devgate/monetize/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// CheckoutService orchestrates the add-credit purchase flow: it prices
// draft orders (enforcing the minimum top-up amount before anything is
// persisted) and turns completed orders into queued balance top-ups.
// Payment itself is handled by an external gateway.
type CheckoutService interface {
	CreateOrder(ctx context.Context, req *dto.CreateOrderRequest) (*dto.OrderResponse, error)
	CompleteOrder(ctx context.Context, orderID string) (*dto.OrderResponse, error)
	GetOrder(ctx context.Context, orderID string) (*dto.OrderResponse, error)
}

type checkoutService struct {
	ServiceParams
}

func NewCheckoutService(params ServiceParams) CheckoutService {
	return &checkoutService{
		ServiceParams: params,
	}
}

func (s *checkoutService) CreateOrder(ctx context.Context, req *dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.DeveloperRepo.Get(ctx, req.DeveloperID); err != nil {
		return nil, err
	}

	o := req.ToOrder(ctx)
	for _, item := range req.Items {
		product, err := s.ProductRepo.Get(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}

		amount, err := s.resolveItemAmount(product, item.Amount)
		if err != nil {
			return nil, err
		}

		o.Items = append(o.Items, order.LineItem{
			ProductID: product.ID,
			Amount:    amount,
			Currency:  product.Currency,
		})
	}

	if err := o.Validate(); err != nil {
		return nil, err
	}

	if err := s.OrderRepo.Create(ctx, o); err != nil {
		return nil, err
	}

	return dto.NewOrderResponse(o), nil
}

// CompleteOrder transitions a draft order to completed and enqueues one
// top-up per currency over the order's add-credit line items. Orders with
// no credit items complete without creating anything. Completing an
// already-completed order is a redrive: it backfills top-ups a previous
// attempt failed to create and re-enqueues ones that were never delivered.
func (s *checkoutService) CompleteOrder(ctx context.Context, orderID string) (*dto.OrderResponse, error) {
	o, err := s.OrderRepo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	creditTotals, err := s.creditTotalsByCurrency(ctx, o)
	if err != nil {
		return nil, err
	}

	var topups []*dto.TopupResponse
	switch o.State {
	case types.OrderStateDraft:
		// The state flip and the top-up rows commit together so a
		// mid-flight failure leaves nothing half-credited.
		txErr := s.DB.WithTx(ctx, func(ctx context.Context) error {
			o.State = types.OrderStateCompleted
			o.UpdatedBy = types.GetUserID(ctx)
			if err := s.OrderRepo.Update(ctx, o); err != nil {
				return err
			}

			created, err := s.createOrderTopups(ctx, o, creditTotals)
			if err != nil {
				return err
			}
			topups = created
			return nil
		})
		if txErr != nil {
			return nil, txErr
		}
	case types.OrderStateCompleted:
		topups, err = s.redriveOrderTopups(ctx, o, creditTotals)
		if err != nil {
			return nil, err
		}
	default:
		return nil, ierr.NewError(fmt.Sprintf("order is %s, not draft", o.State)).
			WithHint("Only draft orders can be completed").
			WithReportableDetails(map[string]any{
				"order_id": o.ID,
				"state":    o.State,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	s.Logger.Infow("order completed",
		"order_id", o.ID,
		"developer_id", o.DeveloperID,
		"topups", len(topups),
	)

	return dto.NewOrderResponse(o).WithTopups(topups), nil
}

func (s *checkoutService) createOrderTopups(ctx context.Context, o *order.Order, creditTotals map[string]decimal.Decimal) ([]*dto.TopupResponse, error) {
	topupService := NewTopupService(s.ServiceParams)
	topups := make([]*dto.TopupResponse, 0, len(creditTotals))
	for _, currency := range sortedCurrencies(creditTotals) {
		resp, err := topupService.CreateTopup(ctx, &dto.CreateTopupRequest{
			DeveloperID: o.DeveloperID,
			Amount:      creditTotals[currency],
			Currency:    currency,
			OrderID:     topupReference(o.ID, currency, len(creditTotals)),
			Scope:       types.AdjustmentScopeDeveloper,
		})
		if err != nil {
			return nil, err
		}
		topups = append(topups, resp)
	}
	return topups, nil
}

// redriveOrderTopups reconciles a completed order against its top-ups.
// Missing currencies are created from scratch; pending rows are
// re-enqueued, which is safe because execution only moves pending rows.
func (s *checkoutService) redriveOrderTopups(ctx context.Context, o *order.Order, creditTotals map[string]decimal.Decimal) ([]*dto.TopupResponse, error) {
	topupService := NewTopupService(s.ServiceParams)
	topups := make([]*dto.TopupResponse, 0, len(creditTotals))
	for _, currency := range sortedCurrencies(creditTotals) {
		reference := topupReference(o.ID, currency, len(creditTotals))

		existing, err := s.TopupRepo.GetByOrderID(ctx, reference)
		if err != nil {
			if !ierr.IsNotFound(err) {
				return nil, err
			}
			resp, err := topupService.CreateTopup(ctx, &dto.CreateTopupRequest{
				DeveloperID: o.DeveloperID,
				Amount:      creditTotals[currency],
				Currency:    currency,
				OrderID:     reference,
				Scope:       types.AdjustmentScopeDeveloper,
			})
			if err != nil {
				return nil, err
			}
			topups = append(topups, resp)
			continue
		}

		if existing.TopupStatus == types.TopupStatusPending {
			if err := s.TopupPublisher.Publish(ctx, existing.ID); err != nil {
				s.Logger.Errorw("failed to re-enqueue topup", "error", err, "topup_id", existing.ID)
				return nil, err
			}
		}
		topups = append(topups, dto.NewTopupResponse(existing))
	}
	return topups, nil
}

// topupReference derives the per-currency idempotency reference. A
// single-currency order keeps the bare order id; extra currencies are
// suffixed so each gets exactly one top-up.
func topupReference(orderID, currency string, numCurrencies int) string {
	if numCurrencies > 1 {
		return fmt.Sprintf("%s:%s", orderID, currency)
	}
	return orderID
}

func sortedCurrencies(creditTotals map[string]decimal.Decimal) []string {
	currencies := lo.Keys(creditTotals)
	sort.Strings(currencies)
	return currencies
}

func (s *checkoutService) GetOrder(ctx context.Context, orderID string) (*dto.OrderResponse, error) {
	o, err := s.OrderRepo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	return dto.NewOrderResponse(o), nil
}

// resolveItemAmount prices a line item. Custom amounts are only honored
// for products that allow them and must meet the configured minimum, so
// an under-minimum purchase is rejected before any order or top-up exists.
func (s *checkoutService) resolveItemAmount(product *order.Product, custom *decimal.Decimal) (decimal.Decimal, error) {
	if custom == nil {
		return product.Price, nil
	}

	if !product.CustomAmountAllowed {
		return decimal.Zero, ierr.NewError("custom amounts are not enabled for this product").
			WithHintf("Custom amounts are not available for %s", product.Title).
			WithReportableDetails(map[string]any{
				"product_id": product.ID,
			}).
			Mark(ierr.ErrValidation)
	}

	minimum := s.minimumAmountFor(product)
	if custom.LessThan(minimum) {
		return decimal.Zero, ierr.NewError("amount is below the minimum").
			WithHintf("The minimum credit amount is %s.", types.FormatAmount(minimum, product.Currency)).
			WithReportableDetails(map[string]any{
				"amount":  custom,
				"minimum": minimum,
			}).
			Mark(ierr.ErrValidation)
	}

	return *custom, nil
}

// minimumAmountFor returns the product's configured minimum, falling back
// to the checkout default when the product does not set one.
func (s *checkoutService) minimumAmountFor(product *order.Product) decimal.Decimal {
	if product.MinimumAmount.IsPositive() {
		return product.MinimumAmount
	}

	fallback, err := decimal.NewFromString(s.Config.Checkout.MinimumTopupAmount)
	if err != nil {
		return decimal.Zero
	}
	return fallback
}

// creditTotalsByCurrency sums the add-credit line items of an order
func (s *checkoutService) creditTotalsByCurrency(ctx context.Context, o *order.Order) (map[string]decimal.Decimal, error) {
	totals := make(map[string]decimal.Decimal)
	for _, item := range o.Items {
		product, err := s.ProductRepo.Get(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.AddCreditEnabled {
			continue
		}
		totals[item.Currency] = totals[item.Currency].Add(item.Amount)
	}
	return totals, nil
}
