package service

import (
	"fmt"
	"testing"

	"github.com/devgate/monetize/internal/api/dto"
	"github.com/devgate/monetize/internal/domain/developer"
	"github.com/devgate/monetize/internal/domain/order"
	ierr "github.com/devgate/monetize/internal/errors"
	"github.com/devgate/monetize/internal/messenger"
	"github.com/devgate/monetize/internal/testutil"
	"github.com/devgate/monetize/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type CheckoutServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  CheckoutService
	recorder *messenger.Recorder
	dev      *developer.Developer

	creditProduct *order.Product
	fixedProduct  *order.Product
	plainProduct  *order.Product
	euroProduct   *order.Product
}

func TestCheckoutService(t *testing.T) {
	suite.Run(t, new(CheckoutServiceSuite))
}

func (s *CheckoutServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.recorder = messenger.NewRecorder()
	s.service = NewCheckoutService(newTestServiceParams(&s.BaseServiceTestSuite, s.recorder))
	s.seedData()
}

func (s *CheckoutServiceSuite) seedData() {
	ctx := s.GetContext()

	s.dev = &developer.Developer{
		ID:          "developer-1",
		Email:       "dev@example.com",
		DisplayName: "Dev One",
		BaseModel:   types.GetDefaultBaseModel(ctx),
	}
	s.NoError(s.GetStores().DeveloperRepo.Create(ctx, s.dev))

	s.creditProduct = &order.Product{
		ID:                  "product-credit",
		Title:               "Prepaid credit",
		Price:               decimal.NewFromFloat(40.00),
		Currency:            "USD",
		AddCreditEnabled:    true,
		CustomAmountAllowed: true,
		MinimumAmount:       decimal.NewFromFloat(12.00),
		SkipCart:            true,
		BaseModel:           types.GetDefaultBaseModel(ctx),
	}
	s.fixedProduct = &order.Product{
		ID:               "product-fixed",
		Title:            "Fixed credit pack",
		Price:            decimal.NewFromFloat(20.00),
		Currency:         "USD",
		AddCreditEnabled: true,
		BaseModel:        types.GetDefaultBaseModel(ctx),
	}
	s.plainProduct = &order.Product{
		ID:        "product-plain",
		Title:     "API guide",
		Price:     decimal.NewFromFloat(5.00),
		Currency:  "USD",
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
	s.euroProduct = &order.Product{
		ID:                  "product-euro",
		Title:               "Prepaid credit EUR",
		Price:               decimal.NewFromFloat(30.00),
		Currency:            "EUR",
		AddCreditEnabled:    true,
		CustomAmountAllowed: true,
		MinimumAmount:       decimal.NewFromFloat(12.00),
		BaseModel:           types.GetDefaultBaseModel(ctx),
	}

	for _, p := range []*order.Product{s.creditProduct, s.fixedProduct, s.plainProduct, s.euroProduct} {
		s.NoError(s.GetStores().ProductRepo.Create(ctx, p))
	}
}

func (s *CheckoutServiceSuite) createOrder(items ...dto.OrderItemRequest) *dto.OrderResponse {
	resp, err := s.service.CreateOrder(s.GetContext(), &dto.CreateOrderRequest{
		DeveloperID: s.dev.ID,
		Items:       items,
	})
	s.Require().NoError(err)
	s.Require().NotNil(resp)
	return resp
}

func (s *CheckoutServiceSuite) TestCreateOrderUsesProductPrice() {
	resp := s.createOrder(dto.OrderItemRequest{ProductID: s.creditProduct.ID})

	s.Equal(types.OrderStateDraft, resp.State)
	s.NotEmpty(resp.Number)
	s.Require().Len(resp.Items, 1)
	s.True(resp.Items[0].Amount.Equal(decimal.NewFromFloat(40.00)))
	s.Equal("USD", resp.Items[0].Currency)

	stored, err := s.GetStores().OrderRepo.Get(s.GetContext(), resp.ID)
	s.NoError(err)
	s.Equal(types.OrderStateDraft, stored.State)
}

func (s *CheckoutServiceSuite) TestCreateOrderCustomAmount() {
	resp := s.createOrder(dto.OrderItemRequest{
		ProductID: s.creditProduct.ID,
		Amount:    lo.ToPtr(decimal.NewFromFloat(13.00)),
	})

	s.Require().Len(resp.Items, 1)
	s.True(resp.Items[0].Amount.Equal(decimal.NewFromFloat(13.00)))
}

func (s *CheckoutServiceSuite) TestCreateOrderCustomAmountAtMinimum() {
	resp := s.createOrder(dto.OrderItemRequest{
		ProductID: s.creditProduct.ID,
		Amount:    lo.ToPtr(decimal.NewFromFloat(12.00)),
	})

	s.Require().Len(resp.Items, 1)
	s.True(resp.Items[0].Amount.Equal(decimal.NewFromFloat(12.00)))
}

func (s *CheckoutServiceSuite) TestCreateOrderBelowMinimum() {
	_, err := s.service.CreateOrder(s.GetContext(), &dto.CreateOrderRequest{
		DeveloperID: s.dev.ID,
		Items: []dto.OrderItemRequest{{
			ProductID: s.creditProduct.ID,
			Amount:    lo.ToPtr(decimal.NewFromFloat(11.00)),
		}},
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
	s.Equal("The minimum credit amount is $12.00.", ierr.Hint(err))
}

func (s *CheckoutServiceSuite) TestCreateOrderNegativeAmount() {
	_, err := s.service.CreateOrder(s.GetContext(), &dto.CreateOrderRequest{
		DeveloperID: s.dev.ID,
		Items: []dto.OrderItemRequest{{
			ProductID: s.creditProduct.ID,
			Amount:    lo.ToPtr(decimal.NewFromFloat(-1.00)),
		}},
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
	s.Equal("The minimum credit amount is $12.00.", ierr.Hint(err))
}

func (s *CheckoutServiceSuite) TestCreateOrderCustomAmountNotAllowed() {
	_, err := s.service.CreateOrder(s.GetContext(), &dto.CreateOrderRequest{
		DeveloperID: s.dev.ID,
		Items: []dto.OrderItemRequest{{
			ProductID: s.fixedProduct.ID,
			Amount:    lo.ToPtr(decimal.NewFromFloat(50.00)),
		}},
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
	s.Equal("Custom amounts are not available for Fixed credit pack", ierr.Hint(err))
}

func (s *CheckoutServiceSuite) TestCreateOrderConfigMinimumFallback() {
	// No per-product minimum set, so the configured default applies.
	product := &order.Product{
		ID:                  "product-open",
		Title:               "Open credit",
		Price:               decimal.NewFromFloat(40.00),
		Currency:            "USD",
		AddCreditEnabled:    true,
		CustomAmountAllowed: true,
		BaseModel:           types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().ProductRepo.Create(s.GetContext(), product))

	_, err := s.service.CreateOrder(s.GetContext(), &dto.CreateOrderRequest{
		DeveloperID: s.dev.ID,
		Items: []dto.OrderItemRequest{{
			ProductID: product.ID,
			Amount:    lo.ToPtr(decimal.NewFromFloat(11.00)),
		}},
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
	s.Equal("The minimum credit amount is $12.00.", ierr.Hint(err))
}

func (s *CheckoutServiceSuite) TestCreateOrderUnknownDeveloper() {
	_, err := s.service.CreateOrder(s.GetContext(), &dto.CreateOrderRequest{
		DeveloperID: "developer-missing",
		Items:       []dto.OrderItemRequest{{ProductID: s.creditProduct.ID}},
	})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *CheckoutServiceSuite) TestCreateOrderUnknownProduct() {
	_, err := s.service.CreateOrder(s.GetContext(), &dto.CreateOrderRequest{
		DeveloperID: s.dev.ID,
		Items:       []dto.OrderItemRequest{{ProductID: "product-missing"}},
	})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *CheckoutServiceSuite) TestCompleteOrder() {
	created := s.createOrder(dto.OrderItemRequest{ProductID: s.creditProduct.ID})

	resp, err := s.service.CompleteOrder(s.GetContext(), created.ID)
	s.NoError(err)
	s.Equal(types.OrderStateCompleted, resp.State)
	s.Require().Len(resp.Topups, 1)

	t := resp.Topups[0]
	s.Equal(types.TopupStatusPending, t.TopupStatus)
	s.True(t.Amount.Equal(decimal.NewFromFloat(40.00)))
	s.Equal("USD", t.Currency)
	// A single-currency order keeps the bare order id as its reference.
	s.Equal(created.ID, t.OrderID)

	s.Equal([]string{t.ID}, s.GetPublisher().Published())

	stored, err := s.GetStores().OrderRepo.Get(s.GetContext(), created.ID)
	s.NoError(err)
	s.Equal(types.OrderStateCompleted, stored.State)
}

func (s *CheckoutServiceSuite) TestCompleteOrderTwice() {
	created := s.createOrder(dto.OrderItemRequest{ProductID: s.creditProduct.ID})

	first, err := s.service.CompleteOrder(s.GetContext(), created.ID)
	s.Require().NoError(err)
	s.Require().Len(first.Topups, 1)

	// Completing again redrives instead of failing: the existing top-up
	// is returned and re-enqueued, no second row is created.
	second, err := s.service.CompleteOrder(s.GetContext(), created.ID)
	s.NoError(err)
	s.Require().Len(second.Topups, 1)
	s.Equal(first.Topups[0].ID, second.Topups[0].ID)

	topups, err := s.GetStores().TopupRepo.List(s.GetContext(), &types.TopupFilter{})
	s.NoError(err)
	s.Len(topups, 1)

	s.Equal([]string{first.Topups[0].ID, first.Topups[0].ID}, s.GetPublisher().Published())
}

func (s *CheckoutServiceSuite) TestCompleteOrderCanceled() {
	created := s.createOrder(dto.OrderItemRequest{ProductID: s.creditProduct.ID})

	stored, err := s.GetStores().OrderRepo.Get(s.GetContext(), created.ID)
	s.Require().NoError(err)
	stored.State = types.OrderStateCanceled
	s.Require().NoError(s.GetStores().OrderRepo.Update(s.GetContext(), stored))

	_, err = s.service.CompleteOrder(s.GetContext(), created.ID)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
	s.Equal("Only draft orders can be completed", ierr.Hint(err))
	s.Empty(s.GetPublisher().Published())
}

func (s *CheckoutServiceSuite) TestCompleteOrderRetryAfterPublishFailure() {
	created := s.createOrder(dto.OrderItemRequest{ProductID: s.creditProduct.ID})

	s.GetPublisher().FailNext()
	_, err := s.service.CompleteOrder(s.GetContext(), created.ID)
	s.Require().Error(err)

	// The pending row survived the failed enqueue; a retry must deliver
	// it rather than die on the already-completed order.
	resp, err := s.service.CompleteOrder(s.GetContext(), created.ID)
	s.NoError(err)
	s.Equal(types.OrderStateCompleted, resp.State)
	s.Require().Len(resp.Topups, 1)
	s.Equal(types.TopupStatusPending, resp.Topups[0].TopupStatus)

	s.Equal([]string{resp.Topups[0].ID}, s.GetPublisher().Published())

	topups, err := s.GetStores().TopupRepo.List(s.GetContext(), &types.TopupFilter{})
	s.NoError(err)
	s.Len(topups, 1)
}

func (s *CheckoutServiceSuite) TestCompleteOrderWithoutCreditItems() {
	created := s.createOrder(dto.OrderItemRequest{ProductID: s.plainProduct.ID})

	resp, err := s.service.CompleteOrder(s.GetContext(), created.ID)
	s.NoError(err)
	s.Equal(types.OrderStateCompleted, resp.State)
	s.Empty(resp.Topups)
	s.Empty(s.GetPublisher().Published())
}

func (s *CheckoutServiceSuite) TestCompleteOrderSumsCreditItemsPerCurrency() {
	created := s.createOrder(
		dto.OrderItemRequest{ProductID: s.creditProduct.ID, Amount: lo.ToPtr(decimal.NewFromFloat(15.00))},
		dto.OrderItemRequest{ProductID: s.fixedProduct.ID},
		dto.OrderItemRequest{ProductID: s.plainProduct.ID},
	)

	resp, err := s.service.CompleteOrder(s.GetContext(), created.ID)
	s.NoError(err)
	s.Require().Len(resp.Topups, 1)
	// 15.00 custom credit plus the 20.00 pack; the plain product does
	// not contribute.
	s.True(resp.Topups[0].Amount.Equal(decimal.NewFromFloat(35.00)))
	s.Equal("USD", resp.Topups[0].Currency)
}

func (s *CheckoutServiceSuite) TestCompleteOrderMultiCurrency() {
	created := s.createOrder(
		dto.OrderItemRequest{ProductID: s.creditProduct.ID},
		dto.OrderItemRequest{ProductID: s.euroProduct.ID},
	)

	resp, err := s.service.CompleteOrder(s.GetContext(), created.ID)
	s.NoError(err)
	s.Require().Len(resp.Topups, 2)

	byCurrency := make(map[string]*dto.TopupResponse, len(resp.Topups))
	for _, t := range resp.Topups {
		byCurrency[t.Currency] = t
	}

	s.Require().Contains(byCurrency, "USD")
	s.Require().Contains(byCurrency, "EUR")
	s.True(byCurrency["USD"].Amount.Equal(decimal.NewFromFloat(40.00)))
	s.True(byCurrency["EUR"].Amount.Equal(decimal.NewFromFloat(30.00)))

	// Each currency gets its own suffixed idempotency reference.
	s.Equal(fmt.Sprintf("%s:USD", created.ID), byCurrency["USD"].OrderID)
	s.Equal(fmt.Sprintf("%s:EUR", created.ID), byCurrency["EUR"].OrderID)

	s.Len(s.GetPublisher().Published(), 2)
}

func (s *CheckoutServiceSuite) TestCompleteOrderNotFound() {
	_, err := s.service.CompleteOrder(s.GetContext(), "order-missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *CheckoutServiceSuite) TestGetOrder() {
	created := s.createOrder(dto.OrderItemRequest{ProductID: s.creditProduct.ID})

	resp, err := s.service.GetOrder(s.GetContext(), created.ID)
	s.NoError(err)
	s.Equal(created.ID, resp.ID)
	s.Require().Len(resp.Items, 1)
	s.True(resp.Items[0].Amount.Equal(decimal.NewFromFloat(40.00)))
}

func (s *CheckoutServiceSuite) TestGetOrderNotFound() {
	_, err := s.service.GetOrder(s.GetContext(), "order-missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}
