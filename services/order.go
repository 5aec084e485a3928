package services

import (
	"context"
	"errors"
	"strings"

	"restaurant/models"
	"restaurant/storage"

	"github.com/sirupsen/logrus"
)

// CheckoutForm is the payment and delivery input collected at checkout.
// Card fields are required but never stored, logged or sent anywhere.
type CheckoutForm struct {
	CardNumber     string `label:"card number" validate:"required"`
	Expiry         string `label:"expiry date" validate:"required"`
	CVV            string `label:"CVV" validate:"required"`
	CardholderName string `label:"cardholder name" validate:"required"`
	Address        string `label:"delivery address" validate:"required"`
	Phone          string `label:"phone number" validate:"required"`
}

func (f *CheckoutForm) trim() {
	for _, p := range []*string{&f.CardNumber, &f.Expiry, &f.CVV, &f.CardholderName, &f.Address, &f.Phone} {
		*p = strings.TrimSpace(*p)
	}
}

// Receipt is what the confirmation screen shows.
type Receipt struct {
	OrderID           int64
	Total             models.Amount
	EstimatedDelivery string
}

// Ledger turns carts into durable orders.
type Ledger struct {
	store storage.OrderStore
	log   logrus.FieldLogger
}

func NewLedger(store storage.OrderStore, log logrus.FieldLogger) *Ledger {
	return &Ledger{store: store, log: log}
}

// PlaceOrder records cart as a pending order owned by userID. The total is
// computed here from the cart lines. The order and its lines are written in
// one transaction; on success the cart is cleared, on failure it is left
// as it was.
func (l *Ledger) PlaceOrder(ctx context.Context, userID int64, cart *Cart) (int64, error) {
	if cart == nil || cart.Empty() {
		return 0, models.ErrEmptyCart
	}
	cartLines := cart.Lines()
	input := models.CreateOrderInput{
		UserID:      userID,
		TotalAmount: cart.Total(),
		Status:      models.OrderStatusPending,
		Lines:       make([]models.OrderLine, 0, len(cartLines)),
	}
	for _, cl := range cartLines {
		input.Lines = append(input.Lines, models.OrderLine{
			MenuItemID: cl.MenuItemID,
			Quantity:   cl.Quantity,
			Price:      cl.Price,
		})
	}

	orderID, err := l.store.CreateOrder(ctx, input)
	if err != nil {
		l.log.WithFields(logrus.Fields{"user_id": userID, "lines": len(input.Lines)}).
			WithError(err).Error("place order failed")
		return 0, storageErr("place order", err)
	}
	cart.Clear()

	l.log.WithFields(logrus.Fields{
		"order_id": orderID,
		"user_id":  userID,
		"lines":    len(input.Lines),
		"total":    input.TotalAmount.String(),
	}).Info("order placed")
	return orderID, nil
}

// Checkout validates the checkout form for the session's user and places
// the order from the session cart.
func (l *Ledger) Checkout(ctx context.Context, sess *Session, form CheckoutForm) (*Receipt, error) {
	if sess == nil || !sess.LoggedIn() {
		return nil, models.ErrNotLoggedIn
	}
	if sess.Cart().Empty() {
		return nil, models.ErrEmptyCart
	}
	form.trim()
	if err := validateForm(form); err != nil {
		return nil, err
	}
	total := sess.Cart().Total()
	orderID, err := l.PlaceOrder(ctx, sess.User().ID, sess.Cart())
	if err != nil {
		return nil, err
	}
	return &Receipt{OrderID: orderID, Total: total, EstimatedDelivery: models.EstimatedDelivery}, nil
}

// Order returns a placed order with its lines.
func (l *Ledger) Order(ctx context.Context, id int64) (*models.Order, error) {
	o, err := l.store.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, models.ErrOrderNotFound
		}
		return nil, storageErr("get order", err)
	}
	return o, nil
}
