package ehurt

import (
	"fmt"
	"time"

	"ehurt-storefront/internal/model"
)

// paymentDateLayout is the platform's date format for financial documents.
const paymentDateLayout = "2006-01-02"

func catalogItemFromWire(w wireCatalogItem) (model.CatalogItem, error) {
	price, err := model.ParseMoney(w.Price)
	if err != nil {
		return model.CatalogItem{}, fmt.Errorf("item %s: price %q: %w", w.ID, w.Price, err)
	}

	return model.CatalogItem{
		ID:              w.ID,
		Name:            w.Name,
		Price:           price,
		Unit:            w.Unit,
		Category:        w.Category,
		Description:     w.Description,
		ImageURL:        w.ImageURL,
		WarehouseStatus: model.WarehouseStatus(w.WarehouseStatus),
		Points:          w.Points,
		Bonus:           w.HasBonus,
	}, nil
}

func catalogFromWire(w wireCatalogResponse) ([]model.CatalogItem, []string, error) {
	items := make([]model.CatalogItem, 0, len(w.Items))
	for _, wi := range w.Items {
		item, err := catalogItemFromWire(wi)
		if err != nil {
			return nil, nil, err
		}
		items = append(items, item)
	}
	return items, w.Categories, nil
}

func orderFromWire(w wireOrder) (model.Order, error) {
	items := make([]model.OrderedItem, 0, len(w.Items))
	for _, wi := range w.Items {
		price, err := model.ParseMoney(wi.Price)
		if err != nil {
			return model.Order{}, fmt.Errorf("order %s: item %s: price %q: %w", w.ID, wi.ID, wi.Price, err)
		}
		items = append(items, model.OrderedItem{
			ItemID:    wi.ID,
			Name:      wi.Name,
			Quantity:  wi.Quantity,
			UnitPrice: price,
		})
	}

	// Order dates stay in the server's display format; only payment
	// documents need real time arithmetic.
	return model.Order{
		ID:            w.ID,
		UserID:        w.UserID,
		Status:        model.OrderStatus(w.Status),
		IssueDate:     w.IssueDate,
		DeliveryDate:  w.DeliveryDate,
		StatusMessage: w.StatusMessage,
		Items:         items,
	}, nil
}

func paymentFromWire(w wirePayment) (model.Payment, error) {
	issueDate, err := time.Parse(paymentDateLayout, w.IssueDate)
	if err != nil {
		return model.Payment{}, fmt.Errorf("payment %s: issue_date %q: %w", w.ID, w.IssueDate, err)
	}
	paymentTerm, err := time.Parse(paymentDateLayout, w.PaymentTerm)
	if err != nil {
		return model.Payment{}, fmt.Errorf("payment %s: payment_term %q: %w", w.ID, w.PaymentTerm, err)
	}

	value, err := model.ParseMoney(w.Value)
	if err != nil {
		return model.Payment{}, fmt.Errorf("payment %s: value %q: %w", w.ID, w.Value, err)
	}
	paidValue, err := model.ParseMoney(w.PaidValue)
	if err != nil {
		return model.Payment{}, fmt.Errorf("payment %s: paid_value %q: %w", w.ID, w.PaidValue, err)
	}
	remaining, err := model.ParseMoney(w.Remaining)
	if err != nil {
		return model.Payment{}, fmt.Errorf("payment %s: remaining %q: %w", w.ID, w.Remaining, err)
	}

	return model.Payment{
		ID:          w.ID,
		Type:        model.PaymentType(w.Type),
		ReceiverID:  w.ReceiverID,
		IssueDate:   issueDate,
		PaymentTerm: paymentTerm,
		Currency:    w.Currency,
		Value:       value,
		PaidValue:   paidValue,
		Remaining:   remaining,
	}, nil
}

// submitErrorFromWire builds the classified rejection from the order
// endpoint's error envelope, carrying whatever per-line detail the server
// included.
func submitErrorFromWire(we wireError) (*model.SubmitError, error) {
	if we.Error.Code == "" {
		return nil, fmt.Errorf("error envelope missing code")
	}

	submitErr := model.NewSubmitError(we.Error.Code)
	submitErr.UnknownProducts = we.Error.Products
	for _, wp := range we.Error.Prices {
		oldPrice, err := model.ParseMoney(wp.Old)
		if err != nil {
			return nil, fmt.Errorf("price change %s: old %q: %w", wp.ID, wp.Old, err)
		}
		newPrice, err := model.ParseMoney(wp.New)
		if err != nil {
			return nil, fmt.Errorf("price change %s: new %q: %w", wp.ID, wp.New, err)
		}
		submitErr.PriceChanges = append(submitErr.PriceChanges, model.PriceChange{
			ItemID:   wp.ID,
			OldPrice: oldPrice,
			NewPrice: newPrice,
		})
	}
	return submitErr, nil
}
