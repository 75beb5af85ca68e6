package ehurt

import "encoding/json"

// Wire types for the wholesale platform API. Prices travel as decimal
// strings; "0.00" is the platform's sentinel for a non-purchasable item
// and survives into the model as a zero value.

type wireCatalogResponse struct {
	Items      []wireCatalogItem `json:"items"`
	Categories []string          `json:"categories"`
}

type wireCatalogItem struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Price           string `json:"price"`
	Unit            string `json:"unit"`
	Category        string `json:"category"`
	Description     string `json:"description"`
	ImageURL        string `json:"image_url"`
	WarehouseStatus string `json:"warehouse_status"`
	Points          int    `json:"points"`
	HasBonus        bool   `json:"has_bonus"`
}

type wireOrder struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	Status        string          `json:"status"`
	IssueDate     string          `json:"issue_date"`
	DeliveryDate  string          `json:"delivery_date"`
	StatusMessage string          `json:"status_message"`
	Items         []wireOrderItem `json:"items"`
}

type wireOrderItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}

type wireOrderList struct {
	Orders []wireOrder `json:"orders"`
}

type wirePayment struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	ReceiverID  string `json:"receiver_id"`
	IssueDate   string `json:"issue_date"`
	PaymentTerm string `json:"payment_term"`
	Currency    string `json:"currency"`
	Value       string `json:"value"`
	PaidValue   string `json:"paid_value"`
	Remaining   string `json:"remaining"`
}

type wirePaymentList struct {
	Payments []wirePayment `json:"payments"`
}

type wirePasswordUpdate struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

// wireError is the platform's error envelope. The order endpoint extends
// it with per-rejection detail: products for unknown-product rejections,
// prices for price-mismatch ones.
type wireError struct {
	Error struct {
		Code     string            `json:"code"`
		Message  string            `json:"message"`
		Products []string          `json:"products"`
		Prices   []wirePriceChange `json:"prices"`
	} `json:"error"`
}

type wirePriceChange struct {
	ID  string `json:"id"`
	Old string `json:"old"`
	New string `json:"new"`
}

// decodeWireError best-effort parses an error envelope. A body that is
// not the envelope yields an empty code.
func decodeWireError(body []byte) wireError {
	var we wireError
	json.Unmarshal(body, &we)
	return we
}
