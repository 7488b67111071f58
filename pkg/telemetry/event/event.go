// Package event defines the domain events consumed by the telemetry pipeline.
//
// A DomainEvent is the sole required inbound contract: storefront
// collaborators (cart, checkout, product pages) construct one per user
// interaction and hand it to the Processor. Events are immutable once
// created - the pipeline never mutates them.
package event

// Kind discriminates the domain event union.
type Kind string

const (
	KindViewItem       Kind = "view_item"
	KindAddToCart      Kind = "add_to_cart"
	KindBeginCheckout  Kind = "begin_checkout"
	KindAddPaymentInfo Kind = "add_payment_info"
	KindPurchase       Kind = "purchase"
	KindSearch         Kind = "search"
	KindCategoryClick  Kind = "category_click"
)

// Known reports whether k is one of the defined event kinds.
// Unknown kinds are still processed; mappers fall back to a
// platform-specific custom event shape.
func (k Kind) Known() bool {
	switch k {
	case KindViewItem, KindAddToCart, KindBeginCheckout,
		KindAddPaymentInfo, KindPurchase, KindSearch, KindCategoryClick:
		return true
	}
	return false
}

// Item is a single product line within an event.
type Item struct {
	ItemID       string  `json:"item_id"` // stable SKU, required
	ItemName     string  `json:"item_name"`
	ItemBrand    string  `json:"item_brand,omitempty"`
	ItemCategory string  `json:"item_category,omitempty"`
	ItemVariant  string  `json:"item_variant,omitempty"`
	Price        float64 `json:"price,omitempty"`
	Quantity     int     `json:"quantity,omitempty"` // 0 means 1
	Currency     string  `json:"currency,omitempty"`
}

// Qty returns the item quantity, defaulting to 1 when unset.
func (i Item) Qty() int {
	if i.Quantity <= 0 {
		return 1
	}
	return i.Quantity
}

// DomainEvent is a discrete user-interaction event.
//
// Kind selects the variant; the remaining fields are populated per
// variant (Items for everything except search and category clicks,
// TransactionID/Coupon for purchases, Step for checkout progress,
// SearchTerm/Results for searches, Nav for category clicks).
type DomainEvent struct {
	Kind        Kind   `json:"event"`
	TimestampMS int64  `json:"ts"` // epoch milliseconds
	Items       []Item `json:"items,omitempty"`

	TransactionID string   `json:"transaction_id,omitempty"`
	Coupon        string   `json:"coupon,omitempty"`
	Value         *float64 `json:"value,omitempty"`
	Currency      string   `json:"currency,omitempty"`
	Step          int      `json:"step,omitempty"`
	SearchTerm    string   `json:"search_term,omitempty"`
	Results       int      `json:"results,omitempty"`
	Nav           string   `json:"nav,omitempty"`
}

// ItemIDs returns the item ids in the order provided.
func (e DomainEvent) ItemIDs() []string {
	if len(e.Items) == 0 {
		return nil
	}
	ids := make([]string, len(e.Items))
	for i, it := range e.Items {
		ids[i] = it.ItemID
	}
	return ids
}

// TotalQuantity sums the quantities across all items.
func (e DomainEvent) TotalQuantity() int {
	total := 0
	for _, it := range e.Items {
		total += it.Qty()
	}
	return total
}

// Val is a convenience constructor for the optional Value field.
func Val(v float64) *float64 { return &v }

// Address is the optional postal portion of a user identity.
type Address struct {
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"` // ISO-3166-1 alpha-2
	ZipCode string `json:"zipCode,omitempty"`
}

// UserIdentity carries raw identity fields supplied by the caller for
// advanced matching. It is never persisted by the pipeline; it lives
// only for the duration of a single Process call.
type UserIdentity struct {
	Email     string   `json:"email,omitempty"`
	Phone     string   `json:"phone,omitempty"`
	FirstName string   `json:"firstName,omitempty"`
	LastName  string   `json:"lastName,omitempty"`
	Address   *Address `json:"address,omitempty"`
}

// Context carries per-request ambient data captured alongside an event:
// the page the event originated from, network fields for server relays,
// and platform browser identifiers read from cookies (pass-through,
// empty when absent).
type Context struct {
	PageURL   string
	IP        string
	UserAgent string

	// Browser identifier cookies forwarded for attribution.
	FBP    string // Meta _fbp
	FBC    string // Meta _fbc
	TTCLID string // TikTok click id
}
