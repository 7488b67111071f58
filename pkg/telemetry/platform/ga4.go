package platform

import "github.com/Botopia-Tecnology/imagiq-telemetry/pkg/telemetry/event"

// MapGA4 maps a domain event to the analytics-suite (GA4) shape.
// Event names pass through unchanged for known kinds; unknown kinds are
// forwarded as-is, which GA4 treats as a custom event.
func MapGA4(ev event.DomainEvent) Event {
	params := make(map[string]any)

	if len(ev.Items) > 0 {
		params["items"] = ga4Items(ev.Items)
	}
	if ev.Value != nil {
		params["value"] = *ev.Value
	}
	if ev.Currency != "" {
		params["currency"] = ev.Currency
	}

	switch ev.Kind {
	case event.KindPurchase:
		if ev.TransactionID != "" {
			params["transaction_id"] = ev.TransactionID
		}
		if ev.Coupon != "" {
			params["coupon"] = ev.Coupon
		}
	case event.KindBeginCheckout, event.KindAddPaymentInfo:
		if ev.Step > 0 {
			params["checkout_step"] = ev.Step
		}
		if ev.Coupon != "" {
			params["coupon"] = ev.Coupon
		}
	case event.KindSearch:
		params["search_term"] = ev.SearchTerm
		if ev.Results > 0 {
			params["search_results"] = ev.Results
		}
	case event.KindCategoryClick:
		if ev.Nav != "" {
			params["nav"] = ev.Nav
		}
	}

	return Event{Name: string(ev.Kind), Params: params}
}

func ga4Items(items []event.Item) []map[string]any {
	out := make([]map[string]any, len(items))
	for i, it := range items {
		m := map[string]any{
			"item_id":   it.ItemID,
			"item_name": it.ItemName,
			"quantity":  it.Qty(),
		}
		if it.Price > 0 {
			m["price"] = it.Price
		}
		if it.ItemBrand != "" {
			m["item_brand"] = it.ItemBrand
		}
		if it.ItemCategory != "" {
			m["item_category"] = it.ItemCategory
		}
		if it.ItemVariant != "" {
			m["item_variant"] = it.ItemVariant
		}
		out[i] = m
	}
	return out
}
