package platform

import "github.com/Botopia-Tecnology/imagiq-telemetry/pkg/telemetry/event"

// metaNames translates domain event kinds to Meta standard events.
var metaNames = map[event.Kind]string{
	event.KindViewItem:       "ViewContent",
	event.KindAddToCart:      "AddToCart",
	event.KindBeginCheckout:  "InitiateCheckout",
	event.KindAddPaymentInfo: "AddPaymentInfo",
	event.KindPurchase:       "Purchase",
	event.KindSearch:         "Search",
	event.KindCategoryClick:  "CustomEvent",
}

// MapMeta maps a domain event to the Meta pixel / Conversions API shape.
func MapMeta(ev event.DomainEvent) Event {
	name, ok := metaNames[ev.Kind]
	if !ok {
		name = "CustomEvent"
	}

	params := make(map[string]any)

	if len(ev.Items) > 0 {
		ids := ev.ItemIDs()
		contents := make([]map[string]any, len(ev.Items))
		for i, it := range ev.Items {
			c := map[string]any{
				"id":       it.ItemID,
				"quantity": it.Qty(),
			}
			if it.Price > 0 {
				c["item_price"] = it.Price
			}
			contents[i] = c
		}
		params["content_ids"] = ids
		params["contents"] = contents
		params["content_type"] = "product"
		params["num_items"] = ev.TotalQuantity()
	}
	if ev.Value != nil {
		params["value"] = *ev.Value
	}
	if ev.Currency != "" {
		params["currency"] = ev.Currency
	}

	switch ev.Kind {
	case event.KindSearch:
		params["search_string"] = ev.SearchTerm
	case event.KindCategoryClick:
		params["event_name"] = string(ev.Kind)
		if ev.Nav != "" {
			params["nav"] = ev.Nav
		}
	default:
		if !ev.Kind.Known() {
			params["event_name"] = string(ev.Kind)
		}
	}

	return Event{Name: name, Params: params}
}
