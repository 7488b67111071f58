package platform

import "github.com/Botopia-Tecnology/imagiq-telemetry/pkg/telemetry/event"

// tiktokNames translates domain event kinds to TikTok standard events.
// Note the two divergences from Meta: purchase reports as
// CompletePayment and category clicks as ClickButton.
var tiktokNames = map[event.Kind]string{
	event.KindViewItem:       "ViewContent",
	event.KindAddToCart:      "AddToCart",
	event.KindBeginCheckout:  "InitiateCheckout",
	event.KindAddPaymentInfo: "AddPaymentInfo",
	event.KindPurchase:       "CompletePayment",
	event.KindSearch:         "Search",
	event.KindCategoryClick:  "ClickButton",
}

// MapTikTok maps a domain event to the TikTok pixel / Events API shape.
func MapTikTok(ev event.DomainEvent) Event {
	name, ok := tiktokNames[ev.Kind]
	if !ok {
		name = "CustomEvent"
	}

	params := make(map[string]any)

	if len(ev.Items) > 0 {
		contents := make([]map[string]any, len(ev.Items))
		for i, it := range ev.Items {
			c := map[string]any{
				"content_id":   it.ItemID,
				"content_type": "product",
				"quantity":     it.Qty(),
			}
			if it.ItemName != "" {
				c["content_name"] = it.ItemName
			}
			if it.Price > 0 {
				c["price"] = it.Price
			}
			contents[i] = c
		}
		params["contents"] = contents
	}
	if ev.Value != nil {
		params["value"] = *ev.Value
	}
	if ev.Currency != "" {
		params["currency"] = ev.Currency
	}

	switch ev.Kind {
	case event.KindSearch:
		params["query"] = ev.SearchTerm
	case event.KindCategoryClick:
		if ev.Nav != "" {
			params["button_text"] = ev.Nav
		}
	default:
		if !ev.Kind.Known() {
			params["event_name"] = string(ev.Kind)
		}
	}

	return Event{Name: name, Params: params}
}
