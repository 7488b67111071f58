package emit

import (
	"github.com/Botopia-Tecnology/imagiq-telemetry/pkg/telemetry/event"
	"github.com/Botopia-Tecnology/imagiq-telemetry/pkg/telemetry/pii"
	"github.com/Botopia-Tecnology/imagiq-telemetry/pkg/telemetry/platform"
)

// Mode selects the relay payload composition.
type Mode int

const (
	// ModeFull sends hashed identity fields, full custom data, and
	// unredacted network fields. Requires ads consent.
	ModeFull Mode = iota

	// ModeAnonymous sends no identity fields, an anonymized IP, and
	// custom data reduced to value and currency only. Content ids and
	// names are dropped because they could re-identify behavior.
	ModeAnonymous
)

// IdentityView is the consent-resolved identity snapshot shared by all
// emitters for one event. The Controller builds it once per Process
// call.
type IdentityView struct {
	// Match holds the hashed advanced-matching fields (em, ph, ...).
	Match map[string]string

	// Browser identifier cookies, pass-through.
	FBP    string
	FBC    string
	TTCLID string

	IP        string
	UserAgent string

	// PageURL is not identifying and survives both modes.
	PageURL string
}

// AnonymousView reduces a request context to its non-identifying form.
func AnonymousView(reqCtx event.Context) IdentityView {
	view := IdentityView{PageURL: reqCtx.PageURL}
	if reqCtx.IP != "" {
		view.IP = pii.AnonymizeIP(reqCtx.IP)
	}
	return view
}

// FullView builds the consent-granted identity snapshot.
func FullView(id *event.UserIdentity, reqCtx event.Context) IdentityView {
	return IdentityView{
		Match:     pii.MatchFields(id),
		FBP:       reqCtx.FBP,
		FBC:       reqCtx.FBC,
		TTCLID:    reqCtx.TTCLID,
		IP:        reqCtx.IP,
		UserAgent: reqCtx.UserAgent,
		PageURL:   reqCtx.PageURL,
	}
}

// MetaPayload is the Conversions API body relayed through the backend.
type MetaPayload struct {
	EventName      string         `json:"event_name"`
	EventID        string         `json:"event_id"`
	EventTime      int64          `json:"event_time"` // unix seconds
	EventSourceURL string         `json:"event_source_url,omitempty"`
	ActionSource   string         `json:"action_source"`
	UserData       map[string]any `json:"user_data"`
	CustomData     map[string]any `json:"custom_data"`
}

// BuildMetaPayload composes the Meta relay body for the given mode.
func BuildMetaPayload(ev event.DomainEvent, pe platform.Event, eventID string, view IdentityView, mode Mode) MetaPayload {
	payload := MetaPayload{
		EventName:      pe.Name,
		EventID:        eventID,
		EventTime:      ev.TimestampMS / 1000,
		EventSourceURL: view.PageURL,
		ActionSource:   "website",
		UserData:       make(map[string]any),
		CustomData:     make(map[string]any),
	}

	if mode == ModeAnonymous {
		if view.IP != "" {
			payload.UserData["client_ip_address"] = view.IP
		}
		if ev.Value != nil {
			payload.CustomData["value"] = *ev.Value
		}
		if ev.Currency != "" {
			payload.CustomData["currency"] = ev.Currency
		}
		return payload
	}

	for k, v := range view.Match {
		payload.UserData[k] = v
	}
	if view.FBP != "" {
		payload.UserData["fbp"] = view.FBP
	}
	if view.FBC != "" {
		payload.UserData["fbc"] = view.FBC
	}
	if view.IP != "" {
		payload.UserData["client_ip_address"] = view.IP
	}
	if view.UserAgent != "" {
		payload.UserData["client_user_agent"] = view.UserAgent
	}
	for k, v := range pe.Params {
		payload.CustomData[k] = v
	}
	return payload
}

// TikTokUser is the optional identity block of a TikTok relay body.
type TikTokUser struct {
	Email string `json:"email,omitempty"` // hashed
	Phone string `json:"phone,omitempty"` // hashed
}

// TikTokPayload is the Events API body relayed through the backend.
type TikTokPayload struct {
	Event          string         `json:"event"`
	EventID        string         `json:"event_id"`
	Timestamp      int64          `json:"timestamp"` // unix seconds
	EventSourceURL string         `json:"event_source_url,omitempty"`
	User           *TikTokUser    `json:"user,omitempty"`
	Properties     map[string]any `json:"properties,omitempty"`
	IP             string         `json:"ip,omitempty"`
	UserAgent      string         `json:"user_agent,omitempty"`
	TTCLID         string         `json:"ttclid,omitempty"`
}

// BuildTikTokPayload composes the TikTok relay body for the given mode.
func BuildTikTokPayload(ev event.DomainEvent, pe platform.Event, eventID string, view IdentityView, mode Mode) TikTokPayload {
	payload := TikTokPayload{
		Event:          pe.Name,
		EventID:        eventID,
		Timestamp:      ev.TimestampMS / 1000,
		EventSourceURL: view.PageURL,
	}

	if mode == ModeAnonymous {
		payload.IP = view.IP
		props := make(map[string]any)
		if ev.Value != nil {
			props["value"] = *ev.Value
		}
		if ev.Currency != "" {
			props["currency"] = ev.Currency
		}
		if len(props) > 0 {
			payload.Properties = props
		}
		return payload
	}

	if email, ok := view.Match[pii.KeyEmail]; ok {
		if payload.User == nil {
			payload.User = &TikTokUser{}
		}
		payload.User.Email = email
	}
	if phone, ok := view.Match[pii.KeyPhone]; ok {
		if payload.User == nil {
			payload.User = &TikTokUser{}
		}
		payload.User.Phone = phone
	}
	payload.IP = view.IP
	payload.UserAgent = view.UserAgent
	payload.TTCLID = view.TTCLID

	props := make(map[string]any, len(pe.Params))
	for k, v := range pe.Params {
		props[k] = v
	}
	if len(props) > 0 {
		payload.Properties = props
	}
	return payload
}
