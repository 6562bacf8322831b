package session

import (
	"context"
	"fmt"
	"net/http"

	"github.com/nyaruka/phonenumbers"
)

// SubscriberService groups the subscription endpoints.
type SubscriberService struct {
	c *Client
}

// Subscribers returns the subscription endpoint group.
func (c *Client) Subscribers() *SubscriberService {
	return &SubscriberService{c: c}
}

// SubscriptionInput is the create request body. Phone accepts any
// national or international format and is normalized to E.164 before
// the request goes out.
type SubscriptionInput struct {
	InfluencerID int64   `json:"influencer_id"`
	FanPhone     string  `json:"fan_phone"`
	Amount       float64 `json:"amount"`
	Frequency    string  `json:"frequency"`
}

// NormalizePhone parses raw against the given region and returns the
// E.164 rendering. An empty region defaults to KE, the product's home
// market.
func NormalizePhone(raw, region string) (string, error) {
	if region == "" {
		region = "KE"
	}

	num, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return "", ValidationError(fmt.Sprintf("invalid phone number: %s", raw), map[string]string{
			"phone": err.Error(),
		})
	}

	if !phonenumbers.IsValidNumber(num) {
		return "", ValidationError(fmt.Sprintf("invalid phone number: %s", raw), map[string]string{
			"phone": "not a valid number for region " + region,
		})
	}

	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// List fetches every subscription visible to the caller.
func (s *SubscriberService) List(ctx context.Context) ([]Subscription, error) {
	data, err := s.c.do(ctx, http.MethodGet, "/api/subscribers", nil, "")
	if err != nil {
		return nil, normalizeBackendError(err)
	}

	var out []Subscription
	if err := decodeJSON(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches one subscription by id.
func (s *SubscriberService) Get(ctx context.Context, id int64) (*Subscription, error) {
	data, err := s.c.do(ctx, http.MethodGet, fmt.Sprintf("/api/subscribers/%d", id), nil, "")
	if err != nil {
		return nil, normalizeBackendError(err)
	}

	out := new(Subscription)
	if err := decodeJSON(data, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create starts a recurring subscription for a fan phone number.
func (s *SubscriberService) Create(ctx context.Context, input SubscriptionInput) (*Subscription, error) {
	normalized, err := NormalizePhone(input.FanPhone, "")
	if err != nil {
		return nil, err
	}
	input.FanPhone = normalized

	data, err := s.c.do(ctx, http.MethodPost, "/api/subscribers", input, "")
	if err != nil {
		if be, ok := asBackendError(err); ok {
			return nil, ValidationError(be.Message, nil)
		}
		return nil, err
	}

	out := new(Subscription)
	if err := decodeJSON(data, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Cancel stops a subscription.
func (s *SubscriberService) Cancel(ctx context.Context, id int64) error {
	_, err := s.c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/subscribers/%d", id), nil, "")
	return normalizeBackendError(err)
}
