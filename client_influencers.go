package session

import (
	"context"
	"fmt"
	"net/http"
)

// InfluencerService groups the influencer endpoints. Reads are public;
// mutations and lifecycle calls require an admin credential, which the
// shared client attaches automatically.
type InfluencerService struct {
	c *Client
}

// Influencers returns the influencer endpoint group.
func (c *Client) Influencers() *InfluencerService {
	return &InfluencerService{c: c}
}

// InfluencerInput is the create/update request body.
type InfluencerInput struct {
	Name      string `json:"name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
	Shortcode string `json:"ussd_shortcode,omitempty"`
}

// List fetches every influencer.
func (s *InfluencerService) List(ctx context.Context) ([]Influencer, error) {
	data, err := s.c.do(ctx, http.MethodGet, "/api/influencers", nil, "")
	if err != nil {
		return nil, normalizeBackendError(err)
	}

	var out []Influencer
	if err := decodeJSON(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches one influencer by id.
func (s *InfluencerService) Get(ctx context.Context, id int64) (*Influencer, error) {
	data, err := s.c.do(ctx, http.MethodGet, fmt.Sprintf("/api/influencers/%d", id), nil, "")
	if err != nil {
		return nil, normalizeBackendError(err)
	}

	out := new(Influencer)
	if err := decodeJSON(data, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create registers a new influencer.
func (s *InfluencerService) Create(ctx context.Context, input InfluencerInput) (*Influencer, error) {
	data, err := s.c.do(ctx, http.MethodPost, "/api/influencers", input, "")
	if err != nil {
		if be, ok := asBackendError(err); ok {
			return nil, ValidationError(be.Message, nil)
		}
		return nil, err
	}

	out := new(Influencer)
	if err := decodeJSON(data, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update replaces an influencer's editable fields.
func (s *InfluencerService) Update(ctx context.Context, id int64, input InfluencerInput) (*Influencer, error) {
	data, err := s.c.do(ctx, http.MethodPut, fmt.Sprintf("/api/influencers/%d", id), input, "")
	if err != nil {
		if be, ok := asBackendError(err); ok {
			return nil, ValidationError(be.Message, nil)
		}
		return nil, err
	}

	out := new(Influencer)
	if err := decodeJSON(data, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes an influencer.
func (s *InfluencerService) Delete(ctx context.Context, id int64) error {
	_, err := s.c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/influencers/%d", id), nil, "")
	return normalizeBackendError(err)
}

// Suspend pauses an influencer's subscriptions.
func (s *InfluencerService) Suspend(ctx context.Context, id int64) error {
	_, err := s.c.do(ctx, http.MethodPost, fmt.Sprintf("/api/influencers/%d/suspend", id), nil, "")
	return normalizeBackendError(err)
}

// Activate resumes a suspended influencer.
func (s *InfluencerService) Activate(ctx context.Context, id int64) error {
	_, err := s.c.do(ctx, http.MethodPost, fmt.Sprintf("/api/influencers/%d/activate", id), nil, "")
	return normalizeBackendError(err)
}

// Terminate retires an influencer permanently.
func (s *InfluencerService) Terminate(ctx context.Context, id int64) error {
	_, err := s.c.do(ctx, http.MethodPost, fmt.Sprintf("/api/influencers/%d/terminate", id), nil, "")
	return normalizeBackendError(err)
}

// Shortcodes lists the USSD shortcode assignments for admin reference.
func (s *InfluencerService) Shortcodes(ctx context.Context) ([]Influencer, error) {
	data, err := s.c.do(ctx, http.MethodGet, "/api/influencers/shortcodes", nil, "")
	if err != nil {
		return nil, normalizeBackendError(err)
	}

	var out []Influencer
	if err := decodeJSON(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
