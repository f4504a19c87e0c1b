package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/WaqasAhmed27/namak-halal/domain/user"
	"github.com/WaqasAhmed27/namak-halal/events"
	"github.com/WaqasAhmed27/namak-halal/hooks"
)

var (
	// ErrInvalidPayload is returned when a verified delivery cannot be decoded.
	ErrInvalidPayload = errors.New("invalid webhook payload")
	// ErrMissingUserID is returned when a user event carries no user ID.
	ErrMissingUserID = errors.New("webhook event has no user id")
)

// DeletedPublisher announces a removed profile.
type DeletedPublisher func(event events.ProfileDeletedEvent) error

// Service mirrors identity-provider users into profiles.
type Service struct {
	profiles *user.Repository
	publish  DeletedPublisher
}

// NewService creates the profile mirror. publish may be nil.
func NewService(profiles *user.Repository, publish DeletedPublisher) *Service {
	return &Service{profiles: profiles, publish: publish}
}

// Apply handles one verified event. Every branch is safe to repeat.
// Unknown event types are logged and reported as not handled.
func (s *Service) Apply(ctx context.Context, evt WebhookEvent) (WebhookResult, error) {
	res := WebhookResult{Type: evt.Type}

	switch evt.Type {
	case EventUserCreated, EventUserUpdated:
		var data UserData
		if err := json.Unmarshal(evt.Data, &data); err != nil {
			return res, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		if data.ID == "" {
			return res, ErrMissingUserID
		}
		p := &user.Profile{
			ID:       data.ID,
			Email:    data.PrimaryEmail(),
			FullName: data.FullName(),
			Phone:    data.PrimaryPhone(),
		}
		if evt.Type == EventUserUpdated {
			p.IsAdmin = data.Role() == user.RoleAdmin
		}
		if err := s.profiles.Upsert(ctx, p); err != nil {
			return res, err
		}
		log.Printf("[identity] Profile synced for user %s (%s)", data.ID, evt.Type)
		res.UserID, res.Handled = data.ID, true

	case EventUserDeleted:
		var data UserData
		if err := json.Unmarshal(evt.Data, &data); err != nil {
			return res, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		if data.ID == "" {
			return res, ErrMissingUserID
		}
		if err := s.profiles.Delete(ctx, data.ID); err != nil {
			return res, err
		}
		if s.publish != nil {
			evt := events.ProfileDeletedEvent{UserID: data.ID, DeletedAt: time.Now()}
			hooks.RunBestEffort(ctx, "publish-profile-deleted", func(context.Context) error {
				return s.publish(evt)
			})
		}
		log.Printf("[identity] Profile deleted for user %s", data.ID)
		res.UserID, res.Handled = data.ID, true

	default:
		log.Printf("[identity] Unhandled webhook event: %s", evt.Type)
	}
	return res, nil
}

// ListCustomers returns every profile with its order count and total spent.
func (s *Service) ListCustomers(ctx context.Context) ([]user.Customer, error) {
	customers, err := s.profiles.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}
	if customers == nil {
		customers = []user.Customer{}
	}
	return customers, nil
}

// CountProfiles returns the number of mirrored profiles.
func (s *Service) CountProfiles(ctx context.Context) (int64, error) {
	return s.profiles.Count(ctx)
}
