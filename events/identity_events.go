// Package events holds the typed event definitions shared between modules.
package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// ProfileDeletedEvent is emitted after the identity provider deletes a user
// and the local profile is removed.
type ProfileDeletedEvent struct {
	UserID    string    `json:"user_id"`
	DeletedAt time.Time `json:"deleted_at"`
}

// ProfileDeletedV1 is the typed event definition for profile deletion.
// Subject: events.identity.v1.profile-deleted
var ProfileDeletedV1 = helper.EventDefinition[ProfileDeletedEvent](
	"identity", "ProfileDeleted", "v1",
)
