package rooms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/termrooms/internal/common"
	"github.com/dmitrijs2005/termrooms/internal/models"
	"github.com/dmitrijs2005/termrooms/internal/store"
)

// InviteParams carries the caller-supplied fields for SendInvite. An empty
// Message gets the stock invitation text.
type InviteParams struct {
	RoomID    string
	Recipient string
	Sender    string
	Message   string
}

// SendInvite creates a pending invite addressed to params.Recipient (a
// username, or a display name for guests).
func (r *Repository) SendInvite(ctx context.Context, params InviteParams) (*models.Invite, error) {
	if params.RoomID == "" || params.Recipient == "" {
		return nil, fmt.Errorf("%w: recipient and room id are required", common.ErrValidation)
	}

	message := params.Message
	if message == "" {
		message = fmt.Sprintf("%s invited you to collaborate.", params.Sender)
	}

	invite := models.Invite{
		ID:        uuid.NewString(),
		RoomID:    params.RoomID,
		Recipient: params.Recipient,
		Sender:    params.Sender,
		Message:   message,
		Status:    models.InvitePending,
		CreatedAt: r.nowFn(),
	}

	all, err := r.loadInvites(ctx)
	if err != nil {
		return nil, err
	}
	all = append(all, invite)
	if err := r.saveInvites(ctx, all); err != nil {
		return nil, err
	}
	return &invite, nil
}

// ListInvitesForRecipient returns every invite addressed to key, newest first.
func (r *Repository) ListInvitesForRecipient(ctx context.Context, key string) ([]models.Invite, error) {
	all, err := r.loadInvites(ctx)
	if err != nil {
		return nil, err
	}
	var inbox []models.Invite
	for i := len(all) - 1; i >= 0; i-- {
		if all[i].Recipient == key {
			inbox = append(inbox, all[i])
		}
	}
	return inbox, nil
}

// UpdateInviteStatus transitions the invite to the given status and stamps
// respondedAt. Invites are never physically deleted.
func (r *Repository) UpdateInviteStatus(ctx context.Context, id string, status models.InviteStatus) error {
	all, err := r.loadInvites(ctx)
	if err != nil {
		return err
	}
	for i := range all {
		if all[i].ID != id {
			continue
		}
		now := r.nowFn()
		all[i].Status = status
		all[i].RespondedAt = &now
		return r.saveInvites(ctx, all)
	}
	return fmt.Errorf("%w: invite %s", common.ErrNotFound, id)
}

func (r *Repository) loadInvites(ctx context.Context) ([]models.Invite, error) {
	raw, err := r.store.Get(ctx, store.KeyInvites)
	if errors.Is(err, common.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load invites: %w", err)
	}
	var all []models.Invite
	if err := json.Unmarshal(raw, &all); err != nil {
		return nil, fmt.Errorf("failed to decode invites: %w", err)
	}
	return all, nil
}

func (r *Repository) saveInvites(ctx context.Context, all []models.Invite) error {
	raw, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("failed to encode invites: %w", err)
	}
	if err := r.store.Set(ctx, store.KeyInvites, raw); err != nil {
		return fmt.Errorf("failed to save invites: %w", err)
	}
	return nil
}
