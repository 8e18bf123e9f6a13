package service

import (
	"context"
	"log/slog"

	"github.com/tabmate/tabmate/internal/models"
	"github.com/tabmate/tabmate/internal/storage"
)

// GroupService manages groups and their rosters.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a GroupService.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// Create creates a group. The creator becomes its admin; memberIDs are
// added as plain members and must reference existing users.
func (s *GroupService) Create(ctx context.Context, name, creatorID string, memberIDs []string) (*models.Group, error) {
	if name == "" {
		return nil, models.NewValidation("group name is required")
	}

	members := []models.Membership{{UserID: creatorID, Role: models.RoleAdmin}}
	for _, id := range memberIDs {
		if id == creatorID {
			continue
		}
		members = append(members, models.Membership{UserID: id, Role: models.RoleMember})
	}

	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.UserID
	}
	users, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if _, ok := users[id]; !ok {
			return nil, models.NewValidation("user %s does not exist", id)
		}
	}

	group := &models.Group{
		Name:      name,
		CreatedBy: creatorID,
		Members:   members,
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, err
	}
	slog.Info("Group created", "group_id", group.ID, "name", name, "members", len(members))
	return group, nil
}

// Get retrieves a group, enforcing membership.
func (s *GroupService) Get(ctx context.Context, groupID, actorID string) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(actorID) {
		return nil, models.NewAuthorization("you must be a member of this group")
	}
	return group, nil
}

// ListForUser retrieves the caller's groups.
func (s *GroupService) ListForUser(ctx context.Context, userID string) ([]*models.Group, error) {
	return s.store.ListGroupsForUser(ctx, userID)
}

// Rename changes a group's name. Admin only.
func (s *GroupService) Rename(ctx context.Context, groupID, name, actorID string) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.IsAdmin(actorID) {
		return nil, models.NewAuthorization("only a group admin may rename the group")
	}
	if name == "" {
		return nil, models.NewValidation("group name is required")
	}

	group.Name = name
	if err := s.store.UpdateGroup(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// Delete removes a group and its history. Admin only.
func (s *GroupService) Delete(ctx context.Context, groupID, actorID string) error {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if !group.IsAdmin(actorID) {
		return models.NewAuthorization("only a group admin may delete the group")
	}
	return s.store.DeleteGroup(ctx, groupID)
}

// AddMember appends a user to the roster. Admin only.
func (s *GroupService) AddMember(ctx context.Context, groupID string, m models.Membership, actorID string) error {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if !group.IsAdmin(actorID) {
		return models.NewAuthorization("only a group admin may add members")
	}
	if m.Role == "" {
		m.Role = models.RoleMember
	}
	if m.Role != models.RoleAdmin && m.Role != models.RoleMember {
		return models.NewValidation("unknown role %q", m.Role)
	}
	if group.HasMember(m.UserID) {
		return models.NewValidation("user %s is already a member", m.UserID)
	}
	if _, err := s.store.GetUserByID(ctx, m.UserID); err != nil {
		return err
	}
	return s.store.AddGroupMember(ctx, groupID, m)
}

// RemoveMember drops a user from the roster. Admins may remove anyone;
// members may remove themselves. Historical expenses referencing the
// removed user stay intact, and balance math tolerates them.
func (s *GroupService) RemoveMember(ctx context.Context, groupID, userID, actorID string) error {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if !group.IsAdmin(actorID) && actorID != userID {
		return models.NewAuthorization("only a group admin may remove other members")
	}
	return s.store.RemoveGroupMember(ctx, groupID, userID)
}
