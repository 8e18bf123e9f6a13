package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tabmate/tabmate/internal/models"
)

type createGroupRequest struct {
	Name      string   `json:"name"`
	MemberIDs []string `json:"memberIds"`
}

func (s *Server) handleCreateGroup(c *fiber.Ctx) error {
	var body createGroupRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if body.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}

	group, err := s.groups.Create(c.UserContext(), body.Name, userID(c), body.MemberIDs)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toGroupResponse(group))
}

func (s *Server) handleListGroups(c *fiber.Ctx) error {
	groups, err := s.groups.ListForUser(c.UserContext(), userID(c))
	if err != nil {
		return err
	}
	out := make([]groupResponse, len(groups))
	for i, g := range groups {
		out[i] = toGroupResponse(g)
	}
	return c.JSON(out)
}

func (s *Server) handleGetGroup(c *fiber.Ctx) error {
	group, err := s.groups.Get(c.UserContext(), c.Params("groupId"), userID(c))
	if err != nil {
		return err
	}
	return c.JSON(toGroupResponse(group))
}

func (s *Server) handleRenameGroup(c *fiber.Ctx) error {
	var body struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if body.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}

	group, err := s.groups.Rename(c.UserContext(), c.Params("groupId"), body.Name, userID(c))
	if err != nil {
		return err
	}
	return c.JSON(toGroupResponse(group))
}

func (s *Server) handleDeleteGroup(c *fiber.Ctx) error {
	if err := s.groups.Delete(c.UserContext(), c.Params("groupId"), userID(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type addMemberRequest struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

func (s *Server) handleAddMember(c *fiber.Ctx) error {
	var body addMemberRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if body.UserID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "userId is required")
	}
	if body.Role == "" {
		body.Role = models.RoleMember
	}

	err := s.groups.AddMember(c.UserContext(), c.Params("groupId"), models.Membership{
		UserID: body.UserID,
		Role:   body.Role,
	}, userID(c))
	if err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleRemoveMember(c *fiber.Ctx) error {
	err := s.groups.RemoveMember(c.UserContext(), c.Params("groupId"), c.Params("userId"), userID(c))
	if err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
