package server

import (
	"github.com/gofiber/fiber/v2"
)

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func (s *Server) handleRegister(c *fiber.Ctx) error {
	var body registerRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if body.Email == "" || body.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email and password required")
	}

	user, err := s.authn.Register(c.UserContext(), body.Email, body.Name, body.Password)
	if err != nil {
		return err
	}

	token, err := s.jwt.Generate(user)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(authResponse{Token: token, User: toUserResponse(user)})
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var body loginRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	user, err := s.authn.Authenticate(c.UserContext(), body.Email, body.Password)
	if err != nil {
		return err
	}

	token, err := s.jwt.Generate(user)
	if err != nil {
		return err
	}
	return c.JSON(authResponse{Token: token, User: toUserResponse(user)})
}

func (s *Server) handleMe(c *fiber.Ctx) error {
	user, err := s.authn.Lookup(c.UserContext(), userID(c))
	if err != nil {
		return err
	}
	return c.JSON(toUserResponse(user))
}
