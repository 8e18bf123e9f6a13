package server

import (
	"github.com/gofiber/fiber/v2"
)

func (s *Server) handleStatementPDF(c *fiber.Ctx) error {
	pdf, filename, err := s.reports.GroupStatement(c.UserContext(), c.Params("groupId"), userID(c))
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}
