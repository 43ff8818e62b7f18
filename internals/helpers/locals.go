package helper

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Key Locals yang diisi auth middleware.
const (
	LocUserID        = "user_id"
	LocUserRole      = "userRole"
	LocUserStatus    = "userStatus"
	LocScholarshipID = "scholarship_id"
)

// GetUserID membaca user id dari Locals (diset auth middleware).
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	raw, ok := c.Locals(LocUserID).(string)
	if !ok || raw == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid user ID format")
	}
	return id, nil
}

func GetUserRole(c *fiber.Ctx) string {
	if v, ok := c.Locals(LocUserRole).(string); ok {
		return v
	}
	return ""
}

func GetUserStatus(c *fiber.Ctx) string {
	if v, ok := c.Locals(LocUserStatus).(string); ok {
		return v
	}
	return ""
}

// GetScholarshipID mengembalikan scholarship user (nil jika belum punya).
func GetScholarshipID(c *fiber.Ctx) *uuid.UUID {
	raw, ok := c.Locals(LocScholarshipID).(string)
	if !ok || raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}
