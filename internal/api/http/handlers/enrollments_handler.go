package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/course-service/internal/api/dto"
	"github.com/spec-kit/course-service/internal/service"
)

// EnrollmentsHandler exposes enrollment endpoints.
type EnrollmentsHandler struct {
	enrollments *service.EnrollmentService
}

// NewEnrollmentsHandler constructs handler.
func NewEnrollmentsHandler(enrollmentService *service.EnrollmentService) *EnrollmentsHandler {
	return &EnrollmentsHandler{enrollments: enrollmentService}
}

// Create handles POST /enrollments.
func (h *EnrollmentsHandler) Create(c *fiber.Ctx) error {
	var req dto.EnrollmentCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.UserID == "" || req.CourseID == "" {
		return fiber.NewError(http.StatusBadRequest, "user_id and course_id required")
	}

	enrollment, err := h.enrollments.Create(c.UserContext(), req.UserID, req.CourseID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewEnrollmentResponse(enrollment)})
}

// List handles GET /enrollments.
func (h *EnrollmentsHandler) List(c *fiber.Ctx) error {
	enrollments, err := h.enrollments.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEnrollmentResponses(enrollments)})
}

// Get handles GET /enrollments/:id.
func (h *EnrollmentsHandler) Get(c *fiber.Ctx) error {
	enrollment, err := h.enrollments.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEnrollmentResponse(enrollment)})
}

// ListByUser handles GET /users/:id/enrollments.
func (h *EnrollmentsHandler) ListByUser(c *fiber.Ctx) error {
	enrollments, err := h.enrollments.ListByUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEnrollmentResponses(enrollments)})
}

// ListByCourse handles GET /courses/:id/enrollments.
func (h *EnrollmentsHandler) ListByCourse(c *fiber.Ctx) error {
	enrollments, err := h.enrollments.ListByCourse(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEnrollmentResponses(enrollments)})
}

// Update handles PUT /enrollments/:id.
func (h *EnrollmentsHandler) Update(c *fiber.Ctx) error {
	var req dto.EnrollmentUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	enrollment, err := h.enrollments.Update(c.UserContext(), c.Params("id"), service.EnrollmentUpdateInput{
		UserID:     req.UserID,
		CourseID:   req.CourseID,
		Status:     req.Status,
		EnrolledAt: req.EnrolledAt,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEnrollmentResponse(enrollment)})
}

// UpdateStatus handles PATCH /enrollments/:id/status.
func (h *EnrollmentsHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.EnrollmentStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Status == "" {
		return fiber.NewError(http.StatusBadRequest, "status required")
	}

	enrollment, err := h.enrollments.UpdateStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEnrollmentResponse(enrollment)})
}

// Delete handles DELETE /enrollments/:id.
func (h *EnrollmentsHandler) Delete(c *fiber.Ctx) error {
	if err := h.enrollments.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
