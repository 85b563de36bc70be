package http

import (
	"context"

	dsusecase "dataprep/internal/dataset/usecase"
	"dataprep/internal/pipeline/usecase"
	"dataprep/internal/shared/errors"
	"dataprep/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
)

// TokenIssuer issues API tokens after verifying the admin key.
type TokenIssuer interface {
	GenerateToken(ctx context.Context, subject string, admin bool) (string, error)
	CheckAdminKey(key string) error
}

// JobHandler exposes the preprocessing job API.
type JobHandler struct {
	JobUC  *usecase.JobUsecase
	SeedUC *dsusecase.SeedUsecase
	Tokens TokenIssuer
	Auth   *AuthMiddleware
	Log    logger.Logger
}

// NewJobHandler creates the job API handler.
func NewJobHandler(
	jobUC *usecase.JobUsecase,
	seedUC *dsusecase.SeedUsecase,
	tokens TokenIssuer,
	auth *AuthMiddleware,
	log logger.Logger,
) *JobHandler {
	return &JobHandler{
		JobUC:  jobUC,
		SeedUC: seedUC,
		Tokens: tokens,
		Auth:   auth,
		Log:    log,
	}
}

// RegisterRoutes registers the job API routes. Health lives at the root
// /healthz endpoint, outside the versioned group.
func (h *JobHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/auth/token", h.Auth.RateLimiter(), h.IssueToken)

	jobs := router.Group("/jobs", h.Auth.Protect())
	jobs.Post("/", h.SubmitJob)
	jobs.Get("/", h.ListJobs)
	jobs.Get("/:jobID", h.GetJob)

	router.Post("/seed", h.Auth.Protect(), h.Auth.RequireAdmin(), h.Seed)
}

type tokenRequest struct {
	Subject  string `json:"subject"`
	AdminKey string `json:"admin_key"`
}

// IssueToken exchanges the admin key for a bearer token.
func (h *JobHandler) IssueToken(c *fiber.Ctx) error {
	var req tokenRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Subject == "" {
		req.Subject = "api-client"
	}
	if req.AdminKey == "" {
		req.AdminKey = c.Get("X-Admin-Key")
	}

	if err := h.Tokens.CheckAdminKey(req.AdminKey); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid admin key",
		})
	}

	token, err := h.Tokens.GenerateToken(c.UserContext(), req.Subject, true)
	if err != nil {
		h.Log.Error("Failed to generate token: ", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate token",
		})
	}

	return c.JSON(fiber.Map{
		"token":   token,
		"subject": req.Subject,
	})
}

// SubmitJob accepts a preprocessing job and starts it in the background.
func (h *JobHandler) SubmitJob(c *fiber.Ctx) error {
	var req usecase.SubmitJobRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	job, err := h.JobUC.Submit(c.UserContext(), req)
	if err != nil {
		return h.errorResponse(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(job)
}

// GetJob returns a job with its report.
func (h *JobHandler) GetJob(c *fiber.Ctx) error {
	job, err := h.JobUC.Get(c.UserContext(), c.Params("jobID"))
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(job)
}

// ListJobs returns recent jobs, newest first.
func (h *JobHandler) ListJobs(c *fiber.Ctx) error {
	limit := int64(c.QueryInt("limit", 50))
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	jobs, err := h.JobUC.List(c.UserContext(), limit)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"jobs":  jobs,
		"count": len(jobs),
	})
}

type seedRequest struct {
	Collection string `json:"collection"`
	Reset      bool   `json:"reset"`
}

// Seed provisions the development database with the fixed seed documents.
func (h *JobHandler) Seed(c *fiber.Ctx) error {
	var req seedRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Collection == "" {
		req.Collection = "users"
	}

	result, err := h.SeedUC.Seed(c.UserContext(), req.Collection, req.Reset)
	if err != nil {
		return h.errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"result":       result,
		"confirmation": result.Confirmation(),
	})
}

// errorResponse maps application errors to HTTP responses.
func (h *JobHandler) errorResponse(c *fiber.Ctx, err error) error {
	if appErr, ok := err.(*errors.AppError); ok {
		return c.Status(appErr.HTTPCode).JSON(fiber.Map{
			"error": appErr.Message,
			"type":  appErr.Type,
		})
	}
	if verrs, ok := err.(*errors.ValidationErrors); ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"details": verrs.Errors,
		})
	}
	h.Log.Error("Request failed: ", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
	})
}
