// Package web provides the HTTP handlers of the workflow analysis API.
package web

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dukex/operion-analyzer/pkg/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

type APIHandlers struct {
	analysisService *services.Analysis
	validator       *validator.Validate
}

func NewAPIHandlers(analysisService *services.Analysis, validator *validator.Validate) *APIHandlers {
	return &APIHandlers{
		analysisService: analysisService,
		validator:       validator,
	}
}

// RegisterRoutes mounts the analysis endpoints on router.
func (h *APIHandlers) RegisterRoutes(router fiber.Router) {
	router.Post("/analyze", h.Analyze)
	router.Get("/node-types", h.GetNodeTypes)
	router.Get("/node-types/:type", h.GetNodeType)
	router.Get("/health", h.HealthCheck)
}

// Analyze runs the analysis pipeline over the workflow document in the request body.
func (h *APIHandlers) Analyze(c fiber.Ctx) error {
	query, err := h.parseAnalyzeQuery(c)
	if err != nil {
		return handleServiceError(c, err)
	}

	opts := make([]services.Option, 0, 1)
	if query.MaxPaths != nil {
		opts = append(opts, services.WithMaxPaths(*query.MaxPaths))
	}

	report, err := h.analysisService.AnalyzeJSON(c.Context(), c.Body(), opts...)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(report)
}

// parseAnalyzeQuery parses and validates the query parameters of POST /analyze.
func (h *APIHandlers) parseAnalyzeQuery(c fiber.Ctx) (*AnalyzeQuery, error) {
	query := &AnalyzeQuery{}

	if maxPathsStr := c.Query("max_paths"); maxPathsStr != "" {
		maxPaths, err := strconv.Atoi(maxPathsStr)
		if err != nil {
			return nil, services.NewValidationError(
				"Analyze", services.CodeInvalidOptions,
				fmt.Sprintf("max_paths %q is not an integer", maxPathsStr),
				services.ErrInvalidMaxPaths,
			)
		}

		query.MaxPaths = &maxPaths
	}

	if err := h.validator.Struct(query); err != nil {
		return nil, services.NewValidationError("Analyze", services.CodeInvalidOptions, "", fmt.Errorf("%w: %w", services.ErrInvalidMaxPaths, err))
	}

	return query, nil
}

func (h *APIHandlers) GetNodeTypes(c fiber.Ctx) error {
	specs := h.analysisService.Registry().Specs()

	return c.JSON(NodeTypesResponse{
		NodeTypes:  specs,
		TotalCount: len(specs),
	})
}

func (h *APIHandlers) GetNodeType(c fiber.Ctx) error {
	nodeType := c.Params("type")

	spec, ok := h.analysisService.Registry().Lookup(nodeType)
	if !ok {
		return notFound(c, fmt.Sprintf("node type %q is not registered", nodeType))
	}

	return c.JSON(spec)
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	registryCheck, ok := h.analysisService.HealthCheck(c.Context())

	status := "unhealthy"
	message := "Operion analyzer is unhealthy"
	httpStatus := http.StatusInternalServerError

	if ok {
		status = "healthy"
		message = "Operion analyzer is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(HealthResponse{
		Status:  status,
		Message: message,
		Checkers: map[string]string{
			"registry": registryCheck,
		},
		Timestamp: time.Now().UTC(),
	})
}
