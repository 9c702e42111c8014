// Package http exposes the application operations over a REST API built on
// echo. Handlers translate between JSON payloads and application commands
// and queries; all business rules stay behind the handler boundary.
package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/Safary16/soptraloc-sub001/internal/core/application/usecases/commands"
	"github.com/Safary16/soptraloc-sub001/internal/core/application/usecases/queries"
	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/container"
	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/kernel"
	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/timerecord"
	"github.com/Safary16/soptraloc-sub001/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Error is the JSON error envelope returned by every failing endpoint.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	applyTransitionHandler   commands.ApplyTransitionCommandHandler
	runAssignmentPassHandler commands.RunAssignmentPassCommandHandler
	recordActualTimesHandler commands.RecordActualTimesCommandHandler

	predictDurationHandler      queries.PredictDurationQueryHandler
	getPendingContainersHandler queries.GetPendingContainersQueryHandler
}

// NewServer creates an HTTP server with the required command and query
// handlers.
func NewServer(
	applyTransitionHandler commands.ApplyTransitionCommandHandler,
	runAssignmentPassHandler commands.RunAssignmentPassCommandHandler,
	recordActualTimesHandler commands.RecordActualTimesCommandHandler,
	predictDurationHandler queries.PredictDurationQueryHandler,
	getPendingContainersHandler queries.GetPendingContainersQueryHandler,
) *Server {
	return &Server{
		applyTransitionHandler:      applyTransitionHandler,
		runAssignmentPassHandler:    runAssignmentPassHandler,
		recordActualTimesHandler:    recordActualTimesHandler,
		predictDurationHandler:      predictDurationHandler,
		getPendingContainersHandler: getPendingContainersHandler,
	}
}

// RegisterRoutes mounts every endpoint on the given echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/v1/containers/:number/status", s.ApplyTransition)
	e.POST("/api/v1/assignments/run", s.RunAssignmentPass)
	e.POST("/api/v1/assignments/:id/actuals", s.RecordActualTimes)
	e.GET("/api/v1/predictions", s.PredictDuration)
	e.GET("/api/v1/containers/pending", s.GetPendingContainers)
	e.GET("/health", s.Health)
}

type applyTransitionRequest struct {
	Status     string     `json:"status"`
	OccurredAt *time.Time `json:"occurred_at"`
	Actor      string     `json:"actor"`
}

type applyTransitionResponse struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Changed bool   `json:"changed"`
}

// ApplyTransition handles POST /api/v1/containers/:number/status.
func (s *Server) ApplyTransition(ctx echo.Context) error {
	var req applyTransitionRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	occurredAt := time.Now().UTC()
	if req.OccurredAt != nil {
		occurredAt = *req.OccurredAt
	}

	cmd, err := commands.NewApplyTransitionCommand(
		ctx.Param("number"), req.Status, occurredAt, req.Actor)
	if err != nil {
		return badRequest(ctx, "Invalid transition data: "+err.Error())
	}

	result, err := s.applyTransitionHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrObjectNotFound):
			return notFound(ctx, "Container not found")
		case errors.Is(err, container.ErrUnknownRawStatus):
			return badRequest(ctx, err.Error())
		case errors.Is(err, container.ErrInvalidTransition):
			return ctx.JSON(http.StatusConflict, Error{
				Code:    http.StatusConflict,
				Message: err.Error(),
			})
		default:
			return internalError(ctx, "Failed to apply transition")
		}
	}

	return ctx.JSON(http.StatusOK, applyTransitionResponse{
		From:    string(result.From),
		To:      string(result.To),
		Changed: result.Changed,
	})
}

type pendingContainerResponse struct {
	ContainerID string `json:"container_id"`
	Number      string `json:"number"`
	Reason      string `json:"reason"`
}

type runAssignmentPassResponse struct {
	AssignedCount int                        `json:"assigned_count"`
	Pending       []pendingContainerResponse `json:"pending"`
}

// RunAssignmentPass handles POST /api/v1/assignments/run.
func (s *Server) RunAssignmentPass(ctx echo.Context) error {
	cmd, err := commands.NewRunAssignmentPassCommand(time.Now().UTC())
	if err != nil {
		return internalError(ctx, "Failed to build assignment pass")
	}

	result, err := s.runAssignmentPassHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return internalError(ctx, "Assignment pass failed")
	}

	pending := make([]pendingContainerResponse, len(result.Pending))
	for i, p := range result.Pending {
		pending[i] = pendingContainerResponse{
			ContainerID: p.ContainerID.String(),
			Number:      p.Number,
			Reason:      p.Reason,
		}
	}

	return ctx.JSON(http.StatusOK, runAssignmentPassResponse{
		AssignedCount: result.AssignedCount,
		Pending:       pending,
	})
}

type recordActualTimesRequest struct {
	TotalMinutes  int        `json:"total_minutes"`
	RouteMinutes  *int       `json:"route_minutes"`
	UnloadMinutes *int       `json:"unload_minutes"`
	DistanceKM    *float64   `json:"distance_km"`
	RecordedAt    *time.Time `json:"recorded_at"`
}

// RecordActualTimes handles POST /api/v1/assignments/:id/actuals.
func (s *Server) RecordActualTimes(ctx echo.Context) error {
	assignmentID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid assignment id")
	}

	var req recordActualTimesRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	recordedAt := time.Now().UTC()
	if req.RecordedAt != nil {
		recordedAt = *req.RecordedAt
	}

	cmd, err := commands.NewRecordActualTimesCommand(
		assignmentID,
		req.TotalMinutes,
		req.RouteMinutes,
		req.UnloadMinutes,
		req.DistanceKM,
		recordedAt,
	)
	if err != nil {
		return badRequest(ctx, "Invalid actual times: "+err.Error())
	}

	if err = s.recordActualTimesHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return notFound(ctx, "Assignment not found")
		}
		return internalError(ctx, "Failed to record actual times")
	}

	return ctx.NoContent(http.StatusNoContent)
}

type predictDurationResponse struct {
	Minutes    int    `json:"minutes"`
	Confidence int    `json:"confidence"`
	Source     string `json:"source"`
}

// PredictDuration handles GET /api/v1/predictions. The segment is passed as
// query parameters: kind, from, to, baseline_minutes and an optional RFC3339
// at instant.
func (s *Server) PredictDuration(ctx echo.Context) error {
	var params struct {
		Kind            string `query:"kind"`
		From            string `query:"from"`
		To              string `query:"to"`
		BaselineMinutes int    `query:"baseline_minutes"`
		At              string `query:"at"`
	}
	if err := ctx.Bind(&params); err != nil {
		return badRequest(ctx, "Invalid query parameters")
	}

	at := time.Now().UTC()
	if params.At != "" {
		parsed, err := time.Parse(time.RFC3339, params.At)
		if err != nil {
			return badRequest(ctx, "Invalid at instant, expected RFC3339")
		}
		at = parsed
	}

	query, err := queries.NewPredictDurationQuery(
		timerecord.Kind(params.Kind), params.From, params.To, params.BaselineMinutes, at)
	if err != nil {
		return badRequest(ctx, "Invalid prediction lookup: "+err.Error())
	}

	prediction, err := s.predictDurationHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return internalError(ctx, "Failed to predict duration")
	}

	return ctx.JSON(http.StatusOK, predictDurationResponse{
		Minutes:    prediction.Minutes,
		Confidence: prediction.Confidence,
		Source:     prediction.Source,
	})
}

type pendingBacklogItem struct {
	ID          string     `json:"id"`
	Number      string     `json:"number"`
	Status      string     `json:"status"`
	Origin      string     `json:"origin"`
	Destination string     `json:"destination"`
	ScheduledAt *time.Time `json:"scheduled_at"`
}

// GetPendingContainers handles GET /api/v1/containers/pending.
func (s *Server) GetPendingContainers(ctx echo.Context) error {
	query := queries.NewGetPendingContainersQuery()

	backlog, err := s.getPendingContainersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return internalError(ctx, "Failed to retrieve pending containers")
	}

	response := make([]pendingBacklogItem, len(backlog))
	for i, item := range backlog {
		response[i] = pendingBacklogItem{
			ID:          item.ID.String(),
			Number:      item.Number,
			Status:      item.Status,
			Origin:      item.Origin,
			Destination: item.Destination,
			ScheduledAt: item.ScheduledAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

func notFound(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusNotFound, Error{
		Code:    http.StatusNotFound,
		Message: message,
	})
}

func internalError(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusInternalServerError, Error{
		Code:    http.StatusInternalServerError,
		Message: message,
	})
}
