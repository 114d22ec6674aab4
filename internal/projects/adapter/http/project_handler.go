package http

import (
	"context"
	"errors"

	"projects-api/internal/projects/domain/model"
	"projects-api/internal/projects/usecase"
	apperrors "projects-api/internal/shared/errors"
	"projects-api/internal/shared/logger"
	"projects-api/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
)

// ProjectHandler serves the project collection routes.
type ProjectHandler struct {
	UC  usecase.ProjectUsecase
	Log logger.Logger
}

// NewProjectHandler creates a ProjectHandler.
func NewProjectHandler(uc usecase.ProjectUsecase, log logger.Logger) *ProjectHandler {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &ProjectHandler{UC: uc, Log: log.WithComponent("projects.http")}
}

// RegisterRoutes mounts the collection under basePath. Every request to
// basePath/:id, whatever its method, passes the id validator first.
func (h *ProjectHandler) RegisterRoutes(router fiber.Router, basePath string) {
	itemPath := basePath + "/:id"

	router.Get(basePath, h.ListProjects)
	router.Post(basePath, h.CreateProject)
	router.Delete(basePath, h.DeleteAllProjects)

	router.All(itemPath, NewPipeline(ValidateProjectID(h.Log)).Middleware())
	router.Put(itemPath, h.UpdateProject)
	router.Delete(itemPath, h.DeleteProject)
}

// ListProjects handles GET /projects?title=
func (h *ProjectHandler) ListProjects(c *fiber.Ctx) error {
	ctx := withOperation(c, "list_projects")
	projects := h.UC.ListProjects(ctx, usecase.ListProjectsRequest{
		Title: c.Query("title"),
	})
	return c.JSON(projects)
}

// CreateProject handles POST /projects
func (h *ProjectHandler) CreateProject(c *fiber.Ctx) error {
	ctx := withOperation(c, "create_project")
	input, err := decodeProjectInput(c)
	if err != nil {
		h.Log.WithContext(ctx).Warnf("Failed to parse request body: %v", err)
		return writeError(c, apperrors.NewInvalidBodyError(err))
	}

	project := h.UC.CreateProject(ctx, usecase.CreateProjectRequest{
		Title: input.Title,
		Owner: input.Owner,
	})
	return c.JSON(project)
}

// UpdateProject handles PUT /projects/:id
func (h *ProjectHandler) UpdateProject(c *fiber.Ctx) error {
	ctx := withOperation(c, "update_project")
	input, err := decodeProjectInput(c)
	if err != nil {
		h.Log.WithContext(ctx).Warnf("Failed to parse request body: %v", err)
		return writeError(c, apperrors.NewInvalidBodyError(err))
	}

	project, err := h.UC.UpdateProject(ctx, usecase.UpdateProjectRequest{
		ProjectID: c.Params("id"),
		Title:     input.Title,
		Owner:     input.Owner,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(project)
}

// DeleteProject handles DELETE /projects/:id
func (h *ProjectHandler) DeleteProject(c *fiber.Ctx) error {
	ctx := withOperation(c, "delete_project")
	err := h.UC.DeleteProject(ctx, usecase.DeleteProjectRequest{
		ProjectID: c.Params("id"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteAllProjects handles DELETE /projects
func (h *ProjectHandler) DeleteAllProjects(c *fiber.Ctx) error {
	h.UC.DeleteAllProjects(withOperation(c, "delete_all_projects"))
	return c.SendStatus(fiber.StatusNoContent)
}

// withOperation tags the request context, and so every log line written for
// it, with the operation name.
func withOperation(c *fiber.Ctx, operation string) context.Context {
	ctx := utils.WithOperation(c.UserContext(), operation)
	c.SetUserContext(ctx)
	return ctx
}

// decodeProjectInput reads {title, owner}. Only JSON bodies are decoded; an
// empty or non-JSON body yields empty fields, which are stored as-is.
// Non-string title or owner values are rejected as an invalid body, since
// both fields are typed as strings.
func decodeProjectInput(c *fiber.Ctx) (model.ProjectInput, error) {
	var input model.ProjectInput
	if len(c.Body()) == 0 || !c.Is("json") {
		return input, nil
	}
	if err := c.BodyParser(&input); err != nil {
		return model.ProjectInput{}, err
	}
	return input, nil
}

// writeError answers with the AppError carried by err. Anything else goes to
// the app error handler.
func writeError(c *fiber.Ctx, err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return c.Status(appErr.HTTPCode).JSON(appErr.Body())
	}
	return err
}
