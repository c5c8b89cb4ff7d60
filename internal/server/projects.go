package server

import (
	"context"
	"net/http"
	"strings"

	"construtora/internal/utils"
	"construtora/pkg/types"

	"github.com/alexedwards/flow"
)

func projectFromInput(in *types.ProjectInput) *types.Project {
	project := &types.Project{
		Name:        strings.TrimSpace(in.Name),
		ClientName:  optionalString(in.ClientName),
		Address:     optionalString(in.Address),
		City:        optionalString(in.City),
		State:       optionalString(strings.ToUpper(in.State)),
		Status:      types.ProjectStatus(in.Status),
		BudgetCents: in.BudgetCents,
		StartDate:   optionalDate(in.StartDate),
		EndDate:     optionalDate(in.EndDate),
	}
	if cnpj := optionalString(in.ClientCNPJ); cnpj != nil {
		project.ClientCNPJ = utils.StringPtr(utils.FormatCNPJ(*cnpj))
	}
	return project
}

func (s *Service) handleListProjects(w http.ResponseWriter, r *http.Request) {
	status := types.ProjectStatus(r.URL.Query().Get("status"))

	projects, err := s.projects.Projects(r.Context(), status)
	if err != nil {
		s.writeFailure(w, err, "failed to list projects")
		return
	}

	s.writeJSON(w, http.StatusOK, projects)
}

func (s *Service) handleGetProject(w http.ResponseWriter, r *http.Request) {
	project, err := s.projects.Project(r.Context(), flow.Param(r.Context(), "id"))
	if err != nil {
		s.writeFailure(w, err, "failed to load project")
		return
	}

	s.writeJSON(w, http.StatusOK, project)
}

func (s *Service) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var in = new(types.ProjectInput)
	if !s.decodeValid(w, r, in) {
		return
	}

	project := projectFromInput(in)
	if err := s.projects.CreateProject(r.Context(), project); err != nil {
		s.writeFailure(w, err, "failed to create project")
		return
	}

	s.writeJSON(w, http.StatusCreated, project)
}

func (s *Service) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	projectID := flow.Param(ctx, "id")

	current, err := s.projects.Project(ctx, projectID)
	if err != nil {
		s.writeFailure(w, err, "failed to load project")
		return
	}

	var in = new(types.ProjectInput)
	if !s.decodeValid(w, r, in) {
		return
	}

	project := projectFromInput(in)
	project.ID = current.ID
	project.CreatedAt = current.CreatedAt
	if project.Status == "" {
		project.Status = current.Status
	}

	if err := s.projects.UpdateProject(ctx, projectID, project); err != nil {
		s.writeFailure(w, err, "failed to update project")
		return
	}

	s.writeJSON(w, http.StatusOK, project)
}

func (s *Service) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	projectID := flow.Param(ctx, "id")

	err := s.deleteWithDocuments(ctx, types.ProjectDocuments, projectID, func(ctx context.Context) error {
		return s.projects.DeleteProject(ctx, projectID)
	})
	if err != nil {
		s.writeFailure(w, err, "failed to delete project")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// deleteWithDocuments deletes a parent record through its kind's document
// service so the parent's blobs go with it.
func (s *Service) deleteWithDocuments(ctx context.Context, kind types.DocumentKind, parentID string, deleteRows func(ctx context.Context) error) error {
	docs, ok := s.documents.ForRoute(kind.Route)
	if !ok {
		return deleteRows(ctx)
	}
	return docs.DeleteParent(ctx, parentID, deleteRows)
}
