package store

import (
	"construtora/internal/utils"
	"construtora/pkg/types"
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const projectTableName = "projects"

var projectColumns = utils.StructTagValues(types.Project{})

// Financial entries and allocated resources outlive a project; they only lose
// the reference.
var projectDependents = append(ownedBy(types.ProjectDocuments),
	dependent{table: "invoices", column: "project_id", nullify: true},
	dependent{table: "accounts_payable", column: "project_id", nullify: true},
	dependent{table: "equipment_rentals", column: "project_id", nullify: true},
	dependent{table: "budgets", column: "project_id", nullify: true},
	dependent{table: "employees", column: "project_id", nullify: true},
	dependent{table: "vehicles", column: "project_id", nullify: true},
	dependent{table: "accommodations", column: "project_id", nullify: true},
)

type ProjectRepository struct {
	pool *pgxpool.Pool
}

func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

func (r *ProjectRepository) Project(ctx context.Context, projectID string) (*types.Project, error) {
	query, args, err := psql().Select(projectColumns...).From(projectTableName).
		Where(sq.Eq{"id": projectID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate project query: %w", err)
	}

	var project = new(types.Project)
	err = pgxscan.Get(ctx, r.pool, project, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to fetch project: %w", err)
	}

	return project, nil
}

func (r *ProjectRepository) Projects(ctx context.Context, status types.ProjectStatus) ([]*types.Project, error) {
	builder := psql().Select(projectColumns...).From(projectTableName).OrderBy("name ASC")
	if status != "" {
		builder = builder.Where(sq.Eq{"status": status})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate projects query: %w", err)
	}

	projects := make([]*types.Project, 0)
	err = pgxscan.Select(ctx, r.pool, &projects, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch projects: %w", err)
	}

	return projects, nil
}

func (r *ProjectRepository) CreateProject(ctx context.Context, project *types.Project) error {
	now := time.Now()
	project.ID = utils.NanoID()
	project.CreatedAt = now
	project.UpdatedAt = now
	if project.Status == "" {
		project.Status = types.ProjectStatusPlanning
	}

	query, args, err := psql().Insert(projectTableName).SetMap(utils.StructToMap(project)).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert project query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create project")
}

func (r *ProjectRepository) UpdateProject(ctx context.Context, projectID string, project *types.Project) error {
	project.ID = projectID
	project.UpdatedAt = time.Now()

	projectMap := utils.StructToMap(project)
	delete(projectMap, "created_at")

	query, args, err := psql().Update(projectTableName).SetMap(projectMap).Where(sq.Eq{"id": projectID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update project query for project %s: %w", projectID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrProjectNotFound
	}

	return nil
}

// DeleteProject removes the project with its documents and history and
// detaches everything else that pointed at it.
func (r *ProjectRepository) DeleteProject(ctx context.Context, projectID string) error {
	return deleteCascade(ctx, r.pool, projectTableName, projectID, projectDependents, types.ErrProjectNotFound)
}
