package assistant

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
)

// ProjectProgress one managed project with task completion
type ProjectProgress struct {
	Title     string
	Completed int
	Total     int
}

// Percent 0 when the project has no tasks
func (p ProjectProgress) Percent() int {
	if p.Total == 0 {
		return 0
	}
	return p.Completed * 100 / p.Total
}

// PendingTask task assigned to the user that is not completed
type PendingTask struct {
	Title   string
	DueDate *time.Time
}

// WorkloadSource project / task data owned by the project-management side
type WorkloadSource interface {
	ManagedProjects(ctx context.Context, managerID uint) ([]ProjectProgress, error)
	PendingTasks(ctx context.Context, userID uint) ([]PendingTask, error)
}

type pgWorkloadSource struct {
	db *pgxpool.Pool
}

// NewPGWorkloadSource read projects, tasks and assignments from the shared database
func NewPGWorkloadSource(db *pgxpool.Pool) WorkloadSource {
	return &pgWorkloadSource{db: db}
}

// status 欄位是 enum, 以 lower(status::text) 比較
func (s *pgWorkloadSource) ManagedProjects(ctx context.Context, managerID uint) ([]ProjectProgress, error) {
	rows, err := s.db.Query(ctx, `
		SELECT p.title,
		       COUNT(t.id) FILTER (WHERE lower(t.status::text) = 'completed') AS completed,
		       COUNT(t.id) AS total
		FROM projects p
		LEFT JOIN tasks t ON t.project_id = p.id
		WHERE p.manager_id = $1
		GROUP BY p.id, p.title
		ORDER BY p.id`, int64(managerID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ProjectProgress
	for rows.Next() {
		var (
			p                ProjectProgress
			completed, total int64
		)
		if err := rows.Scan(&p.Title, &completed, &total); err != nil {
			return nil, err
		}
		p.Completed, p.Total = int(completed), int(total)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *pgWorkloadSource) PendingTasks(ctx context.Context, userID uint) ([]PendingTask, error) {
	rows, err := s.db.Query(ctx, `
		SELECT DISTINCT t.id, t.title, t.due_date
		FROM tasks t
		JOIN assignments a ON a.task_id = t.id
		WHERE a.user_id = $1 AND lower(t.status::text) <> 'completed'
		ORDER BY t.id`, int64(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PendingTask
	for rows.Next() {
		var (
			id  int64
			t   PendingTask
			due *time.Time
		)
		if err := rows.Scan(&id, &t.Title, &due); err != nil {
			return nil, err
		}
		t.DueDate = due
		out = append(out, t)
	}
	return out, rows.Err()
}
