package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"coursemarket/internal/models"
	"coursemarket/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	courseDetailTTL = 1 * time.Hour
	courseListTTL   = 10 * time.Minute
	courseListKey   = "courses:list"
)

type coursesRepo struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
}

const courseCols = `id, title, description, instructor, duration_seconds, skill_level, prerequisites, price, students, created_at, updated_at`

func scanCourse(row pgx.Row) (models.Course, error) {
	var c models.Course
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Instructor, &c.Duration,
		&c.SkillLevel, &c.Prerequisites, &c.Price, &c.Students, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Course{}, repository.ErrNotFound
	}
	return c, err
}

func (r *coursesRepo) Create(ctx context.Context, c models.Course) (models.Course, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	row := r.pool.QueryRow(ctx,
		`INSERT INTO courses(id, title, description, instructor, duration_seconds, skill_level, prerequisites, price, students)
		 VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9)
		 RETURNING `+courseCols,
		c.ID, c.Title, c.Description, c.Instructor, c.Duration, c.SkillLevel, c.Prerequisites, c.Price, c.Students,
	)
	created, err := scanCourse(row)
	if err == nil {
		r.rdb.Del(ctx, courseListKey)
	}
	return created, err
}

func (r *coursesRepo) GetByID(ctx context.Context, id string) (models.Course, error) {
	key := "course:detail:" + id

	if val, err := r.rdb.Get(ctx, key).Result(); err == nil {
		var c models.Course
		if json.Unmarshal([]byte(val), &c) == nil {
			return c, nil
		}
	}

	c, err := scanCourse(r.pool.QueryRow(ctx,
		`SELECT `+courseCols+` FROM courses WHERE id=$1`, id))
	if err != nil {
		return models.Course{}, err
	}

	if data, err := json.Marshal(c); err == nil {
		r.rdb.Set(ctx, key, data, courseDetailTTL)
	}
	return c, nil
}

func (r *coursesRepo) List(ctx context.Context) ([]models.Course, error) {
	if val, err := r.rdb.Get(ctx, courseListKey).Result(); err == nil {
		var out []models.Course
		if json.Unmarshal([]byte(val), &out) == nil {
			return out, nil
		}
	}

	out, err := r.query(ctx, `SELECT `+courseCols+` FROM courses ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(out); err == nil {
		r.rdb.Set(ctx, courseListKey, data, courseListTTL)
	}
	return out, nil
}

func (r *coursesRepo) ListByInstructor(ctx context.Context, instructor string) ([]models.Course, error) {
	return r.query(ctx,
		`SELECT `+courseCols+` FROM courses WHERE instructor=$1 ORDER BY created_at DESC`, instructor)
}

func (r *coursesRepo) ListByStudent(ctx context.Context, student string) ([]models.Course, error) {
	return r.query(ctx,
		`SELECT `+courseCols+` FROM courses WHERE students @> ARRAY[$1]::text[] ORDER BY created_at DESC`, student)
}

// AddStudent appends only when absent; the predicate makes concurrent
// duplicate enrollments impossible at the row level.
func (r *coursesRepo) AddStudent(ctx context.Context, courseID, student string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE courses
		    SET students = array_append(students, $2), updated_at = now()
		  WHERE id = $1 AND NOT students @> ARRAY[$2]::text[]`,
		courseID, student,
	)
	if err != nil {
		return false, err
	}
	r.invalidateDetail(ctx, courseID)
	return tag.RowsAffected() > 0, nil
}

func (r *coursesRepo) RemoveStudent(ctx context.Context, courseID, student string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE courses
		    SET students = array_remove(students, $2), updated_at = now()
		  WHERE id = $1 AND students @> ARRAY[$2]::text[]`,
		courseID, student,
	)
	if err != nil {
		return false, err
	}
	r.invalidateDetail(ctx, courseID)
	return tag.RowsAffected() > 0, nil
}

func (r *coursesRepo) invalidateDetail(ctx context.Context, courseID string) {
	r.rdb.Del(ctx, "course:detail:"+courseID)
}

func (r *coursesRepo) query(ctx context.Context, sql string, args ...any) ([]models.Course, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
