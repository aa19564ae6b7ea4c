package postgres

import (
	"context"
	"errors"

	"coursemarket/internal/models"
	"coursemarket/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type usersRepo struct{ pool *pgxpool.Pool }

const userCols = `id, username, bio, skills, enrolled_course_ids, purchased_course_ids, created_at, updated_at`

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Bio, &u.Skills,
		&u.EnrolledCourseIDs, &u.PurchasedCourseIDs, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, repository.ErrNotFound
	}
	return u, err
}

func (r *usersRepo) Create(ctx context.Context, u models.User) (models.User, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO users(id, username, bio, skills, enrolled_course_ids, purchased_course_ids)
		 VALUES($1,$2,$3,$4,$5,$6)
		 RETURNING `+userCols,
		u.ID, u.Username, u.Bio, u.Skills, u.EnrolledCourseIDs, u.PurchasedCourseIDs,
	)
	created, err := scanUser(row)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return models.User{}, repository.ErrConflict
	}
	return created, err
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (models.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE id=$1`, id))
}

// AddPurchasedCourse is the commit point of a purchase grant. The containment
// predicate rejects duplicates even if two attempts for the same pair raced
// past the eligibility check.
func (r *usersRepo) AddPurchasedCourse(ctx context.Context, userID, courseID string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users
		    SET purchased_course_ids = array_append(purchased_course_ids, $2),
		        updated_at = now()
		  WHERE id = $1 AND NOT purchased_course_ids @> ARRAY[$2]::text[]`,
		userID, courseID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
