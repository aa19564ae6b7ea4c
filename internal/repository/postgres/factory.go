package postgres

import (
	repo "coursemarket/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Repositories struct {
	Courses      repo.Courses
	Users        repo.Users
	Transactions repo.Transactions
	AuditLogs    repo.AuditLogs
}

func NewRepositories(pool *pgxpool.Pool, rdb *redis.Client) Repositories {
	return Repositories{
		Courses:      &coursesRepo{pool: pool, rdb: rdb},
		Users:        &usersRepo{pool},
		Transactions: &transactionsRepo{pool},
		AuditLogs:    &auditLogsRepo{pool},
	}
}
