package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"go.mongodb.org/mongo-driver/mongo"
)

// CreateAttempts bounds how often a repository retries an insert whose
// max+1 id was taken by a concurrent create.
const CreateAttempts = 3

const uniqueViolation = "23505"

// IsUniqueViolation reports a duplicate key from Postgres (pgx or lib/pq)
// or Mongo.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return mongo.IsDuplicateKeyError(err)
}
