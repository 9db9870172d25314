package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/mongo"
)

const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a PostgreSQL unique_violation
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique violation error
// for a specific constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == constraintName
}

// IsNoRows reports whether a single-row query found nothing
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsMongoDuplicateKey reports whether a MongoDB write hit a unique index
func IsMongoDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

// IsMongoNoDocuments reports whether a MongoDB FindOne matched nothing
func IsMongoNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
