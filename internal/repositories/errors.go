package repositories

import (
	"errors"
	"fmt"
	"strings"

	"warbler/internal/models"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrIntegrity is returned when a write violates a uniqueness or presence constraint.
	ErrIntegrity = errors.New("integrity constraint violated")
	// ErrDataConstraint is returned when a value does not fit its column.
	ErrDataConstraint = errors.New("data constraint violated")
)

// classify maps driver errors onto the repository sentinels. The original
// error stays in the chain.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %w", ErrIntegrity, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505", "23502", "23503": // unique, not null, foreign key
			return fmt.Errorf("%w: %w", ErrIntegrity, err)
		case "23514": // check
			if pgErr.ConstraintName == models.MessageTextCheck {
				return fmt.Errorf("%w: %w", ErrDataConstraint, err)
			}
			return fmt.Errorf("%w: %w", ErrIntegrity, err)
		case "22001": // string_data_right_truncation
			return fmt.Errorf("%w: %w", ErrDataConstraint, err)
		}
		return err
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey,
			sqlite3.ErrConstraintNotNull, sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("%w: %w", ErrIntegrity, err)
		case sqlite3.ErrConstraintCheck:
			if strings.Contains(liteErr.Error(), models.MessageTextCheck) {
				return fmt.Errorf("%w: %w", ErrDataConstraint, err)
			}
			return fmt.Errorf("%w: %w", ErrIntegrity, err)
		}
		return err
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1062, 1048, 1452: // duplicate entry, column cannot be null, foreign key
			return fmt.Errorf("%w: %w", ErrIntegrity, err)
		case 3819: // check constraint
			if strings.Contains(myErr.Message, models.MessageTextCheck) {
				return fmt.Errorf("%w: %w", ErrDataConstraint, err)
			}
			return fmt.Errorf("%w: %w", ErrIntegrity, err)
		case 1406: // data too long
			return fmt.Errorf("%w: %w", ErrDataConstraint, err)
		}
	}
	return err
}
