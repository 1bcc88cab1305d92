package pgsql

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/SscSPs/nonprofit_ledger/internal/apperrors"
)

func TestTranslateWriteError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"unique", &pgconn.PgError{Code: uniqueViolation}, apperrors.ErrDuplicate},
		{"wrapped unique", fmt.Errorf("batch: %w", &pgconn.PgError{Code: uniqueViolation}), apperrors.ErrDuplicate},
		{"source already posted", &pgconn.PgError{Code: uniqueViolation, ConstraintName: sourceIndex}, apperrors.ErrDuplicate},
		{"foreign key", &pgconn.PgError{Code: foreignKeyViolation}, apperrors.ErrValidation},
		{"check", &pgconn.PgError{Code: checkViolation}, apperrors.ErrValidation},
		{"other", errors.New("connection reset"), apperrors.ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, translateWriteError(tt.err, "insert"), tt.want)
		})
	}
}

func TestTranslateWriteError_NamesPostedSource(t *testing.T) {
	err := translateWriteError(&pgconn.PgError{Code: uniqueViolation, ConstraintName: sourceIndex}, "insert")
	assert.ErrorContains(t, err, "source record already posted")

	err = translateWriteError(&pgconn.PgError{Code: uniqueViolation, ConstraintName: "journal_entries_pkey"}, "insert")
	assert.NotContains(t, err.Error(), "source record")
}

func TestEntityFilter(t *testing.T) {
	assert.Equal(t, "", entityFilter("all"))
	assert.Equal(t, "", entityFilter(""))
	assert.Equal(t, "awakenings", entityFilter("awakenings"))
}
