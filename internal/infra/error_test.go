//go:build unit

package infra_test

import (
	"errors"
	"testing"

	"tour-booking/internal/infra"
	"tour-booking/internal/pkg/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestWrapRepoErr(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		kind     []infra.RepositoryErrorKind
		want     infra.RepositoryErrorKind
		notFound bool
	}{
		{name: "no rows", err: pgx.ErrNoRows, want: infra.KindNotFound, notFound: true},
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}, want: infra.KindDuplicateKey},
		{name: "foreign key violation", err: &pgconn.PgError{Code: "23503"}, want: infra.KindForeignKeyViolated},
		{name: "check violation", err: &pgconn.PgError{Code: "23514"}, want: infra.KindCheckViolated},
		{name: "anything else", err: errors.New("connection reset"), want: infra.KindDBFailure},
		{name: "explicit kind wins", err: nil, kind: []infra.RepositoryErrorKind{infra.KindNotFound}, want: infra.KindNotFound, notFound: true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := errs.Wrap(infra.WrapRepoErr("load booking", c.err, c.kind...), "outer")
			assert.True(t, infra.IsKind(err, c.want))
			assert.Equal(t, c.notFound, errs.Is(err, errs.ErrNotFound))
		})
	}
}
