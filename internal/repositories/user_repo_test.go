package repositories

import (
	"context"
	"testing"

	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepo_GetByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepo(mock)
	ctx := context.Background()

	mock.ExpectQuery(`FROM users\s+WHERE email = \$1`).
		WithArgs("user@nextmail.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "email", "password"}).
			AddRow("410544b2-4001-4271-9855-fec4b6a6442a", "User", "user@nextmail.com", "$2a$10$hash"))
	mock.ExpectQuery(`FROM users\s+WHERE email = \$1`).
		WithArgs("ghost@nextmail.com").
		WillReturnError(pgx.ErrNoRows)

	user, err := repo.GetByEmail(ctx, "user@nextmail.com")
	require.NoError(t, err)
	assert.Equal(t, "User", user.Name)
	assert.Equal(t, "$2a$10$hash", user.PasswordHash)

	_, err = repo.GetByEmail(ctx, "ghost@nextmail.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerRepo_ListFields(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, name\s+FROM customers\s+ORDER BY name ASC`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).
			AddRow("c1", "Amy Burns").
			AddRow("c2", "Balazs Orban"))

	customers, err := NewCustomerRepo(mock).ListFields(context.Background())
	require.NoError(t, err)
	assert.Len(t, customers, 2)
	assert.Equal(t, "Amy Burns", customers[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
