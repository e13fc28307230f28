package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	require.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	require.True(t, IsUniqueViolation(fmt.Errorf("insert category: %w", &pq.Error{Code: "23505"})))
	require.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
	require.False(t, IsUniqueViolation(errors.New("duplicate")))
}
