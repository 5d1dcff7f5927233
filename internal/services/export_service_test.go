package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"testpark-console/pkg/constants"
	apperrors "testpark-console/pkg/errors"
	"testpark-console/pkg/types"
)

func TestExportOrders_WritesFilteredRows(t *testing.T) {
	f := newFixture(t)
	seedOrders(f)

	var buf bytes.Buffer
	n, err := NewExportService(f.base).ExportOrders(context.Background(), f.staff,
		types.Filter{Filter: map[string]string{"recent_status": constants.StatusCompleted}}, &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	book, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "번호", rows[0][0])
	assert.Equal(t, "3", rows[1][0])
	assert.Equal(t, constants.StatusCompleted, rows[1][2])
}

func TestExportOrders_RequiresExportCapability(t *testing.T) {
	f := newFixture(t)
	viewer := principalWith(f.srv, "orders:view")

	var buf bytes.Buffer
	_, err := NewExportService(f.base).ExportOrders(context.Background(), viewer, types.Filter{}, &buf)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Zero(t, buf.Len())
}
