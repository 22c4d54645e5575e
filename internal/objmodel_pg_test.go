package internal

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelLoader_Load(t *testing.T) {
	ctx := context.Background()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	base := "ID"
	rows := pgxmock.NewRows([]string{"type_name", "base_type", "attr_name", "attr_type", "attr_kind"}).
		AddRow("Camera", &base, ptr("lens"), ptr("float"), ptr(kindScalar)).
		AddRow("ID", nil, ptr("name"), ptr("string"), ptr(kindScalar)).
		AddRow("RootData", nil, ptr("cameras"), ptr("Camera"), ptr(kindCollection)).
		AddRow("RootData", nil, ptr("scenes"), ptr("Scene"), ptr(kindCollection)).
		AddRow("Scene", &base, nil, nil, nil)
	mock.ExpectQuery(`SELECT type_name, base_type, attr_name, attr_type, attr_kind FROM object_model`).
		WillReturnRows(rows)

	loader := NewModelLoader(mock, "object_model", "RootData")
	model, err := loader.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, "RootData", model.Root().Name())
	assert.Equal(t, []string{"cameras", "scenes"}, model.TopLevelCollectionNames())

	scene, ok := model.TypeByName("Scene")
	require.True(t, ok)
	assert.Empty(t, model.DeclaredAttributes(scene))
	sceneBase, ok := model.BaseType(scene)
	require.True(t, ok)
	assert.Equal(t, "ID", sceneBase.Name())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestModelLoader_QueryError(t *testing.T) {
	ctx := context.Background()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT type_name, base_type, attr_name, attr_type, attr_kind FROM object_model`).
		WillReturnError(errors.New("db error"))

	loader := NewModelLoader(mock, "object_model", "RootData")
	_, err = loader.Load(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to query object model table")
	assert.Contains(t, err.Error(), "db error")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestModelLoader_EmptyTable(t *testing.T) {
	ctx := context.Background()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"type_name", "base_type", "attr_name", "attr_type", "attr_kind"})
	mock.ExpectQuery(`SELECT type_name, base_type, attr_name, attr_type, attr_kind FROM empty`).
		WillReturnRows(rows)

	loader := NewModelLoader(mock, "empty", "RootData")
	_, err = loader.Load(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no type declarations found")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestModelLoader_IncompleteAttributeRow(t *testing.T) {
	ctx := context.Background()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"type_name", "base_type", "attr_name", "attr_type", "attr_kind"}).
		AddRow("ID", nil, ptr("name"), nil, nil)
	mock.ExpectQuery(`SELECT type_name, base_type, attr_name, attr_type, attr_kind FROM object_model`).
		WillReturnRows(rows)

	loader := NewModelLoader(mock, "object_model", "RootData")
	_, err = loader.Load(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "attribute row missing type or kind")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestModelLoader_InvalidModel(t *testing.T) {
	ctx := context.Background()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	missing := "Datablock"
	rows := pgxmock.NewRows([]string{"type_name", "base_type", "attr_name", "attr_type", "attr_kind"}).
		AddRow("RootData", &missing, nil, nil, nil)
	mock.ExpectQuery(`SELECT type_name, base_type, attr_name, attr_type, attr_kind FROM object_model`).
		WillReturnRows(rows)

	loader := NewModelLoader(mock, "object_model", "RootData")
	_, err = loader.Load(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown base type")

	require.NoError(t, mock.ExpectationsWereMet())
}

func ptr(s string) *string { return &s }
