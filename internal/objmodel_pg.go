package internal

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/OpenWRLD/mixer"
)

// modelPool is the subset of pgxpool.Pool the loader needs; pgxmock
// satisfies it in tests.
type modelPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// ModelLoader loads a host object-model definition from a database table.
//
// The table holds one row per attribute declaration plus one row with NULL
// attribute columns for every type that declares no attributes:
//
//	type_name  text NOT NULL
//	base_type  text NULL
//	attr_name  text NULL
//	attr_type  text NULL
//	attr_kind  text NULL  -- scalar | pointer | collection
//	position   int  NOT NULL
type ModelLoader struct {
	pool      modelPool
	tableName string
	rootType  string
}

// NewModelLoader creates a loader reading from tableName; rootType names
// the distinguished root type of the loaded model.
func NewModelLoader(pool modelPool, tableName, rootType string) *ModelLoader {
	return &ModelLoader{
		pool:      pool,
		tableName: tableName,
		rootType:  rootType,
	}
}

// Load reads every declaration row and builds the immutable model.
// Attribute order within a type follows the position column, which must
// reflect the host's declaration order.
func (l *ModelLoader) Load(ctx context.Context) (*Model, error) {
	query := fmt.Sprintf(
		"SELECT type_name, base_type, attr_name, attr_type, attr_kind FROM %s ORDER BY type_name, position",
		l.tableName,
	)

	rows, err := l.pool.Query(ctx, query)
	if err != nil {
		return nil, mixer.NewModelUnavailableError("failed to query object model table").
			WithDetail("table", l.tableName).WithCause(err)
	}
	defer rows.Close()

	docs := make(map[string]*TypeDocument)
	var order []string

	for rows.Next() {
		var typeName string
		var baseType, attrName, attrType, attrKind *string
		if err := rows.Scan(&typeName, &baseType, &attrName, &attrType, &attrKind); err != nil {
			return nil, mixer.NewModelUnavailableError("failed to scan object model row").WithCause(err)
		}

		doc, exists := docs[typeName]
		if !exists {
			doc = &TypeDocument{Name: typeName}
			if baseType != nil {
				doc.Base = *baseType
			}
			docs[typeName] = doc
			order = append(order, typeName)
		}

		if attrName == nil {
			continue
		}
		if attrType == nil || attrKind == nil {
			return nil, mixer.NewModelInvalidError("attribute row missing type or kind").
				WithTypeName(typeName).WithAttribute(*attrName)
		}
		doc.Attributes = append(doc.Attributes, AttributeDocument{
			Name: *attrName,
			Type: *attrType,
			Kind: *attrKind,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, mixer.NewModelUnavailableError("error iterating object model rows").WithCause(err)
	}

	if len(order) == 0 {
		return nil, mixer.NewModelUnavailableError("no type declarations found").WithDetail("table", l.tableName)
	}

	doc := ObjectModelDocument{
		Name: l.tableName,
		Root: l.rootType,
	}
	for _, typeName := range order {
		doc.Types = append(doc.Types, *docs[typeName])
	}

	model, err := NewModel(doc)
	if err != nil {
		return nil, err
	}
	zap.S().Infow("loaded object model from database",
		"table", l.tableName, "types", len(doc.Types), "root", l.rootType)
	return model, nil
}
