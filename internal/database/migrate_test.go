package database

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func parseModel(t *testing.T, model interface{}) *schema.Schema {
	t.Helper()
	s, err := schema.Parse(model, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)
	return s
}

func primaryKeyColumns(s *schema.Schema) []string {
	cols := make([]string, 0, len(s.PrimaryFields))
	for _, f := range s.PrimaryFields {
		cols = append(cols, f.DBName)
	}
	return cols
}

func TestSchemaTableNames(t *testing.T) {
	var names []string
	for _, m := range schemaModels() {
		names = append(names, parseModel(t, m).Table)
	}
	assert.Equal(t, []string{
		"item_types", "sizes", "item_type_sizes", "items", "item_availability",
		"roles", "permissions", "role_permissions", "users",
		"orders", "order_lines", "locations",
	}, names)
}

func TestAssociationTablesUseCompositeKeys(t *testing.T) {
	assert.ElementsMatch(t, []string{"item_type_id", "size_id"}, primaryKeyColumns(parseModel(t, &itemTypeSizeRow{})))
	assert.ElementsMatch(t, []string{"role_id", "permission_id"}, primaryKeyColumns(parseModel(t, &rolePermissionRow{})))
}

func TestOrderLinesHaveNoCatalogForeignKeys(t *testing.T) {
	s := parseModel(t, &orderLineRow{})
	for _, rel := range s.Relationships.Relations {
		assert.Equal(t, "orders", rel.FieldSchema.Table)
	}
	assert.NotNil(t, s.LookUpField("item_id"))
	assert.NotNil(t, s.LookUpField("size_id"))
	assert.NotNil(t, s.LookUpField("price_at_time_of_order"))
}

func TestItemAvailabilityUniquePerItemAndSize(t *testing.T) {
	s := parseModel(t, &itemAvailabilityRow{})
	indexes := s.ParseIndexes()
	idx, ok := indexes["idx_item_availability_item_size"]
	require.True(t, ok)
	assert.Equal(t, "UNIQUE", idx.Class)
	assert.Len(t, idx.Fields, 2)
}
