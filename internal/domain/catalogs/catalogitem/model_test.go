package catalogitem

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airsolutions/internal/core/apperror"
	"airsolutions/internal/core/types"
)

func TestCatalogItem_Validate(t *testing.T) {
	tests := []struct {
		name string
		item CatalogItem
		want []string
	}{
		{name: "valid product", item: CatalogItem{Name: "Gas R410", ItemType: TypeProduct}},
		{name: "valid service", item: CatalogItem{Name: "Mantenimiento", ItemType: TypeService, Nivel: types.StringPtr("Basico")}},
		{name: "missing everything", item: CatalogItem{}, want: []string{"name is required", "itemType is required"}},
		{name: "bad type", item: CatalogItem{Name: "x", ItemType: "Labor"}, want: []string{"itemType must be 'Service', 'Product', 'Material' or 'Other'"}},
		{name: "service without nivel", item: CatalogItem{Name: "x", ItemType: TypeService}, want: []string{"nivel is required when itemType is Service"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate(context.Background())
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, tt.want, appErr.Messages())
		})
	}
}

func TestCatalogItem_SearchText(t *testing.T) {
	item := CatalogItem{Name: "Instalacion Split", Description: types.StringPtr("Incluye Rejillas")}
	assert.Equal(t, "instalacion split incluye rejillas", item.SearchText())

	item.Description = nil
	assert.Equal(t, "instalacion split ", item.SearchText())
}
