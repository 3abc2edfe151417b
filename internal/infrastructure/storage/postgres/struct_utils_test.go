package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"airsolutions/internal/core/entity"
	"airsolutions/internal/core/id"
)

type sampleDoc struct {
	entity.BaseDocument
	Name    string   `db:"name"`
	Lines   []string `db:"-"`
	Comment *string  `db:"comment"`
	scratch int
}

func TestExtractDBColumns_Embedded(t *testing.T) {
	cols := ExtractDBColumns[sampleDoc]()

	assert.Equal(t, []string{
		"id", "created_at", "updated_at", "created_by", "updated_by", "name", "comment",
	}, cols)
}

func TestStructToMap(t *testing.T) {
	now := time.Now().UTC()
	doc := sampleDoc{
		BaseDocument: entity.BaseDocument{
			BaseEntity: entity.BaseEntity{ID: id.New(), CreatedAt: now},
			CreatedBy:  "cristhian",
		},
		Name:    "Quote",
		Lines:   []string{"ignored"},
		scratch: 3,
	}

	m := StructToMap(&doc)

	assert.Equal(t, doc.ID, m["id"])
	assert.Equal(t, now, m["created_at"])
	assert.Equal(t, "cristhian", m["created_by"])
	assert.Equal(t, "Quote", m["name"])
	assert.Nil(t, m["comment"])
	assert.NotContains(t, m, "lines")
	assert.Len(t, m, 7)
}

func TestStructToMapExcept(t *testing.T) {
	doc := sampleDoc{Name: "x"}
	m := StructToMapExcept(doc, "id", "created_at", "created_by")

	assert.NotContains(t, m, "id")
	assert.NotContains(t, m, "created_at")
	assert.NotContains(t, m, "created_by")
	assert.Contains(t, m, "name")
}
