package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type MockBase struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	Version   int        `db:"version" json:"version"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt *time.Time `db:"updated_at" json:"updated_at"`
}

type MockProduct struct {
	MockBase
	Code     string `db:"code" json:"code"`
	Name     string `db:"name" json:"name"`
	internal string // no db tag, must be skipped
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[MockProduct]()

	expectedCols := []string{"id", "version", "created_at", "updated_at", "code", "name"}

	for _, expected := range expectedCols {
		assert.Contains(t, cols, expected)
	}
	assert.Len(t, cols, len(expectedCols))
}

func TestStructToMap(t *testing.T) {
	now := time.Now().UTC()
	p := MockProduct{
		MockBase: MockBase{
			ID:        uuid.New(),
			Version:   5,
			CreatedAt: now,
			UpdatedAt: &now,
		},
		Code:     "PRD-001",
		Name:     "Test Product",
		internal: "hidden",
	}

	m := StructToMap(p)

	assert.Equal(t, p.ID, m["id"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, now, m["created_at"])
	assert.Equal(t, &now, m["updated_at"])
	assert.Equal(t, "PRD-001", m["code"])
	assert.Equal(t, "Test Product", m["name"])
	assert.NotContains(t, m, "internal")
}

func TestStructToMap_Pointer(t *testing.T) {
	p := &MockProduct{Code: "PRD-002", Name: "Pointer Product"}

	m := StructToMap(p)

	assert.Equal(t, "PRD-002", m["code"])
	assert.Equal(t, "Pointer Product", m["name"])
}

func TestStructToMap_NonStruct(t *testing.T) {
	assert.Nil(t, StructToMap(42))
	assert.Nil(t, StructToMap("string"))
}
