package catalog_test

import (
	"testing"

	"github.com/hinode/billing-engine/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_EmptyQueryReturnsEverything(t *testing.T) {
	courses := catalog.Default()
	assert.Equal(t, courses, catalog.Search(courses, ""))
}

func TestSearch_MatchesNameOrSchedule(t *testing.T) {
	courses := catalog.Default()

	// Case-insensitive over name
	got := catalog.Search(courses, "JAPANESE")
	require.Len(t, got, 2)
	assert.Equal(t, "N5 Japanese", got[0].Name)
	assert.Equal(t, "N4 Japanese", got[1].Name)

	// Schedule text is searchable too
	got = catalog.Search(courses, "one time")
	require.Len(t, got, 1)
	assert.Equal(t, "Admission Fee", got[0].Name)

	assert.Empty(t, catalog.Search(courses, "piano"))
}
