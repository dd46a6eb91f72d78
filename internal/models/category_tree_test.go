package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func category(t *testing.T, id int64, name string, parent int64) *Category {
	t.Helper()
	c, err := NewCategory(name, "cat-"+name)
	require.NoError(t, err)
	c.SetID(id)
	if parent != 0 {
		require.NoError(t, c.SetParentID(&parent))
	}
	return c
}

func names(categories []*Category) []string {
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		out = append(out, c.Name())
	}
	return out
}

func TestCategoryTreeNestsAllLevels(t *testing.T) {
	tree := NewCategoryTree([]*Category{
		category(t, 1, "a", 0),
		category(t, 2, "b", 1),
		category(t, 3, "c", 2),
	})

	assert.Equal(t, []string{"a"}, names(tree.Roots()))
	assert.Equal(t, []string{"b"}, names(tree.Children(1)))
	assert.Equal(t, []string{"c"}, names(tree.Children(2)))
	assert.Empty(t, tree.Children(3))
	assert.Equal(t, "a > b > c", tree.Path(3))
	assert.Equal(t, 3, tree.Len())
}

func TestCategoryTreeKeepsScanOrder(t *testing.T) {
	tree := NewCategoryTree([]*Category{
		category(t, 5, "women", 0),
		category(t, 1, "men", 0),
		category(t, 9, "dresses", 5),
		category(t, 7, "tops", 5),
	})

	assert.Equal(t, []string{"women", "men"}, names(tree.Roots()))
	assert.Equal(t, []string{"dresses", "tops"}, names(tree.Children(5)))
}

func TestCategoryTreeDropsOrphans(t *testing.T) {
	tree := NewCategoryTree([]*Category{
		category(t, 1, "root", 0),
		category(t, 2, "orphan", 42),
		category(t, 3, "under-orphan", 2),
	})

	assert.Equal(t, []string{"root"}, names(tree.Roots()))
	assert.Nil(t, tree.Get(2))
	assert.Nil(t, tree.Get(3))
	assert.Empty(t, tree.Children(2))
	assert.Equal(t, "", tree.Path(3))
	assert.Equal(t, 1, tree.Len())
}
