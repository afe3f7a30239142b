package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSelect(t *testing.T) {
	q := From(TablePlaybooks).
		Select("id", "slug").
		Where(Eq("status", "published"), Neq("id", int64(7)), In("category_id", []int64{1, 2})).
		OrderBy(Desc("published_at").NullsLast(), Asc("id")).
		Take(20).
		Skip(40)

	query, args, err := buildSelect(q)
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT id, slug FROM playbooks WHERE status = $1 AND id <> $2 AND category_id IN ($3, $4) ORDER BY published_at DESC NULLS LAST, id ASC LIMIT 20 OFFSET 40",
		query)
	assert.Equal(t, []any{"published", int64(7), int64(1), int64(2)}, args)
}

func TestBuildSelectDefaults(t *testing.T) {
	query, args, err := buildSelect(From(TableTags))
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM tags", query)
	assert.Empty(t, args)
}

func TestBuildSelectEmptyIn(t *testing.T) {
	query, args, err := buildSelect(From(TablePlaybookTags).Where(In("playbook_id", []int64{})))
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM playbook_tags WHERE FALSE", query)
	assert.Empty(t, args)
}

func TestBuildSelectRejectsBadInput(t *testing.T) {
	_, _, err := buildSelect(From("playbooks; drop table x"))
	assert.Error(t, err)

	_, _, err = buildSelect(From(TablePlaybooks).Where(In("id", 5)))
	assert.Error(t, err)

	_, _, err = buildSelect(From(TablePlaybooks).OrderBy(Asc("1=1")))
	assert.Error(t, err)
}

func TestBuildILikeExactEscapes(t *testing.T) {
	query, args, err := buildSelect(From(TableCategories).Where(ILikeExact("name", "100%_done")))
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM playbook_categories WHERE name ILIKE $1", query)
	assert.Equal(t, []any{`100\%\_done`}, args)
}

func TestBuildInsert(t *testing.T) {
	query, args, err := buildInsert(TableTags, []Values{{"slug": "ai", "label": "AI"}}, "id")
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO tags (label, slug) VALUES ($1, $2) RETURNING id", query)
	assert.Equal(t, []any{"AI", "ai"}, args)

	query, args, err = buildInsert(TablePlaybookTags, []Values{
		{"playbook_id": int64(1), "tag_id": int64(2)},
		{"playbook_id": int64(1), "tag_id": int64(3)},
	}, "")
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO playbook_tags (playbook_id, tag_id) VALUES ($1, $2), ($3, $4)", query)
	assert.Len(t, args, 4)

	_, _, err = buildInsert(TablePlaybookTags, []Values{
		{"playbook_id": int64(1), "tag_id": int64(2)},
		{"playbook_id": int64(1)},
	}, "")
	assert.Error(t, err)
}

func TestBuildUpdateAndDeleteNeedFilters(t *testing.T) {
	_, _, err := buildUpdate(TablePlaybooks, Values{"category_id": nil}, nil)
	assert.Error(t, err)
	_, _, err = buildDelete(TableTags, nil)
	assert.Error(t, err)

	query, args, err := buildUpdate(TablePlaybooks, Values{"category_id": nil}, []Filter{Eq("category_id", int64(5))})
	require.NoError(t, err)
	assert.Equal(t, "UPDATE playbooks SET category_id = $1 WHERE category_id = $2", query)
	assert.Equal(t, []any{nil, int64(5)}, args)

	query, args, err = buildDelete(TablePlaybookTags, []Filter{Eq("tag_id", int64(3))})
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM playbook_tags WHERE tag_id = $1", query)
	assert.Equal(t, []any{int64(3)}, args)
}
