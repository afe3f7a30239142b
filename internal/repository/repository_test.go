package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"picks-site-backend-go/internal/models"
	"picks-site-backend-go/internal/store"
)

type call struct {
	op      string
	table   string
	query   store.Query
	values  store.Values
	rows    []store.Values
	filters []store.Filter
}

// recordingStore captures what the repositories ask of the store.
type recordingStore struct {
	calls    []call
	affected int64
	nextID   int64
	err      error
}

func (s *recordingStore) Select(_ context.Context, _ any, q store.Query) error {
	s.calls = append(s.calls, call{op: "select", table: q.Table, query: q})
	return s.err
}

func (s *recordingStore) Get(_ context.Context, _ any, q store.Query) error {
	s.calls = append(s.calls, call{op: "get", table: q.Table, query: q})
	return s.err
}

func (s *recordingStore) Insert(_ context.Context, table string, values store.Values) (int64, error) {
	s.calls = append(s.calls, call{op: "insert", table: table, values: values})
	return s.nextID, s.err
}

func (s *recordingStore) InsertMany(_ context.Context, table string, rows []store.Values) error {
	s.calls = append(s.calls, call{op: "insertMany", table: table, rows: rows})
	return s.err
}

func (s *recordingStore) Update(_ context.Context, table string, values store.Values, filters ...store.Filter) (int64, error) {
	s.calls = append(s.calls, call{op: "update", table: table, values: values, filters: filters})
	return s.affected, s.err
}

func (s *recordingStore) Delete(_ context.Context, table string, filters ...store.Filter) (int64, error) {
	s.calls = append(s.calls, call{op: "delete", table: table, filters: filters})
	return s.affected, s.err
}

func TestCommentRepo_ListApproved(t *testing.T) {
	st := &recordingStore{}
	_, err := NewCommentRepo(st).ListApproved(context.Background(), 42)
	require.NoError(t, err)

	require.Len(t, st.calls, 1)
	q := st.calls[0].query
	assert.Equal(t, store.TableComments, q.Table)
	assert.Equal(t, []store.Filter{
		store.Eq("playbook_id", int64(42)),
		store.Eq("status", models.CommentApproved),
	}, q.Filters)
	assert.Equal(t, store.Asc("created_at"), q.Orders[0])
}

func TestCommentRepo_SetStatusGuardsCurrentStatus(t *testing.T) {
	st := &recordingStore{affected: 0}
	changed, err := NewCommentRepo(st).SetStatus(context.Background(), 7, models.CommentPending, models.CommentApproved)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Contains(t, st.calls[0].filters, store.Eq("status", models.CommentPending))
	assert.Equal(t, store.Values{"status": models.CommentApproved}, st.calls[0].values)
}

func TestPlaybookRepo_ReplaceTagsDeletesThenInserts(t *testing.T) {
	st := &recordingStore{}
	err := NewPlaybookRepo(st).ReplaceTags(context.Background(), 3, []int64{10, 11})
	require.NoError(t, err)

	require.Len(t, st.calls, 2)
	assert.Equal(t, "delete", st.calls[0].op)
	assert.Equal(t, []store.Filter{store.Eq("playbook_id", int64(3))}, st.calls[0].filters)
	assert.Equal(t, "insertMany", st.calls[1].op)
	assert.Equal(t, []store.Values{
		{"playbook_id": int64(3), "tag_id": int64(10)},
		{"playbook_id": int64(3), "tag_id": int64(11)},
	}, st.calls[1].rows)
}

func TestPlaybookRepo_ListFilters(t *testing.T) {
	st := &recordingStore{}
	category := int64(5)
	_, err := NewPlaybookRepo(st).List(context.Background(), PlaybookFilter{
		Status:     models.StatusPublished,
		Access:     models.AccessPublic,
		CategoryID: &category,
		ExcludeID:  9,
		Limit:      20,
	})
	require.NoError(t, err)

	q := st.calls[0].query
	assert.Equal(t, []store.Filter{
		store.Eq("status", models.StatusPublished),
		store.Eq("access", models.AccessPublic),
		store.Eq("category_id", int64(5)),
		store.Neq("id", int64(9)),
	}, q.Filters)
	assert.Equal(t, 20, q.Limit)
	assert.Equal(t, store.Desc("published_at").NullsLast(), q.Orders[0])
}

func TestPlaybookRepo_TagLinksSkipsEmptyIDs(t *testing.T) {
	st := &recordingStore{}
	links, err := NewPlaybookRepo(st).TagLinks(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, links)
	assert.Empty(t, st.calls)
}

func TestCategoryRepo_FindByNameIsCaseInsensitive(t *testing.T) {
	st := &recordingStore{}
	_, err := NewCategoryRepo(st).FindByName(context.Background(), "Spa_Tools")
	require.NoError(t, err)
	assert.Equal(t, []store.Filter{store.ILike("name", `Spa\_Tools`)}, st.calls[0].query.Filters)
}

func TestCategoryRepo_DeleteMissingRow(t *testing.T) {
	st := &recordingStore{affected: 0}
	err := NewCategoryRepo(st).Delete(context.Background(), 99)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestContactRepo_SetNotifyStatusOnlyFromPending(t *testing.T) {
	st := &recordingStore{affected: 1}
	now := time.Now()
	err := NewContactRepo(st).SetNotifyStatus(context.Background(), 4, models.NotifySent, &now)
	require.NoError(t, err)
	assert.Equal(t, []store.Filter{
		store.Eq("id", int64(4)),
		store.Eq("notify_status", models.NotifyPending),
	}, st.calls[0].filters)
}

func TestProductRepo_CreateStampsTimes(t *testing.T) {
	st := &recordingStore{nextID: 12}
	product := &models.Product{Slug: "spa-ai", Name: "Spa AI", Status: models.StatusDraft}
	id, err := NewProductRepo(st).Create(context.Background(), product)
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)
	assert.Equal(t, int64(12), product.ID)
	require.NotNil(t, product.UpdatedAt)
	assert.Equal(t, product.CreatedAt, st.calls[0].values["created_at"])
}
