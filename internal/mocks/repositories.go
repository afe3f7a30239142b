package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"picks-site-backend-go/internal/models"
	"picks-site-backend-go/internal/repository"
	"picks-site-backend-go/internal/store"
)

// NewRepositories wires a full set of in-memory repositories.
func NewRepositories() (*repository.Repositories, *Fakes) {
	f := &Fakes{
		Playbooks:  NewMockPlaybookRepository(),
		Categories: NewMockCategoryRepository(),
		Tags:       NewMockTagRepository(),
		Comments:   NewMockCommentRepository(),
		Products:   NewMockProductRepository(),
		Contacts:   NewMockContactRepository(),
	}
	return &repository.Repositories{
		Playbooks:  f.Playbooks,
		Categories: f.Categories,
		Tags:       f.Tags,
		Comments:   f.Comments,
		Products:   f.Products,
		Contacts:   f.Contacts,
	}, f
}

// Fakes exposes the concrete mocks behind a Repositories value.
type Fakes struct {
	Playbooks  *MockPlaybookRepository
	Categories *MockCategoryRepository
	Tags       *MockTagRepository
	Comments   *MockCommentRepository
	Products   *MockProductRepository
	Contacts   *MockContactRepository
}

// MockPlaybookRepository is an in-memory PlaybookRepository
type MockPlaybookRepository struct {
	mu        sync.Mutex
	Items     map[int64]*models.Playbook
	Links     []models.PlaybookTag
	nextID    int64
	ListError error
	LinkError error
	ListCalls []repository.PlaybookFilter
}

func NewMockPlaybookRepository() *MockPlaybookRepository {
	return &MockPlaybookRepository{Items: make(map[int64]*models.Playbook)}
}

// Seed stores a playbook as-is, keeping its id.
func (m *MockPlaybookRepository) Seed(p models.Playbook, tagIDs ...int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == 0 {
		m.nextID++
		p.ID = m.nextID
	}
	if p.ID > m.nextID {
		m.nextID = p.ID
	}
	m.Items[p.ID] = &p
	for _, tagID := range tagIDs {
		m.Links = append(m.Links, models.PlaybookTag{PlaybookID: p.ID, TagID: tagID})
	}
}

func (m *MockPlaybookRepository) List(ctx context.Context, filter repository.PlaybookFilter) ([]models.Playbook, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCalls = append(m.ListCalls, filter)
	if m.ListError != nil {
		return nil, m.ListError
	}
	var allowed map[int64]bool
	if filter.IDs != nil {
		allowed = make(map[int64]bool, len(filter.IDs))
		for _, id := range filter.IDs {
			allowed[id] = true
		}
	}
	items := []models.Playbook{}
	for _, p := range m.Items {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.Access != "" && p.Access != filter.Access {
			continue
		}
		if filter.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *filter.CategoryID) {
			continue
		}
		if filter.ExcludeID != 0 && p.ID == filter.ExcludeID {
			continue
		}
		if allowed != nil && !allowed[p.ID] {
			continue
		}
		items = append(items, *p)
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if cmp := compareTimeDescNullsLast(a.PublishedAt, b.PublishedAt); cmp != 0 {
			return cmp < 0
		}
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.After(b.UpdatedAt)
		}
		return a.ID > b.ID
	})
	return paginate(items, filter.Limit, filter.Offset), nil
}

func (m *MockPlaybookRepository) GetByID(ctx context.Context, id int64) (*models.Playbook, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.Items[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, store.ErrNotFound
}

func (m *MockPlaybookRepository) GetBySlug(ctx context.Context, slug string) (*models.Playbook, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.Items {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *MockPlaybookRepository) Create(ctx context.Context, p *models.Playbook) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.Items {
		if existing.Slug == p.Slug {
			return 0, errDuplicate("playbooks_slug_key")
		}
	}
	m.nextID++
	now := time.Now().UTC()
	p.ID = m.nextID
	p.CreatedAt = now
	p.UpdatedAt = now
	cp := *p
	m.Items[p.ID] = &cp
	return p.ID, nil
}

func (m *MockPlaybookRepository) Update(ctx context.Context, p *models.Playbook) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.Items[p.ID]
	if !ok {
		return store.ErrNotFound
	}
	p.UpdatedAt = time.Now().UTC()
	p.CreatedAt = existing.CreatedAt
	cp := *p
	m.Items[p.ID] = &cp
	return nil
}

func (m *MockPlaybookRepository) ClearCategory(ctx context.Context, categoryID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.Items {
		if p.CategoryID != nil && *p.CategoryID == categoryID {
			p.CategoryID = nil
		}
	}
	return nil
}

func (m *MockPlaybookRepository) TagLinks(ctx context.Context, playbookIDs []int64) ([]models.PlaybookTag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LinkError != nil {
		return nil, m.LinkError
	}
	wanted := make(map[int64]bool, len(playbookIDs))
	for _, id := range playbookIDs {
		wanted[id] = true
	}
	links := []models.PlaybookTag{}
	for _, link := range m.Links {
		if wanted[link.PlaybookID] {
			links = append(links, link)
		}
	}
	return links, nil
}

func (m *MockPlaybookRepository) PlaybookIDsForTag(ctx context.Context, tagID int64) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := []int64{}
	for _, link := range m.Links {
		if link.TagID == tagID {
			ids = append(ids, link.PlaybookID)
		}
	}
	return ids, nil
}

func (m *MockPlaybookRepository) ReplaceTags(ctx context.Context, playbookID int64, tagIDs []int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.Links[:0]
	for _, link := range m.Links {
		if link.PlaybookID != playbookID {
			kept = append(kept, link)
		}
	}
	m.Links = kept
	for _, tagID := range tagIDs {
		m.Links = append(m.Links, models.PlaybookTag{PlaybookID: playbookID, TagID: tagID})
	}
	return nil
}

func (m *MockPlaybookRepository) RemoveTagLinks(ctx context.Context, tagID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.Links[:0]
	for _, link := range m.Links {
		if link.TagID != tagID {
			kept = append(kept, link)
		}
	}
	m.Links = kept
	return nil
}

// MockCategoryRepository is an in-memory CategoryRepository
type MockCategoryRepository struct {
	mu     sync.Mutex
	Items  map[int64]*models.Category
	nextID int64
}

func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{Items: make(map[int64]*models.Category)}
}

func (m *MockCategoryRepository) Seed(c models.Category) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == 0 {
		m.nextID++
		c.ID = m.nextID
	}
	if c.ID > m.nextID {
		m.nextID = c.ID
	}
	m.Items[c.ID] = &c
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := []models.Category{}
	for _, c := range m.Items {
		items = append(items, *c)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (m *MockCategoryRepository) find(match func(*models.Category) bool) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.Items {
		if match(c) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	return m.find(func(c *models.Category) bool { return c.ID == id })
}

func (m *MockCategoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return m.find(func(c *models.Category) bool { return c.Slug == slug })
}

func (m *MockCategoryRepository) FindByName(ctx context.Context, name string) (*models.Category, error) {
	return m.find(func(c *models.Category) bool { return strings.EqualFold(c.Name, name) })
}

func (m *MockCategoryRepository) Create(ctx context.Context, c *models.Category) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	c.ID = m.nextID
	c.CreatedAt = time.Now().UTC()
	cp := *c
	m.Items[c.ID] = &cp
	return c.ID, nil
}

func (m *MockCategoryRepository) Update(ctx context.Context, c *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.Items[c.ID]
	if !ok {
		return store.ErrNotFound
	}
	existing.Name = c.Name
	existing.Slug = c.Slug
	return nil
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Items[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.Items, id)
	return nil
}

// MockTagRepository is an in-memory TagRepository
type MockTagRepository struct {
	mu     sync.Mutex
	Items  map[int64]*models.Tag
	nextID int64
}

func NewMockTagRepository() *MockTagRepository {
	return &MockTagRepository{Items: make(map[int64]*models.Tag)}
}

func (m *MockTagRepository) Seed(t models.Tag) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID == 0 {
		m.nextID++
		t.ID = m.nextID
	}
	if t.ID > m.nextID {
		m.nextID = t.ID
	}
	m.Items[t.ID] = &t
}

func (m *MockTagRepository) List(ctx context.Context) ([]models.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := []models.Tag{}
	for _, t := range m.Items {
		items = append(items, *t)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Label < items[j].Label })
	return items, nil
}

func (m *MockTagRepository) ListByIDs(ctx context.Context, ids []int64) ([]models.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := []models.Tag{}
	for _, id := range ids {
		if t, ok := m.Items[id]; ok {
			items = append(items, *t)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Label < items[j].Label })
	return items, nil
}

func (m *MockTagRepository) find(match func(*models.Tag) bool) (*models.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.Items {
		if match(t) {
			cp := *t
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *MockTagRepository) GetByID(ctx context.Context, id int64) (*models.Tag, error) {
	return m.find(func(t *models.Tag) bool { return t.ID == id })
}

func (m *MockTagRepository) GetBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	return m.find(func(t *models.Tag) bool { return t.Slug == slug })
}

func (m *MockTagRepository) FindByLabel(ctx context.Context, label string) (*models.Tag, error) {
	return m.find(func(t *models.Tag) bool { return strings.EqualFold(t.Label, label) })
}

func (m *MockTagRepository) Create(ctx context.Context, t *models.Tag) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	t.ID = m.nextID
	t.CreatedAt = time.Now().UTC()
	cp := *t
	m.Items[t.ID] = &cp
	return t.ID, nil
}

func (m *MockTagRepository) Update(ctx context.Context, t *models.Tag) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.Items[t.ID]
	if !ok {
		return store.ErrNotFound
	}
	existing.Label = t.Label
	existing.Slug = t.Slug
	return nil
}

func (m *MockTagRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Items[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.Items, id)
	return nil
}

// MockCommentRepository is an in-memory CommentRepository
type MockCommentRepository struct {
	mu          sync.Mutex
	Items       map[int64]*models.Comment
	nextID      int64
	InsertError error
}

func NewMockCommentRepository() *MockCommentRepository {
	return &MockCommentRepository{Items: make(map[int64]*models.Comment)}
}

func (m *MockCommentRepository) Seed(c models.Comment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == 0 {
		m.nextID++
		c.ID = m.nextID
	}
	if c.ID > m.nextID {
		m.nextID = c.ID
	}
	m.Items[c.ID] = &c
}

func (m *MockCommentRepository) Create(ctx context.Context, c *models.Comment) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertError != nil {
		return 0, m.InsertError
	}
	m.nextID++
	c.ID = m.nextID
	c.CreatedAt = time.Now().UTC()
	cp := *c
	m.Items[c.ID] = &cp
	return c.ID, nil
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.Items[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, store.ErrNotFound
}

func (m *MockCommentRepository) collect(match func(*models.Comment) bool) []models.Comment {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := []models.Comment{}
	for _, c := range m.Items {
		if match(c) {
			items = append(items, *c)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
	return items
}

func (m *MockCommentRepository) ListApproved(ctx context.Context, playbookID int64) ([]models.Comment, error) {
	return m.collect(func(c *models.Comment) bool {
		return c.PlaybookID == playbookID && c.Status == models.CommentApproved
	}), nil
}

func (m *MockCommentRepository) ListByStatus(ctx context.Context, status string) ([]models.Comment, error) {
	return m.collect(func(c *models.Comment) bool {
		return status == "" || c.Status == status
	}), nil
}

func (m *MockCommentRepository) SetStatus(ctx context.Context, id int64, from, to string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.Items[id]
	if !ok || c.Status != from {
		return false, nil
	}
	c.Status = to
	return true, nil
}

// MockProductRepository is an in-memory ProductRepository
type MockProductRepository struct {
	mu         sync.Mutex
	Items      map[int64]*models.Product
	LinkItems  map[int64]*models.ProductLink
	nextID     int64
	nextLinkID int64
	ListError  error
}

func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		Items:     make(map[int64]*models.Product),
		LinkItems: make(map[int64]*models.ProductLink),
	}
}

func (m *MockProductRepository) Seed(p models.Product, links ...models.ProductLink) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == 0 {
		m.nextID++
		p.ID = m.nextID
	}
	if p.ID > m.nextID {
		m.nextID = p.ID
	}
	m.Items[p.ID] = &p
	for _, l := range links {
		m.nextLinkID++
		l.ID = m.nextLinkID
		l.ProductID = p.ID
		link := l
		m.LinkItems[l.ID] = &link
	}
}

func (m *MockProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListError != nil {
		return nil, m.ListError
	}
	items := []models.Product{}
	for _, p := range m.Items {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.Category != "" && (p.Category == nil || !strings.EqualFold(*p.Category, filter.Category)) {
			continue
		}
		if filter.ExcludeSlug != "" && p.Slug == filter.ExcludeSlug {
			continue
		}
		items = append(items, *p)
	}
	sort.SliceStable(items, func(i, j int) bool {
		if cmp := compareTimeDescNullsLast(items[i].UpdatedAt, items[j].UpdatedAt); cmp != 0 {
			return cmp < 0
		}
		return items[i].ID > items[j].ID
	})
	return items, nil
}

func (m *MockProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.Items[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, store.ErrNotFound
}

func (m *MockProductRepository) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.Items {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *MockProductRepository) Create(ctx context.Context, p *models.Product) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.Items {
		if existing.Slug == p.Slug {
			return 0, errDuplicate("products_slug_key")
		}
	}
	m.nextID++
	now := time.Now().UTC()
	p.ID = m.nextID
	p.CreatedAt = now
	p.UpdatedAt = &now
	cp := *p
	m.Items[p.ID] = &cp
	return p.ID, nil
}

func (m *MockProductRepository) Update(ctx context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.Items[p.ID]
	if !ok {
		return store.ErrNotFound
	}
	now := time.Now().UTC()
	p.UpdatedAt = &now
	p.CreatedAt = existing.CreatedAt
	cp := *p
	m.Items[p.ID] = &cp
	return nil
}

func (m *MockProductRepository) Links(ctx context.Context, productID int64) ([]models.ProductLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := []models.ProductLink{}
	for _, l := range m.LinkItems {
		if l.ProductID == productID {
			items = append(items, *l)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Priority != items[j].Priority {
			return items[i].Priority < items[j].Priority
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func (m *MockProductRepository) GetLink(ctx context.Context, id int64) (*models.ProductLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.LinkItems[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, store.ErrNotFound
}

func (m *MockProductRepository) CreateLink(ctx context.Context, l *models.ProductLink) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextLinkID++
	l.ID = m.nextLinkID
	cp := *l
	m.LinkItems[l.ID] = &cp
	return l.ID, nil
}

func (m *MockProductRepository) UpdateLink(ctx context.Context, l *models.ProductLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.LinkItems[l.ID]; !ok {
		return store.ErrNotFound
	}
	cp := *l
	m.LinkItems[l.ID] = &cp
	return nil
}

// MockContactRepository is an in-memory ContactRepository
type MockContactRepository struct {
	mu          sync.Mutex
	Items       map[int64]*models.ContactSubmission
	nextID      int64
	InsertError error
	NotifyCalls int
}

func NewMockContactRepository() *MockContactRepository {
	return &MockContactRepository{Items: make(map[int64]*models.ContactSubmission)}
}

func (m *MockContactRepository) Create(ctx context.Context, s *models.ContactSubmission) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertError != nil {
		return 0, m.InsertError
	}
	m.nextID++
	s.ID = m.nextID
	s.CreatedAt = time.Now().UTC()
	cp := *s
	m.Items[s.ID] = &cp
	return s.ID, nil
}

func (m *MockContactRepository) GetByID(ctx context.Context, id int64) (*models.ContactSubmission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.Items[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, store.ErrNotFound
}

func (m *MockContactRepository) SetNotifyStatus(ctx context.Context, id int64, status string, notifiedAt *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NotifyCalls++
	s, ok := m.Items[id]
	if !ok || s.NotifyStatus != models.NotifyPending {
		return store.ErrNotFound
	}
	s.NotifyStatus = status
	s.NotifiedAt = notifiedAt
	return nil
}

func (m *MockContactRepository) List(ctx context.Context, limit, offset int) ([]models.ContactSubmission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := []models.ContactSubmission{}
	for _, s := range m.Items {
		items = append(items, *s)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID > items[j].ID })
	return paginate(items, limit, offset), nil
}

func compareTimeDescNullsLast(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case a.After(*b):
		return -1
	case b.After(*a):
		return 1
	}
	return 0
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return []T{}
		}
		items = items[offset:]
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

type duplicateError string

func (e duplicateError) Error() string {
	return `duplicate key value violates unique constraint "` + string(e) + `"`
}

func errDuplicate(constraint string) error {
	return duplicateError(constraint)
}
