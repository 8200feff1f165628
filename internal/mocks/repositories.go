package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/CWALabs/SkyCMS-sub002/internal/models"
)

// MockArticleRepository is an in-memory implementation of ArticleRepository
type MockArticleRepository struct {
	mu       sync.Mutex
	Articles []*models.Article

	CreateErr error
	QueryErr  error
	WriteErr  error
}

func NewMockArticleRepository() *MockArticleRepository {
	return &MockArticleRepository{}
}

// Add seeds a version row without error injection
func (m *MockArticleRepository) Add(a *models.Article) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	m.Articles = append(m.Articles, &cp)
}

// Find returns the stored row for a version, nil when absent
func (m *MockArticleRepository) Find(articleNumber, versionNumber int) *models.Article {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.Articles {
		if a.ArticleNumber == articleNumber && a.VersionNumber == versionNumber {
			return a
		}
	}
	return nil
}

func (m *MockArticleRepository) Create(ctx context.Context, article *models.Article) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.Add(article)
	return nil
}

func (m *MockArticleRepository) GetVersions(ctx context.Context, articleNumber int) ([]*models.Article, error) {
	if m.QueryErr != nil {
		return nil, m.QueryErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*models.Article
	for _, a := range m.Articles {
		if a.ArticleNumber == articleNumber && a.StatusCode != models.StatusDeleted {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VersionNumber > out[j].VersionNumber })
	return out, nil
}

func (m *MockArticleRepository) GetVersion(ctx context.Context, articleNumber, versionNumber int) (*models.Article, error) {
	if m.QueryErr != nil {
		return nil, m.QueryErr
	}
	a := m.Find(articleNumber, versionNumber)
	if a == nil || a.StatusCode == models.StatusDeleted {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (m *MockArticleRepository) ListGroupNumbers(ctx context.Context) ([]int, error) {
	if m.QueryErr != nil {
		return nil, m.QueryErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[int]bool)
	var numbers []int
	for _, a := range m.Articles {
		if a.Published == nil || a.StatusCode == models.StatusDeleted || a.StatusCode == models.StatusRedirect {
			continue
		}
		if !seen[a.ArticleNumber] {
			seen[a.ArticleNumber] = true
			numbers = append(numbers, a.ArticleNumber)
		}
	}
	sort.Ints(numbers)
	return numbers, nil
}

func (m *MockArticleRepository) ClearPublished(ctx context.Context, articleNumber, keepVersion int, cutoff time.Time) (int64, error) {
	if m.WriteErr != nil {
		return 0, m.WriteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var cleared int64
	for _, a := range m.Articles {
		if a.ArticleNumber != articleNumber || a.VersionNumber == keepVersion {
			continue
		}
		if a.StatusCode == models.StatusDeleted || a.StatusCode == models.StatusRedirect {
			continue
		}
		if a.Published != nil && !a.Published.After(cutoff) {
			a.Published = nil
			cleared++
		}
	}
	return cleared, nil
}

func (m *MockArticleRepository) UpdateSlug(ctx context.Context, articleNumber int, urlPath, blogKey string) error {
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.Articles {
		if a.ArticleNumber == articleNumber {
			a.UrlPath = urlPath
			a.BlogKey = blogKey
		}
	}
	return nil
}

func (m *MockArticleRepository) RewriteBlogKey(ctx context.Context, oldKey, newKey string) (int64, error) {
	if m.WriteErr != nil {
		return 0, m.WriteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var moved int64
	for _, a := range m.Articles {
		if a.ArticleType != models.ArticleBlogPost || a.BlogKey != oldKey || a.StatusCode == models.StatusDeleted {
			continue
		}
		a.BlogKey = newKey
		if strings.HasPrefix(a.UrlPath, oldKey) {
			a.UrlPath = newKey + a.UrlPath[len(oldKey):]
		}
		moved++
	}
	return moved, nil
}

func (m *MockArticleRepository) ListByBlogKey(ctx context.Context, blogKey string) ([]*models.Article, error) {
	if m.QueryErr != nil {
		return nil, m.QueryErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*models.Article
	for _, a := range m.Articles {
		if a.ArticleType == models.ArticleBlogPost && a.BlogKey == blogKey && a.StatusCode != models.StatusDeleted {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockArticleRepository) SlugInUse(ctx context.Context, slug string, excludeArticleNumber int) (bool, error) {
	if m.QueryErr != nil {
		return false, m.QueryErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.Articles {
		if a.ArticleNumber == excludeArticleNumber || a.StatusCode == models.StatusDeleted {
			continue
		}
		if strings.EqualFold(a.UrlPath, slug) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockArticleRepository) MaxArticleNumber(ctx context.Context) (int, error) {
	if m.QueryErr != nil {
		return 0, m.QueryErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	max := 0
	for _, a := range m.Articles {
		if a.ArticleNumber > max {
			max = a.ArticleNumber
		}
	}
	return max, nil
}

// MockCatalogRepository is an in-memory implementation of CatalogRepository
type MockCatalogRepository struct {
	mu      sync.Mutex
	Entries map[int]*models.CatalogEntry

	UpsertErr   error
	UpsertCalls int
}

func NewMockCatalogRepository() *MockCatalogRepository {
	return &MockCatalogRepository{Entries: make(map[int]*models.CatalogEntry)}
}

func (m *MockCatalogRepository) Upsert(ctx context.Context, entry *models.CatalogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertCalls++
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	cp := *entry
	m.Entries[entry.ArticleNumber] = &cp
	return nil
}

func (m *MockCatalogRepository) Get(ctx context.Context, articleNumber int) (*models.CatalogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.Entries[articleNumber]
	if !ok {
		return nil, nil
	}
	cp := *entry
	return &cp, nil
}

func (m *MockCatalogRepository) Delete(ctx context.Context, articleNumber int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Entries, articleNumber)
	return nil
}

// MockPageRepository is an in-memory implementation of PageRepository
type MockPageRepository struct {
	mu    sync.Mutex
	Pages map[int]*models.Page

	ReplaceErr   error
	ReplaceCalls int
}

func NewMockPageRepository() *MockPageRepository {
	return &MockPageRepository{Pages: make(map[int]*models.Page)}
}

func (m *MockPageRepository) Replace(ctx context.Context, page *models.Page) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReplaceCalls++
	if m.ReplaceErr != nil {
		return m.ReplaceErr
	}
	cp := *page
	m.Pages[page.ArticleNumber] = &cp
	return nil
}

func (m *MockPageRepository) Get(ctx context.Context, articleNumber int) (*models.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	page, ok := m.Pages[articleNumber]
	if !ok {
		return nil, nil
	}
	cp := *page
	return &cp, nil
}

func (m *MockPageRepository) Delete(ctx context.Context, articleNumber int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Pages, articleNumber)
	return nil
}

// MockReservedPathRepository is an in-memory implementation of ReservedPathRepository
type MockReservedPathRepository struct {
	mu    sync.Mutex
	Paths map[string]models.ReservedPath
}

func NewMockReservedPathRepository() *MockReservedPathRepository {
	return &MockReservedPathRepository{Paths: make(map[string]models.ReservedPath)}
}

func (m *MockReservedPathRepository) List(ctx context.Context) ([]models.ReservedPath, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.ReservedPath, 0, len(m.Paths))
	for _, p := range m.Paths {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func (m *MockReservedPathRepository) Get(ctx context.Context, path string) (*models.ReservedPath, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.Paths[strings.ToLower(path)]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *MockReservedPathRepository) Upsert(ctx context.Context, p models.ReservedPath) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Paths[strings.ToLower(p.Path)] = p
	return nil
}

func (m *MockReservedPathRepository) Delete(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Paths, strings.ToLower(path))
	return nil
}

func (m *MockReservedPathRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Paths), nil
}

// MockTenantRepository is an in-memory implementation of TenantRepository
type MockTenantRepository struct {
	mu          sync.Mutex
	Connections []*models.Connection

	LookupCalls int
	LookupErr   error
}

func NewMockTenantRepository(conns ...*models.Connection) *MockTenantRepository {
	return &MockTenantRepository{Connections: conns}
}

func (m *MockTenantRepository) ListDomains(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var domains []string
	for _, c := range m.Connections {
		domains = append(domains, c.DomainNames...)
	}
	return domains, nil
}

func (m *MockTenantRepository) GetByDomain(ctx context.Context, domain string) (*models.Connection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LookupCalls++
	if m.LookupErr != nil {
		return nil, m.LookupErr
	}
	for _, c := range m.Connections {
		for _, d := range c.DomainNames {
			if strings.EqualFold(d, domain) {
				cp := *c
				return &cp, nil
			}
		}
	}
	return nil, nil
}
