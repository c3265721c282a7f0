package sheets

import (
	"context"
	"sync"

	"github.com/centavo-dev/centavo/internal/model"
)

// MockStore is a mock implementation of the engine's Store for testing.
type MockStore struct {
	ReadHistoryFunc        func(ctx context.Context) ([]model.Transaction, error)
	AppendTransactionsFunc func(ctx context.Context, txns []model.Transaction) error
	SyncRulesFunc          func(ctx context.Context, rules []model.CategoryRule) error
	UpdateCategoriesFunc   func(ctx context.Context, updates []model.CategoryUpdate) error

	History     []model.Transaction
	Appended    [][]model.Transaction
	SyncedRules [][]model.CategoryRule
	Updates     [][]model.CategoryUpdate
	AppendCalls int
	ReadCalls   int
	mu          sync.Mutex
}

// NewMockStore creates a new mock store.
func NewMockStore() *MockStore {
	return &MockStore{
		Appended:    make([][]model.Transaction, 0),
		SyncedRules: make([][]model.CategoryRule, 0),
		Updates:     make([][]model.CategoryUpdate, 0),
	}
}

// ReadHistory implements the Store interface.
func (m *MockStore) ReadHistory(ctx context.Context) ([]model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ReadCalls++
	if m.ReadHistoryFunc != nil {
		return m.ReadHistoryFunc(ctx)
	}
	return m.History, nil
}

// AppendTransactions implements the Store interface.
func (m *MockStore) AppendTransactions(ctx context.Context, txns []model.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.AppendCalls++
	var err error
	if m.AppendTransactionsFunc != nil {
		err = m.AppendTransactionsFunc(ctx, txns)
	}
	if err == nil {
		m.Appended = append(m.Appended, txns)
		m.History = append(m.History, txns...)
	}
	return err
}

// SyncRules implements the Store interface.
func (m *MockStore) SyncRules(ctx context.Context, rules []model.CategoryRule) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var err error
	if m.SyncRulesFunc != nil {
		err = m.SyncRulesFunc(ctx, rules)
	}
	if err == nil {
		m.SyncedRules = append(m.SyncedRules, rules)
	}
	return err
}

// UpdateCategories implements the Store interface.
func (m *MockStore) UpdateCategories(ctx context.Context, updates []model.CategoryUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var err error
	if m.UpdateCategoriesFunc != nil {
		err = m.UpdateCategoriesFunc(ctx, updates)
	}
	if err == nil {
		m.Updates = append(m.Updates, updates)
		byHash := make(map[string]string, len(updates))
		for _, u := range updates {
			byHash[u.Hash] = u.Category
		}
		for i := range m.History {
			if category, ok := byHash[m.History[i].Hash]; ok {
				m.History[i].Category = category
			}
		}
	}
	return err
}

// AllAppended returns every transaction appended across all calls.
func (m *MockStore) AllAppended() []model.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()

	var all []model.Transaction
	for _, batch := range m.Appended {
		all = append(all, batch...)
	}
	return all
}

// Reset clears all recorded calls.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.History = nil
	m.Appended = make([][]model.Transaction, 0)
	m.SyncedRules = make([][]model.CategoryRule, 0)
	m.Updates = make([][]model.CategoryUpdate, 0)
	m.AppendCalls = 0
	m.ReadCalls = 0
}

// SetAppendError configures the mock to fail AppendTransactions.
func (m *MockStore) SetAppendError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.AppendTransactionsFunc = func(_ context.Context, _ []model.Transaction) error {
		return err
	}
}
