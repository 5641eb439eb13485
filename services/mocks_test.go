package services

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront/common/logger"
	"storefront/models"
	"storefront/notifier"
	"storefront/repository"
)

func TestMain(m *testing.M) {
	logger.Initialize("production")
	os.Exit(m.Run())
}

// --- in-memory product repository ---

type mockProductRepo struct {
	products     map[uuid.UUID]*models.Product
	findAllCalls int
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[uuid.UUID]*models.Product)}
}

func (m *mockProductRepo) add(p *models.Product) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	m.products[p.ID] = p
}

func (m *mockProductRepo) FindAll(_ context.Context, _, _ int) ([]models.Product, int64, error) {
	m.findAllCalls++
	var result []models.Product
	for _, p := range m.products {
		result = append(result, *p)
	}
	return result, int64(len(result)), nil
}

func (m *mockProductRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *mockProductRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return m.FindByID(ctx, id)
}

func (m *mockProductRepo) Create(_ context.Context, p *models.Product) error {
	m.add(p)
	return nil
}

func (m *mockProductRepo) Update(_ context.Context, p *models.Product) error {
	m.products[p.ID] = p
	return nil
}

func (m *mockProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.products[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepo) DecrementStock(_ context.Context, id uuid.UUID, quantity int) error {
	p, ok := m.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock -= quantity
	return nil
}

// --- in-memory order repository ---

type mockOrderRepo struct {
	orders map[uuid.UUID]*models.Order
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[uuid.UUID]*models.Order)}
}

func (m *mockOrderRepo) FindAll(_ context.Context, _, _ int) ([]models.Order, int64, error) {
	var result []models.Order
	for _, o := range m.orders {
		result = append(result, *o)
	}
	return result, int64(len(result)), nil
}

func (m *mockOrderRepo) FindByUserID(_ context.Context, userID uuid.UUID, _, _ int) ([]models.Order, int64, error) {
	var result []models.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			result = append(result, *o)
		}
	}
	return result, int64(len(result)), nil
}

func (m *mockOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *o
	return &copied, nil
}

func (m *mockOrderRepo) FindByIDAndUserID(_ context.Context, id, userID uuid.UUID) (*models.Order, error) {
	o, ok := m.orders[id]
	if !ok || o.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *o
	return &copied, nil
}

func (m *mockOrderRepo) Create(_ context.Context, order *models.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	copied := *order
	m.orders[order.ID] = &copied
	return nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	o, ok := m.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.Status = status
	return nil
}

func (m *mockOrderRepo) SetTelegramMessageID(_ context.Context, id uuid.UUID, messageID string) error {
	o, ok := m.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.TelegramMessageID = messageID
	return nil
}

func (m *mockOrderRepo) Delete(_ context.Context, id uuid.UUID) error {
	o, ok := m.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.OrderItems = nil
	delete(m.orders, id)
	return nil
}

// --- transaction runner with rollback semantics ---

type mockTxRunner struct {
	products *mockProductRepo
	orders   *mockOrderRepo
}

func (m *mockTxRunner) RunInTx(_ context.Context, fn func(repository.ProductRepository, repository.OrderRepository) error) error {
	productSnapshot := make(map[uuid.UUID]models.Product, len(m.products.products))
	for id, p := range m.products.products {
		productSnapshot[id] = *p
	}
	orderSnapshot := make(map[uuid.UUID]*models.Order, len(m.orders.orders))
	for id, o := range m.orders.orders {
		orderSnapshot[id] = o
	}

	if err := fn(m.products, m.orders); err != nil {
		for id := range m.products.products {
			snap := productSnapshot[id]
			m.products.products[id] = &snap
		}
		m.orders.orders = orderSnapshot
		return err
	}
	return nil
}

// --- in-memory user repository ---

type mockUserRepo struct {
	users map[uuid.UUID]*models.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *mockUserRepo) FindAll(_ context.Context, _, _ int) ([]models.User, int64, error) {
	var result []models.User
	for _, u := range m.users {
		result = append(result, *u)
	}
	return result, int64(len(result)), nil
}

func (m *mockUserRepo) Create(_ context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *mockUserRepo) Update(_ context.Context, user *models.User) error {
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.users, id)
	return nil
}

// --- notification publisher ---

type mockPublisher struct {
	nextID       int
	published    []notifier.Event
	customers    []string
	retractCalls []string
	publishErr   error
	retractErr   error
}

func (m *mockPublisher) Publish(_ context.Context, order *models.Order, event notifier.Event) (string, error) {
	if m.publishErr != nil {
		return "", m.publishErr
	}
	m.nextID++
	m.published = append(m.published, event)
	m.customers = append(m.customers, order.User.Email)
	return fmt.Sprintf("%d", m.nextID), nil
}

func (m *mockPublisher) Retract(_ context.Context, messageID string) error {
	m.retractCalls = append(m.retractCalls, messageID)
	return m.retractErr
}
