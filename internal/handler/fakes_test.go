package handler

import (
	"context"
	"errors"
	"sync"
	"time"

	"assignboard/internal/entity"
	"assignboard/internal/repository"
)

type memUsers struct {
	mu      sync.Mutex
	byEmail map[string]entity.User
	nextID  int64
}

func newMemUsers() *memUsers {
	return &memUsers{byEmail: map[string]entity.User{}}
}

func (m *memUsers) Create(_ context.Context, name, email, passwordHash string) (entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[email]; ok {
		return entity.User{}, repository.ErrEmailTaken
	}
	m.nextID++
	u := entity.User{
		ID:           m.nextID,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	m.byEmail[email] = u
	return u, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byEmail[email]
	if !ok {
		return entity.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byEmail)
}

type memAssignments struct {
	mu      sync.Mutex
	rows    []entity.Assignment
	nextID  int64
	listErr error
}

func (m *memAssignments) Create(_ context.Context, title, description string) (entity.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	a := entity.Assignment{ID: m.nextID, Title: title, Description: description, CreatedAt: time.Now()}
	m.rows = append(m.rows, a)
	return a, nil
}

func (m *memAssignments) List(context.Context) ([]entity.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]entity.Assignment(nil), m.rows...), nil
}

func (m *memAssignments) GetByID(_ context.Context, id int64) (entity.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.rows {
		if a.ID == id {
			return a, nil
		}
	}
	return entity.Assignment{}, repository.ErrNotFound
}

func (m *memAssignments) Update(_ context.Context, id int64, title, description string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows[i].Title = title
			m.rows[i].Description = description
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memAssignments) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memAssignments) snapshot() []entity.Assignment {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entity.Assignment(nil), m.rows...)
}

var errDatabaseDown = errors.New("database down")
