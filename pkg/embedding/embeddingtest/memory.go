// Package embeddingtest provides an in-memory embedding service for tests.
package embeddingtest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"notealog/pkg/domain"
	"notealog/pkg/embedding"
)

type Memory struct {
	mu       sync.Mutex
	next     int
	Contents map[string]string
	// Similar is returned verbatim by RetrieveSimilar, keyed by embeddings id.
	Similar map[string][]domain.SimilarityMatch
	// FailOn makes the named operations fail with ErrRemoteUnavailable.
	FailOn map[string]bool
	Calls  map[string]int
}

var _ embedding.Service = &Memory{}

func NewMemory() *Memory {
	return &Memory{
		Contents: map[string]string{},
		Similar:  map[string][]domain.SimilarityMatch{},
		FailOn:   map[string]bool{},
		Calls:    map[string]int{},
	}
}

func (m *Memory) enter(op string) error {
	m.Calls[op]++
	if m.FailOn[op] {
		return domain.Wrap(domain.ErrRemoteUnavailable, op, errors.New("embedding service down"))
	}
	return nil
}

func (m *Memory) CallCount(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[op]
}

func (m *Memory) CreateInitial(ctx context.Context, contents string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("CreateInitial"); err != nil {
		return "", err
	}
	m.next++
	id := fmt.Sprintf("emb-%d", m.next)
	m.Contents[id] = contents
	return id, nil
}

func (m *Memory) Update(ctx context.Context, embeddingsID, contents string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Update"); err != nil {
		return err
	}
	m.Contents[embeddingsID] = contents
	return nil
}

func (m *Memory) Delete(ctx context.Context, embeddingsID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Delete"); err != nil {
		return err
	}
	delete(m.Contents, embeddingsID)
	return nil
}

func (m *Memory) RetrieveSimilar(ctx context.Context, embeddingsID string) ([]domain.SimilarityMatch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("RetrieveSimilar"); err != nil {
		return nil, err
	}
	return append([]domain.SimilarityMatch(nil), m.Similar[embeddingsID]...), nil
}
