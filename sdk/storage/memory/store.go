// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package memory

import (
	"context"
	"errors"
	"sync"
)

var ErrNotFound = errors.New("key not found")

// Object is a stored payload with the metadata of its put.
type Object struct {
	Bucket      string
	Key         string
	Data        []byte
	ContentType string
}

// Store is an in-memory storage.ObjectStore. FailWith, when set, makes every
// put fail with that error.
type Store struct {
	mu       sync.RWMutex
	objects  map[string]Object
	puts     int
	FailWith error
}

func NewInMemory() *Store {
	return &Store{
		objects: make(map[string]Object),
	}
}

func (s *Store) PutObject(_ context.Context, bucket, key string, data []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.puts++
	if s.FailWith != nil {
		return s.FailWith
	}

	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)
	s.objects[bucket+"/"+key] = Object{
		Bucket:      bucket,
		Key:         key,
		Data:        dataCopy,
		ContentType: contentType,
	}
	return nil
}

// Get returns a copy of the object stored at bucket/key.
func (s *Store) Get(bucket, key string) (Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[bucket+"/"+key]
	if !ok {
		return Object{}, ErrNotFound
	}
	obj.Data = append([]byte(nil), obj.Data...)
	return obj, nil
}

// Puts counts PutObject calls, failed ones included.
func (s *Store) Puts() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.puts
}

// Len returns the number of stored objects.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.objects = make(map[string]Object)
	s.puts = 0
	s.FailWith = nil
}
