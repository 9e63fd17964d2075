package repositoryImp

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"reflect"
	"sync"

	"github.com/Muneeb381a/disiltting/pkg/draft/repository"
)

type memoryStore struct {
	mu     sync.Mutex
	drafts map[string][]byte
}

// NewMemory keeps drafts for the life of the process.
func NewMemory() repository.DraftStore { return &memoryStore{drafts: map[string][]byte{}} }

func (s *memoryStore) Save(formID string, state any) error {
	b, err := json.Marshal(state)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.drafts[formID] = b
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Load(formID string, out any) bool {
	s.mu.Lock()
	b, ok := s.drafts[formID]
	s.mu.Unlock()
	if !ok {
		return false
	}
	if err := decodeInto(b, out); err != nil {
		log.Printf("[draft] discarding unreadable draft %s: %v", formID, err)
		return false
	}
	return true
}

func (s *memoryStore) Clear(formID string) error {
	s.mu.Lock()
	delete(s.drafts, formID)
	s.mu.Unlock()
	return nil
}

// decodeInto decodes into a scratch value first so that out is left untouched
// when the payload is corrupt or has fields out does not know.
func decodeInto(raw []byte, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.New("out must be a non-nil pointer")
	}
	tmp := reflect.New(rv.Elem().Type())
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(tmp.Interface()); err != nil {
		return err
	}
	rv.Elem().Set(tmp.Elem())
	return nil
}
