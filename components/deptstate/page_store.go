package deptstate

import (
	"encoding/json"
	"strings"
	"sync"
)

// PageKey identifies an entry in the page state store.
type PageKey string

const (
	// KeyLastAnalysis stores the last resolved analysis view.
	KeyLastAnalysis PageKey = "lastAnalysis"
	// KeyUploadHint stores the department preselected for the upload page.
	KeyUploadHint PageKey = "uploadHint"
)

// PageValue is the closed set of values the page store accepts.
type PageValue interface {
	PageKey() PageKey
	pageValue()
}

// LastAnalysis points at the analysis view that was resolved most recently.
type LastAnalysis struct {
	Department string `json:"department"`
	FileID     string `json:"fileId"`
}

// PageKey implements PageValue.
func (LastAnalysis) PageKey() PageKey { return KeyLastAnalysis }
func (LastAnalysis) pageValue()       {}

// UploadHint carries a preselected department into the upload page.
type UploadHint struct {
	Department string `json:"department"`
}

// PageKey implements PageValue.
func (UploadHint) PageKey() PageKey { return KeyUploadHint }
func (UploadHint) pageValue()       {}

// RawPageValue passes unstructured JSON through the store under its own key.
type RawPageValue struct {
	Key  PageKey         `json:"key"`
	Data json.RawMessage `json:"data"`
}

// PageKey implements PageValue.
func (v RawPageValue) PageKey() PageKey { return v.Key }
func (RawPageValue) pageValue()         {}

// PageStore keeps process-scoped page values keyed by PageKey.
type PageStore struct {
	mu        sync.RWMutex
	values    map[PageKey]PageValue
	validator *PageSchemaValidator
}

// NewPageStore builds an empty store. validator may be nil.
func NewPageStore(validator *PageSchemaValidator) *PageStore {
	return &PageStore{
		values:    make(map[PageKey]PageValue),
		validator: validator,
	}
}

// SetPageState replaces the value under value.PageKey(); other keys are untouched.
func (s *PageStore) SetPageState(value PageValue) error {
	if value == nil || strings.TrimSpace(string(value.PageKey())) == "" {
		return ErrUnknownPageKey
	}
	if raw, ok := value.(RawPageValue); ok && s.validator != nil {
		if err := s.validator.Validate(raw); err != nil {
			return err
		}
	}
	value = clonePageValue(value)
	s.mu.Lock()
	s.values[value.PageKey()] = value
	s.mu.Unlock()
	return nil
}

// clonePageValue detaches a value from any buffer its strings point into.
func clonePageValue(value PageValue) PageValue {
	switch v := value.(type) {
	case LastAnalysis:
		return LastAnalysis{Department: strings.Clone(v.Department), FileID: strings.Clone(v.FileID)}
	case UploadHint:
		return UploadHint{Department: strings.Clone(v.Department)}
	case RawPageValue:
		return RawPageValue{Key: PageKey(strings.Clone(string(v.Key))), Data: append(json.RawMessage(nil), v.Data...)}
	default:
		return value
	}
}

// GetPageState returns the value stored under key.
func (s *PageStore) GetPageState(key PageKey) (PageValue, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// LastAnalysis returns the typed lastAnalysis entry.
func (s *PageStore) LastAnalysis() (LastAnalysis, bool) {
	v, ok := s.GetPageState(KeyLastAnalysis)
	if !ok {
		return LastAnalysis{}, false
	}
	last, ok := v.(LastAnalysis)
	return last, ok
}

// TakeUploadHint returns and clears the upload hint; it is consumed by a single visit.
func (s *PageStore) TakeUploadHint() (UploadHint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[KeyUploadHint]
	if !ok {
		return UploadHint{}, false
	}
	delete(s.values, KeyUploadHint)
	hint, ok := v.(UploadHint)
	return hint, ok
}

func (s *PageStore) reset() {
	s.mu.Lock()
	s.values = make(map[PageKey]PageValue)
	s.mu.Unlock()
}
