package deptstate

import (
	"encoding/json"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageStoreShallowMerge(t *testing.T) {
	store := NewPageStore(nil)
	require.NoError(t, store.SetPageState(LastAnalysis{Department: "Electronics", FileID: "a"}))
	require.NoError(t, store.SetPageState(UploadHint{Department: "Toys"}))
	require.NoError(t, store.SetPageState(LastAnalysis{Department: "Books"}))

	last, ok := store.LastAnalysis()
	require.True(t, ok)
	assert.Equal(t, LastAnalysis{Department: "Books"}, last, "previous value is replaced, not merged field by field")

	hint, ok := store.GetPageState(KeyUploadHint)
	require.True(t, ok)
	assert.Equal(t, UploadHint{Department: "Toys"}, hint)
}

func TestPageStoreTakeUploadHintConsumes(t *testing.T) {
	store := NewPageStore(nil)
	require.NoError(t, store.SetPageState(UploadHint{Department: "Grocery"}))

	hint, ok := store.TakeUploadHint()
	require.True(t, ok)
	assert.Equal(t, "Grocery", hint.Department)

	_, ok = store.TakeUploadHint()
	assert.False(t, ok)
}

func TestPageStoreRejectsKeylessRawValue(t *testing.T) {
	store := NewPageStore(nil)
	assert.ErrorIs(t, store.SetPageState(RawPageValue{Data: json.RawMessage(`{}`)}), ErrUnknownPageKey)
	assert.ErrorIs(t, store.SetPageState(nil), ErrUnknownPageKey)
}

func TestPageStoreValidatesRawValues(t *testing.T) {
	validator := NewPageSchemaValidator()
	require.NoError(t, validator.Register("columns", map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}))
	store := NewPageStore(validator)

	require.NoError(t, store.SetPageState(RawPageValue{Key: "columns", Data: json.RawMessage(`["sku","qty"]`)}))
	err := store.SetPageState(RawPageValue{Key: "columns", Data: json.RawMessage(`[1,2]`)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed validation")

	v, ok := store.GetPageState("columns")
	require.True(t, ok)
	assert.JSONEq(t, `["sku","qty"]`, string(v.(RawPageValue).Data))

	require.NoError(t, store.SetPageState(RawPageValue{Key: "free", Data: json.RawMessage(`{"any":true}`)}))
}

func TestPageStoreCopiesStrings(t *testing.T) {
	store := NewPageStore(nil)
	buf := []byte("Electronics")
	dept := unsafe.String(&buf[0], len(buf))
	require.NoError(t, store.SetPageState(LastAnalysis{Department: dept, FileID: "abc123"}))
	require.NoError(t, store.SetPageState(UploadHint{Department: dept}))

	copy(buf, "XXXXXXXXXXX")
	last, ok := store.LastAnalysis()
	require.True(t, ok)
	assert.Equal(t, "Electronics", last.Department)
	hint, ok := store.TakeUploadHint()
	require.True(t, ok)
	assert.Equal(t, "Electronics", hint.Department)
}
