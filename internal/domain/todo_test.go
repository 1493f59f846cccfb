package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestTodoPatchApplyOnlySuppliedFields(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	todo := Todo{
		ID:          uuid.New(),
		Title:       "buy milk",
		Description: strPtr("2 litres"),
		CreatedAt:   created,
		UpdatedAt:   created,
	}

	TodoPatch{Completed: boolPtr(true), UpdatedAt: created.Add(time.Second)}.Apply(&todo)

	assert.Equal(t, "buy milk", todo.Title)
	assert.Equal(t, "2 litres", *todo.Description)
	assert.True(t, todo.Completed)
	assert.Equal(t, created, todo.CreatedAt)
	assert.Equal(t, created.Add(time.Second), todo.UpdatedAt)
}

func TestTodoPatchApplyAlwaysAdvancesUpdatedAt(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	todo := Todo{Title: "x", CreatedAt: ts, UpdatedAt: ts}

	// a clock that did not move (or moved backwards) still produces a later timestamp
	TodoPatch{UpdatedAt: ts.Add(-time.Hour)}.Apply(&todo)
	assert.True(t, todo.UpdatedAt.After(ts))
}

func TestTodoPatchApplyEmptyDescription(t *testing.T) {
	todo := Todo{Title: "x", Description: strPtr("old")}
	TodoPatch{Description: strPtr(""), UpdatedAt: time.Now()}.Apply(&todo)

	require.NotNil(t, todo.Description)
	assert.Equal(t, "", *todo.Description)
}

func TestErrorsUnwrap(t *testing.T) {
	cause := errors.New("relation does not exist")

	initErr := &InitError{Cause: cause}
	assert.ErrorIs(t, initErr, cause)
	assert.Contains(t, initErr.Error(), "relation does not exist")

	storageErr := &StorageError{Op: "list", Err: cause}
	assert.ErrorIs(t, storageErr, cause)

	assert.Equal(t, "title: must not be empty", NewValidationError("title", "must not be empty").Error())
}
