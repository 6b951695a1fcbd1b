package entity_test

import (
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csg4786/progress-tracker/pkg/entity"
)

func TestScopeJSONRoundTrip(t *testing.T) {
	t.Run("workspace scope on a daily entry", func(t *testing.T) {
		scope := entity.WorkspaceScope(uuid.New())
		entry := entity.DailyEntry{
			ID:    uuid.New(),
			Scope: scope,
			Date:  time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
			Tasks: []entity.DailyTask{},
		}
		raw, err := sonic.Marshal(entry)
		require.NoError(t, err)
		var decoded entity.DailyEntry
		require.NoError(t, sonic.Unmarshal(raw, &decoded))
		assert.Equal(t, scope, decoded.Scope)
	})
	t.Run("personal scope on a resource", func(t *testing.T) {
		scope := entity.PersonalScope(uuid.New())
		r := entity.Resource{
			ID:      uuid.New(),
			Kind:    "job",
			Scope:   scope,
			Payload: map[string]any{"company": "acme"},
		}
		raw, err := sonic.Marshal(r)
		require.NoError(t, err)
		var decoded entity.Resource
		require.NoError(t, sonic.Unmarshal(raw, &decoded))
		assert.Equal(t, scope, decoded.Scope)
	})
	t.Run("wire shape is the nullable owner pair", func(t *testing.T) {
		wid := uuid.New()
		raw, err := sonic.Marshal(entity.WorkspaceScope(wid))
		require.NoError(t, err)
		assert.JSONEq(t, `{"user_id":null,"workspace_id":"`+wid.String()+`"}`, string(raw))
	})
}
