package service

import (
	"context"
	"fmt"
	"testing"

	"go-retail-admin/internal/apperr"
	"go-retail-admin/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogActionDefaults(t *testing.T) {
	store := newMemStore()
	svc := NewLogService(store)

	require.NoError(t, svc.LogAction(context.Background(), &model.SystemLogEntry{Action: "backup", Details: "nightly"}))

	entries := store.auditTrail()
	require.Len(t, entries, 1)
	assert.Equal(t, "System", entries[0].UserName)
	assert.Equal(t, model.LevelInfo, entries[0].Level)
	assert.Nil(t, entries[0].UserID)

	err := svc.LogAction(context.Background(), &model.SystemLogEntry{})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestGetSystemLogsLimits(t *testing.T) {
	store := newMemStore()
	svc := NewLogService(store)
	ctx := context.Background()
	for i := 0; i < 520; i++ {
		require.NoError(t, svc.LogAction(ctx, model.NewSystemLogEntry("tick", clerk, fmt.Sprint(i), "")))
	}

	latest, err := svc.GetSystemLogs(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, latest, 100)
	assert.Equal(t, "519", latest[0].Details)

	capped, err := svc.GetSystemLogs(ctx, 10000)
	require.NoError(t, err)
	assert.Len(t, capped, 500)

	few, err := svc.GetSystemLogs(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"519", "518", "517"}, []string{few[0].Details, few[1].Details, few[2].Details})
}
