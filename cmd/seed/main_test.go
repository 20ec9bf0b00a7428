package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/workspace-task-api/internal/models"
	"github.com/yukikurage/workspace-task-api/internal/security"
	"github.com/yukikurage/workspace-task-api/internal/testutil"
)

func TestSeed_Idempotent(t *testing.T) {
	db := testutil.NewDB(t)
	tokens := security.NewTokenManager("seed-secret", time.Hour)

	require.NoError(t, seed(db, tokens))
	require.NoError(t, seed(db, tokens))

	var users, workspaces, tasks int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Workspace{}).Count(&workspaces).Error)
	require.NoError(t, db.Model(&models.Task{}).Count(&tasks).Error)
	require.Equal(t, int64(4), users)
	require.Equal(t, int64(1), workspaces)
	require.Equal(t, int64(8), tasks)

	var workspace models.Workspace
	require.NoError(t, db.Preload("Members").First(&workspace).Error)
	require.Len(t, workspace.Members, 4)
}
