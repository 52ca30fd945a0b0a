package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/roadmap/internal/domain"
	"github.com/alexanderramin/roadmap/internal/repository"
	"github.com/alexanderramin/roadmap/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferenceService_RoundTrip(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewPreferenceService(repository.NewSQLitePreferenceRepo(database), testutil.NewTestUoW(database))
	ctx := context.Background()

	require.NoError(t, svc.SetExpanded(ctx, "ROADMAP.md", "faz1:Auth", false))
	require.NoError(t, svc.SetMany(ctx, "ROADMAP.md", map[string]bool{"faz1:Billing": false, "faz1:Auth": true}))

	prefs, err := svc.Expanded(ctx, "ROADMAP.md")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"faz1:Auth": true, "faz1:Billing": false}, prefs)

	require.NoError(t, svc.Reset(ctx, "ROADMAP.md"))
	prefs, err = svc.Expanded(ctx, "ROADMAP.md")
	require.NoError(t, err)
	assert.Empty(t, prefs)
}

func TestPreferenceService_SetManyRollsBack(t *testing.T) {
	database := testutil.NewTestDB(t)
	uow := &testutil.FailOnNthExecUoW{DB: database, FailOn: 2, Err: errors.New("injected")}
	svc := NewPreferenceService(repository.NewSQLitePreferenceRepo(database), uow)
	ctx := context.Background()

	err := svc.SetMany(ctx, "ROADMAP.md", map[string]bool{"a": true, "b": false, "c": true})
	require.ErrorContains(t, err, "injected")

	prefs, err := svc.Expanded(ctx, "ROADMAP.md")
	require.NoError(t, err)
	assert.Empty(t, prefs)
}

func TestItemKey_UsesTitlePath(t *testing.T) {
	login := testutil.NewTestItem("Login")
	doc := testutil.NewTestRoadmap(
		testutil.WithPhase("faz1", "Setup", testutil.NewTestItem("Auth", testutil.WithChildren(login))),
	)

	key, ok := ItemKey(doc, domain.DefaultSchema(), login.ID)
	require.True(t, ok)
	assert.Equal(t, "faz1:Auth/Login", key)

	_, ok = ItemKey(doc, domain.DefaultSchema(), "missing")
	assert.False(t, ok)
}

func TestPreferenceService_RenamePhases(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewPreferenceService(repository.NewSQLitePreferenceRepo(database), testutil.NewTestUoW(database))
	ctx := context.Background()
	require.NoError(t, svc.SetMany(ctx, "ROADMAP.md", map[string]bool{
		"faz1:Auth":   true,
		"faz2:Search": false,
		"faz3:Gone":   true,
		"faz4:Kept":   true,
	}))
	require.NoError(t, svc.SetExpanded(ctx, "other.md", "faz1:Auth", false))

	require.NoError(t, svc.RenamePhases(ctx, "ROADMAP.md", map[string]string{"faz1": "faz2", "faz2": "faz3"}))

	prefs, err := svc.Expanded(ctx, "ROADMAP.md")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"faz2:Auth": true, "faz3:Search": false, "faz4:Kept": true}, prefs)

	other, err := svc.Expanded(ctx, "other.md")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"faz1:Auth": false}, other)
}
