package loader

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/mymeals/internal/mealdb"
)

type fakeList struct {
	letters []string
	meals   []mealdb.Meal
	err     error
}

func (f *fakeList) ListByFirstLetter(ctx context.Context, letter string) ([]mealdb.Meal, error) {
	f.letters = append(f.letters, letter)
	if f.err != nil {
		return nil, f.err
	}
	return f.meals, nil
}

func named(names ...string) []mealdb.Meal {
	out := make([]mealdb.Meal, len(names))
	for i, n := range names {
		out[i] = mealdb.Meal{ID: n, Name: n}
	}
	return out
}

func nameList(ms []mealdb.Meal) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Name
	}
	return out
}

func run(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

func TestListLoaderLoad(t *testing.T) {
	src := &fakeList{meals: named("Apple Frangipan Tart", "Ayam Percik", "apam balik")}
	l := NewListLoader(src, "", nil)

	cmd := l.Load()
	require.NotNil(t, cmd)
	assert.True(t, l.Loading())

	l.Update(run(cmd))
	assert.False(t, l.Loading())
	assert.True(t, l.Loaded())
	assert.Empty(t, l.Err())
	assert.Equal(t, []string{"a"}, src.letters)
	assert.Equal(t, []string{"apam balik", "Apple Frangipan Tart", "Ayam Percik"}, nameList(l.Meals()))
}

func TestListLoaderLoadOnce(t *testing.T) {
	src := &fakeList{meals: named("Burek")}
	l := NewListLoader(src, "b", nil)

	first := l.Load()
	require.NotNil(t, first)
	assert.Nil(t, l.Load(), "second Load while pending")

	l.Update(run(first))
	assert.Nil(t, l.Load(), "Load after success")
	assert.Equal(t, []string{"b"}, src.letters)
}

func TestListLoaderFailure(t *testing.T) {
	src := &fakeList{err: mealdb.ErrFetch}
	l := NewListLoader(src, "a", nil)

	l.Update(run(l.Load()))
	assert.Equal(t, ListErrorMessage, l.Err())
	assert.False(t, l.Loading())
	assert.False(t, l.Loaded())
	assert.Empty(t, l.Meals())
}

func TestListLoaderRefreshKeepsListVisible(t *testing.T) {
	src := &fakeList{meals: named("Old")}
	l := NewListLoader(src, "a", nil)
	l.Update(run(l.Load()))

	src.meals = named("New", "Newer")
	cmd := l.Refresh()
	require.NotNil(t, cmd)
	assert.True(t, l.Refreshing())
	assert.False(t, l.Loading())
	assert.Equal(t, []string{"Old"}, nameList(l.Meals()), "previous list stays until the new one arrives")

	l.Update(run(cmd))
	assert.False(t, l.Refreshing())
	assert.Equal(t, []string{"New", "Newer"}, nameList(l.Meals()))
}

func TestListLoaderRefreshFailureKeepsList(t *testing.T) {
	src := &fakeList{meals: named("Old")}
	l := NewListLoader(src, "a", nil)
	l.Update(run(l.Load()))

	src.err = errors.New("offline")
	l.Update(run(l.Refresh()))
	assert.Equal(t, ListErrorMessage, l.Err())
	assert.Equal(t, []string{"Old"}, nameList(l.Meals()))

	src.err = nil
	l.Update(run(l.Refresh()))
	assert.Empty(t, l.Err(), "successful refresh clears the error")
}

func TestListLoaderRefreshSupersedesLoad(t *testing.T) {
	src := &fakeList{meals: named("First")}
	l := NewListLoader(src, "a", nil)

	staleMsg := run(l.Load())
	src.meals = named("Second")
	fresh := l.Refresh()

	l.Update(run(fresh))
	l.Update(staleMsg)

	assert.Equal(t, []string{"Second"}, nameList(l.Meals()))
}

func TestListLoaderSourceCancellationIsFailure(t *testing.T) {
	src := &fakeList{err: context.Canceled}
	l := NewListLoader(src, "a", nil)

	l.Update(run(l.Load()))
	assert.Equal(t, ListErrorMessage, l.Err())
	assert.False(t, l.Loading())
}

func TestListLoaderOwnCancellationStopsLoading(t *testing.T) {
	src := &fakeList{meals: named("Arrabiata")}
	l := NewListLoader(src, "a", nil)

	cmd := l.Load()
	require.NotNil(t, l.inflight)
	l.inflight.cancel()

	msg := run(cmd).(ListLoadedMsg)
	msg.Err = context.Canceled
	l.Update(msg)

	assert.Empty(t, l.Err())
	assert.False(t, l.Loading())
	assert.False(t, l.Refreshing())
	assert.Empty(t, l.Meals())
}

func TestListLoaderClose(t *testing.T) {
	src := &fakeList{meals: named("Late")}
	l := NewListLoader(src, "a", nil)

	cmd := l.Load()
	l.Close()
	l.Update(run(cmd))

	assert.Empty(t, l.Meals())
	assert.False(t, l.Loading())
	assert.Nil(t, l.Load())
	assert.Nil(t, l.Refresh())
}

func TestListLoaderIgnoresForeignMessages(t *testing.T) {
	l := NewListLoader(&fakeList{}, "a", nil)
	l.Load()
	l.Update(ListLoadedMsg{Meals: named("Ghost")})
	l.Update("not a loader message")
	assert.Empty(t, l.Meals())
	assert.True(t, l.Loading())
}
