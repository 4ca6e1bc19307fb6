package loader

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/mymeals/internal/mealdb"
)

type fakeDetail struct {
	meals map[string]*mealdb.Meal
	err   error
	ids   []string
}

func (f *fakeDetail) Lookup(ctx context.Context, id string) (*mealdb.Meal, error) {
	f.ids = append(f.ids, id)
	if f.err != nil {
		return nil, f.err
	}
	return f.meals[id], nil
}

func sampleMeal() *mealdb.Meal {
	m := &mealdb.Meal{ID: "52772", Name: "Teriyaki Chicken Casserole"}
	m.Slots[0] = mealdb.IngredientSlot{Ingredient: "soy sauce", Measure: "3/4 cup"}
	m.Slots[2] = mealdb.IngredientSlot{Ingredient: "water", Measure: "1/2 cup"}
	m.Slots[4] = mealdb.IngredientSlot{Ingredient: "brown sugar", Measure: ""}
	return m
}

func TestDetailLoaderLoad(t *testing.T) {
	src := &fakeDetail{meals: map[string]*mealdb.Meal{"52772": sampleMeal()}}
	d := NewDetailLoader(src)

	cmd := d.Load("52772")
	assert.True(t, d.Loading())
	assert.Equal(t, "52772", d.ID())

	d.Update(run(cmd))
	assert.False(t, d.Loading())
	require.NotNil(t, d.Meal())
	assert.False(t, d.NotFound())
	assert.Equal(t, []string{"3/4 cup soy sauce", "1/2 cup water", "brown sugar"}, slices.Collect(d.Meal().Ingredients()))
}

func TestDetailLoaderNotFound(t *testing.T) {
	d := NewDetailLoader(&fakeDetail{})

	d.Update(run(d.Load("0")))
	assert.Nil(t, d.Meal())
	assert.True(t, d.NotFound())
	assert.Empty(t, d.Err())
}

func TestDetailLoaderFailure(t *testing.T) {
	d := NewDetailLoader(&fakeDetail{err: errors.New("500")})

	d.Update(run(d.Load("1")))
	assert.Equal(t, DetailErrorMessage, d.Err())
	assert.False(t, d.NotFound())
	assert.False(t, d.Loading())
}

func TestDetailLoaderSourceCancellationIsFailure(t *testing.T) {
	d := NewDetailLoader(&fakeDetail{err: context.Canceled})

	d.Update(run(d.Load("1")))
	assert.Equal(t, DetailErrorMessage, d.Err())
	assert.False(t, d.Loading())
}

func TestDetailLoaderOwnCancellationStopsLoading(t *testing.T) {
	src := &fakeDetail{meals: map[string]*mealdb.Meal{"52772": sampleMeal()}}
	d := NewDetailLoader(src)

	cmd := d.Load("52772")
	require.NotNil(t, d.inflight)
	d.inflight.cancel()

	msg := run(cmd).(DetailLoadedMsg)
	msg.Err = context.Canceled
	d.Update(msg)

	assert.Empty(t, d.Err())
	assert.False(t, d.Loading())
	assert.False(t, d.NotFound())
	assert.Nil(t, d.Meal())
}

func TestDetailLoaderSupersededLookup(t *testing.T) {
	src := &fakeDetail{meals: map[string]*mealdb.Meal{
		"1": {ID: "1", Name: "First"},
		"2": {ID: "2", Name: "Second"},
	}}
	d := NewDetailLoader(src)

	first := d.Load("1")
	second := d.Load("2")

	firstMsg := run(first)
	d.Update(run(second))
	d.Update(firstMsg)

	require.NotNil(t, d.Meal())
	assert.Equal(t, "Second", d.Meal().Name)
}

func TestDetailLoaderClose(t *testing.T) {
	src := &fakeDetail{meals: map[string]*mealdb.Meal{"52772": sampleMeal()}}
	d := NewDetailLoader(src)

	cmd := d.Load("52772")
	d.Close()
	d.Update(run(cmd))

	assert.Nil(t, d.Meal())
	assert.False(t, d.Loading())
	assert.False(t, d.NotFound())

	// Reusable after Close
	d.Update(run(d.Load("52772")))
	assert.NotNil(t, d.Meal())
}
