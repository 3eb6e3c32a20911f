package push

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"uk.co.dudmesh.napbook/internal/model"
	"uk.co.dudmesh.napbook/internal/testutil"
)

const dataTable = "DataTable"

var sender = model.Friend{Country: "Canada", Name: "Alice"}

func key(friend model.Friend) model.RecordKey {
	return model.RecordKey{Table: dataTable, Partition: friend.Country, Row: friend.Name}
}

func TestAppendUpdate(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("hello", AppendUpdate("", "hello"))
	assert.Equal("hello\nworld", AppendUpdate("hello", "world"))
}

func TestDeliver(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	bob := model.Friend{Country: "Zimbabwe", Name: "Bob"}

	t.Run("updates accumulate", func(t *testing.T) {
		store := testutil.NewEntityStore()
		store.Put(key(bob), model.Properties{})
		service := New(store, dataTable, 4, testutil.MakeNoopLogger())

		report := service.Deliver(ctx, sender, "hello", []model.Friend{bob})
		assert.Equal(Report{Delivered: 1}, report)
		assert.Equal("hello", store.Props(key(bob))[model.PropertyUpdates])

		report = service.Deliver(ctx, sender, "world", []model.Friend{bob})
		assert.Equal(Report{Delivered: 1}, report)
		assert.Equal("hello\nworld", store.Props(key(bob))[model.PropertyUpdates])
	})

	t.Run("missing friend is skipped", func(t *testing.T) {
		store := testutil.NewEntityStore()
		store.Put(key(bob), model.Properties{})
		service := New(store, dataTable, 4, testutil.MakeNoopLogger())

		ghost := model.Friend{Country: "Nowhere", Name: "Ghost"}
		report := service.Deliver(ctx, sender, "hi", []model.Friend{ghost, bob})
		assert.Equal(Report{Delivered: 1, Skipped: 1}, report)
		assert.Equal("hi", store.Props(key(bob))[model.PropertyUpdates])
		assert.Nil(store.Props(key(ghost)))
	})

	t.Run("failed write does not stop the rest", func(t *testing.T) {
		store := testutil.NewEntityStore()
		carol := model.Friend{Country: "Chile", Name: "Carol"}
		store.Put(key(bob), model.Properties{})
		store.Put(key(carol), model.Properties{model.PropertyUpdates: "older"})
		store.WriteErrors[key(bob)] = &model.StoreError{StatusCode: 500}
		service := New(store, dataTable, 1, testutil.MakeNoopLogger())

		err := service.PushStatus(ctx, sender, "news", []model.Friend{bob, carol})
		assert.Nil(err)
		assert.Equal("", store.Props(key(bob))[model.PropertyUpdates])
		assert.Equal("older\nnews", store.Props(key(carol))[model.PropertyUpdates])
	})

	t.Run("duplicate friends receive the status once", func(t *testing.T) {
		store := testutil.NewEntityStore()
		store.Put(key(bob), model.Properties{model.PropertyUpdates: "older"})
		service := New(store, dataTable, 4, testutil.MakeNoopLogger())

		report := service.Deliver(ctx, sender, "once", []model.Friend{bob, bob, bob})
		assert.Equal(Report{Delivered: 1}, report)
		assert.Equal("older\nonce", store.Props(key(bob))[model.PropertyUpdates])
		assert.Equal(1, store.WriteCount())
	})

	t.Run("no friends", func(t *testing.T) {
		service := New(testutil.NewEntityStore(), dataTable, 4, testutil.MakeNoopLogger())
		assert.Equal(Report{}, service.Deliver(ctx, sender, "alone", nil))
	})

	t.Run("many friends all attempted", func(t *testing.T) {
		store := testutil.NewEntityStore()
		friends := []model.Friend{}
		for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"} {
			friend := model.Friend{Country: "X", Name: name}
			store.Put(key(friend), model.Properties{})
			friends = append(friends, friend)
		}
		var mu sync.Mutex
		seen := map[model.RecordKey]int{}
		store.OnWrite = func(key model.RecordKey) {
			mu.Lock()
			seen[key]++
			mu.Unlock()
		}
		service := New(store, dataTable, 3, testutil.MakeNoopLogger())

		report := service.Deliver(ctx, sender, "to all", friends)
		assert.Equal(Report{Delivered: len(friends)}, report)
		for _, friend := range friends {
			assert.Equal(1, seen[key(friend)])
			assert.Equal("to all", store.Props(key(friend))[model.PropertyUpdates])
		}
	})
}
