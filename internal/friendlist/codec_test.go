package friendlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"uk.co.dudmesh.napbook/internal/model"
)

func TestDecode(t *testing.T) {
	assert := assert.New(t)

	t.Run("empty", func(t *testing.T) {
		friends := Decode("")
		assert.NotNil(friends)
		assert.Empty(friends)
	})

	t.Run("two entries keep their order", func(t *testing.T) {
		friends := Decode("Canada;Cruz,Ted|USA;Clinton,Hillary")
		assert.Equal([]model.Friend{
			{Country: "Canada", Name: "Cruz,Ted"},
			{Country: "USA", Name: "Clinton,Hillary"},
		}, friends)
	})

	t.Run("empty segments are skipped", func(t *testing.T) {
		friends := Decode("|C1;F1||")
		assert.Equal([]model.Friend{{Country: "C1", Name: "F1"}}, friends)
	})

	t.Run("entry without field separator", func(t *testing.T) {
		friends := Decode("Nowhere")
		assert.Equal([]model.Friend{{Country: "Nowhere"}}, friends)
	})
}

func TestEncode(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("", Encode(nil))
	assert.Equal("", Encode([]model.Friend{}))
	assert.Equal("C1;F1|C2;F2", Encode([]model.Friend{
		{Country: "C1", Name: "F1"},
		{Country: "C2", Name: "F2"},
	}))
}

func TestRoundTrip(t *testing.T) {
	lists := [][]model.Friend{
		{},
		{{Country: "USA", Name: "Clinton,Hillary"}},
		{{Country: "B", Name: "2"}, {Country: "A", Name: "1"}, {Country: "C", Name: "3"}},
		{{Country: "Zimbabwe", Name: "Bob"}, {Country: "Zimbabwe", Name: "Bob Jr."}},
	}
	for _, friends := range lists {
		assert.Equal(t, friends, Decode(Encode(friends)))
	}
}

func TestAppend(t *testing.T) {
	assert := assert.New(t)
	friend := model.Friend{Country: "C1", Name: "F1"}

	friends, changed := Append(nil, friend)
	assert.True(changed)
	assert.Len(friends, 1)

	friends, changed = Append(friends, friend)
	assert.False(changed)
	assert.Len(friends, 1)

	friends, changed = Append(friends, model.Friend{Country: "C2", Name: "F1"})
	assert.True(changed)
	assert.Equal("C1;F1|C2;F1", Encode(friends))
}

func TestRemove(t *testing.T) {
	assert := assert.New(t)
	f1 := model.Friend{Country: "C1", Name: "F1"}
	f2 := model.Friend{Country: "C2", Name: "F2"}

	friends, removed := Remove([]model.Friend{f1, f2, f1}, f1)
	assert.Equal(2, removed)
	assert.Equal([]model.Friend{f2}, friends)

	friends, removed = Remove(friends, f1)
	assert.Equal(0, removed)
	assert.Equal([]model.Friend{f2}, friends)
}

func TestValid(t *testing.T) {
	assert := assert.New(t)

	assert.True(Valid(model.Friend{Country: "USA", Name: "Clinton,Hillary"}))
	assert.False(Valid(model.Friend{Country: "USA"}))
	assert.False(Valid(model.Friend{Country: "US;A", Name: "x"}))
	assert.False(Valid(model.Friend{Country: "USA", Name: "a|b"}))
}
