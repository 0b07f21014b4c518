package jsonx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point struct {
	X int `json:"x"`
	Y int `json:"y,omitempty"`
}

func TestSplit(t *testing.T) {
	var p point
	extra, err := Split([]byte(`{"x":1,"y":2,"label":"a","tags":[1,2]}`), &p, "x", "y")
	require.NoError(t, err)

	assert.Equal(t, point{X: 1, Y: 2}, p)
	assert.Len(t, extra, 2)
	assert.JSONEq(t, `"a"`, string(extra["label"]))
	assert.JSONEq(t, `[1,2]`, string(extra["tags"]))
}

func TestSplitNothingLeft(t *testing.T) {
	var p point
	extra, err := Split([]byte(`{"x":1}`), &p, "x", "y")
	require.NoError(t, err)
	assert.Nil(t, extra)

	extra, err = Split([]byte(`null`), &p, "x", "y")
	require.NoError(t, err)
	assert.Nil(t, extra)
}

func TestSplitMalformed(t *testing.T) {
	var p point
	_, err := Split([]byte(`{"x":"one"}`), &p, "x", "y")
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	out, err := Merge(point{X: 1}, Extra{"label": []byte(`"a"`), "x": []byte(`9`)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"x":1,"label":"a"}`, string(out))

	out, err = Merge(point{X: 1, Y: 2}, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"x":1,"y":2}`, string(out))
}
