package connectjson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type message struct {
	TaskID  string   `json:"task_id"`
	UserIDs []string `json:"user_ids"`
}

func TestCodec(t *testing.T) {
	c := Codec{}
	assert.Equal(t, "json", c.Name())

	data, err := c.Marshal(&message{TaskID: "T1", UserIDs: []string{"U1"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"task_id":"T1","user_ids":["U1"]}`, string(data))

	var got message
	require.NoError(t, c.Unmarshal(data, &got))
	assert.Equal(t, "T1", got.TaskID)

	var empty message
	require.NoError(t, c.Unmarshal(nil, &empty))
	assert.Equal(t, message{}, empty)

	assert.Error(t, c.Unmarshal([]byte(`{"unknown":1}`), &empty))
}
