// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package wire

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/meshakt/address"
	gerrors "github.com/tochemey/meshakt/errors"
)

func TestEnvelope(t *testing.T) {
	t.Run("With actorsAvailable", func(t *testing.T) {
		record := ActorRecord{
			Type: "app.Counter",
			ID:   address.New("alpha"),
			Tag:  []byte("display"),
		}
		payload, err := Encode(NewActorsAvailable([]ActorRecord{record}))
		require.NoError(t, err)

		var raw map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(payload, &raw))
		assert.JSONEq(t, `"meshakt"`, string(raw["__data_tag__"]))
		assert.Contains(t, raw, "value")

		message, ok, err := Decode(payload)
		require.NoError(t, err)
		require.True(t, ok)
		require.NotNil(t, message.ActorsAvailable)
		require.Len(t, message.ActorsAvailable.Actors, 1)
		assert.Equal(t, record, message.ActorsAvailable.Actors[0])
	})
	t.Run("With empty actorsAvailable", func(t *testing.T) {
		payload, err := Encode(NewActorsAvailable(nil))
		require.NoError(t, err)

		message, ok, err := Decode(payload)
		require.NoError(t, err)
		require.True(t, ok)
		require.NotNil(t, message.ActorsAvailable)
		assert.Empty(t, message.ActorsAvailable.Actors)
	})
	t.Run("With performRemoteCall", func(t *testing.T) {
		callID := uuid.New()
		target := address.New("beta")
		returnType := "int"
		container := RemoteCallContainer{
			MethodIdentifier:     "Add",
			Arguments:            [][]byte{[]byte("1"), []byte("2")},
			GenericSubstitutions: []string{"int"},
			ReturnType:           &returnType,
			Throws:               true,
		}

		payload, err := Encode(NewPerformRemoteCall(callID, target, container))
		require.NoError(t, err)

		message, ok, err := Decode(payload)
		require.NoError(t, err)
		require.True(t, ok)
		require.NotNil(t, message.PerformRemoteCall)
		assert.Equal(t, callID, message.PerformRemoteCall.CallID)
		assert.Equal(t, target, message.PerformRemoteCall.TargetActorID)
		assert.Equal(t, container, message.PerformRemoteCall.Container)
	})
	t.Run("With remoteCallResponse variants", func(t *testing.T) {
		responses := []Response{
			Success([]byte(`42`)),
			VoidSuccess(),
			WrappingError("app.Err", []byte(`{"code":1}`)),
			NonCodableError("*errors.errorString", "boom"),
			SystemFailure(),
		}
		for _, response := range responses {
			callID := uuid.New()
			payload, err := Encode(NewRemoteCallResponse(callID, response))
			require.NoError(t, err)

			message, ok, err := Decode(payload)
			require.NoError(t, err)
			require.True(t, ok)
			require.NotNil(t, message.RemoteCallResponse)
			assert.Equal(t, callID, message.RemoteCallResponse.CallID)
			assert.Equal(t, response, message.RemoteCallResponse.Response)
		}
	})
	t.Run("With invalid message to encode", func(t *testing.T) {
		_, err := Encode(nil)
		require.ErrorIs(t, err, gerrors.ErrInvalidEnvelope)

		_, err = Encode(&Message{})
		require.ErrorIs(t, err, gerrors.ErrInvalidEnvelope)

		_, err = Encode(&Message{
			ActorsAvailable:    &ActorsAvailable{},
			RemoteCallResponse: &RemoteCallResponse{Response: VoidSuccess()},
		})
		require.ErrorIs(t, err, gerrors.ErrInvalidEnvelope)
	})
	t.Run("With foreign payloads passed through", func(t *testing.T) {
		foreign := [][]byte{
			nil,
			[]byte("hello"),
			[]byte(`[1,2,3]`),
			[]byte(`{"value":{}}`),
			[]byte(`{"__data_tag__":"other","value":{}}`),
			[]byte(`{"__data_tag__":42,"value":{}}`),
			[]byte(`{"broken"`),
		}
		for _, payload := range foreign {
			message, ok, err := Decode(payload)
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Nil(t, message)
		}
	})
	t.Run("With malformed tagged payloads", func(t *testing.T) {
		malformed := [][]byte{
			[]byte(`{"__data_tag__":"meshakt"}`),
			[]byte(`{"__data_tag__":"meshakt","value":"nope"}`),
			[]byte(`{"__data_tag__":"meshakt","value":{}}`),
			[]byte(`{"__data_tag__":"meshakt","value":{"remoteCallResponse":{"callID":"` + uuid.NewString() + `","response":{"kind":"weird"}}}}`),
		}
		for _, payload := range malformed {
			_, ok, err := Decode(payload)
			assert.True(t, ok)
			assert.ErrorIs(t, err, gerrors.ErrInvalidEnvelope)
		}
	})
}
