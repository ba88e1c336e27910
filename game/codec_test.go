package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEventEnvelope(t *testing.T) {
	plan := &BattlePlan{EventHead: EventHead{Initiator: Red}, Leader: 3, Forces: 2, Weapon: 7}
	data, err := MarshalEvent(plan)
	require.NoError(t, err)
	require.Contains(t, string(data), `"type":"BattlePlan"`)
	require.Contains(t, string(data), `"initiator":"Red"`)

	e, err := UnmarshalEvent(data)
	require.NoError(t, err)
	require.Equal(t, plan, e)

	voice := &Voice{EventHead: EventHead{Initiator: Blue}, Must: true, Type: PoisonDefense}
	data, err = MarshalEvent(voice)
	require.NoError(t, err)
	e, err = UnmarshalEvent(data)
	require.NoError(t, err)
	require.Equal(t, voice, e)
}

func TestUnknownEventKind(t *testing.T) {
	_, err := UnmarshalEvent([]byte(`{"type":"Teleport","event":{}}`))
	require.ErrorContains(t, err, "Teleport")

	_, err = UnmarshalEvent([]byte(`not json`))
	require.Error(t, err)

	_, err = NewEvent("")
	require.Error(t, err)
}

func TestEveryKindHasAFactory(t *testing.T) {
	for kind := range eventFactories {
		e, err := NewEvent(kind)
		require.NoError(t, err)
		require.Equal(t, kind, e.Kind())
	}
}
