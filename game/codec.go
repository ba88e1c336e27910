package game

import (
	"encoding/json"
	"fmt"
)

var eventFactories = map[EventKind]func() Event{
	KindBattleInitiated:           func() Event { return &BattleInitiated{} },
	KindBattlePlan:                func() Event { return &BattlePlan{} },
	KindBattleRevision:            func() Event { return &BattleRevision{} },
	KindVoice:                     func() Event { return &Voice{} },
	KindPrescience:                func() Event { return &Prescience{} },
	KindTreacheryCalled:           func() Event { return &TreacheryCalled{} },
	KindRetreat:                   func() Event { return &Retreat{} },
	KindPoisonToothCancelled:      func() Event { return &PoisonToothCancelled{} },
	KindPortableAntidoteUsed:      func() Event { return &PortableAntidoteUsed{} },
	KindStrongholdAdvantageChosen: func() Event { return &StrongholdAdvantageChosen{} },
	KindJuicePlayed:               func() Event { return &JuicePlayed{} },
	KindResidualPlayed:            func() Event { return &ResidualPlayed{} },
	KindCaptureDecided:            func() Event { return &CaptureDecided{} },
	KindAuditCancelled:            func() Event { return &AuditCancelled{} },
	KindAudited:                   func() Event { return &Audited{} },
	KindBattleConcluded:           func() Event { return &BattleConcluded{} },
	KindFaceDanced:                func() Event { return &FaceDanced{} },
	KindAdvantagePrevented:        func() Event { return &AdvantagePrevented{} },
	KindEndPhase:                  func() Event { return &EndPhase{} },
	KindGameEnded:                 func() Event { return &GameEnded{} },
}

// NewEvent returns an empty event of the given kind, ready to be decoded into.
func NewEvent(kind EventKind) (Event, error) {
	f, ok := eventFactories[kind]
	if !ok {
		return nil, fmt.Errorf("unknown event kind %q", kind)
	}
	return f(), nil
}

type envelope struct {
	Type  EventKind       `json:"type"`
	Event json.RawMessage `json:"event"`
}

// MarshalEvent encodes e with its kind so that UnmarshalEvent can restore the variant.
func MarshalEvent(e Event) ([]byte, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", e.Kind(), err)
	}
	return json.Marshal(envelope{Type: e.Kind(), Event: body})
}

func UnmarshalEvent(data []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal event envelope: %w", err)
	}
	e, err := NewEvent(env.Type)
	if err != nil {
		return nil, err
	}
	if len(env.Event) > 0 {
		if err := json.Unmarshal(env.Event, e); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", env.Type, err)
		}
	}
	return e, nil
}
