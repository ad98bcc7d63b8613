package protocol

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestRoundTripAllVariants(t *testing.T) {
	msgs := []Message{
		Input{Frame: 5, Input: json.RawMessage(`{"ax":1,"boost":true}`)},
		State{Frame: 12, State: json.RawMessage(`{"pos":[3,4]}`)},
		PingRequest{SentTime: 1000},
		PingResponse{SentTime: 1000},
	}
	for _, m := range msgs {
		b, err := Encode(m)
		if err != nil {
			t.Fatalf("Encode(%#v): %v", m, err)
		}
		got, err := Decode(b)
		if err != nil {
			t.Fatalf("Decode(%s): %v", b, err)
		}
		if !reflect.DeepEqual(got, m) {
			t.Fatalf("round trip mismatch: sent %#v got %#v", m, got)
		}
	}
}

func TestWireFieldNames(t *testing.T) {
	b, err := Encode(Input{Frame: 5, Input: json.RawMessage(`{"x":1}`)})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	for _, field := range []string{"type", "frame", "input"} {
		if _, ok := raw[field]; !ok {
			t.Fatalf("input envelope missing field %q: %s", field, b)
		}
	}

	b, err = Encode(PingRequest{SentTime: 123})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	raw = nil
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if string(raw["type"]) != `"ping-req"` {
		t.Fatalf("ping-req type tag = %s", raw["type"])
	}
	if _, ok := raw["sent_time"]; !ok {
		t.Fatalf("ping-req envelope missing sent_time: %s", b)
	}
}

func TestDecodeUnknownTag(t *testing.T) {
	_, err := Decode([]byte(`{"type":"resync-hint","frame":9}`))
	if !errors.Is(err, ErrUnknownType) {
		t.Fatalf("unknown tag: got err %v, want ErrUnknownType", err)
	}
}

func TestDecodeGarbage(t *testing.T) {
	if _, err := Decode(nil); err == nil {
		t.Fatalf("decoding empty envelope should fail")
	}
	if _, err := Decode([]byte(`{not json`)); err == nil {
		t.Fatalf("decoding malformed JSON should fail")
	}
}
