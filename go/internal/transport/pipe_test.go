package transport

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPipeDeliversInOrder(t *testing.T) {
	a, b := Pipe()
	defer a.Close()
	defer b.Close()

	ctx := context.Background()
	for _, payload := range []string{"one", "two", "three"} {
		if err := a.Send(ctx, []byte(payload)); err != nil {
			t.Fatalf("Send(%q): %v", payload, err)
		}
	}
	for _, want := range []string{"one", "two", "three"} {
		select {
		case got := <-b.Receive():
			if string(got) != want {
				t.Fatalf("received %q, want %q", got, want)
			}
		case <-time.After(time.Second):
			t.Fatalf("payload %q never arrived", want)
		}
	}
}

func TestPipeSignalsPeerJoined(t *testing.T) {
	a, b := Pipe()
	defer a.Close()
	defer b.Close()

	for _, ch := range []Channel{a, b} {
		select {
		case ev := <-ch.Events():
			if ev.Kind != PeerJoined {
				t.Fatalf("first event = %v, want PeerJoined", ev.Kind)
			}
		case <-time.After(time.Second):
			t.Fatalf("no PeerJoined event")
		}
	}
}

func TestPipeCloseNotifiesPeer(t *testing.T) {
	a, b := Pipe()
	<-a.Events()
	<-b.Events()

	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	select {
	case ev := <-b.Events():
		if ev.Kind != PeerLeft {
			t.Fatalf("event after peer close = %v, want PeerLeft", ev.Kind)
		}
	case <-time.After(time.Second):
		t.Fatalf("no PeerLeft event")
	}

	if err := a.Send(context.Background(), []byte("x")); !errors.Is(err, ErrChannelClosed) {
		t.Fatalf("Send after close = %v, want ErrChannelClosed", err)
	}
}

func TestPipeSendCopiesBuffer(t *testing.T) {
	a, b := Pipe()
	defer a.Close()
	defer b.Close()

	buf := []byte("original")
	if err := a.Send(context.Background(), buf); err != nil {
		t.Fatalf("Send: %v", err)
	}
	copy(buf, "clobber!")
	got := <-b.Receive()
	if string(got) != "original" {
		t.Fatalf("received %q, want %q", got, "original")
	}
}
