package natsrelay

import "testing"

func TestSubjectScheme(t *testing.T) {
	ch := &channel{cfg: DefaultConfig(), token: "AB23CD"}
	if got, want := ch.subject("to-host"), "netplay.AB23CD.to-host"; got != want {
		t.Fatalf("subject = %q, want %q", got, want)
	}
	if got, want := ch.subject("hello"), "netplay.AB23CD.hello"; got != want {
		t.Fatalf("subject = %q, want %q", got, want)
	}
}

func TestDirectionSubjects(t *testing.T) {
	d := &Dialer{Config: DefaultConfig()}
	host := &channel{cfg: d.Config, token: "ROOM42"}
	host.sendSubject = host.subject("to-client")
	host.recvSubject = host.subject("to-host")
	client := &channel{cfg: d.Config, token: "ROOM42"}
	client.sendSubject = client.subject("to-host")
	client.recvSubject = client.subject("to-client")

	if host.sendSubject != client.recvSubject {
		t.Fatalf("host send %q does not feed client recv %q", host.sendSubject, client.recvSubject)
	}
	if client.sendSubject != host.recvSubject {
		t.Fatalf("client send %q does not feed host recv %q", client.sendSubject, host.recvSubject)
	}
}

func TestConnectRejectsEmptyToken(t *testing.T) {
	d := &Dialer{}
	if _, err := d.connect("", true); err == nil {
		t.Fatal("expected error for empty room token")
	}
}
