package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestEncode(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	data, err := Encode("dealroom.contacts.received", map[string]string{"id": "c1"}, at)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var env struct {
		Subject    string            `json:"subject"`
		OccurredAt time.Time         `json:"occurred_at"`
		Payload    map[string]string `json:"payload"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.Subject != "dealroom.contacts.received" || !env.OccurredAt.Equal(at) || env.Payload["id"] != "c1" {
		t.Errorf("envelope = %+v", env)
	}
}

func TestSubjectPrefix(t *testing.T) {
	if got := (&NATS{prefix: "dealroom"}).Subject(CompanyPromoted); got != "dealroom.companies.promoted" {
		t.Errorf("Subject = %q", got)
	}
	if got := (&NATS{}).Subject(CompanyPromoted); got != "companies.promoted" {
		t.Errorf("Subject without prefix = %q", got)
	}
}

func TestNopAndNilClose(t *testing.T) {
	Nop{}.Publish(context.Background(), ContactReceived, nil)
	var p *NATS
	if err := p.Close(); err != nil {
		t.Errorf("nil Close = %v", err)
	}
}

func TestRecorder(t *testing.T) {
	var r Recorder
	var p Publisher = &r
	p.Publish(context.Background(), RegistrationSubmitted, 1)
	p.Publish(context.Background(), CompanyPromoted, 2)
	got := r.Subjects()
	if len(got) != 2 || got[0] != RegistrationSubmitted || got[1] != CompanyPromoted {
		t.Errorf("Subjects = %v", got)
	}
}
