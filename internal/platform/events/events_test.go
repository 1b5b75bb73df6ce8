package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"

	"resource_hub/internal/platform/logger"
)

func runServer(t *testing.T) *server.Server {
	t.Helper()
	ns, err := server.NewServer(&server.Options{Host: "127.0.0.1", Port: -1, NoLog: true, NoSigs: true})
	if err != nil {
		t.Fatalf("nats server: %v", err)
	}
	go ns.Start()
	if !ns.ReadyForConnections(5 * time.Second) {
		t.Fatal("nats server did not start")
	}
	t.Cleanup(ns.Shutdown)
	return ns
}

func TestNATSPublisherDeliversEnvelope(t *testing.T) {
	ns := runServer(t)

	sub, err := nats.Connect(ns.ClientURL())
	if err != nil {
		t.Fatal(err)
	}
	defer sub.Close()
	inbox, err := sub.SubscribeSync("resourcehub.>")
	if err != nil {
		t.Fatal(err)
	}
	if err := sub.Flush(); err != nil {
		t.Fatal(err)
	}

	pub, err := Connect(ns.ClientURL(), "resourcehub", logger.Discard())
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer pub.Close()

	payload := map[string]string{"id": "r1", "status": "approved"}
	if err := pub.Publish(context.Background(), RequestStatusChanged, payload); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	msg, err := inbox.NextMsg(2 * time.Second)
	if err != nil {
		t.Fatalf("NextMsg: %v", err)
	}
	if msg.Subject != "resourcehub.request.status_changed" {
		t.Errorf("subject = %q", msg.Subject)
	}
	var env Envelope
	if err := json.Unmarshal(msg.Data, &env); err != nil {
		t.Fatal(err)
	}
	if env.Event != RequestStatusChanged {
		t.Errorf("event = %q", env.Event)
	}
	var got map[string]string
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatal(err)
	}
	if got["status"] != "approved" {
		t.Errorf("data = %v", got)
	}
}

func TestConnectWithoutURLIsNoop(t *testing.T) {
	pub, err := Connect("", "resourcehub", logger.Discard())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := pub.(Noop); !ok {
		t.Fatalf("publisher = %T, want Noop", pub)
	}
	if err := pub.Publish(context.Background(), ResourceCreated, nil); err != nil {
		t.Errorf("noop publish: %v", err)
	}
}

func TestRecorder(t *testing.T) {
	rec := &Recorder{}
	_ = rec.Publish(context.Background(), ResourceDeleted, map[string]string{"id": "x"})
	if got := rec.Names(); len(got) != 1 || got[0] != ResourceDeleted {
		t.Errorf("names = %v", got)
	}
}
