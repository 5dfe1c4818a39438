package inspect

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/strandui/strand/pkg/component"
	"github.com/strandui/strand/pkg/scheduler"
)

type leafProps struct{}

func (leafProps) TypeName() string         { return "leaf" }
func (p leafProps) Clone() component.Props { return p }

type leaf struct{}

func (leaf) Mount() error                      { return nil }
func (leaf) Update(component.Props) error      { return nil }
func (leaf) Unmount() error                    { return nil }
func (leaf) Render() ([]component.Node, error) { return nil, nil }

func buildTestTree(t *testing.T) (*component.Tree, component.ID, component.ID) {
	t.Helper()
	tree := component.NewTree()
	root, err := tree.AddComponent(component.NewInstance(leaf{}, leafProps{}))
	if err != nil {
		t.Fatal(err)
	}
	child, err := tree.AddComponent(component.NewInstance(leaf{}, leafProps{}))
	if err != nil {
		t.Fatal(err)
	}
	if err := tree.AddChild(root, child); err != nil {
		t.Fatal(err)
	}
	if err := tree.SetRoot(root); err != nil {
		t.Fatal(err)
	}
	if err := tree.MountTree(context.Background(), root); err != nil {
		t.Fatal(err)
	}
	return tree, root, child
}

func TestTreeEndpoint(t *testing.T) {
	tree, root, child := buildTestTree(t)
	srv := httptest.NewServer(NewServer(tree).Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/api/tree")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var dump treeDump
	if err := json.NewDecoder(resp.Body).Decode(&dump); err != nil {
		t.Fatal(err)
	}
	if dump.Root != uint64(root) {
		t.Errorf("expected root %d, got %d", root, dump.Root)
	}
	if len(dump.Components) != 2 {
		t.Fatalf("expected 2 components, got %d", len(dump.Components))
	}
	for _, node := range dump.Components {
		if node.Phase != "mounted" {
			t.Errorf("expected mounted, got %q", node.Phase)
		}
		if node.ID == uint64(child) && node.Parent != uint64(root) {
			t.Errorf("expected child parent %d, got %d", root, node.Parent)
		}
	}
}

func TestSchedulerEndpoint(t *testing.T) {
	tree, root, _ := buildTestTree(t)
	mgr, err := tree.Manager(root)
	if err != nil {
		t.Fatal(err)
	}
	mgr.Context().RequestUpdate()

	srv := httptest.NewServer(NewServer(tree).Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/api/scheduler")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var st schedulerState
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatal(err)
	}
	if st.PendingCount != 1 {
		t.Errorf("expected 1 pending, got %d", st.PendingCount)
	}
	if st.Draining {
		t.Error("no drain should be in progress")
	}
}

func waitForClient(t *testing.T, hub *Hub) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("websocket client never registered")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestWebSocketStreamsEvents(t *testing.T) {
	tree, _, _ := buildTestTree(t)
	hub := NewHub()
	srv := httptest.NewServer(NewServer(tree, WithHub(hub)).Handler())
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	// Registration happens on the server goroutine right after the
	// upgrade; wait until it lands.
	waitForClient(t, hub)

	hub.UpdateScheduled(42, scheduler.PriorityHigh)

	var msg EventMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if msg.Type != "update_scheduled" || msg.ComponentID != 42 || msg.Priority != "high" {
		t.Errorf("unexpected message %+v", msg)
	}
}

func TestHubDropsDisconnectedClients(t *testing.T) {
	tree, _, _ := buildTestTree(t)
	hub := NewHub()
	srv := httptest.NewServer(NewServer(tree, WithHub(hub)).Handler())
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	waitForClient(t, hub)
	conn.Close()

	// Broadcasting to a closed connection evicts it.
	for i := 0; i < 100 && hub.ClientCount() > 0; i++ {
		hub.UpdateScheduled(1, scheduler.PriorityLow)
	}
	if hub.ClientCount() != 0 {
		t.Errorf("expected closed client to be dropped, %d still registered", hub.ClientCount())
	}
}
