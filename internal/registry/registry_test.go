package registry

import (
	"testing"

	"github.com/vovakirdan/tui-tetrics/internal/core"
)

type fakeGame struct{ id string }

func (g fakeGame) ID() string { return g.id }
func (g fakeGame) Title() string { return "Fake " + g.id }
func (g fakeGame) Reset(core.RuntimeConfig) {}
func (g fakeGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (g fakeGame) Render(*core.Screen) {}
func (g fakeGame) State() core.GameState { return core.GameState{} }

func TestRegisterAndCreate(t *testing.T) {
	Register("zz_b", func() Game { return fakeGame{id: "zz_b"} })
	Register("zz_a", func() Game { return fakeGame{id: "zz_a"} })

	info, ok := Lookup("zz_a")
	if !ok || info.Title != "Fake zz_a" {
		t.Fatalf("unexpected lookup result %+v, %v", info, ok)
	}

	var ids []string
	for _, g := range List() {
		ids = append(ids, g.ID)
	}
	posA, posB := -1, -1
	for i, id := range ids {
		switch id {
		case "zz_a":
			posA = i
		case "zz_b":
			posB = i
		}
	}
	if posA < 0 || posB < 0 || posA > posB {
		t.Errorf("List should be sorted by ID, got %v", ids)
	}

	g, err := Create("zz_b")
	if err != nil || g.ID() != "zz_b" {
		t.Fatalf("Create: %v, %v", g, err)
	}
	if _, err := Create("missing"); err == nil {
		t.Error("unknown id should fail")
	}
	if Exists("missing") {
		t.Error("Exists reported an unknown id")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("zz_dup", func() Game { return fakeGame{id: "zz_dup"} })
	defer func() {
		if recover() == nil {
			t.Error("duplicate registration should panic")
		}
	}()
	Register("zz_dup", func() Game { return fakeGame{id: "zz_dup"} })
}
