package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gridview/internal/codec"
	"gridview/internal/service"
)

const diamond = `
diagram:
  nodes:
    - {id: A, type: generator, label: A}
    - {id: B, type: bus, label: B}
    - {id: C, type: bus, label: C}
    - {id: D, type: load, label: D}
  links:
    - {source: A, target: B}
    - {source: A, target: C}
    - {source: B, target: D}
    - {source: C, target: D}
  groups:
    - {id: mid, label: Middle, members: [B, C]}
`

func runCmd(t *testing.T, args ...string) error {
	t.Helper()
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&strings.Builder{})
	root.SetErr(&strings.Builder{})
	return root.ExecuteContext(context.Background())
}

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "diamond.yaml")
	if err := os.WriteFile(path, []byte(diamond), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestViewCommand(t *testing.T) {
	in := writeFixture(t)

	tests := []struct {
		name      string
		args      []string
		kind      string
		nodes     int
		links     int
		wantShape bool
	}{
		{"default", nil, "default", 4, 4, false},
		{"trace", []string{"--trace", "D"}, "trace", 4, 4, false},
		{"focus fixed", []string{"--focus", "mid", "--fixed"}, "focus", 4, 4, true},
		{"trace beats focus", []string{"--focus", "mid", "--trace", "A"}, "trace", 1, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "view.json")
			args := append([]string{"view", in, "-o", out}, tt.args...)
			if err := runCmd(t, args...); err != nil {
				t.Fatalf("view: %v", err)
			}

			data, err := os.ReadFile(out)
			if err != nil {
				t.Fatal(err)
			}
			var result service.ViewResult
			if err := json.Unmarshal(data, &result); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if string(result.Kind) != tt.kind || len(result.Nodes) != tt.nodes || len(result.Links) != tt.links {
				t.Errorf("got kind=%s nodes=%d links=%d", result.Kind, len(result.Nodes), len(result.Links))
			}
			if _, ok := result.Shapes["mid"]; ok != tt.wantShape {
				t.Errorf("shape present = %v, want %v", ok, tt.wantShape)
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		if err := runCmd(t, "view", filepath.Join(t.TempDir(), "nope.json")); err == nil {
			t.Error("expected error")
		}
	})
}

func TestLayoutCommand(t *testing.T) {
	in := writeFixture(t)
	out := filepath.Join(t.TempDir(), "laid-out.json")

	if err := runCmd(t, "layout", in, "-o", out, "-f", "json"); err != nil {
		t.Fatalf("layout: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	snapshot, err := codec.NewJSONCodec().Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	d := snapshot.Diagram()
	a, _ := d.GetNode("A")
	dn, _ := d.GetNode("D")
	if a.Position == nil || dn.Position == nil {
		t.Fatal("expected positions on every node")
	}
	if a.Position.Y != 0 || dn.Position.Y != 240 {
		t.Errorf("A.y=%v D.y=%v, want 0 and 240", a.Position.Y, dn.Position.Y)
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "gridview.toml")

	if err := runCmd(t, "config", "init", path); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if err := runCmd(t, "config", "init", path); err == nil {
		t.Error("expected error when file exists")
	}
	if err := runCmd(t, "config", "show", "-c", path); err != nil {
		t.Errorf("config show: %v", err)
	}
}

func TestViewCommand_Table(t *testing.T) {
	in := writeFixture(t)
	out := filepath.Join(t.TempDir(), "view.txt")

	if err := runCmd(t, "view", in, "--focus", "mid", "--table", "-o", out); err != nil {
		t.Fatalf("view: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	for _, want := range []string{"ghost", "focus view", "4 links (4 boundary)", "Middle"} {
		if !strings.Contains(text, want) {
			t.Errorf("table output missing %q:\n%s", want, text)
		}
	}
}
