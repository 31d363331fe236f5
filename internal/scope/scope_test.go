package scope

import (
	"errors"
	"strings"
	"testing"

	"github.com/jpetrucciani/beartype/internal/config"
)

func TestRegisterCoversSubtree(t *testing.T) {
	tree := New()
	if err := tree.Register(config.DefaultConf(), "geo.shapes"); err != nil {
		t.Fatalf("register: %v", err)
	}

	tests := []struct {
		name string
		want bool
	}{
		{"geo.shapes", true},
		{"geo.shapes.polygon", true},
		{"geo.shapes.polygon.convex", true},
		{"geo", false},
		{"geo.other", false},
		{"unrelated", false},
	}
	for _, tt := range tests {
		if got := tree.IsRegistered(tt.name); got != tt.want {
			t.Errorf("IsRegistered(%q) = %t, want %t", tt.name, got, tt.want)
		}
	}
}

func TestRegisterMultipleNames(t *testing.T) {
	tree := New()
	if err := tree.Register(config.DefaultConf(), "geo", "chaos.pit"); err != nil {
		t.Fatalf("register: %v", err)
	}
	for _, name := range []string{"geo", "geo.shapes", "chaos.pit", "chaos.pit.daemon"} {
		if !tree.IsRegistered(name) {
			t.Errorf("IsRegistered(%q) = false, want true", name)
		}
	}
	if tree.IsRegistered("chaos") {
		t.Error("IsRegistered(\"chaos\") = true, want false")
	}
}

func TestReregister(t *testing.T) {
	tree := New()
	if err := tree.Register(&config.Conf{IsDebug: true}, "geo"); err != nil {
		t.Fatalf("register: %v", err)
	}

	// A distinct but equal configuration is a silent no-op.
	if err := tree.Register(&config.Conf{IsDebug: true}, "geo"); err != nil {
		t.Fatalf("equal re-register: %v", err)
	}

	err := tree.Register(&config.Conf{IsDebug: false}, "geo")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("conflicting re-register: got %v, want ErrConflict", err)
	}
	if !strings.Contains(err.Error(), `package "geo"`) {
		t.Errorf("conflict error %q does not name the package", err)
	}
}

func TestPartialApplicationOnConflict(t *testing.T) {
	tree := New()
	if err := tree.Register(&config.Conf{IsDebug: true}, "geo"); err != nil {
		t.Fatalf("register: %v", err)
	}

	// The second name conflicts, but the first stays registered.
	err := tree.Register(&config.Conf{}, "fresh.pkg", "geo")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("got %v, want ErrConflict", err)
	}
	if !tree.IsRegistered("fresh.pkg") {
		t.Error("names applied before the conflict should stay registered")
	}
}

func TestValidationPrecedesMutation(t *testing.T) {
	tree := New()

	err := tree.Register(config.DefaultConf(), "ok.pkg", "bad..name")
	if !errors.Is(err, ErrInvalidName) {
		t.Fatalf("got %v, want ErrInvalidName", err)
	}
	if tree.IsRegistered("ok.pkg") {
		t.Error("no name should be registered when validation fails")
	}
}

func TestRegisterAll(t *testing.T) {
	tree := New()
	if err := tree.RegisterAll(&config.Conf{IsWarningOnly: true}); err != nil {
		t.Fatalf("register all: %v", err)
	}

	for _, name := range []string{"geo", "chaos.pit.daemon", "never.heard.of.it"} {
		if !tree.IsRegistered(name) {
			t.Errorf("IsRegistered(%q) = false, want true after RegisterAll", name)
		}
	}

	// Root registration configures the root node only; the top-level
	// segment index stays empty.
	if tree.IsAnyRegistered() {
		t.Error("IsAnyRegistered() = true, want false after RegisterAll alone")
	}

	if err := tree.RegisterAll(&config.Conf{IsWarningOnly: true}); err != nil {
		t.Fatalf("equal re-register all: %v", err)
	}
	if err := tree.RegisterAll(&config.Conf{}); err == nil || !errors.Is(err, ErrConflict) {
		t.Fatalf("conflicting re-register all: got %v, want ErrConflict", err)
	}
}

func TestIsAnyRegistered(t *testing.T) {
	tree := New()
	if tree.IsAnyRegistered() {
		t.Error("empty tree reports registrations")
	}
	if err := tree.Register(config.DefaultConf(), "geo"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if !tree.IsAnyRegistered() {
		t.Error("IsAnyRegistered() = false after Register")
	}
}

func TestConfFor(t *testing.T) {
	outer := &config.Conf{IsDebug: true}
	inner := &config.Conf{IsWarningOnly: true}
	tree := New()
	if err := tree.Register(outer, "a"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := tree.Register(inner, "a.b.c"); err != nil {
		t.Fatalf("register: %v", err)
	}

	tests := []struct {
		name string
		want *config.Conf
	}{
		{"a", outer},
		{"a.b", outer},
		{"a.b.c", inner},
		{"a.b.c.d", inner},
		{"z", nil},
	}
	for _, tt := range tests {
		if got := tree.ConfFor(tt.name); got != tt.want {
			t.Errorf("ConfFor(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}

	global := &config.Conf{}
	fallback := New()
	if err := fallback.RegisterAll(global); err != nil {
		t.Fatalf("register all: %v", err)
	}
	if got := fallback.ConfFor("anything"); got != global {
		t.Errorf("ConfFor falls back to the root configuration, got %v", got)
	}
}

func TestRegisterArgumentErrors(t *testing.T) {
	tree := New()

	if err := tree.Register(nil, "geo"); !errors.Is(err, ErrNilConf) {
		t.Errorf("nil conf: got %v, want ErrNilConf", err)
	}
	if err := tree.RegisterAll(nil); !errors.Is(err, ErrNilConf) {
		t.Errorf("nil conf for RegisterAll: got %v, want ErrNilConf", err)
	}
	if err := tree.Register(config.DefaultConf()); !errors.Is(err, ErrInvalidName) {
		t.Errorf("no names: got %v, want ErrInvalidName", err)
	}
	for _, bad := range []string{"", ".", "a.", ".a", "1geo", "geo-metry", "a b"} {
		if err := tree.Register(config.DefaultConf(), bad); !errors.Is(err, ErrInvalidName) {
			t.Errorf("name %q: got %v, want ErrInvalidName", bad, err)
		}
	}
}
