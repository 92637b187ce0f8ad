package manifest

import (
	"errors"
	"strings"
	"testing"
)

// ============================================================================
// MANIFEST TESTS — Validation, defaults, feature implication
// ============================================================================

func TestValidateFillsDefaults(t *testing.T) {
	p := &Project{Name: "word-counter", Features: []Feature{FeatureWebSocket}}
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if p.ObjectName != "WordCounter" {
		t.Errorf("ObjectName = %q, want WordCounter", p.ObjectName)
	}
	if p.CompatibilityDate == "" {
		t.Error("CompatibilityDate not defaulted")
	}
	if p.Patch.Branch != "scaffold/word-counter" {
		t.Errorf("Patch.Branch = %q", p.Patch.Branch)
	}
	if p.Patch.CreateBranch == nil || !*p.Patch.CreateBranch {
		t.Error("Patch.CreateBranch should default to true")
	}
	if p.Patch.Title == "" || p.Patch.Description == "" {
		t.Error("patch title/description not defaulted")
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		project Project
		wantErr error
	}{
		{"empty name", Project{}, ErrInvalidProjectName},
		{"uppercase name", Project{Name: "WordCounter"}, ErrInvalidProjectName},
		{"name with space", Project{Name: "word counter"}, ErrInvalidProjectName},
		{"unknown feature", Project{Name: "ok", Features: []Feature{"kv-cache"}}, ErrUnknownFeature},
		{"bad date", Project{Name: "ok", CompatibilityDate: "01/02/2026"}, ErrInvalidCompatDate},
		{"bad object name", Project{Name: "ok", ObjectName: "lowerCase"}, ErrInvalidObjectName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.project.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestHasFeatureImpliesObject(t *testing.T) {
	for _, f := range []Feature{FeatureAlarm, FeatureWebSocket, FeatureSQL, FeatureRPC} {
		p := &Project{Name: "demo", Features: []Feature{f}}
		if !p.HasFeature(FeatureDurableObject) {
			t.Errorf("%s should imply durable-object", f)
		}
	}

	stateless := &Project{Name: "demo"}
	if stateless.HasFeature(FeatureDurableObject) {
		t.Error("featureless project should be stateless")
	}
}

func TestDeriveObjectName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"word-counter", "WordCounter"},
		{"api", "Api"},
		{"a-b-c", "ABC"},
	}
	for _, tt := range tests {
		if got := DeriveObjectName(tt.in); got != tt.want {
			t.Errorf("DeriveObjectName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadYAML(t *testing.T) {
	data := []byte(`
name: chat-room
description: A chat room backed by one object per room.
objectName: ChatRoom
compatibilityDate: "2026-08-01"
features:
  - websocket
  - alarm
patch:
  branch: feat/chat-room
  title: Add chat room worker
`)
	p, err := Load(data)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if p.Name != "chat-room" || p.ObjectName != "ChatRoom" {
		t.Errorf("identity wrong: %+v", p)
	}
	if !p.HasFeature(FeatureWebSocket) || !p.HasFeature(FeatureAlarm) {
		t.Errorf("features wrong: %v", p.Features)
	}
	if p.Patch.Branch != "feat/chat-room" {
		t.Errorf("explicit patch branch overridden: %q", p.Patch.Branch)
	}
	if p.Patch.Description == "" {
		t.Error("omitted patch description not defaulted")
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	_, err := Load([]byte("name: [unclosed"))
	if !errors.Is(err, ErrManifestParse) {
		t.Errorf("want ErrManifestParse, got %v", err)
	}

	_, err = Load([]byte("name: Bad Name"))
	if !errors.Is(err, ErrInvalidProjectName) {
		t.Errorf("want ErrInvalidProjectName, got %v", err)
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile("does/not/exist.yaml")
	if !errors.Is(err, ErrManifestNotFound) {
		t.Errorf("want ErrManifestNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "does/not/exist.yaml") {
		t.Errorf("error should name the path: %v", err)
	}
}
