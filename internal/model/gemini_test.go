package model

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/genai"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"quota", errors.New("Error 429: quota exceeded for metric"), ErrQuotaExceeded},
		{"resource_exhausted", errors.New("rpc error: code = RESOURCE_EXHAUSTED"), ErrQuotaExceeded},
		{"not_found", errors.New("rpc error: code = NOT_FOUND desc = model missing"), ErrModelUnavailable},
		{"status_404", errors.New("Error 404: model gemini-9.9 was not found"), ErrModelUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyError(tt.err); !errors.Is(got, tt.want) {
				t.Errorf("classifyError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestClassifyErrorPassthrough(t *testing.T) {
	orig := errors.New("connection reset by peer")
	got := classifyError(orig)
	if errors.Is(got, ErrQuotaExceeded) || errors.Is(got, ErrModelUnavailable) {
		t.Errorf("ordinary error should not be classified, got %v", got)
	}
	if !errors.Is(got, orig) {
		t.Errorf("ordinary error should pass through, got %v", got)
	}
}

func TestGenaiRole(t *testing.T) {
	if got := genaiRole(RoleModel); got != genai.RoleModel {
		t.Errorf("genaiRole(%q) = %q, want %q", RoleModel, got, genai.RoleModel)
	}
	if got := genaiRole(RoleUser); got != genai.RoleUser {
		t.Errorf("genaiRole(%q) = %q, want %q", RoleUser, got, genai.RoleUser)
	}
	// Content construction must accept the mapped role without conversion.
	c := genai.NewContentFromText("hello", genaiRole(RoleUser))
	if c.Role != string(genai.RoleUser) {
		t.Errorf("content role = %q, want %q", c.Role, genai.RoleUser)
	}
}

func TestNewGeminiBackendRequiresKey(t *testing.T) {
	if _, err := NewGeminiBackend(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty API key")
	}
}
