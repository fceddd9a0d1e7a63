package errors

import (
	"strings"
	"testing"
)

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "core", false},
		{"dotted", "pkg.layout.Bundled", false},
		{"path like", "internal/cli", false},
		{"unicode", "größe", false},
		{"spaces", "my node", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", MaxNodeIDLength+1), true},
		{"null byte", "a\x00b", true},
		{"newline", "a\nb", true},
		{"quote", `a"b`, true},
		{"backslash", `a\b`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidScene) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidScene)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative file", "scene.json", false},
		{"nested", "out/layouts/city.yaml", false},
		{"absolute", "/tmp/scene.json", false},
		{"inner dotdot", "a/../b.json", false},

		{"empty", "", true},
		{"escape", "../scene.json", true},
		{"only dotdot", "..", true},
		{"null byte", "a\x00b", true},
		{"too long", strings.Repeat("a", 5000), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{"json", "yaml", "yml", "dot", "svg", "JSON"} {
		if err := ValidateFormat(f); err != nil {
			t.Errorf("ValidateFormat(%q) error = %v", f, err)
		}
	}
	for _, f := range []string{"", "png", "toml"} {
		if err := ValidateFormat(f); !Is(err, ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) error = %v, want INVALID_FORMAT", f, err)
		}
	}
}

func TestValidateBackends(t *testing.T) {
	tests := []struct {
		name    string
		check   func(string) error
		input   string
		wantErr bool
	}{
		{"redis localhost", ValidateRedisAddr, "localhost:6379", false},
		{"redis port only", ValidateRedisAddr, ":6379", false},
		{"redis empty", ValidateRedisAddr, "", true},
		{"redis no port", ValidateRedisAddr, "localhost", true},
		{"redis url", ValidateRedisAddr, "redis://localhost:6379", true},
		{"mongo", ValidateMongoURI, "mongodb://localhost:27017", false},
		{"mongo srv", ValidateMongoURI, "mongodb+srv://cluster.example.com", false},
		{"mongo empty", ValidateMongoURI, "", true},
		{"mongo http", ValidateMongoURI, "http://localhost", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.check(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidConfig) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidConfig)
			}
		})
	}
}
