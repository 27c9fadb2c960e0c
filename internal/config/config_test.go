package config

import (
	"os"
	"testing"
	"time"
)

func TestMustPositiveInt(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		def       int
		expected  int
		wantPanic bool
	}{
		{
			name:     "valid positive integer",
			key:      "TEST_POS_INT",
			value:    "45",
			def:      30,
			expected: 45,
		},
		{
			name:      "zero panics",
			key:       "TEST_POS_INT_ZERO",
			value:     "0",
			def:       30,
			wantPanic: true,
		},
		{
			name:      "negative panics",
			key:       "TEST_POS_INT_NEG",
			value:     "-5",
			def:       30,
			wantPanic: true,
		},
		{
			name:     "missing variable uses default",
			key:      "TEST_POS_INT_MISSING",
			value:    "",
			def:      30,
			expected: 30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				if err := os.Setenv(tt.key, tt.value); err != nil {
					t.Fatalf("failed to set env var: %v", err)
				}
				defer func() {
					if err := os.Unsetenv(tt.key); err != nil {
						t.Errorf("failed to unset env var: %v", err)
					}
				}()
			}

			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("mustPositiveInt() should have panicked")
					}
				}()
			}

			result := mustPositiveInt(tt.key, tt.def)
			if !tt.wantPanic && result != tt.expected {
				t.Errorf("mustPositiveInt() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{
			name:     "valid duration",
			key:      "TEST_DURATION",
			value:    "5s",
			def:      1 * time.Second,
			expected: 5 * time.Second,
		},
		{
			name:     "invalid duration uses default",
			key:      "TEST_DURATION_INVALID",
			value:    "invalid",
			def:      10 * time.Second,
			expected: 10 * time.Second,
		},
		{
			name:     "missing variable uses default",
			key:      "TEST_DURATION_MISSING",
			value:    "",
			def:      15 * time.Second,
			expected: 15 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				if err := os.Setenv(tt.key, tt.value); err != nil {
					t.Fatalf("failed to set env var: %v", err)
				}
				defer func() {
					if err := os.Unsetenv(tt.key); err != nil {
						t.Errorf("failed to unset env var: %v", err)
					}
				}()
			}

			result := mustDuration(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "single value",
			input:    "chrome-extension://abc",
			expected: []string{"chrome-extension://abc"},
		},
		{
			name:     "multiple values with spaces",
			input:    "http://a, http://b , http://c",
			expected: []string{"http://a", "http://b", "http://c"},
		},
		{
			name:     "quoted values",
			input:    `"http://a",'http://b'`,
			expected: []string{"http://a", "http://b"},
		},
		{
			name:     "empty string",
			input:    "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitAndTrim(tt.input)
			if len(result) != len(tt.expected) {
				t.Fatalf("splitAndTrim() length = %v, want %v", len(result), len(tt.expected))
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("splitAndTrim()[%d] = %v, want %v", i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.ListenPort != ":8787" {
		t.Errorf("ListenPort = %v, want :8787", cfg.ListenPort)
	}
	if cfg.RootFolderName != "TabHoardersFriend" {
		t.Errorf("RootFolderName = %v, want TabHoardersFriend", cfg.RootFolderName)
	}
	if cfg.DefaultTimerMinutes != 30 {
		t.Errorf("DefaultTimerMinutes = %v, want 30", cfg.DefaultTimerMinutes)
	}
}
