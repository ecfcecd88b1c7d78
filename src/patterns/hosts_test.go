package patterns

import "testing"

func TestRewriteIPv4(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		hostname string
		expected string
	}{
		{
			name:     "address in build URL",
			input:    "http://10.0.0.12:8080/job/PX-trunk/42/",
			hostname: "ci.example",
			expected: "http://ci.example:8080/job/PX-trunk/42/",
		},
		{
			name:     "no address",
			input:    "http://ci.example/job/PX-trunk/42/",
			hostname: "ci.internal",
			expected: "http://ci.example/job/PX-trunk/42/",
		},
		{
			name:     "hostname with port replaces address only",
			input:    "http://192.168.1.5/job/x/1/",
			hostname: "ci.example:8080",
			expected: "http://ci.example:8080/job/x/1/",
		},
		{
			name:     "empty hostname is a no-op",
			input:    "http://192.168.1.5/job/x/1/",
			hostname: "",
			expected: "http://192.168.1.5/job/x/1/",
		},
		{
			name:     "replacement is literal",
			input:    "http://1.2.3.4/",
			hostname: "$1host",
			expected: "http://$1host/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RewriteIPv4(tt.input, tt.hostname)
			if result != tt.expected {
				t.Errorf("RewriteIPv4(%q, %q)\n  got:      %q\n  expected: %q", tt.input, tt.hostname, result, tt.expected)
			}
		})
	}
}

func TestHasIPv4(t *testing.T) {
	if !HasIPv4("http://10.1.2.3/") {
		t.Error("HasIPv4() = false, want true")
	}
	if HasIPv4("http://ci.example/") {
		t.Error("HasIPv4() = true, want false")
	}
}

func TestLogicalHost(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "ci.example", expected: "ci.example"},
		{input: "ci.example:8080", expected: "ci.example"},
		{input: "https://ci.example/jenkins/", expected: "ci.example"},
		{input: "  ", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := LogicalHost(tt.input); got != tt.expected {
				t.Errorf("LogicalHost(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
