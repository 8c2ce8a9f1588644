package platform

import (
	"testing"
)

func TestIsPlaylistURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected bool
	}{
		{
			name:     "playlist URL",
			url:      "https://www.youtube.com/playlist?list=PL123",
			expected: true,
		},
		{
			name:     "watch URL with list parameter",
			url:      "https://www.youtube.com/watch?v=abc&list=PL123",
			expected: true,
		},
		{
			name:     "plain watch URL",
			url:      "https://www.youtube.com/watch?v=abc",
			expected: false,
		},
		{
			name:     "empty URL",
			url:      "",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPlaylistURL(tt.url); got != tt.expected {
				t.Errorf("IsPlaylistURL(%q) = %v, want %v", tt.url, got, tt.expected)
			}
		})
	}
}

func TestExtractPlaylistID(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{
			name:     "direct playlist URL",
			url:      "https://www.youtube.com/playlist?list=PL123",
			expected: "PL123",
		},
		{
			name:     "watch URL with trailing parameters",
			url:      "https://www.youtube.com/watch?v=abc&list=PL123&index=4",
			expected: "PL123",
		},
		{
			name:     "no list parameter",
			url:      "https://www.youtube.com/watch?v=abc",
			expected: "",
		},
		{
			name:     "empty list parameter",
			url:      "https://www.youtube.com/watch?v=abc&list=",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractPlaylistID(tt.url); got != tt.expected {
				t.Errorf("ExtractPlaylistID(%q) = %q, want %q", tt.url, got, tt.expected)
			}
		})
	}
}

func TestParsePlaylistJSON(t *testing.T) {
	tests := []struct {
		name          string
		out           string
		expectOK      bool
		expectedCount int
		expectedTitle string
	}{
		{
			name:          "valid flat playlist listing",
			out:           `{"title":"Mix","entries":[{"id":"a","title":"One"},{"id":"b","title":"Two"}]}`,
			expectOK:      true,
			expectedCount: 2,
			expectedTitle: "Mix",
		},
		{
			name:          "empty entries array",
			out:           `{"title":"Empty","entries":[]}`,
			expectOK:      true,
			expectedCount: 0,
			expectedTitle: "Empty",
		},
		{
			name:     "malformed JSON degrades to unknown",
			out:      `{"title":"Broken","entries":[`,
			expectOK: false,
		},
		{
			name:     "no entries key degrades to unknown",
			out:      `{"title":"NoEntries"}`,
			expectOK: false,
		},
		{
			name:     "empty output degrades to unknown",
			out:      "",
			expectOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, ok := ParsePlaylistJSON(tt.out)
			if ok != tt.expectOK {
				t.Fatalf("ok = %v, want %v", ok, tt.expectOK)
			}
			if !tt.expectOK {
				return
			}
			if info.Count() != tt.expectedCount {
				t.Errorf("Count() = %d, want %d", info.Count(), tt.expectedCount)
			}
			if info.Title != tt.expectedTitle {
				t.Errorf("Title = %q, want %q", info.Title, tt.expectedTitle)
			}
		})
	}
}
