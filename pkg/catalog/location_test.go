package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveLocation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		subject  string
		chapter  string
		lecture  string
		location string
		expected string
	}{
		{
			name:     "local file",
			subject:  "Math",
			chapter:  "Algebra",
			lecture:  "Sets",
			location: "sets.mp4",
			expected: "/lectures/Math/Algebra/sets.mp4",
		},
		{
			name:     "hash characters escaped",
			subject:  "C# Programming",
			chapter:  "Lecture #1",
			lecture:  "Intro",
			location: "intro #1.mp4",
			expected: "/lectures/C%23 Programming/Lecture %231/intro %231.mp4",
		},
		{
			name:     "external http url passes through",
			subject:  "Math",
			chapter:  "Algebra",
			lecture:  "Sets",
			location: "http://example.com/video/123",
			expected: "http://example.com/video/123",
		},
		{
			name:     "external https url passes through",
			subject:  "Math",
			chapter:  "Algebra",
			lecture:  "Sets",
			location: "https://youtu.be/abc123",
			expected: "https://youtu.be/abc123",
		},
		{
			name:     "empty location falls back to lecture name",
			subject:  "Math",
			chapter:  "Algebra",
			lecture:  "Sets",
			location: "",
			expected: "/lectures/Math/Algebra/Sets",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ResolveLocation(tt.subject, tt.chapter, tt.lecture, tt.location)
			assert.Equal(t, tt.expected, got)
		})
	}
}
