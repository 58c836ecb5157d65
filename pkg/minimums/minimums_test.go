package minimums

import (
	"reflect"
	"testing"
)

func TestParseLegacyKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  Key
		ok    bool
	}{
		{
			name:  "simple key",
			input: "('Instagram', 'Likes')",
			want:  Key{Platform: "Instagram", Engagement: "Likes"},
			ok:    true,
		},
		{
			name:  "no space after comma",
			input: "('TikTok','Views')",
			want:  Key{Platform: "TikTok", Engagement: "Views"},
			ok:    true,
		},
		{
			name:  "engagement with spaces",
			input: "('YouTube', 'Watch Hours')",
			want:  Key{Platform: "YouTube", Engagement: "Watch Hours"},
			ok:    true,
		},
		{
			name:  "missing parens",
			input: "'Instagram', 'Likes'",
			ok:    false,
		},
		{
			name:  "plain string",
			input: "Instagram-Likes",
			ok:    false,
		},
		{
			name:  "empty",
			input: "",
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseLegacyKey(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseLegacyKey(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("ParseLegacyKey(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFromLegacy(t *testing.T) {
	t.Parallel()

	table := FromLegacy(map[string]int{
		"('Instagram', 'Likes')": 50,
		"('Instagram', 'Views')": 100,
		"('TikTok', 'Views')":    500,
		"garbage-key":            10,
	})

	if table.Len() != 3 {
		t.Errorf("Len() = %d, want 3 (unparsable key skipped)", table.Len())
	}
	if got := table.MinimumFor("Instagram", "Likes"); got != 50 {
		t.Errorf("MinimumFor(Instagram, Likes) = %d, want 50", got)
	}
	if got := table.MinimumFor("TikTok", "Views"); got != 500 {
		t.Errorf("MinimumFor(TikTok, Views) = %d, want 500", got)
	}
}

func TestMinimumForDefault(t *testing.T) {
	t.Parallel()

	table := New(map[Key]int{
		{Platform: "Instagram", Engagement: "Likes"}: 50,
	})

	if got := table.MinimumFor("Instagram", "Comments"); got != 1 {
		t.Errorf("unconfigured pair: MinimumFor = %d, want 1", got)
	}
	if got := table.MinimumFor("Facebook", "Likes"); got != 1 {
		t.Errorf("unconfigured platform: MinimumFor = %d, want 1", got)
	}

	var nilTable *Table
	if got := nilTable.MinimumFor("Instagram", "Likes"); got != 1 {
		t.Errorf("nil table: MinimumFor = %d, want 1", got)
	}
}

func TestEngagementTypesFor(t *testing.T) {
	t.Parallel()

	table := New(map[Key]int{
		{Platform: "Instagram", Engagement: "Views"}:    100,
		{Platform: "Instagram", Engagement: "Likes"}:    50,
		{Platform: "Instagram", Engagement: "Comments"}: 10,
		{Platform: "TikTok", Engagement: "Views"}:       500,
	})

	got := table.EngagementTypesFor("Instagram")
	want := []string{"Comments", "Likes", "Views"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("EngagementTypesFor(Instagram) = %v, want %v", got, want)
	}

	if got := table.EngagementTypesFor("Facebook"); len(got) != 0 {
		t.Errorf("EngagementTypesFor(Facebook) = %v, want empty", got)
	}
}

func TestPlatforms(t *testing.T) {
	t.Parallel()

	table := New(map[Key]int{
		{Platform: "TikTok", Engagement: "Views"}:    500,
		{Platform: "Instagram", Engagement: "Likes"}: 50,
		{Platform: "Instagram", Engagement: "Views"}: 100,
	})

	got := table.Platforms()
	want := []string{"Instagram", "TikTok"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Platforms() = %v, want %v", got, want)
	}
}

func TestEmpty(t *testing.T) {
	t.Parallel()

	table := Empty()
	if table.Len() != 0 {
		t.Errorf("Empty().Len() = %d, want 0", table.Len())
	}
	if got := table.MinimumFor("Instagram", "Likes"); got != 1 {
		t.Errorf("Empty table MinimumFor = %d, want 1", got)
	}
}
