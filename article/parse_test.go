package article

import (
	"strings"
	"testing"
	"time"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestParseExample(t *testing.T) {
	raw := "---\ntitle: \"Why Keyboards Are Dead\"\ndate: \"2024-03-01\"\n---\n# Intro\nSome text...\n## Details\nMore text"
	a, err := Parse(raw, "why-keyboards-are-dead")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if a.Slug != "why-keyboards-are-dead" {
		t.Errorf("Slug = %q, want %q", a.Slug, "why-keyboards-are-dead")
	}
	if a.Title != "Why Keyboards Are Dead" {
		t.Errorf("Title = %q, want %q", a.Title, "Why Keyboards Are Dead")
	}
	if a.Date != "2024-03-01" {
		t.Errorf("Date = %q, want %q", a.Date, "2024-03-01")
	}
	for _, want := range []string{`<h1 id="intro">Intro</h1>`, `<h2 id="details">Details</h2>`} {
		if !strings.Contains(a.HTMLContent, want) {
			t.Errorf("HTMLContent missing %q: %q", want, a.HTMLContent)
		}
	}
	headings := a.Headings()
	if len(headings) != 2 {
		t.Fatalf("Headings() = %+v, want 2 entries", headings)
	}
	if headings[0].ID != "intro" || headings[0].Title != "Intro" || headings[0].Level != 1 {
		t.Errorf("headings[0] = %+v", headings[0])
	}
	if headings[1].ID != "details" || headings[1].Title != "Details" || headings[1].Level != 2 {
		t.Errorf("headings[1] = %+v", headings[1])
	}
}

func TestParseDefaults(t *testing.T) {
	now := time.Date(2025, 6, 7, 8, 9, 10, 11_000_000, time.UTC)
	a, err := Parser{Now: fixedClock(now)}.Parse("just a body", "no-front-matter")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if a.Title != DefaultTitle {
		t.Errorf("Title = %q, want %q", a.Title, DefaultTitle)
	}
	if a.Description != "" {
		t.Errorf("Description = %q, want empty", a.Description)
	}
	if a.Author != DefaultAuthor {
		t.Errorf("Author = %q, want %q", a.Author, DefaultAuthor)
	}
	if a.Image != DefaultImage {
		t.Errorf("Image = %q, want %q", a.Image, DefaultImage)
	}
	if a.Date != "2025-06-07T08:09:10.011Z" {
		t.Errorf("Date = %q, want %q", a.Date, "2025-06-07T08:09:10.011Z")
	}
	if !a.Published.Equal(now) {
		t.Errorf("Published = %v, want %v", a.Published, now)
	}
	if a.Tags == nil || len(a.Tags) != 0 {
		t.Errorf("Tags = %#v, want empty slice", a.Tags)
	}
}

func TestParseFrontMatterFields(t *testing.T) {
	raw := `---
title: Getting Started
description: First steps with voice typing
date: 2024-02-10T09:30:00Z
author: Ada
image: /img/start.png
tags: [guide, voice, guide]
---
Body text here.
`
	a, err := Parse(raw, "getting-started")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if a.Description != "First steps with voice typing" {
		t.Errorf("Description = %q", a.Description)
	}
	if a.Author != "Ada" || a.Image != "/img/start.png" {
		t.Errorf("Author/Image = %q/%q", a.Author, a.Image)
	}
	if len(a.Tags) != 3 || a.Tags[0] != "guide" || a.Tags[1] != "voice" || a.Tags[2] != "guide" {
		t.Errorf("Tags = %v, want [guide voice guide]", a.Tags)
	}
	want := time.Date(2024, 2, 10, 9, 30, 0, 0, time.UTC)
	if !a.Published.Equal(want) {
		t.Errorf("Published = %v, want %v", a.Published, want)
	}
	if strings.Contains(a.Content, "title:") {
		t.Errorf("Content should not include front matter: %q", a.Content)
	}
	if a.ReadTime != 1 {
		t.Errorf("ReadTime = %d, want 1", a.ReadTime)
	}
}

func TestParseInvalidFrontMatter(t *testing.T) {
	raw := "---\ntitle: [unclosed\n---\nbody"
	if _, err := Parse(raw, "broken"); err == nil {
		t.Fatal("expected error for malformed front matter")
	}
}

func TestParseInvalidDate(t *testing.T) {
	raw := "---\ndate: next tuesday\n---\nbody"
	if _, err := Parse(raw, "bad-date"); err == nil {
		t.Fatal("expected error for unparseable date")
	}
}

func TestReadTime(t *testing.T) {
	tests := []struct {
		words    int
		expected int
	}{
		{0, 0},
		{1, 1},
		{199, 1},
		{200, 1},
		{201, 2},
		{400, 2},
		{401, 3},
	}
	for _, tt := range tests {
		got := ReadTime(strings.Repeat("word ", tt.words))
		if got != tt.expected {
			t.Errorf("ReadTime(%d words) = %d, want %d", tt.words, got, tt.expected)
		}
	}
}

func TestReadTimeMonotonic(t *testing.T) {
	prev := 0
	for w := 0; w <= 1000; w += 7 {
		got := ReadTime(strings.Repeat("w\n", w))
		if got < prev {
			t.Fatalf("ReadTime(%d words) = %d, less than %d", w, got, prev)
		}
		prev = got
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Time
	}{
		{"2024-03-01", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"2024-03-01T10:20:30Z", time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC)},
		{"2024-03-01T10:20:30.500Z", time.Date(2024, 3, 1, 10, 20, 30, 500_000_000, time.UTC)},
		{"2024-03-01T10:20:30", time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC)},
		{"2024-03-01 10:20:30", time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC)},
		{"2024-03-01T10:00Z", time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-03-01T10:00", time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-03-01T11:00+01:00", time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-03-01T11:00:00+0100", time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-03-01T11:00+0100", time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-03-01T10:20:30.250", time.Date(2024, 3, 1, 10, 20, 30, 250_000_000, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.input)
		if err != nil {
			t.Errorf("ParseDate(%q) failed: %v", tt.input, err)
			continue
		}
		if !got.Equal(tt.expected) {
			t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestParseKeepsArticlesWithShortISODates(t *testing.T) {
	for _, date := range []string{"2024-03-01T10:00Z", "2024-03-01T10:00:00+0100"} {
		a, err := Parse("---\ntitle: X\ndate: "+date+"\n---\nbody", "x")
		if err != nil {
			t.Errorf("Parse with date %q failed: %v", date, err)
			continue
		}
		if a.Published.IsZero() {
			t.Errorf("Parse with date %q left Published unset", date)
		}
	}
}
