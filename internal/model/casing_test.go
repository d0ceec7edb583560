package model

import "testing"

func TestCaseStyle_Apply(t *testing.T) {
	tests := []struct {
		style CaseStyle
		input string
		want  string
	}{
		{CaseUpper, "Shop now", "SHOP NOW"},
		{CaseLower, "Shop NOW", "shop now"},
		{CaseTitle, "shop NOW today", "Shop Now Today"},
		{CaseTitle, "don't wait", "Don'T Wait"},
		{CaseStyle("Sentence case"), "leave me", "leave me"},
	}

	for _, tt := range tests {
		if got := tt.style.Apply(tt.input); got != tt.want {
			t.Errorf("%s.Apply(%q): expected %q, got %q", tt.style, tt.input, tt.want, got)
		}
	}
}

func TestCaseStyle_Matches(t *testing.T) {
	tests := []struct {
		style CaseStyle
		input string
		want  bool
	}{
		{CaseUpper, "SHOP NOW", true},
		{CaseUpper, "Shop Now", false},
		{CaseTitle, "Shop Now", true},
		{CaseTitle, "Shop now", false},
		{CaseTitle, "SHOP NOW", false},
		{CaseTitle, "123", false},
		{CaseLower, "shop now", true},
		{CaseStyle("other"), "anything", true},
	}

	for _, tt := range tests {
		if got := tt.style.Matches(tt.input); got != tt.want {
			t.Errorf("%s.Matches(%q): expected %v, got %v", tt.style, tt.input, tt.want, got)
		}
	}
}

func TestIsUpper(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"SHOP NOW", true},
		{"GET 50% OFF!", true},
		{"Shop Now", false},
		{"123 456", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsUpper(tt.input); got != tt.want {
			t.Errorf("IsUpper(%q): expected %v, got %v", tt.input, tt.want, got)
		}
	}
}
