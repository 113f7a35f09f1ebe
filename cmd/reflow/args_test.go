package main

import (
	"reflect"
	"testing"
)

func TestFlagValue(t *testing.T) {
	args := []string{"-f", "in.txt", "--app", "com.apple.Terminal", "--stats"}
	if got := flagValue(args, "-f", "--file"); got != "in.txt" {
		t.Errorf("flagValue(-f) = %q", got)
	}
	if got := flagValue(args, "--app"); got != "com.apple.Terminal" {
		t.Errorf("flagValue(--app) = %q", got)
	}
	if got := flagValue(args, "--stats"); got != "" {
		t.Errorf("flagValue(--stats) = %q, want empty (no value follows)", got)
	}
	if got := flagValue(args, "--cols"); got != "" {
		t.Errorf("flagValue(--cols) = %q, want empty", got)
	}
}

func TestFlagValues(t *testing.T) {
	args := []string{"--pattern", "^NOTE:", "-s", "--pattern", `\d+`}
	want := []string{"^NOTE:", `\d+`}
	if got := flagValues(args, "--pattern"); !reflect.DeepEqual(got, want) {
		t.Errorf("flagValues = %v, want %v", got, want)
	}
	if got := flagValues(args, "-a"); got != nil {
		t.Errorf("flagValues(-a) = %v, want nil", got)
	}
}

func TestHasFlag(t *testing.T) {
	args := []string{"watch", "x.txt", "--in-place"}
	if !hasFlag(args, "--in-place") {
		t.Error("hasFlag(--in-place) = false")
	}
	if hasFlag(args, "--force", "-F") {
		t.Error("hasFlag(--force) = true")
	}
}

func TestIntFlag(t *testing.T) {
	if n, err := intFlag([]string{"--cols", "120"}, "--cols", 80); err != nil || n != 120 {
		t.Errorf("intFlag = %d, %v", n, err)
	}
	if n, err := intFlag(nil, "--cols", 80); err != nil || n != 80 {
		t.Errorf("default intFlag = %d, %v", n, err)
	}
	if _, err := intFlag([]string{"--cols", "wide"}, "--cols", 80); err == nil {
		t.Error("expected error for non-numeric value")
	}
}

func TestSpecParse(t *testing.T) {
	s := flagSet{bools: []string{"--in-place"}, values: []string{"--app"}}

	pos, unknown := s.parse([]string{"notes.txt", "--app", "dev.zed.Zed", "--in-place"})
	if !reflect.DeepEqual(pos, []string{"notes.txt"}) || unknown != "" {
		t.Errorf("parse = %v, %q", pos, unknown)
	}

	_, unknown = s.parse([]string{"notes.txt", "--inplace", "--bogus"})
	if unknown != "--inplace" {
		t.Errorf("unknown = %q, want --inplace", unknown)
	}

	pos, _ = s.parse([]string{"-"})
	if !reflect.DeepEqual(pos, []string{"-"}) {
		t.Errorf("lone dash should be positional, got %v", pos)
	}
}
