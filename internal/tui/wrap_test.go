package tui

import (
	"reflect"
	"testing"
)

func TestWrapTextBreaksOnSpaces(t *testing.T) {
	got := wrapText("Allow complete chest recoil between compressions", 20)
	want := []string{"Allow complete chest", "recoil between", "compressions"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected wrap: %q", got)
	}
}

func TestWrapTextSplitsLongWords(t *testing.T) {
	got := wrapText("ab abcdefgh", 4)
	want := []string{"ab", "abcd", "efgh"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected wrap: %q", got)
	}
}

func TestWrapTextWideRunes(t *testing.T) {
	got := wrapText("心肺蘇生 法", 5)
	want := []string{"心肺", "蘇生", "法"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected wrap: %q", got)
	}
}

func TestWrapTextEmpty(t *testing.T) {
	if got := wrapText("   ", 10); got != nil {
		t.Fatalf("expected nil, got %q", got)
	}
}
