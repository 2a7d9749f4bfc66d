package mwapi

import "testing"

func TestOptional(t *testing.T) {
	if got := Optional(true); got == nil || !*got {
		t.Fatalf("Optional(true) = %v, want non-nil true", got)
	}
	if got := Optional(false); got != nil {
		t.Fatalf("Optional(false) = %v, want nil", *got)
	}
}

func TestParamsSetOptional(t *testing.T) {
	tests := []struct {
		name        string
		flag        *bool
		wantPresent bool
	}{
		{name: "true is sent", flag: Optional(true), wantPresent: true},
		{name: "false is omitted", flag: Optional(false), wantPresent: false},
		{name: "nil is omitted", flag: nil, wantPresent: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Params{}
			p.SetOptional("reset", tt.flag)

			if p.Has("reset") != tt.wantPresent {
				t.Fatalf("reset present = %v, want %v (encoded %q)", p.Has("reset"), tt.wantPresent, p.Encode())
			}
			if p.Get("reset") == "false" {
				t.Fatal("literal false must never be sent")
			}
		})
	}
}

func TestParamsSetOptionalClearsPrevious(t *testing.T) {
	p := Params{}
	p.Set("reset", "1")
	p.SetOptional("reset", Optional(false))

	if p.Has("reset") {
		t.Fatalf("expected reset to be removed, got %q", p.Encode())
	}
}
