package x11

import "testing"

func TestParseResources_ReadsDPIAndAccent(t *testing.T) {
	db := "! comment\nXft.dpi:\t144\n*.color4:\t#112233\nbordertile.accent:  #ff8800\n\nbogus line\n"
	res := ParseResources(db)

	if got := res.DPI(); got != 144 {
		t.Fatalf("expected dpi 144, got %v", got)
	}
	accent, ok := res.Accent()
	if !ok || accent != "#ff8800" {
		t.Fatalf("expected bordertile.accent to win, got %q (%v)", accent, ok)
	}
}

func TestResources_Fallbacks(t *testing.T) {
	res := ParseResources("Xft.dpi: nope\n*color4: #010203\n")
	if got := res.DPI(); got != 96 {
		t.Fatalf("expected default dpi 96, got %v", got)
	}
	if accent, ok := res.Accent(); !ok || accent != "#010203" {
		t.Fatalf("expected color4 fallback, got %q (%v)", accent, ok)
	}

	if _, ok := (Resources{}).Accent(); ok {
		t.Fatalf("expected no accent in empty database")
	}
}
