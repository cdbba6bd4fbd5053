package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(80, 24)

	if s.Width() != 80 || s.Height() != 24 {
		t.Fatalf("expected 80x24, got %dx%d", s.Width(), s.Height())
	}
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if c := s.GetCell(x, y); c.Rune != ' ' || c.Color != ColorDefault {
				t.Fatalf("new screen should be blank, got %+v at (%d, %d)", c, x, y)
			}
		}
	}
}

func TestScreenSetGetCell(t *testing.T) {
	s := NewScreen(10, 10)

	s.SetCell(5, 5, Cell{Rune: '█', Color: ColorCyan})
	if c := s.GetCell(5, 5); c.Rune != '█' || c.Color != ColorCyan {
		t.Errorf("GetCell(5, 5) = %+v", c)
	}

	s.SetCell(-1, 0, Cell{Rune: 'A'})
	s.SetCell(100, 0, Cell{Rune: 'A'})
	s.SetCell(0, -1, Cell{Rune: 'A'})
	s.SetCell(0, 100, Cell{Rune: 'A'})

	if s.Get(-1, 0) != ' ' || s.Get(100, 0) != ' ' {
		t.Error("out-of-bounds reads should return space")
	}
}

func TestScreenClear(t *testing.T) {
	s := NewScreen(10, 10)
	s.Fill(Cell{Rune: 'X', Color: ColorRed})
	s.Clear()

	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if c := s.GetCell(x, y); c.Rune != ' ' || c.Color != ColorDefault {
				t.Fatalf("after Clear expected blank at (%d, %d), got %+v", x, y, c)
			}
		}
	}
}

func TestScreenDrawText(t *testing.T) {
	s := NewScreen(20, 5)
	s.DrawTextColored(2, 1, "Héllo", ColorYellow)

	for i, ch := range []rune("Héllo") {
		c := s.GetCell(2+i, 1)
		if c.Rune != ch || c.Color != ColorYellow {
			t.Errorf("expected %q at (%d, 1), got %+v", ch, 2+i, c)
		}
	}

	s.DrawText(18, 0, "Hello")
	if s.Get(18, 0) != 'H' || s.Get(19, 0) != 'e' {
		t.Error("text should be clipped at the right edge")
	}
}

func TestScreenDrawTextCentered(t *testing.T) {
	s := NewScreen(20, 5)
	s.DrawTextCentered(2, "Hi", ColorDefault)

	if s.Get(9, 2) != 'H' || s.Get(10, 2) != 'i' {
		t.Errorf("text not centered: %q", s.Row(2))
	}
}

func TestScreenDrawTextIn(t *testing.T) {
	s := NewScreen(20, 3)
	s.DrawTextIn(NewRect(2, 0, 6, 3), 1, "CloudFormation", ColorDefault)

	if got := string([]rune(s.Row(1))[2:8]); got != "Cloud…" {
		t.Errorf("expected truncated label, got %q", got)
	}
}

func TestScreenDrawRect(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawRect(NewRect(2, 2, 3, 3), Cell{Rune: '#', Color: ColorGreen})

	for y := 2; y < 5; y++ {
		for x := 2; x < 5; x++ {
			if s.Get(x, y) != '#' {
				t.Errorf("expected '#' at (%d, %d)", x, y)
			}
		}
	}
	if s.Get(1, 1) != ' ' || s.Get(5, 5) != ' ' {
		t.Error("DrawRect should not touch the outside")
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawBox(NewRect(1, 1, 5, 4), ColorGray)

	corners := []struct {
		x, y int
		r    rune
	}{
		{1, 1, '┌'}, {5, 1, '┐'}, {1, 4, '└'}, {5, 4, '┘'},
	}
	for _, c := range corners {
		if got := s.GetCell(c.x, c.y); got.Rune != c.r || got.Color != ColorGray {
			t.Errorf("corner (%d, %d): expected %q, got %+v", c.x, c.y, c.r, got)
		}
	}
	for x := 2; x < 5; x++ {
		if s.Get(x, 1) != '─' || s.Get(x, 4) != '─' {
			t.Errorf("horizontal edge missing at x=%d", x)
		}
	}
	for y := 2; y < 4; y++ {
		if s.Get(1, y) != '│' || s.Get(5, y) != '│' {
			t.Errorf("vertical edge missing at y=%d", y)
		}
	}
}

func TestScreenString(t *testing.T) {
	s := NewScreen(5, 3)
	s.DrawText(0, 0, "AAAAA")
	s.DrawTextColored(0, 1, "BBBBB", ColorRed)
	s.DrawText(0, 2, "CCCCC")

	if got := s.String(); got != "AAAAA\nBBBBB\nCCCCC" {
		t.Errorf("String() = %q", got)
	}
}

func TestScreenResize(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawText(0, 0, "Hello")

	s.Resize(8, 4)
	if s.Width() != 8 || s.Height() != 4 {
		t.Fatalf("expected 8x4, got %dx%d", s.Width(), s.Height())
	}
	if !strings.HasPrefix(s.Row(0), "Hello") {
		t.Errorf("content lost after shrinking: %q", s.Row(0))
	}

	s.Resize(15, 8)
	if !strings.HasPrefix(s.Row(0), "Hello") {
		t.Errorf("content lost after growing: %q", s.Row(0))
	}
	if len(s.Row(0)) != 15 {
		t.Errorf("expected row length 15, got %d", len(s.Row(0)))
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"Lambda", 10, "Lambda"},
		{"Lambda", 6, "Lambda"},
		{"Lambda", 4, "Lam…"},
		{"Lambda", 1, "L"},
		{"Lambda", 0, ""},
	}
	for _, tc := range tests {
		if got := Truncate(tc.in, tc.n); got != tc.want {
			t.Errorf("Truncate(%q, %d) = %q, expected %q", tc.in, tc.n, got, tc.want)
		}
	}
}

func TestColorSpec(t *testing.T) {
	tests := []struct {
		c    Color
		want string
	}{
		{ColorDefault, ""},
		{ColorCyan, "6"},
		{ColorOrange, "208"},
		{RGB(0xFF9900), "#FF9900"},
		{RGB(0x3f8624), "#3F8624"},
	}
	for _, tc := range tests {
		if got := tc.c.Spec(); got != tc.want {
			t.Errorf("Spec() = %q, expected %q", got, tc.want)
		}
	}
	if ColorRed.IsRGB() || !RGB(0).IsRGB() {
		t.Error("IsRGB mismatch")
	}
}

func TestInputFrame(t *testing.T) {
	f := NewInputFrame()
	if !f.Empty() {
		t.Fatal("new frame should be empty")
	}

	f.Set(ActionRotate)
	f.Set(ActionLeft)
	f.Set(ActionNone)
	if !f.Has(ActionRotate) || !f.Has(ActionLeft) || f.Has(ActionRight) {
		t.Error("Has mismatch")
	}

	got := f.Actions()
	if len(got) != 2 || got[0] != ActionLeft || got[1] != ActionRotate {
		t.Errorf("Actions() = %v", got)
	}

	copied := f
	f.Clear()
	if !f.Empty() || copied.Empty() {
		t.Error("frames should be value copies")
	}
	if ActionHardDrop.String() != "HardDrop" || Action(200).String() != "Unknown" {
		t.Error("unexpected action names")
	}
}
