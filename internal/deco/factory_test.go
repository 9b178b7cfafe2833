package deco

import (
	"testing"

	"github.com/1broseidon/fluentdeco/internal/shadow"
)

func TestFactorySharesShadow(t *testing.T) {
	f := NewFactory(StaticOptions(testOptions()), nil, nil, nil)

	a, err := f.Create(newFakeClient(), testSettings())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	b, err := f.Create(newFakeClient(), testSettings())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if f.Len() != 2 {
		t.Fatalf("expected 2 live decorations, got %d", f.Len())
	}
	if f.Cache().References() != 2 {
		t.Fatalf("expected 2 cache references, got %d", f.Cache().References())
	}
	if a.Shadow() == nil || a.Shadow() != b.Shadow() {
		t.Fatalf("expected both decorations to share one texture")
	}

	a.Close()
	a.Close()
	if f.Len() != 1 || f.Cache().References() != 1 {
		t.Fatalf("expected 1 live decoration and reference, got %d and %d", f.Len(), f.Cache().References())
	}
	b.Close()
	if f.Len() != 0 || f.Cache().References() != 0 {
		t.Fatalf("expected factory to be empty, got %d and %d", f.Len(), f.Cache().References())
	}
}

func TestFactoryReconfigure(t *testing.T) {
	f := NewFactory(StaticOptions(testOptions()), nil, nil, nil)
	a, err := f.Create(newFakeClient(), testSettings())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer a.Close()
	b, err := f.Create(newFakeClient(), testSettings())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer b.Close()

	before := a.Shadow()

	o := testOptions()
	o.Shadow.Size = shadow.SizeNone
	o.TitleAlignment = AlignLeft
	if err := f.Reconfigure(StaticOptions(o)); err != nil {
		t.Fatalf("Reconfigure: %v", err)
	}
	if before == nil {
		t.Fatalf("expected an initial texture")
	}
	if a.Shadow() != nil || b.Shadow() != nil {
		t.Fatalf("expected shadows to be dropped for the none preset")
	}
	if a.Options().TitleAlignment != AlignLeft || b.Options().TitleAlignment != AlignLeft {
		t.Fatalf("expected new options on every decoration")
	}
}

type classOptions map[string]Options

func (c classOptions) OptionsFor(class, _ string) Options {
	if o, ok := c[class]; ok {
		return o
	}
	return testOptions()
}

func TestFactoryResolvesOptionsPerWindow(t *testing.T) {
	hidden := testOptions()
	hidden.HideTitleBar = true
	f := NewFactory(classOptions{"mpv": hidden}, nil, nil, nil)

	player := newFakeClient()
	player.class = "mpv"
	p, err := f.Create(player, testSettings())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer p.Close()
	term, err := f.Create(newFakeClient(), testSettings())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer term.Close()

	if p.Borders().Top != 0 {
		t.Fatalf("expected hidden title bar for mpv, got %+v", p.Borders())
	}
	if term.Borders().Top != 30 {
		t.Fatalf("expected title bar for xterm, got %+v", term.Borders())
	}
}
