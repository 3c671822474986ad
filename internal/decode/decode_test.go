package decode

import (
	"testing"

	"ctx3d/internal/docmodel"
)

func buildDoc() *docmodel.Document {
	d := docmodel.New("coarse", "HASH256")
	d.Pages = []docmodel.PageInfo{{Z: 0, WidthPx: 800, HeightPx: 1000}, {Z: 1, WidthPx: 800, HeightPx: 1000}}
	a := d.Dict.Put("alpha")
	b := d.Dict.Put("beta")
	c := d.Dict.Put("gamma")
	d.Cells = []docmodel.Cell{
		{Z: 0, X: 100, Y: 10, CodeID: a},
		{Z: 0, X: 10, Y: 10, CodeID: b},
		{Z: 1, X: 0, Y: 0, CodeID: c},
	}
	return d
}

func TestToTextOrdersByPosition(t *testing.T) {
	d := buildDoc()
	text := ToText(d)
	if text != "beta\nalpha\ngamma" {
		t.Fatalf("unexpected order: %q", text)
	}
}

func TestPageToText(t *testing.T) {
	d := buildDoc()
	text := PageToText(d, 0)
	if text != "beta\nalpha" {
		t.Fatalf("unexpected page text: %q", text)
	}
}

func TestBboxToText(t *testing.T) {
	d := buildDoc()
	text := BboxToText(d, 0, 0, 0, 50, 50)
	if text != "beta" {
		t.Fatalf("expected only beta within bbox, got %q", text)
	}
}
