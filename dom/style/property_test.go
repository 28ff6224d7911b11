package style

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestParseInline(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagetree.style")
	defer teardown()
	//
	kv, err := ParseInline("Color: red; margin: 0 4px !important;")
	if err != nil {
		t.Fatal(err)
	}
	if len(kv) != 2 {
		t.Fatalf("expected 2 declarations, have %v", kv)
	}
	if kv[0].Key != "color" || kv[0].Value != "red" {
		t.Errorf("unexpected first declaration %+v", kv[0])
	}
	if !kv[1].Important || kv[1].Value != "0 4px" {
		t.Errorf("expected important margin, have %+v", kv[1])
	}
	if kv, _ := ParseInline("   "); kv != nil {
		t.Errorf("expected no declarations for blank input, have %v", kv)
	}
}

func TestFlattenIsSorted(t *testing.T) {
	s := Flatten(map[string]string{"padding": "2px", "color": "red"})
	if s != "color: red; padding: 2px" {
		t.Errorf("unexpected flattened style %q", s)
	}
	if Flatten(nil) != "" {
		t.Error("expected empty style to flatten to empty string")
	}
}

func TestPrecedence(t *testing.T) {
	pmap := NewPropertyMap()
	pmap.Add(OriginSheet, KeyValue{Key: "color", Value: "blue"})
	pmap.Add(OriginInline, KeyValue{Key: "color", Value: "red"})
	pmap.Add(OriginSheet, KeyValue{Key: "color", Value: "green"})
	if p, _ := pmap.Property("color"); p != "red" {
		t.Errorf("expected inline value to win over sheet, have %s", p)
	}
	pmap.Add(OriginSheet, KeyValue{Key: "margin", Value: "1px", Important: true})
	pmap.Add(OriginInline, KeyValue{Key: "margin", Value: "2px"})
	if p, _ := pmap.Property("margin"); p != "2px" {
		t.Errorf("expected inline value to win over important sheet value, have %s", p)
	}
	pmap.Add(OriginSheet, KeyValue{Key: "padding", Value: "1px", Important: true})
	pmap.Add(OriginSheet, KeyValue{Key: "padding", Value: "3px"})
	if p, _ := pmap.Property("padding"); p != "1px" {
		t.Errorf("expected important sheet value to win over later sheet value, have %s", p)
	}
	if pmap.Size() != 3 || pmap.Map()["color"] != "red" {
		t.Errorf("unexpected map %v", pmap.Map())
	}
}
