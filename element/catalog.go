package element

import "strings"

// Type is a tag from the element catalog.
type Type string

// The fixed catalog of element types.
const (
	Text      Type = "text"
	Heading   Type = "heading"
	Button    Type = "button"
	Input     Type = "input"
	TextArea  Type = "textarea"
	Image     Type = "image"
	Link      Type = "link"
	Divider   Type = "divider"
	Container Type = "container"
	Row       Type = "row"
	Column    Type = "column"
	Grid      Type = "grid"
	Card      Type = "card"
	Form      Type = "form"
	Select    Type = "select"
	Checkbox  Type = "checkbox"
	Radio     Type = "radio"
	File      Type = "file"
	Video     Type = "video"
	Audio     Type = "audio"
	Frame     Type = "embedded-frame"
	Icon      Type = "icon"
)

// customPrefix marks named custom composite types, e.g. "custom:HeroBanner".
const customPrefix = "custom:"

// Catalog lists every built-in type in palette order.
var Catalog = []Type{
	Text, Heading, Button, Input, TextArea, Image, Link, Divider,
	Container, Row, Column, Grid, Card, Form,
	Select, Checkbox, Radio, File, Video, Audio, Frame, Icon,
}

var builtin = func() map[Type]bool {
	m := make(map[Type]bool, len(Catalog))
	for _, t := range Catalog {
		m[t] = true
	}
	return m
}()

// CustomType returns the type tag for a named custom composite.
func CustomType(name string) Type {
	return Type(customPrefix + name)
}

// IsCustom is true for named custom composite types.
func (t Type) IsCustom() bool {
	return strings.HasPrefix(string(t), customPrefix) && len(t) > len(customPrefix)
}

// CustomName returns the composite's name, or "" for built-in types.
func (t Type) CustomName() string {
	if !t.IsCustom() {
		return ""
	}
	return string(t[len(customPrefix):])
}

// IsKnown reports wether t is part of the catalog or a custom composite.
func (t Type) IsKnown() bool {
	return builtin[t] || t.IsCustom()
}

// IsContainer is true for the container family: container, row, column,
// grid, card and form. Only these may accept children through edit operations.
func (t Type) IsContainer() bool {
	switch t {
	case Container, Row, Column, Grid, Card, Form:
		return true
	}
	return false
}

func (t Type) String() string {
	return string(t)
}

// RequiredProps lists the props an imported node of type t must carry to be
// meaningful. Missing required props are reported, not fatal.
func RequiredProps(t Type) []string {
	switch t {
	case Image, Video, Audio, Frame:
		return []string{"src"}
	case Link:
		return []string{"href"}
	case Heading:
		return []string{"content"}
	case Icon:
		return []string{"icon"}
	}
	return nil
}

// paletteDefaults holds the props a freshly dropped node starts with.
var paletteDefaults = map[Type]Props{
	Text:     {"content": "Text"},
	Heading:  {"content": "Heading", "level": 2},
	Button:   {"content": "Button"},
	Input:    {"inputType": "text", "placeholder": "Enter text"},
	TextArea: {"placeholder": "Enter text", "rows": 3},
	Image:    {"src": "https://placehold.co/600x400", "alt": "Image"},
	Link:     {"content": "Link", "href": "#"},
	Select:   {"options": []string{"Option 1", "Option 2"}},
	Checkbox: {"label": "Checkbox"},
	Radio:    {"label": "Option", "name": "radio-group"},
	File:     {"accept": "*/*"},
	Video:    {"src": "", "controls": true},
	Audio:    {"src": "", "controls": true},
	Frame:    {"src": "about:blank", "title": "Embedded content"},
	Icon:     {"icon": "star"},
	Form:     {"method": "post"},
}
