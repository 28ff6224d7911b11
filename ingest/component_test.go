package ingest

import (
	"context"
	"testing"

	"github.com/npillmayer/pagetree/element"
	"github.com/npillmayer/pagetree/tree"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const heroBanner = `import React from 'react';
import { Button } from './Button';

export default function HeroBanner({ title }) {
  return (
    <section className="hero" style={{ backgroundColor: '#fff', padding: 12 }}>
      {/* headline */}
      <h1>{title}</h1>
      <Button variant="primary" onClick={() => go()}>Start</Button>
      <img src={logo} alt="Logo" />
      <label htmlFor="email">Mail</label>
    </section>
  );
}
`

func TestTagComponent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagetree.ingest")
	defer teardown()
	//
	ex := componentExtractor{opts: testOptions()}
	src := Source{Name: "HeroBanner.jsx", Format: ComponentTag, Content: []byte(heroBanner)}
	x, err := ex.TryParse(context.Background(), src).Get()
	require.NoError(t, err)
	t.Logf("\n%s", tree.Dump(x.Tree))
	assert.Equal(t, "HeroBanner", x.Title)
	assert.Equal(t, heroBanner, x.Source)
	require.Equal(t, 1, x.Tree.Len())
	section := x.Tree.Roots[0]
	assert.Equal(t, element.Container, section.Type)
	assert.Equal(t, "hero", section.Props.String("class"))
	assert.Equal(t, "#fff", section.Style["background-color"])
	assert.Equal(t, "12px", section.Style["padding"])
	require.Len(t, section.Children, 4)
	assert.Equal(t, element.Heading, section.Children[0].Type)
	button := section.Children[1]
	assert.Equal(t, element.CustomType("Button"), button.Type)
	assert.Equal(t, "primary", button.Props.String("variant"))
	assert.False(t, button.Props.Has("onclick"))
	img := section.Children[2]
	assert.Equal(t, element.Image, img.Type)
	assert.Equal(t, "logo", img.Props.String("src"))
	label := section.Children[3]
	assert.Equal(t, "email", label.Props.String("for"))
}

const profileCard = `<template>
  <div class="card">
    <h2>{{ title }}</h2>
    <my-button @click="save">Save</my-button>
    <BaseIcon name="star" />
  </div>
</template>

<script>
export default {
  name: 'profile-card',
  props: ['title'],
}
</script>

<style scoped>
.card { border: 1px solid #ccc; }
h2 { color: navy; }
</style>
`

func TestSFCComponent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagetree.ingest")
	defer teardown()
	//
	ex := componentExtractor{opts: testOptions()}
	src := Source{Name: "ProfileCard.vue", Format: ComponentSFC, Content: []byte(profileCard)}
	x, err := ex.TryParse(context.Background(), src).Get()
	require.NoError(t, err)
	t.Logf("\n%s", tree.Dump(x.Tree))
	assert.Equal(t, "ProfileCard", x.Title)
	require.Equal(t, 1, x.Tree.Len())
	card := x.Tree.Roots[0]
	assert.Equal(t, "1px solid #ccc", card.Style["border"])
	require.Len(t, card.Children, 3)
	assert.Equal(t, "navy", card.Children[0].Style["color"])
	assert.Equal(t, element.CustomType("MyButton"), card.Children[1].Type)
	require.Len(t, card.Children[1].Children, 1)
	assert.Equal(t, "Save", card.Children[1].Children[0].Props.String("content"))
	assert.Equal(t, element.CustomType("BaseIcon"), card.Children[2].Type)
	assert.Equal(t, "star", card.Children[2].Props.String("name"))
}

const heroComponent = "import { Component } from '@angular/core';\n\n" +
	"@Component({\n" +
	"  selector: 'app-hero',\n" +
	"  template: `<h3 class=\"name\">{{ hero }}</h3><app-hero-card [hero]=\"hero\"/>`,\n" +
	"  styles: [`h3 { color: teal; }`]\n" +
	"})\n" +
	"export class HeroComponent {\n  hero = 'Windstorm';\n}\n"

func TestDecoratorComponent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagetree.ingest")
	defer teardown()
	//
	ex := componentExtractor{opts: testOptions()}
	src := Source{Name: "hero.component.ts", Content: []byte(heroComponent)}
	x, err := ex.TryParse(context.Background(), src).Get()
	require.NoError(t, err)
	t.Logf("\n%s", tree.Dump(x.Tree))
	assert.Equal(t, "HeroComponent", x.Title)
	require.Equal(t, 2, x.Tree.Len())
	h3 := x.Tree.Roots[0]
	assert.Equal(t, 3, h3.Props.Int("level", 0))
	assert.Equal(t, "teal", h3.Style["color"])
	assert.Equal(t, element.CustomType("AppHeroCard"), x.Tree.Roots[1].Type)
}

func TestDecoratorTemplateURLOutsideBatch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagetree.ingest")
	defer teardown()
	//
	code := "@Component({\n  selector: 'app-detail',\n  templateUrl: './detail.component.html'\n})\nexport class DetailComponent {}\n"
	ex := componentExtractor{opts: testOptions()}
	x, err := ex.TryParse(context.Background(), Source{Name: "detail.component.ts",
		Format: ComponentDecorator, Content: []byte(code)}).Get()
	require.NoError(t, err)
	require.Equal(t, 1, x.Tree.Len())
	assert.Equal(t, "import-placeholder", x.Tree.Roots[0].Props.String("role"))
	assert.True(t, x.Diagnostics.Has(Incomplete))
}

func TestComponentWithoutMarkup(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagetree.ingest")
	defer teardown()
	//
	code := "export const answer = 42;\n"
	ex := componentExtractor{opts: testOptions()}
	x, err := ex.TryParse(context.Background(), Source{Name: "lib/util.js", Content: []byte(code)}).Get()
	require.NoError(t, err)
	assert.Equal(t, "Util", x.Title)
	require.Equal(t, 1, x.Tree.Len())
	assert.Equal(t, element.Text, x.Tree.Roots[0].Type)
	assert.Equal(t, code, x.Source, "source is retained verbatim")
	assert.Equal(t, Warning, x.Diagnostics.Max())
}

func TestComponentNameRules(t *testing.T) {
	for i, c := range []struct {
		code string
		conv Format
		name string
	}{
		{"export const Card = () => <div/>", ComponentTag, "Card"},
		{"class Clock extends React.Component { render() { return <p/> } }", ComponentTag, "Clock"},
		{"function helper() {}\nconst Panel = () => null", ComponentTag, "Panel"},
		{"<script setup>\ndefineOptions({ name: 'user-list' })\n</script>", ComponentSFC, "UserList"},
		{"@Component({ selector: 'app-nav' })\nexport class NavComponent {}", ComponentDecorator, "NavComponent"},
		{"@Component({ selector: 'app-nav-bar' })", ComponentDecorator, "AppNavBar"},
		{"const x = 1", ComponentTag, ""},
	} {
		if name := componentName(c.code, c.conv); name != c.name {
			t.Errorf("test %d: expected name %q, have %q", i, c.name, name)
		}
	}
}

func TestNormalizeHelpers(t *testing.T) {
	assert.Equal(t, "color: red; font-size: 12px; opacity: 0.5; margin: 0",
		styleObject(` color: 'red', fontSize: 12, opacity: 0.5, margin: 0 `))
	assert.Equal(t, "AppHeroCard", pascal("app-hero_card"))
	assert.Equal(t, "background-color", kebab("backgroundColor"))
	assert.Equal(t, `<p class="x"></p><br>`, normalizeTemplate(`<p className="x"/><br/>`, ComponentTag))
	assert.Equal(t, `<a href="next">go</a>`, rewriteExpressions(`<a href={"next"} {...rest}>go</a>`))
	assert.Equal(t, `<ul><li>x</li></ul>`, rewriteExpressions(`<ul>{items.map(i => <li>x</li>)}</ul>`))
}
