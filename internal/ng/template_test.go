package ng

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTemplate(t *testing.T) {
	tpl := `
<app-header [title]="title | uppercase"></app-header>
<ul *ngFor="let item of items">
  <li *ngIf="item.visible" [ngClass]="cls">{{ item.date | date: 'short' | uppercase }}</li>
</ul>
<ui-button-group></ui-button-group>
<app-header></app-header>
<span>{{ a || b }}</span>
<div></div>`

	got := ParseTemplate(tpl)

	assert.Equal(t, []string{"app-header", "ui-button-group"}, got.Components)
	assert.Equal(t, []string{"ngClass", "ngFor", "ngIf"}, got.Directives)
	assert.Equal(t, []string{"date", "uppercase"}, got.Pipes)
}

func TestParseTemplate_Empty(t *testing.T) {
	got := ParseTemplate("")
	assert.Empty(t, got.Components)
	assert.NotNil(t, got.Components)
	assert.Empty(t, got.Directives)
	assert.Empty(t, got.Pipes)
}
