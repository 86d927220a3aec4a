package ng

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nga/internal/imports"
)

func TestLinkReferences(t *testing.T) {
	results := Results{
		Components: []Component{
			{
				BaseInfo: BaseInfo{
					Name:         "AppComponent",
					RelativePath: "apps/shell/app.component.ts",
					Imports: []imports.ResolvedImport{
						{RelativePath: "libs/ui/button.component.ts"},
						{RelativePath: "apps/shell/app.service.ts"},
					},
				},
				Selector: "app-root",
				TemplateUsage: TemplateUsage{
					Components: []string{"ui-button", "app-root"},
					Directives: []string{"appHighlight"},
					Pipes:      []string{"money"},
				},
			},
			{
				BaseInfo: BaseInfo{Name: "ButtonComponent", RelativePath: "libs/ui/button.component.ts"},
				Selector: "ui-button, ui-link",
			},
		},
		Directives: []Directive{{
			BaseInfo: BaseInfo{Name: "HighlightDirective", RelativePath: "libs/ui/highlight.directive.ts"},
			Selector: "[appHighlight]",
		}},
		Pipes: []Pipe{{
			BaseInfo: BaseInfo{Name: "MoneyPipe", RelativePath: "libs/ui/money.pipe.ts"},
			PipeName: "money",
		}},
		Services: []Service{{
			BaseInfo: BaseInfo{Name: "AppService", RelativePath: "apps/shell/app.service.ts"},
		}},
		TestSpecs: []TestSpec{{
			BaseInfo: BaseInfo{
				Name:         "app",
				RelativePath: "apps/shell/app.component.spec.ts",
				Imports:      []imports.ResolvedImport{{RelativePath: "apps/shell/app.component.ts"}},
			},
		}},
	}

	linked := LinkReferences(results)
	app := "AppComponent:apps/shell/app.component.ts"

	require.Len(t, linked.Components, 2)
	assert.Equal(t, []string{"app:apps/shell/app.component.spec.ts"}, linked.Components[0].References.UsedByImports)
	assert.Empty(t, linked.Components[0].References.UsedByTemplate, "self use is not a reference")

	button := linked.Components[1].References
	assert.Equal(t, []string{app}, button.UsedByTemplate)
	assert.Equal(t, []string{app}, button.UsedByImports)

	assert.Equal(t, []string{app}, linked.Directives[0].References.UsedByTemplate)
	assert.Empty(t, linked.Directives[0].References.UsedByImports)
	assert.Equal(t, []string{app}, linked.Pipes[0].References.UsedByTemplate)
	assert.Equal(t, []string{app}, linked.Services[0].References.UsedByImports)

	assert.NotNil(t, linked.TestSpecs[0].References.UsedByTemplate)
	assert.Empty(t, results.Components[1].References.UsedByTemplate, "input is not modified")
}
