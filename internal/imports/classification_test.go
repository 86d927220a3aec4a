package imports

import (
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		specifier string
		want      Kind
	}{
		{"./a", Relative},
		{"../shared/b", Relative},
		{"/libs/ui", Absolute},
		{"@app/core", AliasedPackage},
		{"@angular/core", AliasedPackage},
		{"lodash", AmbientModule},
		{"rxjs/operators", AmbientModule},
		{".hidden", AmbientModule},
	}

	for _, tt := range tests {
		t.Run(tt.specifier, func(t *testing.T) {
			if got := Classify(tt.specifier); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.specifier, got, tt.want)
			}
		})
	}
}

func TestResolvedImport_WithSymbol(t *testing.T) {
	ri := ResolvedImport{Specifier: "./a", Symbol: Symbol{Name: "A", Kind: Named}}
	got := ri.WithSymbol(Symbol{Name: "B", Alias: "A", Kind: Named})

	if ri.Symbol.Name != "A" {
		t.Error("WithSymbol must not modify the receiver")
	}
	if got.Symbol.Name != "B" || got.Symbol.Alias != "A" {
		t.Errorf("WithSymbol() = %+v", got.Symbol)
	}
}
