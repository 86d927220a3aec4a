package main

import (
	"errors"
	"fmt"
	"os"

	ngaerrors "nga/internal/errors"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)

		var ngaErr *ngaerrors.NgaError
		if errors.As(err, &ngaErr) {
			for _, fix := range ngaErr.SuggestedFixes {
				switch {
				case fix.Command != "":
					fmt.Fprintf(os.Stderr, "  hint: %s (%s)\n", fix.Description, fix.Command)
				case fix.Path != "":
					fmt.Fprintf(os.Stderr, "  hint: %s (%s)\n", fix.Description, fix.Path)
				default:
					fmt.Fprintf(os.Stderr, "  hint: %s\n", fix.Description)
				}
			}
		}
		os.Exit(1)
	}
}
