// Command adm0reverse builds sparse region quadtrees mapping WGS84
// coordinates to country ids, and emits them as embeddable Go source.
package main

import (
	"fmt"
	"os"

	"github.com/skibsted/adm0reverse/cmd/adm0reverse/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
