//Command ballistics manages the weapon profiles and calculates the sight corrections
//
//	ballistics weapon save <file.json> [--force]
//	ballistics weapon list|show <name>|select <name>|delete <name> [--yes]
//	ballistics zero <name>
//	ballistics solve [name] [--distance 600 --wind-speed 4 ...] [--weather] [--chart out.png] [--csv out.csv]
//	ballistics conditions [--distance 600 ...]
//	ballistics history <name> [--limit 5]
package main

import (
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
