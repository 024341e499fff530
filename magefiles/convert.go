package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Convert builds the CLI and converts exports/ratings.csv and
// exports/watchlist.csv into out/ratings.json.
func Convert() error {
	mg.Deps(Init, Build)
	return sh.RunV(filepath.Join(binDir, binName), "convert",
		"--ratings", filepath.Join("exports", "ratings.csv"),
		"--watchlist", filepath.Join("exports", "watchlist.csv"),
		"--output", filepath.Join("out", "ratings.json"),
	)
}

// Summary prints the summary of out/ratings.json.
func Summary() error {
	mg.Deps(Build)
	if _, err := os.Stat(filepath.Join("out", "ratings.json")); err != nil {
		return err
	}
	return sh.RunV(filepath.Join(binDir, binName), "stats", filepath.Join("out", "ratings.json"))
}
