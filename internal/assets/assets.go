// Package assets bundles the notification sounds into the binary.
package assets

import (
	"embed"
	"io/fs"
	"sort"
)

//go:embed sounds/*.wav
var files embed.FS

// Sounds is the bundled sound set, rooted so that names are bare file
// names such as "bounty_rune.wav".
var Sounds fs.FS = mustSub(files, "sounds")

// Names lists the bundled sounds.
func Names() []string {
	entries, err := fs.ReadDir(Sounds, ".")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
