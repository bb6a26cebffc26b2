package resolve

import (
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type cargoManifest struct {
	Workspace struct {
		Members []string `toml:"members"`
	} `toml:"workspace"`
	Package struct {
		Name string `toml:"name"`
	} `toml:"package"`
	Lib struct {
		Path string `toml:"path"`
	} `toml:"lib"`
}

// WorkspaceCrate is one crate discovered under a project root.
type WorkspaceCrate struct {
	Name     string // normalized (hyphen -> underscore)
	RootFile string
	Dir      string
}

// DiscoverRustWorkspace reads <root>/Cargo.toml. If it declares
// [workspace].members, each glob entry is expanded and its crate root
// resolved; a virtual workspace root with its own [package] is included
// too. Otherwise root is treated as a single crate.
func DiscoverRustWorkspace(root string) []WorkspaceCrate {
	manifestPath := filepath.Join(root, "Cargo.toml")
	var manifest cargoManifest
	if _, err := toml.DecodeFile(manifestPath, &manifest); err != nil {
		return nil
	}

	if len(manifest.Workspace.Members) == 0 {
		if rootFile, ok := FindCrateRoot(root, manifest.Lib.Path); ok {
			name := manifest.Package.Name
			if name == "" {
				name = filepath.Base(root)
			}
			return []WorkspaceCrate{{Name: NormalizeCrateName(name), RootFile: rootFile, Dir: root}}
		}
		return nil
	}

	var crates []WorkspaceCrate
	if manifest.Package.Name != "" {
		if rootFile, ok := FindCrateRoot(root, manifest.Lib.Path); ok {
			crates = append(crates, WorkspaceCrate{
				Name:     NormalizeCrateName(manifest.Package.Name),
				RootFile: rootFile,
				Dir:      root,
			})
		}
	}

	for _, pattern := range manifest.Workspace.Members {
		matches, _ := filepath.Glob(filepath.Join(root, pattern, "Cargo.toml"))
		for _, memberManifest := range matches {
			dir := filepath.Dir(memberManifest)
			var member cargoManifest
			if _, err := toml.DecodeFile(memberManifest, &member); err != nil {
				continue
			}
			name := member.Package.Name
			if name == "" {
				name = filepath.Base(dir)
			}
			rootFile, ok := FindCrateRoot(dir, member.Lib.Path)
			if !ok {
				continue
			}
			crates = append(crates, WorkspaceCrate{
				Name:     NormalizeCrateName(name),
				RootFile: rootFile,
				Dir:      dir,
			})
		}
	}
	return crates
}
