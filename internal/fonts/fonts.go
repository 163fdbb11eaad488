package fonts

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"unicode"
)

// Dirs are searched for font files, relative to the working directory.
var Dirs = []string{"assets/fonts", "../../assets/fonts"}

func isFont(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".ttf", ".otf":
		return true
	}
	return false
}

// ScanDir lists the font files under dir as slash-separated paths relative to dir.
// A missing dir lists nothing.
func ScanDir(dir string) ([]string, error) {
	var out []string
	err := fs.WalkDir(os.DirFS(dir), ".", func(p string, d fs.DirEntry, err error) error {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return fs.SkipAll
		case err != nil:
			return err
		case !d.IsDir() && isFont(p):
			out = append(out, p)
		}
		return nil
	})
	return out, err
}

// fold keeps only the lowercased letters and digits of s.
func fold(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, s)
}

// SearchCandidates widens a font reference into the terms to try, most specific first:
// the reference itself, without extension, then the family folder or name prefix.
func SearchCandidates(ref string) []string {
	ref = strings.TrimSpace(strings.ReplaceAll(ref, `\`, "/"))
	stem := ref
	if isFont(ref) {
		stem = strings.TrimSuffix(ref, path.Ext(ref))
	}
	family, _, _ := strings.Cut(stem, "/")
	if family == stem {
		family, _, _ = strings.Cut(stem, "-")
	}
	var out []string
	for _, s := range []string{ref, stem, family} {
		if s != "" && !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}

// FindFont looks through Dirs for a font file whose folded path contains the folded
// search term. Regular weights win over others, then shorter paths.
func FindFont(search string) (relPath string, fullPath string, err error) {
	term := fold(search)
	if term == "" {
		return "", "", os.ErrNotExist
	}
	best, bestScore := -1, 0
	var rels, fulls []string
	for _, dir := range Dirs {
		list, err := ScanDir(dir)
		if err != nil {
			continue
		}
		for _, rel := range list {
			if !strings.Contains(fold(rel), term) {
				continue
			}
			score := len(rel)
			if strings.Contains(strings.ToLower(path.Base(rel)), "regular") {
				score -= 1 << 16
			}
			if best < 0 || score < bestScore {
				best, bestScore = len(rels), score
			}
			rels = append(rels, rel)
			fulls = append(fulls, filepath.Join(dir, filepath.FromSlash(rel)))
		}
	}
	if best < 0 {
		return "", "", os.ErrNotExist
	}
	return rels[best], fulls[best], nil
}
