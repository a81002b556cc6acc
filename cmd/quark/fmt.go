package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/mgomes/quark/quark"
	"github.com/spf13/cobra"
)

const sourceExt = ".qrk"

func newFmtCommand(a *app) *cobra.Command {
	var write, check bool
	cmd := &cobra.Command{
		Use:   "fmt <path>...",
		Short: "Reindent .qrk files and normalize whitespace",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("quark fmt: path required")
			}
			files, err := collectSourceFiles(args)
			if err != nil {
				return err
			}

			pending := 0
			for _, path := range files {
				formatted, changed, err := formatFile(path)
				if err != nil {
					return err
				}
				if changed {
					pending++
					a.logger.Debug("needs formatting", "path", path)
				}
				if write {
					if changed {
						if err := rewriteFile(path, formatted); err != nil {
							return err
						}
					}
					continue
				}
				if !check {
					fmt.Fprint(cmd.OutOrStdout(), formatted)
				}
			}

			if check && pending > 0 {
				return fmt.Errorf("quark fmt: %d file(s) need formatting", pending)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write result to source files instead of stdout")
	cmd.Flags().BoolVar(&check, "check", false, "fail if any source file needs formatting")
	return cmd
}

func formatFile(path string) (string, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", path, err)
	}
	formatted := formatSource(string(data))
	return formatted, formatted != string(data), nil
}

func rewriteFile(path, contents string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(contents), info.Mode().Perm()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// collectSourceFiles expands directories into the .qrk files below them.
// The result is absolute, sorted and free of duplicates.
func collectSourceFiles(targets []string) ([]string, error) {
	var files []string
	add := func(path string) error {
		if filepath.Ext(path) != sourceExt {
			return nil
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", path, err)
		}
		files = append(files, abs)
		return nil
	}

	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", target, err)
		}
		if !info.IsDir() {
			if err := add(target); err != nil {
				return nil, err
			}
			continue
		}
		err = filepath.WalkDir(target, func(path string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil || entry.IsDir() {
				return walkErr
			}
			return add(path)
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", target, err)
		}
	}

	slices.Sort(files)
	return slices.Compact(files), nil
}

// formatSource normalizes line endings, strips trailing blanks, ends the file
// with exactly one newline and indents every line that starts with a token by
// one tab per enclosing block. Lines inside comments or text literals keep
// their leading whitespace. Source that does not tokenize only gets the
// whitespace cleanup.
func formatSource(source string) string {
	normalized := strings.ReplaceAll(source, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	lines := strings.Split(normalized, "\n")
	depths := lineDepths(normalized)
	for i, line := range lines {
		line = strings.TrimRight(line, " \t")
		body := strings.TrimLeft(line, " \t")
		if at, ok := depths[i]; ok && at.column == utf8.RuneCountInString(line[:len(line)-len(body)])+1 {
			line = strings.Repeat("\t", at.depth) + body
		}
		lines[i] = line
	}

	return strings.TrimRight(strings.Join(lines, "\n"), "\n") + "\n"
}

type lineStart struct {
	depth  int
	column int
}

// lineDepths maps a 0-based line index to the block depth and column of the
// first token on that line.
func lineDepths(source string) map[int]lineStart {
	tokens, err := quark.Tokenize(source)
	if err != nil {
		return nil
	}

	out := make(map[int]lineStart)
	depth := 0
	for _, tok := range tokens {
		if tok.Kind == quark.TokenEOF {
			break
		}
		closing := tok.Is(quark.TokenPunctuation, "}")
		if _, seen := out[tok.Pos.Line-1]; !seen {
			d := depth
			if closing {
				d = max(depth-1, 0)
			}
			out[tok.Pos.Line-1] = lineStart{depth: d, column: tok.Pos.Column}
		}
		switch {
		case tok.Is(quark.TokenPunctuation, "{"):
			depth++
		case closing:
			depth = max(depth-1, 0)
		}
	}
	return out
}
