// Package knowledge loads the company reference material injected into
// strategy prompts. Content is extracted once at startup from a folder of
// documents; an empty or missing folder is not an error, the prompt simply
// falls back to generic instructions.
package knowledge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Base holds the concatenated reference text.
type Base struct {
	text string
}

// Text returns the full loaded text, possibly empty.
func (b *Base) Text() string {
	if b == nil {
		return ""
	}
	return b.text
}

// Empty reports whether any content was loaded.
func (b *Base) Empty() bool {
	return b == nil || b.text == ""
}

// Load scans dir for .pdf, .txt, and .md files and concatenates their text,
// each block prefixed with a banner naming the source file. Files that fail
// to extract are logged and skipped.
func Load(ctx context.Context, dir string, extractor Extractor) *Base {
	entries, err := os.ReadDir(dir)
	if err != nil {
		zap.L().Info("knowledge: directory not available, prompts will use generic guidance",
			zap.String("dir", dir),
		)
		return &Base{}
	}

	var b strings.Builder
	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		var content string
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".pdf":
			content, err = extractor.ExtractText(ctx, path)
			if err != nil {
				zap.L().Warn("knowledge: failed to extract pdf", zap.String("file", entry.Name()), zap.Error(err))
				continue
			}
		case ".txt", ".md":
			raw, readErr := os.ReadFile(path)
			if readErr != nil {
				zap.L().Warn("knowledge: failed to read file", zap.String("file", entry.Name()), zap.Error(readErr))
				continue
			}
			content = string(raw)
		default:
			continue
		}

		if strings.TrimSpace(content) == "" {
			continue
		}

		fmt.Fprintf(&b, "\n=== CONTEÚDO DO ARQUIVO: %s ===\n%s\n", entry.Name(), content)
		loaded++
	}

	text := b.String()
	if loaded == 0 {
		zap.L().Info("knowledge: no usable documents found", zap.String("dir", dir))
	} else {
		zap.L().Info("knowledge: base loaded",
			zap.Int("files", loaded),
			zap.Int("chars", len(text)),
		)
	}

	return &Base{text: text}
}
