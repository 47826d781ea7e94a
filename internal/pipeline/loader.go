package pipeline

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/zwischenruf/internal/clean"
	"github.com/ppiankov/zwischenruf/internal/model"
)

// markupExtensions are read through the markup parser
var markupExtensions = map[string]bool{
	".html": true, ".htm": true, ".xml": true, ".xhtml": true,
}

// LoadSpeechFile reads one speech from a plain text or markup file
func LoadSpeechFile(path string, id int64, session int) (model.Speech, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Speech{}, fmt.Errorf("read speech: %w", err)
	}

	text := string(data)
	if markupExtensions[strings.ToLower(filepath.Ext(path))] {
		text, err = clean.TextFromMarkup(bytes.NewReader(data))
		if err != nil {
			return model.Speech{}, fmt.Errorf("read speech %s: %w", path, err)
		}
	}

	return model.Speech{ID: id, Session: session, Text: text}, nil
}
