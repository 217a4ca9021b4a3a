package recognizer

import (
	"github.com/turtacn/GeneHighlighter/internal/config"
	"github.com/turtacn/GeneHighlighter/internal/infrastructure/monitoring/logging"
)

// FromConfig builds the configured recognizer. Model "lexicon" selects the
// built-in dictionary (extended from LexiconPath when set); anything else is
// forwarded to the HTTP service at Endpoint.
func FromConfig(cfg config.RecognizerConfig, logger logging.Logger) (Recognizer, error) {
	var r Recognizer
	if cfg.Model == config.ModelLexicon {
		lex := DefaultLexicon()
		if cfg.LexiconPath != "" {
			loaded, err := LoadLexicon(cfg.LexiconPath)
			if err != nil {
				return nil, err
			}
			lex = loaded
		}
		lr, err := NewLexiconRecognizer(lex)
		if err != nil {
			return nil, err
		}
		r = lr
	} else {
		hr, err := NewHTTPRecognizer(HTTPConfig{Endpoint: cfg.Endpoint, Model: cfg.Model, Timeout: cfg.Timeout}, logger)
		if err != nil {
			return nil, err
		}
		r = hr
	}

	if cfg.Serialize {
		r = Serialized(r)
	}
	return r, nil
}

//Personal.AI order the ending
