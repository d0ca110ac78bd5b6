package extractor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/yoockh/cv-enhancer/internal/models"
)

// Extractor turns raw résumé bytes into structured data.
type Extractor interface {
	Extract(ctx context.Context, data []byte, mimeType string) (*models.ExtractedCV, error)
	Close() error
}

var (
	ErrEmptyInput = errors.New("extractor: empty input")
	ErrNoName     = errors.New("extractor: payload has no name")
	ErrNoContent  = errors.New("extractor: model returned no content")
)

const Prompt = `You are a résumé parser. Read the attached CV and return ONE JSON object, no markdown, no commentary.

Schema:
{
  "name": "full name",
  "profession": "current or target job title",
  "contact": {"email": "", "phone": "", "portfolio": null, "linkedin": null, "github": null},
  "experience": [{"company": null, "position": null, "duration": null, "description": null}],
  "education": [{"duration": "", "institution": "", "degree": ""}],
  "bio": null,
  "soft_skills": [],
  "technologies": [],
  "certifications": [],
  "native_language": null,
  "languages": [],
  "projects": [{"url": "", "technologies": [], "description": ""}]
}

Rules:
- Keep experience and education in the order they appear in the document.
- Use null for anything the document does not state. Do not guess.
- soft_skills and technologies must not contain duplicates.`

// isText reports whether the payload should be sent as plain text instead of an inline blob.
func isText(mimeType string) bool {
	return strings.HasPrefix(mimeType, "text/")
}

// Decode parses a model response into an ExtractedCV, tolerating code fences and leading chatter.
func Decode(raw string) (*models.ExtractedCV, error) {
	s := strings.TrimSpace(raw)
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return nil, ErrNoContent
	}
	s = s[start : end+1]

	var out models.ExtractedCV
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("decode extracted cv: %w", err)
	}
	if strings.TrimSpace(out.Name) == "" {
		return nil, ErrNoName
	}
	out.SoftSkills = dedupe(out.SoftSkills)
	out.Technologies = dedupe(out.Technologies)
	return &out, nil
}

// dedupe keeps first occurrences, case-insensitively, and drops blanks.
func dedupe(in []string) []string {
	if in == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		k := strings.ToLower(v)
		if v == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, v)
	}
	return out
}
