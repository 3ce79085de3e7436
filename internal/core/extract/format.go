package extract

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"tico-dataset/internal/core/types"

	"gopkg.in/yaml.v2"
)

const DefaultFormat = "chat"

var ErrUnknownFormat = errors.New("unknown output format")

//go:embed formats.yaml
var defaultFormatsYAML []byte

type messageTemplate struct {
	role    string
	content *template.Template
}

type fieldTemplate struct {
	key   string
	value *template.Template
}

// Format turns an Entry into a record. A format either renders a chat
// transcript under "messages" or a flat object of templated fields.
type Format struct {
	Name     string
	messages []messageTemplate
	fields   []fieldTemplate
}

type formatsFile struct {
	Formats []struct {
		Name     string `yaml:"name"`
		Messages []struct {
			Role    string `yaml:"role"`
			Content string `yaml:"content"`
		} `yaml:"messages"`
		Fields []struct {
			Key   string `yaml:"key"`
			Value string `yaml:"value"`
		} `yaml:"fields"`
	} `yaml:"formats"`
}

func DefaultFormats() (map[string]*Format, error) {
	return ParseFormats(defaultFormatsYAML)
}

func ParseFormats(data []byte) (map[string]*Format, error) {
	var raw formatsFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("error parsing formats: %w", err)
	}

	formats := make(map[string]*Format, len(raw.Formats))
	for _, rf := range raw.Formats {
		if rf.Name == "" {
			return nil, fmt.Errorf("format without a name")
		}
		if _, exists := formats[rf.Name]; exists {
			return nil, fmt.Errorf("duplicate format %q", rf.Name)
		}
		if (len(rf.Messages) == 0) == (len(rf.Fields) == 0) {
			return nil, fmt.Errorf("format %q must define exactly one of messages or fields", rf.Name)
		}

		f := &Format{Name: rf.Name}
		for i, m := range rf.Messages {
			tmpl, err := template.New(fmt.Sprintf("%s.messages[%d]", rf.Name, i)).Option("missingkey=error").Parse(m.Content)
			if err != nil {
				return nil, fmt.Errorf("error parsing template for format %q: %w", rf.Name, err)
			}
			f.messages = append(f.messages, messageTemplate{role: m.Role, content: tmpl})
		}
		for _, fl := range rf.Fields {
			tmpl, err := template.New(rf.Name + "." + fl.Key).Option("missingkey=error").Parse(fl.Value)
			if err != nil {
				return nil, fmt.Errorf("error parsing template for format %q: %w", rf.Name, err)
			}
			f.fields = append(f.fields, fieldTemplate{key: fl.Key, value: tmpl})
		}
		formats[rf.Name] = f
	}

	return formats, nil
}

func Lookup(formats map[string]*Format, name string) (*Format, error) {
	f, ok := formats[name]
	if !ok {
		names := make([]string, 0, len(formats))
		for n := range formats {
			names = append(names, n)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("%w %q, available: %s", ErrUnknownFormat, name, strings.Join(names, ", "))
	}
	return f, nil
}

func (f *Format) Render(e Entry) (*types.Record, error) {
	if len(f.messages) > 0 {
		messages := make([]any, 0, len(f.messages))
		for _, m := range f.messages {
			content, err := execute(m.content, e)
			if err != nil {
				return nil, err
			}
			messages = append(messages, types.NewRecord(
				types.Field{Key: "role", Value: m.role},
				types.Field{Key: "content", Value: content},
			))
		}
		return types.NewRecord(types.Field{Key: "messages", Value: messages}), nil
	}

	rec := types.NewRecord()
	for _, fl := range f.fields {
		value, err := execute(fl.value, e)
		if err != nil {
			return nil, err
		}
		rec.Set(fl.key, value)
	}
	return rec, nil
}

func execute(tmpl *template.Template, e Entry) (string, error) {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, e); err != nil {
		return "", fmt.Errorf("error executing template %s: %w", tmpl.Name(), err)
	}
	return sb.String(), nil
}
