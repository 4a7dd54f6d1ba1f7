package gen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/syssam/ddlexport/dialect/sql/schema"
)

// fieldTag is the parsed form of a `ddl:"..."` struct tag.
type fieldTag struct {
	Name        string
	PK          bool
	Auto        bool
	Null        bool
	NotNull     bool
	Unique      bool
	Index       bool
	IndexName   string
	UniqueIndex string
	Size        int64
	Precision   int
	Scale       int
	Type        string
	Default     string
	Comment     string
	OnDelete    schema.ReferenceOption
	OnUpdate    schema.ReferenceOption
}

// parseTag parses a ddl struct tag. Options are separated by commas outside
// parentheses and single quotes, so "type=decimal(10,2)" and "default='a,b'"
// are single options.
func parseTag(tag string) (*fieldTag, error) {
	ft := &fieldTag{}
	if strings.TrimSpace(tag) == "" {
		return ft, nil
	}
	for _, opt := range splitOptions(tag) {
		key, value, hasValue := strings.Cut(strings.TrimSpace(opt), "=")
		var err error
		switch key {
		case "":
			continue
		case "pk":
			ft.PK = true
		case "auto":
			ft.Auto = true
		case "null":
			ft.Null = true
		case "notnull":
			ft.NotNull = true
		case "unique":
			ft.Unique = true
		case "index":
			ft.Index = true
			ft.IndexName = value
		case "name":
			ft.Name = value
		case "uniqueIndex":
			ft.UniqueIndex = value
		case "type":
			ft.Type = value
		case "default":
			ft.Default = value
		case "comment":
			ft.Comment = strings.Trim(value, "'")
		case "size":
			ft.Size, err = strconv.ParseInt(value, 10, 64)
			if err == nil && ft.Size <= 0 {
				err = fmt.Errorf("must be positive")
			}
		case "precision":
			ft.Precision, err = strconv.Atoi(value)
		case "scale":
			ft.Scale, err = strconv.Atoi(value)
		case "ondelete":
			ft.OnDelete, err = referenceOption(value)
		case "onupdate":
			ft.OnUpdate, err = referenceOption(value)
		default:
			return nil, fmt.Errorf("unknown tag option %q", key)
		}
		if err != nil {
			return nil, fmt.Errorf("tag option %q: %w", key, err)
		}
		if requiresValue(key) && (!hasValue || value == "") {
			return nil, fmt.Errorf("tag option %q requires a value", key)
		}
	}
	switch {
	case ft.Null && ft.NotNull:
		return nil, fmt.Errorf("tag options null and notnull are exclusive")
	case ft.Scale > ft.Precision && ft.Precision > 0:
		return nil, fmt.Errorf("scale %d exceeds precision %d", ft.Scale, ft.Precision)
	}
	return ft, nil
}

func requiresValue(key string) bool {
	switch key {
	case "name", "uniqueIndex", "type", "default", "comment", "size", "precision", "scale", "ondelete", "onupdate":
		return true
	}
	return false
}

func referenceOption(s string) (schema.ReferenceOption, error) {
	switch strings.ToLower(strings.NewReplacer("_", " ", "-", " ").Replace(s)) {
	case "cascade":
		return schema.Cascade, nil
	case "restrict":
		return schema.Restrict, nil
	case "set null":
		return schema.SetNull, nil
	case "set default":
		return schema.SetDefault, nil
	case "no action":
		return schema.NoAction, nil
	}
	return "", fmt.Errorf("unknown reference option %q", s)
}

func splitOptions(s string) []string {
	var (
		opts  []string
		depth int
		quote bool
		start int
	)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\'':
			quote = !quote
		case quote:
		case c == '(':
			depth++
		case c == ')':
			if depth > 0 {
				depth--
			}
		case c == ',' && depth == 0:
			opts = append(opts, s[start:i])
			start = i + 1
		}
	}
	return append(opts, s[start:])
}
