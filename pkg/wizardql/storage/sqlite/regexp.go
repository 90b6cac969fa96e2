package sqlite

import (
	"fmt"
	"regexp"
	"sync"
)

var patterns sync.Map

// matchValue backs the SQL regexp(pattern, value) function. NULL never
// matches.
func matchValue(pattern string, value any) (bool, error) {
	var text string
	switch v := value.(type) {
	case nil:
		return false, nil
	case string:
		text = v
	case []byte:
		text = string(v)
	default:
		text = fmt.Sprint(v)
	}

	if re, ok := patterns.Load(pattern); ok {
		return re.(*regexp.Regexp).MatchString(text), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, err
	}
	patterns.Store(pattern, re)
	return re.MatchString(text), nil
}
