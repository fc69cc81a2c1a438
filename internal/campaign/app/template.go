package app

import "strings"

// renderContent substitutes {name}-style placeholders in the campaign content
// with the recipient's contact fields. Unknown placeholders are left intact;
// the transform is otherwise a black box to the dispatcher.
func renderContent(content string, vars map[string]string) string {
	if len(vars) == 0 || !strings.Contains(content, "{") {
		return content
	}
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(content)
}
