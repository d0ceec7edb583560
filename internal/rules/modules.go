package rules

import (
	"fmt"
	"strings"

	"github.com/ppiankov/emailqa/internal/model"
)

func checkModules(c *model.EmailComponents, rules map[string][]model.ModuleRule, segment, campaign string) *model.ModulesCheck {
	check := &model.ModulesCheck{
		RequiredModules: []string{},
		FoundModules:    []string{},
		MissingModules:  []string{},
	}

	var modules []model.ModuleRule
	for _, scope := range []string{segment, campaign} {
		if scope != "" && scope != model.ScopeAll {
			modules = append(modules, rules[scope]...)
		}
	}
	modules = append(modules, rules[model.ScopeAll]...)

	if len(modules) == 0 {
		check.Warn("No module requirements defined")
		return check
	}

	content := strings.ToLower(c.HTMLBody + " " + c.PlainBody)

	for _, module := range modules {
		check.RequiredModules = append(check.RequiredModules, module.Name)

		if containsAnyKeyword(content, module.Keywords) {
			check.FoundModules = append(check.FoundModules, module.Name)
			continue
		}

		check.MissingModules = append(check.MissingModules, module.Name)
		if module.IsRequired() {
			check.Issue(fmt.Sprintf("Required module missing: %s", module.Name))
		} else {
			check.Warn(fmt.Sprintf("Optional module missing: %s", module.Name))
		}
	}

	return check
}

func containsAnyKeyword(content string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(content, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
