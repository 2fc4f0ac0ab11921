package rules

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dukex/operion-analyzer/pkg/models"
	"github.com/dukex/operion-analyzer/pkg/template"
	"github.com/xeipuuv/gojsonschema"
)

// ParameterSchemaRule validates node parameters against the JSON schema of
// their spec. Parameters written as expressions are resolved at run time, so
// schema violations on them are ignored.
type ParameterSchemaRule struct{}

func (ParameterSchemaRule) Name() string { return "parameter-schema" }

func (ParameterSchemaRule) Check(in Input) []models.Finding {
	findings := make([]models.Finding, 0)

	for _, node := range in.Graph.Nodes() {
		spec := in.Specs.SpecFor(node.Type)
		if len(spec.Parameters) == 0 {
			continue
		}

		parameters := node.Parameters
		if parameters == nil {
			parameters = map[string]any{}
		}

		result, err := gojsonschema.Validate(
			gojsonschema.NewGoLoader(spec.Parameters),
			gojsonschema.NewGoLoader(parameters),
		)
		if err != nil {
			findings = append(findings, models.Finding{
				Severity: models.SeverityError,
				Kind:     models.KindInvalidParameters,
				Message:  fmt.Sprintf("parameters of node %q could not be validated: %v", node.ID, err),
				NodeID:   node.ID,
			})

			continue
		}

		messages := make([]string, 0, len(result.Errors()))

		for _, desc := range result.Errors() {
			if isExpressionField(parameters, desc.Field()) {
				continue
			}

			messages = append(messages, desc.String())
		}

		slices.Sort(messages)

		for _, message := range messages {
			findings = append(findings, models.Finding{
				Severity: models.SeverityError,
				Kind:     models.KindInvalidParameters,
				Message:  fmt.Sprintf("node %q: %s", node.ID, message),
				NodeID:   node.ID,
			})
		}
	}

	return findings
}

func isExpressionField(parameters map[string]any, field string) bool {
	name, _, _ := strings.Cut(field, ".")

	value, ok := parameters[name].(string)

	return ok && template.IsExpression(value)
}
